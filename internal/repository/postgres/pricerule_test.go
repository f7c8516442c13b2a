package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ucampus/refectory/internal/apperrors"
	"github.com/ucampus/refectory/internal/models"
	"github.com/ucampus/refectory/internal/testutil"
)

func TestPriceRuleRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("resolve picks the rule for the group and ticket type", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := NewStorage(tx)

			students := createGroup(t, storage, "students")
			staff := createGroup(t, storage, "staff")

			lunch, err := storage.TicketType().Create(t.Context(), models.TicketType{Name: "lunch"})
			require.NoError(t, err)

			_, err = storage.PriceRule().Create(t.Context(), models.PriceRule{
				GroupID:      students.ID,
				TicketTypeID: lunch.ID,
				Price:        decimal.RequireFromString("6.10"),
			})
			require.NoError(t, err)

			_, err = storage.PriceRule().Create(t.Context(), models.PriceRule{
				GroupID:      staff.ID,
				TicketTypeID: lunch.ID,
				Price:        decimal.RequireFromString("9.80"),
			})
			require.NoError(t, err)

			price, err := storage.PriceRule().ResolvePrice(t.Context(), students.ID, lunch.ID)
			require.NoError(t, err)
			require.True(t, price.Equal(decimal.RequireFromString("6.10")))

			price, err = storage.PriceRule().ResolvePrice(t.Context(), staff.ID, lunch.ID)
			require.NoError(t, err)
			require.True(t, price.Equal(decimal.RequireFromString("9.80")))
		})
	})

	t.Run("resolve without a matching rule", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := NewStorage(tx)

			students := createGroup(t, storage, "students")
			dinner, err := storage.TicketType().Create(t.Context(), models.TicketType{Name: "dinner"})
			require.NoError(t, err)

			_, err = storage.PriceRule().ResolvePrice(t.Context(), students.ID, dinner.ID)

			require.ErrorIs(t, err, apperrors.ErrPriceRuleNotFound)
		})
	})

	t.Run("duplicate rule for the same pair", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := NewStorage(tx)

			students := createGroup(t, storage, "students")
			lunch, err := storage.TicketType().Create(t.Context(), models.TicketType{Name: "lunch"})
			require.NoError(t, err)

			rule := models.PriceRule{
				GroupID:      students.ID,
				TicketTypeID: lunch.ID,
				Price:        decimal.RequireFromString("6.10"),
			}
			_, err = storage.PriceRule().Create(t.Context(), rule)
			require.NoError(t, err)

			_, err = storage.PriceRule().Create(t.Context(), rule)
			require.ErrorIs(t, err, apperrors.ErrPriceRuleAlreadyExists)
		})
	})
}
