package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ucampus/refectory/internal/apperrors"
	"github.com/ucampus/refectory/internal/models"
	"github.com/ucampus/refectory/internal/repository"
	"github.com/ucampus/refectory/internal/testutil"
)

func createGroup(t *testing.T, storage repository.Storage, name string) models.Group {
	t.Helper()

	group, err := storage.Group().Create(t.Context(), models.Group{Name: name})
	require.NoError(t, err)
	return group
}

func TestAccountRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("create and get", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := NewStorage(tx)
			group := createGroup(t, storage, "students")

			created, err := storage.Account().Create(t.Context(), models.Account{
				Name:         "Test Diner",
				Registration: "2026-0001",
				GroupID:      group.ID,
				Balance:      decimal.RequireFromString("12.50"),
			})

			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, created.ID, "id should be generated")
			require.NotZero(t, created.CreatedAt)

			got, err := storage.Account().Get(t.Context(), created.ID, false)
			require.NoError(t, err)
			require.Equal(t, created.ID, got.ID)
			require.Equal(t, "2026-0001", got.Registration)
			require.True(t, got.Balance.Equal(decimal.RequireFromString("12.50")))
		})
	})

	t.Run("duplicate registration", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := NewStorage(tx)
			group := createGroup(t, storage, "students")

			account := models.Account{Name: "Test Diner", Registration: "2026-0001", GroupID: group.ID}
			_, err := storage.Account().Create(t.Context(), account)
			require.NoError(t, err)

			_, err = storage.Account().Create(t.Context(), account)
			require.ErrorIs(t, err, apperrors.ErrAccountAlreadyExists)
		})
	})

	t.Run("create with unknown group", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := NewStorage(tx)

			_, err := storage.Account().Create(t.Context(), models.Account{
				Name:         "Test Diner",
				Registration: "2026-0001",
				GroupID:      uuid.New(),
			})

			require.ErrorIs(t, err, apperrors.ErrGroupNotFound)
		})
	})

	t.Run("get missing account", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := NewStorage(tx)

			_, err := storage.Account().Get(t.Context(), uuid.New(), false)

			require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
		})
	})

	t.Run("apply balance below zero hits the check constraint", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := NewStorage(tx)
			group := createGroup(t, storage, "students")

			account, err := storage.Account().Create(t.Context(), models.Account{
				Name:         "Test Diner",
				Registration: "2026-0001",
				GroupID:      group.ID,
				Balance:      decimal.RequireFromString("5.00"),
			})
			require.NoError(t, err)

			_, err = storage.Account().ApplyBalance(t.Context(), account.ID, decimal.RequireFromString("-6.00"))

			require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
		})
	})

	t.Run("delete referenced account", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := NewStorage(tx)
			group := createGroup(t, storage, "students")

			account, err := storage.Account().Create(t.Context(), models.Account{
				Name:         "Test Diner",
				Registration: "2026-0001",
				GroupID:      group.ID,
			})
			require.NoError(t, err)

			_, err = storage.Transaction().Create(t.Context(), models.Transaction{
				AccountID: account.ID,
				Type:      models.TransactionTypeCredit,
				Amount:    decimal.RequireFromString("1.00"),
			})
			require.NoError(t, err)

			err = storage.Account().Delete(t.Context(), account.ID)

			require.ErrorIs(t, err, apperrors.ErrReferenced)
		})
	})
}
