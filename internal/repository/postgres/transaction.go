package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ucampus/refectory/internal/apperrors"
	"github.com/ucampus/refectory/internal/models"
)

type TransactionRepo struct {
	DB DBTX
}

const createTransaction = `-- name: CreateTransaction
INSERT INTO transactions (id, account_id, restaurant_id, type, amount)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, account_id, restaurant_id, type, amount
`

func (r *TransactionRepo) Create(ctx context.Context, transaction models.Transaction) (models.Transaction, error) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createTransaction,
		transaction.ID, transaction.AccountID, transaction.RestaurantID, transaction.Type, transaction.Amount)
	transaction, err := pgx.CollectOneRow(rows, rowToTransaction)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			switch pgErr.ConstraintName {
			case "transactions_account_id_fkey":
				return transaction, apperrors.ErrAccountNotFound
			case "transactions_restaurant_id_fkey":
				return transaction, apperrors.ErrRestaurantNotFound
			}
			return transaction, apperrors.ErrMissingReference
		}

		return transaction, fmt.Errorf("db error: %w", err)
	}

	return transaction, nil
}

const historyForAccount = `-- name: HistoryForAccount
SELECT t.id, t.created_at, t.account_id, t.restaurant_id, t.type, t.amount,
       a.name, g.name, r.name
FROM transactions t
JOIN accounts a ON a.id = t.account_id
JOIN groups g ON g.id = a.group_id
LEFT JOIN restaurants r ON r.id = t.restaurant_id
WHERE t.account_id = $1
ORDER BY t.created_at DESC
`

func (r *TransactionRepo) HistoryForAccount(ctx context.Context, accountID uuid.UUID) ([]models.HistoryEntry, error) {
	rows, _ := r.DB.Query(ctx, historyForAccount, accountID)
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.HistoryEntry, error) {
		var e models.HistoryEntry
		err := row.Scan(&e.ID, &e.CreatedAt, &e.AccountID, &e.RestaurantID, &e.Type, &e.Amount,
			&e.AccountName, &e.GroupName, &e.RestaurantName)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}

func rowToTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.CreatedAt, &t.AccountID, &t.RestaurantID, &t.Type, &t.Amount)
	return t, err
}
