package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/ucampus/refectory/internal/apperrors"
	"github.com/ucampus/refectory/internal/models"
)

type AccountRepo struct {
	DB DBTX
}

const createAccount = `-- name: CreateAccount
INSERT INTO accounts (id, name, registration, group_id, balance)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, name, registration, group_id, balance
`

func (r *AccountRepo) Create(ctx context.Context, account models.Account) (models.Account, error) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createAccount, account.ID, account.Name, account.Registration, account.GroupID, account.Balance)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return account, apperrors.ErrAccountAlreadyExists
			case pgerrcode.ForeignKeyViolation:
				return account, apperrors.ErrGroupNotFound
			}
		}

		return account, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

const getAccount = `-- name: GetAccount
SELECT id, created_at, name, registration, group_id, balance FROM accounts
WHERE id = $1
`

func (r *AccountRepo) Get(ctx context.Context, id uuid.UUID, forUpdate bool) (models.Account, error) {
	query := getAccount
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, _ := r.DB.Query(ctx, query, id)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, pgx.ErrNoRows):
		return account, apperrors.ErrAccountNotFound
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

const listAccounts = `-- name: ListAccounts
SELECT id, created_at, name, registration, group_id, balance FROM accounts
ORDER BY created_at
`

func (r *AccountRepo) List(ctx context.Context) ([]models.Account, error) {
	rows, _ := r.DB.Query(ctx, listAccounts)
	accounts, err := pgx.CollectRows(rows, rowToAccount)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return accounts, nil
}

const updateAccount = `-- name: UpdateAccount
UPDATE accounts SET name = $2, registration = $3, group_id = $4
WHERE id = $1
RETURNING id, created_at, name, registration, group_id, balance
`

// Update changes identity fields only. Balance is the ledger's to mutate.
func (r *AccountRepo) Update(ctx context.Context, account models.Account) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, updateAccount, account.ID, account.Name, account.Registration, account.GroupID)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, pgx.ErrNoRows):
		return account, apperrors.ErrAccountNotFound
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return account, apperrors.ErrAccountAlreadyExists
			case pgerrcode.ForeignKeyViolation:
				return account, apperrors.ErrGroupNotFound
			}
		}
		return account, fmt.Errorf("db error: %w", err)
	}
}

func (r *AccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return apperrors.ErrReferenced
		}
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}

const applyBalance = `-- name: ApplyBalance
UPDATE accounts SET balance = balance + $2
WHERE id = $1
RETURNING balance
`

// ApplyBalance must run with the account row already locked: callers read
// the balance under FOR UPDATE first, so the check constraint on the
// column is only a backstop.
func (r *AccountRepo) ApplyBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	rows, _ := r.DB.Query(ctx, applyBalance, id, delta)
	balance, err := pgx.CollectOneRow(rows, pgx.RowTo[decimal.Decimal])

	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, pgx.ErrNoRows):
		return balance, apperrors.ErrAccountNotFound
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return balance, apperrors.ErrInsufficientFunds
		}
		return balance, fmt.Errorf("db error: %w", err)
	}
}

func rowToAccount(row pgx.CollectableRow) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.CreatedAt, &a.Name, &a.Registration, &a.GroupID, &a.Balance)
	return a, err
}
