package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ucampus/refectory/internal/apperrors"
	"github.com/ucampus/refectory/internal/models"
	"github.com/ucampus/refectory/internal/repository"
)

type LockerUsageRepo struct {
	DB DBTX
}

const createOpenUsage = `-- name: CreateOpenUsage
INSERT INTO locker_usages (id, locker_id, account_id)
VALUES ($1, $2, $3)
RETURNING id, locker_id, account_id, checked_in_at, checked_out_at
`

func (r *LockerUsageRepo) CreateOpen(ctx context.Context, lockerID uuid.UUID, accountID uuid.UUID) (models.LockerUsage, error) {
	rows, _ := r.DB.Query(ctx, createOpenUsage, uuid.New(), lockerID, accountID)
	usage, err := pgx.CollectOneRow(rows, rowToUsage)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				// partial unique index: the locker already has an open usage
				return usage, apperrors.ErrLockerNotAvailable
			case pgerrcode.ForeignKeyViolation:
				if pgErr.ConstraintName == "locker_usages_account_id_fkey" {
					return usage, apperrors.ErrAccountNotFound
				}
				return usage, apperrors.ErrLockerNotFound
			}
		}

		return usage, fmt.Errorf("db error: %w", err)
	}

	return usage, nil
}

const getOpenUsage = `-- name: GetOpenUsage
SELECT id, locker_id, account_id, checked_in_at, checked_out_at FROM locker_usages
WHERE locker_id = $1 AND checked_out_at IS NULL
`

func (r *LockerUsageRepo) GetOpenForLocker(ctx context.Context, lockerID uuid.UUID, forUpdate bool) (models.LockerUsage, error) {
	query := getOpenUsage
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, _ := r.DB.Query(ctx, query, lockerID)
	usage, err := pgx.CollectOneRow(rows, rowToUsage)

	switch {
	case err == nil:
		return usage, nil
	case errors.Is(err, pgx.ErrNoRows):
		return usage, apperrors.ErrNoActiveCheckIn
	default:
		return usage, fmt.Errorf("db error: %w", err)
	}
}

const closeUsage = `-- name: CloseUsage
UPDATE locker_usages SET checked_out_at = $2
WHERE id = $1 AND checked_out_at IS NULL
RETURNING id, locker_id, account_id, checked_in_at, checked_out_at
`

func (r *LockerUsageRepo) Close(ctx context.Context, id uuid.UUID, at time.Time) (models.LockerUsage, error) {
	rows, _ := r.DB.Query(ctx, closeUsage, id, at)
	usage, err := pgx.CollectOneRow(rows, rowToUsage)

	switch {
	case err == nil:
		return usage, nil
	case errors.Is(err, pgx.ErrNoRows):
		return usage, apperrors.ErrNoActiveCheckIn
	default:
		return usage, fmt.Errorf("db error: %w", err)
	}
}

func (r *LockerUsageRepo) List(ctx context.Context, filter repository.UsageFilter) ([]models.LockerUsage, error) {
	query := `SELECT id, locker_id, account_id, checked_in_at, checked_out_at FROM locker_usages`
	args := []any{}

	switch {
	case filter.LockerID != nil && filter.AccountID != nil:
		query += ` WHERE locker_id = $1 AND account_id = $2`
		args = append(args, *filter.LockerID, *filter.AccountID)
	case filter.LockerID != nil:
		query += ` WHERE locker_id = $1`
		args = append(args, *filter.LockerID)
	case filter.AccountID != nil:
		query += ` WHERE account_id = $1`
		args = append(args, *filter.AccountID)
	}
	query += ` ORDER BY checked_in_at DESC`

	rows, _ := r.DB.Query(ctx, query, args...)
	usages, err := pgx.CollectRows(rows, rowToUsage)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return usages, nil
}

func rowToUsage(row pgx.CollectableRow) (models.LockerUsage, error) {
	var u models.LockerUsage
	err := row.Scan(&u.ID, &u.LockerID, &u.AccountID, &u.CheckedInAt, &u.CheckedOutAt)
	return u, err
}
