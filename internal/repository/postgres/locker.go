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

type LockerRepo struct {
	DB DBTX
}

const createLocker = `-- name: CreateLocker
INSERT INTO lockers (id, restaurant_id, number, status)
VALUES ($1, $2, $3, $4)
RETURNING id, restaurant_id, number, status
`

func (r *LockerRepo) Create(ctx context.Context, locker models.Locker) (models.Locker, error) {
	if locker.ID == uuid.Nil {
		locker.ID = uuid.New()
	}
	if locker.Status == "" {
		locker.Status = models.LockerStatusAvailable
	}

	rows, _ := r.DB.Query(ctx, createLocker, locker.ID, locker.RestaurantID, locker.Number, locker.Status)
	locker, err := pgx.CollectOneRow(rows, rowToLocker)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return locker, apperrors.ErrLockerAlreadyExists
			case pgerrcode.ForeignKeyViolation:
				return locker, apperrors.ErrRestaurantNotFound
			}
		}

		return locker, fmt.Errorf("db error: %w", err)
	}

	return locker, nil
}

const getLocker = `-- name: GetLocker
SELECT id, restaurant_id, number, status FROM lockers
WHERE id = $1
`

func (r *LockerRepo) Get(ctx context.Context, id uuid.UUID, forUpdate bool) (models.Locker, error) {
	query := getLocker
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, _ := r.DB.Query(ctx, query, id)
	locker, err := pgx.CollectOneRow(rows, rowToLocker)

	switch {
	case err == nil:
		return locker, nil
	case errors.Is(err, pgx.ErrNoRows):
		return locker, apperrors.ErrLockerNotFound
	default:
		return locker, fmt.Errorf("db error: %w", err)
	}
}

const listLockers = `-- name: ListLockers
SELECT id, restaurant_id, number, status FROM lockers
ORDER BY restaurant_id, number
`

func (r *LockerRepo) List(ctx context.Context) ([]models.Locker, error) {
	rows, _ := r.DB.Query(ctx, listLockers)
	lockers, err := pgx.CollectRows(rows, rowToLocker)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return lockers, nil
}

const updateLocker = `-- name: UpdateLocker
UPDATE lockers SET restaurant_id = $2, number = $3, status = $4
WHERE id = $1
RETURNING id, restaurant_id, number, status
`

// Update is the administrative path; it is the only way a locker enters
// or leaves maintenance.
func (r *LockerRepo) Update(ctx context.Context, locker models.Locker) (models.Locker, error) {
	rows, _ := r.DB.Query(ctx, updateLocker, locker.ID, locker.RestaurantID, locker.Number, locker.Status)
	locker, err := pgx.CollectOneRow(rows, rowToLocker)

	switch {
	case err == nil:
		return locker, nil
	case errors.Is(err, pgx.ErrNoRows):
		return locker, apperrors.ErrLockerNotFound
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return locker, apperrors.ErrLockerAlreadyExists
			case pgerrcode.ForeignKeyViolation:
				return locker, apperrors.ErrRestaurantNotFound
			}
		}
		return locker, fmt.Errorf("db error: %w", err)
	}
}

func (r *LockerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM lockers WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return apperrors.ErrReferenced
		}
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLockerNotFound
	}

	return nil
}

func (r *LockerRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE lockers SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLockerNotFound
	}

	return nil
}

func rowToLocker(row pgx.CollectableRow) (models.Locker, error) {
	var l models.Locker
	err := row.Scan(&l.ID, &l.RestaurantID, &l.Number, &l.Status)
	return l, err
}
