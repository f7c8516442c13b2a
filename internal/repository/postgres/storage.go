package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ucampus/refectory/internal/repository"
)

// DBTX is satisfied by pgxpool.Pool and pgx.Tx, so the same repository
// code works inside and outside an explicit transaction.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) repository.Storage {
	return &Storage{db: db}
}

func (s *Storage) Account() repository.AccountRepo {
	return &AccountRepo{DB: s.db}
}

func (s *Storage) Transaction() repository.TransactionRepo {
	return &TransactionRepo{DB: s.db}
}

func (s *Storage) Ticket() repository.TicketRepo {
	return &TicketRepo{DB: s.db}
}

func (s *Storage) PriceRule() repository.PriceRuleRepo {
	return &PriceRuleRepo{DB: s.db}
}

func (s *Storage) Locker() repository.LockerRepo {
	return &LockerRepo{DB: s.db}
}

func (s *Storage) LockerUsage() repository.LockerUsageRepo {
	return &LockerUsageRepo{DB: s.db}
}

func (s *Storage) Restaurant() repository.RestaurantRepo {
	return &RestaurantRepo{DB: s.db}
}

func (s *Storage) Group() repository.GroupRepo {
	return &GroupRepo{DB: s.db}
}

func (s *Storage) TicketType() repository.TicketTypeRepo {
	return &TicketTypeRepo{DB: s.db}
}

func (s *Storage) Category() repository.CategoryRepo {
	return &CategoryRepo{DB: s.db}
}

func (s *Storage) MenuItem() repository.MenuItemRepo {
	return &MenuItemRepo{DB: s.db}
}

func (s *Storage) Menu() repository.MenuRepo {
	return &MenuRepo{DB: s.db}
}

func (s *Storage) Employee() repository.EmployeeRepo {
	return &EmployeeRepo{DB: s.db}
}

func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db tx error: %w", err)
	}

	defer func() {
		switch err {
		case nil:
			err = tx.Commit(ctx)
		default:
			_ = tx.Rollback(ctx)
		}
	}()

	err = fn(NewStorage(tx))

	return err
}
