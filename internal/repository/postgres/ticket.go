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

type TicketRepo struct {
	DB DBTX
}

const createTicket = `-- name: CreateTicket
INSERT INTO tickets (id, account_id, ticket_type_id, transaction_id, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, account_id, ticket_type_id, transaction_id, status
`

func (r *TicketRepo) Create(ctx context.Context, ticket models.Ticket) (models.Ticket, error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	if ticket.Status == "" {
		ticket.Status = models.TicketStatusActive
	}

	rows, _ := r.DB.Query(ctx, createTicket,
		ticket.ID, ticket.AccountID, ticket.TicketTypeID, ticket.TransactionID, ticket.Status)
	ticket, err := pgx.CollectOneRow(rows, rowToTicket)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				// transaction_id is unique: one ticket per purchase
				return ticket, apperrors.ErrAlreadyExists
			case pgerrcode.ForeignKeyViolation:
				return ticket, apperrors.ErrMissingReference
			}
		}

		return ticket, fmt.Errorf("db error: %w", err)
	}

	return ticket, nil
}

const getTicket = `-- name: GetTicket
SELECT id, created_at, account_id, ticket_type_id, transaction_id, status FROM tickets
WHERE id = $1
`

func (r *TicketRepo) Get(ctx context.Context, id uuid.UUID) (models.Ticket, error) {
	rows, _ := r.DB.Query(ctx, getTicket, id)
	ticket, err := pgx.CollectOneRow(rows, rowToTicket)

	switch {
	case err == nil:
		return ticket, nil
	case errors.Is(err, pgx.ErrNoRows):
		return ticket, apperrors.ErrTicketNotFound
	default:
		return ticket, fmt.Errorf("db error: %w", err)
	}
}

const listTicketsForAccount = `-- name: ListTicketsForAccount
SELECT id, created_at, account_id, ticket_type_id, transaction_id, status FROM tickets
WHERE account_id = $1
ORDER BY created_at DESC
`

func (r *TicketRepo) ListForAccount(ctx context.Context, accountID uuid.UUID) ([]models.Ticket, error) {
	rows, _ := r.DB.Query(ctx, listTicketsForAccount, accountID)
	tickets, err := pgx.CollectRows(rows, rowToTicket)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tickets, nil
}

const cancelTicket = `-- name: CancelTicket
UPDATE tickets SET status = 'cancelled'
WHERE id = $1 AND status = 'active'
RETURNING id, created_at, account_id, ticket_type_id, transaction_id, status
`

// Cancel is a pure status transition; the purchase transaction it links
// to stays untouched.
func (r *TicketRepo) Cancel(ctx context.Context, id uuid.UUID) (models.Ticket, error) {
	rows, _ := r.DB.Query(ctx, cancelTicket, id)
	ticket, err := pgx.CollectOneRow(rows, rowToTicket)

	if err == nil {
		return ticket, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return ticket, fmt.Errorf("db error: %w", err)
	}

	// Distinguish a missing ticket from one already cancelled
	ticket, err = r.Get(ctx, id)
	if err != nil {
		return ticket, err
	}

	return ticket, apperrors.ErrTicketAlreadyCancelled
}

func rowToTicket(row pgx.CollectableRow) (models.Ticket, error) {
	var t models.Ticket
	err := row.Scan(&t.ID, &t.CreatedAt, &t.AccountID, &t.TicketTypeID, &t.TransactionID, &t.Status)
	return t, err
}
