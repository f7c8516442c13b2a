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

type PriceRuleRepo struct {
	DB DBTX
}

const resolvePrice = `-- name: ResolvePrice
SELECT price FROM price_rules
WHERE group_id = $1 AND ticket_type_id = $2
`

func (r *PriceRuleRepo) ResolvePrice(ctx context.Context, groupID uuid.UUID, ticketTypeID uuid.UUID) (decimal.Decimal, error) {
	rows, _ := r.DB.Query(ctx, resolvePrice, groupID, ticketTypeID)
	price, err := pgx.CollectOneRow(rows, pgx.RowTo[decimal.Decimal])

	switch {
	case err == nil:
		return price, nil
	case errors.Is(err, pgx.ErrNoRows):
		return price, apperrors.ErrPriceRuleNotFound
	default:
		return price, fmt.Errorf("db error: %w", err)
	}
}

const createPriceRule = `-- name: CreatePriceRule
INSERT INTO price_rules (id, group_id, ticket_type_id, price)
VALUES ($1, $2, $3, $4)
RETURNING id, group_id, ticket_type_id, price
`

func (r *PriceRuleRepo) Create(ctx context.Context, rule models.PriceRule) (models.PriceRule, error) {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createPriceRule, rule.ID, rule.GroupID, rule.TicketTypeID, rule.Price)
	rule, err := pgx.CollectOneRow(rows, rowToPriceRule)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return rule, apperrors.ErrPriceRuleAlreadyExists
			case pgerrcode.ForeignKeyViolation:
				return rule, apperrors.ErrMissingReference
			}
		}

		return rule, fmt.Errorf("db error: %w", err)
	}

	return rule, nil
}

const listPriceRules = `-- name: ListPriceRules
SELECT id, group_id, ticket_type_id, price FROM price_rules
ORDER BY group_id, ticket_type_id
`

func (r *PriceRuleRepo) List(ctx context.Context) ([]models.PriceRule, error) {
	rows, _ := r.DB.Query(ctx, listPriceRules)
	rules, err := pgx.CollectRows(rows, rowToPriceRule)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rules, nil
}

func (r *PriceRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM price_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPriceRuleNotFound
	}

	return nil
}

func rowToPriceRule(row pgx.CollectableRow) (models.PriceRule, error) {
	var p models.PriceRule
	err := row.Scan(&p.ID, &p.GroupID, &p.TicketTypeID, &p.Price)
	return p, err
}
