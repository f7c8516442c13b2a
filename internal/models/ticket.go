package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TicketStatusActive    = "active"
	TicketStatusCancelled = "cancelled"
)

// Ticket is a redeemable meal credential tied to exactly one purchase
// transaction.
type Ticket struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	AccountID     uuid.UUID
	TicketTypeID  uuid.UUID
	TransactionID uuid.UUID
	Status        string
}

type TicketType struct {
	ID          uuid.UUID
	Name        string
	Description string
}

// PriceRule maps a (group, ticket type) pair to a price.
// Unique per combination.
type PriceRule struct {
	ID           uuid.UUID
	GroupID      uuid.UUID
	TicketTypeID uuid.UUID
	Price        decimal.Decimal
}
