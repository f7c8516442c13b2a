package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account holds a diner's identity and monetary balance.
// Balance is mutated only through ledger operations, never by plain CRUD.
type Account struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	Name         string
	Registration string
	GroupID      uuid.UUID
	Balance      decimal.Decimal
}
