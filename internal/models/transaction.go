package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionTypePurchase = "purchase"
	TransactionTypeCredit   = "credit"
	TransactionTypeRefund   = "refund"
)

// Transaction is an immutable ledger entry. Rows are append-only,
// never updated or deleted.
type Transaction struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	AccountID    uuid.UUID
	RestaurantID *uuid.UUID
	Type         string
	Amount       decimal.Decimal
}

// HistoryEntry is a transaction enriched with account, group and
// restaurant context for audit and display.
type HistoryEntry struct {
	Transaction
	AccountName    string
	GroupName      string
	RestaurantName *string
}
