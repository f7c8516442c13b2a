package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ucampus/refectory/internal/models"
	"github.com/ucampus/refectory/internal/repository"
)

// LedgerService is the sole authority over account balances. Every
// balance change is paired with an append-only transaction row inside
// one database transaction.
type LedgerService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *LedgerService {
	return &LedgerService{
		storage: storage,
	}
}

// AddCredit tops up the account and records a credit transaction.
// Both writes commit together or not at all.
func (s *LedgerService) AddCredit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal

	err := s.storage.InTx(ctx, func(store repository.Storage) error {
		// Lock the account row so concurrent ledger operations serialize
		if _, err := store.Account().Get(ctx, accountID, true); err != nil {
			return err
		}

		_, err := store.Transaction().Create(ctx, models.Transaction{
			AccountID: accountID,
			Type:      models.TransactionTypeCredit,
			Amount:    amount,
		})
		if err != nil {
			return fmt.Errorf("can't record credit transaction: %w", err)
		}

		balance, err = store.Account().ApplyBalance(ctx, accountID, amount)
		if err != nil {
			return fmt.Errorf("can't apply credit to balance: %w", err)
		}

		return nil
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	return balance, nil
}

// History returns the account's enriched transactions, most recent first.
func (s *LedgerService) History(ctx context.Context, accountID uuid.UUID) ([]models.HistoryEntry, error) {
	return s.storage.Transaction().HistoryForAccount(ctx, accountID)
}
