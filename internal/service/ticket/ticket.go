package ticket

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ucampus/refectory/internal/apperrors"
	"github.com/ucampus/refectory/internal/models"
	"github.com/ucampus/refectory/internal/repository"
)

type TicketService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *TicketService {
	return &TicketService{
		storage: storage,
	}
}

// Purchase issues a ticket paid from the account balance.
//
// The whole flow runs in one database transaction with the account row
// locked first, so concurrent purchases for the same account serialize
// and the second one observes the post-debit balance. Any failure rolls
// everything back: no ticket without its debit, no debit without its
// ticket.
func (s *TicketService) Purchase(ctx context.Context, accountID, ticketTypeID, restaurantID uuid.UUID) (models.Ticket, error) {
	var ticket models.Ticket

	err := s.storage.InTx(ctx, func(store repository.Storage) error {
		account, err := store.Account().Get(ctx, accountID, true)
		if err != nil {
			return err
		}

		price, err := store.PriceRule().ResolvePrice(ctx, account.GroupID, ticketTypeID)
		if err != nil {
			return err
		}

		if account.Balance.LessThan(price) {
			return apperrors.ErrInsufficientFunds
		}

		if _, err := store.Account().ApplyBalance(ctx, accountID, price.Neg()); err != nil {
			return fmt.Errorf("can't debit account: %w", err)
		}

		transaction, err := store.Transaction().Create(ctx, models.Transaction{
			AccountID:    accountID,
			RestaurantID: &restaurantID,
			Type:         models.TransactionTypePurchase,
			Amount:       price,
		})
		if err != nil {
			return fmt.Errorf("can't record purchase transaction: %w", err)
		}

		ticket, err = store.Ticket().Create(ctx, models.Ticket{
			AccountID:     accountID,
			TicketTypeID:  ticketTypeID,
			TransactionID: transaction.ID,
			Status:        models.TicketStatusActive,
		})
		if err != nil {
			return fmt.Errorf("can't issue ticket: %w", err)
		}

		return nil
	})
	if err != nil {
		return models.Ticket{}, err
	}

	return ticket, nil
}

// Cancel transitions the ticket to cancelled. The ledger is not touched:
// whether cancellation should refund the purchase is an unresolved
// product decision, so no refund is written.
func (s *TicketService) Cancel(ctx context.Context, ticketID uuid.UUID) (models.Ticket, error) {
	return s.storage.Ticket().Cancel(ctx, ticketID)
}

func (s *TicketService) Get(ctx context.Context, ticketID uuid.UUID) (models.Ticket, error) {
	return s.storage.Ticket().Get(ctx, ticketID)
}

func (s *TicketService) ListForAccount(ctx context.Context, accountID uuid.UUID) ([]models.Ticket, error) {
	return s.storage.Ticket().ListForAccount(ctx, accountID)
}
