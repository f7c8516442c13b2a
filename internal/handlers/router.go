package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ucampus/refectory/internal/handlers/middleware"
	"github.com/ucampus/refectory/internal/logger"
	"github.com/ucampus/refectory/internal/models"
	"github.com/ucampus/refectory/internal/repository"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	ledgerService ledgerService,
	ticketService ticketService,
	lockerService lockerService,
	storage repository.Storage,
	logger logger.Logger,
) http.Handler {
	api := http.NewServeMux()

	// Accounts and the ledger operations on them
	api.Handle("POST /accounts", handleCreateAccount(storage, logger))
	api.Handle("GET /accounts", handleListAccounts(storage, logger))
	api.Handle("GET /accounts/{accountID}", handleGetAccount(storage, logger))
	api.Handle("PUT /accounts/{accountID}", handleUpdateAccount(storage, logger))
	api.Handle("DELETE /accounts/{accountID}", handleDeleteAccount(storage, logger))
	api.Handle("POST /accounts/{accountID}/credit", handleAddCredit(ledgerService, logger))
	api.Handle("GET /accounts/{accountID}/transactions", handleAccountHistory(ledgerService, logger))
	api.Handle("POST /accounts/{accountID}/tickets", handlePurchaseTicket(ticketService, logger))
	api.Handle("GET /accounts/{accountID}/tickets", handleListAccountTickets(ticketService, logger))

	api.Handle("GET /tickets/{ticketID}", handleGetTicket(ticketService, logger))
	api.Handle("POST /tickets/{ticketID}/cancel", handleCancelTicket(ticketService, logger))

	// Lockers and occupancy
	api.Handle("POST /lockers", handleCreateLocker(storage, logger))
	api.Handle("GET /lockers", handleListLockers(storage, logger))
	api.Handle("PUT /lockers/{lockerID}", handleUpdateLocker(storage, logger))
	api.Handle("DELETE /lockers/{lockerID}", handleDeleteLocker(storage, logger))
	api.Handle("POST /lockers/{lockerID}/checkin", handleCheckIn(lockerService, logger))
	api.Handle("POST /lockers/{lockerID}/checkout", handleCheckOut(lockerService, logger))
	api.Handle("GET /locker-usages", handleListUsages(lockerService, logger))

	// Catalog collaborators
	api.Handle("POST /restaurants", handleCreateRestaurant(storage, logger))
	api.Handle("GET /restaurants", handleListRestaurants(storage, logger))
	api.Handle("GET /restaurants/{restaurantID}", handleGetRestaurant(storage, logger))
	api.Handle("PUT /restaurants/{restaurantID}", handleUpdateRestaurant(storage, logger))
	api.Handle("DELETE /restaurants/{restaurantID}", handleDeleteRestaurant(storage, logger))

	api.Handle("POST /groups", handleCreateGroup(storage, logger))
	api.Handle("GET /groups", handleListGroups(storage, logger))
	api.Handle("PUT /groups/{groupID}", handleUpdateGroup(storage, logger))
	api.Handle("DELETE /groups/{groupID}", handleDeleteGroup(storage, logger))

	api.Handle("POST /ticket-types", handleCreateTicketType(storage, logger))
	api.Handle("GET /ticket-types", handleListTicketTypes(storage, logger))
	api.Handle("PUT /ticket-types/{ticketTypeID}", handleUpdateTicketType(storage, logger))
	api.Handle("DELETE /ticket-types/{ticketTypeID}", handleDeleteTicketType(storage, logger))

	api.Handle("POST /price-rules", handleCreatePriceRule(storage, logger))
	api.Handle("GET /price-rules", handleListPriceRules(storage, logger))
	api.Handle("DELETE /price-rules/{priceRuleID}", handleDeletePriceRule(storage, logger))

	api.Handle("POST /categories", handleCreateCategory(storage, logger))
	api.Handle("GET /categories", handleListCategories(storage, logger))
	api.Handle("PUT /categories/{categoryID}", handleUpdateCategory(storage, logger))
	api.Handle("DELETE /categories/{categoryID}", handleDeleteCategory(storage, logger))

	api.Handle("POST /menu-items", handleCreateMenuItem(storage, logger))
	api.Handle("GET /menu-items", handleListMenuItems(storage, logger))
	api.Handle("PUT /menu-items/{menuItemID}", handleUpdateMenuItem(storage, logger))
	api.Handle("DELETE /menu-items/{menuItemID}", handleDeleteMenuItem(storage, logger))

	// Menu composition per restaurant, date and meal type
	api.Handle("POST /menus", handleCreateMenu(storage, logger))
	api.Handle("GET /menus", handleFindMenu(storage, logger))
	api.Handle("DELETE /menus/{menuID}", handleDeleteMenu(storage, logger))
	api.Handle("POST /menus/{menuID}/items", handleAddMenuEntry(storage, logger))
	api.Handle("DELETE /menus/{menuID}/items/{menuItemID}", handleRemoveMenuEntry(storage, logger))

	api.Handle("POST /employees", handleCreateEmployee(storage, logger))
	api.Handle("GET /employees", handleListEmployees(storage, logger))
	api.Handle("PUT /employees/{employeeID}", handleUpdateEmployee(storage, logger))
	api.Handle("DELETE /employees/{employeeID}", handleDeleteEmployee(storage, logger))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type ledgerService interface {
	// AddCredit tops up the account balance and returns the new balance
	// Has to return apperrors.ErrAccountNotFound if account doesn't exist
	AddCredit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)

	// History returns enriched transactions, most recent first
	History(ctx context.Context, accountID uuid.UUID) ([]models.HistoryEntry, error)
}

type ticketService interface {
	// Purchase debits the account and issues a ticket atomically
	// Errors: apperrors.ErrAccountNotFound, ErrPriceRuleNotFound, ErrInsufficientFunds
	Purchase(ctx context.Context, accountID, ticketTypeID, restaurantID uuid.UUID) (models.Ticket, error)

	// Cancel transitions the ticket to cancelled, no ledger effect
	Cancel(ctx context.Context, ticketID uuid.UUID) (models.Ticket, error)

	// Get returns a ticket by id
	// Has to return apperrors.ErrTicketNotFound if it doesn't exist
	Get(ctx context.Context, ticketID uuid.UUID) (models.Ticket, error)

	ListForAccount(ctx context.Context, accountID uuid.UUID) ([]models.Ticket, error)
}

type lockerService interface {
	// CheckIn opens a usage record for an available locker
	// Errors: apperrors.ErrLockerNotFound, ErrLockerNotAvailable
	CheckIn(ctx context.Context, lockerID, accountID uuid.UUID) (models.LockerUsage, error)

	// CheckOut closes the open usage record
	// Errors: apperrors.ErrNoActiveCheckIn
	CheckOut(ctx context.Context, lockerID uuid.UUID) (models.LockerUsage, error)

	UsageHistory(ctx context.Context, filter repository.UsageFilter) ([]models.LockerUsage, error)
}
