package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ucampus/refectory/internal/models"
)

// Account repository interface
type AccountRepo interface {
	// Create account with zero balance unless one is given
	// If registration is taken must return apperrors.ErrAccountAlreadyExists
	Create(ctx context.Context, account models.Account) (models.Account, error)

	// Get account by id
	// With forUpdate the row is locked until the surrounding transaction ends
	// If account not found must return apperrors.ErrAccountNotFound
	Get(ctx context.Context, id uuid.UUID, forUpdate bool) (models.Account, error)

	List(ctx context.Context) ([]models.Account, error)
	Update(ctx context.Context, account models.Account) (models.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ApplyBalance adds delta (negative for debits) and returns the new balance
	// A debit below zero must return apperrors.ErrInsufficientFunds
	ApplyBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
}

// Transaction repository interface. Ledger rows are append-only.
type TransactionRepo interface {
	Create(ctx context.Context, transaction models.Transaction) (models.Transaction, error)

	// HistoryForAccount returns enriched transactions, most recent first
	HistoryForAccount(ctx context.Context, accountID uuid.UUID) ([]models.HistoryEntry, error)
}

type TicketRepo interface {
	Create(ctx context.Context, ticket models.Ticket) (models.Ticket, error)
	Get(ctx context.Context, id uuid.UUID) (models.Ticket, error)
	ListForAccount(ctx context.Context, accountID uuid.UUID) ([]models.Ticket, error)

	// Cancel transitions active -> cancelled
	// Must return apperrors.ErrTicketAlreadyCancelled if it is not active
	Cancel(ctx context.Context, id uuid.UUID) (models.Ticket, error)
}

type PriceRuleRepo interface {
	// ResolvePrice returns the price for a (group, ticket type) pair
	// If no rule matches must return apperrors.ErrPriceRuleNotFound
	ResolvePrice(ctx context.Context, groupID uuid.UUID, ticketTypeID uuid.UUID) (decimal.Decimal, error)

	Create(ctx context.Context, rule models.PriceRule) (models.PriceRule, error)
	List(ctx context.Context) ([]models.PriceRule, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type LockerRepo interface {
	Create(ctx context.Context, locker models.Locker) (models.Locker, error)

	// Get locker by id
	// With forUpdate the row is locked until the surrounding transaction ends
	Get(ctx context.Context, id uuid.UUID, forUpdate bool) (models.Locker, error)

	List(ctx context.Context) ([]models.Locker, error)
	Update(ctx context.Context, locker models.Locker) (models.Locker, error)
	Delete(ctx context.Context, id uuid.UUID) error

	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}

type LockerUsageRepo interface {
	// CreateOpen inserts a usage with no check-out time
	CreateOpen(ctx context.Context, lockerID uuid.UUID, accountID uuid.UUID) (models.LockerUsage, error)

	// GetOpenForLocker returns the single usage with null check-out
	// If none exists must return apperrors.ErrNoActiveCheckIn
	GetOpenForLocker(ctx context.Context, lockerID uuid.UUID, forUpdate bool) (models.LockerUsage, error)

	// Close sets the check-out time on an open usage
	Close(ctx context.Context, id uuid.UUID, at time.Time) (models.LockerUsage, error)

	List(ctx context.Context, filter UsageFilter) ([]models.LockerUsage, error)
}

// UsageFilter narrows usage history; nil fields match everything.
type UsageFilter struct {
	LockerID  *uuid.UUID
	AccountID *uuid.UUID
}

// Catalog repositories: plain CRUD collaborators providing lookup data.
type RestaurantRepo interface {
	Create(ctx context.Context, restaurant models.Restaurant) (models.Restaurant, error)
	Get(ctx context.Context, id uuid.UUID) (models.Restaurant, error)
	List(ctx context.Context) ([]models.Restaurant, error)
	Update(ctx context.Context, restaurant models.Restaurant) (models.Restaurant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type GroupRepo interface {
	Create(ctx context.Context, group models.Group) (models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
	Update(ctx context.Context, group models.Group) (models.Group, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TicketTypeRepo interface {
	Create(ctx context.Context, tt models.TicketType) (models.TicketType, error)
	List(ctx context.Context) ([]models.TicketType, error)
	Update(ctx context.Context, tt models.TicketType) (models.TicketType, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRepo interface {
	Create(ctx context.Context, category models.Category) (models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category models.Category) (models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MenuItemRepo interface {
	Create(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	List(ctx context.Context) ([]models.MenuItem, error)
	Update(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MenuRepo interface {
	// Create inserts a menu shell for one restaurant, date and meal type
	// A duplicate must return apperrors.ErrMenuAlreadyExists
	Create(ctx context.Context, menu models.Menu) (models.Menu, error)

	// FindForDate returns the menu and its items, items ordered by
	// category name then item name
	// If none exists must return apperrors.ErrMenuNotFound
	FindForDate(ctx context.Context, restaurantID uuid.UUID, servedOn time.Time, mealType string) (models.MenuWithItems, error)

	// AddItem links a catalog item to a menu
	// A duplicate link must return apperrors.ErrAlreadyExists
	AddItem(ctx context.Context, menuID uuid.UUID, menuItemID uuid.UUID) error

	RemoveItem(ctx context.Context, menuID uuid.UUID, menuItemID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type EmployeeRepo interface {
	Create(ctx context.Context, employee models.Employee) (models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	Update(ctx context.Context, employee models.Employee) (models.Employee, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Storage bundles the repositories and provides transaction scoping.
type Storage interface {
	Account() AccountRepo
	Transaction() TransactionRepo
	Ticket() TicketRepo
	PriceRule() PriceRuleRepo
	Locker() LockerRepo
	LockerUsage() LockerUsageRepo
	Restaurant() RestaurantRepo
	Group() GroupRepo
	TicketType() TicketTypeRepo
	Category() CategoryRepo
	MenuItem() MenuItemRepo
	Menu() MenuRepo
	Employee() EmployeeRepo

	// InTx runs fn inside one database transaction. The transaction is
	// committed when fn returns nil and rolled back on any error, so row
	// locks taken inside fn are released on every exit path.
	InTx(ctx context.Context, fn func(Storage) error) error
}
