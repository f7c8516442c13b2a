package apperrors

import (
	"errors"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account with this registration already exists")
	ErrInsufficientFunds    = errors.New("insufficient funds")

	ErrPriceRuleNotFound      = errors.New("no price rule for this group and ticket type")
	ErrPriceRuleAlreadyExists = errors.New("price rule for this group and ticket type already exists")

	ErrTicketNotFound         = errors.New("ticket not found")
	ErrTicketAlreadyCancelled = errors.New("ticket is already cancelled")

	ErrLockerNotFound      = errors.New("locker not found")
	ErrLockerAlreadyExists = errors.New("locker with this number already exists in restaurant")
	ErrLockerNotAvailable  = errors.New("locker is not available")
	ErrNoActiveCheckIn     = errors.New("no active check-in for this locker")

	ErrMenuNotFound      = errors.New("menu not found")
	ErrMenuAlreadyExists = errors.New("menu for this restaurant, date and meal type already exists")

	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrEmployeeNotFound   = errors.New("employee not found")

	// Constraint violations translated at the store boundary.
	// ErrMissingReference: an insert or update names an entity that does not exist.
	// ErrReferenced: a delete target is still referenced by other rows.
	// ErrAlreadyExists: a unique key is already taken.
	ErrMissingReference = errors.New("referenced entity does not exist")
	ErrReferenced       = errors.New("entity is referenced by other records")
	ErrAlreadyExists    = errors.New("entity already exists")
)
