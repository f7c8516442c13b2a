package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
)

// Menu is the composition shell for one restaurant, date and meal type.
type Menu struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	ServedOn     time.Time
	MealType     string
}

type MenuWithItems struct {
	Menu
	Items []MenuItem
}
