package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	LockerStatusAvailable   = "available"
	LockerStatusOccupied    = "occupied"
	LockerStatusMaintenance = "maintenance"
)

// Locker status transitions between available and occupied go through
// the occupancy engine only. Maintenance is set via the admin update.
type Locker struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Number       int
	Status       string
}

// LockerUsage records one occupancy period. A locker has at most one
// open usage (CheckedOutAt == nil) at any time.
type LockerUsage struct {
	ID           uuid.UUID
	LockerID     uuid.UUID
	AccountID    uuid.UUID
	CheckedInAt  time.Time
	CheckedOutAt *time.Time
}
