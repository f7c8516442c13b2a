package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Group struct {
	ID   uuid.UUID
	Name string
}

type Restaurant struct {
	ID      uuid.UUID
	Name    string
	Address string
}

type Category struct {
	ID   uuid.UUID
	Name string
}

type MenuItem struct {
	ID         uuid.UUID
	Name       string
	CategoryID uuid.UUID
	Price      decimal.Decimal
}

type Employee struct {
	ID           uuid.UUID
	Name         string
	Role         string
	RestaurantID uuid.UUID
}
