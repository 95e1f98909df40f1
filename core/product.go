package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus tracks catalog visibility.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusArchived ProductStatus = "ARCHIVED"
)

// Product is a catalog entry managed by the generic CRUD surface.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	InStock     int
	Status      ProductStatus
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
