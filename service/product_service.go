package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
	"github.com/Tin21habesha/primetrade.ai-backend/ports"
)

// ProductInput carries the mutable fields of a catalog entry.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	InStock     int
	Status      core.ProductStatus
	ImageURL    string
}

// ProductPatch carries a partial update. Nil fields are left untouched, so a
// patch can set InStock to 0 or clear Description without ambiguity.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	InStock     *int
	Status      *core.ProductStatus
	ImageURL    *string
}

// ProductService manages the product catalog.
type ProductService struct {
	products ports.ProductStore
}

// NewProductService creates a product service.
func NewProductService(products ports.ProductStore) *ProductService {
	return &ProductService{products: products}
}

// Create validates and inserts a new catalog entry.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*core.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, core.NewError(core.KindValidation, "product name is required")
	}
	if in.Price.IsNegative() {
		return nil, core.NewError(core.KindValidation, "price must not be negative")
	}
	if in.Status == "" {
		in.Status = core.ProductStatusActive
	}

	now := time.Now()
	product := &core.Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		InStock:     in.InStock,
		Status:      in.Status,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// List returns all catalog entries, newest first.
func (s *ProductService) List(ctx context.Context) ([]core.Product, error) {
	return s.products.List(ctx)
}

// Get returns one catalog entry by id.
func (s *ProductService) Get(ctx context.Context, id string) (*core.Product, error) {
	if id == "" {
		return nil, core.NewError(core.KindValidation, "product id is required")
	}
	return s.products.GetByID(ctx, id)
}

// Update applies the patch's set fields to an existing entry.
func (s *ProductService) Update(ctx context.Context, id string, patch ProductPatch) (*core.Product, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, core.NewError(core.KindValidation, "product name must not be empty")
		}
		existing.Name = name
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return nil, core.NewError(core.KindValidation, "price must not be negative")
		}
		existing.Price = *patch.Price
	}
	if patch.InStock != nil {
		existing.InStock = *patch.InStock
	}
	if patch.Status != nil {
		if *patch.Status != core.ProductStatusActive && *patch.Status != core.ProductStatusArchived {
			return nil, core.NewError(core.KindValidation, "invalid product status")
		}
		existing.Status = *patch.Status
	}
	if patch.ImageURL != nil {
		existing.ImageURL = *patch.ImageURL
	}
	existing.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a catalog entry.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return core.NewError(core.KindValidation, "product id is required")
	}
	return s.products.Delete(ctx, id)
}
