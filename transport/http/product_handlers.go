package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
	"github.com/Tin21habesha/primetrade.ai-backend/service"
)

// ProductHandlers serves the catalog CRUD endpoints.
type ProductHandlers struct {
	products *service.ProductService
}

// NewProductHandlers creates the product handlers.
func NewProductHandlers(products *service.ProductService) *ProductHandlers {
	return &ProductHandlers{products: products}
}

type productRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	InStock     int                `json:"inStock"`
	Status      core.ProductStatus `json:"status"`
	ImageURL    string             `json:"imageUrl"`
}

func (r productRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		InStock:     r.InStock,
		Status:      r.Status,
		ImageURL:    r.ImageURL,
	}
}

// productPatchRequest distinguishes absent fields from zero values so a patch
// can reset stock to 0 or blank out the description.
type productPatchRequest struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Price       *decimal.Decimal    `json:"price"`
	InStock     *int                `json:"inStock"`
	Status      *core.ProductStatus `json:"status"`
	ImageURL    *string             `json:"imageUrl"`
}

func (r productPatchRequest) toPatch() service.ProductPatch {
	return service.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		InStock:     r.InStock,
		Status:      r.Status,
		ImageURL:    r.ImageURL,
	}
}

func productJSON(p *core.Product) gin.H {
	return gin.H{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"inStock":     p.InStock,
		"status":      p.Status,
		"imageUrl":    p.ImageURL,
		"createdAt":   p.CreatedAt,
		"updatedAt":   p.UpdatedAt,
	}
}

// Create adds a catalog entry.
func (h *ProductHandlers) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, core.NewError(core.KindValidation, "invalid request body"))
		return
	}

	product, err := h.products.Create(c.Request.Context(), req.toInput())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, productJSON(product))
}

// List returns the whole catalog.
func (h *ProductHandlers) List(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]gin.H, 0, len(products))
	for i := range products {
		out = append(out, productJSON(&products[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Get returns one catalog entry.
func (h *ProductHandlers) Get(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, productJSON(product))
}

// Update modifies a catalog entry.
func (h *ProductHandlers) Update(c *gin.Context) {
	var req productPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, core.NewError(core.KindValidation, "invalid request body"))
		return
	}

	product, err := h.products.Update(c.Request.Context(), c.Param("id"), req.toPatch())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, productJSON(product))
}

// Delete removes a catalog entry.
func (h *ProductHandlers) Delete(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
