package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Tin21habesha/primetrade.ai-backend/core"
)

type principalRow struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	Name         string `gorm:"size:255;not null"`
	Role         string `gorm:"size:16;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
}

func (principalRow) TableName() string { return "principals" }

func (r principalRow) toCore() core.Principal {
	return core.Principal{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		Role:         core.Role(r.Role),
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

type sessionRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	PrincipalID string `gorm:"index;size:36;not null"`
	SecretHash  string `gorm:"size:255;not null"`
	ExpiresAt   time.Time `gorm:"not null"`
	Revoked     bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
}

func (sessionRow) TableName() string { return "refresh_sessions" }

func (r sessionRow) toCore() core.SessionRecord {
	return core.SessionRecord{
		ID:          r.ID,
		PrincipalID: r.PrincipalID,
		SecretHash:  r.SecretHash,
		ExpiresAt:   r.ExpiresAt,
		Revoked:     r.Revoked,
		CreatedAt:   r.CreatedAt,
	}
}

type productRow struct {
	ID          string          `gorm:"primaryKey;size:36"`
	Name        string          `gorm:"size:255;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2)"`
	InStock     int
	Status      string `gorm:"size:16;not null"`
	ImageURL    string `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (productRow) TableName() string { return "products" }

func (r productRow) toCore() core.Product {
	return core.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		InStock:     r.InStock,
		Status:      core.ProductStatus(r.Status),
		ImageURL:    r.ImageURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func productToRow(p *core.Product) productRow {
	return productRow{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		InStock:     p.InStock,
		Status:      string(p.Status),
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
