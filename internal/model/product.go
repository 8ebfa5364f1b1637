package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product lifecycle states. Products are never hard-deleted: archiving keeps
// historical sale items resolvable.
const (
	ProductActive   = "active"
	ProductArchived = "archived"
)

// Categories an auto part can belong to.
var ProductCategories = []string{
	"Engine", "Brakes", "Suspension", "Transmission", "Electrical", "Body",
	"Cooling", "Steering", "Injection", "Exhaust", "Filters", "Accessories",
	"Other",
}

// Product is a catalog entry for an automotive part.
// Stock is only mutated by the sale coordinator (inside a transaction) and by
// explicit manual adjustments; both paths write a StockMovement row.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU          string    `gorm:"index"`
	PartNumber   string    `gorm:"index"`
	Brand        string    `gorm:"not null"`
	Name         string    `gorm:"index;not null"`
	Description  *string
	Category     string          `gorm:"not null"`
	Location     string
	CostPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock        int             `gorm:"not null;default:0"`
	MinStock     int             `gorm:"not null;default:1"`
	IsOriginal   bool            `gorm:"not null;default:false"`
	ImageURL     string          `gorm:"default:'/images/default-part.jpg'"`
	Status       string          `gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Compatibility []ProductCompatibility `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ProductCompatibility links a part to a vehicle it fits.
type ProductCompatibility struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Make       string    `gorm:"index"`
	Model      string    `gorm:"index"`
	Year       string
	EngineType string
}

// TableName overrides GORM's default pluralization (product_compatibilities).
func (ProductCompatibility) TableName() string { return "product_compatibility" }
