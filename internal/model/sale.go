package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the register.
const (
	PaymentCash     = "cash"
	PaymentCredit   = "credit"
	PaymentDebit    = "debit"
	PaymentPix      = "pix"
	PaymentTransfer = "transfer"
)

// Payment statuses. There is no enforced transition graph: any status may move
// to any other (open question kept as-is, see DESIGN.md).
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentCancelled = "cancelled"
)

// Sale is a completed point-of-sale transaction. Created only through
// SaleService.Create, which decrements stock in the same transaction;
// deleted only through SaleService.Delete, which restores it.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Customer      string          `gorm:"not null;default:'anonymous'"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	PaymentStatus string          `gorm:"type:varchar(20);not null;default:'completed';index"`
	CreatedByID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time       `gorm:"index"`

	Items     []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedBy *User      `gorm:"foreignKey:CreatedByID"`
}

// SaleItem snapshots the product name and unit price at the time of sale;
// later catalog edits do not rewrite history.
type SaleItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name       string          `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity   int             `gorm:"not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}
