package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types.
const (
	MovementSale         = "sale"
	MovementSaleReversal = "sale_reversal"
	MovementManualAdjust = "manual_adjustment"
)

// StockMovement records every change to a product's stock. Rows tied to a
// sale are written inside the same transaction as the stock update, so the
// movement ledger and the stock column can never disagree.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"not null"` // "sale" | "sale_reversal" | "manual_adjustment"
	Quantity    int       `gorm:"not null"` // positive = in, negative = out
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reason      string
	ReferenceID *uuid.UUID `gorm:"type:uuid"` // sale id when applicable
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
