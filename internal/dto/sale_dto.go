package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /api/sales.
type SaleFilter struct {
	StartDate string `form:"startDate"` // YYYY-MM-DD
	EndDate   string `form:"endDate"`   // YYYY-MM-DD
	Status    string `form:"status"`    // pending | completed | cancelled | all
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"product"  validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items"         validate:"required,min=1,dive"`
	Customer      *string           `json:"customer"      validate:"omitempty,max=120"`
	TotalAmount   decimal.Decimal   `json:"totalAmount"   validate:"required"`
	PaymentMethod string            `json:"paymentMethod" validate:"required,oneof=cash credit debit pix transfer"`
}

type UpdateSaleRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=pending completed cancelled"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID  string          `json:"product"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	Items         []SaleItemResponse `json:"items"`
	Customer      string             `json:"customer"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	PaymentMethod string             `json:"paymentMethod"`
	PaymentStatus string             `json:"paymentStatus"`
	CreatedBy     string             `json:"createdBy"`
	CreatedByName string             `json:"createdByName,omitempty"`
	CreatedAt     string             `json:"createdAt"`
}
