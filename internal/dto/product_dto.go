package dto

import "github.com/shopspring/decimal"

// ─── Filter ─────────────────────────────────────────────────────────────────

// ProductFilter is bound from the query string of GET /api/products.
type ProductFilter struct {
	Category   string `form:"category"`
	Brand      string `form:"brand"`
	Name       string `form:"name"`
	SKU        string `form:"sku"`
	PartNumber string `form:"partNumber"`
	Make       string `form:"make"`  // vehicle make
	Model      string `form:"model"` // vehicle model
	Status     string `form:"status"` // active (default) | archived | all
	SortBy     string `form:"sortBy,default=name"`
	SortOrder  string `form:"sortOrder,default=asc" validate:"omitempty,oneof=asc desc"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// ─── Requests ───────────────────────────────────────────────────────────────

type CompatibilityRequest struct {
	Make       string `json:"make"`
	Model      string `json:"model"`
	Year       string `json:"year"`
	EngineType string `json:"engineType"`
}

type CreateProductRequest struct {
	SKU           string                 `json:"sku"        validate:"omitempty,max=50"`
	PartNumber    string                 `json:"partNumber" validate:"omitempty,max=50"`
	Brand         string                 `json:"brand"      validate:"required,max=100"`
	Name          string                 `json:"name"       validate:"required,max=100"`
	Description   *string                `json:"description"`
	Category      string                 `json:"category"   validate:"required"`
	Location      string                 `json:"location"`
	CostPrice     decimal.Decimal        `json:"costPrice"    validate:"min=0"`
	SellingPrice  decimal.Decimal        `json:"sellingPrice" validate:"min=0"`
	Stock         int                    `json:"stock"        validate:"min=0"`
	MinStock      *int                   `json:"minStock"     validate:"omitempty,min=0"`
	IsOriginal    bool                   `json:"isOriginal"`
	ImageURL      string                 `json:"imageUrl"`
	Compatibility []CompatibilityRequest `json:"compatibility" validate:"omitempty,dive"`
}

// UpdateProductRequest applies a partial update; nil fields are left untouched.
// Stock is deliberately absent — stock changes go through the sale coordinator
// or the manual adjustment endpoint so every change leaves a movement row.
type UpdateProductRequest struct {
	SKU           *string                `json:"sku"`
	PartNumber    *string                `json:"partNumber"`
	Brand         *string                `json:"brand"`
	Name          *string                `json:"name"       validate:"omitempty,max=100"`
	Description   *string                `json:"description"`
	Category      *string                `json:"category"`
	Location      *string                `json:"location"`
	CostPrice     *decimal.Decimal       `json:"costPrice"`
	SellingPrice  *decimal.Decimal       `json:"sellingPrice"`
	MinStock      *int                   `json:"minStock"   validate:"omitempty,min=0"`
	IsOriginal    *bool                  `json:"isOriginal"`
	ImageURL      *string                `json:"imageUrl"`
	Compatibility []CompatibilityRequest `json:"compatibility" validate:"omitempty,dive"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

// ─── Responses ──────────────────────────────────────────────────────────────

type CompatibilityResponse struct {
	Make       string `json:"make"`
	Model      string `json:"model"`
	Year       string `json:"year"`
	EngineType string `json:"engineType"`
}

type ProductResponse struct {
	ID            string                  `json:"id"`
	SKU           string                  `json:"sku"`
	PartNumber    string                  `json:"partNumber"`
	Brand         string                  `json:"brand"`
	Name          string                  `json:"name"`
	Description   *string                 `json:"description"`
	Category      string                  `json:"category"`
	Location      string                  `json:"location"`
	CostPrice     decimal.Decimal         `json:"costPrice"`
	SellingPrice  decimal.Decimal         `json:"sellingPrice"`
	Profit        decimal.Decimal         `json:"profit"`
	ProfitMargin  decimal.Decimal         `json:"profitMargin"`
	Stock         int                     `json:"stock"`
	MinStock      int                     `json:"minStock"`
	StockValue    decimal.Decimal         `json:"stockValue"`
	IsOriginal    bool                    `json:"isOriginal"`
	ImageURL      string                  `json:"imageUrl"`
	Status        string                  `json:"status"`
	Compatibility []CompatibilityResponse `json:"compatibility"`
	CreatedAt     string                  `json:"createdAt"`
	UpdatedAt     string                  `json:"updatedAt"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Pages int               `json:"pages"`
}

// ProductStatsResponse mirrors GET /api/products/stats.
type ProductStatsResponse struct {
	Count           int64            `json:"count"`
	TotalStockValue decimal.Decimal  `json:"totalStockValue"`
	LowStock        int64            `json:"lowStock"`
	Categories      []CategoryCount  `json:"categories"`
	Brands          []BrandCount     `json:"brands"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type BrandCount struct {
	Brand string `json:"brand"`
	Count int64  `json:"count"`
}

// VehicleCompatibilityResponse lists known makes, plus models and years when
// the query narrows them down.
type VehicleCompatibilityResponse struct {
	Makes  []string `json:"makes"`
	Models []string `json:"models"`
	Years  []string `json:"years"`
}

// PriceCheckResponse is the public, cached price lookup payload.
type PriceCheckResponse struct {
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Stock        int             `json:"stock"`
	Category     string          `json:"category"`
}
