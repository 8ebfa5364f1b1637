package dto

import "github.com/shopspring/decimal"

// ─── Dashboard ──────────────────────────────────────────────────────────────

type MonthlySalesPoint struct {
	Month int             `json:"month"`
	Year  int             `json:"year"`
	Value decimal.Decimal `json:"value"`
}

type CategorySalesPoint struct {
	Category string `json:"category"`
	Value    int64  `json:"value"`
}

// DashboardResponse mirrors GET /api/reports/dashboard.
type DashboardResponse struct {
	DailyRevenue  decimal.Decimal      `json:"dailyRevenue"`
	TotalProducts int64                `json:"totalProducts"`
	LowStockItems int64                `json:"lowStockItems"`
	MonthlySales  []MonthlySalesPoint  `json:"monthlySales"`
	TopCategories []CategorySalesPoint `json:"topCategories"`
}

// ─── Sales report ───────────────────────────────────────────────────────────

// SalesReportFilter accepts either an explicit range or a named period.
type SalesReportFilter struct {
	StartDate string `form:"startDate"` // YYYY-MM-DD
	EndDate   string `form:"endDate"`   // YYYY-MM-DD
	Period    string `form:"period" validate:"omitempty,oneof=day week month"`
}

type SalesReportResponse struct {
	Count int64          `json:"count"`
	Data  []SaleResponse `json:"data"`
}

// ─── Stock report ───────────────────────────────────────────────────────────

type StockReportFilter struct {
	Category string `form:"category"` // empty or "all" = every category
}

// StockReportItem augments a product with its stock status.
type StockReportItem struct {
	ProductResponse
	StockStatus string `json:"status"` // ok | low | out
}

type StockReportResponse struct {
	Count int64             `json:"count"`
	Data  []StockReportItem `json:"data"`
}
