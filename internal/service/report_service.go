package service

import (
	"context"
	"time"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/dto"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/repository"
)

// ReportService aggregates sales and inventory data for the dashboard and
// the export endpoints.
type ReportService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	SalesReport(ctx context.Context, filter dto.SalesReportFilter) (*dto.SalesReportResponse, error)
	StockReport(ctx context.Context, filter dto.StockReportFilter) (*dto.StockReportResponse, error)
}

type reportService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
}

func NewReportService(sales repository.SaleRepository, products repository.ProductRepository) ReportService {
	return &reportService{sales: sales, products: products}
}

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sixMonthsAgo := startOfDay.AddDate(0, -5, 0) // current month plus five back

	daily, err := s.sales.RevenueSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.products.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.products.LowStockCount(ctx)
	if err != nil {
		return nil, err
	}
	monthly, err := s.sales.RevenueByMonth(ctx, sixMonthsAgo)
	if err != nil {
		return nil, err
	}
	categories, err := s.sales.TopCategories(ctx, sixMonthsAgo, 5)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		DailyRevenue:  daily,
		TotalProducts: totalProducts,
		LowStockItems: lowStock,
		MonthlySales:  make([]dto.MonthlySalesPoint, 0, len(monthly)),
		TopCategories: make([]dto.CategorySalesPoint, 0, len(categories)),
	}
	for _, m := range monthly {
		resp.MonthlySales = append(resp.MonthlySales, dto.MonthlySalesPoint{
			Month: m.Month, Year: m.Year, Value: m.Value,
		})
	}
	for _, c := range categories {
		resp.TopCategories = append(resp.TopCategories, dto.CategorySalesPoint{
			Category: c.Category, Value: c.Units,
		})
	}
	return resp, nil
}

func (s *reportService) SalesReport(ctx context.Context, filter dto.SalesReportFilter) (*dto.SalesReportResponse, error) {
	from, to, err := reportRange(filter)
	if err != nil {
		return nil, err
	}
	sales, err := s.sales.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	resp := &dto.SalesReportResponse{
		Count: int64(len(sales)),
		Data:  make([]dto.SaleResponse, 0, len(sales)),
	}
	for i := range sales {
		resp.Data = append(resp.Data, *saleToResponse(&sales[i]))
	}
	return resp, nil
}

// reportRange resolves the filter into an absolute time range. A named period
// wins over explicit dates.
func reportRange(filter dto.SalesReportFilter) (*time.Time, *time.Time, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch filter.Period {
	case "day":
		return &startOfDay, nil, nil
	case "week":
		from := startOfDay.AddDate(0, 0, -7)
		return &from, nil, nil
	case "month":
		from := startOfDay.AddDate(0, -1, 0)
		return &from, nil, nil
	}

	var from, to *time.Time
	if filter.StartDate != "" {
		t, err := time.ParseInLocation("2006-01-02", filter.StartDate, now.Location())
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if filter.EndDate != "" {
		t, err := time.ParseInLocation("2006-01-02", filter.EndDate, now.Location())
		if err != nil {
			return nil, nil, err
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

func (s *reportService) StockReport(ctx context.Context, filter dto.StockReportFilter) (*dto.StockReportResponse, error) {
	pf := dto.ProductFilter{
		SortBy: "stock",
		Page:   1,
		Limit:  10000,
	}
	if filter.Category != "" && filter.Category != "all" {
		pf.Category = filter.Category
	}
	products, total, err := s.products.List(ctx, pf)
	if err != nil {
		return nil, err
	}

	resp := &dto.StockReportResponse{
		Count: total,
		Data:  make([]dto.StockReportItem, 0, len(products)),
	}
	for i := range products {
		p := &products[i]
		status := "ok"
		switch {
		case p.Stock == 0:
			status = "out"
		case p.Stock < p.MinStock:
			status = "low"
		}
		resp.Data = append(resp.Data, dto.StockReportItem{
			ProductResponse: *productToResponse(p),
			StockStatus:     status,
		})
	}
	return resp, nil
}
