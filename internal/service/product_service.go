package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/dto"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/model"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService manages the catalog. Stock is only touched here through
// AdjustStock (manual, audited); sale-driven changes belong to SaleService.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Archive(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	Stats(ctx context.Context) (*dto.ProductStatsResponse, error)
	VehicleCompatibility(ctx context.Context, vehicleMake, vehicleModel string) (*dto.VehicleCompatibilityResponse, error)
}

type productService struct {
	repo      repository.ProductRepository
	movements repository.StockMovementRepository
	rdb       *redis.Client
}

func NewProductService(repo repository.ProductRepository, movements repository.StockMovementRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, movements: movements, rdb: rdb}
}

func validCategory(c string) bool {
	for _, cat := range model.ProductCategories {
		if cat == c {
			return true
		}
	}
	return false
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !validCategory(req.Category) {
		return nil, fmt.Errorf("unknown category %q", req.Category)
	}
	minStock := 1
	if req.MinStock != nil {
		minStock = *req.MinStock
	}
	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = "/images/default-part.jpg"
	}

	p := &model.Product{
		SKU:          req.SKU,
		PartNumber:   req.PartNumber,
		Brand:        req.Brand,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		Stock:        req.Stock,
		MinStock:     minStock,
		IsOriginal:   req.IsOriginal,
		ImageURL:     imageURL,
		Status:       model.ProductActive,
	}
	for _, c := range req.Compatibility {
		p.Compatibility = append(p.Compatibility, model.ProductCompatibility{
			Make: c.Make, Model: c.Model, Year: c.Year, EngineType: c.EngineType,
		})
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{ID: id}
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
		Pages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{ID: id}
		}
		return nil, err
	}

	if req.SKU != nil {
		p.SKU = *req.SKU
	}
	if req.PartNumber != nil {
		p.PartNumber = *req.PartNumber
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		if !validCategory(*req.Category) {
			return nil, fmt.Errorf("unknown category %q", *req.Category)
		}
		p.Category = *req.Category
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		p.SellingPrice = *req.SellingPrice
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if req.IsOriginal != nil {
		p.IsOriginal = *req.IsOriginal
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	if req.Compatibility != nil {
		rows := make([]model.ProductCompatibility, 0, len(req.Compatibility))
		for _, c := range req.Compatibility {
			rows = append(rows, model.ProductCompatibility{
				Make: c.Make, Model: c.Model, Year: c.Year, EngineType: c.EngineType,
			})
		}
		if err := s.repo.ReplaceCompatibility(ctx, id, rows); err != nil {
			return nil, err
		}
		p.Compatibility = rows
	}

	// Invalidate the public price cache for this SKU.
	if s.rdb != nil && p.SKU != "" {
		_ = s.rdb.Del(ctx, "price:"+p.SKU).Err()
	}

	return productToResponse(p), nil
}

func (s *productService) Archive(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Archive(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ProductNotFoundError{ID: id}
		}
		return err
	}
	return nil
}

func (s *productService) Restore(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ProductNotFoundError{ID: id}
		}
		return err
	}
	return nil
}

// AdjustStock applies a manual correction inside a transaction and records a
// movement row. Negative deltas use the same conditional update as sales, so
// stock can never go below zero.
func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	var updated *model.Product
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		products, err := s.repo.FindByIDsTx(tx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		if len(products) == 0 {
			return &ProductNotFoundError{ID: id}
		}
		p := &products[0]

		var rows int64
		if req.Delta >= 0 {
			rows, err = s.repo.IncrementStockTx(tx, id, req.Delta)
		} else {
			rows, err = s.repo.DecrementStockTx(tx, id, -req.Delta)
		}
		if err != nil {
			return err
		}
		if rows == 0 {
			return &InsufficientStockError{ID: p.ID, Name: p.Name, Available: p.Stock, Requested: -req.Delta}
		}

		if err := s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   id,
			Type:        model.MovementManualAdjust,
			Quantity:    req.Delta,
			StockBefore: p.Stock,
			StockAfter:  p.Stock + req.Delta,
			Reason:      req.Reason,
		}); err != nil {
			return err
		}

		p.Stock += req.Delta
		updated = p
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return productToResponse(updated), nil
}

func (s *productService) Stats(ctx context.Context) (*dto.ProductStatsResponse, error) {
	count, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	stockValue, err := s.repo.TotalStockValue(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repo.LowStockCount(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	brands, err := s.repo.CountByBrand(ctx, 10)
	if err != nil {
		return nil, err
	}
	return &dto.ProductStatsResponse{
		Count:           count,
		TotalStockValue: stockValue,
		LowStock:        lowStock,
		Categories:      categories,
		Brands:          brands,
	}, nil
}

func (s *productService) VehicleCompatibility(ctx context.Context, vehicleMake, vehicleModel string) (*dto.VehicleCompatibilityResponse, error) {
	makes, err := s.repo.DistinctMakes(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.VehicleCompatibilityResponse{Makes: makes, Models: []string{}, Years: []string{}}

	if vehicleMake != "" {
		models, err := s.repo.DistinctModels(ctx, vehicleMake)
		if err != nil {
			return nil, err
		}
		resp.Models = models
	}
	if vehicleMake != "" && vehicleModel != "" {
		years, err := s.repo.DistinctYears(ctx, vehicleMake, vehicleModel)
		if err != nil {
			return nil, err
		}
		resp.Years = years
	}
	return resp, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	profit := p.SellingPrice.Sub(p.CostPrice)
	margin := decimal.Zero
	if !p.SellingPrice.IsZero() {
		margin = profit.Div(p.SellingPrice).Mul(decimal.NewFromInt(100)).Round(2)
	}
	compat := make([]dto.CompatibilityResponse, 0, len(p.Compatibility))
	for _, c := range p.Compatibility {
		compat = append(compat, dto.CompatibilityResponse{
			Make: c.Make, Model: c.Model, Year: c.Year, EngineType: c.EngineType,
		})
	}
	return &dto.ProductResponse{
		ID:            p.ID.String(),
		SKU:           p.SKU,
		PartNumber:    p.PartNumber,
		Brand:         p.Brand,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Location:      p.Location,
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		Profit:        profit,
		ProfitMargin:  margin,
		Stock:         p.Stock,
		MinStock:      p.MinStock,
		StockValue:    p.SellingPrice.Mul(decimal.NewFromInt(int64(p.Stock))),
		IsOriginal:    p.IsOriginal,
		ImageURL:      p.ImageURL,
		Status:        p.Status,
		Compatibility: compat,
		CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:     p.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
