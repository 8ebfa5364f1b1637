package repository

import (
	"context"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/dto"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for the catalog.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	Archive(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	ReplaceCompatibility(ctx context.Context, productID uuid.UUID, rows []model.ProductCompatibility) error

	// Used inside transactions — callers must pass the tx instance.
	FindByIDsTx(tx *gorm.DB, ids []uuid.UUID) ([]model.Product, error)
	// DecrementStockTx applies `stock = stock - qty` guarded by `stock >= qty`.
	// Returns the number of rows affected: 0 means the product is gone or a
	// concurrent writer drained the stock first.
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error)
	IncrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error)

	// Aggregates
	CountActive(ctx context.Context) (int64, error)
	LowStockCount(ctx context.Context) (int64, error)
	TotalStockValue(ctx context.Context) (decimal.Decimal, error)
	CountByCategory(ctx context.Context) ([]dto.CategoryCount, error)
	CountByBrand(ctx context.Context, limit int) ([]dto.BrandCount, error)

	// Vehicle compatibility lookups
	DistinctMakes(ctx context.Context) ([]string, error)
	DistinctModels(ctx context.Context, make string) ([]string, error)
	DistinctYears(ctx context.Context, make, vehicleModel string) ([]string, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Compatibility").First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("sku = ? AND status = ?", sku, model.ProductActive).
		First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	// Status filter: "archived" = archived only, "all" = no filter,
	// anything else = active (default)
	switch filter.Status {
	case "archived":
		q = q.Where("status = ?", model.ProductArchived)
	case "all":
		// no filter
	default:
		q = q.Where("status = ?", model.ProductActive)
	}

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Brand != "" {
		q = q.Where("brand ILIKE ?", "%"+filter.Brand+"%")
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.SKU != "" {
		q = q.Where("sku ILIKE ?", "%"+filter.SKU+"%")
	}
	if filter.PartNumber != "" {
		q = q.Where("part_number ILIKE ?", "%"+filter.PartNumber+"%")
	}

	// Vehicle filters join the compatibility table.
	if filter.Make != "" || filter.Model != "" {
		q = q.Joins("JOIN product_compatibility pc ON pc.product_id = products.id")
		if filter.Make != "" {
			q = q.Where("pc.make ILIKE ?", "%"+filter.Make+"%")
		}
		if filter.Model != "" {
			q = q.Where("pc.model ILIKE ?", "%"+filter.Model+"%")
		}
		q = q.Distinct("products.*")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	switch sortBy {
	case "name", "brand", "category", "stock", "selling_price", "created_at":
	case "sellingPrice":
		sortBy = "selling_price"
	case "createdAt":
		sortBy = "created_at"
	default:
		sortBy = "name"
	}
	order := sortBy + " ASC"
	if filter.SortOrder == "desc" {
		order = sortBy + " DESC"
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Compatibility").
		Order(order).Limit(filter.Limit).Offset(offset).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Omit("Compatibility").Save(p).Error
}

func (r *productRepo) Archive(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, model.ProductArchived)
}

func (r *productRepo) Restore(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, model.ProductActive)
}

func (r *productRepo) setStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) ReplaceCompatibility(ctx context.Context, productID uuid.UUID, rows []model.ProductCompatibility) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).
			Delete(&model.ProductCompatibility{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ProductID = productID
		}
		return tx.Create(&rows).Error
	})
}

// ── Transactional stock operations ──────────────────────────────────────────

func (r *productRepo) FindByIDsTx(tx *gorm.DB, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := tx.Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected, res.Error
}

func (r *productRepo) IncrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", qty))
	return res.RowsAffected, res.Error
}

// ── Aggregates ──────────────────────────────────────────────────────────────

func (r *productRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("status = ?", model.ProductActive).Count(&n).Error
	return n, err
}

func (r *productRepo) LowStockCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("status = ? AND stock < min_stock", model.ProductActive).
		Count(&n).Error
	return n, err
}

func (r *productRepo) TotalStockValue(ctx context.Context) (decimal.Decimal, error) {
	var value decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("status = ?", model.ProductActive).
		Select("COALESCE(SUM(selling_price * stock), 0)").
		Scan(&value).Error
	if err != nil || !value.Valid {
		return decimal.Zero, err
	}
	return value.Decimal, nil
}

func (r *productRepo) CountByCategory(ctx context.Context) ([]dto.CategoryCount, error) {
	var rows []dto.CategoryCount
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("status = ?", model.ProductActive).
		Select("category, COUNT(*) AS count").
		Group("category").Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *productRepo) CountByBrand(ctx context.Context, limit int) ([]dto.BrandCount, error) {
	var rows []dto.BrandCount
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("status = ?", model.ProductActive).
		Select("brand, COUNT(*) AS count").
		Group("brand").Order("count DESC").Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ── Vehicle compatibility ───────────────────────────────────────────────────

func (r *productRepo) DistinctMakes(ctx context.Context) ([]string, error) {
	var makes []string
	err := r.db.WithContext(ctx).Model(&model.ProductCompatibility{}).
		Joins("JOIN products p ON p.id = product_compatibility.product_id AND p.status = ?", model.ProductActive).
		Distinct("make").Order("make ASC").
		Pluck("make", &makes).Error
	return makes, err
}

func (r *productRepo) DistinctModels(ctx context.Context, vehicleMake string) ([]string, error) {
	var models []string
	err := r.db.WithContext(ctx).Model(&model.ProductCompatibility{}).
		Joins("JOIN products p ON p.id = product_compatibility.product_id AND p.status = ?", model.ProductActive).
		Where("make = ?", vehicleMake).
		Distinct("model").Order("model ASC").
		Pluck("model", &models).Error
	return models, err
}

func (r *productRepo) DistinctYears(ctx context.Context, vehicleMake, vehicleModel string) ([]string, error) {
	var years []string
	err := r.db.WithContext(ctx).Model(&model.ProductCompatibility{}).
		Joins("JOIN products p ON p.id = product_compatibility.product_id AND p.status = ?", model.ProductActive).
		Where("make = ? AND model = ?", vehicleMake, vehicleModel).
		Distinct("year").Order("year DESC").
		Pluck("year", &years).Error
	return years, err
}
