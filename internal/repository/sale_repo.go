package repository

import (
	"context"
	"time"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/dto"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MonthRevenue is one point of the monthly revenue aggregate.
type MonthRevenue struct {
	Month int
	Year  int
	Value decimal.Decimal
}

// CategoryUnits counts units sold per product category.
type CategoryUnits struct {
	Category string
	Units    int64
}

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	ListRange(ctx context.Context, from, to *time.Time) ([]model.Sale, error)

	// Aggregates for the dashboard
	RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	RevenueByMonth(ctx context.Context, since time.Time) ([]MonthRevenue, error)
	TopCategories(ctx context.Context, since time.Time, limit int) ([]CategoryUnits, error)

	// DB exposes the DB for transaction creation in the service layer.
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").Preload("CreatedBy").First(&s, id).Error
	return &s, err
}

func (r *saleRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := tx.Preload("Items").First(&s, id).Error
	return &s, err
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	// Items are removed by the ON DELETE CASCADE constraint.
	res := tx.Delete(&model.Sale{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *saleRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("id = ?", id).Update("payment_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("payment_status = ?", filter.Status)
	}
	if filter.StartDate != "" {
		q = q.Where("DATE(created_at) >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("DATE(created_at) <= ?", filter.EndDate)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Preload("CreatedBy").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) ListRange(ctx context.Context, from, to *time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	err := q.Preload("Items").Preload("CreatedBy").
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var value decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("created_at >= ? AND payment_status = ?", since, model.PaymentCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&value).Error
	if err != nil || !value.Valid {
		return decimal.Zero, err
	}
	return value.Decimal, nil
}

func (r *saleRepo) TopCategories(ctx context.Context, since time.Time, limit int) ([]CategoryUnits, error) {
	var rows []CategoryUnits
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Joins("JOIN sales s ON s.id = sale_items.sale_id").
		Joins("JOIN products p ON p.id = sale_items.product_id").
		Where("s.created_at >= ? AND s.payment_status = ?", since, model.PaymentCompleted).
		Select("p.category AS category, SUM(sale_items.quantity) AS units").
		Group("p.category").Order("units DESC").Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *saleRepo) RevenueByMonth(ctx context.Context, since time.Time) ([]MonthRevenue, error) {
	var rows []MonthRevenue
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("created_at >= ? AND payment_status = ?", since, model.PaymentCompleted).
		Select("EXTRACT(MONTH FROM created_at)::int AS month, EXTRACT(YEAR FROM created_at)::int AS year, SUM(total_amount) AS value").
		Group("year, month").Order("year ASC, month ASC").
		Scan(&rows).Error
	return rows, err
}
