package service

import (
	"context"
	"strings"
	"time"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/dto"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/model"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Product repository stub ──────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository. Tx methods accept the nil
// *gorm.DB that runTx passes in unit-test mode.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = model.ProductActive
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku && p.Status == model.ProductActive {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		switch filter.Status {
		case "archived":
			if p.Status != model.ProductArchived {
				continue
			}
		case "all":
		default:
			if p.Status != model.ProductActive {
				continue
			}
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Archive(_ context.Context, id uuid.UUID) error {
	return r.setStatus(id, model.ProductArchived)
}

func (r *stubProductRepo) Restore(_ context.Context, id uuid.UUID) error {
	return r.setStatus(id, model.ProductActive)
}

func (r *stubProductRepo) setStatus(id uuid.UUID, status string) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = status
	return nil
}

func (r *stubProductRepo) ReplaceCompatibility(_ context.Context, id uuid.UUID, rows []model.ProductCompatibility) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Compatibility = rows
	return nil
}

func (r *stubProductRepo) FindByIDsTx(_ *gorm.DB, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	p, ok := r.products[id]
	if !ok || p.Stock < qty {
		return 0, nil
	}
	p.Stock -= qty
	return 1, nil
}

func (r *stubProductRepo) IncrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	p, ok := r.products[id]
	if !ok {
		return 0, nil
	}
	p.Stock += qty
	return 1, nil
}

func (r *stubProductRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.Status == model.ProductActive {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) LowStockCount(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.Status == model.ProductActive && p.Stock < p.MinStock {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) TotalStockValue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.products {
		if p.Status == model.ProductActive {
			total = total.Add(p.SellingPrice.Mul(decimal.NewFromInt(int64(p.Stock))))
		}
	}
	return total, nil
}

func (r *stubProductRepo) CountByCategory(_ context.Context) ([]dto.CategoryCount, error) {
	counts := make(map[string]int64)
	for _, p := range r.products {
		if p.Status == model.ProductActive {
			counts[p.Category]++
		}
	}
	var out []dto.CategoryCount
	for c, n := range counts {
		out = append(out, dto.CategoryCount{Category: c, Count: n})
	}
	return out, nil
}

func (r *stubProductRepo) CountByBrand(_ context.Context, _ int) ([]dto.BrandCount, error) {
	counts := make(map[string]int64)
	for _, p := range r.products {
		if p.Status == model.ProductActive {
			counts[p.Brand]++
		}
	}
	var out []dto.BrandCount
	for b, n := range counts {
		out = append(out, dto.BrandCount{Brand: b, Count: n})
	}
	return out, nil
}

func (r *stubProductRepo) DistinctMakes(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.products {
		for _, c := range p.Compatibility {
			if !seen[c.Make] {
				seen[c.Make] = true
				out = append(out, c.Make)
			}
		}
	}
	return out, nil
}

func (r *stubProductRepo) DistinctModels(_ context.Context, vehicleMake string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.products {
		for _, c := range p.Compatibility {
			if c.Make == vehicleMake && !seen[c.Model] {
				seen[c.Model] = true
				out = append(out, c.Model)
			}
		}
	}
	return out, nil
}

func (r *stubProductRepo) DistinctYears(_ context.Context, vehicleMake, vehicleModel string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.products {
		for _, c := range p.Compatibility {
			if c.Make == vehicleMake && c.Model == vehicleModel && !seen[c.Year] {
				seen[c.Year] = true
				out = append(out, c.Year)
			}
		}
	}
	return out, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Sale repository stub ─────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	return r.find(id)
}

func (r *stubSaleRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	return r.find(id)
}

func (r *stubSaleRepo) find(id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.sales[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.sales, id)
	return nil
}

func (r *stubSaleRepo) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status string) error {
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.PaymentStatus = status
	return nil
}

func (r *stubSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if filter.Status != "" && filter.Status != "all" && s.PaymentStatus != filter.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) ListRange(_ context.Context, from, to *time.Time) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if from != nil && s.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && s.CreatedAt.After(*to) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSaleRepo) RevenueSince(_ context.Context, since time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range r.sales {
		if s.PaymentStatus == model.PaymentCompleted && !s.CreatedAt.Before(since) {
			total = total.Add(s.TotalAmount)
		}
	}
	return total, nil
}

func (r *stubSaleRepo) RevenueByMonth(_ context.Context, since time.Time) ([]repository.MonthRevenue, error) {
	byMonth := make(map[[2]int]decimal.Decimal)
	for _, s := range r.sales {
		if s.PaymentStatus == model.PaymentCompleted && !s.CreatedAt.Before(since) {
			key := [2]int{s.CreatedAt.Year(), int(s.CreatedAt.Month())}
			byMonth[key] = byMonth[key].Add(s.TotalAmount)
		}
	}
	var out []repository.MonthRevenue
	for key, v := range byMonth {
		out = append(out, repository.MonthRevenue{Year: key[0], Month: key[1], Value: v})
	}
	return out, nil
}

func (r *stubSaleRepo) TopCategories(_ context.Context, _ time.Time, _ int) ([]repository.CategoryUnits, error) {
	return nil, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Stock movement repository stub ───────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID, _ int) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── User repository stub ─────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[u.ID] = u
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, name string, price float64, stock, minStock int) *model.Product {
	p := &model.Product{
		ID:           uuid.New(),
		Brand:        "Bosch",
		Name:         name,
		Category:     "Brakes",
		CostPrice:    decimal.NewFromFloat(price / 2),
		SellingPrice: decimal.NewFromFloat(price),
		Stock:        stock,
		MinStock:     minStock,
		Status:       model.ProductActive,
	}
	repo.products[p.ID] = p
	return p
}
