package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/dto"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/model"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/repository"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService is the sale transaction coordinator. It is the only writer of
// sale-related stock changes: Create decrements stock and appends the sale in
// one transaction, Delete restores stock and removes the sale in one
// transaction. No partial state is ever observable.
type SaleService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) (*dto.SaleResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type saleService struct {
	repo       repository.SaleRepository
	products   repository.ProductRepository
	movements  repository.StockMovementRepository
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:       repo,
		products:   products,
		movements:  movements,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// maxTxAttempts bounds retries of serialization/deadlock aborts. Each attempt
// re-reads and re-validates stock from scratch.
const maxTxAttempts = 3

type saleLine struct {
	productID uuid.UUID
	quantity  int
}

// ── Create ────────────────────────────────────────────────────────────────────
// All-or-nothing contract:
//  1. Batched read of every referenced product inside the transaction.
//  2. In-memory validation in request order: existence, lifecycle state,
//     stock coverage, caller total vs computed total.
//  3. Sale row + snapshot items inserted, then per-product conditional
//     decrement (stock = stock - qty WHERE stock >= qty). A zero-row update
//     means a concurrent sale won the race — the whole transaction aborts.
//  4. One StockMovement row per product, same transaction.

func (s *saleService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	lines := make([]saleLine, 0, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q: %w", item.ProductID, err)
		}
		lines = append(lines, saleLine{productID: pid, quantity: item.Quantity})
	}

	var sale model.Sale
	var lowStock []string
	var err error
	for attempt := 1; ; attempt++ {
		sale = model.Sale{}
		lowStock = lowStock[:0]
		err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			return s.createTx(tx, userID, req, lines, &sale, &lowStock)
		})
		if err == nil || !isRetryableTxError(err) || attempt >= maxTxAttempts {
			break
		}
		log.Warn().Int("attempt", attempt).Err(err).Msg("sale transaction aborted — retrying")
	}
	if isRetryableTxError(err) {
		return nil, ErrTransactionConflict
	}
	if err != nil {
		return nil, err
	}

	// Best-effort low-stock alert — never fails the sale.
	if s.dispatcher != nil && len(lowStock) > 0 {
		if qErr := s.dispatcher.EnqueueLowStockAlert(ctx, worker.LowStockPayload{ProductIDs: lowStock}); qErr != nil {
			log.Warn().Err(qErr).Msg("failed to enqueue low-stock alert")
		}
	}

	return saleToResponse(&sale), nil
}

func (s *saleService) createTx(tx *gorm.DB, userID uuid.UUID, req dto.CreateSaleRequest, lines []saleLine, out *model.Sale, lowStock *[]string) error {
	// Distinct ids, preserving first-occurrence order.
	seen := make(map[uuid.UUID]bool, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if !seen[l.productID] {
			seen[l.productID] = true
			ids = append(ids, l.productID)
		}
	}

	products, err := s.products.FindByIDsTx(tx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	// Validate in request order; duplicates of a product accumulate against
	// the same stock figure.
	needed := make(map[uuid.UUID]int, len(ids))
	for _, l := range lines {
		p, ok := byID[l.productID]
		if !ok {
			return &ProductNotFoundError{ID: l.productID}
		}
		if p.Status != model.ProductActive {
			return &ProductArchivedError{ID: p.ID, Name: p.Name}
		}
		needed[l.productID] += l.quantity
		if needed[l.productID] > p.Stock {
			return &InsufficientStockError{
				ID:        p.ID,
				Name:      p.Name,
				Available: p.Stock,
				Requested: needed[l.productID],
			}
		}
	}

	// Build snapshot items and verify the caller-supplied total.
	computed := decimal.Zero
	items := make([]model.SaleItem, 0, len(lines))
	for _, l := range lines {
		p := byID[l.productID]
		lineTotal := p.SellingPrice.Mul(decimal.NewFromInt(int64(l.quantity)))
		computed = computed.Add(lineTotal)
		items = append(items, model.SaleItem{
			ProductID:  p.ID,
			Name:       p.Name,
			UnitPrice:  p.SellingPrice,
			Quantity:   l.quantity,
			TotalPrice: lineTotal,
		})
	}
	if !req.TotalAmount.Equal(computed) {
		return &TotalMismatchError{Provided: req.TotalAmount, Computed: computed}
	}

	customer := "anonymous"
	if req.Customer != nil && *req.Customer != "" {
		customer = *req.Customer
	}

	*out = model.Sale{
		Customer:      customer,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: model.PaymentCompleted,
		CreatedByID:   userID,
		Items:         items,
	}
	if err := s.repo.CreateTx(tx, out); err != nil {
		return err
	}

	saleRef := out.ID
	for _, id := range ids {
		p := byID[id]
		qty := needed[id]

		rows, err := s.products.DecrementStockTx(tx, id, qty)
		if err != nil {
			return err
		}
		if rows == 0 {
			// A concurrent sale drained the stock between our read and this
			// write. Aborting here rolls back the sale insert and every
			// decrement applied so far.
			return &InsufficientStockError{ID: p.ID, Name: p.Name, Requested: qty}
		}

		if err := s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   id,
			Type:        model.MovementSale,
			Quantity:    -qty,
			StockBefore: p.Stock,
			StockAfter:  p.Stock - qty,
			Reason:      fmt.Sprintf("Sale %s", saleRef),
			ReferenceID: &saleRef,
		}); err != nil {
			return err
		}

		if p.Stock-qty <= p.MinStock {
			*lowStock = append(*lowStock, id.String())
		}
	}
	return nil
}

// ── Delete ────────────────────────────────────────────────────────────────────
// Compensating removal: restores stock for every line item, then deletes the
// sale — all in one transaction. A line whose product no longer exists is
// skipped (with a warning) instead of failing the whole operation; otherwise
// sales referencing retired catalog entries would be permanently undeletable.

func (s *saleService) Delete(ctx context.Context, id uuid.UUID) error {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}

		for _, item := range sale.Items {
			rows, err := s.products.IncrementStockTx(tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if rows == 0 {
				log.Warn().
					Str("sale_id", sale.ID.String()).
					Str("product_id", item.ProductID.String()).
					Msg("product gone from catalog — skipping stock restoration")
				continue
			}

			after, err := s.products.FindByIDsTx(tx, []uuid.UUID{item.ProductID})
			if err != nil {
				return err
			}
			stockAfter := 0
			if len(after) > 0 {
				stockAfter = after[0].Stock
			}
			saleRef := sale.ID
			if err := s.movements.CreateTx(tx, &model.StockMovement{
				ProductID:   item.ProductID,
				Type:        model.MovementSaleReversal,
				Quantity:    item.Quantity,
				StockBefore: stockAfter - item.Quantity,
				StockAfter:  stockAfter,
				Reason:      fmt.Sprintf("Sale %s deleted", saleRef),
				ReferenceID: &saleRef,
			}); err != nil {
				return err
			}
		}

		return s.repo.DeleteTx(tx, id)
	})
	if isRetryableTxError(txErr) {
		return ErrTransactionConflict
	}
	return txErr
}

// ── UpdatePaymentStatus ───────────────────────────────────────────────────────
// Single-row write; intentionally not atomic with anything else. Any status
// may move to any other (see DESIGN.md).

func (s *saleService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) (*dto.SaleResponse, error) {
	if err := s.repo.UpdatePaymentStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:  item.ProductID.String(),
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice,
		})
	}
	createdByName := ""
	if s.CreatedBy != nil {
		createdByName = s.CreatedBy.Name
	}
	return &dto.SaleResponse{
		ID:            s.ID.String(),
		Items:         items,
		Customer:      s.Customer,
		TotalAmount:   s.TotalAmount,
		PaymentMethod: s.PaymentMethod,
		PaymentStatus: s.PaymentStatus,
		CreatedBy:     s.CreatedByID.String(),
		CreatedByName: createdByName,
		CreatedAt:     s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
