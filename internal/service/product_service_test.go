package service

import (
	"context"
	"testing"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/dto"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProductSvc() (ProductService, *stubProductRepo, *stubMovementRepo) {
	repo := newStubProductRepo()
	movements := &stubMovementRepo{}
	return NewProductService(repo, movements, nil), repo, movements
}

func TestCreateProduct_Defaults(t *testing.T) {
	svc, repo, _ := buildProductSvc()

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Brand:        "NGK",
		Name:         "Spark Plug BKR6E",
		Category:     "Engine",
		CostPrice:    decimal.NewFromFloat(3),
		SellingPrice: decimal.NewFromFloat(6),
		Stock:        40,
	})
	require.NoError(t, err)

	assert.Equal(t, model.ProductActive, resp.Status)
	assert.Equal(t, 1, resp.MinStock)
	assert.Equal(t, "/images/default-part.jpg", resp.ImageURL)

	stored := repo.products[uuid.MustParse(resp.ID)]
	require.NotNil(t, stored)
	assert.Equal(t, 40, stored.Stock)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	svc, _, _ := buildProductSvc()

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Brand:    "NGK",
		Name:     "Mystery Part",
		Category: "Snacks",
	})
	assert.ErrorContains(t, err, "unknown category")
}

func TestUpdateProduct_PartialFields(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	p := seedProduct(repo, "Air Filter", 25, 12, 3)

	newPrice := decimal.NewFromFloat(30)
	resp, err := svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{
		SellingPrice: &newPrice,
	})
	require.NoError(t, err)

	// Only the named field changes.
	assert.Equal(t, "30", resp.SellingPrice.String())
	assert.Equal(t, "Air Filter", resp.Name)
	assert.Equal(t, 12, resp.Stock)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc, _, _ := buildProductSvc()
	_, err := svc.Update(context.Background(), uuid.New(), dto.UpdateProductRequest{})
	var notFoundErr *ProductNotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestArchiveAndRestore(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	p := seedProduct(repo, "Clutch Kit", 180, 5, 1)

	require.NoError(t, svc.Archive(context.Background(), p.ID))
	assert.Equal(t, model.ProductArchived, repo.products[p.ID].Status)

	// Archived products stay readable.
	resp, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProductArchived, resp.Status)

	require.NoError(t, svc.Restore(context.Background(), p.ID))
	assert.Equal(t, model.ProductActive, repo.products[p.ID].Status)

	var notFoundErr *ProductNotFoundError
	assert.ErrorAs(t, svc.Archive(context.Background(), uuid.New()), &notFoundErr)
}

func TestAdjustStock_WritesMovement(t *testing.T) {
	svc, repo, movements := buildProductSvc()
	p := seedProduct(repo, "Headlight Bulb", 12, 6, 2)

	resp, err := svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{
		Delta:  4,
		Reason: "supplier delivery",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Stock)

	rows, _ := movements.ListByProduct(context.Background(), p.ID, 10)
	require.Len(t, rows, 1)
	assert.Equal(t, model.MovementManualAdjust, rows[0].Type)
	assert.Equal(t, 4, rows[0].Quantity)
	assert.Equal(t, 6, rows[0].StockBefore)
	assert.Equal(t, 10, rows[0].StockAfter)
}

func TestAdjustStock_NeverGoesNegative(t *testing.T) {
	svc, repo, movements := buildProductSvc()
	p := seedProduct(repo, "Fan Belt", 18, 3, 1)

	_, err := svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{
		Delta:  -5,
		Reason: "damaged batch",
	})

	var insufficientErr *InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 3, repo.products[p.ID].Stock)
	assert.Empty(t, movements.movements)

	resp, err := svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{
		Delta:  -3,
		Reason: "damaged batch",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Stock)
}

func TestProductStats(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	seedProduct(repo, "Pad A", 50, 10, 2)
	low := seedProduct(repo, "Pad B", 20, 1, 5) // below min stock
	archived := seedProduct(repo, "Pad C", 30, 8, 1)
	archived.Status = model.ProductArchived
	_ = low

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Count)
	assert.Equal(t, int64(1), stats.LowStock)
	// 50×10 + 20×1 = 520 (archived product excluded)
	assert.Equal(t, "520", stats.TotalStockValue.String())
}

func TestVehicleCompatibilityNarrowing(t *testing.T) {
	svc, repo, _ := buildProductSvc()
	p := seedProduct(repo, "Brake Disc", 60, 4, 1)
	p.Compatibility = []model.ProductCompatibility{
		{Make: "Toyota", Model: "Corolla", Year: "2020"},
		{Make: "Toyota", Model: "Hilux", Year: "2019"},
		{Make: "Ford", Model: "Ranger", Year: "2021"},
	}

	resp, err := svc.VehicleCompatibility(context.Background(), "", "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Toyota", "Ford"}, resp.Makes)
	assert.Empty(t, resp.Models)

	resp, err = svc.VehicleCompatibility(context.Background(), "Toyota", "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Corolla", "Hilux"}, resp.Models)

	resp, err = svc.VehicleCompatibility(context.Background(), "Toyota", "Corolla")
	require.NoError(t, err)
	assert.Equal(t, []string{"2020"}, resp.Years)
}
