//go:build integration

package e2e

// End-to-end integration tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/config"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/infra"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/router"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("autoparts_test"),
		tcPostgres.WithUsername("autoparts"),
		tcPostgres.WithPassword("autoparts"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		CORSOrigin:         "*",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	dispatcher := worker.NewDispatcher(rdb)
	r := router.New(cfg, db, rdb, dispatcher)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	// Register an account and promote it to admin directly in the DB.
	regResp := do(t, srv, "POST", "/api/auth/register",
		jsonBody(t, map[string]string{
			"name": "Admin E2E", "email": "admin@e2e.test", "password": "admin123",
		}), "")
	require.Equal(t, http.StatusCreated, regResp.StatusCode)
	regResp.Body.Close()
	require.NoError(t, db.Exec(`UPDATE users SET role = 'admin' WHERE email = 'admin@e2e.test'`).Error)

	loginResp := do(t, srv, "POST", "/api/auth/login",
		jsonBody(t, map[string]string{"email": "admin@e2e.test", "password": "admin123"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		Token string `json:"token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.Token)

	return &testEnv{server: srv, token: loginBody.Token}
}

func createProduct(t *testing.T, env *testEnv, name string, price float64, stock int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/api/products",
		jsonBody(t, map[string]any{
			"brand":        "Bosch",
			"name":         name,
			"category":     "Brakes",
			"costPrice":    price / 2,
			"sellingPrice": price,
			"stock":        stock,
			"sku":          "SKU-" + name,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

func productStock(t *testing.T, env *testEnv, id string) int {
	t.Helper()
	resp := do(t, env.server, "GET", "/api/products/"+id, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prod struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, resp, &prod)
	return prod.Stock
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)
	prodID := createProduct(t, env, "Brake Pad Set", 50, 10)

	saleResp := do(t, env.server, "POST", "/api/sales",
		jsonBody(t, map[string]any{
			"items":         []map[string]any{{"product": prodID, "quantity": 3}},
			"totalAmount":   150,
			"paymentMethod": "cash",
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID            string `json:"id"`
		PaymentStatus string `json:"paymentStatus"`
		Customer      string `json:"customer"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, "completed", sale.PaymentStatus)
	assert.Equal(t, "anonymous", sale.Customer)

	assert.Equal(t, 7, productStock(t, env, prodID))

	listResp := do(t, env.server, "GET", "/api/sales", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, int64(1), list.Total)
}

func TestE2E_InsufficientStockRejected(t *testing.T) {
	env := setupTestEnv(t)
	prodID := createProduct(t, env, "Oil Filter", 20, 2)

	saleResp := do(t, env.server, "POST", "/api/sales",
		jsonBody(t, map[string]any{
			"items":         []map[string]any{{"product": prodID, "quantity": 5}},
			"totalAmount":   100,
			"paymentMethod": "cash",
		}), env.token)
	assert.Equal(t, http.StatusConflict, saleResp.StatusCode)
	saleResp.Body.Close()

	// Nothing was persisted.
	assert.Equal(t, 2, productStock(t, env, prodID))
	listResp := do(t, env.server, "GET", "/api/sales", nil, env.token)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, int64(0), list.Total)
}

func TestE2E_DeleteSaleRestoresStock(t *testing.T) {
	env := setupTestEnv(t)
	prodID := createProduct(t, env, "Shock Absorber", 75, 10)

	saleResp := do(t, env.server, "POST", "/api/sales",
		jsonBody(t, map[string]any{
			"items":         []map[string]any{{"product": prodID, "quantity": 3}},
			"totalAmount":   225,
			"paymentMethod": "pix",
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID string `json:"id"`
	}
	decodeJSON(t, saleResp, &sale)
	require.Equal(t, 7, productStock(t, env, prodID))

	delResp := do(t, env.server, "DELETE", "/api/sales/"+sale.ID, nil, env.token)
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)
	delResp.Body.Close()

	assert.Equal(t, 10, productStock(t, env, prodID))

	getResp := do(t, env.server, "GET", "/api/sales/"+sale.ID, nil, env.token)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	getResp.Body.Close()
}

// Two concurrent sales race for the last unit; exactly one wins.
func TestE2E_ConcurrentSalesNeverOversell(t *testing.T) {
	env := setupTestEnv(t)
	prodID := createProduct(t, env, "Last Battery", 200, 1)

	var wg sync.WaitGroup
	statuses := make([]int, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := do(t, env.server, "POST", "/api/sales",
				jsonBody(t, map[string]any{
					"items":         []map[string]any{{"product": prodID, "quantity": 1}},
					"totalAmount":   200,
					"paymentMethod": "cash",
				}), env.token)
			statuses[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	created := 0
	for _, s := range statuses {
		if s == http.StatusCreated {
			created++
		} else {
			assert.Equal(t, http.StatusConflict, s)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 0, productStock(t, env, prodID))
}

func TestE2E_PublicPriceCheck(t *testing.T) {
	env := setupTestEnv(t)
	createProduct(t, env, "Wiper", 10, 5)

	// No Authorization header at all.
	resp := do(t, env.server, "GET", "/api/price/SKU-Wiper", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var price struct {
		Name         string  `json:"name"`
		SellingPrice float64 `json:"sellingPrice,string"`
		Stock        int     `json:"stock"`
	}
	decodeJSON(t, resp, &price)
	assert.Equal(t, "Wiper", price.Name)
	assert.Equal(t, 5, price.Stock)

	missing := do(t, env.server, "GET", "/api/price/NOPE", nil, "")
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	missing.Body.Close()
}

func TestE2E_ArchivedProductCannotBeSold(t *testing.T) {
	env := setupTestEnv(t)
	prodID := createProduct(t, env, "Old Radiator", 120, 6)

	archResp := do(t, env.server, "DELETE", "/api/products/"+prodID, nil, env.token)
	require.Equal(t, http.StatusNoContent, archResp.StatusCode)
	archResp.Body.Close()

	saleResp := do(t, env.server, "POST", "/api/sales",
		jsonBody(t, map[string]any{
			"items":         []map[string]any{{"product": prodID, "quantity": 1}},
			"totalAmount":   120,
			"paymentMethod": "cash",
		}), env.token)
	assert.Equal(t, http.StatusBadRequest, saleResp.StatusCode)
	saleResp.Body.Close()

	restoreResp := do(t, env.server, "PATCH", "/api/products/"+prodID+"/restore", nil, env.token)
	require.Equal(t, http.StatusNoContent, restoreResp.StatusCode)
	restoreResp.Body.Close()

	saleResp = do(t, env.server, "POST", "/api/sales",
		jsonBody(t, map[string]any{
			"items":         []map[string]any{{"product": prodID, "quantity": 1}},
			"totalAmount":   120,
			"paymentMethod": "cash",
		}), env.token)
	assert.Equal(t, http.StatusCreated, saleResp.StatusCode)
	saleResp.Body.Close()
}
