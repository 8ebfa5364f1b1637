package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/apierror"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/dto"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const priceCacheTTL = 4 * time.Hour

// PriceCheckHandler serves the public price lookup endpoint.
// No authentication required — read-only, no side effects.
type PriceCheckHandler struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewPriceCheckHandler(repo repository.ProductRepository, rdb *redis.Client) *PriceCheckHandler {
	return &PriceCheckHandler{repo: repo, rdb: rdb}
}

// GetPriceBySKU godoc
// @Summary      Public price lookup by SKU (no authentication)
// @Tags         price
// @Produce      json
// @Param        sku path string true "Product SKU"
// @Success      200 {object} dto.PriceCheckResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/price/{sku} [get]
func (h *PriceCheckHandler) GetPriceBySKU(c *gin.Context) {
	sku := c.Param("sku")
	ctx := c.Request.Context()
	cacheKey := "price:" + sku

	// 1. Try Redis cache
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.PriceCheckResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	// 2. Cache miss — query DB
	product, err := h.repo.FindBySKU(ctx, sku)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}

	resp := dto.PriceCheckResponse{
		Name:         product.Name,
		Brand:        product.Brand,
		SellingPrice: product.SellingPrice,
		Stock:        product.Stock,
		Category:     product.Category,
	}

	// 3. Populate cache — best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), cacheKey, b, priceCacheTTL).Err()
		}
	}

	c.JSON(http.StatusOK, resp)
}
