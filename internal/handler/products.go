package handler

import (
	"net/http"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/apierror"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/dto"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// List godoc
// @Summary      List products
// @Description  Paginated catalog listing with category, brand, text, vehicle and lifecycle filters.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        category   query string false "Category"
// @Param        brand      query string false "Brand (partial match)"
// @Param        name       query string false "Name (partial match)"
// @Param        make       query string false "Vehicle make"
// @Param        model      query string false "Vehicle model"
// @Param        status     query string false "active (default) | archived | all"
// @Param        page       query int    false "Page (default 1)"
// @Param        limit      query int    false "Page size (default 100)"
// @Success      200 {object} dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats godoc
// @Summary      Catalog statistics
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ProductStatsResponse
// @Router       /api/products/stats [get]
func (h *ProductsHandler) Stats(c *gin.Context) {
	resp, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Compatibility godoc
// @Summary      Vehicle compatibility lookups
// @Description  Returns known makes; models when make is given; years when make and model are given.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        make  query string false "Vehicle make"
// @Param        model query string false "Vehicle model"
// @Success      200 {object} dto.VehicleCompatibilityResponse
// @Router       /api/products/vehicle-compatibility [get]
func (h *ProductsHandler) Compatibility(c *gin.Context) {
	resp, err := h.svc.VehicleCompatibility(c.Request.Context(), c.Query("make"), c.Query("model"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Product detail
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/products/{id} [get]
func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductRequest true "Product details"
// @Success      201 {object} dto.ProductResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /api/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Update a product
// @Description  Partial update. Stock cannot be changed here; use the stock adjustment endpoint.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Product UUID"
// @Param        body body dto.UpdateProductRequest true "Fields to update"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Archive godoc
// @Summary      Archive a product
// @Description  Archived products keep their sale history but can no longer be sold.
// @Tags         products
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /api/products/{id} [delete]
func (h *ProductsHandler) Archive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Archive(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Restore godoc
// @Summary      Restore an archived product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /api/products/{id}/restore [patch]
func (h *ProductsHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Restore(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock godoc
// @Summary      Manually adjust stock
// @Description  Applies a signed delta with an audit reason. Stock never goes below zero.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Product UUID"
// @Param        body body dto.AdjustStockRequest true "Delta and reason"
// @Success      200 {object} dto.ProductResponse
// @Failure      409 {object} apierror.APIError
// @Router       /api/products/{id}/stock [patch]
func (h *ProductsHandler) AdjustStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}
