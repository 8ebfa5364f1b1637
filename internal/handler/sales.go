package handler

import (
	"net/http"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/apierror"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/dto"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/infra"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/middleware"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/repository"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type SalesHandler struct {
	svc            service.SaleService
	sales          repository.SaleRepository
	pdfStoragePath string
}

func NewSalesHandler(svc service.SaleService, sales repository.SaleRepository, pdfStoragePath string) *SalesHandler {
	return &SalesHandler{svc: svc, sales: sales, pdfStoragePath: pdfStoragePath}
}

// Create godoc
// @Summary      Record a sale
// @Description  Creates a sale atomically: validates every line, decrements stock and writes movement rows in one transaction. Nothing is persisted on failure.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSaleRequest true "Sale details"
// @Success      201 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError "Unknown product"
// @Failure      409 {object} apierror.APIError "Insufficient stock or transaction conflict"
// @Router       /api/sales [post]
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("invalid token subject"))
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate   query string false "YYYY-MM-DD"
// @Param        status    query string false "pending | completed | cancelled | all"
// @Param        page      query int    false "Page (default 1)"
// @Param        limit     query int    false "Page size (default 50)"
// @Success      200 {object} dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
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

// Get godoc
// @Summary      Sale detail
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/sales/{id} [get]
func (h *SalesHandler) Get(c *gin.Context) {
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

// UpdateStatus godoc
// @Summary      Update payment status
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                true "Sale UUID"
// @Param        body body dto.UpdateSaleRequest true "New payment status"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/sales/{id} [put]
func (h *SalesHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a sale
// @Description  Removes the sale and restores stock for every line in one transaction.
// @Tags         sales
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /api/sales/{id} [delete]
func (h *SalesHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Receipt godoc
// @Summary      Download a PDF receipt
// @Tags         sales
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      200
// @Failure      404 {object} apierror.APIError
// @Router       /api/sales/{id}/receipt [get]
func (h *SalesHandler) Receipt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sale, err := h.sales.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("sale not found"))
		return
	}
	path, err := infra.GenerateReceiptPDF(sale, h.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", id.String()).Msg("receipt generation failed")
		c.JSON(http.StatusInternalServerError, apierror.New("could not generate receipt"))
		return
	}
	c.FileAttachment(path, "receipt_"+id.String()+".pdf")
}
