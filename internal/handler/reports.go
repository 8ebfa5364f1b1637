package handler

import (
	"net/http"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/apierror"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/dto"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Dashboard godoc
// @Summary      Dashboard aggregates
// @Description  Daily revenue, product counts, low-stock count, six months of revenue and top-selling categories.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.DashboardResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sales godoc
// @Summary      Sales report
// @Description  Sales over an explicit date range or a named period (day, week, month).
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate   query string false "YYYY-MM-DD"
// @Param        period    query string false "day | week | month"
// @Success      200 {object} dto.SalesReportResponse
// @Router       /api/reports/sales [get]
func (h *ReportsHandler) Sales(c *gin.Context) {
	var filter dto.SalesReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid period"))
		return
	}
	resp, err := h.svc.SalesReport(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stock godoc
// @Summary      Stock report
// @Description  Every product with its stock status (ok, low, out), optionally filtered by category.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        category query string false "Category or all"
// @Success      200 {object} dto.StockReportResponse
// @Router       /api/reports/stock [get]
func (h *ReportsHandler) Stock(c *gin.Context) {
	var filter dto.StockReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.StockReport(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
