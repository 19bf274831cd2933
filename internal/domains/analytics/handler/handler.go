package handler

import (
	"net/http"
	"strconv"
	"time"

	"inventory-backend/internal/domains/analytics/service"
	"inventory-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service service.ServiceInterface
}

func NewAnalyticsHandler(service service.ServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// LowStock handles GET /products/low-stock.
func (h *AnalyticsHandler) LowStock(c *gin.Context) {
	items, summary, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKWithSummary(c, "low stock report", items, summary)
}

// DeadStock handles GET /products/dead-stock?days=N.
func (h *AnalyticsHandler) DeadStock(c *gin.Context) {
	days := 0
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = parsed
	}

	items, summary, err := h.service.DeadStock(c.Request.Context(), days)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKWithSummary(c, "dead stock report", items, summary)
}

func yearMonth(c *gin.Context) (int, int, bool) {
	now := time.Now().UTC()

	year := now.Year()
	if v := c.Query("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "year must be an integer")
			return 0, 0, false
		}
		year = parsed
	}

	month := int(now.Month())
	if v := c.Query("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "month must be an integer")
			return 0, 0, false
		}
		month = parsed
	}
	return year, month, true
}

// Dashboard handles GET /analytics/dashboard?year&month&week?.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}

	var week *int
	if v := c.Query("week"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "week must be an integer")
			return
		}
		week = &parsed
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), year, month, week)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "dashboard stats", dashboard)
}

// MonthlySales handles GET /analytics/monthly-sales?year&month?.
func (h *AnalyticsHandler) MonthlySales(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}

	report, err := h.service.MonthlySales(c.Request.Context(), year, month)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "monthly sales report", report)
}

// ExportMonthlySales handles GET /analytics/monthly-sales/export and streams
// an xlsx workbook.
func (h *AnalyticsHandler) ExportMonthlySales(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}

	data, filename, err := h.service.ExportMonthlySales(c.Request.Context(), year, month)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
