package handler

import (
	"net/http"
	"strconv"
	"time"

	"inventory-backend/internal/domains/stock/model"
	"inventory-backend/internal/domains/stock/service"
	"inventory-backend/internal/shared/middleware"
	"inventory-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct {
	service service.ServiceInterface
}

func NewStockHandler(service service.ServiceInterface) *StockHandler {
	return &StockHandler{service: service}
}

// Adjust handles POST /stock/adjustments.
func (h *StockHandler) Adjust(c *gin.Context) {
	actor, ok := middleware.PrincipalID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req model.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	mv, err := h.service.Adjust(c.Request.Context(), req, actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "stock adjusted", mv)
}

// Movements handles GET /stock/movements with optional product_id,
// warehouse_id, since, until, limit, offset query parameters.
func (h *StockHandler) Movements(c *gin.Context) {
	var filter model.LedgerFilter

	if v := c.Query("product_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "invalid product_id")
			return
		}
		filter.ProductID = &id
	}
	if v := c.Query("warehouse_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "invalid warehouse_id")
			return
		}
		filter.WarehouseID = &id
	}
	if v := c.Query("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "since must be RFC3339")
			return
		}
		filter.Since = &t
	}
	if v := c.Query("until"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "until must be RFC3339")
			return
		}
		filter.Until = &t
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	movements, total, err := h.service.Ledger(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKWithSummary(c, "movements retrieved", movements, gin.H{
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// Positions handles GET /stock/positions/:productId. With a warehouse_id
// query parameter it returns the single (product, warehouse) position instead
// of the per-warehouse list.
func (h *StockHandler) Positions(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid product id")
		return
	}

	if v := c.Query("warehouse_id"); v != "" {
		warehouseID, err := uuid.Parse(v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "invalid warehouse_id")
			return
		}
		position, err := h.service.Position(c.Request.Context(), productID, warehouseID)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "position retrieved", position)
		return
	}

	positions, err := h.service.PositionsForProduct(c.Request.Context(), productID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "positions retrieved", positions)
}

// Verify handles GET /stock/verify.
func (h *StockHandler) Verify(c *gin.Context) {
	report, err := h.service.Verify(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "ledger verified", report)
}

// Rebuild handles POST /stock/rebuild.
func (h *StockHandler) Rebuild(c *gin.Context) {
	rewritten, err := h.service.Rebuild(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "positions rebuilt", gin.H{"rewritten": rewritten})
}
