package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"inventory-backend/internal/domains/document/model"
	"inventory-backend/internal/domains/document/service"
	"inventory-backend/internal/shared/middleware"
	"inventory-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DocumentHandler struct {
	service service.ServiceInterface
}

func NewDocumentHandler(service service.ServiceInterface) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// listFilter parses the shared list query params. partyParam is supplier_id on
// /purchases and customer_id on /sales. Listings default to POSTED documents
// with compensators hidden; status=all lifts the status constraint.
func listFilter(c *gin.Context, partyParam string) (model.ListFilter, error) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter := model.ListFilter{Limit: limit, Offset: offset}

	switch strings.ToLower(c.DefaultQuery("status", "posted")) {
	case "posted":
		filter.Status = model.StatusPosted
	case "cancelled":
		filter.Status = model.StatusCancelled
	case "all":
	default:
		return filter, errors.New("status must be posted, cancelled or all")
	}

	if v := c.Query(partyParam); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, errors.New("invalid " + partyParam)
		}
		filter.PartyID = &id
	}
	if v := c.Query("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("since must be RFC3339")
		}
		filter.Since = &t
	}
	if v := c.Query("until"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("until must be RFC3339")
		}
		filter.Until = &t
	}
	if v := c.Query("include_compensations"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errors.New("include_compensations must be a boolean")
		}
		filter.IncludeCompensations = include
	}
	return filter, nil
}

// PostPurchase handles POST /purchases.
func (h *DocumentHandler) PostPurchase(c *gin.Context) {
	actor, ok := middleware.PrincipalID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req model.PostPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	purchase, err := h.service.PostPurchase(c.Request.Context(), req, actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "purchase posted", purchase)
}

// ListPurchases handles GET /purchases.
func (h *DocumentHandler) ListPurchases(c *gin.Context) {
	filter, err := listFilter(c, "supplier_id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	purchases, total, err := h.service.ListPurchases(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKWithSummary(c, "purchases retrieved", purchases, gin.H{"total": total})
}

// GetPurchase handles GET /purchases/:id.
func (h *DocumentHandler) GetPurchase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid purchase id")
		return
	}

	purchase, err := h.service.GetPurchase(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "purchase retrieved", purchase)
}

// CancelPurchase handles POST /purchases/:id/cancel.
func (h *DocumentHandler) CancelPurchase(c *gin.Context) {
	actor, ok := middleware.PrincipalID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid purchase id")
		return
	}

	purchase, err := h.service.CancelPurchase(c.Request.Context(), id, actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "purchase cancelled", purchase)
}

// PostSale handles POST /sales.
func (h *DocumentHandler) PostSale(c *gin.Context) {
	actor, ok := middleware.PrincipalID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req model.PostSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	sale, err := h.service.PostSale(c.Request.Context(), req, actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "sale posted", sale)
}

// ListSales handles GET /sales.
func (h *DocumentHandler) ListSales(c *gin.Context) {
	filter, err := listFilter(c, "customer_id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	sales, total, err := h.service.ListSales(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKWithSummary(c, "sales retrieved", sales, gin.H{"total": total})
}

// GetSale handles GET /sales/:id.
func (h *DocumentHandler) GetSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid sale id")
		return
	}

	sale, err := h.service.GetSale(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "sale retrieved", sale)
}

// CancelSale handles POST /sales/:id/cancel.
func (h *DocumentHandler) CancelSale(c *gin.Context) {
	actor, ok := middleware.PrincipalID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid sale id")
		return
	}

	sale, err := h.service.CancelSale(c.Request.Context(), id, actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "sale cancelled", sale)
}
