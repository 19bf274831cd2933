package handler

import (
	"net/http"

	"inventory-backend/internal/domains/alert/model"
	"inventory-backend/internal/domains/alert/service"
	"inventory-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	service service.ServiceInterface
}

func NewAlertHandler(service service.ServiceInterface) *AlertHandler {
	return &AlertHandler{service: service}
}

// List handles GET /alerts?status={unresolved|resolved|all}.
func (h *AlertHandler) List(c *gin.Context) {
	status := model.StatusFilter(c.DefaultQuery("status", string(model.StatusUnresolved)))

	items, err := h.service.List(c.Request.Context(), status)
	if err != nil {
		response.FromError(c, err)
		return
	}

	unresolved := 0
	for _, it := range items {
		if it.ResolvedAt == nil {
			unresolved++
		}
	}

	response.OKWithSummary(c, "alerts retrieved", items, gin.H{
		"total":      len(items),
		"unresolved": unresolved,
	})
}

// Resolve handles PATCH /alerts.
func (h *AlertHandler) Resolve(c *gin.Context) {
	var req model.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	alert, err := h.service.Resolve(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.OK(c, "alert resolved", alert)
}
