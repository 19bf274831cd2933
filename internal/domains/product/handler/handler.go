package handler

import (
	"net/http"

	"inventory-backend/internal/domains/product/model"
	"inventory-backend/internal/domains/product/service"
	"inventory-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductHandler struct {
	service service.ServiceInterface
}

func NewProductHandler(service service.ServiceInterface) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "product created", product)
}

// List handles GET /products: active products with per-warehouse stock.
func (h *ProductHandler) List(c *gin.Context) {
	views, err := h.service.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKWithSummary(c, "products retrieved", views, gin.H{"total": len(views)})
}

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid product id")
		return
	}

	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "product retrieved", view)
}

// GetByCode handles GET /products/code/:code.
func (h *ProductHandler) GetByCode(c *gin.Context) {
	view, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "product retrieved", view)
}

// Update handles PUT /products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "product updated", product)
}

// Deactivate handles DELETE /products/:id. Products that never moved are
// removed outright; anything with ledger history is soft-deleted.
func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid product id")
		return
	}

	deleted, err := h.service.Deactivate(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if deleted {
		response.OK(c, "product deleted", nil)
		return
	}
	response.OK(c, "product deactivated", nil)
}
