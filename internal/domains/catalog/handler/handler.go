package handler

import (
	"net/http"

	"inventory-backend/internal/domains/catalog/model"
	"inventory-backend/internal/domains/catalog/service"
	"inventory-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	service service.ServiceInterface
}

func NewCatalogHandler(service service.ServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "category created", category)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "categories retrieved", categories)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	category, err := h.service.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "category updated", category)
}

func (h *CatalogHandler) DeactivateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeactivateCategory(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "category deactivated", nil)
}

func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var req model.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	supplier, err := h.service.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "supplier created", supplier)
}

func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.service.ListSuppliers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "suppliers retrieved", suppliers)
}

func (h *CatalogHandler) UpdateSupplier(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	supplier, err := h.service.UpdateSupplier(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "supplier updated", supplier)
}

func (h *CatalogHandler) DeactivateSupplier(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeactivateSupplier(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "supplier deactivated", nil)
}

func (h *CatalogHandler) CreateCustomer(c *gin.Context) {
	var req model.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	customer, err := h.service.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "customer created", customer)
}

func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	customers, err := h.service.ListCustomers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "customers retrieved", customers)
}

func (h *CatalogHandler) UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	customer, err := h.service.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "customer updated", customer)
}

func (h *CatalogHandler) DeactivateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeactivateCustomer(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "customer deactivated", nil)
}

func (h *CatalogHandler) CreateWarehouse(c *gin.Context) {
	var req model.WarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	warehouse, err := h.service.CreateWarehouse(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "warehouse created", warehouse)
}

func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.service.ListWarehouses(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "warehouses retrieved", warehouses)
}

func (h *CatalogHandler) UpdateWarehouse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.WarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	warehouse, err := h.service.UpdateWarehouse(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "warehouse updated", warehouse)
}

func (h *CatalogHandler) DeactivateWarehouse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeactivateWarehouse(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, "warehouse deactivated", nil)
}
