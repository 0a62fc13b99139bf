package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pharma/backend/internal/application/catalog"
	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/interfaces/http/dto"
)

// ProductHandler exposes the product CRUD and stock query endpoints
type ProductHandler struct {
	BaseHandler
	service *catalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service *catalog.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Get handles GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	product, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create handles POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.service.Create(c.Request.Context(), catalog.CreateProductInput{
		Name:              req.Name,
		SKU:               req.SKU,
		Description:       req.Description,
		Category:          req.Category,
		Price:             req.Price,
		CostPrice:         req.CostPrice,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		ExpiryDate:        req.ExpiryDate,
		SupplierID:        req.SupplierID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update handles PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.service.Update(c.Request.Context(), id, pharmacy.ProductPatch{
		Name:              req.Name,
		SKU:               req.SKU,
		Description:       req.Description,
		Category:          req.Category,
		Price:             req.Price,
		CostPrice:         req.CostPrice,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		ExpiryDate:        req.ExpiryDate,
		SupplierID:        req.SupplierID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete handles DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// LowStock handles GET /api/products/low-stock
func (h *ProductHandler) LowStock(c *gin.Context) {
	products, err := h.service.ListLowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Expired handles GET /api/products/expired
func (h *ProductHandler) Expired(c *gin.Context) {
	products, err := h.service.ListExpired(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}
