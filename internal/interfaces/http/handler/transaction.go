package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pharma/backend/internal/application/pos"
	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/interfaces/http/dto"
)

// TransactionHandler exposes checkout and transaction queries
type TransactionHandler struct {
	BaseHandler
	service *pos.CheckoutService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(service *pos.CheckoutService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// checkoutResponse is the committed transaction with its line items
type checkoutResponse struct {
	Transaction *pharmacy.Transaction      `json:"transaction"`
	Items       []pharmacy.TransactionItem `json:"items"`
}

// List handles GET /api/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	txns, err := h.service.ListTransactions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txns)
}

// Get handles GET /api/transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	txn, err := h.service.GetTransaction(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txn)
}

// Items handles GET /api/transactions/:id/items
func (h *TransactionHandler) Items(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	items, err := h.service.ListTransactionItems(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Create handles POST /api/transactions. An Idempotency-Key header makes
// retries safe: a replayed request answers 200 with the original sale
// instead of 201 with a new one.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	items := make([]pos.CheckoutItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, pos.CheckoutItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	result, err := h.service.Checkout(c.Request.Context(), pos.CheckoutInput{
		Code:           req.TransactionID,
		CustomerID:     req.CustomerID,
		Total:          req.Total,
		Status:         pharmacy.TransactionStatus(req.Status),
		Items:          items,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := checkoutResponse{Transaction: result.Transaction, Items: result.Items}
	if result.Replayed {
		h.Success(c, resp)
		return
	}
	h.Created(c, resp)
}

// CreateItem handles POST /api/transaction-items. It appends a line to an
// existing transaction without the checkout reconciliation or stock moves.
func (h *TransactionHandler) CreateItem(c *gin.Context) {
	var req dto.CreateTransactionItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item := &pharmacy.TransactionItem{
		TransactionID: req.TransactionID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		Price:         req.Price,
		Subtotal:      req.Subtotal,
	}
	if err := h.service.AddTransactionItem(c.Request.Context(), item); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}
