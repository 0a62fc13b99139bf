package dto

import "time"

// Auth

// LoginRequest is the credential payload for POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token for POST /api/auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Users

// CreateUserRequest is the payload for POST /api/users
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin manager staff"`
}

// UpdateUserRequest is the partial payload for PUT /api/users/:id
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	FullName *string `json:"fullName"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin manager staff"`
}

// Products

// CreateProductRequest is the payload for POST /api/products
type CreateProductRequest struct {
	Name              string     `json:"name" binding:"required"`
	SKU               string     `json:"sku" binding:"required,max=50"`
	Description       string     `json:"description"`
	Category          string     `json:"category" binding:"required"`
	Price             float64    `json:"price" binding:"gte=0"`
	CostPrice         float64    `json:"costPrice" binding:"gte=0"`
	Stock             int        `json:"stock" binding:"gte=0"`
	LowStockThreshold *int       `json:"lowStockThreshold" binding:"omitempty,gte=0"`
	ExpiryDate        *time.Time `json:"expiryDate"`
	SupplierID        *int64     `json:"supplierId"`
}

// UpdateProductRequest is the partial payload for PUT /api/products/:id
type UpdateProductRequest struct {
	Name              *string    `json:"name"`
	SKU               *string    `json:"sku" binding:"omitempty,max=50"`
	Description       *string    `json:"description"`
	Category          *string    `json:"category"`
	Price             *float64   `json:"price" binding:"omitempty,gte=0"`
	CostPrice         *float64   `json:"costPrice" binding:"omitempty,gte=0"`
	Stock             *int       `json:"stock" binding:"omitempty,gte=0"`
	LowStockThreshold *int       `json:"lowStockThreshold" binding:"omitempty,gte=0"`
	ExpiryDate        *time.Time `json:"expiryDate"`
	SupplierID        *int64     `json:"supplierId"`
}

// Categories

// CreateCategoryRequest is the payload for POST /api/categories
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateCategoryRequest is the partial payload for PUT /api/categories/:id
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Suppliers

// CreateSupplierRequest is the payload for POST /api/suppliers
type CreateSupplierRequest struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateSupplierRequest is the partial payload for PUT /api/suppliers/:id
type UpdateSupplierRequest struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// Customers

// CreateCustomerRequest is the payload for POST /api/customers
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateCustomerRequest is the partial payload for PUT /api/customers/:id
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// Transactions

// TransactionItemRequest is one line of a checkout payload
type TransactionItemRequest struct {
	ProductID int64   `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"gte=0"`
}

// CreateTransactionRequest is the payload for POST /api/transactions.
// TransactionID is the client-chosen display code; Total must reconcile
// with the sum of item prices times quantities.
type CreateTransactionRequest struct {
	TransactionID string                   `json:"transactionId" binding:"required"`
	CustomerID    *int64                   `json:"customerId"`
	Total         float64                  `json:"total" binding:"gte=0"`
	Status        string                   `json:"status" binding:"omitempty,oneof=completed pending"`
	Items         []TransactionItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateTransactionItemRequest is the payload for POST /api/transaction-items.
// It appends a line to an existing transaction without touching stock;
// Subtotal defaults to price times quantity when omitted.
type CreateTransactionItemRequest struct {
	TransactionID int64   `json:"transactionId" binding:"required"`
	ProductID     int64   `json:"productId" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	Price         float64 `json:"price" binding:"gte=0"`
	Subtotal      float64 `json:"subtotal" binding:"omitempty,gte=0"`
}
