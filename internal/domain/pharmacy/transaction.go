package pharmacy

import (
	"strings"
	"time"

	"github.com/pharma/backend/internal/domain/shared"
)

// TransactionStatus represents the status of a sale
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
)

// IsValid reports whether the status is one of the known statuses
func (s TransactionStatus) IsValid() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusPending
}

// Transaction represents a committed point-of-sale transaction.
// Code is the human-facing display code (e.g. "TRX-6523"); ID is the
// storage identifier.
type Transaction struct {
	ID         int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Code       string            `gorm:"column:transaction_id;type:varchar(50);not null;uniqueIndex" json:"transactionId"`
	CustomerID *int64            `gorm:"index" json:"customerId"`
	Total      float64           `gorm:"not null" json:"total"`
	Status     TransactionStatus `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	CreatedAt  time.Time         `gorm:"not null;index" json:"createdAt"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction creates a new transaction record
func NewTransaction(code string, customerID *int64, total float64, status TransactionStatus) (*Transaction, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction code cannot be empty")
	}
	if total < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction total cannot be negative")
	}
	if status == "" {
		status = TransactionStatusCompleted
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Status must be completed or pending")
	}

	return &Transaction{
		Code:       code,
		CustomerID: customerID,
		Total:      total,
		Status:     status,
		CreatedAt:  time.Now(),
	}, nil
}

// TransactionItem represents one line of a transaction.
// Subtotal is caller-supplied; the checkout flow reconciles the sum of
// price*quantity against the declared transaction total.
type TransactionItem struct {
	ID            int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID int64   `gorm:"not null;index" json:"transactionId"`
	ProductID     int64   `gorm:"not null;index" json:"productId"`
	Quantity      int     `gorm:"not null" json:"quantity"`
	Price         float64 `gorm:"not null" json:"price"`
	Subtotal      float64 `gorm:"not null" json:"subtotal"`
}

// TableName returns the table name for GORM
func (TransactionItem) TableName() string {
	return "transaction_items"
}
