package pharmacy

import (
	"strings"
	"time"

	"github.com/pharma/backend/internal/domain/shared"
)

// Product represents a stocked pharmacy item (SKU)
// Category is a free-text label; it is not a foreign key into Category.
type Product struct {
	ID                int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string     `gorm:"type:varchar(200);not null" json:"name"`
	SKU               string     `gorm:"column:sku;type:varchar(50);not null;uniqueIndex" json:"sku"`
	Description       string     `gorm:"type:text" json:"description"`
	Category          string     `gorm:"type:varchar(100);not null" json:"category"`
	Price             float64    `gorm:"not null" json:"price"`
	CostPrice         float64    `gorm:"not null" json:"costPrice"`
	Stock             int        `gorm:"not null;default:0" json:"stock"`
	LowStockThreshold int        `gorm:"not null;default:10" json:"lowStockThreshold"`
	ExpiryDate        *time.Time `gorm:"index" json:"expiryDate"`
	SupplierID        *int64     `gorm:"index" json:"supplierId"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NormalizeSKU validates a SKU and returns its canonical uppercase form
func NormalizeSKU(sku string) (string, error) {
	if err := validateSKU(sku); err != nil {
		return "", err
	}
	return strings.ToUpper(sku), nil
}

// NewProduct creates a new product
func NewProduct(name, sku, category string, price, costPrice float64) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product name cannot be empty")
	}
	if price < 0 || costPrice < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Price cannot be negative")
	}

	return &Product{
		Name:              strings.TrimSpace(name),
		SKU:               strings.ToUpper(sku),
		Category:          category,
		Price:             price,
		CostPrice:         costPrice,
		LowStockThreshold: 10,
	}, nil
}

// IsLowStock reports whether stock is at or below the configured threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// IsExpiredAt reports whether the product's expiry date is strictly before t.
// Products without an expiry date never expire.
func (p *Product) IsExpiredAt(t time.Time) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.Before(t)
}

// ProductPatch holds a partial update; nil fields are left untouched
type ProductPatch struct {
	Name              *string
	SKU               *string
	Description       *string
	Category          *string
	Price             *float64
	CostPrice         *float64
	Stock             *int
	LowStockThreshold *int
	ExpiryDate        *time.Time
	SupplierID        *int64
}

// Apply shallow-merges the patch onto the product
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.SKU != nil {
		product.SKU = strings.ToUpper(*p.SKU)
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.CostPrice != nil {
		product.CostPrice = *p.CostPrice
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.LowStockThreshold != nil {
		product.LowStockThreshold = *p.LowStockThreshold
	}
	if p.ExpiryDate != nil {
		product.ExpiryDate = p.ExpiryDate
	}
	if p.SupplierID != nil {
		product.SupplierID = p.SupplierID
	}
}

// validateSKU validates the product SKU
func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_INPUT", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_INPUT", "SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_INPUT", "SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
