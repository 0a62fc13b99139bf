package pharmacy

import (
	"strings"

	"github.com/pharma/backend/internal/domain/shared"
)

// Customer represents a pharmacy customer
type Customer struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"type:varchar(200);not null" json:"name"`
	Email   string `gorm:"type:varchar(200)" json:"email"`
	Phone   string `gorm:"type:varchar(50)" json:"phone"`
	Address string `gorm:"type:text" json:"address"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(name string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer name cannot be empty")
	}

	return &Customer{Name: name}, nil
}

// CustomerSummary is the compact shape embedded in transaction listings
type CustomerSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Summary returns the compact customer shape
func (c *Customer) Summary() CustomerSummary {
	return CustomerSummary{ID: c.ID, Name: c.Name}
}

// CustomerPatch holds a partial update; nil fields are left untouched
type CustomerPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// Apply shallow-merges the patch onto the customer
func (p CustomerPatch) Apply(c *Customer) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
}
