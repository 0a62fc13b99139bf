package pharmacy

import (
	"strings"

	"github.com/pharma/backend/internal/domain/shared"
)

// Supplier represents a supplier of pharmacy products
type Supplier struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"type:varchar(200);not null" json:"name"`
	Contact string `gorm:"type:varchar(100);not null" json:"contact"`
	Email   string `gorm:"type:varchar(200)" json:"email"`
	Phone   string `gorm:"type:varchar(50)" json:"phone"`
	Address string `gorm:"type:text" json:"address"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(name, contact string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Supplier name cannot be empty")
	}
	if contact == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Supplier contact cannot be empty")
	}

	return &Supplier{
		Name:    name,
		Contact: contact,
	}, nil
}

// SupplierPatch holds a partial update; nil fields are left untouched
type SupplierPatch struct {
	Name    *string
	Contact *string
	Email   *string
	Phone   *string
	Address *string
}

// Apply shallow-merges the patch onto the supplier
func (p SupplierPatch) Apply(s *Supplier) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Contact != nil {
		s.Contact = *p.Contact
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
}
