package pharmacy

import (
	"strings"

	"github.com/pharma/backend/internal/domain/shared"
)

// Category represents a product category used for dashboard grouping
type Category struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category name cannot exceed 100 characters")
	}

	return &Category{
		Name:        name,
		Description: description,
	}, nil
}

// CategoryPatch holds a partial update; nil fields are left untouched
type CategoryPatch struct {
	Name        *string
	Description *string
}

// Apply shallow-merges the patch onto the category
func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
}
