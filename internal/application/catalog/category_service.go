package catalog

import (
	"context"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	store pharmacy.CategoryStore
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(store pharmacy.CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, name, description string) (*pharmacy.Category, error) {
	category, err := pharmacy.NewCategory(name, description)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id int64) (*pharmacy.Category, error) {
	return s.store.GetCategory(ctx, id)
}

// List retrieves all categories in insertion order
func (s *CategoryService) List(ctx context.Context) ([]pharmacy.Category, error) {
	return s.store.ListCategories(ctx)
}

// Update applies a partial update to a category
func (s *CategoryService) Update(ctx context.Context, id int64, patch pharmacy.CategoryPatch) (*pharmacy.Category, error) {
	return s.store.UpdateCategory(ctx, id, patch)
}

// Delete removes a category; deleting an absent category is an error
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return shared.NewNotFoundError("category", id)
	}
	return nil
}
