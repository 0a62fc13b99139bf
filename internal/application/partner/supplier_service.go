package partner

import (
	"context"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/domain/shared"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	store pharmacy.SupplierStore
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(store pharmacy.SupplierStore) *SupplierService {
	return &SupplierService{store: store}
}

// CreateSupplierInput carries the fields accepted on supplier creation
type CreateSupplierInput struct {
	Name    string
	Contact string
	Email   string
	Phone   string
	Address string
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, input CreateSupplierInput) (*pharmacy.Supplier, error) {
	supplier, err := pharmacy.NewSupplier(input.Name, input.Contact)
	if err != nil {
		return nil, err
	}
	supplier.Email = input.Email
	supplier.Phone = input.Phone
	supplier.Address = input.Address

	if err := s.store.CreateSupplier(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id int64) (*pharmacy.Supplier, error) {
	return s.store.GetSupplier(ctx, id)
}

// List retrieves all suppliers in insertion order
func (s *SupplierService) List(ctx context.Context) ([]pharmacy.Supplier, error) {
	return s.store.ListSuppliers(ctx)
}

// Update applies a partial update to a supplier
func (s *SupplierService) Update(ctx context.Context, id int64, patch pharmacy.SupplierPatch) (*pharmacy.Supplier, error) {
	return s.store.UpdateSupplier(ctx, id, patch)
}

// Delete removes a supplier; deleting an absent supplier is an error
func (s *SupplierService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteSupplier(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return shared.NewNotFoundError("supplier", id)
	}
	return nil
}
