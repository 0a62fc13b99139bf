package partner

import (
	"context"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/domain/shared"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	store pharmacy.CustomerStore
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(store pharmacy.CustomerStore) *CustomerService {
	return &CustomerService{store: store}
}

// CreateCustomerInput carries the fields accepted on customer creation
type CreateCustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, input CreateCustomerInput) (*pharmacy.Customer, error) {
	customer, err := pharmacy.NewCustomer(input.Name)
	if err != nil {
		return nil, err
	}
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Address = input.Address

	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id int64) (*pharmacy.Customer, error) {
	return s.store.GetCustomer(ctx, id)
}

// List retrieves all customers in insertion order
func (s *CustomerService) List(ctx context.Context) ([]pharmacy.Customer, error) {
	return s.store.ListCustomers(ctx)
}

// Update applies a partial update to a customer
func (s *CustomerService) Update(ctx context.Context, id int64, patch pharmacy.CustomerPatch) (*pharmacy.Customer, error) {
	return s.store.UpdateCustomer(ctx, id, patch)
}

// Delete removes a customer; deleting an absent customer is an error
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteCustomer(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return shared.NewNotFoundError("customer", id)
	}
	return nil
}
