package catalog

import (
	"context"
	"time"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/domain/shared"
)

// ProductService handles product-related business operations
type ProductService struct {
	store pharmacy.ProductStore
}

// NewProductService creates a new ProductService
func NewProductService(store pharmacy.ProductStore) *ProductService {
	return &ProductService{store: store}
}

// CreateProductInput carries the fields accepted on product creation
type CreateProductInput struct {
	Name              string
	SKU               string
	Description       string
	Category          string
	Price             float64
	CostPrice         float64
	Stock             int
	LowStockThreshold *int
	ExpiryDate        *time.Time
	SupplierID        *int64
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*pharmacy.Product, error) {
	product, err := pharmacy.NewProduct(input.Name, input.SKU, input.Category, input.Price, input.CostPrice)
	if err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Stock cannot be negative")
	}
	product.Description = input.Description
	product.Stock = input.Stock
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	product.ExpiryDate = input.ExpiryDate
	product.SupplierID = input.SupplierID

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id int64) (*pharmacy.Product, error) {
	return s.store.GetProduct(ctx, id)
}

// List retrieves all products in insertion order
func (s *ProductService) List(ctx context.Context) ([]pharmacy.Product, error) {
	return s.store.ListProducts(ctx)
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id int64, patch pharmacy.ProductPatch) (*pharmacy.Product, error) {
	if patch.SKU != nil {
		normalized, err := pharmacy.NormalizeSKU(*patch.SKU)
		if err != nil {
			return nil, err
		}
		patch.SKU = &normalized
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Price cannot be negative")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Stock cannot be negative")
	}
	return s.store.UpdateProduct(ctx, id, patch)
}

// Delete removes a product; deleting an absent product is an error
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return shared.NewNotFoundError("product", id)
	}
	return nil
}

// ListLowStock retrieves products at or below their low-stock threshold
func (s *ProductService) ListLowStock(ctx context.Context) ([]pharmacy.Product, error) {
	return s.store.ListLowStockProducts(ctx)
}

// ListExpired retrieves products whose expiry date has passed
func (s *ProductService) ListExpired(ctx context.Context) ([]pharmacy.Product, error) {
	return s.store.ListExpiredProducts(ctx, time.Now())
}
