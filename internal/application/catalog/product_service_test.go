package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/domain/shared"
	"github.com/pharma/backend/internal/infrastructure/persistence"
)

func TestProductService(t *testing.T) {
	ctx := context.Background()
	service := NewProductService(persistence.NewMemoryStore())

	t.Run("create normalizes sku and applies defaults", func(t *testing.T) {
		product, err := service.Create(ctx, CreateProductInput{
			Name:     "Paracetamol 500mg",
			SKU:      "med-001",
			Category: "Pain Relief",
			Price:    25000,
			Stock:    40,
		})
		require.NoError(t, err)
		assert.Equal(t, "MED-001", product.SKU)
		assert.Equal(t, 10, product.LowStockThreshold)
		assert.Equal(t, 40, product.Stock)
	})

	t.Run("create rejects negative stock", func(t *testing.T) {
		_, err := service.Create(ctx, CreateProductInput{
			Name:     "Amoxicillin 250mg",
			SKU:      "MED-002",
			Category: "Antibiotics",
			Price:    45000,
			Stock:    -1,
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("update normalizes sku", func(t *testing.T) {
		sku := "med-001-a"
		updated, err := service.Update(ctx, 1, pharmacy.ProductPatch{SKU: &sku})
		require.NoError(t, err)
		assert.Equal(t, "MED-001-A", updated.SKU)
	})

	t.Run("update rejects invalid sku", func(t *testing.T) {
		sku := "not a sku!"
		_, err := service.Update(ctx, 1, pharmacy.ProductPatch{SKU: &sku})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("delete absent product is not found", func(t *testing.T) {
		err := service.Delete(ctx, 999)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})

	t.Run("expired listing uses current time", func(t *testing.T) {
		yesterday := time.Now().AddDate(0, 0, -1)
		product, err := service.Create(ctx, CreateProductInput{
			Name:       "Cough Syrup 100ml",
			SKU:        "MED-003",
			Category:   "Pain Relief",
			Price:      30000,
			Stock:      20,
			ExpiryDate: &yesterday,
		})
		require.NoError(t, err)

		expired, err := service.ListExpired(ctx)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, product.ID, expired[0].ID)
	})
}

func TestCategoryService(t *testing.T) {
	ctx := context.Background()
	service := NewCategoryService(persistence.NewMemoryStore())

	created, err := service.Create(ctx, "Pain Relief", "Analgesics and antipyretics")
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	t.Run("duplicate name is rejected", func(t *testing.T) {
		_, err := service.Create(ctx, "Pain Relief", "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rename then delete", func(t *testing.T) {
		name := "Analgesics"
		updated, err := service.Update(ctx, created.ID, pharmacy.CategoryPatch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Analgesics", updated.Name)

		require.NoError(t, service.Delete(ctx, created.ID))
		err = service.Delete(ctx, created.ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}
