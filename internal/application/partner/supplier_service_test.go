package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/domain/shared"
	"github.com/pharma/backend/internal/infrastructure/persistence"
)

func TestSupplierService(t *testing.T) {
	ctx := context.Background()
	service := NewSupplierService(persistence.NewMemoryStore())

	t.Run("create and fetch", func(t *testing.T) {
		supplier, err := service.Create(ctx, CreateSupplierInput{
			Name:    "PT Kimia Farma Distribusi",
			Contact: "Budi Santoso",
			Email:   "budi@kimiafarma.co.id",
			Phone:   "021-5550123",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), supplier.ID)

		fetched, err := service.GetByID(ctx, supplier.ID)
		require.NoError(t, err)
		assert.Equal(t, "Budi Santoso", fetched.Contact)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := service.Create(ctx, CreateSupplierInput{Contact: "Nobody"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("patch leaves unset fields alone", func(t *testing.T) {
		phone := "021-5559999"
		updated, err := service.Update(ctx, 1, pharmacy.SupplierPatch{Phone: &phone})
		require.NoError(t, err)
		assert.Equal(t, "021-5559999", updated.Phone)
		assert.Equal(t, "PT Kimia Farma Distribusi", updated.Name)
	})

	t.Run("delete absent supplier is not found", func(t *testing.T) {
		err := service.Delete(ctx, 99)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestCustomerService(t *testing.T) {
	ctx := context.Background()
	service := NewCustomerService(persistence.NewMemoryStore())

	customer, err := service.Create(ctx, CreateCustomerInput{
		Name:  "Siti Rahayu",
		Phone: "0812-3456-7890",
	})
	require.NoError(t, err)

	t.Run("listed in insertion order", func(t *testing.T) {
		_, err := service.Create(ctx, CreateCustomerInput{Name: "Dewi Lestari"})
		require.NoError(t, err)

		customers, err := service.List(ctx)
		require.NoError(t, err)
		require.Len(t, customers, 2)
		assert.Equal(t, "Siti Rahayu", customers[0].Name)
		assert.Equal(t, "Dewi Lestari", customers[1].Name)
	})

	t.Run("update then delete", func(t *testing.T) {
		email := "siti@example.com"
		updated, err := service.Update(ctx, customer.ID, pharmacy.CustomerPatch{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "siti@example.com", updated.Email)

		require.NoError(t, service.Delete(ctx, customer.ID))

		_, err = service.GetByID(ctx, customer.ID)
		require.Error(t, err)
	})
}
