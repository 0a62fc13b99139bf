package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/domain/shared"
	"github.com/pharma/backend/internal/infrastructure/config"
	"github.com/pharma/backend/internal/infrastructure/logger"
)

func newTestGormStore(t *testing.T) *GormStore {
	t.Helper()

	cfg := &config.Config{
		Storage: config.StorageConfig{
			Backend:    config.BackendSQLite,
			SQLitePath: "file::memory:?cache=shared",
		},
		Log: config.LogConfig{Level: "error"},
	}
	database, err := NewDatabase(cfg, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate())
	t.Cleanup(func() { _ = database.Close() })

	return NewGormStore(database)
}

func TestGormStoreProductLifecycle(t *testing.T) {
	store := newTestGormStore(t)
	ctx := context.Background()

	product := newTestProduct(t, "Paracetamol 500mg", "MED-001", 25000, 20)
	require.NoError(t, store.CreateProduct(ctx, product))
	require.NotZero(t, product.ID)

	t.Run("duplicate sku maps to already exists", func(t *testing.T) {
		dup := newTestProduct(t, "Paracetamol Forte", "MED-001", 30000, 5)
		err := store.CreateProduct(ctx, dup)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("lookup by sku", func(t *testing.T) {
		found, err := store.GetProductBySKU(ctx, "MED-001")
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)
	})

	t.Run("patch then delete", func(t *testing.T) {
		stock := 4
		updated, err := store.UpdateProduct(ctx, product.ID, pharmacy.ProductPatch{Stock: &stock})
		require.NoError(t, err)
		assert.Equal(t, 4, updated.Stock)
		assert.Equal(t, "Paracetamol 500mg", updated.Name)

		low, err := store.ListLowStockProducts(ctx)
		require.NoError(t, err)
		require.Len(t, low, 1)

		deleted, err := store.DeleteProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = store.GetProduct(ctx, product.ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestGormStoreCommitSale(t *testing.T) {
	store := newTestGormStore(t)
	ctx := context.Background()

	product := newTestProduct(t, "Amoxicillin 250mg", "MED-002", 45000, 3)
	require.NoError(t, store.CreateProduct(ctx, product))

	t.Run("sale decrements stock", func(t *testing.T) {
		txn, err := pharmacy.NewTransaction("TRX-5001", nil, 90000, pharmacy.TransactionStatusCompleted)
		require.NoError(t, err)
		items := []*pharmacy.TransactionItem{
			{ProductID: product.ID, Quantity: 2, Price: 45000, Subtotal: 90000},
		}
		require.NoError(t, store.CommitSale(ctx, txn, items))

		after, err := store.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, after.Stock)

		stored, err := store.ListTransactionItems(ctx, txn.ID)
		require.NoError(t, err)
		require.Len(t, stored, 1)
	})

	t.Run("oversell rolls back", func(t *testing.T) {
		txn, err := pharmacy.NewTransaction("TRX-5002", nil, 90000, pharmacy.TransactionStatusCompleted)
		require.NoError(t, err)
		items := []*pharmacy.TransactionItem{
			{ProductID: product.ID, Quantity: 2, Price: 45000, Subtotal: 90000},
		}

		err = store.CommitSale(ctx, txn, items)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, 1, domainErr.Details["available"])

		after, err := store.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, after.Stock)

		txns, err := store.ListTransactions(ctx)
		require.NoError(t, err)
		assert.Len(t, txns, 1)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		txn, err := pharmacy.NewTransaction("TRX-5001", nil, 45000, pharmacy.TransactionStatusCompleted)
		require.NoError(t, err)
		err = store.CommitSale(ctx, txn, []*pharmacy.TransactionItem{
			{ProductID: product.ID, Quantity: 1, Price: 45000, Subtotal: 45000},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}
