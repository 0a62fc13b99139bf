package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/domain/shared"
)

func newTestProduct(t *testing.T, name, sku string, price float64, stock int) *pharmacy.Product {
	t.Helper()
	product, err := pharmacy.NewProduct(name, sku, "Pain Relief", price, price*0.7)
	require.NoError(t, err)
	product.Stock = stock
	return product
}

func TestProductCRUD(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	t.Run("create assigns sequential ids", func(t *testing.T) {
		p1 := newTestProduct(t, "Paracetamol 500mg", "MED-001", 25000, 100)
		p2 := newTestProduct(t, "Amoxicillin 250mg", "MED-002", 45000, 50)
		require.NoError(t, store.CreateProduct(ctx, p1))
		require.NoError(t, store.CreateProduct(ctx, p2))

		assert.Equal(t, int64(1), p1.ID)
		assert.Equal(t, int64(2), p2.ID)
	})

	t.Run("duplicate sku is rejected", func(t *testing.T) {
		dup := newTestProduct(t, "Paracetamol Forte", "MED-001", 30000, 10)
		err := store.CreateProduct(ctx, dup)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("get returns stored product", func(t *testing.T) {
		product, err := store.GetProduct(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Paracetamol 500mg", product.Name)
		assert.Equal(t, "MED-001", product.SKU)
	})

	t.Run("get unknown id is not found", func(t *testing.T) {
		_, err := store.GetProduct(ctx, 999)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})

	t.Run("patch merges only provided fields", func(t *testing.T) {
		price := 27500.0
		updated, err := store.UpdateProduct(ctx, 1, pharmacy.ProductPatch{Price: &price})
		require.NoError(t, err)
		assert.Equal(t, 27500.0, updated.Price)
		assert.Equal(t, "Paracetamol 500mg", updated.Name)
		assert.Equal(t, 100, updated.Stock)
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		products, err := store.ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, int64(1), products[0].ID)
		assert.Equal(t, int64(2), products[1].ID)
	})

	t.Run("delete is idempotent and ids are never reused", func(t *testing.T) {
		deleted, err := store.DeleteProduct(ctx, 2)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = store.DeleteProduct(ctx, 2)
		require.NoError(t, err)
		assert.False(t, deleted)

		p3 := newTestProduct(t, "Vitamin C 1000mg", "MED-003", 35000, 80)
		require.NoError(t, store.CreateProduct(ctx, p3))
		assert.Equal(t, int64(3), p3.ID)
	})
}

func TestStockQueries(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	yesterday := time.Now().AddDate(0, 0, -1)
	nextYear := time.Now().AddDate(1, 0, 0)

	plenty := newTestProduct(t, "Vitamin C 1000mg", "MED-001", 35000, 80)
	low := newTestProduct(t, "Paracetamol 500mg", "MED-002", 25000, 5)
	boundary := newTestProduct(t, "Amoxicillin 250mg", "MED-003", 45000, 10)
	expired := newTestProduct(t, "Cough Syrup 100ml", "MED-004", 30000, 40)
	expired.ExpiryDate = &yesterday
	fresh := newTestProduct(t, "Antacid Tablets", "MED-005", 15000, 60)
	fresh.ExpiryDate = &nextYear

	for _, p := range []*pharmacy.Product{plenty, low, boundary, expired, fresh} {
		require.NoError(t, store.CreateProduct(ctx, p))
	}

	t.Run("low stock includes threshold boundary", func(t *testing.T) {
		lowStock, err := store.ListLowStockProducts(ctx)
		require.NoError(t, err)
		require.Len(t, lowStock, 2)
		assert.Equal(t, "MED-002", lowStock[0].SKU)
		assert.Equal(t, "MED-003", lowStock[1].SKU)
	})

	t.Run("expired excludes products without expiry date", func(t *testing.T) {
		expiredProducts, err := store.ListExpiredProducts(ctx, time.Now())
		require.NoError(t, err)
		require.Len(t, expiredProducts, 1)
		assert.Equal(t, "MED-004", expiredProducts[0].SKU)
	})
}

func TestCommitSale(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*MemoryStore, *pharmacy.Product) {
		store := NewMemoryStore()
		product := newTestProduct(t, "Paracetamol 500mg", "MED-001", 25000, 10)
		require.NoError(t, store.CreateProduct(ctx, product))
		return store, product
	}

	t.Run("successful sale decrements stock and persists items", func(t *testing.T) {
		store, product := setup(t)

		txn, err := pharmacy.NewTransaction("TRX-1001", nil, 75000, pharmacy.TransactionStatusCompleted)
		require.NoError(t, err)
		items := []*pharmacy.TransactionItem{
			{ProductID: product.ID, Quantity: 3, Price: 25000, Subtotal: 75000},
		}

		require.NoError(t, store.CommitSale(ctx, txn, items))
		assert.Equal(t, int64(1), txn.ID)
		assert.Equal(t, int64(1), items[0].ID)
		assert.Equal(t, txn.ID, items[0].TransactionID)

		after, err := store.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, after.Stock)

		stored, err := store.ListTransactionItems(ctx, txn.ID)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, 3, stored[0].Quantity)
	})

	t.Run("insufficient stock persists nothing", func(t *testing.T) {
		store, product := setup(t)

		txn, err := pharmacy.NewTransaction("TRX-1002", nil, 375000, pharmacy.TransactionStatusCompleted)
		require.NoError(t, err)
		items := []*pharmacy.TransactionItem{
			{ProductID: product.ID, Quantity: 15, Price: 25000, Subtotal: 375000},
		}

		err = store.CommitSale(ctx, txn, items)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, 15, domainErr.Details["requested"])
		assert.Equal(t, 10, domainErr.Details["available"])

		after, err := store.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, after.Stock)

		txns, err := store.ListTransactions(ctx)
		require.NoError(t, err)
		assert.Empty(t, txns)
	})

	t.Run("multiple lines of one product are checked in aggregate", func(t *testing.T) {
		store, product := setup(t)

		txn, err := pharmacy.NewTransaction("TRX-1003", nil, 300000, pharmacy.TransactionStatusCompleted)
		require.NoError(t, err)
		items := []*pharmacy.TransactionItem{
			{ProductID: product.ID, Quantity: 6, Price: 25000, Subtotal: 150000},
			{ProductID: product.ID, Quantity: 6, Price: 25000, Subtotal: 150000},
		}

		err = store.CommitSale(ctx, txn, items)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, 4, domainErr.Details["available"])
	})

	t.Run("unknown product reports zero availability", func(t *testing.T) {
		store, _ := setup(t)

		txn, err := pharmacy.NewTransaction("TRX-1004", nil, 25000, pharmacy.TransactionStatusCompleted)
		require.NoError(t, err)
		items := []*pharmacy.TransactionItem{
			{ProductID: 999, Quantity: 1, Price: 25000, Subtotal: 25000},
		}

		err = store.CommitSale(ctx, txn, items)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, 0, domainErr.Details["available"])
	})

	t.Run("duplicate transaction code is rejected", func(t *testing.T) {
		store, product := setup(t)

		first, err := pharmacy.NewTransaction("TRX-1005", nil, 25000, pharmacy.TransactionStatusCompleted)
		require.NoError(t, err)
		require.NoError(t, store.CommitSale(ctx, first, []*pharmacy.TransactionItem{
			{ProductID: product.ID, Quantity: 1, Price: 25000, Subtotal: 25000},
		}))

		second, err := pharmacy.NewTransaction("TRX-1005", nil, 25000, pharmacy.TransactionStatusCompleted)
		require.NoError(t, err)
		err = store.CommitSale(ctx, second, []*pharmacy.TransactionItem{
			{ProductID: product.ID, Quantity: 1, Price: 25000, Subtotal: 25000},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)

		after, err := store.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 9, after.Stock)
	})
}

// Two sales race for the last unit; exactly one may win.
func TestConcurrentSalesForLastUnit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	product := newTestProduct(t, "Paracetamol 500mg", "MED-001", 25000, 1)
	require.NoError(t, store.CreateProduct(ctx, product))

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			txn, err := pharmacy.NewTransaction("TRX-200"+string(rune('0'+i)), nil, 25000, pharmacy.TransactionStatusCompleted)
			if err != nil {
				results[i] = err
				return
			}
			results[i] = store.CommitSale(ctx, txn, []*pharmacy.TransactionItem{
				{ProductID: product.ID, Quantity: 1, Price: 25000, Subtotal: 25000},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		}
	}
	assert.Equal(t, 1, succeeded)

	after, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.Stock)
}

func TestRecentTransactionsOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	product := newTestProduct(t, "Paracetamol 500mg", "MED-001", 25000, 100)
	require.NoError(t, store.CreateProduct(ctx, product))

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		txn, err := pharmacy.NewTransaction("TRX-300"+string(rune('0'+i)), nil, 25000, pharmacy.TransactionStatusCompleted)
		require.NoError(t, err)
		txn.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.CommitSale(ctx, txn, []*pharmacy.TransactionItem{
			{ProductID: product.ID, Quantity: 1, Price: 25000, Subtotal: 25000},
		}))
	}

	recent, err := store.ListRecentTransactions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "TRX-3003", recent[0].Code)
	assert.Equal(t, "TRX-3002", recent[1].Code)
}

func TestUserUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	admin, err := pharmacy.NewUser("admin", "hashed-secret", "Admin User", pharmacy.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(ctx, admin))

	t.Run("duplicate username on create", func(t *testing.T) {
		dup, err := pharmacy.NewUser("admin", "hashed-secret", "Second Admin", pharmacy.RoleStaff)
		require.NoError(t, err)

		err = store.CreateUser(ctx, dup)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("duplicate username on update", func(t *testing.T) {
		staff, err := pharmacy.NewUser("staff", "hashed-secret", "Staff User", pharmacy.RoleStaff)
		require.NoError(t, err)
		require.NoError(t, store.CreateUser(ctx, staff))

		taken := "admin"
		_, err = store.UpdateUser(ctx, staff.ID, pharmacy.UserPatch{Username: &taken})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("lookup by username", func(t *testing.T) {
		found, err := store.GetUserByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, found.ID)
	})
}
