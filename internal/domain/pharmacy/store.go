package pharmacy

import (
	"context"
	"time"
)

// UserStore persists user accounts
type UserStore interface {
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	// CreateUser assigns the next user ID and rejects duplicate usernames
	// with ALREADY_EXISTS.
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, id int64, patch UserPatch) (*User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// ProductStore persists products and answers the derived stock queries
type ProductStore interface {
	GetProduct(ctx context.Context, id int64) (*Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*Product, error)
	// CreateProduct assigns the next product ID and rejects duplicate SKUs
	// with ALREADY_EXISTS.
	CreateProduct(ctx context.Context, product *Product) error
	UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)
	ListProducts(ctx context.Context) ([]Product, error)
	// ListLowStockProducts returns products with stock <= lowStockThreshold.
	ListLowStockProducts(ctx context.Context) ([]Product, error)
	// ListExpiredProducts returns products whose expiry date is set and
	// strictly before now.
	ListExpiredProducts(ctx context.Context, now time.Time) ([]Product, error)
}

// CategoryStore persists categories
type CategoryStore interface {
	GetCategory(ctx context.Context, id int64) (*Category, error)
	// CreateCategory assigns the next category ID and rejects duplicate
	// names with ALREADY_EXISTS.
	CreateCategory(ctx context.Context, category *Category) error
	UpdateCategory(ctx context.Context, id int64, patch CategoryPatch) (*Category, error)
	DeleteCategory(ctx context.Context, id int64) (bool, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

// SupplierStore persists suppliers
type SupplierStore interface {
	GetSupplier(ctx context.Context, id int64) (*Supplier, error)
	CreateSupplier(ctx context.Context, supplier *Supplier) error
	UpdateSupplier(ctx context.Context, id int64, patch SupplierPatch) (*Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) (bool, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)
}

// CustomerStore persists customers
type CustomerStore interface {
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	CreateCustomer(ctx context.Context, customer *Customer) error
	UpdateCustomer(ctx context.Context, id int64, patch CustomerPatch) (*Customer, error)
	DeleteCustomer(ctx context.Context, id int64) (bool, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
}

// TransactionStore persists transactions and their line items
type TransactionStore interface {
	GetTransaction(ctx context.Context, id int64) (*Transaction, error)
	ListTransactions(ctx context.Context) ([]Transaction, error)
	// ListRecentTransactions returns transactions ordered by createdAt
	// descending, truncated to limit.
	ListRecentTransactions(ctx context.Context, limit int) ([]Transaction, error)
	// CommitSale atomically checks stock for every item, decrements it,
	// and persists the transaction followed by its items. Two concurrent
	// sales competing for the same stock are serialized: at most one can
	// take the last unit. Fails with INSUFFICIENT_STOCK (carrying
	// product_id, requested, available) when any item cannot be covered,
	// and with ALREADY_EXISTS on a duplicate transaction code. On failure
	// nothing is persisted and no stock changes.
	CommitSale(ctx context.Context, txn *Transaction, items []*TransactionItem) error
	// CreateTransactionItem appends a single item to an existing
	// transaction without touching stock (legacy import path).
	CreateTransactionItem(ctx context.Context, item *TransactionItem) error
	ListTransactionItems(ctx context.Context, transactionID int64) ([]TransactionItem, error)
	ListAllTransactionItems(ctx context.Context) ([]TransactionItem, error)
}

// Store is the authoritative keeper of all entity collections and the only
// component permitted to mutate persisted state. List operations return
// entities in insertion order. Identifiers are assigned from monotonically
// increasing per-kind counters and are never reused, even after deletion.
// A durable implementation surfaces backend failures as STORAGE_UNAVAILABLE.
type Store interface {
	UserStore
	ProductStore
	CategoryStore
	SupplierStore
	CustomerStore
	TransactionStore

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}
