package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/domain/shared"
)

// collection holds one entity kind: records by ID, insertion order, and a
// monotonically increasing ID counter that never reuses identifiers.
type collection[T any] struct {
	items  map[int64]T
	order  []int64
	nextID int64
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{
		items:  make(map[int64]T),
		nextID: 1,
	}
}

func (c *collection[T]) insert(build func(id int64) T) T {
	id := c.nextID
	c.nextID++
	item := build(id)
	c.items[id] = item
	c.order = append(c.order, id)
	return item
}

func (c *collection[T]) get(id int64) (T, bool) {
	item, ok := c.items[id]
	return item, ok
}

func (c *collection[T]) replace(id int64, item T) {
	c.items[id] = item
}

func (c *collection[T]) remove(id int64) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// list returns all items in insertion order
func (c *collection[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c *collection[T]) find(pred func(T) bool) (T, bool) {
	for _, id := range c.order {
		if pred(c.items[id]) {
			return c.items[id], true
		}
	}
	var zero T
	return zero, false
}

// MemoryStore is the reference pharmacy.Store implementation: mutex-guarded
// maps with per-kind counters. A single mutex serializes every operation,
// which also makes CommitSale's check-then-commit atomic with respect to
// concurrent sales.
type MemoryStore struct {
	mu sync.Mutex

	users            *collection[pharmacy.User]
	products         *collection[pharmacy.Product]
	categories       *collection[pharmacy.Category]
	suppliers        *collection[pharmacy.Supplier]
	customers        *collection[pharmacy.Customer]
	transactions     *collection[pharmacy.Transaction]
	transactionItems *collection[pharmacy.TransactionItem]
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:            newCollection[pharmacy.User](),
		products:         newCollection[pharmacy.Product](),
		categories:       newCollection[pharmacy.Category](),
		suppliers:        newCollection[pharmacy.Supplier](),
		customers:        newCollection[pharmacy.Customer](),
		transactions:     newCollection[pharmacy.Transaction](),
		transactionItems: newCollection[pharmacy.TransactionItem](),
	}
}

var _ pharmacy.Store = (*MemoryStore)(nil)

// Ping implements pharmacy.Store; an in-memory store is always reachable
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// --- Users ---

func (s *MemoryStore) GetUser(ctx context.Context, id int64) (*pharmacy.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users.get(id)
	if !ok {
		return nil, shared.NewNotFoundError("user", id)
	}
	return &user, nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*pharmacy.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users.find(func(u pharmacy.User) bool { return u.Username == username })
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found").WithDetail("username", username)
	}
	return &user, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *pharmacy.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users.find(func(u pharmacy.User) bool { return u.Username == user.Username }); exists {
		return shared.NewAlreadyExistsError("user", "username", user.Username)
	}

	*user = s.users.insert(func(id int64) pharmacy.User {
		user.ID = id
		return *user
	})
	return nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, id int64, patch pharmacy.UserPatch) (*pharmacy.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users.get(id)
	if !ok {
		return nil, shared.NewNotFoundError("user", id)
	}
	if patch.Username != nil && *patch.Username != user.Username {
		if _, exists := s.users.find(func(u pharmacy.User) bool { return u.Username == *patch.Username }); exists {
			return nil, shared.NewAlreadyExistsError("user", "username", *patch.Username)
		}
	}

	patch.Apply(&user)
	s.users.replace(id, user)
	return &user, nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.users.remove(id), nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]pharmacy.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.users.list(), nil
}

// --- Products ---

func (s *MemoryStore) GetProduct(ctx context.Context, id int64) (*pharmacy.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products.get(id)
	if !ok {
		return nil, shared.NewNotFoundError("product", id)
	}
	return &product, nil
}

func (s *MemoryStore) GetProductBySKU(ctx context.Context, sku string) (*pharmacy.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products.find(func(p pharmacy.Product) bool { return p.SKU == sku })
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Product not found").WithDetail("sku", sku)
	}
	return &product, nil
}

func (s *MemoryStore) CreateProduct(ctx context.Context, product *pharmacy.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products.find(func(p pharmacy.Product) bool { return p.SKU == product.SKU }); exists {
		return shared.NewAlreadyExistsError("product", "sku", product.SKU)
	}

	*product = s.products.insert(func(id int64) pharmacy.Product {
		product.ID = id
		return *product
	})
	return nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, id int64, patch pharmacy.ProductPatch) (*pharmacy.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products.get(id)
	if !ok {
		return nil, shared.NewNotFoundError("product", id)
	}
	if patch.SKU != nil && *patch.SKU != product.SKU {
		if _, exists := s.products.find(func(p pharmacy.Product) bool { return p.SKU == *patch.SKU }); exists {
			return nil, shared.NewAlreadyExistsError("product", "sku", *patch.SKU)
		}
	}

	patch.Apply(&product)
	s.products.replace(id, product)
	return &product, nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.products.remove(id), nil
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]pharmacy.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.products.list(), nil
}

func (s *MemoryStore) ListLowStockProducts(ctx context.Context) ([]pharmacy.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	low := make([]pharmacy.Product, 0)
	for _, p := range s.products.list() {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

func (s *MemoryStore) ListExpiredProducts(ctx context.Context, now time.Time) ([]pharmacy.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := make([]pharmacy.Product, 0)
	for _, p := range s.products.list() {
		if p.IsExpiredAt(now) {
			expired = append(expired, p)
		}
	}
	return expired, nil
}

// --- Categories ---

func (s *MemoryStore) GetCategory(ctx context.Context, id int64) (*pharmacy.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories.get(id)
	if !ok {
		return nil, shared.NewNotFoundError("category", id)
	}
	return &category, nil
}

func (s *MemoryStore) CreateCategory(ctx context.Context, category *pharmacy.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories.find(func(c pharmacy.Category) bool { return c.Name == category.Name }); exists {
		return shared.NewAlreadyExistsError("category", "name", category.Name)
	}

	*category = s.categories.insert(func(id int64) pharmacy.Category {
		category.ID = id
		return *category
	})
	return nil
}

func (s *MemoryStore) UpdateCategory(ctx context.Context, id int64, patch pharmacy.CategoryPatch) (*pharmacy.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories.get(id)
	if !ok {
		return nil, shared.NewNotFoundError("category", id)
	}
	if patch.Name != nil && *patch.Name != category.Name {
		if _, exists := s.categories.find(func(c pharmacy.Category) bool { return c.Name == *patch.Name }); exists {
			return nil, shared.NewAlreadyExistsError("category", "name", *patch.Name)
		}
	}

	patch.Apply(&category)
	s.categories.replace(id, category)
	return &category, nil
}

func (s *MemoryStore) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.categories.remove(id), nil
}

func (s *MemoryStore) ListCategories(ctx context.Context) ([]pharmacy.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.categories.list(), nil
}

// --- Suppliers ---

func (s *MemoryStore) GetSupplier(ctx context.Context, id int64) (*pharmacy.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	supplier, ok := s.suppliers.get(id)
	if !ok {
		return nil, shared.NewNotFoundError("supplier", id)
	}
	return &supplier, nil
}

func (s *MemoryStore) CreateSupplier(ctx context.Context, supplier *pharmacy.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	*supplier = s.suppliers.insert(func(id int64) pharmacy.Supplier {
		supplier.ID = id
		return *supplier
	})
	return nil
}

func (s *MemoryStore) UpdateSupplier(ctx context.Context, id int64, patch pharmacy.SupplierPatch) (*pharmacy.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	supplier, ok := s.suppliers.get(id)
	if !ok {
		return nil, shared.NewNotFoundError("supplier", id)
	}

	patch.Apply(&supplier)
	s.suppliers.replace(id, supplier)
	return &supplier, nil
}

func (s *MemoryStore) DeleteSupplier(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.suppliers.remove(id), nil
}

func (s *MemoryStore) ListSuppliers(ctx context.Context) ([]pharmacy.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.suppliers.list(), nil
}

// --- Customers ---

func (s *MemoryStore) GetCustomer(ctx context.Context, id int64) (*pharmacy.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer, ok := s.customers.get(id)
	if !ok {
		return nil, shared.NewNotFoundError("customer", id)
	}
	return &customer, nil
}

func (s *MemoryStore) CreateCustomer(ctx context.Context, customer *pharmacy.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	*customer = s.customers.insert(func(id int64) pharmacy.Customer {
		customer.ID = id
		return *customer
	})
	return nil
}

func (s *MemoryStore) UpdateCustomer(ctx context.Context, id int64, patch pharmacy.CustomerPatch) (*pharmacy.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer, ok := s.customers.get(id)
	if !ok {
		return nil, shared.NewNotFoundError("customer", id)
	}

	patch.Apply(&customer)
	s.customers.replace(id, customer)
	return &customer, nil
}

func (s *MemoryStore) DeleteCustomer(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.customers.remove(id), nil
}

func (s *MemoryStore) ListCustomers(ctx context.Context) ([]pharmacy.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.customers.list(), nil
}

// --- Transactions ---

func (s *MemoryStore) GetTransaction(ctx context.Context, id int64) (*pharmacy.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, ok := s.transactions.get(id)
	if !ok {
		return nil, shared.NewNotFoundError("transaction", id)
	}
	return &txn, nil
}

func (s *MemoryStore) ListTransactions(ctx context.Context) ([]pharmacy.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transactions.list(), nil
}

func (s *MemoryStore) ListRecentTransactions(ctx context.Context, limit int) ([]pharmacy.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txns := s.transactions.list()
	sort.SliceStable(txns, func(i, j int) bool {
		if txns[i].CreatedAt.Equal(txns[j].CreatedAt) {
			return txns[i].ID > txns[j].ID
		}
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})
	if limit >= 0 && limit < len(txns) {
		txns = txns[:limit]
	}
	return txns, nil
}

func (s *MemoryStore) CommitSale(ctx context.Context, txn *pharmacy.Transaction, items []*pharmacy.TransactionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions.find(func(t pharmacy.Transaction) bool { return t.Code == txn.Code }); exists {
		return shared.NewAlreadyExistsError("transaction", "transactionId", txn.Code)
	}

	// Validate against a scratch view of stock so a product referenced by
	// several lines cannot be oversold in aggregate.
	remaining := make(map[int64]int)
	for _, item := range items {
		available, tracked := remaining[item.ProductID]
		if !tracked {
			product, ok := s.products.get(item.ProductID)
			if !ok {
				return shared.NewInsufficientStockError(item.ProductID, item.Quantity, 0)
			}
			available = product.Stock
		}
		if available < item.Quantity {
			return shared.NewInsufficientStockError(item.ProductID, item.Quantity, available)
		}
		remaining[item.ProductID] = available - item.Quantity
	}

	// All lines validated; apply decrements and persist.
	for productID, stock := range remaining {
		product, _ := s.products.get(productID)
		product.Stock = stock
		s.products.replace(productID, product)
	}

	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	*txn = s.transactions.insert(func(id int64) pharmacy.Transaction {
		txn.ID = id
		return *txn
	})
	for _, item := range items {
		item.TransactionID = txn.ID
		*item = s.transactionItems.insert(func(id int64) pharmacy.TransactionItem {
			item.ID = id
			return *item
		})
	}
	return nil
}

func (s *MemoryStore) CreateTransactionItem(ctx context.Context, item *pharmacy.TransactionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions.get(item.TransactionID); !ok {
		return shared.NewNotFoundError("transaction", item.TransactionID)
	}

	*item = s.transactionItems.insert(func(id int64) pharmacy.TransactionItem {
		item.ID = id
		return *item
	})
	return nil
}

func (s *MemoryStore) ListTransactionItems(ctx context.Context, transactionID int64) ([]pharmacy.TransactionItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]pharmacy.TransactionItem, 0)
	for _, item := range s.transactionItems.list() {
		if item.TransactionID == transactionID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *MemoryStore) ListAllTransactionItems(ctx context.Context) ([]pharmacy.TransactionItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transactionItems.list(), nil
}
