package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/domain/shared"
)

// GormStore is the durable pharmacy.Store implementation backed by a
// relational database. Backend failures surface as STORAGE_UNAVAILABLE;
// listing orders by ID, which matches insertion order because IDs come
// from auto-increment sequences.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store on an open database connection
func NewGormStore(database *Database) *GormStore {
	return &GormStore{db: database.DB}
}

var _ pharmacy.Store = (*GormStore)(nil)

// Ping implements pharmacy.Store
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return shared.NewStorageUnavailableError(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return shared.NewStorageUnavailableError(err)
	}
	return nil
}

// getByID maps gorm errors onto the domain error contract
func getByID[T any](ctx context.Context, db *gorm.DB, kind string, id int64) (*T, error) {
	var entity T
	if err := db.WithContext(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(kind, id)
		}
		return nil, shared.NewStorageUnavailableError(err)
	}
	return &entity, nil
}

func listAll[T any](ctx context.Context, db *gorm.DB) ([]T, error) {
	entities := make([]T, 0)
	if err := db.WithContext(ctx).Order("id").Find(&entities).Error; err != nil {
		return nil, shared.NewStorageUnavailableError(err)
	}
	return entities, nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id int64) (bool, error) {
	var entity T
	result := db.WithContext(ctx).Delete(&entity, id)
	if result.Error != nil {
		return false, shared.NewStorageUnavailableError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func createEntity(ctx context.Context, db *gorm.DB, kind, field, value string, entity any) error {
	if err := db.WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewAlreadyExistsError(kind, field, value)
		}
		return shared.NewStorageUnavailableError(err)
	}
	return nil
}

func saveEntity(ctx context.Context, db *gorm.DB, kind, field, value string, entity any) error {
	if err := db.WithContext(ctx).Save(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewAlreadyExistsError(kind, field, value)
		}
		return shared.NewStorageUnavailableError(err)
	}
	return nil
}

// --- Users ---

func (s *GormStore) GetUser(ctx context.Context, id int64) (*pharmacy.User, error) {
	return getByID[pharmacy.User](ctx, s.db, "user", id)
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*pharmacy.User, error) {
	var user pharmacy.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "User not found").WithDetail("username", username)
		}
		return nil, shared.NewStorageUnavailableError(err)
	}
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *pharmacy.User) error {
	return createEntity(ctx, s.db, "user", "username", user.Username, user)
}

func (s *GormStore) UpdateUser(ctx context.Context, id int64, patch pharmacy.UserPatch) (*pharmacy.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(user)
	if err := saveEntity(ctx, s.db, "user", "username", user.Username, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *GormStore) DeleteUser(ctx context.Context, id int64) (bool, error) {
	return deleteByID[pharmacy.User](ctx, s.db, id)
}

func (s *GormStore) ListUsers(ctx context.Context) ([]pharmacy.User, error) {
	return listAll[pharmacy.User](ctx, s.db)
}

// --- Products ---

func (s *GormStore) GetProduct(ctx context.Context, id int64) (*pharmacy.Product, error) {
	return getByID[pharmacy.Product](ctx, s.db, "product", id)
}

func (s *GormStore) GetProductBySKU(ctx context.Context, sku string) (*pharmacy.Product, error) {
	var product pharmacy.Product
	if err := s.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found").WithDetail("sku", sku)
		}
		return nil, shared.NewStorageUnavailableError(err)
	}
	return &product, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, product *pharmacy.Product) error {
	return createEntity(ctx, s.db, "product", "sku", product.SKU, product)
}

func (s *GormStore) UpdateProduct(ctx context.Context, id int64, patch pharmacy.ProductPatch) (*pharmacy.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(product)
	if err := saveEntity(ctx, s.db, "product", "sku", product.SKU, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *GormStore) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	return deleteByID[pharmacy.Product](ctx, s.db, id)
}

func (s *GormStore) ListProducts(ctx context.Context) ([]pharmacy.Product, error) {
	return listAll[pharmacy.Product](ctx, s.db)
}

func (s *GormStore) ListLowStockProducts(ctx context.Context) ([]pharmacy.Product, error) {
	products := make([]pharmacy.Product, 0)
	err := s.db.WithContext(ctx).
		Where("stock <= low_stock_threshold").
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, shared.NewStorageUnavailableError(err)
	}
	return products, nil
}

func (s *GormStore) ListExpiredProducts(ctx context.Context, now time.Time) ([]pharmacy.Product, error) {
	products := make([]pharmacy.Product, 0)
	err := s.db.WithContext(ctx).
		Where("expiry_date IS NOT NULL AND expiry_date < ?", now).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, shared.NewStorageUnavailableError(err)
	}
	return products, nil
}

// --- Categories ---

func (s *GormStore) GetCategory(ctx context.Context, id int64) (*pharmacy.Category, error) {
	return getByID[pharmacy.Category](ctx, s.db, "category", id)
}

func (s *GormStore) CreateCategory(ctx context.Context, category *pharmacy.Category) error {
	return createEntity(ctx, s.db, "category", "name", category.Name, category)
}

func (s *GormStore) UpdateCategory(ctx context.Context, id int64, patch pharmacy.CategoryPatch) (*pharmacy.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(category)
	if err := saveEntity(ctx, s.db, "category", "name", category.Name, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *GormStore) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	return deleteByID[pharmacy.Category](ctx, s.db, id)
}

func (s *GormStore) ListCategories(ctx context.Context) ([]pharmacy.Category, error) {
	return listAll[pharmacy.Category](ctx, s.db)
}

// --- Suppliers ---

func (s *GormStore) GetSupplier(ctx context.Context, id int64) (*pharmacy.Supplier, error) {
	return getByID[pharmacy.Supplier](ctx, s.db, "supplier", id)
}

func (s *GormStore) CreateSupplier(ctx context.Context, supplier *pharmacy.Supplier) error {
	if err := s.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return shared.NewStorageUnavailableError(err)
	}
	return nil
}

func (s *GormStore) UpdateSupplier(ctx context.Context, id int64, patch pharmacy.SupplierPatch) (*pharmacy.Supplier, error) {
	supplier, err := s.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(supplier)
	if err := s.db.WithContext(ctx).Save(supplier).Error; err != nil {
		return nil, shared.NewStorageUnavailableError(err)
	}
	return supplier, nil
}

func (s *GormStore) DeleteSupplier(ctx context.Context, id int64) (bool, error) {
	return deleteByID[pharmacy.Supplier](ctx, s.db, id)
}

func (s *GormStore) ListSuppliers(ctx context.Context) ([]pharmacy.Supplier, error) {
	return listAll[pharmacy.Supplier](ctx, s.db)
}

// --- Customers ---

func (s *GormStore) GetCustomer(ctx context.Context, id int64) (*pharmacy.Customer, error) {
	return getByID[pharmacy.Customer](ctx, s.db, "customer", id)
}

func (s *GormStore) CreateCustomer(ctx context.Context, customer *pharmacy.Customer) error {
	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return shared.NewStorageUnavailableError(err)
	}
	return nil
}

func (s *GormStore) UpdateCustomer(ctx context.Context, id int64, patch pharmacy.CustomerPatch) (*pharmacy.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(customer)
	if err := s.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, shared.NewStorageUnavailableError(err)
	}
	return customer, nil
}

func (s *GormStore) DeleteCustomer(ctx context.Context, id int64) (bool, error) {
	return deleteByID[pharmacy.Customer](ctx, s.db, id)
}

func (s *GormStore) ListCustomers(ctx context.Context) ([]pharmacy.Customer, error) {
	return listAll[pharmacy.Customer](ctx, s.db)
}

// --- Transactions ---

func (s *GormStore) GetTransaction(ctx context.Context, id int64) (*pharmacy.Transaction, error) {
	return getByID[pharmacy.Transaction](ctx, s.db, "transaction", id)
}

func (s *GormStore) ListTransactions(ctx context.Context) ([]pharmacy.Transaction, error) {
	return listAll[pharmacy.Transaction](ctx, s.db)
}

func (s *GormStore) ListRecentTransactions(ctx context.Context, limit int) ([]pharmacy.Transaction, error) {
	txns := make([]pharmacy.Transaction, 0)
	query := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if limit >= 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&txns).Error; err != nil {
		return nil, shared.NewStorageUnavailableError(err)
	}
	return txns, nil
}

// CommitSale runs the whole sale in one database transaction. Stock is
// taken with a conditional decrement (stock = stock - n where stock >= n),
// so concurrent sales racing for the last units serialize on the row and
// the loser rolls back without touching anything.
func (s *GormStore) CommitSale(ctx context.Context, txn *pharmacy.Transaction, items []*pharmacy.TransactionItem) error {
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&pharmacy.Transaction{}).Where("transaction_id = ?", txn.Code).Count(&count).Error; err != nil {
			return shared.NewStorageUnavailableError(err)
		}
		if count > 0 {
			return shared.NewAlreadyExistsError("transaction", "transactionId", txn.Code)
		}

		for _, item := range items {
			result := tx.Model(&pharmacy.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return shared.NewStorageUnavailableError(result.Error)
			}
			if result.RowsAffected == 0 {
				// Read back inside the transaction so the reported
				// availability reflects earlier lines of this sale.
				available := 0
				var product pharmacy.Product
				if err := tx.First(&product, item.ProductID).Error; err == nil {
					available = product.Stock
				}
				return shared.NewInsufficientStockError(item.ProductID, item.Quantity, available)
			}
		}

		if err := tx.Create(txn).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.NewAlreadyExistsError("transaction", "transactionId", txn.Code)
			}
			return shared.NewStorageUnavailableError(err)
		}
		for _, item := range items {
			item.TransactionID = txn.ID
			if err := tx.Create(item).Error; err != nil {
				return shared.NewStorageUnavailableError(err)
			}
		}
		return nil
	})
}

func (s *GormStore) CreateTransactionItem(ctx context.Context, item *pharmacy.TransactionItem) error {
	if _, err := s.GetTransaction(ctx, item.TransactionID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return shared.NewStorageUnavailableError(err)
	}
	return nil
}

func (s *GormStore) ListTransactionItems(ctx context.Context, transactionID int64) ([]pharmacy.TransactionItem, error) {
	items := make([]pharmacy.TransactionItem, 0)
	err := s.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, shared.NewStorageUnavailableError(err)
	}
	return items, nil
}

func (s *GormStore) ListAllTransactionItems(ctx context.Context) ([]pharmacy.TransactionItem, error) {
	return listAll[pharmacy.TransactionItem](ctx, s.db)
}
