package persistence

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pharma/backend/internal/domain/pharmacy"
)

// Seed loads the demo pharmacy fixtures: an admin account, categories,
// a supplier, products, customers, and a few committed sales. It is a
// no-op when the store already holds products, so restarting against a
// durable backend does not duplicate data.
func Seed(ctx context.Context, store pharmacy.Store, log *zap.Logger) error {
	existing, err := store.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect store before seeding: %w", err)
	}
	if len(existing) > 0 {
		log.Info("store already contains data, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}
	admin, err := pharmacy.NewUser("admin", string(hash), "Admin Apotek", pharmacy.RoleAdmin)
	if err != nil {
		return err
	}
	if err := store.CreateUser(ctx, admin); err != nil {
		return err
	}

	for _, c := range []struct{ name, description string }{
		{"Pain Relief", "Analgesics and antipyretics"},
		{"Antibiotics", "Prescription antibiotics"},
		{"Vitamins", "Vitamins and supplements"},
		{"First Aid", "Wound care and first aid supplies"},
	} {
		category, err := pharmacy.NewCategory(c.name, c.description)
		if err != nil {
			return err
		}
		if err := store.CreateCategory(ctx, category); err != nil {
			return err
		}
	}

	supplier, err := pharmacy.NewSupplier("PT Kimia Farma Distribusi", "Budi Santoso")
	if err != nil {
		return err
	}
	supplier.Email = "order@kimiafarma.example"
	supplier.Phone = "+62-21-5550123"
	supplier.Address = "Jl. Veteran No. 9, Jakarta"
	if err := store.CreateSupplier(ctx, supplier); err != nil {
		return err
	}

	// Stock is set high enough that after the seeded sales commit below,
	// the remaining quantities land on the demo values (5, 3, 2, 15).
	expiry := time.Now().AddDate(0, 6, 0)
	seedProducts := []struct {
		name      string
		sku       string
		category  string
		price     float64
		costPrice float64
		stock     int
		threshold int
	}{
		{"Paracetamol 500mg", "MED-001", "Pain Relief", 25000, 15000, 9, 10},
		{"Amoxicillin 250mg", "MED-002", "Antibiotics", 45000, 30000, 7, 10},
		{"Vitamin C 1000mg", "MED-003", "Vitamins", 35000, 20000, 4, 10},
		{"Ibuprofen 400mg", "MED-004", "Pain Relief", 30000, 18000, 19, 10},
	}
	products := make([]*pharmacy.Product, 0, len(seedProducts))
	for _, p := range seedProducts {
		product, err := pharmacy.NewProduct(p.name, p.sku, p.category, p.price, p.costPrice)
		if err != nil {
			return err
		}
		product.Stock = p.stock
		product.LowStockThreshold = p.threshold
		product.ExpiryDate = &expiry
		product.SupplierID = &supplier.ID
		if err := store.CreateProduct(ctx, product); err != nil {
			return err
		}
		products = append(products, product)
	}

	customers := make([]*pharmacy.Customer, 0, 4)
	for _, c := range []struct{ name, email, phone string }{
		{"Siti Rahayu", "siti.rahayu@example.com", "+62-812-3456-7890"},
		{"Agus Wijaya", "agus.wijaya@example.com", "+62-813-2345-6789"},
		{"Dewi Lestari", "dewi.lestari@example.com", "+62-815-3456-7891"},
		{"Rudi Hartono", "rudi.hartono@example.com", "+62-817-4567-8912"},
	} {
		customer, err := pharmacy.NewCustomer(c.name)
		if err != nil {
			return err
		}
		customer.Email = c.email
		customer.Phone = c.phone
		if err := store.CreateCustomer(ctx, customer); err != nil {
			return err
		}
		customers = append(customers, customer)
	}

	type seedLine struct {
		product  *pharmacy.Product
		quantity int
	}
	now := time.Now()
	seedSales := []struct {
		code     string
		customer *pharmacy.Customer
		status   pharmacy.TransactionStatus
		age      time.Duration
		lines    []seedLine
	}{
		{"TRX-6520", customers[3], pharmacy.TransactionStatusPending, 26 * time.Hour, []seedLine{
			{products[0], 1}, {products[1], 1}, {products[2], 1},
		}},
		{"TRX-6521", customers[2], pharmacy.TransactionStatusCompleted, 8 * time.Hour, []seedLine{
			{products[1], 2}, {products[3], 2},
		}},
		{"TRX-6522", customers[1], pharmacy.TransactionStatusCompleted, 5 * time.Hour, []seedLine{
			{products[0], 1}, {products[2], 1}, {products[3], 1},
		}},
		{"TRX-6523", customers[0], pharmacy.TransactionStatusCompleted, 2 * time.Hour, []seedLine{
			{products[0], 2}, {products[1], 1}, {products[3], 1},
		}},
	}
	for _, sale := range seedSales {
		items := make([]*pharmacy.TransactionItem, 0, len(sale.lines))
		total := 0.0
		for _, line := range sale.lines {
			subtotal := line.product.Price * float64(line.quantity)
			items = append(items, &pharmacy.TransactionItem{
				ProductID: line.product.ID,
				Quantity:  line.quantity,
				Price:     line.product.Price,
				Subtotal:  subtotal,
			})
			total += subtotal
		}

		txn, err := pharmacy.NewTransaction(sale.code, &sale.customer.ID, total, sale.status)
		if err != nil {
			return err
		}
		txn.CreatedAt = now.Add(-sale.age)
		if err := store.CommitSale(ctx, txn, items); err != nil {
			return err
		}
	}

	log.Info("seeded demo data",
		zap.Int("products", len(products)),
		zap.Int("customers", len(customers)),
		zap.Int("transactions", len(seedSales)))
	return nil
}
