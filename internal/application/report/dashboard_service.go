package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharma/backend/internal/domain/pharmacy"
)

// Series periods accepted by SalesSeries
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

const (
	dailyBuckets   = 7
	weeklyBuckets  = 4
	monthlyBuckets = 6
	changeWindow   = 30 * 24 * time.Hour
)

// DashboardService computes dashboard aggregates from committed
// transactions. Every figure is derived from the store at call time;
// nothing is cached or precomputed.
type DashboardService struct {
	store    pharmacy.Store
	location *time.Location
}

// NewDashboardService creates a new DashboardService. Buckets of the sales
// series are aligned to midnight in the given location.
func NewDashboardService(store pharmacy.Store, location *time.Location) *DashboardService {
	if location == nil {
		location = time.Local
	}
	return &DashboardService{store: store, location: location}
}

// Stats is the dashboard headline block.
// PercentSalesChange compares the last 30 days to the 30 days before;
// it is nil when the earlier window has no sales to compare against.
type Stats struct {
	TotalSales         float64  `json:"totalSales"`
	TotalProducts      int      `json:"totalProducts"`
	LowStockCount      int      `json:"lowStockCount"`
	ExpiredCount       int      `json:"expiredCount"`
	PercentSalesChange *float64 `json:"percentSalesChange"`
}

// SalesPoint is one bucket of the sales series
type SalesPoint struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// CategoryShare is one slice of the category revenue breakdown
type CategoryShare struct {
	Category string `json:"category"`
	Percent  int    `json:"percent"`
}

// RecentTransaction is a transaction enriched with its customer, when one
// is attached
type RecentTransaction struct {
	pharmacy.Transaction
	Customer *pharmacy.CustomerSummary `json:"customer"`
}

// SupplierSummary is the supplier reference embedded in low-stock rows
type SupplierSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LowStockProduct is a low-stock product enriched with reorder context
type LowStockProduct struct {
	pharmacy.Product
	Supplier          *SupplierSummary `json:"supplier"`
	AvgDailySales     float64          `json:"avgDailySales"`
	DaysUntilStockout int              `json:"daysUntilStockout"`
}

// GetStats computes the dashboard headline figures
func (s *DashboardService) GetStats(ctx context.Context) (*Stats, error) {
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.store.ListLowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().In(s.location)
	expired, err := s.store.ListExpiredProducts(ctx, now)
	if err != nil {
		return nil, err
	}

	totalSales := decimal.Zero
	current := decimal.Zero
	previous := decimal.Zero
	currentStart := now.Add(-changeWindow)
	previousStart := now.Add(-2 * changeWindow)
	for _, txn := range txns {
		amount := decimal.NewFromFloat(txn.Total)
		totalSales = totalSales.Add(amount)
		switch {
		case !txn.CreatedAt.Before(currentStart):
			current = current.Add(amount)
		case !txn.CreatedAt.Before(previousStart):
			previous = previous.Add(amount)
		}
	}

	total, _ := totalSales.Float64()
	stats := &Stats{
		TotalSales:    total,
		TotalProducts: len(products),
		LowStockCount: len(lowStock),
		ExpiredCount:  len(expired),
	}
	if previous.IsPositive() {
		change, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Float64()
		stats.PercentSalesChange = &change
	}
	return stats, nil
}

// GetSalesSeries buckets completed sales into the requested period:
// the last 7 days, the last 4 weeks, or the last 6 months. The final
// bucket is the current partial period.
func (s *DashboardService) GetSalesSeries(ctx context.Context, period string) ([]SalesPoint, error) {
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.location)
	var starts []time.Time
	var labels []string

	switch period {
	case PeriodDaily:
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
		for i := dailyBuckets - 1; i >= 0; i-- {
			start := today.AddDate(0, 0, -i)
			starts = append(starts, start)
			labels = append(labels, start.Format("Mon"))
		}
	case PeriodWeekly:
		// Weeks start on Monday.
		weekday := (int(now.Weekday()) + 6) % 7
		weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location).AddDate(0, 0, -weekday)
		for i := weeklyBuckets - 1; i >= 0; i-- {
			start := weekStart.AddDate(0, 0, -7*i)
			starts = append(starts, start)
			labels = append(labels, fmt.Sprintf("Week %d", weeklyBuckets-i))
		}
	case PeriodMonthly:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.location)
		for i := monthlyBuckets - 1; i >= 0; i-- {
			start := monthStart.AddDate(0, -i, 0)
			starts = append(starts, start)
			labels = append(labels, start.Format("Jan"))
		}
	default:
		return nil, fmt.Errorf("unknown sales period: %q", period)
	}

	totals := make([]decimal.Decimal, len(starts))
	for _, txn := range txns {
		created := txn.CreatedAt.In(s.location)
		if created.Before(starts[0]) || created.After(now) {
			continue
		}
		// Walk from the newest bucket; the first start at or before the
		// transaction owns it.
		for i := len(starts) - 1; i >= 0; i-- {
			if !created.Before(starts[i]) {
				totals[i] = totals[i].Add(decimal.NewFromFloat(txn.Total))
				break
			}
		}
	}

	points := make([]SalesPoint, len(starts))
	for i := range starts {
		total, _ := totals[i].Float64()
		points[i] = SalesPoint{Label: labels[i], Total: total}
	}
	return points, nil
}

// GetCategoryShare computes each category's share of item revenue as
// whole percentages. With no recorded revenue the breakdown is empty
// rather than fabricated.
func (s *DashboardService) GetCategoryShare(ctx context.Context) ([]CategoryShare, error) {
	items, err := s.store.ListAllTransactionItems(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	categoryByProduct := make(map[int64]string, len(products))
	for _, p := range products {
		categoryByProduct[p.ID] = p.Category
	}

	totals := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	grand := decimal.Zero
	for _, item := range items {
		category, ok := categoryByProduct[item.ProductID]
		if !ok {
			// Product deleted since the sale; its revenue has no category.
			continue
		}
		subtotal := decimal.NewFromFloat(item.Subtotal)
		if _, seen := totals[category]; !seen {
			order = append(order, category)
		}
		totals[category] = totals[category].Add(subtotal)
		grand = grand.Add(subtotal)
	}

	shares := make([]CategoryShare, 0, len(order))
	if !grand.IsPositive() {
		return shares, nil
	}
	hundred := decimal.NewFromInt(100)
	for _, category := range order {
		percent := totals[category].Div(grand).Mul(hundred).Round(0).IntPart()
		shares = append(shares, CategoryShare{Category: category, Percent: int(percent)})
	}
	return shares, nil
}

// GetRecentTransactions returns the most recent transactions with their
// customers attached
func (s *DashboardService) GetRecentTransactions(ctx context.Context, limit int) ([]RecentTransaction, error) {
	txns, err := s.store.ListRecentTransactions(ctx, limit)
	if err != nil {
		return nil, err
	}

	recent := make([]RecentTransaction, 0, len(txns))
	for _, txn := range txns {
		entry := RecentTransaction{Transaction: txn}
		if txn.CustomerID != nil {
			customer, err := s.store.GetCustomer(ctx, *txn.CustomerID)
			if err == nil {
				summary := customer.Summary()
				entry.Customer = &summary
			}
		}
		recent = append(recent, entry)
	}
	return recent, nil
}

// GetLowStockDetail returns low-stock products with their supplier and a
// stockout projection from the last 30 days of sales
func (s *DashboardService) GetLowStockDetail(ctx context.Context) ([]LowStockProduct, error) {
	lowStock, err := s.store.ListLowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListAllTransactionItems(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-changeWindow)
	recentTxn := make(map[int64]bool, len(txns))
	for _, txn := range txns {
		if !txn.CreatedAt.Before(cutoff) {
			recentTxn[txn.ID] = true
		}
	}
	soldQty := make(map[int64]int)
	for _, item := range items {
		if recentTxn[item.TransactionID] {
			soldQty[item.ProductID] += item.Quantity
		}
	}

	detail := make([]LowStockProduct, 0, len(lowStock))
	for _, product := range lowStock {
		entry := LowStockProduct{Product: product}
		if product.SupplierID != nil {
			supplier, err := s.store.GetSupplier(ctx, *product.SupplierID)
			if err == nil {
				entry.Supplier = &SupplierSummary{ID: supplier.ID, Name: supplier.Name}
			}
		}

		avgDaily := float64(soldQty[product.ID]) / (changeWindow.Hours() / 24)
		entry.AvgDailySales = avgDaily
		entry.DaysUntilStockout = int(math.Floor(float64(product.Stock) / math.Max(avgDaily, 1)))
		detail = append(detail, entry)
	}
	return detail, nil
}
