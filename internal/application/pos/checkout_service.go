package pos

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/domain/shared"
	"github.com/pharma/backend/internal/infrastructure/cache"
)

// totalTolerance absorbs float rounding between the declared total and the
// recalculated sum of line subtotals.
var totalTolerance = decimal.NewFromFloat(0.01)

// CheckoutService commits point-of-sale transactions. The declared total is
// reconciled against the recalculated sum of price * quantity before any
// stock moves; the store then checks and decrements stock atomically.
type CheckoutService struct {
	store       pharmacy.TransactionStore
	idempotency cache.IdempotencyStore
	ttl         time.Duration
	logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(store pharmacy.TransactionStore, idempotency cache.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		store:       store,
		idempotency: idempotency,
		ttl:         ttl,
		logger:      logger,
	}
}

// CheckoutItemInput is one line of a sale
type CheckoutItemInput struct {
	ProductID int64
	Quantity  int
	Price     float64
}

// CheckoutInput carries a complete sale as declared by the client
type CheckoutInput struct {
	Code       string
	CustomerID *int64
	Total      float64
	Status     pharmacy.TransactionStatus
	Items      []CheckoutItemInput
	// IdempotencyKey deduplicates retried checkouts; empty disables the check.
	IdempotencyKey string
}

// CheckoutResult is the committed transaction with its line items.
// Replayed is set when an idempotency key matched an earlier commit and no
// new sale was recorded.
type CheckoutResult struct {
	Transaction *pharmacy.Transaction
	Items       []pharmacy.TransactionItem
	Replayed    bool
}

// Checkout validates, reconciles, and commits a sale
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if len(input.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction must contain at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "Item quantity must be positive").
				WithDetail("product_id", item.ProductID)
		}
		if item.Price < 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "Item price cannot be negative").
				WithDetail("product_id", item.ProductID)
		}
	}

	txn, err := pharmacy.NewTransaction(input.Code, input.CustomerID, input.Total, input.Status)
	if err != nil {
		return nil, err
	}

	items, calculated := buildItems(input.Items)
	declared := decimal.NewFromFloat(input.Total)
	if declared.Sub(calculated).Abs().GreaterThan(totalTolerance) {
		calc, _ := calculated.Float64()
		return nil, shared.NewTotalMismatchError(input.Total, calc)
	}

	if input.IdempotencyKey == "" {
		if err := s.store.CommitSale(ctx, txn, items); err != nil {
			return nil, err
		}
		return s.result(txn, items, false), nil
	}
	return s.checkoutIdempotent(ctx, input.IdempotencyKey, txn, items)
}

// checkoutIdempotent claims the key before committing so a retried request
// replays the recorded transaction instead of selling twice
func (s *CheckoutService) checkoutIdempotent(ctx context.Context, key string, txn *pharmacy.Transaction, items []*pharmacy.TransactionItem) (*CheckoutResult, error) {
	if result, ok, err := s.idempotency.Result(ctx, key); err != nil {
		return nil, shared.NewStorageUnavailableError(err)
	} else if ok {
		return s.replay(ctx, result)
	}

	claimed, err := s.idempotency.MarkPending(ctx, key, s.ttl)
	if err != nil {
		return nil, shared.NewStorageUnavailableError(err)
	}
	if !claimed {
		// Lost the race. Either the winner already committed, or it is
		// still in flight and the client should retry.
		if result, ok, err := s.idempotency.Result(ctx, key); err == nil && ok {
			return s.replay(ctx, result)
		}
		return nil, shared.NewDomainError("CHECKOUT_IN_PROGRESS", "A checkout with this idempotency key is already in progress").
			WithDetail("idempotency_key", key)
	}

	if err := s.store.CommitSale(ctx, txn, items); err != nil {
		if releaseErr := s.idempotency.Release(ctx, key); releaseErr != nil {
			s.logger.Warn("failed to release idempotency key after failed commit",
				zap.String("key", key), zap.Error(releaseErr))
		}
		return nil, err
	}

	if err := s.idempotency.StoreResult(ctx, key, txn.ID, s.ttl); err != nil {
		// The sale is committed; a lost record only means a retry would
		// fail on the duplicate transaction code instead of replaying.
		s.logger.Warn("failed to record idempotency result",
			zap.String("key", key), zap.Int64("transaction_id", txn.ID), zap.Error(err))
	}
	return s.result(txn, items, false), nil
}

func (s *CheckoutService) replay(ctx context.Context, transactionID int64) (*CheckoutResult, error) {
	txn, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListTransactionItems(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{Transaction: txn, Items: items, Replayed: true}, nil
}

func (s *CheckoutService) result(txn *pharmacy.Transaction, items []*pharmacy.TransactionItem, replayed bool) *CheckoutResult {
	stored := make([]pharmacy.TransactionItem, 0, len(items))
	for _, item := range items {
		stored = append(stored, *item)
	}
	return &CheckoutResult{Transaction: txn, Items: stored, Replayed: replayed}
}

// lineSubtotal computes price times quantity through decimal so line
// subtotals match the checkout reconciliation arithmetic
func lineSubtotal(price float64, quantity int) float64 {
	sub, _ := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))).Float64()
	return sub
}

// buildItems recalculates each subtotal with decimal arithmetic and returns
// the recalculated grand total
func buildItems(inputs []CheckoutItemInput) ([]*pharmacy.TransactionItem, decimal.Decimal) {
	items := make([]*pharmacy.TransactionItem, 0, len(inputs))
	total := decimal.Zero
	for _, input := range inputs {
		subtotal := decimal.NewFromFloat(input.Price).Mul(decimal.NewFromInt(int64(input.Quantity)))
		total = total.Add(subtotal)

		sub, _ := subtotal.Float64()
		items = append(items, &pharmacy.TransactionItem{
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
			Price:     input.Price,
			Subtotal:  sub,
		})
	}
	return items, total
}
