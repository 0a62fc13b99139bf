package pos

import (
	"context"

	"github.com/pharma/backend/internal/domain/pharmacy"
)

// GetTransaction retrieves a committed transaction by ID
func (s *CheckoutService) GetTransaction(ctx context.Context, id int64) (*pharmacy.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// ListTransactions retrieves all transactions in insertion order
func (s *CheckoutService) ListTransactions(ctx context.Context) ([]pharmacy.Transaction, error) {
	return s.store.ListTransactions(ctx)
}

// ListTransactionItems retrieves the line items of one transaction.
// The transaction must exist; an unknown ID is NOT_FOUND rather than an
// empty list.
func (s *CheckoutService) ListTransactionItems(ctx context.Context, transactionID int64) ([]pharmacy.TransactionItem, error) {
	if _, err := s.store.GetTransaction(ctx, transactionID); err != nil {
		return nil, err
	}
	return s.store.ListTransactionItems(ctx, transactionID)
}

// AddTransactionItem appends an item to an existing transaction without
// touching stock (legacy import path). The transaction must exist.
func (s *CheckoutService) AddTransactionItem(ctx context.Context, item *pharmacy.TransactionItem) error {
	if _, err := s.store.GetTransaction(ctx, item.TransactionID); err != nil {
		return err
	}
	if item.Subtotal == 0 {
		item.Subtotal = lineSubtotal(item.Price, item.Quantity)
	}
	return s.store.CreateTransactionItem(ctx, item)
}
