package testutil

import (
	"context"

	"github.com/samber/lo"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/order"
	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
)

// InMemoryOrderStore implements order.Repository
type InMemoryOrderStore struct {
	*InMemoryStore[*order.Order]
}

// NewInMemoryOrderStore creates a new in-memory order store
func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{
		InMemoryStore: NewInMemoryStore[*order.Order](),
	}
}

// Helper to copy an order
func copyOrder(o *order.Order) *order.Order {
	if o == nil {
		return nil
	}
	copied := *o
	return &copied
}

// Add inserts an order into the snapshot
func (s *InMemoryOrderStore) Add(ctx context.Context, o *order.Order) error {
	if o == nil {
		return ierr.NewError("order cannot be nil").
			WithHint("Order cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, o.ID, copyOrder(o)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to add order").
			WithReportableDetails(map[string]interface{}{"id": o.ID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// List returns every order in the snapshot
func (s *InMemoryOrderStore) List(ctx context.Context) ([]*order.Order, error) {
	orders, err := s.InMemoryStore.List(ctx, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list orders").
			Mark(ierr.ErrDatabase)
	}

	out := make([]*order.Order, len(orders))
	for i, o := range orders {
		out[i] = copyOrder(o)
	}
	return out, nil
}

// Count returns the number of orders in the snapshot
func (s *InMemoryOrderStore) Count(ctx context.Context) (int, error) {
	return s.InMemoryStore.Count(ctx, nil)
}

// InMemoryBankTransactionStore implements order.BankTransactionRepository
type InMemoryBankTransactionStore struct {
	*InMemoryStore[*order.BankTransaction]
}

// NewInMemoryBankTransactionStore creates a new in-memory bank transaction store
func NewInMemoryBankTransactionStore() *InMemoryBankTransactionStore {
	return &InMemoryBankTransactionStore{
		InMemoryStore: NewInMemoryStore[*order.BankTransaction](),
	}
}

// Helper to copy a bank transaction
func copyBankTransaction(t *order.BankTransaction) *order.BankTransaction {
	if t == nil {
		return nil
	}
	copied := *t
	if t.Category != nil {
		copied.Category = lo.ToPtr(*t.Category)
	}
	return &copied
}

// Add inserts a transaction into the snapshot
func (s *InMemoryBankTransactionStore) Add(ctx context.Context, t *order.BankTransaction) error {
	if t == nil {
		return ierr.NewError("transaction cannot be nil").
			WithHint("Transaction cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, t.ID, copyBankTransaction(t)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to add bank transaction").
			WithReportableDetails(map[string]interface{}{"id": t.ID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// List returns every bank transaction in the snapshot
func (s *InMemoryBankTransactionStore) List(ctx context.Context) ([]*order.BankTransaction, error) {
	txs, err := s.InMemoryStore.List(ctx, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list bank transactions").
			Mark(ierr.ErrDatabase)
	}

	out := make([]*order.BankTransaction, len(txs))
	for i, t := range txs {
		out[i] = copyBankTransaction(t)
	}
	return out, nil
}

// Count returns the number of transactions in the snapshot
func (s *InMemoryBankTransactionStore) Count(ctx context.Context) (int, error) {
	return s.InMemoryStore.Count(ctx, nil)
}
