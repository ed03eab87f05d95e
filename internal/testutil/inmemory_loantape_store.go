package testutil

import (
	"context"
	"fmt"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/loantape"
	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
)

// InMemoryLoanTapeStore implements loantape.Repository
type InMemoryLoanTapeStore struct {
	*InMemoryStore[*loantape.AccountPeriodRecord]
	nextID int
}

// NewInMemoryLoanTapeStore creates a new in-memory loan tape store
func NewInMemoryLoanTapeStore() *InMemoryLoanTapeStore {
	return &InMemoryLoanTapeStore{
		InMemoryStore: NewInMemoryStore[*loantape.AccountPeriodRecord](),
	}
}

// Helper to copy an account period record
func copyAccountPeriodRecord(r *loantape.AccountPeriodRecord) *loantape.AccountPeriodRecord {
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}

// Add inserts a record into the snapshot. Tests may add the same account
// across several periods, so rows are keyed by insertion sequence.
func (s *InMemoryLoanTapeStore) Add(ctx context.Context, record *loantape.AccountPeriodRecord) error {
	if record == nil {
		return ierr.NewError("record cannot be nil").
			WithHint("Record cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.nextID++
	key := fmt.Sprintf("%s:%s:%d", record.BusinessID, record.AccountID, s.nextID)
	if err := s.InMemoryStore.Create(ctx, key, copyAccountPeriodRecord(record)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to add loan tape record").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// List returns every account period record in the snapshot
func (s *InMemoryLoanTapeStore) List(ctx context.Context) ([]*loantape.AccountPeriodRecord, error) {
	records, err := s.InMemoryStore.List(ctx, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list loan tape records").
			Mark(ierr.ErrDatabase)
	}

	out := make([]*loantape.AccountPeriodRecord, len(records))
	for i, r := range records {
		out[i] = copyAccountPeriodRecord(r)
	}
	return out, nil
}

// Count returns the number of records in the snapshot
func (s *InMemoryLoanTapeStore) Count(ctx context.Context) (int, error) {
	return s.InMemoryStore.Count(ctx, nil)
}
