package csvstore

import (
	"context"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/order"
	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
)

// bankTransactionRow mirrors the bank statement CSV header.
type bankTransactionRow struct {
	TransactionID string `csv:"transaction_id"`
	Date          string `csv:"date"`
	Category      string `csv:"category"`
	Amount        string `csv:"amount"`
}

// BankTransactionStore loads the bank statement feed once and serves it as
// an immutable in-memory snapshot.
type BankTransactionStore struct {
	transactions []*order.BankTransaction
	logger       *logger.Logger
}

// NewBankTransactionStore reads and normalizes the bank statement CSV.
// Empty categories become nil so they never match spend attribution.
func NewBankTransactionStore(path string, log *logger.Logger) (*BankTransactionStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to open bank transactions file").
			WithReportableDetails(map[string]interface{}{"path": path}).
			Mark(ierr.ErrSystem)
	}
	defer f.Close()

	var rows []*bankTransactionRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse bank transactions CSV").
			WithReportableDetails(map[string]interface{}{"path": path}).
			Mark(ierr.ErrValidation)
	}

	transactions := make([]*order.BankTransaction, 0, len(rows))
	for _, row := range rows {
		tx := &order.BankTransaction{
			ID:     row.TransactionID,
			Amount: ParseCurrency(row.Amount),
		}
		if category := strings.TrimSpace(row.Category); category != "" {
			tx.Category = lo.ToPtr(category)
		}
		if t, ok := ParseDate(row.Date); ok {
			tx.Date = t
		}
		transactions = append(transactions, tx)
	}

	log.Infow("loaded bank transactions snapshot",
		"path", path,
		"transactions", len(transactions))

	return &BankTransactionStore{transactions: transactions, logger: log}, nil
}

// List returns every bank transaction in the snapshot
func (s *BankTransactionStore) List(ctx context.Context) ([]*order.BankTransaction, error) {
	out := make([]*order.BankTransaction, len(s.transactions))
	copy(out, s.transactions)
	return out, nil
}

// Count returns the number of transactions in the snapshot
func (s *BankTransactionStore) Count(ctx context.Context) (int, error) {
	return len(s.transactions), nil
}
