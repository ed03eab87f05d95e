package csvstore

import (
	"context"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/order"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/revenue"
	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
)

// orderRow mirrors the orders CSV header. The line_items, refunds and
// discounts cells carry raw JSON.
type orderRow struct {
	OrderID    string `csv:"order_id"`
	CustomerID string `csv:"customer_id"`
	CreatedAt  string `csv:"created_at"`
	LineItems  string `csv:"line_items"`
	Refunds    string `csv:"refunds"`
	Discounts  string `csv:"discounts"`
}

// OrdersStore loads the orders feed once, decomposing each row's revenue,
// and serves it as an immutable in-memory snapshot.
type OrdersStore struct {
	orders []*order.Order
	logger *logger.Logger
}

// NewOrdersStore reads and normalizes the orders CSV. Rows missing an order
// or customer identifier are skipped with a warning; revenue decomposition
// itself never rejects a row.
func NewOrdersStore(path string, decomposer *revenue.Decomposer, log *logger.Logger) (*OrdersStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to open orders file").
			WithReportableDetails(map[string]interface{}{"path": path}).
			Mark(ierr.ErrSystem)
	}
	defer f.Close()

	var rows []*orderRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse orders CSV").
			WithReportableDetails(map[string]interface{}{"path": path}).
			Mark(ierr.ErrValidation)
	}

	ctx := context.Background()
	orders := make([]*order.Order, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		if row.OrderID == "" || row.CustomerID == "" {
			skipped++
			log.Warnw("skipping orders row without identifiers",
				"row", i+1,
				"order_id", row.OrderID,
				"customer_id", row.CustomerID)
			continue
		}

		decomposition := decomposer.Decompose(ctx, row.LineItems, row.Refunds, row.Discounts)
		o := &order.Order{
			ID:         row.OrderID,
			CustomerID: row.CustomerID,
			Gross:      decomposition.Gross,
			Refund:     decomposition.Refund,
			Discount:   decomposition.Discount,
		}
		if t, ok := ParseDate(row.CreatedAt); ok {
			o.CreatedAt = t
		}
		orders = append(orders, o)
	}

	log.Infow("loaded orders snapshot",
		"path", path,
		"orders", len(orders),
		"skipped", skipped)

	return &OrdersStore{orders: orders, logger: log}, nil
}

// List returns every order in the snapshot
func (s *OrdersStore) List(ctx context.Context) ([]*order.Order, error) {
	out := make([]*order.Order, len(s.orders))
	copy(out, s.orders)
	return out, nil
}

// Count returns the number of orders in the snapshot
func (s *OrdersStore) Count(ctx context.Context) (int, error) {
	return len(s.orders), nil
}
