package order

import "context"

// Repository provides read access to the loaded orders snapshot.
type Repository interface {
	// List returns every order in the snapshot
	List(ctx context.Context) ([]*Order, error)

	// Count returns the number of orders in the snapshot
	Count(ctx context.Context) (int, error)
}

// BankTransactionRepository provides read access to the loaded bank
// statement snapshot.
type BankTransactionRepository interface {
	// List returns every bank transaction in the snapshot
	List(ctx context.Context) ([]*BankTransaction, error)

	// Count returns the number of transactions in the snapshot
	Count(ctx context.Context) (int, error)
}
