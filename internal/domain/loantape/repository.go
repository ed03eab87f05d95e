package loantape

import "context"

// Repository provides read access to the loaded loan tape snapshot. The
// snapshot is immutable for the lifetime of a run; implementations return
// the materialized record set.
type Repository interface {
	// List returns every account period record in the snapshot
	List(ctx context.Context) ([]*AccountPeriodRecord, error)

	// Count returns the number of records in the snapshot
	Count(ctx context.Context) (int, error)
}
