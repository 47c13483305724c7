package snapshot

import (
	"context"

	"msuhthegreat/pricefinder/internal/product"
)

// Store persists the two snapshot generations. Ordering contract:
// PersistCurrent happens-before Rotate, and Rotate happens-before the next
// run's LoadPrevious. Rotate must never destroy the only copy of the
// baseline while a comparison may still need it.
type Store interface {
	// LoadPrevious returns the prior run's snapshot. A missing baseline is a
	// valid first-run state and returns an empty snapshot, not an error.
	LoadPrevious(ctx context.Context) (product.Snapshot, error)

	// PersistCurrent writes this run's complete snapshot to the current
	// generation, replacing any leftover current data from a failed run.
	PersistCurrent(ctx context.Context, snap product.Snapshot) error

	// Rotate promotes the current generation to become the next run's
	// baseline. Only called after comparison, alerting, and export finished.
	Rotate(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}
