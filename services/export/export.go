package export

import (
	"context"

	"msuhthegreat/pricefinder/internal/product"
)

// Sink receives the full snapshot at the end of a run, drops included or not
type Sink interface {
	// Upload hands the ordered record rows to the external store
	Upload(ctx context.Context, records []product.Record) error
}
