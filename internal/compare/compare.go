// Package compare implements price drop detection between two snapshots.
package compare

import (
	"github.com/shopspring/decimal"

	"msuhthegreat/pricefinder/internal/product"
)

// Detector classifies per-identity price movement against a drop threshold.
type Detector struct {
	threshold decimal.Decimal
}

// NewDetector creates a detector. threshold is the drop fraction that counts
// as a drop, e.g. 0.10 for 10%; the threshold itself is inclusive.
func NewDetector(threshold float64) *Detector {
	return &Detector{threshold: decimal.NewFromFloat(threshold)}
}

// Compare walks the current snapshot in order and emits one result per
// identity that is present in both snapshots with both prices present.
// Identities with a previous price of zero are excluded: a percentage drop
// from zero is undefined. The computation is deterministic, so running it
// twice over the same pair yields identical results.
func (d *Detector) Compare(previous, current product.Snapshot) []product.ComparisonResult {
	prevIdx := previous.ByIdentity()

	var results []product.ComparisonResult
	seen := make(map[string]bool, len(current.Records))
	for _, cur := range current.Records {
		if seen[cur.Identity] {
			continue
		}
		seen[cur.Identity] = true

		prev, ok := prevIdx[cur.Identity]
		if !ok {
			// New product, nothing to compare against.
			continue
		}
		if !prev.HasPrice() || !cur.HasPrice() {
			continue
		}
		if prev.Price.IsZero() {
			continue
		}

		delta := prev.Price.Sub(*cur.Price).Div(*prev.Price)
		results = append(results, product.ComparisonResult{
			Identity:      cur.Identity,
			Title:         cur.Title,
			PreviousPrice: *prev.Price,
			CurrentPrice:  *cur.Price,
			DeltaFraction: delta,
			Dropped:       delta.GreaterThanOrEqual(d.threshold),
		})
	}
	return results
}

// Drops filters a result set down to the dropped entries.
func Drops(results []product.ComparisonResult) []product.ComparisonResult {
	var drops []product.ComparisonResult
	for _, r := range results {
		if r.Dropped {
			drops = append(drops, r)
		}
	}
	return drops
}
