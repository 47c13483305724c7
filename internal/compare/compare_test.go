package compare

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msuhthegreat/pricefinder/internal/product"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func record(identity, priceText string) product.Record {
	r := product.Record{
		Identity:     identity,
		Title:        identity,
		Availability: product.AvailabilityAvailable,
		CapturedAt:   time.Now(),
	}
	if priceText != "" {
		r.Price = price(priceText)
	}
	return r
}

func snapshot(records ...product.Record) product.Snapshot {
	return product.Snapshot{Records: records}
}

func TestCompareEndToEndScenario(t *testing.T) {
	detector := NewDetector(0.10)

	previous := snapshot(record("A", "100.00"), record("B", "50.00"))
	current := snapshot(record("A", "89.00"), record("B", "50.00"), record("C", "20.00"))

	results := detector.Compare(previous, current)
	require.Len(t, results, 2, "C is new and must produce no result")

	byID := map[string]product.ComparisonResult{}
	for _, r := range results {
		byID[r.Identity] = r
	}

	// A dropped 11%
	a := byID["A"]
	assert.True(t, a.Dropped)
	assert.True(t, a.DeltaFraction.Equal(decimal.RequireFromString("0.11")))

	// B is unchanged
	b := byID["B"]
	assert.False(t, b.Dropped)
	assert.True(t, b.DeltaFraction.IsZero())

	_, hasC := byID["C"]
	assert.False(t, hasC)
}

func TestCompareInclusiveThreshold(t *testing.T) {
	detector := NewDetector(0.10)

	tests := []struct {
		name    string
		prev    string
		cur     string
		dropped bool
	}{
		{"exactly ten percent counts", "100.00", "90.00", true},
		{"just under threshold", "100.00", "90.01", false},
		{"just over threshold", "100.00", "89.99", true},
		{"price increase", "100.00", "110.00", false},
		{"unchanged", "100.00", "100.00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := detector.Compare(
				snapshot(record("X", tt.prev)),
				snapshot(record("X", tt.cur)),
			)
			require.Len(t, results, 1)
			assert.Equal(t, tt.dropped, results[0].Dropped)
		})
	}
}

func TestCompareDroppedMatchesNinetyPercentBound(t *testing.T) {
	detector := NewDetector(0.10)
	ninety := decimal.RequireFromString("0.9")

	// dropped iff current <= previous * 0.9, for prices over a small grid
	for prevCents := int64(1); prevCents <= 200; prevCents += 7 {
		for curCents := int64(0); curCents <= 200; curCents += 11 {
			prev := decimal.New(prevCents, -2)
			cur := decimal.New(curCents, -2)

			results := detector.Compare(
				snapshot(product.Record{Identity: "X", Price: &prev}),
				snapshot(product.Record{Identity: "X", Price: &cur}),
			)
			require.Len(t, results, 1)

			want := cur.LessThanOrEqual(prev.Mul(ninety))
			assert.Equal(t, want, results[0].Dropped,
				"prev=%s cur=%s", prev, cur)
		}
	}
}

func TestCompareZeroPreviousPriceExcluded(t *testing.T) {
	detector := NewDetector(0.10)

	results := detector.Compare(
		snapshot(record("X", "0.00")),
		snapshot(record("X", "10.00")),
	)
	assert.Empty(t, results)
}

func TestCompareAbsentPricesExcluded(t *testing.T) {
	detector := NewDetector(0.10)

	previous := snapshot(record("A", "100.00"), record("B", ""))
	current := snapshot(record("A", ""), record("B", "50.00"))

	results := detector.Compare(previous, current)
	assert.Empty(t, results)
}

func TestCompareIdentityOnlyInOneSnapshot(t *testing.T) {
	detector := NewDetector(0.10)

	// removed product: only in previous
	results := detector.Compare(
		snapshot(record("gone", "10.00")),
		snapshot(),
	)
	assert.Empty(t, results)

	// new product: only in current
	results = detector.Compare(
		snapshot(),
		snapshot(record("new", "10.00")),
	)
	assert.Empty(t, results)
}

func TestCompareFirstRunEmptyBaseline(t *testing.T) {
	detector := NewDetector(0.10)

	results := detector.Compare(product.Snapshot{}, snapshot(record("A", "10.00")))
	assert.Empty(t, results)
}

func TestCompareIdempotent(t *testing.T) {
	detector := NewDetector(0.10)

	previous := snapshot(record("A", "100.00"), record("B", "50.00"), record("C", "0.00"))
	current := snapshot(record("A", "85.00"), record("B", "49.00"), record("C", "1.00"))

	first := detector.Compare(previous, current)
	second := detector.Compare(previous, current)
	assert.Equal(t, first, second)
}

func TestCompareCustomThreshold(t *testing.T) {
	detector := NewDetector(0.25)

	results := detector.Compare(
		snapshot(record("X", "100.00")),
		snapshot(record("X", "80.00")),
	)
	require.Len(t, results, 1)
	assert.False(t, results[0].Dropped, "20%% drop is under a 25%% threshold")
}

func TestDrops(t *testing.T) {
	results := []product.ComparisonResult{
		{Identity: "A", Dropped: true},
		{Identity: "B", Dropped: false},
		{Identity: "C", Dropped: true},
	}

	drops := Drops(results)
	require.Len(t, drops, 2)
	assert.Equal(t, "A", drops[0].Identity)
	assert.Equal(t, "C", drops[1].Identity)
}
