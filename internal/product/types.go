package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Availability describes whether a listing can currently be purchased.
type Availability string

const (
	// AvailabilityAvailable means the listing showed a purchasable offer.
	AvailabilityAvailable Availability = "available"
	// AvailabilityUnavailable means the listing explicitly said it cannot be bought.
	AvailabilityUnavailable Availability = "unavailable"
	// AvailabilityUnknown means the page gave no usable signal either way.
	AvailabilityUnknown Availability = "unknown"
)

// Query is one configured product to search for. Identity must stay stable
// across runs or price comparison is meaningless.
type Query struct {
	Identity   string `yaml:"identity" json:"identity"`
	SearchTerm string `yaml:"search" json:"search"`
}

// Record is one extracted and normalized listing observation.
// Price is nil when the listing was out of stock or the price text could not
// be parsed; zero is a distinct, valid price.
type Record struct {
	Identity     string           `json:"identity"`
	Title        string           `json:"title"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Availability Availability     `json:"availability"`
	CapturedAt   time.Time        `json:"captured_at"`
}

// HasPrice reports whether the record carries a parsed price.
func (r Record) HasPrice() bool {
	return r.Price != nil
}

// Snapshot is the complete ordered record set produced by one run.
type Snapshot struct {
	Records []Record `json:"records"`
}

// ByIdentity indexes the snapshot's records by identity. Later duplicates do
// not overwrite earlier ones; the first occurrence is authoritative.
func (s Snapshot) ByIdentity() map[string]Record {
	idx := make(map[string]Record, len(s.Records))
	for _, r := range s.Records {
		if _, ok := idx[r.Identity]; !ok {
			idx[r.Identity] = r
		}
	}
	return idx
}

// Empty reports whether the snapshot holds no records.
func (s Snapshot) Empty() bool {
	return len(s.Records) == 0
}

// ComparisonResult is the per-identity outcome of comparing two snapshots.
// It is derived state, recomputed each run and never persisted.
type ComparisonResult struct {
	Identity      string
	Title         string
	PreviousPrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	DeltaFraction decimal.Decimal
	Dropped       bool
}
