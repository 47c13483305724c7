// Package extract turns rendered search-result pages into product records.
package extract

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"msuhthegreat/pricefinder/internal/normalize"
	"msuhthegreat/pricefinder/internal/product"
	"msuhthegreat/pricefinder/logger"
)

// PageSource returns the rendered result pages for a search term. The real
// implementation fetches over HTTP; tests inject canned pages. A nil error
// with zero pages means the search produced no results.
type PageSource interface {
	SearchPages(ctx context.Context, term string) ([]io.Reader, error)
}

// Selectors contains CSS selectors for the elements of a result page
type Selectors struct {
	ProductList   string
	Title         string
	PriceWhole    string
	PriceFraction string
	Availability  string
	IdentityAttr  string
}

// DefaultSelectors matches the search-result markup of the target site
func DefaultSelectors() Selectors {
	return Selectors{
		ProductList:   `div[data-component-type="s-search-result"]`,
		Title:         "h2",
		PriceWhole:    ".a-price-whole",
		PriceFraction: ".a-price-fraction",
		Availability:  ".a-color-price, .a-size-base.a-color-secondary",
		IdentityAttr:  "data-asin",
	}
}

// Extractor produces partially-filled records from rendered pages. A missing
// field never fails the row and a failing row never fails the query.
type Extractor struct {
	source    PageSource
	selectors Selectors
}

// NewExtractor creates an extractor over the given page source
func NewExtractor(source PageSource, selectors Selectors) *Extractor {
	return &Extractor{
		source:    source,
		selectors: selectors,
	}
}

// Extract runs one query and returns its records in page order, first
// occurrence per identity. When the source fails entirely it still returns a
// single record with unknown availability and empty fields, together with the
// error, so the run can log the failure and keep a row for the query.
func (e *Extractor) Extract(ctx context.Context, query product.Query, capturedAt time.Time) ([]product.Record, error) {
	log := logger.ForExtractor(query.Identity)

	pages, err := e.source.SearchPages(ctx, query.SearchTerm)
	if err != nil {
		return []product.Record{fallbackRecord(query, capturedAt)},
			fmt.Errorf("search %q: %w", query.SearchTerm, err)
	}

	var records []product.Record
	seen := make(map[string]bool)
	for i, page := range pages {
		doc, err := goquery.NewDocumentFromReader(page)
		if err != nil {
			log.Warn().Err(err).Int("page", i+1).Msg("Skipping unparseable page")
			continue
		}

		doc.Find(e.selectors.ProductList).Each(func(_ int, s *goquery.Selection) {
			record := e.extractRow(query, s, capturedAt)
			if seen[record.Identity] {
				// Earlier pages are authoritative for duplicate listings.
				return
			}
			seen[record.Identity] = true
			records = append(records, record)
		})
	}

	if len(records) == 0 {
		log.Warn().Msg("Search produced no product rows")
		return []product.Record{fallbackRecord(query, capturedAt)}, nil
	}

	log.Debug().Int("records", len(records)).Int("pages", len(pages)).Msg("Extracted records")
	return records, nil
}

// extractRow reads one product row. Absent fields become empty or unknown
// values, never an error.
func (e *Extractor) extractRow(query product.Query, s *goquery.Selection, capturedAt time.Time) product.Record {
	identity := strings.TrimSpace(s.AttrOr(e.selectors.IdentityAttr, ""))
	if identity == "" {
		identity = query.Identity
	}

	record := product.Record{
		Identity:     identity,
		Title:        normalize.Title(findText(s, e.selectors.Title)),
		Availability: product.AvailabilityUnknown,
		CapturedAt:   capturedAt,
	}

	availabilityText := findText(s, e.selectors.Availability)
	record.Availability = normalize.Availability(availabilityText)

	if record.Availability == product.AvailabilityUnavailable {
		// An unavailable listing carries no price; whatever the page still
		// renders there is a stale offer, not a purchasable one.
		return record
	}

	record.Price = normalize.PriceParts(
		findText(s, e.selectors.PriceWhole),
		findText(s, e.selectors.PriceFraction),
	)
	if record.Price != nil && record.Availability == product.AvailabilityUnknown {
		record.Availability = product.AvailabilityAvailable
	}
	return record
}

// fallbackRecord is the resilience contract for a query whose page could not
// be located: unknown availability, no title, no price.
func fallbackRecord(query product.Query, capturedAt time.Time) product.Record {
	return product.Record{
		Identity:     query.Identity,
		Availability: product.AvailabilityUnknown,
		CapturedAt:   capturedAt,
	}
}

// findText extracts trimmed text from the first matched element, empty when
// the selector matches nothing.
func findText(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	sel := s.Find(selector)
	if sel.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(sel.First().Text())
}
