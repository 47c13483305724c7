package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"msuhthegreat/pricefinder/internal/product"
	"msuhthegreat/pricefinder/logger"
)

// SheetSink uploads the snapshot as spreadsheet-style rows to an HTTP
// endpoint. Uploads are retried a fixed number of times with a short pause,
// because the upstream sheet API fails transiently often enough to matter.
type SheetSink struct {
	url        string
	token      string
	attempts   int
	retryPause time.Duration
	client     *http.Client
}

var _ Sink = (*SheetSink)(nil)

// NewSheetSink creates a sink for the given endpoint. attempts must be at
// least 1.
func NewSheetSink(url, token string, attempts int) *SheetSink {
	if attempts < 1 {
		attempts = 1
	}
	return &SheetSink{
		url:        url,
		token:      token,
		attempts:   attempts,
		retryPause: 2 * time.Second,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

type sheetPayload struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Upload posts all rows in snapshot order. Header row first, then one row
// per record; records without a price export an empty price cell.
func (s *SheetSink) Upload(ctx context.Context, records []product.Record) error {
	if s.url == "" {
		return fmt.Errorf("sheet sink misconfigured: url is empty")
	}

	log := logger.ForExport()

	payload := sheetPayload{
		Header: []string{"Identity", "Title", "Price", "Availability", "CapturedAt"},
		Rows:   make([][]string, 0, len(records)),
	}
	for _, r := range records {
		price := ""
		if r.HasPrice() {
			price = r.Price.StringFixed(2)
		}
		payload.Rows = append(payload.Rows, []string{
			r.Identity,
			r.Title,
			price,
			string(r.Availability),
			r.CapturedAt.UTC().Format(time.RFC3339),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode export payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		lastErr = s.post(ctx, body)
		if lastErr == nil {
			log.Info().Int("rows", len(payload.Rows)).Int("attempt", attempt).Msg("Export uploaded")
			return nil
		}

		log.Warn().Err(lastErr).Int("attempt", attempt).Msg("Export attempt failed")
		if attempt < s.attempts {
			select {
			case <-time.After(s.retryPause):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("export failed after %d attempts: %w", s.attempts, lastErr)
}

func (s *SheetSink) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload rows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sheet endpoint error: %s", resp.Status)
	}
	return nil
}
