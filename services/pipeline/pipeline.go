package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"msuhthegreat/pricefinder/helpers"
	"msuhthegreat/pricefinder/internal/compare"
	"msuhthegreat/pricefinder/internal/product"
	"msuhthegreat/pricefinder/logger"
	perrors "msuhthegreat/pricefinder/pkg/errors"
	"msuhthegreat/pricefinder/services/alert"
	"msuhthegreat/pricefinder/services/export"
	"msuhthegreat/pricefinder/services/snapshot"
)

// Extractor produces the records for one query. Satisfied by
// extract.Extractor; tests inject fakes.
type Extractor interface {
	Extract(ctx context.Context, query product.Query, capturedAt time.Time) ([]product.Record, error)
}

// Report summarizes one run's outcome
type Report struct {
	RunID        string
	StartedAt    time.Time
	Processed    int
	Failed       int
	Results      []product.ComparisonResult
	Drops        int
	AlertsSent   int
	AlertsFailed int
	Exported     bool
	Rotated      bool
}

// Pipeline sequences one run: extract every query, persist the snapshot,
// compare against the baseline, alert on drops, export, rotate.
type Pipeline struct {
	queries    []product.Query
	extractor  Extractor
	store      snapshot.Store
	detector   *compare.Detector
	dispatcher alert.Dispatcher
	sink       export.Sink
	logger     helpers.LoggerInterface
}

// NewPipeline creates a pipeline over the given collaborators
func NewPipeline(
	queries []product.Query,
	extractor Extractor,
	store snapshot.Store,
	detector *compare.Detector,
	dispatcher alert.Dispatcher,
	sink export.Sink,
	log helpers.LoggerInterface,
) *Pipeline {
	return &Pipeline{
		queries:    queries,
		extractor:  extractor,
		store:      store,
		detector:   detector,
		dispatcher: dispatcher,
		sink:       sink,
		logger:     log,
	}
}

// Run executes one complete run. The returned error is non-nil only for
// run-level fatal failures (snapshot store I/O, total source failure); in
// those cases rotation has not happened and the baseline is intact.
// Per-item failures, alert failures, and export failures are reported in the
// Report and logged, but do not fail the run.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	report := Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := logger.ForPipeline().WithField("run_id", report.RunID)

	previous, err := p.store.LoadPrevious(ctx)
	if err != nil {
		storeErr := perrors.NewStore("load baseline", err)
		p.logger.LogError("snapshot_store", storeErr)
		return report, storeErr
	}
	log.Info().Int("baseline_records", len(previous.Records)).Int("queries", len(p.queries)).Msg("Run started")

	// QUERY_LOOP: one query at a time; a bad listing never aborts the batch.
	var current product.Snapshot
	seen := make(map[string]bool)
	for _, query := range p.queries {
		if ctx.Err() != nil {
			return report, perrors.NewFatal("run aborted", ctx.Err())
		}

		records, err := p.extractor.Extract(ctx, query, time.Now())
		if err != nil {
			itemErr := perrors.NewExtraction(query.Identity, "query failed", err)
			p.logger.LogError(query.Identity, itemErr)
			report.Failed++
		} else {
			report.Processed++
		}

		for _, r := range records {
			if seen[r.Identity] {
				continue
			}
			seen[r.Identity] = true
			current.Records = append(current.Records, r)
		}
	}

	// Total source failure leaves nothing worth persisting; rotating would
	// replace the baseline with a snapshot of empty records.
	if len(p.queries) > 0 && report.Failed == len(p.queries) {
		fatal := perrors.NewFatal("all queries failed, source unreachable", nil)
		p.logger.LogError("pipeline", fatal)
		return report, fatal
	}

	// PERSIST
	if err := p.store.PersistCurrent(ctx, current); err != nil {
		storeErr := perrors.NewStore("persist current snapshot", err)
		p.logger.LogError("snapshot_store", storeErr)
		return report, storeErr
	}

	// COMPARE
	report.Results = p.detector.Compare(previous, current)
	drops := compare.Drops(report.Results)
	report.Drops = len(drops)
	log.Info().
		Int("records", len(current.Records)).
		Int("compared", len(report.Results)).
		Int("drops", report.Drops).
		Msg("Snapshot compared")

	// ALERT: one notification per dropped item; one failed dispatch never
	// blocks the others.
	for _, drop := range drops {
		if err := p.dispatcher.Send(ctx, alert.FormatDrop(drop)); err != nil {
			alertErr := perrors.NewAlert(drop.Identity, "dispatch failed", err)
			p.logger.LogError(drop.Identity, alertErr)
			report.AlertsFailed++
			continue
		}
		report.AlertsSent++
	}

	// EXPORT: failure is reported and blocks rotation, so the baseline stays
	// comparable until a run fully lands. A nil sink means export is not
	// configured and rotation proceeds.
	if p.sink != nil {
		if err := p.sink.Upload(ctx, current.Records); err != nil {
			exportErr := perrors.NewExport("upload snapshot", err)
			p.logger.LogError("export", exportErr)
			log.Warn().Msg("Export failed, keeping previous baseline")
			return report, nil
		}
		report.Exported = true
	}

	// ROTATE: last step, so an aborted run never loses the baseline.
	if err := p.store.Rotate(ctx); err != nil {
		storeErr := perrors.NewStore("rotate snapshot", err)
		p.logger.LogError("snapshot_store", storeErr)
		return report, storeErr
	}
	report.Rotated = true

	log.Info().
		Int("processed", report.Processed).
		Int("failed", report.Failed).
		Int("alerts_sent", report.AlertsSent).
		Msg("Run finished")
	return report, nil
}

// Summary renders a one-line human summary of the run
func (r Report) Summary() string {
	return fmt.Sprintf("run %s: %d processed, %d failed, %d drops, %d alerts sent, exported=%v, rotated=%v",
		r.RunID, r.Processed, r.Failed, r.Drops, r.AlertsSent, r.Exported, r.Rotated)
}
