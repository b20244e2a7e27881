// Package ingest drives claimed batches through the processing pipeline:
// download, decode, resolve, filter, classify, deduplicate, persist. It
// owns the worker pool that claims batches and the reaper that recovers
// abandoned leases.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talus-io/talus/internal/batches"
	"github.com/talus-io/talus/internal/columns"
	"github.com/talus-io/talus/internal/metrics"
	"github.com/talus-io/talus/internal/perimeter"
	"github.com/talus-io/talus/internal/records"
	"github.com/talus-io/talus/internal/tabular"
	"github.com/talus-io/talus/internal/waste"
	"github.com/talus-io/talus/pkg/textnorm"
)

// BatchStore is the slice of the batch system the pipeline needs: source
// file access, lease renewal, and terminal transitions.
type BatchStore interface {
	Download(ctx context.Context, b *batches.Batch) (io.ReadCloser, error)
	Heartbeat(ctx context.Context, id uuid.UUID, lease time.Duration) error
	Complete(ctx context.Context, id uuid.UUID, counters batches.Counters) (*batches.Batch, error)
	Fail(ctx context.Context, id uuid.UUID, message string) (*batches.Batch, error)
}

// RecordSink persists classified records with conflict-safe semantics.
type RecordSink interface {
	InsertMany(ctx context.Context, recs []records.Record) (records.InsertResult, error)
}

// Pipeline processes one claimed batch at a time. Rows are transformed
// strictly sequentially; the only blocking operations are the source file
// download and the chunked inserts.
type Pipeline struct {
	store  BatchStore
	sink   RecordSink
	logger *slog.Logger
	lease  time.Duration
}

// NewPipeline creates a Pipeline. lease is the claim duration renewed at
// phase boundaries while a batch is being processed.
func NewPipeline(store BatchStore, sink RecordSink, logger *slog.Logger, lease time.Duration) *Pipeline {
	return &Pipeline{
		store:  store,
		sink:   sink,
		logger: logger.With("system", "ingest"),
		lease:  lease,
	}
}

// Process runs a claimed batch to a terminal status. Row-level problems
// become counters; only a missing file, an unparseable structure, or a
// persistence failure is fatal. The fatal error message is captured on the
// batch verbatim.
func (p *Pipeline) Process(ctx context.Context, b *batches.Batch) (*batches.Batch, error) {
	started := time.Now()

	counters, err := p.run(ctx, b)
	if err != nil {
		p.logger.Error("batch processing failed", "id", b.ID, "error", err)
		metrics.BatchesProcessed.WithLabelValues(batches.StatusFailed).Inc()
		return p.store.Fail(ctx, b.ID, err.Error())
	}

	done, err := p.store.Complete(ctx, b.ID, counters)
	if err != nil {
		return nil, fmt.Errorf("complete batch %s: %w", b.ID, err)
	}

	metrics.BatchesProcessed.WithLabelValues(done.Status).Inc()
	metrics.BatchDuration.Observe(time.Since(started).Seconds())
	observeRows(counters)

	p.logger.Info("batch processed",
		"id", done.ID,
		"status", done.Status,
		"rows_in", counters.RowsIn,
		"rows_ok", counters.RowsOk,
		"duration", time.Since(started),
	)
	return done, nil
}

func (p *Pipeline) run(ctx context.Context, b *batches.Batch) (batches.Counters, error) {
	var counters batches.Counters

	reader, err := p.store.Download(ctx, b)
	if err != nil {
		return counters, fmt.Errorf("download source file: %w", err)
	}
	defer reader.Close()

	rows, err := tabular.Decode(reader, columns.KnownHeaders())
	if err != nil {
		return counters, fmt.Errorf("decode source file: %w", err)
	}
	p.heartbeat(ctx, b.ID)

	resolver := columns.NewResolver(rows, perimeter.Chapters())
	counters.RowsIn = len(rows)

	var classified, review []records.Record
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		rec, outcome := p.transform(resolver, b, row)
		switch outcome {
		case rowSkipped:
			counters.RowsSkipped++
		case rowWarn:
			counters.RowsWarn++
		case rowReview:
			if !seen[rec.DedupKey] {
				seen[rec.DedupKey] = true
				review = append(review, rec)
			}
		case rowClassified:
			if !seen[rec.DedupKey] {
				seen[rec.DedupKey] = true
				classified = append(classified, rec)
			}
		}
	}
	p.heartbeat(ctx, b.ID)

	inserted, err := p.sink.InsertMany(ctx, classified)
	if err != nil {
		return counters, fmt.Errorf("persist records: %w", err)
	}
	counters.RowsOk = inserted.Inserted
	counters.RowsErr = inserted.Failed
	p.heartbeat(ctx, b.ID)

	deferred, err := p.sink.InsertMany(ctx, review)
	if err != nil {
		return counters, fmt.Errorf("persist review records: %w", err)
	}
	counters.RowsReview = deferred.Inserted
	counters.RowsErr += deferred.Failed

	return counters, nil
}

type rowOutcome int

const (
	rowSkipped rowOutcome = iota
	rowWarn
	rowReview
	rowClassified
)

// transform runs one raw row through the gate, the perimeter filter, cell
// parsing, and classification. Pure except for the resolver's position map.
func (p *Pipeline) transform(resolver *columns.Resolver, b *batches.Batch, row tabular.Row) (records.Record, rowOutcome) {
	f := resolver.Fields(row)

	if !waste.IsWaste(f.Resource) {
		return records.Record{}, rowSkipped
	}
	if !perimeter.Passes(f) {
		return records.Record{}, rowSkipped
	}

	quantity, err := columns.ParseQuantity(f.Quantity)
	if err != nil {
		return records.Record{}, rowWarn
	}
	date, err := columns.ParseDate(f.Date)
	if err != nil {
		return records.Record{}, rowWarn
	}

	payload, err := json.Marshal(row)
	if err != nil {
		return records.Record{}, rowWarn
	}

	rec := records.Record{
		BatchID:       b.ID,
		Scope:         b.Scope,
		OperationDate: date,
		Resource:      f.Resource,
		Origin:        f.Origin,
		Destination:   f.Destination,
		Quantity:      quantity,
		Unit:          f.Unit,
		DedupKey:      records.DedupKey(date, f.Resource, f.Origin, f.Destination, quantity),
		Payload:       payload,
	}

	result := waste.Suggest(f.Resource, sourceFromOrigin(f.Origin))
	if result == nil {
		rec.Status = records.StatusReview
		rec.Category = waste.CategoryUndetermined
		rec.Tier = waste.TierNone
		return rec, rowReview
	}

	rec.Status = records.StatusClassified
	rec.Code = &result.Code
	rec.Label = result.Label
	rec.Category = result.Category
	rec.Hazardous = result.Hazardous
	rec.Tier = result.Tier
	return rec, rowClassified
}

func (p *Pipeline) heartbeat(ctx context.Context, id uuid.UUID) {
	if err := p.store.Heartbeat(ctx, id, p.lease); err != nil {
		p.logger.Warn("lease heartbeat failed", "id", id, "error", err)
	}
}

// sourceFromOrigin derives the declared correspondence source context from
// the origin label, when it names one of the known source kinds.
func sourceFromOrigin(origin string) waste.Source {
	norm := textnorm.Normalize(origin)
	switch {
	case strings.Contains(norm, "atelier"):
		return waste.SourceAtelier
	case strings.Contains(norm, "labo"):
		return waste.SourceLabo
	case strings.Contains(norm, "depot"):
		return waste.SourceDepot
	}
	return waste.SourceNone
}

func observeRows(c batches.Counters) {
	metrics.RowsProcessed.WithLabelValues("ok").Add(float64(c.RowsOk))
	metrics.RowsProcessed.WithLabelValues("warn").Add(float64(c.RowsWarn))
	metrics.RowsProcessed.WithLabelValues("err").Add(float64(c.RowsErr))
	metrics.RowsProcessed.WithLabelValues("skipped").Add(float64(c.RowsSkipped))
	metrics.RowsProcessed.WithLabelValues("review").Add(float64(c.RowsReview))
}
