package batches

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/talus-io/talus/pkg/pagination"
	"github.com/talus-io/talus/pkg/query"
	"github.com/talus-io/talus/pkg/repository"
	"github.com/talus-io/talus/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a batch repository implementing the System interface.
func New(
	db *sql.DB,
	storage storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    storage,
		logger:     logger.With("system", "batches"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Batch], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "FileName", "Scope")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count batches: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanBatch)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Batch, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	b, err := repository.QueryOne(ctx, r.db, q, args, scanBatch)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &b, nil
}

// Init opens a batch in uploading status, allocating its object-store key.
func (r *repo) Init(ctx context.Context, cmd InitCommand) (*Batch, error) {
	if cmd.Scope == "" || cmd.FileName == "" {
		return nil, ErrInvalidInit
	}

	id := uuid.New()
	sourceFile := fmt.Sprintf("%s/%s", cmd.Scope, id)

	initQ := `
		INSERT INTO batches (id, scope, status, source_file, file_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + returningColumns

	b, err := repository.QueryOne(ctx, r.db, initQ,
		[]any{id, cmd.Scope, StatusUploading, sourceFile, cmd.FileName},
		scanBatch,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("batch initialized",
		"id", b.ID,
		"scope", b.Scope,
		"file_name", b.FileName,
	)
	return &b, nil
}

// Upload streams the source file to the object store under the batch's
// allocated key, then confirms the batch.
func (r *repo) Upload(ctx context.Context, id uuid.UUID, reader io.Reader, contentType string) (*Batch, error) {
	b, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusUploading {
		return nil, ErrInvalidStatus
	}

	if err := r.storage.Upload(ctx, b.SourceFile, reader, contentType); err != nil {
		return nil, fmt.Errorf("upload batch file: %w", err)
	}

	return r.Confirm(ctx, id)
}

// Confirm flips an uploading batch to pending, making it visible to worker
// claims.
func (r *repo) Confirm(ctx context.Context, id uuid.UUID) (*Batch, error) {
	confirmQ := `
		UPDATE batches
		SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING ` + returningColumns

	b, err := repository.QueryOne(ctx, r.db, confirmQ,
		[]any{StatusPending, id, StatusUploading},
		scanBatch,
	)
	if err != nil {
		if mapped := repository.MapError(err, ErrNotFound, ErrDuplicate); mapped == ErrNotFound {
			if _, findErr := r.Find(ctx, id); findErr == nil {
				return nil, ErrInvalidStatus
			}
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("batch confirmed", "id", b.ID)
	return &b, nil
}

// Claim atomically takes ownership of the oldest pending batch, moving it to
// processing with a lease. SKIP LOCKED keeps concurrent workers from ever
// holding the same batch. Returns (nil, nil) when nothing is pending.
func (r *repo) Claim(ctx context.Context, lease time.Duration) (*Batch, error) {
	claimQ := `
		UPDATE batches
		SET status = $1,
			started_at = NOW(),
			lease_expires_at = NOW() + $2::interval,
			error_message = NULL
		WHERE id = (
			SELECT id FROM batches
			WHERE status = $3
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + returningColumns

	b, err := repository.QueryOne(ctx, r.db, claimQ,
		[]any{StatusProcessing, lease.String(), StatusPending},
		scanBatch,
	)
	if err != nil {
		if repository.MapError(err, ErrNotFound, ErrDuplicate) == ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("claim batch: %w", err)
	}

	r.logger.Info("batch claimed", "id", b.ID, "lease", lease)
	return &b, nil
}

// Heartbeat extends the lease of a batch the caller is still processing.
func (r *repo) Heartbeat(ctx context.Context, id uuid.UUID, lease time.Duration) error {
	err := repository.ExecExpectOne(ctx, r.db, `
		UPDATE batches
		SET lease_expires_at = NOW() + $1::interval
		WHERE id = $2 AND status = $3`,
		lease.String(), id, StatusProcessing,
	)
	if err != nil {
		return repository.MapError(err, ErrInvalidStatus, ErrDuplicate)
	}
	return nil
}

// Complete moves a processing batch to its successful terminal status,
// recording counters and the finish timestamp.
func (r *repo) Complete(ctx context.Context, id uuid.UUID, counters Counters) (*Batch, error) {
	status := StatusCompleted
	if counters.HasWarnings() {
		status = StatusCompletedWithWarnings
	}

	completeQ := `
		UPDATE batches
		SET status = $1,
			rows_in = $2, rows_ok = $3, rows_warn = $4, rows_err = $5,
			rows_skipped = $6, rows_review = $7,
			lease_expires_at = NULL,
			finished_at = NOW()
		WHERE id = $8 AND status = $9
		RETURNING ` + returningColumns

	b, err := repository.QueryOne(ctx, r.db, completeQ,
		[]any{
			status,
			counters.RowsIn, counters.RowsOk, counters.RowsWarn, counters.RowsErr,
			counters.RowsSkipped, counters.RowsReview,
			id, StatusProcessing,
		},
		scanBatch,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrInvalidStatus, ErrDuplicate)
	}

	r.logger.Info("batch completed",
		"id", b.ID,
		"status", b.Status,
		"rows_in", b.RowsIn,
		"rows_ok", b.RowsOk,
		"rows_warn", b.RowsWarn,
		"rows_err", b.RowsErr,
		"rows_skipped", b.RowsSkipped,
		"rows_review", b.RowsReview,
	)
	return &b, nil
}

// Fail moves a processing batch to failed, capturing the error message
// verbatim.
func (r *repo) Fail(ctx context.Context, id uuid.UUID, message string) (*Batch, error) {
	failQ := `
		UPDATE batches
		SET status = $1,
			error_message = $2,
			lease_expires_at = NULL,
			finished_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING ` + returningColumns

	b, err := repository.QueryOne(ctx, r.db, failQ,
		[]any{StatusFailed, message, id, StatusProcessing},
		scanBatch,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrInvalidStatus, ErrDuplicate)
	}

	r.logger.Error("batch failed", "id", b.ID, "error_message", message)
	return &b, nil
}

// ReapStale reverts processing batches whose lease expired back to pending
// so another worker can retry them. Reprocessing is safe: persistence keys
// on the dedup hash, so redelivered rows are no-op conflicts.
func (r *repo) ReapStale(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE batches
		SET status = $1,
			lease_expires_at = NULL,
			started_at = NULL
		WHERE status = $2 AND lease_expires_at < NOW()`,
		StatusPending, StatusProcessing,
	)
	if err != nil {
		return 0, fmt.Errorf("reap stale batches: %w", err)
	}

	reaped, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count reaped batches: %w", err)
	}

	if reaped > 0 {
		r.logger.Warn("stale batches reaped", "count", reaped)
	}
	return int(reaped), nil
}

// Download opens the batch's source file from the object store. The caller
// must close the reader.
func (r *repo) Download(ctx context.Context, b *Batch) (io.ReadCloser, error) {
	return r.storage.Download(ctx, b.SourceFile)
}
