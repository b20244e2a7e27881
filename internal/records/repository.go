package records

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/talus-io/talus/internal/waste"
	"github.com/talus-io/talus/pkg/pagination"
	"github.com/talus-io/talus/pkg/query"
	"github.com/talus-io/talus/pkg/repository"
)

// insertChunkSize bounds one bulk insert statement, providing natural
// backpressure against the sink.
const insertChunkSize = 500

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a record repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "records"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Resource", "Origin", "Destination", "Code")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

// Complete applies a manually assigned code to a review record, flipping it
// to classified. The asterisk hazard convention is parsed here at the
// boundary; the raw marker never reaches storage.
func (r *repo) Complete(ctx context.Context, id uuid.UUID, cmd CompleteCommand) (*Record, error) {
	code, hazardous, ok := waste.ParseCode(cmd.Code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCode, cmd.Code)
	}

	label := ""
	category := waste.CategoryUndetermined
	if entry, found := waste.LookupCode(code); found {
		label = entry.Label
		category = entry.Category
		hazardous = hazardous || entry.Hazardous
	}

	completeQ := `
		UPDATE waste_records
		SET status = $1, code = $2, label = $3, category = $4, hazardous = $5, tier = $6
		WHERE id = $7 AND status = $8
		RETURNING id, batch_id, scope, status, operation_date, resource, origin,
				  destination, quantity, unit, code, label, category, hazardous,
				  tier, dedup_key, payload, created_at`

	rec, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Record, error) {
		return repository.QueryOne(ctx, tx, completeQ,
			[]any{StatusClassified, code, label, string(category), hazardous, string(waste.TierExplicit), id, StatusReview},
			scanRecord,
		)
	})

	if err != nil {
		if mapped := repository.MapError(err, ErrNotFound, ErrDuplicate); mapped == ErrNotFound {
			// The record may exist but already be classified.
			if _, findErr := r.Find(ctx, id); findErr == nil {
				return nil, ErrNotReviewing
			}
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("record completed",
		"id", rec.ID,
		"code", code,
		"hazardous", hazardous,
	)
	return &rec, nil
}

// InsertMany persists classified records in fixed-size chunks with a
// conflict-safe insert keyed on (scope, dedup_key). A chunk that errors is
// retried row-by-row so one bad row does not sacrifice the rest. Dedup
// conflicts are silent no-ops and appear in neither count.
func (r *repo) InsertMany(ctx context.Context, recs []Record) (InsertResult, error) {
	var result InsertResult

	for chunk := range slices.Chunk(recs, insertChunkSize) {
		inserted, err := r.insertChunk(ctx, chunk)
		if err == nil {
			result.Inserted += inserted
			continue
		}
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		r.logger.Warn("chunk insert failed, retrying row-by-row",
			"rows", len(chunk),
			"error", err,
		)
		for _, rec := range chunk {
			inserted, rowErr := r.insertChunk(ctx, []Record{rec})
			if rowErr != nil {
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				result.Failed++
				r.logger.Warn("row insert failed",
					"dedup_key", rec.DedupKey,
					"error", rowErr,
				)
				continue
			}
			result.Inserted += inserted
		}
	}
	return result, nil
}

var insertColumns = []string{
	"batch_id", "scope", "status", "operation_date", "resource", "origin",
	"destination", "quantity", "unit", "code", "label", "category",
	"hazardous", "tier", "dedup_key", "payload",
}

func (r *repo) insertChunk(ctx context.Context, chunk []Record) (int, error) {
	values := make([]string, 0, len(chunk))
	args := make([]any, 0, len(chunk)*len(insertColumns))

	for i, rec := range chunk {
		placeholders := make([]string, len(insertColumns))
		for j := range insertColumns {
			placeholders[j] = fmt.Sprintf("$%d", i*len(insertColumns)+j+1)
		}
		values = append(values, "("+strings.Join(placeholders, ", ")+")")
		args = append(args,
			rec.BatchID, rec.Scope, rec.Status, rec.OperationDate, rec.Resource,
			rec.Origin, rec.Destination, rec.Quantity, rec.Unit, rec.Code,
			rec.Label, string(rec.Category), rec.Hazardous, string(rec.Tier),
			rec.DedupKey, []byte(rec.Payload),
		)
	}

	insertQ := fmt.Sprintf(`
		INSERT INTO waste_records (%s)
		VALUES %s
		ON CONFLICT (scope, dedup_key) DO NOTHING`,
		strings.Join(insertColumns, ", "),
		strings.Join(values, ", "),
	)

	res, err := r.db.ExecContext(ctx, insertQ, args...)
	if err != nil {
		return 0, fmt.Errorf("insert records: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count inserted records: %w", err)
	}
	return int(affected), nil
}
