package batches

import (
	"net/url"

	"github.com/talus-io/talus/pkg/query"
	"github.com/talus-io/talus/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "batches", "b").
	Project("id", "ID").
	Project("scope", "Scope").
	Project("status", "Status").
	Project("source_file", "SourceFile").
	Project("file_name", "FileName").
	Project("rows_in", "RowsIn").
	Project("rows_ok", "RowsOk").
	Project("rows_warn", "RowsWarn").
	Project("rows_err", "RowsErr").
	Project("rows_skipped", "RowsSkipped").
	Project("rows_review", "RowsReview").
	Project("error_message", "ErrorMessage").
	Project("lease_expires_at", "LeaseExpiresAt").
	Project("started_at", "StartedAt").
	Project("finished_at", "FinishedAt").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// returningColumns lists the full column set for INSERT/UPDATE RETURNING
// clauses, matching scanBatch field order.
const returningColumns = `id, scope, status, source_file, file_name,
		rows_in, rows_ok, rows_warn, rows_err, rows_skipped, rows_review,
		error_message, lease_expires_at, started_at, finished_at, created_at`

// Filters contains optional filtering criteria for batch queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Scope  *string `json:"scope,omitempty"`
	Status *string `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Scope", f.Scope).
		WhereEquals("Status", f.Status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("scope"); s != "" {
		f.Scope = &s
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	return f
}

func scanBatch(s repository.Scanner) (Batch, error) {
	var b Batch

	err := s.Scan(
		&b.ID,
		&b.Scope,
		&b.Status,
		&b.SourceFile,
		&b.FileName,
		&b.RowsIn,
		&b.RowsOk,
		&b.RowsWarn,
		&b.RowsErr,
		&b.RowsSkipped,
		&b.RowsReview,
		&b.ErrorMessage,
		&b.LeaseExpiresAt,
		&b.StartedAt,
		&b.FinishedAt,
		&b.CreatedAt,
	)

	return b, err
}
