// Package batches implements the batch domain: one uploaded source file's
// unit of asynchronous processing, with its durable status lifecycle,
// per-batch counters, and the claim/lease mechanics the worker pool relies
// on.
package batches

import (
	"time"

	"github.com/google/uuid"
)

// Batch statuses. Terminal statuses are completed, completed_with_warnings,
// and failed; everything else is in flight.
const (
	StatusPending               = "pending"
	StatusUploading             = "uploading"
	StatusProcessing            = "processing"
	StatusCompleted             = "completed"
	StatusCompletedWithWarnings = "completed_with_warnings"
	StatusFailed                = "failed"
)

// transitions is the authoritative edge list of the batch state machine.
// processing -> pending is the lease-expiry reap path.
var transitions = map[string][]string{
	StatusPending:    {StatusUploading, StatusProcessing},
	StatusUploading:  {StatusPending},
	StatusProcessing: {StatusCompleted, StatusCompletedWithWarnings, StatusFailed, StatusPending},
}

// CanTransition reports whether the state machine permits moving a batch
// from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(status string) bool {
	return len(transitions[status]) == 0 &&
		(status == StatusCompleted || status == StatusCompletedWithWarnings || status == StatusFailed)
}

// Batch represents one uploaded file moving through ingestion. It mirrors
// the batches table schema. SourceFile is the object-store key holding the
// uploaded bytes; LeaseExpiresAt is set while a worker holds the claim.
type Batch struct {
	ID             uuid.UUID  `json:"id"`
	Scope          string     `json:"scope"`
	Status         string     `json:"status"`
	SourceFile     string     `json:"source_file"`
	FileName       string     `json:"file_name"`
	RowsIn         int        `json:"rows_in"`
	RowsOk         int        `json:"rows_ok"`
	RowsWarn       int        `json:"rows_warn"`
	RowsErr        int        `json:"rows_err"`
	RowsSkipped    int        `json:"rows_skipped"`
	RowsReview     int        `json:"rows_review"`
	ErrorMessage   *string    `json:"error_message"`
	LeaseExpiresAt *time.Time `json:"lease_expires_at"`
	StartedAt      *time.Time `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// InitCommand carries the data needed to open a new batch before its file
// is uploaded.
type InitCommand struct {
	Scope    string `json:"scope"`
	FileName string `json:"file_name"`
}

// Counters aggregates the per-row outcomes of one processing run.
// Skipped rows fell outside the perimeter or were not waste; warn rows had
// unparseable cells; review rows were detected as waste but left for manual
// completion.
type Counters struct {
	RowsIn      int
	RowsOk      int
	RowsWarn    int
	RowsErr     int
	RowsSkipped int
	RowsReview  int
}

// HasWarnings reports whether the run should terminate as
// completed_with_warnings rather than completed.
func (c Counters) HasWarnings() bool {
	return c.RowsWarn > 0 || c.RowsErr > 0
}
