// Package records implements the classified-record domain: the persisted
// output of the ingestion pipeline. It provides types, data access with
// conflict-safe bulk insertion, and the manual-completion operation for rows
// the classifier could not resolve.
package records

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/talus-io/talus/internal/waste"
)

// Record statuses. A record is classified when a code is attached, review
// when the pipeline detected a waste stream but no classifier tier produced
// a code and a human must complete it.
const (
	StatusClassified = "classified"
	StatusReview     = "review"
)

// Record represents one persisted waste movement. It mirrors the
// waste_records table schema; Payload keeps the raw decoded source row for
// audit and debugging.
type Record struct {
	ID            uuid.UUID       `json:"id"`
	BatchID       uuid.UUID       `json:"batch_id"`
	Scope         string          `json:"scope"`
	Status        string          `json:"status"`
	OperationDate time.Time       `json:"operation_date"`
	Resource      string          `json:"resource"`
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	Quantity      float64         `json:"quantity"`
	Unit          string          `json:"unit"`
	Code          *string         `json:"code"`
	Label         string          `json:"label"`
	Category      waste.Category  `json:"category"`
	Hazardous     bool            `json:"hazardous"`
	Tier          waste.Tier      `json:"tier"`
	DedupKey      string          `json:"dedup_key"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CompleteCommand carries the manually assigned code for a review record.
// The code follows the written convention: six digits with optional spacing
// and a trailing asterisk marking hazard.
type CompleteCommand struct {
	Code string `json:"code"`
}

// InsertResult summarizes one bulk insertion: rows newly persisted and rows
// that individually failed during the row-by-row fallback. Rows absent from
// both counts were dedup conflicts, already present in the sink.
type InsertResult struct {
	Inserted int
	Failed   int
}
