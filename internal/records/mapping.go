package records

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/talus-io/talus/pkg/query"
	"github.com/talus-io/talus/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "waste_records", "r").
	Project("id", "ID").
	Project("batch_id", "BatchID").
	Project("scope", "Scope").
	Project("status", "Status").
	Project("operation_date", "OperationDate").
	Project("resource", "Resource").
	Project("origin", "Origin").
	Project("destination", "Destination").
	Project("quantity", "Quantity").
	Project("unit", "Unit").
	Project("code", "Code").
	Project("label", "Label").
	Project("category", "Category").
	Project("hazardous", "Hazardous").
	Project("tier", "Tier").
	Project("dedup_key", "DedupKey").
	Project("payload", "Payload").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "OperationDate",
	Descending: true,
}

// Filters contains optional filtering criteria for record queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	BatchID   *uuid.UUID `json:"batch_id,omitempty"`
	Scope     *string    `json:"scope,omitempty"`
	Status    *string    `json:"status,omitempty"`
	Code      *string    `json:"code,omitempty"`
	Hazardous *bool      `json:"hazardous,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("BatchID", f.BatchID).
		WhereEquals("Scope", f.Scope).
		WhereEquals("Status", f.Status).
		WhereEquals("Code", f.Code).
		WhereEquals("Hazardous", f.Hazardous)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if b := values.Get("batch_id"); b != "" {
		if id, err := uuid.Parse(b); err == nil {
			f.BatchID = &id
		}
	}

	if s := values.Get("scope"); s != "" {
		f.Scope = &s
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if c := values.Get("code"); c != "" {
		f.Code = &c
	}

	if h := values.Get("hazardous"); h != "" {
		if v, err := strconv.ParseBool(h); err == nil {
			f.Hazardous = &v
		}
	}

	return f
}

func scanRecord(s repository.Scanner) (Record, error) {
	var rec Record
	var payload []byte

	err := s.Scan(
		&rec.ID,
		&rec.BatchID,
		&rec.Scope,
		&rec.Status,
		&rec.OperationDate,
		&rec.Resource,
		&rec.Origin,
		&rec.Destination,
		&rec.Quantity,
		&rec.Unit,
		&rec.Code,
		&rec.Label,
		&rec.Category,
		&rec.Hazardous,
		&rec.Tier,
		&rec.DedupKey,
		&payload,
		&rec.CreatedAt,
	)

	if err != nil {
		return rec, err
	}

	rec.Payload = payload
	return rec, nil
}
