package records

import (
	"context"

	"github.com/google/uuid"

	"github.com/talus-io/talus/pkg/pagination"
)

// System defines the public contract for record domain operations.
// InsertMany is consumed by the ingestion pipeline; the rest back the HTTP
// surface.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Record], error)

	Find(ctx context.Context, id uuid.UUID) (*Record, error)
	Complete(ctx context.Context, id uuid.UUID, cmd CompleteCommand) (*Record, error)
	InsertMany(ctx context.Context, recs []Record) (InsertResult, error)
}
