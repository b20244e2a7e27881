package batches

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/talus-io/talus/pkg/pagination"
)

// System defines the public contract for batch domain operations. The
// HTTP surface uses Init/Upload/Confirm/Find/List; the worker pool uses
// Claim/Heartbeat/Complete/Fail/ReapStale/Download.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Batch], error)

	Find(ctx context.Context, id uuid.UUID) (*Batch, error)
	Init(ctx context.Context, cmd InitCommand) (*Batch, error)
	Upload(ctx context.Context, id uuid.UUID, reader io.Reader, contentType string) (*Batch, error)
	Confirm(ctx context.Context, id uuid.UUID) (*Batch, error)

	Claim(ctx context.Context, lease time.Duration) (*Batch, error)
	Heartbeat(ctx context.Context, id uuid.UUID, lease time.Duration) error
	Complete(ctx context.Context, id uuid.UUID, counters Counters) (*Batch, error)
	Fail(ctx context.Context, id uuid.UUID, message string) (*Batch, error)
	ReapStale(ctx context.Context) (int, error)
	Download(ctx context.Context, b *Batch) (io.ReadCloser, error)
}
