package api

import (
	"github.com/talus-io/talus/internal/batches"
	"github.com/talus-io/talus/internal/records"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Batches batches.System
	Records records.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	batchSystem := batches.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	recordSystem := records.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Batches: batchSystem,
		Records: recordSystem,
	}
}
