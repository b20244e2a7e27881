package batches

import (
	"errors"
	"net/http"
)

// Domain errors for batch operations.
var (
	ErrNotFound      = errors.New("batch not found")
	ErrDuplicate     = errors.New("batch already exists")
	ErrInvalidStatus = errors.New("batch is not in the required status")
	ErrInvalidInit   = errors.New("scope and file name are required")
)

// MapHTTPStatus maps batch domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidStatus) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidInit) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
