package records

import (
	"errors"
	"net/http"
)

// Domain errors for record operations.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("record already exists")
	ErrInvalidCode  = errors.New("invalid waste code")
	ErrNotReviewing = errors.New("record is not awaiting completion")
)

// MapHTTPStatus maps record domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidCode) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotReviewing) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
