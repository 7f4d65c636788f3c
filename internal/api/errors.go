package api

import (
	"errors"
	"fmt"
)

// ErrUnavailable indicates the platform API is unreachable.
var ErrUnavailable = errors.New("platform API unavailable")

// ErrNotFound indicates the requested course or lesson does not exist.
var ErrNotFound = errors.New("not found")

// ErrRejected indicates the API answered but reported success=false.
var ErrRejected = errors.New("request rejected by platform")

// StatusError carries a non-2xx HTTP status from the platform.
type StatusError struct {
	Operation string
	Status    int
	Body      string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: platform returned %d", e.Operation, e.Status)
}

// ContentInvalidError indicates a lesson's interactive content document
// failed schema validation. Scoped to one lesson; navigation elsewhere
// remains possible.
type ContentInvalidError struct {
	ContentID string
	Err       error
}

func (e *ContentInvalidError) Error() string {
	return fmt.Sprintf("lesson %s carries invalid content: %v", e.ContentID, e.Err)
}

func (e *ContentInvalidError) Unwrap() error { return e.Err }
