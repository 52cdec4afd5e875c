package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies the domain error category so handlers can map errors to
// HTTP statuses without string matching.
type Kind string

const (
	KindNotFound              Kind = "not_found"
	KindForbidden             Kind = "forbidden"
	KindInvalidTransition     Kind = "invalid_transition"
	KindInvalidStateForUpdate Kind = "invalid_state_for_update"
	KindInvalidStateForDelete Kind = "invalid_state_for_delete"
	KindInvalidState          Kind = "invalid_state"
	KindInvalidOwnership      Kind = "invalid_ownership"
	KindInvalidDateRange      Kind = "invalid_date_range"
	KindDuplicateReview       Kind = "duplicate_review"
	KindSitterMismatch        Kind = "sitter_mismatch"
	KindAggregateConflict     Kind = "aggregate_conflict"
	KindUnauthorized          Kind = "unauthorized"
	KindBadRequest            Kind = "bad_request"
	KindInternal              Kind = "internal"
)

// Failure is a wrapper for domain error kinds and human-readable messages.
type Failure struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (f *Failure) Error() string {
	return f.Message
}

func New(kind Kind, format string, args ...interface{}) error {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity string) error {
	return &Failure{Kind: KindNotFound, Message: entity + " not found"}
}

func Forbidden(msg string) error {
	return &Failure{Kind: KindForbidden, Message: msg}
}

func InvalidTransition(from, to string) error {
	return &Failure{Kind: KindInvalidTransition, Message: fmt.Sprintf("invalid status transition from %s to %s", from, to)}
}

func InvalidStateForUpdate(msg string) error {
	return &Failure{Kind: KindInvalidStateForUpdate, Message: msg}
}

func InvalidStateForDelete(msg string) error {
	return &Failure{Kind: KindInvalidStateForDelete, Message: msg}
}

func InvalidState(msg string) error {
	return &Failure{Kind: KindInvalidState, Message: msg}
}

func InvalidOwnership(msg string) error {
	return &Failure{Kind: KindInvalidOwnership, Message: msg}
}

func InvalidDateRange(msg string) error {
	return &Failure{Kind: KindInvalidDateRange, Message: msg}
}

func DuplicateReview(bookingID string) error {
	return &Failure{Kind: KindDuplicateReview, Message: "review already exists for booking " + bookingID}
}

func SitterMismatch(msg string) error {
	return &Failure{Kind: KindSitterMismatch, Message: msg}
}

func AggregateConflict(sitterID string) error {
	return &Failure{Kind: KindAggregateConflict, Message: "concurrent rating update for sitter " + sitterID}
}

func Unauthorized(msg string) error {
	return &Failure{Kind: KindUnauthorized, Message: msg}
}

func BadRequest(msg string) error {
	return &Failure{Kind: KindBadRequest, Message: msg}
}

// Internal wraps an unexpected storage or infrastructure error. The cause is
// kept in the message so it still surfaces in logs.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	return &Failure{Kind: KindInternal, Message: err.Error()}
}

// GetKind returns the error kind of an error interface.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// GetStatus maps an error to a standard HTTP response code.
func GetStatus(err error) int {
	switch GetKind(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindDuplicateReview, KindAggregateConflict:
		return http.StatusConflict
	case KindInvalidTransition, KindInvalidStateForUpdate, KindInvalidStateForDelete,
		KindInvalidState, KindInvalidOwnership, KindInvalidDateRange,
		KindSitterMismatch, KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
