package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound            = errors.New("resource not found")
	ErrStudyNotFound       = fmt.Errorf("%w: study", ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("%w: participant", ErrNotFound)
	ErrCardNotFound        = fmt.Errorf("%w: card", ErrNotFound)

	// Analysis errors. The analytics components resolve these internally by
	// returning empty results; they surface only at the ingestion and
	// orchestration boundary.
	ErrInsufficientData    = errors.New("insufficient data for analysis")
	ErrDegenerateStatistic = errors.New("degenerate statistic")
	ErrMalformedInput      = errors.New("malformed input record")
	ErrNonUltrametric      = errors.New("merge distances decrease toward the root")
	ErrUnknownLinkage      = errors.New("unknown linkage rule")
	ErrUnknownMethod       = errors.New("unknown research method")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewMalformedInputError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedInput, field, reason)
}

func NewInsufficientDataError(what string, have, need int) error {
	return fmt.Errorf("%w: %s: have %d, need %d", ErrInsufficientData, what, have, need)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsMalformedInputError(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}
