package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-sendmoney/pkg/validation"
)

var (
	// ErrPrecondition marks calls made in a state that does not allow them.
	// These indicate a caller bug rather than bad user input.
	ErrPrecondition = errors.New("session: precondition violated")

	ErrNoCatalog     = fmt.Errorf("%w: no catalog loaded", ErrPrecondition)
	ErrNoService     = fmt.Errorf("%w: no service selected", ErrPrecondition)
	ErrNoProvider    = fmt.Errorf("%w: no provider selected", ErrPrecondition)
	ErrSessionClosed = fmt.Errorf("%w: session already submitted", ErrPrecondition)

	// ErrNoTransactionLog is returned by Submit when no Appender is configured.
	ErrNoTransactionLog = errors.New("session: transaction log not configured")
)

// FieldFailure describes why one field failed validation.
type FieldFailure struct {
	// Key is the field name, or a positional key for unnamed fields.
	Key     string            `json:"key"`
	Index   int               `json:"index"`
	Reason  validation.Reason `json:"reason"`
	Message string            `json:"message"`
}

// ValidationError lists every failing field in declaration order.
type ValidationError struct {
	Failures []FieldFailure
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Failures) == 0 {
		return "session: validation failed"
	}
	parts := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %s", failure.Key, failure.Reason))
	}
	return "session: validation failed (" + strings.Join(parts, ", ") + ")"
}

// ByKey indexes the failures by field key.
func (e *ValidationError) ByKey() map[string]FieldFailure {
	out := make(map[string]FieldFailure, len(e.Failures))
	for _, failure := range e.Failures {
		out[failure.Key] = failure
	}
	return out
}
