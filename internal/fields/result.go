package fields

import (
	"fmt"
	"strings"

	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
)

// Outcome classifies the validation of one block.
type Outcome int

const (
	Valid Outcome = iota
	MissingRequired
	InvalidValue
	// Skipped marks blocks the registry cannot handle. They never block a
	// submission and never reach the issue body.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Valid:
		return "valid"
	case MissingRequired:
		return "missing required"
	case InvalidValue:
		return "invalid value"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// ReasonUnsupported is the reason of every Skipped result.
const ReasonUnsupported = "unsupported type"

type Result struct {
	Outcome Outcome
	FieldID string
	Label   string
	Reason  string
}

func valid(id, label string) Result {
	return Result{Outcome: Valid, FieldID: id, Label: label}
}

// Failed reports whether the result blocks submission.
func (r Result) Failed() bool {
	return r.Outcome == MissingRequired || r.Outcome == InvalidValue
}

// Err returns the result as a *FieldError, or nil when it does not block
// submission.
func (r Result) Err() error {
	if !r.Failed() {
		return nil
	}
	return &FieldError{FieldID: r.FieldID, Label: r.Label, Outcome: r.Outcome, Reason: r.Reason}
}

// FieldError is a validation failure of a single field.
type FieldError struct {
	FieldID string
	Label   string
	Outcome Outcome
	Reason  string
}

func (e *FieldError) Error() string {
	name := e.Label
	if name == "" {
		name = e.FieldID
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", name, e.Reason)
	}
	return fmt.Sprintf("%s: %s", name, e.Outcome)
}

// ValidationErrors collects every failing field of a form, in form order.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d field(s) failed validation: %s", len(v), strings.Join(msgs, "; "))
}

// Unwrap lets callers match the list with errors.Is(err, ErrRequiredFieldsMissing).
func (v ValidationErrors) Unwrap() error {
	return domainErrors.ErrRequiredFieldsMissing
}

// FieldIDs returns the ids of the failing fields.
func (v ValidationErrors) FieldIDs() []string {
	ids := make([]string, len(v))
	for i, e := range v {
		ids[i] = e.FieldID
	}
	return ids
}
