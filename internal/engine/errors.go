package engine

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"span-mapper/internal/cas"
	"span-mapper/internal/mapping"
)

// ErrAttributeMismatch is matched (errors.Is) by every AttributeMismatchError.
var ErrAttributeMismatch = errors.New("attribute mismatch")

// AttributeMismatchError reports a span that cannot receive the target
// feature in update mode. Only that span is skipped.
type AttributeMismatchError struct {
	// Target is the configured target path spec.
	Target string
	// Type is the qualified type name of the offending span.
	Type string
	// Begin and End are the offending span's offsets.
	Begin, End int
	// Reason explains the mismatch.
	Reason string
}

func (e *AttributeMismatchError) Error() string {
	return fmt.Sprintf("cannot set %q on %s[%d,%d): %s", e.Target, e.Type, e.Begin, e.End, e.Reason)
}

// Is makes errors.Is(err, ErrAttributeMismatch) hold.
func (e *AttributeMismatchError) Is(target error) bool {
	return target == ErrAttributeMismatch
}

func mismatch(span *cas.Span, target mapping.PathSpec, reason string) *AttributeMismatchError {
	return &AttributeMismatchError{
		Target: target.Spec,
		Type:   span.Type().ID.String(),
		Begin:  span.Begin(),
		End:    span.End(),
		Reason: reason,
	}
}
