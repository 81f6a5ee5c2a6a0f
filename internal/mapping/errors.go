package mapping

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrSchemaResolution is matched (errors.Is) by every SchemaResolutionError.
var ErrSchemaResolution = errors.New("schema resolution failed")

// SchemaResolutionError reports a path spec that cannot be parsed or does not
// resolve against the type system. It is fatal for the current document.
type SchemaResolutionError struct {
	// Spec is the offending path spec string, as configured.
	Spec string
	// Cause explains the failure.
	Cause error
	// Suggestions lists known names resembling the unresolved one.
	Suggestions []string
}

func (e *SchemaResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve path spec %q: %v", e.Spec, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *SchemaResolutionError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrSchemaResolution) hold.
func (e *SchemaResolutionError) Is(target error) bool {
	return target == ErrSchemaResolution
}

func resolutionError(spec string, cause error) *SchemaResolutionError {
	return &SchemaResolutionError{Spec: spec, Cause: cause}
}
