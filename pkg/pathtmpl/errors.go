package pathtmpl

import (
	"errors"
	"fmt"
	"strings"
)

// Template compilation errors.
var (
	// ErrPatternSyntax is returned when a pattern cannot be compiled.
	ErrPatternSyntax = errors.New("pathtmpl: invalid pattern")

	// ErrEmptyParamName is returned when a parameter marker has no name.
	ErrEmptyParamName = errors.New("pathtmpl: empty parameter name")

	// ErrDuplicateParam is returned when a parameter name appears twice
	// in the same pattern.
	ErrDuplicateParam = errors.New("pathtmpl: duplicate parameter name")

	// ErrSplatNotLast is returned when a splat parameter is followed by
	// another parameter. A splat may only be bounded by literals.
	ErrSplatNotLast = errors.New("pathtmpl: splat parameter may only be followed by literals")
)

// MissingParamsError reports the required parameters absent from a Build
// call. It lists every missing key, not just the first.
type MissingParamsError struct {
	// Pattern is the raw pattern the build was attempted against.
	Pattern string

	// Params are the names of the missing required parameters.
	Params []string
}

// Error returns the missing parameter names joined for display.
func (e *MissingParamsError) Error() string {
	return fmt.Sprintf("pathtmpl: cannot build %q, missing parameters: %s",
		e.Pattern, strings.Join(e.Params, ", "))
}
