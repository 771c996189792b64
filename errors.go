package yup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yogeshdas-v/yup/internal/printer"
)

// ErrAsyncTestInSync reports that ValidateSync met a test providing only an
// asynchronous implementation. This is a usage error, not a validation
// failure: IsValidSync re-raises it instead of returning false.
var ErrAsyncTestInSync = errors.New("yup: asynchronous test reached via ValidateSync; use Validate instead")

// ValidationError is a single validation entry, or an aggregate of several
// when collect-all mode is active (Inner holds the flattened entries in
// test-registration order).
type ValidationError struct {
	Value   any            // value under validation
	Path    string         // dotted path of the failing field ("" for the root)
	Type    string         // rule name that produced the failure
	Message string         // rendered message
	Params  map[string]any // structured parameters used by the template
	Inner   []*ValidationError
}

// Error summarizes the first few entries.
func (e *ValidationError) Error() string {
	if len(e.Inner) == 0 {
		return e.Message
	}
	const maxShown = 3
	b := &strings.Builder{}
	fmt.Fprintf(b, "%d errors occurred: ", len(e.Inner))
	lim := len(e.Inner)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Inner[i].Message)
	}
	if len(e.Inner) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(e.Inner))
	}
	return b.String()
}

// Errors returns every entry message, flattening aggregates.
func (e *ValidationError) Errors() []string {
	if len(e.Inner) == 0 {
		return []string{e.Message}
	}
	out := make([]string, 0, len(e.Inner))
	for _, in := range e.Inner {
		out = append(out, in.Errors()...)
	}
	return out
}

// AsValidationError extracts a *ValidationError using errors.As internally.
func AsValidationError(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// aggregateErrors folds failures into one error honoring the abort-early
// policy: a single failure passes through, several become an aggregate with
// flattened Inner entries.
func aggregateErrors(errs []*ValidationError, value any, path string) *ValidationError {
	if len(errs) == 1 && len(errs[0].Inner) == 0 {
		return errs[0]
	}
	var inner []*ValidationError
	for _, e := range errs {
		if len(e.Inner) > 0 {
			inner = append(inner, e.Inner...)
		} else {
			inner = append(inner, e)
		}
	}
	ve := &ValidationError{Value: value, Path: path, Type: "aggregate", Inner: inner}
	ve.Message = fmt.Sprintf("%d validation errors for %s", len(inner), displayPath(path))
	return ve
}

func displayPath(path string) string {
	if path == "" {
		return "value"
	}
	return path
}

// CastError reports a coercion contract violation: the value produced by the
// cast pipeline did not satisfy the schema's type check. It is fatal and is
// never aggregated with validation failures.
type CastError struct {
	Path   string
	Type   string // declared type name of the schema
	Value  any    // raw input value
	Result any    // value after the cast pipeline
}

func (e *CastError) Error() string {
	return fmt.Sprintf(
		"yup: the value of %s could not be cast to type %q; input was %s, cast result was %s",
		displayPath(e.Path), e.Type, printer.Print(e.Value), printer.Print(e.Result),
	)
}
