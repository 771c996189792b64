// Package printer formats runtime values for inclusion in error messages.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Print renders a value compactly: strings quoted, scalars verbatim,
// composites as JSON.
func Print(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(t)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case error:
		return t.Error()
	case fmt.Stringer:
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// PrintList renders values as a comma-separated list.
func PrintList(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Print(v)
	}
	return strings.Join(parts, ", ")
}
