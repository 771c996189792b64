package yup

// undefinedType is the sentinel distinguishing "no value at all" from an
// explicit null. A nil interface value is treated as null; Undefined marks
// absence (a missing object key, an unset default).
type undefinedType struct{}

func (undefinedType) String() string { return "undefined" }

// Undefined is the missing-value sentinel. Defaults apply to Undefined
// inputs; nullability gates nil inputs.
var Undefined undefinedType

// IsUndefined reports whether v is the missing-value sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefinedType)
	return ok
}
