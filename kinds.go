package yup

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Type tags of the shipped kinds.
const (
	TypeMixed  = "mixed"
	TypeString = "string"
	TypeNumber = "number"
	TypeBool   = "bool"
	TypeObject = "object"
)

// Mixed returns a schema accepting any value. It is the generic base type:
// it carries no type check and Concat onto it adopts the other schema's
// kind.
func Mixed() *Schema { return newSchema(kindHooks{name: TypeMixed}) }

// String returns a string schema. Cast stringifies numbers, booleans, and
// fmt.Stringer values; anything else passes through and fails the type
// check.
func String() *Schema {
	return newSchema(kindHooks{
		name:  TypeString,
		check: func(v any) bool { _, ok := v.(string); return ok },
		cast: func(_ *Schema, v any, _ CastOpt) (any, error) {
			return coerceString(v), nil
		},
	})
}

func coerceString(v any) any {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return v
	}
}

// Number returns a numeric schema normalized to float64. Cast parses
// numeric strings and widens integer inputs.
func Number() *Schema {
	return newSchema(kindHooks{
		name:  TypeNumber,
		check: func(v any) bool { _, ok := v.(float64); return ok },
		cast: func(_ *Schema, v any, _ CastOpt) (any, error) {
			return coerceNumber(v), nil
		},
	})
}

func coerceNumber(v any) any {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint64:
		return float64(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return v
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
		return v
	default:
		return v
	}
}

// Bool returns a boolean schema. Cast accepts "true"/"false" strings and
// 0/1 numbers.
func Bool() *Schema {
	return newSchema(kindHooks{
		name:  TypeBool,
		check: func(v any) bool { _, ok := v.(bool); return ok },
		cast: func(_ *Schema, v any, _ CastOpt) (any, error) {
			return coerceBool(v), nil
		},
	})
}

func coerceBool(v any) any {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(t); err == nil {
			return b
		}
		return v
	case float64:
		switch t {
		case 0:
			return false
		case 1:
			return true
		}
		return v
	case int:
		switch t {
		case 0:
			return false
		case 1:
			return true
		}
		return v
	default:
		return v
	}
}
