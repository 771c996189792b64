package yup

import "reflect"

// schemaValue is the sealed marker the cloning and composition logic use to
// recognize nested schemas. Anything carrying it is treated as an immutable
// value and copied by reference; everything else is deep-copied. Only
// *Schema implements it.
type schemaValue interface{ isSchemaValue() }

func (s *Schema) isSchemaValue() {}

// deepClone copies a value structurally. Nested schemas are shared by
// reference, which lets large schema graphs be reused across many mutated
// parents without quadratic copying. Scalars, functions, and channels pass
// through unchanged.
func deepClone(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case schemaValue:
		return v
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = deepClone(e)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepClone(e)
		}
		return out
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		m := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m.SetMapIndex(iter.Key(), reflect.ValueOf(deepClone(iter.Value().Interface())))
		}
		return m.Interface()
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	default:
		return v
	}
}

func cloneParams(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = deepClone(v)
	}
	return out
}
