package yup

import (
	"context"
	"errors"
	"maps"
	"slices"
)

// Object returns a schema over map[string]any values with per-field
// schemas. Cast and validation visit every field with the parent map as the
// sibling base, so field schemas may use When conditions and references
// against each other. Field schemas marked Strip(true) are dropped from the
// cast output; unknown keys are kept unless StripUnknown is set.
//
// This kind is deliberately thin: key renaming, dependency-ordered casts,
// and the rest of a full object implementation stay outside the engine.
func Object(fields map[string]*Schema) *Schema {
	s := newSchema(kindHooks{
		name:     TypeObject,
		check:    func(v any) bool { _, ok := v.(map[string]any); return ok },
		cast:     objectCast,
		children: objectChildren,
		field: func(s *Schema, name string) (*Schema, bool) {
			sub, ok := s.fields[name]
			return sub, ok
		},
	})
	s.fields = maps.Clone(fields)
	return s
}

func objectCast(s *Schema, v any, opt CastOpt) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return v, nil
	}
	out := make(map[string]any, len(m))
	for _, name := range sortedFieldNames(s.fields) {
		f := s.fields[name]
		val, present := m[name]
		if !present {
			val = any(Undefined)
		}
		resolved := f.Resolve(ResolveOptions{Value: val, Parent: m, Context: opt.Context})
		if resolved.spec.strip {
			continue
		}
		cast, err := resolved.Cast(val, CastOpt{
			Path:         joinPath(opt.Path, name),
			Parent:       m,
			Context:      opt.Context,
			NoAssert:     true,
			StripUnknown: opt.StripUnknown,
		})
		if err != nil {
			return nil, err
		}
		if !IsUndefined(cast) {
			out[name] = cast
		}
	}
	for k, val := range m {
		if _, known := s.fields[k]; known {
			continue
		}
		if opt.StripUnknown {
			continue
		}
		out[k] = deepClone(val)
	}
	return out, nil
}

func objectChildren(ctx context.Context, s *Schema, v any, opt ValidateOpt, sync bool) ([]*ValidationError, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, nil
	}
	var failures []*ValidationError
	for _, name := range sortedFieldNames(s.fields) {
		f := s.fields[name]
		val, present := m[name]
		if !present {
			val = any(Undefined)
		}
		childOpt := ValidateOpt{
			Path:         joinPath(opt.Path, name),
			Parent:       m,
			Context:      opt.Context,
			StripUnknown: opt.StripUnknown,
		}
		// Fields are already cast by objectCast; strict skips re-casting.
		_, err := f.Strict(true).validate(ctx, val, childOpt, sync)
		if err == nil {
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			return nil, err
		}
		failures = append(failures, ve)
		if s.spec.abortEarly {
			return failures, nil
		}
	}
	return failures, nil
}

func sortedFieldNames(fields map[string]*Schema) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
