package yup

import "reflect"

// Condition is a deferred rewrite of a schema based on resolved dependency
// values. Conditions are applied at cast/validate time by Resolve; they are
// never cached because dependency values can differ per call.
type Condition struct {
	refs []*Ref
	fn   func(values []any, s *Schema, opt ResolveOptions) *Schema
}

// WhenConfig declares a conditional branch with named, strongly-typed
// fields. Is compares every resolved dependency value with DeepEqual; IsFunc
// replaces that comparison when set. At least one of Then/Otherwise must be
// given.
type WhenConfig struct {
	Is        any
	IsFunc    func(values []any) bool
	Then      func(*Schema) *Schema
	Otherwise func(*Schema) *Schema
}

func conditionFromConfig(refs []*Ref, cfg WhenConfig) Condition {
	if cfg.Then == nil && cfg.Otherwise == nil {
		panic("yup: WhenConfig requires a Then or Otherwise branch")
	}
	check := cfg.IsFunc
	if check == nil {
		want := cfg.Is
		check = func(values []any) bool {
			for _, v := range values {
				if !reflect.DeepEqual(v, want) {
					return false
				}
			}
			return len(values) > 0
		}
	}
	return Condition{
		refs: refs,
		fn: func(values []any, s *Schema, _ ResolveOptions) *Schema {
			branch := cfg.Otherwise
			if check(values) {
				branch = cfg.Then
			}
			if branch == nil {
				return s
			}
			return branch(s)
		},
	}
}

func conditionFromFunc(refs []*Ref, fn func(values []any, s *Schema, opt ResolveOptions) *Schema) Condition {
	if fn == nil {
		panic("yup: WhenFunc requires a branch function")
	}
	return Condition{refs: refs, fn: fn}
}

// resolve applies the condition to s, returning s unchanged when the branch
// declines to rewrite it.
func (c Condition) resolve(s *Schema, opt ResolveOptions) *Schema {
	values := make([]any, len(c.refs))
	for i, r := range c.refs {
		values[i] = r.Resolve(opt)
	}
	out := c.fn(values, s, opt)
	if out == nil {
		return s
	}
	return out
}
