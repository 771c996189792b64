package yup

import (
	"context"
	"fmt"

	"github.com/yogeshdas-v/yup/internal/printer"
	"github.com/yogeshdas-v/yup/internal/reach"
)

// Cast resolves pending conditions, folds the value through the transform
// chain, substitutes the default when the result is still missing, and
// asserts the schema's type check unless opt.NoAssert is set. A failed
// assertion is a coercion contract violation reported as *CastError, never
// aggregated with validation failures.
func (s *Schema) Cast(v any, opt CastOpt) (any, error) {
	r := s.Resolve(opt.resolveOptions(v))
	out, err := r.applyCast(v, opt)
	if err != nil {
		return nil, err
	}
	if !opt.NoAssert && !r.IsType(out) {
		return nil, &CastError{Path: opt.Path, Type: r.typeName, Value: v, Result: out}
	}
	return out, nil
}

// applyCast runs the kind coercion, the transform chain, and default
// substitution. Missing values skip coercion and transforms; a substituted
// default still passes through the kind coercion so it reaches callers in
// the kind's checked representation. Each transform sees the current fold
// value and the original raw input.
func (s *Schema) applyCast(v any, opt CastOpt) (any, error) {
	out := v
	if !IsUndefined(out) {
		if s.kind.cast != nil {
			var err error
			out, err = s.kind.cast(s, out, opt)
			if err != nil {
				return nil, err
			}
		}
		for _, t := range s.transforms {
			out = t(out, v, s)
		}
	}
	if IsUndefined(out) && s.spec.hasDefault {
		out = s.DefaultValue()
		if !IsUndefined(out) && s.kind.cast != nil {
			var err error
			out, err = s.kind.cast(s, out, opt)
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Validate casts (unless strict) and validates the value, running
// asynchronous tests as needed. On failure it returns a *ValidationError
// honoring the schema's abort-early policy; any other error kind is a usage
// or infrastructure failure.
func (s *Schema) Validate(ctx context.Context, v any, opt ValidateOpt) (any, error) {
	return s.validate(ctx, v, opt, false)
}

// ValidateSync is the non-suspendable variant: meeting an async-only test is
// a usage error (ErrAsyncTestInSync), not a validation failure.
func (s *Schema) ValidateSync(v any, opt ValidateOpt) (any, error) {
	return s.validate(context.Background(), v, opt, true)
}

func (s *Schema) validate(ctx context.Context, v any, opt ValidateOpt, sync bool) (any, error) {
	r := s.Resolve(opt.resolveOptions(v))

	value := v
	if !r.spec.strict {
		var err error
		value, err = r.applyCast(v, opt.castOpt())
		if err != nil {
			return nil, err
		}
	}

	base := testContextBase{
		path:     opt.Path,
		label:    r.spec.label,
		value:    value,
		original: v,
		parent:   opt.Parent,
		contextv: opt.Context,
		schema:   r,
		sync:     sync,
	}

	// The synthesized type/whitelist/blacklist tests run first as one
	// batch; when it fails under abort-early the user queue never runs.
	failures, err := runTests(ctx, r.synthesizedTests(), base, r.spec.abortEarly)
	if err != nil {
		return nil, err
	}
	if len(failures) > 0 && r.spec.abortEarly {
		return nil, aggregateErrors(failures, value, opt.Path)
	}

	userFailures, err := runTests(ctx, r.tests, base, r.spec.abortEarly)
	if err != nil {
		return nil, err
	}
	failures = append(failures, userFailures...)
	if len(failures) > 0 && r.spec.abortEarly {
		return nil, aggregateErrors(failures, value, opt.Path)
	}

	if r.kind.children != nil && r.spec.recursive {
		childFailures, err := r.kind.children(ctx, r, value, opt, sync)
		if err != nil {
			return nil, err
		}
		failures = append(failures, childFailures...)
	}

	if len(failures) > 0 {
		return nil, aggregateErrors(failures, value, opt.Path)
	}
	return value, nil
}

// synthesizedTests builds the up-to-three engine-owned tests: the type
// check, the whitelist check, and the blacklist check.
func (s *Schema) synthesizedTests() []TestConfig {
	var out []TestConfig
	if s.kind.check != nil {
		out = append(out, TestConfig{
			Name:    "typeError",
			Message: s.typeMessage,
			Params:  map[string]any{"type": s.typeName},
			Test: func(v any, tc *TestContext) error {
				if tc.Schema.IsType(v) {
					return nil
				}
				return tc.Fail()
			},
		})
	}
	if s.whitelist.Size() > 0 {
		out = append(out, TestConfig{
			Name:    "oneOf",
			Message: s.whiteMessage,
			Params:  map[string]any{"values": printer.PrintList(s.whitelist.Describe())},
			Test: func(v any, tc *TestContext) error {
				if IsUndefined(v) {
					return nil
				}
				if tc.Schema.whitelist.Has(v, tc.resolveRef) {
					return nil
				}
				return tc.Fail()
			},
		})
	}
	if s.blacklist.Size() > 0 {
		out = append(out, TestConfig{
			Name:    "notOneOf",
			Message: s.blackMessage,
			Params:  map[string]any{"values": printer.PrintList(s.blacklist.Describe())},
			Test: func(v any, tc *TestContext) error {
				if IsUndefined(v) {
					return nil
				}
				if tc.Schema.blacklist.Has(v, tc.resolveRef) {
					return tc.Fail()
				}
				return nil
			},
		})
	}
	return out
}

// IsValid reports whether v passes Validate. Validation failures map to
// false; any other error is re-raised unchanged.
func (s *Schema) IsValid(ctx context.Context, v any, opt ValidateOpt) (bool, error) {
	_, err := s.Validate(ctx, v, opt)
	return swallowValidation(err)
}

// IsValidSync reports whether v passes ValidateSync, with the same error
// policy as IsValid.
func (s *Schema) IsValidSync(v any, opt ValidateOpt) (bool, error) {
	_, err := s.ValidateSync(v, opt)
	return swallowValidation(err)
}

func swallowValidation(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if _, ok := AsValidationError(err); ok {
		return false, nil
	}
	return false, err
}

// ValidateAt validates the value found at the dotted path inside root,
// against the nested schema reached through the same path.
func (s *Schema) ValidateAt(ctx context.Context, path string, root any, opt ValidateOpt) (any, error) {
	sub, value, parent, err := s.reachAt(path, root, opt.Context)
	if err != nil {
		return nil, err
	}
	opt.Path = path
	opt.Parent = parent
	return sub.validate(ctx, value, opt, false)
}

// ValidateSyncAt is the non-suspendable variant of ValidateAt.
func (s *Schema) ValidateSyncAt(path string, root any, opt ValidateOpt) (any, error) {
	sub, value, parent, err := s.reachAt(path, root, opt.Context)
	if err != nil {
		return nil, err
	}
	opt.Path = path
	opt.Parent = parent
	return sub.validate(context.Background(), value, opt, true)
}

// CastAt casts the value found at the dotted path inside root.
func (s *Schema) CastAt(path string, root any, opt CastOpt) (any, error) {
	sub, value, parent, err := s.reachAt(path, root, opt.Context)
	if err != nil {
		return nil, err
	}
	opt.Path = path
	opt.Parent = parent
	return sub.Cast(value, opt)
}

func (s *Schema) reachAt(path string, root any, context map[string]any) (*Schema, any, any, error) {
	node, parent, key, err := reach.Reach(s, path, root, context)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("yup: %w", err)
	}
	sub, ok := node.(*Schema)
	if !ok {
		return nil, nil, nil, fmt.Errorf("yup: no schema found at path %q", path)
	}
	value, found := reach.GetIn(parent, key)
	if !found {
		return sub, Undefined, parent, nil
	}
	return sub, value, parent, nil
}

// ResolveNode and FieldNode implement the lookup surface internal/reach
// walks when resolving a dotted path to a nested schema.

func (s *Schema) ResolveNode(value, parent any, context map[string]any) reach.Node {
	return s.Resolve(ResolveOptions{Value: value, Parent: parent, Context: context})
}

func (s *Schema) FieldNode(name string) (reach.Node, bool) {
	if s.kind.field == nil {
		return nil, false
	}
	sub, ok := s.kind.field(s, name)
	if !ok {
		return nil, false
	}
	return sub, true
}
