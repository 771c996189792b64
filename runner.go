package yup

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/yogeshdas-v/yup/locale"
)

// TestContext is the shared context handed to every validation rule.
type TestContext struct {
	Path          string
	Label         string
	Value         any
	OriginalValue any
	Parent        any
	Context       map[string]any
	Schema        *Schema
	Sync          bool

	cfg TestConfig
}

// Resolve dereferences v when it is a Ref, against the current evaluation
// context; any other value passes through.
func (tc *TestContext) Resolve(v any) any {
	if r, ok := v.(*Ref); ok {
		return tc.resolveRef(r)
	}
	return v
}

func (tc *TestContext) resolveRef(r *Ref) any {
	return r.Resolve(ResolveOptions{Value: tc.OriginalValue, Parent: tc.Parent, Context: tc.Context})
}

// FailOption customizes the error produced by TestContext.Fail.
type FailOption func(*failOverride)

type failOverride struct {
	path    string
	message string
	params  map[string]any
}

// WithPath overrides the reported field path.
func WithPath(path string) FailOption {
	return func(o *failOverride) { o.path = path }
}

// WithMessage overrides the message template.
func WithMessage(message string) FailOption {
	return func(o *failOverride) { o.message = message }
}

// WithParam adds a template parameter.
func WithParam(key string, v any) FailOption {
	return func(o *failOverride) {
		if o.params == nil {
			o.params = map[string]any{}
		}
		o.params[key] = v
	}
}

// Fail builds the rule's ValidationError from its message template and
// parameters. Rules return it directly; returning any other error aborts
// validation instead of recording a failure.
func (tc *TestContext) Fail(opts ...FailOption) error {
	over := failOverride{}
	for _, o := range opts {
		o(&over)
	}

	path := tc.Path
	if over.path != "" {
		path = over.path
	}
	params := map[string]any{
		"path":          displayName(tc.Label, path),
		"label":         tc.Label,
		"value":         tc.Value,
		"originalValue": tc.OriginalValue,
		"type":          tc.Schema.typeName,
	}
	for k, v := range tc.cfg.Params {
		params[k] = v
	}
	for k, v := range over.params {
		params[k] = v
	}

	message := tc.cfg.Message
	if over.message != "" {
		message = over.message
	}
	rendered := ""
	if message != "" {
		rendered = locale.Render(message, params)
	} else {
		rendered = locale.T(ruleKey(tc.cfg.Name), params)
	}

	return &ValidationError{
		Value:   tc.Value,
		Path:    path,
		Type:    tc.cfg.Name,
		Message: rendered,
		Params:  params,
	}
}

func displayName(label, path string) string {
	if label != "" {
		return label
	}
	if path != "" {
		return path
	}
	return "this"
}

func ruleKey(name string) string {
	if name == "" {
		return "default"
	}
	return name
}

type testContextBase struct {
	path     string
	label    string
	value    any
	original any
	parent   any
	contextv map[string]any
	schema   *Schema
	sync     bool
}

func (b testContextBase) with(cfg TestConfig) *TestContext {
	return &TestContext{
		Path:          b.path,
		Label:         b.label,
		Value:         b.value,
		OriginalValue: b.original,
		Parent:        b.parent,
		Context:       b.contextv,
		Schema:        b.schema,
		Sync:          b.sync,
		cfg:           cfg,
	}
}

// runOne executes a single rule, classifying its result: nil passes, a
// *ValidationError records a failure, anything else is fatal.
func runOne(ctx context.Context, cfg TestConfig, tc *TestContext) (*ValidationError, error) {
	var err error
	switch {
	case tc.Sync:
		if cfg.Test == nil {
			return nil, ErrAsyncTestInSync
		}
		err = cfg.Test(tc.Value, tc)
	case cfg.TestAsync != nil:
		err = cfg.TestAsync(ctx, tc.Value, tc)
	default:
		err = cfg.Test(tc.Value, tc)
	}
	if err == nil {
		return nil, nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.Path == "" {
			ve.Path = tc.Path
		}
		if ve.Type == "" {
			ve.Type = cfg.Name
		}
		return ve, nil
	}
	return nil, err
}

// runTests drives an ordered rule queue against the value. Synchronous mode
// walks the queue in order, short-circuiting on the first failure when
// abortEarly is set. Asynchronous abort-early races the rules to the first
// failure while letting already-started ones settle; collect-all waits for
// every rule and keeps failures in registration order.
func runTests(ctx context.Context, tests []TestConfig, base testContextBase, abortEarly bool) ([]*ValidationError, error) {
	if len(tests) == 0 {
		return nil, nil
	}

	if base.sync {
		var failures []*ValidationError
		for _, cfg := range tests {
			ve, err := runOne(ctx, cfg, base.with(cfg))
			if err != nil {
				return nil, err
			}
			if ve != nil {
				failures = append(failures, ve)
				if abortEarly {
					return failures, nil
				}
			}
		}
		return failures, nil
	}

	if abortEarly {
		// errgroup cancels the shared context on the first error and still
		// waits for every started rule before returning.
		g, gctx := errgroup.WithContext(ctx)
		for _, cfg := range tests {
			cfg := cfg
			g.Go(func() error {
				ve, err := runOne(gctx, cfg, base.with(cfg))
				if err != nil {
					return err
				}
				if ve != nil {
					return ve
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return []*ValidationError{ve}, nil
			}
			return nil, err
		}
		return nil, nil
	}

	results := make([]*ValidationError, len(tests))
	var g errgroup.Group
	for i, cfg := range tests {
		i, cfg := i, cfg
		g.Go(func() error {
			ve, err := runOne(ctx, cfg, base.with(cfg))
			if err != nil {
				return err
			}
			results[i] = ve
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var failures []*ValidationError
	for _, ve := range results {
		if ve != nil {
			failures = append(failures, ve)
		}
	}
	return failures, nil
}
