package yup

import (
	"context"
	"fmt"
	"maps"
	"reflect"
)

// TransformFunc rewrites a value during cast. It receives the current value
// of the fold and the original raw input, in registration order.
type TransformFunc func(value, originalValue any, s *Schema) any

// TestFunc is a synchronous validation rule. Return nil to pass, tc.Fail()
// (or tc.Fail with overrides) to fail, or any other error to abort the whole
// validation with a non-validation failure.
type TestFunc func(v any, tc *TestContext) error

// AsyncTestFunc is a validation rule that may block (network lookups,
// database checks). It is only run by Validate; ValidateSync fails with
// ErrAsyncTestInSync when it meets a test providing nothing else.
type AsyncTestFunc func(ctx context.Context, v any, tc *TestContext) error

// TestConfig declares a validation rule with named fields. Test or TestAsync
// is required; Exclusive requires a non-empty Name. Message is a template
// rendered through the locale package ("${path}", "${min}", ...); when empty
// the locale default for Name applies.
type TestConfig struct {
	Name      string
	Message   string
	Params    map[string]any
	Exclusive bool
	Test      TestFunc
	TestAsync AsyncTestFunc
}

type specFlag uint16

const (
	flagNullable specFlag = 1 << iota
	flagOptional
	flagAbortEarly
	flagStrict
	flagStrip
	flagRecursive
	flagLabel
	flagDefault
)

// schemaSpec holds the scalar knobs of a schema node. flags records which
// fields were explicitly set, which is what lets Concat give the other
// schema's explicitly-set fields priority without clobbering the receiver's
// with zero values.
type schemaSpec struct {
	nullable     bool
	optional     bool
	abortEarly   bool
	strict       bool
	strip        bool
	recursive    bool
	label        string
	meta         map[string]any
	defaultValue any
	defaultFunc  func() any
	hasDefault   bool
	flags        specFlag
}

func (sp *schemaSpec) set(f specFlag)     { sp.flags |= f }
func (sp schemaSpec) has(f specFlag) bool { return sp.flags&f != 0 }

// kindHooks is the plug-in surface for concrete leaf kinds. The engine never
// inspects values itself: check answers the type test, cast performs
// kind-specific coercion before user transforms, children validates nested
// values (object fields), field resolves nested schemas for path lookups.
type kindHooks struct {
	name     string
	check    func(v any) bool
	cast     func(s *Schema, v any, opt CastOpt) (any, error)
	children func(ctx context.Context, s *Schema, v any, opt ValidateOpt, sync bool) ([]*ValidationError, error)
	field    func(s *Schema, name string) (*Schema, bool)
}

// Schema is an immutable-by-convention descriptor of accepted values,
// coercion rules, and validation rules. Every mutator returns a new node;
// sealed nodes may be shared freely across concurrent validations.
type Schema struct {
	typeName     string
	kind         kindHooks
	spec         schemaSpec
	tests        []TestConfig
	transforms   []TransformFunc
	exclusive    map[string]bool
	whitelist    *RefSet
	blacklist    *RefSet
	conditions   []Condition
	deps         []string
	fields       map[string]*Schema
	typeMessage  string
	whiteMessage string
	blackMessage string

	// mutable marks a private working copy inside a batch-mutation window.
	// It is true only between withMutation entering and sealing the copy,
	// and is never observable on a schema returned to callers.
	mutable bool
}

func newSchema(k kindHooks) *Schema {
	return &Schema{
		typeName:  k.name,
		kind:      k,
		spec:      schemaSpec{abortEarly: true, optional: true, recursive: true},
		exclusive: map[string]bool{},
		whitelist: NewRefSet(),
		blacklist: NewRefSet(),
	}
}

// clone returns the receiver itself while inside a batch-mutation window,
// giving chained mutator calls identity semantics on the working copy.
// Otherwise it deep-copies everything except nested schemas, which are
// shared by reference (see deepClone).
func (s *Schema) clone() *Schema {
	if s.mutable {
		return s
	}
	n := &Schema{
		typeName:     s.typeName,
		kind:         s.kind,
		spec:         s.spec,
		exclusive:    maps.Clone(s.exclusive),
		whitelist:    s.whitelist.Clone(),
		blacklist:    s.blacklist.Clone(),
		typeMessage:  s.typeMessage,
		whiteMessage: s.whiteMessage,
		blackMessage: s.blackMessage,
	}
	if s.spec.meta != nil {
		n.spec.meta = cloneParams(s.spec.meta)
	}
	if len(s.tests) > 0 {
		n.tests = make([]TestConfig, len(s.tests))
		for i, t := range s.tests {
			t.Params = cloneParams(t.Params)
			n.tests[i] = t
		}
	}
	n.transforms = append([]TransformFunc(nil), s.transforms...)
	n.conditions = append([]Condition(nil), s.conditions...)
	n.deps = append([]string(nil), s.deps...)
	if s.fields != nil {
		n.fields = maps.Clone(s.fields)
	}
	return n
}

// Clone returns an independent copy of the schema. Nested schemas keep their
// identity; every other field is deep-copied.
func (s *Schema) Clone() *Schema { return s.clone() }

// withMutation opens a batch-mutation window on a private working copy:
// inside fn, chained mutators return the same node instead of cloning per
// call. The copy is sealed before being returned, so the window is never
// observable by concurrent callers. Nested windows are safe.
func (s *Schema) withMutation(fn func(*Schema)) *Schema {
	c := s.clone()
	prev := c.mutable
	c.mutable = true
	fn(c)
	c.mutable = prev
	return c
}

// TypeName returns the schema's type tag ("mixed", "string", ...).
func (s *Schema) TypeName() string { return s.typeName }

// Deps lists the sibling fields the schema's pending conditions depend on.
func (s *Schema) Deps() []string { return append([]string(nil), s.deps...) }

// Fields returns the nested field schemas of an object schema.
func (s *Schema) Fields() map[string]*Schema {
	if s.fields == nil {
		return nil
	}
	return maps.Clone(s.fields)
}

// Tests returns a snapshot of the registered rule queue.
func (s *Schema) Tests() []TestConfig {
	out := make([]TestConfig, len(s.tests))
	for i, t := range s.tests {
		t.Params = cloneParams(t.Params)
		out[i] = t
	}
	return out
}

// Label sets the human-readable name used in error messages instead of the
// path.
func (s *Schema) Label(label string) *Schema {
	n := s.clone()
	n.spec.label = label
	n.spec.set(flagLabel)
	return n
}

// Meta adds key/value pairs to the schema's opaque metadata.
func (s *Schema) Meta(kv ...any) *Schema {
	if len(kv)%2 != 0 {
		panic("yup: Meta requires key/value pairs")
	}
	n := s.clone()
	if n.spec.meta == nil {
		n.spec.meta = make(map[string]any, len(kv)/2)
	}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("yup: Meta keys must be strings")
		}
		n.spec.meta[key] = kv[i+1]
	}
	return n
}

// MetaMap reads the accumulated metadata.
func (s *Schema) MetaMap() map[string]any { return cloneParams(s.spec.meta) }

// Nullable allows explicit null values.
func (s *Schema) Nullable() *Schema {
	n := s.clone()
	n.spec.nullable = true
	n.spec.set(flagNullable)
	return n
}

// NonNullable rejects explicit null values (the default).
func (s *Schema) NonNullable() *Schema {
	n := s.clone()
	n.spec.nullable = false
	n.spec.set(flagNullable)
	return n
}

// Strict controls whether Validate re-casts the value before checking.
func (s *Schema) Strict(strict bool) *Schema {
	n := s.clone()
	n.spec.strict = strict
	n.spec.set(flagStrict)
	return n
}

// Strip marks the schema for removal from object output during cast.
func (s *Schema) Strip(strip bool) *Schema {
	n := s.clone()
	n.spec.strip = strip
	n.spec.set(flagStrip)
	return n
}

// AbortEarly selects between stop-at-first-failure (true, the default) and
// collect-all-failures aggregation.
func (s *Schema) AbortEarly(abortEarly bool) *Schema {
	n := s.clone()
	n.spec.abortEarly = abortEarly
	n.spec.set(flagAbortEarly)
	return n
}

// Recursive controls whether object schemas validate their nested fields.
func (s *Schema) Recursive(recursive bool) *Schema {
	n := s.clone()
	n.spec.recursive = recursive
	n.spec.set(flagRecursive)
	return n
}

// Default sets the value substituted when the cast result is still missing.
// Pass a func() any to produce the default lazily per cast; any other value
// is deep-cloned on each use.
func (s *Schema) Default(v any) *Schema {
	n := s.clone()
	if fn, ok := v.(func() any); ok {
		n.spec.defaultFunc = fn
		n.spec.defaultValue = nil
	} else {
		n.spec.defaultValue = v
		n.spec.defaultFunc = nil
	}
	n.spec.hasDefault = true
	n.spec.set(flagDefault)
	return n
}

// DefaultValue produces the configured default, or Undefined when none was
// set.
func (s *Schema) DefaultValue() any {
	if !s.spec.hasDefault {
		return Undefined
	}
	if s.spec.defaultFunc != nil {
		return s.spec.defaultFunc()
	}
	return deepClone(s.spec.defaultValue)
}

// Transform appends a cast-time rewrite to the transform chain.
func (s *Schema) Transform(fn TransformFunc) *Schema {
	if fn == nil {
		panic("yup: Transform requires a function")
	}
	n := s.clone()
	n.transforms = append(n.transforms, fn)
	return n
}

// TypeError overrides the message template of the synthesized type-check
// test.
func (s *Schema) TypeError(message string) *Schema {
	n := s.clone()
	n.typeMessage = message
	return n
}

// IsType reports whether v satisfies the schema's type check. Undefined
// always passes; null passes only when the schema is nullable.
func (s *Schema) IsType(v any) bool {
	if IsUndefined(v) {
		return true
	}
	if v == nil {
		return s.spec.nullable
	}
	if s.kind.check == nil {
		return true
	}
	return s.kind.check(v)
}

// Test registers a validation rule on a clone of the receiver. A missing
// test function or an exclusive rule without a name is a programmer error
// and panics.
//
// Coexistence policy, derived from one filter: an exclusive registration
// (or one whose name was previously flagged exclusive) replaces any rule of
// the same name; re-registering the identical function under the same name
// is a no-op; anything else stacks.
func (s *Schema) Test(cfg TestConfig) *Schema {
	if cfg.Test == nil && cfg.TestAsync == nil {
		panic("yup: TestConfig requires a Test or TestAsync function")
	}
	if cfg.Exclusive && cfg.Name == "" {
		panic("yup: exclusive tests must be named")
	}
	n := s.clone()
	isExclusive := cfg.Exclusive || n.exclusive[cfg.Name]
	if cfg.Name != "" {
		if n.exclusive == nil {
			n.exclusive = map[string]bool{}
		}
		n.exclusive[cfg.Name] = cfg.Exclusive
	}
	kept := make([]TestConfig, 0, len(n.tests)+1)
	for _, t := range n.tests {
		if cfg.Name != "" && t.Name == cfg.Name && isExclusive {
			continue
		}
		if t.Name == cfg.Name && sameTestFunc(t, cfg) {
			continue
		}
		kept = append(kept, t)
	}
	n.tests = append(kept, cfg)
	return n
}

func sameTestFunc(a, b TestConfig) bool {
	return funcPtr(a.Test) == funcPtr(b.Test) && funcPtr(a.TestAsync) == funcPtr(b.TestAsync)
}

func funcPtr(fn any) uintptr {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.IsNil() {
		return 0
	}
	return v.Pointer()
}

// Required rejects missing and null values. It registers the exclusive
// "required" rule, so repeated calls replace rather than stack.
func (s *Schema) Required(message ...string) *Schema {
	msg := firstMessage(message)
	return s.withMutation(func(n *Schema) {
		n.spec.optional = false
		n.spec.set(flagOptional)
		n.Test(TestConfig{Name: "required", Exclusive: true, Message: msg, Test: func(v any, tc *TestContext) error {
			if IsUndefined(v) || v == nil {
				return tc.Fail()
			}
			return nil
		}})
	})
}

// Optional removes the required rule, accepting missing values again.
func (s *Schema) Optional() *Schema {
	return s.withMutation(func(n *Schema) {
		n.spec.optional = true
		n.spec.set(flagOptional)
		kept := n.tests[:0]
		for _, t := range n.tests {
			if t.Name == "required" {
				continue
			}
			kept = append(kept, t)
		}
		n.tests = kept
	})
}

// NotRequired is an alias of Optional.
func (s *Schema) NotRequired() *Schema { return s.Optional() }

// Defined rejects missing values while still allowing explicit null.
func (s *Schema) Defined(message ...string) *Schema {
	msg := firstMessage(message)
	return s.Test(TestConfig{Name: "defined", Exclusive: true, Message: msg, Test: func(v any, tc *TestContext) error {
		if IsUndefined(v) {
			return tc.Fail()
		}
		return nil
	}})
}

// OneOf whitelists the given values. References are resolved at validation
// time, so an entry may point at a sibling field or the ambient context.
// Whitelisting a value also removes it from the blacklist.
func (s *Schema) OneOf(values []any, message ...string) *Schema {
	return s.withMutation(func(n *Schema) {
		for _, v := range values {
			n.whitelist.Add(v)
			n.blacklist.Remove(v)
		}
		if len(message) > 0 {
			n.whiteMessage = message[0]
		}
	})
}

// Equals is an alias of OneOf.
func (s *Schema) Equals(values []any, message ...string) *Schema { return s.OneOf(values, message...) }

// Is is an alias of OneOf.
func (s *Schema) Is(values []any, message ...string) *Schema { return s.OneOf(values, message...) }

// NotOneOf blacklists the given values, removing them from the whitelist;
// the later call wins.
func (s *Schema) NotOneOf(values []any, message ...string) *Schema {
	return s.withMutation(func(n *Schema) {
		for _, v := range values {
			n.blacklist.Add(v)
			n.whitelist.Remove(v)
		}
		if len(message) > 0 {
			n.blackMessage = message[0]
		}
	})
}

// When attaches a conditional rewrite keyed on dependency values. deps name
// sibling fields ("other"), context values ("$role"), or the value itself
// ("."). The branch runs during Resolve on every cast/validate call.
func (s *Schema) When(deps []string, cfg WhenConfig) *Schema {
	refs := depsToRefs(deps)
	return s.addCondition(refs, conditionFromConfig(refs, cfg))
}

// WhenFunc is the fully-general form of When: the branch receives the
// resolved dependency values and returns the rewritten schema (or nil to
// keep it unchanged).
func (s *Schema) WhenFunc(deps []string, fn func(values []any, s *Schema, opt ResolveOptions) *Schema) *Schema {
	refs := depsToRefs(deps)
	return s.addCondition(refs, conditionFromFunc(refs, fn))
}

func depsToRefs(deps []string) []*Ref {
	if len(deps) == 0 {
		panic("yup: When requires at least one dependency key")
	}
	refs := make([]*Ref, len(deps))
	for i, d := range deps {
		refs[i] = NewRef(d)
	}
	return refs
}

func (s *Schema) addCondition(refs []*Ref, cond Condition) *Schema {
	return s.withMutation(func(n *Schema) {
		for _, r := range refs {
			if r.IsSibling() {
				n.deps = append(n.deps, r.Key())
			}
		}
		n.conditions = append(n.conditions, cond)
	})
}

// Resolve rewrites the schema into its concrete variant for the given
// dependency context. Schemas without pending conditions return themselves;
// otherwise the conditions are cleared and left-folded over a clone, and the
// result is resolved again since a branch may introduce further conditions.
func (s *Schema) Resolve(opt ResolveOptions) *Schema {
	if len(s.conditions) == 0 {
		return s
	}
	n := s.clone()
	conds := n.conditions
	n.conditions = nil
	out := n
	for _, c := range conds {
		out = c.resolve(out, opt)
	}
	return out.Resolve(opt)
}

// Concat merges other into a copy of the receiver. The receiver is the
// base: other's explicitly-set spec fields, membership edits, and tests take
// priority, with other's tests re-registered through the normal Test path so
// dedup and exclusivity apply consistently. Concatenating schemas of
// different declared types is a programmer error unless the receiver is the
// generic mixed type.
func (s *Schema) Concat(other *Schema) *Schema {
	if other == nil || other == s {
		return s
	}
	if other.typeName != s.typeName && s.typeName != TypeMixed {
		panic(fmt.Sprintf("yup: cannot concat a %q schema onto a %q schema", other.typeName, s.typeName))
	}
	n := s.clone()

	if s.typeName == TypeMixed && other.typeName != TypeMixed {
		n.typeName = other.typeName
		n.kind = other.kind
	}

	mergeSpec(&n.spec, other.spec)
	n.transforms = append(n.transforms, other.transforms...)
	n.conditions = append(n.conditions, other.conditions...)
	n.deps = append(n.deps, other.deps...)
	if other.fields != nil {
		if n.fields == nil {
			n.fields = map[string]*Schema{}
		}
		maps.Copy(n.fields, other.fields)
	}
	if other.typeMessage != "" {
		n.typeMessage = other.typeMessage
	}
	if other.whiteMessage != "" {
		n.whiteMessage = other.whiteMessage
	}
	if other.blackMessage != "" {
		n.blackMessage = other.blackMessage
	}

	// Membership conflicts resolve in other's favor.
	n.whitelist = s.whitelist.Merge(other.whitelist, other.blacklist)
	n.blacklist = s.blacklist.Merge(other.blacklist, other.whitelist)

	// The test queue and exclusivity table start from the receiver's copies
	// (already on n); other's tests go through Test so replacement semantics
	// hold instead of positional merging.
	return n.withMutation(func(m *Schema) {
		for _, t := range other.tests {
			m.Test(t)
		}
	})
}

// mergeSpec overlays other's explicitly-set fields onto dst. The default is
// only taken from other when other actually set one, guarding the receiver's
// explicit default against an implicit overwrite.
func mergeSpec(dst *schemaSpec, other schemaSpec) {
	if other.has(flagNullable) {
		dst.nullable = other.nullable
		dst.set(flagNullable)
	}
	if other.has(flagOptional) {
		dst.optional = other.optional
		dst.set(flagOptional)
	}
	if other.has(flagAbortEarly) {
		dst.abortEarly = other.abortEarly
		dst.set(flagAbortEarly)
	}
	if other.has(flagStrict) {
		dst.strict = other.strict
		dst.set(flagStrict)
	}
	if other.has(flagStrip) {
		dst.strip = other.strip
		dst.set(flagStrip)
	}
	if other.has(flagRecursive) {
		dst.recursive = other.recursive
		dst.set(flagRecursive)
	}
	if other.has(flagLabel) {
		dst.label = other.label
		dst.set(flagLabel)
	}
	if other.has(flagDefault) {
		dst.defaultValue = deepClone(other.defaultValue)
		dst.defaultFunc = other.defaultFunc
		dst.hasDefault = other.hasDefault
		dst.set(flagDefault)
	}
	if other.meta != nil {
		if dst.meta == nil {
			dst.meta = map[string]any{}
		}
		for k, v := range other.meta {
			dst.meta[k] = deepClone(v)
		}
	}
}

func firstMessage(message []string) string {
	if len(message) > 0 {
		return message[0]
	}
	return ""
}
