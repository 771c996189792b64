package yup

// CastOpt bundles the options Cast accepts.
type CastOpt struct {
	// Path is the dotted location of the value, used in error reporting.
	Path string
	// Parent is the enclosing value, the base sibling references resolve
	// against.
	Parent any
	// Context carries ambient values reachable through "$"-prefixed
	// references.
	Context map[string]any
	// NoAssert disables the post-cast type check.
	NoAssert bool
	// StripUnknown drops object keys with no matching field schema.
	StripUnknown bool
}

// ValidateOpt bundles the options Validate and ValidateSync accept.
type ValidateOpt struct {
	Path         string
	Parent       any
	Context      map[string]any
	StripUnknown bool
}

// ResolveOptions carries the dependency lookup context for condition
// resolution and reference lookups.
type ResolveOptions struct {
	// Value is the value under validation, reachable through the "." ref.
	Value any
	// Parent is the enclosing value for sibling references.
	Parent any
	// Context is the ambient context for "$"-prefixed references.
	Context map[string]any
}

func (o CastOpt) resolveOptions(value any) ResolveOptions {
	return ResolveOptions{Value: value, Parent: o.Parent, Context: o.Context}
}

func (o ValidateOpt) resolveOptions(value any) ResolveOptions {
	return ResolveOptions{Value: value, Parent: o.Parent, Context: o.Context}
}

func (o ValidateOpt) castOpt() CastOpt {
	return CastOpt{Path: o.Path, Parent: o.Parent, Context: o.Context, NoAssert: true, StripUnknown: o.StripUnknown}
}
