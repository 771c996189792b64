package yup

import (
	"strings"

	"github.com/yogeshdas-v/yup/internal/reach"
)

// contextPrefix selects the ambient context instead of the sibling parent.
const contextPrefix = "$"

// Ref is a deferred pointer to a sibling or ambient-context value. It is
// resolved only during cast/validate, against the ResolveOptions of that
// call, so the same schema can be reused across values and contexts.
//
// Key forms:
//
//	"name"       sibling field, looked up on the parent value
//	"a.b"        nested sibling path
//	"$user.id"   ambient context path
//	"."          the value under validation itself
type Ref struct {
	key       string
	path      string
	isContext bool
	isValue   bool
}

// NewRef builds a reference from its key. An empty key is a programmer
// error.
func NewRef(key string) *Ref {
	if key == "" {
		panic("yup: ref key must not be empty")
	}
	r := &Ref{key: key}
	switch {
	case key == ".":
		r.isValue = true
	case strings.HasPrefix(key, contextPrefix):
		r.isContext = true
		r.path = strings.TrimPrefix(key, contextPrefix)
	default:
		r.path = key
	}
	return r
}

// IsRef reports whether v is a reference. Membership sets route references
// to deferred lookup instead of literal comparison.
func IsRef(v any) bool {
	_, ok := v.(*Ref)
	return ok
}

// Key returns the key the reference was built from.
func (r *Ref) Key() string { return r.key }

// IsContext reports whether the reference targets the ambient context.
func (r *Ref) IsContext() bool { return r.isContext }

// IsSibling reports whether the reference targets a sibling field. Sibling
// references are the ones surfaced on Schema.Deps.
func (r *Ref) IsSibling() bool { return !r.isContext && !r.isValue }

// Resolve looks the reference up against opt. Missing targets resolve to
// Undefined.
func (r *Ref) Resolve(opt ResolveOptions) any {
	var base any
	switch {
	case r.isValue:
		return opt.Value
	case r.isContext:
		base = opt.Context
	default:
		base = opt.Parent
	}
	v, ok := reach.GetIn(base, r.path)
	if !ok {
		return Undefined
	}
	return v
}

func (r *Ref) String() string { return "Ref(" + r.key + ")" }
