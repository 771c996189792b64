package yup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yogeshdas-v/yup"
)

func TestNewRef_KeyForms(t *testing.T) {
	sibling := yup.NewRef("other")
	assert.True(t, sibling.IsSibling())
	assert.False(t, sibling.IsContext())

	ctx := yup.NewRef("$user.role")
	assert.True(t, ctx.IsContext())
	assert.False(t, ctx.IsSibling())

	self := yup.NewRef(".")
	assert.False(t, self.IsSibling())
	assert.False(t, self.IsContext())

	assert.Panics(t, func() { yup.NewRef("") })
}

func TestRef_ResolveSibling(t *testing.T) {
	r := yup.NewRef("a.b")
	opt := yup.ResolveOptions{Parent: map[string]any{"a": map[string]any{"b": 7}}}
	assert.Equal(t, 7, r.Resolve(opt))
}

func TestRef_ResolveContext(t *testing.T) {
	r := yup.NewRef("$user.role")
	opt := yup.ResolveOptions{Context: map[string]any{"user": map[string]any{"role": "admin"}}}
	assert.Equal(t, "admin", r.Resolve(opt))
}

func TestRef_ResolveValueItself(t *testing.T) {
	r := yup.NewRef(".")
	assert.Equal(t, "the value", r.Resolve(yup.ResolveOptions{Value: "the value"}))
}

func TestRef_MissingTargetIsUndefined(t *testing.T) {
	r := yup.NewRef("missing")
	v := r.Resolve(yup.ResolveOptions{Parent: map[string]any{}})
	assert.True(t, yup.IsUndefined(v))

	v = yup.NewRef("$absent").Resolve(yup.ResolveOptions{})
	assert.True(t, yup.IsUndefined(v))
}

func TestIsRef(t *testing.T) {
	assert.True(t, yup.IsRef(yup.NewRef("x")))
	assert.False(t, yup.IsRef("x"))
}
