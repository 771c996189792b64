package yup_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogeshdas-v/yup"
)

func TestCast_CoercesScalars(t *testing.T) {
	v, err := yup.String().Cast(42, yup.CastOpt{})
	require.NoError(t, err)
	assert.Equal(t, "42", v)

	v, err = yup.Number().Cast("12.5", yup.CastOpt{})
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)

	v, err = yup.Bool().Cast("true", yup.CastOpt{})
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = yup.Bool().Cast(1, yup.CastOpt{})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestCast_TransformsFoldInOrder(t *testing.T) {
	s := yup.String().
		Transform(func(value, original any, _ *yup.Schema) any {
			return strings.TrimSpace(value.(string))
		}).
		Transform(func(value, original any, _ *yup.Schema) any {
			return strings.ToLower(value.(string))
		})

	v, err := s.Cast("  HELLO  ", yup.CastOpt{})
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestCast_TransformSeesOriginalValue(t *testing.T) {
	var seen any
	s := yup.Number().Transform(func(value, original any, _ *yup.Schema) any {
		seen = original
		return value
	})

	_, err := s.Cast("7", yup.CastOpt{})
	require.NoError(t, err)
	assert.Equal(t, "7", seen, "transforms receive the raw input alongside the fold value")
}

func TestCast_FailedCoercionIsCastError(t *testing.T) {
	_, err := yup.Number().Cast("abc", yup.CastOpt{Path: "age"})
	var ce *yup.CastError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "age", ce.Path)
	assert.Equal(t, yup.TypeNumber, ce.Type)
	assert.Contains(t, ce.Error(), "age")
}

func TestCast_NoAssertSkipsTypeCheck(t *testing.T) {
	v, err := yup.Number().Cast("abc", yup.CastOpt{NoAssert: true})
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
}

func TestCast_MissingValueSkipsTransforms(t *testing.T) {
	called := false
	s := yup.String().Transform(func(value, original any, _ *yup.Schema) any {
		called = true
		return value
	})

	v, err := s.Cast(yup.Undefined, yup.CastOpt{})
	require.NoError(t, err)
	assert.True(t, yup.IsUndefined(v))
	assert.False(t, called, "coercion and transforms never see a missing value")
}

func TestCast_DefaultAppliesOnlyToMissing(t *testing.T) {
	s := yup.String().Default("fallback")

	v, err := s.Cast(yup.Undefined, yup.CastOpt{})
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)

	_, err = s.Cast(nil, yup.CastOpt{})
	var ce *yup.CastError
	assert.True(t, errors.As(err, &ce), "explicit null is a value, not a missing slot")

	v, err = s.Nullable().Cast(nil, yup.CastOpt{})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCast_DefaultIsCoercedToKind(t *testing.T) {
	v, err := yup.Number().Default(18).Cast(yup.Undefined, yup.CastOpt{})
	require.NoError(t, err)
	assert.Equal(t, 18.0, v, "substituted defaults land in the kind's checked representation")

	v, err = yup.String().Default(7).Cast(yup.Undefined, yup.CastOpt{})
	require.NoError(t, err)
	assert.Equal(t, "7", v)

	v, err = yup.Number().Nullable().Default(nil).Cast(yup.Undefined, yup.CastOpt{})
	require.NoError(t, err)
	assert.Nil(t, v, "a null default is not coerced away")
}

func TestCast_TransformProducingMissingTriggersDefault(t *testing.T) {
	s := yup.Mixed().
		Transform(func(value, original any, _ *yup.Schema) any {
			if value == "" {
				return yup.Undefined
			}
			return value
		}).
		Default("empty")

	v, err := s.Cast("", yup.CastOpt{})
	require.NoError(t, err)
	assert.Equal(t, "empty", v)
}
