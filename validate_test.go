package yup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogeshdas-v/yup"
)

func namedFailure(name string) yup.TestConfig {
	return yup.TestConfig{
		Name: name,
		Test: func(v any, tc *yup.TestContext) error { return tc.Fail() },
	}
}

func TestValidate_ReturnsCastValue(t *testing.T) {
	v, err := yup.Number().ValidateSync("2", yup.ValidateOpt{})
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestValidate_AbortEarlyStopsAtFirstFailure(t *testing.T) {
	ran := false
	s := yup.Mixed().
		Test(namedFailure("first")).
		Test(yup.TestConfig{Name: "second", Test: func(v any, tc *yup.TestContext) error {
			ran = true
			return tc.Fail()
		}})

	_, err := s.ValidateSync("v", yup.ValidateOpt{})
	ve, ok := yup.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "first", ve.Type)
	assert.Empty(t, ve.Inner)
	assert.False(t, ran, "abort-early skips the rest of the queue")
}

func TestValidate_CollectAllKeepsRegistrationOrder(t *testing.T) {
	s := yup.Mixed().AbortEarly(false).
		Test(namedFailure("first")).
		Test(namedFailure("second"))

	_, err := s.ValidateSync("v", yup.ValidateOpt{})
	ve, ok := yup.AsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Inner, 2)
	assert.Equal(t, "first", ve.Inner[0].Type)
	assert.Equal(t, "second", ve.Inner[1].Type)
	assert.Len(t, ve.Errors(), 2)
}

func TestValidate_AsyncCollectAllKeepsRegistrationOrder(t *testing.T) {
	s := yup.Mixed().AbortEarly(false).
		Test(yup.TestConfig{Name: "slow", TestAsync: func(ctx context.Context, v any, tc *yup.TestContext) error {
			time.Sleep(20 * time.Millisecond)
			return tc.Fail()
		}}).
		Test(namedFailure("fast"))

	_, err := s.Validate(context.Background(), "v", yup.ValidateOpt{})
	ve, ok := yup.AsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Inner, 2)
	assert.Equal(t, "slow", ve.Inner[0].Type, "failures report in registration order, not completion order")
	assert.Equal(t, "fast", ve.Inner[1].Type)
}

func TestValidate_AsyncAbortEarlyReturnsSingleFailure(t *testing.T) {
	s := yup.Mixed().
		Test(yup.TestConfig{Name: "remote", TestAsync: func(ctx context.Context, v any, tc *yup.TestContext) error {
			return tc.Fail()
		}})

	_, err := s.Validate(context.Background(), "v", yup.ValidateOpt{})
	ve, ok := yup.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "remote", ve.Type)
}

func TestValidateSync_AsyncOnlyTestIsUsageError(t *testing.T) {
	s := yup.Mixed().Test(yup.TestConfig{
		Name:      "remote",
		TestAsync: func(ctx context.Context, v any, tc *yup.TestContext) error { return nil },
	})

	_, err := s.ValidateSync("v", yup.ValidateOpt{})
	require.ErrorIs(t, err, yup.ErrAsyncTestInSync)

	valid, err := s.IsValidSync("v", yup.ValidateOpt{})
	assert.False(t, valid)
	assert.ErrorIs(t, err, yup.ErrAsyncTestInSync)
}

func TestValidateSync_PrefersSyncBodyWhenBothGiven(t *testing.T) {
	s := yup.Mixed().Test(yup.TestConfig{
		Name:      "dual",
		Test:      func(v any, tc *yup.TestContext) error { return nil },
		TestAsync: func(ctx context.Context, v any, tc *yup.TestContext) error { return tc.Fail() },
	})

	_, err := s.ValidateSync("v", yup.ValidateOpt{})
	assert.NoError(t, err)

	_, err = s.Validate(context.Background(), "v", yup.ValidateOpt{})
	assert.Error(t, err, "Validate prefers the async body")
}

func TestValidate_StrictSkipsCoercion(t *testing.T) {
	_, err := yup.Number().Strict(true).ValidateSync("12", yup.ValidateOpt{})
	ve, ok := yup.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "typeError", ve.Type)

	v, err := yup.Number().Strict(true).ValidateSync(12.0, yup.ValidateOpt{})
	require.NoError(t, err)
	assert.Equal(t, 12.0, v)
}

func TestValidate_TypeErrorShortCircuitsUserTests(t *testing.T) {
	ran := false
	s := yup.Number().Test(yup.TestConfig{Name: "positive", Test: func(v any, tc *yup.TestContext) error {
		ran = true
		return nil
	}})

	_, err := s.ValidateSync("not a number", yup.ValidateOpt{})
	ve, ok := yup.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "typeError", ve.Type)
	assert.False(t, ran)
}

func TestValidate_CustomMessageTemplate(t *testing.T) {
	s := yup.Mixed().Label("age").Test(yup.TestConfig{
		Name:    "min",
		Message: "${path} must be at least ${min}",
		Params:  map[string]any{"min": 3},
		Test:    func(v any, tc *yup.TestContext) error { return tc.Fail() },
	})

	_, err := s.ValidateSync(1, yup.ValidateOpt{})
	ve, ok := yup.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "age must be at least 3", ve.Message)
}

func TestValidate_FailOverrides(t *testing.T) {
	s := yup.Mixed().Test(yup.TestConfig{
		Name: "range",
		Test: func(v any, tc *yup.TestContext) error {
			return tc.Fail(yup.WithMessage("${path} is out of ${bound}"), yup.WithParam("bound", "bounds"))
		},
	})

	_, err := s.ValidateSync(1, yup.ValidateOpt{})
	ve, ok := yup.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "this is out of bounds", ve.Message)
}
