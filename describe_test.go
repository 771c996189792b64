package yup_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogeshdas-v/yup"
)

func TestDescribe_SnapshotsSchemaState(t *testing.T) {
	s := yup.String().
		Label("status").
		Meta("source", "api").
		OneOf([]any{"on", "off"}).
		Required()

	d := s.Describe()
	assert.Equal(t, yup.TypeString, d.Type)
	assert.Equal(t, "status", d.Label)
	assert.Equal(t, map[string]any{"source": "api"}, d.Meta)
	assert.Equal(t, []any{"on", "off"}, d.OneOf)
	require.Len(t, d.Tests, 1)
	assert.Equal(t, "required", d.Tests[0].Name)
}

func TestDescribe_IsPureAndRepeatable(t *testing.T) {
	s := yup.Number().Label("age").Test(yup.TestConfig{
		Name:   "min",
		Params: map[string]any{"min": 3},
		Test:   func(v any, tc *yup.TestContext) error { return nil },
	})

	first := s.Describe()
	second := s.Describe()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated Describe calls differ (-first +second):\n%s", diff)
	}

	third := s.Clone().Describe()
	if diff := cmp.Diff(first, third); diff != "" {
		t.Fatalf("clone describes differently (-original +clone):\n%s", diff)
	}
}

func TestDescribe_DeduplicatesTestsByName(t *testing.T) {
	s := yup.Mixed().
		Test(yup.TestConfig{Name: "check", Params: map[string]any{"variant": 1}, Test: passAlways}).
		Test(yup.TestConfig{Name: "check", Params: map[string]any{"variant": 2}, Test: failAlways})

	d := s.Describe()
	require.Len(t, d.Tests, 1)
	assert.Equal(t, map[string]any{"variant": 1}, d.Tests[0].Params, "the first occurrence wins")
}

func TestDescribe_RendersRefsByKey(t *testing.T) {
	s := yup.Mixed().OneOf([]any{"literal", yup.NewRef("$allowed")})
	assert.Equal(t, []any{"literal", "$allowed"}, s.Describe().OneOf)
}

func TestDescribe_RecursesIntoFields(t *testing.T) {
	s := yup.Object(map[string]*yup.Schema{
		"name": yup.String().Required(),
		"age":  yup.Number(),
	})

	d := s.Describe()
	require.Contains(t, d.Fields, "name")
	require.Contains(t, d.Fields, "age")
	assert.Equal(t, yup.TypeString, d.Fields["name"].Type)
	assert.Equal(t, yup.TypeNumber, d.Fields["age"].Type)
}

func TestDescription_JSON(t *testing.T) {
	b, err := yup.String().Label("name").Describe().JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"string","label":"name","tests":[]}`, string(b))
}
