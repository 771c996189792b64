package reach_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogeshdas-v/yup/internal/reach"
)

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "1", "c"}, reach.Split("a.b[1].c"))
	assert.Equal(t, []string{"a"}, reach.Split("a"))
	assert.Nil(t, reach.Split(""))
	assert.Equal(t, []string{"0"}, reach.Split("[0]"))
}

func TestGetIn(t *testing.T) {
	doc := map[string]any{
		"user": map[string]any{
			"tags": []any{"a", "b"},
		},
	}

	v, ok := reach.GetIn(doc, "user.tags[1]")
	require.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = reach.GetIn(doc, "user.missing")
	assert.False(t, ok)

	_, ok = reach.GetIn(doc, "user.tags[5]")
	assert.False(t, ok)

	_, ok = reach.GetIn("scalar", "field")
	assert.False(t, ok)
}

func TestGetIn_YAMLStyleMaps(t *testing.T) {
	doc := map[any]any{"a": map[any]any{"b": 1}}
	v, ok := reach.GetIn(doc, "a.b")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

// fakeNode is a minimal schema graph for exercising Reach without the root
// package.
type fakeNode struct {
	fields map[string]*fakeNode
}

func (n *fakeNode) ResolveNode(value, parent any, context map[string]any) reach.Node { return n }

func (n *fakeNode) FieldNode(name string) (reach.Node, bool) {
	sub, ok := n.fields[name]
	return sub, ok
}

func TestReach(t *testing.T) {
	leaf := &fakeNode{}
	root := &fakeNode{fields: map[string]*fakeNode{
		"user": {fields: map[string]*fakeNode{"name": leaf}},
	}}
	doc := map[string]any{"user": map[string]any{"name": "ada"}}

	node, parent, key, err := reach.Reach(root, "user.name", doc, nil)
	require.NoError(t, err)
	assert.Same(t, leaf, node)
	assert.Equal(t, doc["user"], parent)
	assert.Equal(t, "name", key)

	v, ok := reach.GetIn(parent, key)
	require.True(t, ok)
	assert.Equal(t, "ada", v)
}

func TestReach_Errors(t *testing.T) {
	root := &fakeNode{fields: map[string]*fakeNode{"a": {}}}

	_, _, _, err := reach.Reach(root, "", nil, nil)
	assert.Error(t, err)

	_, _, _, err = reach.Reach(root, "a.b", map[string]any{"a": map[string]any{}}, nil)
	assert.Error(t, err)
}
