// Package reach walks a dotted object path to find a nested schema and
// value pair. It knows nothing about schema internals: the root package
// exposes the Node surface and reach drives it segment by segment.
package reach

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is the schema surface a path walk needs: condition resolution at the
// current value, and nested schema lookup by field name.
type Node interface {
	ResolveNode(value, parent any, context map[string]any) Node
	FieldNode(name string) (Node, bool)
}

// Split parses "a.b[1].c" into segments: field names and decimal indices.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	replaced := strings.NewReplacer("[", ".", "]", "").Replace(path)
	parts := strings.Split(replaced, ".")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Reach resolves path against the schema graph and the value in tandem. It
// returns the schema at the path plus the parent value and the final key,
// so the caller can pick the addressed value (or note its absence) itself.
func Reach(root Node, path string, value any, context map[string]any) (Node, any, string, error) {
	segs := Split(path)
	if len(segs) == 0 {
		return nil, nil, "", fmt.Errorf("reach: empty path")
	}
	node := root
	var parent any
	cur := value
	for i, seg := range segs {
		node = node.ResolveNode(cur, parent, context)
		child, ok := node.FieldNode(seg)
		if !ok {
			return nil, nil, "", fmt.Errorf("reach: the schema does not contain the path %q (segment %q)", path, seg)
		}
		node = child
		parent = cur
		if i < len(segs)-1 {
			cur, _ = GetIn(cur, seg)
		}
	}
	return node, parent, segs[len(segs)-1], nil
}

// GetIn walks a dotted path through maps and slices, reporting whether the
// target exists.
func GetIn(base any, path string) (any, bool) {
	cur := base
	for _, seg := range Split(path) {
		next, ok := step(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	if path == "" {
		return base, base != nil
	}
	return cur, true
}

func step(cur any, seg string) (any, bool) {
	switch t := cur.(type) {
	case map[string]any:
		v, ok := t[seg]
		return v, ok
	case map[any]any:
		v, ok := t[seg]
		return v, ok
	case []any:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= len(t) {
			return nil, false
		}
		return t[idx], true
	default:
		return nil, false
	}
}
