package yup

import (
	json "github.com/goccy/go-json"
)

// Description is a serializable snapshot of a schema for introspection and
// documentation tooling. It is a pure function of the schema's current
// state.
type Description struct {
	Type     string                 `json:"type"`
	Label    string                 `json:"label,omitempty"`
	Meta     map[string]any         `json:"meta,omitempty"`
	OneOf    []any                  `json:"oneOf,omitempty"`
	NotOneOf []any                  `json:"notOneOf,omitempty"`
	Tests    []TestDescription      `json:"tests"`
	Fields   map[string]Description `json:"fields,omitempty"`
}

// TestDescription names a registered rule and its parameters.
type TestDescription struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// Describe snapshots the schema. Tests are deduplicated by name, keeping
// the first occurrence.
func (s *Schema) Describe() Description {
	d := Description{
		Type:     s.typeName,
		Label:    s.spec.label,
		Meta:     cloneParams(s.spec.meta),
		OneOf:    s.whitelist.Describe(),
		NotOneOf: s.blacklist.Describe(),
		Tests:    []TestDescription{},
	}
	seen := map[string]bool{}
	for _, t := range s.tests {
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		d.Tests = append(d.Tests, TestDescription{Name: t.Name, Params: cloneParams(t.Params)})
	}
	if len(s.fields) > 0 {
		d.Fields = make(map[string]Description, len(s.fields))
		for name, f := range s.fields {
			d.Fields[name] = f.Describe()
		}
	}
	return d
}

// JSON renders the description as JSON.
func (d Description) JSON() ([]byte, error) {
	return json.Marshal(d)
}
