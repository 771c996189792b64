package yup

import "reflect"

// RefSet is a dual-mode membership set: literal values compare directly,
// references are resolved against the evaluation context before comparing.
// Adding a reference always routes to the reference side, never the literal
// side, so a logical value is tracked exactly once.
//
// Sets stay small in practice, so lookups are linear with DeepEqual
// semantics; that also keeps non-comparable literals (slices, maps) legal.
type RefSet struct {
	values []any
	refs   []*Ref
}

// NewRefSet builds a set from the given values, routing references
// appropriately.
func NewRefSet(values ...any) *RefSet {
	s := &RefSet{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Size is the literal count plus the reference count.
func (s *RefSet) Size() int { return len(s.values) + len(s.refs) }

// Add inserts a value, deduplicating literals by DeepEqual and references by
// key.
func (s *RefSet) Add(v any) {
	if r, ok := v.(*Ref); ok {
		for i, have := range s.refs {
			if have.Key() == r.Key() {
				s.refs[i] = r
				return
			}
		}
		s.refs = append(s.refs, r)
		return
	}
	for _, have := range s.values {
		if reflect.DeepEqual(have, v) {
			return
		}
	}
	s.values = append(s.values, v)
}

// Remove deletes a value; references are removed by key.
func (s *RefSet) Remove(v any) {
	if r, ok := v.(*Ref); ok {
		for i, have := range s.refs {
			if have.Key() == r.Key() {
				s.refs = append(s.refs[:i], s.refs[i+1:]...)
				return
			}
		}
		return
	}
	for i, have := range s.values {
		if reflect.DeepEqual(have, v) {
			s.values = append(s.values[:i], s.values[i+1:]...)
			return
		}
	}
}

// Has reports membership of v. Stored references are resolved through
// resolve before comparing; literals compare directly.
func (s *RefSet) Has(v any, resolve func(*Ref) any) bool {
	for _, have := range s.values {
		if reflect.DeepEqual(have, v) {
			return true
		}
	}
	for _, r := range s.refs {
		if resolve == nil {
			continue
		}
		if reflect.DeepEqual(resolve(r), v) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy. References themselves are immutable and
// shared.
func (s *RefSet) Clone() *RefSet {
	n := &RefSet{}
	n.values = append(n.values, s.values...)
	n.refs = append(n.refs, s.refs...)
	return n
}

// Merge returns a copy of the receiver with every member of newItems added
// and every member of removeItems removed, in that order; removeItems wins
// on conflicts.
func (s *RefSet) Merge(newItems, removeItems *RefSet) *RefSet {
	next := s.Clone()
	if newItems != nil {
		for _, v := range newItems.values {
			next.Add(v)
		}
		for _, r := range newItems.refs {
			next.Add(r)
		}
	}
	if removeItems != nil {
		for _, v := range removeItems.values {
			next.Remove(v)
		}
		for _, r := range removeItems.refs {
			next.Remove(r)
		}
	}
	return next
}

// Values lists the literal members followed by the tracked references, in
// insertion order.
func (s *RefSet) Values() []any {
	out := make([]any, 0, s.Size())
	out = append(out, s.values...)
	for _, r := range s.refs {
		out = append(out, r)
	}
	return out
}

// Describe renders the members for introspection: literals as-is,
// references by key.
func (s *RefSet) Describe() []any {
	if s.Size() == 0 {
		return nil
	}
	out := make([]any, 0, s.Size())
	out = append(out, s.values...)
	for _, r := range s.refs {
		out = append(out, r.Key())
	}
	return out
}
