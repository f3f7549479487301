// Package projection implements the rule-driven JSON projection engine: it
// flattens an input document into path/value pairs, matches those pairs
// against a declarative rule set to build a manifest, and reconstitutes the
// manifest into a nested output document. The engine is pure — it performs
// no I/O and holds no state across calls to Project.
package projection

import "fmt"

// ValueKind discriminates the three shapes a Document can take.
type ValueKind int

const (
	// KindScalar holds a string, float64, bool, or nil leaf value.
	KindScalar ValueKind = iota
	// KindList holds an ordered sequence of Documents.
	KindList
	// KindMap holds an ordered mapping of string keys to Documents.
	KindMap
)

// Document is the recursive value type the engine reads as input and
// produces as output: a scalar, an ordered list, or an ordered mapping.
// Mapping key order is preserved even though spec semantics treat it as
// insignificant, because insertion-order iteration is what makes the
// flattener's output (and therefore check_match and iterate cursor
// behavior) reproducible across runs, per the determinism requirement.
type Document struct {
	kind   ValueKind
	scalar any
	list   *listBox
	fields *OrderedMap
}

// listBox holds a list Document's elements behind a pointer so that
// appending to or replacing an element of a list already embedded in a
// parent map or list mutates that one shared list, the same way
// OrderedMap's pointer lets map mutation be visible through every
// reference to it. Without this indirection, Go's value-slice semantics
// would force every writer mutation to be threaded back up through each
// ancestor container by hand.
type listBox struct {
	items []Document
}

// NewScalar wraps a string, float64, bool, or nil as a scalar Document.
func NewScalar(v any) Document {
	return Document{kind: KindScalar, scalar: v}
}

// NewList wraps an ordered slice of Documents as a list Document.
func NewList(items []Document) Document {
	return Document{kind: KindList, list: &listBox{items: items}}
}

// NewMap wraps an OrderedMap as a map Document.
func NewMap(fields *OrderedMap) Document {
	return Document{kind: KindMap, fields: fields}
}

// EmptyMap returns a fresh, empty map Document, used by the writer as a
// placeholder for array elements created on demand.
func EmptyMap() Document {
	return NewMap(NewOrderedMap())
}

// Kind reports which of the three shapes this Document holds.
func (d Document) Kind() ValueKind { return d.kind }

// Scalar returns the underlying scalar value. Only valid when Kind() ==
// KindScalar.
func (d Document) Scalar() any { return d.scalar }

// List returns the underlying slice. Only valid when Kind() == KindList.
func (d Document) List() []Document {
	if d.list == nil {
		return nil
	}
	return d.list.items
}

// Map returns the underlying OrderedMap. Only valid when Kind() == KindMap.
func (d Document) Map() *OrderedMap { return d.fields }

// Len reports the number of elements in a list Document.
func (d Document) Len() int {
	if d.list == nil {
		return 0
	}
	return len(d.list.items)
}

// At returns the element at index i of a list Document.
func (d Document) At(i int) Document {
	return d.list.items[i]
}

// SetAt replaces the element at index i of a list Document in place,
// visible through every other reference to the same list.
func (d Document) SetAt(i int, v Document) {
	d.list.items[i] = v
}

// Append adds v to the end of a list Document in place.
func (d Document) Append(v Document) {
	d.list.items = append(d.list.items, v)
}

// EnsureLen grows a list Document in place with empty-map placeholders
// until it has at least n elements, the writer's array auto-expansion.
func (d Document) EnsureLen(n int) {
	for d.Len() < n {
		d.Append(EmptyMap())
	}
}

// IsLeaf reports whether d is a non-mapping, non-list value — the
// flattener's definition of a leaf (spec §4.2), which includes nil.
func (d Document) IsLeaf() bool { return d.kind == KindScalar }

// ScalarEquals compares d against a parsed predicate literal for equality,
// per §4.4's predicate evaluation rule: strings compare as strings, integer
// literals compare as numbers, no further type coercion.
func (d Document) ScalarEquals(other any) bool {
	if d.kind != KindScalar {
		return false
	}
	switch dv := d.scalar.(type) {
	case float64:
		switch ov := other.(type) {
		case float64:
			return dv == ov
		case int:
			return dv == float64(ov)
		}
		return false
	default:
		return fmt.Sprint(d.scalar) == fmt.Sprint(other) && sameScalarShape(d.scalar, other)
	}
}

// sameScalarShape guards ScalarEquals against comparing e.g. the string "2"
// to the number 2 as equal by coincidence of their printed form.
func sameScalarShape(a, b any) bool {
	switch a.(type) {
	case string:
		_, ok := b.(string)
		return ok
	case bool:
		_, ok := b.(bool)
		return ok
	case nil:
		return b == nil
	default:
		return true
	}
}

// Equal reports deep structural equality, used by the filter stage's
// mapping-element dedup (§4.5) and by property 6's testable definition of
// "no duplicate elements".
func (d Document) Equal(other Document) bool {
	if d.kind != other.kind {
		return false
	}
	switch d.kind {
	case KindScalar:
		return fmt.Sprint(d.scalar) == fmt.Sprint(other.scalar) && sameScalarShape(d.scalar, other.scalar)
	case KindList:
		if d.Len() != other.Len() {
			return false
		}
		for i := 0; i < d.Len(); i++ {
			if !d.At(i).Equal(other.At(i)) {
				return false
			}
		}
		return true
	case KindMap:
		if d.fields.Len() != other.fields.Len() {
			return false
		}
		for _, k := range d.fields.Keys() {
			ov, ok := other.fields.Get(k)
			if !ok {
				return false
			}
			dv, _ := d.fields.Get(k)
			if !dv.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}
