package projection

import (
	"fmt"
	"strings"
)

// FlatPair is one (flatPath, scalarValue) pair yielded by Flatten, in
// depth-first traversal order.
type FlatPair struct {
	Path  string
	Value Document
}

// Flatten walks d depth-first and yields one FlatPair per scalar leaf
// (including null), using "$" as root and "[i]" to address list elements.
// Empty mappings and empty lists contribute no pairs. Traversal order is
// the document's own key/element order, which callers must keep stable
// (see the OrderedMap type) for the flattener's output to be reproducible.
func Flatten(d Document) []FlatPair {
	var pairs []FlatPair
	walk("$", d, &pairs)
	return pairs
}

func walk(path string, d Document, out *[]FlatPair) {
	switch d.Kind() {
	case KindMap:
		m := d.Map()
		if m == nil {
			return
		}
		for _, k := range m.Keys() {
			v, _ := m.Get(k)
			walk(path+"."+k, v, out)
		}
	case KindList:
		for i, v := range d.List() {
			walk(fmt.Sprintf("%s[%d]", path, i), v, out)
		}
	default:
		*out = append(*out, FlatPair{Path: path, Value: d})
	}
}

// suffix returns p with the first occurrence of prefix removed, per
// check_match's suffix(p, prefix) definition.
func suffix(p, prefix string) string {
	idx := strings.Index(p, prefix)
	if idx < 0 {
		return p
	}
	return p[:idx] + p[idx+len(prefix):]
}
