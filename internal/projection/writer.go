package projection

import "strings"

// Write materializes manifest into a fresh nested document. Per §4.4, plain
// (non-query) entries are applied before any query entry, so that query
// navigation can find elements a plain rule already populated instead of
// always appending a new one.
func Write(manifest []ManifestEntry) (Document, error) {
	root := EmptyMap()

	var plain, queries []ManifestEntry
	for _, entry := range manifest {
		if strings.Contains(entry.Path, "?") {
			queries = append(queries, entry)
		} else {
			plain = append(plain, entry)
		}
	}

	for _, entry := range plain {
		if err := insertValue(root, entry.Path, entry.Value); err != nil {
			return Document{}, err
		}
	}
	for _, entry := range queries {
		segments, err := ParsePath(entry.Path)
		if err != nil {
			return Document{}, err
		}
		if err := insertQuery(root, segments, entry.Value); err != nil {
			return Document{}, err
		}
	}

	return root, nil
}

// pathSegment is a plain-navigation step: a key with an optional trailing
// "[i]" index, parsed without going through the full query grammar since
// plain paths never carry predicates.
type pathSegment struct {
	key   string
	index *int
}

// insertValue implements plain navigation (§4.4): split the path by '.'
// after dropping '$', auto-expanding lists as needed, and assign value at
// the terminal segment.
func insertValue(root Document, path string, value Document) error {
	segments, err := splitPlainPath(path)
	if err != nil {
		return err
	}

	cur := root
	for i, seg := range segments {
		last := i == len(segments)-1
		m := cur.Map()
		if m == nil {
			return &ProjectionTypeError{Path: path, Reason: "expected mapping at '" + seg.key + "'"}
		}

		if seg.index == nil {
			if last {
				m.Set(seg.key, value)
				return nil
			}
			next, ok := m.Get(seg.key)
			if !ok {
				next = EmptyMap()
				m.Set(seg.key, next)
			} else if next.Kind() != KindMap {
				return &ProjectionTypeError{Path: path, Reason: "expected mapping at '" + seg.key + "'"}
			}
			cur = next
			continue
		}

		list, ok := m.Get(seg.key)
		if !ok {
			list = NewList(nil)
			m.Set(seg.key, list)
		}
		if list.Kind() != KindList {
			return &ProjectionTypeError{Path: path, Reason: "expected list at '" + seg.key + "'"}
		}
		list.EnsureLen(*seg.index + 1)

		if last {
			list.SetAt(*seg.index, value)
			return nil
		}
		elem := list.At(*seg.index)
		if elem.Kind() != KindMap {
			elem = EmptyMap()
			list.SetAt(*seg.index, elem)
		}
		cur = elem
	}
	return nil
}

// splitPlainPath parses a query-free output path into pathSegments. Each
// segment carries at most one index: when a key has several "[i]" groups,
// ParsePath keeps only the last one.
func splitPlainPath(path string) ([]pathSegment, error) {
	parsed, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	segments := make([]pathSegment, len(parsed))
	for i, s := range parsed {
		if s.HasQuery() {
			return nil, &PathSyntaxError{Path: path, Reason: "unexpected query in plain path"}
		}
		segments[i] = pathSegment{key: s.Key, index: s.Index}
	}
	return segments, nil
}

// insertQuery implements query navigation (§4.4 cases A-D) over the parsed
// segment slice, recursing into root.
func insertQuery(root Document, segments []Segment, value Document) error {
	cur := root
	for i, seg := range segments {
		last := i == len(segments)-1
		m := cur.Map()
		if m == nil {
			return &ProjectionTypeError{Path: seg.Key, Reason: "expected mapping"}
		}

		switch {
		case seg.Query != nil && seg.Index != nil:
			next, err := navigateQueryWithIndex(m, seg, last, value)
			if err != nil {
				return err
			}
			if last {
				return nil
			}
			cur = next

		case seg.Query != nil:
			return navigateQueryOnly(m, seg, segments[i+1:], value)

		case seg.Index != nil:
			list, ok := m.Get(seg.Key)
			if !ok {
				list = NewList(nil)
				m.Set(seg.Key, list)
			}
			if list.Kind() != KindList {
				return &ProjectionTypeError{Path: seg.Key, Reason: "expected list"}
			}
			list.EnsureLen(*seg.Index + 1)
			if last {
				list.SetAt(*seg.Index, value)
				return nil
			}
			elem := list.At(*seg.Index)
			if elem.Kind() != KindMap {
				return &ProjectionTypeError{Path: seg.Key, Reason: "expected mapping at indexed list element"}
			}
			cur = elem

		default:
			if last {
				m.Set(seg.Key, value)
				return nil
			}
			next, ok := m.Get(seg.Key)
			if !ok {
				next = EmptyMap()
				m.Set(seg.Key, next)
			} else if next.Kind() != KindMap {
				return &ProjectionTypeError{Path: seg.Key, Reason: "expected mapping at '" + seg.Key + "'"}
			}
			cur = next
		}
	}
	return nil
}

// navigateQueryWithIndex implements case (A): among list elements matching
// query, select the element at position index, appending placeholder
// elements pre-populated with the predicate's key==value pairs until
// enough matches exist.
func navigateQueryWithIndex(m *OrderedMap, seg Segment, last bool, value Document) (Document, error) {
	list := ensureList(m, seg.Key)

	matches := matchingIndices(list, *seg.Query)
	for len(matches) <= *seg.Index {
		elem := placeholderFor(*seg.Query)
		list.Append(elem)
		matches = append(matches, list.Len()-1)
	}

	target := matches[*seg.Index]
	if last {
		list.SetAt(target, value)
		return Document{}, nil
	}
	elem := list.At(target)
	if elem.Kind() != KindMap {
		return Document{}, &ProjectionTypeError{Path: seg.Key, Reason: "expected mapping at queried list element"}
	}
	return elem, nil
}

// navigateQueryOnly implements case (B): if no element matches, append a
// placeholder pre-populated with the predicates; otherwise write/recurse
// into every matched index, not just the first. A query without an index
// addresses the whole matched group, so a manifest entry that targets it
// lands on each matching element.
func navigateQueryOnly(m *OrderedMap, seg Segment, rest []Segment, value Document) error {
	list := ensureList(m, seg.Key)

	matches := matchingIndices(list, *seg.Query)
	if len(matches) == 0 {
		list.Append(placeholderFor(*seg.Query))
		matches = []int{list.Len() - 1}
	}

	for _, target := range matches {
		if len(rest) == 0 {
			list.SetAt(target, value)
			continue
		}
		elem := list.At(target)
		if elem.Kind() != KindMap {
			return &ProjectionTypeError{Path: seg.Key, Reason: "expected mapping at queried list element"}
		}
		if err := insertQuery(elem, rest, value); err != nil {
			return err
		}
	}
	return nil
}

func ensureList(m *OrderedMap, key string) Document {
	list, ok := m.Get(key)
	if !ok {
		list = NewList(nil)
		m.Set(key, list)
	}
	return list
}

// matchingIndices returns the indices of list's elements whose fields
// satisfy every predicate of q.
func matchingIndices(list Document, q Query) []int {
	var out []int
	for i := 0; i < list.Len(); i++ {
		elem := list.At(i)
		if elem.Kind() != KindMap {
			continue
		}
		if q.Matches(elem.Map()) {
			out = append(out, i)
		}
	}
	return out
}

// placeholderFor builds a fresh mapping pre-populated with a query's
// key==literal pairs, so this same query on a subsequent manifest entry
// finds it as a match.
func placeholderFor(q Query) Document {
	m := NewOrderedMap()
	for _, p := range q.Predicates {
		m.Set(p.Key, NewScalar(p.Literal))
	}
	return NewMap(m)
}
