package projection

import "log"

// ApplyFilters runs each filter's post-projection transform against root
// in order. An unrecognized filter kind is logged and skipped rather than
// failing the whole projection, per the error handling design.
func ApplyFilters(root Document, filters []Filter) error {
	for _, f := range filters {
		switch f.Kind {
		case FilterUnique:
			if err := dedupeAt(root, f.Path); err != nil {
				return err
			}
		default:
			log.Printf("projection: unknown filter kind %q at %q, skipping", f.Kind, f.Path)
		}
	}
	return nil
}

// dedupeAt walks path (which may carry predicate queries) down to its
// final list and removes duplicate elements per §4.5: mapping elements
// dedupe by their full set of (key,value) entries, everything else
// dedupes as scalars preserving first-seen order.
func dedupeAt(root Document, path string) error {
	list, err := navigateToList(root, path)
	if err != nil {
		return err
	}
	if list.Kind() != KindList {
		return &ProjectionTypeError{Path: path, Reason: "filter_unique target is not a list"}
	}

	items := list.List()
	var kept []Document
	var seenMaps []Document
	seenScalars := make(map[string]bool)

	for _, item := range items {
		if item.Kind() == KindMap {
			duplicate := false
			for _, s := range seenMaps {
				if s.Equal(item) {
					duplicate = true
					break
				}
			}
			if !duplicate {
				seenMaps = append(seenMaps, item)
				kept = append(kept, item)
			}
			continue
		}

		key := scalarDedupeKey(item)
		if !seenScalars[key] {
			seenScalars[key] = true
			kept = append(kept, item)
		}
	}

	replaceListItems(list, kept)
	return nil
}

func scalarDedupeKey(d Document) string {
	b, err := d.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// replaceListItems swaps list's backing elements for items in place, so
// every existing reference to the list (e.g. the one held by its parent
// mapping) observes the deduplicated contents.
func replaceListItems(list Document, items []Document) {
	list.list.items = items
}

// navigateToList walks path down to the Document it addresses, reusing the
// query navigator so a filter_unique path may itself carry predicate
// queries (e.g. "$.reports[?(@.title=='R')].items"). A path that addresses
// nothing in root (a missing key, no matching element, an index past the
// end) yields a detached empty list, so the filter leaves root unchanged.
func navigateToList(root Document, path string) (Document, error) {
	segments, err := ParsePath(path)
	if err != nil {
		return Document{}, err
	}

	cur := root
	for i, seg := range segments {
		last := i == len(segments)-1
		m := cur.Map()
		if m == nil {
			return Document{}, &ProjectionTypeError{Path: path, Reason: "expected mapping"}
		}

		switch {
		case seg.Query != nil:
			list, ok := m.Get(seg.Key)
			if !ok {
				return NewList(nil), nil
			}
			matches := matchingIndices(list, *seg.Query)
			if len(matches) == 0 || (seg.Index != nil && *seg.Index >= len(matches)) {
				return NewList(nil), nil
			}
			idx := matches[0]
			if seg.Index != nil {
				idx = matches[*seg.Index]
			}
			if last {
				return list.At(idx), nil
			}
			cur = list.At(idx)

		case seg.Index != nil:
			list, ok := m.Get(seg.Key)
			if !ok || list.Kind() != KindList || *seg.Index >= list.Len() {
				return NewList(nil), nil
			}
			if last {
				return list.At(*seg.Index), nil
			}
			cur = list.At(*seg.Index)

		default:
			next, ok := m.Get(seg.Key)
			if !ok {
				return NewList(nil), nil
			}
			if last {
				return next, nil
			}
			cur = next
		}
	}
	return cur, nil
}
