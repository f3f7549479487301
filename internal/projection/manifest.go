package projection

import (
	"fmt"
	"regexp"
	"strings"
)

// ManifestEntry is one (outputPath, value) pair the writer will place into
// the projected document.
type ManifestEntry struct {
	Path  string
	Value Document
}

// FilterKind discriminates the single filter kind this engine recognizes.
// Unknown filter kinds are logged and skipped per the error handling
// design; this implementation only ever produces FilterUnique.
type FilterKind string

// FilterUnique requests that the list at Path be deduplicated, per §4.5.
const FilterUnique FilterKind = "UNIQUE"

// Filter is one post-projection transform to apply after the writer runs.
type Filter struct {
	Kind FilterKind
	Path string
}

// BuildManifest applies rules, in order, to the flattened form of data and
// returns the resulting manifest entries plus the collected filter
// descriptors. Rules are processed one after another, sharing only the
// iterate cursor per target list; a rule that carries more than one
// discriminator contributes under each.
func BuildManifest(data Document, rules []Rule) ([]ManifestEntry, []Filter) {
	flat := Flatten(data)

	var manifest []ManifestEntry
	var filters []Filter
	iterateCursors := make(map[string]int)

	for _, rule := range rules {
		if !rule.IsRecognized() {
			continue
		}
		if rule.HasSource() {
			manifest = append(manifest, buildSource(flat, rule)...)
		}
		if rule.HasCheckMatch() {
			if entry, ok := buildCheckMatch(flat, rule); ok {
				manifest = append(manifest, entry)
			}
		}
		if rule.HasIterate() {
			manifest = append(manifest, buildIterate(flat, rule, iterateCursors)...)
		}
		if rule.HasFilterUnique() {
			filters = append(filters, Filter{Kind: FilterUnique, Path: rule.FilterUnique})
		}
	}

	return manifest, filters
}

// buildSource implements the source rule: copy the value at every flat
// path equal to rule.Source to rule.Target.
func buildSource(flat []FlatPair, rule Rule) []ManifestEntry {
	var entries []ManifestEntry
	for _, fp := range flat {
		if fp.Path == rule.Source {
			entries = append(entries, ManifestEntry{Path: rule.Target, Value: fp.Value})
		}
	}
	return entries
}

// buildCheckMatch implements the check_match rule, generalized (per the
// documented REDESIGN FLAG) to "all prefix groups produce identical
// (suffix,value) sets" rather than the two-prefix count law the original
// relies on. Returns ok=false when no candidate matched any prefix, in
// which case the rule emits nothing.
func buildCheckMatch(flat []FlatPair, rule Rule) (ManifestEntry, bool) {
	prefixes := rule.CheckMatch
	if len(prefixes) == 0 {
		return ManifestEntry{}, false
	}

	groups := make([]map[string]Document, len(prefixes))
	any := false
	for i, prefix := range prefixes {
		g := make(map[string]Document)
		for _, fp := range flat {
			if strings.Contains(fp.Path, prefix) {
				g[suffix(fp.Path, prefix)] = fp.Value
				any = true
			}
		}
		groups[i] = g
	}
	if !any {
		return ManifestEntry{}, false
	}

	match := true
	first := groups[0]
	for _, g := range groups[1:] {
		if !sameSuffixValueSet(first, g) {
			match = false
			break
		}
	}

	return ManifestEntry{Path: rule.Target, Value: NewScalar(match)}, true
}

func sameSuffixValueSet(a, b map[string]Document) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		ov, ok := b[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// buildIterate implements the iterate rule. cursors carries the next
// starting target index per target-list path across rules in the same
// manifest build (not across engine invocations), so that a later iterate
// rule sharing the same target_list begins past the block the earlier
// rule wrote — the per-rule sourceSeen/targetCursor state itself stays
// local to this call, per §9's encapsulation note.
func buildIterate(flat []FlatPair, rule Rule, cursors map[string]int) []ManifestEntry {
	it := rule.Iterate
	sourceList := it.SourceList
	targetList := it.TargetList

	tokenRe := regexp.MustCompile("^" + regexp.QuoteMeta(sourceList) + `\[\d+\]`)

	targetCursor := cursors[targetList]
	seen := make(map[string]bool)
	sawAny := false

	var entries []ManifestEntry
	for _, fp := range flat {
		if !strings.HasPrefix(fp.Path, sourceList) {
			continue
		}
		for _, m := range it.Mappings {
			if !strings.Contains(fp.Path, m.Source) {
				continue
			}
			token := tokenRe.FindString(fp.Path)
			if token == "" {
				continue
			}
			if !seen[token] {
				if sawAny {
					targetCursor++
				}
				seen[token] = true
				sawAny = true
			}
			entries = append(entries, ManifestEntry{
				Path:  fmt.Sprintf("%s[%d]%s", targetList, targetCursor, m.Target),
				Value: fp.Value,
			})
		}
	}

	targetCursor++
	cursors[targetList] = targetCursor
	return entries
}
