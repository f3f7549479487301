package projection

import "encoding/json"

// IterateMapping is one {source, target} pair applied to each element of
// an iterate rule's source list.
type IterateMapping struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Iterate describes an iterate rule's source list, target list, and the
// per-element field mappings copied from one to the other.
type Iterate struct {
	SourceList string           `json:"source_list"`
	TargetList string           `json:"target_list"`
	Mappings   []IterateMapping `json:"mappings"`
}

// Rule is a single declarative mapping instruction. A rule may legally
// carry more than one discriminator (e.g. both Source and CheckMatch);
// the manifest builder processes each independently, matching the source
// system's rule schema rather than forcing a single exclusive variant.
type Rule struct {
	Source       string   `json:"source,omitempty"`
	Target       string   `json:"target,omitempty"`
	CheckMatch   []string `json:"check_match,omitempty"`
	Iterate      *Iterate `json:"iterate,omitempty"`
	FilterUnique string   `json:"filter_unique,omitempty"`
}

// HasSource reports whether this rule carries a source→target copy.
func (r Rule) HasSource() bool { return r.Source != "" && r.Target != "" }

// HasCheckMatch reports whether this rule carries a check_match clause.
func (r Rule) HasCheckMatch() bool { return len(r.CheckMatch) > 0 && r.Target != "" }

// HasIterate reports whether this rule carries an iterate clause.
func (r Rule) HasIterate() bool { return r.Iterate != nil }

// HasFilterUnique reports whether this rule declares a post-projection
// dedup filter.
func (r Rule) HasFilterUnique() bool { return r.FilterUnique != "" }

// IsRecognized reports whether r carries at least one of the four
// discriminators; an unrecognized rule is skipped silently per the error
// handling design.
func (r Rule) IsRecognized() bool {
	return r.HasSource() || r.HasCheckMatch() || r.HasIterate() || r.HasFilterUnique()
}

// ParseRules decodes a JSON array of rule objects.
func ParseRules(data []byte) ([]Rule, error) {
	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}
