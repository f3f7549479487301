package projection

import "testing"

func TestSourceRuleExactness(t *testing.T) {
	data, _ := DecodeJSON([]byte(`{"xs":[{"k":"a"},{"k":"a"},{"k":"b"}]}`))
	rules, _ := ParseRules([]byte(`[{"source":"$.xs[1].k","target":"$.out"}]`))

	manifest, _ := BuildManifest(data, rules)
	if len(manifest) != 1 {
		t.Fatalf("got %d manifest entries, want 1", len(manifest))
	}
	if manifest[0].Value.Scalar() != "a" {
		t.Errorf("got value %v, want %q", manifest[0].Value.Scalar(), "a")
	}
}

func TestIterateCursorMonotonicity(t *testing.T) {
	data, _ := DecodeJSON([]byte(`{"xs":[{"k":"a"},{"k":"b"},{"k":"c"},{"k":"d"}]}`))
	rules, _ := ParseRules([]byte(`[{"iterate":{"source_list":"$.xs","target_list":"$.ys","mappings":[{"source":".k","target":".key"}]}}]`))

	manifest, _ := BuildManifest(data, rules)
	wantPaths := []string{"$.ys[0].key", "$.ys[1].key", "$.ys[2].key", "$.ys[3].key"}
	if len(manifest) != len(wantPaths) {
		t.Fatalf("got %d entries, want %d: %+v", len(manifest), len(wantPaths), manifest)
	}
	for i, want := range wantPaths {
		if manifest[i].Path != want {
			t.Errorf("entry %d: got path %q, want %q", i, manifest[i].Path, want)
		}
	}
}

func TestIterateSharedTargetListContinuesCursor(t *testing.T) {
	data, _ := DecodeJSON([]byte(`{"xs":[{"k":"a"}],"ws":[{"k":"b"},{"k":"c"}]}`))
	rules, _ := ParseRules([]byte(`[
		{"iterate":{"source_list":"$.xs","target_list":"$.ys","mappings":[{"source":".k","target":".key"}]}},
		{"iterate":{"source_list":"$.ws","target_list":"$.ys","mappings":[{"source":".k","target":".key"}]}}
	]`))

	manifest, _ := BuildManifest(data, rules)
	wantPaths := []string{"$.ys[0].key", "$.ys[1].key", "$.ys[2].key"}
	if len(manifest) != len(wantPaths) {
		t.Fatalf("got %d entries, want %d: %+v", len(manifest), len(wantPaths), manifest)
	}
	for i, want := range wantPaths {
		if manifest[i].Path != want {
			t.Errorf("entry %d: got path %q, want %q", i, manifest[i].Path, want)
		}
	}
}

func TestCheckMatchEmptyWhenNoPrefixMatches(t *testing.T) {
	data, _ := DecodeJSON([]byte(`{"other":1}`))
	rules, _ := ParseRules([]byte(`[{"check_match":["$.A","$.B"],"target":"$.same"}]`))

	manifest, _ := BuildManifest(data, rules)
	if len(manifest) != 0 {
		t.Fatalf("expected no manifest entries, got %+v", manifest)
	}
}

func TestCheckMatchGeneralizesBeyondTwoPrefixes(t *testing.T) {
	data, _ := DecodeJSON([]byte(`{"A":{"x":1},"B":{"x":1},"C":{"x":1}}`))
	rules, _ := ParseRules([]byte(`[{"check_match":["$.A","$.B","$.C"],"target":"$.same"}]`))

	manifest, _ := BuildManifest(data, rules)
	if len(manifest) != 1 {
		t.Fatalf("got %d entries, want 1", len(manifest))
	}
	if manifest[0].Value.Scalar() != true {
		t.Errorf("got %v, want true", manifest[0].Value.Scalar())
	}
}
