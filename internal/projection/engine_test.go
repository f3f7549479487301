package projection

import (
	"encoding/json"
	"testing"
)

type projectCase struct {
	name     string
	data     string
	rules    string
	expected string
}

var scenarioCases = []projectCase{
	{
		name:     "scenario A point copy",
		data:     `{"a":{"b":"x"}}`,
		rules:    `[{"source":"$.a.b","target":"$.out"}]`,
		expected: `{"out":"x"}`,
	},
	{
		name: "scenario B predicate populate-and-match",
		data: `{"name":"r1","val":42}`,
		rules: `[
			{"source":"$.name","target":"$.reports[?(@.title=='R')].name"},
			{"source":"$.val","target":"$.reports[?(@.title=='R')].val"}
		]`,
		expected: `{"reports":[{"title":"R","name":"r1","val":42}]}`,
	},
	{
		name:     "scenario C iterate over list",
		data:     `{"xs":[{"k":"a"},{"k":"b"},{"k":"c"}]}`,
		rules:    `[{"iterate":{"source_list":"$.xs","target_list":"$.ys","mappings":[{"source":".k","target":".key"}]}}]`,
		expected: `{"ys":[{"key":"a"},{"key":"b"},{"key":"c"}]}`,
	},
	{
		name:     "scenario D check_match true",
		data:     `{"A":{"x":1,"y":2},"B":{"x":1,"y":2}}`,
		rules:    `[{"check_match":["$.A","$.B"],"target":"$.same"}]`,
		expected: `{"same":true}`,
	},
	{
		name:     "scenario E check_match false",
		data:     `{"A":{"x":1},"B":{"x":2}}`,
		rules:    `[{"check_match":["$.A","$.B"],"target":"$.same"}]`,
		expected: `{"same":false}`,
	},
	{
		name:     "scenario F filter_unique",
		data:     `{"items":[1,1,2,3,3]}`,
		rules:    `[{"iterate":{"source_list":"$.items","target_list":"$.out.items","mappings":[{"source":"","target":""}]}},{"filter_unique":"$.out.items"}]`,
		expected: `{"out":{"items":[1,2,3]}}`,
	},
}

func TestProjectScenarios(t *testing.T) {
	for _, tc := range scenarioCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := DecodeJSON([]byte(tc.data))
			if err != nil {
				t.Fatalf("decode data: %v", err)
			}
			rules, err := ParseRules([]byte(tc.rules))
			if err != nil {
				t.Fatalf("parse rules: %v", err)
			}

			got, err := Project(data, rules)
			if err != nil {
				t.Fatalf("project: %v", err)
			}

			gotJSON, err := json.Marshal(got)
			if err != nil {
				t.Fatalf("marshal result: %v", err)
			}

			wantDoc, err := DecodeJSON([]byte(tc.expected))
			if err != nil {
				t.Fatalf("decode expected: %v", err)
			}
			wantJSON, err := json.Marshal(wantDoc)
			if err != nil {
				t.Fatalf("marshal expected: %v", err)
			}

			if string(gotJSON) != string(wantJSON) {
				t.Errorf("project(%s) = %s, want %s", tc.name, gotJSON, wantJSON)
			}
		})
	}
}

// TestProjectEmptyManifestYieldsEmptyMapping covers §6's "never throws on
// well-formed inputs; returns {} when nothing is emitted" contract.
func TestProjectEmptyManifestYieldsEmptyMapping(t *testing.T) {
	data, _ := DecodeJSON([]byte(`{"a":1}`))
	rules, _ := ParseRules([]byte(`[{"source":"$.nope","target":"$.out"}]`))

	got, err := Project(data, rules)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if got.Map().Len() != 0 {
		t.Errorf("expected empty mapping, got %d keys", got.Map().Len())
	}
}

// TestProjectQueryIdempotence covers property 3: running Project twice on
// the same inputs yields byte-equal output modulo key order, which this
// engine makes exact since key order is itself deterministic.
func TestProjectQueryIdempotence(t *testing.T) {
	data, _ := DecodeJSON([]byte(scenarioCases[1].data))
	rules, _ := ParseRules([]byte(scenarioCases[1].rules))

	first, err := Project(data, rules)
	if err != nil {
		t.Fatalf("project (first): %v", err)
	}
	second, err := Project(data, rules)
	if err != nil {
		t.Fatalf("project (second): %v", err)
	}

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if string(firstJSON) != string(secondJSON) {
		t.Errorf("project is not idempotent: %s != %s", firstJSON, secondJSON)
	}
}

// TestProjectQueryWithoutIndexWritesEveryMatch covers §4.4 case (B): a
// query-without-index target must write through every list element
// satisfying the predicate, not only the first one populated.
func TestProjectQueryWithoutIndexWritesEveryMatch(t *testing.T) {
	data, err := DecodeJSON([]byte(`{"a":"first","b":"second","c":"shared"}`))
	if err != nil {
		t.Fatalf("decode data: %v", err)
	}
	rules, err := ParseRules([]byte(`[
		{"source":"$.a","target":"$.reports[?(@.title=='R')][0].status"},
		{"source":"$.b","target":"$.reports[?(@.title=='R')][1].status"},
		{"source":"$.c","target":"$.reports[?(@.title=='R')].flag"}
	]`))
	if err != nil {
		t.Fatalf("parse rules: %v", err)
	}

	got, err := Project(data, rules)
	if err != nil {
		t.Fatalf("project: %v", err)
	}

	gotJSON, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}

	want := `{"reports":[{"title":"R","status":"first","flag":"shared"},{"title":"R","status":"second","flag":"shared"}]}`
	wantDoc, err := DecodeJSON([]byte(want))
	if err != nil {
		t.Fatalf("decode expected: %v", err)
	}
	wantJSON, err := json.Marshal(wantDoc)
	if err != nil {
		t.Fatalf("marshal expected: %v", err)
	}

	if string(gotJSON) != string(wantJSON) {
		t.Errorf("project() = %s, want %s", gotJSON, wantJSON)
	}
}
