package projection

import "testing"

func TestParsePath(t *testing.T) {
	cases := []struct {
		name string
		path string
		want []Segment
	}{
		{
			name: "plain nested keys",
			path: "$.a.b.c",
			want: []Segment{{Key: "a"}, {Key: "b"}, {Key: "c"}},
		},
		{
			name: "index segment",
			path: "$.a.b[3].c",
			want: []Segment{{Key: "a"}, {Key: "b", Index: intPtr(3)}, {Key: "c"}},
		},
		{
			name: "query segment",
			path: "$.reports[?(@.title=='R')].name",
			want: []Segment{
				{Key: "reports", Query: &Query{Predicates: []Predicate{{Key: "title", Literal: "R"}}}},
				{Key: "name"},
			},
		},
		{
			name: "query with two predicates and numeric literal",
			path: "$.a.b[3].c[?(@.x=='v' && @.y==2)].d",
			want: []Segment{
				{Key: "a"},
				{Key: "b", Index: intPtr(3)},
				{Key: "c", Query: &Query{Predicates: []Predicate{
					{Key: "x", Literal: "v"},
					{Key: "y", Literal: float64(2)},
				}}},
				{Key: "d"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePath(tc.path)
			if err != nil {
				t.Fatalf("ParsePath(%q) error: %v", tc.path, err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d segments, want %d", len(got), len(tc.want))
			}
			for i := range got {
				assertSegmentEqual(t, i, got[i], tc.want[i])
			}
		})
	}
}

func assertSegmentEqual(t *testing.T, i int, got, want Segment) {
	t.Helper()
	if got.Key != want.Key {
		t.Errorf("segment %d: key = %q, want %q", i, got.Key, want.Key)
	}
	if (got.Index == nil) != (want.Index == nil) {
		t.Errorf("segment %d: index presence mismatch", i)
	} else if got.Index != nil && *got.Index != *want.Index {
		t.Errorf("segment %d: index = %d, want %d", i, *got.Index, *want.Index)
	}
	if (got.Query == nil) != (want.Query == nil) {
		t.Errorf("segment %d: query presence mismatch", i)
		return
	}
	if got.Query == nil {
		return
	}
	if len(got.Query.Predicates) != len(want.Query.Predicates) {
		t.Fatalf("segment %d: got %d predicates, want %d", i, len(got.Query.Predicates), len(want.Query.Predicates))
	}
	for j, p := range got.Query.Predicates {
		wp := want.Query.Predicates[j]
		if p.Key != wp.Key || p.Literal != wp.Literal {
			t.Errorf("segment %d predicate %d: got %+v, want %+v", i, j, p, wp)
		}
	}
}

func TestParsePathRejectsMalformed(t *testing.T) {
	cases := []string{
		"a.b",        // missing leading '$'
		"$a.b",       // missing '.' after root
		"$.a[x]",     // non-numeric index
		"$.a[?(bad)]", // predicate missing '@.'
	}
	for _, p := range cases {
		if _, err := ParsePath(p); err == nil {
			t.Errorf("ParsePath(%q): expected error, got nil", p)
		}
	}
}

func intPtr(i int) *int { return &i }
