package projection

import "testing"

func TestFlattenTotality(t *testing.T) {
	cases := []struct {
		name  string
		data  string
		paths []string
	}{
		{
			name:  "nested mapping",
			data:  `{"a":{"b":"x","c":1}}`,
			paths: []string{"$.a.b", "$.a.c"},
		},
		{
			name:  "list of mappings",
			data:  `{"xs":[{"k":"a"},{"k":"b"}]}`,
			paths: []string{"$.xs[0].k", "$.xs[1].k"},
		},
		{
			name:  "empty mapping and list yield nothing",
			data:  `{"a":{},"b":[],"c":1}`,
			paths: []string{"$.c"},
		},
		{
			name:  "null leaf still counts",
			data:  `{"a":null}`,
			paths: []string{"$.a"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := DecodeJSON([]byte(tc.data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			pairs := Flatten(doc)
			if len(pairs) != len(tc.paths) {
				t.Fatalf("got %d pairs, want %d: %+v", len(pairs), len(tc.paths), pairs)
			}
			for i, want := range tc.paths {
				if pairs[i].Path != want {
					t.Errorf("pair %d: got path %q, want %q", i, pairs[i].Path, want)
				}
			}
		})
	}
}

func TestSuffix(t *testing.T) {
	cases := []struct {
		p, prefix, want string
	}{
		{"$.A.x", "$.A", ".x"},
		{"$.B.x", "$.B", ".x"},
		{"$.nomatch.x", "$.Z", "$.nomatch.x"},
	}
	for _, tc := range cases {
		if got := suffix(tc.p, tc.prefix); got != tc.want {
			t.Errorf("suffix(%q, %q) = %q, want %q", tc.p, tc.prefix, got, tc.want)
		}
	}
}
