package projection

import "testing"

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	m := NewOrderedMap()
	m.Set("z", NewScalar("1"))
	m.Set("a", NewScalar("2"))
	m.Set("m", NewScalar("3"))

	want := []string{"z", "a", "m"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("got %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOrderedMapOverwritePreservesPosition(t *testing.T) {
	m := NewOrderedMap()
	m.Set("a", NewScalar("1"))
	m.Set("b", NewScalar("2"))
	m.Set("a", NewScalar("3"))

	if got := m.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected position of 'a' preserved, got %v", got)
	}
	v, _ := m.Get("a")
	if v.Scalar() != "3" {
		t.Errorf("got %v, want overwritten value %q", v.Scalar(), "3")
	}
}

func TestJSONRoundTripPreservesKeyOrder(t *testing.T) {
	raw := `{"z":1,"a":2,"nested":{"y":true,"x":false}}`
	doc, err := DecodeJSON([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	b, err := doc.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != raw {
		t.Errorf("got %s, want %s", b, raw)
	}
}

func TestDocumentEqual(t *testing.T) {
	a, _ := DecodeJSON([]byte(`{"x":1,"y":[1,2,"s"]}`))
	b, _ := DecodeJSON([]byte(`{"y":[1,2,"s"],"x":1}`))
	if !a.Equal(b) {
		t.Errorf("expected documents with same fields in different insertion order to be equal")
	}

	c, _ := DecodeJSON([]byte(`{"x":1,"y":[1,2,"different"]}`))
	if a.Equal(c) {
		t.Errorf("expected documents with different list contents to be unequal")
	}
}

func TestDocumentCloneIsIndependent(t *testing.T) {
	orig, _ := DecodeJSON([]byte(`{"items":[1,2,3]}`))
	clone := orig.Clone()

	items, _ := orig.Map().Get("items")
	items.Append(NewScalar(float64(4)))

	cloneItems, _ := clone.Map().Get("items")
	if cloneItems.Len() != 3 {
		t.Errorf("clone was mutated by original's append: got len %d, want 3", cloneItems.Len())
	}
}
