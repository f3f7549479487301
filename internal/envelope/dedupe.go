package envelope

import "github.com/openlend/reportengine/internal/projection"

// addressFields are the tuple compared for borrower/co-borrower address
// equality, per the original implementation's pre-processing step
// (spec.md §1 names the concern without specifying it; original_source/
// supplies the algorithm).
var addressFields = []string{"line1", "city", "state", "zip"}

// DedupeAddresses walks $.borrowers[] and, for any co-borrower (index > 0)
// whose address tuple equals the primary borrower's (index 0), replaces
// the co-borrower's address sub-document with a same-as-borrower marker
// instead of repeating the fields. doc is not mutated in place; a modified
// copy is returned so callers can keep the original envelope payload
// untouched.
func DedupeAddresses(doc projection.Document) projection.Document {
	if doc.Kind() != projection.KindMap {
		return doc
	}

	borrowersField, ok := doc.Map().Get("borrowers")
	if !ok || borrowersField.Kind() != projection.KindList || borrowersField.Len() == 0 {
		return doc
	}

	out := doc.Clone()
	borrowers, _ := out.Map().Get("borrowers")

	primary := borrowers.At(0)
	primaryAddress, ok := addressOf(primary)
	if !ok {
		return out
	}

	for i := 1; i < borrowers.Len(); i++ {
		co := borrowers.At(i)
		if co.Kind() != projection.KindMap {
			continue
		}
		coAddress, ok := addressOf(co)
		if !ok {
			continue
		}
		if addressesEqual(primaryAddress, coAddress) {
			co.Map().Set("address", sameAsBorrowerMarker())
		}
	}

	return out
}

func addressOf(borrower projection.Document) (*projection.OrderedMap, bool) {
	if borrower.Kind() != projection.KindMap {
		return nil, false
	}
	addr, ok := borrower.Map().Get("address")
	if !ok || addr.Kind() != projection.KindMap {
		return nil, false
	}
	return addr.Map(), true
}

func addressesEqual(a, b *projection.OrderedMap) bool {
	for _, f := range addressFields {
		av, aok := a.Get(f)
		bv, bok := b.Get(f)
		if aok != bok {
			return false
		}
		if aok && !av.Equal(bv) {
			return false
		}
	}
	return true
}

func sameAsBorrowerMarker() projection.Document {
	m := projection.NewOrderedMap()
	m.Set("sameAsBorrower", projection.NewScalar(true))
	return projection.NewMap(m)
}
