package filter

import (
	"strconv"
	"testing"
)

type listing struct {
	City     string
	Bedrooms int
	Parking  bool
}

func listingSet(city string, minBedrooms int, parking bool) *Set[listing] {
	s := &Set[listing]{}
	if city != "" {
		s.Add("city", city, func(l listing) bool { return ContainsFold(l.City, city) })
	}
	if minBedrooms > 0 {
		s.Add("min_bedrooms", strconv.Itoa(minBedrooms), func(l listing) bool { return l.Bedrooms >= minBedrooms })
	}
	if parking {
		s.Add("parking", "true", func(l listing) bool { return l.Parking })
	}
	return s
}

var rows = []listing{
	{City: "Leeds", Bedrooms: 2, Parking: true},
	{City: "Leeds", Bedrooms: 4, Parking: false},
	{City: "York", Bedrooms: 3, Parking: true},
	{City: "Manchester", Bedrooms: 1, Parking: false},
}

func TestApplyCombinesClausesWithAnd(t *testing.T) {
	e := NewEngine[listing]()

	out := e.Apply(1, rows, listingSet("leeds", 2, true))
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].City != "Leeds" || out[0].Bedrooms != 2 {
		t.Fatalf("wrong row matched: %+v", out[0])
	}

	// Loosening one clause widens the result
	out = e.Apply(1, rows, listingSet("leeds", 2, false))
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
}

func TestApplyEmptySetReturnsInputUnchanged(t *testing.T) {
	e := NewEngine[listing]()

	out := e.Apply(1, rows, listingSet("", 0, false))
	if len(out) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(out))
	}
	if &out[0] != &rows[0] {
		t.Fatal("expected the input slice back, got a copy")
	}
}

func TestApplyMemoizesPerRevisionAndFingerprint(t *testing.T) {
	e := NewEngine[listing]()

	first := e.Apply(7, rows, listingSet("leeds", 0, false))
	second := e.Apply(7, rows, listingSet("leeds", 0, false))
	if len(first) == 0 {
		t.Fatal("expected matches")
	}
	if &first[0] != &second[0] {
		t.Fatal("expected memoized slice on repeat call")
	}

	// New revision invalidates the memo even with identical clauses
	third := e.Apply(8, rows, listingSet("leeds", 0, false))
	if &first[0] == &third[0] {
		t.Fatal("expected recomputation after revision change")
	}

	// Changed clause value misses the memo at the same revision
	fourth := e.Apply(8, rows, listingSet("york", 0, false))
	if len(fourth) != 1 || fourth[0].City != "York" {
		t.Fatalf("expected York row, got %+v", fourth)
	}
}

func TestApplyNoMatchesReturnsEmptyNotNil(t *testing.T) {
	e := NewEngine[listing]()

	out := e.Apply(1, rows, listingSet("glasgow", 0, false))
	if out == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(out) != 0 {
		t.Fatalf("expected 0 rows, got %d", len(out))
	}
}

func TestInvalidateDropsMemo(t *testing.T) {
	e := NewEngine[listing]()

	first := e.Apply(3, rows, listingSet("leeds", 0, false))
	e.Invalidate()
	second := e.Apply(3, rows, listingSet("leeds", 0, false))
	if &first[0] == &second[0] {
		t.Fatal("expected recomputation after invalidate")
	}
}

func TestFingerprintReflectsClauseValues(t *testing.T) {
	a := listingSet("leeds", 2, true).Fingerprint()
	b := listingSet("leeds", 3, true).Fingerprint()
	if a == b {
		t.Fatal("expected different fingerprints for different values")
	}

	c := listingSet("leeds", 2, true).Fingerprint()
	if a != c {
		t.Fatalf("expected stable fingerprint, got %q vs %q", a, c)
	}

	if fp := listingSet("", 0, false).Fingerprint(); fp != "" {
		t.Fatalf("expected empty fingerprint for empty set, got %q", fp)
	}
}

func TestFingerprintEscapesSeparatorsInValues(t *testing.T) {
	compound := &Set[listing]{}
	compound.Add("city", "leeds", func(l listing) bool { return ContainsFold(l.City, "leeds") })
	compound.Add("parking", "true", func(l listing) bool { return l.Parking })

	literal := &Set[listing]{}
	literal.Add("city", "leeds;parking=true", func(l listing) bool { return ContainsFold(l.City, "leeds;parking=true") })

	if compound.Fingerprint() == literal.Fingerprint() {
		t.Fatalf("expected distinct fingerprints, both %q", literal.Fingerprint())
	}

	// At the same revision the memo must not serve one set's rows for the other
	e := NewEngine[listing]()
	if out := e.Apply(5, rows, compound); len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out := e.Apply(5, rows, literal); len(out) != 0 {
		t.Fatalf("expected 0 rows for the literal value, got %d", len(out))
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("10 Ocean Drive, Scarborough", "ocean") {
		t.Fatal("expected case-insensitive match")
	}
	if ContainsFold("Leeds", "york") {
		t.Fatal("unexpected match")
	}
}
