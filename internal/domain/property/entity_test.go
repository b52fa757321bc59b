package property

import "testing"

func TestComposedAddressJoinsSegmentsInOrder(t *testing.T) {
	p := Property{
		HouseAddress: "12 Harbour Street",
		Locality:     "Old Town",
		City:         "Whitby",
		County:       "North Yorkshire",
		Postcode:     "YO21 3PR",
		Country:      "United Kingdom",
		FullAddress:  "should not be used",
	}

	want := "12 Harbour Street, Old Town, Whitby, North Yorkshire, YO21 3PR, United Kingdom"
	if got := p.ComposedAddress(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestComposedAddressOmitsEmptySegments(t *testing.T) {
	p := Property{
		HouseAddress: "4 Mill Lane",
		City:         "Leeds",
		Postcode:     "LS1 4AB",
		FullAddress:  "legacy address",
	}

	want := "4 Mill Lane, Leeds, LS1 4AB"
	if got := p.ComposedAddress(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestComposedAddressFallsBackOnlyWhenAllSegmentsEmpty(t *testing.T) {
	p := Property{FullAddress: "7 Station Road, York, YO1 6HT"}
	if got := p.ComposedAddress(); got != "7 Station Road, York, YO1 6HT" {
		t.Fatalf("expected legacy fallback, got %q", got)
	}

	// A single structured segment suppresses the fallback
	p.City = "York"
	if got := p.ComposedAddress(); got != "York" {
		t.Fatalf("expected %q, got %q", "York", got)
	}
}

func TestComposedAddressTrimsWhitespaceSegments(t *testing.T) {
	p := Property{
		HouseAddress: "  ",
		City:         " Leeds ",
		FullAddress:  "fallback",
	}
	if got := p.ComposedAddress(); got != "Leeds" {
		t.Fatalf("expected %q, got %q", "Leeds", got)
	}
}
