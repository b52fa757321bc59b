package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/workstays/workstays-api/internal/domain/booking"
	"github.com/workstays/workstays-api/internal/domain/property"
)

type fakePropertyLister struct {
	props []property.Property
	err   error
	calls int
}

func (f *fakePropertyLister) List(ctx context.Context) ([]property.Property, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.props, nil
}

type fakeBookingLister struct {
	rows  []booking.ExpandedBooking
	calls int
}

func (f *fakeBookingLister) List(ctx context.Context) []booking.ExpandedBooking {
	f.calls++
	return f.rows
}

func pendingRow(requestID, dateID uuid.UUID) booking.ExpandedBooking {
	return booking.ExpandedBooking{
		Ref:            booking.Ref{RequestID: requestID, DateID: dateID},
		ContractorName: "Dave Mills",
		Status:         booking.StatusPending,
		RequestStatus:  booking.StatusPending,
		Dates: []booking.BookingDate{
			{ID: dateID, RequestID: requestID, Status: booking.StatusPending},
		},
	}
}

func TestRefreshSwapsWholeSnapshot(t *testing.T) {
	props := &fakePropertyLister{props: []property.Property{{ID: uuid.New(), Name: "Mill Cottage"}}}
	rows := &fakeBookingLister{rows: []booking.ExpandedBooking{pendingRow(uuid.New(), uuid.New())}}
	store := NewStore(props, rows)

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := store.Current()
	if snap.Rev != 1 || len(snap.Properties) != 1 || len(snap.Bookings) != 1 {
		t.Fatalf("unexpected snapshot: rev=%d props=%d bookings=%d", snap.Rev, len(snap.Properties), len(snap.Bookings))
	}

	rows.rows = nil
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap := store.Current(); snap.Rev != 2 || len(snap.Bookings) != 0 {
		t.Fatalf("expected rev 2 with no bookings, got rev=%d bookings=%d", snap.Rev, len(snap.Bookings))
	}
}

func TestRefreshKeepsPropertiesWhenReadFails(t *testing.T) {
	props := &fakePropertyLister{props: []property.Property{{ID: uuid.New(), Name: "Mill Cottage"}}}
	rows := &fakeBookingLister{}
	store := NewStore(props, rows)

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	props.err = errors.New("connection refused")
	err := store.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected degraded refresh to report the error")
	}

	snap := store.Current()
	if snap.Rev != 2 {
		t.Fatalf("expected rev bump on degraded refresh, got %d", snap.Rev)
	}
	if len(snap.Properties) != 1 || snap.Properties[0].Name != "Mill Cottage" {
		t.Fatalf("expected previous properties kept, got %+v", snap.Properties)
	}
}

func TestMarkAssignedFlipsRowWithoutRefetch(t *testing.T) {
	requestID, dateID := uuid.New(), uuid.New()
	props := &fakePropertyLister{}
	rows := &fakeBookingLister{rows: []booking.ExpandedBooking{pendingRow(requestID, dateID)}}
	store := NewStore(props, rows)
	_ = store.Refresh(context.Background())

	before := store.Current()
	propRef := booking.PropertyRef{ID: uuid.New(), Name: "Harbour View House", Postcode: "YO21 1QN"}

	store.MarkAssigned(dateID, propRef)

	after := store.Current()
	if after.Rev != before.Rev+1 {
		t.Fatalf("expected rev bump, got %d -> %d", before.Rev, after.Rev)
	}

	row := after.Bookings[0]
	if row.Status != booking.StatusPropertyAssigned {
		t.Fatalf("expected property_assigned, got %q", row.Status)
	}
	if row.Property == nil || row.Property.Name != "Harbour View House" {
		t.Fatalf("expected property projection, got %+v", row.Property)
	}
	if row.Dates[0].Status != booking.StatusPropertyAssigned {
		t.Fatalf("expected inner date flipped, got %q", row.Dates[0].Status)
	}

	// No refetch happened and the previous snapshot stayed intact
	if rows.calls != 1 || props.calls != 1 {
		t.Fatalf("expected no refetch, got bookings=%d properties=%d", rows.calls, props.calls)
	}
	if before.Bookings[0].Status != booking.StatusPending || before.Bookings[0].Dates[0].Status != booking.StatusPending {
		t.Fatalf("previous snapshot mutated: %+v", before.Bookings[0])
	}
}

func TestMarkAssignedUnknownDateChangesNothing(t *testing.T) {
	props := &fakePropertyLister{}
	rows := &fakeBookingLister{rows: []booking.ExpandedBooking{pendingRow(uuid.New(), uuid.New())}}
	store := NewStore(props, rows)
	_ = store.Refresh(context.Background())

	before := store.Current()
	store.MarkAssigned(uuid.New(), booking.PropertyRef{ID: uuid.New()})

	if after := store.Current(); after.Rev != before.Rev {
		t.Fatalf("expected rev unchanged, got %d -> %d", before.Rev, after.Rev)
	}
}

func TestRefreshIfStaleThrottles(t *testing.T) {
	props := &fakePropertyLister{}
	rows := &fakeBookingLister{}
	store := NewStore(props, rows)

	ran, err := store.RefreshIfStale(context.Background(), time.Minute)
	if err != nil || !ran {
		t.Fatalf("expected first refresh to run, got ran=%v err=%v", ran, err)
	}

	ran, err = store.RefreshIfStale(context.Background(), time.Minute)
	if err != nil || ran {
		t.Fatalf("expected fresh snapshot to skip refresh, got ran=%v err=%v", ran, err)
	}
	if rows.calls != 1 {
		t.Fatalf("expected one lister call, got %d", rows.calls)
	}
}

func TestSnapshotSourcesShareRevision(t *testing.T) {
	props := &fakePropertyLister{props: []property.Property{{ID: uuid.New()}}}
	rows := &fakeBookingLister{rows: []booking.ExpandedBooking{pendingRow(uuid.New(), uuid.New())}}
	store := NewStore(props, rows)
	_ = store.Refresh(context.Background())

	propRev, properties := store.Properties()
	bookRev, bookings := store.Bookings()

	if propRev != bookRev {
		t.Fatalf("expected both sources on the same rev, got %d and %d", propRev, bookRev)
	}
	if len(properties) != 1 || len(bookings) != 1 {
		t.Fatalf("unexpected collections: props=%d bookings=%d", len(properties), len(bookings))
	}
}
