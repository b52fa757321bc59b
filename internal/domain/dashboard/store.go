package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/workstays/workstays-api/internal/domain/booking"
	"github.com/workstays/workstays-api/internal/domain/property"
)

// Snapshot is one immutable view of the directory data. Rev increments on
// every rebuild and every reducer step, so filter memos keyed on it
// invalidate exactly when the data changes.
type Snapshot struct {
	Rev        uint64
	Properties []property.Property
	Bookings   []booking.ExpandedBooking
	FetchedAt  time.Time
}

// PropertyLister loads the property collection
type PropertyLister interface {
	List(ctx context.Context) ([]property.Property, error)
}

// BookingLister produces the expanded directory rows
type BookingLister interface {
	List(ctx context.Context) []booking.ExpandedBooking
}

// Store holds the current snapshot and swaps it atomically. Readers always
// see a consistent pair of collections; a slow filter pass never observes
// half a refresh.
type Store struct {
	properties PropertyLister
	bookings   BookingLister

	mu   sync.RWMutex
	snap Snapshot
}

// NewStore creates the snapshot store. It starts empty; call Refresh to
// load the first snapshot.
func NewStore(properties PropertyLister, bookings BookingLister) *Store {
	return &Store{properties: properties, bookings: bookings}
}

// Current returns the snapshot as of the last refresh
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Properties serves the property filter engine
func (s *Store) Properties() (uint64, []property.Property) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Rev, s.snap.Properties
}

// Bookings serves the booking filter engine
func (s *Store) Bookings() (uint64, []booking.ExpandedBooking) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Rev, s.snap.Bookings
}

// Refresh rebuilds the snapshot from both sources. The booking side never
// fails by contract; a property read failure keeps the previous property
// collection, swaps everything else and reports the error.
func (s *Store) Refresh(ctx context.Context) error {
	bookings := s.bookings.List(ctx)
	props, err := s.properties.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		props = s.snap.Properties
	}
	s.snap = Snapshot{
		Rev:        s.snap.Rev + 1,
		Properties: props,
		Bookings:   bookings,
		FetchedAt:  time.Now(),
	}
	return err
}

// RefreshIfStale refreshes only when the snapshot is older than maxAge.
// Returns whether a refresh ran, so callers can tell a throttled request
// from a served one.
func (s *Store) RefreshIfStale(ctx context.Context, maxAge time.Duration) (bool, error) {
	s.mu.RLock()
	fresh := !s.snap.FetchedAt.IsZero() && time.Since(s.snap.FetchedAt) < maxAge
	s.mu.RUnlock()

	if fresh {
		return false, nil
	}
	return true, s.Refresh(ctx)
}

// MarkAssigned flips one directory row to its assigned state without
// waiting for a full refresh. The row is matched by date id and rebuilt
// into a fresh snapshot, leaving the previous one untouched for readers
// still holding it.
func (s *Store) MarkAssigned(dateID uuid.UUID, prop booking.PropertyRef) {
	if dateID == uuid.Nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	touched := false
	rows := make([]booking.ExpandedBooking, len(s.snap.Bookings))
	copy(rows, s.snap.Bookings)

	for i := range rows {
		if rows[i].Ref.DateID != dateID {
			continue
		}

		row := rows[i]
		p := prop
		row.Property = &p
		row.Status = booking.StatusPropertyAssigned

		if len(row.Dates) > 0 {
			dates := make([]booking.BookingDate, len(row.Dates))
			copy(dates, row.Dates)
			for j := range dates {
				if dates[j].ID == dateID {
					dates[j].Status = booking.StatusPropertyAssigned
					dates[j].BookedPropertyID = uuid.NullUUID{UUID: prop.ID, Valid: prop.ID != uuid.Nil}
				}
			}
			row.Dates = dates
		}

		rows[i] = row
		touched = true
	}

	if !touched {
		return
	}

	s.snap = Snapshot{
		Rev:        s.snap.Rev + 1,
		Properties: s.snap.Properties,
		Bookings:   rows,
		FetchedAt:  s.snap.FetchedAt,
	}
}
