package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

type fakeRepo struct {
	requests map[uuid.UUID]*BookingRequest
	dates    map[uuid.UUID][]BookingDate
	statuses map[uuid.UUID]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		requests: map[uuid.UUID]*BookingRequest{},
		dates:    map[uuid.UUID][]BookingDate{},
		statuses: map[uuid.UUID]string{},
	}
}

func (f *fakeRepo) RequestByID(ctx context.Context, id uuid.UUID) (*BookingRequest, error) {
	return f.requests[id], nil
}

func (f *fakeRepo) DateByID(ctx context.Context, id uuid.UUID) (*BookingDate, error) {
	for _, dates := range f.dates {
		for i := range dates {
			if dates[i].ID == id {
				return &dates[i], nil
			}
		}
	}
	return nil, nil
}

func (f *fakeRepo) DatesByRequest(ctx context.Context, requestID uuid.UUID) ([]BookingDate, error) {
	return f.dates[requestID], nil
}

func (f *fakeRepo) FirstDateByRequest(ctx context.Context, requestID uuid.UUID) (*BookingDate, error) {
	dates := f.dates[requestID]
	if len(dates) == 0 {
		return nil, nil
	}
	return &dates[0], nil
}

func (f *fakeRepo) UpdateRequestStatus(ctx context.Context, id uuid.UUID, status string) error {
	if _, ok := f.requests[id]; !ok {
		return ErrRequestNotFound
	}
	f.statuses[id] = status
	return nil
}

type fakeSnapshots struct {
	rev       uint64
	bookings  []ExpandedBooking
	refreshed int
}

func (f *fakeSnapshots) Bookings() (uint64, []ExpandedBooking) { return f.rev, f.bookings }

func (f *fakeSnapshots) Refresh(ctx context.Context) error {
	f.refreshed++
	return nil
}

func passthroughAuth(next http.Handler) http.Handler { return next }

func TestListServesFilteredBookings(t *testing.T) {
	snaps := &fakeSnapshots{rev: 1, bookings: fixtureBookings()}
	h := NewHandler(newFakeRepo(), snaps)
	srv := h.Routes(passthroughAuth)

	req := httptest.NewRequest(http.MethodGet, "/?status=active", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			Items []json.RawMessage `json:"items"`
			Total int               `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if !env.Success || env.Data.Total != 1 {
		t.Fatalf("expected 1 active booking, got %d", env.Data.Total)
	}
}

func TestGetRequestReturnsDetailWithDates(t *testing.T) {
	repo := newFakeRepo()
	id := uuid.New()
	repo.requests[id] = &BookingRequest{ID: id, ContractorName: "Dave Mills", Status: StatusPending}
	repo.dates[id] = []BookingDate{{ID: uuid.New(), RequestID: id, StartDate: day("2024-06-01"), EndDate: day("2024-06-05"), Status: StatusPending}}

	h := NewHandler(repo, &fakeSnapshots{})
	srv := h.Routes(passthroughAuth)

	req := httptest.NewRequest(http.MethodGet, "/"+id.String(), nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var env struct {
		Data RequestDetailResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if env.Data.ID != id || len(env.Data.Dates) != 1 {
		t.Fatalf("unexpected detail: %+v", env.Data)
	}
}

func TestUpdateStatusValidatesVocabulary(t *testing.T) {
	repo := newFakeRepo()
	id := uuid.New()
	repo.requests[id] = &BookingRequest{ID: id}

	h := NewHandler(repo, &fakeSnapshots{})
	srv := h.Routes(passthroughAuth)

	req := httptest.NewRequest(http.MethodPatch, "/"+id.String()+"/status", bytes.NewBufferString(`{"status":"bogus"}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestUpdateStatusPersistsAndRefreshes(t *testing.T) {
	repo := newFakeRepo()
	id := uuid.New()
	repo.requests[id] = &BookingRequest{ID: id, Status: StatusPending}
	snaps := &fakeSnapshots{}

	h := NewHandler(repo, snaps)
	srv := h.Routes(passthroughAuth)

	req := httptest.NewRequest(http.MethodPatch, "/"+id.String()+"/status", bytes.NewBufferString(`{"status":"reviewing"}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if repo.statuses[id] != StatusReviewing {
		t.Fatalf("expected persisted status, got %q", repo.statuses[id])
	}
	if snaps.refreshed != 1 {
		t.Fatalf("expected snapshot refresh, got %d", snaps.refreshed)
	}
}

func TestUpdateStatusUnknownRequest404(t *testing.T) {
	h := NewHandler(newFakeRepo(), &fakeSnapshots{})
	srv := h.Routes(passthroughAuth)

	req := httptest.NewRequest(http.MethodPatch, "/"+uuid.NewString()+"/status", bytes.NewBufferString(`{"status":"reviewing"}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
