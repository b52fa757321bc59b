package property

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
	byID     map[uuid.UUID]*Property
	availErr error
}

func (f *fakeRepo) List(ctx context.Context) ([]Property, error) {
	out := []Property{}
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, nil
}

func (f *fakeRepo) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]Property, error) {
	return nil, nil
}

func (f *fakeRepo) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	if f.availErr != nil {
		return f.availErr
	}
	p, ok := f.byID[id]
	if !ok {
		return ErrPropertyNotFound
	}
	p.Available = available
	return nil
}

type fakeSnapshots struct {
	rev        uint64
	properties []Property
	refreshed  int
}

func (f *fakeSnapshots) Properties() (uint64, []Property) { return f.rev, f.properties }

func (f *fakeSnapshots) Refresh(ctx context.Context) error {
	f.refreshed++
	return nil
}

func passthroughAuth(next http.Handler) http.Handler { return next }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func TestListServesFilteredSnapshot(t *testing.T) {
	snaps := &fakeSnapshots{rev: 1, properties: fixtureProperties()}
	h := NewHandler(&fakeRepo{}, snaps)
	srv := h.Routes(passthroughAuth)

	req := httptest.NewRequest(http.MethodGet, "/?city=Leeds", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	var data struct {
		Items []PropertyResponse `json:"items"`
		Total int                `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("bad data: %v", err)
	}
	if data.Total != 2 {
		t.Fatalf("expected 2 Leeds properties, got %d", data.Total)
	}
	for _, item := range data.Items {
		if item.City != "Leeds" {
			t.Fatalf("unexpected city %q", item.City)
		}
	}
}

func TestGetByIDReturns404ForUnknownProperty(t *testing.T) {
	h := NewHandler(&fakeRepo{byID: map[uuid.UUID]*Property{}}, &fakeSnapshots{})
	srv := h.Routes(passthroughAuth)

	req := httptest.NewRequest(http.MethodGet, "/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSetAvailabilityRequiresBody(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepo{byID: map[uuid.UUID]*Property{id: {ID: id, Available: true}}}
	h := NewHandler(repo, &fakeSnapshots{})
	srv := h.Routes(passthroughAuth)

	req := httptest.NewRequest(http.MethodPatch, "/"+id.String()+"/availability", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestSetAvailabilityFlipsFlagAndRefreshesSnapshot(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepo{byID: map[uuid.UUID]*Property{id: {ID: id, Available: true}}}
	snaps := &fakeSnapshots{}
	h := NewHandler(repo, snaps)
	srv := h.Routes(passthroughAuth)

	req := httptest.NewRequest(http.MethodPatch, "/"+id.String()+"/availability", bytes.NewBufferString(`{"available": false}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if repo.byID[id].Available {
		t.Fatal("expected availability to be switched off")
	}
	if snaps.refreshed != 1 {
		t.Fatalf("expected 1 snapshot refresh, got %d", snaps.refreshed)
	}
}
