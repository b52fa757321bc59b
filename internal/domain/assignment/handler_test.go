package assignment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/workstays/workstays-api/internal/domain/booking"
	"github.com/workstays/workstays-api/internal/domain/property"
	"github.com/workstays/workstays-api/internal/pkg/platform"
)

type fakeProperties struct {
	byID map[uuid.UUID]*property.Property
}

func (f *fakeProperties) GetByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	return f.byID[id], nil
}

func passthroughAuth(next http.Handler) http.Handler { return next }

func newTestRouter(svc *Service) http.Handler {
	h := NewHandler(svc, &fakeProperties{byID: map[uuid.UUID]*property.Property{}}, nil)
	return h.Routes(passthroughAuth)
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitEndpointMissingFieldIs422(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)

	form := validForm()
	form.StartDate = ""

	w := postJSON(t, router, "/", form)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("start_date")) {
		t.Fatalf("expected start_date in details: %s", w.Body.String())
	}
}

func TestSubmitEndpointConflictCarriesPlatformCode(t *testing.T) {
	svc, deps := newTestService()
	deps.platform.err = &platform.APIError{Code: platform.CodeDateConflict, Message: "dates clash"}
	router := newTestRouter(svc)

	w := postJSON(t, router, "/", validForm())
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if env.Error.Code != platform.CodeDateConflict || env.Error.Message != "dates clash" {
		t.Fatalf("unexpected error body: %+v", env.Error)
	}
}

func TestSubmitEndpointUnknownPlatformCodePassesMessageThrough(t *testing.T) {
	svc, deps := newTestService()
	deps.platform.err = &platform.APIError{Code: "PROPERTY_RETIRED", Message: "property was retired by its landlord"}
	router := newTestRouter(svc)

	w := postJSON(t, router, "/", validForm())
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("property was retired by its landlord")) {
		t.Fatalf("expected platform message passed through: %s", w.Body.String())
	}
}

func TestSubmitEndpointCreatedOnSuccess(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)

	w := postJSON(t, router, "/", validForm())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Assignment created")) {
		t.Fatalf("expected confirmation message: %s", w.Body.String())
	}
}

func TestLookupEndpointNotFoundModes(t *testing.T) {
	svc, deps := newTestService()
	router := newTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lookup/"+uuid.NewString(), nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown date, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Booking date not found")) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	orphan := uuid.New()
	deps.bookings.dates[orphan] = &booking.BookingDate{ID: orphan, RequestID: uuid.New()}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lookup/"+orphan.String(), nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for orphan date, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Booking request missing")) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestBuildFormEndpointShapesForm(t *testing.T) {
	svc, deps := newTestService()

	propID := uuid.New()
	props := &fakeProperties{byID: map[uuid.UUID]*property.Property{
		propID: {ID: propID, Name: "Harbour View House", Postcode: "YO21 1QN"},
	}}
	h := NewHandler(svc, props, nil)
	router := h.Routes(passthroughAuth)

	requestID := uuid.New()
	deps.bookings.requests[requestID] = &booking.BookingRequest{ID: requestID, ContractorName: "Dave Mills"}

	body := BuildFormRequest{
		Booking:    &booking.ExpandedBooking{Ref: booking.Ref{RequestID: requestID}},
		PropertyID: propID.String(),
	}
	w := postJSON(t, router, "/form", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var env struct {
		Data FormModel `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if env.Data.PropertyName != "Harbour View House" || env.Data.ContractorName != "Dave Mills" {
		t.Fatalf("unexpected form: %+v", env.Data)
	}
	if env.Data.Postcode != "YO21 1QN" {
		t.Fatalf("expected property postcode fallback, got %q", env.Data.Postcode)
	}
}
