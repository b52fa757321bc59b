package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMountAssignmentLive_PromotesTokenToAuthHeader(t *testing.T) {
	root := chi.NewRouter()

	var seenAuth string
	live := func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}

	mountAssignmentLive(root, func(next http.Handler) http.Handler { return next }, live)

	t.Run("token query param", func(t *testing.T) {
		seenAuth = ""
		req := httptest.NewRequest(http.MethodGet, "/ws/assignments?token=abc123", nil)
		rr := httptest.NewRecorder()
		root.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if seenAuth != "Bearer abc123" {
			t.Fatalf("expected Authorization 'Bearer abc123', got %q", seenAuth)
		}
	})

	t.Run("no token leaves header alone", func(t *testing.T) {
		seenAuth = ""
		req := httptest.NewRequest(http.MethodGet, "/ws/assignments", nil)
		req.Header.Set("Authorization", "Bearer existing")
		rr := httptest.NewRecorder()
		root.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if seenAuth != "Bearer existing" {
			t.Fatalf("expected Authorization 'Bearer existing', got %q", seenAuth)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/ws/assignments", nil)
		rr := httptest.NewRecorder()
		root.ServeHTTP(rr, req)
		if rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected status 405, got %d", rr.Code)
		}
	})
}

func TestMountAssignmentLive_AuthMiddlewareRunsAfterPromotion(t *testing.T) {
	root := chi.NewRouter()

	requireBearer := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	live := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	mountAssignmentLive(root, requireBearer, live)

	t.Run("token passes auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws/assignments?token=abc123", nil)
		rr := httptest.NewRecorder()
		root.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
	})

	t.Run("missing token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws/assignments", nil)
		rr := httptest.NewRecorder()
		root.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rr.Code)
		}
	})
}
