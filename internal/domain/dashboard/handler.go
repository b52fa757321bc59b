package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/workstays/workstays-api/internal/pkg/response"
)

// Handler handles dashboard HTTP requests
type Handler struct {
	store  *Store
	repo   *Repository
	maxAge time.Duration
}

// NewHandler creates new dashboard handler. maxAge throttles manual
// refreshes; a non-positive value disables the throttle.
func NewHandler(store *Store, repo *Repository, maxAge time.Duration) *Handler {
	return &Handler{store: store, repo: repo, maxAge: maxAge}
}

// GetStats returns the admin overview counters
// GET /api/v1/dashboard/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.GetStats(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, stats)
}

// Refresh rebuilds the directory snapshot on demand. Requests arriving
// while the snapshot is still fresh are served without hitting the stores.
// POST /api/v1/dashboard/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var refreshed bool
	var err error

	if h.maxAge > 0 {
		refreshed, err = h.store.RefreshIfStale(r.Context(), h.maxAge)
	} else {
		refreshed, err = true, h.store.Refresh(r.Context())
	}
	if err != nil {
		log.Warn().Err(err).Msg("Manual snapshot refresh degraded")
	}

	snap := h.store.Current()
	response.OK(w, map[string]interface{}{
		"refreshed":  refreshed,
		"rev":        snap.Rev,
		"properties": len(snap.Properties),
		"bookings":   len(snap.Bookings),
		"fetched_at": snap.FetchedAt,
	})
}

// Routes returns dashboard routes
func Routes(h *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/stats", h.GetStats)
	r.Post("/refresh", h.Refresh)

	return r
}

// Stats represents the admin overview counters
type Stats struct {
	TotalProperties     int `json:"total_properties"`
	AvailableProperties int `json:"available_properties"`
	TotalBookings       int `json:"total_bookings"`
	ActiveBookings      int `json:"active_bookings"`
	PendingBookings     int `json:"pending_bookings"`
	CancelledBookings   int `json:"cancelled_bookings"`
}

const (
	statsCacheKey        = "dashboard:stats"
	defaultStatsCacheTTL = 30 * time.Second
)

// Repository aggregates dashboard stats
type Repository struct {
	db    *sqlx.DB
	redis *redis.Client
	ttl   time.Duration
}

// NewRepository creates new dashboard repository. redisClient may be nil,
// which disables the cache.
func NewRepository(db *sqlx.DB, redisClient *redis.Client, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = defaultStatsCacheTTL
	}
	return &Repository{db: db, redis: redisClient, ttl: ttl}
}

// GetStats returns aggregated booking and property counters. Each read
// degrades to zero on its own, so a missing table never blanks the whole
// header.
func (r *Repository) GetStats(ctx context.Context) (*Stats, error) {
	if cached := r.fromCache(ctx); cached != nil {
		return cached, nil
	}

	stats := &Stats{}

	_ = r.db.GetContext(ctx, &stats.TotalProperties, `
		SELECT COUNT(*) FROM properties
	`)

	_ = r.db.GetContext(ctx, &stats.AvailableProperties, `
		SELECT COUNT(*) FROM properties WHERE available = true
	`)

	_ = r.db.GetContext(ctx, &stats.TotalBookings, `
		SELECT COUNT(*) FROM booking_dates
	`)

	_ = r.db.GetContext(ctx, &stats.ActiveBookings, `
		SELECT COUNT(*) FROM booking_dates
		WHERE status IN ('confirmed', 'property_assigned')
	`)

	_ = r.db.GetContext(ctx, &stats.PendingBookings, `
		SELECT COUNT(*) FROM booking_dates WHERE status = 'pending'
	`)

	_ = r.db.GetContext(ctx, &stats.CancelledBookings, `
		SELECT COUNT(*) FROM booking_dates WHERE status = 'cancelled'
	`)

	r.toCache(ctx, stats)
	return stats, nil
}

func (r *Repository) fromCache(ctx context.Context) *Stats {
	if r.redis == nil {
		return nil
	}

	raw, err := r.redis.Get(ctx, statsCacheKey).Result()
	if err != nil {
		return nil
	}

	var stats Stats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil
	}
	return &stats
}

func (r *Repository) toCache(ctx context.Context, stats *Stats) {
	if r.redis == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	r.redis.Set(ctx, statsCacheKey, raw, r.ttl)
}
