package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/workstays/workstays-api/internal/config"
	"github.com/workstays/workstays-api/internal/domain/assignment"
	"github.com/workstays/workstays-api/internal/domain/booking"
	"github.com/workstays/workstays-api/internal/domain/dashboard"
	"github.com/workstays/workstays-api/internal/domain/profile"
	"github.com/workstays/workstays-api/internal/domain/property"
	"github.com/workstays/workstays-api/internal/middleware"
	"github.com/workstays/workstays-api/internal/pkg/database"
	"github.com/workstays/workstays-api/internal/pkg/jwt"
	"github.com/workstays/workstays-api/internal/pkg/logger"
	"github.com/workstays/workstays-api/internal/pkg/platform"
	"github.com/workstays/workstays-api/internal/pkg/queue"
	pkgresponse "github.com/workstays/workstays-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.Env)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Workstays admin API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret)

	// Repositories
	propertyRepo := property.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	landlordRepo := profile.NewLandlordRepository(db)
	contractorRepo := profile.NewContractorRepository(db)
	dashboardRepo := dashboard.NewRepository(db, redisClient, cfg.StatsCacheTTL)

	// The directory probes the request schema first and falls back to the
	// legacy flat table on databases that predate the booking_requests
	// migration.
	source := booking.NewProbingSource(booking.NewRequestSource(db), booking.NewLegacySource(db))
	directory := booking.NewDirectory(source)

	store := dashboard.NewStore(propertyRepo, directory)
	func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := store.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("Initial snapshot refresh incomplete")
		}
	}()

	platformClient := platform.NewClient(
		cfg.PlatformBaseURL,
		cfg.PlatformToken,
		time.Duration(cfg.PlatformTimeoutSeconds)*time.Second,
		"workstays-admin-api",
	)

	publisher, err := queue.NewPublisher(cfg.AmqpURL, cfg.AmqpExchange)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
	}
	defer publisher.Close()

	// Services
	assignmentService := assignment.NewService(bookingRepo, landlordRepo, contractorRepo, platformClient, publisher, store)

	// Handlers
	propertyHandler := property.NewHandler(propertyRepo, store)
	bookingHandler := booking.NewHandler(bookingRepo, store)
	profileHandler := profile.NewHandler(landlordRepo, contractorRepo, propertyRepo)
	assignmentHandler := assignment.NewHandler(assignmentService, propertyRepo, cfg.AllowedOrigins)
	dashboardHandler := dashboard.NewHandler(store, dashboardRepo, cfg.SnapshotMaxAge)

	authMiddleware := middleware.Auth(jwtService)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SnapshotRefreshSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := store.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("Scheduled snapshot refresh incomplete")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.SnapshotRefreshSpec).Msg("Invalid snapshot refresh schedule")
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	mountAssignmentLive(r, authMiddleware, assignmentHandler.Live)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(middleware.Timeout(10 * time.Second))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			snap := store.Current()
			health := map[string]interface{}{
				"status":  "ok",
				"version": "1.0.0",
				"snapshot": map[string]interface{}{
					"rev":        snap.Rev,
					"fetched_at": snap.FetchedAt,
				},
			}
			switch {
			case redisClient == nil:
				health["redis"] = "disabled"
			case redisClient.Ping(r.Context()).Err() != nil:
				health["redis"] = "unreachable"
			default:
				health["redis"] = "ok"
			}
			pkgresponse.OK(w, health)
		})

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
				pkgresponse.OK(w, map[string]string{"message": "pong"})
			})

			r.Mount("/bookings", bookingHandler.Routes(authMiddleware))
			r.Mount("/properties", propertyHandler.Routes(authMiddleware))
			r.Mount("/landlords", profileHandler.LandlordRoutes(authMiddleware))
			r.Mount("/contractors", profileHandler.ContractorRoutes(authMiddleware))
			r.Mount("/assignments", assignmentHandler.Routes(authMiddleware))
			r.Mount("/dashboard", dashboard.Routes(dashboardHandler, authMiddleware))
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// mountAssignmentLive registers the realtime assignment endpoint outside the
// Compress group, which breaks WebSocket upgrades. Browsers cannot set
// headers on WebSocket dials, so the token arrives as a query param and is
// promoted to an Authorization header before auth runs.
func mountAssignmentLive(r chi.Router, authMiddleware func(http.Handler) http.Handler, live http.HandlerFunc) {
	r.Get("/ws/assignments", func(w http.ResponseWriter, r *http.Request) {
		if token := r.URL.Query().Get("token"); token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(live).ServeHTTP(w, r)
	})
}
