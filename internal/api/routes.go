// Package api exposes the stored track results over a read-only HTTP surface.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lmaren/sailtrace/internal/config"
	"github.com/lmaren/sailtrace/internal/storage/sqlite"
	"github.com/lmaren/sailtrace/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(storage *sqlite.TrackStorage, cfg *config.Config, log *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(storage, cfg, log),
		middleware: NewMiddleware(log),
		config:     cfg,
		logger:     log.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		// Track routes
		router.Get("/tracks", r.handler.GetRecentTracks)
		router.Get("/tracks/{id}", r.handler.GetTrackByID)
		router.Get("/tracks/{id}/points", r.handler.GetTrackPoints)
		router.Get("/tracks/{id}/manoeuvres", r.handler.GetTrackManoeuvres)

		// Manoeuvre routes
		router.Get("/manoeuvres/time-range", r.handler.GetManoeuvresByTimeRange)

		// Health check
		router.Get("/health", r.handler.GetHealth)

		// Configuration
		router.Get("/config", r.handler.GetConfig)
	})

	return router
}
