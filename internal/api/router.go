package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/api/apierr"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/api/handler"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/api/middleware"
	appmiddleware "github.com/pr-poehali-dev/cs2-gaming-public/internal/middleware"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/login"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/session"
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	LoginService   *login.Service
	SessionService *session.Service
	StatsService   *stats.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.LoginService, cfg.SessionService)
	statsHandler := handler.NewStatsHandler(cfg.StatsService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.SessionService)
	loggingMiddleware := appmiddleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware. CORS sits inside logging
	// so preflights are still logged; it intercepts OPTIONS before any
	// auth check runs.
	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(middleware.CORS)

	// Authentication endpoint, dispatched by ?action=
	api.HandleFunc("/auth", authHandler.Handle).
		Methods(http.MethodGet, http.MethodOptions)

	// Stats endpoint (auth required; OPTIONS never reaches the handler)
	api.Handle("/stats", authMiddleware(http.HandlerFunc(statsHandler.Handle))).
		Methods(http.MethodGet, http.MethodPost, http.MethodOptions)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Method mismatches inside the subrouter resolve against its own
	// MethodNotAllowedHandler, and subrouter middleware does not wrap
	// these fallback handlers, so CORS is applied here directly
	api.MethodNotAllowedHandler = middleware.CORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	}))

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
