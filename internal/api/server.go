package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/gatedlife/community-server/internal/auth"
	"github.com/gatedlife/community-server/internal/config"
	"github.com/gatedlife/community-server/internal/notify"
	"github.com/gatedlife/community-server/internal/storage"
	"github.com/gatedlife/community-server/internal/workflow"
)

type contextKey string

const claimsKey contextKey = "claims"

// RESTServer represents the REST API server
type RESTServer struct {
	config   *config.Config
	store    storage.Store
	auth     *auth.JWTManager
	resolver *workflow.Resolver
	requests *workflow.RequestService
	sessions *workflow.SessionService
	rooms    *workflow.RoomService
	disputes *workflow.DisputeService
	router   chi.Router
	server   *http.Server
}

// NewRESTServer creates a new REST API server
func NewRESTServer(cfg *config.Config, store storage.Store, events notify.Publisher) *RESTServer {
	logger := log.Logger

	s := &RESTServer{
		config:   cfg,
		store:    store,
		auth:     auth.NewJWTManager(&cfg.JWT),
		resolver: workflow.NewResolver(store, logger),
		requests: workflow.NewRequestService(store, events, logger),
		sessions: workflow.NewSessionService(store, events, logger),
		rooms:    workflow.NewRoomService(store, events, logger),
		disputes: workflow.NewDisputeService(store, events, logger),
		router:   chi.NewRouter(),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all routes
func (s *RESTServer) setupRoutes() {
	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		s.setupAPIRoutes(r)
	})
}

// ListenAndServe starts the server
func (s *RESTServer) ListenAndServe(addr string) error {
	s.server.Addr = addr
	log.Info().Str("addr", addr).Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *RESTServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// authMiddleware is the authentication middleware
func (s *RESTServer) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			s.respondError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			s.respondError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		claims, err := s.auth.ValidateToken(parts[1])
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireTypes restricts a route subtree to the given principal types
func (s *RESTServer) requireTypes(types ...auth.PrincipalType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := s.principal(r)
			if !ok {
				s.respondError(w, http.StatusUnauthorized, "missing authentication")
				return
			}
			if !p.Is(types...) {
				s.respondError(w, http.StatusForbidden, "operation not allowed for this principal type")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// principal extracts the authenticated principal from the request
func (s *RESTServer) principal(r *http.Request) (auth.Principal, bool) {
	claims, ok := r.Context().Value(claimsKey).(*auth.Claims)
	if !ok {
		return auth.Principal{}, false
	}
	return claims.Principal(), true
}
