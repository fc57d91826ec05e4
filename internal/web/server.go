// Package web provides the HTTP server and JSON handlers of the person service.
package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/personsvc/internal/config"
	"github.com/JonMunkholm/personsvc/internal/core"
	mw "github.com/JonMunkholm/personsvc/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// PersonService is the business API the handlers call.
// *core.Service implements it.
type PersonService interface {
	CreatePerson(ctx context.Context, m core.PersonCreateModel) (core.Person, error)
	GetByID(ctx context.Context, id int64) (core.Person, error)
	GetByColor(ctx context.Context, color core.Color) ([]core.Person, error)
	GetPersons(ctx context.Context, offset, limit int) ([]core.Person, error)
	ImportCSV(ctx context.Context, fileName string, r io.Reader) (*core.ImportResult, error)
	ImportStatus() core.ImportLimiterStatus
}

var _ PersonService = (*core.Service)(nil)

// Server is the HTTP server of the person service.
type Server struct {
	service PersonService
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server

	limiters []*rateLimiter
}

// NewServer creates a new Server instance.
func NewServer(service PersonService, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes below the base path. An empty
// base path mounts them at the root.
func (s *Server) setupRoutes() {
	s.router.NotFound(s.handle(func(w http.ResponseWriter, r *http.Request) error {
		return errRouteNotFound
	}))
	s.router.MethodNotAllowed(s.handle(func(w http.ResponseWriter, r *http.Request) error {
		return errMethodNotAllowed
	}))

	if s.cfg.Server.BasePath == "" {
		s.router.Group(s.apiRoutes)
		return
	}
	s.router.Route(s.cfg.Server.BasePath, s.apiRoutes)
}

// apiRoutes registers the API. Every route except the import runs under
// the request timeout; the import is bounded by the import timeout instead.
func (s *Server) apiRoutes(r chi.Router) {
	r.With(s.requestTimeout).Get("/health", s.handle(s.handleHealth))

	r.Group(func(r chi.Router) {
		r.Use(mw.APIKeyAuth(&s.cfg.Security))
		if s.cfg.Rate.Enabled {
			r.Use(s.newRateLimiter(s.cfg.Rate.RequestsPerMinute).middleware)
		}

		r.Group(func(r chi.Router) {
			r.Use(s.requestTimeout)
			r.Get("/persons", s.handle(s.handleGetPersons))
			r.Post("/person", s.handle(s.handleCreatePerson))
			r.Get("/person/{id}", s.handle(s.handleGetPerson))
			r.Get("/person/color/{colorName}", s.handle(s.handleGetPersonsByColor))
		})

		importRoute := r.With()
		if s.cfg.Rate.Enabled {
			importRoute = r.With(s.newRateLimiter(s.cfg.Rate.ImportLimit).middleware)
		}
		importRoute.Post("/import", s.handle(s.handleImport))
	})
}

// requestTimeout applies SERVER_REQUEST_TIMEOUT when it is set.
func (s *Server) requestTimeout(next http.Handler) http.Handler {
	if s.cfg.Server.RequestTimeout <= 0 {
		return next
	}
	return middleware.Timeout(s.cfg.Server.RequestTimeout)(next)
}

func (s *Server) newRateLimiter(perMinute int) *rateLimiter {
	rl := newRateLimiter(perMinute, rateWindow)
	s.limiters = append(s.limiters, rl)
	return rl
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and its rate limiters.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
