// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"weightduel/internal/app"
	"weightduel/internal/metrics"
)

// Options carries the services and settings the Server routes to.
type Options struct {
	Entries *app.EntryService
	Stats   *app.StatsService
	Charts  *app.ChartsService
	Auth    *app.AuthService
	Metrics *metrics.Manager

	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// WebDir holds the static UI; empty disables it.
	WebDir string

	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	entries *app.EntryService
	stats   *app.StatsService
	charts  *app.ChartsService
	authSvc *app.AuthService
	metrics *metrics.Manager

	gatherer      prometheus.Gatherer
	webDir        string
	secureCookies bool
}

// New creates a Server wired to the given application services.
func New(opts Options) *Server {
	return &Server{
		entries:       opts.Entries,
		stats:         opts.Stats,
		charts:        opts.Charts,
		authSvc:       opts.Auth,
		metrics:       opts.Metrics,
		gatherer:      opts.Gatherer,
		webDir:        opts.WebDir,
		secureCookies: opts.SecureCookies,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(withNoCache)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/me", s.handleMe)

			r.Put("/entries", s.handlePutEntry)
			r.Delete("/entries/{date}", s.handleDeleteEntry)
			r.Get("/entries/recent", s.handleRecentEntries)

			r.Post("/import", s.handleImport)
			r.Get("/export", s.handleExport)

			r.Get("/stats", s.handleStats)
			r.Get("/chart", s.handleChart)
		})
	})

	if s.webDir != "" {
		r.Handle("/*", spaFromDisk(s.webDir))
	}

	return r
}
