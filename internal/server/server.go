package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/claude/fitstreak/internal/ingest/alpha"
	"github.com/claude/fitstreak/internal/tracker"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc      *tracker.Service
	alpha    *alpha.Provider
	log      *slog.Logger
	apiKey   string
	registry *prometheus.Registry
	metrics  *Metrics
	whois    WhoIser
	router   chi.Router
}

// New creates a new Server with all routes configured. A nil registry gets a
// fresh one so tests can build many servers.
func New(svc *tracker.Service, alphaProvider *alpha.Provider, apiKey string, registry *prometheus.Registry, log *slog.Logger) *Server {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	s := &Server{
		svc:      svc,
		alpha:    alphaProvider,
		log:      log,
		apiKey:   apiKey,
		registry: registry,
		metrics:  NewMetrics(registry),
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale switches request identity from the local user to Tailscale WhoIs.
func (s *Server) SetTailscale(w WhoIser) {
	s.whois = w
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(s.metrics.Middleware)
	s.router.Use(CORS)

	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.Group(func(r chi.Router) {
		r.Use(s.identity)

		// Ingest endpoints (API key required)
		r.Route("/api/v1/ingest", func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/alpha", s.handleAlphaIngest)
		})

		r.Get("/api/v1/me", s.handleMe)
		r.Get("/api/v1/profile", s.handleGetProfile)
		r.Put("/api/v1/profile", s.handlePutProfile)

		r.Get("/api/v1/sessions", s.handleListSessions)
		r.Get("/api/v1/sessions/{date}/{plan}", s.handleGetSession)
		r.Put("/api/v1/sessions/{date}/{plan}", s.handlePutSession)
		r.Patch("/api/v1/sessions/{date}/{plan}", s.handlePatchSession)

		r.Get("/api/v1/records", s.handleRecords)
		r.Get("/api/v1/estimates", s.handleEstimates)
		r.Get("/api/v1/series", s.handleSeries)
		r.Get("/api/v1/one-rep-max", s.handleOneRepMax)
		r.Get("/api/v1/recovery", s.handleRecovery)

		r.Get("/api/v1/catalog", s.handleCatalog)
		r.Get("/api/v1/catalog/{name}", s.handleCatalogEntry)

		r.Get("/charts/{exercise}", s.handleChart)
	})
}
