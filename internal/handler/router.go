package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterConfig holds the collaborators mounted next to the graph API
type RouterConfig struct {
	Events   http.Handler         // SSE stream, usually a *hub.Hub
	Registry *prometheus.Registry // served on /metrics when set
	Logger   *zap.Logger
}

// NewRouter builds the HTTP routes of the editor
func NewRouter(h *GraphHandler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", h.Health)
	if cfg.Registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/graph", h.GetGraph)

		r.Post("/nodes", h.CreateNode)
		r.Delete("/nodes/{id}", h.DeleteNode)
		r.Post("/nodes/{id}/move", h.MoveNode)
		r.Put("/nodes/{id}/title", h.SetTitle)

		r.Post("/points/{id}/pick", h.PickPoint)
		r.Delete("/connections/{id}", h.DeleteConnection)

		r.Post("/canvas/click", h.ClickCanvas)
		r.Post("/canvas/drag", h.DragCanvas)

		r.Post("/save", h.Save)
		r.Post("/load", h.Load)

		if cfg.Events != nil {
			r.Method(http.MethodGet, "/events", cfg.Events)
		}
	})

	return router
}
