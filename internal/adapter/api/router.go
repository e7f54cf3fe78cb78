package api

import (
	"net/http"
	"time"

	"pc-setup-agent/internal/infrastructure/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog"
)

type RouterConfig struct {
	ServiceName    string
	AllowedOrigins []string
	// LogRequests enables httplog access logging.
	LogRequests bool
	LogLevel    string
}

func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if cfg.LogRequests {
		name := cfg.ServiceName
		if name == "" {
			name = "pc-setup-agent"
		}
		accessLog := httplog.NewLogger(name, httplog.Options{
			JSON:     true,
			Concise:  true,
			LogLevel: cfg.LogLevel,
		})
		r.Use(httplog.RequestLogger(accessLog))
	}
	r.Use(middleware.Recoverer)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}))

	r.Post("/gerar-setup", h.GenerateSetup)
	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
