// Package httpserver assembles the router, middleware stack and handlers of
// the catalog site.
package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	custommw "github.com/lmj0209/tool-website/internal/httpserver/middleware"
	"github.com/lmj0209/tool-website/internal/httpserver/ui"
	"github.com/lmj0209/tool-website/internal/observability"
	"github.com/lmj0209/tool-website/internal/state"
	catalogtpl "github.com/lmj0209/tool-website/internal/templates/catalog"
	"github.com/lmj0209/tool-website/public"
)

// Config holds runtime options for the HTTP server.
type Config struct {
	Address  string
	BasePath string
	App      *state.App
	Site     catalogtpl.Site
	AllLabel string
	AllIcon  string
	Logger   *zap.Logger
	// RequestTimeout bounds each handler; zero uses 30s.
	RequestTimeout time.Duration
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.RequestLogger(logger))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(timeout))
	router.Use(chimw.Compress(5))

	handlers := ui.NewHandlers(ui.Dependencies{
		App:      cfg.App,
		Site:     cfg.Site,
		AllLabel: cfg.AllLabel,
		AllIcon:  cfg.AllIcon,
	})

	staticContent, err := public.StaticFS()
	if err != nil {
		logger.Fatal("embed static", zap.Error(err))
	}

	base := custommw.NormaliseBase(cfg.BasePath)
	mountRoutes(router, base, handlers, http.FileServer(http.FS(staticContent)))

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func mountRoutes(router chi.Router, base string, h *ui.Handlers, static http.Handler) {
	staticPrefix := joinPath(base, "/public/static/")

	routes := func(r chi.Router) {
		r.Use(custommw.RequestInfoMiddleware(base))
		r.Use(custommw.HTMX())

		r.Get("/healthz", h.Healthz)
		r.Handle("/public/static/*", http.StripPrefix(staticPrefix, static))

		r.Group(func(r chi.Router) {
			r.Use(custommw.NoStore())
			r.Get("/", h.Page)
			RegisterFragment(r, "/tools", h.ToolsFragment)
			r.Get("/data/tools.json", h.CatalogDocument)
			r.Get("/api/tools", h.APITools)
		})
	}

	if base == "/" {
		router.Group(routes)
		return
	}
	router.Route(base, routes)
}

// RegisterFragment registers a GET handler intended for htmx fragment
// rendering; direct navigation lands on the matching full page.
func RegisterFragment(r chi.Router, pattern string, handler http.HandlerFunc) {
	r.With(custommw.RequireHTMX(ui.PageURL)).Get(pattern, handler)
}

func joinPath(base, suffix string) string {
	if base == "/" {
		return suffix
	}
	return strings.TrimRight(base, "/") + suffix
}
