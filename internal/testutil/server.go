package testutil

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/lmj0209/tool-website/internal/catalog"
	"github.com/lmj0209/tool-website/internal/catalog/source"
	"github.com/lmj0209/tool-website/internal/httpserver"
	"github.com/lmj0209/tool-website/internal/state"
	catalogtpl "github.com/lmj0209/tool-website/internal/templates/catalog"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithBasePath sets a custom base path for the routes.
func WithBasePath(path string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.BasePath = path
	}
}

// WithApp serves the given application state as is, loaded or not.
func WithApp(app *state.App) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.App = app
	}
}

// WithSite overrides the page header.
func WithSite(site catalogtpl.Site) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Site = site
	}
}

// LoadedApp returns an App that has finished loading doc.
func LoadedApp(t testing.TB, doc catalog.Catalog) *state.App {
	t.Helper()

	return AppFrom(t, source.LoaderFunc(func(context.Context) (catalog.Catalog, error) {
		return doc, nil
	}))
}

// AppFrom runs the one-time load through loader and waits for it to settle,
// whatever the outcome.
func AppFrom(t testing.TB, loader source.Loader) *state.App {
	t.Helper()

	app := state.New(state.Options{})
	_, _ = app.Load(context.Background(), loader)
	return app
}

// NewServer constructs an httptest server running the HTTP stack. Without
// WithApp it serves an App that never finishes loading.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := httpserver.Config{
		Address: ":0",
		Site:    catalogtpl.Site{Title: "工具箱"},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	srv := httpserver.New(cfg)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
