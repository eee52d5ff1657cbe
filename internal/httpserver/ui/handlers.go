package ui

import (
	"net/http"
	"time"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	custommw "github.com/lmj0209/tool-website/internal/httpserver/middleware"
	"github.com/lmj0209/tool-website/internal/observability"
	"github.com/lmj0209/tool-website/internal/state"
	catalogtpl "github.com/lmj0209/tool-website/internal/templates/catalog"
)

// Dependencies collects what the UI handlers read from.
type Dependencies struct {
	App      *state.App
	Site     catalogtpl.Site
	AllLabel string
	AllIcon  string
}

// Handlers exposes HTTP handlers for the catalog page, its fragments and the
// JSON surfaces.
type Handlers struct {
	app      *state.App
	site     catalogtpl.Site
	allLabel string
	allIcon  string
}

// NewHandlers wires the UI handler set. A nil App behaves as one that never
// finished loading.
func NewHandlers(deps Dependencies) *Handlers {
	app := deps.App
	if app == nil {
		app = state.New(state.Options{})
	}
	return &Handlers{
		app:      app,
		site:     deps.Site,
		allLabel: deps.AllLabel,
		allIcon:  deps.AllIcon,
	}
}

func (h *Handlers) options(r *http.Request) catalogtpl.Options {
	return catalogtpl.Options{
		BasePath: custommw.BasePathFromContext(r.Context()),
		AllLabel: h.allLabel,
		AllIcon:  h.allIcon,
	}
}

// Page renders the full catalog page for ?category=&q=.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	sess := state.SessionFromValues(r.URL.Query())
	snap := h.app.Snapshot()
	payload := catalogtpl.BuildPageData(h.site, snap, sess, h.options(r))

	templ.Handler(catalogtpl.Page(payload)).ServeHTTP(w, r)
}

// ToolsFragment re-renders the results region and the category bar for an
// htmx swap, and pushes the matching page URL into the browser history. It
// always answers 200 so htmx swaps the load-failure placeholder in too.
func (h *Handlers) ToolsFragment(w http.ResponseWriter, r *http.Request) {
	sess := state.SessionFromValues(r.URL.Query())
	snap := h.app.Snapshot()
	opts := h.options(r)
	payload := catalogtpl.BuildFragmentData(snap, sess, opts)

	if !payload.Grid.Loading {
		custommw.PushURL(w, sess.Href(opts.PagePath()))
	}
	hx := custommw.HTMXInfoFromContext(r.Context())
	observability.FromContext(r.Context()).Debug("tools fragment",
		zap.String("category", sess.Category),
		zap.String("hx_target", hx.Target),
		zap.String("hx_trigger", hx.TriggerID),
		zap.String("grid", payload.Grid.State()),
		zap.Int("cards", len(payload.Grid.Cards)),
	)
	templ.Handler(catalogtpl.Fragment(payload)).ServeHTTP(w, r)
}

// PageURL maps a fragment request onto the full page with the same selection.
func PageURL(r *http.Request) string {
	opts := catalogtpl.Options{BasePath: custommw.BasePathFromContext(r.Context())}
	return state.SessionFromValues(r.URL.Query()).Href(opts.PagePath())
}

// Healthz reports liveness. The catalog load state is not part of it: a
// failed load still serves the error placeholder.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func retryAfter(w http.ResponseWriter, d time.Duration) {
	w.Header().Set("Retry-After", formatSeconds(d))
}
