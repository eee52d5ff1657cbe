package ui

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lmj0209/tool-website/internal/catalog"
	"github.com/lmj0209/tool-website/internal/observability"
	"github.com/lmj0209/tool-website/internal/state"
	catalogtpl "github.com/lmj0209/tool-website/internal/templates/catalog"
)

// ToolJSON is one entry of the /api/tools response.
type ToolJSON struct {
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	URL           string  `json:"url"`
	Icon          string  `json:"icon"`
	Category      string  `json:"category"`
	CategoryLabel string  `json:"categoryLabel"`
}

// ToolsResponse is the /api/tools payload.
type ToolsResponse struct {
	Category string     `json:"category"`
	Query    string     `json:"query"`
	Tools    []ToolJSON `json:"tools"`
	Total    int        `json:"total"`
}

// CatalogDocument serves the loaded catalog in the data file format.
func (h *Handlers) CatalogDocument(w http.ResponseWriter, r *http.Request) {
	snap := h.app.Snapshot()
	if !h.catalogReady(w, r, snap) {
		return
	}
	writeJSON(r, w, http.StatusOK, snap.Catalog)
}

// APITools returns the visible set for ?category=&q= as JSON.
func (h *Handlers) APITools(w http.ResponseWriter, r *http.Request) {
	snap := h.app.Snapshot()
	if !h.catalogReady(w, r, snap) {
		return
	}

	sess := state.SessionFromValues(r.URL.Query())
	items := sess.Visible(snap)
	resp := ToolsResponse{
		Category: sess.Category,
		Query:    sess.Query,
		Tools:    make([]ToolJSON, 0, len(items)),
		Total:    len(items),
	}
	for _, item := range items {
		resp.Tools = append(resp.Tools, ToolJSON{
			Name:          item.Name,
			Description:   item.Description,
			URL:           item.URL,
			Icon:          catalog.ResolveIcon(snap.Catalog, item),
			Category:      item.Category,
			CategoryLabel: catalogtpl.CategoryLabel(snap.Catalog, item.Category),
		})
	}
	writeJSON(r, w, http.StatusOK, resp)
}

// catalogReady writes the error envelope and reports false while the catalog
// is unavailable.
func (h *Handlers) catalogReady(w http.ResponseWriter, r *http.Request, snap state.Snapshot) bool {
	switch {
	case snap.Catalog != nil:
		return true
	case snap.Err != nil:
		observability.FromContext(r.Context()).Warn("catalog unavailable", zap.Error(snap.Err))
		writeError(r, w, http.StatusBadGateway, "catalog_load_failed", catalogtpl.LoadFailedMessage)
	default:
		retryAfter(w, time.Second)
		writeError(r, w, http.StatusServiceUnavailable, "catalog_loading", catalogtpl.LoadingMessage)
	}
	return false
}

type errorEnvelope struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(r *http.Request, w http.ResponseWriter, status int, code, message string) {
	writeJSON(r, w, status, errorEnvelope{
		Error:     code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(r *http.Request, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		observability.FromContext(r.Context()).Error("encode response", zap.Error(err))
	}
}

func formatSeconds(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
