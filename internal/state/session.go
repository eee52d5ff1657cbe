package state

import (
	"net/url"
	"strings"

	"github.com/lmj0209/tool-website/internal/catalog"
)

// Query parameter names carrying the view selection.
const (
	ParamCategory = "category"
	ParamQuery    = "q"
)

// Session is the per-view selection: the chosen category and the search text.
// The zero value is not normalised; use NewSession.
type Session struct {
	Category string
	Query    string
}

// NewSession returns the initial selection: every category, no search text.
func NewSession() Session {
	return Session{Category: catalog.All}
}

// SelectCategory handles a category click.
func (s Session) SelectCategory(id string) Session {
	id = strings.TrimSpace(id)
	if id == "" {
		id = catalog.All
	}
	s.Category = id
	return s
}

// ChangeSearch handles an edit of the search box. The query is stored trimmed.
func (s Session) ChangeSearch(text string) Session {
	s.Query = strings.TrimSpace(text)
	return s
}

// Visible computes the visible set for this selection.
func (s Session) Visible(snap Snapshot) []catalog.Item {
	return catalog.VisibleItems(snap.Catalog, s.Category, s.Query)
}

// SessionFromValues rebuilds a selection from URL query values.
func SessionFromValues(values url.Values) Session {
	return NewSession().
		SelectCategory(values.Get(ParamCategory)).
		ChangeSearch(values.Get(ParamQuery))
}

// Values encodes the selection, omitting defaults so URLs stay short.
func (s Session) Values() url.Values {
	v := url.Values{}
	if s.Category != "" && s.Category != catalog.All {
		v.Set(ParamCategory, s.Category)
	}
	if s.Query != "" {
		v.Set(ParamQuery, s.Query)
	}
	return v
}

// Href returns path with the selection appended as a query string.
func (s Session) Href(path string) string {
	if enc := s.Values().Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}
