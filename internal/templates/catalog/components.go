package catalog

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/lmj0209/tool-website/internal/state"
)

const htmxScriptURL = "https://unpkg.com/htmx.org@2.0.4"

// Page renders the full document.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="zh-CN"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(data.Title)
		h.raw(`</title><link rel="stylesheet"`)
		h.attr("href", data.StylesheetURL)
		h.raw(`><script defer`)
		h.attr("src", htmxScriptURL)
		h.raw(`></script></head><body><header class="site-header"><h1 class="site-title">`)
		h.text(data.Title)
		h.raw(`</h1>`)
		if data.IntroHTML != "" {
			h.raw(`<div class="site-intro">`)
			h.raw(data.IntroHTML)
			h.raw(`</div>`)
		}
		h.raw(`</header><main class="container">`)
		h.render(ctx, SearchBox(data))
		h.render(ctx, CategoryBar(data.Query, data.Categories, false))
		h.render(ctx, Grid(data.Grid))
		h.raw(`</main><footer class="site-footer">共收录 `)
		h.text(strconv.Itoa(data.TotalAvailable))
		h.raw(` 个工具</footer></body></html>`)
		return h.err
	})
}

// SearchBox renders the search form. Without JavaScript it submits to the
// full page; with htmx every edit swaps the results region.
func SearchBox(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<form id="searchForm" class="search-box" role="search" method="get"`)
		h.attr("action", data.PageEndpoint)
		h.raw(`><input id="searchInput" class="search-input" type="search" autocomplete="off"`)
		h.attr("name", state.ParamQuery)
		h.attr("value", data.Query.Query)
		h.attr("placeholder", data.SearchHint)
		h.attr("hx-get", data.ToolsEndpoint)
		h.raw(` hx-trigger="input changed, search" hx-target="#results" hx-swap="outerHTML" hx-include="#categoryField" hx-sync="this:replace"></form>`)
		return h.err
	})
}

// CategoryBar renders the category selector. With oob set it is marked for an
// out-of-band swap so a fragment response can refresh the active marking.
func CategoryBar(sess state.Session, buttons []CategoryButton, oob bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<nav id="categories" class="categories" aria-label="分类"`)
		if oob {
			h.raw(` hx-swap-oob="true"`)
		}
		h.raw(`><input type="hidden" id="categoryField" form="searchForm"`)
		h.attr("name", state.ParamCategory)
		h.attr("value", sess.Category)
		h.raw(`>`)
		for _, btn := range buttons {
			h.raw(`<a`)
			h.attr("class", categoryClass(btn.Active))
			h.attr("href", btn.Href)
			h.attr("hx-get", btn.FragmentHref)
			h.raw(` hx-include="#searchInput" hx-target="#results" hx-swap="outerHTML"`)
			h.attr("data-category", btn.ID)
			if btn.Active {
				h.raw(` aria-current="true"`)
			}
			h.raw(`><span class="category-icon">`)
			h.text(btn.Icon)
			h.raw(`</span><span class="category-name">`)
			h.text(btn.Label)
			h.raw(`</span><span class="category-count">`)
			h.text(strconv.Itoa(btn.Count))
			h.raw(`</span></a>`)
		}
		h.raw(`</nav>`)
		return h.err
	})
}

// Grid renders the results region: the item grid and the empty-state
// placeholder. The load-failure and loading placeholders live inside the item
// grid so they never show alongside the empty state.
func Grid(data GridData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="results" class="results" aria-live="polite"`)
		h.attr("data-state", data.State())
		if data.Loading && data.PollHref != "" {
			h.attr("hx-get", data.PollHref)
			h.raw(` hx-trigger="load delay:1s" hx-swap="outerHTML"`)
		}
		h.raw(`><div id="toolsGrid" class="tools-grid"`)
		h.flag("hidden", data.Empty)
		h.raw(`>`)
		switch {
		case data.LoadFailed:
			h.render(ctx, placeholder("load-failed", LoadFailedIcon, LoadFailedMessage))
		case data.Loading:
			h.render(ctx, placeholder("loading", "⏳", LoadingMessage))
		default:
			for _, card := range data.Cards {
				h.render(ctx, Card(card))
			}
		}
		h.raw(`</div><div id="emptyState" class="empty-state"`)
		h.flag("hidden", !data.Empty)
		h.raw(`><div class="empty-icon">`)
		h.text(EmptyIcon)
		h.raw(`</div><div class="empty-text">`)
		h.text(EmptyMessage)
		h.raw(`</div></div></section>`)
		return h.err
	})
}

// Card renders one tool as an external link opened in a new browsing context
// without an opener reference.
func Card(card CardView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<a class="tool-card" target="_blank" rel="noopener noreferrer"`)
		h.attr("href", string(card.URL))
		h.raw(`><div class="tool-icon">`)
		h.text(card.Icon)
		h.raw(`</div><div class="tool-content"><h3 class="tool-title">`)
		h.segments(card.NameParts, card.Name)
		h.raw(`</h3><p class="tool-desc">`)
		h.segments(card.DescriptionParts, card.Description)
		h.raw(`</p><span class="tool-category">`)
		h.text(card.CategoryLabel)
		h.raw(`</span></div></a>`)
		return h.err
	})
}

// Fragment is the htmx response for /tools.
func Fragment(data FragmentData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.render(ctx, Grid(data.Grid))
		h.render(ctx, CategoryBar(data.Query, data.Categories, true))
		return h.err
	})
}

func placeholder(kind, icon, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="empty-state grid-placeholder"`)
		h.attr("data-placeholder", kind)
		h.raw(`><div class="empty-icon">`)
		h.text(icon)
		h.raw(`</div><div class="empty-text">`)
		h.text(message)
		h.raw(`</div></div>`)
		return h.err
	})
}

func categoryClass(active bool) string {
	if active {
		return "category-btn active"
	}
	return "category-btn"
}

// htmlWriter keeps the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// segments writes parts with matches wrapped in <mark>, or fallback when
// there are no parts.
func (h *htmlWriter) segments(parts []Segment, fallback string) {
	if len(parts) == 0 {
		h.text(fallback)
		return
	}
	for _, part := range parts {
		if part.Match {
			h.raw(`<mark>`)
			h.text(part.Text)
			h.raw(`</mark>`)
			continue
		}
		h.text(part.Text)
	}
}

func (h *htmlWriter) flag(name string, on bool) {
	if on {
		h.raw(" " + name)
	}
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}
