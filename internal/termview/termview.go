// Package termview prints the visible catalog entries for a terminal.
package termview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lmj0209/tool-website/internal/catalog"
	"github.com/lmj0209/tool-website/internal/state"
	catalogtpl "github.com/lmj0209/tool-website/internal/templates/catalog"
)

var (
	colorAccent = lipgloss.Color("#4f6ef7")
	colorMuted  = lipgloss.Color("#6b7785")
	colorWarn   = lipgloss.Color("#e5a50a")
)

type styles struct {
	header   lipgloss.Style
	name     lipgloss.Style
	desc     lipgloss.Style
	url      lipgloss.Style
	category lipgloss.Style
	empty    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:   r.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1),
		name:     r.NewStyle().Bold(true),
		desc:     r.NewStyle().Foreground(colorMuted).PaddingLeft(3),
		url:      r.NewStyle().Foreground(colorAccent).Underline(true).PaddingLeft(3),
		category: r.NewStyle().Foreground(colorMuted).Italic(true),
		empty:    r.NewStyle().Foreground(colorWarn),
	}
}

// Render writes the entries visible for sess. Styling is dropped when w is
// not a terminal.
func Render(w io.Writer, c *catalog.Catalog, sess state.Session) error {
	st := newStyles(lipgloss.NewRenderer(w))
	items := catalog.VisibleItems(c, sess.Category, sess.Query)

	var b strings.Builder
	b.WriteString(st.header.Render(summary(c, sess, len(items))))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(st.empty.Render(catalogtpl.EmptyIcon + " " + catalogtpl.EmptyMessage))
		b.WriteString("\n")
	}
	for _, item := range items {
		line := catalog.ResolveIcon(c, item) + " " + st.name.Render(item.Name)
		if label := catalogtpl.CategoryLabel(c, item.Category); label != "" {
			line += "  " + st.category.Render("["+label+"]")
		}
		b.WriteString(line)
		b.WriteString("\n")
		if desc := item.DescriptionText(); desc != "" {
			b.WriteString(st.desc.Render(desc))
			b.WriteString("\n")
		}
		b.WriteString(st.url.Render(item.URL))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func summary(c *catalog.Catalog, sess state.Session, n int) string {
	scope := "全部"
	if sess.Category != catalog.All {
		scope = sess.Category
		if cat, ok := catalog.FindCategory(c, sess.Category); ok {
			scope = strings.TrimSpace(cat.Icon + " " + cat.Name)
		}
	}
	out := fmt.Sprintf("%d 个工具 · %s", n, scope)
	if sess.Query != "" {
		out += fmt.Sprintf(" · “%s”", sess.Query)
	}
	return out
}
