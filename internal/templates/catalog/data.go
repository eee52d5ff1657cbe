package catalog

import (
	"strings"

	"github.com/a-h/templ"

	sitecatalog "github.com/lmj0209/tool-website/internal/catalog"
	"github.com/lmj0209/tool-website/internal/state"
)

// Placeholder copy shown in the item grid region.
const (
	LoadFailedIcon    = "⚠️"
	LoadFailedMessage = "数据加载失败，请刷新页面重试"
	EmptyIcon         = "🔍"
	EmptyMessage      = "没有找到匹配的工具"
	LoadingMessage    = "正在加载工具列表…"
)

// Defaults for the synthetic "all" control.
const (
	DefaultAllLabel = "全部"
	DefaultAllIcon  = "📦"
)

// Options carries the site-level settings every builder needs.
type Options struct {
	BasePath string
	AllLabel string
	AllIcon  string
}

func (o Options) allLabel() string {
	if label := strings.TrimSpace(o.AllLabel); label != "" {
		return label
	}
	return DefaultAllLabel
}

func (o Options) allIcon() string {
	if icon := strings.TrimSpace(o.AllIcon); icon != "" {
		return icon
	}
	return DefaultAllIcon
}

// PagePath is the full page route under the base path.
func (o Options) PagePath() string {
	return joinBase(o.BasePath, "/")
}

// FragmentPath is the htmx endpoint that re-renders the results region.
func (o Options) FragmentPath() string {
	return joinBase(o.BasePath, "/tools")
}

// StylesheetPath points at the embedded stylesheet.
func (o Options) StylesheetPath() string {
	return joinBase(o.BasePath, "/public/static/app.css")
}

// Site holds the header content.
type Site struct {
	Title string
	// IntroHTML must already be sanitized; see RenderIntro.
	IntroHTML string
}

// PageData represents the payload for the full page.
type PageData struct {
	Title          string
	IntroHTML      string
	StylesheetURL  string
	PageEndpoint   string
	ToolsEndpoint  string
	Query          state.Session
	Categories     []CategoryButton
	Grid           GridData
	SearchHint     string
	TotalAvailable int
}

// CategoryButton is one control in the category bar.
type CategoryButton struct {
	ID           string
	Label        string
	Icon         string
	Active       bool
	Href         string
	FragmentHref string
	Count        int
}

// CardView is a single tool card.
type CardView struct {
	Name        string
	Description string
	// NameParts and DescriptionParts mark the search matches for display.
	NameParts        []Segment
	DescriptionParts []Segment
	Icon             string
	CategoryLabel    string
	URL              templ.SafeURL
}

// GridData is the payload for the results region. Exactly one of Loading,
// LoadFailed, Empty or a non-empty Cards applies.
type GridData struct {
	Cards      []CardView
	Loading    bool
	LoadFailed bool
	Empty      bool
	// PollHref is set while loading so the region can refresh itself.
	PollHref string
}

// State names the grid state for markup and logging.
func (g GridData) State() string {
	switch {
	case g.Loading:
		return "loading"
	case g.LoadFailed:
		return "failed"
	case g.Empty:
		return "empty"
	default:
		return "cards"
	}
}

// FragmentData is the payload for htmx swaps: the results region plus the
// category bar sent out of band so its active marking follows the selection.
type FragmentData struct {
	Query      state.Session
	Categories []CategoryButton
	Grid       GridData
}

// BuildPageData composes the payload for SSR rendering.
func BuildPageData(site Site, snap state.Snapshot, sess state.Session, opts Options) PageData {
	total := 0
	if snap.Catalog != nil {
		total = len(snap.Catalog.Tools)
	}
	return PageData{
		Title:          site.Title,
		IntroHTML:      site.IntroHTML,
		StylesheetURL:  opts.StylesheetPath(),
		PageEndpoint:   opts.PagePath(),
		ToolsEndpoint:  opts.FragmentPath(),
		Query:          sess,
		Categories:     BuildCategoryBar(snap.Catalog, sess, opts),
		Grid:           BuildGrid(snap, sess, opts),
		SearchHint:     "搜索工具名称或描述…",
		TotalAvailable: total,
	}
}

// BuildFragmentData prepares the htmx fragment payload.
func BuildFragmentData(snap state.Snapshot, sess state.Session, opts Options) FragmentData {
	return FragmentData{
		Query:      sess,
		Categories: BuildCategoryBar(snap.Catalog, sess, opts),
		Grid:       BuildGrid(snap, sess, opts),
	}
}

// BuildCategoryBar lists the synthetic "all" control followed by every
// category in catalog order. Only the control matching the selection is
// active; an unknown selection leaves every control inactive.
func BuildCategoryBar(c *sitecatalog.Catalog, sess state.Session, opts Options) []CategoryButton {
	counts := sitecatalog.CountByCategory(c)
	total := 0
	var categories []sitecatalog.Category
	if c != nil {
		total = len(c.Tools)
		categories = c.Categories
	}

	buttons := make([]CategoryButton, 0, len(categories)+1)
	buttons = append(buttons, categoryButton(sitecatalog.All, opts.allLabel(), opts.allIcon(), total, sess, opts))
	for _, cat := range categories {
		buttons = append(buttons, categoryButton(cat.ID, cat.Name, cat.Icon, counts[cat.ID], sess, opts))
	}
	return buttons
}

func categoryButton(id, label, icon string, count int, sess state.Session, opts Options) CategoryButton {
	next := sess.SelectCategory(id)
	return CategoryButton{
		ID:     id,
		Label:  label,
		Icon:   icon,
		Active: sess.Category == id,
		Href:   next.Href(opts.PagePath()),
		// The search box is sent with hx-include, so only the category goes here.
		FragmentHref: state.NewSession().SelectCategory(id).Href(opts.FragmentPath()),
		Count:        count,
	}
}

// BuildGrid projects the visible set for the selection into cards, or into
// the loading, load-failure or empty placeholder.
func BuildGrid(snap state.Snapshot, sess state.Session, opts Options) GridData {
	switch {
	case snap.Catalog == nil && snap.Err != nil:
		return GridData{LoadFailed: true}
	case snap.Catalog == nil:
		return GridData{Loading: true, PollHref: sess.Href(opts.FragmentPath())}
	}

	items := sess.Visible(snap)
	if len(items) == 0 {
		return GridData{Empty: true, Cards: []CardView{}}
	}
	cards := make([]CardView, 0, len(items))
	for _, item := range items {
		cards = append(cards, toCardView(snap.Catalog, item, sess.Query))
	}
	return GridData{Cards: cards}
}

func toCardView(c *sitecatalog.Catalog, item sitecatalog.Item, query string) CardView {
	desc := item.DescriptionText()
	return CardView{
		Name:             item.Name,
		Description:      desc,
		NameParts:        Highlight(item.Name, query),
		DescriptionParts: Highlight(desc, query),
		Icon:             sitecatalog.ResolveIcon(c, item),
		CategoryLabel:    CategoryLabel(c, item.Category),
		URL:              templ.URL(item.URL),
	}
}

// CategoryLabel is the owning category's icon and name, or blank when the id
// matches no category.
func CategoryLabel(c *sitecatalog.Catalog, id string) string {
	cat, ok := sitecatalog.FindCategory(c, id)
	if !ok {
		return ""
	}
	return strings.TrimSpace(cat.Icon + " " + cat.Name)
}

func joinBase(base, suffix string) string {
	base = strings.TrimSpace(base)
	if base == "/" {
		base = ""
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(suffix, "/") {
		suffix = "/" + suffix
	}
	path := base + suffix
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
