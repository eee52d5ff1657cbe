package catalog

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	sitecatalog "github.com/lmj0209/tool-website/internal/catalog"
	"github.com/lmj0209/tool-website/internal/state"
)

func strPtr(s string) *string { return &s }

func scenarioSnapshot() state.Snapshot {
	doc := sitecatalog.Catalog{
		Categories: []sitecatalog.Category{{ID: "dev", Name: "Dev", Icon: "💻"}},
		Tools: []sitecatalog.Item{
			{Name: "Linter", Description: strPtr("checks code"), URL: "https://x", Category: "dev"},
		},
	}
	return state.Snapshot{Catalog: &doc, Phase: state.PhaseReady}
}

func renderHTML(t *testing.T, c templ.Component) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.Bytes()
}

func parseHTML(t *testing.T, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	require.NoError(t, err)
	return doc
}

func texts(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func renderPage(t *testing.T, snap state.Snapshot, sess state.Session) []byte {
	t.Helper()

	data := BuildPageData(Site{Title: "工具箱"}, snap, sess, Options{})
	return renderHTML(t, Page(data))
}

func TestPageScenarioSingleCard(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, renderPage(t, scenarioSnapshot(), state.NewSession()))

	cards := doc.Find("#toolsGrid a.tool-card")
	require.Equal(t, 1, cards.Length())
	require.Equal(t, "Linter", strings.TrimSpace(cards.Find(".tool-title").Text()))
	require.Equal(t, "checks code", strings.TrimSpace(cards.Find(".tool-desc").Text()))
	require.Equal(t, "💻", strings.TrimSpace(cards.Find(".tool-icon").Text()))
	require.Equal(t, "💻 Dev", strings.TrimSpace(cards.Find(".tool-category").Text()))

	href, _ := cards.Attr("href")
	require.Equal(t, "https://x", href)
	target, _ := cards.Attr("target")
	require.Equal(t, "_blank", target)
	rel, _ := cards.Attr("rel")
	require.Equal(t, "noopener noreferrer", rel)

	_, hidden := doc.Find("#emptyState").Attr("hidden")
	require.True(t, hidden, "empty state hidden while cards are shown")
	_, hidden = doc.Find("#toolsGrid").Attr("hidden")
	require.False(t, hidden)

	for _, id := range []string{"#categories", "#searchInput", "#toolsGrid", "#emptyState"} {
		require.Equal(t, 1, doc.Find(id).Length(), "region %s must be present", id)
	}
	require.Equal(t, "工具箱", doc.Find("title").Text())
}

func TestPageScenarioSearch(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, renderPage(t, scenarioSnapshot(), state.NewSession().ChangeSearch("lint")))
	require.Equal(t, []string{"Linter"}, texts(doc, ".tool-title"))
	value, _ := doc.Find("#searchInput").Attr("value")
	require.Equal(t, "lint", value)
	require.Equal(t, "Lint", doc.Find(".tool-title mark").Text(), "the match keeps its original casing")

	doc = parseHTML(t, renderPage(t, scenarioSnapshot(), state.NewSession().ChangeSearch("zzz")))
	require.Zero(t, doc.Find(".tool-card").Length())
	_, hidden := doc.Find("#emptyState").Attr("hidden")
	require.False(t, hidden, "empty state shown")
	_, hidden = doc.Find("#toolsGrid").Attr("hidden")
	require.True(t, hidden, "grid hidden when nothing matches")
	require.Contains(t, doc.Find("#emptyState").Text(), EmptyMessage)
}

func TestPageScenarioCategory(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, renderPage(t, scenarioSnapshot(), state.NewSession().SelectCategory("dev")))
	require.Equal(t, 1, doc.Find(".tool-card").Length())
	active := doc.Find("#categories .category-btn.active")
	require.Equal(t, 1, active.Length())
	id, _ := active.Attr("data-category")
	require.Equal(t, "dev", id)

	doc = parseHTML(t, renderPage(t, scenarioSnapshot(), state.NewSession().SelectCategory("design")))
	require.Zero(t, doc.Find(".tool-card").Length())
	require.Equal(t, "empty", doc.Find("#results").AttrOr("data-state", ""))
	require.Zero(t, doc.Find("#categories .category-btn.active").Length(), "unknown selection marks nothing active")
}

func TestPageLoadFailurePlaceholder(t *testing.T) {
	t.Parallel()

	snap := state.Snapshot{Err: errors.New("GET /data/tools.json: 500"), Phase: state.PhaseFailed}
	doc := parseHTML(t, renderPage(t, snap, state.NewSession()))

	failed := doc.Find(`#toolsGrid [data-placeholder="load-failed"]`)
	require.Equal(t, 1, failed.Length())
	require.Contains(t, failed.Text(), LoadFailedMessage)
	_, hidden := doc.Find("#emptyState").Attr("hidden")
	require.True(t, hidden, "load failure must not show the empty state")
	require.Equal(t, "failed", doc.Find("#results").AttrOr("data-state", ""))
	_, polls := doc.Find("#results").Attr("hx-get")
	require.False(t, polls, "a failed load is terminal")
}

func TestPageLoadingPolls(t *testing.T) {
	t.Parallel()

	snap := state.Snapshot{Loading: true, Phase: state.PhaseLoading}
	doc := parseHTML(t, renderPage(t, snap, state.NewSession().ChangeSearch("lint")))

	results := doc.Find("#results")
	require.Equal(t, "loading", results.AttrOr("data-state", ""))
	require.Equal(t, "/tools?q=lint", results.AttrOr("hx-get", ""))
	require.Equal(t, 1, doc.Find(`[data-placeholder="loading"]`).Length())
	require.Equal(t, []string{sitecatalog.All}, categoryIDs(doc))
}

func TestCategoryBarSyntheticAll(t *testing.T) {
	t.Parallel()

	snap := scenarioSnapshot()
	buttons := BuildCategoryBar(snap.Catalog, state.NewSession().ChangeSearch("lint"), Options{BasePath: "/toolbox/"})
	require.Len(t, buttons, 2)

	all := buttons[0]
	require.Equal(t, sitecatalog.All, all.ID)
	require.Equal(t, DefaultAllLabel, all.Label)
	require.Equal(t, DefaultAllIcon, all.Icon)
	require.True(t, all.Active)
	require.Equal(t, 1, all.Count)
	require.Equal(t, "/toolbox/?q=lint", all.Href)
	require.Equal(t, "/toolbox/tools", all.FragmentHref)

	dev := buttons[1]
	require.False(t, dev.Active)
	require.Equal(t, "/toolbox/?category=dev&q=lint", dev.Href)
	require.Equal(t, "/toolbox/tools?category=dev", dev.FragmentHref)
	require.Len(t, snap.Catalog.Categories, 1, "the synthetic entry is never stored")

	custom := BuildCategoryBar(nil, state.NewSession(), Options{AllLabel: "All", AllIcon: "*"})
	require.Len(t, custom, 1)
	require.Equal(t, "All", custom[0].Label)
	require.Equal(t, "*", custom[0].Icon)
}

func TestGridCardFallbacks(t *testing.T) {
	t.Parallel()

	doc := sitecatalog.Catalog{
		Categories: []sitecatalog.Category{{ID: "dev", Name: "Dev", Icon: "💻"}},
		Tools: []sitecatalog.Item{
			{Name: "Orphan", URL: "https://o", Category: "gone"},
			{Name: "Own", URL: "https://own", Icon: "🖌", Category: "dev"},
			{Name: "Script", URL: "javascript:alert(1)", Category: "dev"},
		},
	}
	grid := BuildGrid(state.Snapshot{Catalog: &doc, Phase: state.PhaseReady}, state.NewSession(), Options{})
	require.Len(t, grid.Cards, 3)

	require.Equal(t, sitecatalog.DefaultIcon, grid.Cards[0].Icon)
	require.Empty(t, grid.Cards[0].CategoryLabel)
	require.Empty(t, grid.Cards[0].Description)

	require.Equal(t, "🖌", grid.Cards[1].Icon)
	require.Equal(t, "💻 Dev", grid.Cards[1].CategoryLabel)

	require.NotContains(t, string(grid.Cards[2].URL), "javascript")
}

func TestCardEscapesText(t *testing.T) {
	t.Parallel()

	body := renderHTML(t, Card(CardView{Name: `<script>alert("x")</script>`, URL: templ.URL("https://x")}))
	require.NotContains(t, string(body), "<script>")
	doc := parseHTML(t, body)
	require.Equal(t, `<script>alert("x")</script>`, doc.Find(".tool-title").Text())
}

func TestMarkupInNamesIsSearchableAndEscaped(t *testing.T) {
	t.Parallel()

	doc := sitecatalog.Catalog{
		Categories: []sitecatalog.Category{{ID: "dev", Name: "Dev"}},
		Tools:      []sitecatalog.Item{{Name: "Vec<T> Explorer", URL: "https://v", Category: "dev"}},
	}
	snap := state.Snapshot{Catalog: &doc, Phase: state.PhaseReady}
	body := renderPage(t, snap, state.NewSession().ChangeSearch("vec<t>"))

	require.NotContains(t, string(body), "<T>")
	page := parseHTML(t, body)
	require.Equal(t, []string{"Vec<T> Explorer"}, texts(page, ".tool-title"))
	require.Equal(t, "Vec<T>", page.Find(".tool-title mark").Text())
}

func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	sess := state.NewSession().SelectCategory("dev").ChangeSearch("code")
	first := renderPage(t, scenarioSnapshot(), sess)
	second := renderPage(t, scenarioSnapshot(), sess)
	require.Equal(t, first, second)

	frag := BuildFragmentData(scenarioSnapshot(), sess, Options{})
	require.Equal(t, renderHTML(t, Fragment(frag)), renderHTML(t, Fragment(frag)))
}

func TestFragmentCarriesOutOfBandCategoryBar(t *testing.T) {
	t.Parallel()

	frag := BuildFragmentData(scenarioSnapshot(), state.NewSession().SelectCategory("dev"), Options{})
	doc := parseHTML(t, renderHTML(t, Fragment(frag)))

	nav := doc.Find("nav#categories")
	require.Equal(t, "true", nav.AttrOr("hx-swap-oob", ""))
	require.Equal(t, "dev", doc.Find("#categoryField").AttrOr("value", ""))
	require.Equal(t, 1, doc.Find("#results .tool-card").Length())
	require.Zero(t, doc.Find("#searchInput").Length(), "the search box is not swapped")
}

func TestRenderIntro(t *testing.T) {
	t.Parallel()

	out, err := RenderIntro("Hello **world** <script>alert(1)</script>\n\n[home](https://example.com)")
	require.NoError(t, err)
	require.Contains(t, out, "<strong>world</strong>")
	require.NotContains(t, out, "<script")
	require.Contains(t, out, "nofollow")

	out, err = RenderIntro("   ")
	require.NoError(t, err)
	require.Empty(t, out)
}

func categoryIDs(doc *goquery.Document) []string {
	var ids []string
	doc.Find("#categories .category-btn").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr("data-category", ""))
	})
	return ids
}
