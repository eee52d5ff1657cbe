package state

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lmj0209/tool-website/internal/catalog"
	"github.com/lmj0209/tool-website/internal/catalog/source"
)

func strPtr(s string) *string { return &s }

func scenarioCatalog() catalog.Catalog {
	return catalog.Catalog{
		Categories: []catalog.Category{{ID: "dev", Name: "Dev", Icon: "💻"}},
		Tools: []catalog.Item{
			{Name: "Linter", Description: strPtr("checks code"), URL: "https://x", Category: "dev"},
		},
	}
}

func staticLoader(doc catalog.Catalog, err error) source.Loader {
	return source.LoaderFunc(func(context.Context) (catalog.Catalog, error) {
		return doc, err
	})
}

func TestAppLoadSuccess(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	app := New(Options{now: func() time.Time { return fixed }})
	require.Equal(t, PhaseIdle, app.Snapshot().Phase)
	require.Nil(t, app.Snapshot().Catalog)

	var notified []Snapshot
	var mu sync.Mutex
	app.Subscribe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		notified = append(notified, s)
	})

	snap, err := app.Load(context.Background(), staticLoader(scenarioCatalog(), nil))
	require.NoError(t, err)
	require.False(t, snap.Loading)
	require.Equal(t, PhaseReady, snap.Phase)
	require.NotNil(t, snap.Catalog)
	require.Len(t, snap.Catalog.Tools, 1)
	require.Equal(t, fixed, snap.LoadedAt)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, notified, 1, "subscribers hear about the first render once")
	require.Equal(t, PhaseReady, notified[0].Phase)
}

func TestAppLoadKeepsDisplayTextSearchable(t *testing.T) {
	t.Parallel()

	doc := catalog.Catalog{
		Categories: []catalog.Category{{ID: "dev", Name: "Dev"}},
		Tools: []catalog.Item{
			{Name: "Vec<T> Explorer", Description: strPtr("Convert <b> and <i> tags to Markdown"), URL: "https://v", Category: "dev"},
		},
	}
	snap, err := New(Options{}).Load(context.Background(), staticLoader(doc, nil))
	require.NoError(t, err)

	require.Equal(t, "Vec<T> Explorer", snap.Catalog.Tools[0].Name)
	require.Equal(t, "Convert <b> and <i> tags to Markdown", snap.Catalog.Tools[0].DescriptionText())
	require.Len(t, catalog.VisibleItems(snap.Catalog, catalog.All, "vec<t>"), 1)
	require.Len(t, catalog.VisibleItems(snap.Catalog, "dev", "<b>"), 1)
}

func TestAppLoadFailureLeavesCatalogUnset(t *testing.T) {
	t.Parallel()

	app := New(Options{})
	loadErr := &source.StatusError{URL: "http://x/data/tools.json", StatusCode: 500}
	snap, err := app.Load(context.Background(), staticLoader(catalog.Catalog{}, loadErr))
	require.Error(t, err)
	require.ErrorAs(t, err, &loadErr)
	require.Nil(t, snap.Catalog)
	require.False(t, snap.Loading)
	require.Equal(t, PhaseFailed, snap.Phase)
}

func TestAppLoadRejectsInvalidDocument(t *testing.T) {
	t.Parallel()

	app := New(Options{})
	doc := catalog.Catalog{Categories: []catalog.Category{{ID: "a"}, {ID: "a"}}}
	snap, err := app.Load(context.Background(), staticLoader(doc, nil))
	require.ErrorIs(t, err, catalog.ErrInvalid)
	require.Nil(t, snap.Catalog)
}

func TestAppLoadRecoversPanics(t *testing.T) {
	t.Parallel()

	app := New(Options{})
	loader := source.LoaderFunc(func(context.Context) (catalog.Catalog, error) {
		panic("kaboom")
	})
	snap, err := app.Load(context.Background(), loader)
	require.ErrorIs(t, err, source.ErrLoad)
	require.Equal(t, PhaseFailed, snap.Phase)
}

func TestAppStartsOnlyOnce(t *testing.T) {
	t.Parallel()

	var calls int
	var mu sync.Mutex
	loader := source.LoaderFunc(func(context.Context) (catalog.Catalog, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return scenarioCatalog(), nil
	})

	app := New(Options{})
	app.Start(context.Background(), loader)
	app.Start(context.Background(), loader)
	_, err := app.Load(context.Background(), loader)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, calls)
}

func TestAppLoadingFlagWhileInFlight(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	loader := source.LoaderFunc(func(ctx context.Context) (catalog.Catalog, error) {
		<-release
		return scenarioCatalog(), nil
	})

	app := New(Options{})
	app.Start(context.Background(), loader)
	snap := app.Snapshot()
	require.True(t, snap.Loading)
	require.Equal(t, PhaseLoading, snap.Phase)
	require.Nil(t, snap.Catalog)

	close(release)
	<-app.Done()
	require.False(t, app.Snapshot().Loading)
}

func TestAppTimeout(t *testing.T) {
	t.Parallel()

	loader := source.LoaderFunc(func(ctx context.Context) (catalog.Catalog, error) {
		<-ctx.Done()
		return catalog.Catalog{}, ctx.Err()
	})
	app := New(Options{Timeout: 10 * time.Millisecond})
	_, err := app.Load(context.Background(), loader)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestAppReplace(t *testing.T) {
	t.Parallel()

	app := New(Options{})
	_, err := app.Load(context.Background(), staticLoader(scenarioCatalog(), nil))
	require.NoError(t, err)

	next := scenarioCatalog()
	next.Tools = append(next.Tools, catalog.Item{Name: "Formatter", URL: "https://f", Category: "dev"})
	require.NoError(t, app.Replace(next))
	require.Len(t, app.Snapshot().Catalog.Tools, 2)

	bad := catalog.Catalog{Categories: []catalog.Category{{ID: "dev"}, {ID: "dev"}}}
	require.ErrorIs(t, app.Replace(bad), catalog.ErrInvalid)
	require.Len(t, app.Snapshot().Catalog.Tools, 2, "invalid replacement keeps the previous catalog")
}

func TestSessionTransitions(t *testing.T) {
	t.Parallel()

	s := NewSession()
	require.Equal(t, catalog.All, s.Category)
	require.Empty(t, s.Query)

	s = s.SelectCategory("dev")
	require.Equal(t, "dev", s.Category)

	s = s.ChangeSearch("  lint \t")
	require.Equal(t, "lint", s.Query)
	require.Equal(t, "dev", s.Category, "search keeps the category")

	s = s.SelectCategory("")
	require.Equal(t, catalog.All, s.Category)
	require.Equal(t, "lint", s.Query, "category change keeps the search")
}

func TestSessionVisibleScenarios(t *testing.T) {
	t.Parallel()

	doc := scenarioCatalog()
	snap := Snapshot{Catalog: &doc, Phase: PhaseReady}

	require.Len(t, NewSession().Visible(snap), 1)
	require.Len(t, NewSession().ChangeSearch("lint").Visible(snap), 1)
	require.Empty(t, NewSession().ChangeSearch("zzz").Visible(snap))
	require.Len(t, NewSession().SelectCategory("dev").Visible(snap), 1)
	require.Empty(t, NewSession().SelectCategory("design").Visible(snap))
	require.Empty(t, NewSession().Visible(Snapshot{Loading: true}))
}

func TestSessionValuesRoundTrip(t *testing.T) {
	t.Parallel()

	s := SessionFromValues(url.Values{"category": {"dev"}, "q": {" lint "}})
	require.Equal(t, Session{Category: "dev", Query: "lint"}, s)
	require.Equal(t, "/tools?category=dev&q=lint", s.Href("/tools"))

	require.Equal(t, "/", NewSession().Href("/"))
	require.Equal(t, NewSession(), SessionFromValues(url.Values{}))
}

func TestPhaseString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ready", PhaseReady.String())
	require.Equal(t, "phase(9)", Phase(9).String())
}
