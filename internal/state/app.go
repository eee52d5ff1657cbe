// Package state holds the application state shared by every view: the loaded
// catalog, the loading flag and the outcome of the one-time load.
package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lmj0209/tool-website/internal/catalog"
	"github.com/lmj0209/tool-website/internal/catalog/source"
)

// Phase describes where the catalog load stands.
type Phase int

const (
	// PhaseIdle means Start has not been called yet.
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Snapshot is a consistent read of the application state. Catalog is nil
// until a load succeeds.
type Snapshot struct {
	Catalog  *catalog.Catalog
	Loading  bool
	Err      error
	LoadedAt time.Time
	Phase    Phase
}

// Options configures an App.
type Options struct {
	Logger *zap.Logger
	// Timeout bounds the load attempt; zero waits as long as ctx allows.
	Timeout time.Duration
	now     func() time.Time
}

// App owns the process-wide catalog state.
type App struct {
	mu       sync.RWMutex
	snap     Snapshot
	started  bool
	done     chan struct{}
	watchers []func(Snapshot)

	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time
}

// New constructs an idle App.
func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.now
	if now == nil {
		now = time.Now
	}
	return &App{
		done:    make(chan struct{}),
		logger:  logger,
		timeout: opts.Timeout,
		now:     now,
	}
}

// Snapshot returns the current state.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap
}

// Subscribe registers fn to run after the load settles and after every
// Replace. fn runs on the loading goroutine and must not block.
func (a *App) Subscribe(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.watchers = append(a.watchers, fn)
}

// Done is closed once the initial load has settled, successfully or not.
func (a *App) Done() <-chan struct{} {
	return a.done
}

// Start begins the one load of this session in the background. Calls after
// the first are ignored. Failures are recorded on the snapshot, never retried.
func (a *App) Start(ctx context.Context, loader source.Loader) {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return
	}
	a.started = true
	a.snap = Snapshot{Loading: true, Phase: PhaseLoading}
	a.mu.Unlock()

	go a.run(ctx, loader)
}

// Load runs Start and waits for the load to settle or ctx to end.
func (a *App) Load(ctx context.Context, loader source.Loader) (Snapshot, error) {
	a.Start(ctx, loader)
	select {
	case <-a.done:
	case <-ctx.Done():
		return a.Snapshot(), ctx.Err()
	}
	snap := a.Snapshot()
	return snap, snap.Err
}

func (a *App) run(ctx context.Context, loader source.Loader) {
	defer close(a.done)

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	doc, err := safeLoad(ctx, loader)
	if err == nil {
		err = catalog.Validate(&doc)
	}
	if err != nil {
		a.logger.Error("catalog load failed", zap.Error(err))
		a.settle(Snapshot{Err: err, Phase: PhaseFailed})
		return
	}

	clean := catalog.Normalize(doc)
	if unknown := catalog.UnknownCategoryRefs(&clean); len(unknown) > 0 {
		a.logger.Warn("tools reference unknown categories", zap.Strings("tools", unknown))
	}
	a.logger.Info("catalog loaded",
		zap.Int("categories", len(clean.Categories)),
		zap.Int("tools", len(clean.Tools)),
	)
	a.settle(Snapshot{Catalog: &clean, Phase: PhaseReady, LoadedAt: a.now()})
}

// Replace swaps in a new catalog, e.g. after the data file changed on disk.
// The previous catalog stays in place when doc is invalid.
func (a *App) Replace(doc catalog.Catalog) error {
	if err := catalog.Validate(&doc); err != nil {
		return err
	}
	clean := catalog.Normalize(doc)
	a.settle(Snapshot{Catalog: &clean, Phase: PhaseReady, LoadedAt: a.now()})
	return nil
}

func (a *App) settle(snap Snapshot) {
	a.mu.Lock()
	a.snap = snap
	watchers := append([]func(Snapshot){}, a.watchers...)
	a.mu.Unlock()

	for _, fn := range watchers {
		fn(snap)
	}
}

// safeLoad keeps a panicking loader from taking the process down.
func safeLoad(ctx context.Context, loader source.Loader) (doc catalog.Catalog, err error) {
	if loader == nil {
		return catalog.Catalog{}, fmt.Errorf("%w: no loader configured", source.ErrLoad)
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: loader panic: %v", source.ErrLoad, rec)
		}
	}()
	return loader.Load(ctx)
}
