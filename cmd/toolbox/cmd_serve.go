package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lmj0209/tool-website/internal/catalog/source"
	"github.com/lmj0209/tool-website/internal/config"
	"github.com/lmj0209/tool-website/internal/httpserver"
	"github.com/lmj0209/tool-website/internal/state"
	catalogtpl "github.com/lmj0209/tool-website/internal/templates/catalog"
	"github.com/lmj0209/tool-website/internal/watch"
)

const shutdownGrace = 10 * time.Second

func newServeCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog site",
		Long: `serve starts the web server and loads the catalog once in the background.
Pages rendered before the load settles show a loading placeholder; a failed
load shows an error placeholder and is not retried.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :$PORT or :8080)")
	cmd.Flags().String("base-path", "", "path prefix the site is mounted under")
	cmd.Flags().Bool("watch", false, "reload a local data file when it changes")
	cmd.Flags().Duration("load-timeout", 0, "give up on the catalog load after this long (0 waits)")
	return cmd
}

func runServe(parent context.Context, cfg config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("environment", cfg.Environment))
	if cfg.File != "" {
		logger.Info("using config file", zap.String("file", cfg.File))
	}

	loader, err := source.New(cfg.Data.Location, source.Options{})
	if err != nil {
		return err
	}
	intro, err := catalogtpl.RenderIntro(cfg.Site.Intro)
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := state.New(state.Options{Logger: logger.Named("catalog"), Timeout: cfg.Load.Timeout})
	app.Subscribe(logServedCatalog(logger.Named("http")))
	app.Start(ctx, loader)

	srv := httpserver.New(httpserver.Config{
		Address:  cfg.HTTP.Addr,
		BasePath: cfg.HTTP.BasePath,
		App:      app,
		Site:     catalogtpl.Site{Title: cfg.Site.Title, IntroHTML: intro},
		AllLabel: cfg.Site.AllLabel,
		AllIcon:  cfg.Site.AllIcon,
		Logger:   logger.Named("http"),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("toolbox listening", zap.String("addr", srv.Addr), zap.String("data", cfg.Data.Location))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received; draining requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			return err
		}
		return nil
	})
	if cfg.Data.Watch {
		w, err := watch.New(cfg.Data.Location, loader, app, watch.Options{Logger: logger.Named("watch")})
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			select {
			case <-app.Done():
			case <-gctx.Done():
				return nil
			}
			return w.Run(gctx)
		})
	}

	return g.Wait()
}

// logServedCatalog reports what the pages render after the load settles and
// after every watch reload.
func logServedCatalog(logger *zap.Logger) func(state.Snapshot) {
	return func(snap state.Snapshot) {
		if snap.Catalog == nil {
			logger.Warn("serving load-failure placeholder", zap.Stringer("phase", snap.Phase), zap.Error(snap.Err))
			return
		}
		logger.Info("serving catalog",
			zap.Stringer("phase", snap.Phase),
			zap.Int("categories", len(snap.Catalog.Categories)),
			zap.Int("tools", len(snap.Catalog.Tools)),
			zap.Time("loaded_at", snap.LoadedAt),
		)
	}
}
