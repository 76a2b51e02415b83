package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/darsamo/bites/internal/config"
	"github.com/darsamo/bites/internal/ledger"
	"github.com/darsamo/bites/internal/logging"
	"github.com/darsamo/bites/internal/menu"
	"github.com/darsamo/bites/internal/prefs"
	"github.com/darsamo/bites/internal/state"
	"github.com/darsamo/bites/internal/storage"
	"github.com/darsamo/bites/internal/ui"
)

// Options configure the kiosk application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/darsamo/prefs.toml
}

// Run boots the kiosk TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	catalog, err := menu.Default()
	if err != nil {
		return fmt.Errorf("load menu: %w", err)
	}

	backend, err := storage.Open(ctx, cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	view := &state.Store{}
	session, err := OpenSession(ctx, SessionOptions{
		Ledger: ledger.New(ledger.Options{
			Timings:  cfg.Kitchen,
			Sections: catalog,
			Logger:   logger.Named("ledger"),
		}),
		Storage:  backend,
		State:    view,
		Logger:   logger.Named("session"),
		Language: cfg.Language,
		Backoff:  cfg.Tick,
	})
	if err != nil {
		_ = backend.Close()
		return fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("close storage", zap.Error(err))
		}
	}()

	logger.Info("kiosk started",
		zap.String("storage", string(cfg.Storage.Backend)),
		zap.String("language", string(session.Language())),
		zap.Duration("tick", cfg.Tick),
	)

	clockCtx, stopClock := context.WithCancel(ctx)
	defer stopClock()
	StartClock(clockCtx, session, cfg.Tick)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Kiosk:     session,
		Store:     view,
		Catalog:   catalog,
		LogPath:   cfg.Log.Path,
		Refresh:   cfg.Tick,
		ThemeName: userPrefs.Theme,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Logger:    logger.Named("ui"),
	})
	logger.Info("kiosk stopped", zap.Error(err))
	return err
}
