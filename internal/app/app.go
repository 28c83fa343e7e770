package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/pimenu/internal/config"
	"github.com/five82/pimenu/internal/engine"
	"github.com/five82/pimenu/internal/executor"
	"github.com/five82/pimenu/internal/icons"
	"github.com/five82/pimenu/internal/logging"
	"github.com/five82/pimenu/internal/menu"
	"github.com/five82/pimenu/internal/prefs"
	"github.com/five82/pimenu/internal/reload"
	"github.com/five82/pimenu/internal/state"
	"github.com/five82/pimenu/internal/ui"
)

// Options configure the PiMenu application.
type Options struct {
	ConfigPath string // empty uses ~/.config/pimenu/config.yaml
	PrefsPath  string // empty uses ~/.config/pimenu/prefs.toml
	Fullscreen bool
}

// Run boots PiMenu and blocks until the user quits or ctx is cancelled. A menu
// file that cannot be loaded at startup is returned as an error.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var logger *slog.Logger
	logPath := ""
	if logFile, err := logging.Open(cfg.LogFile, logging.ParseLevel(cfg.LogLevel)); err != nil {
		logger = logging.Discard()
	} else {
		defer func() { _ = logFile.Close() }()
		logger = logFile.Logger
		logPath = logFile.Path()
	}
	logger.Info("pimenu starting",
		"menu", cfg.MenuFile,
		"icons", cfg.IconDir,
		"script", cfg.ScriptPath,
		"fullscreen", opts.Fullscreen,
	)

	runner := executor.New(executor.Options{
		Shell:          cfg.Shell,
		ScriptPath:     cfg.ScriptPath,
		Dir:            cfg.InstallDir,
		CommandTimeout: cfg.CommandTimeout,
		ScriptTimeout:  cfg.ScriptTimeout,
		Logger:         logger,
	})

	eng, err := engine.New(engine.Options{
		Load:   func() (*menu.Tree, time.Time, error) { return menu.Load(cfg.MenuFile) },
		Policy: reload.NewPolicy(cfg.MenuFile),
		Icons:  icons.NewResolver(cfg.IconDir, logger),
		Runner: runner,
		Logger: logger,
	})
	if err != nil {
		logger.Error("menu load failed", "path", cfg.MenuFile, "error", err)
		return err
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	store := &state.Store{}
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	g, gctx := errgroup.WithContext(watchCtx)
	g.Go(func() error {
		WatchMenu(gctx, cfg.MenuFile, store, logger)
		return nil
	})
	g.Go(func() error {
		defer stopWatch()
		return ui.Run(ui.Options{
			Context:    ctx,
			Engine:     eng,
			Store:      store,
			Logger:     logger,
			Fullscreen: opts.Fullscreen,
			SaveDir:    cfg.SaveDir,
			LogPath:    logPath,
			ThemeName:  userPrefs.Theme,
			PrefsPath:  prefsPath,
		})
	})

	err = g.Wait()
	logger.Info("pimenu stopped", "error", err)
	return err
}
