package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/surfkit/rocketfeed/internal/config"
	"github.com/surfkit/rocketfeed/internal/ctxlog"
	"github.com/surfkit/rocketfeed/internal/dispatch"
	"github.com/surfkit/rocketfeed/internal/fsutil"
	"github.com/surfkit/rocketfeed/internal/hclspec"
	"github.com/surfkit/rocketfeed/internal/yamlspec"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger.
func NewApp(outW, errW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, errW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
		config: appConfig,
	}
}

// Run executes one dispatch cycle: load the catalog, resolve settings,
// optionally probe the scheduler, then hand off to the dispatcher.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	loader, err := loaderForPath(a.config.CatalogPath)
	if err != nil {
		return err
	}

	catalog, err := loader.Load(ctx, a.config.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	a.config.Overrides.Apply(&catalog.Settings)
	a.logger.Debug("Catalog loaded.",
		"systems", len(catalog.Systems), "scheduler_host", catalog.Settings.SchedulerHost)

	if catalog.Settings.SchedulerHost == "" {
		// Not fatal here: the workflow tool reports its own connection
		// errors, and some deployments configure the host via luigi.cfg.
		a.logger.Warn("No scheduler host configured; the workflow tool will use its own default.")
	}

	if a.config.CheckScheduler {
		if catalog.Settings.SchedulerHost == "" {
			return fmt.Errorf("--check-scheduler requires a scheduler host")
		}
		if err := probeScheduler(ctx, catalog.Settings.SchedulerHost); err != nil {
			return err
		}
	}

	var runner dispatch.Runner
	if a.config.DryRun {
		runner = &dispatch.DryRunner{Out: a.outW}
	} else {
		runner = &dispatch.ExecRunner{Stdout: a.outW, Stderr: a.errW}
	}

	d := dispatch.New(catalog, runner, a.config.LuigiBinary, a.config.Module, a.config.Task)
	if err := d.Dispatch(ctx, a.config.Budget); err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}

	a.logger.Info("🏁 Dispatch finished.", "systems", len(catalog.Systems))
	return nil
}

// loaderForPath picks the catalog loader by file extension. For a
// directory, HCL files win when both formats are present.
func loaderForPath(path string) (config.Loader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("catalog path: %w", err)
	}

	if !info.IsDir() {
		switch strings.ToLower(filepath.Ext(path)) {
		case hclspec.Extension:
			return hclspec.NewLoader(), nil
		case ".yaml", ".yml":
			return yamlspec.NewLoader(), nil
		default:
			return nil, fmt.Errorf("unsupported catalog format %q (want .hcl, .yaml or .yml)", filepath.Ext(path))
		}
	}

	hclFiles, err := fsutil.FindFilesByExtension(path, hclspec.Extension)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) > 0 {
		return hclspec.NewLoader(), nil
	}
	yamlFiles, err := fsutil.FindFilesByExtension(path, yamlspec.Extensions...)
	if err != nil {
		return nil, err
	}
	if len(yamlFiles) > 0 {
		return yamlspec.NewLoader(), nil
	}
	return nil, fmt.Errorf("no catalog files found under %s", path)
}
