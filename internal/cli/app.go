// Package cli holds the dependencies shared by the jsbridge commands.
package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bnema/jsbridge/internal/bridge"
	"github.com/bnema/jsbridge/internal/cli/styles"
	"github.com/bnema/jsbridge/internal/domain/build"
	"github.com/bnema/jsbridge/internal/infrastructure/config"
	"github.com/bnema/jsbridge/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	// Registry collects bridge metrics. Bridge is nil unless metrics are enabled.
	Registry *prometheus.Registry
	Bridge   *bridge.Metrics

	// Context with logger
	ctx context.Context
}

// NewApp loads configuration from configFile (or the XDG location when empty)
// and builds the logger, theme and metrics registry.
func NewApp(configFile string) (*App, error) {
	mgr, err := config.NewManager(configFile)
	if err != nil {
		return nil, fmt.Errorf("config manager: %w", err)
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)

	app := &App{
		Config:   cfg,
		Manager:  mgr,
		Theme:    styles.NewTheme(),
		Registry: prometheus.NewRegistry(),
		ctx:      ctx,
	}

	if cfg.Metrics.Enabled {
		app.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if app.Bridge, err = bridge.NewMetrics(app.Registry); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	logger.Debug().
		Str("config_file", mgr.ConfigFileUsed()).
		Bool("metrics", cfg.Metrics.Enabled).
		Msg("cli initialized")
	return app, nil
}

// Close releases all resources.
func (a *App) Close() error {
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// WithContext returns a copy of the app whose context derives from ctx and
// carries the app logger.
func (a *App) WithContext(ctx context.Context) *App {
	cp := *a
	cp.ctx = logging.WithContext(ctx, *logging.FromContext(a.ctx))
	return &cp
}
