package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/jsbridge/internal/application/usecase"
	"github.com/bnema/jsbridge/internal/cli"
	"github.com/bnema/jsbridge/internal/cli/styles"
	"github.com/bnema/jsbridge/internal/infrastructure/config"
	"github.com/bnema/jsbridge/internal/infrastructure/jsengine"
	"github.com/bnema/jsbridge/internal/logging"
)

const (
	reloadDebounce  = 150 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

var (
	runWatch bool
	runURL   string
)

var runCmd = &cobra.Command{
	Use:   "run <page.js>",
	Short: "Load a page into the headless engine with the demo surface",
	Long: `Load a page script into the headless engine and attach the demo native
surface (greet, logEvent, echo, now, version) under bridge.exposed_name.

The bridge mode is probed from engine.runtime_version unless bridge.mode
forces one. Events sent with logEvent and console.log output are printed.

With --watch the page is loaded again whenever the page file or the config
file changes, until interrupted. When metrics are enabled and metrics.listen
is set, /metrics is served while the command runs.

Examples:
  jsbridge run page.js
  JSBRIDGE_ENGINE_RUNTIME_VERSION=2.3.6 jsbridge run page.js
  jsbridge run --watch page.js`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "reload the page when it or the config changes")
	runCmd.Flags().StringVar(&runURL, "url", "", "URL reported for the page (default file:// URL of the script)")
}

func runRun(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	pageURL := runURL
	if pageURL == "" {
		pageURL = (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
	}

	sigCtx, stop := signal.NotifyContext(app.Ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	r := &pageRunner{
		app:      app,
		path:     path,
		url:      pageURL,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		renderer: styles.NewBridgeRenderer(app.Theme),
	}

	g, gctx := errgroup.WithContext(ctx)
	if m := app.Config.Metrics; m.Enabled && m.Listen != "" {
		g.Go(func() error { return serveMetrics(gctx, m.Listen, app.Registry) })
	}

	if !runWatch {
		g.Go(func() error {
			defer cancel()
			return r.run(gctx)
		})
		return g.Wait()
	}

	trigger := make(chan struct{}, 1)
	notify := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}
	notify()

	if used := app.Manager.ConfigFileUsed(); used != "" {
		if exists, _ := fileExists(used); exists {
			app.Manager.OnConfigChange(func(*config.Config) { notify() })
			if err := app.Manager.Watch(gctx); err != nil {
				return fmt.Errorf("watch config: %w", err)
			}
		}
	}

	g.Go(func() error { return watchPage(gctx, path, notify) })
	g.Go(func() error { return r.loop(gctx, trigger) })
	return g.Wait()
}

// pageRunner loads the page once per trigger, each time with a fresh view,
// registry and the latest configuration.
type pageRunner struct {
	app      *cli.App
	path     string
	url      string
	out      io.Writer
	errOut   io.Writer
	renderer *styles.BridgeRenderer
}

func (r *pageRunner) loop(ctx context.Context, trigger <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-trigger:
		}

		// Let bursts of editor writes settle.
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reloadDebounce):
		}
		select {
		case <-trigger:
		default:
		}

		if err := r.run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintln(r.errOut, r.renderer.RenderError(err))
		}
	}
}

func (r *pageRunner) run(ctx context.Context) error {
	source, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read page: %w", err)
	}

	cfg := r.app.Manager.Get()
	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	ctx = logging.WithURL(logging.WithContext(ctx, logger), r.url)

	opts, err := cli.BridgeOptions(cfg.Bridge, r.app.Bridge)
	if err != nil {
		return err
	}

	view := jsengine.New(ctx, jsengine.WithRuntimeVersion(cfg.Engine.RuntimeVersion))
	demo := cli.NewDemo(r.app.BuildInfo, r.out)
	uc := usecase.NewRunPageUseCase(demo.Registry(ctx))

	out, err := uc.Execute(ctx, usecase.RunPageInput{
		Host:        view,
		URL:         r.url,
		Source:      string(source),
		ExposedName: cfg.Bridge.ExposedName,
		Options:     opts,
	})
	for _, line := range view.Console() {
		fmt.Fprintln(r.out, line)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(r.out, r.renderer.RenderRun(r.url, out))
	return err
}

// watchPage calls notify when path is written or replaced. The parent
// directory is watched so editors that save by rename are seen.
func watchPage(ctx context.Context, path string, notify func()) error {
	log := logging.FromContext(ctx).With().Str("component", "watch").Logger()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	log.Info().Str("file", path).Msg("watching page")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debug().Str("op", ev.Op.String()).Msg("page changed")
			notify()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: shutdownTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logging.FromContext(ctx).Info().Str("addr", addr).Msg("serving metrics")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
