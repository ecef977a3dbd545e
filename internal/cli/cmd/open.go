//go:build webview

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/bnema/jsbridge/internal/bridge"
	"github.com/bnema/jsbridge/internal/cli"
	"github.com/bnema/jsbridge/internal/domain/entity"
	"github.com/bnema/jsbridge/internal/infrastructure/desktop"
)

var openDebug bool

var openCmd = &cobra.Command{
	Use:   "open <url>",
	Short: "Open a URL in a native window with the demo surface",
	Long: `Open a URL in a native webview window and expose the demo surface under
bridge.exposed_name.

The window only supports the direct binding, so calls from the page return
promises resolving to the method result.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().BoolVar(&openDebug, "debug", false, "enable the web inspector")
}

func runOpen(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ctx := app.Ctx()
	cfg := app.Config.Bridge

	view, err := desktop.New(ctx, desktop.Options{Title: "jsbridge", Debug: openDebug})
	if err != nil {
		return err
	}
	defer view.Destroy()

	opts, err := cli.BridgeOptions(cfg, app.Bridge)
	if err != nil {
		return err
	}
	opts = append(opts, bridge.WithMode(entity.ModeDirect))

	registry := cli.NewDemo(app.BuildInfo, cmd.OutOrStdout()).Registry(ctx)
	c, err := bridge.Attach(ctx, view, registry, cfg.ExposedName, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	view.Navigate(args[0])
	view.Run()
	return nil
}
