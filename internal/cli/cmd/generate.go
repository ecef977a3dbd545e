package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/jsbridge/internal/bridge"
	"github.com/bnema/jsbridge/internal/cli"
	"github.com/bnema/jsbridge/internal/domain/entity"
)

var (
	generatePrefix   string
	generateWithInit bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print the proxy script for the demo surface",
	Long: `Print the proxy script injected into pages in shimmed mode.

The navigation transport is used unless a signature prefix is configured
or given with --prefix, in which case the prompt transport is used.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&generatePrefix, "prefix", "", "signature prefix (selects the prompt transport)")
	generateCmd.Flags().BoolVar(&generateWithInit, "init", false, "append the page init call")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	cfg := app.Config.Bridge
	opts := bridge.ProxyOptions{
		Transport:       entity.TransportNavigation,
		ReservedURL:     cfg.ReservedURL,
		SignaturePrefix: cfg.SignaturePrefix,
	}
	if generatePrefix != "" {
		opts.SignaturePrefix = generatePrefix
	}
	if opts.SignaturePrefix != "" {
		opts.Transport = entity.TransportPrompt
	}

	registry := cli.NewDemo(app.BuildInfo, cmd.ErrOrStderr()).Registry(app.Ctx())
	script, err := bridge.GenerateProxy(cfg.ExposedName, registry.Methods(), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprint(out, script); err != nil {
		return err
	}
	if generateWithInit {
		initScript, err := bridge.InitScript(cfg.InitFunction)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, initScript)
		return err
	}
	return nil
}
