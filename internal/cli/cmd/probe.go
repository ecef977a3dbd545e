package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/jsbridge/internal/application/usecase"
	"github.com/bnema/jsbridge/internal/cli/styles"
	"github.com/bnema/jsbridge/internal/domain/entity"
)

var probeCmd = &cobra.Command{
	Use:   "probe [version]",
	Short: "Show which bridge mode a runtime version gets",
	Long: `Apply the mode decision made when a bridge attaches.

Without an argument the configured engine.runtime_version is probed.

Examples:
  jsbridge probe 2.3.6    # shimmed
  jsbridge probe 4.4      # direct`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	cfg := app.Config.Bridge
	version := app.Config.Engine.RuntimeVersion
	if len(args) == 1 {
		version = args[0]
	}
	broken := entity.VersionRange{Min: cfg.BrokenMin, Max: cfg.BrokenMax}

	out, err := usecase.NewProbeBridgeUseCase().Execute(app.Ctx(), usecase.ProbeBridgeInput{
		RuntimeVersion:  version,
		Mode:            cfg.Mode,
		BrokenRange:     broken,
		SignaturePrefix: cfg.SignaturePrefix,
	})
	if err != nil {
		return err
	}

	renderer := styles.NewBridgeRenderer(app.Theme)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderProbe(version, broken, out))
	return err
}
