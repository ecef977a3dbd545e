package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/jsbridge/internal/cli/styles"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), styles.NewAboutRenderer(app.Theme).Render(app.BuildInfo))
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
