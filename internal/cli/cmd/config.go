package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/jsbridge/internal/cli/styles"
	"github.com/bnema/jsbridge/internal/infrastructure/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Locate, create and inspect the configuration file.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file holding the defaults",
	Long: `Write the default configuration to the config file location.

An existing file is left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after defaults, the config file and JSBRIDGE_* environment variables are applied.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")
}

// configPath is the --config flag or the XDG location.
func configPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return config.GetConfigFile()
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	renderer := styles.NewConfigRenderer(app.Theme)
	path, err := configPath()
	if err != nil {
		return err
	}
	exists, err := fileExists(path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), renderer.RenderPath(path, exists))
	return err
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	renderer := styles.NewConfigRenderer(app.Theme)
	out := cmd.OutOrStdout()
	path, err := configPath()
	if err != nil {
		return err
	}
	exists, err := fileExists(path)
	if err != nil {
		return err
	}
	if exists && !configForce {
		_, err = fmt.Fprint(out, renderer.RenderExists(path))
		return err
	}

	if err := config.WriteConfig(config.DefaultConfig(), path); err != nil {
		return err
	}
	_, err = fmt.Fprint(out, renderer.RenderWritten(path))
	return err
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	return config.Encode(cmd.OutOrStdout(), app.Config)
}
