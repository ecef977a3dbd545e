package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/jsbridge/internal/bridge"
	"github.com/bnema/jsbridge/internal/infrastructure/config"
)

var schemaConfig bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the invocation message JSON schema",
	Long: `Print the JSON schema every invocation message is validated against.

With --config, print the schema of the configuration file instead.`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().BoolVar(&schemaConfig, "config", false, "print the configuration schema")
}

func runSchema(cmd *cobra.Command, _ []string) error {
	var (
		data []byte
		err  error
	)
	if schemaConfig {
		data, err = config.GenerateSchema()
	} else {
		data, err = bridge.Schema()
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
