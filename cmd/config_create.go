package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"roadboard/config"
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

When --source is given, it is written as source.path. If a configuration file
is already in use, no new file is written.`,
	Example: `
  # Create default config at $HOME/.roadboard.yaml
  roadboard config create

  # Create a project-local config pointing at a CSV export
  roadboard --configFile ./.roadboard.yaml --source ./roadmap.csv config create
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig(cmd.OutOrStdout(), sourcePath)
	},
}

func saveDefaultConfig(out io.Writer, source string) error {
	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := ensureConfigFile(configPath, configTemplate(source))
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(out, "New config file created at: %s\n", configPath)
		return nil
	}

	fmt.Fprintf(out, "Config file already exists at: %s\n", configPath)
	return nil
}

// configTemplate returns the example config with source.path replaced when
// source is set.
func configTemplate(source string) string {
	template := config.ExampleYAML()
	source = strings.TrimSpace(source)
	if source == "" {
		return template
	}
	return strings.Replace(template, `path: "roadmap.xlsx"`, "path: "+strconv.Quote(source), 1)
}

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by roadboard.

If no configuration file is active, the command returns an error.`,
	Example: `
  # Delete active config
  roadboard config delete

  # Delete config at a custom path
  roadboard --configFile ./custom-roadboard.yaml config delete
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			return fmt.Errorf("no configuration file found")
		}
		if err := removeConfigFile(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file successfully deleted: %s\n", configPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configCreateCmd, configDeleteCmd)
}
