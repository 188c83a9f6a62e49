package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage roadboard configuration file values.",
	Long: `Create, edit, display, and delete the roadboard configuration file.

The configuration stores the data source and dashboard defaults:
- source.path / source.format / source.sheet / source.credentials_file
- serve.port / serve.open_browser
- snapshot.db_path
- log.level / log.format
- dashboard.timeline_by

Every key can also be set through the environment, e.g. ROADBOARD_SOURCE_PATH,
including from a .env file in the working directory.`,
	Example: `
  # Create default config in $HOME/.roadboard.yaml
  roadboard config create

  # Show active config and source file
  roadboard config show

  # Open active config in editor (creates example if missing)
  roadboard config edit

  # Delete active config file
  roadboard config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
