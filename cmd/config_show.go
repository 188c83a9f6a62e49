package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"roadboard/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  roadboard config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Config file loaded from:", configPath)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No config file loaded; showing defaults and overrides.")
		}
		printConfig(cmd.OutOrStdout(), cfg)
	},
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "source.path: %s\n", cfg.Source.Path)
	fmt.Fprintf(out, "source.format: %s\n", valueOrDefault(cfg.Source.Format, "(inferred)"))
	fmt.Fprintf(out, "source.sheet: %s\n", valueOrDefault(cfg.Source.Sheet, "(first sheet)"))
	if cfg.Source.CredentialsFile != "" {
		fmt.Fprintf(out, "source.credentials_file: %s\n", cfg.Source.CredentialsFile)
	}
	fmt.Fprintf(out, "serve.port: %d\n", cfg.Serve.Port)
	fmt.Fprintf(out, "serve.open_browser: %t\n", cfg.Serve.OpenBrowser)
	fmt.Fprintf(out, "snapshot.db_path: %s\n", cfg.Snapshot.DBPath)
	fmt.Fprintf(out, "log.level: %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "log.format: %s\n", cfg.Log.Format)
	fmt.Fprintf(out, "dashboard.timeline_by: %s\n", cfg.Dashboard.TimelineBy)
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
