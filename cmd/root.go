/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"roadboard/config"
)

const envPrefix = "ROADBOARD"

var (
	cfgFile      string
	sourcePath   string
	sourceFormat string
	sourceSheet  string
	logLevel     string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roadboard",
	Short: "Filter and summarize roadmap spreadsheets in a local dashboard.",
	Long: `
**********************************************
*               ROADBOARD                    *
**********************************************

This CLI loads a roadmap tracking spreadsheet once, filters it by status, year,
month, department, person and group, and shows summary metrics, time per
department and person, and a project timeline.

Supported sources:
- Excel: .xlsx, .xlsm, .xls
- CSV: .csv
- Snapshot database written by "roadboard snapshot save": .db, .sqlite
- Google Sheets: gsheet://<spreadsheet-id>[/<sheet>]
`,
	Example: `
  # Create configuration file
  roadboard config create

  # Open the dashboard for a spreadsheet
  roadboard serve --source ./roadmap.xlsx

  # Print metrics for one department
  roadboard summary --department Platform

  # Export the filtered records
  roadboard export --status Ongoing --output ./ongoing.xlsx

  # Export the dashboard workbook
  roadboard export --mode dashboard --output ./dashboard.xlsx

  # Archive the current spreadsheet
  roadboard snapshot save
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.roadboard.yaml, then ./.roadboard.yaml)")
	rootCmd.PersistentFlags().StringVar(&sourcePath, "source", "", "Source path override (spreadsheet, CSV, snapshot database or gsheet:// URL)")
	rootCmd.PersistentFlags().StringVar(&sourceFormat, "source-format", "", "Source format override: excel|csv|snapshot|gsheet")
	rootCmd.PersistentFlags().StringVar(&sourceSheet, "sheet", "", "Sheet name for Excel and Google Sheets sources")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override: debug|info|warn|error")

	_ = viper.BindPFlag(config.KeySourcePath, rootCmd.PersistentFlags().Lookup("source"))
	_ = viper.BindPFlag(config.KeySourceFormat, rootCmd.PersistentFlags().Lookup("source-format"))
	_ = viper.BindPFlag(config.KeySourceSheet, rootCmd.PersistentFlags().Lookup("sheet"))
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to read .env: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".roadboard" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".roadboard")
	}

	// ROADBOARD_SOURCE_PATH, ROADBOARD_SERVE_PORT, ...
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults and flags. Create one with: roadboard config create")
	}
}
