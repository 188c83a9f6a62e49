package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"roadboard/aggregate"
	"roadboard/output"
)

var (
	exportFormat  string
	exportMode    string
	exportOutput  string
	exportFilters filterFlags
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export filtered records or the dashboard to CSV/Excel",
	Long: `Export the records matching the filter flags.

Modes:
- raw: export each filtered record with its source columns plus group_list, year and month
- dashboard: export an Excel workbook with Summary, By Department, By Person and Timeline sheets

Output format can be selected explicitly via --output-format or inferred from --output extension.`,
	Example: `
  # Export filtered rows to CSV
  roadboard export --status Ongoing --output ./ongoing.csv

  # Export filtered rows to Excel
  roadboard export --department Platform --output ./platform.xlsx

  # Export the dashboard workbook
  roadboard export --mode dashboard --year 2024 --output ./dashboard-2024.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		rt, err := loadSession()
		if err != nil {
			return err
		}
		table, err := rt.filteredTable(cmd.Context(), cmd, &exportFilters)
		if err != nil {
			return err
		}

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "raw":
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := output.WriteFile(exportOutput, writer, table); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: raw, Format: %s, File: %s\n", table.Len(), format, exportOutput)
		case "dashboard":
			if f := strings.ToLower(strings.TrimSpace(format)); f != "excel" && f != "xlsx" {
				return fmt.Errorf("dashboard export requires excel output, got %s", format)
			}
			dashboard := aggregate.Build(table, rt.timelineKey())
			if err := output.WriteDashboardExcelFile(exportOutput, dashboard); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: dashboard, Format: excel, File: %s\n", table.Len(), exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: raw, dashboard)", exportMode)
		}
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "raw", "Export mode: raw|dashboard")
	exportCmd.Flags().StringVarP(&exportFormat, "output-format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportFilters.register(exportCmd)

	_ = exportCmd.MarkFlagRequired("output")
}
