package cmd

import (
	"github.com/spf13/cobra"

	"roadboard/aggregate"
	"roadboard/output"
)

var (
	summaryFilters    filterFlags
	summaryTimelineBy string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print dashboard metrics for the filtered records",
	Long: `Print record count, total and average time, time per department and
person, and the timeline for the records matching the filter flags.

Filter flags are repeatable. A flag that is not given keeps every value; a flag
given only with an empty value ("--status=") selects nothing.`,
	Example: `
  # Metrics for everything
  roadboard summary

  # Ongoing work of two departments in 2024
  roadboard summary --status Ongoing --department Platform --department Data --year 2024

  # Records tagged with a group, timeline keyed by person
  roadboard summary --group "Customer Delivery" --timeline person
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadSession()
		if err != nil {
			return err
		}

		key := rt.timelineKey()
		if cmd.Flags().Changed("timeline") {
			if key, err = aggregate.ParseTimelineKey(summaryTimelineBy); err != nil {
				return err
			}
		}

		table, err := rt.filteredTable(cmd.Context(), cmd, &summaryFilters)
		if err != nil {
			return err
		}

		return output.WriteSummaryText(cmd.OutOrStdout(), aggregate.Build(table, key))
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryFilters.register(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryTimelineBy, "timeline", "", "Timeline label: subject|person (default from dashboard.timeline_by)")
}
