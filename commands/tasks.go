package commands

import "github.com/spf13/cobra"

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Report usage grouped by task category",
	RunE:  runTasks,
}

func init() {
	tasksCmd.Flags().IntVar(&windowDays, "days", 30,
		"Aggregation window in days (1 = since start of today, UTC)")
	tasksCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json)")
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	report := newAnalyzer().UsageByTask(windowDays)
	return selectFormatter().FormatTasks(report)
}
