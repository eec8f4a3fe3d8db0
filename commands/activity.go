package commands

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

var activityLimit int

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the main agent session's recent activity",
	RunE:  runActivity,
}

func init() {
	activityCmd.Flags().IntVar(&activityLimit, "limit", 10,
		"Maximum number of activity events")
	rootCmd.AddCommand(activityCmd)
}

func runActivity(cmd *cobra.Command, args []string) error {
	feed := newAnalyzer().RecentActivity(activityLimit)

	data, err := sonic.MarshalIndent(feed, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
