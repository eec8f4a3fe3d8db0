package commands

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

var subagentsCmd = &cobra.Command{
	Use:   "subagents",
	Short: "List currently running spawned sessions",
	RunE:  runSubagents,
}

func init() {
	rootCmd.AddCommand(subagentsCmd)
}

func runSubagents(cmd *cobra.Command, args []string) error {
	list := newAnalyzer().Subagents()

	data, err := sonic.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
