package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openclaw/agentboard/internal/analyzer"
	"github.com/openclaw/agentboard/internal/presentation/formatter"
	"github.com/openclaw/agentboard/internal/util"
)

var (
	debug        bool
	logFile      string
	sessionsDir  string
	windowDays   int
	outputFormat string

	rootCmd = &cobra.Command{
		Use:   "agentboard [flags]",
		Short: "Agent usage aggregation and reporting",
		Long: `agentboard mines an agent runtime's JSONL session transcripts and
reports token usage, per-task costs and recent activity.

Examples:
  agentboard                         # Per-model usage for the last 30 days
  agentboard --days 1                # Today's usage (since UTC midnight)
  agentboard --output json           # Machine-readable report
  agentboard tasks --days 7          # Per-task breakdown for the week
  agentboard activity --limit 20     # Recent activity feed
  agentboard subagents               # Currently running spawned sessions
  agentboard serve --addr :8420      # HTTP reporting endpoints`,
		PersistentPreRunE: setupLogging,
		RunE:              runUsage,
	}
)

const (
	defaultLogFile     = "~/.agentboard/logs/app.log"
	defaultSessionsDir = "~/.openclaw/sessions"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&sessionsDir, "dir", defaultSessionsDir,
		"Sessions directory containing *.jsonl transcripts and sessions.json")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", defaultLogFile,
		"Log file path (empty disables file logging)")

	rootCmd.Flags().IntVar(&windowDays, "days", 30,
		"Aggregation window in days (1 = since start of today, UTC)")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json)")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := "info"
	if debug {
		level = "debug"
	}

	path := expandPath(logFile)
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}
	return util.InitLogger(level, path, debug)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func newAnalyzer() *analyzer.Analyzer {
	return analyzer.New(&analyzer.Config{SessionsDir: expandPath(sessionsDir)})
}

func selectFormatter() formatter.Formatter {
	if outputFormat == "json" {
		return formatter.NewJSONFormatter()
	}
	return formatter.NewTableFormatter()
}

func runUsage(cmd *cobra.Command, args []string) error {
	report := newAnalyzer().Usage(windowDays)
	return selectFormatter().FormatUsage(report)
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
