package formatter

import "github.com/openclaw/agentboard/internal/data/aggregator"

// Formatter renders a usage report to stdout.
type Formatter interface {
	FormatUsage(report *aggregator.UsageReport) error
	FormatTasks(report *aggregator.TaskReport) error
}
