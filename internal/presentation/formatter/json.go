package formatter

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/openclaw/agentboard/internal/data/aggregator"
)

// JSONFormatter renders reports as indented JSON on stdout.
type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) FormatUsage(report *aggregator.UsageReport) error {
	return printJSON(report)
}

func (f *JSONFormatter) FormatTasks(report *aggregator.TaskReport) error {
	return printJSON(report)
}

func printJSON(v any) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
