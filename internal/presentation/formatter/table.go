package formatter

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/openclaw/agentboard/internal/data/aggregator"
	"github.com/openclaw/agentboard/internal/util"
)

// TableFormatter renders reports as bordered terminal tables.
type TableFormatter struct{}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// terminalWidth returns the usable width, defaulting generously when
// stdout is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 120
}

func (f *TableFormatter) FormatUsage(report *aggregator.UsageReport) error {
	headers := []string{"Model", "Input", "Output", "Cache Read", "Cache Write", "Total", "Cost (USD)", "Cost (EUR)", "Calls", "%"}

	models := make([]string, 0, len(report.Models))
	for name := range report.Models {
		models = append(models, name)
	}
	sort.Slice(models, func(i, j int) bool {
		return report.Models[models[i]].Cost > report.Models[models[j]].Cost
	})

	rows := make([][]string, 0, len(models)+1)
	for _, name := range models {
		b := report.Models[name]
		rows = append(rows, []string{
			b.DisplayName,
			util.FormatNumber(b.Input),
			util.FormatNumber(b.Output),
			util.FormatNumber(b.CacheRead),
			util.FormatNumber(b.CacheWrite),
			util.FormatNumber(b.TotalTokens),
			util.FormatCost(b.Cost),
			fmt.Sprintf("€%.4f", b.CostEur),
			fmt.Sprintf("%d", b.Calls),
			fmt.Sprintf("%.1f%%", b.Percentage),
		})
	}
	rows = append(rows, []string{
		"Total", "", "", "", "",
		util.FormatNumber(report.Totals.Tokens),
		util.FormatCost(report.Totals.Cost),
		fmt.Sprintf("€%.4f", report.Totals.CostEur),
		fmt.Sprintf("%d", report.Totals.Calls),
		"",
	})

	fmt.Printf("Usage for the last %d day(s), %d session(s) processed\n", report.Period, report.SessionsProcessed)
	printTable(headers, rows)
	return nil
}

func (f *TableFormatter) FormatTasks(report *aggregator.TaskReport) error {
	headers := []string{"Task", "Runs", "Tokens", "Cost (USD)", "Cost (EUR)", "Calls", "Cost %"}

	rows := make([][]string, 0, len(report.Tasks)+1)
	for _, task := range report.Tasks {
		rows = append(rows, []string{
			task.Emoji + " " + task.Name,
			fmt.Sprintf("%d", task.Runs),
			util.FormatNumber(task.Tokens),
			util.FormatCost(task.Cost),
			fmt.Sprintf("€%.4f", task.CostEur),
			fmt.Sprintf("%d", task.Calls),
			fmt.Sprintf("%.1f%%", task.CostPercentage),
		})
	}
	rows = append(rows, []string{
		"Total",
		fmt.Sprintf("%d", report.Totals.Runs),
		util.FormatNumber(report.Totals.Tokens),
		util.FormatCost(report.Totals.Cost),
		fmt.Sprintf("€%.4f", report.Totals.CostEur),
		"",
		"",
	})

	fmt.Printf("Task usage for the last %d day(s), %d session(s) processed\n", report.Period, report.SessionsProcessed)
	printTable(headers, rows)
	return nil
}

// printTable renders the rows with content-fitted columns. Column widths
// use display cell width so emoji and wide runes line up; the first
// column shrinks when the terminal is too narrow.
func printTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	total := len(headers)*3 + 1
	for _, w := range widths {
		total += w
	}
	if max := terminalWidth(); total > max && widths[0] > 12 {
		excess := total - max
		if widths[0]-excess < 12 {
			widths[0] = 12
		} else {
			widths[0] -= excess
		}
	}

	printBorder(widths)
	printRow(headers, widths)
	printBorder(widths)
	for i, row := range rows {
		if i == len(rows)-1 {
			printBorder(widths)
		}
		printRow(row, widths)
	}
	printBorder(widths)
}

func printBorder(widths []int) {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	fmt.Println(b.String())
}

func printRow(cells []string, widths []int) {
	var b strings.Builder
	b.WriteByte('|')
	for i, cell := range cells {
		cell = runewidth.Truncate(cell, widths[i], "…")
		b.WriteString(" " + runewidth.FillRight(cell, widths[i]) + " |")
	}
	fmt.Println(b.String())
}
