// Package analyzer composes the scan → parse → extract → fold pipeline
// behind one facade used by both the CLI and the HTTP reporting layer.
// Every call recomputes from raw files; there is no shared aggregation
// state between calls.
package analyzer

import (
	"runtime"
	"time"

	"github.com/openclaw/agentboard/internal/activity"
	"github.com/openclaw/agentboard/internal/core/category"
	"github.com/openclaw/agentboard/internal/core/pricing"
	"github.com/openclaw/agentboard/internal/data/aggregator"
	"github.com/openclaw/agentboard/internal/data/extractor"
	"github.com/openclaw/agentboard/internal/data/parser"
	"github.com/openclaw/agentboard/internal/data/scanner"
	"github.com/openclaw/agentboard/internal/util"
)

// DefaultWindowDays is used when the caller supplies no usable window.
const DefaultWindowDays = 30

// DefaultActivityLimit bounds the feed when the caller does not.
const DefaultActivityLimit = 10

// Config selects the data source and fan-out width.
type Config struct {
	SessionsDir string
	Concurrency int
}

// Analyzer is the aggregation engine facade.
type Analyzer struct {
	config     *Config
	scanner    *scanner.Scanner
	aggregator *aggregator.Aggregator
	feed       *activity.Builder
	now        func() time.Time
}

// ActivityFeed is the recent-activity payload.
type ActivityFeed struct {
	Activities []activity.Event `json:"activities"`
	Count      int              `json:"count"`
	Timestamp  int64            `json:"timestamp"`
}

// New creates an analyzer over the configured sessions directory.
func New(config *Config) *Analyzer {
	if config.Concurrency <= 0 {
		config.Concurrency = runtime.NumCPU()
	}

	p := parser.NewParser(config.Concurrency)
	provider := pricing.NewStaticProvider()
	ext := extractor.New(p, provider)
	classifier := category.NewClassifier(nil)

	return &Analyzer{
		config:     config,
		scanner:    scanner.New(config.SessionsDir),
		aggregator: aggregator.New(ext, provider, classifier, config.Concurrency, nil),
		feed:       activity.NewBuilder(nil),
		now:        time.Now,
	}
}

// normalizeDays clamps the caller-supplied window.
func normalizeDays(days int) int {
	if days < 1 {
		return DefaultWindowDays
	}
	return days
}

// scanWindow lists the transcripts whose modification time falls inside
// the window. Scan failures degrade to an empty file set.
func (a *Analyzer) scanWindow(days int) []scanner.SessionFile {
	cutoff := aggregator.Cutoff(days, a.now())
	files, err := a.scanner.Scan(cutoff)
	if err != nil {
		util.LogWarnf("Transcript scan failed, serving empty window: %v", err)
		return nil
	}
	return files
}

// Usage computes the per-model usage report for the window.
func (a *Analyzer) Usage(days int) *aggregator.UsageReport {
	days = normalizeDays(days)
	return a.aggregator.BuildUsageReport(a.scanWindow(days), days)
}

// UsageByTask computes the per-task usage report for the window.
func (a *Analyzer) UsageByTask(days int) *aggregator.TaskReport {
	days = normalizeDays(days)
	index := scanner.LoadIndex(a.config.SessionsDir)
	return a.aggregator.BuildTaskReport(a.scanWindow(days), index, days)
}

// RecentActivity builds the feed from the main agent session transcript.
func (a *Analyzer) RecentActivity(limit int) *ActivityFeed {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	feed := &ActivityFeed{
		Activities: []activity.Event{},
		Timestamp:  a.now().UnixMilli(),
	}

	index := scanner.LoadIndex(a.config.SessionsDir)
	path := activity.MainSessionFile(a.config.SessionsDir, index)
	if path == "" {
		return feed
	}

	feed.Activities = a.feed.Recent(path, limit)
	feed.Count = len(feed.Activities)
	return feed
}
