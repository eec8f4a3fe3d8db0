// Package extractor derives token/cost telemetry from parsed transcripts.
// One usage event is produced per message that carries both a model id
// and a usage block; everything else is ignored. Missing numeric fields
// read as zero and never fail the extraction.
package extractor

import (
	"github.com/openclaw/agentboard/internal/core/model"
	"github.com/openclaw/agentboard/internal/core/pricing"
	"github.com/openclaw/agentboard/internal/data/parser"
	"github.com/openclaw/agentboard/internal/util"
)

// ModelTotals is the running accumulator for one model.
type ModelTotals struct {
	Input       int64   `json:"input"`
	Output      int64   `json:"output"`
	CacheRead   int64   `json:"cacheRead"`
	CacheWrite  int64   `json:"cacheWrite"`
	TotalTokens int64   `json:"totalTokens"`
	Cost        float64 `json:"cost"`
	Calls       int     `json:"calls"`
}

// UsageEvent is one time-stamped usage sample for time bucketing.
type UsageEvent struct {
	Timestamp int64
	Model     string
	Tokens    int64
	Cost      float64
}

// FileUsage is the outcome of extracting one transcript.
type FileUsage struct {
	Models map[string]*ModelTotals
	Events []UsageEvent
}

// SessionModelTotals is the compact per-model breakdown used by the task
// view.
type SessionModelTotals struct {
	Tokens int64   `json:"tokens"`
	Cost   float64 `json:"cost"`
	Calls  int     `json:"calls"`
}

// SessionSummary is the whole-session digest used for task
// classification and per-task aggregation.
type SessionSummary struct {
	FirstMessage string
	Timestamp    int64 // session marker timestamp, 0 when absent
	TotalTokens  int64
	Cost         float64
	Calls        int
	Models       map[string]*SessionModelTotals
}

// Extractor turns transcripts into usage telemetry.
type Extractor struct {
	parser  *parser.Parser
	pricing pricing.Provider
}

// New creates an extractor. A nil pricing provider uses the static
// tables.
func New(p *parser.Parser, provider pricing.Provider) *Extractor {
	if provider == nil {
		provider = pricing.NewStaticProvider()
	}
	return &Extractor{parser: p, pricing: provider}
}

// resolveCost prefers an embedded cost figure and falls back to the
// price table.
func (e *Extractor) resolveCost(modelName string, u *model.UsageBlock) float64 {
	if u.Cost != nil && u.Cost.Total > 0 {
		return u.Cost.Total
	}
	return e.pricing.Cost(modelName, u)
}

// ExtractUsage reads one transcript and accumulates per-model totals and
// a flat usage-event list. Events time-stamped before cutoff (epoch
// millis) are excluded from both, keeping totals and series consistent.
// Entries with no timestamp resolve to fallback — the caller's reference
// time — so a timestamp-less event lands inside the caller's window
// rather than past its upper edge. A read failure degrades to an empty
// contribution.
func (e *Extractor) ExtractUsage(path string, cutoff, fallback int64) FileUsage {
	result := FileUsage{Models: make(map[string]*ModelTotals)}

	entries, err := e.parser.ParseFile(path)
	if err != nil {
		util.LogWarnf("Skipping transcript contribution %s: %v", path, err)
		return result
	}

	for i := range entries {
		entry := &entries[i]
		if entry.Message == nil || entry.Message.Usage == nil || entry.Message.Model == "" {
			continue
		}

		timestamp := entry.TimeMillis(fallback)
		if timestamp < cutoff {
			continue
		}

		modelName := entry.Message.Model
		u := entry.Message.Usage
		tokens := u.Total()
		cost := e.resolveCost(modelName, u)

		totals, ok := result.Models[modelName]
		if !ok {
			totals = &ModelTotals{}
			result.Models[modelName] = totals
		}

		totals.Input += u.Input
		totals.Output += u.Output
		totals.CacheRead += u.CacheRead
		totals.CacheWrite += u.CacheWrite
		totals.TotalTokens += tokens
		totals.Cost += cost
		totals.Calls++

		result.Events = append(result.Events, UsageEvent{
			Timestamp: timestamp,
			Model:     modelName,
			Tokens:    tokens,
			Cost:      cost,
		})
	}

	return result
}

// ExtractSession reads one transcript into a session-level digest: the
// session marker timestamp, the first user message, and whole-session
// totals with a per-model breakdown.
func (e *Extractor) ExtractSession(path string) SessionSummary {
	summary := SessionSummary{Models: make(map[string]*SessionModelTotals)}

	entries, err := e.parser.ParseFile(path)
	if err != nil {
		util.LogWarnf("Skipping session summary %s: %v", path, err)
		return summary
	}

	for i := range entries {
		entry := &entries[i]

		if entry.Type == model.EntrySession {
			summary.Timestamp = entry.TimeMillis(0)
		}

		if summary.FirstMessage == "" && entry.Type == model.EntryMessage &&
			entry.Message != nil && entry.Message.Role == model.RoleUser {
			summary.FirstMessage = entry.Message.Text()
		}

		if entry.Message == nil || entry.Message.Usage == nil || entry.Message.Model == "" {
			continue
		}

		modelName := entry.Message.Model
		u := entry.Message.Usage
		tokens := u.Total()
		cost := e.resolveCost(modelName, u)

		totals, ok := summary.Models[modelName]
		if !ok {
			totals = &SessionModelTotals{}
			summary.Models[modelName] = totals
		}
		totals.Tokens += tokens
		totals.Cost += cost
		totals.Calls++

		summary.TotalTokens += tokens
		summary.Cost += cost
		summary.Calls++
	}

	return summary
}
