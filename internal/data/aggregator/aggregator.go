// Package aggregator folds per-transcript usage into the chart-ready
// reports the dashboard serves. Folds are associative and commutative,
// so per-file extraction fans out; percentages and currency conversion
// happen once after the fold completes. Nothing is cached: every report
// is recomputed from raw files.
package aggregator

import (
	"sort"
	"sync"
	"time"

	"github.com/openclaw/agentboard/internal/core/category"
	"github.com/openclaw/agentboard/internal/core/pricing"
	"github.com/openclaw/agentboard/internal/data/extractor"
	"github.com/openclaw/agentboard/internal/data/scanner"
	"github.com/openclaw/agentboard/internal/util"
)

// UsdToEur is the fixed conversion rate applied at read time. It is
// never baked into stored data.
const UsdToEur = 0.92

// ModelBucket is one model's slice of the usage report.
type ModelBucket struct {
	extractor.ModelTotals
	CostEur        float64 `json:"costEur"`
	DisplayName    string  `json:"displayName"`
	Emoji          string  `json:"emoji"`
	Color          string  `json:"color"`
	Percentage     float64 `json:"percentage"`
	CostPercentage float64 `json:"costPercentage"`
}

// Totals is the whole-window roll-up of the usage report.
type Totals struct {
	Tokens  int64   `json:"tokens"`
	Cost    float64 `json:"cost"`
	CostEur float64 `json:"costEur"`
	Calls   int     `json:"calls"`
}

// UsageReport is the per-model aggregation output.
type UsageReport struct {
	Models            map[string]*ModelBucket `json:"models"`
	Totals            Totals                  `json:"totals"`
	TimeSeries        []SeriesPoint           `json:"timeSeries"`
	HourlySeries      []HourlyPoint           `json:"hourlySeries,omitempty"`
	Period            int                     `json:"period"`
	SessionsProcessed int                     `json:"sessionsProcessed"`
	Timestamp         int64                   `json:"timestamp"`
}

// TaskModelBucket is the per-model breakdown nested inside a task.
type TaskModelBucket struct {
	Tokens      int64   `json:"tokens"`
	Cost        float64 `json:"cost"`
	CostEur     float64 `json:"costEur"`
	Calls       int     `json:"calls"`
	DisplayName string  `json:"displayName"`
	Emoji       string  `json:"emoji"`
	Color       string  `json:"color"`
}

// SessionRef is one sample session attached to a task bucket.
type SessionRef struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Tokens    int64   `json:"tokens"`
	Cost      float64 `json:"cost"`
	CostEur   float64 `json:"costEur"`
	Timestamp int64   `json:"timestamp"`
}

// maxSessionRefs bounds the sample sessions kept per task.
const maxSessionRefs = 10

// TaskBucket is one task category's slice of the task report.
type TaskBucket struct {
	ID              string                      `json:"id"`
	Name            string                      `json:"name"`
	Emoji           string                      `json:"emoji"`
	Color           string                      `json:"color"`
	Runs            int                         `json:"runs"`
	Tokens          int64                       `json:"tokens"`
	Cost            float64                     `json:"cost"`
	CostEur         float64                     `json:"costEur"`
	Calls           int                         `json:"calls"`
	Models          map[string]*TaskModelBucket `json:"models"`
	Sessions        []SessionRef                `json:"sessions"`
	TokenPercentage float64                     `json:"tokenPercentage"`
	CostPercentage  float64                     `json:"costPercentage"`
}

// TaskTotals is the whole-window roll-up of the task report.
type TaskTotals struct {
	Tokens  int64   `json:"tokens"`
	Cost    float64 `json:"cost"`
	CostEur float64 `json:"costEur"`
	Runs    int     `json:"runs"`
}

// TaskTypeInfo is the display list of all known categories.
type TaskTypeInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

// TaskReport is the per-task aggregation output. Tasks are sorted most
// expensive first.
type TaskReport struct {
	Tasks             []*TaskBucket  `json:"tasks"`
	Totals            TaskTotals     `json:"totals"`
	TimeSeries        []SeriesPoint  `json:"timeSeries"`
	HourlySeries      []HourlyPoint  `json:"hourlySeries,omitempty"`
	TaskTypes         []TaskTypeInfo `json:"taskTypes"`
	Period            int            `json:"period"`
	SessionsProcessed int            `json:"sessionsProcessed"`
	Timestamp         int64          `json:"timestamp"`
}

// Aggregator folds extracted usage into reports.
type Aggregator struct {
	extractor   *extractor.Extractor
	pricing     pricing.Provider
	classifier  *category.Classifier
	concurrency int
	now         func() time.Time
}

// New creates an aggregator. A nil classifier uses the default category
// set, a nil clock uses time.Now.
func New(ext *extractor.Extractor, provider pricing.Provider, classifier *category.Classifier, concurrency int, now func() time.Time) *Aggregator {
	if provider == nil {
		provider = pricing.NewStaticProvider()
	}
	if classifier == nil {
		classifier = category.NewClassifier(nil)
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		extractor:   ext,
		pricing:     provider,
		classifier:  classifier,
		concurrency: concurrency,
		now:         now,
	}
}

// Cutoff computes the window start in epoch millis. days == 1 is the
// today view and means the start of the current UTC calendar day, not a
// rolling 24 hours; every other window rolls back from now.
func Cutoff(days int, now time.Time) int64 {
	if days == 1 {
		utc := now.UTC()
		return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC).UnixMilli()
	}
	return now.Add(-time.Duration(days) * 24 * time.Hour).UnixMilli()
}

// BuildUsageReport extracts and folds per-model usage for the files in
// the window. Per-file extraction is independent and runs concurrently;
// the fold is order-independent.
func (a *Aggregator) BuildUsageReport(files []scanner.SessionFile, days int) *UsageReport {
	start := a.now()
	nowMillis := start.UnixMilli()
	cutoff := Cutoff(days, start)

	results := a.extractAll(files, cutoff, nowMillis)

	models := make(map[string]*extractor.ModelTotals)
	var events []KeyedEvent

	for _, usage := range results {
		for modelName, totals := range usage.Models {
			bucket, ok := models[modelName]
			if !ok {
				bucket = &extractor.ModelTotals{}
				models[modelName] = bucket
			}
			bucket.Input += totals.Input
			bucket.Output += totals.Output
			bucket.CacheRead += totals.CacheRead
			bucket.CacheWrite += totals.CacheWrite
			bucket.TotalTokens += totals.TotalTokens
			bucket.Cost += totals.Cost
			bucket.Calls += totals.Calls
		}
		for _, ev := range usage.Events {
			events = append(events, KeyedEvent{
				Timestamp: ev.Timestamp,
				Key:       ev.Model,
				Tokens:    ev.Tokens,
				Cost:      ev.Cost,
			})
		}
	}

	var totals Totals
	for _, bucket := range models {
		totals.Tokens += bucket.TotalTokens
		totals.Cost += bucket.Cost
		totals.Calls += bucket.Calls
	}
	totals.CostEur = totals.Cost * UsdToEur

	// Display info, EUR and percentages only after the fold completed.
	report := &UsageReport{
		Models:            make(map[string]*ModelBucket, len(models)),
		Totals:            totals,
		Period:            days,
		SessionsProcessed: len(files),
		Timestamp:         nowMillis,
	}
	for modelName, bucket := range models {
		info := a.pricing.Info(modelName)
		report.Models[modelName] = &ModelBucket{
			ModelTotals:    *bucket,
			CostEur:        bucket.Cost * UsdToEur,
			DisplayName:    info.Name,
			Emoji:          info.Emoji,
			Color:          info.Color,
			Percentage:     percentage(float64(bucket.TotalTokens), float64(totals.Tokens)),
			CostPercentage: percentage(bucket.Cost, totals.Cost),
		}
	}

	report.TimeSeries = buildDailySeries(events, cutoff, nowMillis, UsdToEur)
	if days == 1 {
		report.HourlySeries = buildHourlySeries(events, cutoff, nowMillis, UsdToEur)
	}

	util.LogDebugf("Usage report: %d sessions, %d models, window %dd, took %v",
		len(files), len(report.Models), days, time.Since(start))
	return report
}

// BuildTaskReport classifies each session in the window and folds its
// usage into per-task buckets. The fold stays session-granular:
// classification applies to whole sessions.
func (a *Aggregator) BuildTaskReport(files []scanner.SessionFile, index scanner.SessionIndex, days int) *TaskReport {
	start := a.now()
	nowMillis := start.UnixMilli()
	cutoff := Cutoff(days, start)

	summaries := a.summarizeAll(files)

	tasks := make(map[string]*TaskBucket)
	var events []KeyedEvent

	for i, file := range files {
		summary := summaries[i]
		if summary.Calls == 0 {
			continue
		}

		sessionKey, label := index.Lookup(file.SessionID)
		cat := a.classifier.Classify(category.Context{
			SessionKey:   sessionKey,
			Label:        label,
			FirstMessage: summary.FirstMessage,
		})

		bucket, ok := tasks[cat.ID]
		if !ok {
			bucket = &TaskBucket{
				ID:       cat.ID,
				Name:     cat.Name,
				Emoji:    cat.Emoji,
				Color:    cat.Color,
				Models:   make(map[string]*TaskModelBucket),
				Sessions: []SessionRef{},
			}
			tasks[cat.ID] = bucket
		}

		bucket.Runs++
		bucket.Tokens += summary.TotalTokens
		bucket.Cost += summary.Cost
		bucket.CostEur += summary.Cost * UsdToEur
		bucket.Calls += summary.Calls

		timestamp := summary.Timestamp
		if timestamp == 0 {
			timestamp = file.ModTime
		}
		events = append(events, KeyedEvent{
			Timestamp: timestamp,
			Key:       cat.ID,
			Tokens:    summary.TotalTokens,
			Cost:      summary.Cost,
		})

		for modelName, mt := range summary.Models {
			mb, ok := bucket.Models[modelName]
			if !ok {
				info := a.pricing.Info(modelName)
				mb = &TaskModelBucket{
					DisplayName: info.Name,
					Emoji:       info.Emoji,
					Color:       info.Color,
				}
				bucket.Models[modelName] = mb
			}
			mb.Tokens += mt.Tokens
			mb.Cost += mt.Cost
			mb.CostEur += mt.Cost * UsdToEur
			mb.Calls += mt.Calls
		}

		bucket.Sessions = append(bucket.Sessions, SessionRef{
			ID:        file.SessionID,
			Label:     label,
			Tokens:    summary.TotalTokens,
			Cost:      summary.Cost,
			CostEur:   summary.Cost * UsdToEur,
			Timestamp: timestamp,
		})
	}

	var totals TaskTotals
	for _, bucket := range tasks {
		totals.Tokens += bucket.Tokens
		totals.Cost += bucket.Cost
		totals.Runs += bucket.Runs
	}
	totals.CostEur = totals.Cost * UsdToEur

	sorted := make([]*TaskBucket, 0, len(tasks))
	for _, bucket := range tasks {
		bucket.TokenPercentage = percentage(float64(bucket.Tokens), float64(totals.Tokens))
		bucket.CostPercentage = percentage(bucket.Cost, totals.Cost)

		// Keep the newest sample sessions, bounded.
		sort.Slice(bucket.Sessions, func(i, j int) bool {
			return bucket.Sessions[i].Timestamp > bucket.Sessions[j].Timestamp
		})
		if len(bucket.Sessions) > maxSessionRefs {
			bucket.Sessions = bucket.Sessions[:maxSessionRefs]
		}

		sorted = append(sorted, bucket)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CostEur > sorted[j].CostEur
	})

	categories := a.classifier.Categories()
	taskTypes := make([]TaskTypeInfo, 0, len(categories))
	for _, cat := range categories {
		taskTypes = append(taskTypes, TaskTypeInfo{ID: cat.ID, Name: cat.Name, Emoji: cat.Emoji, Color: cat.Color})
	}

	report := &TaskReport{
		Tasks:             sorted,
		Totals:            totals,
		TimeSeries:        buildDailySeries(events, cutoff, nowMillis, UsdToEur),
		TaskTypes:         taskTypes,
		Period:            days,
		SessionsProcessed: len(files),
		Timestamp:         nowMillis,
	}
	if days == 1 {
		report.HourlySeries = buildHourlySeries(events, cutoff, nowMillis, UsdToEur)
	}

	util.LogDebugf("Task report: %d sessions, %d tasks, window %dd, took %v",
		len(files), len(report.Tasks), days, time.Since(start))
	return report
}

// extractAll fans extraction out over the files and returns per-file
// usage in no particular order. The fold's reference time doubles as the
// timestamp fallback so every extracted event stays inside the window.
func (a *Aggregator) extractAll(files []scanner.SessionFile, cutoff, nowMillis int64) []extractor.FileUsage {
	results := make([]extractor.FileUsage, len(files))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, a.concurrency)

	for i, file := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			results[i] = a.extractor.ExtractUsage(path, cutoff, nowMillis)
		}(i, file.Path)
	}
	wg.Wait()

	return results
}

// summarizeAll fans session summarization out over the files, keeping
// result order aligned with the input.
func (a *Aggregator) summarizeAll(files []scanner.SessionFile) []extractor.SessionSummary {
	results := make([]extractor.SessionSummary, len(files))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, a.concurrency)

	for i, file := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			results[i] = a.extractor.ExtractSession(path)
		}(i, file.Path)
	}
	wg.Wait()

	return results
}

// percentage is value/total scaled to 100, defined as 0 for a zero
// total.
func percentage(value, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return value / total * 100
}
