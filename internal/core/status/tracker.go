// Package status derives a live agent status from filesystem activity
// on the sessions directory: a transcript write means the agent is
// working, and a quiet quarter hour flips it back to idle.
package status

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/openclaw/agentboard/internal/core/model"
	"github.com/openclaw/agentboard/internal/util"
)

// IdleTimeout is how long without transcript writes counts as inactive.
const IdleTimeout = 15 * time.Minute

// maxSpans bounds the retained activity history.
const maxSpans = 1000

// Status is the current agent state.
type Status struct {
	Active    bool   `json:"active"`
	Task      string `json:"task,omitempty"`
	StartedAt int64  `json:"startedAt,omitempty"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
	TimedOut  bool   `json:"timedOut,omitempty"`
}

// Span is one completed stretch of agent activity.
type Span struct {
	Task      string `json:"task,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Duration  int64  `json:"duration"`
	EndedAt   int64  `json:"endedAt"`
}

// BucketStat is the activity roll-up for one hour or one day.
type BucketStat struct {
	Label         string `json:"label"`
	ActiveMinutes int    `json:"activeMinutes"`
	Count         int    `json:"count"`
}

// Stats is the activity summary served alongside the status.
type Stats struct {
	Hourly []BucketStat `json:"hourly"`
	Daily  []BucketStat `json:"daily"`
	Total  struct {
		Activities  int     `json:"activities"`
		ActiveHours float64 `json:"activeHours"`
	} `json:"total"`
}

// Tracker watches the sessions directory and records activity spans.
type Tracker struct {
	watcher *fsnotify.Watcher
	now     func() time.Time

	mu        sync.Mutex
	active    bool
	task      string // session id of the transcript being written
	startedAt int64
	updatedAt int64
	spans     []Span
	done      chan struct{}
}

// NewTracker starts watching the sessions directory. The directory must
// exist; create-before-watch is the caller's concern.
func NewTracker(sessionsDir string) (*Tracker, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(sessionsDir); err != nil {
		watcher.Close()
		return nil, err
	}

	t := &Tracker{
		watcher: watcher,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go t.processEvents()

	return t, nil
}

func (t *Tracker) processEvents() {
	for {
		select {
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != model.TranscriptSuffix {
				continue
			}
			if strings.Contains(filepath.Base(event.Name), ".lock") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			sessionID := strings.TrimSuffix(filepath.Base(event.Name), model.TranscriptSuffix)
			t.Touch(sessionID)

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("Session watcher error: " + err.Error())

		case <-t.done:
			return
		}
	}
}

// Touch records transcript activity for a session. Exported for direct
// signalling from collaborators that already know a write happened.
func (t *Tracker) Touch(sessionID string) {
	now := t.now().UnixMilli()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.expireLocked(now)

	if !t.active {
		t.active = true
		t.startedAt = now
	}
	t.task = sessionID
	t.updatedAt = now
}

// expireLocked closes the current span when the idle timeout has passed.
func (t *Tracker) expireLocked(now int64) {
	if !t.active || now-t.updatedAt <= IdleTimeout.Milliseconds() {
		return
	}

	t.spans = append(t.spans, Span{
		Task:      t.task,
		Timestamp: t.startedAt,
		Duration:  t.updatedAt - t.startedAt,
		EndedAt:   t.updatedAt,
	})
	if len(t.spans) > maxSpans {
		t.spans = t.spans[len(t.spans)-maxSpans:]
	}

	t.active = false
	t.task = ""
	t.startedAt = 0
}

// Status returns the current agent state, applying the idle timeout
// lazily.
func (t *Tracker) Status() Status {
	now := t.now().UnixMilli()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.expireLocked(now)

	status := Status{
		Active:    t.active,
		Task:      t.task,
		StartedAt: t.startedAt,
		UpdatedAt: t.updatedAt,
	}
	if !t.active && t.updatedAt != 0 {
		status.TimedOut = true
	}
	return status
}

// Stats summarizes recorded spans into 24 hourly and 7 daily buckets.
func (t *Tracker) Stats() Stats {
	nowTime := t.now()
	now := nowTime.UnixMilli()

	t.mu.Lock()
	t.expireLocked(now)
	spans := make([]Span, len(t.spans))
	copy(spans, t.spans)
	// The open span counts toward the stats as in-flight activity.
	if t.active {
		spans = append(spans, Span{
			Task:      t.task,
			Timestamp: t.startedAt,
			Duration:  now - t.startedAt,
			EndedAt:   now,
		})
	}
	t.mu.Unlock()

	var stats Stats
	hourMs := time.Hour.Milliseconds()
	dayMs := 24 * hourMs

	for i := 23; i >= 0; i-- {
		start := now - int64(i+1)*hourMs
		end := now - int64(i)*hourMs
		stats.Hourly = append(stats.Hourly, bucketFor(spans, start, end, time.UnixMilli(end).Format("15:00")))
	}
	for i := 6; i >= 0; i-- {
		start := now - int64(i+1)*dayMs
		end := now - int64(i)*dayMs
		stats.Daily = append(stats.Daily, bucketFor(spans, start, end, time.UnixMilli(end).Format("Mon")))
	}

	var totalMs int64
	for _, span := range spans {
		totalMs += span.Duration
	}
	stats.Total.Activities = len(spans)
	stats.Total.ActiveHours = float64(totalMs/360000) / 10 // rounded to one decimal

	return stats
}

func bucketFor(spans []Span, start, end int64, label string) BucketStat {
	bucket := BucketStat{Label: label}
	var activeMs int64
	for _, span := range spans {
		if span.Timestamp >= start && span.Timestamp < end {
			activeMs += span.Duration
			bucket.Count++
		}
	}
	bucket.ActiveMinutes = int(activeMs / time.Minute.Milliseconds())
	return bucket
}

// Close stops the watcher.
func (t *Tracker) Close() error {
	close(t.done)
	return t.watcher.Close()
}
