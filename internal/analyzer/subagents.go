package analyzer

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/openclaw/agentboard/internal/core/model"
	"github.com/openclaw/agentboard/internal/data/parser"
	"github.com/openclaw/agentboard/internal/data/scanner"
)

// SubagentTimeout is how long after its last index update a subagent
// session still counts as running.
const SubagentTimeout = 10 * time.Minute

// maxSubagents bounds the served list.
const maxSubagents = 10

const subagentMarker = ":subagent:"

// Subagent is one currently running spawned session.
type Subagent struct {
	ID           string `json:"id"`
	ShortID      string `json:"shortId"`
	Task         string `json:"task"`
	Model        string `json:"model"`
	RawModel     string `json:"rawModel"`
	SessionKey   string `json:"sessionKey"`
	StartedAt    int64  `json:"startedAt"`
	LastActivity int64  `json:"lastActivity"`
	Duration     int64  `json:"duration"` // seconds since start
	Active       bool   `json:"active"`
}

// SubagentList is the active-subagents payload. Only running sessions
// are listed, most recently active first.
type SubagentList struct {
	Subagents   []Subagent `json:"subagents"`
	ActiveCount int        `json:"activeCount"`
	TotalCount  int        `json:"totalCount"`
	Timestamp   int64      `json:"timestamp"`
}

// Subagents lists the spawned sessions whose index entry was updated
// within the activity timeout. Start times come from the first
// transcript line, falling back to the last index update.
func (a *Analyzer) Subagents() *SubagentList {
	nowMillis := a.now().UnixMilli()
	list := &SubagentList{Subagents: []Subagent{}, Timestamp: nowMillis}

	index := scanner.LoadIndex(a.config.SessionsDir)
	for sessionKey, info := range index {
		marker := strings.Index(sessionKey, subagentMarker)
		if marker < 0 {
			continue
		}
		if nowMillis-info.UpdatedAt >= SubagentTimeout.Milliseconds() {
			continue
		}

		id := sessionKey[marker+len(subagentMarker):]
		if id == "" {
			id = sessionKey
		}

		startedAt := info.UpdatedAt
		path := filepath.Join(a.config.SessionsDir, info.SessionID+model.TranscriptSuffix)
		if entry, err := parser.FirstEntry(path); err == nil && entry != nil {
			if ts := entry.TimeMillis(0); ts != 0 {
				startedAt = ts
			}
		}

		task := info.Label
		if task == "" {
			task = "Running..."
		}

		rawModel := info.EffectiveModel()
		if rawModel == "" {
			rawModel = "default"
		}

		list.Subagents = append(list.Subagents, Subagent{
			ID:           id,
			ShortID:      shortID(id),
			Task:         task,
			Model:        displayModel(rawModel),
			RawModel:     rawModel,
			SessionKey:   sessionKey,
			StartedAt:    startedAt,
			LastActivity: info.UpdatedAt,
			Duration:     (nowMillis - startedAt) / 1000,
			Active:       true,
		})
	}

	sort.Slice(list.Subagents, func(i, j int) bool {
		return list.Subagents[i].LastActivity > list.Subagents[j].LastActivity
	})
	list.ActiveCount = len(list.Subagents)
	list.TotalCount = len(list.Subagents)
	if len(list.Subagents) > maxSubagents {
		list.Subagents = list.Subagents[:maxSubagents]
	}

	return list
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// displayModel collapses a model id to the friendly family name.
func displayModel(raw string) string {
	switch {
	case strings.Contains(raw, "opus"):
		return "Opus"
	case strings.Contains(raw, "sonnet"):
		return "Sonnet"
	case strings.Contains(raw, "haiku"):
		return "Haiku"
	case strings.Contains(raw, "gpt-4"):
		return "GPT-4"
	case strings.Contains(raw, "gpt-3"):
		return "GPT-3.5"
	}
	return raw
}
