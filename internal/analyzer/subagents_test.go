package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newSubagentAnalyzer(t *testing.T, indexJSON string) *Analyzer {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sessions.json"), []byte(indexJSON), 0o644))

	a := New(&Config{SessionsDir: dir})
	a.now = func() time.Time { return fixedNow }
	return a
}

func TestSubagents(t *testing.T) {
	recent := fixedNow.Add(-5 * time.Minute).UnixMilli()
	recenter := fixedNow.Add(-2 * time.Minute).UnixMilli()
	stale := fixedNow.Add(-30 * time.Minute).UnixMilli()

	index := fmt.Sprintf(`{
		"discord:channel:1": {"sessionId": "main", "label": "main chat", "updatedAt": %d},
		"discord:channel:1:subagent:research-alpha-123": {"sessionId": "sub-a", "label": "deep research", "model": "claude-sonnet-4-5", "updatedAt": %d},
		"discord:channel:1:subagent:b2": {"sessionId": "sub-b", "modelOverride": "claude-opus-4-5", "updatedAt": %d},
		"discord:channel:1:subagent:old": {"sessionId": "sub-c", "label": "done long ago", "updatedAt": %d}
	}`, recent, recent, recenter, stale)

	a := newSubagentAnalyzer(t, index)

	transcript := `{"type":"session","timestamp":"2026-03-10T11:40:00Z"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(a.config.SessionsDir, "sub-a.jsonl"), []byte(transcript), 0o644))

	list := a.Subagents()

	// The stale subagent and the main session are excluded.
	require.Len(t, list.Subagents, 2)
	assert.Equal(t, 2, list.ActiveCount)
	assert.Equal(t, 2, list.TotalCount)
	assert.Equal(t, fixedNow.UnixMilli(), list.Timestamp)

	// Most recently active first.
	b := list.Subagents[0]
	assert.Equal(t, "b2", b.ID)
	assert.Equal(t, "b2", b.ShortID)
	assert.Equal(t, "Running...", b.Task)
	assert.Equal(t, "Opus", b.Model)
	assert.Equal(t, "claude-opus-4-5", b.RawModel)
	// No transcript: start falls back to the index update.
	assert.Equal(t, recenter, b.StartedAt)
	assert.True(t, b.Active)

	alpha := list.Subagents[1]
	assert.Equal(t, "research-alpha-123", alpha.ID)
	assert.Equal(t, "research", alpha.ShortID)
	assert.Equal(t, "deep research", alpha.Task)
	assert.Equal(t, "Sonnet", alpha.Model)
	assert.Equal(t, "discord:channel:1:subagent:research-alpha-123", alpha.SessionKey)
	// Start time read from the first transcript line.
	assert.Equal(t, time.Date(2026, 3, 10, 11, 40, 0, 0, time.UTC).UnixMilli(), alpha.StartedAt)
	assert.Equal(t, int64(20*60), alpha.Duration)
}

func TestSubagentsEmpty(t *testing.T) {
	t.Run("no index", func(t *testing.T) {
		a := New(&Config{SessionsDir: t.TempDir()})
		a.now = func() time.Time { return fixedNow }

		list := a.Subagents()
		assert.Empty(t, list.Subagents)
		assert.Zero(t, list.ActiveCount)
		assert.Zero(t, list.TotalCount)
	})

	t.Run("only stale subagents", func(t *testing.T) {
		stale := fixedNow.Add(-SubagentTimeout).UnixMilli()
		index := fmt.Sprintf(`{"k:subagent:x": {"sessionId": "s", "updatedAt": %d}}`, stale)

		list := newSubagentAnalyzer(t, index).Subagents()
		assert.Empty(t, list.Subagents)
	})
}

func TestSubagentsBounded(t *testing.T) {
	recent := fixedNow.Add(-time.Minute).UnixMilli()
	entries := ""
	for i := 0; i < 14; i++ {
		if i > 0 {
			entries += ","
		}
		entries += fmt.Sprintf(`"k:subagent:id-%02d": {"sessionId": "s%02d", "updatedAt": %d}`, i, i, recent)
	}

	list := newSubagentAnalyzer(t, "{"+entries+"}").Subagents()
	assert.Len(t, list.Subagents, 10)
	// Counts reflect everything running, not just the served page.
	assert.Equal(t, 14, list.ActiveCount)
	assert.Equal(t, 14, list.TotalCount)
}

func TestDisplayModel(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"claude-opus-4-5", "Opus"},
		{"claude-sonnet-4-5", "Sonnet"},
		{"claude-haiku-3-5", "Haiku"},
		{"gpt-4o", "GPT-4"},
		{"gpt-3.5-turbo", "GPT-3.5"},
		{"default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, displayModel(tt.raw))
		})
	}
}
