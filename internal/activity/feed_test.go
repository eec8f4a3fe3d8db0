package activity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/agentboard/internal/data/scanner"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newBuilder() *Builder {
	return NewBuilder(func() time.Time { return fixedNow })
}

func writeTranscript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

func TestRecent(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"message","timestamp":"2026-03-10T10:00:00Z","message":{"role":"user","content":"run the tests please"}}`,
		`{"type":"message","timestamp":"2026-03-10T10:01:00Z","message":{"role":"assistant","content":[{"type":"tool_use","name":"exec","input":{"command":"npm test"}}]}}`,
		`{"type":"message","timestamp":"2026-03-10T10:02:00Z","message":{"role":"assistant","content":[{"type":"text","text":"All 42 tests pass. Anything else?"}]}}`,
	)

	events := newBuilder().Recent(path, 10)
	require.Len(t, events, 3)

	// Newest first.
	assert.Equal(t, KindAssistantResponse, events[0].Type)
	assert.Equal(t, "Replied: All 42 tests pass", events[0].Description)
	assert.Equal(t, "💬", events[0].Icon)

	assert.Equal(t, KindToolCall, events[1].Type)
	assert.Equal(t, "exec", events[1].Tool)
	assert.Equal(t, "Run npm", events[1].Description)
	assert.Equal(t, "⚙️", events[1].Icon)

	assert.Equal(t, KindUserMessage, events[2].Type)
	assert.Equal(t, "run the tests please", events[2].Description)
	assert.Equal(t, "🙋", events[2].Icon)
}

func TestRecentLimit(t *testing.T) {
	lines := make([]string, 0, 6)
	for _, ts := range []string{"10:00", "10:01", "10:02", "10:03", "10:04", "10:05"} {
		lines = append(lines,
			`{"type":"message","timestamp":"2026-03-10T`+ts+`:00Z","message":{"role":"user","content":"msg at `+ts+`"}}`)
	}
	path := writeTranscript(t, lines...)

	events := newBuilder().Recent(path, 2)
	require.Len(t, events, 2)
	assert.Equal(t, "msg at 10:05", events[0].Description)
	assert.Equal(t, "msg at 10:04", events[1].Description)
}

func TestRecentSuppressesMetaMessages(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"message","message":{"role":"assistant","content":[{"type":"text","text":"🧠 Using Sonnet for this one"}]}}`,
		`{"type":"message","message":{"role":"assistant","content":[{"type":"text","text":"**using opus** for the heavy lifting"}]}}`,
		`{"type":"message","message":{"role":"assistant","content":[{"type":"text","text":"Here is the summary you asked for."}]}}`,
	)

	events := newBuilder().Recent(path, 10)
	require.Len(t, events, 1)
	assert.Equal(t, "Replied: Here is the summary you asked for.", events[0].Description)
}

func TestRecentMissingFile(t *testing.T) {
	events := newBuilder().Recent(filepath.Join(t.TempDir(), "gone.jsonl"), 10)
	assert.Empty(t, events)
}

func TestRecentTruncatesLongUserMessage(t *testing.T) {
	long := strings.Repeat("a", 100)
	path := writeTranscript(t,
		`{"type":"message","message":{"role":"user","content":"`+long+`"}}`,
	)

	events := newBuilder().Recent(path, 10)
	require.Len(t, events, 1)
	assert.LessOrEqual(t, len([]rune(events[0].Description)), maxDescription)
	assert.True(t, strings.HasSuffix(events[0].Description, "..."))
}

func TestDescribeTool(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		input    map[string]any
		expected string
	}{
		{
			name:     "exec keeps the program name only",
			tool:     "exec",
			input:    map[string]any{"command": "npm test --coverage"},
			expected: "Run npm",
		},
		{
			name:     "read strips workspace prefix",
			tool:     "read",
			input:    map[string]any{"path": "/home/ubuntu/.openclaw/workspace/notes.md"},
			expected: "Read notes.md",
		},
		{
			name:     "long path collapses to base name",
			tool:     "write",
			input:    map[string]any{"path": "/very/long/deeply/nested/directory/structure/holding/a/report.txt"},
			expected: "Write report.txt",
		},
		{
			name:     "missing path",
			tool:     "edit",
			input:    map[string]any{},
			expected: "Edit file",
		},
		{
			name:     "web search query",
			tool:     "web_search",
			input:    map[string]any{"query": "golang time zones"},
			expected: "Search: golang time zones",
		},
		{
			name:     "web fetch shows hostname",
			tool:     "web_fetch",
			input:    map[string]any{"url": "https://www.example.com/long/path"},
			expected: "Fetch example.com",
		},
		{
			name:     "message send",
			tool:     "message",
			input:    map[string]any{"action": "send"},
			expected: "Send message",
		},
		{
			name:     "spawn with label",
			tool:     "sessions_spawn",
			input:    map[string]any{"label": "research run"},
			expected: "Spawn: research run",
		},
		{
			name:     "unknown tool falls back to its name",
			tool:     "teleport",
			input:    map[string]any{},
			expected: "teleport",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, describeTool(tt.tool, tt.input))
		})
	}
}

func TestUnknownToolIcon(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"message","message":{"role":"assistant","content":[{"type":"tool_use","name":"teleport","input":{}}]}}`,
	)

	events := newBuilder().Recent(path, 10)
	require.Len(t, events, 1)
	assert.Equal(t, defaultToolIcon, events[0].Icon)
}

func TestMainSessionFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}\n"), 0o644))
	}
	write("main.jsonl")
	write("sub.jsonl")
	write("other.jsonl")

	t.Run("prefers indexed discord channel session", func(t *testing.T) {
		index := scanner.SessionIndex{
			"discord:channel:42":             {SessionID: "main"},
			"discord:channel:42:subagent:x1": {SessionID: "sub"},
			"telegram:chat:7":                {SessionID: "other"},
		}
		assert.Equal(t, filepath.Join(dir, "main.jsonl"), MainSessionFile(dir, index))
	})

	t.Run("falls back to newest non-subagent transcript", func(t *testing.T) {
		old := time.Now().Add(-time.Hour)
		require.NoError(t, os.Chtimes(filepath.Join(dir, "other.jsonl"), old, old))
		index := scanner.SessionIndex{
			"discord:channel:42:subagent:x1": {SessionID: "sub"},
			"telegram:chat:7":                {SessionID: "other"},
			"telegram:chat:8":                {SessionID: "main"},
		}
		assert.Equal(t, filepath.Join(dir, "main.jsonl"), MainSessionFile(dir, index))
	})

	t.Run("empty index yields nothing", func(t *testing.T) {
		assert.Empty(t, MainSessionFile(dir, scanner.SessionIndex{}))
	})
}
