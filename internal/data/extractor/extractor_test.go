package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/agentboard/internal/data/parser"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newExtractor() *Extractor {
	return New(parser.NewParser(2), nil)
}

func writeTranscript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

func TestExtractUsage(t *testing.T) {
	t.Run("price table fallback", func(t *testing.T) {
		path := writeTranscript(t,
			`{"message":{"model":"claude-sonnet-4-5","usage":{"input":1000000,"output":500000}}}`,
		)

		usage := newExtractor().ExtractUsage(path, 0, fixedNow.UnixMilli())
		require.Contains(t, usage.Models, "claude-sonnet-4-5")
		totals := usage.Models["claude-sonnet-4-5"]
		assert.Equal(t, int64(1_000_000), totals.Input)
		assert.Equal(t, int64(500_000), totals.Output)
		assert.Equal(t, int64(1_500_000), totals.TotalTokens)
		assert.InDelta(t, 10.50, totals.Cost, 1e-9)
		assert.Equal(t, 1, totals.Calls)

		require.Len(t, usage.Events, 1)
		assert.Equal(t, fixedNow.UnixMilli(), usage.Events[0].Timestamp)
	})

	t.Run("embedded cost wins over price table", func(t *testing.T) {
		path := writeTranscript(t,
			`{"message":{"model":"claude-sonnet-4-5","usage":{"input":1000,"output":1000,"cost":{"total":0.42}}}}`,
		)

		usage := newExtractor().ExtractUsage(path, 0, fixedNow.UnixMilli())
		assert.InDelta(t, 0.42, usage.Models["claude-sonnet-4-5"].Cost, 1e-9)
	})

	t.Run("explicit totalTokens overrides component sum", func(t *testing.T) {
		path := writeTranscript(t,
			`{"message":{"model":"claude-sonnet-4-5","usage":{"input":10,"output":10,"totalTokens":999}}}`,
		)

		usage := newExtractor().ExtractUsage(path, 0, fixedNow.UnixMilli())
		assert.Equal(t, int64(999), usage.Models["claude-sonnet-4-5"].TotalTokens)
	})

	t.Run("entries without model or usage are ignored", func(t *testing.T) {
		path := writeTranscript(t,
			`{"type":"session","timestamp":"2026-03-10T09:00:00Z"}`,
			`{"message":{"model":"claude-sonnet-4-5"}}`,
			`{"message":{"usage":{"input":100}}}`,
			`{"message":{"role":"user","content":"hello"}}`,
		)

		usage := newExtractor().ExtractUsage(path, 0, fixedNow.UnixMilli())
		assert.Empty(t, usage.Models)
		assert.Empty(t, usage.Events)
	})

	t.Run("events before cutoff are dropped from totals and events", func(t *testing.T) {
		cutoff := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).UnixMilli()
		path := writeTranscript(t,
			`{"timestamp":"2026-03-09T23:50:00Z","message":{"model":"claude-sonnet-4-5","usage":{"input":100}}}`,
			`{"timestamp":"2026-03-10T00:10:00Z","message":{"model":"claude-sonnet-4-5","usage":{"input":200}}}`,
		)

		usage := newExtractor().ExtractUsage(path, cutoff, fixedNow.UnixMilli())
		require.Contains(t, usage.Models, "claude-sonnet-4-5")
		assert.Equal(t, int64(200), usage.Models["claude-sonnet-4-5"].Input)
		assert.Equal(t, 1, usage.Models["claude-sonnet-4-5"].Calls)
		require.Len(t, usage.Events, 1)
	})

	t.Run("epoch millis under ts key", func(t *testing.T) {
		path := writeTranscript(t,
			`{"ts":1773100800000,"message":{"model":"claude-haiku-3-5","usage":{"output":50}}}`,
		)

		usage := newExtractor().ExtractUsage(path, 0, fixedNow.UnixMilli())
		require.Len(t, usage.Events, 1)
		assert.Equal(t, int64(1773100800000), usage.Events[0].Timestamp)
	})

	t.Run("unreadable file degrades to empty", func(t *testing.T) {
		usage := newExtractor().ExtractUsage(filepath.Join(t.TempDir(), "gone.jsonl"), 0, fixedNow.UnixMilli())
		assert.Empty(t, usage.Models)
		assert.Empty(t, usage.Events)
	})
}

func TestExtractSession(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"session","timestamp":"2026-03-10T09:00:00Z"}`,
		`{"type":"message","message":{"role":"user","content":"please fix the bug"}}`,
		`{"type":"message","message":{"role":"assistant","model":"claude-sonnet-4-5","usage":{"input":1000,"output":2000}}}`,
		`{"type":"message","message":{"role":"user","content":"thanks, another thing"}}`,
		`{"type":"message","message":{"role":"assistant","model":"claude-haiku-3-5","usage":{"input":500,"output":500}}}`,
	)

	summary := newExtractor().ExtractSession(path)

	assert.Equal(t, "please fix the bug", summary.FirstMessage)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC).UnixMilli(), summary.Timestamp)
	assert.Equal(t, int64(4000), summary.TotalTokens)
	assert.Equal(t, 2, summary.Calls)
	require.Len(t, summary.Models, 2)
	assert.Equal(t, int64(3000), summary.Models["claude-sonnet-4-5"].Tokens)
	assert.Equal(t, 1, summary.Models["claude-haiku-3-5"].Calls)
}

func TestExtractSessionWithoutMarker(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"message","message":{"role":"assistant","model":"claude-sonnet-4-5","usage":{"input":10}}}`,
	)

	summary := newExtractor().ExtractSession(path)
	assert.Equal(t, int64(0), summary.Timestamp)
	assert.Empty(t, summary.FirstMessage)
	assert.Equal(t, 1, summary.Calls)
}
