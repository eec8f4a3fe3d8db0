package model

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// LogEntry is one line of a session transcript. Lines are heterogeneous:
// a session marker, a message, or something this system does not care
// about. Unknown fields are ignored rather than rejected.
type LogEntry struct {
	Type      string   `json:"type"`
	Timestamp FlexTime `json:"timestamp,omitempty"`
	Ts        FlexTime `json:"ts,omitempty"`
	Message   *Message `json:"message,omitempty"`
}

// TimeMillis resolves the entry timestamp in epoch milliseconds,
// preferring "timestamp" over "ts". Lines appended without a timestamp
// resolve to the supplied fallback.
func (e *LogEntry) TimeMillis(fallback int64) int64 {
	if e.Timestamp.Millis != 0 {
		return e.Timestamp.Millis
	}
	if e.Ts.Millis != 0 {
		return e.Ts.Millis
	}
	return fallback
}

type Message struct {
	Role    string          `json:"role"`
	Model   string          `json:"model,omitempty"`
	Content FlexibleContent `json:"content,omitempty"`
	Usage   *UsageBlock     `json:"usage,omitempty"`
}

// Text concatenates the text blocks of the message content.
func (m *Message) Text() string {
	var out string
	for _, block := range m.Content {
		if block.Type == BlockText {
			out += block.Text
		}
	}
	return out
}

// UsageBlock is the token accounting attached to a model-generated
// message. Every field is optional; missing counts read as zero.
type UsageBlock struct {
	Input       int64      `json:"input"`
	Output      int64      `json:"output"`
	CacheRead   int64      `json:"cacheRead"`
	CacheWrite  int64      `json:"cacheWrite"`
	TotalTokens int64      `json:"totalTokens"`
	Cost        *CostBlock `json:"cost,omitempty"`
}

// Total returns the explicit total when the producer recorded one,
// otherwise the sum of the four component counts.
func (u *UsageBlock) Total() int64 {
	if u.TotalTokens > 0 {
		return u.TotalTokens
	}
	return u.Input + u.Output + u.CacheRead + u.CacheWrite
}

type CostBlock struct {
	Total float64 `json:"total"`
}

// FlexibleContent accepts message content as either a plain string or an
// array of content blocks.
type FlexibleContent []ContentItem

func (fc *FlexibleContent) UnmarshalJSON(data []byte) error {
	var items []ContentItem
	if err := sonic.Unmarshal(data, &items); err == nil {
		*fc = items
		return nil
	}

	var str string
	if err := sonic.Unmarshal(data, &str); err == nil {
		*fc = []ContentItem{{Type: BlockText, Text: str}}
		return nil
	}

	return fmt.Errorf("content must be either string or array of content blocks")
}

// ContentItem is one block of message content. Tool inputs are free-form
// and appear under "input" or "arguments" depending on the producer.
type ContentItem struct {
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	Name      string         `json:"name,omitempty"`
	Input     map[string]any `json:"input,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// IsToolCall reports whether the block is a tool invocation.
func (c *ContentItem) IsToolCall() bool {
	return c.Type == BlockToolUse || c.Type == BlockToolCall
}

// ToolInput returns the invocation arguments under whichever key the
// producer used.
func (c *ContentItem) ToolInput() map[string]any {
	if len(c.Input) > 0 {
		return c.Input
	}
	return c.Arguments
}

// FlexTime accepts a timestamp as an RFC3339 string or an epoch value in
// milliseconds. A zero Millis means the field was absent or unparseable.
type FlexTime struct {
	Millis int64
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	var str string
	if err := sonic.Unmarshal(data, &str); err == nil {
		parsed, err := time.Parse(time.RFC3339, str)
		if err != nil {
			// Tolerate fractional seconds without a zone and similar
			// near-misses by leaving the timestamp unset.
			parsed, err = time.Parse("2006-01-02T15:04:05", str)
			if err != nil {
				return nil
			}
			parsed = parsed.UTC()
		}
		t.Millis = parsed.UnixMilli()
		return nil
	}

	var num float64
	if err := sonic.Unmarshal(data, &num); err == nil {
		t.Millis = int64(num)
		return nil
	}

	return nil
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(t.Millis)
}
