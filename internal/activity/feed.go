// Package activity reconstructs a human-readable recent-activity
// timeline from the tail of a session transcript. The feed is an
// approximate sliding window, not a complete history: only the last ~200
// physical lines are considered.
package activity

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/openclaw/agentboard/internal/core/model"
	"github.com/openclaw/agentboard/internal/data/parser"
	"github.com/openclaw/agentboard/internal/data/scanner"
	"github.com/openclaw/agentboard/internal/util"
)

// Event kinds.
const (
	KindToolCall          = "tool_call"
	KindAssistantResponse = "assistant_response"
	KindUserMessage       = "user_message"
)

// tailWindow is how many trailing physical lines are scanned per feed.
const tailWindow = 200

// maxDescription bounds the human-readable description length.
const maxDescription = 45

// Event is one entry of the activity feed.
type Event struct {
	Type        string `json:"type"`
	Tool        string `json:"tool,omitempty"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Timestamp   int64  `json:"timestamp"`
}

var toolIcons = map[string]string{
	"read":           "📄",
	"write":          "✏️",
	"edit":           "✏️",
	"exec":           "⚙️",
	"web_search":     "🔍",
	"web_fetch":      "🌐",
	"browser":        "🌐",
	"message":        "💬",
	"tts":            "🔊",
	"nodes":          "📱",
	"canvas":         "🖼️",
	"sessions_spawn": "🤖",
	"image":          "🖼️",
	"voice_call":     "📞",
}

const defaultToolIcon = "🔧"

// Meta status announcements ("using Sonnet" banners) are suppressed so
// the feed only shows real replies.
var metaMessagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^🧠.*Using (Sonnet|Opus|Haiku)`),
	regexp.MustCompile(`(?i)^\*\*using (sonnet|opus|haiku)\*\*`),
}

var workspacePrefixes = []string{
	"/home/ubuntu/.openclaw/workspace/",
	"~/.openclaw/workspace/",
}

var sentenceEnd = regexp.MustCompile(`[.!?]\s`)

// Builder turns transcript tails into activity feeds.
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a feed builder. A nil clock uses time.Now.
func NewBuilder(now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{now: now}
}

// Recent builds the activity feed for one transcript: newest first,
// at most limit events. A read failure degrades to an empty feed.
func (b *Builder) Recent(path string, limit int) []Event {
	entries, err := parser.TailEntries(path, tailWindow)
	if err != nil {
		util.LogWarnf("Failed to read activity tail %s: %v", path, err)
		return []Event{}
	}

	nowMillis := b.now().UnixMilli()
	events := make([]Event, 0, limit)

	for i := range entries {
		entry := &entries[i]
		if entry.Type != model.EntryMessage || entry.Message == nil {
			continue
		}

		timestamp := entry.TimeMillis(nowMillis)

		switch entry.Message.Role {
		case model.RoleAssistant:
			events = append(events, assistantEvents(entry.Message, timestamp)...)
		case model.RoleUser:
			if text := strings.TrimSpace(entry.Message.Text()); text != "" {
				events = append(events, Event{
					Type:        KindUserMessage,
					Description: util.Truncate(text, maxDescription),
					Icon:        "🙋",
					Timestamp:   timestamp,
				})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp > events[j].Timestamp
	})
	if len(events) > limit {
		events = events[:limit]
	}

	return events
}

// assistantEvents renders one assistant turn: one event per tool call,
// or one summarized reply when the turn has text but no tools.
func assistantEvents(msg *model.Message, timestamp int64) []Event {
	var events []Event
	hasToolCalls := false
	var assistantText strings.Builder

	for i := range msg.Content {
		block := &msg.Content[i]
		if block.IsToolCall() {
			hasToolCalls = true
			toolName := block.Name
			if toolName == "" {
				toolName = "unknown"
			}

			icon, ok := toolIcons[toolName]
			if !ok {
				icon = defaultToolIcon
			}

			events = append(events, Event{
				Type:        KindToolCall,
				Tool:        toolName,
				Description: util.Truncate(describeTool(toolName, block.ToolInput()), maxDescription),
				Icon:        icon,
				Timestamp:   timestamp,
			})
		} else if block.Type == model.BlockText {
			assistantText.WriteString(block.Text)
		}
	}

	if !hasToolCalls {
		if text := strings.TrimSpace(assistantText.String()); text != "" && !isMetaMessage(text) {
			events = append(events, Event{
				Type:        KindAssistantResponse,
				Description: "Replied: " + summarize(text),
				Icon:        "💬",
				Timestamp:   timestamp,
			})
		}
	}

	return events
}

func isMetaMessage(text string) bool {
	for _, pattern := range metaMessagePatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// summarize reduces reply text to its first sentence, dropping a leading
// "I " for terseness.
func summarize(text string) string {
	first := text
	if loc := sentenceEnd.FindStringIndex(text); loc != nil {
		first = text[:loc[0]]
	}
	summary := util.Truncate(first, 40)
	if strings.HasPrefix(strings.ToLower(summary), "i ") {
		summary = summary[2:]
	}
	return summary
}

// describeTool renders a tool invocation as a short human-readable
// phrase. Unknown tools fall back to the bare tool name.
func describeTool(name string, input map[string]any) string {
	switch name {
	case "read":
		return "Read " + cleanFilePath(toolString(input, "path", "file_path"))
	case "write":
		return "Write " + cleanFilePath(toolString(input, "path", "file_path"))
	case "edit":
		return "Edit " + cleanFilePath(toolString(input, "path", "file_path"))
	case "exec":
		cmd := toolString(input, "command")
		if i := strings.IndexByte(cmd, ' '); i >= 0 {
			cmd = cmd[:i]
		}
		return "Run " + cmd
	case "web_search":
		return "Search: " + util.Truncate(toolString(input, "query"), 30)
	case "web_fetch":
		domain := toolString(input, "url")
		if domain == "" {
			domain = "webpage"
		} else if parsed, err := url.Parse(domain); err == nil && parsed.Hostname() != "" {
			domain = strings.TrimPrefix(parsed.Hostname(), "www.")
		}
		return "Fetch " + domain
	case "message":
		action := toolString(input, "action")
		if action == "send" {
			return "Send message"
		}
		return "Message: " + action
	case "sessions_spawn":
		label := toolString(input, "label")
		if label == "" {
			label = "task"
		}
		return "Spawn: " + util.Truncate(label, 30)
	case "sessions_list":
		return "List sessions"
	case "sessions_info":
		return "Check session info"
	case "sessions_send":
		return "Send to session"
	case "browser":
		return "Browser " + toolStringDefault(input, "action", "action")
	case "tts":
		return "Speak"
	case "nodes":
		return "Node " + toolStringDefault(input, "action", "action")
	case "canvas":
		return "Canvas " + toolStringDefault(input, "action", "action")
	case "image":
		return "Analyze image"
	case "voice_call":
		return "Voice call"
	default:
		return name
	}
}

// toolString fetches the first present string value among keys.
func toolString(input map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := input[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

func toolStringDefault(input map[string]any, key, fallback string) string {
	if s := toolString(input, key); s != "" {
		return s
	}
	return fallback
}

// cleanFilePath strips workspace prefixes and falls back to the base
// name when the path is still too long to read at a glance.
func cleanFilePath(path string) string {
	if path == "" {
		return "file"
	}

	cleaned := path
	for _, prefix := range workspacePrefixes {
		cleaned = strings.TrimPrefix(cleaned, prefix)
	}
	cleaned = strings.TrimPrefix(cleaned, "./")
	cleaned = strings.TrimPrefix(cleaned, "/")

	if len(cleaned) > 40 {
		return filepath.Base(cleaned)
	}
	return cleaned
}

// MainSessionFile resolves the transcript of the main agent session:
// the indexed discord channel session when present, otherwise the newest
// non-subagent transcript. Returns "" when nothing qualifies.
func MainSessionFile(baseDir string, index scanner.SessionIndex) string {
	for sessionKey, info := range index {
		if strings.Contains(sessionKey, "discord:channel:") && !strings.Contains(sessionKey, ":subagent:") {
			path := filepath.Join(baseDir, info.SessionID+model.TranscriptSuffix)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	var newest string
	var newestTime int64
	for sessionKey, info := range index {
		if strings.Contains(sessionKey, ":subagent:") {
			continue
		}
		path := filepath.Join(baseDir, info.SessionID+model.TranscriptSuffix)
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}
		if mtime := stat.ModTime().UnixMilli(); mtime > newestTime {
			newestTime = mtime
			newest = path
		}
	}
	return newest
}
