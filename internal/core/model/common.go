package model

// Transcript line types.
const (
	EntrySession = "session"
	EntryMessage = "message"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block types. Tool invocations appear under either name
// depending on the transcript producer version.
const (
	BlockText     = "text"
	BlockToolUse  = "tool_use"
	BlockToolCall = "toolCall"
)

// ModelDefault is the price-table row used for unknown models.
const ModelDefault = "claude-sonnet-4-5"

// TranscriptSuffix is the session transcript file extension.
const TranscriptSuffix = ".jsonl"

// IndexFileName is the session index maintained by the agent runtime.
const IndexFileName = "sessions.json"
