package scanner

import (
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/openclaw/agentboard/internal/core/model"
	"github.com/openclaw/agentboard/internal/util"
)

// SessionInfo is one entry of the runtime's session index.
type SessionInfo struct {
	SessionID     string `json:"sessionId"`
	Label         string `json:"label,omitempty"`
	Model         string `json:"model,omitempty"`
	ModelOverride string `json:"modelOverride,omitempty"`
	UpdatedAt     int64  `json:"updatedAt,omitempty"`
	Origin        struct {
		Label string `json:"label,omitempty"`
	} `json:"origin,omitempty"`
}

// EffectiveModel returns the session model, preferring an explicit
// override.
func (s SessionInfo) EffectiveModel() string {
	if s.Model != "" {
		return s.Model
	}
	return s.ModelOverride
}

// EffectiveLabel returns the human-assigned label, falling back to the
// origin label for sessions the runtime spawned itself.
func (s SessionInfo) EffectiveLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Origin.Label
}

// SessionIndex maps session keys to session metadata. The index is
// written by the agent runtime and read-only here.
type SessionIndex map[string]SessionInfo

// LoadIndex reads sessions.json from the sessions directory. Absence or
// corruption degrades to an empty index.
func LoadIndex(baseDir string) SessionIndex {
	path := filepath.Join(baseDir, model.IndexFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			util.LogWarnf("Failed to read session index %s: %v", path, err)
		}
		return SessionIndex{}
	}

	var index SessionIndex
	if err := sonic.Unmarshal(data, &index); err != nil {
		util.LogWarnf("Failed to parse session index %s: %v", path, err)
		return SessionIndex{}
	}
	return index
}

// Lookup finds the session key and label for a session id. Returns empty
// strings when the id is not indexed.
func (idx SessionIndex) Lookup(sessionID string) (key, label string) {
	for k, info := range idx {
		if info.SessionID == sessionID {
			return k, info.EffectiveLabel()
		}
	}
	return "", ""
}
