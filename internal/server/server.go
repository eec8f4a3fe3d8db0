// Package server is the thin HTTP reporting layer over the analyzer.
// It only serializes engine output; authentication, rate limiting and
// the rest of the dashboard surface live elsewhere.
package server

import (
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/openclaw/agentboard/internal/analyzer"
	"github.com/openclaw/agentboard/internal/core/status"
	"github.com/openclaw/agentboard/internal/util"
)

// Handler holds dependencies for HTTP handlers. The tracker is optional;
// without it the status endpoints report not-found.
type Handler struct {
	engine  *analyzer.Analyzer
	tracker *status.Tracker
}

// New creates a Handler.
func New(engine *analyzer.Analyzer, tracker *status.Tracker) *Handler {
	return &Handler{engine: engine, tracker: tracker}
}

// Routes returns the reporting mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/usage", h.Usage)
	mux.HandleFunc("GET /api/usage/by-task", h.UsageByTask)
	mux.HandleFunc("GET /api/activity", h.Activity)
	mux.HandleFunc("GET /api/subagents", h.Subagents)
	mux.HandleFunc("GET /api/status", h.Status)
	mux.HandleFunc("GET /api/status/stats", h.StatusStats)
	mux.HandleFunc("GET /healthz", h.Health)
	return mux
}

// Usage serves the per-model aggregate report.
func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 0)
	writeJSON(w, http.StatusOK, h.engine.Usage(days))
}

// UsageByTask serves the per-task aggregate report.
func (h *Handler) UsageByTask(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 0)
	writeJSON(w, http.StatusOK, h.engine.UsageByTask(days))
}

// Activity serves the recent-activity feed.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	writeJSON(w, http.StatusOK, h.engine.RecentActivity(limit))
}

// Subagents serves the running spawned sessions.
func (h *Handler) Subagents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Subagents())
}

// Status serves the live agent state.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if h.tracker == nil {
		http.Error(w, "status tracking disabled", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.tracker.Status())
}

// StatusStats serves active-minute statistics.
func (h *Handler) StatusStats(w http.ResponseWriter, r *http.Request) {
	if h.tracker == nil {
		http.Error(w, "status tracking disabled", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.tracker.Stats())
}

// Health is a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		util.LogErrorf("Failed to marshal response: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
}
