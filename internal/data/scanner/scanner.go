// Package scanner lists session transcripts in the sessions directory
// and loads the runtime-maintained session index. A missing directory or
// index is a zero contribution, not an error.
package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/openclaw/agentboard/internal/core/model"
	"github.com/openclaw/agentboard/internal/util"
)

// SessionFile describes one scannable transcript.
type SessionFile struct {
	Name      string
	Path      string
	SessionID string
	ModTime   int64 // epoch milliseconds
}

// Scanner lists transcripts under one sessions directory.
type Scanner struct {
	baseDir string
}

// New creates a scanner over the given sessions directory.
func New(baseDir string) *Scanner {
	return &Scanner{baseDir: baseDir}
}

// BaseDir returns the scanned directory.
func (s *Scanner) BaseDir() string {
	return s.baseDir
}

// Scan returns the transcripts modified at or after cutoff (epoch
// millis). Files carrying a lock or deleted marker in their name are
// excluded. A missing directory returns an empty list and no error.
func (s *Scanner) Scan(cutoff int64) ([]SessionFile, error) {
	start := time.Now()

	dirEntries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			util.LogDebugf("Sessions directory missing: %s", s.baseDir)
			return nil, nil
		}
		return nil, err
	}

	var files []SessionFile
	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, model.TranscriptSuffix) {
			continue
		}
		if strings.Contains(name, ".lock") || strings.Contains(name, ".deleted") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			util.LogDebugf("Skip transcript (stat failed): %s - %v", name, err)
			continue
		}

		modTime := info.ModTime().UnixMilli()
		if modTime < cutoff {
			continue
		}

		files = append(files, SessionFile{
			Name:      name,
			Path:      filepath.Join(s.baseDir, name),
			SessionID: strings.TrimSuffix(name, model.TranscriptSuffix),
			ModTime:   modTime,
		})
	}

	util.LogDebugf("Scanned %s in %v: %d transcripts in window", s.baseDir, time.Since(start), len(files))
	return files, nil
}

// Paths returns just the file paths of a scan result.
func Paths(files []SessionFile) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}
