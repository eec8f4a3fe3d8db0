// Package parser reads session transcripts line by line. Every line is
// parsed independently; a malformed line is skipped, never aborts the
// file. Each call re-reads the file from the start — transcripts are
// append-only and this system never tails them incrementally.
package parser

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/openclaw/agentboard/internal/core/model"
	"github.com/openclaw/agentboard/internal/util"
)

const (
	initialBufSize = 64 * 1024
	maxLineSize    = 10 * 1024 * 1024
)

// LineResult is the outcome of parsing one physical line: either a
// parsed entry or an explicit skip. Blank lines and broken JSON both
// skip.
type LineResult struct {
	Entry   *model.LogEntry
	Skipped bool
}

// ParseLine parses one transcript line.
func ParseLine(data []byte) LineResult {
	if len(data) == 0 {
		return LineResult{Skipped: true}
	}

	var entry model.LogEntry
	if err := sonic.Unmarshal(data, &entry); err != nil {
		return LineResult{Skipped: true}
	}
	return LineResult{Entry: &entry}
}

// Parser parses transcript files, several at a time when asked.
type Parser struct {
	concurrency int
}

// ParseResult is the outcome of parsing one file.
type ParseResult struct {
	File    string
	Entries []model.LogEntry
	Error   error
}

// NewParser creates a parser with the given fan-out width.
func NewParser(concurrency int) *Parser {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Parser{concurrency: concurrency}
}

// ParseFile reads the transcript at path and returns its parseable
// entries in file order. Skipped lines are counted, not surfaced.
func (p *Parser) ParseFile(path string) ([]model.LogEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		util.LogDebugf("Failed to open transcript: %s - %v", path, err)
		return nil, err
	}
	defer file.Close()

	var entries []model.LogEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, initialBufSize), maxLineSize)

	lineCount := 0
	skipped := 0
	for scanner.Scan() {
		lineCount++
		result := ParseLine(scanner.Bytes())
		if result.Skipped {
			skipped++
			continue
		}
		entries = append(entries, *result.Entry)
	}

	if err := scanner.Err(); err != nil {
		util.LogDebugf("Error scanning transcript: %s - %v", path, err)
		return entries, err
	}

	if skipped > 0 {
		util.LogDebugf("Parsed %s: %d lines, %d skipped", path, lineCount, skipped)
	}

	return entries, nil
}

// ParseFiles parses multiple transcripts concurrently and returns a
// channel of per-file results. Per-file reads are independent; order of
// results is not guaranteed.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			entries, err := p.ParseFile(f)
			results <- ParseResult{File: f, Entries: entries, Error: err}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebugf("Concurrent parse of %d files finished in %v", len(files), time.Since(start))
	}()

	return results
}

// FirstEntry parses only the first physical line of the transcript.
// Returns nil when the file is empty or its first line does not parse.
func FirstEntry(path string) (*model.LogEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, initialBufSize), maxLineSize)
	if !scanner.Scan() {
		return nil, scanner.Err()
	}

	result := ParseLine(scanner.Bytes())
	if result.Skipped {
		return nil, nil
	}
	return result.Entry, nil
}

// TailEntries parses only the last maxLines physical lines of the
// transcript. The whole file is still scanned (transcripts are modest in
// size), but only a bounded window of lines is decoded.
func TailEntries(path string, maxLines int) ([]model.LogEntry, error) {
	if maxLines <= 0 {
		return nil, fmt.Errorf("maxLines must be positive, got %d", maxLines)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Ring buffer of the trailing raw lines.
	ring := make([][]byte, maxLines)
	count := 0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, initialBufSize), maxLineSize)
	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		ring[count%maxLines] = line
		count++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	n := count
	if n > maxLines {
		n = maxLines
	}

	entries := make([]model.LogEntry, 0, n)
	for i := 0; i < n; i++ {
		idx := (count - n + i) % maxLines
		result := ParseLine(ring[idx])
		if result.Skipped {
			continue
		}
		entries = append(entries, *result.Entry)
	}

	return entries, nil
}
