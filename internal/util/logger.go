package util

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// LogFormat represents the output format
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Output is a log destination.
type Output interface {
	Write(entry LogEntry) error
	Close() error
}

// Logger writes leveled log entries to one or more outputs.
type Logger struct {
	level   LogLevel
	outputs []Output
	mu      sync.RWMutex
}

// NewLogger creates a logger. Debug mode adds stderr output; a non-empty
// logFile adds file output. At least one must be configured.
func NewLogger(levelStr, logFile string, debugToConsole bool) (*Logger, error) {
	logger := &Logger{level: parseLogLevel(levelStr)}

	if debugToConsole {
		logger.outputs = append(logger.outputs, NewWriterOutput(os.Stderr, FormatText))
	}

	if logFile != "" {
		fileOutput, err := NewFileOutput(logFile, FormatText)
		if err != nil {
			return nil, fmt.Errorf("create log file output %s: %w", logFile, err)
		}
		logger.outputs = append(logger.outputs, fileOutput)
	}

	if len(logger.outputs) == 0 {
		logger.outputs = append(logger.outputs, NewWriterOutput(io.Discard, FormatText))
	}

	return logger, nil
}

func parseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func levelToString(level LogLevel) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l *Logger) log(level LogLevel, msg string) {
	if l.level > level {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     levelToString(level),
		Message:   msg,
	}

	for _, output := range l.outputs {
		if err := output.Write(entry); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write log entry: %v\n", err)
		}
	}
}

func (l *Logger) Debug(msg string) { l.log(LevelDebug, msg) }
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}
func (l *Logger) Info(msg string) { l.log(LevelInfo, msg) }
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}
func (l *Logger) Warn(msg string) { l.log(LevelWarn, msg) }
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(format, args...))
}
func (l *Logger) Error(msg string) { l.log(LevelError, msg) }
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close closes all outputs.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, output := range l.outputs {
		if err := output.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WriterOutput writes log entries to an io.Writer.
type WriterOutput struct {
	writer io.Writer
	format LogFormat
	mu     sync.Mutex
}

// NewWriterOutput creates an output over an arbitrary writer.
func NewWriterOutput(writer io.Writer, format LogFormat) Output {
	return &WriterOutput{writer: writer, format: format}
}

func (w *WriterOutput) Write(entry LogEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return writeEntry(w.writer, entry, w.format)
}

func (w *WriterOutput) Close() error {
	return nil
}

// FileOutput writes log entries to an append-only file.
type FileOutput struct {
	file   *os.File
	format LogFormat
	mu     sync.Mutex
}

// NewFileOutput creates a file output, creating the file if needed.
func NewFileOutput(path string, format LogFormat) (Output, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &FileOutput{file: file, format: format}, nil
}

func (f *FileOutput) Write(entry LogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return writeEntry(f.file, entry, f.format)
}

func (f *FileOutput) Close() error {
	return f.file.Close()
}

func writeEntry(w io.Writer, entry LogEntry, format LogFormat) error {
	var output string
	if format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return err
		}
		output = string(data)
	} else {
		output = fmt.Sprintf("%s [%s] %s",
			entry.Timestamp.Format("2006/01/02 15:04:05"), entry.Level, entry.Message)
	}

	_, err := fmt.Fprintln(w, output)
	return err
}
