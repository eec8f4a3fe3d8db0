package util

import "sync"

var (
	globalLogger *Logger
	loggerOnce   sync.Once
)

// InitLogger initializes the global logger instance. Safe to call more
// than once; only the first call takes effect.
func InitLogger(logLevel, logFile string, debugToConsole bool) error {
	var err error
	loggerOnce.Do(func() {
		globalLogger, err = NewLogger(logLevel, logFile, debugToConsole)
	})
	return err
}

func LogDebug(msg string) {
	if globalLogger != nil {
		globalLogger.Debug(msg)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Debugf(format, args...)
	}
}

func LogInfo(msg string) {
	if globalLogger != nil {
		globalLogger.Info(msg)
	}
}

func LogInfof(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Infof(format, args...)
	}
}

func LogWarn(msg string) {
	if globalLogger != nil {
		globalLogger.Warn(msg)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Warnf(format, args...)
	}
}

func LogError(msg string) {
	if globalLogger != nil {
		globalLogger.Error(msg)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Errorf(format, args...)
	}
}
