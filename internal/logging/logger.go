// BYZRA ⸻ internal/logging/logger.go
// run log file, leveled, with per-run and per-item fields

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// severity of log entries
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

// logs larger than this are archived when opened
const rotateSize = 10 << 20

func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".reclaim/logs/reclaim.log")
}

type Logger struct {
	entry *logrus.Entry
	file  *os.File // nil for children and Nop
	path  string
}

func NewLogger(logPath string, level LogLevel) (*Logger, error) {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	if info, err := os.Stat(logPath); err == nil && info.Size() > rotateSize {
		if err := archive(logPath); err != nil {
			return nil, err
		}
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := newLogger(logFile, level)
	l.file = logFile
	l.path = logPath
	return l, nil
}

// logger writing to w, never closed by Close
func NewWriter(w io.Writer, level LogLevel) *Logger {
	return newLogger(w, level)
}

// discards everything
func Nop() *Logger {
	return newLogger(io.Discard, LevelError)
}

func newLogger(w io.Writer, level LogLevel) *Logger {
	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(toLogrus(level))
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &Logger{entry: logrus.NewEntry(base)}
}

// child logger carrying key=value on every line
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Debug(message string)   { l.entry.Debug(message) }
func (l *Logger) Info(message string)    { l.entry.Info(message) }
func (l *Logger) Warning(message string) { l.entry.Warn(message) }
func (l *Logger) Error(message string)   { l.entry.Error(message) }

func (l *Logger) Path() string {
	return l.path
}

// close properly
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// renames path aside with a timestamp suffix
func archive(path string) error {
	timestamp := time.Now().Format("20060102-150405")
	newPath := fmt.Sprintf("%s.%s", path, timestamp)
	if err := os.Rename(path, newPath); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}
	return nil
}

func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func toLogrus(level LogLevel) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarning:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
