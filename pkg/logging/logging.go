package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
	switch l {
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

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps a config-file level string ("debug", "info", "warn",
// "error") to a LogLevel. Unknown strings fall back to info so a typo in
// the config never silences errors.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// LogEntry is the structured log entry passed to the dashboard.
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Subsystem string
	Message   string
	Err       error
}

var (
	defaultLogger *slog.Logger
	tuiLogChannel chan LogEntry
	isTuiMode     bool
	logFile       *os.File
)

const tuiChannelBufferSize = 2048

// InitForCLI initializes the logging system for CLI mode. Entries at or
// above filterLevel are written as slog text lines to output (normally
// os.Stderr, so command output on stdout stays machine-parseable).
func InitForCLI(filterLevel LogLevel, output io.Writer) {
	isTuiMode = false
	tuiLogChannel = nil
	CloseLogFile()
	defaultLogger = newTextLogger(filterLevel, output)
	slog.SetDefault(defaultLogger)
}

// InitForTUI initializes the logging system for dashboard mode. Entries
// are delivered on the returned channel for the dashboard's log pane; the
// channel is buffered so producers only block when the dashboard stops
// draining entirely.
func InitForTUI(filterLevel LogLevel) <-chan LogEntry {
	isTuiMode = true
	CloseLogFile()
	tuiLogChannel = make(chan LogEntry, tuiChannelBufferSize)
	// Keep a stderr logger around for anything logged before the
	// dashboard takes over the terminal.
	defaultLogger = newTextLogger(filterLevel, os.Stderr)
	slog.SetDefault(defaultLogger)
	return tuiLogChannel
}

// CloseTUIChannel closes the dashboard log channel. Called on shutdown
// after the dashboard has exited.
func CloseTUIChannel() {
	if tuiLogChannel != nil {
		close(tuiLogChannel)
		tuiLogChannel = nil
		isTuiMode = false
	}
}

// InitForFile routes entries at or above filterLevel into a JSON-lines
// file instead of stderr. Meant for processes whose stderr nobody reads,
// typically `freqctl serve` started as a child of an MCP client.
func InitForFile(filterLevel LogLevel, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}
	CloseLogFile()
	logFile = f
	isTuiMode = false
	tuiLogChannel = nil
	defaultLogger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: filterLevel.SlogLevel(),
	}))
	slog.SetDefault(defaultLogger)
	return nil
}

// CloseLogFile closes the JSON log file when one is open.
func CloseLogFile() {
	if logFile != nil {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: closing log file: %v\n", err)
		}
		logFile = nil
	}
}

func newTextLogger(level LogLevel, output io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: level.SlogLevel(),
	}))
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	if isTuiMode && tuiLogChannel != nil {
		tuiLogChannel <- LogEntry{
			Timestamp: time.Now(),
			Level:     level,
			Subsystem: subsystem,
			Message:   msg,
			Err:       err,
		}
		return
	}

	if defaultLogger == nil {
		// Logging before init: degrade to stderr rather than dropping.
		fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", level, subsystem, msg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  error: %v\n", err)
		}
		return
	}

	attrs := []slog.Attr{slog.String("subsystem", subsystem)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	defaultLogger.LogAttrs(context.Background(), level.SlogLevel(), msg, attrs...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}
