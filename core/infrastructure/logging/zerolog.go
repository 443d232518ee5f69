package logging

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/ebspulse/ebspulse/core/domain/interfaces"
)

const (
	LogLevelError = 1
	LogLevelWarn  = 2
	LogLevelInfo  = 3
	LogLevelDebug = 4
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z"

var (
	globalLogLevel = LogLevelInfo
	logLevelMutex  sync.RWMutex

	// Tag filtering
	tagFilter      []string
	tagFilterMutex sync.RWMutex

	// Log file streaming
	logFile      *os.File
	logFileMutex sync.Mutex
	logWriter    io.Writer = os.Stdout

	// LogDir is where SetLogFile creates its files
	LogDir = filepath.Join(os.TempDir(), ".ebspulse", "logs")
)

// SetLogLevel sets the global log level
func SetLogLevel(level int) {
	logLevelMutex.Lock()
	defer logLevelMutex.Unlock()
	if level >= LogLevelError && level <= LogLevelDebug {
		globalLogLevel = level
		zerolog.SetGlobalLevel(convertLogLevel(level))
	}
}

// GetLogLevel returns the current global log level
func GetLogLevel() int {
	logLevelMutex.RLock()
	defer logLevelMutex.RUnlock()
	return globalLogLevel
}

// ParseLogLevel accepts 1-4 or error/warn/info/debug and returns 0 when unrecognized
func ParseLogLevel(value string) int {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "error":
		return LogLevelError
	case "2", "warn", "warning":
		return LogLevelWarn
	case "3", "info":
		return LogLevelInfo
	case "4", "debug":
		return LogLevelDebug
	default:
		return 0
	}
}

// SetTagFilter sets the tag filter from a comma-separated string
func SetTagFilter(filterStr string) {
	tagFilterMutex.Lock()
	defer tagFilterMutex.Unlock()

	if filterStr == "" {
		tagFilter = nil
		return
	}

	tags := strings.Split(filterStr, ",")
	tagFilter = make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tagFilter = append(tagFilter, tag)
		}
	}
}

// shouldLogTag checks if a tag should be logged based on the filter
func shouldLogTag(tag string) bool {
	tagFilterMutex.RLock()
	defer tagFilterMutex.RUnlock()

	if len(tagFilter) == 0 {
		return true
	}

	for _, filterTag := range tagFilter {
		if excludeTag, ok := strings.CutPrefix(filterTag, "-"); ok {
			if tag == excludeTag || strings.HasPrefix(tag, excludeTag+":") {
				return false
			}
		}
	}

	hasInclusion := false
	for _, filterTag := range tagFilter {
		if !strings.HasPrefix(filterTag, "-") {
			hasInclusion = true
			if tag == filterTag || strings.HasPrefix(tag, filterTag+":") {
				return true
			}
		}
	}

	return !hasInclusion
}

// SetLogFile enables log file streaming with auto-generated filename
func SetLogFile() (string, error) {
	logFileMutex.Lock()
	defer logFileMutex.Unlock()

	if err := os.MkdirAll(LogDir, 0o755); err != nil {
		return "", err
	}

	filePath := filepath.Join(LogDir, "ebspulse-"+generateLogFileHash()+".log")
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", err
	}

	logFile = file
	logWriter = io.MultiWriter(os.Stdout, file)
	log.Logger = zerolog.New(outputFor(logWriter)).With().Timestamp().Logger()

	return filePath, nil
}

// CloseLogFile closes the log file if it's open
func CloseLogFile() error {
	logFileMutex.Lock()
	defer logFileMutex.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	logWriter = os.Stdout
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	return err
}

// SetOutput redirects all loggers created afterwards to w
func SetOutput(w io.Writer) {
	logFileMutex.Lock()
	defer logFileMutex.Unlock()
	logWriter = w
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func generateLogFileHash() string {
	randomBytes := make([]byte, 8)
	_, _ = rand.Read(randomBytes)

	hashInput := fmt.Sprintf("%d-%d-%x", time.Now().UnixNano(), os.Getpid(), randomBytes)
	hash := sha256.Sum256([]byte(hashInput))

	return hex.EncodeToString(hash[:])[:8]
}

// ZerologLogger implements the Logger interface using zerolog
type ZerologLogger struct {
	tag    string
	logger zerolog.Logger
}

// Logger is the interface exported from this package
type Logger = interfaces.Logger

// New creates a new logger instance with a tag
func New(tag string) Logger {
	if !shouldLogTag(tag) {
		return &noOpLogger{}
	}
	return &ZerologLogger{
		tag:    tag,
		logger: Zerolog(tag),
	}
}

// Zerolog returns a raw zerolog logger carrying tag, for callers that need fields
func Zerolog(tag string) zerolog.Logger {
	logFileMutex.Lock()
	w := logWriter
	logFileMutex.Unlock()
	return zerolog.New(outputFor(w)).With().Timestamp().Str("tag", tag).Logger()
}

func outputFor(w io.Writer) io.Writer {
	if w == os.Stdout && isInteractive() {
		return zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
	}
	return w
}

// isInteractive checks if the output is going to a terminal
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func convertLogLevel(level int) zerolog.Level {
	switch level {
	case LogLevelError:
		return zerolog.ErrorLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *ZerologLogger) enabled(level int) bool {
	logLevelMutex.RLock()
	defer logLevelMutex.RUnlock()
	return level <= globalLogLevel
}

// Error logs at ERROR level
func (l *ZerologLogger) Error(message string) {
	if l.enabled(LogLevelError) {
		l.logger.Error().Msg(message)
	}
}

// Errorf logs at ERROR level with formatting
func (l *ZerologLogger) Errorf(format string, args ...any) {
	if l.enabled(LogLevelError) {
		l.logger.Error().Msgf(format, args...)
	}
}

// Warn logs at WARN level
func (l *ZerologLogger) Warn(message string) {
	if l.enabled(LogLevelWarn) {
		l.logger.Warn().Msg(message)
	}
}

// Warnf logs at WARN level with formatting
func (l *ZerologLogger) Warnf(format string, args ...any) {
	if l.enabled(LogLevelWarn) {
		l.logger.Warn().Msgf(format, args...)
	}
}

// Info logs at INFO level
func (l *ZerologLogger) Info(message string) {
	if l.enabled(LogLevelInfo) {
		l.logger.Info().Msg(message)
	}
}

// Infof logs at INFO level with formatting
func (l *ZerologLogger) Infof(format string, args ...any) {
	if l.enabled(LogLevelInfo) {
		l.logger.Info().Msgf(format, args...)
	}
}

// Success logs at INFO level but always shows regardless of log level
func (l *ZerologLogger) Success(message string) {
	l.logger.WithLevel(zerolog.NoLevel).Str("status", "ok").Msg(message)
}

// Successf logs at INFO level but always shows regardless of log level
func (l *ZerologLogger) Successf(format string, args ...any) {
	l.logger.WithLevel(zerolog.NoLevel).Str("status", "ok").Msgf(format, args...)
}

// Debug logs at DEBUG level
func (l *ZerologLogger) Debug(message string) {
	if l.enabled(LogLevelDebug) {
		l.logger.Debug().Msg(message)
	}
}

// Debugf logs at DEBUG level with formatting
func (l *ZerologLogger) Debugf(format string, args ...any) {
	if l.enabled(LogLevelDebug) {
		l.logger.Debug().Msgf(format, args...)
	}
}

// PrintError logs an error with a title
func (l *ZerologLogger) PrintError(title string, err error) {
	if err == nil {
		return
	}
	l.Errorf("%s: %v", title, err)
}

// noOpLogger is a no-op logger for filtered tags
type noOpLogger struct{}

func (n *noOpLogger) Error(string)             {}
func (n *noOpLogger) Errorf(string, ...any)    {}
func (n *noOpLogger) Warn(string)              {}
func (n *noOpLogger) Warnf(string, ...any)     {}
func (n *noOpLogger) Info(string)              {}
func (n *noOpLogger) Infof(string, ...any)     {}
func (n *noOpLogger) Success(string)           {}
func (n *noOpLogger) Successf(string, ...any)  {}
func (n *noOpLogger) Debug(string)             {}
func (n *noOpLogger) Debugf(string, ...any)    {}
func (n *noOpLogger) PrintError(string, error) {}
