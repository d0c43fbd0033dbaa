// Package logging holds the process-wide structured logger.
//
// Every package obtains its logger through GetLogger or one of the With*
// helpers so that level, format and destination are decided in one place.
// If GetLogger is called before Init, a WARN level text logger on stderr is
// created lazily.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	logger   *slog.Logger
	loggerMu sync.RWMutex
	logFile  *os.File
	isInited bool
	initOnce sync.Once
)

// Level is the textual log level accepted by Init.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Config holds logger configuration.
type Config struct {
	Level      Level
	OutputPath string // empty for stderr
	Format     string // "json" or "text"
}

// ParseLevel maps a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug, nil
	case LevelInfo:
		return LevelInfo, nil
	case LevelWarn, "WARNING":
		return LevelWarn, nil
	case LevelError:
		return LevelError, nil
	}
	return "", fmt.Errorf("unknown log level %q", s)
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Init initializes the global logger. Calling it twice without Close in
// between is an error.
func Init(config Config) error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if isInited {
		return fmt.Errorf("logger already initialized; call Close() first to reinitialize")
	}

	var writer io.Writer = os.Stderr
	if config.OutputPath != "" {
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0o750); err != nil {
			return err
		}
		file, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		writer = file
		logFile = file
	}

	logger = newLogger(writer, config.Level, config.Format)
	isInited = true
	return nil
}

// InitWriter initializes the global logger on an arbitrary writer. Tests use
// it to capture output.
func InitWriter(w io.Writer, level Level, format string) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	logger = newLogger(w, level, format)
	isInited = true
}

func newLogger(w io.Writer, level Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.slogLevel()}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// InitDefault installs a WARN level text logger on stderr unless a logger is
// already installed.
func InitDefault() {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if isInited {
		return
	}
	logger = newLogger(os.Stderr, LevelWarn, "text")
	isInited = true
}

// Close closes any open log file. Init may be called again afterwards.
func Close() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if !isInited {
		return nil
	}

	var err error
	if logFile != nil {
		err = logFile.Close()
		logFile = nil
	}

	logger = nil
	isInited = false
	initOnce = sync.Once{}
	return err
}

// GetLogger returns the current logger, installing the default one first if
// nothing has been initialized.
func GetLogger() *slog.Logger {
	loggerMu.RLock()
	if isInited {
		l := logger
		loggerMu.RUnlock()
		return l
	}
	loggerMu.RUnlock()

	initOnce.Do(InitDefault)

	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// WithComponent returns a logger tagged with a subsystem name.
//
//	log := logging.WithComponent("importer")
//	log.Info("file parsed", "lines", n)
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithIndex returns a logger tagged with an index name.
func WithIndex(indexName string) *slog.Logger {
	return GetLogger().With("index", indexName)
}
