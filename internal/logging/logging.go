// Package logging configures the zerolog logger used by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvDebug enables debug console logging and full error detail when set to a non-empty value.
const EnvDebug = "DEBUG"

// AppDirName is the directory name used under XDG base directories.
const AppDirName = "claude-clipboard"

// Options controls logger setup.
type Options struct {
	// Debug mirrors debug-level records to Console.
	Debug bool
	// Console receives human-readable records when Debug is set. Defaults to os.Stderr.
	Console io.Writer
	// LogFile receives every record at debug level. Empty disables file logging.
	LogFile string
}

// Setup configures the global logger. The console only shows records when
// debugging; the log file always captures the full debug trace of a run so a
// failed install can be diagnosed afterwards. The returned closer releases the
// log file and is never nil.
func Setup(opts Options) (io.Closer, error) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var writers []io.Writer
	if opts.Debug {
		console := opts.Console
		if console == nil {
			console = os.Stderr
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen})
	}

	var closer io.Closer = nopCloser{}
	var fileErr error
	if opts.LogFile != "" {
		file, err := openLogFile(opts.LogFile)
		if err != nil {
			fileErr = err
		} else {
			writers = append(writers, file)
			closer = file
		}
	}

	if len(writers) == 0 {
		log.Logger = zerolog.Nop()
		return closer, fileErr
	}
	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	if opts.Debug {
		logger = logger.With().Caller().Logger()
	}
	log.Logger = logger

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", opts.LogFile).Msg("Failed to open log file, logging to console only")
	}
	log.Debug().Bool("debug", opts.Debug).Str("logFile", opts.LogFile).Msg("Logger initialized")
	return closer, fileErr
}

// GetLogger returns a logger tagged with the component name.
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// DebugEnabled reports whether the DEBUG environment variable is set.
func DebugEnabled(getenv func(string) string) bool {
	if getenv == nil {
		getenv = os.Getenv
	}
	return strings.TrimSpace(getenv(EnvDebug)) != ""
}

// LogFilePath returns the install log location under XDG_STATE_HOME.
func LogFilePath() string {
	return filepath.Join(xdg.StateHome, AppDirName, "install.log")
}

// LogOperationStart logs the start of an operation and returns a function that logs its completion.
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")
	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
