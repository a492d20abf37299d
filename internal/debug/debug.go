package debug

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Debug levels
const (
	LevelQuiet   = 0 // Warnings and errors only
	LevelInfo    = 1 // Important info (startup, photos sent)
	LevelLive    = 2 // Live info (photos detected, requests issued)
	LevelVerbose = 3 // Verbose (configuration values, steps)
	LevelTrace   = 4 // Trace (very low level)
)

// Options configures the process-wide logger.
type Options struct {
	Level  int
	Format string // "text" or "json"
	Output string // "stdout", "stderr" or a file path

	// Rotation settings, only used for file output.
	Rotate     bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

var (
	level  = LevelInfo
	logger = newLogger()
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(textFormatter())
	l.SetLevel(logrusLevel(LevelInfo))
	return l
}

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000000",
	}
}

// Init sets the debug level (0-4).
// 0 = warnings and errors only
// 1 = important info (startup, photos sent)
// 2 = live info (photos detected, requests issued)
// 3 = verbose (configuration values, steps)
// 4 = trace (very low level)
func Init(debugLevel int) {
	if debugLevel < LevelQuiet {
		debugLevel = LevelQuiet
	}
	if debugLevel > LevelTrace {
		debugLevel = LevelTrace
	}
	level = debugLevel
	logger.SetLevel(logrusLevel(level))
}

// Setup initializes level, formatter and output in one call.
// It is meant to run once at process start; nothing needs closing afterwards.
func Setup(opts Options) error {
	switch opts.Format {
	case "", "text":
		logger.SetFormatter(textFormatter())
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		return fmt.Errorf("unknown log format: %q", opts.Format)
	}

	out, err := openOutput(opts)
	if err != nil {
		return err
	}
	logger.SetOutput(out)
	Init(opts.Level)
	return nil
}

func openOutput(opts Options) (io.Writer, error) {
	switch opts.Output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	if opts.Rotate {
		return &lumberjack.Logger{
			Filename:   opts.Output,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}, nil
	}
	f, err := os.OpenFile(opts.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func logrusLevel(l int) logrus.Level {
	switch {
	case l >= LevelTrace:
		return logrus.TraceLevel
	case l >= LevelVerbose:
		return logrus.DebugLevel
	case l >= LevelInfo:
		return logrus.InfoLevel
	default:
		return logrus.WarnLevel
	}
}

// SetOutput redirects all log output.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Level returns the current debug level.
func Level() int {
	return level
}

// IsEnabled returns true if debug level is >= the requested level.
func IsEnabled(minLevel int) bool {
	return level >= minLevel
}

// Logger returns the underlying logrus logger.
func Logger() *logrus.Logger {
	return logger
}

// Component returns a logger whose entries carry a component field.
func Component(name string) logrus.FieldLogger {
	return logger.WithField("component", name)
}

// --- Level 1 functions (Info): important info ---

// Info prints a level 1 message (important info).
func Info(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Value prints a named value (level 1).
func Value(name string, value interface{}) {
	logger.WithField(name, value).Info("value")
}

// --- Level 2 functions (Live): real-time info ---

// Live prints a level 2 message (live info).
func Live(format string, args ...interface{}) {
	if level >= LevelLive {
		logger.WithField("stage", "live").Infof(format, args...)
	}
}

// --- Level 3 functions (Verbose): everything ---

// Verbose prints a level 3 message (verbose).
func Verbose(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// PrintStruct prints a struct in formatted form (level 3).
func PrintStruct(name string, v interface{}) {
	logger.Debugf("%s: %+v", name, v)
}

// Section prints a section separator (level 3).
func Section(name string) {
	logger.Debugf("━━━━━━━━━━ %s ━━━━━━━━━━", name)
}

// Step prints a numbered step (level 3).
func Step(num int, description string) {
	logger.Debugf("Step %d: %s", num, description)
}

// --- Level 4 functions (Trace): very low level ---

// Trace prints a level 4 message.
func Trace(format string, args ...interface{}) {
	logger.Tracef(format, args...)
}

// --- General functions ---

// Error prints an error. Errors are shown at every level.
func Error(err error) {
	logger.Error(err)
}
