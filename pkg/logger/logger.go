package logger

import (
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Fields is the structured payload attached to a single log line.
type Fields = map[string]interface{}

// Logger wraps zerolog.Logger and stamps every event with its caller.
type Logger struct {
	zl zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level       string // debug, info, warn, error, fatal
	Format      string // json, console
	Output      io.Writer
	EnableColor bool
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// Initialize replaces the process-wide logger.
func Initialize(cfg Config) {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	var out io.Writer = os.Stdout
	if cfg.Output != nil {
		out = cfg.Output
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.EnableColor,
		}
	}

	zl := zerolog.New(out).With().Timestamp().Logger()

	globalMu.Lock()
	globalLogger = &Logger{zl: zl}
	globalMu.Unlock()
	log.Logger = zl
}

// ParseLevel maps a level name to zerolog, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger, creating a console logger on first use.
func Get() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	Initialize(Config{Level: "info", Format: "console", EnableColor: true})
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// WithContext returns a child logger carrying the given fields on every line.
func (l *Logger) WithContext(fields Fields) *Logger {
	c := l.zl.With()
	for k, v := range fields {
		c = c.Interface(k, v)
	}
	return &Logger{zl: c.Logger()}
}

func (l *Logger) Debug(msg string, fields ...Fields) { l.emit(l.zl.Debug(), 2, msg, fields) }
func (l *Logger) Info(msg string, fields ...Fields)  { l.emit(l.zl.Info(), 2, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Fields)  { l.emit(l.zl.Warn(), 2, msg, fields) }

func (l *Logger) Error(msg string, err error, fields ...Fields) {
	l.emit(l.zl.Error().Err(err), 2, msg, fields)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, err error, fields ...Fields) {
	l.emit(l.zl.Fatal().Err(err), 2, msg, fields)
}

// emit finishes an event; skip is the number of frames between emit and the
// user's call site.
func (l *Logger) emit(event *zerolog.Event, skip int, msg string, fields []Fields) {
	if event == nil {
		return
	}
	if pc, file, line, ok := runtime.Caller(skip); ok {
		event = event.Str("caller", zerolog.CallerMarshalFunc(pc, file, line))
	}
	for _, f := range fields {
		for k, v := range f {
			event = event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

// Package-level convenience functions

func Debug(msg string, fields ...Fields) { l := Get(); l.emit(l.zl.Debug(), 2, msg, fields) }
func Info(msg string, fields ...Fields)  { l := Get(); l.emit(l.zl.Info(), 2, msg, fields) }
func Warn(msg string, fields ...Fields)  { l := Get(); l.emit(l.zl.Warn(), 2, msg, fields) }

func Error(msg string, err error, fields ...Fields) {
	l := Get()
	l.emit(l.zl.Error().Err(err), 2, msg, fields)
}

func Fatal(msg string, err error, fields ...Fields) {
	l := Get()
	l.emit(l.zl.Fatal().Err(err), 2, msg, fields)
}

// WithContext returns a child of the global logger.
func WithContext(fields Fields) *Logger {
	return Get().WithContext(fields)
}
