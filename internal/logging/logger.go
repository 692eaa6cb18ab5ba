package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Level represents the log level
type Level int

const (
	LevelInfo Level = iota
	LevelError
	LevelDebug
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

const timestampFormat = "2006-01-02 15:04:05"

// Options configures a Logger
type Options struct {
	Verbose bool
	Format  string    // "text" (default) or "json"
	File    string    // optional log file, written alongside Output
	Output  io.Writer // defaults to os.Stdout
}

// Logger is a printf-style facade over logrus.
// The prefix is carried as the "component" field.
type Logger struct {
	mu     sync.Mutex
	base   *logrus.Logger
	entry  *logrus.Entry
	level  Level
	file   *os.File
	prefix string
}

// New creates a new Logger writing text to stdout
func New(verbose bool) *Logger {
	l, _ := NewWithOptions(Options{Verbose: verbose})
	return l
}

// NewWithFile creates a new Logger that writes to both file and stdout
func NewWithFile(path string, verbose bool) (*Logger, error) {
	return NewWithOptions(Options{Verbose: verbose, File: path})
}

// NewWithOptions creates a Logger from options
func NewWithOptions(opts Options) (*Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var file *os.File
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		out = io.MultiWriter(out, file)
	}

	level := LevelInfo
	if opts.Verbose {
		level = LevelDebug
	}

	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(logrusLevel(level))
	if opts.Format == FormatJSON {
		base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timestampFormat})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
			DisableColors:   true,
		})
	}

	return &Logger{
		base:  base,
		entry: logrus.NewEntry(base),
		level: level,
		file:  file,
	}, nil
}

func logrusLevel(level Level) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Close closes the log file if open
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// SetPrefix sets a prefix for log messages
func (l *Logger) SetPrefix(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefix = prefix
	l.entry = withComponent(logrus.NewEntry(l.base), prefix)
}

// SetLevel changes the minimum level for this logger and all its children
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.base.SetLevel(logrusLevel(level))
}

func withComponent(e *logrus.Entry, prefix string) *logrus.Entry {
	if prefix == "" {
		return e
	}
	return e.WithField("component", prefix)
}

func (l *Logger) current() *logrus.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entry
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.current().Infof(format, args...)
}

// Warn logs a warning
func (l *Logger) Warn(format string, args ...interface{}) {
	l.current().Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.current().Errorf(format, args...)
}

// Debug logs a debug message (only when verbose is enabled)
func (l *Logger) Debug(format string, args ...interface{}) {
	l.current().Debugf(format, args...)
}

// WithPrefix returns a new logger with the given prefix
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{
		base:   l.base,
		entry:  withComponent(logrus.NewEntry(l.base), prefix),
		level:  l.level,
		file:   l.file,
		prefix: prefix,
	}
}

// WithEntity returns a new logger tagged with the entity kind being imported
func (l *Logger) WithEntity(entity string) *Logger {
	return l.WithField("entity", entity)
}

// WithField returns a child logger carrying an extra structured field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a child logger carrying extra structured fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{
		base:   l.base,
		entry:  l.current().WithFields(logrus.Fields(fields)),
		level:  l.level,
		file:   l.file,
		prefix: l.prefix,
	}
}

// StdLogger returns a standard library logger
func (l *Logger) StdLogger() *log.Logger {
	return log.New(l.base.Out, "", 0)
}
