// Package runlog is the process-wide run log. Every entry is appended to a
// log file as a timestamped logfmt line and echoed to the console. The file
// is opened in append mode and never truncated, so repeated runs in the same
// directory accumulate.
package runlog

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger writes every entry to the log file and, when set, the console.
type Logger struct {
	file    *log.Logger
	console *log.Logger
	closer  io.Closer
}

// Open opens (or creates) the log file at path for appending. console may be
// nil to disable the echo. verbose enables debug entries on the console; the
// file always records them.
func Open(path string, console io.Writer, verbose bool) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening run log %s: %w", path, err)
	}
	l := New(f, console, verbose)
	l.closer = f
	return l, nil
}

// New builds a Logger over arbitrary writers.
func New(file, console io.Writer, verbose bool) *Logger {
	l := &Logger{
		file: log.NewWithOptions(file, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Formatter:       log.LogfmtFormatter,
			Level:           log.DebugLevel,
		}),
	}
	if console != nil {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		l.console = log.NewWithOptions(console, log.Options{
			Formatter: log.TextFormatter,
			Level:     level,
		})
	}
	return l
}

// SetVerbose switches the console echo to debug level.
func (l *Logger) SetVerbose() {
	if l.console != nil {
		l.console.SetLevel(log.DebugLevel)
	}
}

// RecordError writes a fatal outcome to the file only, for errors the caller
// presents on the console itself.
func (l *Logger) RecordError(msg string, keyvals ...interface{}) {
	l.file.Error(msg, keyvals...)
}

// QuietConsole limits the console echo to warnings and errors unless debug
// output was requested. The file keeps every entry.
func (l *Logger) QuietConsole() {
	if l.console != nil && l.console.GetLevel() == log.InfoLevel {
		l.console.SetLevel(log.WarnLevel)
	}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, nil, false)
}

// Debug records command lines and other detail.
func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	l.file.Debug(msg, keyvals...)
	if l.console != nil {
		l.console.Debug(msg, keyvals...)
	}
}

// Info records step starts and outcomes.
func (l *Logger) Info(msg string, keyvals ...interface{}) {
	l.file.Info(msg, keyvals...)
	if l.console != nil {
		l.console.Info(msg, keyvals...)
	}
}

// Warn records degradations: skipped steps, unsupported choices.
func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	l.file.Warn(msg, keyvals...)
	if l.console != nil {
		l.console.Warn(msg, keyvals...)
	}
}

// Error records a fatal outcome. It is written before the process exits.
func (l *Logger) Error(msg string, keyvals ...interface{}) {
	l.file.Error(msg, keyvals...)
	if l.console != nil {
		l.console.Error(msg, keyvals...)
	}
}

// Close closes the underlying file, if Open created one.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
