// Package logs implements the small leveled-logging backend that
// package logger wires per-subsystem loggers on top of. It is a
// from-scratch implementation of the backend contract
// logger/logger.go assumes (logs.NewBackend, logs.Logger,
// logs.BackendWriter, logs.LevelFromString) — the upstream logs
// package itself was not part of the retrieved reference pack, so its
// shape is grounded on logger.go's call sites rather than copied.
package logs

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// Level is a logging priority level, ordered least to most severe.
type Level uint32

// Logging levels, in increasing order of severity.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRC"
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	case LevelCritical:
		return "CRT"
	default:
		return "OFF"
	}
}

// LevelFromString parses a level name, defaulting to LevelInfo on an
// unrecognized string (matching logger.go's "defaults to info if the log
// level is invalid" contract).
func LevelFromString(s string) (Level, bool) {
	switch s {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "critical":
		return LevelCritical, true
	case "off":
		return LevelOff, true
	default:
		return LevelInfo, false
	}
}

// BackendWriter pairs an io.Writer with the minimum level it accepts.
type BackendWriter struct {
	writer   io.Writer
	minLevel Level
}

// NewAllLevelsBackendWriter returns a BackendWriter that accepts every
// level.
func NewAllLevelsBackendWriter(w io.Writer) *BackendWriter {
	return &BackendWriter{writer: w, minLevel: LevelTrace}
}

// NewErrorBackendWriter returns a BackendWriter that accepts only Error and
// Critical records.
func NewErrorBackendWriter(w io.Writer) *BackendWriter {
	return &BackendWriter{writer: w, minLevel: LevelError}
}

// Backend fans a formatted record out to every BackendWriter whose
// minLevel admits it, and mints per-subsystem Loggers.
type Backend struct {
	writers []*BackendWriter
}

// NewBackend constructs a Backend over the given writers.
func NewBackend(writers []*BackendWriter) *Backend {
	return &Backend{writers: writers}
}

func (b *Backend) write(tag string, level Level, msg string) {
	line := fmt.Sprintf("%s [%s] %s: %s\n", time.Now().Format("2006-01-02 15:04:05.000"), level, tag, msg)
	for _, w := range b.writers {
		if level >= w.minLevel {
			_, _ = w.writer.Write([]byte(line))
		}
	}
}

// Logger is a per-subsystem leveled log handle.
type Logger interface {
	Tracef(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})
	SetLevel(level Level)
	Level() Level
}

type subsystemLogger struct {
	backend *Backend
	tag     string
	level   uint32
}

// Logger mints a Logger for the given subsystem tag, defaulting to
// LevelInfo.
func (b *Backend) Logger(tag string) Logger {
	l := &subsystemLogger{backend: b, tag: tag}
	l.SetLevel(LevelInfo)
	return l
}

func (l *subsystemLogger) SetLevel(level Level) {
	atomic.StoreUint32(&l.level, uint32(level))
}

func (l *subsystemLogger) Level() Level {
	return Level(atomic.LoadUint32(&l.level))
}

func (l *subsystemLogger) log(level Level, format string, args []interface{}) {
	if level < l.Level() {
		return
	}
	l.backend.write(l.tag, level, fmt.Sprintf(format, args...))
}

func (l *subsystemLogger) Tracef(format string, args ...interface{})    { l.log(LevelTrace, format, args) }
func (l *subsystemLogger) Debugf(format string, args ...interface{})    { l.log(LevelDebug, format, args) }
func (l *subsystemLogger) Infof(format string, args ...interface{})     { l.log(LevelInfo, format, args) }
func (l *subsystemLogger) Warnf(format string, args ...interface{})     { l.log(LevelWarn, format, args) }
func (l *subsystemLogger) Errorf(format string, args ...interface{})    { l.log(LevelError, format, args) }
func (l *subsystemLogger) Criticalf(format string, args ...interface{}) { l.log(LevelCritical, format, args) }
