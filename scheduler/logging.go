package scheduler

import (
	"io"
	"log"
)

// Logger receives progress events from a run. The default is silent;
// supply one via WithLogger to observe dispatch, completion and failure
// per node.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// nopLogger discards everything. Used when no logger is configured.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Level bounds what a VerboseLogger emits.
type Level uint8

const (
	// LevelError emits only failures.
	LevelError Level = iota
	// LevelInfo adds run lifecycle events.
	LevelInfo
	// LevelDebug adds per-node dispatch and completion.
	LevelDebug
)

// VerboseLogger writes leveled, prefixed lines to a log.Logger.
type VerboseLogger struct {
	level Level
	out   *log.Logger
}

// NewVerboseLogger builds a Logger writing to w at the given level.
func NewVerboseLogger(w io.Writer, level Level) *VerboseLogger {
	return &VerboseLogger{level: level, out: log.New(w, "scheduler ", log.LstdFlags|log.Lmsgprefix)}
}

// Debugf logs at LevelDebug and above.
func (l *VerboseLogger) Debugf(format string, args ...any) {
	if l.level >= LevelDebug {
		l.out.Printf("[debug] "+format, args...)
	}
}

// Infof logs at LevelInfo and above.
func (l *VerboseLogger) Infof(format string, args ...any) {
	if l.level >= LevelInfo {
		l.out.Printf("[info] "+format, args...)
	}
}

// Errorf always logs.
func (l *VerboseLogger) Errorf(format string, args ...any) {
	l.out.Printf("[error] "+format, args...)
}
