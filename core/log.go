package core

import (
	"io"
	"time"
)

// Level is a log severity. Lower values are more severe.
type Level uint8

// Log levels, in ESP-IDF order
const (
	LevelNone Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

// letter is the single-character prefix ESP-IDF prints for a level
func (l Level) letter() string {
	switch l {
	case LevelError:
		return "E"
	case LevelWarn:
		return "W"
	case LevelInfo:
		return "I"
	case LevelDebug:
		return "D"
	default:
		return "?"
	}
}

// Logger writes tagged log lines in the ESP-IDF console format:
//
//	I (1234) HELLO_WORLD: Running tests...
//
// The timestamp is milliseconds of uptime taken from the clock.
type Logger struct {
	tag   string
	out   io.Writer
	clock Clock
	level Level
}

// NewLogger returns an info-level logger writing to out
func NewLogger(tag string, out io.Writer, clock Clock) *Logger {
	return &Logger{
		tag:   tag,
		out:   out,
		clock: clock,
		level: LevelInfo,
	}
}

// SetLevel sets the most verbose level that is still written
func (l *Logger) SetLevel(level Level) {
	l.level = level
}

// Enabled reports whether lines at level are written
func (l *Logger) Enabled(level Level) bool {
	return level != LevelNone && level <= l.level
}

// Tag returns the label every line carries
func (l *Logger) Tag() string {
	return l.tag
}

func (l *Logger) Error(msg string) { l.write(LevelError, msg) }
func (l *Logger) Warn(msg string)  { l.write(LevelWarn, msg) }
func (l *Logger) Info(msg string)  { l.write(LevelInfo, msg) }
func (l *Logger) Debug(msg string) { l.write(LevelDebug, msg) }

func (l *Logger) write(level Level, msg string) {
	if !l.Enabled(level) {
		return
	}
	var ms uint32
	if l.clock != nil {
		ms = uint32(l.clock.Uptime() / time.Millisecond)
	}
	// One write per line so concurrent console users can't split it
	writeLine(l.out, level.letter()+" ("+utoa(ms)+") "+l.tag+": "+msg)
}
