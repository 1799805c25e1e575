// Package ioc carries the ambient concerns every other package in this
// module leans on: leveled logging, panic codes, and a single shared
// error type. None of it is specific to the memory/value/encoding/socket
// subsystem; it exists so the rest of the tree doesn't each grow its own
// copy.
package ioc

import (
	"fmt"
	"log"
	"os"
)

// LogLevel mirrors the runtime's §6 log levels: a message is emitted only
// if the configured level is at least as verbose as the message's level.
type LogLevel int32

const (
	NoLogging LogLevel = iota
	ErrorLevel
	Warning
	Info
	Detail
)

func (l LogLevel) String() string {
	switch l {
	case NoLogging:
		return "none"
	case ErrorLevel:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Detail:
		return "detail"
	default:
		return "unknown"
	}
}

// Logger is a small leveled wrapper around log.Logger. The zero value has
// level NoLogging and no sink, so it emits nothing; NewLogger builds one
// that writes.
type Logger struct {
	level  LogLevel
	sink   *log.Logger
}

// NewLogger builds a Logger at the given level, writing to sink. A nil
// sink defaults to a logger on os.Stderr with no extra prefix, since the
// runtime's own banner/log lines carry their own level prefix.
func NewLogger(level LogLevel, sink *log.Logger) *Logger {
	if sink == nil {
		sink = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Logger{level: level, sink: sink}
}

// Level reports the logger's configured verbosity.
func (l *Logger) Level() LogLevel {
	if l == nil {
		return NoLogging
	}
	return l.level
}

// SetLevel changes the runtime verbosity at which messages are emitted.
func (l *Logger) SetLevel(level LogLevel) {
	if l == nil {
		return
	}
	l.level = level
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if l == nil || l.level < level {
		return
	}
	l.sink.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{})   { l.log(ErrorLevel, format, args...) }
func (l *Logger) Warningf(format string, args ...interface{}) { l.log(Warning, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})    { l.log(Info, format, args...) }
func (l *Logger) Detailf(format string, args ...interface{})  { l.log(Detail, format, args...) }

// Banner writes the startup banner at the logger's configured level, the
// way §7 prescribes: "startup banner at the configured level".
func (l *Logger) Banner(name, version string) {
	l.log(l.Level(), "%s %s starting", name, version)
}
