// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package logger is the package-wide diagnostic hook used by the decoder.
// Nothing is written unless a LogFunc is installed with SetLogger.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sassoftware/viya-vsd-xtract/tracer"
)

// LogLevel represents log severity
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	ErrorLevel LogLevel = "error"
)

// LogFunc is a single logger function that handles all levels
type LogFunc func(level LogLevel, msg string, keyvals ...interface{})

var (
	mu      sync.RWMutex
	logFunc LogFunc = func(level LogLevel, msg string, keyvals ...interface{}) {}
)

// SetLogger sets the global logger function. A nil f is ignored.
func SetLogger(f LogFunc) {
	if f == nil {
		return
	}
	mu.Lock()
	logFunc = f
	mu.Unlock()
}

func current() LogFunc {
	mu.RLock()
	defer mu.RUnlock()
	return logFunc
}

// Debug logs a message at debug level
// If the last keyvals element is a bool and true, it is treated as trace flag
func Debug(msg string, keyvals ...interface{}) {
	keyvals, trace := splitTrace(keyvals)
	current()(DebugLevel, msg, keyvals...)
	if trace {
		tracer.Log(withFields(msg, keyvals))
	}
}

// Info logs a message at info level, honouring the same trace flag as Debug.
func Info(msg string, keyvals ...interface{}) {
	keyvals, trace := splitTrace(keyvals)
	current()(InfoLevel, msg, keyvals...)
	if trace {
		tracer.Log(withFields(msg, keyvals))
	}
}

// Error logs a message at error level. Errors are always traced.
func Error(msg string, keyvals ...interface{}) {
	keyvals, _ = splitTrace(keyvals)
	current()(ErrorLevel, msg, keyvals...)
	tracer.Log(withFields("ERROR "+msg, keyvals))
}

func splitTrace(keyvals []interface{}) ([]interface{}, bool) {
	if len(keyvals) == 0 {
		return keyvals, false
	}
	if b, ok := keyvals[len(keyvals)-1].(bool); ok && len(keyvals)%2 == 1 {
		return keyvals[:len(keyvals)-1], b
	}
	return keyvals, false
}

func withFields(msg string, keyvals []interface{}) string {
	for i := 0; i+1 < len(keyvals); i += 2 {
		msg += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	return msg
}

// FromSlog adapts a structured slog.Logger into a LogFunc.
func FromSlog(l *slog.Logger) LogFunc {
	if l == nil {
		return nil
	}
	return func(level LogLevel, msg string, keyvals ...interface{}) {
		var lvl slog.Level
		switch level {
		case DebugLevel:
			lvl = slog.LevelDebug
		case ErrorLevel:
			lvl = slog.LevelError
		default:
			lvl = slog.LevelInfo
		}
		l.Log(context.Background(), lvl, msg, keyvals...)
	}
}
