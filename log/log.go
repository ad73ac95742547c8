// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides the project-wide structured logger. Packages grab a
// child logger once at init time:
//
//	var logger = log.WithContext("pkg", "ledger")
package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"
)

// Log levels. Trace sits below slog's debug level.
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger is a key-value structured logger.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)

	// With returns a child logger with the given key-value context attached.
	With(ctx ...any) Logger
}

// logger carries its attached context and resolves the root handler on every
// log call. Children created before a SetRootHandler swap follow it.
type logger struct {
	attrs []slog.Attr
}

func (l *logger) write(lvl slog.Level, msg string, ctx []any) {
	h := *rootHandler.Load()
	if !h.Enabled(context.Background(), lvl) {
		return
	}
	r := slog.NewRecord(time.Now(), lvl, msg, 0)
	r.AddAttrs(l.attrs...)
	r.Add(ctx...)
	h.Handle(context.Background(), r)
}

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...any) { l.write(LevelError, msg, ctx) }

func (l *logger) With(ctx ...any) Logger {
	if len(ctx) == 0 {
		return l
	}
	return &logger{attrs: append(l.attrs[:len(l.attrs):len(l.attrs)], toAttrs(ctx)...)}
}

func toAttrs(ctx []any) []slog.Attr {
	var r slog.Record
	r.Add(ctx...)
	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return attrs
}

var rootHandler atomic.Pointer[slog.Handler]

func init() {
	var lvl slog.LevelVar
	lvl.Set(LevelInfo)
	h := slog.Handler(NewTerminalHandlerWithLevel(os.Stderr, &lvl, false))
	rootHandler.Store(&h)
}

// Root returns the process-wide root logger.
func Root() Logger {
	return &logger{}
}

// WithContext returns a child of the root logger carrying the given context.
func WithContext(ctx ...any) Logger {
	return Root().With(ctx...)
}

// SetRootHandler replaces the handler all loggers write through, including
// children created before the call.
func SetRootHandler(h slog.Handler) {
	rootHandler.Store(&h)
}

// FromLegacyLevel maps old log15-style integer verbosity (0..5+) to a slog level.
func FromLegacyLevel(lvl int) slog.Level {
	switch lvl {
	case 0:
		return slog.Level(12) // crit-ish, effectively silent
	case 1:
		return LevelError
	case 2:
		return LevelWarn
	case 3:
		return LevelInfo
	case 4:
		return LevelDebug
	default:
		return LevelTrace
	}
}
