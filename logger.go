// Package starmap renders an interactive 2D map of systems connected by
// jumps, with text labels and UI overlays, identically on a native GPU
// backend and a browser WebGL backend.
//
// The root package owns scene state and turns it into the packed draw
// buffers the backends consume: marker instances with security-status
// colors and highlight rings, jump-line quads, sovereignty discs and
// glyph quads. Backends live in backend/wgpu and backend/webgl; the
// shared shader catalog lives in the shader package.
package starmap

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for starmap and its sub-packages.
// By default starmap produces no log output. Pass nil to restore the
// default silent behavior.
//
// SetLogger is safe for concurrent use: it stores the new logger
// atomically.
//
// Log levels used:
//   - [slog.LevelDebug]: per-frame diagnostics (buffer sizes, rebuilds)
//   - [slog.LevelInfo]: lifecycle events (adapter selected, shaders built)
//   - [slog.LevelWarn]: non-fatal issues (skipped draw, resource release)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages call this to share the
// same logger configuration without introducing import cycles.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
