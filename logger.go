package inkstitch

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records. The
// Enabled method returns false so the caller skips message formatting
// entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that SetLogger
// can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for inkstitch and its sub-packages. By
// default no log output is produced. Pass nil to restore the silent default.
//
// Log levels used:
//   - [slog.LevelWarn]: geometry diagnostics (invalid shapes, degenerate offsets)
//   - [slog.LevelDebug]: stitch plan internals (row counts, section ordering)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// suppressDiagnostics silences the logger and returns a restore function.
// The validity checker logs a complaint for every invalid shape it sees;
// probing callers that expect invalid input silence it for the duration of
// the probe. The restore function must run on every exit path.
func suppressDiagnostics() func() {
	prev := loggerPtr.Swap(newNopLogger())
	return func() {
		loggerPtr.Store(prev)
	}
}
