package g2p

import (
	"context"
	"log/slog"
	"sync"
)

// Engine diagnostics (espeak stderr chatter, per-line warnings) are gated by
// a process-wide threshold. Batch calls raise it so a large corpus cannot
// flood caller logs with one warning per bad line, and restore it on every
// exit path, so callers never observe the suppressed state outside the call.
var diag struct {
	mu    sync.Mutex
	level slog.LevelVar
}

// suppressDiagnostics raises the diagnostic threshold to error for the
// duration of one engine batch. The returned restore func must run on every
// exit path (callers defer it immediately). The guard also serializes
// batches, matching the process-wide nature of the toggle.
func suppressDiagnostics() (restore func()) {
	diag.mu.Lock()
	prev := diag.level.Level()
	diag.level.Set(slog.LevelError)

	return func() {
		diag.level.Set(prev)
		diag.mu.Unlock()
	}
}

// diagnosticLogger wraps log so records below the current diagnostic
// threshold are dropped. Engines log through this; the wrapper's own
// failure-count reporting does not.
func diagnosticLogger(log *slog.Logger) *slog.Logger {
	return slog.New(&gateHandler{inner: log.Handler(), min: &diag.level})
}

// gateHandler is a slog.Handler middleware that consults a shared LevelVar
// in addition to the inner handler's own level.
type gateHandler struct {
	inner slog.Handler
	min   *slog.LevelVar
}

func (h *gateHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.min.Level() && h.inner.Enabled(ctx, l)
}

func (h *gateHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *gateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &gateHandler{inner: h.inner.WithAttrs(attrs), min: h.min}
}

func (h *gateHandler) WithGroup(name string) slog.Handler {
	return &gateHandler{inner: h.inner.WithGroup(name), min: h.min}
}
