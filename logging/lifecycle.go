package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/skekre98/modhost/core"
)

// Lifecycle returns an observer that writes one structured line per event.
// Phase starts are logged at debug, failures at warn.
func Lifecycle(l *slog.Logger) core.Observer {
	return core.ObserverFunc(func(e core.Event) {
		attrs := []slog.Attr{slog.String("run_id", e.RunID)}
		if e.Module != "" {
			attrs = append(attrs, slog.String("module", e.Module))
		}

		switch e.Type {
		case core.EventDiscovered:
			l.LogAttrs(context.Background(), slog.LevelDebug, "module discovered", attrs...)
		case core.EventPlanned:
			attrs = append(attrs, slog.String("order", strings.Join(e.Plan, ",")))
			l.LogAttrs(context.Background(), slog.LevelInfo, "load plan resolved", attrs...)
		case core.EventPhaseStarted:
			attrs = append(attrs, slog.String("phase", string(e.Phase)))
			l.LogAttrs(context.Background(), slog.LevelDebug, "module phase begin", attrs...)
		case core.EventPhaseCompleted:
			attrs = append(attrs,
				slog.String("phase", string(e.Phase)),
				slog.String("state", e.State.String()),
				slog.Int64("duration_ms", e.Duration.Milliseconds()),
			)
			l.LogAttrs(context.Background(), slog.LevelInfo, "module phase done", attrs...)
		case core.EventPhaseFailed:
			attrs = append(attrs,
				slog.String("phase", string(e.Phase)),
				slog.String("state", e.State.String()),
				slog.Int64("duration_ms", e.Duration.Milliseconds()),
				slog.Any("error", e.Err),
			)
			l.LogAttrs(context.Background(), slog.LevelWarn, "module phase failed", attrs...)
		}
	})
}

// LogReport writes one line per module in plan order. Modules with errors
// are logged at warn.
func LogReport(l *slog.Logger, r *core.Report) {
	for _, m := range r.Entries() {
		if err := m.Err(); err != nil {
			l.Warn("module report", "run_id", r.RunID, "module", m.ID, "state", m.State.String(), "error", err)
			continue
		}
		l.Info("module report", "run_id", r.RunID, "module", m.ID, "state", m.State.String())
	}
	l.Info("lifecycle summary", "run_id", r.RunID, "modules", len(r.Order), "faulted", len(r.Faulted()))
}
