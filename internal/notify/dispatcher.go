package notify

import (
	"context"
	"log/slog"
)

// Dispatcher sends committed notifications and swallows delivery failures
// after logging them.
type Dispatcher struct {
	notifier Notifier
	logger   *slog.Logger
}

func NewDispatcher(notifier Notifier, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{notifier: notifier, logger: logger}
}

// Dispatch delivers every notification in order. It never fails.
func (d *Dispatcher) Dispatch(ctx context.Context, notes ...Notification) {
	if d == nil || d.notifier == nil {
		return
	}
	for _, n := range notes {
		if err := d.notifier.Notify(ctx, n); err != nil {
			d.logger.WarnContext(ctx, "notification delivery failed",
				"kind", string(n.Kind),
				"release_id", n.ReleaseID,
				"recipients", len(n.Recipients),
				"error", err,
			)
			continue
		}
		d.logger.DebugContext(ctx, "notification delivered",
			"kind", string(n.Kind),
			"release_id", n.ReleaseID,
			"recipients", len(n.Recipients),
		)
	}
}

// LogNotifier writes notifications to a logger. Used when no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	l.logger.InfoContext(ctx, "notification",
		"kind", string(n.Kind),
		"project_id", n.ProjectID,
		"release_id", n.ReleaseID,
		"version", n.Version,
		"recipients", n.Recipients,
	)
	return nil
}
