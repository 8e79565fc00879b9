// Package notify holds notifiers that do not need a broker.
package notify

import (
	"context"
	"log/slog"

	"restaurant/internal/core/ports"
)

var (
	_ ports.Notifier = (*LogNotifier)(nil)
	_ ports.Notifier = Multi(nil)
)

// LogNotifier writes every notification as a structured log record. Error
// notifications are logged at warn level.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, notification ports.Notification) {
	level := slog.LevelInfo
	if notification.Level == ports.LevelError {
		level = slog.LevelWarn
	}

	n.logger.Log(ctx, level, notification.Message,
		"tenant_id", notification.TenantID.String(),
		"notification_level", string(notification.Level),
		"at", notification.At)
}

// Multi fans a notification out to every notifier in order.
type Multi []ports.Notifier

func (m Multi) Notify(ctx context.Context, notification ports.Notification) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, notification)
		}
	}
}
