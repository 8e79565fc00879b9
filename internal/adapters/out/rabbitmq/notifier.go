package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"restaurant/internal/core/ports"
)

const defaultPublishTimeout = 5 * time.Second

// Publisher sends a message body with a routing key.
type Publisher interface {
	Publish(ctx context.Context, key string, body []byte) error
}

var _ ports.Notifier = (*Notifier)(nil)

// Notifier implements ports.Notifier by publishing every notification with
// routing key "tenant.<tenant id>.<level>".
type Notifier struct {
	publisher Publisher
	logger    *slog.Logger
	timeout   time.Duration
}

func NewNotifier(publisher Publisher, logger *slog.Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		logger:    logger.With("component", "rabbitmq-notifier"),
		timeout:   defaultPublishTimeout,
	}
}

type message struct {
	TenantID string    `json:"tenant_id"`
	Level    string    `json:"level"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// RoutingKey returns the topic routing key of n.
func RoutingKey(n ports.Notification) string {
	return fmt.Sprintf("tenant.%s.%s", n.TenantID, n.Level)
}

func (n *Notifier) Notify(ctx context.Context, notification ports.Notification) {
	body, err := json.Marshal(message{
		TenantID: notification.TenantID.String(),
		Level:    string(notification.Level),
		Message:  notification.Message,
		At:       notification.At.UTC(),
	})
	if err != nil {
		n.logger.Error("Failed to encode notification", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	if err := n.publisher.Publish(ctx, RoutingKey(notification), body); err != nil {
		n.logger.Error("Failed to publish notification",
			"tenant_id", notification.TenantID.String(),
			"level", string(notification.Level),
			"error", err)
	}
}
