package redisfeed

import (
	"context"
	"log/slog"
	"time"

	"restaurant/internal/core/domain/model/change"
	"restaurant/internal/core/ports"
)

const publishTimeout = 5 * time.Second

// Source delivers every change event regardless of tenant.
type Source interface {
	SubscribeAll(handler change.Handler) (ports.Subscription, error)
}

// Bridge republishes the events of a Source on the Redis feed.
func Bridge(source Source, feed *Feed, logger *slog.Logger) (ports.Subscription, error) {
	logger = logger.With("component", "redis-bridge")

	return source.SubscribeAll(func(ev change.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := feed.Publish(ctx, ev); err != nil {
			logger.Error("Failed to forward change event",
				"table", string(ev.Table()),
				"tenant_id", ev.TenantID().String(),
				"id", ev.ID().String(),
				"error", err)
		}
	})
}
