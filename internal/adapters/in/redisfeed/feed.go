// Package redisfeed implements ports.ChangeFeed on Redis pub/sub.
//
// Each tenant and table pair has its own channel, named
// "<prefix>:<table>:<tenant id>", carrying the same JSON payloads the
// PostgreSQL triggers emit. Publish is used by the bridge that forwards the
// database notifications into Redis, so any number of application instances
// can share one database listener.
package redisfeed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"restaurant/internal/core/domain/model/change"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

var _ ports.ChangeFeed = (*Feed)(nil)

type Feed struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

func New(client redis.UniversalClient, prefix string, logger *slog.Logger) *Feed {
	return &Feed{
		client: client,
		prefix: prefix,
		logger: logger.With("component", "redis-feed"),
	}
}

// Channel returns the pub/sub channel of table for tenantID.
func (f *Feed) Channel(table change.Table, tenantID kernel.UUID) string {
	return fmt.Sprintf("%s:%s:%s", f.prefix, table, tenantID)
}

// Subscribe opens a pub/sub connection on the tenant's table channel and
// returns once Redis has confirmed the subscription.
func (f *Feed) Subscribe(
	ctx context.Context,
	tenantID kernel.UUID,
	table change.Table,
	handler change.Handler,
) (ports.Subscription, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, errs.NewValueIsRequiredError("handler")
	}

	channel := f.Channel(table, tenantID)
	pubsub := f.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	sub := &subscription{
		pubsub:   pubsub,
		tenantID: tenantID,
		table:    table,
		handler:  handler,
		logger:   f.logger.With("channel", channel),
		done:     make(chan struct{}),
	}
	go sub.run()

	return sub, nil
}

// Publish sends ev to the channel of its tenant and table.
func (f *Feed) Publish(ctx context.Context, ev change.Event) error {
	data, err := change.Encode(ev)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, f.Channel(ev.Table(), ev.TenantID()), data).Err()
}

type subscription struct {
	pubsub   *redis.PubSub
	tenantID kernel.UUID
	table    change.Table
	handler  change.Handler
	logger   *slog.Logger

	once sync.Once
	done chan struct{}
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.done)
		if err := s.pubsub.Close(); err != nil {
			s.logger.Warn("Failed to close subscription", "error", err)
		}
	})
}

func (s *subscription) run() {
	for msg := range s.pubsub.Channel() {
		select {
		case <-s.done:
			return
		default:
		}

		ev, err := change.Decode([]byte(msg.Payload))
		if err != nil {
			s.logger.Warn("Dropping malformed message", "error", err)
			continue
		}
		if !ev.TenantID().IsEqual(s.tenantID) || ev.Table() != s.table {
			s.logger.Warn("Dropping message for another channel",
				"tenant_id", ev.TenantID().String(), "table", string(ev.Table()))
			continue
		}

		s.handler(ev)
	}
}
