package pgfeed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"restaurant/internal/core/domain/model/change"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/errs"
)

var (
	ErrFeedClosed         = errors.New("change feed is closed")
	ErrFeedAlreadyStarted = errors.New("change feed is already started")
)

const defaultPingInterval = 90 * time.Second

var _ ports.ChangeFeed = (*Feed)(nil)

type route struct {
	tenantID kernel.UUID
	table    change.Table
}

// Option configures a Feed.
type Option func(*Feed)

// WithReconnectHandler registers fn to run after the listener reconnects.
// Notifications sent while the connection was down are lost, so fn is
// expected to trigger a full reconciliation.
func WithReconnectHandler(fn func()) Option {
	return func(f *Feed) {
		f.onReconnect = fn
	}
}

// WithPingInterval overrides how often an idle listener connection is
// checked.
func WithPingInterval(d time.Duration) Option {
	return func(f *Feed) {
		f.pingInterval = d
	}
}

// Feed routes notifications of one channel to tenant and table
// subscriptions.
type Feed struct {
	listener     Listener
	channel      string
	logger       *slog.Logger
	onReconnect  func()
	pingInterval time.Duration

	mu      sync.RWMutex
	subs    map[route]map[uint64]*subscription
	taps    map[uint64]*subscription
	nextID  uint64
	started bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(listener Listener, channel string, logger *slog.Logger, opts ...Option) *Feed {
	f := &Feed{
		listener:     listener,
		channel:      channel,
		logger:       logger.With("component", "pg-feed", "channel", channel),
		pingInterval: defaultPingInterval,
		subs:         make(map[route]map[uint64]*subscription),
		taps:         make(map[uint64]*subscription),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start begins listening on the channel and dispatching notifications until
// ctx is done or Close is called.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrFeedClosed
	}
	if f.started {
		return ErrFeedAlreadyStarted
	}

	if err := f.listener.Listen(f.channel); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.started = true

	go f.run(runCtx)

	f.logger.Info("Change feed started")
	return nil
}

// Subscribe registers handler for the events of table that belong to
// tenantID.
func (f *Feed) Subscribe(
	_ context.Context,
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

	key := route{tenantID: tenantID, table: table}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrFeedClosed
	}

	f.nextID++
	sub := newSubscription(handler, func(id uint64) { f.remove(key, id) }, f.nextID)
	if f.subs[key] == nil {
		f.subs[key] = make(map[uint64]*subscription)
	}
	f.subs[key][sub.id] = sub

	go sub.run()

	return sub, nil
}

// SubscribeAll registers handler for every valid event on the channel,
// regardless of tenant and table.
func (f *Feed) SubscribeAll(handler change.Handler) (ports.Subscription, error) {
	if handler == nil {
		return nil, errs.NewValueIsRequiredError("handler")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrFeedClosed
	}

	f.nextID++
	sub := newSubscription(handler, f.removeTap, f.nextID)
	f.taps[sub.id] = sub

	go sub.run()

	return sub, nil
}

// Subscribers returns the number of live tenant subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := 0
	for _, subs := range f.subs {
		n += len(subs)
	}
	return n
}

// Close stops the dispatch loop, closes the listener and ends every
// subscription.
func (f *Feed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	started := f.started
	if f.cancel != nil {
		f.cancel()
	}

	var all []*subscription
	for _, subs := range f.subs {
		for _, sub := range subs {
			all = append(all, sub)
		}
	}
	for _, sub := range f.taps {
		all = append(all, sub)
	}
	f.subs = make(map[route]map[uint64]*subscription)
	f.taps = make(map[uint64]*subscription)
	f.mu.Unlock()

	for _, sub := range all {
		sub.stop()
	}

	err := f.listener.Close()
	if started {
		<-f.done
	}

	f.logger.Info("Change feed closed")
	return err
}

func (f *Feed) run(ctx context.Context) {
	defer close(f.done)

	ticker := time.NewTicker(f.pingInterval)
	defer ticker.Stop()

	notifications := f.listener.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go func() {
				if err := f.listener.Ping(); err != nil {
					f.logger.Warn("Listener ping failed", "error", err)
				}
			}()
		case n, ok := <-notifications:
			if !ok {
				return
			}
			// lib/pq sends nil after re-establishing a dropped connection.
			if n == nil {
				f.logger.Warn("Listener reconnected, notifications may have been lost")
				if f.onReconnect != nil {
					go f.onReconnect()
				}
				continue
			}
			f.dispatch([]byte(n.Extra))
		}
	}
}

func (f *Feed) dispatch(payload []byte) {
	ev, err := change.Decode(payload)
	if err != nil {
		f.logger.Warn("Dropping malformed notification", "error", err)
		return
	}

	key := route{tenantID: ev.TenantID(), table: ev.Table()}

	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, sub := range f.taps {
		sub.push(ev)
	}
	for _, sub := range f.subs[key] {
		sub.push(ev)
	}
}

func (f *Feed) remove(key route, id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	subs := f.subs[key]
	delete(subs, id)
	if len(subs) == 0 {
		delete(f.subs, key)
	}
}

func (f *Feed) removeTap(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.taps, id)
}
