package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"restaurant/internal/core/application/state"
	"restaurant/internal/core/domain/model/change"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/errs"
)

// OrderReader is the part of the order store the engine reads from.
type OrderReader interface {
	ListByTenant(ctx context.Context, tenantID kernel.UUID) ([]*order.Order, error)
	Get(ctx context.Context, tenantID kernel.UUID, id kernel.UUID) (*order.Order, error)
}

// OrderEngine reconciles the local order collection of one tenant with the
// order change feed. The collection is ordered newest first.
type OrderEngine struct {
	orders   OrderReader
	feed     ports.ChangeFeed
	notifier ports.Notifier
	logger   *slog.Logger
	store    *state.Store[[]*order.Order]

	mu         sync.Mutex
	tenantID   kernel.UUID
	running    bool
	generation uint64
	sub        ports.Subscription
	cancel     context.CancelFunc

	// seq counts applied changes. While a resync is in flight the last
	// change per order is recorded in marks so the resync result, which may
	// predate it, cannot undo it.
	seq     uint64
	resyncs int
	marks   map[kernel.UUID]orderMark
}

type orderMark struct {
	seq     uint64
	deleted bool
}

func NewOrderEngine(
	orders OrderReader,
	feed ports.ChangeFeed,
	notifier ports.Notifier,
	logger *slog.Logger,
) *OrderEngine {
	return &OrderEngine{
		orders:   orders,
		feed:     feed,
		notifier: notifier,
		logger:   logger.With("component", "order_engine"),
		store:    state.NewStore([]*order.Order{}),
	}
}

// Start scopes the engine to tenantID, subscribes to the order feed and loads
// the initial collection. ctx bounds the initial load only; the subscription
// lives until Stop.
func (e *OrderEngine) Start(ctx context.Context, tenantID kernel.UUID) error {
	if tenantID.Validate() != nil {
		return ErrNotConnected
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrEngineAlreadyStarted
	}
	e.running = true
	e.generation++
	gen := e.generation
	e.tenantID = tenantID
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	e.cancel = cancel
	e.store.Publish([]*order.Order{})
	e.mu.Unlock()

	sub, err := e.feed.Subscribe(runCtx, tenantID, change.Orders, func(ev change.Event) {
		if err := e.HandleEvent(runCtx, ev); err != nil {
			e.logger.WarnContext(runCtx, "Order change dropped",
				"tenant_id", tenantID.String(),
				"type", ev.Type().String(),
				"order_id", ev.ID().String(),
				"error", err,
			)
		}
	})
	if err != nil {
		e.Stop()
		return fmt.Errorf("subscribe to order changes: %w", err)
	}

	e.mu.Lock()
	if !e.live(gen) {
		e.mu.Unlock()
		sub.Unsubscribe()
		return ErrEngineNotStarted
	}
	e.sub = sub
	e.mu.Unlock()

	if err := e.Resync(ctx); err != nil {
		e.Stop()
		return fmt.Errorf("load orders: %w", err)
	}

	e.logger.InfoContext(ctx, "Order engine started", "tenant_id", tenantID.String())
	return nil
}

// Stop cancels the subscription. Results of in-flight reads are discarded.
// Calling Stop on a stopped engine does nothing.
func (e *OrderEngine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.generation++
	sub, cancel, tenantID := e.sub, e.cancel, e.tenantID
	e.sub, e.cancel = nil, nil
	e.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	e.logger.Info("Order engine stopped", "tenant_id", tenantID.String())
}

// Orders returns the current snapshot, newest first.
func (e *OrderEngine) Orders() []*order.Order {
	return slices.Clone(e.store.Get())
}

// Subscribe calls fn with every new snapshot. fn must not block.
func (e *OrderEngine) Subscribe(fn func([]*order.Order)) (cancel func()) {
	return e.store.Subscribe(fn)
}

// Subscribers returns the number of snapshot subscribers.
func (e *OrderEngine) Subscribers() int {
	return e.store.Subscribers()
}

// HandleEvent reconciles one change event. Events for another table or
// tenant, and events received while stopped, are ignored.
func (e *OrderEngine) HandleEvent(ctx context.Context, ev change.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if ev.Table() != change.Orders {
		return nil
	}

	e.mu.Lock()
	gen, tenantID, ok := e.generation, e.tenantID, e.running && e.tenantID.IsEqual(ev.TenantID())
	e.mu.Unlock()
	if !ok {
		return nil
	}

	switch ev.Type() {
	case change.Insert:
		return e.handleInsert(ctx, gen, tenantID, ev.ID())
	case change.Update:
		if len(ev.Record()) == 0 {
			return e.handleRefresh(ctx, gen, tenantID, ev.ID())
		}
		return e.handleUpdate(ctx, gen, ev)
	case change.Delete:
		e.handleDelete(gen, ev.ID())
		return nil
	case change.Unknown:
	}
	return nil
}

// Resync replaces the collection with a fresh query result. Local records
// with a newer version than the fetched ones are kept, and changes applied
// while the query ran win over the query result: orders inserted meanwhile
// stay, orders deleted meanwhile are not restored.
func (e *OrderEngine) Resync(ctx context.Context) error {
	e.mu.Lock()
	gen, tenantID, running := e.generation, e.tenantID, e.running
	if !running {
		e.mu.Unlock()
		return ErrEngineNotStarted
	}
	since := e.seq
	e.resyncs++
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.resyncs--
		if e.resyncs == 0 {
			e.marks = nil
		}
		e.mu.Unlock()
	}()

	fetched, err := e.orders.ListByTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.live(gen) {
		return nil
	}

	current := e.store.Get()
	local := make(map[kernel.UUID]*order.Order, len(current))
	for _, o := range current {
		local[o.ID()] = o
	}

	listed := make(map[kernel.UUID]struct{}, len(fetched))
	merged := make([]*order.Order, 0, len(fetched))
	for _, o := range fetched {
		listed[o.ID()] = struct{}{}
		mark, changed := e.changedSince(o.ID(), since)
		if changed && mark.deleted {
			continue
		}
		if l, ok := local[o.ID()]; ok && (l.IsNewerThan(o) || changed && !o.IsNewerThan(l)) {
			merged = append(merged, l)
			continue
		}
		merged = append(merged, o)
	}

	var inserted []*order.Order
	for _, o := range current {
		if _, ok := listed[o.ID()]; ok {
			continue
		}
		if mark, changed := e.changedSince(o.ID(), since); changed && !mark.deleted {
			inserted = append(inserted, o)
		}
	}

	e.store.Publish(append(inserted, merged...))
	return nil
}

// record must be called with mu held.
func (e *OrderEngine) record(id kernel.UUID, deleted bool) {
	e.seq++
	if e.resyncs == 0 {
		return
	}
	if e.marks == nil {
		e.marks = make(map[kernel.UUID]orderMark)
	}
	e.marks[id] = orderMark{seq: e.seq, deleted: deleted}
}

// changedSince must be called with mu held.
func (e *OrderEngine) changedSince(id kernel.UUID, since uint64) (orderMark, bool) {
	mark, ok := e.marks[id]
	return mark, ok && mark.seq > since
}

func (e *OrderEngine) handleInsert(ctx context.Context, gen uint64, tenantID, id kernel.UUID) error {
	fetched, err := e.orders.Get(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("re-fetch inserted order: %w", err)
	}

	e.mu.Lock()
	if !e.live(gen) {
		e.mu.Unlock()
		return nil
	}

	current := e.store.Get()
	idx := indexOf(current, id)
	if idx >= 0 {
		if fetched.IsNewerThan(current[idx]) {
			next := slices.Clone(current)
			next[idx] = fetched
			e.store.Publish(next)
			e.record(id, false)
		}
		e.mu.Unlock()
		return nil
	}

	next := make([]*order.Order, 0, len(current)+1)
	next = append(next, fetched)
	next = append(next, current...)
	e.store.Publish(next)
	e.record(id, false)
	e.mu.Unlock()

	e.notifier.Notify(ctx, ports.Notification{
		TenantID: tenantID,
		Level:    ports.LevelInfo,
		Message:  fmt.Sprintf("New order received: %s", fetched.Number()),
		At:       time.Now().UTC(),
	})
	return nil
}

func (e *OrderEngine) handleUpdate(ctx context.Context, gen uint64, ev change.Event) error {
	patch, err := order.DecodePatch(ev.Record())
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.live(gen) {
		return nil
	}

	current := e.store.Get()
	idx := indexOf(current, ev.ID())
	if idx < 0 {
		e.logger.DebugContext(ctx, "Update for unknown order ignored", "order_id", ev.ID().String())
		return nil
	}

	merged, err := current[idx].Apply(patch)
	if errors.Is(err, errs.ErrVersionIsInvalid) {
		e.logger.DebugContext(ctx, "Stale order update dropped", "order_id", ev.ID().String(), "error", err)
		return nil
	}
	if err != nil {
		return err
	}

	next := slices.Clone(current)
	next[idx] = merged
	e.store.Publish(next)
	e.record(ev.ID(), false)
	return nil
}

// handleRefresh re-reads an order whose update arrived without columns; the
// feed omits them when the row is too large for a notification.
func (e *OrderEngine) handleRefresh(ctx context.Context, gen uint64, tenantID, id kernel.UUID) error {
	e.mu.Lock()
	known := e.live(gen) && indexOf(e.store.Get(), id) >= 0
	e.mu.Unlock()
	if !known {
		return nil
	}

	fetched, err := e.orders.Get(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("re-fetch updated order: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.live(gen) {
		return nil
	}

	current := e.store.Get()
	idx := indexOf(current, id)
	if idx < 0 || current[idx].IsNewerThan(fetched) {
		return nil
	}
	next := slices.Clone(current)
	next[idx] = fetched
	e.store.Publish(next)
	e.record(id, false)
	return nil
}

func (e *OrderEngine) handleDelete(gen uint64, id kernel.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.live(gen) {
		return
	}
	e.record(id, true)

	current := e.store.Get()
	idx := indexOf(current, id)
	if idx < 0 {
		return
	}
	e.store.Publish(slices.Delete(slices.Clone(current), idx, idx+1))
}

// live must be called with mu held.
func (e *OrderEngine) live(gen uint64) bool {
	return e.running && e.generation == gen
}

func indexOf(orders []*order.Order, id kernel.UUID) int {
	return slices.IndexFunc(orders, func(o *order.Order) bool { return o.ID().IsEqual(id) })
}
