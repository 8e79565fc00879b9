package lifecycle_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"restaurant/internal/core/domain/model/change"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/reservation"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// orderStore is an in-memory OrderReader. getGate, when set, blocks Get until
// a value is received. listGate does the same for ListByTenant after the
// result has been read; listReady is signalled at that point.
type orderStore struct {
	mu        sync.Mutex
	orders    map[kernel.UUID]*order.Order
	listed    []kernel.UUID
	listCalls int
	getCalls  map[kernel.UUID]int
	getErr    error
	getGate   chan struct{}
	listGate  chan struct{}
	listReady chan struct{}
}

func newOrderStore(orders ...*order.Order) *orderStore {
	s := &orderStore{orders: make(map[kernel.UUID]*order.Order), getCalls: make(map[kernel.UUID]int)}
	for _, o := range orders {
		s.put(o)
	}
	return s
}

func (s *orderStore) put(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID()]; !ok {
		s.listed = append([]kernel.UUID{o.ID()}, s.listed...)
	}
	s.orders[o.ID()] = o
}

func (s *orderStore) ListByTenant(ctx context.Context, tenantID kernel.UUID) ([]*order.Order, error) {
	s.mu.Lock()
	s.listCalls++
	result := make([]*order.Order, 0, len(s.listed))
	for _, id := range s.listed {
		if o := s.orders[id]; o.TenantID().IsEqual(tenantID) {
			result = append(result, o)
		}
	}
	gate, ready := s.listGate, s.listReady
	s.mu.Unlock()

	if gate != nil {
		if ready != nil {
			ready <- struct{}{}
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return result, nil
}

func (s *orderStore) remove(id kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, id)
	s.listed = slices.DeleteFunc(s.listed, func(listed kernel.UUID) bool { return listed.IsEqual(id) })
}

func (s *orderStore) Get(ctx context.Context, tenantID kernel.UUID, id kernel.UUID) (*order.Order, error) {
	s.mu.Lock()
	s.getCalls[id]++
	gate, getErr := s.getGate, s.getErr
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if getErr != nil {
		return nil, getErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || !o.TenantID().IsEqual(tenantID) {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return o, nil
}

func (s *orderStore) gets(id kernel.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCalls[id]
}

// reservationStore returns queued results in call order; once the queue is
// drained it returns the last result again.
type reservationStore struct {
	mu        sync.Mutex
	results   [][]*reservation.Reservation
	gates     []chan struct{}
	listCalls int
	listErr   error
}

func (s *reservationStore) push(result ...*reservation.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
}

func (s *reservationStore) ListByTenant(ctx context.Context, _ kernel.UUID) ([]*reservation.Reservation, error) {
	s.mu.Lock()
	call := s.listCalls
	s.listCalls++
	var gate chan struct{}
	if call < len(s.gates) {
		gate = s.gates[call]
	}
	var result []*reservation.Reservation
	if n := len(s.results); n > 0 {
		result = s.results[min(call, n-1)]
	}
	listErr := s.listErr
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if listErr != nil {
		return nil, listErr
	}
	return result, nil
}

func (s *reservationStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

type subscription struct {
	feed     *memoryFeed
	tenantID kernel.UUID
	table    change.Table
	handler  change.Handler
	active   bool
}

func (s *subscription) Unsubscribe() {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()
	s.active = false
}

// memoryFeed delivers events synchronously to matching active subscriptions.
type memoryFeed struct {
	mu           sync.Mutex
	subs         []*subscription
	subscribeErr error
}

func (f *memoryFeed) Subscribe(
	_ context.Context,
	tenantID kernel.UUID,
	table change.Table,
	handler change.Handler,
) (ports.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	sub := &subscription{feed: f, tenantID: tenantID, table: table, handler: handler, active: true}
	f.subs = append(f.subs, sub)
	return sub, nil
}

func (f *memoryFeed) emit(ev change.Event) {
	f.mu.Lock()
	var handlers []change.Handler
	for _, sub := range f.subs {
		if sub.active && sub.table == ev.Table() && sub.tenantID.IsEqual(ev.TenantID()) {
			handlers = append(handlers, sub.handler)
		}
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

func (f *memoryFeed) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, sub := range f.subs {
		if sub.active {
			n++
		}
	}
	return n
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []ports.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notification ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *recordingNotifier) notifications() []ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.Notification(nil), n.sent...)
}

func newTestOrder(t *testing.T, tenantID kernel.UUID, number string, status order.Status, version int64) *order.Order {
	t.Helper()
	burger, err := order.NewItem(kernel.NewUUID(), "Classic Cheeseburger", 2, kernel.MustMoney("12.99"), "")
	require.NoError(t, err)
	o, err := order.RestoreOrder(
		kernel.NewUUID(), tenantID, number, "Alex Johnson", 5,
		[]order.Item{burger}, kernel.MustMoney("25.98"),
		time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC), status, version,
	)
	require.NoError(t, err)
	return o
}

func newTestReservation(t *testing.T, tenantID kernel.UUID, guest string) *reservation.Reservation {
	t.Helper()
	r, err := reservation.NewReservation(kernel.NewUUID(), tenantID, reservation.Details{
		GuestName: guest,
		Phone:     "+1 555 0100",
		PartySize: 2,
		Date:      time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC),
		Time:      "7:00 PM",
	}, reservation.Pending, time.Now())
	require.NoError(t, err)
	return r
}

func newEvent(t *testing.T, typ change.Type, table change.Table, tenantID, id kernel.UUID, record string) change.Event {
	t.Helper()
	var rec change.Record
	if record != "" {
		require.NoError(t, json.Unmarshal([]byte(record), &rec))
	}
	ev, err := change.NewEvent(typ, table, tenantID, id, rec)
	require.NoError(t, err)
	return ev
}
