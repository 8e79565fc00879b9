package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/reservation"
	"restaurant/internal/core/ports"
)

var ErrHubClosed = errors.New("lifecycle hub is closed")

// Session is the running engine pair of one tenant.
type Session struct {
	tenantID     kernel.UUID
	orders       *OrderEngine
	reservations *ReservationEngine

	ready    chan struct{}
	err      error
	lastUsed atomic.Int64
}

func (s *Session) TenantID() kernel.UUID            { return s.tenantID }
func (s *Session) Orders() *OrderEngine             { return s.orders }
func (s *Session) Reservations() *ReservationEngine { return s.reservations }
func (s *Session) LastUsed() time.Time              { return time.Unix(0, s.lastUsed.Load()) }
func (s *Session) touch(now time.Time)              { s.lastUsed.Store(now.UnixNano()) }
func (s *Session) isReady() bool {
	select {
	case <-s.ready:
		return s.err == nil
	default:
		return false
	}
}

// Viewers counts the live snapshot subscribers of both engines.
func (s *Session) Viewers() int {
	return s.orders.Subscribers() + s.reservations.Subscribers()
}

func (s *Session) start(ctx context.Context) error {
	if err := s.orders.Start(ctx, s.tenantID); err != nil {
		return err
	}
	if err := s.reservations.Start(ctx, s.tenantID); err != nil {
		s.orders.Stop()
		return err
	}
	return nil
}

func (s *Session) stop() {
	s.orders.Stop()
	s.reservations.Stop()
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithClock replaces time.Now for idle accounting.
func WithClock(now func() time.Time) HubOption {
	return func(h *Hub) { h.now = now }
}

// Hub starts one Session per tenant on first use and keeps it until it is
// evicted as idle or the hub is closed.
type Hub struct {
	orders       OrderReader
	reservations ReservationReader
	feed         ports.ChangeFeed
	notifier     ports.Notifier
	logger       *slog.Logger
	now          func() time.Time

	mu       sync.Mutex
	sessions map[kernel.UUID]*Session
	closed   bool
}

func NewHub(
	orders OrderReader,
	reservations ReservationReader,
	feed ports.ChangeFeed,
	notifier ports.Notifier,
	logger *slog.Logger,
	opts ...HubOption,
) *Hub {
	h := &Hub{
		orders:       orders,
		reservations: reservations,
		feed:         feed,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
		sessions:     make(map[kernel.UUID]*Session),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Session returns the running session of tenantID, starting it if needed.
// Concurrent callers for a tenant that is still starting wait for it.
func (h *Hub) Session(ctx context.Context, tenantID kernel.UUID) (*Session, error) {
	if tenantID.Validate() != nil {
		return nil, ErrNotConnected
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}
	s, ok := h.sessions[tenantID]
	if !ok {
		s = &Session{
			tenantID:     tenantID,
			orders:       NewOrderEngine(h.orders, h.feed, h.notifier, h.logger),
			reservations: NewReservationEngine(h.reservations, h.feed, h.logger),
			ready:        make(chan struct{}),
		}
		s.touch(h.now())
		h.sessions[tenantID] = s
	}
	h.mu.Unlock()

	if !ok {
		s.err = s.start(ctx)
		close(s.ready)
		if s.err != nil {
			h.forget(s)
			return nil, s.err
		}
	} else {
		select {
		case <-s.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if s.err != nil {
			return nil, s.err
		}
	}

	s.touch(h.now())
	return s, nil
}

// Orders returns the reconciled orders of tenantID, starting its session on
// first use.
func (h *Hub) Orders(ctx context.Context, tenantID kernel.UUID) ([]*order.Order, error) {
	s, err := h.Session(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.orders.Orders(), nil
}

// Reservations returns the reconciled reservations of tenantID, starting its
// session on first use.
func (h *Hub) Reservations(ctx context.Context, tenantID kernel.UUID) ([]*reservation.Reservation, error) {
	s, err := h.Session(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.reservations.Reservations(), nil
}

// WatchOrders calls fn with the current orders of tenantID and again on
// every change until cancel is called. A watched session counts as viewed
// and is never evicted.
func (h *Hub) WatchOrders(
	ctx context.Context,
	tenantID kernel.UUID,
	fn func([]*order.Order),
) (cancel func(), err error) {
	s, unsubscribe, err := h.attach(ctx, tenantID, func(s *Session) func() {
		return s.orders.Subscribe(fn)
	})
	if err != nil {
		return nil, err
	}
	fn(s.orders.Orders())
	return h.release(s, unsubscribe), nil
}

// WatchReservations is WatchOrders for reservations.
func (h *Hub) WatchReservations(
	ctx context.Context,
	tenantID kernel.UUID,
	fn func([]*reservation.Reservation),
) (cancel func(), err error) {
	s, unsubscribe, err := h.attach(ctx, tenantID, func(s *Session) func() {
		return s.reservations.Subscribe(fn)
	})
	if err != nil {
		return nil, err
	}
	fn(s.reservations.Reservations())
	return h.release(s, unsubscribe), nil
}

// Len returns the number of sessions, including ones still starting.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// ResyncAll runs a full reconciliation of every ready session.
func (h *Hub) ResyncAll(ctx context.Context) error {
	var errs []error
	for _, s := range h.readySessions() {
		if err := s.orders.Resync(ctx); err != nil && !errors.Is(err, ErrEngineNotStarted) {
			errs = append(errs, fmt.Errorf("resync orders of tenant %s: %w", s.tenantID, err))
		}
		if err := s.reservations.Resync(ctx); err != nil && !errors.Is(err, ErrEngineNotStarted) {
			errs = append(errs, fmt.Errorf("resync reservations of tenant %s: %w", s.tenantID, err))
		}
	}
	return errors.Join(errs...)
}

// EvictIdle stops sessions that have no viewers and were not used for
// longer than ttl. It returns the number of stopped sessions.
func (h *Hub) EvictIdle(ttl time.Duration) int {
	now := h.now()

	h.mu.Lock()
	var idle []*Session
	for tenantID, s := range h.sessions {
		if !s.isReady() || s.Viewers() > 0 || now.Sub(s.LastUsed()) <= ttl {
			continue
		}
		idle = append(idle, s)
		delete(h.sessions, tenantID)
	}
	h.mu.Unlock()

	for _, s := range idle {
		s.stop()
		h.logger.Info("Idle tenant session evicted", "tenant_id", s.tenantID.String())
	}
	return len(idle)
}

// Close stops every session. Later Session calls fail with ErrHubClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	sessions := h.sessions
	h.sessions = make(map[kernel.UUID]*Session)
	h.mu.Unlock()

	for _, s := range sessions {
		<-s.ready
		s.stop()
	}
}

func (h *Hub) readySessions() []*Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	ready := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		if s.isReady() {
			ready = append(ready, s)
		}
	}
	return ready
}

// attach subscribes to the live session of tenantID. The subscription is made
// under the hub lock, where EvictIdle counts viewers, so a session evicted
// after Session returned is replaced instead of being watched while stopped.
func (h *Hub) attach(
	ctx context.Context,
	tenantID kernel.UUID,
	subscribe func(*Session) func(),
) (*Session, func(), error) {
	for {
		s, err := h.Session(ctx, tenantID)
		if err != nil {
			return nil, nil, err
		}

		h.mu.Lock()
		if h.sessions[tenantID] == s {
			unsubscribe := subscribe(s)
			h.mu.Unlock()
			return s, unsubscribe, nil
		}
		h.mu.Unlock()
		h.logger.Debug("Session evicted before it was watched", "tenant_id", tenantID.String())
	}
}

// release unsubscribes and restarts the idle clock of s, so a session is
// kept for a full ttl after its last viewer leaves.
func (h *Hub) release(s *Session, unsubscribe func()) func() {
	return func() {
		unsubscribe()
		s.touch(h.now())
	}
}

func (h *Hub) forget(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[s.tenantID] == s {
		delete(h.sessions, s.tenantID)
	}
}
