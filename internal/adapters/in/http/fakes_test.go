package http

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"restaurant/internal/core/application/lifecycle"
	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/reservation"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/errs"
)

// memoryStore is an in-memory entity store, unit of work and snapshot
// source at once. Snapshots read the store directly.
type memoryStore struct {
	mu           sync.Mutex
	orders       map[kernel.UUID]*order.Order
	reservations map[kernel.UUID]*reservation.Reservation
	failWith     error

	watchers []func([]*order.Order)
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		orders:       make(map[kernel.UUID]*order.Order),
		reservations: make(map[kernel.UUID]*reservation.Reservation),
	}
}

func (s *memoryStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *memoryStore) putOrder(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID()] = o
}

func (s *memoryStore) order(id kernel.UUID) *order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id]
}

func (s *memoryStore) reservation(id kernel.UUID) *reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations[id]
}

// unit of work

func (s *memoryStore) Create() commands.OrderUoW { return s }

func (s *memoryStore) Begin(context.Context) error    { return nil }
func (s *memoryStore) Commit(context.Context) error   { return nil }
func (s *memoryStore) Rollback(context.Context) error { return nil }

func (s *memoryStore) OrderRepository() ports.OrderRepository {
	return orderRepo{s}
}

func (s *memoryStore) ReservationRepository() ports.ReservationRepository {
	return reservationRepo{s}
}

type reservationUoWFactory struct{ store *memoryStore }

func (f reservationUoWFactory) Create() commands.ReservationUoW { return f.store }

type orderRepo struct{ s *memoryStore }

func (r orderRepo) Add(_ context.Context, o *order.Order) error {
	r.s.putOrder(o)
	return nil
}

func (r orderRepo) ListByTenant(ctx context.Context, tenantID kernel.UUID) ([]*order.Order, error) {
	return r.s.Orders(ctx, tenantID)
}

func (r orderRepo) Get(_ context.Context, tenantID, id kernel.UUID) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	o, ok := r.s.orders[id]
	if !ok || !o.TenantID().IsEqual(tenantID) {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return o, nil
}

func (r orderRepo) UpdateStatus(_ context.Context, tenantID, id kernel.UUID, status order.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return r.s.failWith
	}
	o, ok := r.s.orders[id]
	if !ok || !o.TenantID().IsEqual(tenantID) {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	updated, err := order.RestoreOrder(o.ID(), o.TenantID(), o.Number(), o.CustomerName(), o.TableNumber(),
		o.Items(), o.Total(), o.CreatedAt(), status, o.Version()+1)
	if err != nil {
		return err
	}
	r.s.orders[id] = updated
	return nil
}

type reservationRepo struct{ s *memoryStore }

func (r reservationRepo) Add(_ context.Context, res *reservation.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return r.s.failWith
	}
	r.s.reservations[res.ID()] = res
	return nil
}

func (r reservationRepo) ListByTenant(ctx context.Context, tenantID kernel.UUID) ([]*reservation.Reservation, error) {
	return r.s.Reservations(ctx, tenantID)
}

func (r reservationRepo) Get(_ context.Context, tenantID, id kernel.UUID) (*reservation.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.reservations[id]
	if !ok || !res.TenantID().IsEqual(tenantID) {
		return nil, errs.NewObjectNotFoundError("reservation", id.String())
	}
	return res, nil
}

func (r reservationRepo) UpdateStatus(
	_ context.Context,
	tenantID, id kernel.UUID,
	status reservation.Status,
) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.reservations[id]
	if !ok || !res.TenantID().IsEqual(tenantID) {
		return errs.NewObjectNotFoundError("reservation", id.String())
	}
	updated, err := reservation.RestoreReservation(res.ID(), res.TenantID(), res.Details(), status, res.CreatedAt())
	if err != nil {
		return err
	}
	r.s.reservations[id] = updated
	return nil
}

// snapshots

func (s *memoryStore) Orders(_ context.Context, tenantID kernel.UUID) ([]*order.Order, error) {
	if tenantID.Validate() != nil {
		return nil, lifecycle.ErrNotConnected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*order.Order
	for _, o := range s.orders {
		if o.TenantID().IsEqual(tenantID) {
			list = append(list, o)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt().After(list[j].CreatedAt()) })
	return list, nil
}

func (s *memoryStore) Reservations(_ context.Context, tenantID kernel.UUID) ([]*reservation.Reservation, error) {
	if tenantID.Validate() != nil {
		return nil, lifecycle.ErrNotConnected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*reservation.Reservation
	for _, r := range s.reservations {
		if r.TenantID().IsEqual(tenantID) {
			list = append(list, r)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].GuestName() < list[j].GuestName() })
	return list, nil
}

// watcher

func (s *memoryStore) WatchOrders(
	ctx context.Context,
	tenantID kernel.UUID,
	fn func([]*order.Order),
) (func(), error) {
	list, err := s.Orders(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	s.mu.Unlock()
	fn(list)
	return func() {}, nil
}

func (s *memoryStore) WatchReservations(
	ctx context.Context,
	tenantID kernel.UUID,
	fn func([]*reservation.Reservation),
) (func(), error) {
	list, err := s.Reservations(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	fn(list)
	return func() {}, nil
}

// broadcast pushes the current orders of tenantID to every order watcher.
func (s *memoryStore) broadcast(tenantID kernel.UUID) {
	list, _ := s.Orders(context.Background(), tenantID)
	s.mu.Lock()
	watchers := append([]func([]*order.Order){}, s.watchers...)
	s.mu.Unlock()
	for _, fn := range watchers {
		fn(list)
	}
}

type tenants map[kernel.UUID]kernel.UUID

func (t tenants) TenantOf(_ context.Context, userID kernel.UUID) (kernel.UUID, error) {
	tenantID, ok := t[userID]
	if !ok {
		return kernel.UUID{}, errs.NewObjectNotFoundError("staff", userID.String())
	}
	return tenantID, nil
}

type failingTenants struct{}

func (failingTenants) TenantOf(context.Context, kernel.UUID) (kernel.UUID, error) {
	return kernel.UUID{}, errors.New("connection reset by peer")
}

type silentNotifier struct{}

func (silentNotifier) Notify(context.Context, ports.Notification) {}

var testNow = time.Date(2026, 10, 18, 18, 30, 0, 0, time.UTC)
