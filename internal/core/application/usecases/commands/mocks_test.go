package commands_test

import (
	"context"

	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/reservation"
	"restaurant/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByTenant(ctx context.Context, tenantID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, tenantID)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, tenantID, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, tenantID, id kernel.UUID, status order.Status) error {
	args := m.Called(ctx, tenantID, id, status)
	return args.Error(0)
}

type MockReservationRepository struct{ mock.Mock }

func (m *MockReservationRepository) Add(ctx context.Context, r *reservation.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) ListByTenant(
	ctx context.Context,
	tenantID kernel.UUID,
) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, tenantID)
	reservations, _ := args.Get(0).([]*reservation.Reservation)
	return reservations, args.Error(1)
}

func (m *MockReservationRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*reservation.Reservation, error) {
	args := m.Called(ctx, tenantID, id)
	r, _ := args.Get(0).(*reservation.Reservation)
	return r, args.Error(1)
}

func (m *MockReservationRepository) UpdateStatus(
	ctx context.Context,
	tenantID, id kernel.UUID,
	status reservation.Status,
) error {
	args := m.Called(ctx, tenantID, id, status)
	return args.Error(0)
}

type MockTx struct{ mock.Mock }

func (m *MockTx) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockOrderUoW struct{ MockTx }

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockReservationUoW struct{ MockTx }

func (m *MockReservationUoW) ReservationRepository() ports.ReservationRepository {
	args := m.Called()
	return args.Get(0).(ports.ReservationRepository)
}

type MockReservationUoWFactory struct{ mock.Mock }

func (m *MockReservationUoWFactory) Create() commands.ReservationUoW {
	args := m.Called()
	return args.Get(0).(commands.ReservationUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.Notification) {
	m.Called(ctx, n)
}

func levelIs(level ports.Level) any {
	return mock.MatchedBy(func(n ports.Notification) bool { return n.Level == level })
}
