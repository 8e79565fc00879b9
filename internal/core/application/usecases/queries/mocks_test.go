package queries_test

import (
	"context"
	"testing"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/reservation"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSnapshots struct{ mock.Mock }

func (m *MockSnapshots) Orders(ctx context.Context, tenantID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, tenantID)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockSnapshots) Reservations(ctx context.Context, tenantID kernel.UUID) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, tenantID)
	reservations, _ := args.Get(0).([]*reservation.Reservation)
	return reservations, args.Error(1)
}

func orderFixture(
	t *testing.T,
	tenantID kernel.UUID,
	number, customer string,
	table int,
	status order.Status,
	price string,
	quantity int,
) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), "Dish", quantity, kernel.MustMoney(price), "")
	require.NoError(t, err)
	o, err := order.RestoreOrder(kernel.NewUUID(), tenantID, number, customer, table,
		[]order.Item{item}, item.Subtotal(), time.Now(), status, 1)
	require.NoError(t, err)
	return o
}

func reservationFixture(
	t *testing.T,
	tenantID kernel.UUID,
	guest string,
	day time.Time,
	status reservation.Status,
) *reservation.Reservation {
	t.Helper()
	r, err := reservation.NewReservation(kernel.NewUUID(), tenantID, reservation.Details{
		GuestName: guest,
		Phone:     "+1 555 0100",
		PartySize: 2,
		Date:      day,
		Time:      "7:00 PM",
	}, status, time.Now())
	require.NoError(t, err)
	return r
}
