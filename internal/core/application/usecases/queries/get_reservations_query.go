package queries

import (
	"context"
	"errors"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/reservation"
	"restaurant/internal/pkg/guard"
)

var ErrGetReservationsQueryIsNotConstructed = errors.New(
	"GetReservationsQuery must be created via NewGetReservationsQuery constructor",
)

// GetReservationsQuery lists reservations, optionally restricted to one
// status and to one calendar day. A nil date and reservation.Unknown disable
// the respective filter.
type GetReservationsQuery struct {
	tenantID kernel.UUID
	status   reservation.Status
	date     *time.Time

	guard guard.ConstructorGuard
}

func NewGetReservationsQuery(
	tenantID kernel.UUID,
	status reservation.Status,
	date *time.Time,
) (GetReservationsQuery, error) {
	if err := tenantID.Validate(); err != nil {
		return GetReservationsQuery{}, err
	}
	if status != reservation.Unknown {
		if err := status.Validate(); err != nil {
			return GetReservationsQuery{}, err
		}
	}

	return GetReservationsQuery{
		tenantID: tenantID,
		status:   status,
		date:     date,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetReservationsQuery) Validate() error {
	return q.guard.Validate(ErrGetReservationsQueryIsNotConstructed)
}

func (q GetReservationsQuery) TenantID() kernel.UUID      { return q.tenantID }
func (q GetReservationsQuery) Status() reservation.Status { return q.status }
func (q GetReservationsQuery) Date() *time.Time           { return q.date }

type GetReservationsQueryHandler struct {
	snapshots ReservationSnapshots
}

func NewGetReservationsQueryHandler(snapshots ReservationSnapshots) GetReservationsQueryHandler {
	return GetReservationsQueryHandler{snapshots: snapshots}
}

func (h GetReservationsQueryHandler) Handle(
	ctx context.Context,
	query GetReservationsQuery,
) ([]*reservation.Reservation, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	reservations, err := h.snapshots.Reservations(ctx, query.TenantID())
	if err != nil {
		return nil, err
	}

	result := make([]*reservation.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if query.Status() != reservation.Unknown && r.Status() != query.Status() {
			continue
		}
		if query.Date() != nil && !r.IsOn(*query.Date()) {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}
