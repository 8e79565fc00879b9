// Package queries contains read-only operations over the reconciled
// dashboard state. Queries never hit the entity store directly: they read the
// snapshots kept by the lifecycle engines.
package queries

import (
	"context"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/reservation"
)

type (
	// OrderSnapshots returns the reconciled orders of a tenant, newest first.
	OrderSnapshots interface {
		Orders(ctx context.Context, tenantID kernel.UUID) ([]*order.Order, error)
	}

	// ReservationSnapshots returns the reconciled reservations of a tenant.
	ReservationSnapshots interface {
		Reservations(ctx context.Context, tenantID kernel.UUID) ([]*reservation.Reservation, error)
	}
)
