package ports

import (
	"context"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/reservation"
)

// ReservationRepository is the tenant-scoped persistence contract for reservations.
type ReservationRepository interface {
	Add(ctx context.Context, aggregate *reservation.Reservation) error

	// ListByTenant returns the tenant's reservations ordered by date and time.
	ListByTenant(ctx context.Context, tenantID kernel.UUID) ([]*reservation.Reservation, error)

	Get(ctx context.Context, tenantID kernel.UUID, id kernel.UUID) (*reservation.Reservation, error)

	// UpdateStatus accepts any valid status regardless of the current one.
	UpdateStatus(ctx context.Context, tenantID kernel.UUID, id kernel.UUID, status reservation.Status) error
}
