package commands

import (
	"context"
	"fmt"
	"time"

	"restaurant/internal/core/domain/model/reservation"
	"restaurant/internal/core/ports"
)

// CreateReservationCommandHandler persists a new reservation stamped with the
// tenant and the creation time. The local reservation set picks it up from
// the change feed.
type CreateReservationCommandHandler struct {
	uowFactory ReservationUoWFactory
	notifier   ports.Notifier
	now        func() time.Time
}

func NewCreateReservationCommandHandler(
	uowFactory ReservationUoWFactory,
	notifier ports.Notifier,
) CreateReservationCommandHandler {
	return CreateReservationCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		now:        time.Now,
	}
}

// Handle returns the reservation as it was stored.
func (h *CreateReservationCommandHandler) Handle(
	ctx context.Context,
	cmd CreateReservationCommand,
) (*reservation.Reservation, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	created, err := h.create(ctx, cmd)
	if err != nil {
		h.notifier.Notify(ctx, ports.Notification{
			TenantID: cmd.TenantID(),
			Level:    ports.LevelError,
			Message:  fmt.Sprintf("Failed to create reservation: %v", err),
			At:       h.now().UTC(),
		})
		return nil, err
	}

	h.notifier.Notify(ctx, ports.Notification{
		TenantID: cmd.TenantID(),
		Level:    ports.LevelSuccess,
		Message:  fmt.Sprintf("Reservation created for %s", created.GuestName()),
		At:       h.now().UTC(),
	})
	return created, nil
}

func (h *CreateReservationCommandHandler) create(
	ctx context.Context,
	cmd CreateReservationCommand,
) (*reservation.Reservation, error) {
	aggregate, err := reservation.NewReservation(
		cmd.ReservationID(), cmd.TenantID(), cmd.Details(), cmd.Status(), h.now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ReservationRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
