package commands

import (
	"context"
	"fmt"
	"time"

	"restaurant/internal/core/ports"
)

// ChangeReservationStatusCommandHandler writes a new reservation status to the store.
type ChangeReservationStatusCommandHandler struct {
	uowFactory ReservationUoWFactory
	notifier   ports.Notifier
}

func NewChangeReservationStatusCommandHandler(
	uowFactory ReservationUoWFactory,
	notifier ports.Notifier,
) ChangeReservationStatusCommandHandler {
	return ChangeReservationStatusCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle issues one status update and notifies the user of the outcome.
func (h *ChangeReservationStatusCommandHandler) Handle(ctx context.Context, cmd ChangeReservationStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.changeStatus(ctx, cmd); err != nil {
		h.notifier.Notify(ctx, ports.Notification{
			TenantID: cmd.TenantID(),
			Level:    ports.LevelError,
			Message:  fmt.Sprintf("Failed to update reservation status: %v", err),
			At:       time.Now().UTC(),
		})
		return err
	}

	h.notifier.Notify(ctx, ports.Notification{
		TenantID: cmd.TenantID(),
		Level:    ports.LevelSuccess,
		Message:  fmt.Sprintf("Reservation %s", cmd.Status()),
		At:       time.Now().UTC(),
	})
	return nil
}

func (h *ChangeReservationStatusCommandHandler) changeStatus(
	ctx context.Context,
	cmd ChangeReservationStatusCommand,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	err := uow.ReservationRepository().UpdateStatus(ctx, cmd.TenantID(), cmd.ReservationID(), cmd.Status())
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
