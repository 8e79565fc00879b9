package commands

import (
	"context"
	"fmt"
	"time"

	"restaurant/internal/core/ports"
)

// ChangeOrderStatusCommandHandler writes a new order status to the store.
//
// By default any valid status is written whatever the current one is; the
// transition graph is left to presentation gating. With the transition guard
// enabled the current order is read first and illegal moves fail with
// order.ErrTransitionNotAllowed before anything is written.
type ChangeOrderStatusCommandHandler struct {
	uowFactory         OrderUoWFactory
	notifier           ports.Notifier
	enforceTransitions bool
}

func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
	enforceTransitions bool,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory:         uowFactory,
		notifier:           notifier,
		enforceTransitions: enforceTransitions,
	}
}

// Handle issues exactly one status update. A confirmation or an error
// notification is emitted for the outcome; errors are returned as is and
// never retried.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.changeStatus(ctx, cmd); err != nil {
		h.notifier.Notify(ctx, ports.Notification{
			TenantID: cmd.TenantID(),
			Level:    ports.LevelError,
			Message:  fmt.Sprintf("Failed to update order status: %v", err),
			At:       time.Now().UTC(),
		})
		return err
	}

	h.notifier.Notify(ctx, ports.Notification{
		TenantID: cmd.TenantID(),
		Level:    ports.LevelSuccess,
		Message:  fmt.Sprintf("Order status updated to %s", cmd.Status()),
		At:       time.Now().UTC(),
	})
	return nil
}

func (h *ChangeOrderStatusCommandHandler) changeStatus(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	if h.enforceTransitions {
		current, err := orderRepo.Get(ctx, cmd.TenantID(), cmd.OrderID())
		if err != nil {
			return err
		}
		if _, err = current.Status().TransitionTo(cmd.Status()); err != nil {
			return err
		}
	}

	if err := orderRepo.UpdateStatus(ctx, cmd.TenantID(), cmd.OrderID(), cmd.Status()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
