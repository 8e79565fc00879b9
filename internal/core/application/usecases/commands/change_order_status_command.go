package commands

import (
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand requests a remote status update of one order.
//
// Example:
//
//	cmd, err := NewChangeOrderStatusCommand(tenantID, orderID, order.Preparing)
//	if err != nil {
//	    return fmt.Errorf("invalid status change: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return err
//	}
//	// the new status shows up locally once the change feed delivers it
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	tenantID kernel.UUID
	orderID  kernel.UUID
	status   order.Status

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand validates the ids and the target status.
// The current status of the order is not consulted here.
func NewChangeOrderStatusCommand(
	tenantID kernel.UUID,
	orderID kernel.UUID,
	status order.Status,
) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setTenantID(tenantID),
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) TenantID() kernel.UUID { return c.tenantID }
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID  { return c.orderID }
func (c ChangeOrderStatusCommand) Status() order.Status  { return c.status }

func (c *ChangeOrderStatusCommand) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}

	c.tenantID = tenantID
	return nil
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}
