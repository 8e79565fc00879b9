package commands

import (
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/reservation"
	"restaurant/internal/pkg/guard"
)

var ErrCreateReservationCommandIsNotConstructed = errors.New(
	"CreateReservationCommand must be created via NewCreateReservationCommand constructor",
)

// CreateReservationCommand books a table from the dashboard's reservation form.
// The reservation details are validated by the handler when the aggregate is
// built; an Unknown status means Pending.
//
// Example:
//
//	cmd, err := NewCreateReservationCommand(tenantID, kernel.NewUUID(), reservation.Details{
//	    GuestName: "Sarah Williams",
//	    Phone:     "+1 555 0100",
//	    PartySize: 4,
//	    Date:      time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC),
//	    Time:      "7:30 PM",
//	}, reservation.Unknown)
type CreateReservationCommand struct { //nolint:recvcheck //using for validation
	tenantID      kernel.UUID
	reservationID kernel.UUID
	details       reservation.Details
	status        reservation.Status

	guard guard.ConstructorGuard
}

func NewCreateReservationCommand(
	tenantID kernel.UUID,
	reservationID kernel.UUID,
	details reservation.Details,
	status reservation.Status,
) (CreateReservationCommand, error) {
	cmd := CreateReservationCommand{
		details: details,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTenantID(tenantID),
		cmd.setReservationID(reservationID),
		cmd.setStatus(status),
	); err != nil {
		return CreateReservationCommand{}, err
	}

	return cmd, nil
}

func (c CreateReservationCommand) Validate() error {
	return c.guard.Validate(ErrCreateReservationCommandIsNotConstructed)
}

func (c CreateReservationCommand) TenantID() kernel.UUID        { return c.tenantID }
func (c CreateReservationCommand) ReservationID() kernel.UUID   { return c.reservationID }
func (c CreateReservationCommand) Details() reservation.Details { return c.details }
func (c CreateReservationCommand) Status() reservation.Status   { return c.status }

func (c *CreateReservationCommand) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}

	c.tenantID = tenantID
	return nil
}

func (c *CreateReservationCommand) setReservationID(reservationID kernel.UUID) error {
	if err := reservationID.Validate(); err != nil {
		return err
	}

	c.reservationID = reservationID
	return nil
}

func (c *CreateReservationCommand) setStatus(status reservation.Status) error {
	if status == reservation.Unknown {
		c.status = reservation.Pending
		return nil
	}
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}
