package commands

import (
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/reservation"
	"restaurant/internal/pkg/guard"
)

var ErrChangeReservationStatusCommandIsNotConstructed = errors.New(
	"ChangeReservationStatusCommand must be created via NewChangeReservationStatusCommand constructor",
)

// ChangeReservationStatusCommand requests a remote status update of one
// reservation. Reservations have no transition graph: any valid status is
// accepted from any other.
type ChangeReservationStatusCommand struct { //nolint:recvcheck //using for validation
	tenantID      kernel.UUID
	reservationID kernel.UUID
	status        reservation.Status

	guard guard.ConstructorGuard
}

func NewChangeReservationStatusCommand(
	tenantID kernel.UUID,
	reservationID kernel.UUID,
	status reservation.Status,
) (ChangeReservationStatusCommand, error) {
	cmd := ChangeReservationStatusCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setTenantID(tenantID),
		cmd.setReservationID(reservationID),
		cmd.setStatus(status),
	); err != nil {
		return ChangeReservationStatusCommand{}, err
	}

	return cmd, nil
}

func (c ChangeReservationStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeReservationStatusCommandIsNotConstructed)
}

func (c ChangeReservationStatusCommand) TenantID() kernel.UUID      { return c.tenantID }
func (c ChangeReservationStatusCommand) ReservationID() kernel.UUID { return c.reservationID }
func (c ChangeReservationStatusCommand) Status() reservation.Status { return c.status }

func (c *ChangeReservationStatusCommand) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}

	c.tenantID = tenantID
	return nil
}

func (c *ChangeReservationStatusCommand) setReservationID(reservationID kernel.UUID) error {
	if err := reservationID.Validate(); err != nil {
		return err
	}

	c.reservationID = reservationID
	return nil
}

func (c *ChangeReservationStatusCommand) setStatus(status reservation.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}
