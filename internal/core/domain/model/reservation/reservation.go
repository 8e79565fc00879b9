package reservation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"
)

// maxPartySize bounds the number of guests a single reservation may hold.
const maxPartySize = 100

var ErrReservationIsNotConstructed = errors.New(
	"Reservation must be created via NewReservation or RestoreReservation constructor",
)

// Details are the guest-provided fields of a reservation.
type Details struct {
	GuestName   string
	Phone       string
	Email       string
	PartySize   int
	TableNumber int
	Date        time.Time
	Time        string
	Notes       string
}

// Reservation is a table booking owned by one tenant. Like order.Order it is
// immutable once built.
type Reservation struct {
	id        kernel.UUID
	tenantID  kernel.UUID
	details   Details
	status    Status
	createdAt time.Time

	isConstructed bool
}

// NewReservation validates details and creates a reservation. A zero status
// defaults to Pending.
func NewReservation(
	id kernel.UUID,
	tenantID kernel.UUID,
	details Details,
	status Status,
	createdAt time.Time,
) (*Reservation, error) {
	if status == Unknown {
		status = Pending
	}
	return RestoreReservation(id, tenantID, details, status, createdAt)
}

// RestoreReservation rebuilds a reservation from storage.
func RestoreReservation(
	id kernel.UUID,
	tenantID kernel.UUID,
	details Details,
	status Status,
	createdAt time.Time,
) (*Reservation, error) {
	r := &Reservation{createdAt: createdAt, isConstructed: true}

	if err := errors.Join(
		r.setID(id),
		r.setTenantID(tenantID),
		r.setDetails(details),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	r.status = status
	return r, nil
}

func (r *Reservation) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReservationIsNotConstructed
	}
	return nil
}

func (r *Reservation) ID() kernel.UUID       { return r.id }
func (r *Reservation) TenantID() kernel.UUID { return r.tenantID }
func (r *Reservation) Details() Details      { return r.details }
func (r *Reservation) GuestName() string     { return r.details.GuestName }
func (r *Reservation) PartySize() int        { return r.details.PartySize }
func (r *Reservation) TableNumber() int      { return r.details.TableNumber }
func (r *Reservation) Date() time.Time       { return r.details.Date }
func (r *Reservation) Status() Status        { return r.status }
func (r *Reservation) CreatedAt() time.Time  { return r.createdAt }

// IsOn reports whether the reservation falls on the calendar day of day.
func (r *Reservation) IsOn(day time.Time) bool {
	y1, m1, d1 := r.details.Date.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (r *Reservation) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Reservation) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("tenant", err)
	}
	r.tenantID = tenantID
	return nil
}

func (r *Reservation) setDetails(d Details) error {
	d.GuestName = strings.TrimSpace(d.GuestName)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.TrimSpace(d.Email)
	d.Time = strings.TrimSpace(d.Time)

	var err error
	if d.GuestName == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("guest name"))
	}
	if d.Phone == "" && d.Email == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("phone or email"))
	}
	if d.Email != "" {
		if _, parseErr := mail.ParseAddress(d.Email); parseErr != nil {
			err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("email", parseErr))
		}
	}
	if d.PartySize < 1 || d.PartySize > maxPartySize {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("party size", d.PartySize, 1, maxPartySize))
	}
	if d.TableNumber < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause(
			"table number", fmt.Errorf("%d is negative", d.TableNumber)))
	}
	if d.Date.IsZero() {
		err = errors.Join(err, errs.NewValueIsRequiredError("date"))
	}
	if d.Time == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("time"))
	}
	if err != nil {
		return err
	}

	y, m, day := d.Date.Date()
	d.Date = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	r.details = d
	return nil
}
