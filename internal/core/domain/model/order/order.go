package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned for an Order not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrTotalMismatch is returned by NewOrder when the total differs from the item sum.
	ErrTotalMismatch = errors.New("order total does not match the sum of its items")
)

// Order is a customer order owned by one tenant (restaurant).
//
// An Order value is never modified after construction: Apply returns a new
// Order. This lets the lifecycle engine hand the same pointers to every
// snapshot reader without copying.
type Order struct {
	id           kernel.UUID
	tenantID     kernel.UUID
	number       string
	customerName string
	tableNumber  int
	total        kernel.Money
	items        []Item
	status       Status
	createdAt    time.Time

	// version is bumped by the store on every write; 0 means unknown.
	version int64

	isConstructed bool
}

// NewOrder creates an order in the New status and checks that total equals the
// sum of the item subtotals. At least one item is required.
//
// Example:
//
//	burger, _ := order.NewItem(kernel.NewUUID(), "Classic Cheeseburger", 2, kernel.MustMoney("12.99"), "")
//	o, err := order.NewOrder(kernel.NewUUID(), tenantID, "ORD-001", "Alex Johnson", 5,
//	    []order.Item{burger}, kernel.MustMoney("25.98"), time.Now())
func NewOrder(
	id kernel.UUID,
	tenantID kernel.UUID,
	number string,
	customerName string,
	tableNumber int,
	items []Item,
	total kernel.Money,
	createdAt time.Time,
) (*Order, error) {
	o, err := RestoreOrder(id, tenantID, number, customerName, tableNumber, items, total, createdAt, New, 0)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}
	if sum := SumItems(items); !sum.IsEqual(total) {
		return nil, fmt.Errorf("%w: total is %s, items sum to %s", ErrTotalMismatch, total, sum)
	}
	return o, nil
}

// RestoreOrder rebuilds an order from storage. Field rules are checked; the
// total is trusted as stored.
func RestoreOrder(
	id kernel.UUID,
	tenantID kernel.UUID,
	number string,
	customerName string,
	tableNumber int,
	items []Item,
	total kernel.Money,
	createdAt time.Time,
	status Status,
	version int64,
) (*Order, error) {
	o := &Order{
		customerName:  strings.TrimSpace(customerName),
		createdAt:     createdAt,
		items:         append([]Item(nil), items...),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setTenantID(tenantID),
		o.setNumber(number),
		o.setTableNumber(tableNumber),
		o.setTotal(total),
		o.setStatus(status),
		o.setVersion(version),
	); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID       { return o.id }
func (o *Order) TenantID() kernel.UUID { return o.tenantID }
func (o *Order) Number() string        { return o.number }
func (o *Order) CustomerName() string  { return o.customerName }
func (o *Order) TableNumber() int      { return o.tableNumber }
func (o *Order) Total() kernel.Money   { return o.total }
func (o *Order) Status() Status        { return o.status }
func (o *Order) CreatedAt() time.Time  { return o.createdAt }
func (o *Order) Version() int64        { return o.version }

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// ItemCount is the total quantity across all lines.
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.items {
		n += item.Quantity()
	}
	return n
}

// IsNewerThan reports whether o carries a later version than other. Orders
// without a version never win over a versioned one.
func (o *Order) IsNewerThan(other *Order) bool {
	if other == nil {
		return true
	}
	return o.version > other.version
}

// Apply returns a copy of o with the fields present in p replaced. Fields
// absent from p keep their current values; line items are never patched.
//
// When both p and o carry a version, p must be strictly newer, otherwise a
// VersionIsInvalidError is returned and o is left as is.
func (o *Order) Apply(p Patch) (*Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if p.Version != nil && o.version != 0 && *p.Version <= o.version {
		return nil, errs.NewVersionIsInvalidErrorWithCause(
			"version", fmt.Errorf("%d is not newer than %d", *p.Version, o.version),
		)
	}

	next := *o
	next.items = o.Items()

	var err error
	if p.Number != nil {
		err = errors.Join(err, next.setNumber(*p.Number))
	}
	if p.CustomerName != nil {
		next.customerName = strings.TrimSpace(*p.CustomerName)
	}
	if p.TableNumber != nil {
		err = errors.Join(err, next.setTableNumber(*p.TableNumber))
	}
	if p.Total != nil {
		err = errors.Join(err, next.setTotal(*p.Total))
	}
	if p.Status != nil {
		err = errors.Join(err, next.setStatus(*p.Status))
	}
	if p.Version != nil {
		err = errors.Join(err, next.setVersion(*p.Version))
	}
	if err != nil {
		return nil, err
	}
	return &next, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("tenant", err)
	}
	o.tenantID = tenantID
	return nil
}

func (o *Order) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = number
	return nil
}

func (o *Order) setTableNumber(tableNumber int) error {
	if tableNumber < 0 {
		return errs.NewValueIsInvalidErrorWithCause("table number", fmt.Errorf("%d is negative", tableNumber))
	}
	o.tableNumber = tableNumber
	return nil
}

func (o *Order) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}
	o.total = total
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setVersion(version int64) error {
	if version < 0 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is negative", version))
	}
	o.version = version
	return nil
}
