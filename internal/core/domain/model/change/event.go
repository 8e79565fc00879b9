// Package change describes row-level change notifications delivered by the
// change feed: which table changed, for which tenant, how, and the new row.
package change

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"
)

var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent or Decode")

// Type is the kind of row mutation.
type Type int

const (
	Unknown Type = iota
	Insert
	Update
	Delete
)

func (t Type) String() string {
	switch t {
	case Insert:
		return "INSERT"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	case Unknown:
	}
	return "UNKNOWN"
}

// ParseType accepts the INSERT/UPDATE/DELETE names in any case.
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INSERT":
		return Insert, nil
	case "UPDATE":
		return Update, nil
	case "DELETE":
		return Delete, nil
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%q is not a change type", s))
}

// Table names a change-feed source table.
type Table string

const (
	Orders       Table = "orders"
	Reservations Table = "reservations"
)

func (t Table) Validate() error {
	if t != Orders && t != Reservations {
		return errs.NewValueIsInvalidErrorWithCause("table", fmt.Errorf("%q is not a watched table", string(t)))
	}
	return nil
}

// Record is the changed row as column -> raw JSON value. It is empty for deletes
// and may be partial for updates.
type Record map[string]json.RawMessage

// Event is one change notification.
type Event struct {
	typ      Type
	table    Table
	tenantID kernel.UUID
	id       kernel.UUID
	record   Record

	isConstructed bool
}

// NewEvent validates and builds an Event. record is copied.
func NewEvent(typ Type, table Table, tenantID, id kernel.UUID, record Record) (Event, error) {
	var typeErr error
	if typ != Insert && typ != Update && typ != Delete {
		typeErr = errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%d is not a change type", typ))
	}
	if err := errors.Join(typeErr, table.Validate(), tenantID.Validate(), id.Validate()); err != nil {
		return Event{}, err
	}

	copied := make(Record, len(record))
	for column, value := range record {
		copied[column] = value
	}
	return Event{typ: typ, table: table, tenantID: tenantID, id: id, record: copied, isConstructed: true}, nil
}

func (e Event) Validate() error {
	if !e.isConstructed {
		return ErrEventIsNotConstructed
	}
	return nil
}

func (e Event) Type() Type            { return e.typ }
func (e Event) Table() Table          { return e.table }
func (e Event) TenantID() kernel.UUID { return e.tenantID }
func (e Event) ID() kernel.UUID       { return e.id }

// Record returns the changed columns. Callers must not modify it.
func (e Event) Record() Record { return e.record }

// Handler receives the events of one subscription.
type Handler func(Event)
