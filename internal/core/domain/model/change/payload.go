package change

import (
	"encoding/json"
	"fmt"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"
)

// Payload is the JSON document published by the database triggers on every
// watched table, and forwarded unchanged by the redis bridge:
//
//	{"type":"UPDATE","table":"orders","tenant_id":"…","id":"…","record":{"status":"preparing","version":4}}
type Payload struct {
	Type     string `json:"type"`
	Table    string `json:"table"`
	TenantID string `json:"tenant_id"`
	ID       string `json:"id"`
	Record   Record `json:"record,omitempty"`
}

// Decode parses and validates a notification payload.
func Decode(data []byte) (Event, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Event{}, errs.NewValueIsInvalidErrorWithCause("payload", err)
	}

	typ, err := ParseType(p.Type)
	if err != nil {
		return Event{}, err
	}
	tenantID, err := kernel.UUIDFromString(p.TenantID)
	if err != nil {
		return Event{}, errs.NewValueIsInvalidErrorWithCause("tenant_id", err)
	}
	id, err := kernel.UUIDFromString(p.ID)
	if err != nil {
		return Event{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return NewEvent(typ, Table(p.Table), tenantID, id, p.Record)
}

// Encode renders e in the Payload format.
func Encode(e Event) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(Payload{
		Type:     e.typ.String(),
		Table:    string(e.table),
		TenantID: e.tenantID.String(),
		ID:       e.id.String(),
		Record:   e.record,
	})
	if err != nil {
		return nil, fmt.Errorf("encode change payload: %w", err)
	}
	return data, nil
}
