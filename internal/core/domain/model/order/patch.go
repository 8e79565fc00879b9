package order

import (
	"bytes"
	"encoding/json"
	"fmt"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Column names of the orders table as they appear in change notifications.
const (
	ColumnNumber       = "order_number"
	ColumnCustomerName = "customer_name"
	ColumnTableNumber  = "table_number"
	ColumnTotal        = "total"
	ColumnStatus       = "status"
	ColumnVersion      = "version"
)

// Patch is a partial order record. A nil field means "not present in the
// notification" and leaves the current value untouched.
type Patch struct {
	Number       *string
	CustomerName *string
	TableNumber  *int
	Total        *kernel.Money
	Status       *Status
	Version      *int64
}

// IsEmpty reports whether p would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Number == nil && p.CustomerName == nil && p.TableNumber == nil &&
		p.Total == nil && p.Status == nil && p.Version == nil
}

// DecodePatch extracts the known order columns from a raw change record.
// Unknown columns (ids, timestamps, tenant) are ignored; a JSON null only
// counts for customer_name, which is nullable.
func DecodePatch(record map[string]json.RawMessage) (Patch, error) {
	var p Patch

	if raw, ok := present(record, ColumnNumber); ok {
		var number string
		if err := json.Unmarshal(raw, &number); err != nil {
			return Patch{}, columnError(ColumnNumber, err)
		}
		p.Number = &number
	}

	if raw, ok := record[ColumnCustomerName]; ok {
		var name *string
		if err := json.Unmarshal(raw, &name); err != nil {
			return Patch{}, columnError(ColumnCustomerName, err)
		}
		value := ""
		if name != nil {
			value = *name
		}
		p.CustomerName = &value
	}

	if raw, ok := present(record, ColumnTableNumber); ok {
		var table int
		if err := json.Unmarshal(raw, &table); err != nil {
			return Patch{}, columnError(ColumnTableNumber, err)
		}
		p.TableNumber = &table
	}

	if raw, ok := present(record, ColumnTotal); ok {
		var amount decimal.Decimal
		if err := json.Unmarshal(raw, &amount); err != nil {
			return Patch{}, columnError(ColumnTotal, err)
		}
		total, err := kernel.NewMoney(amount)
		if err != nil {
			return Patch{}, err
		}
		p.Total = &total
	}

	if raw, ok := present(record, ColumnStatus); ok {
		var status Status
		if err := json.Unmarshal(raw, &status); err != nil {
			return Patch{}, columnError(ColumnStatus, err)
		}
		p.Status = &status
	}

	if raw, ok := present(record, ColumnVersion); ok {
		var version int64
		if err := json.Unmarshal(raw, &version); err != nil {
			return Patch{}, columnError(ColumnVersion, err)
		}
		p.Version = &version
	}

	return p, nil
}

func present(record map[string]json.RawMessage, column string) (json.RawMessage, bool) {
	raw, ok := record[column]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}

func columnError(column string, err error) error {
	return errs.NewValueIsInvalidErrorWithCause(column, fmt.Errorf("decode column: %w", err))
}
