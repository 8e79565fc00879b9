package order_test

import (
	"encoding/json"
	"testing"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, name string, quantity int, price string) order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), name, quantity, kernel.MustMoney(price), "")
	require.NoError(t, err)
	return item
}

func restoreOrder(t *testing.T, status order.Status, version int64) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(
		kernel.NewUUID(), kernel.NewUUID(), "ORD-010", "Emily Carter", 3,
		[]order.Item{mustItem(t, "Margherita Pizza", 1, "14.99"), mustItem(t, "Truffle Fries", 1, "7.99")},
		kernel.MustMoney("22.98"), time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC), status, version,
	)
	require.NoError(t, err)
	return o
}

func TestNewItem(t *testing.T) {
	t.Run("valid line", func(t *testing.T) {
		item, err := order.NewItem(kernel.NewUUID(), " Fresh Mojito ", 2, kernel.MustMoney("10.99"), "Extra mint")

		require.NoError(t, err)
		assert.Equal(t, "Fresh Mojito", item.Name())
		assert.Equal(t, "Extra mint", item.Note())
		assert.Equal(t, "21.98", item.Subtotal().String())
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), "Fries", 0, kernel.MustMoney("1.00"), "")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), "  ", 1, kernel.MustMoney("1.00"), "")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("unset price", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), "Fries", 1, kernel.Money{}, "")
		require.ErrorIs(t, err, kernel.ErrMoneyIsNotConstructed)
	})

	t.Run("free item", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), "Bread", 1, kernel.ZeroMoney(), "")
		require.NoError(t, err)
	})
}

func TestNewOrder(t *testing.T) {
	tenantID := kernel.NewUUID()
	items := []order.Item{
		mustItem(t, "Classic Cheeseburger", 2, "12.99"),
		mustItem(t, "Caesar Salad", 1, "9.99"),
		mustItem(t, "Fresh Mojito", 2, "10.99"),
	}

	t.Run("total matches items", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), tenantID, "ORD-001", "Alex Johnson", 5,
			items, kernel.MustMoney("57.95"), time.Now())

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, order.New, o.Status())
		assert.Equal(t, int64(0), o.Version())
		assert.Equal(t, 5, o.ItemCount())
		assert.Len(t, o.Items(), 3)
		assert.True(t, tenantID.IsEqual(o.TenantID()))
	})

	t.Run("total mismatch", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), tenantID, "ORD-001", "Alex Johnson", 5,
			items, kernel.MustMoney("57.94"), time.Now())

		require.ErrorIs(t, err, order.ErrTotalMismatch)
	})

	t.Run("no items", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), tenantID, "ORD-001", "", 5,
			nil, kernel.ZeroMoney(), time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("collects every field error", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, kernel.UUID{}, " ", "", -1,
			items, kernel.MustMoney("57.95"), time.Now())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "order number")
		assert.Contains(t, err.Error(), "tenant")
		assert.Contains(t, err.Error(), "table number")
	})
}

func TestRestoreOrder_TrustsStoredTotal(t *testing.T) {
	o, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), "ORD-002", "", 0,
		[]order.Item{mustItem(t, "Fries", 1, "7.99")}, kernel.MustMoney("100.00"),
		time.Now(), order.Preparing, 4)

	require.NoError(t, err)
	assert.Equal(t, "100.00", o.Total().String())
	assert.Equal(t, int64(4), o.Version())
}

func TestOrder_ZeroValueIsInvalid(t *testing.T) {
	var o *order.Order
	assert.Equal(t, order.ErrOrderIsNotConstructed, o.Validate())
	assert.Equal(t, order.ErrOrderIsNotConstructed, (&order.Order{}).Validate())
}

func TestOrder_Items_ReturnsCopy(t *testing.T) {
	o := restoreOrder(t, order.New, 1)

	items := o.Items()
	items[0] = mustItem(t, "Something else", 1, "1.00")

	assert.Equal(t, "Margherita Pizza", o.Items()[0].Name())
}

func TestOrder_Apply(t *testing.T) {
	t.Run("replaces only present fields", func(t *testing.T) {
		original := restoreOrder(t, order.New, 1)
		status := order.Preparing

		merged, err := original.Apply(order.Patch{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, order.Preparing, merged.Status())
		assert.Equal(t, original.ID(), merged.ID())
		assert.Equal(t, original.Number(), merged.Number())
		assert.Equal(t, original.CustomerName(), merged.CustomerName())
		assert.Equal(t, original.TableNumber(), merged.TableNumber())
		assert.True(t, original.Total().IsEqual(merged.Total()))
		assert.Equal(t, original.Items(), merged.Items())
		assert.Equal(t, original.CreatedAt(), merged.CreatedAt())
		assert.Equal(t, original.Version(), merged.Version())
	})

	t.Run("leaves the receiver untouched", func(t *testing.T) {
		original := restoreOrder(t, order.New, 1)
		status := order.Cancelled

		_, err := original.Apply(order.Patch{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, order.New, original.Status())
	})

	t.Run("newer version wins", func(t *testing.T) {
		original := restoreOrder(t, order.New, 3)
		status, version := order.Preparing, int64(4)

		merged, err := original.Apply(order.Patch{Status: &status, Version: &version})

		require.NoError(t, err)
		assert.Equal(t, int64(4), merged.Version())
		assert.True(t, merged.IsNewerThan(original))
	})

	t.Run("stale version is refused", func(t *testing.T) {
		original := restoreOrder(t, order.Preparing, 5)
		status, version := order.New, int64(5)

		_, err := original.Apply(order.Patch{Status: &status, Version: &version})

		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})

	t.Run("unversioned local record accepts any patch", func(t *testing.T) {
		original := restoreOrder(t, order.New, 0)
		version := int64(1)

		merged, err := original.Apply(order.Patch{Version: &version})

		require.NoError(t, err)
		assert.Equal(t, int64(1), merged.Version())
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		original := restoreOrder(t, order.New, 1)
		table := -4

		_, err := original.Apply(order.Patch{TableNumber: &table})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestDecodePatch(t *testing.T) {
	t.Run("status only", func(t *testing.T) {
		p, err := order.DecodePatch(map[string]json.RawMessage{"status": json.RawMessage(`"preparing"`)})

		require.NoError(t, err)
		require.NotNil(t, p.Status)
		assert.Equal(t, order.Preparing, *p.Status)
		assert.Nil(t, p.Number)
		assert.Nil(t, p.Total)
		assert.Nil(t, p.Version)
		assert.False(t, p.IsEmpty())
	})

	t.Run("full row", func(t *testing.T) {
		p, err := order.DecodePatch(map[string]json.RawMessage{
			"id":            json.RawMessage(`"4f0c5c5e-8d0e-4a55-9f38-3b87e1d1c0aa"`),
			"order_number":  json.RawMessage(`"ORD-011"`),
			"customer_name": json.RawMessage(`null`),
			"table_number":  json.RawMessage(`8`),
			"total":         json.RawMessage(`43.96`),
			"status":        json.RawMessage(`"cancelled"`),
			"version":       json.RawMessage(`7`),
			"created_at":    json.RawMessage(`"2026-10-18T12:00:00Z"`),
		})

		require.NoError(t, err)
		assert.Equal(t, "ORD-011", *p.Number)
		assert.Equal(t, "", *p.CustomerName)
		assert.Equal(t, 8, *p.TableNumber)
		assert.Equal(t, "43.96", p.Total.String())
		assert.Equal(t, order.Cancelled, *p.Status)
		assert.Equal(t, int64(7), *p.Version)
	})

	t.Run("quoted numeric total", func(t *testing.T) {
		p, err := order.DecodePatch(map[string]json.RawMessage{"total": json.RawMessage(`"22.98"`)})
		require.NoError(t, err)
		assert.Equal(t, "22.98", p.Total.String())
	})

	t.Run("null non nullable column is skipped", func(t *testing.T) {
		p, err := order.DecodePatch(map[string]json.RawMessage{"status": json.RawMessage(`null`)})
		require.NoError(t, err)
		assert.True(t, p.IsEmpty())
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := order.DecodePatch(map[string]json.RawMessage{"status": json.RawMessage(`"served"`)})
		require.Error(t, err)
	})

	t.Run("bad table number", func(t *testing.T) {
		_, err := order.DecodePatch(map[string]json.RawMessage{"table_number": json.RawMessage(`"five"`)})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestSummarize(t *testing.T) {
	orders := []*order.Order{
		restoreOrder(t, order.New, 1),
		restoreOrder(t, order.Preparing, 1),
		restoreOrder(t, order.Preparing, 1),
		restoreOrder(t, order.Completed, 1),
	}

	s := order.Summarize(orders)

	assert.Equal(t, 1, s.Counts[order.New])
	assert.Equal(t, 2, s.Counts[order.Preparing])
	assert.Equal(t, 1, s.Counts[order.Completed])
	assert.Equal(t, 0, s.Counts[order.Cancelled])
	assert.Equal(t, "68.94", s.OpenAmount.String())
	assert.Equal(t, 4, s.ItemsInKitchen)
}
