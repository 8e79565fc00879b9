package change_test

import (
	"encoding/json"
	"testing"

	"restaurant/internal/core/domain/model/change"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for name, expected := range map[string]change.Type{
		"INSERT": change.Insert,
		"update": change.Update,
		"Delete": change.Delete,
	} {
		typ, err := change.ParseType(name)
		require.NoError(t, err)
		assert.Equal(t, expected, typ)
	}

	_, err := change.ParseType("TRUNCATE")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewEvent(t *testing.T) {
	tenantID, id := kernel.NewUUID(), kernel.NewUUID()

	t.Run("valid", func(t *testing.T) {
		record := change.Record{"status": json.RawMessage(`"preparing"`)}
		e, err := change.NewEvent(change.Update, change.Orders, tenantID, id, record)

		require.NoError(t, err)
		require.NoError(t, e.Validate())
		assert.Equal(t, change.Update, e.Type())
		assert.Equal(t, change.Orders, e.Table())
		assert.True(t, tenantID.IsEqual(e.TenantID()))
		assert.True(t, id.IsEqual(e.ID()))

		record["status"] = json.RawMessage(`"completed"`)
		assert.JSONEq(t, `"preparing"`, string(e.Record()["status"]))
	})

	t.Run("invalid parts", func(t *testing.T) {
		_, err := change.NewEvent(change.Unknown, change.Table("menu"), kernel.UUID{}, kernel.UUID{}, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "type")
		assert.Contains(t, err.Error(), "table")
	})

	t.Run("zero value", func(t *testing.T) {
		assert.Equal(t, change.ErrEventIsNotConstructed, change.Event{}.Validate())
	})
}

func TestDecodeEncode(t *testing.T) {
	tenantID, id := kernel.NewUUID(), kernel.NewUUID()
	raw := `{"type":"UPDATE","table":"orders","tenant_id":"` + tenantID.String() +
		`","id":"` + id.String() + `","record":{"status":"preparing","version":4}}`

	e, err := change.Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, change.Update, e.Type())
	assert.Equal(t, change.Orders, e.Table())
	assert.JSONEq(t, `4`, string(e.Record()["version"]))

	encoded, err := change.Encode(e)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(encoded))
}

func TestDecode_Rejects(t *testing.T) {
	valid := kernel.NewUUID().String()
	for name, raw := range map[string]string{
		"not json":   `{`,
		"bad type":   `{"type":"MERGE","table":"orders","tenant_id":"` + valid + `","id":"` + valid + `"}`,
		"bad table":  `{"type":"INSERT","table":"menu","tenant_id":"` + valid + `","id":"` + valid + `"}`,
		"bad tenant": `{"type":"INSERT","table":"orders","tenant_id":"x","id":"` + valid + `"}`,
		"missing id": `{"type":"DELETE","table":"orders","tenant_id":"` + valid + `"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := change.Decode([]byte(raw))
			require.Error(t, err)
		})
	}
}
