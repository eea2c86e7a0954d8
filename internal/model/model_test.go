package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestBeforeCreateFillsJSONColumns(t *testing.T) {
	t.Run("company domains", func(t *testing.T) {
		c := &Company{CompanyType: CompanyTypeSupplier}
		require.NoError(t, c.BeforeCreate(nil))

		assert.NotEmpty(t, c.ID)
		v, err := c.Domains.Value()
		require.NoError(t, err)
		assert.Equal(t, []byte("[]"), v)
	})

	t.Run("client request fields", func(t *testing.T) {
		r := &ClientRequest{}
		require.NoError(t, r.BeforeCreate(nil))

		assert.NotEmpty(t, r.ID)
		v, err := r.Fields.Value()
		require.NoError(t, err)
		assert.Equal(t, "{}", v)
	})

	t.Run("invalid company type", func(t *testing.T) {
		c := &Company{CompanyType: "BROKER"}
		assert.Error(t, c.BeforeCreate(nil))
	})
}

func TestJSONColumnsScan(t *testing.T) {
	var domains datatypes.JSONSlice[string]
	require.NoError(t, domains.Scan([]byte(`["acme.test","acme.io"]`)))
	assert.Equal(t, datatypes.JSONSlice[string]{"acme.test", "acme.io"}, domains)

	var fields datatypes.JSONMap
	require.NoError(t, fields.Scan(`{"colour":"red"}`))
	assert.Equal(t, "red", fields["colour"])

	raw, err := json.Marshal(ClientRequest{ID: "CR1", Fields: fields})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"fields":{"colour":"red"}`)
}
