package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/dangerclosesec/liaison/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolCoercion(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		invalid bool
	}{
		{`true`, true, false},
		{`false`, false, false},
		{`1`, true, false},
		{`0`, false, false},
		{`"on"`, true, false},
		{`"off"`, false, false},
		{`"FALSE"`, false, false},
		{`""`, false, false},
		{`"yes"`, true, false},
		{`"no"`, false, false},
		{`"0"`, false, false},
		{`"anything"`, true, false},
		{`[]`, false, true},
		{`{}`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var b Bool
			require.NoError(t, json.Unmarshal([]byte(tt.in), &b))
			assert.True(t, b.Set)
			assert.Equal(t, tt.want, b.Value)
			assert.Equal(t, tt.invalid, b.Invalid)
		})
	}
}

func TestIntCoercion(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		invalid bool
	}{
		{`3`, 3, false},
		{`"42"`, 42, false},
		{`" 7 "`, 7, false},
		{`""`, 0, false},
		{`"abc"`, 0, true},
		{`1.5`, 0, true},
		{`true`, 0, true},
		{`1e12`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var i Int
			require.NoError(t, json.Unmarshal([]byte(tt.in), &i))
			assert.Equal(t, tt.want, i.Value)
			assert.Equal(t, tt.invalid, i.Invalid)
		})
	}
}

func TestDecimalCoercion(t *testing.T) {
	var d Decimal
	require.NoError(t, json.Unmarshal([]byte(`"12.50"`), &d))
	assert.True(t, d.Null().Valid)
	assert.Equal(t, "12.5", d.Value.String())

	require.NoError(t, json.Unmarshal([]byte(`0.1`), &d))
	assert.Equal(t, "0.1", d.Value.String())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.False(t, d.Set)
	assert.False(t, d.Null().Valid)

	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.False(t, d.Set)

	require.NoError(t, json.Unmarshal([]byte(`"twelve"`), &d))
	assert.True(t, d.Invalid)
	assert.False(t, d.Null().Valid)
}

type Inner struct {
	Title string `json:"title" validate:"required"`
}

type params struct {
	ID      string   `json:"id" validate:"required"`
	Counter Int      `json:"counter" validate:"required,coerced"`
	Price   Decimal  `json:"price" validate:"coerced,money"`
	Email   string   `json:"email" validate:"omitempty,email"`
	Domains []string `json:"domains" validate:"omitempty,dive,fqdn"`
	Inner
}

func TestStructMessagesKeyedByJSONName(t *testing.T) {
	v := New()

	var p params
	require.NoError(t, json.Unmarshal([]byte(`{"counter":"x","price":"123456789012.00","email":"nope","domains":["acme.test","not a domain"]}`), &p))

	err := v.Struct(p)

	require.True(t, errors.Is(err, domain.ErrValidation))
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))

	assert.Equal(t, []string{"id is a required field"}, verr.Fields["id"])
	assert.Equal(t, []string{"counter has an invalid value"}, verr.Fields["counter"])
	assert.Equal(t, []string{"price must have at most ten integer digits"}, verr.Fields["price"])
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "domains[1]")
	assert.NotContains(t, verr.Fields, "domains[0]")
	assert.Equal(t, []string{"title is a required field"}, verr.Fields["title"])
}

func TestStructAcceptsZeroCounter(t *testing.T) {
	p := params{ID: "CR1", Counter: NewInt(0), Inner: Inner{Title: "t"}}

	assert.NoError(t, New().Struct(p))
}

func TestID(t *testing.T) {
	assert.NoError(t, ID("CR1"))

	var verr *domain.ValidationError
	require.True(t, errors.As(ID("  "), &verr))
	assert.Equal(t, []string{"id is a required field"}, verr.Fields["id"])
}
