// internal/validation/coerce.go
package validation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Coercible is implemented by input types that accept loosely typed JSON
// (form posts send "true", "12.50" and friends as strings). A value that
// could not be coerced is reported by the "coerced" validation tag instead
// of failing the whole decode.
type Coercible interface {
	Coerced() bool
}

var null = []byte("null")

// Bool accepts JSON booleans, numbers and strings. Zero numbers and the
// strings "", "0", "false", "off" and "no" are false; everything else is true.
// This is stricter than plain string truthiness, where only "" is false: a
// form posting "false" for an unchecked box must not store true.
type Bool struct {
	Value   bool
	Set     bool
	Invalid bool
}

// NewBool returns a set Bool.
func NewBool(v bool) Bool { return Bool{Value: v, Set: true} }

func (b *Bool) UnmarshalJSON(data []byte) error {
	*b = Bool{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, null) {
		return nil
	}
	b.Set = true

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		b.Invalid = true
		return nil
	}

	switch v := raw.(type) {
	case bool:
		b.Value = v
	case float64:
		b.Value = v != 0 && !math.IsNaN(v)
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false", "off", "no":
			b.Value = false
		default:
			b.Value = true
		}
	default:
		b.Invalid = true
	}
	return nil
}

func (b Bool) MarshalJSON() ([]byte, error) {
	if !b.Set {
		return null, nil
	}
	return json.Marshal(b.Value)
}

func (b Bool) Coerced() bool { return !b.Invalid }

// Ptr returns nil when the value was absent or null.
func (b Bool) Ptr() *bool {
	if !b.Set {
		return nil
	}
	v := b.Value
	return &v
}

// Int accepts JSON numbers and numeric strings holding an integer.
type Int struct {
	Value   int
	Set     bool
	Invalid bool
}

// NewInt returns a set Int.
func NewInt(v int) Int { return Int{Value: v, Set: true} }

func (i *Int) UnmarshalJSON(data []byte) error {
	*i = Int{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, null) {
		return nil
	}
	i.Set = true

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		i.Invalid = true
		return nil
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			// An empty form field coerces to zero.
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			i.Invalid = true
			return nil
		}
		f = parsed
	default:
		i.Invalid = true
		return nil
	}

	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		i.Invalid = true
		return nil
	}
	i.Value = int(f)
	return nil
}

func (i Int) MarshalJSON() ([]byte, error) {
	if !i.Set {
		return null, nil
	}
	return json.Marshal(i.Value)
}

func (i Int) Coerced() bool { return !i.Invalid }

// Decimal accepts JSON numbers and numeric strings. Null and the empty string
// leave it unset, which maps to SQL NULL.
type Decimal struct {
	Value   decimal.Decimal
	Set     bool
	Invalid bool
}

// NewDecimal returns a set Decimal parsed from s. It panics on malformed input
// and is meant for tests and constants.
func NewDecimal(s string) Decimal {
	return Decimal{Value: decimal.RequireFromString(s), Set: true}
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	*d = Decimal{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, null) {
		return nil
	}

	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		d.Invalid = true
		d.Set = true
		return nil
	}

	var s string
	switch v := raw.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
		if s == "" {
			return nil
		}
	default:
		d.Invalid = true
		d.Set = true
		return nil
	}

	value, err := decimal.NewFromString(s)
	d.Set = true
	if err != nil {
		d.Invalid = true
		return nil
	}
	d.Value = value
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	if !d.Set {
		return null, nil
	}
	return json.Marshal(d.Value)
}

func (d Decimal) Coerced() bool { return !d.Invalid }

// Null converts to the nullable column type used by the models.
func (d Decimal) Null() decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d.Value, Valid: d.Set && !d.Invalid}
}
