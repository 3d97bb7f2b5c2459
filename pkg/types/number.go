package types

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/c9s/connectors/pkg/precise"
)

// Number is a decimal value kept in the exact textual form reported by the
// exchange (or produced by pkg/precise). The zero value is the absent value.
type Number string

const Undefined Number = ""

// NewNumber returns s, trimmed but otherwise in the exchange's own text, or
// Undefined when s is not a decimal.
func NewNumber(s string) Number {
	s = strings.TrimSpace(s)
	if !precise.Valid(s) {
		return Undefined
	}
	return Number(s)
}

func NumberFromInt(i int64) Number {
	return Number(strconv.FormatInt(i, 10))
}

func NumberFromDecimal(d decimal.Decimal) Number {
	return Number(d.String())
}

func (n Number) IsSet() bool { return n != Undefined }

func (n Number) String() string { return string(n) }

func (n Number) Decimal() (decimal.Decimal, bool) {
	return precise.Decimal(string(n))
}

// Float64 converts on request; absent values convert to 0.
func (n Number) Float64() float64 {
	d, ok := n.Decimal()
	if !ok {
		return 0
	}
	f, _ := d.Float64()
	return f
}

func (n Number) Int64() int64 {
	d, ok := n.Decimal()
	if !ok {
		return 0
	}
	return d.IntPart()
}

func (n Number) Canonical() Number { return Number(precise.Canonical(string(n))) }

func (n Number) Add(m Number) Number { return Number(precise.Add(string(n), string(m))) }

func (n Number) Sub(m Number) Number { return Number(precise.Sub(string(n), string(m))) }

func (n Number) Mul(m Number) Number { return Number(precise.Mul(string(n), string(m))) }

func (n Number) Div(m Number) Number { return Number(precise.Div(string(n), string(m))) }

func (n Number) Abs() Number { return Number(precise.Abs(string(n))) }

func (n Number) Neg() Number { return Number(precise.Neg(string(n))) }

func (n Number) Cmp(m Number) int { return precise.Compare(string(n), string(m)) }

func (n Number) Eq(m Number) bool { return precise.Equal(string(n), string(m)) }

func (n Number) IsZero() bool { return precise.IsZero(string(n)) }

func (n Number) IsNegative() bool { return precise.IsNegative(string(n)) }

// Or returns n, or fallback when n is absent.
func (n Number) Or(fallback Number) Number {
	if n.IsSet() {
		return n
	}
	return fallback
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.IsSet() {
		return []byte("null"), nil
	}

	if json.Valid([]byte(n)) {
		return []byte(n), nil
	}

	return []byte(precise.Canonical(string(n))), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*n = Undefined
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*n = NewNumber(str)
		return nil
	}

	*n = NewNumber(s)
	return nil
}

// FirstNumber returns the first set value.
func FirstNumber(values ...Number) Number {
	for _, v := range values {
		if v.IsSet() {
			return v
		}
	}
	return Undefined
}
