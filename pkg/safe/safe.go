// Package safe extracts typed values from loosely typed exchange JSON.
// Every accessor takes one or more candidate keys and returns the absent
// value when none of them holds something usable. Nothing here panics on
// malformed input.
package safe

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
	"github.com/volatiletech/null"

	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/types"
)

// Parse parses data, returning nil when it is not valid JSON.
func Parse(data []byte) *fastjson.Value {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil
	}
	return v
}

// Value returns the first non-null value under keys. Array elements are
// addressed by their decimal index.
func Value(v *fastjson.Value, keys ...string) *fastjson.Value {
	if v == nil {
		return nil
	}

	for _, k := range keys {
		if c := v.Get(k); c != nil && c.Type() != fastjson.TypeNull {
			return c
		}
	}
	return nil
}

// Text renders a scalar as text. Numbers keep their exact literal form.
func Text(v *fastjson.Value) string {
	if v == nil {
		return ""
	}

	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return string(v.MarshalTo(nil))
	case fastjson.TypeTrue:
		return "true"
	case fastjson.TypeFalse:
		return "false"
	}
	return ""
}

func String(v *fastjson.Value, keys ...string) string {
	for _, k := range keys {
		if s := Text(Value(v, k)); s != "" {
			return s
		}
	}
	return ""
}

func StringUpper(v *fastjson.Value, keys ...string) string {
	return strings.ToUpper(String(v, keys...))
}

func StringLower(v *fastjson.Value, keys ...string) string {
	return strings.ToLower(String(v, keys...))
}

// Number returns the first key holding a decimal, as a string or a number.
func Number(v *fastjson.Value, keys ...string) types.Number {
	for _, k := range keys {
		if n := types.NewNumber(Text(Value(v, k))); n.IsSet() {
			return n
		}
	}
	return types.Undefined
}

func Integer(v *fastjson.Value, keys ...string) null.Int64 {
	for _, k := range keys {
		s := Text(Value(v, k))
		if s == "" {
			continue
		}

		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return null.Int64From(i)
		}

		if d, ok := precise.Decimal(s); ok {
			return null.Int64From(d.IntPart())
		}
	}
	return null.Int64{}
}

// IntegerProduct multiplies before truncating, e.g. seconds with fractions to milliseconds.
func IntegerProduct(v *fastjson.Value, factor string, keys ...string) null.Int64 {
	for _, k := range keys {
		s := Text(Value(v, k))
		if s == "" {
			continue
		}
		if d, ok := precise.Decimal(precise.Mul(s, factor)); ok {
			return null.Int64From(d.IntPart())
		}
	}
	return null.Int64{}
}

// Timestamp reads seconds and converts them to milliseconds.
func Timestamp(v *fastjson.Value, keys ...string) null.Int64 {
	return IntegerProduct(v, "1000", keys...)
}

// ISO8601 parses an RFC 3339 datetime into milliseconds.
func ISO8601(v *fastjson.Value, keys ...string) null.Int64 {
	for _, k := range keys {
		if ts, ok := types.ParseISO8601(String(v, k)); ok {
			return ts
		}
	}
	return null.Int64{}
}

func Bool(v *fastjson.Value, keys ...string) null.Bool {
	for _, k := range keys {
		c := Value(v, k)
		if c == nil {
			continue
		}

		switch c.Type() {
		case fastjson.TypeTrue:
			return null.BoolFrom(true)
		case fastjson.TypeFalse:
			return null.BoolFrom(false)
		case fastjson.TypeNumber:
			return null.BoolFrom(Text(c) != "0")
		case fastjson.TypeString:
			if b, err := strconv.ParseBool(string(c.GetStringBytes())); err == nil {
				return null.BoolFrom(b)
			}
		}
	}
	return null.Bool{}
}

// Array returns the first array under keys, or the value itself when no key is given.
func Array(v *fastjson.Value, keys ...string) []*fastjson.Value {
	if len(keys) == 0 {
		if v == nil || v.Type() != fastjson.TypeArray {
			return nil
		}
		arr, _ := v.Array()
		return arr
	}

	for _, k := range keys {
		if c := Value(v, k); c != nil && c.Type() == fastjson.TypeArray {
			arr, _ := c.Array()
			return arr
		}
	}
	return nil
}

// Object iterates an object's members in document order.
func Object(v *fastjson.Value, fn func(key string, value *fastjson.Value)) {
	if v == nil || v.Type() != fastjson.TypeObject {
		return
	}

	obj, _ := v.Object()
	obj.Visit(func(key []byte, value *fastjson.Value) {
		fn(string(key), value)
	})
}

// Keys lists an object's keys in document order.
func Keys(v *fastjson.Value) []string {
	var keys []string
	Object(v, func(key string, _ *fastjson.Value) {
		keys = append(keys, key)
	})
	return keys
}

// Raw returns the value's JSON encoding for the Info fields.
func Raw(v *fastjson.Value) json.RawMessage {
	if v == nil {
		return nil
	}
	return json.RawMessage(v.MarshalTo(nil))
}

func IndexBy(values []*fastjson.Value, key string) map[string]*fastjson.Value {
	out := make(map[string]*fastjson.Value, len(values))
	for _, v := range values {
		if k := String(v, key); k != "" {
			out[k] = v
		}
	}
	return out
}

func GroupBy(values []*fastjson.Value, key string) map[string][]*fastjson.Value {
	out := make(map[string][]*fastjson.Value)
	for _, v := range values {
		k := String(v, key)
		out[k] = append(out[k], v)
	}
	return out
}

func IndexByFunc[T any](items []T, keyFn func(T) string) map[string]T {
	out := make(map[string]T, len(items))
	for _, item := range items {
		out[keyFn(item)] = item
	}
	return out
}

func GroupByFunc[T any](items []T, keyFn func(T) string) map[string][]T {
	out := make(map[string][]T)
	for _, item := range items {
		k := keyFn(item)
		out[k] = append(out[k], item)
	}
	return out
}

// PriceLevels parses [[price, amount], ...] or [{priceKey: .., amountKey: ..}, ...].
func PriceLevels(v *fastjson.Value, priceKey, amountKey string) types.PriceLevels {
	levels := types.PriceLevels{}
	for _, row := range Array(v) {
		level := types.PriceLevel{Price: Number(row, priceKey), Amount: Number(row, amountKey)}
		if level.Price.IsSet() && level.Amount.IsSet() {
			levels = append(levels, level)
		}
	}
	return levels
}

// KeyedPriceLevels parses {"price": amount, ...}.
func KeyedPriceLevels(v *fastjson.Value) types.PriceLevels {
	levels := types.PriceLevels{}
	Object(v, func(key string, value *fastjson.Value) {
		level := types.PriceLevel{Price: types.NewNumber(key), Amount: types.NewNumber(Text(value))}
		if level.Price.IsSet() && level.Amount.IsSet() {
			levels = append(levels, level)
		}
	})
	return levels
}
