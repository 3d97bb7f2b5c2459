// Package precise implements arbitrary precision decimal arithmetic over
// canonical decimal strings. Exchanges report prices and quantities as
// strings; every derived value in this module goes through here instead of
// float64.
//
// An empty string is the absent value: any operation with an absent or
// unparseable operand returns "".
package precise

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDivisionPrecision is the number of fractional digits kept by Div.
const DefaultDivisionPrecision int32 = 18

func parse(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

func parse2(a, b string) (decimal.Decimal, decimal.Decimal, bool) {
	da, ok := parse(a)
	if !ok {
		return da, da, false
	}

	db, ok := parse(b)
	if !ok {
		return da, db, false
	}

	return da, db, true
}

// Decimal parses s into a decimal.Decimal.
func Decimal(s string) (decimal.Decimal, bool) {
	return parse(s)
}

// FromDecimal renders d in canonical form.
func FromDecimal(d decimal.Decimal) string {
	return d.String()
}

// Valid reports whether s is a parseable decimal.
func Valid(s string) bool {
	_, ok := parse(s)
	return ok
}

// Canonical strips redundant zeros and exponent notation: "1.500" -> "1.5", "1e-3" -> "0.001".
func Canonical(s string) string {
	d, ok := parse(s)
	if !ok {
		return ""
	}

	return d.String()
}

func Add(a, b string) string {
	da, db, ok := parse2(a, b)
	if !ok {
		return ""
	}

	return da.Add(db).String()
}

func Sub(a, b string) string {
	da, db, ok := parse2(a, b)
	if !ok {
		return ""
	}

	return da.Sub(db).String()
}

func Mul(a, b string) string {
	da, db, ok := parse2(a, b)
	if !ok {
		return ""
	}

	return da.Mul(db).String()
}

// Div divides a by b, truncating the quotient toward zero at the given
// number of fractional digits (DefaultDivisionPrecision when omitted).
// Division by zero yields the absent value.
func Div(a, b string, precision ...int32) string {
	da, db, ok := parse2(a, b)
	if !ok || db.IsZero() {
		return ""
	}

	p := DefaultDivisionPrecision
	if len(precision) > 0 {
		p = precision[0]
	}

	q, _ := da.QuoRem(db, p)
	return q.String()
}

// DivRound divides a by b rounding half away from zero at the given number of fractional digits.
func DivRound(a, b string, precision int32) string {
	da, db, ok := parse2(a, b)
	if !ok || db.IsZero() {
		return ""
	}

	return da.DivRound(db, precision).String()
}

func Mod(a, b string) string {
	da, db, ok := parse2(a, b)
	if !ok || db.IsZero() {
		return ""
	}

	return da.Mod(db).String()
}

func Abs(a string) string {
	d, ok := parse(a)
	if !ok {
		return ""
	}

	return d.Abs().String()
}

func Neg(a string) string {
	d, ok := parse(a)
	if !ok {
		return ""
	}

	return d.Neg().String()
}

// Min returns the smaller operand. An absent operand yields the other one.
func Min(a, b string) string {
	da, db, ok := parse2(a, b)
	if !ok {
		if Valid(a) {
			return Canonical(a)
		}
		return Canonical(b)
	}

	if da.LessThan(db) {
		return da.String()
	}
	return db.String()
}

// Max returns the larger operand. An absent operand yields the other one.
func Max(a, b string) string {
	da, db, ok := parse2(a, b)
	if !ok {
		if Valid(a) {
			return Canonical(a)
		}
		return Canonical(b)
	}

	if da.GreaterThan(db) {
		return da.String()
	}
	return db.String()
}

// Compare returns -1, 0 or +1. Absent values sort before everything else.
func Compare(a, b string) int {
	da, aok := parse(a)
	db, bok := parse(b)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}

	return da.Cmp(db)
}

func Equal(a, b string) bool {
	da, db, ok := parse2(a, b)
	return ok && da.Equal(db)
}

func Lt(a, b string) bool {
	da, db, ok := parse2(a, b)
	return ok && da.LessThan(db)
}

func Le(a, b string) bool {
	da, db, ok := parse2(a, b)
	return ok && da.LessThanOrEqual(db)
}

func Gt(a, b string) bool {
	da, db, ok := parse2(a, b)
	return ok && da.GreaterThan(db)
}

func Ge(a, b string) bool {
	da, db, ok := parse2(a, b)
	return ok && da.GreaterThanOrEqual(db)
}

func IsZero(a string) bool {
	d, ok := parse(a)
	return ok && d.IsZero()
}

func IsNegative(a string) bool {
	d, ok := parse(a)
	return ok && d.IsNegative()
}

// Pow10 returns 10^exp as a decimal string, e.g. Pow10(-3) == "0.001".
func Pow10(exp int32) string {
	return decimal.New(1, exp).String()
}

// ParsePrecision converts a number of decimal places into a tick size:
// "2" -> "0.01", "0" -> "1", "-1" -> "10".
func ParsePrecision(digits string) string {
	n, err := strconv.Atoi(strings.TrimSpace(digits))
	if err != nil {
		return ""
	}

	return Pow10(int32(-n))
}

// PrecisionFromString counts the significant fractional digits of a tick size:
// "0.001" -> "3", "0.0100" -> "2", "10" -> "-1".
func PrecisionFromString(tick string) string {
	d, ok := parse(tick)
	if !ok || d.IsZero() {
		return ""
	}

	s := d.String()
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return strconv.Itoa(len(s) - i - 1)
	}

	zeros := len(s) - len(strings.TrimRight(s, "0"))
	return strconv.Itoa(-zeros)
}
