package precise

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Rounding int

const (
	Truncate Rounding = iota
	Round
)

// CountingMode selects how a market precision value is interpreted.
type CountingMode int

const (
	// TickSize treats the precision as the smallest step, e.g. "0.001".
	TickSize CountingMode = iota
	// DecimalPlaces treats the precision as a digit count, e.g. "3".
	DecimalPlaces
)

func (m CountingMode) String() string {
	switch m {
	case DecimalPlaces:
		return "decimal_places"
	default:
		return "tick_size"
	}
}

type Padding int

const (
	NoPadding Padding = iota
	PadWithZero
)

// DecimalToPrecision quantizes x to the given precision.
func DecimalToPrecision(x string, rounding Rounding, precision string, mode CountingMode, padding Padding) (string, error) {
	d, ok := parse(x)
	if !ok {
		return "", fmt.Errorf("invalid number %q", x)
	}

	switch mode {
	case DecimalPlaces:
		p, ok := parse(precision)
		if !ok || !p.IsInteger() {
			return "", fmt.Errorf("invalid decimal places %q", precision)
		}

		places := int32(p.IntPart())
		var r decimal.Decimal
		if rounding == Round {
			r = d.Round(places)
		} else {
			step := decimal.New(1, -places)
			q, _ := d.QuoRem(step, 0)
			r = q.Mul(step)
		}

		if padding == PadWithZero && places > 0 {
			return r.StringFixed(places), nil
		}
		return r.String(), nil

	case TickSize:
		tick, ok := parse(precision)
		if !ok || !tick.IsPositive() {
			return "", fmt.Errorf("invalid tick size %q", precision)
		}

		q, _ := d.QuoRem(tick, 0)
		if rounding == Round {
			q = d.DivRound(tick, 0)
		}

		r := q.Mul(tick)
		if padding == PadWithZero {
			if n, ok := parse(PrecisionFromString(precision)); ok && n.IsPositive() {
				return r.StringFixed(int32(n.IntPart())), nil
			}
		}
		return r.String(), nil
	}

	return "", fmt.Errorf("unsupported counting mode %d", mode)
}
