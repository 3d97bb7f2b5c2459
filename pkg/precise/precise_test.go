package precise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmeticRoundTrip(t *testing.T) {
	pairs := [][2]string{
		{"12345678901234567890.123456789012", "0.000000000000000000123"},
		{"98765432109876543210987654321", "12345678901234567890.5"},
		{"-0.100000000000000000001", "0.3"},
		{"1", "3"},
	}

	for _, p := range pairs {
		a, b := p[0], p[1]
		assert.Equal(t, Canonical(a), Sub(Add(a, b), b), "add/sub %s %s", a, b)
		assert.Equal(t, Canonical(a), Add(Sub(a, b), b), "sub/add %s %s", a, b)
	}

	// multiplication followed by division is exact while the operand fits the division precision
	a := "1234567890123456789012.123456789012345678"
	b := "98765432109876543210"
	assert.Equal(t, Canonical(a), Div(Mul(a, b), b))
}

func TestAbsentOperands(t *testing.T) {
	assert.Equal(t, "", Add("", "1"))
	assert.Equal(t, "", Sub("1", "abc"))
	assert.Equal(t, "", Mul("", ""))
	assert.Equal(t, "", Div("1", "0"))
	assert.Equal(t, "", Abs(""))
	assert.Equal(t, "2", Max("", "2"))
	assert.Equal(t, "2", Min("2", ""))
	assert.False(t, Equal("", ""))
}

func TestDiv(t *testing.T) {
	assert.Equal(t, "0.333333333333333333", Div("1", "3"))
	assert.Equal(t, "0.33", Div("1", "3", 2))
	assert.Equal(t, "-0.66", Div("-2", "3", 2))
	assert.Equal(t, "0.67", DivRound("2", "3", 2))
}

func TestComparisons(t *testing.T) {
	assert.True(t, Lt("2352.6339", "2354.2861"))
	assert.True(t, Gt("10", "9.99999999999999999999"))
	assert.True(t, Equal("1.50", "1.5"))
	assert.True(t, Le("1", "1.0"))
	assert.True(t, Ge("0", "-0"))
	assert.Equal(t, -1, Compare("", "0"))
	assert.Equal(t, 1, Compare("0.1", "0.01"))
	assert.True(t, IsZero("0.000"))
	assert.True(t, IsNegative("-4.564"))
	assert.Equal(t, "4.564", Abs("-4.564"))
	assert.Equal(t, "-1", Neg("1"))
	assert.Equal(t, "1", Mod("10", "3"))
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "1.5", Canonical("1.500"))
	assert.Equal(t, "0.001", Canonical("1e-3"))
	assert.Equal(t, "100", Canonical("100"))
	assert.Equal(t, "", Canonical("n/a"))
}

func TestPrecisionHelpers(t *testing.T) {
	assert.Equal(t, "0.01", ParsePrecision("2"))
	assert.Equal(t, "1", ParsePrecision("0"))
	assert.Equal(t, "10", ParsePrecision("-1"))
	assert.Equal(t, "", ParsePrecision("x"))

	assert.Equal(t, "3", PrecisionFromString("0.001"))
	assert.Equal(t, "2", PrecisionFromString("0.0100"))
	assert.Equal(t, "0", PrecisionFromString("1"))
	assert.Equal(t, "-1", PrecisionFromString("10"))
}

func TestDecimalToPrecision(t *testing.T) {
	tests := []struct {
		name      string
		x         string
		rounding  Rounding
		precision string
		mode      CountingMode
		padding   Padding
		want      string
	}{
		{"truncate places", "1.23456", Truncate, "3", DecimalPlaces, NoPadding, "1.234"},
		{"round places", "1.23456", Round, "3", DecimalPlaces, NoPadding, "1.235"},
		{"truncate negative", "-1.23456", Truncate, "2", DecimalPlaces, NoPadding, "-1.23"},
		{"negative places", "1234", Truncate, "-2", DecimalPlaces, NoPadding, "1200"},
		{"pad places", "1.2", Truncate, "4", DecimalPlaces, PadWithZero, "1.2000"},
		{"truncate tick", "0.123456", Truncate, "0.0001", TickSize, NoPadding, "0.1234"},
		{"round tick", "0.123456", Round, "0.0001", TickSize, NoPadding, "0.1235"},
		{"odd tick", "1.37", Truncate, "0.25", TickSize, NoPadding, "1.25"},
		{"pad tick", "3", Truncate, "0.01", TickSize, PadWithZero, "3.00"},
		{"integer tick", "2354.2861", Truncate, "1", TickSize, NoPadding, "2354"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecimalToPrecision(tt.x, tt.rounding, tt.precision, tt.mode, tt.padding)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DecimalToPrecision("1", Truncate, "0", TickSize, NoPadding)
	assert.Error(t, err)

	_, err = DecimalToPrecision("", Truncate, "2", DecimalPlaces, NoPadding)
	assert.Error(t, err)
}
