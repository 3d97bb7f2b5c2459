package safe

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/connectors/pkg/types"
)

func TestAccessors(t *testing.T) {
	v := Parse([]byte(`{
		"id":      10873722343,
		"pair":    "ETHUSDT",
		"price":   "2282.00000000000000000001",
		"qty":     0.002,
		"empty":   null,
		"ts":      1699253400,
		"tsFloat": "1699253400.123",
		"date":    "2023-12-13T11:17:40.296Z",
		"flag":    "true",
		"intFlag": 0,
		"rows":    [["1", "2"], ["3", "4"]]
	}`))
	require.NotNil(t, v)

	assert.Equal(t, "10873722343", String(v, "id"))
	assert.Equal(t, "ETHUSDT", String(v, "missing", "empty", "pair"))
	assert.Equal(t, types.Number("2282.00000000000000000001"), Number(v, "price"))
	assert.Equal(t, types.Number("0.002"), Number(v, "qty"))
	assert.False(t, Number(v, "pair").IsSet())
	assert.Equal(t, int64(10873722343), Integer(v, "id").Int64)
	assert.Equal(t, int64(1699253400000), Timestamp(v, "ts").Int64)
	assert.Equal(t, int64(1699253400123), Timestamp(v, "tsFloat").Int64)
	assert.Equal(t, int64(1702466260296), ISO8601(v, "date").Int64)
	assert.True(t, Bool(v, "flag").Bool)
	assert.True(t, Bool(v, "intFlag").Valid)
	assert.False(t, Bool(v, "intFlag").Bool)
	assert.False(t, Bool(v, "missing").Valid)
	assert.False(t, Integer(v, "empty").Valid)

	rows := Array(v, "rows")
	require.Len(t, rows, 2)
	assert.Equal(t, "3", String(rows[1], "0"))
	assert.Equal(t, types.PriceLevels{{Price: "1", Amount: "2"}, {Price: "3", Amount: "4"}}, PriceLevels(Value(v, "rows"), "0", "1"))

	assert.Nil(t, Parse([]byte("<html>")))
	assert.Equal(t, "", String(nil, "x"))
	assert.Nil(t, Array(nil))
}

func TestKeyedPriceLevels(t *testing.T) {
	v := Parse([]byte(`{"2352.6339":"3.75","2351":1,"bad":"x"}`))
	levels := KeyedPriceLevels(v)
	assert.Equal(t, types.PriceLevels{{Price: "2352.6339", Amount: "3.75"}, {Price: "2351", Amount: "1"}}, levels)
}

func TestIndexAndGroup(t *testing.T) {
	v := Parse([]byte(`[{"pair":"A","side":"buy"},{"pair":"B","side":"buy"},{"pair":"C","side":"sell"}]`))
	items := Array(v)

	index := IndexBy(items, "pair")
	assert.Len(t, index, 3)
	assert.Equal(t, "sell", String(index["C"], "side"))

	groups := GroupBy(items, "side")
	assert.Len(t, groups["buy"], 2)

	byLen := GroupByFunc([]string{"ETH", "USDT", "USD"}, func(s string) string { return strconv.Itoa(len(s)) })
	assert.Len(t, byLen["3"], 2)

	idx := IndexByFunc([]string{"a", "bb"}, func(s string) string { return s })
	assert.Equal(t, "bb", idx["bb"])
}
