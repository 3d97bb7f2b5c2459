package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null"
)

func orderIDs(orders []Order) []string {
	var ids []string
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestFilterOrdersMissingTimestamp(t *testing.T) {
	orders := []Order{
		{ID: "c", Timestamp: null.Int64From(3)},
		{ID: "none"},
		{ID: "a", Timestamp: null.Int64From(1)},
	}

	assert.Equal(t, []string{"none", "a", "c"}, orderIDs(FilterOrders(orders, 0, 0)))
	assert.Equal(t, []string{"a", "c"}, orderIDs(FilterOrders([]Order{
		{ID: "c", Timestamp: null.Int64From(3)},
		{ID: "none"},
		{ID: "a", Timestamp: null.Int64From(1)},
	}, 0, 2)))
}

func TestSortTradesMissingTimestamp(t *testing.T) {
	trades := []Trade{
		{ID: "2", Timestamp: null.Int64From(20)},
		{ID: "x"},
		{ID: "1", Timestamp: null.Int64From(10)},
	}
	SortTrades(trades)

	var ids []string
	for _, trade := range trades {
		ids = append(ids, trade.ID)
	}
	assert.Equal(t, []string{"x", "1", "2"}, ids)
}
