package testhelper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c9s/connectors/pkg/types"
)

// PriceLevels builds price levels from "price:amount" pairs.
func PriceLevels(pairs ...string) types.PriceLevels {
	levels := make(types.PriceLevels, 0, len(pairs))
	for _, pair := range pairs {
		var price, amount string
		for i := 0; i < len(pair); i++ {
			if pair[i] == ':' {
				price, amount = pair[:i], pair[i+1:]
				break
			}
		}
		if price == "" {
			panic(fmt.Errorf("invalid price level %q, expecting price:amount", pair))
		}

		levels = append(levels, types.PriceLevel{Price: types.Number(price), Amount: types.Number(amount)})
	}
	return levels
}

// AssertOrderBookSorted asserts bids are sorted from the highest price and
// asks from the lowest, without duplicated prices.
func AssertOrderBookSorted(t *testing.T, book *types.OrderBook) bool {
	ok := true
	for i := 1; i < len(book.Bids); i++ {
		ok = assert.Truef(t, book.Bids[i-1].Price.Cmp(book.Bids[i].Price) > 0,
			"bid #%d %s should be below %s", i, book.Bids[i].Price, book.Bids[i-1].Price) && ok
	}

	for i := 1; i < len(book.Asks); i++ {
		ok = assert.Truef(t, book.Asks[i-1].Price.Cmp(book.Asks[i].Price) < 0,
			"ask #%d %s should be above %s", i, book.Asks[i].Price, book.Asks[i-1].Price) && ok
	}
	return ok
}
