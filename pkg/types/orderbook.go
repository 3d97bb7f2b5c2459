package types

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/volatiletech/null"
)

// PriceLevel marshals as the [price, amount] pair.
type PriceLevel struct {
	Price  Number
	Amount Number
}

func (p PriceLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]Number{p.Price, p.Amount})
}

func (p *PriceLevel) UnmarshalJSON(data []byte) error {
	var pair []Number
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) < 2 {
		return fmt.Errorf("invalid price level %s", data)
	}
	p.Price, p.Amount = pair[0], pair[1]
	return nil
}

type PriceLevels []PriceLevel

// SortDesc sorts by price, highest first.
func (s PriceLevels) SortDesc() {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Price.Cmp(s[j].Price) > 0 })
}

// SortAsc sorts by price, lowest first.
func (s PriceLevels) SortAsc() {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Price.Cmp(s[j].Price) < 0 })
}

type OrderBook struct {
	Symbol    string      `json:"symbol"`
	Bids      PriceLevels `json:"bids"`
	Asks      PriceLevels `json:"asks"`
	Timestamp null.Int64  `json:"timestamp"`
	Datetime  string      `json:"datetime"`
	Nonce     null.Int64  `json:"nonce"`
}

func (b OrderBook) BestBid() (PriceLevel, bool) {
	if len(b.Bids) == 0 {
		return PriceLevel{}, false
	}
	return b.Bids[0], true
}

func (b OrderBook) BestAsk() (PriceLevel, bool) {
	if len(b.Asks) == 0 {
		return PriceLevel{}, false
	}
	return b.Asks[0], true
}

// NewOrderBook sorts both sides and cuts them to limit when limit > 0.
func NewOrderBook(symbol string, bids, asks PriceLevels, timestamp null.Int64, limit int) OrderBook {
	if bids == nil {
		bids = PriceLevels{}
	}
	if asks == nil {
		asks = PriceLevels{}
	}

	bids.SortDesc()
	asks.SortAsc()

	if limit > 0 {
		if len(bids) > limit {
			bids = bids[:limit]
		}
		if len(asks) > limit {
			asks = asks[:limit]
		}
	}

	return OrderBook{
		Symbol:    symbol,
		Bids:      bids,
		Asks:      asks,
		Timestamp: timestamp,
		Datetime:  ISO8601(timestamp),
	}
}
