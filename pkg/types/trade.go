package types

import (
	"encoding/json"
	"sort"

	"github.com/volatiletech/null"
)

type TakerOrMaker string

const (
	Taker TakerOrMaker = "taker"
	Maker TakerOrMaker = "maker"
)

type Trade struct {
	ID           string          `json:"id"`
	Order        string          `json:"order"`
	Timestamp    null.Int64      `json:"timestamp"`
	Datetime     string          `json:"datetime"`
	Symbol       string          `json:"symbol"`
	Type         OrderType       `json:"type"`
	Side         OrderSide       `json:"side"`
	TakerOrMaker TakerOrMaker    `json:"takerOrMaker"`
	Price        Number          `json:"price"`
	Amount       Number          `json:"amount"`
	Cost         Number          `json:"cost"`
	Fee          *Fee            `json:"fee"`
	Fees         []Fee           `json:"fees"`
	Info         json.RawMessage `json:"info"`
}

// SortTrades orders trades oldest first; trades without a timestamp go first.
func SortTrades(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return timestampLess(trades[i].Timestamp, trades[j].Timestamp)
	})
}

// FilterTrades applies the since/limit window used by the fetch methods.
func FilterTrades(trades []Trade, since int64, limit int) []Trade {
	return window(trades, func(t Trade) null.Int64 { return t.Timestamp }, since, limit)
}
