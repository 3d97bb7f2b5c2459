package types

import (
	"encoding/json"
	"sort"

	"github.com/volatiletech/null"
)

type MarketType string

const (
	MarketTypeSpot   MarketType = "spot"
	MarketTypeMargin MarketType = "margin"
	MarketTypeSwap   MarketType = "swap"
	MarketTypeFuture MarketType = "future"
	MarketTypeOption MarketType = "option"
)

type MinMax struct {
	Min Number `json:"min"`
	Max Number `json:"max"`
}

type MarketLimits struct {
	Amount   MinMax `json:"amount"`
	Price    MinMax `json:"price"`
	Cost     MinMax `json:"cost"`
	Leverage MinMax `json:"leverage"`
}

// Precision values are tick sizes or digit counts depending on the exchange precision mode.
type Precision struct {
	Amount Number `json:"amount"`
	Price  Number `json:"price"`
	Cost   Number `json:"cost"`
	Base   Number `json:"base"`
	Quote  Number `json:"quote"`
}

type Market struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Base     string `json:"base"`
	Quote    string `json:"quote"`
	Settle   string `json:"settle"`
	BaseID   string `json:"baseId"`
	QuoteID  string `json:"quoteId"`
	SettleID string `json:"settleId"`

	Type   MarketType `json:"type"`
	Spot   bool       `json:"spot"`
	Margin bool       `json:"margin"`
	Swap   bool       `json:"swap"`
	Future bool       `json:"future"`
	Option bool       `json:"option"`
	Active null.Bool  `json:"active"`

	Contract       bool       `json:"contract"`
	Linear         null.Bool  `json:"linear"`
	Inverse        null.Bool  `json:"inverse"`
	ContractSize   Number     `json:"contractSize"`
	Expiry         null.Int64 `json:"expiry"`
	ExpiryDatetime string     `json:"expiryDatetime"`
	Strike         Number     `json:"strike"`
	OptionType     string     `json:"optionType"`

	Taker Number `json:"taker"`
	Maker Number `json:"maker"`

	Precision Precision    `json:"precision"`
	Limits    MarketLimits `json:"limits"`
	Created   null.Int64   `json:"created"`

	Info json.RawMessage `json:"info"`
}

// MarketMap is keyed by unified symbol.
type MarketMap map[string]Market

func (m MarketMap) Symbols() []string {
	symbols := make([]string, 0, len(m))
	for s := range m {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// ByID indexes markets by exchange id; one id may map to several markets.
func (m MarketMap) ByID() map[string][]Market {
	out := make(map[string][]Market, len(m))
	for _, symbol := range m.Symbols() {
		market := m[symbol]
		out[market.ID] = append(out[market.ID], market)
	}
	return out
}
