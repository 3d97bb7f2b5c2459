package types

import (
	"encoding/json"

	"github.com/volatiletech/null"
)

type Ticker struct {
	Symbol        string          `json:"symbol"`
	Timestamp     null.Int64      `json:"timestamp"`
	Datetime      string          `json:"datetime"`
	High          Number          `json:"high"`
	Low           Number          `json:"low"`
	Bid           Number          `json:"bid"`
	BidVolume     Number          `json:"bidVolume"`
	Ask           Number          `json:"ask"`
	AskVolume     Number          `json:"askVolume"`
	Vwap          Number          `json:"vwap"`
	Open          Number          `json:"open"`
	Close         Number          `json:"close"`
	Last          Number          `json:"last"`
	PreviousClose Number          `json:"previousClose"`
	Change        Number          `json:"change"`
	Percentage    Number          `json:"percentage"`
	Average       Number          `json:"average"`
	BaseVolume    Number          `json:"baseVolume"`
	QuoteVolume   Number          `json:"quoteVolume"`
	Info          json.RawMessage `json:"info"`
}
