package types

import (
	"encoding/json"

	"github.com/volatiletech/null"
)

// Balance holds whatever the exchange reports; a missing value is never derived from the other two.
type Balance struct {
	Free  Number `json:"free"`
	Used  Number `json:"used"`
	Total Number `json:"total"`
}

type Balances struct {
	Timestamp  null.Int64         `json:"timestamp"`
	Datetime   string             `json:"datetime"`
	Currencies map[string]Balance `json:"currencies"`
	Info       json.RawMessage    `json:"info"`
}

func (b *Balances) Set(code string, balance Balance) {
	if b.Currencies == nil {
		b.Currencies = make(map[string]Balance)
	}
	b.Currencies[code] = balance
}

func (b Balances) Free() map[string]Number {
	out := make(map[string]Number, len(b.Currencies))
	for c, v := range b.Currencies {
		out[c] = v.Free
	}
	return out
}

func (b Balances) Used() map[string]Number {
	out := make(map[string]Number, len(b.Currencies))
	for c, v := range b.Currencies {
		out[c] = v.Used
	}
	return out
}

func (b Balances) Total() map[string]Number {
	out := make(map[string]Number, len(b.Currencies))
	for c, v := range b.Currencies {
		out[c] = v.Total
	}
	return out
}
