package types

import (
	"encoding/json"
	"sort"

	"github.com/volatiletech/null"
)

type CurrencyLimits struct {
	Amount   MinMax `json:"amount"`
	Withdraw MinMax `json:"withdraw"`
	Deposit  MinMax `json:"deposit"`
}

type Network struct {
	ID        string          `json:"id"`
	Network   string          `json:"network"`
	Active    null.Bool       `json:"active"`
	Deposit   null.Bool       `json:"deposit"`
	Withdraw  null.Bool       `json:"withdraw"`
	Fee       Number          `json:"fee"`
	Precision Number          `json:"precision"`
	Limits    CurrencyLimits  `json:"limits"`
	Info      json.RawMessage `json:"info"`
}

type Currency struct {
	ID        string             `json:"id"`
	Code      string             `json:"code"`
	Name      string             `json:"name"`
	Type      string             `json:"type"`
	Active    null.Bool          `json:"active"`
	Deposit   null.Bool          `json:"deposit"`
	Withdraw  null.Bool          `json:"withdraw"`
	Fee       Number             `json:"fee"`
	Precision Number             `json:"precision"`
	Limits    CurrencyLimits     `json:"limits"`
	Networks  map[string]Network `json:"networks"`
	Info      json.RawMessage    `json:"info"`
}

// CurrencyMap is keyed by unified currency code.
type CurrencyMap map[string]Currency

func (m CurrencyMap) Codes() []string {
	codes := make([]string, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

func (m CurrencyMap) ByID() map[string]Currency {
	out := make(map[string]Currency, len(m))
	for _, c := range m {
		out[c.ID] = c
	}
	return out
}
