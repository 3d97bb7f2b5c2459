package types

import (
	"strings"

	"github.com/volatiletech/null"
)

// The Safe* builders fill derivable fields and normalize empty collections.
// They never fail: missing inputs leave the derived field absent.

func SafeMarket(m Market) Market {
	if m.Symbol == "" && m.Base != "" && m.Quote != "" {
		m.Symbol = m.Base + "/" + m.Quote
		if m.Settle != "" && m.Contract {
			m.Symbol += ":" + m.Settle
		}
	}

	if m.Type == "" {
		switch {
		case m.Swap:
			m.Type = MarketTypeSwap
		case m.Future:
			m.Type = MarketTypeFuture
		case m.Option:
			m.Type = MarketTypeOption
		default:
			m.Type = MarketTypeSpot
		}
	}

	switch m.Type {
	case MarketTypeSpot:
		m.Spot = true
	case MarketTypeMargin:
		m.Spot, m.Margin = true, true
	case MarketTypeSwap:
		m.Swap, m.Contract = true, true
	case MarketTypeFuture:
		m.Future, m.Contract = true, true
	case MarketTypeOption:
		m.Option, m.Contract = true, true
	}

	if m.Expiry.Valid && m.ExpiryDatetime == "" {
		m.ExpiryDatetime = ISO8601(m.Expiry)
	}

	return m
}

func SafeCurrency(c Currency) Currency {
	if c.Networks == nil {
		c.Networks = map[string]Network{}
	}

	if len(c.Networks) > 0 {
		var anyDeposit, anyWithdraw, anyActive, knownDeposit, knownWithdraw, knownActive bool
		for _, n := range c.Networks {
			if n.Deposit.Valid {
				knownDeposit = true
				anyDeposit = anyDeposit || n.Deposit.Bool
			}
			if n.Withdraw.Valid {
				knownWithdraw = true
				anyWithdraw = anyWithdraw || n.Withdraw.Bool
			}
			if n.Active.Valid {
				knownActive = true
				anyActive = anyActive || n.Active.Bool
			}
		}

		if !c.Deposit.Valid && knownDeposit {
			c.Deposit = null.BoolFrom(anyDeposit)
		}
		if !c.Withdraw.Valid && knownWithdraw {
			c.Withdraw = null.BoolFrom(anyWithdraw)
		}
		if !c.Active.Valid && knownActive {
			c.Active = null.BoolFrom(anyActive)
		}
	}

	if !c.Active.Valid && c.Deposit.Valid && c.Withdraw.Valid {
		c.Active = null.BoolFrom(c.Deposit.Bool && c.Withdraw.Bool)
	}

	return c
}

func SafeTicker(t Ticker) Ticker {
	if !t.Last.IsSet() {
		t.Last = t.Close
	}
	if !t.Close.IsSet() {
		t.Close = t.Last
	}

	if !t.Open.IsSet() && t.Last.IsSet() && t.Change.IsSet() {
		t.Open = t.Last.Sub(t.Change)
	}

	if !t.Change.IsSet() && t.Last.IsSet() && t.Open.IsSet() {
		t.Change = t.Last.Sub(t.Open)
	}

	if !t.Percentage.IsSet() && t.Change.IsSet() && t.Open.IsSet() && !t.Open.IsZero() {
		t.Percentage = t.Change.Div(t.Open).Mul("100")
	}

	if !t.Average.IsSet() && t.Last.IsSet() && t.Open.IsSet() {
		t.Average = t.Last.Add(t.Open).Div("2")
	}

	if !t.Vwap.IsSet() && t.QuoteVolume.IsSet() && t.BaseVolume.IsSet() && !t.BaseVolume.IsZero() {
		t.Vwap = t.QuoteVolume.Div(t.BaseVolume)
	}

	if t.Datetime == "" {
		t.Datetime = ISO8601(t.Timestamp)
	}

	return t
}

func SafeTrade(t Trade) Trade {
	if !t.Cost.IsSet() && t.Price.IsSet() && t.Amount.IsSet() {
		t.Cost = t.Price.Mul(t.Amount)
	}

	if t.Fee != nil && len(t.Fees) == 0 {
		t.Fees = []Fee{*t.Fee}
	}
	if t.Fees == nil {
		t.Fees = []Fee{}
	}

	if t.Datetime == "" {
		t.Datetime = ISO8601(t.Timestamp)
	}

	return t
}

// mergeFees sums fees per currency, keeping first-seen order.
func mergeFees(fees []Fee) []Fee {
	var out []Fee
	index := map[string]int{}
	for _, f := range fees {
		if !f.Cost.IsSet() {
			continue
		}

		key := f.Currency + "|" + f.Rate.String()
		if i, ok := index[key]; ok {
			out[i].Cost = out[i].Cost.Add(f.Cost)
			continue
		}

		index[key] = len(out)
		out = append(out, f)
	}
	return out
}

func SafeOrder(o Order) Order {
	o.Trades = append([]Trade(nil), o.Trades...)
	for i := range o.Trades {
		o.Trades[i] = SafeTrade(o.Trades[i])
		if o.Trades[i].Symbol == "" {
			o.Trades[i].Symbol = o.Symbol
		}
		if o.Trades[i].Order == "" {
			o.Trades[i].Order = o.ID
		}
	}

	if len(o.Trades) > 0 {
		var filled, cost Number = "0", "0"
		var fees []Fee
		for _, t := range o.Trades {
			filled = filled.Add(t.Amount)
			cost = cost.Add(t.Cost)
			fees = append(fees, t.Fees...)
			o.LastTradeTimestamp = MaxTimestamp(o.LastTradeTimestamp, t.Timestamp)
		}

		if !o.Filled.IsSet() {
			o.Filled = filled
		}
		if !o.Cost.IsSet() {
			o.Cost = cost
		}
		if o.Fee == nil && len(o.Fees) == 0 {
			o.Fees = mergeFees(fees)
		}
	}

	if o.Fee != nil && len(o.Fees) == 0 {
		o.Fees = []Fee{*o.Fee}
	}
	if o.Fee == nil && len(o.Fees) == 1 {
		fee := o.Fees[0]
		o.Fee = &fee
	}

	if !o.Amount.IsSet() && o.Filled.IsSet() && o.Remaining.IsSet() {
		o.Amount = o.Filled.Add(o.Remaining)
	}
	if !o.Filled.IsSet() && o.Amount.IsSet() && o.Remaining.IsSet() {
		o.Filled = o.Amount.Sub(o.Remaining)
	}
	if !o.Remaining.IsSet() && o.Amount.IsSet() && o.Filled.IsSet() {
		o.Remaining = o.Amount.Sub(o.Filled)
		if o.Remaining.IsNegative() {
			o.Remaining = "0"
		}
	}

	if !o.Cost.IsSet() && o.Filled.IsSet() {
		switch {
		case o.Average.IsSet():
			o.Cost = o.Average.Mul(o.Filled)
		case o.Price.IsSet():
			o.Cost = o.Price.Mul(o.Filled)
		}
	}

	if !o.Average.IsSet() && o.Cost.IsSet() && o.Filled.IsSet() && !o.Filled.IsZero() {
		o.Average = o.Cost.Div(o.Filled)
	}

	if !o.Price.IsSet() && o.Type == OrderTypeMarket && o.Average.IsSet() {
		o.Price = o.Average
	}

	if o.TimeInForce == "" {
		switch {
		case o.PostOnly.Valid && o.PostOnly.Bool:
			o.TimeInForce = TimeInForcePO
		case o.Type == OrderTypeMarket:
			o.TimeInForce = TimeInForceIOC
		}
	}
	if !o.PostOnly.Valid && o.TimeInForce != "" {
		o.PostOnly = null.BoolFrom(o.TimeInForce == TimeInForcePO)
	}

	if o.Trades == nil {
		o.Trades = []Trade{}
	}
	if o.Fees == nil {
		o.Fees = []Fee{}
	}

	if o.Datetime == "" {
		o.Datetime = ISO8601(o.Timestamp)
	}

	return o
}

func SafeBalances(b Balances) Balances {
	if b.Currencies == nil {
		b.Currencies = map[string]Balance{}
	}
	if b.Datetime == "" {
		b.Datetime = ISO8601(b.Timestamp)
	}
	return b
}

func SafeTransaction(t Transaction) Transaction {
	if t.Address == "" {
		t.Address = t.AddressTo
	}
	if t.Tag == "" {
		t.Tag = t.TagTo
	}
	if t.Fee != nil && !t.Fee.Cost.IsSet() && t.Fee.Currency == "" {
		t.Fee = nil
	}
	if t.Datetime == "" {
		t.Datetime = ISO8601(t.Timestamp)
	}
	return t
}

func SafeLedgerEntry(e LedgerEntry) LedgerEntry {
	if e.Amount.IsSet() && e.Direction != "" {
		delta := e.Amount
		if e.Direction == DirectionOut {
			delta = delta.Neg()
		}

		if !e.Before.IsSet() && e.After.IsSet() {
			e.Before = e.After.Sub(delta)
		}
		if !e.After.IsSet() && e.Before.IsSet() {
			e.After = e.Before.Add(delta)
		}
	}

	if e.Datetime == "" {
		e.Datetime = ISO8601(e.Timestamp)
	}
	return e
}

func SafeTransfer(t Transfer) Transfer {
	if t.Datetime == "" {
		t.Datetime = ISO8601(t.Timestamp)
	}
	return t
}

func SafeDepositAddress(a DepositAddress) DepositAddress {
	a.Address = strings.TrimSpace(a.Address)
	return a
}
