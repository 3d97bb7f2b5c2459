package coinmetro

import (
	"strings"

	"github.com/valyala/fastjson"
	"github.com/volatiletech/null"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/types"
)

var timeInForces = map[string]types.TimeInForce{
	"1": types.TimeInForceGTC,
	"2": types.TimeInForceIOC,
	"3": "GTD",
	"4": types.TimeInForceFOK,
}

var ledgerEntryTypes = map[string]string{
	"Deposit":  "transaction",
	"Withdraw": "transaction",
	"Order":    "trade",
}

func (e *Exchange) parseCurrency(v *fastjson.Value) types.Currency {
	id := safe.String(v, "symbol")
	canTrade := safe.Bool(v, "canTrade")
	withdraw := safe.Bool(v, "canWithdraw")

	active := null.BoolFrom(true)
	if canTrade.Valid && canTrade.Bool {
		active = withdraw
	}

	code := e.SafeCurrencyCode(id)
	return types.SafeCurrency(types.Currency{
		ID:        id,
		Code:      code,
		Name:      code,
		Type:      safe.String(v, "type"),
		Active:    active,
		Deposit:   safe.Bool(v, "canDeposit"),
		Withdraw:  withdraw,
		Precision: types.Number(precise.ParsePrecision(safe.String(v, "digits"))),
		Limits: types.CurrencyLimits{
			Amount: types.MinMax{Min: safe.Number(v, "minQty")},
		},
		Info: safe.Raw(v),
	})
}

func (e *Exchange) parseMarket(v *fastjson.Value, currencies map[string]types.Currency, ids []string) (types.Market, bool) {
	id := safe.String(v, "pair")
	baseID, quoteID, ok := base.SplitMarketID(id, ids)
	if !ok {
		return types.Market{}, false
	}

	baseCurrency, quoteCurrency := currencies[baseID], currencies[quoteID]
	fees := e.Describe().Fees
	return types.SafeMarket(types.Market{
		ID:      id,
		Base:    e.SafeCurrencyCode(baseID),
		Quote:   e.SafeCurrencyCode(quoteID),
		BaseID:  baseID,
		QuoteID: quoteID,
		Type:    types.MarketTypeSpot,
		Margin:  safe.Bool(v, "margin").Bool,
		Taker:   fees.Taker,
		Maker:   fees.Maker,
		Precision: types.Precision{
			Amount: baseCurrency.Precision,
			Price:  quoteCurrency.Precision,
		},
		Limits: types.MarketLimits{
			Amount: types.MinMax{Min: baseCurrency.Limits.Amount.Min},
			Price:  types.MinMax{Min: quoteCurrency.Limits.Amount.Min},
		},
		Info: safe.Raw(v),
	}), true
}

func (e *Exchange) marketByPair(pair string) types.Market {
	if m, ok := e.MarketByID(pair); ok {
		return m
	}
	return types.Market{ID: pair, Symbol: pair}
}

// parseTicker merges a latest price entry with its 24h statistics entry.
func (e *Exchange) parseTicker(latest, daily *fastjson.Value) types.Ticker {
	pair := safe.String(latest, "pair")
	if pair == "" {
		pair = safe.String(daily, "pair")
	}

	ts := safe.Integer(latest, "timestamp")
	return types.SafeTicker(types.Ticker{
		Symbol:      e.marketByPair(pair).Symbol,
		Timestamp:   ts,
		High:        safe.Number(daily, "h"),
		Low:         safe.Number(daily, "l"),
		Bid:         safe.Number(latest, "bid"),
		Ask:         safe.Number(latest, "ask"),
		Last:        safe.Number(latest, "price"),
		Percentage:  types.Number(precise.Mul(safe.String(daily, "delta"), "100")),
		BaseVolume:  safe.Number(daily, "v"),
		QuoteVolume: safe.Number(daily, "toVolume"),
		Info:        safe.Raw(latest),
	})
}

func (e *Exchange) parseTrade(v *fastjson.Value, market *types.Market) types.Trade {
	symbol := e.SafeSymbol(safe.String(v, "pair"), market, "")
	if m, ok := e.MarketByID(safe.String(v, "pair")); ok {
		symbol = m.Symbol
	}

	ts := safe.Integer(v, "timestamp")
	return types.SafeTrade(types.Trade{
		ID:        safe.String(v, "seqNumber", "seqNum"),
		Order:     safe.String(v, "orderID"),
		Timestamp: ts,
		Symbol:    symbol,
		Side:      types.OrderSide(safe.StringLower(v, "side")),
		Price:     safe.Number(v, "price"),
		Amount:    safe.Number(v, "qty"),
		Info:      safe.Raw(v),
	})
}

func parseCandle(v *fastjson.Value) types.OHLCV {
	return types.OHLCV{
		Timestamp: safe.Integer(v, "timestamp").Int64,
		Open:      safe.Number(v, "o"),
		High:      safe.Number(v, "h"),
		Low:       safe.Number(v, "l"),
		Close:     safe.Number(v, "c"),
		Volume:    safe.Number(v, "v"),
	}
}

func (e *Exchange) parseBalances(v *fastjson.Value) types.Balances {
	balances := types.Balances{Info: safe.Raw(v)}
	for _, wallet := range safe.Array(v, "list") {
		code := e.SafeCurrencyCode(safe.String(wallet, "currency"))
		balances.Set(code, types.Balance{
			Used:  safe.Number(wallet, "reserved"),
			Total: safe.Number(wallet, "balance"),
		})
	}
	return types.SafeBalances(balances)
}

// parseLedgerDescription reads "<Type> <reference>" or "<Type> - <reference>".
func parseLedgerDescription(description string) (string, string) {
	parts := strings.Split(description, " ")
	if len(parts) < 2 {
		return "", ""
	}

	kind := parts[0]
	if mapped, ok := ledgerEntryTypes[kind]; ok {
		kind = mapped
	}

	reference := parts[1]
	if reference == "-" {
		reference = ""
		if len(parts) > 2 {
			reference = parts[2]
		}
	}
	return kind, reference
}

func (e *Exchange) parseLedgerEntry(v *fastjson.Value, currencyID string) types.LedgerEntry {
	kind, reference := parseLedgerDescription(safe.String(v, "description"))
	direction, amount := types.SignedAmount(safe.Number(v, "amount"))

	data := safe.Value(v, "JSONdata")
	var fee *types.Fee
	if cost := safe.Number(data, "fees"); cost.IsSet() {
		fee = &types.Fee{Currency: e.SafeCurrencyCode(currencyID), Cost: cost}
	}

	ts := safe.ISO8601(v, "timestamp")
	return types.SafeLedgerEntry(types.LedgerEntry{
		ID:          safe.String(v, "_id"),
		Timestamp:   ts,
		Direction:   direction,
		ReferenceID: reference,
		Type:        kind,
		Currency:    e.SafeCurrencyCode(currencyID),
		Amount:      amount,
		After:       safe.Number(v, "balance"),
		Status:      "ok",
		Fee:         fee,
		Info:        safe.Raw(v),
	})
}

// orderMarket finds the market of an order from its buying and selling currencies.
func (e *Exchange) orderMarket(buying, selling string) (types.Market, bool) {
	if m, ok := e.MarketByID(buying + selling); ok {
		return m, true
	}
	if m, ok := e.MarketByID(selling + buying); ok {
		return m, true
	}
	return types.Market{}, false
}

func (e *Exchange) parseOrder(v *fastjson.Value, market *types.Market) types.Order {
	buying, selling := safe.String(v, "buyingCurrency"), safe.String(v, "sellingCurrency")

	var m types.Market
	if market != nil {
		m = *market
	} else if found, ok := e.orderMarket(buying, selling); ok {
		m = found
	}

	side := types.SideBuy
	amount, cost := safe.Number(v, "buyingQty"), safe.Number(v, "sellingQty")
	filled, filledCost := safe.Number(v, "boughtQty"), safe.Number(v, "soldQty")
	if selling != "" && selling == m.BaseID {
		side = types.SideSell
		amount, cost = cost, amount
		filled, filledCost = filledCost, filled
	}

	orderType := types.OrderType(safe.StringLower(v, "orderType"))
	price := safe.Number(v, "price")
	if !price.IsSet() && orderType == types.OrderTypeLimit && amount.IsSet() && cost.IsSet() && !amount.IsZero() {
		price = cost.Div(amount)
	}

	var trades []types.Trade
	for _, fill := range safe.Array(v, "fills") {
		t := e.parseTrade(fill, &m)
		t.Side = side
		trades = append(trades, t)
	}

	var fee *types.Fee
	if cost := safe.Number(v, "fees"); cost.IsSet() {
		fee = &types.Fee{Currency: e.SafeCurrencyCode(buying), Cost: cost}
	}

	created := safe.Integer(v, "creationTime")
	completed := safe.Integer(v, "completionTime")
	status := types.OrderStatusOpen
	switch {
	case safe.Integer(v, "cancellationTime").Valid:
		status = types.OrderStatusCanceled
	case completed.Valid:
		status = types.OrderStatusClosed
		if amount.IsSet() && filled.IsSet() && filled.Cmp(amount) < 0 {
			status = types.OrderStatusCanceled
		}
	}

	var average types.Number
	if filled.IsSet() && filledCost.IsSet() && !filled.IsZero() {
		average = filledCost.Div(filled)
	}

	return types.SafeOrder(types.Order{
		ID:                  safe.String(v, "orderID", "orderId"),
		Timestamp:           created,
		LastUpdateTimestamp: completed,
		Status:              status,
		Symbol:              m.Symbol,
		Type:                orderType,
		TimeInForce:         timeInForces[safe.String(v, "timeInForce")],
		Side:                side,
		Price:               price,
		TriggerPrice:        safe.Number(v, "stopPrice"),
		Amount:              amount,
		Filled:              filled,
		Cost:                filledCost,
		Average:             average,
		Fee:                 fee,
		Trades:              trades,
		Info:                safe.Raw(v),
	})
}
