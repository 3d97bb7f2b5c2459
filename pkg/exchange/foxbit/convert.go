package foxbit

import (
	"strings"

	"github.com/valyala/fastjson"
	"github.com/volatiletech/null"

	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/types"
)

var orderStatuses = map[string]types.OrderStatus{
	"ACTIVE":             types.OrderStatusOpen,
	"PARTIALLY_FILLED":   types.OrderStatusOpen,
	"PENDING_CANCEL":     types.OrderStatusOpen,
	"FILLED":             types.OrderStatusClosed,
	"PARTIALLY_CANCELED": types.OrderStatusCanceled,
	"CANCELED":           types.OrderStatusCanceled,
}

var orderTypes = map[string]types.OrderType{
	"LIMIT":       types.OrderTypeLimit,
	"MARKET":      types.OrderTypeMarket,
	"INSTANT":     types.OrderTypeMarket,
	"STOP_LIMIT":  types.OrderTypeLimit,
	"STOP_MARKET": types.OrderTypeMarket,
}

var transactionStatuses = map[string]types.TransactionStatus{
	"SUBMITTING": types.TransactionPending,
	"SUBMITTED":  types.TransactionPending,
	"PROCESSING": types.TransactionPending,
	"PENDING":    types.TransactionPending,
	"ACCEPTED":   types.TransactionOK,
	"CONFIRMED":  types.TransactionOK,
	"COMPLETED":  types.TransactionOK,
	"REJECTED":   types.TransactionFailed,
	"FAILED":     types.TransactionFailed,
	"CANCELED":   types.TransactionCanceled,
}

var ledgerEntryTypes = map[string]string{
	"TRADE":      "trade",
	"DEPOSIT":    "transaction",
	"WITHDRAWAL": "transaction",
	"FEE":        "fee",
	"REBATE":     "rebate",
	"TRANSFER":   "transfer",
}

func (e *Exchange) parseCurrency(v *fastjson.Value) types.Currency {
	id := safe.String(v, "symbol")
	deposit := safe.Value(v, "deposit_info")
	withdraw := safe.Value(v, "withdraw_info")

	return types.SafeCurrency(types.Currency{
		ID:        id,
		Code:      e.SafeCurrencyCode(id),
		Name:      safe.String(v, "name"),
		Type:      strings.ToLower(safe.String(v, "type")),
		Active:    null.BoolFrom(true),
		Deposit:   safe.Bool(deposit, "enabled"),
		Withdraw:  safe.Bool(withdraw, "enabled"),
		Fee:       safe.Number(withdraw, "fee"),
		Precision: types.Number(precise.ParsePrecision(safe.String(v, "precision"))),
		Limits: types.CurrencyLimits{
			Deposit:  types.MinMax{Min: safe.Number(deposit, "min_amount")},
			Withdraw: types.MinMax{Min: safe.Number(withdraw, "min_amount")},
		},
		Info: safe.Raw(v),
	})
}

func (e *Exchange) parseMarket(v *fastjson.Value) types.Market {
	baseID := safe.String(safe.Value(v, "base"), "symbol")
	quoteID := safe.String(safe.Value(v, "quote"), "symbol")

	fees := e.Describe().Fees
	return types.SafeMarket(types.Market{
		ID:      safe.String(v, "symbol"),
		Base:    e.SafeCurrencyCode(baseID),
		Quote:   e.SafeCurrencyCode(quoteID),
		BaseID:  baseID,
		QuoteID: quoteID,
		Type:    types.MarketTypeSpot,
		Active:  null.BoolFrom(true),
		Maker:   fees.Maker,
		Taker:   fees.Taker,
		Precision: types.Precision{
			Amount: safe.Number(v, "quantity_increment"),
			Price:  safe.Number(v, "price_increment"),
		},
		Limits: types.MarketLimits{
			Amount: types.MinMax{Min: safe.Number(v, "quantity_min")},
			Price:  types.MinMax{Min: safe.Number(v, "price_min")},
		},
		Info: safe.Raw(v),
	})
}

func (e *Exchange) parseTicker(v *fastjson.Value, market *types.Market) types.Ticker {
	rolling := safe.Value(v, "rolling_24h")
	best := safe.Value(v, "best")
	lastTrade := safe.Value(v, "last_trade")

	return types.SafeTicker(types.Ticker{
		Symbol:      e.SafeSymbol(safe.String(v, "market_symbol"), market, ""),
		Timestamp:   safe.ISO8601(lastTrade, "date"),
		High:        safe.Number(rolling, "high"),
		Low:         safe.Number(rolling, "low"),
		Open:        safe.Number(rolling, "open"),
		Bid:         safe.Number(safe.Value(best, "bid"), "price"),
		BidVolume:   safe.Number(safe.Value(best, "bid"), "volume"),
		Ask:         safe.Number(safe.Value(best, "ask"), "price"),
		AskVolume:   safe.Number(safe.Value(best, "ask"), "volume"),
		Last:        safe.Number(lastTrade, "price"),
		Change:      safe.Number(rolling, "price_change"),
		Percentage:  safe.Number(rolling, "price_change_percent"),
		BaseVolume:  safe.Number(rolling, "volume"),
		QuoteVolume: safe.Number(rolling, "quote_volume"),
		Info:        safe.Raw(v),
	})
}

// parseTrade handles both the public history rows and the private fills.
func (e *Exchange) parseTrade(v *fastjson.Value, market *types.Market) types.Trade {
	side := strings.ToLower(safe.String(v, "side", "taker_side"))

	var takerOrMaker types.TakerOrMaker
	if maker := safe.Bool(v, "maker"); maker.Valid {
		takerOrMaker = types.Taker
		if maker.Bool {
			takerOrMaker = types.Maker
		}
	}

	var fee *types.Fee
	if cost := safe.Number(v, "fee"); cost.IsSet() {
		fee = &types.Fee{Currency: e.SafeCurrencyCode(safe.String(v, "fee_currency_symbol")), Cost: cost}
	}

	return types.SafeTrade(types.Trade{
		ID:           safe.String(v, "id"),
		Order:        safe.String(v, "order_id"),
		Timestamp:    safe.ISO8601(v, "created_at"),
		Symbol:       e.SafeSymbol(safe.String(v, "market_symbol"), market, ""),
		Side:         types.OrderSide(side),
		TakerOrMaker: takerOrMaker,
		Price:        safe.Number(v, "price"),
		Amount:       safe.Number(v, "volume", "quantity"),
		Fee:          fee,
		Info:         safe.Raw(v),
	})
}

// parseCandle reads [openTime, open, high, low, close, closeTime, volume, ...].
func parseCandle(v *fastjson.Value) types.OHLCV {
	row := safe.Array(v)
	at := func(i int) types.Number {
		if i >= len(row) {
			return types.Undefined
		}
		return types.NewNumber(safe.Text(row[i]))
	}

	return types.OHLCV{
		Timestamp: at(0).Int64(),
		Open:      at(1),
		High:      at(2),
		Low:       at(3),
		Close:     at(4),
		Volume:    at(6),
	}
}

func (e *Exchange) parseBalances(v *fastjson.Value) types.Balances {
	balances := types.Balances{Info: safe.Raw(v)}
	for _, item := range safe.Array(v) {
		balances.Set(e.SafeCurrencyCode(safe.String(item, "currency_symbol")), types.Balance{
			Free:  safe.Number(item, "balance_available"),
			Used:  safe.Number(item, "balance_locked"),
			Total: safe.Number(item, "balance"),
		})
	}
	return types.SafeBalances(balances)
}

func (e *Exchange) parseOrder(v *fastjson.Value, market *types.Market) types.Order {
	var fee *types.Fee
	if cost := safe.Number(v, "fee_paid"); cost.IsSet() {
		fee = &types.Fee{Cost: cost}
		if market != nil {
			fee.Currency = market.Quote
		}
	}

	postOnly := safe.Bool(v, "post_only")
	return types.SafeOrder(types.Order{
		ID:            safe.String(v, "id"),
		ClientOrderID: safe.String(v, "client_order_id"),
		Timestamp:     safe.ISO8601(v, "created_at"),
		Status:        types.ParseStatus(orderStatuses, safe.String(v, "state")),
		Symbol:        e.SafeSymbol(safe.String(v, "market_symbol"), market, ""),
		Type:          orderTypes[safe.String(v, "type")],
		TimeInForce:   types.TimeInForce(safe.String(v, "time_in_force")),
		PostOnly:      postOnly,
		Side:          types.OrderSide(strings.ToLower(safe.String(v, "side"))),
		Price:         safe.Number(v, "price"),
		TriggerPrice:  safe.Number(v, "stop_price"),
		Amount:        safe.Number(v, "quantity"),
		Filled:        safe.Number(v, "quantity_executed"),
		Average:       safe.Number(v, "price_avg"),
		Fee:           fee,
		Info:          safe.Raw(v),
	})
}

func (e *Exchange) parseTransaction(v *fastjson.Value, kind types.TransactionType) types.Transaction {
	code := e.SafeCurrencyCode(safe.String(v, "currency_symbol"))
	details := safe.Value(v, "details_crypto")

	var fee *types.Fee
	if cost := safe.Number(v, "fee"); cost.IsSet() {
		fee = &types.Fee{Currency: code, Cost: cost}
	}

	address := safe.String(details, "receiving_address", "destination_address")
	return types.SafeTransaction(types.Transaction{
		ID:        safe.String(v, "sn", "id"),
		TxID:      safe.String(details, "transaction_id"),
		Timestamp: safe.ISO8601(v, "created_at"),
		Network:   safe.String(details, "network_code"),
		Address:   address,
		AddressTo: address,
		Tag:       safe.String(details, "destination_tag"),
		Type:      kind,
		Amount:    safe.Number(v, "amount"),
		Currency:  code,
		Status:    types.ParseStatus(transactionStatuses, safe.String(v, "state")),
		Fee:       fee,
		Info:      safe.Raw(v),
	})
}

func (e *Exchange) parseLedgerEntry(v *fastjson.Value) types.LedgerEntry {
	direction, amount := types.SignedAmount(safe.Number(v, "amount"))
	code := e.SafeCurrencyCode(safe.String(v, "currency_symbol"))

	var fee *types.Fee
	if cost := safe.Number(v, "fee"); cost.IsSet() {
		fee = &types.Fee{Currency: code, Cost: cost}
	}

	after := safe.Number(v, "balance")
	before := types.Undefined
	if after.IsSet() && amount.IsSet() {
		if direction == types.DirectionOut {
			before = after.Add(amount)
		} else {
			before = after.Sub(amount)
		}
	}

	return types.SafeLedgerEntry(types.LedgerEntry{
		ID:          safe.String(v, "uuid"),
		Timestamp:   safe.ISO8601(v, "created_at"),
		Direction:   direction,
		ReferenceID: safe.String(v, "reference_id"),
		Type:        types.ParseStatus(ledgerEntryTypes, safe.String(v, "reason_type")),
		Currency:    code,
		Amount:      amount,
		Before:      before,
		After:       after,
		Status:      "ok",
		Fee:         fee,
		Info:        safe.Raw(v),
	})
}
