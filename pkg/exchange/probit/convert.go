package probit

import (
	"github.com/valyala/fastjson"
	"github.com/volatiletech/null"

	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/types"
)

var orderStatuses = map[string]types.OrderStatus{
	"open":      types.OrderStatusOpen,
	"cancelled": types.OrderStatusCanceled,
	"filled":    types.OrderStatusClosed,
}

var transactionStatuses = map[string]types.TransactionStatus{
	"requested":  types.TransactionPending,
	"pending":    types.TransactionPending,
	"confirming": types.TransactionPending,
	"confirmed":  types.TransactionPending,
	"applying":   types.TransactionPending,
	"done":       types.TransactionOK,
	"cancelled":  types.TransactionCanceled,
	"cancelling": types.TransactionCanceled,
	"failed":     types.TransactionFailed,
}

var timeInForces = map[string]types.TimeInForce{
	"gtc": types.TimeInForceGTC,
	"ioc": types.TimeInForceIOC,
	"fok": types.TimeInForceFOK,
}

// percentRate converts a fee given in percent into a rate.
func percentRate(v types.Number) types.Number {
	if !v.IsSet() {
		return v
	}
	return v.Div("100")
}

func (e *Exchange) parseMarket(v *fastjson.Value) types.Market {
	baseID, quoteID := safe.String(v, "base_currency_id"), safe.String(v, "quote_currency_id")
	closed := safe.Bool(v, "closed")

	return types.SafeMarket(types.Market{
		ID:      safe.String(v, "id"),
		Base:    e.SafeCurrencyCode(baseID),
		Quote:   e.SafeCurrencyCode(quoteID),
		BaseID:  baseID,
		QuoteID: quoteID,
		Type:    types.MarketTypeSpot,
		Active:  null.BoolFrom(!closed.Bool),
		Taker:   percentRate(safe.Number(v, "taker_fee_rate")),
		Maker:   percentRate(safe.Number(v, "maker_fee_rate")),
		Precision: types.Precision{
			Amount: types.Number(precise.ParsePrecision(safe.String(v, "quantity_precision"))),
			Price:  safe.Number(v, "price_increment"),
			Cost:   types.Number(precise.ParsePrecision(safe.String(v, "cost_precision"))),
		},
		Limits: types.MarketLimits{
			Amount: types.MinMax{Min: safe.Number(v, "min_quantity"), Max: safe.Number(v, "max_quantity")},
			Price:  types.MinMax{Min: safe.Number(v, "min_price"), Max: safe.Number(v, "max_price")},
			Cost:   types.MinMax{Min: safe.Number(v, "min_cost"), Max: safe.Number(v, "max_cost")},
		},
		Info: safe.Raw(v),
	})
}

// parseCurrency folds the platforms of a currency into networks. The
// currency takes its fee and precision from the highest priority platform.
func (e *Exchange) parseCurrency(v *fastjson.Value) types.Currency {
	id := safe.String(v, "id")
	code := e.SafeCurrencyCode(id)

	networks := map[string]types.Network{}
	var primary *fastjson.Value
	for _, platform := range safe.Array(v, "platform") {
		if primary == nil || safe.Integer(platform, "priority").Int64 < safe.Integer(primary, "priority").Int64 {
			primary = platform
		}

		networkID := safe.String(platform, "id")
		var fee types.Number
		if fees := safe.Array(platform, "withdrawal_fee"); len(fees) > 0 {
			fee = safe.Number(fees[0], "amount")
		}

		deposit := !safe.Bool(platform, "deposit_suspended").Bool && safe.Bool(platform, "deposit").Bool
		withdraw := !safe.Bool(platform, "withdrawal_suspended").Bool && safe.Bool(platform, "withdrawal").Bool
		networks[networkID] = types.Network{
			ID:        networkID,
			Network:   networkID,
			Active:    null.BoolFrom(deposit && withdraw),
			Deposit:   null.BoolFrom(deposit),
			Withdraw:  null.BoolFrom(withdraw),
			Fee:       fee,
			Precision: types.Number(precise.ParsePrecision(safe.String(platform, "precision"))),
			Limits: types.CurrencyLimits{
				Deposit:  types.MinMax{Min: safe.Number(platform, "min_deposit_amount")},
				Withdraw: types.MinMax{Min: safe.Number(platform, "min_withdrawal_amount")},
			},
			Info: safe.Raw(platform),
		}
	}

	c := types.Currency{
		ID:       id,
		Code:     code,
		Name:     safe.String(safe.Value(v, "display_name"), "en-us"),
		Type:     "crypto",
		Networks: networks,
		Info:     safe.Raw(v),
	}
	if primary != nil {
		n := networks[safe.String(primary, "id")]
		c.Fee, c.Precision, c.Limits = n.Fee, n.Precision, n.Limits
	}
	return types.SafeCurrency(c)
}

func (e *Exchange) parseTicker(v *fastjson.Value, market *types.Market) types.Ticker {
	return types.SafeTicker(types.Ticker{
		Symbol:      e.SafeSymbol(safe.String(v, "market_id"), market, "-"),
		Timestamp:   safe.ISO8601(v, "time"),
		High:        safe.Number(v, "high"),
		Low:         safe.Number(v, "low"),
		Last:        safe.Number(v, "last"),
		Change:      safe.Number(v, "change"),
		BaseVolume:  safe.Number(v, "base_volume"),
		QuoteVolume: safe.Number(v, "quote_volume"),
		Info:        safe.Raw(v),
	})
}

func (e *Exchange) parseTrade(v *fastjson.Value, market *types.Market) types.Trade {
	symbol := e.SafeSymbol(safe.String(v, "market_id"), market, "-")

	var fee *types.Fee
	if cost := safe.Number(v, "fee_amount"); cost.IsSet() {
		fee = &types.Fee{Currency: e.SafeCurrencyCode(safe.String(v, "fee_currency_id")), Cost: cost}
	}

	return types.SafeTrade(types.Trade{
		ID:        safe.String(v, "id"),
		Order:     safe.String(v, "order_id"),
		Timestamp: safe.ISO8601(v, "time"),
		Symbol:    symbol,
		Side:      types.OrderSide(safe.String(v, "side")),
		Price:     safe.Number(v, "price"),
		Amount:    safe.Number(v, "quantity"),
		Cost:      safe.Number(v, "cost"),
		Fee:       fee,
		Info:      safe.Raw(v),
	})
}

func parseCandle(v *fastjson.Value) types.OHLCV {
	return types.OHLCV{
		Timestamp: safe.ISO8601(v, "start_time").Int64,
		Open:      safe.Number(v, "open"),
		High:      safe.Number(v, "high"),
		Low:       safe.Number(v, "low"),
		Close:     safe.Number(v, "close"),
		Volume:    safe.Number(v, "base_volume"),
	}
}

// parseBalances keeps total and available; probit does not report locked amounts.
func (e *Exchange) parseBalances(v *fastjson.Value) types.Balances {
	balances := types.Balances{Info: safe.Raw(v)}
	for _, item := range safe.Array(v) {
		balances.Set(e.SafeCurrencyCode(safe.String(item, "currency_id")), types.Balance{
			Free:  safe.Number(item, "available"),
			Total: safe.Number(item, "total"),
		})
	}
	return types.SafeBalances(balances)
}

func (e *Exchange) parseOrder(v *fastjson.Value, market *types.Market) types.Order {
	status := types.ParseStatus(orderStatuses, safe.String(v, "status"))
	filled := safe.Number(v, "filled_quantity")

	amount := safe.Number(v, "quantity")
	remaining := safe.Number(v, "open_quantity")
	orderType := types.OrderType(safe.String(v, "type"))
	side := types.OrderSide(safe.String(v, "side"))

	// market buys are placed by cost and carry no quantity
	if orderType == types.OrderTypeMarket && side == types.SideBuy && !amount.IsSet() {
		remaining = types.Undefined
	}
	if status == types.OrderStatusCanceled || status == types.OrderStatusClosed {
		remaining = "0"
	}

	clientOrderID := safe.String(v, "client_order_id")
	return types.SafeOrder(types.Order{
		ID:            safe.String(v, "id"),
		ClientOrderID: clientOrderID,
		Timestamp:     safe.ISO8601(v, "time"),
		Status:        status,
		Symbol:        e.SafeSymbol(safe.String(v, "market_id"), market, "-"),
		Type:          orderType,
		TimeInForce:   timeInForces[safe.String(v, "time_in_force")],
		Side:          side,
		Price:         safe.Number(v, "limit_price"),
		Amount:        amount,
		Cost:          safe.Number(v, "filled_cost"),
		Filled:        filled,
		Remaining:     remaining,
		Info:          safe.Raw(v),
	})
}

func (e *Exchange) parseTransaction(v *fastjson.Value) types.Transaction {
	code := e.SafeCurrencyCode(safe.String(v, "currency_id"))

	var fee *types.Fee
	if cost := safe.Number(v, "fee"); cost.IsSet() {
		fee = &types.Fee{Currency: code, Cost: cost}
	}

	address, tag := safe.String(v, "address"), safe.String(v, "destination_tag")
	return types.SafeTransaction(types.Transaction{
		ID:        safe.String(v, "id"),
		TxID:      safe.String(v, "hash"),
		Timestamp: safe.ISO8601(v, "time"),
		Network:   safe.String(v, "platform_id"),
		Address:   address,
		AddressTo: address,
		Tag:       tag,
		TagTo:     tag,
		Type:      types.TransactionType(safe.String(v, "type")),
		Amount:    safe.Number(v, "amount"),
		Currency:  code,
		Status:    types.ParseStatus(transactionStatuses, safe.String(v, "status")),
		Fee:       fee,
		Info:      safe.Raw(v),
	})
}
