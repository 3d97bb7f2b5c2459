package bitteam

import (
	"strings"

	"github.com/valyala/fastjson"
	"github.com/volatiletech/null"

	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/types"
)

var orderStatuses = map[string]types.OrderStatus{
	"accepted":           types.OrderStatusOpen,
	"created":            types.OrderStatusOpen,
	"executing":          types.OrderStatusOpen,
	"executed":           types.OrderStatusClosed,
	"cancelled":          types.OrderStatusCanceled,
	"partiallyCancelled": types.OrderStatusCanceled,
	"delete":             types.OrderStatusRejected,
	"inactive":           types.OrderStatusRejected,
}

var transactionStatuses = map[string]types.TransactionStatus{
	"approving": types.TransactionPending,
	"pending":   types.TransactionPending,
	"success":   types.TransactionOK,
	"failed":    types.TransactionFailed,
	"cancelled": types.TransactionCanceled,
}

var transactionTypes = map[string]types.TransactionType{
	"deposit":  types.TransactionDeposit,
	"withdraw": types.TransactionWithdrawal,
}

// fromUnits converts an integer amount of minimal units into a decimal amount.
func fromUnits(units types.Number, decimals string) types.Number {
	if !units.IsSet() || decimals == "" {
		return units
	}
	return types.Number(precise.Div(string(units), precise.Pow10(int32(types.Number(decimals).Int64()))))
}

func (e *Exchange) parseCurrency(v *fastjson.Value) types.Currency {
	id := safe.String(v, "symbol")
	limits := safe.Value(v, "txLimits")

	var networks map[string]types.Network
	if chain := safe.String(v, "blockChain"); chain != "" {
		networks = map[string]types.Network{
			chain: {
				ID:      chain,
				Network: chain,
				Active:  safe.Bool(v, "active"),
				Fee:     safe.Number(limits, "withdrawCommissionFixed"),
				Limits: types.CurrencyLimits{
					Deposit:  types.MinMax{Min: safe.Number(limits, "minDeposit")},
					Withdraw: types.MinMax{Min: safe.Number(limits, "minWithdraw"), Max: safe.Number(limits, "maxWithdraw")},
				},
			},
		}
	}

	return types.SafeCurrency(types.Currency{
		ID:        id,
		Code:      e.SafeCurrencyCode(id),
		Name:      safe.String(v, "name"),
		Type:      safe.String(v, "type"),
		Active:    safe.Bool(v, "active"),
		Fee:       safe.Number(limits, "withdrawCommissionFixed"),
		Precision: types.Number(precise.ParsePrecision(safe.String(v, "precision"))),
		Limits: types.CurrencyLimits{
			Deposit:  types.MinMax{Min: safe.Number(limits, "minDeposit")},
			Withdraw: types.MinMax{Min: safe.Number(limits, "minWithdraw"), Max: safe.Number(limits, "maxWithdraw")},
		},
		Networks: networks,
		Info:     safe.Raw(v),
	})
}

// parseMarket reads one of the ccxt pairs. Pair names look like "eth_usdt".
func (e *Exchange) parseMarket(v *fastjson.Value) types.Market {
	id := safe.String(v, "name")
	parts := strings.SplitN(id, "_", 2)
	baseID, quoteID := parts[0], ""
	if len(parts) == 2 {
		quoteID = parts[1]
	}

	settings := safe.Value(v, "settings")
	active := safe.Bool(v, "isTradingEnabled")
	if suspended := safe.Bool(v, "isSuspended"); suspended.Valid && suspended.Bool {
		active = null.BoolFrom(false)
	}

	created, _ := types.ParseISO8601(safe.String(v, "createdAt"))
	fees := e.Describe().Fees
	return types.SafeMarket(types.Market{
		ID:      id,
		Base:    e.SafeCurrencyCode(baseID),
		Quote:   e.SafeCurrencyCode(quoteID),
		BaseID:  baseID,
		QuoteID: quoteID,
		Type:    types.MarketTypeSpot,
		Active:  active,
		Maker:   fees.Maker,
		Taker:   fees.Taker,
		Precision: types.Precision{
			Amount: types.Number(precise.ParsePrecision(safe.String(v, "baseStep"))),
			Price:  types.Number(precise.ParsePrecision(safe.String(v, "quoteStep"))),
		},
		Limits: types.MarketLimits{
			Amount: types.MinMax{Min: safe.Number(settings, "min_sell")},
			Price:  types.MinMax{Min: safe.Number(settings, "price_min")},
			Cost:   types.MinMax{Min: safe.Number(settings, "limit_usd")},
		},
		Created: created,
		Info:    safe.Raw(v),
	})
}

func (e *Exchange) pairID(v *fastjson.Value) string {
	return strings.ToLower(safe.String(v, "pair", "trading_pairs", "name"))
}

func (e *Exchange) parseTicker(v *fastjson.Value, market *types.Market) types.Ticker {
	stats := safe.Value(v, "stats")
	return types.SafeTicker(types.Ticker{
		Symbol:      e.SafeSymbol(e.pairID(v), market, "_"),
		Timestamp:   safe.Integer(v, "timestamp"),
		High:        safe.Number(v, "highest_price_24h").Or(safe.Number(stats, "high24")),
		Low:         safe.Number(v, "lowest_price_24h").Or(safe.Number(stats, "low24")),
		Bid:         safe.Number(v, "highest_bid", "lastBuy"),
		Ask:         safe.Number(v, "lowest_ask", "lastSell"),
		Last:        safe.Number(v, "last_price", "lastTrade"),
		Percentage:  safe.Number(v, "price_change_percent_24h").Or(safe.Number(stats, "change24")),
		BaseVolume:  safe.Number(v, "base_volume").Or(safe.Number(stats, "volume24")),
		QuoteVolume: safe.Number(v, "quote_volume").Or(safe.Number(stats, "volume24USD")),
		Info:        safe.Raw(v),
	})
}

// parseTrade handles public trades and user trades. User trades carry
// quantities in minimal units of the base currency.
func (e *Exchange) parseTrade(v *fastjson.Value, market *types.Market) types.Trade {
	amount := safe.Number(v, "base_volume")
	if !amount.IsSet() {
		amount = fromUnits(safe.Number(v, "quantity"), safe.String(v, "baseDecimals"))
	}

	ts := safe.Integer(v, "timestamp")
	if ts.Valid && ts.Int64 < 1e12 {
		ts.Int64 *= 1000
	}

	var fee *types.Fee
	var takerOrMaker types.TakerOrMaker
	if isBuyerMaker := safe.Bool(v, "isBuyerMaker"); isBuyerMaker.Valid {
		side := safe.String(v, "side")
		takerOrMaker = types.Taker
		key := "feeTaker"
		if (side == "buy") == isBuyerMaker.Bool {
			takerOrMaker, key = types.Maker, "feeMaker"
		}
		if f := safe.Value(v, key); f != nil {
			fee = &types.Fee{
				Currency: e.SafeCurrencyCode(safe.String(f, "symbol")),
				Cost:     fromUnits(safe.Number(f, "amount"), safe.String(f, "decimals")),
			}
		}
	}

	return types.SafeTrade(types.Trade{
		ID:           safe.String(v, "trade_id", "tradeId", "id"),
		Order:        safe.String(v, "orderId"),
		Timestamp:    ts,
		Symbol:       e.SafeSymbol(e.pairID(v), market, "_"),
		Side:         types.OrderSide(safe.StringLower(v, "type", "side")),
		TakerOrMaker: takerOrMaker,
		Price:        safe.Number(v, "price"),
		Amount:       amount,
		Cost:         safe.Number(v, "quote_volume"),
		Fee:          fee,
		Info:         safe.Raw(v),
	})
}

// parseCandle reorders a history row [time, open, close, high, low,
// baseVolume, quoteVolume, pair] into the unified candle with millisecond time.
func parseCandle(v *fastjson.Value) types.OHLCV {
	row := safe.Array(v)
	at := func(i int) types.Number {
		if i >= len(row) {
			return types.Undefined
		}
		return types.NewNumber(safe.Text(row[i]))
	}

	return types.OHLCV{
		Timestamp: at(0).Int64() * 1000,
		Open:      at(1),
		High:      at(3),
		Low:       at(4),
		Close:     at(2),
		Volume:    at(5),
	}
}

func (e *Exchange) parseBalances(v *fastjson.Value) types.Balances {
	balances := types.Balances{Info: safe.Raw(v)}
	for _, item := range safe.Array(v, "balance") {
		balances.Set(e.SafeCurrencyCode(safe.String(item, "symbol")), types.Balance{
			Free:  safe.Number(item, "available"),
			Used:  safe.Number(item, "frozen"),
			Total: safe.Number(item, "balance"),
		})
	}
	return types.SafeBalances(balances)
}

// parseOrder converts the quantities, which are minimal units of the base
// currency, using the order's baseDecimals.
func (e *Exchange) parseOrder(v *fastjson.Value, market *types.Market) types.Order {
	decimals := safe.String(v, "baseDecimals")
	created, _ := types.ParseISO8601(safe.String(v, "createdAt"))
	updated, _ := types.ParseISO8601(safe.String(v, "updatedAt"))

	var fee *types.Fee
	if f := safe.Value(v, "fee"); f != nil && f.Type() == fastjson.TypeObject {
		fee = &types.Fee{
			Currency: e.SafeCurrencyCode(safe.String(f, "symbol")),
			Cost:     fromUnits(safe.Number(f, "amount"), safe.String(f, "decimals")),
		}
	}

	return types.SafeOrder(types.Order{
		ID:                  safe.String(v, "id"),
		Timestamp:           created,
		LastUpdateTimestamp: updated,
		Status:              types.ParseStatus(orderStatuses, safe.String(v, "status")),
		Symbol:              e.SafeSymbol(e.pairID(v), market, "_"),
		Type:                types.OrderType(safe.String(v, "type")),
		Side:                types.OrderSide(safe.String(v, "side")),
		Price:               safe.Number(v, "price"),
		TriggerPrice:        safe.Number(v, "stopPrice"),
		Amount:              fromUnits(safe.Number(v, "quantity"), decimals),
		Filled:              fromUnits(safe.Number(v, "executed"), decimals),
		Average:             safe.Number(v, "executedPrice"),
		Fee:                 fee,
		Info:                safe.Raw(v),
	})
}

func (e *Exchange) parseTransaction(v *fastjson.Value) types.Transaction {
	currency := safe.Value(v, "currency")
	code := e.SafeCurrencyCode(safe.String(currency, "symbol"))

	ts := safe.Integer(v, "timestamp")
	if ts.Valid && ts.Int64 < 1e12 {
		ts.Int64 *= 1000
	}

	return types.SafeTransaction(types.Transaction{
		ID:          safe.String(v, "id"),
		TxID:        safe.String(safe.Value(v, "params"), "tx_id"),
		Timestamp:   ts,
		Network:     safe.String(v, "blockChain"),
		AddressFrom: safe.String(v, "sender"),
		AddressTo:   safe.String(v, "recipient"),
		Address:     safe.String(v, "recipient"),
		Type:        types.ParseStatus(transactionTypes, safe.String(v, "type")),
		Amount:      fromUnits(safe.Number(v, "amount"), safe.String(currency, "decimals")),
		Currency:    code,
		Status:      types.ParseStatus(transactionStatuses, safe.String(v, "status")),
		Comment:     safe.String(v, "message"),
		Info:        safe.Raw(v),
	})
}
