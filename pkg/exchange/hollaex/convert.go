package hollaex

import (
	"sort"
	"strings"

	"github.com/valyala/fastjson"
	"github.com/volatiletech/null"

	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/types"
)

var orderStatuses = map[string]types.OrderStatus{
	"new":      types.OrderStatusOpen,
	"pfilled":  types.OrderStatusOpen,
	"filled":   types.OrderStatusClosed,
	"canceled": types.OrderStatusCanceled,
}

func (e *Exchange) parseMarket(v *fastjson.Value) types.Market {
	baseID, quoteID := safe.String(v, "pair_base"), safe.String(v, "pair_2")
	fees := e.Describe().Fees

	return types.SafeMarket(types.Market{
		ID:      safe.String(v, "name"),
		Base:    e.SafeCurrencyCode(baseID),
		Quote:   e.SafeCurrencyCode(quoteID),
		BaseID:  baseID,
		QuoteID: quoteID,
		Type:    types.MarketTypeSpot,
		Active:  safe.Bool(v, "active"),
		Maker:   fees.Maker,
		Taker:   fees.Taker,
		Precision: types.Precision{
			Amount: safe.Number(v, "increment_size"),
			Price:  safe.Number(v, "increment_price"),
		},
		Limits: types.MarketLimits{
			Amount: types.MinMax{Min: safe.Number(v, "min_size"), Max: safe.Number(v, "max_size")},
			Price:  types.MinMax{Min: safe.Number(v, "min_price"), Max: safe.Number(v, "max_price")},
		},
		Created: safe.ISO8601(v, "created_at"),
		Info:    safe.Raw(v),
	})
}

// parseCurrency reads a coin of /constants. Multi-network coins list their
// networks comma separated, with per-network withdrawal fees.
func (e *Exchange) parseCurrency(v *fastjson.Value) types.Currency {
	id := safe.String(v, "symbol")
	deposit, withdraw := safe.Bool(v, "allow_deposit"), safe.Bool(v, "allow_withdrawal")
	limits := types.CurrencyLimits{
		Amount:   types.MinMax{Min: safe.Number(v, "min"), Max: safe.Number(v, "max")},
		Withdraw: types.MinMax{Max: safe.Number(v, "withdrawal_limit")},
	}

	networks := map[string]types.Network{}
	for _, network := range strings.Split(safe.String(v, "network"), ",") {
		network = strings.TrimSpace(network)
		if network == "" {
			continue
		}
		networks[network] = types.Network{
			ID:        network,
			Network:   strings.ToUpper(network),
			Active:    null.BoolFrom(deposit.Bool && withdraw.Bool),
			Deposit:   deposit,
			Withdraw:  withdraw,
			Fee:       safe.Number(safe.Value(safe.Value(v, "withdrawal_fees"), network), "value"),
			Precision: safe.Number(v, "increment_unit"),
			Limits:    limits,
		}
	}

	return types.SafeCurrency(types.Currency{
		ID:        id,
		Code:      e.SafeCurrencyCode(id),
		Name:      safe.String(v, "fullname"),
		Type:      "crypto",
		Active:    safe.Bool(v, "active"),
		Deposit:   deposit,
		Withdraw:  withdraw,
		Fee:       safe.Number(v, "withdrawal_fee"),
		Precision: safe.Number(v, "increment_unit"),
		Limits:    limits,
		Networks:  networks,
		Info:      safe.Raw(v),
	})
}

func (e *Exchange) parseTicker(v *fastjson.Value, marketID string, market *types.Market) types.Ticker {
	if marketID == "" {
		marketID = safe.String(v, "symbol")
	}

	return types.SafeTicker(types.Ticker{
		Symbol:     e.SafeSymbol(marketID, market, "-"),
		Timestamp:  safe.ISO8601(v, "time", "timestamp"),
		High:       safe.Number(v, "high"),
		Low:        safe.Number(v, "low"),
		Open:       safe.Number(v, "open"),
		Close:      safe.Number(v, "close"),
		Last:       safe.Number(v, "last", "close"),
		BaseVolume: safe.Number(v, "volume"),
		Info:       safe.Raw(v),
	})
}

func (e *Exchange) parseTrade(v *fastjson.Value, market *types.Market) types.Trade {
	var fee *types.Fee
	if cost := safe.Number(v, "fee"); cost.IsSet() {
		fee = &types.Fee{Currency: e.SafeCurrencyCode(safe.String(v, "fee_coin")), Cost: cost}
	}

	return types.SafeTrade(types.Trade{
		ID:        safe.String(v, "id"),
		Order:     safe.String(v, "order_id"),
		Timestamp: safe.ISO8601(v, "timestamp"),
		Symbol:    e.SafeSymbol(safe.String(v, "symbol"), market, "-"),
		Side:      types.OrderSide(safe.String(v, "side")),
		Price:     safe.Number(v, "price"),
		Amount:    safe.Number(v, "size"),
		Fee:       fee,
		Info:      safe.Raw(v),
	})
}

func parseCandle(v *fastjson.Value) types.OHLCV {
	return types.OHLCV{
		Timestamp: safe.ISO8601(v, "time").Int64,
		Open:      safe.Number(v, "open"),
		High:      safe.Number(v, "high"),
		Low:       safe.Number(v, "low"),
		Close:     safe.Number(v, "close"),
		Volume:    safe.Number(v, "volume"),
	}
}

// parseBalances reads the flat {"<coin>_balance": .., "<coin>_available": ..} object.
func (e *Exchange) parseBalances(v *fastjson.Value) types.Balances {
	balances := types.Balances{
		Timestamp: safe.ISO8601(v, "updated_at"),
		Info:      safe.Raw(v),
	}

	keys := safe.Keys(v)
	sort.Strings(keys)
	for _, key := range keys {
		id, ok := strings.CutSuffix(key, "_balance")
		if !ok {
			continue
		}
		balances.Set(e.SafeCurrencyCode(id), types.Balance{
			Free:  safe.Number(v, id+"_available"),
			Total: safe.Number(v, key),
		})
	}
	return types.SafeBalances(balances)
}

func (e *Exchange) parseOrder(v *fastjson.Value, market *types.Market) types.Order {
	var fee *types.Fee
	if cost := safe.Number(v, "fee"); cost.IsSet() {
		fee = &types.Fee{Currency: e.SafeCurrencyCode(safe.String(v, "fee_coin")), Cost: cost}
	}

	return types.SafeOrder(types.Order{
		ID:                  safe.String(v, "id"),
		Timestamp:           safe.ISO8601(v, "created_at"),
		LastUpdateTimestamp: safe.ISO8601(v, "updated_at"),
		Status:              types.ParseStatus(orderStatuses, safe.String(v, "status")),
		Symbol:              e.SafeSymbol(safe.String(v, "symbol"), market, "-"),
		Type:                types.OrderType(safe.String(v, "type")),
		PostOnly:            safe.Bool(safe.Value(v, "meta"), "post_only"),
		Side:                types.OrderSide(safe.String(v, "side")),
		Price:               safe.Number(v, "price"),
		TriggerPrice:        safe.Number(v, "stop"),
		Amount:              safe.Number(v, "size"),
		Filled:              safe.Number(v, "filled"),
		Average:             safe.Number(v, "average"),
		Fee:                 fee,
		Info:                safe.Raw(v),
	})
}

// transactionStatus derives a status from the status, rejected and
// dismissed flags.
func transactionStatus(v *fastjson.Value) types.TransactionStatus {
	switch {
	case safe.Bool(v, "rejected").Bool:
		return types.TransactionFailed
	case safe.Bool(v, "dismissed").Bool:
		return types.TransactionCanceled
	case safe.Bool(v, "status").Bool:
		return types.TransactionOK
	}
	return types.TransactionPending
}

// splitAddress separates "address:tag" deposit addresses.
func splitAddress(s string) (address, tag string) {
	address, tag, _ = strings.Cut(s, ":")
	return address, tag
}

func (e *Exchange) parseTransaction(v *fastjson.Value) types.Transaction {
	code := e.SafeCurrencyCode(safe.String(v, "currency"))

	var fee *types.Fee
	if cost := safe.Number(v, "fee"); cost.IsSet() {
		fee = &types.Fee{Currency: code, Cost: cost}
	}

	address, tag := splitAddress(safe.String(v, "address"))
	return types.SafeTransaction(types.Transaction{
		ID:        safe.String(v, "id"),
		TxID:      safe.String(v, "transaction_id"),
		Timestamp: safe.ISO8601(v, "created_at"),
		Updated:   safe.ISO8601(v, "updated_at"),
		Network:   safe.String(v, "network"),
		Address:   address,
		AddressTo: address,
		Tag:       tag,
		TagTo:     tag,
		Type:      types.TransactionType(safe.String(v, "type")),
		Amount:    safe.Number(v, "amount"),
		Currency:  code,
		Status:    transactionStatus(v),
		Comment:   safe.String(v, "description"),
		Fee:       fee,
		Info:      safe.Raw(v),
	})
}
