package novadax

import (
	"strings"

	"github.com/valyala/fastjson"
	"github.com/volatiletech/null"

	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/types"
)

var orderStatuses = map[string]types.OrderStatus{
	"SUBMITTED":        types.OrderStatusOpen,
	"PROCESSING":       types.OrderStatusOpen,
	"PARTIAL_FILLED":   types.OrderStatusOpen,
	"CANCELING":        types.OrderStatusOpen,
	"FILLED":           types.OrderStatusClosed,
	"CANCELED":         types.OrderStatusCanceled,
	"PARTIAL_CANCELED": types.OrderStatusCanceled,
	"REJECTED":         types.OrderStatusRejected,
}

// status filters of orders/list
const (
	openStatuses   = "SUBMITTED,PROCESSING,PARTIAL_FILLED,CANCELING"
	closedStatuses = "FILLED,CANCELED,REJECTED"
)

var transactionStatuses = map[string]types.TransactionStatus{
	"Pending":          types.TransactionPending,
	"confirming":       types.TransactionPending,
	"SUBMIT":           types.TransactionPending,
	"REVIEW":           types.TransactionPending,
	"AUDIT_SUCCESS":    types.TransactionPending,
	"PROCESSING":       types.TransactionPending,
	"SUCCESS":          types.TransactionOK,
	"FAIL":             types.TransactionFailed,
	"AUDIT_REJECT":     types.TransactionFailed,
	"REJECT_CONFIRMED": types.TransactionFailed,
	"REVOKED":          types.TransactionCanceled,
}

var transactionTypes = map[string]types.TransactionType{
	"COIN_IN":  types.TransactionDeposit,
	"COIN_OUT": types.TransactionWithdrawal,
}

func (e *Exchange) parseMarket(v *fastjson.Value) types.Market {
	baseID, quoteID := safe.String(v, "baseCurrency"), safe.String(v, "quoteCurrency")
	fees := e.Describe().Fees

	return types.SafeMarket(types.Market{
		ID:      safe.String(v, "symbol"),
		Base:    e.SafeCurrencyCode(baseID),
		Quote:   e.SafeCurrencyCode(quoteID),
		BaseID:  baseID,
		QuoteID: quoteID,
		Type:    types.MarketTypeSpot,
		Active:  null.BoolFrom(safe.String(v, "status") == "ONLINE"),
		Maker:   fees.Maker,
		Taker:   fees.Taker,
		Precision: types.Precision{
			Amount: safe.Number(v, "amountPrecision"),
			Price:  safe.Number(v, "pricePrecision"),
			Cost:   safe.Number(v, "valuePrecision"),
		},
		Limits: types.MarketLimits{
			Amount: types.MinMax{Min: safe.Number(v, "minOrderAmount")},
			Cost:   types.MinMax{Min: safe.Number(v, "minOrderValue")},
		},
		Info: safe.Raw(v),
	})
}

func (e *Exchange) parseTicker(v *fastjson.Value, market *types.Market) types.Ticker {
	return types.SafeTicker(types.Ticker{
		Symbol:      e.SafeSymbol(safe.String(v, "symbol"), market, "_"),
		Timestamp:   safe.Integer(v, "timestamp"),
		High:        safe.Number(v, "high24h"),
		Low:         safe.Number(v, "low24h"),
		Bid:         safe.Number(v, "bid"),
		Ask:         safe.Number(v, "ask"),
		Open:        safe.Number(v, "open24h"),
		Last:        safe.Number(v, "lastPrice"),
		BaseVolume:  safe.Number(v, "baseVolume24h"),
		QuoteVolume: safe.Number(v, "quoteVolume24h"),
		Info:        safe.Raw(v),
	})
}

// parseTrade reads public trades and private fills; only fills carry ids,
// roles and fees.
func (e *Exchange) parseTrade(v *fastjson.Value, market *types.Market) types.Trade {
	var fee *types.Fee
	if cost := safe.Number(v, "feeAmount", "fee"); cost.IsSet() {
		fee = &types.Fee{Currency: e.SafeCurrencyCode(safe.String(v, "feeCurrency")), Cost: cost}
	}

	return types.SafeTrade(types.Trade{
		ID:           safe.String(v, "id"),
		Order:        safe.String(v, "orderId"),
		Timestamp:    safe.Integer(v, "timestamp"),
		Symbol:       e.SafeSymbol(safe.String(v, "symbol"), market, "_"),
		Side:         types.OrderSide(safe.StringLower(v, "side")),
		TakerOrMaker: types.TakerOrMaker(safe.StringLower(v, "role")),
		Price:        safe.Number(v, "price"),
		Amount:       safe.Number(v, "amount"),
		Fee:          fee,
		Info:         safe.Raw(v),
	})
}

// parseCandle converts a kline; score is the open time in seconds.
func parseCandle(v *fastjson.Value) types.OHLCV {
	return types.OHLCV{
		Timestamp: safe.Integer(v, "score").Int64 * 1000,
		Open:      safe.Number(v, "openPrice"),
		High:      safe.Number(v, "highPrice"),
		Low:       safe.Number(v, "lowPrice"),
		Close:     safe.Number(v, "closePrice"),
		Volume:    safe.Number(v, "amount"),
	}
}

func (e *Exchange) parseBalances(v *fastjson.Value) types.Balances {
	balances := types.Balances{Info: safe.Raw(v)}
	for _, item := range safe.Array(v) {
		balances.Set(e.SafeCurrencyCode(safe.String(item, "currency")), types.Balance{
			Free:  safe.Number(item, "available"),
			Used:  safe.Number(item, "hold"),
			Total: safe.Number(item, "balance"),
		})
	}
	return types.SafeBalances(balances)
}

func (e *Exchange) parseOrder(v *fastjson.Value, market *types.Market) types.Order {
	orderType := safe.StringLower(v, "type")
	var triggerPrice types.Number
	if strings.HasPrefix(orderType, "stop_") {
		orderType = strings.TrimPrefix(orderType, "stop_")
		triggerPrice = safe.Number(v, "stopPrice")
	}

	var fee *types.Fee
	if cost := safe.Number(v, "filledFee"); cost.IsSet() {
		fee = &types.Fee{Cost: cost}
	}

	return types.SafeOrder(types.Order{
		ID:           safe.String(v, "id"),
		Timestamp:    safe.Integer(v, "timestamp"),
		Status:       types.ParseStatus(orderStatuses, safe.String(v, "status")),
		Symbol:       e.SafeSymbol(safe.String(v, "symbol"), market, "_"),
		Type:         types.OrderType(orderType),
		Side:         types.OrderSide(safe.StringLower(v, "side")),
		Price:        safe.Number(v, "price"),
		TriggerPrice: triggerPrice,
		Amount:       safe.Number(v, "amount"),
		Cost:         safe.Number(v, "filledValue"),
		Filled:       safe.Number(v, "filledAmount"),
		Average:      safe.Number(v, "averagePrice"),
		Fee:          fee,
		Info:         safe.Raw(v),
	})
}

func (e *Exchange) parseTransaction(v *fastjson.Value) types.Transaction {
	address, tag := safe.String(v, "address"), safe.String(v, "addressTag", "tag")
	return types.SafeTransaction(types.Transaction{
		ID:        safe.String(v, "id"),
		TxID:      safe.String(v, "txHash"),
		Timestamp: safe.Integer(v, "createdAt"),
		Updated:   safe.Integer(v, "updatedAt"),
		Network:   safe.String(v, "chainAlias"),
		Address:   address,
		AddressTo: address,
		Tag:       tag,
		TagTo:     tag,
		Type:      types.ParseStatus(transactionTypes, safe.String(v, "type")),
		Amount:    safe.Number(v, "amount"),
		Currency:  e.SafeCurrencyCode(safe.String(v, "currency")),
		Status:    types.ParseStatus(transactionStatuses, safe.String(v, "state")),
		Info:      safe.Raw(v),
	})
}
