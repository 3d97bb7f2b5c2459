package latoken

import (
	"strings"

	"github.com/valyala/fastjson"
	"github.com/volatiletech/null"

	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/types"
)

var orderStatuses = map[string]types.OrderStatus{
	"ORDER_STATUS_PLACED":    types.OrderStatusOpen,
	"ORDER_STATUS_CLOSED":    types.OrderStatusClosed,
	"ORDER_STATUS_CANCELLED": types.OrderStatusCanceled,
}

var orderTypes = map[string]types.OrderType{
	"ORDER_TYPE_MARKET": types.OrderTypeMarket,
	"ORDER_TYPE_LIMIT":  types.OrderTypeLimit,
}

var orderSides = map[string]types.OrderSide{
	"ORDER_SIDE_BUY":       types.SideBuy,
	"ORDER_SIDE_SELL":      types.SideSell,
	"TRADE_DIRECTION_BUY":  types.SideBuy,
	"TRADE_DIRECTION_SELL": types.SideSell,
}

var conditions = map[string]types.TimeInForce{
	"ORDER_CONDITION_GOOD_TILL_CANCELLED": types.TimeInForceGTC,
	"ORDER_CONDITION_IMMEDIATE_OR_CANCEL": types.TimeInForceIOC,
	"ORDER_CONDITION_FILL_OR_KILL":        types.TimeInForceFOK,
}

var transactionStatuses = map[string]types.TransactionStatus{
	"TRANSACTION_STATUS_PENDING":    types.TransactionPending,
	"TRANSACTION_STATUS_PROCESSING": types.TransactionPending,
	"TRANSACTION_STATUS_CHECKING":   types.TransactionPending,
	"TRANSACTION_STATUS_CONFIRMED":  types.TransactionOK,
	"TRANSACTION_STATUS_EXECUTED":   types.TransactionOK,
	"TRANSACTION_STATUS_CANCELLED":  types.TransactionCanceled,
	"TRANSACTION_STATUS_FAILED":     types.TransactionFailed,
}

var transactionTypes = map[string]types.TransactionType{
	"TRANSACTION_TYPE_DEPOSIT":    types.TransactionDeposit,
	"TRANSACTION_TYPE_WITHDRAWAL": types.TransactionWithdrawal,
}

var transferStatuses = map[string]string{
	"TRANSFER_STATUS_COMPLETED":  "ok",
	"TRANSFER_STATUS_PENDING":    "pending",
	"TRANSFER_STATUS_UNVERIFIED": "pending",
	"TRANSFER_STATUS_REJECTED":   "failed",
	"TRANSFER_STATUS_CANCELLED":  "canceled",
}

var currencyTypes = map[string]string{
	"CURRENCY_TYPE_CRYPTO":      "crypto",
	"CURRENCY_TYPE_IEO":         "crypto",
	"CURRENCY_TYPE_FIAT":        "fiat",
	"CURRENCY_TYPE_ALTERNATIVE": "other",
}

func (e *Exchange) parseCurrency(v *fastjson.Value) types.Currency {
	code := e.CommonCurrencyCode(safe.StringUpper(v, "tag"))
	kind, ok := currencyTypes[safe.String(v, "type")]
	if !ok {
		kind = safe.String(v, "type")
	}

	return types.SafeCurrency(types.Currency{
		ID:        safe.String(v, "id"),
		Code:      code,
		Name:      safe.String(v, "name"),
		Type:      kind,
		Active:    null.BoolFrom(safe.String(v, "status") == "CURRENCY_STATUS_ACTIVE"),
		Precision: types.Number(precise.ParsePrecision(safe.String(v, "decimals"))),
		Limits: types.CurrencyLimits{
			Amount: types.MinMax{Min: safe.Number(v, "minTransferAmount")},
		},
		Info: safe.Raw(v),
	})
}

// parseMarket resolves the currency uuids of a pair; pairs referring to
// unknown currencies are skipped.
func (e *Exchange) parseMarket(v *fastjson.Value, currencies map[string]types.Currency) (types.Market, bool) {
	baseID, quoteID := safe.String(v, "baseCurrency"), safe.String(v, "quoteCurrency")
	baseCurrency, okBase := currencies[baseID]
	quoteCurrency, okQuote := currencies[quoteID]
	if !okBase || !okQuote {
		return types.Market{}, false
	}

	quote := quoteCurrency.Code
	costSuffix := ""
	if quote != "" {
		costSuffix = strings.ToUpper(quote[:1]) + strings.ToLower(quote[1:])
	}

	fees := e.Describe().Fees
	return types.SafeMarket(types.Market{
		ID:      safe.String(v, "id"),
		Base:    baseCurrency.Code,
		Quote:   quote,
		BaseID:  baseID,
		QuoteID: quoteID,
		Type:    types.MarketTypeSpot,
		Active:  null.BoolFrom(safe.String(v, "status") == "PAIR_STATUS_ACTIVE"),
		Maker:   fees.Maker,
		Taker:   fees.Taker,
		Precision: types.Precision{
			Amount: safe.Number(v, "quantityTick"),
			Price:  safe.Number(v, "priceTick"),
		},
		Limits: types.MarketLimits{
			Amount: types.MinMax{Min: safe.Number(v, "minOrderQuantity")},
			Cost: types.MinMax{
				Min: safe.Number(v, "minOrderCost"+costSuffix),
				Max: safe.Number(v, "maxOrderCost"+costSuffix),
			},
		},
		Created: safe.Integer(v, "created"),
		Info:    safe.Raw(v),
	}), true
}

// marketByCurrencies finds a market from its base and quote currency uuids.
func (e *Exchange) marketByCurrencies(baseID, quoteID string) (types.Market, bool) {
	for _, m := range e.Markets() {
		if m.BaseID == baseID && m.QuoteID == quoteID {
			return m, true
		}
	}
	return types.Market{}, false
}

func (e *Exchange) symbolOf(v *fastjson.Value, market *types.Market) string {
	if m, ok := e.marketByCurrencies(safe.String(v, "baseCurrency"), safe.String(v, "quoteCurrency")); ok {
		return m.Symbol
	}
	if market != nil {
		return market.Symbol
	}
	return safe.String(v, "symbol")
}

func (e *Exchange) parseTicker(v *fastjson.Value, market *types.Market) types.Ticker {
	return types.SafeTicker(types.Ticker{
		Symbol:      e.symbolOf(v, market),
		Timestamp:   safe.Integer(v, "updateTimestamp"),
		Bid:         safe.Number(v, "bestBid"),
		BidVolume:   safe.Number(v, "bestBidQuantity"),
		Ask:         safe.Number(v, "bestAsk"),
		AskVolume:   safe.Number(v, "bestAskQuantity"),
		Last:        safe.Number(v, "lastPrice"),
		Percentage:  safe.Number(v, "change24h"),
		BaseVolume:  safe.Number(v, "amount24h"),
		QuoteVolume: safe.Number(v, "volume24h"),
		Info:        safe.Raw(v),
	})
}

func (e *Exchange) parseTrade(v *fastjson.Value, market *types.Market) types.Trade {
	makerBuyer := safe.Bool(v, "makerBuyer")

	side, ok := orderSides[safe.String(v, "direction")]
	if !ok {
		side = types.SideBuy
		if makerBuyer.Valid && makerBuyer.Bool {
			side = types.SideSell
		}
	}

	takerOrMaker := types.Taker
	if makerBuyer.Valid && makerBuyer.Bool && side == types.SideBuy {
		takerOrMaker = types.Maker
	}

	symbol := e.symbolOf(v, market)

	var fee *types.Fee
	if cost := safe.Number(v, "fee"); cost.IsSet() {
		quote := ""
		if m, err := e.Market(symbol); err == nil {
			quote = m.Quote
		}
		fee = &types.Fee{Currency: quote, Cost: cost}
	}

	return types.SafeTrade(types.Trade{
		ID:           safe.String(v, "id"),
		Order:        safe.String(v, "order"),
		Timestamp:    safe.Integer(v, "timestamp"),
		Symbol:       symbol,
		Side:         side,
		TakerOrMaker: takerOrMaker,
		Price:        safe.Number(v, "price"),
		Amount:       safe.Number(v, "quantity"),
		Cost:         safe.Number(v, "cost"),
		Fee:          fee,
		Info:         safe.Raw(v),
	})
}

// parseBalances keeps the accounts of one type. Latoken reports available
// and blocked amounts only, so totals stay undefined.
func (e *Exchange) parseBalances(v *fastjson.Value, accountType string) types.Balances {
	balances := types.Balances{Info: safe.Raw(v)}
	for _, item := range safe.Array(v) {
		if safe.String(item, "type") != accountType {
			continue
		}

		balances.Timestamp = types.MaxTimestamp(balances.Timestamp, safe.Integer(item, "timestamp"))
		balances.Set(e.SafeCurrencyCode(safe.String(item, "currency")), types.Balance{
			Free: safe.Number(item, "available"),
			Used: safe.Number(item, "blocked"),
		})
	}
	return types.SafeBalances(balances)
}

func (e *Exchange) parseOrder(v *fastjson.Value, market *types.Market) types.Order {
	status := types.ParseStatus(orderStatuses, safe.String(v, "status"))
	message := strings.ToLower(safe.String(v, "message"))
	switch {
	case strings.Contains(message, "cancel"):
		status = types.OrderStatusCanceled
	case strings.Contains(message, "accept"):
		status = types.OrderStatusOpen
	case safe.String(v, "status") == "SUCCESS":
		status = ""
	}

	return types.SafeOrder(types.Order{
		ID:            safe.String(v, "id"),
		ClientOrderID: safe.String(v, "clientOrderId"),
		Timestamp:     safe.Integer(v, "timestamp"),
		Status:        status,
		Symbol:        e.symbolOf(v, market),
		Type:          orderTypes[safe.String(v, "type")],
		TimeInForce:   conditions[safe.String(v, "condition")],
		Side:          orderSides[safe.String(v, "side")],
		Price:         safe.Number(v, "price"),
		Amount:        safe.Number(v, "quantity"),
		Cost:          safe.Number(v, "cost"),
		Filled:        safe.Number(v, "filled"),
		Info:          safe.Raw(v),
	})
}

func (e *Exchange) parseTransaction(v *fastjson.Value) types.Transaction {
	var fee *types.Fee
	code := e.SafeCurrencyCode(safe.String(v, "currency"))
	if cost := safe.Number(v, "transactionFee"); cost.IsSet() {
		fee = &types.Fee{Currency: code, Cost: cost}
	}

	return types.SafeTransaction(types.Transaction{
		ID:          safe.String(v, "id"),
		TxID:        safe.String(v, "transactionHash"),
		Timestamp:   safe.Integer(v, "timestamp"),
		AddressFrom: safe.String(v, "senderAddress"),
		AddressTo:   safe.String(v, "recipientAddress"),
		TagTo:       safe.String(v, "memo"),
		Type:        transactionTypes[safe.String(v, "type")],
		Amount:      safe.Number(v, "amount"),
		Currency:    code,
		Status:      types.ParseStatus(transactionStatuses, safe.String(v, "status")),
		Fee:         fee,
		Info:        safe.Raw(v),
	})
}

func (e *Exchange) parseTransfer(v *fastjson.Value) types.Transfer {
	return types.SafeTransfer(types.Transfer{
		ID:          safe.String(v, "id"),
		Timestamp:   safe.Integer(v, "timestamp"),
		Currency:    e.SafeCurrencyCode(safe.String(v, "currency")),
		Amount:      safe.Number(v, "transferringFunds"),
		FromAccount: safe.String(v, "fromAccount"),
		ToAccount:   safe.String(v, "toAccount"),
		Status:      types.ParseStatus(transferStatuses, safe.String(v, "status")),
		Info:        safe.Raw(v),
	})
}
