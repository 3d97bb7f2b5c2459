package novadax

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/types"
)

var log = logrus.WithFields(logrus.Fields{
	"exchange": ID,
})

const (
	defaultCandleLimit = 3000
	defaultPageSize    = 100
)

// transfer directions of account/subs/transfer, seen from the main account
const (
	transferOut = "master-transfer-out"
	transferIn  = "master-transfer-in"
	mainAccount = "main"
)

type Exchange struct {
	*base.Exchange
}

func New(creds types.Credentials) *Exchange {
	e := &Exchange{}
	e.Exchange = base.New(describe(), creds, e)
	return e
}

// request unwraps the {"code":"A10000","data":...} envelope.
func (e *Exchange) request(ctx context.Context, name string, params types.Params) (*fastjson.Value, error) {
	v, err := e.Request(ctx, name, params)
	if err != nil {
		return nil, err
	}
	return safe.Value(v, "data"), nil
}

func (e *Exchange) FetchMarkets(ctx context.Context) ([]types.Market, error) {
	v, err := e.request(ctx, "symbols", nil)
	if err != nil {
		return nil, err
	}

	var markets []types.Market
	for _, item := range safe.Array(v) {
		markets = append(markets, e.parseMarket(item))
	}
	return markets, nil
}

func (e *Exchange) FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "ticker", types.Params{"symbol": market.ID})
	if err != nil {
		return nil, err
	}

	t := e.parseTicker(v, &market)
	return &t, nil
}

func (e *Exchange) FetchTickers(ctx context.Context, symbols ...string) (map[string]types.Ticker, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "tickers", nil)
	if err != nil {
		return nil, err
	}

	wanted := map[string]bool{}
	for _, s := range symbols {
		wanted[s] = true
	}

	tickers := map[string]types.Ticker{}
	for _, item := range safe.Array(v) {
		t := e.parseTicker(item, nil)
		if len(wanted) > 0 && !wanted[t.Symbol] {
			continue
		}
		tickers[t.Symbol] = t
	}
	return tickers, nil
}

func (e *Exchange) FetchOrderBook(ctx context.Context, symbol string, limit int) (*types.OrderBook, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	params := types.Params{"symbol": market.ID}
	if limit > 0 {
		params["limit"] = limit
	}

	v, err := e.request(ctx, "depth", params)
	if err != nil {
		return nil, err
	}

	ob := types.NewOrderBook(market.Symbol,
		safe.PriceLevels(safe.Value(v, "bids"), "0", "1"),
		safe.PriceLevels(safe.Value(v, "asks"), "0", "1"),
		safe.Integer(v, "timestamp"), limit)
	return &ob, nil
}

func (e *Exchange) FetchTrades(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Trade, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	params := types.Params{"symbol": market.ID}
	if options.LimitOr(0) > 0 {
		params["limit"] = options.Limit
	}

	v, err := e.request(ctx, "trades", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}
	return e.parseTrades(v, &market, options), nil
}

func (e *Exchange) parseTrades(v *fastjson.Value, market *types.Market, options *types.FetchOptions) []types.Trade {
	var trades []types.Trade
	for _, item := range safe.Array(v) {
		trades = append(trades, e.parseTrade(item, market))
	}
	return types.FilterTrades(trades, options.SinceMillis(), options.LimitOr(0))
}

// FetchOHLCV requests a {from, to} window in seconds sized by the limit.
func (e *Exchange) FetchOHLCV(ctx context.Context, symbol, timeframe string, options *types.FetchOptions) ([]types.OHLCV, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	unit, err := e.Timeframe(timeframe)
	if err != nil {
		return nil, err
	}

	duration, err := base.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}

	span := int64(options.LimitOr(defaultCandleLimit)) * int64(duration.Seconds())
	var from, to int64
	if since := options.SinceMillis(); since > 0 {
		from = since / 1000
		to = from + span
	} else {
		to = e.Seconds()
		from = to - span
	}

	params := types.Params{
		"symbol": market.ID,
		"unit":   unit,
		"from":   from,
		"to":     to,
	}

	v, err := e.request(ctx, "kline", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var candles []types.OHLCV
	for _, item := range safe.Array(v) {
		candles = append(candles, parseCandle(item))
	}
	return types.FilterOHLCV(candles, options.SinceMillis(), options.LimitOr(0)), nil
}

func (e *Exchange) FetchBalance(ctx context.Context) (*types.Balances, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "balance", nil)
	if err != nil {
		return nil, err
	}

	balances := e.parseBalances(v)
	return &balances, nil
}

// CreateOrder places limit, market and stop orders. Market buys are sized
// by value: params["cost"], or amount * price.
func (e *Exchange) CreateOrder(ctx context.Context, order types.SubmitOrder) (*types.Order, error) {
	market, err := e.LoadMarket(ctx, order.Symbol)
	if err != nil {
		return nil, err
	}

	orderType := strings.ToUpper(string(order.Type))
	params := types.Params{
		"symbol": market.ID,
		"side":   strings.ToUpper(string(order.Side)),
	}

	if order.TriggerPrice.IsSet() {
		orderType = "STOP_" + orderType
		if params["stopPrice"], err = e.PriceToPrecision(market, order.TriggerPrice); err != nil {
			return nil, err
		}
		// the trigger fires when the price crosses stopPrice upwards for buys
		if order.Side == types.SideBuy {
			params["operator"] = "GTE"
		} else {
			params["operator"] = "LTE"
		}
	}
	params["type"] = orderType

	switch order.Type {
	case types.OrderTypeLimit:
		if !order.Price.IsSet() {
			return nil, e.NewError(exerrors.ArgumentsRequired, "createOrder() requires a price argument for limit orders")
		}
		if params["price"], err = e.PriceToPrecision(market, order.Price); err != nil {
			return nil, err
		}
		if params["amount"], err = e.AmountToPrecision(market, order.Amount); err != nil {
			return nil, err
		}

	case types.OrderTypeMarket:
		if order.Side == types.SideSell {
			if params["amount"], err = e.AmountToPrecision(market, order.Amount); err != nil {
				return nil, err
			}
			break
		}

		cost := types.Undefined
		if c, ok := order.Params.String("cost"); ok {
			cost = types.NewNumber(c)
		} else if order.Price.IsSet() {
			cost = order.Amount.Mul(order.Price)
		}
		if !cost.IsSet() {
			return nil, e.NewError(exerrors.InvalidOrder, "createOrder() requires params.cost or a price for market buy orders")
		}
		if params["value"], err = e.CostToPrecision(market, cost); err != nil {
			return nil, err
		}

	default:
		return nil, e.NewError(exerrors.NotSupported, "createOrder() does not support %s orders", order.Type)
	}

	v, err := e.request(ctx, "createOrder", params.Extend(order.Params.Omit("cost")))
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, &market)
	return &o, nil
}

// CancelOrder only reports success; the returned order carries the id.
func (e *Exchange) CancelOrder(ctx context.Context, id, symbol string) (*types.Order, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "cancelOrder", types.Params{"id": id})
	if err != nil {
		return nil, err
	}

	if result := safe.Bool(v, "result"); result.Valid && !result.Bool {
		return nil, e.NewError(exerrors.OrderNotFound, "order %s could not be canceled", id)
	}

	o := types.SafeOrder(types.Order{ID: id, Symbol: symbol, Info: safe.Raw(v)})
	return &o, nil
}

func (e *Exchange) CancelAllOrders(ctx context.Context, symbol string) ([]types.Order, error) {
	if symbol == "" {
		return nil, e.NewError(exerrors.ArgumentsRequired, "cancelAllOrders() requires a symbol argument")
	}

	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "cancelBySymbol", types.Params{"symbol": market.ID})
	if err != nil {
		return nil, err
	}

	var orders []types.Order
	for _, item := range safe.Array(v) {
		orders = append(orders, types.SafeOrder(types.Order{
			ID:     safe.String(item, "id"),
			Symbol: market.Symbol,
			Status: types.OrderStatusCanceled,
			Info:   safe.Raw(item),
		}))
	}
	return orders, nil
}

func (e *Exchange) FetchOrder(ctx context.Context, id, symbol string) (*types.Order, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "getOrder", types.Params{"id": id})
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, nil)
	return &o, nil
}

func (e *Exchange) fetchOrders(ctx context.Context, symbol, status string, options *types.FetchOptions) ([]types.Order, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	params := types.Params{"status": status}
	var market *types.Market
	if symbol != "" {
		m, err := e.Market(symbol)
		if err != nil {
			return nil, err
		}
		market = &m
		params["symbol"] = m.ID
	}
	if since := options.SinceMillis(); since > 0 {
		params["fromTimestamp"] = since
	}
	if until := options.UntilMillis(); until > 0 {
		params["toTimestamp"] = until
	}
	params["limit"] = options.LimitOr(defaultPageSize)

	v, err := e.request(ctx, "listOrders", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var orders []types.Order
	for _, item := range safe.Array(v) {
		orders = append(orders, e.parseOrder(item, market))
	}
	return types.FilterOrders(orders, options.SinceMillis(), options.LimitOr(0)), nil
}

func (e *Exchange) FetchOpenOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	return e.fetchOrders(ctx, symbol, openStatuses, options)
}

func (e *Exchange) FetchClosedOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	return e.fetchOrders(ctx, symbol, closedStatuses, options)
}

func (e *Exchange) FetchMyTrades(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Trade, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	params := types.Params{"limit": options.LimitOr(defaultPageSize)}
	var market *types.Market
	if symbol != "" {
		m, err := e.Market(symbol)
		if err != nil {
			return nil, err
		}
		market = &m
		params["symbol"] = m.ID
	}
	if since := options.SinceMillis(); since > 0 {
		params["fromTimestamp"] = since
	}

	v, err := e.request(ctx, "fills", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}
	return e.parseTrades(v, market, options), nil
}

func (e *Exchange) fetchTransactions(ctx context.Context, kind, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	params := types.Params{
		"direct": "asc",
		"size":   options.LimitOr(defaultPageSize),
	}
	if kind != "" {
		params["type"] = kind
	}
	if code != "" {
		params["currency"] = e.CurrencyID(code)
	}

	v, err := e.request(ctx, "depositWithdraw", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var txs []types.Transaction
	for _, item := range safe.Array(v) {
		txs = append(txs, e.parseTransaction(item))
	}
	return types.FilterTransactions(txs, options.SinceMillis(), options.LimitOr(0)), nil
}

func (e *Exchange) FetchTransactions(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	return e.fetchTransactions(ctx, "", code, options)
}

func (e *Exchange) FetchDeposits(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	return e.fetchTransactions(ctx, "coin_in", code, options)
}

func (e *Exchange) FetchWithdrawals(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	return e.fetchTransactions(ctx, "coin_out", code, options)
}

func (e *Exchange) Withdraw(ctx context.Context, code string, amount types.Number, address, tag string, params types.Params) (*types.Transaction, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	request := types.Params{
		"code":   e.CurrencyID(code),
		"amount": amount.Canonical(),
		"wallet": address,
	}
	if tag != "" {
		request["tag"] = tag
	}
	if network, ok := params.String("network"); ok {
		request["chainAlias"] = network
	}

	v, err := e.request(ctx, "withdraw", request.Extend(params.Omit("network")))
	if err != nil {
		return nil, err
	}

	tx := types.SafeTransaction(types.Transaction{
		ID:        safe.Text(v),
		Type:      types.TransactionWithdrawal,
		Currency:  code,
		Amount:    amount,
		Address:   address,
		AddressTo: address,
		Tag:       tag,
		TagTo:     tag,
		Info:      safe.Raw(v),
	})
	return &tx, nil
}

// Transfer moves funds between the main account and a sub account; one of
// fromAccount and toAccount must be "main".
func (e *Exchange) Transfer(ctx context.Context, code string, amount types.Number, fromAccount, toAccount string, params types.Params) (*types.Transfer, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	var direction, subID string
	switch {
	case fromAccount == mainAccount:
		direction, subID = transferOut, toAccount
	case toAccount == mainAccount:
		direction, subID = transferIn, fromAccount
	default:
		return nil, e.NewError(exerrors.BadRequest, "transfer() requires fromAccount or toAccount to be %q", mainAccount)
	}

	request := types.Params{
		"subId":          subID,
		"currency":       e.CurrencyID(code),
		"transferAmount": amount.Canonical(),
		"transferType":   direction,
	}

	v, err := e.request(ctx, "subTransfer", request.Extend(params))
	if err != nil {
		return nil, err
	}

	log.Infof("transferred %s %s from %s to %s", amount, code, fromAccount, toAccount)

	transfer := types.SafeTransfer(types.Transfer{
		ID:          safe.Text(v),
		Timestamp:   types.Milliseconds(e.Now()),
		Currency:    code,
		Amount:      amount,
		FromAccount: fromAccount,
		ToAccount:   toAccount,
		Status:      "ok",
		Info:        safe.Raw(v),
	})
	return &transfer, nil
}

