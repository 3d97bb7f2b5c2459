package bitteam

import (
	"context"

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

const defaultPageSize = 100

type Exchange struct {
	*base.Exchange
}

func New(creds types.Credentials) *Exchange {
	e := &Exchange{}
	e.Exchange = base.New(describe(), creds, e)
	return e
}

// request unwraps the "result" envelope.
func (e *Exchange) request(ctx context.Context, name string, params types.Params) (*fastjson.Value, error) {
	v, err := e.Request(ctx, name, params)
	if err != nil {
		return nil, err
	}
	return safe.Value(v, "result"), nil
}

// pairID is the numeric pair id the private endpoints expect.
func pairID(market types.Market) string {
	return safe.String(safe.Parse(market.Info), "id")
}

func (e *Exchange) FetchCurrencies(ctx context.Context) (types.CurrencyMap, error) {
	v, err := e.request(ctx, "currencies", nil)
	if err != nil {
		return nil, err
	}

	currencies := types.CurrencyMap{}
	for _, item := range safe.Array(v, "currencies") {
		c := e.parseCurrency(item)
		currencies[c.Code] = c
	}
	return currencies, nil
}

func (e *Exchange) FetchMarkets(ctx context.Context) ([]types.Market, error) {
	v, err := e.request(ctx, "pairs", nil)
	if err != nil {
		return nil, err
	}

	var markets []types.Market
	for _, item := range safe.Array(v, "pairs") {
		markets = append(markets, e.parseMarket(item))
	}
	return markets, nil
}

func (e *Exchange) FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "pair", types.Params{"name": market.ID})
	if err != nil {
		return nil, err
	}

	t := e.parseTicker(safe.Value(v, "pair"), &market)
	return &t, nil
}

func (e *Exchange) FetchTickers(ctx context.Context, symbols ...string) (map[string]types.Ticker, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "summary", nil)
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

	v, err := e.request(ctx, "orderbook", types.Params{"symbol": market.ID})
	if err != nil {
		return nil, err
	}

	ts := safe.Integer(v, "timestamp")
	if ts.Valid && ts.Int64 < 1e12 {
		ts.Int64 *= 1000
	}

	ob := types.NewOrderBook(market.Symbol,
		safe.PriceLevels(safe.Value(v, "buy"), "0", "1"),
		safe.PriceLevels(safe.Value(v, "sell"), "0", "1"),
		ts, limit)
	return &ob, nil
}

func (e *Exchange) FetchTrades(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Trade, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "trades", types.Params{"pair": market.ID}.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	return e.parseTrades(safe.Array(v), &market, options), nil
}

func (e *Exchange) parseTrades(items []*fastjson.Value, market *types.Market, options *types.FetchOptions) []types.Trade {
	var trades []types.Trade
	for _, item := range items {
		trades = append(trades, e.parseTrade(item, market))
	}
	return types.FilterTrades(trades, options.SinceMillis(), options.LimitOr(0))
}

// FetchOHLCV reads candles from the history host.
func (e *Exchange) FetchOHLCV(ctx context.Context, symbol, timeframe string, options *types.FetchOptions) ([]types.OHLCV, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	resolution, err := e.Timeframe(timeframe)
	if err != nil {
		return nil, err
	}

	params := types.Params{"pairName": market.ID, "resolution": resolution}
	v, err := e.request(ctx, "history", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var candles []types.OHLCV
	for _, row := range safe.Array(v, "data") {
		candles = append(candles, parseCandle(row))
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

func (e *Exchange) CreateOrder(ctx context.Context, order types.SubmitOrder) (*types.Order, error) {
	market, err := e.LoadMarket(ctx, order.Symbol)
	if err != nil {
		return nil, err
	}

	amount, err := e.AmountToPrecision(market, order.Amount)
	if err != nil {
		return nil, err
	}

	params := types.Params{
		"pairId": pairID(market),
		"side":   string(order.Side),
		"type":   string(order.Type),
		"amount": amount,
	}

	if order.Type == types.OrderTypeLimit {
		if !order.Price.IsSet() {
			return nil, e.NewError(exerrors.ArgumentsRequired, "createOrder() requires a price argument for limit orders")
		}
		price, err := e.PriceToPrecision(market, order.Price)
		if err != nil {
			return nil, err
		}
		params["price"] = price
	}

	v, err := e.request(ctx, "createOrder", params.Extend(order.Params))
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, &market)
	return &o, nil
}

func (e *Exchange) CancelOrder(ctx context.Context, id, symbol string) (*types.Order, error) {
	v, err := e.request(ctx, "cancelOrder", types.Params{"id": id})
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, nil)
	if o.ID == "" {
		o.ID = id
	}
	o.Status = types.OrderStatusCanceled
	return &o, nil
}

// CancelAllOrders cancels the orders of one pair, or of all pairs with pairId 0.
func (e *Exchange) CancelAllOrders(ctx context.Context, symbol string) ([]types.Order, error) {
	params := types.Params{"pairId": "0"}
	if symbol != "" {
		market, err := e.LoadMarket(ctx, symbol)
		if err != nil {
			return nil, err
		}
		params["pairId"] = pairID(market)
	}

	if _, err := e.request(ctx, "cancelAll", params); err != nil {
		return nil, err
	}
	return []types.Order{}, nil
}

func (e *Exchange) FetchOrder(ctx context.Context, id, symbol string) (*types.Order, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "order", types.Params{"id": id})
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, nil)
	return &o, nil
}

func (e *Exchange) fetchOrders(ctx context.Context, kind, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	params := types.Params{"type": kind, "limit": options.LimitOr(defaultPageSize)}

	var market *types.Market
	if symbol != "" {
		m, err := e.LoadMarket(ctx, symbol)
		if err != nil {
			return nil, err
		}
		market = &m
		params["pairId"] = pairID(m)
	} else if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "orders", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var orders []types.Order
	for _, item := range safe.Array(v, "orders") {
		orders = append(orders, e.parseOrder(item, market))
	}
	return types.FilterOrders(orders, options.SinceMillis(), options.LimitOr(0)), nil
}

func (e *Exchange) FetchOpenOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	return e.fetchOrders(ctx, "active", symbol, options)
}

func (e *Exchange) FetchClosedOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	return e.fetchOrders(ctx, "closed", symbol, options)
}

func (e *Exchange) FetchCanceledOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	return e.fetchOrders(ctx, "cancelled", symbol, options)
}

func (e *Exchange) FetchMyTrades(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Trade, error) {
	params := types.Params{"limit": options.LimitOr(defaultPageSize)}

	var market *types.Market
	if symbol != "" {
		m, err := e.LoadMarket(ctx, symbol)
		if err != nil {
			return nil, err
		}
		market = &m
		params["pairId"] = pairID(m)
	} else if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "myTrades", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}
	return e.parseTrades(safe.Array(v, "trades"), market, options), nil
}

func (e *Exchange) FetchTransactions(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	params := types.Params{"limit": options.LimitOr(defaultPageSize)}
	if code != "" {
		params["currency"] = e.CurrencyID(code)
	}

	v, err := e.request(ctx, "transactions", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var txs []types.Transaction
	for _, item := range safe.Array(v, "transactions") {
		txs = append(txs, e.parseTransaction(item))
	}
	return types.FilterTransactions(txs, options.SinceMillis(), options.LimitOr(0)), nil
}

func (e *Exchange) fetchTransactionsOf(ctx context.Context, kind types.TransactionType, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	txs, err := e.FetchTransactions(ctx, code, options)
	if err != nil {
		return nil, err
	}

	var out []types.Transaction
	for _, tx := range txs {
		if tx.Type == kind {
			out = append(out, tx)
		}
	}
	log.Debugf("%d of %d transactions are %s", len(out), len(txs), kind)
	return out, nil
}

func (e *Exchange) FetchDeposits(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	return e.fetchTransactionsOf(ctx, types.TransactionDeposit, code, options)
}

func (e *Exchange) FetchWithdrawals(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	return e.fetchTransactionsOf(ctx, types.TransactionWithdrawal, code, options)
}
