package probit

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
	"github.com/volatiletech/null"
	"go.uber.org/multierr"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/types"
)

var log = logrus.WithFields(logrus.Fields{
	"exchange": ID,
})

const (
	defaultCandleLimit = 100
	defaultPageSize    = 100

	// historyWindow is the span requested when no since is given.
	historyWindow = 7 * 24 * time.Hour
)

type Exchange struct {
	*base.Exchange

	session *base.Session
}

func New(creds types.Credentials) *Exchange {
	e := &Exchange{}
	e.Exchange = base.New(describe(), creds, e)
	e.session = base.NewSession(e.refreshToken, e.Now)
	return e
}

func (e *Exchange) request(ctx context.Context, name string, params types.Params) (*fastjson.Value, error) {
	v, err := e.Request(ctx, name, params)
	if err != nil {
		return nil, err
	}
	return safe.Value(v, "data"), nil
}

func isoTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}

// window returns the [start, end] time range of a history request.
func (e *Exchange) window(options *types.FetchOptions) (string, string) {
	end := options.UntilMillis()
	if end == 0 {
		end = e.Milliseconds()
	}
	start := options.SinceMillis()
	if start == 0 {
		start = end - historyWindow.Milliseconds()
	}
	return isoTime(start), isoTime(end)
}

func (e *Exchange) FetchCurrencies(ctx context.Context) (types.CurrencyMap, error) {
	v, err := e.request(ctx, "currencies", nil)
	if err != nil {
		return nil, err
	}

	currencies := types.CurrencyMap{}
	for _, item := range safe.Array(v) {
		c := e.parseCurrency(item)
		currencies[c.Code] = c
	}
	return currencies, nil
}

func (e *Exchange) FetchMarkets(ctx context.Context) ([]types.Market, error) {
	v, err := e.request(ctx, "markets", nil)
	if err != nil {
		return nil, err
	}

	var markets []types.Market
	for _, item := range safe.Array(v) {
		markets = append(markets, e.parseMarket(item))
	}
	return markets, nil
}

func (e *Exchange) FetchTickers(ctx context.Context, symbols ...string) (map[string]types.Ticker, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	params := types.Params{}
	if len(symbols) > 0 {
		ids := make([]string, 0, len(symbols))
		for _, s := range symbols {
			m, err := e.Market(s)
			if err != nil {
				return nil, err
			}
			ids = append(ids, m.ID)
		}
		params["market_ids"] = strings.Join(ids, ",")
	}

	v, err := e.request(ctx, "ticker", params)
	if err != nil {
		return nil, err
	}

	tickers := map[string]types.Ticker{}
	for _, item := range safe.Array(v) {
		t := e.parseTicker(item, nil)
		tickers[t.Symbol] = t
	}
	return tickers, nil
}

func (e *Exchange) FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	tickers, err := e.FetchTickers(ctx, market.Symbol)
	if err != nil {
		return nil, err
	}

	t, ok := tickers[market.Symbol]
	if !ok {
		return nil, e.NewError(exerrors.BadResponse, "fetchTicker() returned no ticker for %s", symbol)
	}
	return &t, nil
}

// FetchOrderBook groups the flat [{side, price, quantity}] list by side.
func (e *Exchange) FetchOrderBook(ctx context.Context, symbol string, limit int) (*types.OrderBook, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "orderBook", types.Params{"market_id": market.ID})
	if err != nil {
		return nil, err
	}

	var bids, asks types.PriceLevels
	for _, item := range safe.Array(v) {
		level := types.PriceLevel{Price: safe.Number(item, "price"), Amount: safe.Number(item, "quantity")}
		switch safe.String(item, "side") {
		case "buy":
			bids = append(bids, level)
		case "sell":
			asks = append(asks, level)
		}
	}

	ob := types.NewOrderBook(market.Symbol, bids, asks, null.Int64{}, limit)
	return &ob, nil
}

func (e *Exchange) FetchTrades(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Trade, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	start, end := e.window(options)
	params := types.Params{
		"market_id":  market.ID,
		"start_time": start,
		"end_time":   end,
		"limit":      options.LimitOr(defaultPageSize),
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

func (e *Exchange) FetchOHLCV(ctx context.Context, symbol, timeframe string, options *types.FetchOptions) ([]types.OHLCV, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	interval, err := e.Timeframe(timeframe)
	if err != nil {
		return nil, err
	}

	duration, err := base.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}

	limit := options.LimitOr(defaultCandleLimit)
	end := options.UntilMillis()
	start := options.SinceMillis()
	switch {
	case start > 0 && end == 0:
		end = start + int64(limit)*duration.Milliseconds()
	case start == 0:
		if end == 0 {
			end = e.Milliseconds()
		}
		start = end - int64(limit)*duration.Milliseconds()
	}

	params := types.Params{
		"market_ids": market.ID,
		"interval":   interval,
		"sort":       "asc",
		"limit":      limit,
		"start_time": isoTime(start),
		"end_time":   isoTime(end),
	}

	v, err := e.request(ctx, "candles", params.Extend(options.ExtraParams()))
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

// CreateOrder places a limit or market order. Market buys spend a quote
// cost: params["cost"], or amount * price when a price is given.
func (e *Exchange) CreateOrder(ctx context.Context, order types.SubmitOrder) (*types.Order, error) {
	market, err := e.LoadMarket(ctx, order.Symbol)
	if err != nil {
		return nil, err
	}

	timeInForce := "gtc"
	switch {
	case order.Type == types.OrderTypeMarket:
		timeInForce = "ioc"
	case order.TimeInForce != "":
		timeInForce = strings.ToLower(string(order.TimeInForce))
	}

	params := types.Params{
		"market_id":     market.ID,
		"type":          string(order.Type),
		"side":          string(order.Side),
		"time_in_force": timeInForce,
	}
	if order.ClientOrderID != "" {
		params["client_order_id"] = order.ClientOrderID
	}

	if order.Type == types.OrderTypeMarket && order.Side == types.SideBuy {
		cost := types.Undefined
		if c, ok := order.Params.String("cost"); ok {
			cost = types.NewNumber(c)
		} else if order.Price.IsSet() && order.Amount.IsSet() {
			cost = order.Amount.Mul(order.Price)
		}
		if !cost.IsSet() {
			return nil, e.NewError(exerrors.InvalidOrder, "createOrder() requires params.cost or a price for market buy orders")
		}
		if params["cost"], err = e.CostToPrecision(market, cost); err != nil {
			return nil, err
		}
	} else {
		if params["quantity"], err = e.AmountToPrecision(market, order.Amount); err != nil {
			return nil, err
		}
	}

	if order.Type == types.OrderTypeLimit {
		if !order.Price.IsSet() {
			return nil, e.NewError(exerrors.ArgumentsRequired, "createOrder() requires a price argument for limit orders")
		}
		if params["limit_price"], err = e.PriceToPrecision(market, order.Price); err != nil {
			return nil, err
		}
	}

	v, err := e.request(ctx, "newOrder", params.Extend(order.Params.Omit("cost")))
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, &market)
	return &o, nil
}

func (e *Exchange) CancelOrder(ctx context.Context, id, symbol string) (*types.Order, error) {
	if symbol == "" {
		return nil, e.NewError(exerrors.ArgumentsRequired, "cancelOrder() requires a symbol argument")
	}

	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "cancelOrder", types.Params{"market_id": market.ID, "order_id": id})
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, &market)
	return &o, nil
}

// CancelAllOrders cancels every open order concurrently. Failures do not stop
// the other cancellations and are returned together.
func (e *Exchange) CancelAllOrders(ctx context.Context, symbol string) ([]types.Order, error) {
	open, err := e.FetchOpenOrders(ctx, symbol, nil)
	if err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		canceled []types.Order
		errs     error
	)

	for _, o := range open {
		wg.Add(1)
		go func(o types.Order) {
			defer wg.Done()

			c, err := e.CancelOrder(ctx, o.ID, o.Symbol)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, err)
				return
			}
			canceled = append(canceled, *c)
		}(o)
	}
	wg.Wait()

	if errs != nil {
		log.WithError(errs).Warnf("%d of %d cancellations failed", len(multierr.Errors(errs)), len(open))
	}
	return canceled, errs
}

func (e *Exchange) FetchOrder(ctx context.Context, id, symbol string) (*types.Order, error) {
	if symbol == "" {
		return nil, e.NewError(exerrors.ArgumentsRequired, "fetchOrder() requires a symbol argument")
	}

	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "order", types.Params{"market_id": market.ID, "order_id": id})
	if err != nil {
		return nil, err
	}

	items := safe.Array(v)
	if len(items) == 0 {
		return nil, e.NewError(exerrors.OrderNotFound, "order %s not found", id)
	}

	o := e.parseOrder(items[0], &market)
	return &o, nil
}

func (e *Exchange) marketParams(ctx context.Context, symbol string) (types.Params, *types.Market, error) {
	params := types.Params{}
	if symbol == "" {
		_, err := e.LoadMarkets(ctx, false)
		return params, nil, err
	}

	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, nil, err
	}
	params["market_id"] = market.ID
	return params, &market, nil
}

func (e *Exchange) FetchOpenOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	params, market, err := e.marketParams(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "openOrders", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}
	return e.parseOrders(v, market, options), nil
}

func (e *Exchange) FetchClosedOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	params, market, err := e.marketParams(ctx, symbol)
	if err != nil {
		return nil, err
	}

	params["start_time"], params["end_time"] = e.window(options)
	params["limit"] = options.LimitOr(defaultPageSize)

	v, err := e.request(ctx, "orderHistory", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}
	return e.parseOrders(v, market, options), nil
}

func (e *Exchange) parseOrders(v *fastjson.Value, market *types.Market, options *types.FetchOptions) []types.Order {
	var orders []types.Order
	for _, item := range safe.Array(v) {
		orders = append(orders, e.parseOrder(item, market))
	}
	return types.FilterOrders(orders, options.SinceMillis(), options.LimitOr(0))
}

func (e *Exchange) FetchMyTrades(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Trade, error) {
	params, market, err := e.marketParams(ctx, symbol)
	if err != nil {
		return nil, err
	}

	params["start_time"], params["end_time"] = e.window(options)
	params["limit"] = options.LimitOr(defaultPageSize)

	v, err := e.request(ctx, "tradeHistory", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}
	return e.parseTrades(v, market, options), nil
}

// FetchDepositAddress uses params["network"] to pick a platform.
func (e *Exchange) FetchDepositAddress(ctx context.Context, code string, params types.Params) (*types.DepositAddress, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	request := types.Params{"currency_id": e.CurrencyID(code)}
	if network, ok := params.String("network"); ok {
		request["platform_id"] = network
	}

	v, err := e.request(ctx, "depositAddress", request.Extend(params.Omit("network")))
	if err != nil {
		return nil, err
	}

	items := safe.Array(v)
	if len(items) == 0 {
		return nil, e.NewError(exerrors.InvalidAddress, "fetchDepositAddress() returned no address for %s", code)
	}

	address := types.SafeDepositAddress(types.DepositAddress{
		Currency: code,
		Network:  safe.String(items[0], "platform_id"),
		Address:  safe.String(items[0], "address"),
		Tag:      safe.String(items[0], "destination_tag"),
		Info:     safe.Raw(items[0]),
	})
	return &address, nil
}

func (e *Exchange) fetchPayments(ctx context.Context, kind types.TransactionType, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	params := types.Params{"type": string(kind), "limit": options.LimitOr(defaultPageSize)}
	params["start_time"], params["end_time"] = e.window(options)
	if code != "" {
		params["currency_id"] = e.CurrencyID(code)
	}

	v, err := e.request(ctx, "payments", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var txs []types.Transaction
	for _, item := range safe.Array(v) {
		txs = append(txs, e.parseTransaction(item))
	}
	return types.FilterTransactions(txs, options.SinceMillis(), options.LimitOr(0)), nil
}

func (e *Exchange) FetchDeposits(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	return e.fetchPayments(ctx, types.TransactionDeposit, code, options)
}

func (e *Exchange) FetchWithdrawals(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	return e.fetchPayments(ctx, types.TransactionWithdrawal, code, options)
}

func (e *Exchange) Withdraw(ctx context.Context, code string, amount types.Number, address, tag string, params types.Params) (*types.Transaction, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	request := types.Params{
		"currency_id": e.CurrencyID(code),
		"address":     address,
		"amount":      amount.Canonical(),
	}
	if tag != "" {
		request["destination_tag"] = tag
	}
	if network, ok := params.String("network"); ok {
		request["platform_id"] = network
	}

	v, err := e.request(ctx, "withdrawal", request.Extend(params.Omit("network")))
	if err != nil {
		return nil, err
	}

	tx := e.parseTransaction(v)
	return &tx, nil
}
