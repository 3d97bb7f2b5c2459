package foxbit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
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
	defaultCandleLimit = 500
	defaultPageSize    = 100
)

type Exchange struct {
	*base.Exchange
}

func New(creds types.Credentials) *Exchange {
	e := &Exchange{}
	e.Exchange = base.New(describe(), creds, e)
	return e
}

// request unwraps the "data" envelope of every foxbit response.
func (e *Exchange) request(ctx context.Context, name string, params types.Params) (*fastjson.Value, error) {
	v, err := e.Request(ctx, name, params)
	if err != nil {
		return nil, err
	}
	if data := safe.Value(v, "data"); data != nil {
		return data, nil
	}
	return v, nil
}

func isoTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
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

func (e *Exchange) FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "ticker", types.Params{"market": market.ID})
	if err != nil {
		return nil, err
	}

	items := safe.Array(v)
	if len(items) == 0 {
		return nil, e.NewError(exerrors.BadResponse, "fetchTicker() returned no data for %s", symbol)
	}

	t := e.parseTicker(items[0], &market)
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

	params := types.Params{"market": market.ID}
	if limit > 0 {
		params["depth"] = limit
	}

	v, err := e.Request(ctx, "orderbook", params)
	if err != nil {
		return nil, err
	}

	ob := types.NewOrderBook(market.Symbol,
		safe.PriceLevels(safe.Value(v, "bids"), "0", "1"),
		safe.PriceLevels(safe.Value(v, "asks"), "0", "1"),
		safe.Integer(v, "timestamp"), limit)
	ob.Nonce = safe.Integer(v, "sequence_id")
	return &ob, nil
}

func (e *Exchange) FetchTrades(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Trade, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	params := types.Params{"market": market.ID}
	if limit := options.LimitOr(0); limit > 0 {
		params["page_size"] = limit
	}
	if since := options.SinceMillis(); since > 0 {
		params["start_time"] = isoTime(since)
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

	params := types.Params{
		"market":   market.ID,
		"interval": interval,
		"limit":    options.LimitOr(defaultCandleLimit),
	}
	if since := options.SinceMillis(); since > 0 {
		params["start_time"] = isoTime(since)
	}
	if until := options.UntilMillis(); until > 0 {
		params["end_time"] = isoTime(until)
	}

	v, err := e.Request(ctx, "candles", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var candles []types.OHLCV
	for _, row := range safe.Array(v) {
		candles = append(candles, parseCandle(row))
	}
	return types.FilterOHLCV(candles, options.SinceMillis(), options.LimitOr(0)), nil
}

func (e *Exchange) FetchBalance(ctx context.Context) (*types.Balances, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "accounts", nil)
	if err != nil {
		return nil, err
	}

	balances := e.parseBalances(v)
	return &balances, nil
}

// CreateOrder places a limit, market or stop order. A market buy spends
// params["cost"] in quote currency when given.
func (e *Exchange) CreateOrder(ctx context.Context, order types.SubmitOrder) (*types.Order, error) {
	market, err := e.LoadMarket(ctx, order.Symbol)
	if err != nil {
		return nil, err
	}

	orderType := strings.ToUpper(string(order.Type))
	if order.TriggerPrice.IsSet() {
		orderType = "STOP_" + orderType
	}

	clientOrderID := order.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}

	params := types.Params{
		"market_symbol":   market.ID,
		"side":            strings.ToUpper(string(order.Side)),
		"type":            orderType,
		"client_order_id": clientOrderID,
	}

	if cost, ok := order.Params.String("cost"); ok && order.Type == types.OrderTypeMarket && order.Side == types.SideBuy {
		amount, err := e.CostToPrecision(market, types.NewNumber(cost))
		if err != nil {
			return nil, err
		}
		params["type"] = "INSTANT"
		params["amount"] = amount
	} else {
		quantity, err := e.AmountToPrecision(market, order.Amount)
		if err != nil {
			return nil, err
		}
		params["quantity"] = quantity
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

	if order.TriggerPrice.IsSet() {
		stop, err := e.PriceToPrecision(market, order.TriggerPrice)
		if err != nil {
			return nil, err
		}
		params["stop_price"] = stop
	}

	switch {
	case order.PostOnly:
		params["post_only"] = true
	case order.TimeInForce != "":
		params["time_in_force"] = string(order.TimeInForce)
	}

	v, err := e.Request(ctx, "createOrder", params.Extend(order.Params.Omit("cost")))
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, &market)
	o.ClientOrderID = clientOrderID
	o.Side, o.Type, o.Amount, o.Price = order.Side, order.Type, order.Amount, order.Price
	if o.Status == "" {
		o.Status = types.OrderStatusOpen
	}
	return &o, nil
}

func (e *Exchange) cancel(ctx context.Context, params types.Params) ([]types.Order, error) {
	v, err := e.request(ctx, "cancelOrder", params)
	if err != nil {
		return nil, err
	}

	var orders []types.Order
	for _, item := range safe.Array(v) {
		o := e.parseOrder(item, nil)
		o.Status = types.OrderStatusCanceled
		orders = append(orders, o)
	}
	return orders, nil
}

func (e *Exchange) CancelOrder(ctx context.Context, id, symbol string) (*types.Order, error) {
	orders, err := e.cancel(ctx, types.Params{"type": "ID", "id": id})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return &types.Order{ID: id, Status: types.OrderStatusCanceled}, nil
	}
	return &orders[0], nil
}

func (e *Exchange) CancelAllOrders(ctx context.Context, symbol string) ([]types.Order, error) {
	params := types.Params{"type": "ALL"}
	if symbol != "" {
		market, err := e.LoadMarket(ctx, symbol)
		if err != nil {
			return nil, err
		}
		params = types.Params{"type": "MARKET", "market_symbol": market.ID}
	}
	return e.cancel(ctx, params)
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

func (e *Exchange) fetchOrders(ctx context.Context, symbol, state string, options *types.FetchOptions) ([]types.Order, error) {
	params := types.Params{"page_size": options.LimitOr(defaultPageSize)}
	if state != "" {
		params["state"] = state
	}

	var market *types.Market
	if symbol != "" {
		m, err := e.LoadMarket(ctx, symbol)
		if err != nil {
			return nil, err
		}
		market = &m
		params["market_symbol"] = m.ID
	} else if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	if since := options.SinceMillis(); since > 0 {
		params["start_time"] = isoTime(since)
	}

	v, err := e.request(ctx, "orders", params.Extend(options.ExtraParams()))
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
	return e.fetchOrders(ctx, symbol, "ACTIVE", options)
}

func (e *Exchange) FetchClosedOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	return e.fetchOrders(ctx, symbol, "FILLED", options)
}

func (e *Exchange) FetchCanceledAndClosedOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	orders, err := e.fetchOrders(ctx, symbol, "", options)
	if err != nil {
		return nil, err
	}

	var done []types.Order
	for _, o := range orders {
		if o.Status == types.OrderStatusClosed || o.Status == types.OrderStatusCanceled {
			done = append(done, o)
		}
	}
	return done, nil
}

func (e *Exchange) FetchMyTrades(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Trade, error) {
	if symbol == "" {
		return nil, e.NewError(exerrors.ArgumentsRequired, "fetchMyTrades() requires a symbol argument")
	}

	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	params := types.Params{"market_symbol": market.ID, "page_size": options.LimitOr(defaultPageSize)}
	if since := options.SinceMillis(); since > 0 {
		params["start_time"] = isoTime(since)
	}

	v, err := e.request(ctx, "myTrades", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}
	return e.parseTrades(v, &market, options), nil
}

func (e *Exchange) FetchDepositAddress(ctx context.Context, code string, params types.Params) (*types.DepositAddress, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.request(ctx, "depositAddress", types.Params{"currency_symbol": e.CurrencyID(code)}.Extend(params))
	if err != nil {
		return nil, err
	}

	address := types.SafeDepositAddress(types.DepositAddress{
		Currency: code,
		Network:  safe.String(v, "network_code"),
		Address:  safe.String(v, "address"),
		Tag:      safe.String(v, "message"),
		Info:     safe.Raw(v),
	})
	return &address, nil
}

func (e *Exchange) fetchTransactions(ctx context.Context, name string, kind types.TransactionType, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	params := types.Params{"page_size": options.LimitOr(defaultPageSize)}
	if code != "" {
		params["currency_symbol"] = e.CurrencyID(code)
	}
	if since := options.SinceMillis(); since > 0 {
		params["start_time"] = isoTime(since)
	}

	v, err := e.request(ctx, name, params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var txs []types.Transaction
	for _, item := range safe.Array(v) {
		txs = append(txs, e.parseTransaction(item, kind))
	}
	return types.FilterTransactions(txs, options.SinceMillis(), options.LimitOr(0)), nil
}

func (e *Exchange) FetchDeposits(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	return e.fetchTransactions(ctx, "deposits", types.TransactionDeposit, code, options)
}

func (e *Exchange) FetchWithdrawals(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	return e.fetchTransactions(ctx, "withdrawals", types.TransactionWithdrawal, code, options)
}

func (e *Exchange) Withdraw(ctx context.Context, code string, amount types.Number, address, tag string, params types.Params) (*types.Transaction, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	request := types.Params{
		"currency_symbol":     e.CurrencyID(code),
		"amount":              amount.Canonical(),
		"destination_address": address,
	}
	if tag != "" {
		request["destination_tag"] = tag
	}

	v, err := e.request(ctx, "withdraw", request.Extend(params))
	if err != nil {
		return nil, err
	}

	tx := e.parseTransaction(v, types.TransactionWithdrawal)
	if tx.Currency == "" {
		tx.Currency = code
	}
	if tx.Address == "" {
		tx.Address, tx.AddressTo, tx.Tag = address, address, tag
	}
	log.Infof("withdraw %s %s to %s: %s", amount, code, address, tx.ID)
	return &tx, nil
}

// FetchLedger returns the account movements of one currency.
func (e *Exchange) FetchLedger(ctx context.Context, code string, options *types.FetchOptions) ([]types.LedgerEntry, error) {
	if code == "" {
		return nil, e.NewError(exerrors.ArgumentsRequired, "fetchLedger() requires a code argument")
	}

	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	params := types.Params{"currency": e.CurrencyID(code), "page_size": options.LimitOr(defaultPageSize)}
	if since := options.SinceMillis(); since > 0 {
		params["start_time"] = isoTime(since)
	}

	v, err := e.request(ctx, "ledger", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var entries []types.LedgerEntry
	for _, item := range safe.Array(v) {
		entries = append(entries, e.parseLedgerEntry(item))
	}
	return types.FilterLedger(entries, options.SinceMillis(), options.LimitOr(0)), nil
}
