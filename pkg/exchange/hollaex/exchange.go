package hollaex

import (
	"context"
	"strings"
	"time"

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
	defaultPageSize    = 50
)

type Exchange struct {
	*base.Exchange
}

func New(creds types.Credentials) *Exchange {
	e := &Exchange{}
	e.Exchange = base.New(describe(), creds, e)
	return e
}

func isoTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}

func (e *Exchange) FetchCurrencies(ctx context.Context) (types.CurrencyMap, error) {
	v, err := e.Request(ctx, "constants", nil)
	if err != nil {
		return nil, err
	}

	currencies := types.CurrencyMap{}
	safe.Object(safe.Value(v, "coins"), func(_ string, item *fastjson.Value) {
		c := e.parseCurrency(item)
		currencies[c.Code] = c
	})
	return currencies, nil
}

func (e *Exchange) FetchMarkets(ctx context.Context) ([]types.Market, error) {
	v, err := e.Request(ctx, "constants", nil)
	if err != nil {
		return nil, err
	}

	var markets []types.Market
	safe.Object(safe.Value(v, "pairs"), func(_ string, item *fastjson.Value) {
		markets = append(markets, e.parseMarket(item))
	})
	return markets, nil
}

func (e *Exchange) FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "ticker", types.Params{"symbol": market.ID})
	if err != nil {
		return nil, err
	}

	t := e.parseTicker(v, market.ID, &market)
	return &t, nil
}

// FetchTickers reads the tickers object keyed by market id.
func (e *Exchange) FetchTickers(ctx context.Context, symbols ...string) (map[string]types.Ticker, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "tickers", nil)
	if err != nil {
		return nil, err
	}

	wanted := map[string]bool{}
	for _, s := range symbols {
		wanted[s] = true
	}

	tickers := map[string]types.Ticker{}
	safe.Object(v, func(id string, item *fastjson.Value) {
		t := e.parseTicker(item, id, nil)
		if len(wanted) == 0 || wanted[t.Symbol] {
			tickers[t.Symbol] = t
		}
	})
	return tickers, nil
}

func (e *Exchange) FetchOrderBook(ctx context.Context, symbol string, limit int) (*types.OrderBook, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "orderbook", types.Params{"symbol": market.ID})
	if err != nil {
		return nil, err
	}

	book := safe.Value(v, market.ID)
	ob := types.NewOrderBook(market.Symbol,
		safe.PriceLevels(safe.Value(book, "bids"), "0", "1"),
		safe.PriceLevels(safe.Value(book, "asks"), "0", "1"),
		safe.ISO8601(book, "timestamp"), limit)
	return &ob, nil
}

func (e *Exchange) FetchTrades(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Trade, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "trades", types.Params{"symbol": market.ID}.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}
	return e.parseTrades(safe.Value(v, market.ID), &market, options), nil
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

	resolution, err := e.Timeframe(timeframe)
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
		"symbol":     market.ID,
		"resolution": resolution,
		"from":       from,
		"to":         to,
	}

	v, err := e.Request(ctx, "chart", params.Extend(options.ExtraParams()))
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

	v, err := e.Request(ctx, "balance", nil)
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

	params := types.Params{
		"symbol": market.ID,
		"side":   string(order.Side),
		"type":   string(order.Type),
	}
	if params["size"], err = e.AmountToPrecision(market, order.Amount); err != nil {
		return nil, err
	}

	if order.Type == types.OrderTypeLimit {
		if !order.Price.IsSet() {
			return nil, e.NewError(exerrors.ArgumentsRequired, "createOrder() requires a price argument for limit orders")
		}
		if params["price"], err = e.PriceToPrecision(market, order.Price); err != nil {
			return nil, err
		}
	}

	if order.TriggerPrice.IsSet() {
		if params["stop"], err = e.PriceToPrecision(market, order.TriggerPrice); err != nil {
			return nil, err
		}
	}

	if order.PostOnly {
		params["meta"] = map[string]interface{}{"post_only": true}
	}

	v, err := e.Request(ctx, "createOrder", params.Extend(order.Params))
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, &market)
	return &o, nil
}

func (e *Exchange) CancelOrder(ctx context.Context, id, symbol string) (*types.Order, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "cancelOrder", types.Params{"order_id": id})
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, nil)
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

	v, err := e.Request(ctx, "cancelAll", types.Params{"symbol": market.ID})
	if err != nil {
		return nil, err
	}
	return e.parseOrders(v, &market, nil), nil
}

func (e *Exchange) FetchOrder(ctx context.Context, id, symbol string) (*types.Order, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "order", types.Params{"order_id": id})
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, nil)
	return &o, nil
}

// historyParams builds the symbol, start_date and limit filters shared by the
// order, trade and transfer history endpoints.
func (e *Exchange) historyParams(ctx context.Context, symbol string, options *types.FetchOptions) (types.Params, *types.Market, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, nil, err
	}

	params := types.Params{"limit": options.LimitOr(defaultPageSize)}
	var market *types.Market
	if symbol != "" {
		m, err := e.Market(symbol)
		if err != nil {
			return nil, nil, err
		}
		market = &m
		params["symbol"] = m.ID
	}
	if since := options.SinceMillis(); since > 0 {
		params["start_date"] = isoTime(since)
	}
	if until := options.UntilMillis(); until > 0 {
		params["end_date"] = isoTime(until)
	}
	return params, market, nil
}

func (e *Exchange) parseOrders(v *fastjson.Value, market *types.Market, options *types.FetchOptions) []types.Order {
	var orders []types.Order
	for _, item := range safe.Array(v) {
		orders = append(orders, e.parseOrder(item, market))
	}
	return types.FilterOrders(orders, options.SinceMillis(), options.LimitOr(0))
}

func (e *Exchange) fetchOrders(ctx context.Context, symbol string, open bool, options *types.FetchOptions) ([]types.Order, error) {
	params, market, err := e.historyParams(ctx, symbol, options)
	if err != nil {
		return nil, err
	}
	params["open"] = open

	v, err := e.Request(ctx, "orders", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}
	return e.parseOrders(safe.Value(v, "data"), market, options), nil
}

func (e *Exchange) FetchOpenOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	return e.fetchOrders(ctx, symbol, true, options)
}

func (e *Exchange) FetchClosedOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	return e.fetchOrders(ctx, symbol, false, options)
}

func (e *Exchange) FetchMyTrades(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Trade, error) {
	params, market, err := e.historyParams(ctx, symbol, options)
	if err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "userTrades", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}
	return e.parseTrades(safe.Value(v, "data"), market, options), nil
}

// FetchDepositAddress picks the address of code from the user's wallets,
// narrowed by params["network"] when given.
func (e *Exchange) FetchDepositAddress(ctx context.Context, code string, params types.Params) (*types.DepositAddress, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "user", nil)
	if err != nil {
		return nil, err
	}

	id := e.CurrencyID(code)
	network, _ := params.String("network")
	for _, wallet := range safe.Array(v, "wallet") {
		if safe.String(wallet, "currency") != id {
			continue
		}
		if network != "" && !strings.EqualFold(safe.String(wallet, "network"), network) {
			continue
		}

		address, tag := splitAddress(safe.String(wallet, "address"))
		result := types.SafeDepositAddress(types.DepositAddress{
			Currency: code,
			Network:  safe.String(wallet, "network"),
			Address:  address,
			Tag:      tag,
			Info:     safe.Raw(wallet),
		})
		return &result, nil
	}

	return nil, e.NewError(exerrors.InvalidAddress, "fetchDepositAddress() found no %s wallet", code)
}

func (e *Exchange) fetchTransactions(ctx context.Context, name, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	params, _, err := e.historyParams(ctx, "", options)
	if err != nil {
		return nil, err
	}
	if code != "" {
		params["currency"] = e.CurrencyID(code)
	}

	v, err := e.Request(ctx, name, params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var txs []types.Transaction
	for _, item := range safe.Array(v, "data") {
		txs = append(txs, e.parseTransaction(item))
	}
	return types.FilterTransactions(txs, options.SinceMillis(), options.LimitOr(0)), nil
}

func (e *Exchange) FetchDeposits(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	return e.fetchTransactions(ctx, "deposits", code, options)
}

func (e *Exchange) FetchWithdrawals(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	return e.fetchTransactions(ctx, "withdrawals", code, options)
}

// Withdraw requires a one time password: params["otp_code"], or one derived
// from the TwoFA secret of the credentials.
func (e *Exchange) Withdraw(ctx context.Context, code string, amount types.Number, address, tag string, params types.Params) (*types.Transaction, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	otp, ok := params.String("otp_code")
	if !ok {
		var err error
		if otp, err = e.OTP(); err != nil {
			return nil, err
		}
	}

	destination := address
	if tag != "" {
		destination = address + ":" + tag
	}

	request := types.Params{
		"currency": e.CurrencyID(code),
		"amount":   amount.Canonical(),
		"address":  destination,
		"otp_code": otp,
	}
	if network, ok := params.String("network"); ok {
		request["network"] = strings.ToLower(network)
	}

	v, err := e.Request(ctx, "withdraw", request.Extend(params.Omit("network", "otp_code")))
	if err != nil {
		return nil, err
	}

	log.Infof("requested withdrawal of %s %s to %s", amount, code, address)

	tx := e.parseTransaction(v)
	tx.Type = types.TransactionWithdrawal
	tx.Currency = code
	tx.Address, tx.AddressTo, tx.Tag, tx.TagTo = address, address, tag, tag
	return &tx, nil
}
