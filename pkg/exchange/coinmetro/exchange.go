package coinmetro

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
	"github.com/volatiletech/null"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/types"
)

var log = logrus.WithFields(logrus.Fields{
	"exchange": ID,
})

const defaultCandleLimit = 1000

type Exchange struct {
	*base.Exchange

	session    *base.Session
	currencies base.CurrencyCache
}

func New(creds types.Credentials) *Exchange {
	e := &Exchange{}
	e.Exchange = base.New(describe(), creds, e)
	e.session = base.NewSession(e.refreshToken, e.Now)
	return e
}

func (e *Exchange) FetchCurrencies(ctx context.Context) (types.CurrencyMap, error) {
	currencies, err := e.fetchCurrencies(ctx)
	if err != nil {
		return nil, err
	}

	e.currencies.Set(currencies)
	return currencies, nil
}

func (e *Exchange) fetchCurrencies(ctx context.Context) (types.CurrencyMap, error) {
	v, err := e.Request(ctx, "assets", nil)
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

// FetchMarkets splits the concatenated pair ids against the currency ids, so
// currencies are fetched first when they have not been loaded yet.
func (e *Exchange) FetchMarkets(ctx context.Context) ([]types.Market, error) {
	currencies, err := e.currencies.Get(ctx, e.fetchCurrencies)
	if err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "markets", nil)
	if err != nil {
		return nil, err
	}

	byID := currencies.ByID()
	ids := base.IDs(currencies)

	var markets []types.Market
	for _, item := range safe.Array(v) {
		m, ok := e.parseMarket(item, byID, ids)
		if !ok {
			log.Warnf("unable to split market id %s", safe.String(item, "pair"))
			continue
		}
		markets = append(markets, m)
	}
	return markets, nil
}

func (e *Exchange) FetchTickers(ctx context.Context, symbols ...string) (map[string]types.Ticker, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "prices", nil)
	if err != nil {
		return nil, err
	}

	daily := safe.IndexBy(safe.Array(v, "24hInfo"), "pair")

	wanted := map[string]bool{}
	for _, s := range symbols {
		wanted[s] = true
	}

	tickers := map[string]types.Ticker{}
	for _, latest := range safe.Array(v, "latestPrices") {
		t := e.parseTicker(latest, daily[safe.String(latest, "pair")])
		if len(wanted) > 0 && !wanted[t.Symbol] {
			continue
		}
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
		return nil, e.NewError(exerrors.BadSymbol, "fetchTicker() symbol %s not found", symbol)
	}
	return &t, nil
}

func (e *Exchange) FetchOrderBook(ctx context.Context, symbol string, limit int) (*types.OrderBook, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "book", types.Params{"pair": market.ID})
	if err != nil {
		return nil, err
	}

	book := safe.Value(v, "book")
	ob := types.NewOrderBook(market.Symbol,
		safe.KeyedPriceLevels(safe.Value(book, "bid")),
		safe.KeyedPriceLevels(safe.Value(book, "ask")),
		null.Int64{}, limit)
	ob.Nonce = safe.Integer(book, "seqNumber")
	return &ob, nil
}

func (e *Exchange) FetchTrades(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Trade, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	params := types.Params{"pair": market.ID, "from": options.SinceMillis()}
	v, err := e.Request(ctx, "ticks", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var trades []types.Trade
	for _, item := range safe.Array(v, "tickHistory") {
		trades = append(trades, e.parseTrade(item, &market))
	}
	return types.FilterTrades(trades, options.SinceMillis(), options.LimitOr(0)), nil
}

func (e *Exchange) FetchOHLCV(ctx context.Context, symbol, timeframe string, options *types.FetchOptions) ([]types.OHLCV, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	tf, err := e.Timeframe(timeframe)
	if err != nil {
		return nil, err
	}

	duration, err := base.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}

	limit := options.LimitOr(defaultCandleLimit)
	from, to := options.SinceMillis(), options.UntilMillis()
	switch {
	case from > 0 && to == 0:
		to = from + int64(limit)*duration.Milliseconds()
	case from == 0:
		if to == 0 {
			to = e.Milliseconds()
		}
		from = to - int64(limit)*duration.Milliseconds()
	}

	params := types.Params{"pair": market.ID, "timeframe": tf, "from": from, "to": to}
	v, err := e.Request(ctx, "candles", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var candles []types.OHLCV
	for _, item := range safe.Array(v, "candleHistory") {
		candles = append(candles, parseCandle(item))
	}
	return types.FilterOHLCV(candles, options.SinceMillis(), options.LimitOr(0)), nil
}

func (e *Exchange) FetchBalance(ctx context.Context) (*types.Balances, error) {
	v, err := e.Request(ctx, "wallets", nil)
	if err != nil {
		return nil, err
	}

	balances := e.parseBalances(v)
	return &balances, nil
}

// FetchLedger flattens the balance history of every wallet.
func (e *Exchange) FetchLedger(ctx context.Context, code string, options *types.FetchOptions) ([]types.LedgerEntry, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	since := options.SinceMillis()
	if since == 0 {
		since = 1
	}

	v, err := e.Request(ctx, "walletsHistory", types.Params{"since": since}.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var entries []types.LedgerEntry
	for _, wallet := range safe.Array(v, "list") {
		currencyID := safe.String(wallet, "currency")
		for _, item := range safe.Array(wallet, "balanceHistory") {
			entry := e.parseLedgerEntry(item, currencyID)
			if code != "" && entry.Currency != code {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return types.FilterLedger(entries, options.SinceMillis(), options.LimitOr(0)), nil
}

// CreateOrder places an order named by the currencies bought and sold: a
// sell spends the base amount, a buy spends the quote cost.
func (e *Exchange) CreateOrder(ctx context.Context, order types.SubmitOrder) (*types.Order, error) {
	market, err := e.LoadMarket(ctx, order.Symbol)
	if err != nil {
		return nil, err
	}

	params := types.Params{"orderType": string(order.Type)}

	var amount types.Number
	if order.Amount.IsSet() {
		if amount, err = e.AmountToPrecision(market, order.Amount); err != nil {
			return nil, err
		}
	}

	var cost types.Number
	if c, ok := order.Params.String("cost"); ok {
		cost = types.NewNumber(c)
	}

	if order.Type == types.OrderTypeLimit {
		if !order.Price.IsSet() && !cost.IsSet() {
			return nil, e.NewError(exerrors.ArgumentsRequired, "createOrder() requires a price or params.cost for a limit order")
		}
		if order.Price.IsSet() && !cost.IsSet() {
			price, err := e.PriceToPrecision(market, order.Price)
			if err != nil {
				return nil, err
			}
			cost = amount.Mul(price)
		}
	}

	if cost.IsSet() {
		if cost, err = e.CostToPrecision(market, cost); err != nil {
			return nil, err
		}
	}

	if order.Side == types.SideSell {
		setOrderSide(params, market.BaseID, market.QuoteID, amount, cost)
	} else {
		setOrderSide(params, market.QuoteID, market.BaseID, cost, amount)
	}

	switch {
	case order.PostOnly:
		params["timeInForce"] = 1
		params["makerOnly"] = true
	case order.TimeInForce != "":
		for code, tif := range timeInForces {
			if tif == order.TimeInForce {
				params["timeInForce"] = code
			}
		}
	}

	if order.TriggerPrice.IsSet() {
		params["stopPrice"] = e.mustPrice(market, order.TriggerPrice)
	}
	if order.ClientOrderID != "" {
		params["comment"] = order.ClientOrderID
	}

	v, err := e.Request(ctx, "createOrder", params.Extend(order.Params.Omit("cost")))
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, &market)
	return &o, nil
}

func (e *Exchange) mustPrice(market types.Market, price types.Number) types.Number {
	p, err := e.PriceToPrecision(market, price)
	if err != nil {
		return price
	}
	return p
}

func setOrderSide(params types.Params, sellingCurrency, buyingCurrency string, sellingQty, buyingQty types.Number) {
	params["sellingCurrency"] = sellingCurrency
	params["buyingCurrency"] = buyingCurrency
	if sellingQty.IsSet() {
		params["sellingQty"] = sellingQty
	}
	if buyingQty.IsSet() {
		params["buyingQty"] = buyingQty
	}
}

func (e *Exchange) CancelOrder(ctx context.Context, id, symbol string) (*types.Order, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "cancelOrder", types.Params{"orderID": id})
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, nil)
	return &o, nil
}

func (e *Exchange) FetchOrder(ctx context.Context, id, symbol string) (*types.Order, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "orderStatus", types.Params{"orderID": id})
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, nil)
	return &o, nil
}

func (e *Exchange) FetchOpenOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "activeOrders", options.ExtraParams())
	if err != nil {
		return nil, err
	}
	return e.parseOrders(v, symbol, options), nil
}

func (e *Exchange) FetchCanceledAndClosedOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	params := types.Params{"since": options.SinceMillis()}
	v, err := e.Request(ctx, "orderHistory", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}
	return e.parseOrders(v, symbol, options), nil
}

func (e *Exchange) FetchClosedOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	orders, err := e.FetchCanceledAndClosedOrders(ctx, symbol, options)
	if err != nil {
		return nil, err
	}

	var closed []types.Order
	for _, o := range orders {
		if o.Status == types.OrderStatusClosed {
			closed = append(closed, o)
		}
	}
	return closed, nil
}

func (e *Exchange) parseOrders(v *fastjson.Value, symbol string, options *types.FetchOptions) []types.Order {
	var orders []types.Order
	for _, item := range safe.Array(v) {
		o := e.parseOrder(item, nil)
		if symbol != "" && o.Symbol != symbol {
			continue
		}
		orders = append(orders, o)
	}
	return types.FilterOrders(orders, options.SinceMillis(), options.LimitOr(0))
}

func (e *Exchange) FetchMyTrades(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Trade, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	params := types.Params{"since": options.SinceMillis()}
	v, err := e.Request(ctx, "fills", params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var trades []types.Trade
	for _, item := range safe.Array(v) {
		t := e.parseTrade(item, nil)
		if symbol != "" && t.Symbol != symbol {
			continue
		}
		trades = append(trades, t)
	}
	return types.FilterTrades(trades, options.SinceMillis(), options.LimitOr(0)), nil
}
