package latoken

import (
	"context"
	"regexp"
	"strings"

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

const defaultAccountType = "ACCOUNT_TYPE_SPOT"

var accountTypes = map[string]string{
	"spot":    "ACCOUNT_TYPE_SPOT",
	"wallet":  "ACCOUNT_TYPE_WALLET",
	"funding": "ACCOUNT_TYPE_WALLET",
}

type Exchange struct {
	*base.Exchange

	currencies base.CurrencyCache
}

func New(creds types.Credentials) *Exchange {
	e := &Exchange{}
	e.Exchange = base.New(describe(), creds, e)
	e.currencies = base.CurrencyCache{TTL: currencyCacheTTL, Now: e.Now}
	return e
}

func (e *Exchange) fetchCurrencies(ctx context.Context) (types.CurrencyMap, error) {
	v, err := e.Request(ctx, "currency", nil)
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

// FetchCurrencies reuses a currency list younger than one second.
func (e *Exchange) FetchCurrencies(ctx context.Context) (types.CurrencyMap, error) {
	return e.currencies.Get(ctx, e.fetchCurrencies)
}

func (e *Exchange) FetchMarkets(ctx context.Context) ([]types.Market, error) {
	currencies, err := e.FetchCurrencies(ctx)
	if err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "pair", nil)
	if err != nil {
		return nil, err
	}

	byID := currencies.ByID()

	var markets []types.Market
	for _, item := range safe.Array(v) {
		if m, ok := e.parseMarket(item, byID); ok {
			markets = append(markets, m)
		}
	}
	return markets, nil
}

func pairParams(market types.Market) types.Params {
	return types.Params{"currency": market.BaseID, "quote": market.QuoteID}
}

func (e *Exchange) FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "ticker", types.Params{"base": market.BaseID, "quote": market.QuoteID})
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

	v, err := e.Request(ctx, "tickers", nil)
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

	params := pairParams(market)
	if limit > 0 {
		params["limit"] = limit
	}

	v, err := e.Request(ctx, "book", params)
	if err != nil {
		return nil, err
	}

	ob := types.NewOrderBook(market.Symbol,
		safe.PriceLevels(safe.Value(v, "bid"), "price", "quantity"),
		safe.PriceLevels(safe.Value(v, "ask"), "price", "quantity"),
		types.Milliseconds(e.Now()), limit)
	return &ob, nil
}

func (e *Exchange) FetchTrades(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Trade, error) {
	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	params := pairParams(market)
	if limit := options.LimitOr(0); limit > 0 {
		params["limit"] = limit
	}

	v, err := e.Request(ctx, "tradeHistory", params.Extend(options.ExtraParams()))
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

// FetchBalance returns the spot account unless params select "wallet" or "funding".
func (e *Exchange) FetchBalance(ctx context.Context) (*types.Balances, error) {
	return e.FetchBalanceOf(ctx, "spot")
}

func (e *Exchange) FetchBalanceOf(ctx context.Context, accountType string) (*types.Balances, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	kind, ok := accountTypes[accountType]
	if !ok {
		kind = defaultAccountType
	}

	v, err := e.Request(ctx, "account", nil)
	if err != nil {
		return nil, err
	}

	balances := e.parseBalances(v, kind)
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

	condition := "GOOD_TILL_CANCELLED"
	switch order.TimeInForce {
	case types.TimeInForceIOC:
		condition = "IMMEDIATE_OR_CANCEL"
	case types.TimeInForceFOK:
		condition = "FILL_OR_KILL"
	}

	clientOrderID := order.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}

	params := types.Params{
		"baseCurrency":  market.BaseID,
		"quoteCurrency": market.QuoteID,
		"side":          strings.ToUpper(string(order.Side)),
		"condition":     condition,
		"type":          strings.ToUpper(string(order.Type)),
		"clientOrderId": clientOrderID,
		"quantity":      amount,
		"timestamp":     e.Milliseconds(),
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

	v, err := e.Request(ctx, "placeOrder", params.Extend(order.Params))
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, &market)
	o.ClientOrderID = clientOrderID
	return &o, nil
}

func (e *Exchange) CancelOrder(ctx context.Context, id, symbol string) (*types.Order, error) {
	v, err := e.Request(ctx, "cancelOrder", types.Params{"id": id})
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, nil)
	return &o, nil
}

// CancelAllOrders cancels the orders of one market, or of every market when symbol is empty.
func (e *Exchange) CancelAllOrders(ctx context.Context, symbol string) ([]types.Order, error) {
	name, params := "cancelAll", types.Params{}
	if symbol != "" {
		market, err := e.LoadMarket(ctx, symbol)
		if err != nil {
			return nil, err
		}
		name, params = "cancelAllPair", pairParams(market)
	}

	v, err := e.Request(ctx, name, params)
	if err != nil {
		return nil, err
	}

	return []types.Order{e.parseOrder(v, nil)}, nil
}

func (e *Exchange) FetchOrder(ctx context.Context, id, symbol string) (*types.Order, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "getOrder", types.Params{"id": id})
	if err != nil {
		return nil, err
	}

	o := e.parseOrder(v, nil)
	return &o, nil
}

func (e *Exchange) FetchOpenOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	if symbol == "" {
		return nil, e.NewError(exerrors.ArgumentsRequired, "fetchOpenOrders() requires a symbol argument")
	}

	market, err := e.LoadMarket(ctx, symbol)
	if err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "activeOrders", pairParams(market).Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}
	return e.parseOrders(v, &market, options), nil
}

// FetchClosedOrders returns the order history, which also holds canceled orders.
func (e *Exchange) FetchClosedOrders(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Order, error) {
	name, params := "orders", types.Params{}
	var market *types.Market
	if symbol != "" {
		m, err := e.LoadMarket(ctx, symbol)
		if err != nil {
			return nil, err
		}
		market = &m
		name, params = "pairOrders", pairParams(m)
	} else if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	if limit := options.LimitOr(0); limit > 0 {
		params["limit"] = limit
	}

	v, err := e.Request(ctx, name, params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}

	var closed []types.Order
	for _, o := range e.parseOrders(v, market, options) {
		if o.Status != types.OrderStatusOpen {
			closed = append(closed, o)
		}
	}
	return closed, nil
}

func (e *Exchange) parseOrders(v *fastjson.Value, market *types.Market, options *types.FetchOptions) []types.Order {
	var orders []types.Order
	for _, item := range safe.Array(v) {
		orders = append(orders, e.parseOrder(item, market))
	}
	return types.FilterOrders(orders, options.SinceMillis(), options.LimitOr(0))
}

func (e *Exchange) FetchMyTrades(ctx context.Context, symbol string, options *types.FetchOptions) ([]types.Trade, error) {
	name, params := "trades", types.Params{}
	var market *types.Market
	if symbol != "" {
		m, err := e.LoadMarket(ctx, symbol)
		if err != nil {
			return nil, err
		}
		market = &m
		name, params = "pairTrades", pairParams(m)
	} else if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	if limit := options.LimitOr(0); limit > 0 {
		params["limit"] = limit
	}

	v, err := e.Request(ctx, name, params.Extend(options.ExtraParams()))
	if err != nil {
		return nil, err
	}
	return e.parseTrades(safe.Array(v), market, options), nil
}

func (e *Exchange) FetchTransactions(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "transactions", options.ExtraParams())
	if err != nil {
		return nil, err
	}

	var txs []types.Transaction
	for _, item := range safe.Array(v, "content") {
		tx := e.parseTransaction(item)
		if code != "" && tx.Currency != code {
			continue
		}
		txs = append(txs, tx)
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
	return out, nil
}

func (e *Exchange) FetchDeposits(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	return e.fetchTransactionsOf(ctx, types.TransactionDeposit, code, options)
}

func (e *Exchange) FetchWithdrawals(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transaction, error) {
	return e.fetchTransactionsOf(ctx, types.TransactionWithdrawal, code, options)
}

func (e *Exchange) FetchTransfers(ctx context.Context, code string, options *types.FetchOptions) ([]types.Transfer, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	v, err := e.Request(ctx, "transfers", options.ExtraParams())
	if err != nil {
		return nil, err
	}

	var transfers []types.Transfer
	for _, item := range safe.Array(v, "content") {
		t := e.parseTransfer(item)
		if code != "" && t.Currency != code {
			continue
		}
		transfers = append(transfers, t)
	}
	return types.FilterTransfers(transfers, options.SinceMillis(), options.LimitOr(0)), nil
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{6,}$`)
)

// Transfer sends funds to another user, addressed by email, phone number or user id.
// fromAccount is ignored; transfers always leave the spot account.
func (e *Exchange) Transfer(ctx context.Context, code string, amount types.Number, fromAccount, toAccount string, params types.Params) (*types.Transfer, error) {
	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	currency, err := e.Currency(code)
	if err != nil {
		return nil, err
	}

	name := "transferByID"
	switch {
	case emailPattern.MatchString(toAccount):
		name = "transferByEmail"
	case phonePattern.MatchString(toAccount):
		name = "transferByPhone"
	}

	request := types.Params{"currency": currency.ID, "recipient": toAccount, "value": amount.Canonical()}
	v, err := e.Request(ctx, name, request.Extend(params))
	if err != nil {
		return nil, err
	}

	t := e.parseTransfer(v)
	if t.Currency == "" {
		t.Currency = code
	}
	if !t.Amount.IsSet() {
		t.Amount = amount
	}
	t.ToAccount = toAccount
	log.Infof("transfer %s %s to %s: %s", amount, code, toAccount, t.Status)
	return &t, nil
}
