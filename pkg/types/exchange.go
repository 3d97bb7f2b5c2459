package types

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type ExchangeName string

func (n ExchangeName) String() string {
	return string(n)
}

func (n *ExchangeName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	name, err := ValidExchangeName(s)
	if err != nil {
		return err
	}

	*n = name
	return nil
}

const (
	ExchangeCoinmetro = ExchangeName("coinmetro")
	ExchangeLatoken   = ExchangeName("latoken")
	ExchangeFoxbit    = ExchangeName("foxbit")
	ExchangeBitteam   = ExchangeName("bitteam")
	ExchangeProbit    = ExchangeName("probit")
	ExchangeNovadax   = ExchangeName("novadax")
	ExchangeHollaex   = ExchangeName("hollaex")
)

var SupportedExchanges = map[ExchangeName]struct{}{
	ExchangeCoinmetro: {},
	ExchangeLatoken:   {},
	ExchangeFoxbit:    {},
	ExchangeBitteam:   {},
	ExchangeProbit:    {},
	ExchangeNovadax:   {},
	ExchangeHollaex:   {},
}

func ValidExchangeName(a string) (ExchangeName, error) {
	n := ExchangeName(strings.ToLower(a))
	if _, ok := SupportedExchanges[n]; ok {
		return n, nil
	}

	return "", fmt.Errorf("invalid exchange name: %s", a)
}

// ExchangeMinimal is implemented by every adapter through the shared base exchange.
type ExchangeMinimal interface {
	Name() ExchangeName

	LoadMarkets(ctx context.Context, reload bool) (MarketMap, error)

	Market(symbol string) (Market, error)
}

type Exchange interface {
	ExchangeMinimal

	ExchangeMarketDataService
}

type ExchangeMarketDataService interface {
	FetchMarkets(ctx context.Context) ([]Market, error)

	FetchTicker(ctx context.Context, symbol string) (*Ticker, error)

	FetchOrderBook(ctx context.Context, symbol string, limit int) (*OrderBook, error)

	FetchTrades(ctx context.Context, symbol string, options *FetchOptions) ([]Trade, error)
}

type ExchangeTickersService interface {
	FetchTickers(ctx context.Context, symbols ...string) (map[string]Ticker, error)
}

type ExchangeOHLCVService interface {
	FetchOHLCV(ctx context.Context, symbol, timeframe string, options *FetchOptions) ([]OHLCV, error)
}

type ExchangeCurrencyService interface {
	FetchCurrencies(ctx context.Context) (CurrencyMap, error)
}

type ExchangeTradeService interface {
	FetchBalance(ctx context.Context) (*Balances, error)

	CreateOrder(ctx context.Context, order SubmitOrder) (*Order, error)

	CancelOrder(ctx context.Context, id, symbol string) (*Order, error)

	FetchOpenOrders(ctx context.Context, symbol string, options *FetchOptions) ([]Order, error)
}

// ExchangeOrderQueryService queries a single order by its exchange id.
type ExchangeOrderQueryService interface {
	FetchOrder(ctx context.Context, id, symbol string) (*Order, error)
}

type ExchangeCancelAllService interface {
	CancelAllOrders(ctx context.Context, symbol string) ([]Order, error)
}

type ExchangeTradeHistoryService interface {
	FetchMyTrades(ctx context.Context, symbol string, options *FetchOptions) ([]Trade, error)

	FetchClosedOrders(ctx context.Context, symbol string, options *FetchOptions) ([]Order, error)
}

type ExchangeCanceledAndClosedOrdersService interface {
	FetchCanceledAndClosedOrders(ctx context.Context, symbol string, options *FetchOptions) ([]Order, error)
}

type ExchangeLedgerService interface {
	FetchLedger(ctx context.Context, code string, options *FetchOptions) ([]LedgerEntry, error)
}

type ExchangeDepositService interface {
	FetchDepositAddress(ctx context.Context, code string, params Params) (*DepositAddress, error)

	FetchDeposits(ctx context.Context, code string, options *FetchOptions) ([]Transaction, error)

	FetchWithdrawals(ctx context.Context, code string, options *FetchOptions) ([]Transaction, error)
}

type ExchangeTransactionService interface {
	FetchTransactions(ctx context.Context, code string, options *FetchOptions) ([]Transaction, error)
}

type ExchangeWithdrawalService interface {
	Withdraw(ctx context.Context, code string, amount Number, address, tag string, params Params) (*Transaction, error)
}

type ExchangeTransferService interface {
	Transfer(ctx context.Context, code string, amount Number, fromAccount, toAccount string, params Params) (*Transfer, error)
}

// ExchangeEditOrderService replaces an open order with new parameters.
type ExchangeEditOrderService interface {
	EditOrder(ctx context.Context, id string, order SubmitOrder) (*Order, error)
}
