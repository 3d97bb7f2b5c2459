package coinmetro

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/testing/httptesting"
	"github.com/c9s/connectors/pkg/testing/testhelper"
	"github.com/c9s/connectors/pkg/types"
)

const assetsJSON = `[
	{"symbol":"ETH","name":"Ethereum","digits":8,"minQty":0.001,"type":"crypto","canDeposit":true,"canWithdraw":true,"canTrade":true},
	{"symbol":"USD","name":"US Dollar","digits":2,"minQty":5,"type":"fiat","canDeposit":true,"canWithdraw":true,"canTrade":true},
	{"symbol":"USDT","name":"Tether","digits":2,"minQty":5,"type":"crypto","canDeposit":true,"canWithdraw":false,"canTrade":true}
]`

const marketsJSON = `[
	{"pair":"ETHUSDT","precision":5,"margin":false},
	{"pair":"ETHUSD","precision":5,"margin":true}
]`

func newTestExchange(creds types.Credentials) (*Exchange, *httptesting.MockTransport) {
	ex := New(creds)
	transport := &httptesting.MockTransport{}
	ex.HttpClient.Transport = transport
	ex.SetThrottle(nil)

	transport.GET("/assets", httptesting.JsonReply(http.StatusOK, assetsJSON))
	transport.GET("/markets", httptesting.JsonReply(http.StatusOK, marketsJSON))
	return ex, transport
}

func TestFetchMarkets(t *testing.T) {
	ctx := context.Background()
	ex, transport := newTestExchange(types.Credentials{})

	markets, err := ex.LoadMarkets(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"ETH/USD", "ETH/USDT"}, markets.Symbols())
	assert.Equal(t, 1, transport.Count(http.MethodGet, "/assets"))

	m := markets["ETH/USDT"]
	assert.Equal(t, "ETH", m.BaseID)
	assert.Equal(t, "USDT", m.QuoteID)
	assert.Equal(t, m.Base+"/"+m.Quote, m.Symbol)
	assert.Equal(t, types.Number("0.00000001"), m.Precision.Amount)
	assert.Equal(t, types.Number("0.01"), m.Precision.Price)
	assert.Equal(t, types.Number("0.001"), m.Limits.Amount.Min)
	assert.True(t, markets["ETH/USD"].Margin)

	t.Run("idempotent", func(t *testing.T) {
		first, err := ex.FetchMarkets(ctx)
		require.NoError(t, err)
		second, err := ex.FetchMarkets(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	currencies := ex.Currencies()
	assert.False(t, currencies["USDT"].Withdraw.Bool)
	assert.Equal(t, types.Number("0.01"), currencies["USD"].Precision)
}

// fetchMarketsWithin fails the test when FetchMarkets does not return in time.
func fetchMarketsWithin(t *testing.T, ex *Exchange, timeout time.Duration) []types.Market {
	type result struct {
		markets []types.Market
		err     error
	}

	done := make(chan result, 1)
	go func() {
		markets, err := ex.FetchMarkets(context.Background())
		done <- result{markets, err}
	}()

	select {
	case r := <-done:
		require.NoError(t, r.err)
		return r.markets
	case <-time.After(timeout):
		t.Fatal("FetchMarkets did not return")
		return nil
	}
}

func TestFetchMarketsColdCache(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{})

	markets := fetchMarketsWithin(t, ex, 2*time.Second)

	var symbols []string
	for _, m := range markets {
		symbols = append(symbols, m.Symbol)
	}
	assert.ElementsMatch(t, []string{"ETH/USDT", "ETH/USD"}, symbols)
	assert.Equal(t, 1, transport.Count(http.MethodGet, "/assets"))

	fetchMarketsWithin(t, ex, 2*time.Second)
	assert.Equal(t, 1, transport.Count(http.MethodGet, "/assets"))
}

func TestFetchMarketsEmptyCurrencies(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{})
	transport.GET("/assets", httptesting.JsonReply(http.StatusOK, `[]`))

	assert.Empty(t, fetchMarketsWithin(t, ex, 2*time.Second))
	assert.Equal(t, 1, transport.Count(http.MethodGet, "/assets"))

	done := make(chan error, 1)
	go func() {
		_, err := ex.LoadMarkets(context.Background(), true)
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("LoadMarkets did not return")
	}

	// discovery stores the empty list, market parsing populates it once more
	assert.Equal(t, 3, transport.Count(http.MethodGet, "/assets"))
	assert.Empty(t, ex.Markets())
}

func TestFetchOrderBook(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{})
	transport.GET("/exchange/book/ETHUSDT", httptesting.JsonReply(http.StatusOK, `{"book":{
		"pair":"ETHUSDT","seqNumber":10873722343,
		"bid":{"2352.6339":"3.75","2360.1":"0.5","2300":"1"},
		"ask":{"2354.2861":"3.75","2354.1":"2","2400":"0.1"}
	}}`))

	ob, err := ex.FetchOrderBook(context.Background(), "ETH/USDT", 0)
	require.NoError(t, err)

	assert.Equal(t, "ETH/USDT", ob.Symbol)
	assert.Equal(t, testhelper.PriceLevels("2360.1:0.5", "2352.6339:3.75", "2300:1"), ob.Bids)
	assert.Equal(t, testhelper.PriceLevels("2354.1:2", "2354.2861:3.75", "2400:0.1"), ob.Asks)
	testhelper.AssertOrderBookSorted(t, ob)
	assert.Equal(t, int64(10873722343), ob.Nonce.Int64)
}

func TestFetchLedger(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{Token: "jwt-token"})
	transport.GET("/users/wallets/history/1", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer jwt-token", req.Header.Get("Authorization"))
		assert.Equal(t, "true", req.Header.Get("CCXT"))
		assert.Equal(t, "bypass", req.Header.Get("X-Device-Id"))

		return httptesting.BuildResponseJson(http.StatusOK, `{"list":[{
			"currency":"ETH","label":"ETH","balance":10,
			"balanceHistory":[
				{"description":"Order 65671262d93d9525ac009e36 - 65671262d93d9525ac009e37","JSONdata":{"fees":0.0045},"amount":-4.564,"timestamp":"2023-11-29T10:15:30.296Z","_id":"h1"},
				{"description":"Deposit - 0x1234","amount":"3","timestamp":"2023-11-30T10:15:30.000Z","_id":"h2"}
			]}]}`), nil
	})

	entries, err := ex.FetchLedger(context.Background(), "", nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	out := entries[0]
	assert.Equal(t, types.DirectionOut, out.Direction)
	assert.Equal(t, types.Number("4.564"), out.Amount)
	assert.Equal(t, "trade", out.Type)
	assert.Equal(t, "65671262d93d9525ac009e36", out.ReferenceID)
	assert.Equal(t, "ETH", out.Currency)
	assert.Equal(t, "2023-11-29T10:15:30.296Z", out.Datetime)
	require.NotNil(t, out.Fee)
	assert.Equal(t, types.Number("0.0045"), out.Fee.Cost)

	in := entries[1]
	assert.Equal(t, types.DirectionIn, in.Direction)
	assert.Equal(t, "transaction", in.Type)
	assert.Equal(t, "0x1234", in.ReferenceID)
}

func TestCreateOrder(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{Secret: "secret-token"})

	var form url.Values
	transport.POST("/exchange/orders/create", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer secret-token", req.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))

		captured := transport.Requests()
		form, _ = url.ParseQuery(captured[len(captured)-1].Body)

		return httptesting.BuildResponseJson(http.StatusOK, `{
			"orderID":"6567e1f0bc1a6b5e6e41fc42","orderType":"limit",
			"buyingCurrency":"USDT","sellingCurrency":"ETH",
			"buyingQty":"4564","sellingQty":"2","boughtQty":"2282","soldQty":"1",
			"creationTime":1701175792000,"fills":[]
		}`), nil
	})

	o, err := ex.CreateOrder(context.Background(), types.SubmitOrder{
		Symbol: "ETH/USDT",
		Type:   types.OrderTypeLimit,
		Side:   types.SideSell,
		Amount: "2.000000001",
		Price:  "2282",
	})
	require.NoError(t, err)

	assert.Equal(t, "ETH", form.Get("sellingCurrency"))
	assert.Equal(t, "USDT", form.Get("buyingCurrency"))
	assert.Equal(t, "2", form.Get("sellingQty"))
	assert.Equal(t, "4564", form.Get("buyingQty"))
	assert.Equal(t, "limit", form.Get("orderType"))

	assert.Equal(t, types.SideSell, o.Side)
	assert.Equal(t, "ETH/USDT", o.Symbol)
	assert.Equal(t, types.Number("2"), o.Amount)
	assert.Equal(t, types.Number("1"), o.Filled)
	assert.Equal(t, types.Number("1"), o.Remaining)
	assert.Equal(t, types.Number("2282"), o.Average)
	assert.Equal(t, types.Number("2282"), o.Price)
	assert.Equal(t, types.OrderStatusOpen, o.Status)
}

func TestPrivateRequiresToken(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{})

	_, err := ex.FetchBalance(context.Background())
	assert.True(t, errors.Is(err, exerrors.AuthenticationError))
	assert.Empty(t, transport.Requests())
}

func TestLoginSession(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{Login: "user@example.com", Password: "pw"})
	transport.POST("/jwt", func(req *http.Request) (*http.Response, error) {
		return httptesting.BuildResponseJson(http.StatusOK, `{"token":"session-token","userId":"u1"}`), nil
	})
	transport.GET("/users/wallets", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer session-token", req.Header.Get("Authorization"))
		return httptesting.BuildResponseJson(http.StatusOK, `{"list":[{"currency":"ETH","balance":"1.5","reserved":"0.5"}]}`), nil
	})

	for i := 0; i < 2; i++ {
		balances, err := ex.FetchBalance(context.Background())
		require.NoError(t, err)

		eth := balances.Currencies["ETH"]
		assert.Equal(t, types.Number("1.5"), eth.Total)
		assert.Equal(t, types.Number("0.5"), eth.Used)
		assert.False(t, eth.Free.IsSet())
	}

	assert.Equal(t, 1, transport.Count(http.MethodPost, "/jwt"))

	body := safe.Parse([]byte(transport.Requests()[0].Body))
	assert.Equal(t, "user@example.com", safe.String(body, "login"))
}

func TestHandleErrors(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{Token: "t"})
	transport.GET("/exchange/orders/status/abc", httptesting.JsonReply(http.StatusNotFound, `{"message":"Order Not Found"}`))
	transport.GET("/exchange/orders/active", httptesting.JsonReply(http.StatusBadRequest, `{"message":"Not enough balance for this"}`))
	transport.GET("/exchange/fills/0", httptesting.JsonReply(http.StatusInternalServerError, `{"message":"boom"}`))

	_, err := ex.FetchOrder(context.Background(), "abc", "")
	assert.True(t, errors.Is(err, exerrors.OrderNotFound))
	assert.Contains(t, err.Error(), "coinmetro ")

	_, err = ex.FetchOpenOrders(context.Background(), "", nil)
	assert.True(t, errors.Is(err, exerrors.InsufficientFunds))

	_, err = ex.FetchMyTrades(context.Background(), "", nil)
	assert.Equal(t, exerrors.ExchangeError, exerrors.KindOf(err))
}
