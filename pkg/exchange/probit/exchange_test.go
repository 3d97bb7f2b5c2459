package probit

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/testing/httptesting"
	"github.com/c9s/connectors/pkg/testing/testhelper"
	"github.com/c9s/connectors/pkg/types"
)

const currenciesJSON = `{"data":[
	{"id":"BTC","display_name":{"en-us":"Bitcoin"},"platform":[
		{"id":"BTC","priority":1,"deposit":true,"withdrawal":true,"precision":8,"min_withdrawal_amount":"0.001","withdrawal_fee":[{"amount":"0.0005","priority":1}]}
	]},
	{"id":"USDT","display_name":{"en-us":"Tether"},"platform":[
		{"id":"TRON","priority":2,"deposit":true,"withdrawal":true,"precision":6,"withdrawal_fee":[{"amount":"1"}]},
		{"id":"ETH","priority":1,"deposit":true,"withdrawal":true,"withdrawal_suspended":true,"precision":6,"withdrawal_fee":[{"amount":"10"}]}
	]}
]}`

const marketsJSON = `{"data":[
	{"id":"BTC-USDT","base_currency_id":"BTC","quote_currency_id":"USDT","min_price":"0.1","max_price":"9999999999999999",
	 "price_increment":"0.1","min_quantity":"0.00000001","max_quantity":"9999999999999999","quantity_precision":8,
	 "min_cost":"1","max_cost":"9999999999999999","cost_precision":8,"taker_fee_rate":"0.2","maker_fee_rate":"0.1","closed":false}
]}`

var fixedNow = time.UnixMilli(1700000000000)

func newTestExchange(creds types.Credentials) (*Exchange, *httptesting.MockTransport) {
	ex := New(creds)
	transport := &httptesting.MockTransport{}
	ex.HttpClient.Transport = transport
	ex.SetThrottle(nil)
	ex.SetClock(func() time.Time { return fixedNow })

	transport.GET("/api/exchange/v1/currency_with_platform", httptesting.JsonReply(http.StatusOK, currenciesJSON))
	transport.GET("/api/exchange/v1/market", httptesting.JsonReply(http.StatusOK, marketsJSON))
	transport.POST("/token", httptesting.JsonReply(http.StatusOK,
		`{"access_token":"tok-1","token_type":"Bearer","expires_in":900}`))
	return ex, transport
}

func TestFetchMarkets(t *testing.T) {
	ex, _ := newTestExchange(types.Credentials{})

	markets, err := ex.LoadMarkets(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, []string{"BTC/USDT"}, markets.Symbols())

	m := markets["BTC/USDT"]
	assert.Equal(t, types.Number("0.002"), m.Taker)
	assert.Equal(t, types.Number("0.001"), m.Maker)
	assert.Equal(t, types.Number("0.00000001"), m.Precision.Amount)
	assert.Equal(t, types.Number("0.1"), m.Precision.Price)
	assert.True(t, m.Active.Bool)

	usdt := ex.Currencies()["USDT"]
	assert.Equal(t, types.Number("10"), usdt.Fee)
	assert.False(t, usdt.Networks["ETH"].Withdraw.Bool)
	assert.True(t, usdt.Networks["TRON"].Withdraw.Bool)
}

func TestTokenRefreshedOnce(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "client", Secret: "secret"})
	transport.GET("/api/exchange/v1/balance", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer tok-1", req.Header.Get("Authorization"))
		return httptesting.BuildResponseJson(http.StatusOK,
			`{"data":[{"currency_id":"BTC","total":"1.5","available":"1"}]}`), nil
	})

	_, err := ex.LoadMarkets(context.Background(), false)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			balances, err := ex.FetchBalance(context.Background())
			if assert.NoError(t, err) {
				assert.Equal(t, types.Number("1"), balances.Currencies["BTC"].Free)
				assert.Equal(t, types.Number("1.5"), balances.Currencies["BTC"].Total)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, transport.Count(http.MethodPost, "/token"))
	assert.Equal(t, 8, transport.Count(http.MethodGet, "/balance"))

	for _, r := range transport.Requests() {
		if strings.HasSuffix(r.URL, "/token") {
			assert.Equal(t, base.BasicAuth("client", "secret"), r.Header.Get("Authorization"))
			assert.Contains(t, r.URL, "https://accounts.probit.com/")
			assert.Equal(t, "client_credentials", safe.String(safe.Parse([]byte(r.Body)), "grant_type"))
		}
	}
}

func TestTokenExpiry(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "client", Secret: "secret"})
	transport.GET("/api/exchange/v1/balance", httptesting.JsonReply(http.StatusOK, `{"data":[]}`))

	now := fixedNow
	ex.SetClock(func() time.Time { return now })

	_, err := ex.FetchBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, transport.Count(http.MethodPost, "/token"))

	now = now.Add(time.Hour)
	_, err = ex.FetchBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, transport.Count(http.MethodPost, "/token"))
}

func TestUnauthorizedInvalidatesToken(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "client", Secret: "secret"})
	transport.GET("/api/exchange/v1/balance", httptesting.JsonReply(http.StatusUnauthorized,
		`{"errorCode":"UNAUTHORIZED","message":"token expired"}`))

	_, err := ex.FetchBalance(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, exerrors.AuthenticationError))

	_, err = ex.FetchBalance(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, transport.Count(http.MethodPost, "/token"))
}

func TestCreateMarketBuyByCost(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "client", Secret: "secret"})
	transport.POST("/api/exchange/v1/new_order", httptesting.JsonReply(http.StatusOK,
		`{"data":{"id":"1","market_id":"BTC-USDT","type":"market","side":"buy","cost":"100","filled_quantity":"0.0025","filled_cost":"100","status":"filled","time":"2023-11-14T22:13:20.000Z","time_in_force":"ioc"}}`))

	o, err := ex.CreateOrder(context.Background(), types.SubmitOrder{
		Symbol: "BTC/USDT",
		Type:   types.OrderTypeMarket,
		Side:   types.SideBuy,
		Amount: "0.0025",
		Price:  "40000",
	})
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusClosed, o.Status)
	assert.Equal(t, "BTC/USDT", o.Symbol)
	assert.Equal(t, types.TimeInForceIOC, o.TimeInForce)
	assert.Equal(t, int64(1700000000000), o.Timestamp.Int64)

	requests := transport.Requests()
	sent := safe.Parse([]byte(requests[len(requests)-1].Body))
	assert.Equal(t, "100", safe.String(sent, "cost"))
	assert.Equal(t, "", safe.String(sent, "quantity"))
	assert.Equal(t, "ioc", safe.String(sent, "time_in_force"))
}

func TestCancelAllOrdersAggregatesErrors(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "client", Secret: "secret"})
	transport.GET("/api/exchange/v1/open_order", httptesting.JsonReply(http.StatusOK, `{"data":[
		{"id":"1","market_id":"BTC-USDT","type":"limit","side":"buy","quantity":"1","limit_price":"100","status":"open","time":"2023-11-14T22:13:20.000Z"},
		{"id":"2","market_id":"BTC-USDT","type":"limit","side":"buy","quantity":"1","limit_price":"101","status":"open","time":"2023-11-14T22:13:20.000Z"}
	]}`))
	transport.POST("/api/exchange/v1/cancel_order", func(req *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		if safe.String(safe.Parse(body), "order_id") == "2" {
			return httptesting.BuildResponseJson(http.StatusBadRequest, `{"errorCode":"INVALID_ORDER","message":"order not found"}`), nil
		}
		return httptesting.BuildResponseJson(http.StatusOK,
			`{"data":{"id":"1","market_id":"BTC-USDT","type":"limit","side":"buy","quantity":"1","open_quantity":"1","status":"cancelled"}}`), nil
	})

	canceled, err := ex.CancelAllOrders(context.Background(), "BTC/USDT")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exerrors.InvalidOrder))
	require.Len(t, canceled, 1)
	assert.Equal(t, types.OrderStatusCanceled, canceled[0].Status)
	assert.Equal(t, types.Number("0"), canceled[0].Remaining)
}

func TestFetchOrderBook(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{})
	transport.GET("/api/exchange/v1/order_book", httptesting.JsonReply(http.StatusOK, `{"data":[
		{"side":"buy","price":"99","quantity":"1"},
		{"side":"sell","price":"102","quantity":"3"},
		{"side":"buy","price":"100","quantity":"2"},
		{"side":"sell","price":"101","quantity":"4"}
	]}`))

	ob, err := ex.FetchOrderBook(context.Background(), "BTC/USDT", 0)
	require.NoError(t, err)
	assert.Equal(t, types.Number("100"), ob.Bids[0].Price)
	assert.Equal(t, types.Number("101"), ob.Asks[0].Price)
	assert.Len(t, ob.Bids, 2)
	testhelper.AssertOrderBookSorted(t, ob)
}

func TestFetchOHLCV(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{})
	transport.GET("/api/exchange/v1/candle", func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		assert.Equal(t, "1D", q.Get("interval"))
		assert.Equal(t, "BTC-USDT", q.Get("market_ids"))
		assert.Equal(t, "asc", q.Get("sort"))
		assert.Equal(t, "2023-11-12T22:13:20.000Z", q.Get("start_time"))
		return httptesting.BuildResponseJson(http.StatusOK, `{"data":[
			{"market_id":"BTC-USDT","open":"1","close":"2","low":"0.5","high":"3","base_volume":"10","quote_volume":"20","start_time":"2023-11-13T00:00:00.000Z","end_time":"2023-11-14T00:00:00.000Z"}
		]}`), nil
	})

	candles, err := ex.FetchOHLCV(context.Background(), "BTC/USDT", "1d", &types.FetchOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, int64(1699833600000), candles[0].Timestamp)
	assert.Equal(t, types.Number("10"), candles[0].Volume)
}
