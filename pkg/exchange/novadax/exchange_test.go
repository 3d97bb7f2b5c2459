package novadax

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/testing/httptesting"
	"github.com/c9s/connectors/pkg/types"
)

const symbolsJSON = `{"code":"A10000","data":[
	{"symbol":"BTC_BRL","baseCurrency":"BTC","quoteCurrency":"BRL","amountPrecision":4,"pricePrecision":2,"valuePrecision":4,
	 "minOrderAmount":"0.001","minOrderValue":"5","status":"ONLINE"},
	{"symbol":"ETH_BRL","baseCurrency":"ETH","quoteCurrency":"BRL","amountPrecision":4,"pricePrecision":2,"valuePrecision":4,
	 "minOrderAmount":"0.01","minOrderValue":"5","status":"SUSPENDED"}
],"message":"Success"}`

var fixedNow = time.UnixMilli(1700000000000)

func newTestExchange(creds types.Credentials) (*Exchange, *httptesting.MockTransport) {
	ex := New(creds)
	transport := &httptesting.MockTransport{}
	ex.HttpClient.Transport = transport
	ex.SetThrottle(nil)
	ex.SetClock(func() time.Time { return fixedNow })

	transport.GET("/v1/common/symbols", httptesting.JsonReply(http.StatusOK, symbolsJSON))
	return ex, transport
}

func TestFetchMarkets(t *testing.T) {
	ex, _ := newTestExchange(types.Credentials{})

	markets, err := ex.LoadMarkets(context.Background(), false)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"BTC/BRL", "ETH/BRL"}, markets.Symbols())

	btc := markets["BTC/BRL"]
	assert.Equal(t, types.Number("4"), btc.Precision.Amount)
	assert.Equal(t, types.Number("2"), btc.Precision.Price)
	assert.Equal(t, types.Number("5"), btc.Limits.Cost.Min)
	assert.True(t, btc.Active.Bool)
	assert.False(t, markets["ETH/BRL"].Active.Bool)

	price, err := ex.PriceToPrecision(btc, "200000.129")
	require.NoError(t, err)
	assert.Equal(t, types.Number("200000.13"), price)

	amount, err := ex.AmountToPrecision(btc, "0.12345")
	require.NoError(t, err)
	assert.Equal(t, types.Number("0.1234"), amount)
}

func TestSignature(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key", Secret: "secret"})
	transport.GET("/v1/account/getBalance", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "key", req.Header.Get("X-Nova-Access-Key"))
		assert.Equal(t, "1700000000000", req.Header.Get("X-Nova-Timestamp"))
		assert.Equal(t, "6c7dd9256d9ea64ff7f7acfe1019470f26bfa8c9e7587088a9bb3d681f9f49eb", req.Header.Get("X-Nova-Signature"))
		return httptesting.BuildResponseJson(http.StatusOK, `{"code":"A10000","data":[
			{"available":"1.2","balance":"1.5","currency":"BTC","hold":"0.3"}
		],"message":"Success"}`), nil
	})

	balances, err := ex.FetchBalance(context.Background())
	require.NoError(t, err)
	btc := balances.Currencies["BTC"]
	assert.Equal(t, types.Number("1.2"), btc.Free)
	assert.Equal(t, types.Number("0.3"), btc.Used)
	assert.Equal(t, types.Number("1.5"), btc.Total)
}

func TestQuerySignature(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key", Secret: "secret"})
	transport.GET("/v1/orders/list", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "fb53663e23b70c0e0741cbbb88e6c48c65ce6dd2cb574b1132dcedbdfb982286", req.Header.Get("X-Nova-Signature"))
		return httptesting.BuildResponseJson(http.StatusOK, `{"code":"A10000","data":[
			{"id":"1","symbol":"BTC_BRL","type":"LIMIT","side":"BUY","price":"200000","amount":"0.5","filledAmount":"0.1","status":"PARTIAL_FILLED","timestamp":1699999999000}
		],"message":"Success"}`), nil
	})

	orders, err := ex.FetchOpenOrders(context.Background(), "BTC/BRL", nil)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, types.OrderStatusOpen, orders[0].Status)
	assert.Equal(t, types.SideBuy, orders[0].Side)
	assert.Equal(t, types.Number("0.4"), orders[0].Remaining)
}

func TestCreateOrderBodySignature(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key", Secret: "secret"})
	transport.POST("/v1/orders/create", httptesting.JsonReply(http.StatusOK, `{"code":"A10000","data":
		{"id":"633679992971251712","symbol":"BTC_BRL","type":"LIMIT","side":"BUY","price":"200000","amount":"0.5","status":"SUBMITTED","timestamp":1700000000000}
	,"message":"Success"}`))

	o, err := ex.CreateOrder(context.Background(), types.SubmitOrder{
		Symbol: "BTC/BRL",
		Type:   types.OrderTypeLimit,
		Side:   types.SideBuy,
		Amount: "0.5",
		Price:  "200000",
	})
	require.NoError(t, err)
	assert.Equal(t, "633679992971251712", o.ID)
	assert.Equal(t, types.OrderStatusOpen, o.Status)

	requests := transport.Requests()
	sent := requests[len(requests)-1]
	payload := "POST\n/v1/orders/create\n" + base.MD5Hex([]byte(sent.Body)) + "\n1700000000000"
	assert.Equal(t, base.HMACSHA256Hex(payload, "secret"), sent.Header.Get("X-Nova-Signature"))

	body := safe.Parse([]byte(sent.Body))
	assert.Equal(t, "LIMIT", safe.String(body, "type"))
	assert.Equal(t, "BUY", safe.String(body, "side"))
	assert.Equal(t, "BTC_BRL", safe.String(body, "symbol"))
}

func TestFetchOHLCV(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{})
	transport.GET("/v1/market/kline/history", func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		assert.Equal(t, "ONE_HOU", q.Get("unit"))
		assert.Equal(t, "1699992800", q.Get("from"))
		assert.Equal(t, "1700000000", q.Get("to"))
		return httptesting.BuildResponseJson(http.StatusOK, `{"code":"A10000","data":[
			{"amount":"8.25","closePrice":"2","count":12,"highPrice":"3","lowPrice":"0.5","openPrice":"1","score":1699992800,"symbol":"BTC_BRL","vol":"16.5"}
		],"message":"Success"}`), nil
	})

	candles, err := ex.FetchOHLCV(context.Background(), "BTC/BRL", "1h", &types.FetchOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, types.OHLCV{Timestamp: 1699992800000, Open: "1", High: "3", Low: "0.5", Close: "2", Volume: "8.25"}, candles[0])

	_, err = ex.FetchOHLCV(context.Background(), "BTC/BRL", "2h", nil)
	assert.True(t, errors.Is(err, exerrors.NotSupported))
}

func TestErrorCodes(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key", Secret: "secret"})
	transport.POST("/v1/orders/cancel", httptesting.JsonReply(http.StatusOK,
		`{"code":"A30007","data":null,"message":"Insufficient balance"}`))

	_, err := ex.CancelOrder(context.Background(), "1", "BTC/BRL")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exerrors.InsufficientFunds))
	assert.Contains(t, err.Error(), "novadax ")
}

func TestTransfer(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key", Secret: "secret"})
	transport.POST("/v1/account/subs/transfer", httptesting.JsonReply(http.StatusOK,
		`{"code":"A10000","data":"t-42","message":"Success"}`))

	transfer, err := ex.Transfer(context.Background(), "BTC", "0.1", "main", "sub-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "t-42", transfer.ID)
	assert.Equal(t, int64(1700000000000), transfer.Timestamp.Int64)

	requests := transport.Requests()
	body := safe.Parse([]byte(requests[len(requests)-1].Body))
	assert.Equal(t, "master-transfer-out", safe.String(body, "transferType"))
	assert.Equal(t, "sub-1", safe.String(body, "subId"))

	_, err = ex.Transfer(context.Background(), "BTC", "0.1", "sub-1", "sub-2", nil)
	assert.True(t, errors.Is(err, exerrors.BadRequest))
}
