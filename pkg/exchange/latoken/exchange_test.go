package latoken

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/testing/httptesting"
	"github.com/c9s/connectors/pkg/types"
)

const currenciesJSON = `[
	{"id":"eth-uuid","status":"CURRENCY_STATUS_ACTIVE","type":"CURRENCY_TYPE_CRYPTO","name":"Ethereum","tag":"ETH","decimals":8,"minTransferAmount":"0.01"},
	{"id":"usdt-uuid","status":"CURRENCY_STATUS_ACTIVE","type":"CURRENCY_TYPE_CRYPTO","name":"Tether USD","tag":"USDT","decimals":6,"minTransferAmount":"1"},
	{"id":"gmt-uuid","status":"CURRENCY_STATUS_INACTIVE","type":"CURRENCY_TYPE_CRYPTO","name":"GMT","tag":"GMT","decimals":2}
]`

const pairsJSON = `[
	{"id":"pair-1","status":"PAIR_STATUS_ACTIVE","baseCurrency":"eth-uuid","quoteCurrency":"usdt-uuid",
	 "priceTick":"0.01","quantityTick":"0.0001","minOrderQuantity":"0.001","minOrderCostUsdt":"1","maxOrderCostUsdt":"100000","created":1571333313871},
	{"id":"pair-2","status":"PAIR_STATUS_ACTIVE","baseCurrency":"unknown-uuid","quoteCurrency":"usdt-uuid","priceTick":"0.01","quantityTick":"1"}
]`

var fixedNow = time.UnixMilli(1700000000000)

func newTestExchange(creds types.Credentials) (*Exchange, *httptesting.MockTransport) {
	ex := New(creds)
	transport := &httptesting.MockTransport{}
	ex.HttpClient.Transport = transport
	ex.SetThrottle(nil)
	ex.SetClock(func() time.Time { return fixedNow })

	transport.GET("/v2/currency", httptesting.JsonReply(http.StatusOK, currenciesJSON))
	transport.GET("/v2/pair", httptesting.JsonReply(http.StatusOK, pairsJSON))
	return ex, transport
}

func TestFetchMarkets(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{})

	markets, err := ex.LoadMarkets(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"ETH/USDT"}, markets.Symbols())

	m := markets["ETH/USDT"]
	assert.Equal(t, "pair-1", m.ID)
	assert.Equal(t, "eth-uuid", m.BaseID)
	assert.Equal(t, types.Number("0.0001"), m.Precision.Amount)
	assert.Equal(t, types.Number("1"), m.Limits.Cost.Min)
	assert.Equal(t, types.Number("100000"), m.Limits.Cost.Max)
	assert.Equal(t, types.Number("0.0049"), m.Taker)
	assert.Equal(t, int64(1571333313871), m.Created.Int64)

	assert.Equal(t, 1, transport.Count(http.MethodGet, "/v2/currency"))
	assert.False(t, ex.Currencies()["GMT Token"].Active.Bool)
	assert.Equal(t, types.Number("0.000001"), ex.Currencies()["USDT"].Precision)
}

func TestCurrencyCacheExpires(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{})
	now := fixedNow
	ex.SetClock(func() time.Time { return now })

	_, err := ex.FetchCurrencies(context.Background())
	require.NoError(t, err)
	_, err = ex.FetchCurrencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, transport.Count(http.MethodGet, "/v2/currency"))

	now = now.Add(2 * time.Second)
	_, err = ex.FetchCurrencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, transport.Count(http.MethodGet, "/v2/currency"))
}

func TestSignature(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key", Secret: "secret"})
	transport.GET("/v2/auth/account", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "key", req.Header.Get("X-LA-APIKEY"))
		assert.Equal(t, "HMAC-SHA512", req.Header.Get("X-LA-DIGEST"))
		assert.Equal(t,
			"b755aec7251e457fb3f6a903136cd423209e8d0708de488e8e49ddd07295740cb2a8ef54eb5f1b6af625ba55eeed6e0c389c58cb56e3047cf76e6674d512c8a2",
			req.Header.Get("X-LA-SIGNATURE"))

		return httptesting.BuildResponseJson(http.StatusOK, `[
			{"id":"a1","status":"ACCOUNT_STATUS_ACTIVE","type":"ACCOUNT_TYPE_SPOT","timestamp":1650000000000,"currency":"eth-uuid","available":"1.5","blocked":"0.25"},
			{"id":"a2","status":"ACCOUNT_STATUS_ACTIVE","type":"ACCOUNT_TYPE_WALLET","timestamp":1650000000001,"currency":"usdt-uuid","available":"100","blocked":"0"}
		]`), nil
	})

	balances, err := ex.FetchBalance(context.Background())
	require.NoError(t, err)
	require.Len(t, balances.Currencies, 1)

	eth := balances.Currencies["ETH"]
	assert.Equal(t, types.Number("1.5"), eth.Free)
	assert.Equal(t, types.Number("0.25"), eth.Used)
	assert.False(t, eth.Total.IsSet())
	assert.Equal(t, int64(1650000000000), balances.Timestamp.Int64)
}

func TestInsufficientFunds(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key", Secret: "secret"})
	body := `{"error":"INSUFFICIENT_FUNDS"}`
	transport.POST("/v2/auth/order/place", httptesting.JsonReply(http.StatusBadRequest, body))

	_, err := ex.CreateOrder(context.Background(), types.SubmitOrder{
		Symbol: "ETH/USDT",
		Type:   types.OrderTypeLimit,
		Side:   types.SideBuy,
		Amount: "0.5",
		Price:  "2000",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, exerrors.InsufficientFunds))
	assert.True(t, errors.Is(err, exerrors.ExchangeError))
	assert.Contains(t, err.Error(), "latoken ")
	assert.Contains(t, err.Error(), body)
}

func TestCreateOrder(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key", Secret: "secret"})
	transport.POST("/v2/auth/order/place", httptesting.JsonReply(http.StatusOK,
		`{"message":"order accepted for placing","status":"SUCCESS","id":"o-1"}`))

	o, err := ex.CreateOrder(context.Background(), types.SubmitOrder{
		Symbol:        "ETH/USDT",
		Type:          types.OrderTypeLimit,
		Side:          types.SideBuy,
		Amount:        "0.50009",
		Price:         "2000",
		TimeInForce:   types.TimeInForceIOC,
		ClientOrderID: "c1",
	})
	require.NoError(t, err)
	assert.Equal(t, "o-1", o.ID)
	assert.Equal(t, "c1", o.ClientOrderID)
	assert.Equal(t, types.OrderStatusOpen, o.Status)

	requests := transport.Requests()
	sent := safe.Parse([]byte(requests[len(requests)-1].Body))
	assert.Equal(t, "eth-uuid", safe.String(sent, "baseCurrency"))
	assert.Equal(t, "usdt-uuid", safe.String(sent, "quoteCurrency"))
	assert.Equal(t, "BUY", safe.String(sent, "side"))
	assert.Equal(t, "LIMIT", safe.String(sent, "type"))
	assert.Equal(t, "IMMEDIATE_OR_CANCEL", safe.String(sent, "condition"))
	assert.Equal(t, types.Number("0.5"), safe.Number(sent, "quantity"))
	assert.Equal(t, int64(1700000000000), safe.Integer(sent, "timestamp").Int64)
}

func TestFetchOrders(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key", Secret: "secret"})
	transport.GET("/v2/auth/order/pair/eth-uuid/usdt-uuid", httptesting.JsonReply(http.StatusOK, `[
		{"id":"o-2","status":"ORDER_STATUS_CLOSED","side":"ORDER_SIDE_SELL","condition":"ORDER_CONDITION_GOOD_TILL_CANCELLED","type":"ORDER_TYPE_LIMIT",
		 "baseCurrency":"eth-uuid","quoteCurrency":"usdt-uuid","clientOrderId":"x","price":"2100","quantity":"1","cost":"2100","filled":"1","timestamp":1650000000002},
		{"id":"o-1","status":"ORDER_STATUS_PLACED","side":"ORDER_SIDE_BUY","type":"ORDER_TYPE_LIMIT",
		 "baseCurrency":"eth-uuid","quoteCurrency":"usdt-uuid","price":"2000","quantity":"1","filled":"0","timestamp":1650000000001},
		{"id":"o-3","status":"ORDER_STATUS_SOMETHING_NEW","side":"ORDER_SIDE_BUY","type":"ORDER_TYPE_MARKET",
		 "baseCurrency":"eth-uuid","quoteCurrency":"usdt-uuid","quantity":"1","timestamp":1650000000003}
	]`))

	_, err := ex.FetchOpenOrders(context.Background(), "", nil)
	assert.True(t, errors.Is(err, exerrors.ArgumentsRequired))

	orders, err := ex.FetchClosedOrders(context.Background(), "ETH/USDT", nil)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "o-2", orders[0].ID)
	assert.Equal(t, types.OrderStatusClosed, orders[0].Status)
	assert.Equal(t, types.SideSell, orders[0].Side)
	assert.Equal(t, types.TimeInForceGTC, orders[0].TimeInForce)
	assert.Equal(t, "ETH/USDT", orders[0].Symbol)

	// unknown statuses pass through
	assert.Equal(t, types.OrderStatus("ORDER_STATUS_SOMETHING_NEW"), orders[1].Status)
}

func TestTransfer(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key", Secret: "secret"})
	transport.POST("/v2/auth/transfer/email", httptesting.JsonReply(http.StatusOK,
		`{"id":"t-1","status":"TRANSFER_STATUS_PENDING","currency":"usdt-uuid","transferringFunds":"10","timestamp":1650000000000}`))

	transfer, err := ex.Transfer(context.Background(), "USDT", "10", "", "friend@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, "pending", transfer.Status)
	assert.Equal(t, "USDT", transfer.Currency)
	assert.Equal(t, "friend@example.com", transfer.ToAccount)

	requests := transport.Requests()
	sent := safe.Parse([]byte(requests[len(requests)-1].Body))
	assert.Equal(t, "usdt-uuid", safe.String(sent, "currency"))
	assert.Equal(t, "friend@example.com", safe.String(sent, "recipient"))
}

func TestMissingCredentials(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key"})

	_, err := ex.FetchBalance(context.Background())
	assert.True(t, errors.Is(err, exerrors.AuthenticationError))
	assert.Zero(t, transport.Count(http.MethodGet, "/v2/auth/account"))
}
