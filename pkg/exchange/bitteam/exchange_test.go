package bitteam

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/testing/httptesting"
	"github.com/c9s/connectors/pkg/types"
)

const currenciesJSON = `{"ok":true,"result":{"count":2,"currencies":[
	{"txLimits":{"minDeposit":"1","minWithdraw":"2","maxWithdraw":"10000","withdrawCommissionFixed":"0.5"},
	 "id":9,"symbol":"ada","precision":6,"name":"Cardano","type":"crypto","blockChain":"Cardano","active":true,"decimals":6},
	{"txLimits":{"minDeposit":"1","minWithdraw":"5","maxWithdraw":"100000","withdrawCommissionFixed":"1"},
	 "id":3,"symbol":"usdt","precision":6,"name":"Tether","type":"crypto","blockChain":"Tron","active":true,"decimals":6}
]}}`

const pairsJSON = `{"ok":true,"result":{"count":1,"pairs":[
	{"id":24,"name":"ada_usdt","baseAssetId":9,"quoteAssetId":3,"isTradingEnabled":true,"isSuspended":false,
	 "baseStep":1,"quoteStep":4,"settings":{"limit_usd":"0.1","min_sell":"1"},"createdAt":"2021-07-08T10:20:30.000Z"}
]}}`

func newTestExchange(creds types.Credentials) (*Exchange, *httptesting.MockTransport) {
	ex := New(creds)
	transport := &httptesting.MockTransport{}
	ex.HttpClient.Transport = transport
	ex.SetThrottle(nil)

	transport.GET("/trade/api/currencies", httptesting.JsonReply(http.StatusOK, currenciesJSON))
	transport.GET("/trade/api/ccxt/pairs", httptesting.JsonReply(http.StatusOK, pairsJSON))
	return ex, transport
}

func TestFetchMarkets(t *testing.T) {
	ex, _ := newTestExchange(types.Credentials{})

	markets, err := ex.LoadMarkets(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, []string{"ADA/USDT"}, markets.Symbols())

	m := markets["ADA/USDT"]
	assert.Equal(t, "ada_usdt", m.ID)
	assert.Equal(t, types.Number("0.1"), m.Precision.Amount)
	assert.Equal(t, types.Number("0.0001"), m.Precision.Price)
	assert.Equal(t, "24", pairID(m))
	assert.True(t, m.Active.Bool)

	ada := ex.Currencies()["ADA"]
	assert.Contains(t, ada.Networks, "Cardano")
	assert.Equal(t, types.Number("0.5"), ada.Fee)
}

func TestFetchOHLCV(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{})
	transport.GET("/api/tw/history/ada_usdt/60", httptesting.JsonReply(http.StatusOK, `{"ok":true,"result":{"count":2,"data":[
		["1699253400","0.3429","0.3427","0.3429","0.3427","1900.4","651.46278","ADA_USDT"],
		["1699257000","0.3427","0.3440","0.3445","0.3420","1200","412.8","ADA_USDT"]
	]}}`))

	candles, err := ex.FetchOHLCV(context.Background(), "ADA/USDT", "1h", nil)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.Equal(t, types.OHLCV{
		Timestamp: 1699253400000,
		Open:      "0.3429",
		High:      "0.3429",
		Low:       "0.3427",
		Close:     "0.3427",
		Volume:    "1900.4",
	}, candles[0])

	assert.Equal(t, types.Number("0.3445"), candles[1].High)
	assert.Equal(t, types.Number("0.3440"), candles[1].Close)
	requests := transport.Requests()
	assert.Contains(t, requests[len(requests)-1].URL, "https://history.bit.team/")
}

func TestBasicAuth(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key", Secret: "secret"})
	transport.GET("/trade/api/ccxt/balance", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("key:secret")), req.Header.Get("Authorization"))
		return httptesting.BuildResponseJson(http.StatusOK, `{"ok":true,"result":{"balance":[
			{"symbol":"usdt","balance":"12.5","available":"10","frozen":"2.5"}
		]}}`), nil
	})

	balances, err := ex.FetchBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.Balance{Free: "10", Used: "2.5", Total: "12.5"}, balances.Currencies["USDT"])
}

func TestFetchOrderMinimalUnits(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key", Secret: "secret"})
	transport.GET("/trade/api/ccxt/order/151", httptesting.JsonReply(http.StatusOK, `{"ok":true,"result":{
		"id":151,"pair":"ada_usdt","side":"buy","type":"limit","status":"accepted","price":"0.3",
		"quantity":"25000000","executed":"1500000","executedPrice":"0.3","baseDecimals":6,
		"createdAt":"2023-11-06T06:50:00.000Z","updatedAt":"2023-11-06T06:51:00.000Z"}}`))

	o, err := ex.FetchOrder(context.Background(), "151", "")
	require.NoError(t, err)
	assert.Equal(t, "ADA/USDT", o.Symbol)
	assert.Equal(t, types.Number("25"), o.Amount)
	assert.Equal(t, types.Number("1.5"), o.Filled)
	assert.Equal(t, types.Number("23.5"), o.Remaining)
	assert.Equal(t, types.OrderStatusOpen, o.Status)
}

func TestCreateOrder(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key", Secret: "secret"})
	transport.POST("/trade/api/ccxt/ordercreate", httptesting.JsonReply(http.StatusOK, `{"ok":true,"result":{
		"id":152,"pair":"ada_usdt","side":"sell","type":"limit","status":"created","price":"0.35","quantity":"10000000","executed":"0","baseDecimals":6}}`))

	o, err := ex.CreateOrder(context.Background(), types.SubmitOrder{
		Symbol: "ADA/USDT",
		Type:   types.OrderTypeLimit,
		Side:   types.SideSell,
		Amount: "10.05",
		Price:  "0.35",
	})
	require.NoError(t, err)
	assert.Equal(t, types.Number("10"), o.Amount)

	requests := transport.Requests()
	sent := safe.Parse([]byte(requests[len(requests)-1].Body))
	assert.Equal(t, "24", safe.String(sent, "pairId"))
	assert.Equal(t, types.Number("10"), safe.Number(sent, "amount"))
	assert.Equal(t, "sell", safe.String(sent, "side"))
}

func TestHandleErrors(t *testing.T) {
	ex, transport := newTestExchange(types.Credentials{APIKey: "key", Secret: "secret"})
	transport.POST("/trade/api/ccxt/ordercreate", httptesting.JsonReply(http.StatusBadRequest,
		`{"ok":false,"message":"Insufficient balance for order"}`))

	_, err := ex.CreateOrder(context.Background(), types.SubmitOrder{
		Symbol: "ADA/USDT", Type: types.OrderTypeMarket, Side: types.SideBuy, Amount: "5",
	})
	assert.True(t, errors.Is(err, exerrors.InsufficientFunds))

	_, err = ex.FetchOrderBook(context.Background(), "DOGE/USDT", 0)
	assert.True(t, errors.Is(err, exerrors.BadSymbol))
}
