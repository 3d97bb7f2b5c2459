package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/testing/testhelper"
	"github.com/c9s/connectors/pkg/types"
)

type fakeExchange struct {
	name        types.ExchangeName
	loads       int
	tickerErr   error
	lastOptions *types.FetchOptions
}

func (f *fakeExchange) Name() types.ExchangeName { return f.name }

func (f *fakeExchange) LoadMarkets(context.Context, bool) (types.MarketMap, error) {
	f.loads++
	return testhelper.AllMarkets(), nil
}

func (f *fakeExchange) Market(symbol string) (types.Market, error) {
	return types.Market{Symbol: symbol}, nil
}

func (f *fakeExchange) FetchMarkets(context.Context) ([]types.Market, error) { return nil, nil }

func (f *fakeExchange) FetchTicker(_ context.Context, symbol string) (*types.Ticker, error) {
	if f.tickerErr != nil {
		return nil, f.tickerErr
	}
	return &types.Ticker{Symbol: symbol, Last: "42000.12345678901234567890"}, nil
}

func (f *fakeExchange) FetchOrderBook(context.Context, string, int) (*types.OrderBook, error) {
	return &types.OrderBook{}, nil
}

func (f *fakeExchange) FetchTrades(_ context.Context, _ string, options *types.FetchOptions) ([]types.Trade, error) {
	f.lastOptions = options
	return []types.Trade{}, nil
}

func newTestServer(ex *fakeExchange) (*Server, http.Handler) {
	gin.SetMode(gin.TestMode)

	s := New()
	s.NewExchange = func(name types.ExchangeName) (types.Exchange, error) {
		ex.name = name
		return ex, nil
	}
	return s, s.Handler()
}

func get(t *testing.T, handler http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestMarkets(t *testing.T) {
	ex := &fakeExchange{}
	_, handler := newTestServer(ex)

	rec, body := get(t, handler, "/api/probit/markets")
	assert.Equal(t, http.StatusOK, rec.Code)

	markets := body["markets"].([]interface{})
	require.Len(t, markets, 4)
	assert.Equal(t, "BTC/BRL", markets[0].(map[string]interface{})["symbol"])
	assert.Equal(t, "BTC_BRL", markets[0].(map[string]interface{})["id"])

	// the instance is reused
	get(t, handler, "/api/probit/markets")
	assert.Equal(t, 2, ex.loads)
}

func TestTickerKeepsPrecision(t *testing.T) {
	_, handler := newTestServer(&fakeExchange{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hollaex/ticker?symbol=BTC/USDT", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"last":42000.12345678901234567890`)
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{exerrors.New(exerrors.BadSymbol, "probit", "unknown symbol"), http.StatusNotFound, "BadSymbol"},
		{exerrors.New(exerrors.RateLimitExceeded, "probit", "slow down"), http.StatusTooManyRequests, "RateLimitExceeded"},
		{exerrors.New(exerrors.OnMaintenance, "probit", "maintenance"), http.StatusServiceUnavailable, "OnMaintenance"},
		{exerrors.New(exerrors.NotSupported, "probit", "nope"), http.StatusNotImplemented, "NotSupported"},
		{exerrors.New(exerrors.PermissionDenied, "probit", "denied"), http.StatusForbidden, "PermissionDenied"},
		{exerrors.New(exerrors.ExchangeError, "probit", "boom"), http.StatusBadGateway, "ExchangeError"},
	}

	for _, c := range cases {
		t.Run(c.kind, func(t *testing.T) {
			_, handler := newTestServer(&fakeExchange{tickerErr: c.err})

			rec, body := get(t, handler, "/api/probit/ticker?symbol=BTC/USDT")
			assert.Equal(t, c.status, rec.Code)
			assert.Equal(t, c.kind, body["kind"])
		})
	}
}

func TestStatusOfPlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(context.DeadlineExceeded))
}

func TestValidation(t *testing.T) {
	ex := &fakeExchange{}
	_, handler := newTestServer(ex)

	rec, body := get(t, handler, "/api/probit/ticker")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ArgumentsRequired", body["kind"])

	rec, _ = get(t, handler, "/api/nosuchexchange/markets")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = get(t, handler, "/api/probit/trades?symbol=BTC/USDT&limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// the fake implements neither tickers nor ohlcv
	rec, _ = get(t, handler, "/api/probit/ohlcv?symbol=BTC/USDT")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestTradesOptions(t *testing.T) {
	ex := &fakeExchange{}
	_, handler := newTestServer(ex)

	rec, _ := get(t, handler, "/api/novadax/trades?symbol=BTC/BRL&since=1700000000000&until=2023-11-15T00:00:00Z&limit=50")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, ex.lastOptions)
	assert.Equal(t, int64(1700000000000), ex.lastOptions.Since.UnixMilli())
	assert.Equal(t, int64(1700006400000), ex.lastOptions.Until.UnixMilli())
	assert.Equal(t, 50, ex.lastOptions.Limit)
}

func TestExchanges(t *testing.T) {
	_, handler := newTestServer(&fakeExchange{})

	rec, body := get(t, handler, "/api/exchanges")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["exchanges"], 7)
}
