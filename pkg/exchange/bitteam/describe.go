package bitteam

import (
	"net/http"
	"time"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/types"
)

const (
	ID = types.ExchangeBitteam

	RestBaseURL    = "https://bit.team"
	HistoryBaseURL = "https://history.bit.team"

	apiHistory = "history"
)

var exceptions = exerrors.NewExceptions(
	map[string]*exerrors.Kind{
		"40000200":           exerrors.OrderNotFound,
		"400002":             exerrors.BadSymbol,
		"403 Forbidden":      exerrors.AuthenticationError,
		"Not Found":          exerrors.BadRequest,
		"Invalid pairId":     exerrors.BadSymbol,
		"Pair is not active": exerrors.BadSymbol,
		"Order not found":    exerrors.OrderNotFound,
		"Invalid order type": exerrors.InvalidOrder,
		"ReferenceError":     exerrors.BadRequest,
		"Unknown error":      exerrors.ExchangeError,
	},
	map[string]*exerrors.Kind{
		"is not allowed":                  exerrors.BadRequest,
		"must be a number":                exerrors.BadRequest,
		"must be greater than":            exerrors.InvalidOrder,
		"must be less than":               exerrors.InvalidOrder,
		"Insufficient balance":            exerrors.InsufficientFunds,
		"not enough balance":              exerrors.InsufficientFunds,
		"Request failed with status code": exerrors.ExchangeError,
		"Pair with id":                    exerrors.BadSymbol,
	},
)

func describe() base.Description {
	d := base.DefaultDescription()
	d.ID = ID
	d.Name = "BIT.TEAM"
	d.Countries = []string{"UK"}
	d.Version = "v2.0.6"
	d.RateLimit = time.Millisecond
	d.PrecisionMode = precise.TickSize
	d.URLs = map[string]string{
		apiHistory:      HistoryBaseURL,
		base.APIPublic:  RestBaseURL,
		base.APIPrivate: RestBaseURL,
	}

	get, post := http.MethodGet, http.MethodPost
	ep := func(api, method, path string) base.Endpoint {
		return base.Endpoint{API: api, Method: method, Path: path, Weight: 1}
	}

	d.Endpoints = map[string]base.Endpoint{
		"history":      ep(apiHistory, get, "api/tw/history/{pairName}/{resolution}"),
		"currencies":   ep(base.APIPublic, get, "trade/api/currencies"),
		"pairs":        ep(base.APIPublic, get, "trade/api/ccxt/pairs"),
		"pair":         ep(base.APIPublic, get, "trade/api/pair/{name}"),
		"summary":      ep(base.APIPublic, get, "trade/api/cmc/summary"),
		"orderbook":    ep(base.APIPublic, get, "trade/api/orderbooks/{symbol}"),
		"trades":       ep(base.APIPublic, get, "trade/api/cmc/trades/{pair}"),
		"balance":      ep(base.APIPrivate, get, "trade/api/ccxt/balance"),
		"order":        ep(base.APIPrivate, get, "trade/api/ccxt/order/{id}"),
		"orders":       ep(base.APIPrivate, get, "trade/api/ccxt/ordersOfUser"),
		"myTrades":     ep(base.APIPrivate, get, "trade/api/ccxt/tradesOfUser"),
		"transactions": ep(base.APIPrivate, get, "trade/api/transactionsOfUser"),
		"createOrder":  ep(base.APIPrivate, post, "trade/api/ccxt/ordercreate"),
		"cancelOrder":  ep(base.APIPrivate, post, "trade/api/ccxt/cancelorder"),
		"cancelAll":    ep(base.APIPrivate, post, "trade/api/ccxt/cancel-all-order"),
	}

	d.Timeframes = map[string]string{
		"1m":  "1",
		"5m":  "5",
		"15m": "15",
		"1h":  "60",
		"1d":  "1D",
	}

	d.Exceptions = exceptions
	d.Fees = base.TradingFees{Maker: "0.002", Taker: "0.002"}
	return d
}
