package foxbit

import (
	"net/http"
	"time"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/types"
)

const (
	ID = types.ExchangeFoxbit

	RestBaseURL = "https://api.foxbit.com.br"
	apiVersion  = "v3"
)

// exceptions are keyed by the numeric code of the error object.
var exceptions = exerrors.NewExceptions(
	map[string]*exerrors.Kind{
		"400":  exerrors.BadRequest,
		"429":  exerrors.RateLimitExceeded,
		"404":  exerrors.BadRequest,
		"500":  exerrors.ExchangeError,
		"2001": exerrors.AuthenticationError,
		"2002": exerrors.AuthenticationError,
		"2003": exerrors.AuthenticationError,
		"2004": exerrors.BadRequest,
		"2005": exerrors.PermissionDenied,
		"3001": exerrors.PermissionDenied,
		"3002": exerrors.PermissionDenied,
		"3003": exerrors.AccountSuspended,
		"4001": exerrors.BadRequest,
		"4002": exerrors.InsufficientFunds,
		"4003": exerrors.InvalidOrder,
		"4004": exerrors.BadSymbol,
		"4005": exerrors.BadRequest,
		"4007": exerrors.ExchangeError,
		"4008": exerrors.InvalidOrder,
		"4009": exerrors.PermissionDenied,
		"4011": exerrors.RateLimitExceeded,
		"4012": exerrors.ExchangeError,
		"5001": exerrors.ExchangeNotAvailable,
		"5002": exerrors.OnMaintenance,
		"5003": exerrors.OnMaintenance,
		"5004": exerrors.InvalidOrder,
		"5005": exerrors.InvalidOrder,
		"5006": exerrors.InvalidOrder,
	},
	map[string]*exerrors.Kind{
		"Order not found": exerrors.OrderNotFound,
	},
)

func describe() base.Description {
	d := base.DefaultDescription()
	d.ID = ID
	d.Name = "Foxbit"
	d.Countries = []string{"PT", "BR"}
	d.Version = apiVersion
	d.RateLimit = 33 * time.Millisecond
	d.PrecisionMode = precise.TickSize
	d.URLs = map[string]string{
		base.APIPublic:  RestBaseURL + "/rest/" + apiVersion,
		base.APIPrivate: RestBaseURL + "/rest/" + apiVersion,
	}

	get, post, put := http.MethodGet, http.MethodPost, http.MethodPut
	pub := func(path string, weight int) base.Endpoint {
		return base.Endpoint{API: base.APIPublic, Method: get, Path: path, Weight: weight}
	}
	priv := func(method, path string, weight int) base.Endpoint {
		return base.Endpoint{API: base.APIPrivate, Method: method, Path: path, Weight: weight}
	}

	d.Endpoints = map[string]base.Endpoint{
		"currencies":     pub("currencies", 5),
		"markets":        pub("markets", 5),
		"tickers":        pub("markets/ticker/24hr", 60),
		"ticker":         pub("markets/{market}/ticker/24hr", 15),
		"orderbook":      pub("markets/{market}/orderbook", 5),
		"candles":        pub("markets/{market}/candlesticks", 5),
		"trades":         pub("markets/{market}/trades/history", 5),
		"accounts":       priv(get, "accounts", 2),
		"ledger":         priv(get, "accounts/{currency}/transactions", 60),
		"createOrder":    priv(post, "orders", 2),
		"orders":         priv(get, "orders", 2),
		"order":          priv(get, "orders/by-order-id/{id}", 2),
		"cancelOrder":    priv(put, "orders/cancel", 2),
		"myTrades":       priv(get, "trades", 5),
		"depositAddress": priv(get, "deposits/address", 10),
		"deposits":       priv(get, "deposits", 10),
		"withdrawals":    priv(get, "withdrawals", 10),
		"withdraw":       priv(post, "withdrawals", 10),
	}

	d.Timeframes = map[string]string{
		"1m":  "1m",
		"5m":  "5m",
		"15m": "15m",
		"30m": "30m",
		"1h":  "1h",
		"2h":  "2h",
		"4h":  "4h",
		"6h":  "6h",
		"12h": "12h",
		"1d":  "1d",
		"1w":  "1w",
		"2w":  "2w",
		"1M":  "1M",
	}

	d.Exceptions = exceptions
	d.Fees = base.TradingFees{Maker: "0.005", Taker: "0.005"}
	return d
}
