package hollaex

import (
	"net/http"
	"time"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/types"
)

const (
	ID = types.ExchangeHollaex

	RestBaseURL = "https://api.hollaex.com"
	apiVersion  = "v2"

	// signatureLifetime is added to the current time to build api-expires.
	signatureLifetime = 60 * time.Second
)

var exceptions = exerrors.NewExceptions(
	map[string]*exerrors.Kind{
		"400": exerrors.BadRequest,
		"403": exerrors.AuthenticationError,
		"404": exerrors.BadRequest,
		"405": exerrors.BadRequest,
		"410": exerrors.BadRequest,
		"429": exerrors.RateLimitExceeded,
		"500": exerrors.NetworkError,
		"503": exerrors.NetworkError,
	},
	map[string]*exerrors.Kind{
		"Invalid token":                 exerrors.AuthenticationError,
		"Order not found":               exerrors.OrderNotFound,
		"Insufficient balance":          exerrors.InsufficientFunds,
		"Invalid OTP":                   exerrors.AuthenticationError,
		"Access denied":                 exerrors.PermissionDenied,
		"Invalid coin":                  exerrors.BadRequest,
		"Invalid symbol":                exerrors.BadSymbol,
		"Exchange is under maintenance": exerrors.OnMaintenance,
	},
)

func describe() base.Description {
	d := base.DefaultDescription()
	d.ID = ID
	d.Name = "HollaEx"
	d.Countries = []string{"KR"}
	d.Version = apiVersion
	d.RateLimit = 333 * time.Millisecond
	d.PrecisionMode = precise.TickSize
	d.URLs = map[string]string{
		base.APIPublic:  RestBaseURL + "/" + apiVersion,
		base.APIPrivate: RestBaseURL + "/" + apiVersion,
	}

	get, post, del := http.MethodGet, http.MethodPost, http.MethodDelete
	pub := func(path string) base.Endpoint {
		return base.Endpoint{API: base.APIPublic, Method: get, Path: path, Weight: 1}
	}
	priv := func(method, path string) base.Endpoint {
		return base.Endpoint{API: base.APIPrivate, Method: method, Path: path, Weight: 1}
	}

	d.Endpoints = map[string]base.Endpoint{
		"health":      pub("health"),
		"constants":   pub("constants"),
		"ticker":      pub("ticker"),
		"tickers":     pub("tickers"),
		"orderbook":   pub("orderbook"),
		"orderbooks":  pub("orderbooks"),
		"trades":      pub("trades"),
		"chart":       pub("chart"),
		"user":        priv(get, "user"),
		"balance":     priv(get, "user/balance"),
		"deposits":    priv(get, "user/deposits"),
		"withdrawals": priv(get, "user/withdrawals"),
		"userTrades":  priv(get, "user/trades"),
		"orders":      priv(get, "orders"),
		"order":       priv(get, "order"),
		"createOrder": priv(post, "order"),
		"withdraw":    priv(post, "user/request-withdrawal"),
		"cancelOrder": priv(del, "order"),
		"cancelAll":   priv(del, "order/all"),
	}

	d.Timeframes = map[string]string{
		"1m":  "1m",
		"5m":  "5m",
		"15m": "15m",
		"1h":  "1h",
		"4h":  "4h",
		"1d":  "1d",
		"1w":  "1w",
	}

	d.Exceptions = exceptions
	d.Fees = base.TradingFees{Maker: "0.001", Taker: "0.001"}
	return d
}
