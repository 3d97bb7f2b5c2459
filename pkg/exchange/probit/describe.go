package probit

import (
	"net/http"
	"time"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/types"
)

const (
	ID = types.ExchangeProbit

	RestBaseURL     = "https://api.probit.com/api/exchange"
	AccountsBaseURL = "https://accounts.probit.com"
	apiVersion      = "v1"

	apiAccounts = "accounts"
)

var exceptions = exerrors.NewExceptions(
	map[string]*exerrors.Kind{
		"UNAUTHORIZED":            exerrors.AuthenticationError,
		"INVALID_ARGUMENT":        exerrors.BadRequest,
		"TRADING_UNAVAILABLE":     exerrors.ExchangeNotAvailable,
		"NOT_ENOUGH_BALANCE":      exerrors.InsufficientFunds,
		"NOT_ALLOWED_COMBINATION": exerrors.BadRequest,
		"INVALID_ORDER":           exerrors.InvalidOrder,
		"RATE_LIMIT_EXCEEDED":     exerrors.RateLimitExceeded,
		"MARKET_UNAVAILABLE":      exerrors.ExchangeNotAvailable,
		"INVALID_MARKET":          exerrors.BadSymbol,
		"MARKET_CLOSED":           exerrors.MarketClosed,
		"MARKET_NOT_FOUND":        exerrors.BadSymbol,
		"INVALID_CURRENCY":        exerrors.BadRequest,
		"TOO_MANY_OPEN_ORDERS":    exerrors.DDoSProtection,
		"DUPLICATE_ADDRESS":       exerrors.InvalidAddress,
		"invalid_grant":           exerrors.AuthenticationError,
	},
	map[string]*exerrors.Kind{
		"order not found": exerrors.OrderNotFound,
	},
)

func describe() base.Description {
	d := base.DefaultDescription()
	d.ID = ID
	d.Name = "ProBit"
	d.Countries = []string{"SC", "KR"}
	d.Version = apiVersion
	d.RateLimit = 50 * time.Millisecond
	d.PrecisionMode = precise.TickSize
	d.URLs = map[string]string{
		apiAccounts:     AccountsBaseURL,
		base.APIPublic:  RestBaseURL + "/" + apiVersion,
		base.APIPrivate: RestBaseURL + "/" + apiVersion,
	}

	get, post := http.MethodGet, http.MethodPost
	pub := func(path string) base.Endpoint {
		return base.Endpoint{API: base.APIPublic, Method: get, Path: path, Weight: 1}
	}
	priv := func(method, path string) base.Endpoint {
		return base.Endpoint{API: base.APIPrivate, Method: method, Path: path, Weight: 1}
	}

	d.Endpoints = map[string]base.Endpoint{
		"token":          {API: apiAccounts, Method: post, Path: "token", Weight: 1},
		"markets":        pub("market"),
		"currencies":     pub("currency_with_platform"),
		"time":           pub("time"),
		"ticker":         pub("ticker"),
		"orderBook":      pub("order_book"),
		"trades":         pub("trade"),
		"candles":        pub("candle"),
		"newOrder":       priv(post, "new_order"),
		"cancelOrder":    priv(post, "cancel_order"),
		"withdrawal":     priv(post, "withdrawal"),
		"balance":        priv(get, "balance"),
		"order":          priv(get, "order"),
		"openOrders":     priv(get, "open_order"),
		"orderHistory":   priv(get, "order_history"),
		"tradeHistory":   priv(get, "trade_history"),
		"depositAddress": priv(get, "deposit_address"),
		"payments":       priv(get, "transfer/payment"),
	}

	d.Timeframes = map[string]string{
		"1m":  "1m",
		"3m":  "3m",
		"5m":  "5m",
		"10m": "10m",
		"15m": "15m",
		"30m": "30m",
		"1h":  "1h",
		"4h":  "4h",
		"6h":  "6h",
		"12h": "12h",
		"1d":  "1D",
		"1w":  "1W",
		"1M":  "1M",
	}

	d.Exceptions = exceptions
	d.Fees = base.TradingFees{Maker: "0.002", Taker: "0.002"}
	d.CommonCurrencies["BB"] = "Baby Bali"
	d.CommonCurrencies["CBC"] = "CryptoBharatCoin"
	d.CommonCurrencies["EPS"] = "Epanus"
	d.CommonCurrencies["GOGOL"] = "GOL"
	d.CommonCurrencies["ORC"] = "Oracle System"
	d.CommonCurrencies["UNI"] = "UNICORN Token"
	return d
}
