package latoken

import (
	"net/http"
	"time"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/types"
)

const (
	ID = types.ExchangeLatoken

	RestBaseURL = "https://api.latoken.com"
	apiVersion  = "v2"

	// currencyCacheTTL bounds how long the currency list is reused between calls.
	currencyCacheTTL = time.Second
)

var exceptions = exerrors.NewExceptions(
	map[string]*exerrors.Kind{
		"INTERNAL_ERROR":                exerrors.ExchangeError,
		"SERVICE_UNAVAILABLE":           exerrors.ExchangeNotAvailable,
		"NOT_AUTHORIZED":                exerrors.AuthenticationError,
		"FORBIDDEN":                     exerrors.PermissionDenied,
		"BAD_REQUEST":                   exerrors.BadRequest,
		"NOT_FOUND":                     exerrors.ExchangeError,
		"ACCESS_DENIED":                 exerrors.PermissionDenied,
		"REQUEST_REJECTED":              exerrors.ExchangeError,
		"HTTP_MEDIA_TYPE_NOT_SUPPORTED": exerrors.BadRequest,
		"MEDIA_TYPE_NOT_ACCEPTABLE":     exerrors.BadRequest,
		"METHOD_ARGUMENT_NOT_VALID":     exerrors.BadRequest,
		"VALIDATION_ERROR":              exerrors.BadRequest,
		"ACCOUNT_EXPIRED":               exerrors.AccountSuspended,
		"BAD_CREDENTIALS":               exerrors.AuthenticationError,
		"COOKIE_THEFT":                  exerrors.AuthenticationError,
		"CREDENTIALS_EXPIRED":           exerrors.AccountSuspended,
		"INSUFFICIENT_AUTHENTICATION":   exerrors.AuthenticationError,
		"UNKNOWN_LOCATION":              exerrors.AuthenticationError,
		"TOO_MANY_REQUESTS":             exerrors.RateLimitExceeded,
		"INSUFFICIENT_FUNDS":            exerrors.InsufficientFunds,
		"ORDER_VALIDATION":              exerrors.InvalidOrder,
		"BAD_TICKS":                     exerrors.InvalidOrder,
	},
	map[string]*exerrors.Kind{
		"invalid API key, signature or digest":                    exerrors.AuthenticationError,
		"The API key was revoked":                                 exerrors.AuthenticationError,
		"request expired or bad":                                  exerrors.InvalidNonce,
		"For input string":                                        exerrors.BadRequest,
		"Unable to resolve currency by tag":                       exerrors.BadSymbol,
		"Can't find currency with tag":                            exerrors.BadSymbol,
		"Unable to place order because pair is in inactive state": exerrors.BadSymbol,
		"API keys are not available for":                          exerrors.AccountSuspended,
	},
)

func describe() base.Description {
	d := base.DefaultDescription()
	d.ID = ID
	d.Name = "Latoken"
	d.Countries = []string{"KY"}
	d.Version = apiVersion
	d.RateLimit = time.Second
	d.PrecisionMode = precise.TickSize
	d.URLs = map[string]string{
		base.APIPublic:  RestBaseURL,
		base.APIPrivate: RestBaseURL,
	}

	get, post := http.MethodGet, http.MethodPost
	pub := func(method, path string) base.Endpoint {
		return base.Endpoint{API: base.APIPublic, Method: method, Path: path, Weight: 1}
	}
	priv := func(method, path string) base.Endpoint {
		return base.Endpoint{API: base.APIPrivate, Method: method, Path: path, Weight: 1}
	}

	d.Endpoints = map[string]base.Endpoint{
		"currency":        pub(get, "currency"),
		"pair":            pub(get, "pair"),
		"tickers":         pub(get, "ticker"),
		"ticker":          pub(get, "ticker/{base}/{quote}"),
		"book":            pub(get, "book/{currency}/{quote}"),
		"tradeHistory":    pub(get, "trade/history/{currency}/{quote}"),
		"account":         priv(get, "auth/account"),
		"orders":          priv(get, "auth/order"),
		"pairOrders":      priv(get, "auth/order/pair/{currency}/{quote}"),
		"activeOrders":    priv(get, "auth/order/pair/{currency}/{quote}/active"),
		"getOrder":        priv(get, "auth/order/getOrder/{id}"),
		"placeOrder":      priv(post, "auth/order/place"),
		"cancelOrder":     priv(post, "auth/order/cancel"),
		"cancelAll":       priv(post, "auth/order/cancelAll"),
		"cancelAllPair":   priv(post, "auth/order/cancelAll/{currency}/{quote}"),
		"trades":          priv(get, "auth/trade"),
		"pairTrades":      priv(get, "auth/trade/pair/{currency}/{quote}"),
		"transactions":    priv(get, "auth/transaction"),
		"transfers":       priv(get, "auth/transfer"),
		"transferByEmail": priv(post, "auth/transfer/email"),
		"transferByID":    priv(post, "auth/transfer/id"),
		"transferByPhone": priv(post, "auth/transfer/phone"),
	}

	d.Exceptions = exceptions
	d.Fees = base.TradingFees{Maker: "0.0049", Taker: "0.0049"}
	d.CommonCurrencies["BUX"] = "Buxcoin"
	d.CommonCurrencies["CBT"] = "Community Business Token"
	d.CommonCurrencies["CTC"] = "CyberTronchain"
	d.CommonCurrencies["DMD"] = "Diamond Coin"
	d.CommonCurrencies["FREN"] = "Frenchie"
	d.CommonCurrencies["GDX"] = "GoldenX"
	d.CommonCurrencies["GEC"] = "Geco One"
	d.CommonCurrencies["GEM"] = "NFTmall"
	d.CommonCurrencies["GMT"] = "GMT Token"
	d.CommonCurrencies["IMC"] = "IMCoin"
	d.CommonCurrencies["MT"] = "Monarch"
	d.CommonCurrencies["TPAY"] = "Tetra Pay"
	d.CommonCurrencies["TRADE"] = "Smart Trade Coin"
	d.CommonCurrencies["TSL"] = "Treasure SL"
	d.CommonCurrencies["UNO"] = "Unobtanium"
	d.CommonCurrencies["WAR"] = "Warrior Token"
	return d
}
