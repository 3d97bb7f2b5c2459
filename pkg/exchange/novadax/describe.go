package novadax

import (
	"net/http"
	"time"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/types"
)

const (
	ID = types.ExchangeNovadax

	RestBaseURL = "https://api.novadax.com"
	apiVersion  = "v1"

	// successCode is the code of every successful response.
	successCode = "A10000"
)

var exceptions = exerrors.NewExceptions(
	map[string]*exerrors.Kind{
		"A99999": exerrors.ExchangeError,
		"A10001": exerrors.BadRequest,
		"A10002": exerrors.ExchangeError,
		"A10003": exerrors.AuthenticationError,
		"A10004": exerrors.RateLimitExceeded,
		"A10005": exerrors.PermissionDenied,
		"A10006": exerrors.AccountSuspended,
		"A10007": exerrors.AccountSuspended,
		"A10011": exerrors.BadSymbol,
		"A10012": exerrors.BadSymbol,
		"A10013": exerrors.OnMaintenance,
		"A30001": exerrors.OrderNotFound,
		"A30002": exerrors.InvalidOrder,
		"A30003": exerrors.InvalidOrder,
		"A30004": exerrors.InvalidOrder,
		"A30005": exerrors.InvalidOrder,
		"A30006": exerrors.InvalidOrder,
		"A30007": exerrors.InsufficientFunds,
		"A30008": exerrors.InvalidOrder,
		"A30009": exerrors.InvalidOrder,
		"A30010": exerrors.InvalidOrder,
		"A30011": exerrors.InvalidOrder,
		"A30012": exerrors.InvalidOrder,
		"A40004": exerrors.InsufficientFunds,
	},
	map[string]*exerrors.Kind{
		"Invalid signature": exerrors.AuthenticationError,
	},
)

func describe() base.Description {
	d := base.DefaultDescription()
	d.ID = ID
	d.Name = "NovaDAX"
	d.Countries = []string{"BR"}
	d.Version = apiVersion
	d.RateLimit = 50 * time.Millisecond
	d.PrecisionMode = precise.DecimalPlaces
	d.URLs = map[string]string{
		base.APIPublic:  RestBaseURL + "/" + apiVersion,
		base.APIPrivate: RestBaseURL + "/" + apiVersion,
	}

	get, post := http.MethodGet, http.MethodPost
	pub := func(path string) base.Endpoint {
		return base.Endpoint{API: base.APIPublic, Method: get, Path: path, Weight: 1}
	}
	priv := func(method, path string, weight int) base.Endpoint {
		return base.Endpoint{API: base.APIPrivate, Method: method, Path: path, Weight: weight}
	}

	d.Endpoints = map[string]base.Endpoint{
		"time":            pub("common/timestamp"),
		"symbols":         pub("common/symbols"),
		"tickers":         pub("market/tickers"),
		"ticker":          pub("market/ticker"),
		"depth":           pub("market/depth"),
		"trades":          pub("market/trades"),
		"kline":           pub("market/kline/history"),
		"createOrder":     priv(post, "orders/create", 5),
		"cancelOrder":     priv(post, "orders/cancel", 5),
		"cancelBySymbol":  priv(post, "orders/cancel-by-symbol", 5),
		"getOrder":        priv(get, "orders/get", 1),
		"listOrders":      priv(get, "orders/list", 1),
		"fills":           priv(get, "orders/fills", 1),
		"balance":         priv(get, "account/getBalance", 1),
		"subTransfer":     priv(post, "account/subs/transfer", 5),
		"withdraw":        priv(post, "account/withdraw/coin", 5),
		"depositWithdraw": priv(get, "wallet/query/deposit-withdraw", 1),
	}

	d.Timeframes = map[string]string{
		"1m":  "ONE_MIN",
		"5m":  "FIVE_MIN",
		"15m": "FIFTEEN_MIN",
		"30m": "HALF_HOU",
		"1h":  "ONE_HOU",
		"1d":  "ONE_DAY",
		"1w":  "ONE_WEE",
		"1M":  "ONE_MON",
	}

	d.Exceptions = exceptions
	d.Fees = base.TradingFees{Maker: "0.0025", Taker: "0.005"}
	return d
}
