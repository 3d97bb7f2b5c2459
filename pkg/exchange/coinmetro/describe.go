package coinmetro

import (
	"net/http"
	"time"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/types"
)

const (
	ID = types.ExchangeCoinmetro

	RestBaseURL = "https://api.coinmetro.com"
)

var exceptions = exerrors.NewExceptions(
	map[string]*exerrors.Kind{
		"Both buyingCurrency and sellingCurrency are required":     exerrors.InvalidOrder,
		"One and only one of buyingQty and sellingQty is required": exerrors.InvalidOrder,
		"Invalid buyingCurrency":                                   exerrors.InvalidOrder,
		"Invalid 'from'":                                           exerrors.BadRequest,
		"Invalid sellingCurrency":                                  exerrors.InvalidOrder,
		"Invalid buyingQty":                                        exerrors.InvalidOrder,
		"Invalid sellingQty":                                       exerrors.InvalidOrder,
		"Insufficient balance":                                     exerrors.InsufficientFunds,
		"Expiration date is in the past or too near in the future": exerrors.InvalidOrder,
		"Forbidden":                                                exerrors.PermissionDenied,
		"Order Not Found":                                          exerrors.OrderNotFound,
		"since must be a millisecond timestamp":                    exerrors.BadRequest,
		"This pair is disabled on margin":                          exerrors.BadSymbol,
	},
	map[string]*exerrors.Kind{
		"accessing from a new IP":                              exerrors.PermissionDenied,
		"available to allocate as collateral":                  exerrors.InsufficientFunds,
		"collateral is not allowed":                            exerrors.BadRequest,
		"Insufficient liquidity":                               exerrors.InvalidOrder,
		"Insufficient order size":                              exerrors.InvalidOrder,
		"Invalid quantity":                                     exerrors.InvalidOrder,
		"Invalid Stop Loss":                                    exerrors.InvalidOrder,
		"Invalid stop price!":                                  exerrors.InvalidOrder,
		"Not enough balance":                                   exerrors.InsufficientFunds,
		"Not enough margin":                                    exerrors.InsufficientFunds,
		"orderType missing":                                    exerrors.BadRequest,
		"Server Timeout":                                       exerrors.ExchangeError,
		"Time in force has to be IOC or FOK for market orders": exerrors.InvalidOrder,
		"Too many attempts":                                    exerrors.RateLimitExceeded,
	},
)

func describe() base.Description {
	d := base.DefaultDescription()
	d.ID = ID
	d.Name = "Coinmetro"
	d.Countries = []string{"EE"}
	d.Version = "v1"
	d.RateLimit = 200 * time.Millisecond
	d.PrecisionMode = precise.TickSize
	d.URLs = map[string]string{
		base.APIPublic:  RestBaseURL,
		base.APIPrivate: RestBaseURL,
	}

	get, post, put := http.MethodGet, http.MethodPost, http.MethodPut
	d.Endpoints = map[string]base.Endpoint{
		"assets":         {API: base.APIPublic, Method: get, Path: "assets"},
		"markets":        {API: base.APIPublic, Method: get, Path: "markets"},
		"prices":         {API: base.APIPublic, Method: get, Path: "exchange/prices"},
		"book":           {API: base.APIPublic, Method: get, Path: "exchange/book/{pair}"},
		"ticks":          {API: base.APIPublic, Method: get, Path: "exchange/ticks/{pair}/{from}"},
		"candles":        {API: base.APIPublic, Method: get, Path: "exchange/candles/{pair}/{timeframe}/{from}/{to}"},
		"jwt":            {API: base.APIPublic, Method: post, Path: "jwt"},
		"wallets":        {API: base.APIPrivate, Method: get, Path: "users/wallets"},
		"walletsHistory": {API: base.APIPrivate, Method: get, Path: "users/wallets/history/{since}"},
		"createOrder":    {API: base.APIPrivate, Method: post, Path: "exchange/orders/create"},
		"cancelOrder":    {API: base.APIPrivate, Method: put, Path: "exchange/orders/cancel/{orderID}"},
		"orderStatus":    {API: base.APIPrivate, Method: get, Path: "exchange/orders/status/{orderID}"},
		"activeOrders":   {API: base.APIPrivate, Method: get, Path: "exchange/orders/active"},
		"orderHistory":   {API: base.APIPrivate, Method: get, Path: "exchange/orders/history/{since}"},
		"fills":          {API: base.APIPrivate, Method: get, Path: "exchange/fills/{since}"},
	}

	d.Timeframes = map[string]string{
		"1m":  "60000",
		"5m":  "300000",
		"30m": "1800000",
		"4h":  "14400000",
		"1d":  "86400000",
	}

	// private calls need a bearer token, resolved lazily from the credentials
	d.RequiredCredentials = base.RequiredCredentials{}
	d.Exceptions = exceptions
	d.Fees = base.TradingFees{Maker: "0", Taker: "0.001"}
	return d
}
