package base

import (
	"time"

	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/types"
)

const (
	APIPublic  = "public"
	APIPrivate = "private"
)

// Endpoint is one REST route. Path may contain {placeholders} that are
// filled from the request params.
type Endpoint struct {
	API    string
	Method string
	Path   string

	// Weight is the number of throttle tokens one call costs.
	Weight int
}

type RequiredCredentials struct {
	APIKey   bool
	Secret   bool
	UID      bool
	Login    bool
	Password bool
	Token    bool
	TwoFA    bool
}

type TradingFees struct {
	Maker types.Number
	Taker types.Number
}

// Description is the static configuration of an adapter. It is built once
// by the adapter and never mutated afterwards.
type Description struct {
	ID        types.ExchangeName
	Name      string
	Countries []string
	Version   string

	// RateLimit is the interval between two weight-1 requests.
	RateLimit time.Duration

	PrecisionMode precise.CountingMode

	// URLs maps an API name ("public", "private", ...) to its base URL.
	URLs map[string]string

	// Endpoints are keyed by a name local to the adapter.
	Endpoints map[string]Endpoint

	// Timeframes maps unified timeframes ("1m", "1h") to exchange values.
	Timeframes map[string]string

	RequiredCredentials RequiredCredentials

	Exceptions     *exerrors.Exceptions
	HTTPExceptions map[int]*exerrors.Kind

	// CommonCurrencies renames exchange currency codes to unified ones.
	CommonCurrencies map[string]string

	Fees TradingFees

	// Timeout bounds every HTTP round trip.
	Timeout time.Duration
}

// DefaultDescription is the starting point every adapter overrides.
func DefaultDescription() Description {
	return Description{
		RateLimit:     2 * time.Second,
		PrecisionMode: precise.TickSize,
		URLs:          map[string]string{},
		Endpoints:     map[string]Endpoint{},
		Timeframes:    map[string]string{},
		RequiredCredentials: RequiredCredentials{
			APIKey: true,
			Secret: true,
		},
		Exceptions:     exerrors.NewExceptions(nil, nil),
		HTTPExceptions: exerrors.HTTPStatusKinds,
		CommonCurrencies: map[string]string{
			"XBT":   "BTC",
			"BCC":   "BCH",
			"BCHSV": "BSV",
			"DRK":   "DASH",
		},
		Timeout: 10 * time.Second,
	}
}

func (d Description) maxWeight() int {
	w := 1
	for _, ep := range d.Endpoints {
		if ep.Weight > w {
			w = ep.Weight
		}
	}
	return w
}
