package base

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/c9s/requestgen"
	"github.com/pkg/errors"
	"github.com/pquerna/otp/totp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/metrics"
	"github.com/c9s/connectors/pkg/types"
)

// Adapter is the exchange-specific half of an Exchange.
type Adapter interface {
	// Sign completes req: URL, headers and body.
	Sign(ctx context.Context, req *Request) error

	// HandleErrors classifies a response. It returns nil when the body
	// carries no recognizable error, including when it cannot be parsed.
	HandleErrors(resp *Response) error

	FetchMarkets(ctx context.Context) ([]types.Market, error)
}

// Throttle gates requests by weight; *rate.Limiter satisfies it.
type Throttle interface {
	WaitN(ctx context.Context, n int) error
}

// MarketStore persists discovered markets between processes.
type MarketStore interface {
	Load(ctx context.Context, exchange string) (*types.MarketSnapshot, error)
	Save(ctx context.Context, exchange string, snapshot types.MarketSnapshot) error
}

// Exchange carries the state shared by every adapter: credentials, the
// market cache, the throttle and the request pipeline.
type Exchange struct {
	requestgen.BaseAPIClient

	desc    Description
	adapter Adapter

	throttle Throttle
	store    MarketStore
	now      func() time.Time
	log      logrus.FieldLogger

	credMu sync.RWMutex
	creds  types.Credentials

	mu             sync.RWMutex
	loaded         bool
	markets        types.MarketMap
	marketsByID    map[string][]types.Market
	currencies     types.CurrencyMap
	currenciesByID map[string]types.Currency

	loadGroup singleflight.Group
}

func New(desc Description, creds types.Credentials, adapter Adapter) *Exchange {
	burst := desc.maxWeight()
	limit := rate.Inf
	if desc.RateLimit > 0 {
		limit = rate.Every(desc.RateLimit)
	}

	return &Exchange{
		BaseAPIClient: requestgen.BaseAPIClient{
			HttpClient: &http.Client{Timeout: desc.Timeout},
		},
		desc:     desc,
		adapter:  adapter,
		creds:    creds,
		throttle: rate.NewLimiter(limit, burst),
		now:      time.Now,
		log:      logrus.WithField("exchange", desc.ID),
	}
}

func (e *Exchange) Name() types.ExchangeName { return e.desc.ID }

func (e *Exchange) ID() string { return string(e.desc.ID) }

func (e *Exchange) Describe() Description { return e.desc }

func (e *Exchange) Logger() logrus.FieldLogger { return e.log }

func (e *Exchange) SetHTTPClient(client *http.Client) { e.HttpClient = client }

func (e *Exchange) SetThrottle(t Throttle) { e.throttle = t }

func (e *Exchange) SetMarketStore(store MarketStore) { e.store = store }

// SetClock replaces the time source used for nonces, expiries and TOTP codes.
func (e *Exchange) SetClock(now func() time.Time) { e.now = now }

func (e *Exchange) Now() time.Time { return e.now() }

func (e *Exchange) Milliseconds() int64 { return e.now().UnixMilli() }

func (e *Exchange) Seconds() int64 { return e.now().Unix() }

func (e *Exchange) Credentials() types.Credentials {
	e.credMu.RLock()
	defer e.credMu.RUnlock()
	return e.creds
}

func (e *Exchange) SetUID(uid string) {
	e.credMu.Lock()
	e.creds.UID = uid
	e.credMu.Unlock()
}

func (e *Exchange) SetToken(token string) {
	e.credMu.Lock()
	e.creds.Token = token
	e.credMu.Unlock()
}

// CheckRequiredCredentials fails before any I/O when a required credential is empty.
func (e *Exchange) CheckRequiredCredentials() error {
	c := e.Credentials()
	r := e.desc.RequiredCredentials
	checks := []struct {
		required bool
		value    string
		name     string
	}{
		{r.APIKey, c.APIKey, "apiKey"},
		{r.Secret, c.Secret, "secret"},
		{r.UID, c.UID, "uid"},
		{r.Login, c.Login, "login"},
		{r.Password, c.Password, "password"},
		{r.Token, c.Token, "token"},
		{r.TwoFA, c.TwoFA, "twofa"},
	}

	for _, check := range checks {
		if check.required && check.value == "" {
			return e.NewError(exerrors.AuthenticationError, "requires %q credential", check.name)
		}
	}
	return nil
}

// OTP derives the current one-time code from the TwoFA secret.
func (e *Exchange) OTP() (string, error) {
	secret := e.Credentials().TwoFA
	if secret == "" {
		return "", e.NewError(exerrors.AuthenticationError, "requires %q credential", "twofa")
	}
	return totp.GenerateCode(secret, e.now())
}

func (e *Exchange) NewError(kind *exerrors.Kind, format string, args ...interface{}) *exerrors.Error {
	return exerrors.New(kind, e.ID(), format, args...)
}

// URL returns the base URL of the given API.
func (e *Exchange) URL(api string) string { return e.desc.URLs[api] }

// Throttle waits for weight tokens.
func (e *Exchange) Throttle(ctx context.Context, weight int) error {
	if e.throttle == nil {
		return nil
	}
	if weight <= 0 {
		weight = 1
	}

	start := time.Now()
	err := e.throttle.WaitN(ctx, weight)
	metrics.ObserveThrottle(e.ID(), time.Since(start))
	return err
}

// Request calls the named endpoint: throttle, sign, send, classify errors, parse.
// An empty response body yields a nil value.
func (e *Exchange) Request(ctx context.Context, name string, params types.Params) (*fastjson.Value, error) {
	ep, ok := e.desc.Endpoints[name]
	if !ok {
		return nil, e.NewError(exerrors.NotSupported, "endpoint %s is not defined", name)
	}

	if params == nil {
		params = types.Params{}
	}

	if err := e.Throttle(ctx, ep.Weight); err != nil {
		return nil, err
	}

	path, rest := ImplodeParams(ep.Path, params)
	req := &Request{
		Name:     name,
		Endpoint: ep,
		Path:     path,
		Params:   rest,
		Method:   ep.Method,
		Header:   http.Header{},
	}

	if err := e.adapter.Sign(ctx, req); err != nil {
		return nil, err
	}

	if req.URL == "" {
		return nil, fmt.Errorf("%s: endpoint %s was not signed", e.ID(), name)
	}

	resp, err := e.send(ctx, req)
	if err != nil {
		metrics.ObserveError(e.ID(), err)
		return nil, err
	}

	if err := e.handleErrors(resp); err != nil {
		metrics.ObserveError(e.ID(), err)
		return nil, err
	}

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}

	v, err := fastjson.ParseBytes(resp.Body)
	if err != nil {
		return nil, exerrors.FromResponse(exerrors.BadResponse, e.ID(), string(resp.Body), "")
	}

	return v, nil
}

func (e *Exchange) send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: build request %s", e.ID(), req.Name)
	}

	for k, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}

	e.log.Debugf("%s %s", req.Method, req.URL)

	start := time.Now()
	httpResp, err := e.HttpClient.Do(httpReq)
	if err != nil {
		metrics.ObserveRequest(e.ID(), req.Name, 0, time.Since(start))
		return nil, errors.Wrapf(err, "%s: %s %s", e.ID(), req.Method, req.URL)
	}

	response, err := requestgen.NewResponse(httpResp)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: read response of %s", e.ID(), req.Name)
	}

	metrics.ObserveRequest(e.ID(), req.Name, response.StatusCode, time.Since(start))

	return &Response{
		StatusCode: response.StatusCode,
		Header:     response.Header,
		Body:       response.Body,
		Request:    req,
	}, nil
}

func (e *Exchange) handleErrors(resp *Response) error {
	if err := e.adapter.HandleErrors(resp); err != nil {
		return err
	}

	if resp.StatusCode < 400 {
		return nil
	}

	kind, ok := e.desc.HTTPExceptions[resp.StatusCode]
	if !ok {
		kind = exerrors.ExchangeError
	}

	return exerrors.FromResponse(kind, e.ID(), string(resp.Body), strconv.Itoa(resp.StatusCode))
}
