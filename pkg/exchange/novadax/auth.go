package novadax

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
)

// Sign adds the X-Nova-* headers. The signed payload is
// METHOD \n /v1/path \n (sorted query | md5 of the body) \n timestamp.
func (e *Exchange) Sign(_ context.Context, req *base.Request) error {
	path := "/" + apiVersion + "/" + req.Path
	url := e.URL(req.Endpoint.API) + "/" + req.Path

	var payload string
	if req.Method == http.MethodGet {
		payload = base.URLEncode(req.Params)
		url = base.WithQuery(url, payload)
	} else {
		body, err := base.JSON(req.Params)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Body = body
		payload = base.MD5Hex(body)
	}

	if req.Endpoint.API == base.APIPrivate {
		if err := e.CheckRequiredCredentials(); err != nil {
			return err
		}

		creds := e.Credentials()
		ts := strconv.FormatInt(e.Milliseconds(), 10)
		auth := strings.Join([]string{req.Method, path, payload, ts}, "\n")
		req.Header.Set("X-Nova-Access-Key", creds.APIKey)
		req.Header.Set("X-Nova-Timestamp", ts)
		req.Header.Set("X-Nova-Signature", base.HMACSHA256Hex(auth, creds.Secret))
	}

	req.URL = url
	return nil
}

// HandleErrors treats every code other than A10000 as a failure.
func (e *Exchange) HandleErrors(resp *base.Response) error {
	v := safe.Parse(resp.Body)
	code := safe.String(v, "code")
	if code == "" || code == successCode {
		return nil
	}

	body := string(resp.Body)
	if err := exceptions.Throw(e.ID(), body, code, safe.String(v, "message")); err != nil {
		return err
	}
	return exerrors.FromResponse(exerrors.ExchangeError, e.ID(), body, "")
}
