package foxbit

import (
	"context"
	"net/http"
	"strconv"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
)

// Sign adds the X-FB-ACCESS-* headers. The signature is the hex HMAC-SHA256
// of timestamp + METHOD + "/rest/v3/path" + query + body.
func (e *Exchange) Sign(_ context.Context, req *base.Request) error {
	path := "/rest/" + apiVersion + "/" + req.Path
	url := e.URL(req.Endpoint.API) + "/" + req.Path

	var query, body string
	if req.Method == http.MethodGet || req.Method == http.MethodDelete {
		query = base.URLEncode(req.Params)
		url = base.WithQuery(url, query)
	} else {
		encoded, err := base.JSON(req.Params)
		if err != nil {
			return err
		}
		body = string(encoded)
		req.Body = encoded
		req.Header.Set("Content-Type", "application/json")
	}

	if req.Endpoint.API == base.APIPrivate {
		if err := e.CheckRequiredCredentials(); err != nil {
			return err
		}

		creds := e.Credentials()
		ts := strconv.FormatInt(e.Milliseconds(), 10)
		req.Header.Set("X-FB-ACCESS-KEY", creds.APIKey)
		req.Header.Set("X-FB-ACCESS-TIMESTAMP", ts)
		req.Header.Set("X-FB-ACCESS-SIGNATURE", base.HMACSHA256Hex(ts+req.Method+path+query+body, creds.Secret))
	}

	req.URL = url
	return nil
}

// HandleErrors reads {"error":{"code":4002,"message":"..."}}; the code is
// matched before the message.
func (e *Exchange) HandleErrors(resp *base.Response) error {
	v := safe.Parse(resp.Body)
	errValue := safe.Value(v, "error")
	if errValue == nil {
		return nil
	}

	body := string(resp.Body)
	if err := exceptions.Throw(e.ID(), body, safe.String(errValue, "code"), safe.String(errValue, "message")); err != nil {
		return err
	}
	return exerrors.FromResponse(exerrors.ExchangeError, e.ID(), body, "")
}
