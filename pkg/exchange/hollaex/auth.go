package hollaex

import (
	"context"
	"net/http"
	"strconv"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
)

// Sign adds api-key, api-expires and api-signature, the hex HMAC-SHA256 of
// METHOD + "/v2/path?query" + expires + body.
func (e *Exchange) Sign(_ context.Context, req *base.Request) error {
	path := "/" + apiVersion + "/" + req.Path
	url := e.URL(req.Endpoint.API) + "/" + req.Path

	var body string
	if req.Method == http.MethodGet || req.Method == http.MethodDelete {
		query := base.URLEncode(req.Params)
		path = base.WithQuery(path, query)
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
		expires := strconv.FormatInt(e.Now().Add(signatureLifetime).Unix(), 10)
		req.Header.Set("api-key", creds.APIKey)
		req.Header.Set("api-expires", expires)
		req.Header.Set("api-signature", base.HMACSHA256Hex(req.Method+path+expires+body, creds.Secret))
	}

	req.URL = url
	return nil
}

// HandleErrors maps failed responses by message first, then by status code.
func (e *Exchange) HandleErrors(resp *base.Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	body := string(resp.Body)
	message := safe.String(safe.Parse(resp.Body), "message")
	if err := exceptions.Throw(e.ID(), body, message); err != nil {
		return err
	}
	if err := exceptions.Throw(e.ID(), body, strconv.Itoa(resp.StatusCode)); err != nil {
		return err
	}
	return exerrors.FromResponse(exerrors.ExchangeError, e.ID(), body, "")
}
