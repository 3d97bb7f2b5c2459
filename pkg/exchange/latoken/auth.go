package latoken

import (
	"context"
	"net/http"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
)

// Sign adds the X-LA-* headers. The signature is the hex HMAC-SHA512 of
// METHOD + "/v2/path" + urlencoded params, for GET and POST alike.
func (e *Exchange) Sign(_ context.Context, req *base.Request) error {
	path := "/" + apiVersion + "/" + req.Path
	query := base.URLEncode(req.Params)

	target := path
	if req.Method == http.MethodGet {
		target = base.WithQuery(path, query)
	}

	if req.Endpoint.API == base.APIPrivate {
		if err := e.CheckRequiredCredentials(); err != nil {
			return err
		}

		creds := e.Credentials()
		req.Header.Set("X-LA-APIKEY", creds.APIKey)
		req.Header.Set("X-LA-SIGNATURE", base.HMACSHA512Hex(req.Method+path+query, creds.Secret))
		req.Header.Set("X-LA-DIGEST", "HMAC-SHA512")

		if req.Method == http.MethodPost {
			body, err := base.JSON(req.Params)
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Body = body
		}
	}

	req.URL = e.URL(req.Endpoint.API) + target
	return nil
}

// HandleErrors checks the message, the nested error message and the error
// code, in that order, and reports FAILURE statuses that match nothing.
func (e *Exchange) HandleErrors(resp *base.Response) error {
	v := safe.Parse(resp.Body)
	if v == nil {
		return nil
	}

	body := string(resp.Body)
	errValue := safe.Value(v, "error")
	signals := []string{
		safe.String(v, "message"),
		safe.String(errValue, "message"),
		safe.String(v, "error"),
		safe.String(errValue, "errorType"),
	}

	if err := exceptions.Throw(e.ID(), body, signals...); err != nil {
		return err
	}

	if safe.String(v, "status") == "FAILURE" || errValue != nil {
		return exerrors.FromResponse(exerrors.ExchangeError, e.ID(), body, "")
	}
	return nil
}
