package bitteam

import (
	"context"
	"net/http"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
)

// Sign uses HTTP basic auth with the api key and secret on private calls.
func (e *Exchange) Sign(_ context.Context, req *base.Request) error {
	url := e.URL(req.Endpoint.API) + "/" + req.Path

	if req.Endpoint.API == base.APIPrivate {
		if err := e.CheckRequiredCredentials(); err != nil {
			return err
		}
		creds := e.Credentials()
		req.Header.Set("Authorization", base.BasicAuth(creds.APIKey, creds.Secret))
	}

	if req.Method == http.MethodPost {
		body, err := base.JSON(req.Params)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Body = body
	} else {
		url = base.WithQuery(url, base.URLEncode(req.Params))
	}

	req.URL = url
	return nil
}

// HandleErrors reads {"ok":false,"message":"..."} envelopes; some errors
// come as a nested {"message":{"code":...}}.
func (e *Exchange) HandleErrors(resp *base.Response) error {
	v := safe.Parse(resp.Body)
	if v == nil {
		return nil
	}

	ok := safe.Bool(v, "ok")
	message := safe.Value(v, "message")
	if !ok.Valid || ok.Bool {
		return nil
	}

	body := string(resp.Body)
	if err := exceptions.Throw(e.ID(), body,
		safe.String(message, "code"),
		safe.String(v, "message"),
		safe.String(message, "message"),
		safe.String(v, "name"),
	); err != nil {
		return err
	}
	return exerrors.FromResponse(exerrors.ExchangeError, e.ID(), body, "")
}
