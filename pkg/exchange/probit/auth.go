package probit

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/types"
)

// Sign authenticates the token request with basic auth and every private
// request with the session's bearer token.
func (e *Exchange) Sign(ctx context.Context, req *base.Request) error {
	url := e.URL(req.Endpoint.API) + "/" + req.Path

	switch req.Endpoint.API {
	case apiAccounts:
		if err := e.CheckRequiredCredentials(); err != nil {
			return err
		}
		creds := e.Credentials()
		req.Header.Set("Authorization", base.BasicAuth(creds.APIKey, creds.Secret))

	case base.APIPrivate:
		if err := e.CheckRequiredCredentials(); err != nil {
			return err
		}
		token, err := e.session.Token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if req.Method == http.MethodGet {
		url = base.WithQuery(url, base.URLEncode(req.Params))
	} else {
		body, err := base.JSON(req.Params)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Body = body
	}

	req.URL = url
	return nil
}

// refreshToken exchanges the api key and secret for a bearer token.
func (e *Exchange) refreshToken(ctx context.Context) (*oauth2.Token, error) {
	v, err := e.Request(ctx, "token", types.Params{"grant_type": "client_credentials"})
	if err != nil {
		return nil, err
	}

	accessToken := safe.String(v, "access_token")
	if accessToken == "" {
		return nil, e.NewError(exerrors.AuthenticationError, "token request returned no access_token")
	}

	expiresIn := safe.Integer(v, "expires_in")
	token := &oauth2.Token{AccessToken: accessToken, TokenType: safe.String(v, "token_type")}
	if expiresIn.Valid {
		token.Expiry = e.Now().Add(time.Duration(expiresIn.Int64) * time.Second)
	}
	return token, nil
}

func (e *Exchange) HandleErrors(resp *base.Response) error {
	v := safe.Parse(resp.Body)
	if v == nil {
		return nil
	}

	code := safe.String(v, "errorCode", "error")
	if code == "" {
		return nil
	}

	if code == "UNAUTHORIZED" || code == "invalid_grant" {
		e.session.Invalidate()
	}

	body := string(resp.Body)
	if err := exceptions.Throw(e.ID(), body, code, safe.String(v, "message")); err != nil {
		return err
	}
	return exerrors.FromResponse(exerrors.ExchangeError, e.ID(), body, "")
}
