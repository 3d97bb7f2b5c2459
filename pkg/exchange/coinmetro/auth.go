package coinmetro

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/c9s/connectors/pkg/exchange/base"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/safe"
	"github.com/c9s/connectors/pkg/types"
)

// loginTokenLifetime is how long a token from the login endpoint is reused.
const loginTokenLifetime = 12 * time.Hour

func (e *Exchange) Sign(ctx context.Context, req *base.Request) error {
	url := e.URL(req.Endpoint.API) + "/" + req.Path
	query := base.URLEncode(req.Params)

	req.Header.Set("CCXT", "true")

	switch {
	case req.Endpoint.API == base.APIPrivate:
		token, err := e.session.Token(ctx)
		if err != nil {
			return err
		}

		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("X-Device-Id", "bypass")
		if req.Method == http.MethodGet {
			url = base.WithQuery(url, query)
		} else {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Body = []byte(query)
		}

	case req.Method == http.MethodPost:
		body, err := base.JSON(req.Params)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Body = body

	default:
		url = base.WithQuery(url, query)
	}

	req.URL = strings.TrimRight(url, "/")
	return nil
}

// refreshToken resolves the bearer token: an explicit token first, then the
// secret, then a login with login, password and an optional TOTP code.
func (e *Exchange) refreshToken(ctx context.Context) (*oauth2.Token, error) {
	creds := e.Credentials()

	if creds.UID == "" && creds.APIKey != "" {
		e.SetUID(creds.APIKey)
	}

	switch {
	case creds.Token != "":
		return &oauth2.Token{AccessToken: creds.Token, TokenType: "Bearer"}, nil
	case creds.Secret != "":
		return &oauth2.Token{AccessToken: creds.Secret, TokenType: "Bearer"}, nil
	case creds.Login == "" || creds.Password == "":
		return nil, e.NewError(exerrors.AuthenticationError, "requires a token, or login and password credentials")
	}

	params := types.Params{"login": creds.Login, "password": creds.Password}
	if creds.TwoFA != "" {
		otp, err := e.OTP()
		if err != nil {
			return nil, err
		}
		params["otp"] = otp
	}

	v, err := e.Request(ctx, "jwt", params)
	if err != nil {
		return nil, err
	}

	token := safe.String(v, "token")
	if token == "" {
		return nil, e.NewError(exerrors.AuthenticationError, "login returned no token")
	}

	log.Infof("obtained session token for user %s", safe.String(v, "userId"))
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer", Expiry: e.Now().Add(loginTokenLifetime)}, nil
}

func (e *Exchange) HandleErrors(resp *base.Response) error {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return nil
	}

	v := safe.Parse(resp.Body)
	if v == nil {
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		e.session.Invalidate()
	}

	if err := exceptions.Throw(e.ID(), string(resp.Body), safe.String(v, "message")); err != nil {
		return err
	}

	return exerrors.FromResponse(exerrors.ExchangeError, e.ID(), string(resp.Body), "")
}
