package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/c9s/connectors/pkg/exerrors"
)

// kindStatuses is searched in order, so more specific kinds come first.
var kindStatuses = []struct {
	kind   *exerrors.Kind
	status int
}{
	{exerrors.OrderNotFound, http.StatusNotFound},
	{exerrors.BadSymbol, http.StatusNotFound},
	{exerrors.ArgumentsRequired, http.StatusBadRequest},
	{exerrors.BadRequest, http.StatusBadRequest},
	{exerrors.InvalidOrder, http.StatusBadRequest},
	{exerrors.InvalidAddress, http.StatusBadRequest},
	{exerrors.InsufficientFunds, http.StatusBadRequest},
	{exerrors.PermissionDenied, http.StatusForbidden},
	{exerrors.AccountSuspended, http.StatusForbidden},
	{exerrors.AuthenticationError, http.StatusUnauthorized},
	{exerrors.NotSupported, http.StatusNotImplemented},
	{exerrors.DDoSProtection, http.StatusTooManyRequests},
	{exerrors.ExchangeNotAvailable, http.StatusServiceUnavailable},
	{exerrors.MarketClosed, http.StatusServiceUnavailable},
	{exerrors.NetworkError, http.StatusBadGateway},
	{exerrors.BadResponse, http.StatusBadGateway},
	{exerrors.ExchangeError, http.StatusBadGateway},
}

// StatusOf maps an error to the gateway response status. Errors outside the
// taxonomy are internal errors.
func StatusOf(err error) int {
	for _, ks := range kindStatuses {
		if errors.Is(err, ks.kind) {
			return ks.status
		}
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	status := StatusOf(err)
	body := gin.H{"error": err.Error()}
	if kind := exerrors.KindOf(err); kind != nil {
		body["kind"] = kind.Name()
	}

	if status >= http.StatusInternalServerError {
		log.WithError(err).Errorf("%s %s", c.Request.Method, c.Request.URL.Path)
	}
	c.AbortWithStatusJSON(status, body)
}
