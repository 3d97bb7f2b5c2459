package base

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/c9s/connectors/pkg/types"
)

// Request is built by the base exchange and completed by the adapter's Sign.
type Request struct {
	Name     string
	Endpoint Endpoint

	// Path is the endpoint path with placeholders filled in.
	Path string

	// Params are the params left after filling the path placeholders.
	Params types.Params

	// Set by Sign.
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Request    *Request
}

// ImplodeParams fills {name} placeholders in path with path-escaped values and
// returns the remaining params.
func ImplodeParams(path string, params types.Params) (string, types.Params) {
	var used []string
	for key, value := range params {
		placeholder := "{" + key + "}"
		if strings.Contains(path, placeholder) {
			path = strings.ReplaceAll(path, placeholder, url.PathEscape(types.FormatParam(value)))
			used = append(used, key)
		}
	}
	return path, params.Omit(used...)
}

// URLEncode encodes params sorted by key, the order also used for signing.
func URLEncode(params types.Params) string {
	values := url.Values{}
	for k, v := range params {
		if v == nil {
			continue
		}
		values.Set(k, types.FormatParam(v))
	}
	return values.Encode()
}

// JSON encodes params with sorted keys.
func JSON(params types.Params) ([]byte, error) {
	if params == nil {
		params = types.Params{}
	}
	return json.Marshal(params)
}

// WithQuery appends an encoded query to a URL when it is not empty.
func WithQuery(u string, query string) string {
	if query == "" {
		return u
	}
	if strings.Contains(u, "?") {
		return u + "&" + query
	}
	return u + "?" + query
}
