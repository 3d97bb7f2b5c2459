package httptesting

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

type RoundTripFunc func(req *http.Request) (*http.Response, error)

// CapturedRequest is a request seen by MockTransport, with its body read.
type CapturedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   string
}

// MockTransport routes requests by method and URL path to registered
// handlers and keeps every request it receives.
type MockTransport struct {
	mu       sync.Mutex
	handlers map[string]RoundTripFunc
	requests []CapturedRequest
}

func (transport *MockTransport) handle(method, path string, f RoundTripFunc) {
	transport.mu.Lock()
	defer transport.mu.Unlock()

	if transport.handlers == nil {
		transport.handlers = make(map[string]RoundTripFunc)
	}
	transport.handlers[method+" "+path] = f
}

func (transport *MockTransport) GET(path string, f RoundTripFunc) {
	transport.handle(http.MethodGet, path, f)
}

func (transport *MockTransport) POST(path string, f RoundTripFunc) {
	transport.handle(http.MethodPost, path, f)
}

func (transport *MockTransport) DELETE(path string, f RoundTripFunc) {
	transport.handle(http.MethodDelete, path, f)
}

func (transport *MockTransport) PUT(path string, f RoundTripFunc) {
	transport.handle(http.MethodPut, path, f)
}

func (transport *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	captured := CapturedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
	}

	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		captured.Body = string(data)
		req.Body = io.NopCloser(strings.NewReader(captured.Body))
	}

	transport.mu.Lock()
	transport.requests = append(transport.requests, captured)
	f, ok := transport.handlers[strings.ToUpper(req.Method)+" "+req.URL.Path]
	transport.mu.Unlock()

	if !ok {
		return nil, errors.Errorf("roundtrip mock to %s %s is not defined", req.Method, req.URL.Path)
	}

	return f(req)
}

// Requests returns the captured requests in arrival order.
func (transport *MockTransport) Requests() []CapturedRequest {
	transport.mu.Lock()
	defer transport.mu.Unlock()
	return append([]CapturedRequest(nil), transport.requests...)
}

// Count returns how many requests hit method and path.
func (transport *MockTransport) Count(method, path string) int {
	n := 0
	for _, r := range transport.Requests() {
		if r.Method == method && strings.HasSuffix(strings.SplitN(r.URL, "?", 2)[0], path) {
			n++
		}
	}
	return n
}

func MockWithJsonReply(url string, rawData interface{}) *http.Client {
	tripFunc := JsonReply(http.StatusOK, rawData)

	transport := &MockTransport{}
	transport.DELETE(url, tripFunc)
	transport.GET(url, tripFunc)
	transport.POST(url, tripFunc)
	transport.PUT(url, tripFunc)
	return &http.Client{Transport: transport}
}
