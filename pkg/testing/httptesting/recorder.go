package httptesting

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
)

// RecorderEntry is one request/response pair as stored in a fixture file.
type RecorderEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	Request   *RequestRecord  `json:"request"`
	Response  *ResponseRecord `json:"response"`
	Error     string          `json:"error,omitempty"`
}

type RequestRecord struct {
	Method string      `json:"method"`
	URL    string      `json:"url"`
	Header http.Header `json:"header"`
	Body   string      `json:"body,omitempty"`
}

type ResponseRecord struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Header     http.Header `json:"header"`
	Body       string      `json:"body,omitempty"`
}

// Recorder wraps a transport and records every exchange of it, so that
// live responses can be replayed later through MockTransport.
type Recorder struct {
	mu        sync.Mutex
	entries   []RecorderEntry
	transport http.RoundTripper
}

func NewRecorder(transport http.RoundTripper) *Recorder {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Recorder{transport: transport}
}

var credentialHeaders = regexp.MustCompile(`(?i)^(authorization|cookie|api[-_](key|signature|expires)|x[-_](la|fb|nova)[-_].*)$`)

// filterCredentials drops auth and signature headers before anything is written to disk.
func filterCredentials(header http.Header) {
	for key := range header {
		if credentialHeaders.MatchString(key) {
			header.Del(key)
		}
	}
}

func (r *Recorder) RecordEntry(req *http.Request, reqBody string, resp *http.Response, err error) {
	entry := RecorderEntry{
		Timestamp: time.Now(),
		Request: &RequestRecord{
			Method: req.Method,
			URL:    req.URL.String(),
			Header: req.Header.Clone(),
			Body:   reqBody,
		},
	}
	filterCredentials(entry.Request.Header)

	if resp != nil {
		entry.Response = &ResponseRecord{
			Status:     resp.Status,
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
		}
		if resp.Body != nil {
			data, _ := io.ReadAll(resp.Body)
			entry.Response.Body = string(data)
			resp.Body = io.NopCloser(strings.NewReader(entry.Response.Body))
		}
	}

	if err != nil {
		entry.Error = err.Error()
	}

	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
}

func (r *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		body = string(data)
		req.Body = io.NopCloser(strings.NewReader(body))
	}

	resp, err := r.transport.RoundTrip(req)
	r.RecordEntry(req, body, resp, err)
	return resp, err
}

func (r *Recorder) Entries() []RecorderEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecorderEntry(nil), r.entries...)
}

func (r *Recorder) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r.Entries())
}

func (r *Recorder) Load(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	var entries []RecorderEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()
	return nil
}

func BuildResponseFromRecord(rec *ResponseRecord) *http.Response {
	return &http.Response{
		Status:     rec.Status,
		StatusCode: rec.StatusCode,
		Header:     rec.Header.Clone(),
		Body:       io.NopCloser(strings.NewReader(rec.Body)),
	}
}

// LoadFromRecorder registers one handler per recorded method and path.
func (transport *MockTransport) LoadFromRecorder(recorder *Recorder) error {
	for _, entry := range recorder.Entries() {
		if entry.Request == nil || entry.Response == nil {
			continue
		}

		u, err := url.Parse(entry.Request.URL)
		if err != nil {
			return err
		}

		rec := entry.Response
		transport.handle(strings.ToUpper(entry.Request.Method), u.Path, func(_ *http.Request) (*http.Response, error) {
			return BuildResponseFromRecord(rec), nil
		})
	}
	return nil
}
