package httptesting

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
)

func BuildResponseString(code int, payload string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Status:     http.StatusText(code),
		Header:     http.Header{},
		Body:       io.NopCloser(bytes.NewBufferString(payload)),
	}
}

// BuildResponseJson encodes payload unless it is already a string or []byte.
func BuildResponseJson(code int, payload interface{}) *http.Response {
	var data []byte
	switch p := payload.(type) {
	case string:
		data = []byte(p)
	case []byte:
		data = p
	default:
		var err error
		if data, err = json.Marshal(payload); err != nil {
			panic(err)
		}
	}

	resp := BuildResponseString(code, string(data))
	SetHeader(resp, "Content-Type", "application/json")
	return resp
}

func SetHeader(resp *http.Response, key, value string) *http.Response {
	if resp.Header == nil {
		resp.Header = http.Header{}
	}
	resp.Header.Set(key, value)
	return resp
}

// JsonReply returns a handler replying with payload.
func JsonReply(code int, payload interface{}) RoundTripFunc {
	return func(_ *http.Request) (*http.Response, error) {
		return BuildResponseJson(code, payload), nil
	}
}

// FileReply returns a handler replying with the content of a testdata file.
func FileReply(code int, filename string) RoundTripFunc {
	return func(_ *http.Request) (*http.Response, error) {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		return BuildResponseJson(code, data), nil
	}
}
