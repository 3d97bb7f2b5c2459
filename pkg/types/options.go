package types

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/volatiletech/null"
)

// Params carries exchange-specific request fields.
type Params map[string]interface{}

// Extend returns a new map holding p overridden by each of others in turn.
func (p Params) Extend(others ...Params) Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// Omit returns a copy without the given keys.
func (p Params) Omit(keys ...string) Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the value under key formatted as text.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false
	}
	return FormatParam(v), true
}

// FormatParam renders a parameter value the way it goes on the wire.
func FormatParam(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case Number:
		return string(val)
	case fmt.Stringer:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case null.Int64:
		if !val.Valid {
			return ""
		}
		return strconv.FormatInt(val.Int64, 10)
	}
	return fmt.Sprint(v)
}

// FetchOptions is shared by the history-style fetch methods.
type FetchOptions struct {
	Since  *time.Time
	Until  *time.Time
	Limit  int
	Params Params
}

func (o *FetchOptions) SinceMillis() int64 {
	if o == nil || o.Since == nil {
		return 0
	}
	return o.Since.UnixMilli()
}

func (o *FetchOptions) UntilMillis() int64 {
	if o == nil || o.Until == nil {
		return 0
	}
	return o.Until.UnixMilli()
}

func (o *FetchOptions) LimitOr(def int) int {
	if o == nil || o.Limit <= 0 {
		return def
	}
	return o.Limit
}

func (o *FetchOptions) ExtraParams() Params {
	if o == nil || o.Params == nil {
		return Params{}
	}
	return o.Params
}

// Credentials are the secrets an adapter may require. Empty fields are unset.
type Credentials struct {
	APIKey   string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	Secret   string `json:"secret,omitempty" yaml:"secret,omitempty"`
	UID      string `json:"uid,omitempty" yaml:"uid,omitempty"`
	Login    string `json:"login,omitempty" yaml:"login,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Token    string `json:"token,omitempty" yaml:"token,omitempty"`

	// TwoFA is the base32 TOTP secret used to derive one-time codes.
	TwoFA string `json:"twofa,omitempty" yaml:"twofa,omitempty"`
}
