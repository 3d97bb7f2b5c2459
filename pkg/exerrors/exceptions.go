package exerrors

import (
	"sort"
	"strings"
	"sync"
)

// Exceptions maps exchange error codes and messages to kinds.
// Exact keys must equal a signal; broad keys must be contained in it.
type Exceptions struct {
	Exact map[string]*Kind
	Broad map[string]*Kind

	once      sync.Once
	broadKeys []string
}

func NewExceptions(exact, broad map[string]*Kind) *Exceptions {
	return &Exceptions{Exact: exact, Broad: broad}
}

// sortedBroadKeys orders broad keys longest first, then lexically, so that
// overlapping keys always resolve the same way.
func (t *Exceptions) sortedBroadKeys() []string {
	t.once.Do(func() {
		keys := make([]string, 0, len(t.Broad))
		for k := range t.Broad {
			keys = append(keys, k)
		}

		sort.Slice(keys, func(i, j int) bool {
			if len(keys[i]) != len(keys[j]) {
				return len(keys[i]) > len(keys[j])
			}
			return keys[i] < keys[j]
		})
		t.broadKeys = keys
	})
	return t.broadKeys
}

// Match classifies the signals. Every exact lookup runs before any broad one.
func (t *Exceptions) Match(signals ...string) (*Kind, string) {
	if t == nil {
		return nil, ""
	}

	for _, s := range signals {
		if s == "" {
			continue
		}
		if k, ok := t.Exact[s]; ok {
			return k, s
		}
	}

	keys := t.sortedBroadKeys()
	for _, s := range signals {
		if s == "" {
			continue
		}
		for _, key := range keys {
			if strings.Contains(s, key) {
				return t.Broad[key], key
			}
		}
	}

	return nil, ""
}

// Throw returns the classified error for the signals, or nil.
func (t *Exceptions) Throw(exchange, body string, signals ...string) error {
	kind, matched := t.Match(signals...)
	if kind == nil {
		return nil
	}

	return FromResponse(kind, exchange, body, matched)
}

// HTTPStatusKinds is the fallback classification by HTTP status code.
var HTTPStatusKinds = map[int]*Kind{
	401: AuthenticationError,
	403: ExchangeNotAvailable,
	404: ExchangeNotAvailable,
	409: ExchangeNotAvailable,
	410: ExchangeNotAvailable,
	418: DDoSProtection,
	422: ExchangeError,
	429: RateLimitExceeded,
	451: ExchangeNotAvailable,
	500: ExchangeNotAvailable,
	501: ExchangeNotAvailable,
	502: ExchangeNotAvailable,
	503: ExchangeNotAvailable,
	504: NetworkError,
	511: AuthenticationError,
	520: ExchangeNotAvailable,
	521: ExchangeNotAvailable,
	522: ExchangeNotAvailable,
	525: ExchangeNotAvailable,
}
