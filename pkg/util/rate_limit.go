package util

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

func NewValidLimiter(r rate.Limit, b int) (*rate.Limiter, error) {
	if b <= 0 || r <= 0 {
		return nil, fmt.Errorf("bad rate limit config, insufficient tokens (rate=%f, b=%d)", r, b)
	}
	return rate.NewLimiter(r, b), nil
}

// ParseRateLimitSyntax parses a request throttle setting into a limiter:
//
//	2+1/5s  2 initial tokens, 1 token per 5 seconds
//	5+3/1m  5 initial tokens, 3 tokens per minute
//	10/1s   10 tokens per second, burst 1
//	200ms   1 token per 200 milliseconds
func ParseRateLimitSyntax(desc string) (*rate.Limiter, error) {
	desc = strings.TrimSpace(desc)

	burst := 1
	tokens := 1.0
	durStr := desc

	if i := strings.IndexByte(desc, '/'); i >= 0 {
		durStr = desc[i+1:]
		head := desc[:i]

		if j := strings.IndexByte(head, '+'); j >= 0 {
			if _, err := fmt.Sscanf(head[:j], "%d", &burst); err != nil {
				return nil, fmt.Errorf("invalid rate limit burst %q: %w", desc, err)
			}
			head = head[j+1:]
		}

		if _, err := fmt.Sscanf(head, "%f", &tokens); err != nil {
			return nil, fmt.Errorf("invalid rate limit tokens %q: %w", desc, err)
		}
	}

	duration, err := time.ParseDuration(durStr)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit syntax %q, expecting b+n/duration: %w", desc, err)
	}

	if tokens <= 0 || duration <= 0 {
		return nil, fmt.Errorf("invalid rate limit %q", desc)
	}

	return NewValidLimiter(rate.Every(time.Duration(float64(duration)/tokens)), burst)
}
