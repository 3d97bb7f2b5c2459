package types

import (
	"time"

	"github.com/volatiletech/null"
)

// ISO8601Layout is the datetime layout carried next to every timestamp.
const ISO8601Layout = "2006-01-02T15:04:05.000Z"

// ISO8601 formats a millisecond timestamp in UTC; absent timestamps give "".
func ISO8601(ms null.Int64) string {
	if !ms.Valid {
		return ""
	}
	return time.UnixMilli(ms.Int64).UTC().Format(ISO8601Layout)
}

// ParseISO8601 accepts RFC 3339 with or without fractional seconds.
func ParseISO8601(s string) (null.Int64, bool) {
	if s == "" {
		return null.Int64{}, false
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return null.Int64From(t.UnixMilli()), true
		}
	}
	return null.Int64{}, false
}

func Milliseconds(t time.Time) null.Int64 {
	if t.IsZero() {
		return null.Int64{}
	}
	return null.Int64From(t.UnixMilli())
}

// MaxTimestamp returns the later of the two, ignoring absent values.
func MaxTimestamp(a, b null.Int64) null.Int64 {
	if !a.Valid {
		return b
	}
	if b.Valid && b.Int64 > a.Int64 {
		return b
	}
	return a
}
