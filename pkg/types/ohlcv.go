package types

import (
	"encoding/json"
	"fmt"
	"sort"
)

// OHLCV is one candle, serialized as [timestamp, open, high, low, close, volume].
type OHLCV struct {
	Timestamp int64
	Open      Number
	High      Number
	Low       Number
	Close     Number
	Volume    Number
}

func (c OHLCV) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume})
}

func (c *OHLCV) UnmarshalJSON(data []byte) error {
	var row []json.RawMessage
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}

	if len(row) != 6 {
		return fmt.Errorf("invalid ohlcv row %s", data)
	}

	if err := json.Unmarshal(row[0], &c.Timestamp); err != nil {
		return err
	}

	for i, n := range []*Number{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume} {
		if err := n.UnmarshalJSON(row[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// SortOHLCV orders candles oldest first.
func SortOHLCV(candles []OHLCV) {
	sort.SliceStable(candles, func(i, j int) bool { return candles[i].Timestamp < candles[j].Timestamp })
}

// FilterOHLCV keeps candles at or after since (when > 0) and the last limit ones (when > 0).
func FilterOHLCV(candles []OHLCV, since int64, limit int) []OHLCV {
	SortOHLCV(candles)

	out := candles[:0]
	for _, c := range candles {
		if since > 0 && c.Timestamp < since {
			continue
		}
		out = append(out, c)
	}

	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
