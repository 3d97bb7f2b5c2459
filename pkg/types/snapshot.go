package types

import "time"

// MarketSnapshot is the result of one discovery run, stored by market caches.
type MarketSnapshot struct {
	Markets    MarketMap   `json:"markets"`
	Currencies CurrencyMap `json:"currencies"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}
