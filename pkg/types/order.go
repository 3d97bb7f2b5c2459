package types

import (
	"encoding/json"

	"github.com/volatiletech/null"
)

type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusClosed    OrderStatus = "closed"
	OrderStatusCanceled  OrderStatus = "canceled"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusTriggered OrderStatus = "triggered"
	OrderStatusFailed    OrderStatus = "failed"
)

type TimeInForce string

const (
	TimeInForceGTC TimeInForce = "GTC"
	TimeInForceIOC TimeInForce = "IOC"
	TimeInForceFOK TimeInForce = "FOK"
	TimeInForcePO  TimeInForce = "PO"
)

type Fee struct {
	Currency string `json:"currency"`
	Cost     Number `json:"cost"`
	Rate     Number `json:"rate"`
}

type Order struct {
	ID                  string          `json:"id"`
	ClientOrderID       string          `json:"clientOrderId"`
	Timestamp           null.Int64      `json:"timestamp"`
	Datetime            string          `json:"datetime"`
	LastTradeTimestamp  null.Int64      `json:"lastTradeTimestamp"`
	LastUpdateTimestamp null.Int64      `json:"lastUpdateTimestamp"`
	Status              OrderStatus     `json:"status"`
	Symbol              string          `json:"symbol"`
	Type                OrderType       `json:"type"`
	TimeInForce         TimeInForce     `json:"timeInForce"`
	PostOnly            null.Bool       `json:"postOnly"`
	ReduceOnly          null.Bool       `json:"reduceOnly"`
	Side                OrderSide       `json:"side"`
	Price               Number          `json:"price"`
	TriggerPrice        Number          `json:"triggerPrice"`
	TakeProfitPrice     Number          `json:"takeProfitPrice"`
	StopLossPrice       Number          `json:"stopLossPrice"`
	Amount              Number          `json:"amount"`
	Cost                Number          `json:"cost"`
	Filled              Number          `json:"filled"`
	Remaining           Number          `json:"remaining"`
	Average             Number          `json:"average"`
	Fee                 *Fee            `json:"fee"`
	Fees                []Fee           `json:"fees"`
	Trades              []Trade         `json:"trades"`
	Info                json.RawMessage `json:"info"`
}

// SubmitOrder is the unified order placement request.
type SubmitOrder struct {
	Symbol        string
	Type          OrderType
	Side          OrderSide
	Amount        Number
	Price         Number
	TriggerPrice  Number
	TimeInForce   TimeInForce
	PostOnly      bool
	ClientOrderID string

	// Params are passed through to the exchange request, overriding computed fields.
	Params Params
}

// ParseStatus maps a raw exchange status through table. Unknown values pass
// through verbatim so that new exchange states are never silently rewritten.
func ParseStatus[T ~string](table map[string]T, raw string) T {
	if v, ok := table[raw]; ok {
		return v
	}
	return T(raw)
}
