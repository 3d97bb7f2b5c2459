package types

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null"
)

func jsonKeys(t *testing.T, v interface{}) map[string]interface{} {
	data, err := json.Marshal(v)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestBuildersSchemaCompleteness(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		keys  []string
	}{
		{"order", SafeOrder(Order{}), []string{
			"amount", "average", "clientOrderId", "cost", "datetime", "fee", "fees", "filled", "id", "info",
			"lastTradeTimestamp", "lastUpdateTimestamp", "postOnly", "price", "reduceOnly", "remaining", "side",
			"status", "stopLossPrice", "symbol", "takeProfitPrice", "timeInForce", "timestamp", "trades",
			"triggerPrice", "type",
		}},
		{"trade", SafeTrade(Trade{}), []string{
			"amount", "cost", "datetime", "fee", "fees", "id", "info", "order", "price", "side", "symbol",
			"takerOrMaker", "timestamp", "type",
		}},
		{"ticker", SafeTicker(Ticker{}), []string{
			"ask", "askVolume", "average", "baseVolume", "bid", "bidVolume", "change", "close", "datetime", "high",
			"info", "last", "low", "open", "percentage", "previousClose", "quoteVolume", "symbol", "timestamp", "vwap",
		}},
		{"ledger", SafeLedgerEntry(LedgerEntry{}), []string{
			"account", "after", "amount", "before", "currency", "datetime", "direction", "fee", "id", "info",
			"referenceAccount", "referenceId", "status", "timestamp", "type",
		}},
		{"transaction", SafeTransaction(Transaction{}), []string{
			"address", "addressFrom", "addressTo", "amount", "comment", "currency", "datetime", "fee", "id", "info",
			"internal", "network", "status", "tag", "tagFrom", "tagTo", "timestamp", "txid", "type", "updated",
		}},
		{"transfer", SafeTransfer(Transfer{}), []string{
			"amount", "currency", "datetime", "fromAccount", "id", "info", "status", "timestamp", "toAccount",
		}},
		{"deposit address", SafeDepositAddress(DepositAddress{}), []string{
			"address", "currency", "info", "network", "tag",
		}},
		{"balances", SafeBalances(Balances{}), []string{
			"currencies", "datetime", "info", "timestamp",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := jsonKeys(t, tt.value)
			assert.Equal(t, tt.keys, sortedKeys(m))

			for k, v := range m {
				switch val := v.(type) {
				case nil:
				case string:
					assert.Empty(t, val, "key %s", k)
				case []interface{}:
					assert.Empty(t, val, "key %s", k)
				case map[string]interface{}:
					assert.Empty(t, val, "key %s", k)
				default:
					t.Errorf("key %s should be absent, got %v", k, v)
				}
			}
		})
	}
}

func TestSafeOrderDerivations(t *testing.T) {
	t.Run("cost from price and filled", func(t *testing.T) {
		o := SafeOrder(Order{Type: OrderTypeLimit, Price: "2282", Amount: "0.002", Filled: "0.002"})
		assert.Equal(t, Number("4.564"), o.Cost)
		assert.Equal(t, Number("0"), o.Remaining)
		assert.Equal(t, Number("2282"), o.Average)
	})

	t.Run("amount from filled and remaining", func(t *testing.T) {
		o := SafeOrder(Order{Filled: "0.1", Remaining: "0.20000000000000000001"})
		assert.Equal(t, Number("0.30000000000000000001"), o.Amount)
	})

	t.Run("trades aggregate", func(t *testing.T) {
		o := SafeOrder(Order{
			ID:     "o1",
			Type:   OrderTypeMarket,
			Amount: "3",
			Trades: []Trade{
				{ID: "t1", Price: "10", Amount: "1", Timestamp: null.Int64From(1000), Fee: &Fee{Currency: "USDT", Cost: "0.01"}},
				{ID: "t2", Price: "11", Amount: "2", Timestamp: null.Int64From(2000), Fee: &Fee{Currency: "USDT", Cost: "0.02"}},
			},
		})

		assert.Equal(t, Number("3"), o.Filled)
		assert.Equal(t, Number("32"), o.Cost)
		assert.Equal(t, Number("0"), o.Remaining)
		assert.Equal(t, Number("10.666666666666666666"), o.Average)
		assert.Equal(t, o.Average, o.Price)
		assert.Equal(t, int64(2000), o.LastTradeTimestamp.Int64)
		require.NotNil(t, o.Fee)
		assert.Equal(t, Number("0.03"), o.Fee.Cost)
		assert.Equal(t, TimeInForceIOC, o.TimeInForce)
		assert.Equal(t, "o1", o.Trades[0].Order)
	})

	t.Run("post only", func(t *testing.T) {
		o := SafeOrder(Order{Type: OrderTypeLimit, PostOnly: null.BoolFrom(true)})
		assert.Equal(t, TimeInForcePO, o.TimeInForce)
	})
}

func TestSafeTicker(t *testing.T) {
	tk := SafeTicker(Ticker{Open: "100", Close: "110", BaseVolume: "2", QuoteVolume: "210", Timestamp: null.Int64From(1700684689420)})
	assert.Equal(t, Number("110"), tk.Last)
	assert.Equal(t, Number("10"), tk.Change)
	assert.Equal(t, Number("10"), tk.Percentage)
	assert.Equal(t, Number("105"), tk.Average)
	assert.Equal(t, Number("105"), tk.Vwap)
	assert.Equal(t, "2023-11-22T20:24:49.420Z", tk.Datetime)
}

func TestSafeLedgerEntry(t *testing.T) {
	direction, amount := SignedAmount("-4.564")
	assert.Equal(t, DirectionOut, direction)
	assert.Equal(t, Number("4.564"), amount)

	e := SafeLedgerEntry(LedgerEntry{Direction: direction, Amount: amount, After: "10"})
	assert.Equal(t, Number("14.564"), e.Before)

	e = SafeLedgerEntry(LedgerEntry{Direction: DirectionIn, Amount: "1", Before: "2"})
	assert.Equal(t, Number("3"), e.After)
}

func TestSafeCurrencyNetworks(t *testing.T) {
	c := SafeCurrency(Currency{
		Code: "USDT",
		Networks: map[string]Network{
			"ETH": {Deposit: null.BoolFrom(false), Withdraw: null.BoolFrom(true)},
			"TRX": {Deposit: null.BoolFrom(true), Withdraw: null.BoolFrom(false)},
		},
	})
	assert.True(t, c.Deposit.Bool)
	assert.True(t, c.Withdraw.Bool)
	assert.True(t, c.Active.Bool)
}

func TestSafeMarketSymbol(t *testing.T) {
	m := SafeMarket(Market{ID: "ETHUSDT", Base: "ETH", Quote: "USDT"})
	assert.Equal(t, "ETH/USDT", m.Symbol)
	assert.True(t, m.Spot)
	assert.Equal(t, MarketTypeSpot, m.Type)
}

func TestOrderBookSorting(t *testing.T) {
	book := NewOrderBook("ETH/USDT",
		PriceLevels{{"2352.6339", "3.75"}, {"2353.1", "1"}, {"999", "1"}},
		PriceLevels{{"2360", "1"}, {"2354.2861", "3.75"}, {"10000", "1"}},
		null.Int64{}, 2)

	assert.Equal(t, PriceLevels{{"2353.1", "1"}, {"2352.6339", "3.75"}}, book.Bids)
	assert.Equal(t, PriceLevels{{"2354.2861", "3.75"}, {"2360", "1"}}, book.Asks)

	data, err := json.Marshal(book.Bids[0])
	require.NoError(t, err)
	assert.Equal(t, `[2353.1,1]`, string(data))
}

func TestNumberJSON(t *testing.T) {
	var payload struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Number `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"0.3429","b":1900.4,"c":null,"d":"n/a"}`), &payload))
	assert.Equal(t, Number("0.3429"), payload.A)
	assert.Equal(t, Number("1900.4"), payload.B)
	assert.False(t, payload.C.IsSet())
	assert.False(t, payload.D.IsSet())

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.Equal(t, `{"a":0.3429,"b":1900.4,"c":null,"d":null}`, string(data))
}

func TestOHLCVJSON(t *testing.T) {
	c := OHLCV{Timestamp: 1699253400000, Open: "0.3429", High: "0.3429", Low: "0.3427", Close: "0.3427", Volume: "1900.4"}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `[1699253400000,0.3429,0.3429,0.3427,0.3427,1900.4]`, string(data))

	var back OHLCV
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c, back)
}

func TestParseStatus(t *testing.T) {
	table := map[string]OrderStatus{"ACTIVE": OrderStatusOpen, "FILLED": OrderStatusClosed}
	assert.Equal(t, OrderStatusOpen, ParseStatus(table, "ACTIVE"))
	assert.Equal(t, OrderStatus("SOMETHING_NEW"), ParseStatus(table, "SOMETHING_NEW"))
}
