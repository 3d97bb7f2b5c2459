package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null"

	"github.com/c9s/connectors/pkg/types"
)

// pagedTrades serves trades in pages of size, starting at since, inclusive.
type pagedTrades struct {
	trades []types.Trade
	size   int
	calls  int
	err    error
}

func (p *pagedTrades) FetchMyTrades(_ context.Context, _ string, options *types.FetchOptions) ([]types.Trade, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}

	var page []types.Trade
	for _, trade := range p.trades {
		if trade.Timestamp.Int64 < options.SinceMillis() {
			continue
		}
		page = append(page, trade)
		if len(page) == p.size {
			break
		}
	}
	return page, nil
}

func (p *pagedTrades) FetchClosedOrders(context.Context, string, *types.FetchOptions) ([]types.Order, error) {
	return nil, nil
}

func trade(id string, ts int64) types.Trade {
	return types.Trade{ID: id, Timestamp: null.Int64From(ts)}
}

func TestTradeBatchQuery(t *testing.T) {
	service := &pagedTrades{
		size: 2,
		trades: []types.Trade{
			trade("1", 1000), trade("2", 2000), trade("3", 2000), trade("4", 3000), trade("5", 9000),
		},
	}

	q := TradeBatchQuery{ExchangeTradeHistoryService: service, Limit: 2}
	trades, err := Collect(q.Query(context.Background(), "BTC/USDT", time.UnixMilli(0), time.UnixMilli(5000)))
	require.NoError(t, err)

	var ids []string
	for _, trade := range trades {
		ids = append(ids, trade.ID)
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
}

func TestTradeBatchQueryError(t *testing.T) {
	service := &pagedTrades{err: errors.New("boom")}

	q := TradeBatchQuery{ExchangeTradeHistoryService: service}
	trades, err := Collect(q.Query(context.Background(), "BTC/USDT", time.UnixMilli(0), time.UnixMilli(5000)))
	assert.EqualError(t, err, "boom")
	assert.Empty(t, trades)
	assert.Equal(t, 1, service.calls)
}

func TestJumpIfEmpty(t *testing.T) {
	calls := 0
	query := &TimeRangedQuery[types.OHLCV]{
		Q: func(_ context.Context, since, _ time.Time) ([]types.OHLCV, error) {
			calls++
			if since.UnixMilli() != 3*3600_000 {
				return nil, nil
			}
			return []types.OHLCV{{Timestamp: since.UnixMilli()}}, nil
		},
		T:           func(c types.OHLCV) time.Time { return time.UnixMilli(c.Timestamp) },
		ID:          func(c types.OHLCV) string { return time.UnixMilli(c.Timestamp).String() },
		JumpIfEmpty: time.Hour,
	}

	c := make(chan types.OHLCV, 10)
	candles, err := Collect(c, query.Query(context.Background(), c, time.UnixMilli(0), time.UnixMilli(4*3600_000)))
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, int64(3*3600_000), candles[0].Timestamp)
	assert.Equal(t, 6, calls)
}
