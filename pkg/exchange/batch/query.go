package batch

import (
	"context"
	"strconv"
	"time"

	"github.com/volatiletech/null"

	"github.com/c9s/connectors/pkg/types"
)

func millis(ts null.Int64) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	return time.UnixMilli(ts.Int64)
}

func pageOptions(since, until time.Time, limit int) *types.FetchOptions {
	return &types.FetchOptions{Since: &since, Until: &until, Limit: limit}
}

type TradeBatchQuery struct {
	types.ExchangeTradeHistoryService

	Limit int
}

func (e TradeBatchQuery) Query(ctx context.Context, symbol string, since, until time.Time) (chan types.Trade, chan error) {
	query := &TimeRangedQuery[types.Trade]{
		Q: func(ctx context.Context, since, until time.Time) ([]types.Trade, error) {
			return e.FetchMyTrades(ctx, symbol, pageOptions(since, until, e.Limit))
		},
		T:  func(trade types.Trade) time.Time { return millis(trade.Timestamp) },
		ID: func(trade types.Trade) string { return trade.ID },
	}

	c := make(chan types.Trade, 100)
	return c, query.Query(ctx, c, since, until)
}

type ClosedOrderBatchQuery struct {
	types.ExchangeTradeHistoryService

	Limit int
}

func (e ClosedOrderBatchQuery) Query(ctx context.Context, symbol string, since, until time.Time) (chan types.Order, chan error) {
	query := &TimeRangedQuery[types.Order]{
		Q: func(ctx context.Context, since, until time.Time) ([]types.Order, error) {
			return e.FetchClosedOrders(ctx, symbol, pageOptions(since, until, e.Limit))
		},
		T:  func(order types.Order) time.Time { return millis(order.Timestamp) },
		ID: func(order types.Order) string { return order.ID },
	}

	c := make(chan types.Order, 100)
	return c, query.Query(ctx, c, since, until)
}

type OHLCVBatchQuery struct {
	types.ExchangeOHLCVService

	Limit int
}

func (e OHLCVBatchQuery) Query(ctx context.Context, symbol, timeframe string, since, until time.Time) (chan types.OHLCV, chan error) {
	query := &TimeRangedQuery[types.OHLCV]{
		Q: func(ctx context.Context, since, until time.Time) ([]types.OHLCV, error) {
			return e.FetchOHLCV(ctx, symbol, timeframe, pageOptions(since, until, e.Limit))
		},
		T:  func(candle types.OHLCV) time.Time { return time.UnixMilli(candle.Timestamp) },
		ID: func(candle types.OHLCV) string { return strconv.FormatInt(candle.Timestamp, 10) },
	}

	c := make(chan types.OHLCV, 500)
	return c, query.Query(ctx, c, since, until)
}
