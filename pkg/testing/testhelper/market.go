package testhelper

import (
	"fmt"

	"github.com/volatiletech/null"

	"github.com/c9s/connectors/pkg/types"
)

func spot(id, base, quote string, amount, price, minAmount types.Number) types.Market {
	return types.SafeMarket(types.Market{
		ID:        id,
		Base:      base,
		Quote:     quote,
		BaseID:    base,
		QuoteID:   quote,
		Type:      types.MarketTypeSpot,
		Active:    null.BoolFrom(true),
		Precision: types.Precision{Amount: amount, Price: price},
		Limits:    types.MarketLimits{Amount: types.MinMax{Min: minAmount}},
	})
}

var _markets = types.MarketMap{
	"BTC/USDT":  spot("BTCUSDT", "BTC", "USDT", "0.0001", "0.01", "0.001"),
	"ETH/USDT":  spot("ETHUSDT", "ETH", "USDT", "0.0001", "0.01", "0.001"),
	"BTC/BRL":   spot("BTC_BRL", "BTC", "BRL", "0.00000001", "1", "0.0001"),
	"USDC/USDT": spot("USDCUSDT", "USDC", "USDT", "1", "0.0001", "10"),
}

func AllMarkets() types.MarketMap {
	markets := make(types.MarketMap, len(_markets))
	for symbol, m := range _markets {
		markets[symbol] = m
	}
	return markets
}

func Market(symbol string) types.Market {
	market, ok := _markets[symbol]
	if !ok {
		panic(fmt.Errorf("%s test market not found, valid markets: %+v", symbol, _markets.Symbols()))
	}

	return market
}
