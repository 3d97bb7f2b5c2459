package base

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/precise"
	"github.com/c9s/connectors/pkg/types"
)

// CurrencyLoader is implemented by adapters that can list currencies. When
// present, currencies are loaded before markets.
type CurrencyLoader interface {
	FetchCurrencies(ctx context.Context) (types.CurrencyMap, error)
}

type discovery struct {
	markets    types.MarketMap
	currencies types.CurrencyMap
}

// LoadMarkets returns the cached markets, running discovery on the first call
// or when reload is set. Concurrent callers share one discovery run; a caller
// whose ctx is done returns early without canceling it for the others.
func (e *Exchange) LoadMarkets(ctx context.Context, reload bool) (types.MarketMap, error) {
	if !reload {
		e.mu.RLock()
		loaded, markets := e.loaded, e.markets
		e.mu.RUnlock()
		if loaded {
			return markets, nil
		}

		if e.store != nil {
			snapshot, err := e.store.Load(ctx, e.ID())
			if err != nil {
				e.log.WithError(err).Warn("unable to load market snapshot")
			} else if snapshot != nil && len(snapshot.Markets) > 0 {
				e.SetMarkets(snapshot.Markets, snapshot.Currencies)
				return snapshot.Markets, nil
			}
		}
	}

	// discovery is shared, so it must outlive the caller that started it
	ch := e.loadGroup.DoChan("markets", func() (interface{}, error) {
		return e.discover(context.WithoutCancel(ctx))
	})

	var d *discovery
	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		d = r.Val.(*discovery)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	e.SetMarkets(d.markets, d.currencies)

	if e.store != nil {
		snapshot := types.MarketSnapshot{Markets: d.markets, Currencies: d.currencies, UpdatedAt: time.Now()}
		if err := e.store.Save(ctx, e.ID(), snapshot); err != nil {
			e.log.WithError(err).Warn("unable to save market snapshot")
		}
	}

	return d.markets, nil
}

func (e *Exchange) discover(ctx context.Context) (*discovery, error) {
	d := &discovery{}

	if loader, ok := e.adapter.(CurrencyLoader); ok {
		currencies, err := loader.FetchCurrencies(ctx)
		if err != nil {
			return nil, err
		}
		d.currencies = currencies
	}

	markets, err := e.adapter.FetchMarkets(ctx)
	if err != nil {
		return nil, err
	}

	d.markets = make(types.MarketMap, len(markets))
	for _, m := range markets {
		d.markets[m.Symbol] = m
	}

	e.log.Infof("loaded %d markets", len(d.markets))
	return d, nil
}

// SetMarkets swaps the market and currency caches. Currencies are derived
// from the markets when none are given.
func (e *Exchange) SetMarkets(markets types.MarketMap, currencies types.CurrencyMap) {
	if currencies == nil {
		currencies = currenciesFromMarkets(markets)
	}

	byID := markets.ByID()
	currenciesByID := currencies.ByID()

	e.mu.Lock()
	e.markets = markets
	e.marketsByID = byID
	e.currencies = currencies
	e.currenciesByID = currenciesByID
	e.loaded = true
	e.mu.Unlock()
}

func currenciesFromMarkets(markets types.MarketMap) types.CurrencyMap {
	out := types.CurrencyMap{}
	for _, m := range markets {
		for _, pair := range [][2]string{{m.BaseID, m.Base}, {m.QuoteID, m.Quote}} {
			id, code := pair[0], pair[1]
			if code == "" {
				continue
			}
			if _, ok := out[code]; !ok {
				out[code] = types.SafeCurrency(types.Currency{ID: id, Code: code})
			}
		}
	}
	return out
}

func (e *Exchange) Markets() types.MarketMap {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.markets
}

func (e *Exchange) Currencies() types.CurrencyMap {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currencies
}

// CachedCurrencies returns the currencies only when discovery has populated them.
func (e *Exchange) CachedCurrencies() (types.CurrencyMap, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currencies, len(e.currencies) > 0
}

// Market looks a market up by unified symbol, then by exchange id.
func (e *Exchange) Market(symbol string) (types.Market, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.loaded {
		return types.Market{}, e.NewError(exerrors.ExchangeError, "markets not loaded")
	}

	if m, ok := e.markets[symbol]; ok {
		return m, nil
	}

	if ms, ok := e.marketsByID[symbol]; ok && len(ms) > 0 {
		return ms[0], nil
	}

	return types.Market{}, e.NewError(exerrors.BadSymbol, "does not have market symbol %s", symbol)
}

// LoadMarket loads markets when needed and resolves symbol.
func (e *Exchange) LoadMarket(ctx context.Context, symbol string) (types.Market, error) {
	if symbol == "" {
		return types.Market{}, e.NewError(exerrors.ArgumentsRequired, "requires a symbol argument")
	}

	if _, err := e.LoadMarkets(ctx, false); err != nil {
		return types.Market{}, err
	}
	return e.Market(symbol)
}

func (e *Exchange) MarketByID(id string) (types.Market, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if ms, ok := e.marketsByID[id]; ok && len(ms) > 0 {
		return ms[0], true
	}
	return types.Market{}, false
}

// SafeMarket resolves an exchange market id. Unknown ids are split on
// delimiter when given; otherwise the id itself becomes the symbol.
func (e *Exchange) SafeMarket(id, delimiter string) types.Market {
	if id == "" {
		return types.Market{}
	}

	if m, ok := e.MarketByID(id); ok {
		return m
	}

	if delimiter != "" {
		parts := strings.Split(id, delimiter)
		if len(parts) == 2 {
			base, quote := e.SafeCurrencyCode(parts[0]), e.SafeCurrencyCode(parts[1])
			return types.Market{
				ID:      id,
				Symbol:  base + "/" + quote,
				Base:    base,
				Quote:   quote,
				BaseID:  parts[0],
				QuoteID: parts[1],
			}
		}
	}

	return types.Market{ID: id, Symbol: id}
}

// SafeSymbol returns the unified symbol for a market id, falling back to
// the given market's symbol when the id is empty.
func (e *Exchange) SafeSymbol(id string, market *types.Market, delimiter string) string {
	if id == "" && market != nil {
		return market.Symbol
	}
	return e.SafeMarket(id, delimiter).Symbol
}

func (e *Exchange) Currency(code string) (types.Currency, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if c, ok := e.currencies[code]; ok {
		return c, nil
	}
	if c, ok := e.currenciesByID[code]; ok {
		return c, nil
	}
	return types.Currency{}, e.NewError(exerrors.BadRequest, "currency %s not found", code)
}

// CurrencyID returns the exchange id for a unified code, or the code itself.
func (e *Exchange) CurrencyID(code string) string {
	if c, err := e.Currency(code); err == nil && c.ID != "" {
		return c.ID
	}
	return code
}

// SafeCurrencyCode maps an exchange currency id to its unified code.
func (e *Exchange) SafeCurrencyCode(id string) string {
	if id == "" {
		return ""
	}

	e.mu.RLock()
	c, ok := e.currenciesByID[id]
	e.mu.RUnlock()
	if ok && c.Code != "" {
		return c.Code
	}

	return e.CommonCurrencyCode(strings.ToUpper(id))
}

// CommonCurrencyCode applies the rename table to an upper-case code.
func (e *Exchange) CommonCurrencyCode(code string) string {
	if renamed, ok := e.desc.CommonCurrencies[code]; ok {
		return renamed
	}
	return code
}

// SplitMarketID splits a concatenated market id such as "ETHUSDT" against
// known currency ids. Ids are tried longest first so that "USDT" wins over
// "USD". A split where both halves are known ids is preferred.
func SplitMarketID(id string, currencyIDs []string) (baseID, quoteID string, ok bool) {
	ids := append([]string(nil), currencyIDs...)
	sort.SliceStable(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) > len(ids[j])
		}
		return ids[i] < ids[j]
	})

	known := make(map[string]struct{}, len(ids))
	for _, c := range ids {
		known[c] = struct{}{}
	}

	for _, c := range ids {
		if c == "" || len(c) >= len(id) {
			continue
		}

		if strings.HasPrefix(id, c) {
			if _, found := known[id[len(c):]]; found {
				return c, id[len(c):], true
			}
		}
		if strings.HasSuffix(id, c) {
			if _, found := known[id[:len(id)-len(c)]]; found {
				return id[:len(id)-len(c)], c, true
			}
		}
	}

	for _, c := range ids {
		if c == "" || len(c) >= len(id) {
			continue
		}

		idx := strings.Index(id, c)
		switch {
		case idx == 0:
			return c, id[len(c):], true
		case idx > 0:
			return id[:idx], id[idx:], true
		}
	}

	return "", "", false
}

func (e *Exchange) toPrecision(value types.Number, precision types.Number, rounding precise.Rounding) (types.Number, error) {
	if !value.IsSet() {
		return types.Undefined, e.NewError(exerrors.ArgumentsRequired, "requires a numeric value")
	}
	if !precision.IsSet() {
		return value.Canonical(), nil
	}

	s, err := precise.DecimalToPrecision(string(value), rounding, string(precision), e.desc.PrecisionMode, precise.NoPadding)
	if err != nil {
		return types.Undefined, e.NewError(exerrors.InvalidOrder, "%s", err.Error())
	}
	return types.Number(s), nil
}

// AmountToPrecision truncates an order amount to the market's amount precision.
func (e *Exchange) AmountToPrecision(market types.Market, amount types.Number) (types.Number, error) {
	r, err := e.toPrecision(amount, market.Precision.Amount, precise.Truncate)
	if err != nil {
		return r, err
	}

	if r.IsZero() && !amount.IsZero() {
		return types.Undefined, e.NewError(exerrors.InvalidOrder, "amount of %s must be greater than minimum amount precision of %s", market.Symbol, market.Precision.Amount)
	}
	return r, nil
}

// PriceToPrecision rounds a price to the market's price precision.
func (e *Exchange) PriceToPrecision(market types.Market, price types.Number) (types.Number, error) {
	return e.toPrecision(price, market.Precision.Price, precise.Round)
}

func (e *Exchange) CostToPrecision(market types.Market, cost types.Number) (types.Number, error) {
	return e.toPrecision(cost, market.Precision.Cost, precise.Truncate)
}

func (e *Exchange) CurrencyToPrecision(code string, amount types.Number) (types.Number, error) {
	c, err := e.Currency(code)
	if err != nil {
		return amount.Canonical(), nil
	}
	return e.toPrecision(amount, c.Precision, precise.Round)
}
