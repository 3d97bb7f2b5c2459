package types

import (
	"sort"

	"github.com/volatiletech/null"
)

// timestampLess orders missing timestamps before all others, then oldest first.
func timestampLess(a, b null.Int64) bool {
	if a.Valid != b.Valid {
		return !a.Valid
	}
	return a.Valid && a.Int64 < b.Int64
}

// window keeps items at or after since (when > 0) and the last limit of
// them (when > 0), oldest first. Items without a timestamp are kept and sort
// before the rest, so a limit drops them first.
func window[T any](items []T, timestamp func(T) null.Int64, since int64, limit int) []T {
	sort.SliceStable(items, func(i, j int) bool {
		return timestampLess(timestamp(items[i]), timestamp(items[j]))
	})

	out := items[:0]
	for _, item := range items {
		if ts := timestamp(item); since > 0 && ts.Valid && ts.Int64 < since {
			continue
		}
		out = append(out, item)
	}

	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func FilterOrders(orders []Order, since int64, limit int) []Order {
	return window(orders, func(o Order) null.Int64 { return o.Timestamp }, since, limit)
}

func FilterLedger(entries []LedgerEntry, since int64, limit int) []LedgerEntry {
	return window(entries, func(e LedgerEntry) null.Int64 { return e.Timestamp }, since, limit)
}

func FilterTransactions(txs []Transaction, since int64, limit int) []Transaction {
	return window(txs, func(t Transaction) null.Int64 { return t.Timestamp }, since, limit)
}

func FilterTransfers(transfers []Transfer, since int64, limit int) []Transfer {
	return window(transfers, func(t Transfer) null.Int64 { return t.Timestamp }, since, limit)
}
