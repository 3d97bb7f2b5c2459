package cmd

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/volatiletech/null"

	"github.com/c9s/connectors/pkg/cmd/cmdutil"
	"github.com/c9s/connectors/pkg/exchange/batch"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/style"
	"github.com/c9s/connectors/pkg/types"
)

func init() {
	tickerCmd.Flags().String("symbol", "", "comma separated unified symbols, all markets when empty")

	orderbookCmd.Flags().String("symbol", "", "the unified symbol, for example BTC/USDT")
	orderbookCmd.Flags().Int("depth", 10, "number of price levels to show per side")

	tradesCmd.Flags().String("symbol", "", "the unified symbol, for example BTC/USDT")
	addFetchFlags(tradesCmd.Flags())

	ohlcvCmd.Flags().String("symbol", "", "the unified symbol, for example BTC/USDT")
	ohlcvCmd.Flags().String("timeframe", "1h", "unified timeframe, for example 1m, 1h, 1d")
	addFetchFlags(ohlcvCmd.Flags())
	addBatchFlag(ohlcvCmd.Flags())

	RootCmd.AddCommand(tickerCmd, orderbookCmd, tradesCmd, ohlcvCmd)
}

// go run ./cmd/connector ticker --exchange=hollaex --symbol=BTC/USDT
var tickerCmd = &cobra.Command{
	Use:   "ticker --exchange=[exchange_name] [--symbol=BTC/USDT,ETH/USDT]",
	Short: "show the 24h tickers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		raw, err := cmd.Flags().GetString("symbol")
		if err != nil {
			return err
		}

		session, err := cmdutil.NewSession(true)
		if err != nil {
			return err
		}
		defer session.Close()

		ex := session.Exchange.(types.Exchange)

		var symbols []string
		if raw != "" {
			symbols = strings.Split(raw, ",")
		}

		tickers := map[string]types.Ticker{}
		if service, ok := ex.(types.ExchangeTickersService); ok && len(symbols) != 1 {
			if tickers, err = service.FetchTickers(ctx, symbols...); err != nil {
				return err
			}
		} else {
			if len(symbols) == 0 {
				return exerrors.New(exerrors.ArgumentsRequired, ex.Name().String(), "fetchTickers() is not supported, --symbol is required")
			}

			for _, symbol := range symbols {
				ticker, err := ex.FetchTicker(ctx, symbol)
				if err != nil {
					return err
				}
				tickers[symbol] = *ticker
			}
		}

		if rendered, err := cmdutil.Render(os.Stdout, tickers); rendered {
			return err
		}

		t := style.NewTable(os.Stdout, ex.Name().String()+" tickers",
			table.Row{"Symbol", "Last", "Bid", "Ask", "Change %", "Base Volume", "Quote Volume"}, 2, 3, 4, 5, 6, 7)
		for _, symbol := range sortedKeys(tickers) {
			tk := tickers[symbol]
			t.AppendRow(table.Row{symbol, tk.Last, tk.Bid, tk.Ask, style.ChangeString(tk.Percentage), tk.BaseVolume, tk.QuoteVolume})
		}
		t.Render()
		return nil
	},
}

// go run ./cmd/connector orderbook --exchange=coinmetro --symbol=BTC/EUR
var orderbookCmd = &cobra.Command{
	Use:   "orderbook --exchange=[exchange_name] --symbol=[symbol]",
	Short: "show an order book snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		symbol, err := requiredString(cmd, "symbol")
		if err != nil {
			return err
		}

		depth, err := cmd.Flags().GetInt("depth")
		if err != nil {
			return err
		}

		session, err := cmdutil.NewSession(true)
		if err != nil {
			return err
		}
		defer session.Close()

		ex := session.Exchange.(types.Exchange)
		book, err := ex.FetchOrderBook(ctx, symbol, 0)
		if err != nil {
			return err
		}

		if rendered, err := cmdutil.Render(os.Stdout, book); rendered {
			return err
		}

		t := style.NewTable(os.Stdout, book.Symbol, table.Row{"Side", "Price", "Amount"}, 2, 3)
		asks := book.Asks
		if depth > 0 && len(asks) > depth {
			asks = asks[:depth]
		}
		for i := len(asks) - 1; i >= 0; i-- {
			t.AppendRow(table.Row{style.Ask("ASK"), style.Ask(asks[i].Price.String()), asks[i].Amount})
		}
		t.AppendSeparator()

		bids := book.Bids
		if depth > 0 && len(bids) > depth {
			bids = bids[:depth]
		}
		for _, level := range bids {
			t.AppendRow(table.Row{style.Bid("BID"), style.Bid(level.Price.String()), level.Amount})
		}
		t.Render()
		return nil
	},
}

var tradesCmd = &cobra.Command{
	Use:   "trades --exchange=[exchange_name] --symbol=[symbol]",
	Short: "show the public trades of a market",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		symbol, err := requiredString(cmd, "symbol")
		if err != nil {
			return err
		}

		options, err := fetchOptions(cmd)
		if err != nil {
			return err
		}

		session, err := cmdutil.NewSession(true)
		if err != nil {
			return err
		}
		defer session.Close()

		trades, err := session.Exchange.(types.Exchange).FetchTrades(ctx, symbol, options)
		if err != nil {
			return err
		}
		return renderTrades(symbol+" trades", trades)
	},
}

var ohlcvCmd = &cobra.Command{
	Use:   "ohlcv --exchange=[exchange_name] --symbol=[symbol] --timeframe=[timeframe]",
	Short: "show candles",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		symbol, err := requiredString(cmd, "symbol")
		if err != nil {
			return err
		}

		timeframe, err := requiredString(cmd, "timeframe")
		if err != nil {
			return err
		}

		options, err := fetchOptions(cmd)
		if err != nil {
			return err
		}

		since, until, batchMode, err := batchRange(cmd, options)
		if err != nil {
			return err
		}

		session, err := cmdutil.NewSession(true)
		if err != nil {
			return err
		}
		defer session.Close()

		service, ok := session.Exchange.(types.ExchangeOHLCVService)
		if !ok {
			return exerrors.New(exerrors.NotSupported, session.Exchange.Name().String(), "fetchOHLCV() is not supported yet")
		}

		var candles []types.OHLCV
		if batchMode {
			q := batch.OHLCVBatchQuery{ExchangeOHLCVService: service, Limit: options.Limit}
			candles, err = batch.Collect(q.Query(ctx, symbol, timeframe, since, until))
		} else {
			candles, err = service.FetchOHLCV(ctx, symbol, timeframe, options)
		}
		if err != nil {
			return err
		}

		if rendered, err := cmdutil.Render(os.Stdout, candles); rendered {
			return err
		}

		t := style.NewTable(os.Stdout, symbol+" "+timeframe,
			table.Row{"Time", "Open", "High", "Low", "Close", "Volume"}, 2, 3, 4, 5, 6)
		for _, c := range candles {
			t.AppendRow(table.Row{types.ISO8601(null.Int64From(c.Timestamp)), c.Open, c.High, c.Low, c.Close, c.Volume})
		}
		t.Render()
		return nil
	},
}

func renderTrades(title string, trades []types.Trade) error {
	if rendered, err := cmdutil.Render(os.Stdout, trades); rendered {
		return err
	}

	t := style.NewTable(os.Stdout, title,
		table.Row{"Time", "ID", "Symbol", "Side", "Price", "Amount", "Cost", "Fee"}, 5, 6, 7)
	for _, trade := range trades {
		fee := ""
		if trade.Fee != nil {
			fee = trade.Fee.Cost.String() + " " + trade.Fee.Currency
		}
		t.AppendRow(table.Row{trade.Datetime, trade.ID, trade.Symbol, style.SideString(trade.Side),
			trade.Price, trade.Amount, trade.Cost, fee})
	}
	t.Render()
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
