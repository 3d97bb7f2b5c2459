package cmd

import (
	"context"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/volatiletech/null"

	"github.com/c9s/connectors/pkg/cmd/cmdutil"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/style"
	"github.com/c9s/connectors/pkg/types"
)

func init() {
	marketsCmd.Flags().Bool("reload", false, "reload the markets even if they are cached")
	RootCmd.AddCommand(marketsCmd)
	RootCmd.AddCommand(currenciesCmd)
}

// go run ./cmd/connector markets --exchange=probit
var marketsCmd = &cobra.Command{
	Use:   "markets --exchange=[exchange_name]",
	Short: "list the markets of an exchange",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		reload, err := cmd.Flags().GetBool("reload")
		if err != nil {
			return err
		}

		session, err := cmdutil.NewSession(true)
		if err != nil {
			return err
		}
		defer session.Close()

		markets, err := session.Exchange.LoadMarkets(ctx, reload)
		if err != nil {
			return err
		}

		symbols := markets.Symbols()
		list := make([]types.Market, 0, len(symbols))
		for _, symbol := range symbols {
			list = append(list, markets[symbol])
		}

		if rendered, err := cmdutil.Render(os.Stdout, list); rendered {
			return err
		}

		t := style.NewTable(os.Stdout, session.Exchange.Name().String()+" markets",
			table.Row{"Symbol", "ID", "Active", "Amount Precision", "Price Precision", "Min Amount", "Min Cost"})
		for _, m := range list {
			t.AppendRow(table.Row{m.Symbol, m.ID, nullBoolString(m.Active), m.Precision.Amount, m.Precision.Price,
				m.Limits.Amount.Min, m.Limits.Cost.Min})
		}
		t.Render()
		return nil
	},
}

var currenciesCmd = &cobra.Command{
	Use:   "currencies --exchange=[exchange_name]",
	Short: "list the currencies of an exchange",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		session, err := cmdutil.NewSession(true)
		if err != nil {
			return err
		}
		defer session.Close()

		service, ok := session.Exchange.(types.ExchangeCurrencyService)
		if !ok {
			return exerrors.New(exerrors.NotSupported, session.Exchange.Name().String(), "fetchCurrencies() is not supported yet")
		}

		currencies, err := service.FetchCurrencies(ctx)
		if err != nil {
			return err
		}

		if rendered, err := cmdutil.Render(os.Stdout, currencies); rendered {
			return err
		}

		t := style.NewTable(os.Stdout, session.Exchange.Name().String()+" currencies",
			table.Row{"Code", "ID", "Name", "Precision", "Deposit", "Withdraw", "Networks"})
		for _, code := range currencies.Codes() {
			c := currencies[code]
			t.AppendRow(table.Row{c.Code, c.ID, c.Name, c.Precision,
				nullBoolString(c.Deposit), nullBoolString(c.Withdraw), len(c.Networks)})
		}
		t.Render()
		return nil
	},
}

func boolString(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func nullBoolString(b null.Bool) string {
	if !b.Valid {
		return ""
	}
	return boolString(b.Bool)
}
