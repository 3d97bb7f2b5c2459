package cmd

import (
	"context"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leekchan/accounting"
	"github.com/spf13/cobra"

	"github.com/c9s/connectors/pkg/cmd/cmdutil"
	"github.com/c9s/connectors/pkg/style"
	"github.com/c9s/connectors/pkg/types"
)

func init() {
	balancesCmd.Flags().Bool("all", false, "include zero balances")
	RootCmd.AddCommand(balancesCmd)
}

// go run ./cmd/connector balances --exchange=novadax
var balancesCmd = &cobra.Command{
	Use:   "balances --exchange=[exchange_name]",
	Short: "show the account balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		all, err := cmd.Flags().GetBool("all")
		if err != nil {
			return err
		}

		trader, session, err := newTrader()
		if err != nil {
			return err
		}
		defer session.Close()

		balances, err := trader.FetchBalance(ctx)
		if err != nil {
			return err
		}

		if rendered, err := cmdutil.Render(os.Stdout, balances); rendered {
			return err
		}

		t := style.NewTable(os.Stdout, session.Exchange.Name().String()+" balances",
			table.Row{"Currency", "Free", "Used", "Total"}, 2, 3, 4)
		for _, code := range sortedKeys(balances.Currencies) {
			b := balances.Currencies[code]
			if !all && isZero(b.Free) && isZero(b.Used) && isZero(b.Total) {
				continue
			}

			t.AppendRow(table.Row{code, formatAmount(code, b.Free), formatAmount(code, b.Used), formatAmount(code, b.Total)})
		}
		t.Render()
		return nil
	},
}

// newTrader creates the authenticated exchange selected by --exchange.
func newTrader() (types.ExchangeTradeService, *cmdutil.Session, error) {
	session, err := cmdutil.NewSession(false)
	if err != nil {
		return nil, nil, err
	}

	trader, ok := session.Exchange.(types.ExchangeTradeService)
	if !ok {
		session.Close()
		return nil, nil, unsupported(session, "trading")
	}
	return trader, session, nil
}

func isZero(n types.Number) bool {
	return !n.IsSet() || n.Cmp("0") == 0
}

func formatAmount(code string, n types.Number) string {
	d, ok := n.Decimal()
	if !ok {
		return ""
	}

	a := accounting.DefaultAccounting(code, 8)
	a.Format = "%v %s"
	return a.FormatMoney(d)
}
