package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/c9s/connectors/pkg/cmd/cmdutil"
	"github.com/c9s/connectors/pkg/style"
	"github.com/c9s/connectors/pkg/types"
)

func init() {
	depositAddressCmd.Flags().String("currency", "", "unified currency code")
	depositAddressCmd.Flags().String("network", "", "network id")

	for _, c := range []*cobra.Command{depositsCmd, withdrawalsCmd, ledgerCmd} {
		c.Flags().String("currency", "", "unified currency code")
		addFetchFlags(c.Flags())
	}

	withdrawCmd.Flags().String("currency", "", "unified currency code")
	withdrawCmd.Flags().String("amount", "", "amount to withdraw")
	withdrawCmd.Flags().String("address", "", "destination address")
	withdrawCmd.Flags().String("tag", "", "destination tag or memo")
	withdrawCmd.Flags().String("network", "", "network id")

	transferCmd.Flags().String("currency", "", "unified currency code")
	transferCmd.Flags().String("amount", "", "amount to transfer")
	transferCmd.Flags().String("from", "", "source account")
	transferCmd.Flags().String("to", "", "destination account")

	RootCmd.AddCommand(depositAddressCmd, depositsCmd, withdrawalsCmd, ledgerCmd, withdrawCmd, transferCmd)
}

func networkParams(cmd *cobra.Command) types.Params {
	network, _ := cmd.Flags().GetString("network")
	if network == "" {
		return nil
	}
	return types.Params{"network": network}
}

var depositAddressCmd = &cobra.Command{
	Use:   "deposit-address --exchange=[exchange_name] --currency=[code]",
	Short: "show the deposit address of a currency",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		code, err := requiredString(cmd, "currency")
		if err != nil {
			return err
		}

		_, session, err := newTrader()
		if err != nil {
			return err
		}
		defer session.Close()

		service, ok := session.Exchange.(types.ExchangeDepositService)
		if !ok {
			return unsupported(session, "fetchDepositAddress()")
		}

		address, err := service.FetchDepositAddress(ctx, code, networkParams(cmd))
		if err != nil {
			return err
		}

		if rendered, err := cmdutil.Render(os.Stdout, address); rendered {
			return err
		}

		t := style.NewTable(os.Stdout, code+" deposit address", table.Row{"Currency", "Network", "Address", "Tag"})
		t.AppendRow(table.Row{address.Currency, address.Network, address.Address, address.Tag})
		t.Render()
		return nil
	},
}

func fetchTransactions(cmd *cobra.Command, withdrawals bool) error {
	ctx := context.Background()
	code, _ := cmd.Flags().GetString("currency")

	options, err := fetchOptions(cmd)
	if err != nil {
		return err
	}

	_, session, err := newTrader()
	if err != nil {
		return err
	}
	defer session.Close()

	service, ok := session.Exchange.(types.ExchangeDepositService)
	if !ok {
		return unsupported(session, "fetchDeposits()")
	}

	var transactions []types.Transaction
	if withdrawals {
		transactions, err = service.FetchWithdrawals(ctx, code, options)
	} else {
		transactions, err = service.FetchDeposits(ctx, code, options)
	}
	if err != nil {
		return err
	}

	if rendered, err := cmdutil.Render(os.Stdout, transactions); rendered {
		return err
	}

	t := style.NewTable(os.Stdout, cmd.Name(),
		table.Row{"Time", "ID", "Currency", "Amount", "Network", "Address", "Status", "TxID"}, 4)
	for _, tx := range transactions {
		t.AppendRow(table.Row{tx.Datetime, tx.ID, tx.Currency, tx.Amount, tx.Network, tx.Address, tx.Status, tx.TxID})
	}
	t.Render()
	return nil
}

var depositsCmd = &cobra.Command{
	Use:   "deposits --exchange=[exchange_name] [--currency=[code]]",
	Short: "list deposits",
	RunE: func(cmd *cobra.Command, args []string) error {
		return fetchTransactions(cmd, false)
	},
}

var withdrawalsCmd = &cobra.Command{
	Use:   "withdrawals --exchange=[exchange_name] [--currency=[code]]",
	Short: "list withdrawals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return fetchTransactions(cmd, true)
	},
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger --exchange=[exchange_name] [--currency=[code]]",
	Short: "list the account ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		code, _ := cmd.Flags().GetString("currency")

		options, err := fetchOptions(cmd)
		if err != nil {
			return err
		}

		_, session, err := newTrader()
		if err != nil {
			return err
		}
		defer session.Close()

		service, ok := session.Exchange.(types.ExchangeLedgerService)
		if !ok {
			return unsupported(session, "fetchLedger()")
		}

		entries, err := service.FetchLedger(ctx, code, options)
		if err != nil {
			return err
		}

		if rendered, err := cmdutil.Render(os.Stdout, entries); rendered {
			return err
		}

		t := style.NewTable(os.Stdout, "ledger",
			table.Row{"Time", "ID", "Type", "Direction", "Currency", "Amount", "After"}, 6, 7)
		for _, entry := range entries {
			amount := entry.Amount.String()
			if entry.Direction == types.DirectionOut {
				amount = style.Ask(amount)
			} else {
				amount = style.Bid(amount)
			}
			t.AppendRow(table.Row{entry.Datetime, entry.ID, entry.Type, entry.Direction, entry.Currency, amount, entry.After})
		}
		t.Render()
		return nil
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw --exchange=[exchange_name] --currency=[code] --amount=[amount] --address=[address]",
	Short: "withdraw to an external address",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var values = map[string]string{}
		for _, name := range []string{"currency", "amount", "address"} {
			v, err := requiredString(cmd, name)
			if err != nil {
				return err
			}
			values[name] = v
		}
		tag, _ := cmd.Flags().GetString("tag")

		_, session, err := newTrader()
		if err != nil {
			return err
		}
		defer session.Close()

		service, ok := session.Exchange.(types.ExchangeWithdrawalService)
		if !ok {
			return unsupported(session, "withdraw()")
		}

		tx, err := service.Withdraw(ctx, values["currency"], types.Number(values["amount"]), values["address"], tag, networkParams(cmd))
		if err != nil {
			return err
		}

		log.Infof("withdrawal submitted: %s", tx.ID)
		_, err = cmdutil.Render(os.Stdout, tx)
		return err
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer --exchange=[exchange_name] --currency=[code] --amount=[amount] --from=[account] --to=[account]",
	Short: "transfer between accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		code, err := requiredString(cmd, "currency")
		if err != nil {
			return err
		}

		amount, err := requiredString(cmd, "amount")
		if err != nil {
			return err
		}

		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		if from == "" && to == "" {
			return fmt.Errorf("--from or --to is required")
		}

		_, session, err := newTrader()
		if err != nil {
			return err
		}
		defer session.Close()

		service, ok := session.Exchange.(types.ExchangeTransferService)
		if !ok {
			return unsupported(session, "transfer()")
		}

		transfer, err := service.Transfer(ctx, code, types.Number(amount), from, to, nil)
		if err != nil {
			return err
		}

		log.Infof("transfer %s: %s %s %s -> %s", transfer.Status, transfer.Amount, transfer.Currency, transfer.FromAccount, transfer.ToAccount)
		_, err = cmdutil.Render(os.Stdout, transfer)
		return err
	},
}
