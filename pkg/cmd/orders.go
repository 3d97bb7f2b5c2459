package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/c9s/connectors/pkg/cmd/cmdutil"
	"github.com/c9s/connectors/pkg/exchange"
	"github.com/c9s/connectors/pkg/exchange/batch"
	"github.com/c9s/connectors/pkg/exerrors"
	"github.com/c9s/connectors/pkg/style"
	"github.com/c9s/connectors/pkg/types"
)

func init() {
	for _, c := range []*cobra.Command{openOrdersCmd, closedOrdersCmd, myTradesCmd} {
		c.Flags().String("symbol", "", "the unified symbol, for example BTC/USDT")
		addFetchFlags(c.Flags())
	}

	for _, c := range []*cobra.Command{submitOrderCmd, editOrderCmd} {
		c.Flags().String("symbol", "", "the unified symbol, for example BTC/USDT")
		c.Flags().String("side", "", "buy or sell")
		c.Flags().String("type", "limit", "limit or market")
		c.Flags().String("amount", "", "order amount in base currency")
		c.Flags().String("price", "", "limit price")
		c.Flags().String("trigger-price", "", "stop trigger price")
		c.Flags().String("time-in-force", "", "GTC, IOC, FOK or PO")
		c.Flags().Bool("post-only", false, "maker only")
		c.Flags().String("client-order-id", "", "client order id")
	}
	editOrderCmd.Flags().String("id", "", "the order id to replace")
	addBatchFlag(myTradesCmd.Flags())
	addBatchFlag(closedOrdersCmd.Flags())

	cancelOrderCmd.Flags().String("id", "", "the order id")
	cancelOrderCmd.Flags().String("symbol", "", "the unified symbol")
	cancelOrderCmd.Flags().Bool("all", false, "cancel all open orders of the symbol")

	RootCmd.AddCommand(openOrdersCmd, closedOrdersCmd, myTradesCmd, submitOrderCmd, editOrderCmd, cancelOrderCmd)
}

func unsupported(session *cmdutil.Session, method string) error {
	return exerrors.New(exerrors.NotSupported, session.Exchange.Name().String(), "%s is not supported yet", method)
}

var openOrdersCmd = &cobra.Command{
	Use:   "open-orders --exchange=[exchange_name] [--symbol=[symbol]]",
	Short: "list the open orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		symbol, _ := cmd.Flags().GetString("symbol")

		options, err := fetchOptions(cmd)
		if err != nil {
			return err
		}

		trader, session, err := newTrader()
		if err != nil {
			return err
		}
		defer session.Close()

		orders, err := trader.FetchOpenOrders(ctx, symbol, options)
		if err != nil {
			return err
		}
		return renderOrders("open orders", orders)
	},
}

var closedOrdersCmd = &cobra.Command{
	Use:   "closed-orders --exchange=[exchange_name] [--symbol=[symbol]]",
	Short: "list the closed and canceled orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		symbol, _ := cmd.Flags().GetString("symbol")

		options, err := fetchOptions(cmd)
		if err != nil {
			return err
		}

		since, until, batchMode, err := batchRange(cmd, options)
		if err != nil {
			return err
		}

		_, session, err := newTrader()
		if err != nil {
			return err
		}
		defer session.Close()

		var orders []types.Order
		switch service := session.Exchange.(type) {
		case types.ExchangeTradeHistoryService:
			if batchMode {
				q := batch.ClosedOrderBatchQuery{ExchangeTradeHistoryService: service, Limit: options.Limit}
				orders, err = batch.Collect(q.Query(ctx, symbol, since, until))
			} else {
				orders, err = service.FetchClosedOrders(ctx, symbol, options)
			}
		case types.ExchangeCanceledAndClosedOrdersService:
			orders, err = service.FetchCanceledAndClosedOrders(ctx, symbol, options)
		default:
			return unsupported(session, "fetchClosedOrders()")
		}
		if err != nil {
			return err
		}
		return renderOrders("closed orders", orders)
	},
}

var myTradesCmd = &cobra.Command{
	Use:   "my-trades --exchange=[exchange_name] [--symbol=[symbol]]",
	Short: "list the account trades",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		symbol, _ := cmd.Flags().GetString("symbol")

		options, err := fetchOptions(cmd)
		if err != nil {
			return err
		}

		_, session, err := newTrader()
		if err != nil {
			return err
		}
		defer session.Close()

		service, ok := session.Exchange.(types.ExchangeTradeHistoryService)
		if !ok {
			return unsupported(session, "fetchMyTrades()")
		}

		since, until, batchMode, err := batchRange(cmd, options)
		if err != nil {
			return err
		}

		var trades []types.Trade
		if batchMode {
			q := batch.TradeBatchQuery{ExchangeTradeHistoryService: service, Limit: options.Limit}
			trades, err = batch.Collect(q.Query(ctx, symbol, since, until))
		} else {
			trades, err = service.FetchMyTrades(ctx, symbol, options)
		}
		if err != nil {
			return err
		}
		return renderTrades("my trades", trades)
	},
}

func submitOrderFromFlags(cmd *cobra.Command) (types.SubmitOrder, error) {
	flags := cmd.Flags()
	get := func(name string) string {
		v, _ := flags.GetString(name)
		return v
	}

	order := types.SubmitOrder{
		Symbol:        get("symbol"),
		Type:          types.OrderType(strings.ToLower(get("type"))),
		Side:          types.OrderSide(strings.ToLower(get("side"))),
		Amount:        types.Number(get("amount")),
		Price:         types.Number(get("price")),
		TriggerPrice:  types.Number(get("trigger-price")),
		TimeInForce:   types.TimeInForce(strings.ToUpper(get("time-in-force"))),
		ClientOrderID: get("client-order-id"),
	}
	order.PostOnly, _ = flags.GetBool("post-only")

	switch {
	case order.Symbol == "":
		return order, fmt.Errorf("--symbol is required")
	case order.Side != types.SideBuy && order.Side != types.SideSell:
		return order, fmt.Errorf("--side must be buy or sell")
	case !order.Amount.IsSet():
		return order, fmt.Errorf("--amount is required")
	case order.Type == types.OrderTypeLimit && !order.Price.IsSet():
		return order, fmt.Errorf("--price is required for limit orders")
	}
	return order, nil
}

// go run ./cmd/connector submit-order --exchange=probit --symbol=BTC/USDT --side=buy --amount=0.001 --price=20000
var submitOrderCmd = &cobra.Command{
	Use:   "submit-order --exchange=[exchange_name] --symbol=[symbol] --side=[side] --amount=[amount]",
	Short: "place an order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		order, err := submitOrderFromFlags(cmd)
		if err != nil {
			return err
		}

		trader, session, err := newTrader()
		if err != nil {
			return err
		}
		defer session.Close()

		created, err := trader.CreateOrder(ctx, order)
		if err != nil {
			return err
		}

		log.Infof("order created: %s", created.ID)
		return renderOrders("created order", []types.Order{*created})
	},
}

var editOrderCmd = &cobra.Command{
	Use:   "edit-order --exchange=[exchange_name] --id=[order_id] --symbol=[symbol] --side=[side] --amount=[amount]",
	Short: "replace an open order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, err := requiredString(cmd, "id")
		if err != nil {
			return err
		}

		order, err := submitOrderFromFlags(cmd)
		if err != nil {
			return err
		}

		trader, session, err := newTrader()
		if err != nil {
			return err
		}
		defer session.Close()

		edited, err := exchange.EditOrder(ctx, trader, id, order)
		if err != nil {
			return err
		}
		return renderOrders("edited order", []types.Order{*edited})
	},
}

var cancelOrderCmd = &cobra.Command{
	Use:   "cancel-order --exchange=[exchange_name] (--id=[order_id] | --all) [--symbol=[symbol]]",
	Short: "cancel orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id, _ := cmd.Flags().GetString("id")
		symbol, _ := cmd.Flags().GetString("symbol")
		all, _ := cmd.Flags().GetBool("all")
		if id == "" && !all {
			return fmt.Errorf("either --id or --all is required")
		}

		trader, session, err := newTrader()
		if err != nil {
			return err
		}
		defer session.Close()

		if all {
			service, ok := session.Exchange.(types.ExchangeCancelAllService)
			if !ok {
				return unsupported(session, "cancelAllOrders()")
			}

			orders, err := service.CancelAllOrders(ctx, symbol)
			if err != nil {
				return err
			}
			return renderOrders("canceled orders", orders)
		}

		canceled, err := trader.CancelOrder(ctx, id, symbol)
		if err != nil {
			return err
		}
		return renderOrders("canceled order", []types.Order{*canceled})
	},
}

func renderOrders(title string, orders []types.Order) error {
	if rendered, err := cmdutil.Render(os.Stdout, orders); rendered {
		return err
	}

	t := style.NewTable(os.Stdout, title,
		table.Row{"Time", "ID", "Symbol", "Type", "Side", "Price", "Amount", "Filled", "Status"}, 6, 7, 8)
	for _, o := range orders {
		t.AppendRow(table.Row{o.Datetime, o.ID, o.Symbol, o.Type, style.SideString(o.Side),
			o.Price, o.Amount, o.Filled, o.Status})
	}
	t.Render()
	return nil
}
