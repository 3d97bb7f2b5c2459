package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c9s/connectors/pkg/cmd/cmdutil"
	"github.com/c9s/connectors/pkg/server"
	"github.com/c9s/connectors/pkg/types"
)

func init() {
	serveCmd.Flags().String("listen", ":8080", "listen address")
	RootCmd.AddCommand(serveCmd)
}

// go run ./cmd/connector serve --listen=:8080
var serveCmd = &cobra.Command{
	Use:   "serve [--listen=:8080]",
	Short: "run the read-only market data gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		listen, err := cmd.Flags().GetString("listen")
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		srv := server.New()
		srv.NewExchange = func(name types.ExchangeName) (types.Exchange, error) {
			session, err := cmdutil.NewSessionFor(name, true)
			if err != nil {
				return nil, err
			}
			return session.Exchange.(types.Exchange), nil
		}

		return srv.Run(ctx, listen)
	},
}
