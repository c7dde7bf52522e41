package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/billmal071/booksearch/internal/config"
	"github.com/billmal071/booksearch/internal/logging"
	"github.com/billmal071/booksearch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve searches over HTTP",
	Long: `Run the search pipeline behind a small HTTP API.

Endpoints:
  GET /api/search?q=<query>   Search and return JSON
  GET /metrics                Prometheus metrics
  GET /healthz                Liveness check

Examples:
  booksearch serve
  booksearch serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = config.Get().Server.Addr
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		logging.For(ctx).WithField("addr", addr).Info("serving")
		fmt.Fprintf(os.Stderr, "Listening on %s\n", addr)

		if err := server.ListenAndServe(ctx, addr, server.New(newPipeline())); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
}
