package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/dailyfacts/internal/config"
	"github.com/sandevgo/dailyfacts/internal/transport/mcp"
	"github.com/sandevgo/dailyfacts/pkg/log"
	"github.com/sandevgo/dailyfacts/pkg/srv"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve today's facts as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// stdout belongs to the protocol
		var flushLog func()
		ctx, flushLog = log.NewContextWithWriter(ctx, os.Stderr, debug || config.IsDebug())
		defer flushLog()

		a := newApp(ctx)
		services := a.coreServices()
		srv.StartServices(ctx, services)

		err := mcp.NewServer(a.engine, a.store).Start(ctx)
		stop()
		srv.ShutdownServices(ctx, services)
		return err
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
