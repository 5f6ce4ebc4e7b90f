package main

import (
	"fmt"
	"strings"

	"github.com/sandevgo/dailyfacts/internal/service/ui"
	"github.com/sandevgo/dailyfacts/internal/transport/cli"
	"github.com/sandevgo/dailyfacts/pkg/conv"
	"github.com/spf13/cobra"
)

var showNext bool

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Print today's facts and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := newApp(ctx)
		defer a.close(ctx)

		line := "/today"
		if showNext {
			line = "/next"
		}

		out := strings.TrimRight(conv.MarkdownToText([]byte(cli.Exec(ctx, a.router, line))), "\n")
		title, rest, _ := strings.Cut(out, "\n")
		fmt.Fprintln(cmd.OutOrStdout(), ui.FactStyle.Render(title))
		if rest != "" {
			fmt.Fprintln(cmd.OutOrStdout(), rest)
		}
		return nil
	},
}

func init() {
	todayCmd.Flags().BoolVarP(&showNext, "next", "n", false, "show facts not seen yet today")
	rootCmd.AddCommand(todayCmd)
}
