package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/pkg/conv"
	"github.com/sandevgo/dailyfacts/pkg/log"
)

const defaultSessionID = "cli-local"

type ReadLine struct {
	router core.CmdRouter
	rl     *readline.Instance
}

func NewReadLine(router core.CmdRouter, cfg core.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.GetRuntimePath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "facts> ",
		HistoryFile:     filepath.Join(cfg.GetRuntimePath(), "input_history"),
		AutoComplete:    completer(router),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		router: router,
		rl:     rl,
	}, nil
}

func completer(router core.CmdRouter) *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0)
	for _, c := range router.ListCommands() {
		items = append(items, readline.PcItem("/"+c.Name()))
	}
	return readline.NewPrefixCompleter(items...)
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("ReadLine chat started. Type 'exit' to quit.")

	r.print(r.exec(ctx, "/today"))

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			return nil
		}
		if line == "" {
			continue
		}

		r.print(r.exec(ctx, line))
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

// Notify prints a reminder above the prompt.
func (r *ReadLine) Notify(ctx context.Context, rem core.Reminder) error {
	md := fmt.Sprintf("🔔 **%s**\n%s", conv.EscapeMarkdown(rem.Fact.Title), conv.EscapeMarkdown(rem.Fact.Description))
	r.print(md)
	return nil
}

func (r *ReadLine) exec(ctx context.Context, line string) string {
	return Exec(ctx, r.router, line)
}

func (r *ReadLine) print(md string) {
	fmt.Fprintf(r.rl.Stdout(), "%s\n", strings.TrimRight(conv.MarkdownToText([]byte(md)), "\n"))
}

// Exec runs one line against the router. The leading slash is optional in a terminal.
func Exec(ctx context.Context, router core.CmdRouter, line string) string {
	if !strings.HasPrefix(line, "/") {
		line = "/" + line
	}
	out, _ := router.Execute(ctx, defaultSessionID, line)
	return out
}
