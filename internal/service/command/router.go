package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/internal/service/reminder"
	"github.com/sandevgo/dailyfacts/internal/service/session"
)

var _ core.CmdRouter = (*Router)(nil)

type Router struct {
	commands  map[string]core.Command
	formatter *ResponseFormatter
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands:  make(map[string]core.Command),
		formatter: NewResponseFormatter(),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	return c
}

func (c *Router) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	// Telegram appends the bot name in groups: /today@factsbot
	name, _, _ = strings.Cut(name, "@")
	name = strings.ToLower(name)
	args := parts[1:]

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s\nSend /help to see what is available.", name), true
	}

	result, err := cmd.Execute(ctx, sessionID, args)
	if err != nil {
		var usage *UsageError
		if errors.As(err, &usage) {
			return c.formatter.Combine(
				c.formatter.Error(name, err),
				c.formatter.Usage(cmd.Usage()),
			), true
		}
		return c.formatter.Error(name, err), true
	}
	return result, true
}

// ListCommands returns the commands ordered by name.
func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name() < res[j].Name()
	})
	return res
}

// UsageError reports malformed command arguments.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string {
	return e.msg
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

// Session is the part of the session engine that commands drive.
type Session interface {
	View() session.View
	Resume(ctx context.Context) session.View
	Refresh(ctx context.Context) session.View
	Discard(ctx context.Context, idx int, opts ...session.SwipeOption) (session.View, error)
	Replace(ctx context.Context, idx int, opts ...session.SwipeOption) (session.View, error)
	ApplySettings(ctx context.Context, mutate func(*core.SessionState)) (session.View, error)
	ClearHistory(ctx context.Context) (session.View, error)
}

// Reminders exposes the reminder scheduler to commands.
type Reminders interface {
	Next() (core.Reminder, bool)
	SendNow(ctx context.Context, fact *core.Fact) error
}

var (
	_ Session   = (*session.Engine)(nil)
	_ Reminders = (*reminder.Scheduler)(nil)
)
