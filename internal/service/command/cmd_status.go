package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/dailyfacts/internal/core"
)

type StatusCommand struct {
	session   Session
	settings  core.SettingsStore
	reminders Reminders
	formatter *ResponseFormatter
}

func NewStatusCommand(s Session, settings core.SettingsStore, reminders Reminders) *StatusCommand {
	return &StatusCommand{session: s, settings: settings, reminders: reminders, formatter: NewResponseFormatter()}
}

func (c *StatusCommand) Name() string {
	return "status"
}

func (c *StatusCommand) Description() string {
	return "Show settings and today's progress"
}

func (c *StatusCommand) Usage() string {
	return "/status"
}

func (c *StatusCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	st := c.settings.Get(ctx)
	v := c.session.View()

	topics := "all"
	if !st.AllTopicsEnabled() {
		topics = topicList(st.ActiveTopics())
	}

	sections := []string{
		c.formatter.Info("Status"),
		c.formatter.Label("Topics", topics),
		c.formatter.Label("Mode", modeName(st.OnePerTopic)),
		c.formatter.Label("Language", string(st.Language.OrDefault())),
		c.formatter.Label("Displayed", fmt.Sprintf("%d", len(v.Facts))),
		c.formatter.Label("Seen today", fmt.Sprintf("%d", len(st.ShownIDsFor(v.Date)))),
	}
	if v.Error != core.ErrorNone {
		sections = append(sections, c.formatter.Label("State", string(v.Error)))
	}
	if r, ok := c.reminders.Next(); ok {
		sections = append(sections, c.formatter.Label("Next reminder", r.At.Format("Mon 2 Jan 15:04")))
	} else {
		sections = append(sections, c.formatter.Label("Next reminder", "none"))
	}
	return c.formatter.Combine(sections...), nil
}

type HelpCommand struct {
	list      func() []core.Command
	formatter *ResponseFormatter
}

// NewHelpCommand lists whatever list returns at call time, so it can be given the router's
// ListCommands before the router exists.
func NewHelpCommand(list func() []core.Command) *HelpCommand {
	return &HelpCommand{list: list, formatter: NewResponseFormatter()}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List commands"
}

func (c *HelpCommand) Usage() string {
	return "/help"
}

func (c *HelpCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	items := []string{}
	for _, cmd := range c.list() {
		items = append(items, fmt.Sprintf("`%s`  %s", cmd.Usage(), cmd.Description()))
	}
	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		strings.TrimRight(c.formatter.List(items), "\n"),
	), nil
}
