package command

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sandevgo/dailyfacts/internal/core"
)

type TopicsCommand struct {
	session   Session
	settings  core.SettingsStore
	formatter *ResponseFormatter
}

func NewTopicsCommand(s Session, settings core.SettingsStore) *TopicsCommand {
	return &TopicsCommand{session: s, settings: settings, formatter: NewResponseFormatter()}
}

func (c *TopicsCommand) Name() string {
	return "topics"
}

func (c *TopicsCommand) Description() string {
	return "Show or choose the topics facts are drawn from"
}

func (c *TopicsCommand) Usage() string {
	return "/topics [all | topic ...]"
}

func (c *TopicsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		st := c.settings.Get(ctx)
		active := st.ActiveTopics()
		items := make([]string, len(core.AllTopics))
		for i, t := range core.AllTopics {
			mark := "⬜"
			if slices.Contains(active, t) {
				mark = "✅"
			}
			items[i] = fmt.Sprintf("%s `%s`", mark, t)
		}
		return c.formatter.Combine(
			c.formatter.Info("Topics"),
			c.formatter.List(items),
			c.formatter.Usage(c.Usage()),
			c.formatter.Examples([]string{"/topics all", "/topics science music"}),
		), nil
	}

	var selected []core.TopicKey
	if len(args) == 1 && strings.EqualFold(args[0], "all") {
		selected = slices.Clone(core.AllTopics)
	} else {
		for _, arg := range args {
			for _, name := range strings.Split(arg, ",") {
				t := core.TopicKey(strings.ToLower(strings.TrimSpace(name)))
				if t == "" {
					continue
				}
				if !t.Valid() {
					return "", usageErrorf("unknown topic %q", name)
				}
				if !slices.Contains(selected, t) {
					selected = append(selected, t)
				}
			}
		}
	}

	v, err := c.session.ApplySettings(ctx, func(st *core.SessionState) {
		st.SelectedTopics = selected
	})
	if err != nil {
		return "", err
	}
	return c.formatter.Combine(
		c.formatter.Success(fmt.Sprintf("Topics set to %s", topicList(selected))),
		c.formatter.View(v),
	), nil
}

func topicList(topics []core.TopicKey) string {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

type ModeCommand struct {
	session   Session
	settings  core.SettingsStore
	formatter *ResponseFormatter
}

func NewModeCommand(s Session, settings core.SettingsStore) *ModeCommand {
	return &ModeCommand{session: s, settings: settings, formatter: NewResponseFormatter()}
}

func (c *ModeCommand) Name() string {
	return "mode"
}

func (c *ModeCommand) Description() string {
	return "Show one fact a day or one per topic"
}

func (c *ModeCommand) Usage() string {
	return "/mode [single | per-topic]"
}

func (c *ModeCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Mode"),
			c.formatter.Label("Current", modeName(c.settings.Get(ctx).OnePerTopic)),
			c.formatter.Usage(c.Usage()),
		), nil
	}

	var onePerTopic bool
	switch strings.ToLower(args[0]) {
	case "single", "one":
		onePerTopic = false
	case "per-topic", "topic", "multi":
		onePerTopic = true
	default:
		return "", usageErrorf("unknown mode %q", args[0])
	}

	v, err := c.session.ApplySettings(ctx, func(st *core.SessionState) {
		st.OnePerTopic = onePerTopic
	})
	if err != nil {
		return "", err
	}
	return c.formatter.Combine(
		c.formatter.Success("Mode set to "+modeName(onePerTopic)),
		c.formatter.View(v),
	), nil
}

func modeName(onePerTopic bool) string {
	if onePerTopic {
		return "per-topic"
	}
	return "single"
}

type LangCommand struct {
	session   Session
	settings  core.SettingsStore
	formatter *ResponseFormatter
}

func NewLangCommand(s Session, settings core.SettingsStore) *LangCommand {
	return &LangCommand{session: s, settings: settings, formatter: NewResponseFormatter()}
}

func (c *LangCommand) Name() string {
	return "lang"
}

func (c *LangCommand) Description() string {
	return "Show or change the content language"
}

func (c *LangCommand) Usage() string {
	return "/lang [en | de | uk | hu]"
}

func (c *LangCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Language"),
			c.formatter.Label("Current", string(c.settings.Get(ctx).Language.OrDefault())),
			c.formatter.Usage(c.Usage()),
		), nil
	}

	lang := core.Language(strings.ToLower(args[0]))
	if !lang.Valid() {
		return "", usageErrorf("unsupported language %q", args[0])
	}

	v, err := c.session.ApplySettings(ctx, func(st *core.SessionState) {
		st.Language = lang
	})
	if err != nil {
		return "", err
	}
	return c.formatter.Combine(
		c.formatter.Success(fmt.Sprintf("Language set to `%s`", lang)),
		c.formatter.View(v),
	), nil
}

type ClearCommand struct {
	session   Session
	formatter *ResponseFormatter
}

func NewClearCommand(s Session) *ClearCommand {
	return &ClearCommand{session: s, formatter: NewResponseFormatter()}
}

func (c *ClearCommand) Name() string {
	return "clear"
}

func (c *ClearCommand) Description() string {
	return "Forget which facts you have seen today"
}

func (c *ClearCommand) Usage() string {
	return "/clear"
}

func (c *ClearCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	v, err := c.session.ClearHistory(ctx)
	if err != nil {
		return "", err
	}
	return c.formatter.Combine(
		c.formatter.Success("History cleared"),
		c.formatter.View(v),
	), nil
}
