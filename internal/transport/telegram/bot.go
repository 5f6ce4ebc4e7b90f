package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot     *tele.Bot
	router  core.CmdRouter
	sender  *sender
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg core.TelegramConfig,
	router core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.GetTelegramToken(),
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		router:  router,
		sender:  newSender(b),
		ownerID: cfg.GetTelegramOwnerID(),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("starting telegram bot")

	if err := b.bot.SetCommands(b.commands()); err != nil {
		logger.Warn().Err(err).Msg("failed to register bot commands")
	}

	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) commands() []tele.Command {
	list := b.router.ListCommands()
	cmds := make([]tele.Command, 0, len(list))
	for _, c := range list {
		cmds = append(cmds, tele.Command{Text: c.Name(), Description: c.Description()})
	}
	return cmds
}

// keyboard is the persistent reply keyboard with the everyday commands.
func keyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text("/today"), menu.Text("/next")),
		menu.Row(menu.Text("/skip"), menu.Text("/swap"), menu.Text("/status")),
	)
	return menu
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)

	out, _ := b.router.Execute(ctx, sessionID(c), "/today")
	return b.sender.sendMarkdown(ctx, c.Recipient(), out, false, keyboard())
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	_ = c.Notify(tele.Typing)

	out, handled := b.router.Execute(ctx, sessionID(c), c.Text())
	if !handled {
		out = "I only understand commands. Send /help to see them."
	}

	if err := b.sender.sendMarkdown(ctx, c.Recipient(), out, false); err != nil {
		logger.Error().Err(err).Msg("failed to send telegram message")
		return err
	}
	return nil
}

// Notify sends a reminder to the owner's private chat.
func (b *Bot) Notify(ctx context.Context, r core.Reminder) error {
	return b.sender.sendMarkdown(ctx, &tele.User{ID: b.ownerID}, reminderText(r), false)
}

func sessionID(c tele.Context) string {
	return fmt.Sprintf("telegram-%d", c.Chat().ID)
}
