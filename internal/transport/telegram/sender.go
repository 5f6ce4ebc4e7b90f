package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/pkg/conv"
	"github.com/sandevgo/dailyfacts/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

// messageSender is the subset of *tele.Bot the sender needs.
type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type sender struct {
	bot messageSender
}

func newSender(bot messageSender) *sender {
	return &sender{bot: bot}
}

// sendMarkdown converts Markdown to Telegram HTML and sends it in chunks if needed.
// extra options (keyboards) go with the last chunk.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string, silent bool, extra ...interface{}) error {
	logger := log.FromCtx(ctx)
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))
	if html == "" {
		return nil
	}

	chunks := splitHTML(html, maxTelegramMsgLen)
	for i, chunk := range chunks {
		opts := []interface{}{tele.ModeHTML}
		if silent && i == 0 {
			opts = append(opts, tele.Silent)
		}
		if i == len(chunks)-1 {
			opts = append(opts, extra...)
		}

		if _, err := s.bot.Send(to, chunk, opts...); err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// splitHTML splits text into chunks respecting Telegram's limit.
// It tries to split at newlines to preserve formatting.
func splitHTML(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		// Try to find a good break point (newline) in the second half of the chunk
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}

func reminderText(r core.Reminder) string {
	return fmt.Sprintf("🔔 **Your fact for today**\n\n**%s**  _%s_\n%s\n\nSend /today for the rest.",
		conv.EscapeMarkdown(r.Fact.Title),
		conv.EscapeMarkdown(string(r.Fact.Topic)),
		conv.EscapeMarkdown(r.Fact.Description),
	)
}
