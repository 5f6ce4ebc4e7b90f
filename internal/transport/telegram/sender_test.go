package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type sent struct {
	to   tele.Recipient
	text string
	opts []interface{}
}

type fakeAPI struct {
	sent []sent
	err  error
}

func (f *fakeAPI) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, sent{to: to, text: what.(string), opts: opts})
	return &tele.Message{}, nil
}

func TestSplitHTML(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   int
	}{
		{name: "short", text: "hello", maxLen: 10, want: 1},
		{name: "exact", text: strings.Repeat("a", 10), maxLen: 10, want: 1},
		{name: "hard_cut", text: strings.Repeat("a", 25), maxLen: 10, want: 3},
		{name: "newline_cut", text: "aaaaaaa\nbbbbbbb\nccc", maxLen: 10, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := splitHTML(tt.text, tt.maxLen)
			assert.Len(t, chunks, tt.want)
			for _, c := range chunks {
				assert.LessOrEqual(t, len(c), tt.maxLen)
			}
		})
	}
}

func TestSender_SendMarkdown(t *testing.T) {
	api := &fakeAPI{}
	s := newSender(api)
	to := &tele.User{ID: 42}
	menu := keyboard()

	err := s.sendMarkdown(context.Background(), to, "**bold** text", true, menu)
	require.NoError(t, err)

	require.Len(t, api.sent, 1)
	assert.Equal(t, "<strong>bold</strong> text", strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(api.sent[0].text, "<p>"), "</p>")))
	assert.Contains(t, api.sent[0].opts, tele.ModeHTML)
	assert.Contains(t, api.sent[0].opts, tele.Silent)
	assert.Contains(t, api.sent[0].opts, menu)
}

func TestSender_Errors(t *testing.T) {
	api := &fakeAPI{err: errors.New("blocked by user")}
	s := newSender(api)

	assert.Error(t, s.sendMarkdown(context.Background(), &tele.User{ID: 1}, "hi", false))
	assert.NoError(t, s.sendMarkdown(context.Background(), &tele.User{ID: 1}, "   ", false), "nothing to send")
}

func TestReminderText(t *testing.T) {
	text := reminderText(core.Reminder{Fact: core.Fact{
		ID:          "science-1019-1",
		Title:       "A_b",
		Description: "x < y",
		Topic:       core.TopicScience,
	}})

	assert.Contains(t, text, `**A\_b**`)
	assert.Contains(t, text, "x &lt; y")
	assert.Contains(t, text, "/today")
}
