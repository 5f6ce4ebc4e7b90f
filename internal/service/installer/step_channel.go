package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	ChannelTerminal = "Terminal"
	ChannelTelegram = "Telegram"
	ChannelBoth     = "Terminal + Telegram"
)

// choiceStep is a vertical menu; onSelect stores the picked choice into state.
type choiceStep struct {
	title    string
	choices  []string
	cursor   int
	onSelect func(state *InstallState, choice string)
}

func (s *choiceStep) Init() tea.Cmd {
	return nil
}

func (s *choiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			s.onSelect(state, s.choices[s.cursor])
			return nil, nil
		}
	}
	return s, nil
}

func (s *choiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, choice := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", choice)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", choice)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}

// NewChannelStep picks where facts and reminders are delivered.
func NewChannelStep() Step {
	return &choiceStep{
		title:   "Where should your daily facts arrive?",
		choices: []string{ChannelTerminal, ChannelTelegram, ChannelBoth},
		onSelect: func(state *InstallState, choice string) {
			state.Channel = choice
			state.Env.EnableCLI = fmt.Sprint(choice != ChannelTelegram)
			state.Env.EnableTelegram = fmt.Sprint(choice != ChannelTerminal)
		},
	}
}

// NewStorageStep picks the session state backend.
func NewStorageStep() Step {
	return &choiceStep{
		title:   "Where should today's session be stored?",
		choices: []string{"sqlite", "file"},
		onSelect: func(state *InstallState, choice string) {
			state.Env.StorageBackend = choice
		},
	}
}
