package installer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func skip() tea.Msg { return nextMsg{} }

// TelegramTokenStep collects the Telegram bot token
type TelegramTokenStep struct {
	input textinput.Model
	err   error
}

func NewTelegramTokenStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "123456789:ABCDEF..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'

	return &TelegramTokenStep{
		input: ti,
	}
}

func (s *TelegramTokenStep) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, skip)
}

func (s *TelegramTokenStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !state.telegram() {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			token := strings.TrimSpace(s.input.Value())
			if !strings.Contains(token, ":") {
				s.err = fmt.Errorf("a bot token looks like 123456789:ABCDEF")
				return s, nil
			}
			state.Env.TelegramToken = token
			return nil, nil
		}
	}
	return s, cmd
}

func (s *TelegramTokenStep) View(state *InstallState) string {
	out := "Enter your Telegram Bot Token:\n\n" + s.input.View() + "\n\n"
	if s.err != nil {
		out += errorStyle.Render(s.err.Error()) + "\n\n"
	}
	return out + "(press enter to confirm)\n"
}

// TelegramOwnerStep collects the Telegram owner ID
type TelegramOwnerStep struct {
	input textinput.Model
	err   error
}

func NewTelegramOwnerStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 20
	ti.Width = 40
	ti.Placeholder = "123456789"
	ti.EchoMode = textinput.EchoNormal

	return &TelegramOwnerStep{
		input: ti,
	}
}

func (s *TelegramOwnerStep) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, skip)
}

func (s *TelegramOwnerStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !state.telegram() {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			id, err := strconv.ParseInt(strings.TrimSpace(s.input.Value()), 10, 64)
			if err != nil || id <= 0 {
				s.err = fmt.Errorf("the owner id is your numeric Telegram user id")
				return s, nil
			}
			state.Env.TelegramOwnerID = id
			return nil, nil
		}
	}
	return s, cmd
}

func (s *TelegramOwnerStep) View(state *InstallState) string {
	out := "Enter your Telegram User ID (Owner):\n\n" + s.input.View() + "\n\n"
	if s.err != nil {
		out += errorStyle.Render(s.err.Error()) + "\n\n"
	}
	return out + "(press enter to confirm)\n"
}
