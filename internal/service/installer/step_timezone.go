package installer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TimezoneStep collects the IANA zone that decides when a new day starts.
// An empty answer keeps the machine's local zone.
type TimezoneStep struct {
	input textinput.Model
	err   error
}

func NewTimezoneStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40
	ti.Placeholder = "Europe/Berlin"

	return &TimezoneStep{input: ti}
}

func (s *TimezoneStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *TimezoneStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			tz := strings.TrimSpace(s.input.Value())
			if tz == "" {
				return nil, nil
			}
			if _, err := time.LoadLocation(tz); err != nil {
				s.err = fmt.Errorf("unknown timezone %q", tz)
				return s, nil
			}
			state.Env.Timezone = tz
			return nil, nil
		}
	}
	return s, cmd
}

func (s *TimezoneStep) View(state *InstallState) string {
	out := "Enter your timezone (leave empty for local time):\n\n" + s.input.View() + "\n\n"
	if s.err != nil {
		out += errorStyle.Render(s.err.Error()) + "\n\n"
	}
	return out + "(press enter to confirm)\n"
}
