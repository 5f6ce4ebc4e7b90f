package installer

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// SummaryStep shows the collected answers and waits for confirmation. Invalid answers
// block the save.
type SummaryStep struct {
	err error
}

func NewSummaryStep() Step {
	return &SummaryStep{}
}

func (s *SummaryStep) Init() tea.Cmd {
	return nil
}

func (s *SummaryStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	s.err = state.Validate()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" && s.err == nil {
			return nil, nil
		}
	}
	return s, nil
}

func (s *SummaryStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("Please review your configuration:\n\n")
	for _, line := range state.Summary() {
		b.WriteString(itemStyle.Render(line) + "\n")
	}
	b.WriteString("\n")

	if err := state.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			b.WriteString(errorStyle.Render(line) + "\n")
		}
		b.WriteString("\n(press ctrl+c to quit)\n")
		return b.String()
	}
	b.WriteString("(press enter to save, ctrl+c to quit)\n")
	return b.String()
}
