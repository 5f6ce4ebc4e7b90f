package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	stepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

var ErrInterrupted = errors.New("dailyfacts installation interrupted")

// Step represents a single step in the installation wizard
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

func getSteps() []Step {
	return []Step{
		NewChannelStep(),
		NewTelegramTokenStep(),
		NewTelegramOwnerStep(),
		NewStorageStep(),
		NewTimezoneStep(),
		NewFinalizationStep(),
		NewSummaryStep(),
		NewSaveEnvStep(),
	}
}

type nextMsg struct{}

// model walks the steps in order. Steps that do not apply to the chosen channel skip
// themselves, so the progress line counts only the steps the user actually sees.
type model struct {
	steps       []Step
	currentStep int
	state       *InstallState
	quitting    bool
	err         error
	width       int
	height      int
}

func initialModel(runtimePath string) model {
	m := model{
		steps: getSteps(),
		state: NewInstallState(runtimePath),
	}

	// refuse up front instead of after every question
	if _, err := os.Stat(m.state.EnvPath()); err == nil {
		m.err = fmt.Errorf("%s already exists; remove it to configure again", m.state.EnvPath())
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.err != nil {
		return nil
	}
	return m.steps[0].Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.err != nil || m.done() {
		return m, tea.Quit
	}

	next, cmd := m.steps[m.currentStep].Update(msg, m.state, m.width, m.height)
	if next != nil {
		m.steps[m.currentStep] = next
		return m, cmd
	}

	m.currentStep++
	if m.done() {
		return m, tea.Quit
	}
	return m, m.steps[m.currentStep].Init()
}

func (m model) done() bool {
	return m.currentStep >= len(m.steps)
}

func (m model) View() string {
	if m.quitting {
		return "Installation cancelled.\n"
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(press any key to quit)\n"
	}

	if m.done() {
		return "Configuration saved to " + m.state.EnvPath() + "\n\n" +
			strings.Join(m.state.Summary(), "\n") + "\n\n" +
			"Run 'facts start' to get today's facts.\n"
	}

	header := titleStyle.Render("Setting up DailyFacts 📅") + "  " +
		stepStyle.Render(fmt.Sprintf("step %d of %d · %s", m.currentStep+1, len(m.steps), m.state.RuntimePath))
	return header + "\n\n" + m.steps[m.currentStep].View(m.state)
}

// RunWizard starts the TUI and writes <runtimePath>/.env when the user confirms.
func RunWizard(runtimePath string) (*InstallState, error) {
	p := tea.NewProgram(initialModel(runtimePath), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	final := m.(model)
	switch {
	case final.quitting:
		return nil, ErrInterrupted
	case final.err != nil:
		return nil, final.err
	case !final.done():
		return nil, ErrInterrupted
	}
	return final.state, nil
}

func envPath(runtimePath string) string {
	return filepath.Join(runtimePath, ".env")
}
