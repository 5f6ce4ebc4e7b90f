package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep fills defaults the user was not asked about
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if state.Env.EnableCLI == "" && state.Env.EnableTelegram == "" {
		state.Env.EnableCLI = "true"
		state.Env.EnableTelegram = "false"
	}

	if !state.telegram() {
		state.Env.TelegramToken = ""
		state.Env.TelegramOwnerID = 0
	}

	if state.Env.StorageBackend == "" {
		state.Env.StorageBackend = "sqlite"
	}

	if state.Env.Debug == "" {
		state.Env.Debug = "0"
	}

	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}
