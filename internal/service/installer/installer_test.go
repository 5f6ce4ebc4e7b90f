package installer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestChannelStep(t *testing.T) {
	tests := []struct {
		downs        int
		channel      string
		cli, telegram string
	}{
		{downs: 0, channel: ChannelTerminal, cli: "true", telegram: "false"},
		{downs: 1, channel: ChannelTelegram, cli: "false", telegram: "true"},
		{downs: 2, channel: ChannelBoth, cli: "true", telegram: "true"},
		{downs: 5, channel: ChannelBoth, cli: "true", telegram: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.channel, func(t *testing.T) {
			state := NewInstallState("")
			step := NewChannelStep()
			for i := 0; i < tt.downs; i++ {
				next, _ := step.Update(down, state, 80, 24)
				require.NotNil(t, next)
			}

			next, _ := step.Update(enter, state, 80, 24)
			assert.Nil(t, next)
			assert.Equal(t, tt.channel, state.Channel)
			assert.Equal(t, tt.cli, state.Env.EnableCLI)
			assert.Equal(t, tt.telegram, state.Env.EnableTelegram)
		})
	}
}

func TestTelegramStepsSkipWithoutTelegram(t *testing.T) {
	state := NewInstallState("")
	state.Env.EnableTelegram = "false"

	next, _ := NewTelegramTokenStep().Update(nextMsg{}, state, 80, 24)
	assert.Nil(t, next)

	next, _ = NewTelegramOwnerStep().Update(nextMsg{}, state, 80, 24)
	assert.Nil(t, next)
}

func TestTelegramTokenStep(t *testing.T) {
	state := NewInstallState("")
	state.Env.EnableTelegram = "true"
	step := NewTelegramTokenStep()

	step, _ = step.Update(typeText("nonsense"), state, 80, 24)
	step, _ = step.Update(enter, state, 80, 24)
	require.NotNil(t, step)
	assert.Contains(t, step.View(state), "123456789:ABCDEF")
	assert.Empty(t, state.Env.TelegramToken)

	step = NewTelegramTokenStep()
	step, _ = step.Update(typeText("42:secret"), state, 80, 24)
	next, _ := step.Update(enter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, "42:secret", state.Env.TelegramToken)
}

func TestTelegramOwnerStep(t *testing.T) {
	state := NewInstallState("")
	state.Env.EnableTelegram = "true"

	step := NewTelegramOwnerStep()
	step, _ = step.Update(typeText("me"), state, 80, 24)
	step, _ = step.Update(enter, state, 80, 24)
	require.NotNil(t, step)
	assert.Contains(t, step.View(state), "numeric Telegram user id")

	step = NewTelegramOwnerStep()
	step, _ = step.Update(typeText("123456"), state, 80, 24)
	next, _ := step.Update(enter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, int64(123456), state.Env.TelegramOwnerID)
}

func TestTimezoneStep(t *testing.T) {
	t.Run("empty keeps local", func(t *testing.T) {
		state := NewInstallState("")
		next, _ := NewTimezoneStep().Update(enter, state, 80, 24)
		assert.Nil(t, next)
		assert.Empty(t, state.Env.Timezone)
	})

	t.Run("unknown zone", func(t *testing.T) {
		state := NewInstallState("")
		step := NewTimezoneStep()
		step, _ = step.Update(typeText("Mars/Base"), state, 80, 24)
		step, _ = step.Update(enter, state, 80, 24)
		require.NotNil(t, step)
		assert.Contains(t, step.View(state), `unknown timezone "Mars/Base"`)
	})

	t.Run("valid zone", func(t *testing.T) {
		state := NewInstallState("")
		step := NewTimezoneStep()
		step, _ = step.Update(typeText("UTC"), state, 80, 24)
		next, _ := step.Update(enter, state, 80, 24)
		assert.Nil(t, next)
		assert.Equal(t, "UTC", state.Env.Timezone)
	})
}

func TestFinalizationStep(t *testing.T) {
	state := NewInstallState("")
	state.Env.EnableCLI = "true"
	state.Env.EnableTelegram = "false"
	state.Env.TelegramToken = "stale:token"

	next, _ := NewFinalizationStep().Update(nextMsg{}, state, 80, 24)
	assert.Nil(t, next)
	assert.Empty(t, state.Env.TelegramToken)
	assert.Equal(t, "sqlite", state.Env.StorageBackend)
	assert.Equal(t, "0", state.Env.Debug)
}

func TestSaveEnv(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runtime")
	state := NewInstallState("")
	state.Env = EnvFile{
		StorageBackend:  "file",
		EnableCLI:       "false",
		EnableTelegram:  "true",
		TelegramToken:   "42:secret",
		TelegramOwnerID: 7,
		Debug:           "0",
	}

	require.NoError(t, SaveEnv(dir, state))

	data, err := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "FACTS_STORAGE=file\n"+
		"FACTS_ENABLE_CLI=false\n"+
		"FACTS_ENABLE_TELEGRAM=true\n"+
		"FACTS_TELEGRAM_TOKEN=42:secret\n"+
		"FACTS_TELEGRAM_OWNER_ID=7\n"+
		"FACTS_DEBUG=0\n", string(data))

	err = SaveEnv(dir, state)
	assert.ErrorContains(t, err, "already exists")
}

func TestWizardTerminalOnly(t *testing.T) {
	dir := t.TempDir()

	var m tea.Model = initialModel(dir)
	send := func(msg tea.Msg) {
		m, _ = m.Update(msg)
	}

	send(enter)     // channel: Terminal
	send(nextMsg{}) // token skipped
	send(nextMsg{}) // owner skipped
	send(down)
	send(enter)     // storage: file
	send(enter)     // timezone: local
	send(nextMsg{}) // finalization
	send(enter)     // summary
	send(nextMsg{}) // save

	final := m.(model)
	assert.Equal(t, len(final.steps), final.currentStep)
	assert.Equal(t, "file", final.state.Env.StorageBackend)

	data, err := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "FACTS_ENABLE_CLI=true")
	assert.Contains(t, string(data), "FACTS_ENABLE_TELEGRAM=false")
	assert.NotContains(t, string(data), "FACTS_TELEGRAM_TOKEN")
}

func TestWizardRefusesExistingEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FACTS_STORAGE=file\n"), 0600))

	m := initialModel(dir)
	require.Error(t, m.err)
	assert.Nil(t, m.Init())
	assert.Contains(t, m.View(), "already exists")

	next, _ := m.Update(enter)
	assert.Equal(t, 0, next.(model).currentStep)
}

func TestWizardViewShowsProgress(t *testing.T) {
	dir := t.TempDir()
	m := initialModel(dir)

	view := m.View()
	assert.Contains(t, view, "step 1 of 8")
	assert.Contains(t, view, dir)
}

func TestInstallStateValidate(t *testing.T) {
	valid := func() *InstallState {
		state := NewInstallState("/tmp/facts")
		state.Env = EnvFile{
			StorageBackend:  "sqlite",
			Timezone:        "Europe/Berlin",
			EnableCLI:       "true",
			EnableTelegram:  "true",
			TelegramToken:   "42:secret",
			TelegramOwnerID: 7,
		}
		return state
	}

	tests := []struct {
		name   string
		mutate func(*InstallState)
		errMsg string
	}{
		{name: "valid", mutate: func(*InstallState) {}},
		{name: "no channel", mutate: func(s *InstallState) {
			s.Env.EnableCLI, s.Env.EnableTelegram = "false", "false"
		}, errMsg: "no channel selected"},
		{name: "telegram without token", mutate: func(s *InstallState) {
			s.Env.TelegramToken = ""
		}, errMsg: "bot token"},
		{name: "telegram without owner", mutate: func(s *InstallState) {
			s.Env.TelegramOwnerID = 0
		}, errMsg: "owner id"},
		{name: "terminal ignores telegram fields", mutate: func(s *InstallState) {
			s.Env.EnableTelegram = "false"
			s.Env.TelegramToken = ""
			s.Env.TelegramOwnerID = 0
		}},
		{name: "unknown storage", mutate: func(s *InstallState) {
			s.Env.StorageBackend = "redis"
		}, errMsg: `unknown storage "redis"`},
		{name: "unknown timezone", mutate: func(s *InstallState) {
			s.Env.Timezone = "Mars/Olympus"
		}, errMsg: `unknown timezone "Mars/Olympus"`},
		{name: "empty timezone means local", mutate: func(s *InstallState) {
			s.Env.Timezone = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := valid()
			tt.mutate(state)

			err := state.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestInstallStateSummary(t *testing.T) {
	state := NewInstallState("/tmp/facts")
	state.Channel = ChannelBoth
	state.Env = EnvFile{
		StorageBackend:  "file",
		EnableCLI:       "true",
		EnableTelegram:  "true",
		TelegramToken:   "42:supersecretvalue",
		TelegramOwnerID: 7,
	}

	summary := strings.Join(state.Summary(), "\n")
	assert.Contains(t, summary, "Channel:  "+ChannelBoth)
	assert.Contains(t, summary, filepath.Join("/tmp/facts", "state.json"))
	assert.Contains(t, summary, "Timezone: local time")
	assert.Contains(t, summary, "Token:    42:••••••••")
	assert.NotContains(t, summary, "supersecretvalue")

	state.Env.EnableTelegram = "false"
	assert.NotContains(t, strings.Join(state.Summary(), "\n"), "Token")
}

func TestSummaryStepBlocksInvalidState(t *testing.T) {
	state := NewInstallState(t.TempDir())
	state.Channel = ChannelTelegram
	state.Env = EnvFile{StorageBackend: "sqlite", EnableCLI: "false", EnableTelegram: "true"}

	step := NewSummaryStep()
	next, _ := step.Update(enter, state, 80, 24)
	require.NotNil(t, next)
	assert.Contains(t, next.View(state), "Telegram needs a bot token")

	state.Env.TelegramToken = "42:secret"
	state.Env.TelegramOwnerID = 7
	next, _ = next.Update(enter, state, 80, 24)
	assert.Nil(t, next)
}
