package installer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// EnvFile is rendered into <runtime>/.env with pkg/env.MarshalEnv.
// Flags are strings so an explicit "false" survives marshalling.
type EnvFile struct {
	StorageBackend  string `env:"FACTS_STORAGE"`
	Timezone        string `env:"FACTS_TIMEZONE"`
	EnableCLI       string `env:"FACTS_ENABLE_CLI"`
	EnableTelegram  string `env:"FACTS_ENABLE_TELEGRAM"`
	TelegramToken   string `env:"FACTS_TELEGRAM_TOKEN"`
	TelegramOwnerID int64  `env:"FACTS_TELEGRAM_OWNER_ID"`
	Debug           string `env:"FACTS_DEBUG"`
}

type InstallState struct {
	RuntimePath string
	Channel     string
	Env         EnvFile
}

func NewInstallState(runtimePath string) *InstallState {
	return &InstallState{RuntimePath: runtimePath}
}

func (s *InstallState) EnvPath() string {
	return envPath(s.RuntimePath)
}

func (s *InstallState) telegram() bool {
	return s.Env.EnableTelegram == "true"
}

// Validate checks the collected answers before anything is written.
func (s *InstallState) Validate() error {
	var errs []error

	if s.Env.EnableCLI != "true" && !s.telegram() {
		errs = append(errs, errors.New("no channel selected"))
	}
	if s.telegram() {
		if s.Env.TelegramToken == "" {
			errs = append(errs, errors.New("Telegram needs a bot token"))
		}
		if s.Env.TelegramOwnerID <= 0 {
			errs = append(errs, errors.New("Telegram needs the owner id"))
		}
	}
	switch s.Env.StorageBackend {
	case "sqlite", "file":
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q", s.Env.StorageBackend))
	}
	if s.Env.Timezone != "" {
		if _, err := time.LoadLocation(s.Env.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("unknown timezone %q", s.Env.Timezone))
		}
	}
	return errors.Join(errs...)
}

// Summary lists the answers as "label: value" lines with the token masked.
func (s *InstallState) Summary() []string {
	storage := s.Env.StorageBackend
	switch storage {
	case "sqlite":
		storage += " (" + filepath.Join(s.RuntimePath, "dailyfacts.db") + ")"
	case "file":
		storage += " (" + filepath.Join(s.RuntimePath, "state.json") + ")"
	}

	tz := s.Env.Timezone
	if tz == "" {
		tz = "local time"
	}

	lines := []string{
		"Channel:  " + s.Channel,
		"Storage:  " + storage,
		"Timezone: " + tz,
	}
	if s.telegram() {
		lines = append(lines,
			"Owner:    "+fmt.Sprint(s.Env.TelegramOwnerID),
			"Token:    "+maskToken(s.Env.TelegramToken),
		)
	}
	return lines
}

// maskToken keeps the bot id before ":" and hides the secret.
func maskToken(token string) string {
	id, secret, ok := strings.Cut(token, ":")
	if !ok {
		return strings.Repeat("•", len(token))
	}
	return id + ":" + strings.Repeat("•", min(len(secret), 8))
}
