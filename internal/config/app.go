package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/dailyfacts/pkg/log"
)

const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

type AppConfig struct {
	RuntimePath string `env:"FACTS_RUNTIME_PATH" envDefault:".dailyfacts"`

	// Session state persistence: "sqlite" or "file"
	StorageBackend string `env:"FACTS_STORAGE" envDefault:"sqlite"`

	// IANA zone used to decide what "today" is
	Timezone string `env:"FACTS_TIMEZONE" envDefault:"Local"`

	// Transport Flags
	EnableTelegram bool `env:"FACTS_ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"FACTS_ENABLE_CLI" envDefault:"true"`

	location *time.Location
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("tz", c.Timezone).Msg("unknown timezone, falling back to local")
		loc = time.Local
	}
	c.location = loc
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "dailyfacts.db")
}

func (c AppConfig) GetStatePath() string {
	return filepath.Join(c.RuntimePath, "state.json")
}

func (c AppConfig) GetStorageBackend() string {
	return c.StorageBackend
}

func (c AppConfig) GetLocation() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

func (c AppConfig) IsCLISelected() bool {
	return c.EnableCLI
}
