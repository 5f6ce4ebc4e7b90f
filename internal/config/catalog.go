package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/dailyfacts/pkg/log"
)

// CatalogConfig selects where content files come from. With neither set the embedded
// pack is used.
type CatalogConfig struct {
	ContentDir string `env:"FACTS_CONTENT_DIR"`
	ContentURL string `env:"FACTS_CONTENT_URL"`
}

func NewCatalogConfig(ctx context.Context) *CatalogConfig {
	c := &CatalogConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Catalog config")
	}
	return c
}

func (c CatalogConfig) GetContentDir() string {
	return c.ContentDir
}

func (c CatalogConfig) GetContentURL() string {
	return c.ContentURL
}
