package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/dailyfacts/pkg/log"
)

type ReminderConfig struct {
	// Upper bound for one delivery including retries
	Timeout time.Duration `env:"FACTS_REMINDER_TIMEOUT" envDefault:"30s"`
	// Attempts per delivery before it is dropped
	Attempts int `env:"FACTS_REMINDER_ATTEMPTS" envDefault:"3"`
}

func NewReminderConfig(ctx context.Context) *ReminderConfig {
	c := &ReminderConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Reminder config")
	}
	if c.Attempts < 1 {
		c.Attempts = 1
	}
	return c
}

func (c ReminderConfig) GetDeliveryTimeout() time.Duration {
	return c.Timeout
}

func (c ReminderConfig) GetDeliveryAttempts() int {
	return c.Attempts
}
