package core

import "time"

type AppConfig interface {
	GetRuntimePath() string
	GetDatabasePath() string
	GetStatePath() string
	GetStorageBackend() string
	GetLocation() *time.Location
	IsTelegramSelected() bool
	IsCLISelected() bool
}

type CatalogConfig interface {
	GetContentDir() string
	GetContentURL() string
}

type TelegramConfig interface {
	GetTelegramToken() string
	GetTelegramOwnerID() int64
}

type ReminderConfig interface {
	GetDeliveryTimeout() time.Duration
	GetDeliveryAttempts() int
}
