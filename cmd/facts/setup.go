package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/dailyfacts/assets"
	"github.com/sandevgo/dailyfacts/internal/config"
	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/internal/providers/catalog"
	"github.com/sandevgo/dailyfacts/internal/service/command"
	"github.com/sandevgo/dailyfacts/internal/service/reminder"
	"github.com/sandevgo/dailyfacts/internal/service/session"
	"github.com/sandevgo/dailyfacts/internal/service/settings"
	"github.com/sandevgo/dailyfacts/internal/storage/file"
	"github.com/sandevgo/dailyfacts/internal/storage/sqlite"
	"github.com/sandevgo/dailyfacts/internal/transport/cli"
	"github.com/sandevgo/dailyfacts/internal/transport/telegram"
	"github.com/sandevgo/dailyfacts/pkg/log"
	"github.com/sandevgo/dailyfacts/pkg/retry"
	"github.com/sandevgo/dailyfacts/pkg/srv"
)

// app holds the wiring shared by every command.
type app struct {
	cfg       *config.AppConfig
	store     *settings.Store
	engine    *session.Engine
	scheduler *reminder.Scheduler
	router    *command.Router
	notifiers *reminder.Notifiers
	cleanups  []srv.Service
}

func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	catalogCfg := config.NewCatalogConfig(ctx)
	reminderCfg := config.NewReminderConfig(ctx)

	// 2. Storage
	repo, cleanups, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	store := settings.NewStore(repo)

	// 3. Catalog
	source, err := initSource(ctx, catalogCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize content source")
	}

	// 4. Reminders; transports join the fan-out once they exist
	notifiers := &reminder.Notifiers{reminder.LogNotifier{}}
	retryCfg := retry.NewDefaultConfig()
	retryCfg.MaxRetries = reminderCfg.GetDeliveryAttempts() - 1
	scheduler := reminder.NewScheduler(notifiers, retry.NewRetrier(retryCfg))
	scheduler.Location = appCfg.GetLocation()
	scheduler.DeliveryTimeout = reminderCfg.GetDeliveryTimeout()

	// 5. Session engine
	engine := session.NewEngine(store, catalog.New(source), scheduler)
	engine.Location = appCfg.GetLocation()

	return &app{
		cfg:       appCfg,
		store:     store,
		engine:    engine,
		scheduler: scheduler,
		router:    command.NewRouter(engine, store, scheduler),
		notifiers: notifiers,
		cleanups:  cleanups,
	}
}

// coreServices are started first and shut down last.
func (a *app) coreServices() []srv.Service {
	services := append([]srv.Service{}, a.cleanups...)
	return append(services, a.scheduler, a.engine)
}

// close releases resources for one-shot commands that never start services.
func (a *app) close(ctx context.Context) {
	services := a.coreServices()
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)

	a := newApp(ctx)
	services := a.coreServices()

	transports, err := initTransports(ctx, a)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	return append(services, transports...)
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (core.StateRepository, []srv.Service, error) {
	switch cfg.GetStorageBackend() {
	case config.StorageFile:
		return file.NewStateStorage(cfg.GetStatePath()), nil, nil
	case config.StorageSQLite:
		db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewStateRepo(db), []srv.Service{srv.NewCleanup(db.Close)}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.GetStorageBackend())
	}
}

func initSource(ctx context.Context, cfg core.CatalogConfig) (core.ContentSource, error) {
	logger := log.FromCtx(ctx)

	switch {
	case cfg.GetContentURL() != "":
		logger.Info().Str("url", cfg.GetContentURL()).Msg("loading facts over HTTP")
		return catalog.NewHTTPSource(cfg.GetContentURL())
	case cfg.GetContentDir() != "":
		logger.Info().Str("dir", cfg.GetContentDir()).Msg("loading facts from directory")
		return catalog.NewFSSource(os.DirFS(cfg.GetContentDir())), nil
	default:
		return catalog.NewFSSource(assets.Content()), nil
	}
}

func initTransports(ctx context.Context, a *app) ([]srv.Service, error) {
	var services []srv.Service

	// Telegram Bot
	if a.cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.router)
		if err != nil {
			return nil, err
		}
		*a.notifiers = append(*a.notifiers, bot)
		services = append(services, bot)
	}

	// Terminal
	if a.cfg.IsCLISelected() {
		rl, err := cli.NewReadLine(a.router, a.cfg)
		if err != nil {
			return nil, err
		}
		*a.notifiers = append(*a.notifiers, rl)
		services = append(services, rl)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
