package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/exam-prep/internal/app"
	"github.com/aliskhannn/exam-prep/internal/cloudsync"
	"github.com/aliskhannn/exam-prep/internal/config"
	"github.com/aliskhannn/exam-prep/internal/delivery/telegram"
	"github.com/aliskhannn/exam-prep/internal/domain/entities"
	"github.com/aliskhannn/exam-prep/internal/infra/mongo"
	"github.com/aliskhannn/exam-prep/internal/infra/postgres"
	"github.com/aliskhannn/exam-prep/internal/infra/postgres/repository"
	"github.com/aliskhannn/exam-prep/internal/infra/redis"
	"github.com/aliskhannn/exam-prep/internal/infra/sqlite"
	"github.com/aliskhannn/exam-prep/internal/logger"
	"github.com/aliskhannn/exam-prep/internal/service"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	loc, err := entities.ParseLocation(cfg.Timezone)
	if err != nil {
		lg.Fatal("invalid timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}
	clock := service.LocalClock(loc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the on-device store.
	var backend storage.Backend
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		backend = storage.NewMemoryBackend()
	default:
		kv, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			lg.Fatal("failed to open sqlite store", zap.String("path", cfg.Storage.Path), zap.Error(err))
		}
		defer kv.Close()
		backend = kv
	}

	// Initialize the sync remote.
	var remote cloudsync.Remote
	switch cfg.Sync.Backend {
	case config.SyncMemory:
		remote = cloudsync.NewMemoryRemote()
	case config.SyncPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			lg.Fatal("postgres sync needs DATABASE_URL", zap.Error(err))
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			lg.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pool.Close()

		docs := repository.NewDocumentRepository(pool)
		if err := docs.EnsureSchema(ctx); err != nil {
			lg.Fatal("failed to prepare sync schema", zap.Error(err))
		}
		remote = docs
	case config.SyncMongo:
		client, err := mongo.Connect(ctx, mongo.ClientConfig{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			lg.Fatal("failed to connect to mongo", zap.Error(err))
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		remote = mongo.NewDocumentRepository(client.Database(cfg.Mongo.Database))
	}

	// The leaderboard is optional.
	var board service.Leaderboard
	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(ctx, redis.ClientConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			lg.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		board = redis.NewLeaderboard(client)
	}

	registry := app.NewRegistry(app.DeviceConfig{
		Backend:   backend,
		Namespace: cfg.Storage.Namespace,
		Remote:    remote,
		SyncOptions: cloudsync.Options{
			Debounce: cfg.Sync.Debounce,
			Timeout:  cfg.Sync.Timeout,
		},
		Leaderboard: board,
		Clock:       clock,
		Logger:      lg,
	})
	defer registry.Close()

	maintenance := service.NewMaintenanceService(registry, cfg.Maintenance.Schedule, loc, lg)
	go func() {
		if err := maintenance.Start(ctx); err != nil {
			lg.Error("maintenance scheduler failed", zap.Error(err))
		}
	}()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create telegram bot", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start and sign in"},
		{Command: "answer", Description: "Log an answer: /answer correct 40 Physics Optics"},
		{Command: "stats", Description: "Level, streak and activity"},
		{Command: "achievements", Description: "Achievements"},
		{Command: "mocktest", Description: "Start, finish or cancel a mock test"},
		{Command: "plan", Description: "Today's study plan"},
		{Command: "newplan", Description: "Create a 60-day study plan"},
		{Command: "done", Description: "Complete a plan day"},
		{Command: "leaderboard", Description: "Leaderboard"},
		{Command: "exam", Description: "Choose your exam"},
		{Command: "help", Description: "Help"},
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on telegram",
		zap.String("account", bot.Self.UserName),
		zap.String("sync_backend", cfg.Sync.Backend),
		zap.Bool("leaderboard", board != nil),
	)

	handler := telegram.NewHandler(bot, lg, registry, storage.NewMockTestSessions(), clock)
	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		lg.Error("telegram handler stopped", zap.Error(err))
	}

	lg.Info("shutdown signal received")
}
