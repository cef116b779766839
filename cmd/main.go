package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pupkingeorgij/artmarket/internal/config"
	"github.com/pupkingeorgij/artmarket/internal/db"
	"github.com/pupkingeorgij/artmarket/internal/grpcserver"
	"github.com/pupkingeorgij/artmarket/internal/kafka"
	"github.com/pupkingeorgij/artmarket/internal/logger"
	"github.com/pupkingeorgij/artmarket/internal/repository/postgresql"
	"github.com/pupkingeorgij/artmarket/internal/server"
	"github.com/pupkingeorgij/artmarket/internal/storage"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run owns every resource so deferred cleanup happens before main exits.
func run() error {
	envPath, envLoaded := config.LoadEnv()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.New("info").Error("failed to load config", zap.Error(err))
		return err
	}

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if envLoaded {
		log.Info("loaded .env", zap.String("path", envPath))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	database, err := db.NewDb(ctx, cfg.Postgres.DSN(), log, cfg.LogSQL)
	if err != nil {
		log.Error("database init error", zap.Error(err))
		return err
	}
	defer database.Close()

	if err := database.Initialize(ctx); err != nil {
		log.Error("schema init error", zap.Error(err))
		return err
	}

	templates, err := server.LoadTemplates(cfg.TemplatesDir)
	if err != nil {
		log.Error("template init error", zap.Error(err))
		return err
	}

	producer := newProducer(cfg, log)
	defer func() {
		if err := producer.Close(); err != nil {
			log.Error("failed to close producer", zap.Error(err))
		}
	}()

	executors := storage.NewExecutorStorage(database, postgresql.NewExecutorRepo(database))
	audit := server.NewAuditManager(producer, cfg.Kafka.AuditTopic, cfg.Audit.Workers, cfg.Audit.BatchSize, cfg.Audit.Timeout, log)

	srv := server.New(executors, database, templates, server.Options{
		StaticDir: cfg.StaticDir,
		Logger:    log,
		Audit:     audit,
	})
	health := grpcserver.NewServer(database, cfg.HealthProbe, log)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gCtx, cfg.HTTPPort)
	})
	g.Go(func() error {
		return health.Run(cfg.GRPCPort)
	})
	g.Go(func() error {
		health.RunProbe(gCtx)
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		health.Stop()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	log.Info("server gracefully stopped")
	return nil
}

func newProducer(cfg *config.Config, log *zap.Logger) kafka.Producer {
	if len(cfg.Kafka.Brokers) == 0 {
		return kafka.NewConsoleProducer(log)
	}
	producer, err := kafka.NewKafkaProducer(cfg.Kafka.Brokers, log)
	if err != nil {
		log.Warn("falling back to console producer", zap.Error(err))
		return kafka.NewConsoleProducer(log)
	}
	return producer
}
