package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pupkingeorgij/artmarket/internal/config"
	"github.com/pupkingeorgij/artmarket/internal/db"
	"github.com/pupkingeorgij/artmarket/internal/logger"
	"github.com/pupkingeorgij/artmarket/internal/repository/postgresql"
	"github.com/pupkingeorgij/artmarket/internal/storage"
)

const configFlag = "config"

var seedFlags = map[string]cobraflags.Flag{
	configFlag: &cobraflags.StringFlag{
		Name:  configFlag,
		Value: "",
		Usage: "Path to a YAML config overlay (defaults to CONFIG_PATH)",
	},
}

var (
	count  int
	baseID int64
)

func newSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the marketplace store with demo data",
		Long: `Create the schema if needed and insert demo rows: one customer and, per
executor, a user, a profile, an order, an offer and a feedback entry.

Telegram ids start at --base-id, so running twice with the same base id fails
on the unique constraints.`,
		RunE: seedCommand,
	}

	cobraflags.RegisterMap(cmd, seedFlags)
	cmd.Flags().IntVar(&count, "count", 15, "Number of executors to create")
	cmd.Flags().Int64Var(&baseID, "base-id", 1000, "First telegram id to use")
	return cmd
}

func seedCommand(cmd *cobra.Command, _ []string) error {
	if count <= 0 {
		return fmt.Errorf("--count must be positive, got %d", count)
	}

	config.LoadEnv()

	path := seedFlags[configFlag].GetString()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	database, err := db.NewDb(ctx, cfg.Postgres.DSN(), log, cfg.LogSQL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Initialize(ctx); err != nil {
		return err
	}

	seeder := storage.NewSeeder(
		database,
		postgresql.NewUserRepo(database),
		postgresql.NewExecutorRepo(database),
		postgresql.NewOrderRepo(database),
		postgresql.NewOfferRepo(database),
		postgresql.NewFeedbackRepo(database),
		log,
	)

	res, err := seeder.Seed(ctx, count, baseID)
	if err != nil {
		return fmt.Errorf("seed rolled back: %w", err)
	}

	log.Info("seed completed",
		zap.Int("users", res.Users),
		zap.Int("executors", res.Executors),
		zap.Int("orders", res.Orders),
		zap.Int("offers", res.Offers),
		zap.Int("feedback", res.Feedback),
	)
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newSeedCommand().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
