package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/live-learn-hub-api/internal/config"
	"github.com/live-learn-hub-api/internal/database"
	"github.com/live-learn-hub-api/internal/models"
	"github.com/live-learn-hub-api/internal/repository"
	"github.com/live-learn-hub-api/internal/service"
	"github.com/live-learn-hub-api/pkg/logger"
)

const usage = `usage: maintenance [-idempotency-key KEY] <command>

commands:
  seed                     create the admin user, default categories and sample insights
  backfill-slugs           give every slug-less insight a unique slug
  recalculate-read-times   re-estimate read times from current content
  migrate-legacy-fields    fill missing read time, author name and author bio
  migrate-down             roll back the last schema migration
`

func main() {
	idempotencyKey := flag.String("idempotency-key", "", "return the recorded run for a repeated key instead of running again")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	log := logger.FromEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Env: cfg.Log.Env}).
		With().Str("command", command).Logger()

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if command == "migrate-down" {
		if err := db.MigrateDown(cfg.Database.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to roll back migration")
		}
		return
	}

	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	services := service.NewServices(repository.New(db), cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var result interface{}
	switch command {
	case "seed":
		result, err = services.Seed.Seed(ctx)
	case string(models.RunKindBackfillSlugs),
		string(models.RunKindRecalculateReadTimes),
		string(models.RunKindMigrateLegacyFields):
		result, err = services.Maintenance.Run(ctx, models.RunKind(command), *idempotencyKey)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Maintenance command failed")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		log.Fatal().Err(err).Msg("Failed to write result")
	}
}
