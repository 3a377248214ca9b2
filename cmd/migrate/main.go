// migrate applies or rolls back the embedded database migrations.
//
// Usage: go run ./cmd/migrate [up|down|status]   (default: up)
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bychung/snusv-angel-club-sub003/internal/infrastructure/postgres"
	"github.com/bychung/snusv-angel-club-sub003/pkg/config"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	switch cmd {
	case "up":
		n, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migrate up")
		}
		log.Info().Int("applied", n).Msg("database up to date")
	case "down":
		if err := postgres.MigrateDown(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migrate down")
		}
		log.Info().Msg("rolled back one migration")
	case "status":
		list, err := postgres.MigrationStatus(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migration status")
		}
		for _, m := range list {
			applied := ""
			if !m.AppliedAt.IsZero() {
				applied = m.AppliedAt.Format(time.RFC3339)
			}
			fmt.Printf("%5d  %-10s  %-25s  %s\n", m.Source.Version, m.State, applied, m.Source.Path)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (up|down|status)\n", cmd)
		os.Exit(2)
	}
}
