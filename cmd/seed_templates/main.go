// seed_templates stores the bundled default templates as the active global template of every
// document type that has none yet. Existing templates are never touched.
//
// Usage: go run ./cmd/seed_templates
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/infrastructure/postgres"
	"github.com/bychung/snusv-angel-club-sub003/internal/infrastructure/templates"
	"github.com/bychung/snusv-angel-club-sub003/pkg/config"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	repo := postgres.NewTemplateRepository(pool)
	defaults := templates.MustLoad()

	for _, docType := range entity.DocumentTypes {
		versions, err := repo.Versions(ctx, docType, nil)
		if err != nil {
			log.Fatal().Err(err).Str("document_type", string(docType)).Msg("list template versions")
		}
		if len(versions) > 0 {
			log.Info().Str("document_type", string(docType)).Int("versions", len(versions)).Msg("already seeded, skipped")
			continue
		}
		def, ok := defaults.Default(docType)
		if !ok {
			log.Warn().Str("document_type", string(docType)).Msg("no bundled template")
			continue
		}
		t := &entity.Template{
			ID:           uuid.New().String(),
			DocumentType: docType,
			Version:      templates.SeedVersion(def),
			Content:      def.Content,
			IsActive:     true,
			CreatedAt:    time.Now().UTC(),
		}
		if err := repo.Create(ctx, t); err != nil {
			log.Fatal().Err(err).Str("document_type", string(docType)).Msg("insert template")
		}
		log.Info().Str("document_type", string(docType)).Str("version", t.Version).Msg("template seeded")
	}
}
