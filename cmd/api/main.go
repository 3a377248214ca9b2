package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/auth"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/documents"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/notification"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/usecase"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
	infraauth "github.com/bychung/snusv-angel-club-sub003/internal/infrastructure/auth"
	"github.com/bychung/snusv-angel-club-sub003/internal/infrastructure/email"
	"github.com/bychung/snusv-angel-club-sub003/internal/infrastructure/memory"
	infrapdf "github.com/bychung/snusv-angel-club-sub003/internal/infrastructure/pdf"
	"github.com/bychung/snusv-angel-club-sub003/internal/infrastructure/postgres"
	"github.com/bychung/snusv-angel-club-sub003/internal/infrastructure/storage"
	"github.com/bychung/snusv-angel-club-sub003/internal/infrastructure/templates"
	httpRouter "github.com/bychung/snusv-angel-club-sub003/internal/interfaces/http"
	"github.com/bychung/snusv-angel-club-sub003/pkg/config"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

type repos struct {
	funds     repository.FundRepository
	profiles  repository.ProfileRepository
	members   repository.FundMemberRepository
	templates repository.TemplateRepository
	documents repository.DocumentRepository
	tx        documents.TxRunner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("brand", cfg.App.Brand).
		Msg("starting")

	ctx := context.Background()

	var r repos
	switch cfg.DB.Driver {
	case "memory":
		log.Warn().Msg("memory database driver, data is lost on restart")
		store := memory.NewStore()
		r = repos{store.Funds, store.Profiles, store.Members, store.Templates, store.Documents, store}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			n, err := postgres.Migrate(ctx, pool)
			if err != nil {
				log.Fatal().Err(err).Msg("apply migrations")
			}
			log.Info().Int("applied", n).Msg("migrations applied")
		}
		r = repos{
			funds:     postgres.NewFundRepository(pool),
			profiles:  postgres.NewProfileRepository(pool),
			members:   postgres.NewFundMemberRepository(pool),
			templates: postgres.NewTemplateRepository(pool),
			documents: postgres.NewDocumentRepository(pool),
			tx:        postgres.NewTxRunner(pool),
		}
	}

	var (
		objects ports.Storage
		files   httpRouter.FileOpener
	)
	switch cfg.Storage.Driver {
	case "gcs":
		gcs, err := storage.NewGCSStore(ctx, cfg.Storage.Bucket, cfg.Storage.CredentialsFile, log)
		if err != nil {
			log.Fatal().Err(err).Msg("open GCS bucket")
		}
		defer gcs.Close()
		objects = gcs
	default:
		local, err := storage.NewLocalStore(cfg.Storage.LocalDir, cfg.HTTP.PublicURL, cfg.Storage.SigningSecret)
		if err != nil {
			log.Fatal().Err(err).Msg("open local storage")
		}
		objects, files = local, local
	}

	var sender ports.MailSender = email.NewDisabledSender(log)
	if cfg.Mail.Enabled {
		smtp, err := email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("configure SMTP")
		}
		sender = smtp
	}
	notifier := notification.NewService(sender, notification.Config{
		From:      cfg.Mail.From,
		AdminTo:   cfg.Mail.AdminTo,
		BrandName: cfg.App.Name,
	}, log)

	var verifier ports.TokenVerifier
	if cfg.Auth.JWKSURL != "" {
		verifier, err = infraauth.NewJWKSVerifier(ctx, cfg.Auth.JWKSURL, log)
	} else {
		verifier, err = infraauth.NewHS256Verifier(cfg.Auth.JWTSecret, log)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("configure token verification")
	}

	renderer, err := infrapdf.NewMarotoRenderer(infrapdf.Fonts{
		Family:  cfg.PDF.FontFamily,
		Regular: cfg.PDF.FontRegular,
		Bold:    cfg.PDF.FontBold,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("load PDF fonts")
	}
	if cfg.PDF.FontRegular == "" {
		log.Warn().Msg("PDF_FONT_REGULAR not set, Korean text will not render")
	}

	brand := cfg.App.Brand
	defaults := templates.MustLoad()
	resolver := documents.NewTemplateResolver(r.templates, defaults)
	versions := documents.NewVersionStore(r.documents, r.tx, objects, log)
	documentSvc := documents.NewService(documents.Deps{
		Brand:     brand,
		Funds:     r.funds,
		Resolver:  resolver,
		Builder:   documents.NewContextBuilder(brand, r.funds, r.members, r.profiles),
		Detector:  documents.NewDuplicateDetector(r.documents),
		Store:     versions,
		Renderer:  renderer,
		Notifier:  notifier,
		SignedTTL: cfg.Storage.SignedURLTTL,
		Log:       log,
	})

	authUC := auth.NewAuthUseCase(brand, r.profiles, cfg.Auth.IsSystemAdmin, log)

	app := httpRouter.NewApp(httpRouter.AppConfig{Name: cfg.App.Name, CORSOrigins: cfg.HTTP.CORS}, log)
	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:     cfg.App.Name,
		AuthUC:      authUC,
		Verifier:    verifier,
		FundUC:      usecase.NewFundUseCase(brand, r.funds, r.members, r.profiles, versions, log),
		ProfileUC:   usecase.NewProfileUseCase(brand, r.profiles, log),
		MemberUC:    usecase.NewMemberUseCase(brand, r.funds, r.profiles, r.members, log),
		SurveyUC:    usecase.NewSurveyUseCase(brand, r.funds, r.profiles, r.members, notifier, log),
		Documents:   documentSvc,
		TemplateUC:  documents.NewTemplateUseCase(brand, r.templates, r.funds, resolver, log),
		Files:       files,
		SwaggerFile: swaggerFile(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	notifier.Wait()

	log.Info().Msg("stopped")
}

// swaggerFile returns the OpenAPI document path when it exists, otherwise "" (no /docs).
func swaggerFile() string {
	const path = "./docs/swagger.json"
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
