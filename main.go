package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/rpupo63/student-showcase-backend/access"
	"github.com/rpupo63/student-showcase-backend/api"
	"github.com/rpupo63/student-showcase-backend/auth"
	"github.com/rpupo63/student-showcase-backend/config"
	"github.com/rpupo63/student-showcase-backend/database"
	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/rpupo63/student-showcase-backend/services"
	"github.com/rpupo63/student-showcase-backend/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Msg("Initializing app...")

	// Load environment variables from .env file
	if path := config.Load(); path == "" {
		log.Warn().Msg("no .env file found, using the process environment")
	}
	c := config.New()

	if level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	db, err := database.Connect(c)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	// If generating models, run generation and exit
	if strings.ToLower(config.GetString(c, "GENERATE_MODELS", "")) == "true" {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("model generation failed")
		}
		return
	}

	if err := models.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("error migrating database")
	}
	currentDB := database.New(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens, err := newTokenService(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("error configuring tokens")
	}

	if err := bootstrapAdmin(ctx, c, currentDB); err != nil {
		log.Fatal().Err(err).Msg("error creating the administrator account")
	}

	store, err := storage.New(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing media storage")
	}
	var uploadDir string
	if fs, ok := store.(*storage.FS); ok {
		uploadDir = fs.BaseDir()
	}

	server, err := api.NewServer(c, api.Dependencies{
		Database:  currentDB,
		Tokens:    tokens,
		Storage:   store,
		Notifier:  services.NewCandidateNotifier(c),
		Policy:    access.DefaultPolicy(),
		UploadDir: uploadDir,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing server")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Closing server")
		return server.ShutdownGracefully(30 * time.Second)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with an error")
	}
	closeDatabase(db)
}

// newTokenService reads JWT_SECRET, from SSM when JWT_SECRET_SSM_PARAM is set.
func newTokenService(ctx context.Context, c map[string]string) (*auth.TokenService, error) {
	var store config.ParameterStore
	if config.NeedsParameterStore(c, "JWT_SECRET") {
		client, err := config.NewParameterStore(ctx, config.GetString(c, "AWS_REGION", ""))
		if err != nil {
			return nil, err
		}
		store = client
	}

	secret, err := config.ResolveSecret(ctx, c, store, "JWT_SECRET")
	if err != nil {
		return nil, err
	}
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	ttl := time.Duration(config.GetInt(c, "TOKEN_TTL_HOURS", 24)) * time.Hour
	return auth.NewTokenService(secret, ttl)
}

// bootstrapAdmin makes sure ADMIN_EMAIL can sign in as an administrator.
func bootstrapAdmin(ctx context.Context, c map[string]string, db database.Database) error {
	email := config.GetString(c, "ADMIN_EMAIL", "")
	password := config.GetString(c, "ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user, created, err := db.UserRepo().EnsureAdmin(ctx, email, hash)
	if err != nil {
		return err
	}
	log.Info().Uint("userId", user.ID).Bool("created", created).Msg("administrator account ready")
	return nil
}

func closeDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("error closing database")
	}
}
