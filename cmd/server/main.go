package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/gazer/client-registry/internal/config"
	"github.com/gazer/client-registry/internal/constants"
	"github.com/gazer/client-registry/internal/database"
	"github.com/gazer/client-registry/internal/handlers"
	"github.com/gazer/client-registry/internal/logger"
	"github.com/gazer/client-registry/internal/middleware"
	"github.com/gazer/client-registry/internal/repository"
	"github.com/gazer/client-registry/internal/services"
	"github.com/gazer/client-registry/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, err := newDocumentStore(ctx, cfg.Docs)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Docs.Backend).Msg("Failed to open document store")
	}

	// Configure session options based on environment
	cookieOpts := sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	store, err := newSessionStore(cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Session.Store).Msg("Failed to create session store")
	}
	store.Options(cookieOpts)

	// Initialize services
	userService := services.NewUserService(repository.NewUserRepository(db), services.NewBcryptHasher(bcrypt.DefaultCost))
	clientService := services.NewClientService(repository.NewClientRepository(db), docs, cfg.Docs.PurgeOnDelete)

	gatekeeper := middleware.NewGatekeeper(
		userService,
		middleware.DefaultPolicy(),
		middleware.NewRememberMe(cfg.Session.RememberMeSecret, constants.RememberMeValidity),
		cookieOpts,
	)

	r := handlers.NewRouter(handlers.RouterDeps{
		DB:             db,
		Roles:          repository.NewRoleRepository(db),
		Users:          userService,
		Clients:        clientService,
		Gatekeeper:     gatekeeper,
		SessionStore:   store,
		MaxUploadBytes: cfg.Docs.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newDocumentStore(ctx context.Context, cfg config.DocsConfig) (storage.DocumentStore, error) {
	switch cfg.Backend {
	case "local":
		local, err := storage.NewLocalStore(cfg.Root)
		if err != nil {
			return nil, err
		}
		return local, nil
	case "s3":
		remote, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return remote, nil
	default:
		return nil, fmt.Errorf("unsupported document backend %q", cfg.Backend)
	}
}

func newSessionStore(cfg config.SessionConfig) (sessions.Store, error) {
	switch cfg.Store {
	case "redis":
		return redisStore.NewStore(
			10,              // Redis pool size
			"tcp",           // network type
			cfg.RedisAddr(), // Redis address from config
			"",              // username (empty for default user)
			cfg.RedisPassword,
			[]byte(cfg.Secret), // authentication key
		)
	case "cookie":
		return cookie.NewStore([]byte(cfg.Secret)), nil
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.Store)
	}
}
