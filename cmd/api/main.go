package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veritrace/provenance/internal/api"
	"github.com/veritrace/provenance/internal/core/service"
	"github.com/veritrace/provenance/internal/infrastructure/config"
	mongodb "github.com/veritrace/provenance/internal/infrastructure/db/mongo"
	redisdb "github.com/veritrace/provenance/internal/infrastructure/db/redis"
	"github.com/veritrace/provenance/internal/infrastructure/identity"
	"github.com/veritrace/provenance/internal/infrastructure/queue"
	"github.com/veritrace/provenance/pkg/logger"

	_ "github.com/veritrace/provenance/docs" // swagger docs
)

// @title           VeriTrace Provenance API
// @version         1.0
// @description     Permissioned supply-chain provenance ledger with identity-gated, role-based writes.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	productRepo := mongodb.NewProductRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	settingsRepo := mongodb.NewSettingsRepository(db)
	eventRepo := mongodb.NewEventRepository(db)
	authRepo := mongodb.NewAuthRepository(db)

	if err := roleRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("role index bootstrap failed")
	}
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index bootstrap failed")
	}

	// --- Identity authority pointer: persisted endpoint wins over env seed ---
	endpoint, err := settingsRepo.Endpoint(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load identity authority endpoint")
	}
	if endpoint == "" {
		endpoint = cfg.IdentityAuthorityURL
		if err := settingsRepo.SetEndpoint(ctx, endpoint); err != nil {
			log.Fatal().Err(err).Msg("failed to seed identity authority endpoint")
		}
	}
	resolver := identity.NewResolver(endpoint)
	log.Info().Str("endpoint", endpoint).Msg("identity authority configured")

	// --- Trace event pipeline ---
	publisher := redisdb.NewStreamPublisher(rdb)
	dispatcher := queue.NewDispatcher(cfg.EventWorkers, eventRepo, publisher, log)
	dispatcher.Start(ctx)

	// --- Services ---
	gate := service.NewIdentityGate(resolver, log)
	registrySvc := service.NewRegistryService(roleRepo, settingsRepo, resolver, dispatcher, log)
	ledgerSvc := service.NewLedgerService(productRepo, roleRepo, gate, dispatcher, cfg.VerificationSteps, log)
	authSvc := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)

	// Admin role is granted at construction to the designated account.
	if err := registrySvc.Bootstrap(ctx, cfg.AdminAccount); err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap failed")
	}

	// --- HTTP ---
	e := api.NewRouter(api.RouterConfig{
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
		Ledger:    ledgerSvc,
		Registry:  registrySvc,
		Auth:      authSvc,
		MongoDB:   db,
		Redis:     rdb,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("provenance api started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
