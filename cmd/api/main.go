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

	"golang.org/x/sync/errgroup"

	"github.com/smartwaste/waste-api/internal/api"
	"github.com/smartwaste/waste-api/internal/api/handler"
	"github.com/smartwaste/waste-api/internal/core/ports"
	"github.com/smartwaste/waste-api/internal/core/service"
	"github.com/smartwaste/waste-api/internal/infrastructure/config"
	"github.com/smartwaste/waste-api/internal/infrastructure/db/mongo"
	"github.com/smartwaste/waste-api/internal/infrastructure/db/redis"
	"github.com/smartwaste/waste-api/internal/infrastructure/queue"
	"github.com/smartwaste/waste-api/internal/infrastructure/security"
	"github.com/smartwaste/waste-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       IoT Waste Management API
// @version                     1.0.0
// @description                 Accounts, role-based access and bin sensor ingestion for the smart waste platform.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "waste-api: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "waste-api",
	})

	store, err := mongo.Connect(ctx, mongo.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
		IdleTimeout:    cfg.Mongo.IdleTimeout,
		MaxRetries:     cfg.Mongo.ConnectRetries,
	}, logger.Component("mongo"))
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	health := map[string]handler.Pinger{"mongodb": store.Ping}

	// Redis only backs sensor deduplication; without it every reading is stored.
	var dedup ports.ReadingDeduplicator
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:       cfg.Redis.Addr,
		DB:         cfg.Redis.DB,
		MaxRetries: 2,
	}, logger.Component("redis"))
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, sensor deduplication disabled")
	} else {
		defer func() { _ = rdb.Close() }()
		dedup = redis.NewReadingDeduplicator(rdb)
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// The pool outlives the HTTP server so in-flight logins can finish
	// during shutdown.
	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()
	pool := queue.NewHashPool(cfg.Hashing.Workers, security.NewBcryptHasher(cfg.Hashing.BcryptCost), logger.Component("hash_pool"))
	pool.Start(poolCtx)

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	users := mongo.NewUserRepository(store)

	e := api.NewRouter(api.Deps{
		Log:            logger.Component("http"),
		Auth:           service.NewAuthService(users, pool, tokens, logger.Component("auth")),
		Profiles:       service.NewProfileService(users, pool, logger.Component("profile")),
		Sensors:        service.NewSensorService(mongo.NewSensorRepository(store), dedup, logger.Component("sensors")),
		Tokens:         tokens,
		Health:         health,
		FrontendURL:    cfg.FrontendURL,
		StaticDir:      cfg.StaticDir,
		ExposeInternal: cfg.IsDevelopment(),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return pool.Run(poolCtx)
	})

	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := e.Shutdown(shutdownCtx)
		stopPool()
		return err
	})

	return g.Wait()
}
