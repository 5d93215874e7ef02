package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ozaiithejava/portfolio-api/internal/config"
	"github.com/ozaiithejava/portfolio-api/internal/database"
	"github.com/ozaiithejava/portfolio-api/internal/logging"
	"github.com/ozaiithejava/portfolio-api/internal/queue"
	"github.com/ozaiithejava/portfolio-api/internal/repository"
	"github.com/ozaiithejava/portfolio-api/internal/router"
	"github.com/ozaiithejava/portfolio-api/internal/seed"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialect, err := database.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}
	db, err := database.Open(ctx, dialect, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db, dialect); err != nil {
		return err
	}
	seedOpts := seed.Options{AdminUsername: cfg.AdminUser, AdminPassword: cfg.AdminPass, BcryptCost: cfg.BcryptCost}
	if err := seed.Run(ctx, repository.NewAdminRepo(db), repository.NewProjectRepo(db), seedOpts, logger); err != nil {
		return err
	}

	// Redis backs the response cache and the login rate limit.  Both are
	// optional; the API works without it.
	var rdb *redis.Client
	if cfg.Cache.Enabled || cfg.RateLimit.Enabled {
		rdb, err = config.NewRedisClient(ctx)
		if err != nil {
			logger.Warn("redis unavailable; cache and rate limit disabled", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.Audit.Enabled {
		pub := queue.NewAMQPPublisher(cfg.Audit.URL)
		defer pub.Close()
		events = pub
		go func() {
			if err := queue.StartAuditConsumer(ctx, cfg.Audit.URL, cfg.Audit.LogDir, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("audit consumer stopped", zap.Error(err))
			}
		}()
	}

	e := router.New(router.Deps{
		Config:  cfg,
		DB:      db,
		Dialect: dialect,
		Redis:   rdb,
		Events:  events,
		Logger:  logger,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("db", string(dialect)))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
