package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	adapthttp "habitstreak/internal/adapter/http"
	"habitstreak/internal/adapter/memory"
	"habitstreak/internal/adapter/postgres"
	"habitstreak/internal/adapter/redis"
	"habitstreak/internal/app"
	"habitstreak/internal/config"
	"habitstreak/internal/domain"
)

// store bundles the repositories a storage driver provides.
type store interface {
	domain.HabitRepository
	domain.CompletionRepository
	domain.UserRepository
}

func main() {
	configPath := flag.String("config", "", "path to YAML config file (defaults to $CONFIG_FILE)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid time zone", zap.Error(err))
	}

	db, closeDB, err := openStore(cfg.Database)
	if err != nil {
		log.Fatal("Failed to open store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer closeDB()

	var cache app.StatsCache
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rc, err := redis.New(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer func() { _ = rc.Close() }()
		cache = rc
		log.Info("Analytics cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
	}

	habitSvc := app.NewHabitService(db, db, cache, log)
	analyticsSvc := app.NewAnalyticsService(db, db, cache, log, cfg.Analytics.WindowDays)
	userSvc := app.NewUserService(db)

	h := adapthttp.New(habitSvc, analyticsSvc, userSvc, log).WithLocation(loc).Handler()
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting",
			zap.String("addr", cfg.Server.Addr),
			zap.String("driver", cfg.Database.Driver),
			zap.String("timezone", loc.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
}

// newLogger builds a production JSON logger at the given level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func openStore(cfg config.DatabaseConfig) (store, func(), error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), func() {}, nil
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.URL)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
