package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/meetuphub/internal/auth"
	"github.com/geocoder89/meetuphub/internal/cache"
	"github.com/geocoder89/meetuphub/internal/clock"
	"github.com/geocoder89/meetuphub/internal/config"
	"github.com/geocoder89/meetuphub/internal/db"
	httpx "github.com/geocoder89/meetuphub/internal/http"
	"github.com/geocoder89/meetuphub/internal/http/handlers"
	"github.com/geocoder89/meetuphub/internal/meetups"
	"github.com/geocoder89/meetuphub/internal/observability"
	"github.com/geocoder89/meetuphub/internal/repo/postgres"
	"github.com/geocoder89/meetuphub/internal/security"
	"github.com/geocoder89/meetuphub/internal/storage"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("api exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTelEnabled {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: "meetuphub-api",
			Env:         cfg.Env,
			Endpoint:    cfg.OTelEndpoint,
		})
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(sctx)
		}()
	}

	pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	prom := observability.NewProm()

	ready := map[string]handlers.Pinger{"postgres": pool}

	// organizing cache: redis when configured, process memory otherwise
	var store cache.Store
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		defer rc.Close()

		store = rc
		ready["redis"] = rc
	} else {
		store = cache.New(cfg.CacheTTL)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	meetupsRepo := postgres.NewMeetupsRepo(pool, prom)
	usersRepo := postgres.NewUsersRepo(pool, prom)

	svc := meetups.NewService(meetupsRepo, clock.Real{},
		meetups.WithCache(store),
		meetups.WithLogger(log),
		meetups.WithLocation(loc),
		meetups.WithFilesBaseURL(cfg.FilesPublicURL),
	)

	deps := httpx.Deps{
		Log:     log,
		Config:  cfg,
		Meetups: svc,
		Users:   usersRepo,
		Hasher:  security.NewPasswordHasher(cfg.BcryptCost),
		Tokens:  auth.NewManager(cfg.JWTSecret, cfg.JWTAccessTTL),
		Prom:    prom,
		Ready:   ready,
	}

	if cfg.S3Bucket != "" {
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return fmt.Errorf("init s3: %w", err)
		}

		deps.Storage = s3
		deps.Files = postgres.NewFilesRepo(pool, prom)
		ready["s3"] = s3
	} else {
		log.Info("banner uploads disabled", "reason", "S3_BUCKET not set")
	}

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           httpx.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown
	log.Info("server shutting down")

	sctx, cancel := config.WithTimeout(cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("shutdown complete")

	return nil
}
