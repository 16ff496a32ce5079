package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"foliocms/internal/app"
	"foliocms/internal/config"
	"foliocms/internal/ratelimit"
	"foliocms/internal/server"
	"foliocms/internal/util"
	"foliocms/pkg/storage"
	"foliocms/pkg/store"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	db, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init database: %v", err)
	}
	blobs, err := storage.NewMinioStore(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StoragePublicBaseURL,
		cfg.StorageUseSSL,
	)
	if err != nil {
		log.Fatalf("failed to init object storage: %v", err)
	}

	var signupLimiter, signinLimiter *ratelimit.FixedWindowLimiter
	if cfg.SignupRateLimitPerMinute > 0 {
		signupLimiter, err = ratelimit.NewRedisFixedWindowLimiter(
			cfg.RedisAddr, cfg.RedisPassword, "",
			cfg.SignupRateLimitPerMinute, time.Minute,
		)
		if err != nil {
			log.Fatalf("failed to init signup rate limiter: %v", err)
		}
	}
	if cfg.SigninRateLimitPerMinute > 0 {
		signinLimiter, err = ratelimit.NewRedisFixedWindowLimiter(
			cfg.RedisAddr, cfg.RedisPassword, "",
			cfg.SigninRateLimitPerMinute, time.Minute,
		)
		if err != nil {
			log.Fatalf("failed to init signin rate limiter: %v", err)
		}
	}

	appCore, err := app.New(app.Config{
		Store:         db,
		Blobs:         blobs,
		JWTSecret:     cfg.JWTSecret,
		SignupLimiter: signupLimiter,
		SigninLimiter: signinLimiter,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer, err := server.New(server.Config{
		App:               appCore,
		MaxUploadBytes:    app.UploadLimitPro,
		TrustForwardedFor: cfg.TrustForwardedFor,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
