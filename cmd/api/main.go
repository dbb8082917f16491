package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"hoodreport/api/internal/app"
	"hoodreport/api/internal/config"
	"hoodreport/api/internal/directory"
	"hoodreport/api/internal/email"
	"hoodreport/api/internal/export"
	"hoodreport/api/internal/media"
	"hoodreport/api/internal/storage"
	"hoodreport/api/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		sugar.Fatalw("data dir create failed", "dir", cfg.DataDir, "error", err)
	}

	var kv store.KV
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisKV, err := store.NewRedisKV(cfg.RedisURL)
		if err != nil {
			sugar.Fatalw("redis connection failed", "error", err)
		}
		defer redisKV.Close()
		kv = redisKV
		sugar.Infow("local cache backend", "kind", "redis")
	} else {
		fileKV, err := store.NewFileKV(cfg.DataDir)
		if err != nil {
			sugar.Fatalw("file cache init failed", "error", err)
		}
		kv = fileKV
		sugar.Infow("local cache backend", "kind", "file", "dir", cfg.DataDir)
	}
	local := store.NewLocalStore(kv)

	// Remote sync is opt-in. No DATABASE_URL means local-only operation.
	var remote *store.RemoteStore
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			sugar.Fatalw("database connection failed", "error", err)
		}
		defer db.Close()
		remote = store.NewRemoteStore(db, sugar)
		if err := remote.EnsureSchema(ctx); err != nil {
			sugar.Fatalw("schema setup failed", "error", err)
		}
		sugar.Infow("remote sync enabled")
	}

	var blobs *storage.Storage
	if strings.TrimSpace(cfg.S3Endpoint) != "" {
		blobs, err = storage.New(storage.Config{
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			UseSSL:        cfg.S3UseSSL,
			Region:        cfg.S3Region,
			PublicBaseURL: cfg.PublicBaseURL,
		}, sugar)
		if err != nil {
			sugar.Fatalw("object storage init failed", "error", err)
		}
		if err := blobs.EnsureBucket(ctx); err != nil {
			sugar.Fatalw("bucket setup failed", "error", err)
		}
		sugar.Infow("photo uploads enabled", "endpoint", cfg.S3Endpoint)
	}

	var meiliClient *directory.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = directory.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey, sugar)
		defer meiliClient.Close()
	}
	dir := directory.NewService(meiliClient, sugar)

	normalizer := media.New(cfg.MediaMaxWidth, cfg.JPEGQuality, sugar)
	exporter := export.NewPipeline(normalizer, cfg.OutputDir, cfg.LogoURL, sugar)
	mailer := email.NewService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	})

	service := app.NewService(app.Options{
		Log:         sugar,
		Local:       local,
		Remote:      remote,
		Blobs:       blobs,
		Directory:   dir,
		Normalizer:  normalizer,
		Exporter:    exporter,
		Mail:        mailer,
		TokenSecret: cfg.TokenSecret,
		TokenTTL:    cfg.TokenTTL,
	})
	if err := service.RebuildDirectory(ctx); err != nil {
		sugar.Warnw("initial suggestion index build failed", "error", err)
	}

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin, sugar)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sugar.Infow("hoodreport api listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("shutdown error", "error", err)
	}
}
