package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/openakita/feedback-gateway/internal/admin"
	"github.com/openakita/feedback-gateway/internal/config"
	"github.com/openakita/feedback-gateway/internal/logger"
	"github.com/openakita/feedback-gateway/internal/notify"
	"github.com/openakita/feedback-gateway/internal/ratelimit"
	"github.com/openakita/feedback-gateway/internal/report"
	"github.com/openakita/feedback-gateway/internal/server"
	"github.com/openakita/feedback-gateway/internal/storage"
	"github.com/openakita/feedback-gateway/internal/verify"
)

func main() {
	_ = godotenv.Load()

	logg, err := logger.Init(os.Getenv("FEEDBACK_LOG_LEVEL"))
	if err != nil {
		panic("init logger: " + err.Error())
	}
	defer logg.Sync()

	cfg, err := config.Load()
	if err != nil {
		logg.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		logg.Fatal("connect minio", zap.Error(err))
	}

	if err := storage.EnsureBucket(ctx, minioClient, cfg.MinIO.Bucket, cfg.MinIO.Region); err != nil {
		logg.Fatal("ensure bucket", zap.Error(err))
	}

	redisClient, err := storage.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logg.Fatal("connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	reportStore := report.NewStore(report.NewMinIOStore(minioClient), cfg.MinIO.Bucket)
	limiter := ratelimit.New(ratelimit.NewRedisStore(redisClient), cfg.Limits.CounterTTL)
	verifier := verify.NewClient(cfg.Turnstile.SecretKey)
	mailer := notify.NewMailer(cfg.Notify.ResendAPIKey, cfg.Notify.Recipient)

	if !mailer.Enabled() {
		logg.Info("email notification disabled")
	}

	reportService := report.NewService(reportStore, verifier, limiter, mailer, cfg.Limits, logg)
	adminService := admin.NewService(reportStore, logg)

	router := server.NewRouter(server.Dependencies{
		Config:        cfg,
		ObjectStore:   minioClient,
		Redis:         redisClient,
		ReportService: reportService,
		AdminService:  adminService,
		Logger:        logg,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logg.Info("feedback gateway listening", zap.String("address", cfg.Server.Address()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logg.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown error", zap.Error(err))
	}
}
