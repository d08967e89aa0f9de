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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"grocito/internal/config"
	httpapi "grocito/internal/http"
	"grocito/internal/logger"
	"grocito/internal/mailer"
	"grocito/internal/ratelimit"
	"grocito/internal/render"
	"grocito/internal/service"

	_ "grocito/docs"
)

// @title Grocito Email Service
// @version 1.0
// @description Order confirmation, payment receipt and test emails for Grocito.
// @host localhost:3001
// @BasePath /api
func main() {
	// .env необязателен
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	renderer, err := render.New(cfg.Branding(), render.WithLocation(cfg.Location()))
	if err != nil {
		lg.Fatal("init renderer", zap.Error(err))
	}

	transport := mailer.NewTransport(mailer.NewSMTPSender(cfg.SMTP()), lg.Named("mailer"))
	// until the probe completes every request is simulated
	go transport.Probe(context.Background(), cfg.SMTPVerifyTimeout)

	rule := ratelimit.Rule{Max: cfg.RateLimitMax, Window: cfg.RateLimitWindow}
	var limiter ratelimit.Limiter = ratelimit.NewMemory(rule)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			lg.Warn("redis unreachable, rate limiter will fail open", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		cancel()
		limiter = ratelimit.NewRedis(rdb, rule)
	}

	notifications := service.NewNotificationService(renderer, transport, lg.Named("notifications"))
	srv := httpapi.NewServer(notifications, httpapi.Options{
		Limiter:        limiter,
		AllowedOrigins: cfg.AllowedOrigins(),
		BodyLimit:      cfg.BodyLimit,
		Logger:         lg.Named("http"),
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("Grocito Email Service listening",
			zap.String("addr", httpServer.Addr),
			zap.String("env", cfg.Env),
			zap.String("smtp_host", cfg.SMTPHost),
			zap.Bool("redis_rate_limit", cfg.RedisAddr != ""),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		lg.Error("shutdown error", zap.Error(err))
	}
}
