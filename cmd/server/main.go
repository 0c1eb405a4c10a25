package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/lornu-ai/web-gateway/internal/assets"
	"github.com/lornu-ai/web-gateway/internal/config"
	"github.com/lornu-ai/web-gateway/internal/contact"
	"github.com/lornu-ai/web-gateway/internal/health"
	"github.com/lornu-ai/web-gateway/internal/logger"
	"github.com/lornu-ai/web-gateway/internal/metrics"
	gwmw "github.com/lornu-ai/web-gateway/internal/middleware"
	"github.com/lornu-ai/web-gateway/internal/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(appLog)

	if cfg.ResendAPIKey == "" {
		log.Fatal("RESEND_API_KEY environment variable is required")
	}

	// Rate limiting is optional: without Redis the contact endpoint runs
	// unlimited rather than refusing to start.
	var store ratelimit.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store = ratelimit.NewRedisStore(client)
		appLog.Info("rate limiting enabled", "redis_addr", cfg.RedisAddr)
	} else {
		appLog.Warn("REDIS_ADDR not set, contact rate limiting disabled")
	}
	limiter := ratelimit.New(store, appLog)

	mailer := contact.NewResendMailer(contact.ResendConfig{
		APIKey: cfg.ResendAPIKey,
		From:   cfg.FromAddress,
		To:     cfg.ContactEmail,
		Logger: appLog,
	})

	contactHandler := contact.NewHandler(contact.HandlerConfig{
		Limiter:               limiter,
		Mailer:                mailer,
		RateLimitBypassSecret: cfg.RateLimitBypassSecret,
		EmailBypassSecret:     cfg.EmailBypassSecret,
		Logger:                appLog,
	})

	fetcher := assets.NewS3Fetcher(assets.S3Config{
		Endpoint:        cfg.AssetEndpoint,
		Region:          cfg.AssetRegion,
		Bucket:          cfg.AssetBucket,
		AccessKeyID:     cfg.AssetAccessKey,
		SecretAccessKey: cfg.AssetSecretKey,
		UseSSL:          cfg.AssetUseSSL,
	})
	assetRouter := assets.NewRouter(fetcher, appLog)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(gwmw.RequestLogger(appLog))
	r.Use(metrics.Middleware)

	// The health endpoint answers any method, like the asset paths do.
	r.HandleFunc("/api/health", health.Handler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Route("/api", func(r chi.Router) {
		contact.RegisterRoutes(r, contactHandler)
	})
	// Everything else is a static asset or an SPA route.
	r.NotFound(assetRouter.ServeHTTP)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLog.Info("starting server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	appLog.Info("server exited")
}
