package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/pawhub/internal/auth"
	"github.com/geocoder89/pawhub/internal/config"
	"github.com/geocoder89/pawhub/internal/db"
	httpx "github.com/geocoder89/pawhub/internal/http"
	"github.com/geocoder89/pawhub/internal/observability"
	"github.com/geocoder89/pawhub/internal/payments"
	"github.com/geocoder89/pawhub/internal/ratelimit"
	"github.com/geocoder89/pawhub/internal/redisclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, "pawhub-api", cfg.OTELEndpoint)
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	if cfg.AdminEmail != "" {
		if err := db.EnsureAdminUser(ctx, pool, cfg.AdminEmail, cfg.AdminName); err != nil {
			log.Error("admin seed failed", "err", err)
			os.Exit(1)
		}
		log.Info("admin identity ensured", "email", cfg.AdminEmail)
	}

	deps := httpx.PostgresDeps(pool, prom)
	deps.Tokens = auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	deps.Payments = payments.NewProcessor(cfg.StripeSecretKey, cfg.Currency)
	deps.Metrics = reg

	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rc.Close() }()

		deps.Limiter = ratelimit.NewRedis(rc.Raw(), "pawhub:ratelimit:", cfg.TokenRateLimitPerMinute, time.Minute)
		deps.Health["redis"] = rc
	} else {
		log.Warn("REDIS_ADDR not set, rate limits are per process")
	}

	router := httpx.NewRouter(log, deps, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCtx, cancel := config.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", "err", err)
	}

	log.Info("shutdown complete")
}
