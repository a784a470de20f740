package main

import (
	"context"
	"errors"
	"io/fs"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/realwork/site/internal/config"
	"github.com/realwork/site/internal/db"
	"github.com/realwork/site/internal/handler"
	"github.com/realwork/site/internal/observability"
	applog "github.com/realwork/site/internal/platform/log"
	"github.com/realwork/site/internal/ratelimit"
	"github.com/realwork/site/internal/router"
	"github.com/realwork/site/internal/service"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		stdlog.Printf("failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("failed to load config: %v", err)
	}

	logger, err := applog.NewLogger(cfg.LogLevel)
	if err != nil {
		stdlog.Fatalf("failed to build logger: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithField("stack", eris.ToString(err, true)).Fatal("server stopped with error")
	}
}

func run(cfg config.AppConfig, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, flushSentry, err := applog.InitSentry(logger, applog.SentrySettings{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
	})
	if err != nil {
		return err
	}
	defer flushSentry()

	shutdownTracing, err := observability.InitTracing(ctx, logger, observability.TracingSettings{
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		Environment: cfg.Environment,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.WithError(err).Warn("otel shutdown failed")
		}
	}()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// 初始化数据库
	gdb, err := db.Open(db.Options{
		Driver: cfg.DatabaseDriver,
		DSN:    cfg.DatabaseDSN,
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logger.WithError(err).Warn("closing database failed")
		}
	}()

	if cfg.SeedPages {
		if err := service.NewPageService(gdb).SeedDefaults(ctx); err != nil {
			return err
		}
		logger.Info("default pages seeded")
	}

	limiter, closeLimiter, err := buildLeadLimiter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	api, err := handler.NewAPI(gdb, handler.Options{
		SiteBaseURL:   cfg.SiteBaseURL,
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		Development:   cfg.IsDevelopment(),
		Logger:        logger,
		LeadLimiter:   limiter,
	})
	if err != nil {
		return err
	}
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		logger.Warn("admin credentials not configured, admin login disabled")
	}

	// 设置并运行 Gin 服务器
	srv := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: router.SetupRouter(api, router.Options{
			SessionSecret:  cfg.SessionSecret,
			CORSOrigins:    cfg.CORSOrigins,
			TrustedProxies: cfg.TrustedProxies,
			Tracing:        cfg.OTelEnabled,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":        cfg.ListenAddr,
			"environment": cfg.Environment,
			"driver":      cfg.DatabaseDriver,
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return eris.Wrap(err, "http server failed")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "graceful shutdown failed")
	}
	return nil
}

// buildLeadLimiter 在配置了 REDIS_ADDR 时使用 Redis 共享计数，否则使用进程内限流器。
func buildLeadLimiter(ctx context.Context, cfg config.AppConfig, logger *logrus.Logger) (ratelimit.Limiter, func(), error) {
	if cfg.LeadRateLimit <= 0 {
		logger.Warn("lead rate limiting disabled")
		return nil, func() {}, nil
	}

	if cfg.RedisAddr != "" {
		rdb, err := ratelimit.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("addr", cfg.RedisAddr).Info("lead rate limiter using redis")
		closeFn := func() {
			if err := rdb.Close(); err != nil {
				logger.WithError(err).Warn("closing redis client failed")
			}
		}
		return ratelimit.NewRedisLimiter(rdb, "realwork:leads", cfg.LeadRateLimit, cfg.LeadRateWindow), closeFn, nil
	}

	limiter := ratelimit.NewMemoryLimiter(cfg.LeadRateLimit, cfg.LeadRateWindow, cfg.LeadRateKeys)
	pruneCtx, cancel := context.WithCancel(ctx)
	go limiter.Run(pruneCtx, time.Minute)
	return limiter, cancel, nil
}
