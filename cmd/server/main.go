package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/clock"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/event-booking/internal/config"
	"github.com/iliyamo/event-booking/internal/database"
	"github.com/iliyamo/event-booking/internal/handler"
	"github.com/iliyamo/event-booking/internal/metrics"
	"github.com/iliyamo/event-booking/internal/middleware"
	"github.com/iliyamo/event-booking/internal/queue"
	"github.com/iliyamo/event-booking/internal/repository"
	"github.com/iliyamo/event-booking/internal/router"
	"github.com/iliyamo/event-booking/internal/service"
	"github.com/iliyamo/event-booking/internal/utils"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	if err := config.DotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("schema migrated")
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig(), logger)
	if rdb != nil {
		defer rdb.Close()
	}

	clk := clock.WallClock
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := repository.NewEventRepo(db)
	categories := repository.NewCategoryRepo(db)
	packages := repository.NewPackageRepo(db)
	bookings := repository.NewBookingRepo(db)
	stats := repository.NewStatsRepo(db)
	hasher := utils.NewHasher(cfg.BcryptCost)

	var publisher service.AuditPublisher
	if cfg.RabbitURL != "" {
		publisher = queue.NewPublisher(cfg.RabbitURL, logger)
		if cfg.AuditConsumer {
			consumer := &queue.Consumer{URL: cfg.RabbitURL, Dir: cfg.AuditLogDir, Logger: logger}
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("audit consumer stopped", "err", err)
				}
			}()
		}
	}

	guard := service.NewAccountGuard(users, hasher, clk, logger)
	auth := service.NewAuthService(users, tokens, hasher, guard, service.TokenSettings{
		Secret:         cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
	}, clk, logger)
	catalog := service.NewCatalogService(events, categories, packages)
	workflow := service.NewBookingWorkflow(events, packages, bookings, publisher, clk, logger)
	admin := service.NewAdminService(bookings, users, stats, publisher, clk, logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(metrics.Middleware())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status,
				"latency", v.Latency, "request_id", v.RequestID}
			if v.Error != nil {
				logger.Warn("request", append(attrs, "err", v.Error)...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	}))

	cacheCfg := config.LoadCacheConfig()
	authCfg := router.Auth{Secret: cfg.JWTSecret, Clock: clk}
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(auth), authCfg,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, clk, logger))
	router.RegisterPublic(e, handler.NewPublicHandler(catalog),
		middleware.NewRedisCache(cacheCfg, rdb, logger))
	router.RegisterBooking(e, handler.NewBookingHandler(workflow), authCfg)
	router.RegisterAdmin(e, handler.NewAdminHandler(admin), handler.NewAdminCatalogHandler(catalog), authCfg,
		middleware.InvalidateCache(cacheCfg, rdb, logger))

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
