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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-selection/internal/cache"
	"github.com/iliyamo/cinema-seat-selection/internal/config"
	"github.com/iliyamo/cinema-seat-selection/internal/database"
	"github.com/iliyamo/cinema-seat-selection/internal/handler"
	"github.com/iliyamo/cinema-seat-selection/internal/handoff"
	"github.com/iliyamo/cinema-seat-selection/internal/loader"
	"github.com/iliyamo/cinema-seat-selection/internal/middleware"
	"github.com/iliyamo/cinema-seat-selection/internal/pricing"
	"github.com/iliyamo/cinema-seat-selection/internal/remote"
	"github.com/iliyamo/cinema-seat-selection/internal/repository"
	"github.com/iliyamo/cinema-seat-selection/internal/router"
	"github.com/iliyamo/cinema-seat-selection/internal/session"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional: without it caching and rate limiting are off.
	var rdb *redis.Client
	if cfg.Cache.Enabled || cfg.RateLimit.Enabled {
		rdb, err = config.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable; cache and rate limit disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	fetcher, closeSource, err := newSource(cfg, logger)
	if err != nil {
		logger.Fatal("resource source", zap.String("source", cfg.ResourceSource), zap.Error(err))
	}
	defer closeSource()
	if rdb != nil {
		fetcher = cache.Wrap(fetcher, cache.NewRedisStore(rdb), cfg.Cache, logger.Named("cache"))
	}

	var gw handoff.Gateway = handoff.LogGateway{Log: logger.Named("handoff")}
	if cfg.Queue.Enabled {
		gw = handoff.NewAMQPGateway(cfg.Queue.URL, cfg.Queue.Name, logger.Named("handoff"))
	}

	hub := session.NewHub(ctx, session.Deps{
		Fetcher:      fetcher,
		Pricing:      pricing.NewEngine(cfg.Selection.PriceTable, cfg.Selection.ServiceFee),
		Gateway:      gw,
		FetchTimeout: cfg.Selection.FetchTimeout,
		Log:          logger.Named("session"),
	})
	defer hub.Shutdown()

	sched, err := session.StartScheduler(hub, cfg.Selection.AvailabilityRefresh, cfg.Selection.IdleTTL, logger.Named("scheduler"))
	if err != nil {
		logger.Fatal("scheduler", zap.Error(err))
	}
	defer func() { _ = sched.Shutdown() }()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger.Named("http")))

	router.RegisterRoutes(e, handler.HealthHandler{Redis: rdb, Sessions: hub.Len})
	router.RegisterSelection(e,
		handler.NewSelectionHandler(hub, cfg.Selection.MaxTickets, logger.Named("handler")),
		cfg.JWTSecret,
		middleware.NewTokenBucket(cfg.RateLimit, rdb, logger.Named("ratelimit")),
	)

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening",
			zap.String("addr", addr),
			zap.String("env", cfg.Env),
			zap.String("source", cfg.ResourceSource),
			zap.Bool("queue", cfg.Queue.Enabled),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProd() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newSource picks where showtimes, seat maps and availability come from.
func newSource(cfg config.Config, logger *zap.Logger) (loader.Fetcher, func(), error) {
	switch cfg.ResourceSource {
	case config.SourceMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewCatalog(db), func() { _ = db.Close() }, nil
	default:
		c := remote.New(cfg.UpstreamURL,
			remote.WithHTTPClient(&http.Client{Timeout: cfg.Selection.FetchTimeout}),
			remote.WithBearerToken(cfg.UpstreamToken),
			remote.WithLogger(logger.Named("upstream")),
		)
		return c, func() {}, nil
	}
}
