package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/greenpula/greenpula/internal/config"
	"github.com/greenpula/greenpula/internal/infra"
	"github.com/greenpula/greenpula/internal/insights"
	"github.com/greenpula/greenpula/internal/logging"
	"github.com/greenpula/greenpula/internal/pricefeed"
	"github.com/greenpula/greenpula/internal/routes"
	"github.com/greenpula/greenpula/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := routes.Deps{Cfg: cfg, Logger: logger}

	if cfg.DatabaseURL != "" {
		db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		deps.DB = db
	} else {
		logger.Warn("no DATABASE_URL, running on in-memory stores")
	}

	if cfg.RedisURL != "" {
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
		deps.Cache = cache
	}

	poller := pricefeed.NewPoller(pricefeed.NewClient(cfg.PriceFeedURL), cfg.PricePollEvery, deps.Cache, logger)
	go poller.Run(ctx)
	deps.Price = poller

	if cfg.GenAIAPIKey != "" {
		generator, err := insights.NewGenAIGenerator(ctx, cfg.GenAIAPIKey)
		if err != nil {
			logger.Warn("insights disabled", "error", err)
		} else {
			deps.Insights = insights.NewService(generator)
		}
	} else {
		logger.Warn("GENAI_API_KEY not set, serving canned insights")
	}

	srv, err := server.New(deps)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
