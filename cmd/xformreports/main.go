package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/xformreports/internal/api"
	"github.com/ougirez/xformreports/internal/config"
	"github.com/ougirez/xformreports/internal/pkg/logger"
	"github.com/ougirez/xformreports/internal/pkg/store"
	"github.com/ougirez/xformreports/internal/pkg/store/xpgx"
	"github.com/ougirez/xformreports/internal/service/poll"
	"golang.org/x/sync/errgroup"
)

const (
	connectTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to a config file")
	flag.Parse()

	if err := logger.Init("info"); err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf(context.Background(), "config.Load: %s", err.Error())
	}

	if err := logger.Init(cfg.Log.Level); err != nil {
		logger.Fatalf(context.Background(), "logger.Init: %s", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DB.URL == "" {
		logger.Fatal(ctx, "db.url is required")
	}

	pool, err := xpgx.Connect(ctx, cfg.DB.URL, connectTimeout)
	if err != nil {
		logger.Fatalf(ctx, "xpgx.Connect: %s", err.Error())
	}
	defer pool.Close()

	apiService, err := api.NewAPIService(cfg, store.NewStore(xpgx.New(pool)), poll.NewRegistry())
	if err != nil {
		logger.Fatalf(ctx, "api.NewAPIService: %s", err.Error())
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Infof(egCtx, "listening on %s", cfg.HTTP.Addr)
		return apiService.Serve(cfg.HTTP.Addr)
	})
	eg.Go(func() error {
		<-egCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info(shutdownCtx, "shutting down")
		return apiService.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		logger.Errorf(ctx, "server stopped: %s", err.Error())
	}
}
