package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/NordCoder/uptimekv/internal/bootstrap"
	config "github.com/NordCoder/uptimekv/internal/config/uptime-api"
	"github.com/NordCoder/uptimekv/internal/obs"
	"github.com/NordCoder/uptimekv/internal/repository"
	"github.com/NordCoder/uptimekv/internal/services/checker"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "config/uptime-api.yaml", "path to YAML config")
	flag.Parse()
	_ = godotenv.Load()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := obs.NewLogger(cfg.Log.AsLoggerConfig(cfg.App))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting uptime-api",
		zap.String("store", cfg.Store.Driver),
		zap.String("concurrency", cfg.Store.Concurrency),
		zap.Bool("events", cfg.Events.Enable),
	)

	otelCloser, err := obs.SetupOTel(rootCtx, cfg.OTEL.AsOTELConfig())
	if err != nil {
		logger.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	backend, err := repository.Open(rootCtx, cfg.Store.Config, logger)
	if err != nil {
		logger.Fatal("store open", zap.Error(err))
	}
	defer backend.Close()

	uc, err := bootstrap.NewChecker(bootstrap.CheckerDeps{
		Store: cfg.Store, History: cfg.History, Probe: cfg.Probe, Events: cfg.Events,
	}, backend, logger)
	if err != nil {
		logger.Fatal("wire checker", zap.Error(err))
	}

	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, backend.Ping, logger)

	workCtx, cancelWork := context.WithCancel(context.Background())
	stopOutbox := bootstrap.StartOutbox(workCtx, cfg.Events, cfg.Outbox, backend, logger)
	bootstrap.StartJanitor(workCtx, cfg.Janitor, backend, logger)

	grpcServer, grpcLn, health, err := buildGRPCServer(cfg, logger)
	if err != nil {
		logger.Fatal("build grpc", zap.Error(err))
	}
	go watchHealth(workCtx, health, backend.Ping, logger)

	grpcErrCh := make(chan error, 1)
	go func() { grpcErrCh <- serveGRPC(grpcServer, grpcLn, cfg, logger) }()

	httpSrv := buildHTTPServer(cfg, checker.NewHandler(logger.Named("http"), uc))
	httpErrCh := make(chan error, 1)
	go func() { httpErrCh <- serveHTTP(httpSrv, cfg, logger) }()

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal", zap.String("reason", "context canceled"))
	case err := <-grpcErrCh:
		if err != nil {
			logger.Error("grpc serve", zap.Error(err))
		}
	case err := <-httpErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	health.Shutdown()
	// In-flight checks finish their write before the store is closed.
	_ = httpSrv.Shutdown(shCtx)
	gracefulStopGRPC(grpcServer)
	cancelWork()
	stopOutbox()
	_ = ms.Shutdown(shCtx)
	logger.Info("bye")
}
