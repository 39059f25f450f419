package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NordCoder/uptimekv/internal/bootstrap"
	config "github.com/NordCoder/uptimekv/internal/config/check-worker"
	"github.com/NordCoder/uptimekv/internal/obs"
	"github.com/NordCoder/uptimekv/internal/repository"
	"github.com/NordCoder/uptimekv/internal/repository/kafka"
	checkworker "github.com/NordCoder/uptimekv/internal/services/check-worker"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "config/check-worker.yaml", "path to YAML config")
	flag.Parse()
	_ = godotenv.Load()

	// init
	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	// logger
	l, err := obs.NewLogger(cfg.Log.AsLoggerConfig(cfg.App))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	// otel
	otelCloser, err := obs.SetupOTel(root, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	// store
	backend, err := repository.Open(root, cfg.Store.Config, l)
	if err != nil {
		l.Fatal("store open", zap.Error(err))
	}
	defer backend.Close()

	uc, err := bootstrap.NewChecker(bootstrap.CheckerDeps{
		Store: cfg.Store, History: cfg.History, Probe: cfg.Probe, Events: cfg.Events,
	}, backend, l)
	if err != nil {
		l.Fatal("wire checker", zap.Error(err))
	}

	// metrics
	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, backend.Ping, l)

	// kafka
	cons := kafka.BootstrapConsumer(root, &kafka.ConsumerConfig{
		Brokers: cfg.In.Brokers,
		GroupID: cfg.In.GroupID,
		Topic:   cfg.In.Topic,
	}, cfg.Events.Partitions, l)
	defer func() { _ = cons.Close() }()
	l.Info("kafka consumer initialized",
		zap.Strings("brokers", cfg.In.Brokers),
		zap.String("group_id", cfg.In.GroupID),
		zap.String("topic", cfg.In.Topic),
	)

	// start
	stopOutbox := bootstrap.StartOutbox(root, cfg.Events, cfg.Outbox, backend, l)
	bootstrap.StartJanitor(root, cfg.Janitor, backend, l)

	ctrl := &checkworker.Controller{Log: l.Named("worker"), Sub: cons, UC: uc}
	errCh := make(chan error, 1)
	go func() { errCh <- ctrl.Run(root) }()

	// loop
	select {
	case <-root.Done():
		l.Info("shutdown signal")
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("controller error", zap.Error(err))
		}
	}
	stop()
	stopOutbox()

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
