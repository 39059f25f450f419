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

	config "github.com/NordCoder/uptimekv/internal/config/scheduler"
	domainkafka "github.com/NordCoder/uptimekv/internal/domain/kafka"
	"github.com/NordCoder/uptimekv/internal/obs"
	"github.com/NordCoder/uptimekv/internal/repository/kafka"
	"github.com/NordCoder/uptimekv/internal/services/scheduler"
	"github.com/NordCoder/uptimekv/internal/services/scheduler/repo"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func targets(cfg *config.Config) repo.StaticTargets {
	out := make(repo.StaticTargets, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		out = append(out, domainkafka.CheckRequested{Host: t.Host, URL: t.URL, Asset: t.Asset})
	}
	return out
}

func main() {
	cfgPath := flag.String("config", "config/scheduler.yaml", "path to YAML config")
	flag.Parse()
	_ = godotenv.Load()

	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	l, err := obs.NewLogger(cfg.Log.AsLoggerConfig(cfg.App))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()
	l.Info("starting scheduler",
		zap.String("schedule", cfg.Sched.Schedule),
		zap.Int("targets", len(cfg.Targets)),
	)

	otelCloser, err := obs.SetupOTel(root, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, nil, l)

	prod := kafka.BootstrapProducer(root, cfg.Kafka.Brokers, cfg.Kafka.Topic, 3, l)
	defer func() { _ = prod.Close() }()

	uc := scheduler.NewUC(targets(cfg), kafka.NewCheckEventsKafka(prod, nil))
	r := scheduler.New(l.Named("scheduler"), uc, cfg.Sched.Schedule, cfg.Sched.PublishTimeout)

	if err := r.Run(root); err != nil && !errors.Is(err, context.Canceled) {
		l.Error("scheduler stopped", zap.Error(err))
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
