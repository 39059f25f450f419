package bootstrap

import (
	"context"
	"fmt"

	"github.com/NordCoder/uptimekv/internal/config/common"
	"github.com/NordCoder/uptimekv/internal/domain/kv"
	domainoutbox "github.com/NordCoder/uptimekv/internal/domain/outbox"
	"github.com/NordCoder/uptimekv/internal/obs/retry"
	"github.com/NordCoder/uptimekv/internal/outbox"
	"github.com/NordCoder/uptimekv/internal/repository"
	"github.com/NordCoder/uptimekv/internal/repository/history"
	"github.com/NordCoder/uptimekv/internal/repository/kafka"
	"github.com/NordCoder/uptimekv/internal/services/checker"
	"github.com/NordCoder/uptimekv/internal/services/janitor"
	"go.uber.org/zap"
)

type CheckerDeps struct {
	Store   common.Store
	History common.History
	Probe   common.Probe
	Events  common.Events
}

// NewChecker builds the probe-and-record usecase on top of backend.
func NewChecker(d CheckerDeps, backend *repository.Backend, l *zap.Logger) (*checker.Usecase, error) {
	mode, err := history.ParseMode(d.Store.Concurrency)
	if err != nil {
		return nil, err
	}
	prefix := d.Store.KeyPrefix
	if prefix == "" {
		prefix = history.DefaultKeyPrefix
	}

	var events domainoutbox.Enqueuer
	if d.Events.Enable {
		if backend.Outbox == nil {
			return nil, fmt.Errorf("events enabled but store driver %q has no outbox", d.Store.Driver)
		}
		events = backend.Outbox
	}

	prober := checker.NewHTTPProber(checker.NewHTTPClient(d.Probe), d.Probe.Timeout, d.Probe.UserAgent, l.Named("prober"))
	return checker.NewUsecase(
		l.Named("checker"),
		prober,
		history.NewRepo(backend.KV, prefix, mode),
		backend.Transactor,
		events,
		checker.RealClock{},
		checker.Config{
			Policy:       d.History.AsPolicy(),
			Mode:         mode,
			CASAttempts:  d.Store.CASAttempts,
			DefaultAsset: d.Probe.DefaultAsset,
		},
	), nil
}

// StartOutbox starts the status-change relay when events are enabled. The
// returned stop func waits for the workers and closes the producer.
func StartOutbox(ctx context.Context, ev common.Events, oc common.Outbox, backend *repository.Backend, l *zap.Logger) func() {
	if !ev.Enable || backend.Outbox == nil {
		return func() {}
	}
	prod := kafka.BootstrapProducer(ctx, ev.Brokers, ev.Topic, ev.Partitions, l)
	pub := kafka.NewCheckEventsKafka(nil, prod)

	runner := outbox.NewOutboxRunner(
		l.Named("outbox"),
		backend.Outbox,
		outbox.MakeGlobalOutboxHandler(pub, retry.DefaultKafkaPolicy(l)),
		oc.Workers,
		oc.BatchSize,
		oc.Wait,
		oc.InProgressTTL,
	)
	runner.Start(ctx)
	return func() {
		runner.Wait()
		_ = prod.Close()
	}
}

// StartJanitor sweeps expired documents in the background when the store
// supports it.
func StartJanitor(ctx context.Context, jc common.Janitor, backend *repository.Backend, l *zap.Logger) {
	if !jc.Enable {
		return
	}
	sw, ok := backend.KV.(kv.Sweeper)
	if !ok {
		return
	}
	go func() { _ = janitor.New(l.Named("janitor"), sw, jc.Interval).Run(ctx) }()
}
