package scheduler

import (
	"context"
	"fmt"

	"github.com/NordCoder/uptimekv/internal/services/scheduler/repo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Usecase struct {
	Targets repo.TargetSource
	Events  repo.Events
}

func NewUC(targets repo.TargetSource, events repo.Events) *Usecase {
	return &Usecase{Targets: targets, Events: events}
}

// Tick publishes one check request per target. A failed publish is counted
// and skipped; the next tick requests that target again anyway.
func (u *Usecase) Tick(ctx context.Context) (int, int, int, error) {
	tr := otel.Tracer("scheduler.uc")
	ctxTick, span := tr.Start(ctx, "scheduler.tick")
	defer span.End()

	targets, err := u.Targets.Targets(ctxTick)
	if err != nil {
		span.RecordError(err)
		return 0, 0, 1, fmt.Errorf("list targets: %w", err)
	}
	span.SetAttributes(attribute.Int("batch.fetched", len(targets)))
	if len(targets) == 0 {
		return 0, 0, 0, nil
	}

	sent, errs := 0, 0
	for _, t := range targets {
		_, sp := tr.Start(ctxTick, "scheduler.publish",
			trace.WithAttributes(
				attribute.String("uptime.host", t.Host),
				attribute.String("uptime.url", t.URL),
			),
		)
		pubErr := u.Events.PublishCheckRequested(ctxTick, t)
		if pubErr != nil {
			errs++
			sp.RecordError(pubErr)
			sp.SetAttributes(attribute.String("publish.status", "error"))
			sp.End()
			continue
		}
		sent++
		sp.SetAttributes(attribute.String("publish.status", "ok"))
		sp.End()
	}

	span.SetAttributes(
		attribute.Int("batch.sent", sent),
		attribute.Int("batch.errors", errs),
	)
	return len(targets), sent, errs, nil
}
