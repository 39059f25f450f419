package repo

import (
	"context"

	"github.com/NordCoder/uptimekv/internal/domain/kafka"
)

type TargetSource interface {
	Targets(ctx context.Context) ([]kafka.CheckRequested, error)
}

type Events interface {
	PublishCheckRequested(ctx context.Context, req kafka.CheckRequested) error
}

// StaticTargets serves the target list from configuration.
type StaticTargets []kafka.CheckRequested

func (s StaticTargets) Targets(context.Context) ([]kafka.CheckRequested, error) {
	return s, nil
}
