package kafka

import (
	"context"

	"github.com/NordCoder/uptimekv/internal/domain/kafka"
	"github.com/NordCoder/uptimekv/internal/domain/outbox"
)

// CheckEventsKafka publishes check requests and status changes keyed by
// host, so all messages for one host land on one partition.
type CheckEventsKafka struct {
	requests *Producer
	changes  *Producer
}

// NewCheckEventsKafka takes one producer per topic; either may be nil when
// the binary never publishes that kind.
func NewCheckEventsKafka(requests, changes *Producer) *CheckEventsKafka {
	return &CheckEventsKafka{requests: requests, changes: changes}
}

var _ kafka.CheckEvents = (*CheckEventsKafka)(nil)

func (e *CheckEventsKafka) PublishCheckRequested(ctx context.Context, req kafka.CheckRequested) error {
	return e.requests.PublishJSON(ctx, []byte(req.Host), req)
}

func (e *CheckEventsKafka) PublishStatusChanged(ctx context.Context, ev outbox.StatusChangedPayload) error {
	return e.changes.PublishJSON(ctx, []byte(ev.Host), ev)
}
