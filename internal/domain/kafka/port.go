package kafka

import (
	"context"

	"github.com/NordCoder/uptimekv/internal/domain/outbox"
)

// CheckRequested asks a check worker to probe URL+Asset and record the
// result under Host.
type CheckRequested struct {
	Host  string `json:"host"`
	URL   string `json:"url"`
	Asset string `json:"asset,omitempty"`
}

type CheckEvents interface {
	PublishCheckRequested(ctx context.Context, req CheckRequested) error
	PublishStatusChanged(ctx context.Context, ev outbox.StatusChangedPayload) error
}
