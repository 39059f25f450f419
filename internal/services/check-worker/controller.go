package check_worker

import (
	"context"
	"errors"

	"github.com/NordCoder/uptimekv/internal/domain/kafka"
	"github.com/NordCoder/uptimekv/internal/obs"
	kafkax "github.com/NordCoder/uptimekv/internal/repository/kafka"
	"github.com/NordCoder/uptimekv/internal/services/checker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	mMsgs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "check_worker_messages_consumed_total", Help: "Check requests consumed",
	})
	mInvalid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "check_worker_invalid_requests_total", Help: "Check requests skipped as invalid",
	})
	mErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "check_worker_errors_total", Help: "Check requests that failed to record",
	})
)

type Consumer interface {
	Consume(ctx context.Context, h kafkax.Handler) error
}

type Controller struct {
	Log *zap.Logger
	Sub Consumer
	UC  checker.Checker
}

// Handle runs one check. Invalid requests are skipped, store failures are
// returned so the message is not committed.
func (c *Controller) Handle(ctx context.Context, _ []byte, msg kafka.CheckRequested) error {
	mMsgs.Inc()
	log := obs.WithTrace(ctx, c.Log)

	res, err := c.UC.Check(ctx, checker.CheckRequest{Host: msg.Host, URL: msg.URL, Asset: msg.Asset})
	switch {
	case errors.Is(err, checker.ErrInvalidRequest):
		mInvalid.Inc()
		log.Warn("invalid check request", zap.String("host", msg.Host), zap.String("url", msg.URL))
		return nil
	case err != nil:
		mErrors.Inc()
		return err
	}
	log.Debug("check recorded",
		zap.String("host", res.Host), zap.Bool("up", res.Up), zap.Int64("ms", res.Ms))
	return nil
}

func (c *Controller) Run(ctx context.Context) error {
	err := c.Sub.Consume(ctx, kafkax.JSONHandler(c.Handle))
	if err != nil && !errors.Is(err, context.Canceled) {
		c.Log.Warn("kafka consume", zap.Error(err))
		return err
	}
	return ctx.Err()
}
