package checker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NordCoder/uptimekv/internal/domain/kv"
	"github.com/NordCoder/uptimekv/internal/domain/outbox"
	"github.com/NordCoder/uptimekv/internal/domain/uptime"
	"github.com/NordCoder/uptimekv/internal/obs"
	"github.com/NordCoder/uptimekv/internal/obs/retry"
	"github.com/NordCoder/uptimekv/internal/repository/history"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var ErrInvalidRequest = errors.New("host and url are required")

type CheckRequest struct {
	Host  string `json:"host"`
	URL   string `json:"url"`
	Asset string `json:"asset,omitempty"`
}

func (r CheckRequest) normalize() (CheckRequest, error) {
	r.Host = strings.TrimSpace(r.Host)
	r.URL = strings.TrimSpace(r.URL)
	r.Asset = strings.TrimSpace(r.Asset)
	if r.Host == "" || r.URL == "" {
		return r, ErrInvalidRequest
	}
	return r, nil
}

type CheckResult struct {
	Host  string       `json:"host"`
	Up    bool         `json:"up"`
	Ms    int64        `json:"ms"`
	Stats uptime.Stats `json:"stats"`
}

type Config struct {
	Policy       uptime.RetentionPolicy
	Mode         history.Mode
	CASAttempts  int
	DefaultAsset string
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

type Usecase struct {
	log    *zap.Logger
	prober uptime.Prober
	repo   uptime.HistoryRepo
	tx     uptime.Transactor
	events outbox.Enqueuer
	clock  uptime.Clock
	cfg    Config
}

// NewUsecase wires a checker. events may be nil, in which case status
// changes are not enqueued.
func NewUsecase(
	log *zap.Logger,
	prober uptime.Prober,
	repo uptime.HistoryRepo,
	tx uptime.Transactor,
	events outbox.Enqueuer,
	clock uptime.Clock,
	cfg Config,
) *Usecase {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.Policy.MaxEntries <= 0 {
		cfg.Policy = uptime.DefaultRetentionPolicy()
	}
	if cfg.Mode == "" {
		cfg.Mode = history.ModeLastWriteWins
	}
	if cfg.DefaultAsset == "" {
		cfg.DefaultAsset = DefaultAsset
	}
	return &Usecase{log: log, prober: prober, repo: repo, tx: tx, events: events, clock: clock, cfg: cfg}
}

// Check probes the site, records the outcome under req.Host and returns
// the stats of the updated history. Invalid requests return
// ErrInvalidRequest before any probe or store access.
func (u *Usecase) Check(ctx context.Context, req CheckRequest) (CheckResult, error) {
	req, err := req.normalize()
	if err != nil {
		return CheckResult{}, err
	}

	ctx, span := otel.Tracer("checker").Start(ctx, "checker.Check",
		trace.WithAttributes(attribute.String("uptime.host", req.Host)))
	defer span.End()

	asset := req.Asset
	if asset == "" {
		asset = u.cfg.DefaultAsset
	}
	rec := u.prober.Probe(ctx, BuildTarget(req.URL, asset))
	span.SetAttributes(attribute.Bool("uptime.up", rec.Up), attribute.Int64("uptime.ms", rec.LatencyMs))

	h, err := u.RecordProbe(ctx, req.Host, rec)
	if err != nil {
		span.RecordError(err)
		storeErrors.Inc()
		obs.WithTrace(ctx, u.log).Error("record probe", zap.String("host", req.Host), zap.Error(err))
		return CheckResult{}, err
	}

	return CheckResult{
		Host:  req.Host,
		Up:    rec.Up,
		Ms:    rec.LatencyMs,
		Stats: uptime.ComputeStats(h),
	}, nil
}

// RecordProbe appends rec to the host history and persists it. In
// last-write-wins mode concurrent calls for one host may lose updates; in
// compare-and-swap mode the load-apply-save cycle is retried on conflict.
func (u *Usecase) RecordProbe(ctx context.Context, host string, rec uptime.ProbeRecord) (uptime.HostHistory, error) {
	var out uptime.HostHistory
	attempt := func() error {
		return u.tx.WithTx(ctx, func(txCtx context.Context) error {
			prev, rev, err := u.repo.Load(txCtx, host)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}

			now := u.clock.Now()
			next := prev.Apply(rec, now, u.cfg.Policy)
			if err := u.repo.Save(txCtx, host, next, rev, now.Add(u.cfg.Policy.Expiry)); err != nil {
				if errors.Is(err, kv.ErrConflict) {
					storeConflicts.Inc()
				}
				return fmt.Errorf("save history: %w", err)
			}

			if last, ok := prev.Last(); ok && last.Up != rec.Up {
				statusChanges.Inc()
				if err := u.enqueueStatusChanged(txCtx, host, last.Up, rec, now); err != nil {
					return err
				}
			}
			out = next
			return nil
		})
	}

	if u.cfg.Mode != history.ModeCompareAndSwap {
		return out, attempt()
	}
	if err := retry.Do(ctx, attempt, retry.ConflictPolicy(kv.ErrConflict, u.cfg.CASAttempts, u.log)); err != nil {
		return uptime.HostHistory{}, err
	}
	return out, nil
}

func (u *Usecase) enqueueStatusChanged(ctx context.Context, host string, old bool, rec uptime.ProbeRecord, at time.Time) error {
	if u.events == nil {
		return nil
	}
	b, err := json.Marshal(outbox.StatusChangedPayload{
		Host:      host,
		Old:       old,
		New:       rec.Up,
		At:        at.UTC(),
		LatencyMs: rec.LatencyMs,
	})
	if err != nil {
		return fmt.Errorf("marshal status change: %w", err)
	}
	key := fmt.Sprintf("status:%s:%s", host, uuid.NewString())
	if err := u.events.Enqueue(ctx, key, outbox.KindStatusChanged, b); err != nil {
		return fmt.Errorf("outbox enqueue: %w", err)
	}
	return nil
}
