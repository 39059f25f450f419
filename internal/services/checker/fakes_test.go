package checker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/NordCoder/uptimekv/internal/domain/outbox"
	"github.com/NordCoder/uptimekv/internal/domain/uptime"
	"github.com/NordCoder/uptimekv/internal/repository/history"
	"github.com/NordCoder/uptimekv/internal/repository/memory"
	"go.uber.org/zap"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

// scriptedProber returns the queued records in order and remembers targets.
type scriptedProber struct {
	mu      sync.Mutex
	records []uptime.ProbeRecord
	targets []string
}

func (p *scriptedProber) Probe(_ context.Context, target string) uptime.ProbeRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.targets = append(p.targets, target)
	rec := p.records[0]
	p.records = p.records[1:]
	return rec
}

// spyRepo counts store access.
type spyRepo struct {
	uptime.HistoryRepo
	loads, saves int
	loadErr      error
}

func (s *spyRepo) Load(ctx context.Context, host string) (uptime.HostHistory, uptime.Revision, error) {
	s.loads++
	if s.loadErr != nil {
		return uptime.HostHistory{}, 0, s.loadErr
	}
	return s.HistoryRepo.Load(ctx, host)
}

func (s *spyRepo) Save(ctx context.Context, host string, h uptime.HostHistory, rev uptime.Revision, exp time.Time) error {
	s.saves++
	return s.HistoryRepo.Save(ctx, host, h, rev, exp)
}

// interleavingRepo runs onLoad once, right after the first Load returned,
// emulating a concurrent writer between read and write.
type interleavingRepo struct {
	uptime.HistoryRepo
	onLoad func()
	fired  bool
}

func (r *interleavingRepo) Load(ctx context.Context, host string) (uptime.HostHistory, uptime.Revision, error) {
	h, rev, err := r.HistoryRepo.Load(ctx, host)
	if !r.fired {
		r.fired = true
		r.onLoad()
	}
	return h, rev, err
}

type recordingOutbox struct {
	keys     []string
	payloads [][]byte
	err      error
}

func (o *recordingOutbox) Enqueue(_ context.Context, key string, kind outbox.Kind, data []byte) error {
	if o.err != nil {
		return o.err
	}
	if kind != outbox.KindStatusChanged {
		return errors.New("unexpected kind")
	}
	o.keys = append(o.keys, key)
	o.payloads = append(o.payloads, data)
	return nil
}

type nopTx struct{}

func (nopTx) WithTx(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }

type fixture struct {
	clock  *fakeClock
	store  *memory.KV
	repo   *history.Repo
	prober *scriptedProber
}

func newFixture(mode history.Mode, records ...uptime.ProbeRecord) *fixture {
	clock := &fakeClock{t: time.UnixMilli(1000)}
	store := memory.NewKV(memory.WithClock(clock.Now))
	return &fixture{
		clock:  clock,
		store:  store,
		repo:   history.NewRepo(store, history.DefaultKeyPrefix, mode),
		prober: &scriptedProber{records: records},
	}
}

func (f *fixture) usecase(repo uptime.HistoryRepo, events outbox.Enqueuer, mode history.Mode) *Usecase {
	return NewUsecase(zap.NewNop(), f.prober, repo, nopTx{}, events, f.clock, Config{Mode: mode, CASAttempts: 3})
}
