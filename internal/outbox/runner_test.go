package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainkafka "github.com/NordCoder/uptimekv/internal/domain/kafka"
	"github.com/NordCoder/uptimekv/internal/domain/outbox"
	"github.com/NordCoder/uptimekv/internal/obs/retry"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	mu      sync.Mutex
	pending []outbox.Message
	done    []string
}

func (m *memRepo) Enqueue(_ context.Context, key string, kind outbox.Kind, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, outbox.Message{IdempotencyKey: key, Kind: kind, Data: data})
	return nil
}

func (m *memRepo) PickBatch(_ context.Context, batch int, _ time.Duration) ([]outbox.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := min(batch, len(m.pending))
	out := m.pending[:n]
	m.pending = m.pending[n:]
	return out, nil
}

func (m *memRepo) MarkSuccess(_ context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.done = append(m.done, keys...)
	return nil
}

func (m *memRepo) doneKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.done...)
}

type fakeEvents struct {
	mu      sync.Mutex
	changes []outbox.StatusChangedPayload
	failFor string
}

func (f *fakeEvents) PublishCheckRequested(context.Context, domainkafka.CheckRequested) error {
	return nil
}

func (f *fakeEvents) PublishStatusChanged(_ context.Context, ev outbox.StatusChangedPayload) error {
	if ev.Host == f.failFor {
		return errors.New("broker down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, ev)
	return nil
}

func payload(t *testing.T, host string) []byte {
	t.Helper()
	b, err := json.Marshal(outbox.StatusChangedPayload{Host: host, Old: true, New: false})
	require.NoError(t, err)
	return b
}

func TestRunner_PublishesAndMarks(t *testing.T) {
	repo := &memRepo{}
	ctx := context.Background()
	require.NoError(t, repo.Enqueue(ctx, "k1", outbox.KindStatusChanged, payload(t, "a")))
	require.NoError(t, repo.Enqueue(ctx, "k2", outbox.KindStatusChanged, payload(t, "down")))
	require.NoError(t, repo.Enqueue(ctx, "k3", outbox.KindStatusChanged, []byte("garbage")))
	require.NoError(t, repo.Enqueue(ctx, "k4", outbox.Kind(99), nil))

	events := &fakeEvents{failFor: "down"}
	pol := retry.Policy{Attempts: 2}
	r := NewOutboxRunner(zap.NewNop(), repo, MakeGlobalOutboxHandler(events, pol), 1, 10, 10*time.Millisecond, time.Second)

	r.tick(ctx)

	assert.Equal(t, []string{"k1"}, repo.doneKeys())
	require.Len(t, events.changes, 1)
	assert.Equal(t, "a", events.changes[0].Host)
}

func TestRunner_StartStops(t *testing.T) {
	repo := &memRepo{}
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, repo.Enqueue(ctx, "k1", outbox.KindStatusChanged, payload(t, "a")))

	r := NewOutboxRunner(zap.NewNop(), repo, MakeGlobalOutboxHandler(&fakeEvents{}, retry.Policy{}), 2, 10, 5*time.Millisecond, time.Second)
	r.Start(ctx)

	assert.Eventually(t, func() bool { return len(repo.doneKeys()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	r.Wait()
}

func TestWrapKindHandler_Retries(t *testing.T) {
	calls := 0
	h := WrapKindHandler(func(context.Context, []byte) error {
		calls++
		if calls < 2 {
			return errors.New("again")
		}
		return nil
	}, retry.Policy{Attempts: 3})

	require.NoError(t, h(context.Background(), nil))
	assert.Equal(t, 2, calls)
}
