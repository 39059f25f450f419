package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "github.com/NordCoder/uptimekv/internal/domain/kafka"
	"github.com/NordCoder/uptimekv/internal/domain/outbox"
	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	m := r.queue[0]
	r.queue = r.queue[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestCheckEvents_KeyedByHost(t *testing.T) {
	reqW, chW := &fakeWriter{}, &fakeWriter{}
	ev := NewCheckEventsKafka(newProducer(reqW, "requests"), newProducer(chW, "changes"))

	require.NoError(t, ev.PublishCheckRequested(context.Background(), domain.CheckRequested{Host: "example", URL: "https://example.com"}))
	require.NoError(t, ev.PublishStatusChanged(context.Background(), outbox.StatusChangedPayload{
		Host: "example", Old: true, New: false, At: time.Unix(10, 0).UTC(), LatencyMs: 10000,
	}))

	require.Len(t, reqW.msgs, 1)
	assert.Equal(t, "example", string(reqW.msgs[0].Key))
	assert.JSONEq(t, `{"host":"example","url":"https://example.com"}`, string(reqW.msgs[0].Value))

	require.Len(t, chW.msgs, 1)
	var got outbox.StatusChangedPayload
	require.NoError(t, json.Unmarshal(chW.msgs[0].Value, &got))
	assert.Equal(t, int64(10000), got.LatencyMs)
	assert.False(t, got.New)
}

func TestProducer_WriteError(t *testing.T) {
	p := newProducer(&fakeWriter{err: errors.New("broker down")}, "t")
	assert.Error(t, p.PublishJSON(context.Background(), []byte("k"), map[string]int{"a": 1}))
}

func TestConsumer_CommitsHandledAndMalformed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &fakeReader{cancel: cancel, queue: []kafka.Message{
		{Offset: 1, Value: []byte(`{"host":"a","url":"https://a"}`)},
		{Offset: 2, Value: []byte(`not json`)},
		{Offset: 3, Value: []byte(`{"host":"fail","url":"https://b"}`)},
	}}
	c := newConsumer(r, &ConsumerConfig{Topic: "t", GroupID: "g", Logger: zap.NewNop()})

	var seen []string
	err := c.Consume(ctx, JSONHandler(func(_ context.Context, _ []byte, m domain.CheckRequested) error {
		seen = append(seen, m.Host)
		if m.Host == "fail" {
			return errors.New("transient")
		}
		return nil
	}))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a", "fail"}, seen)
	assert.Equal(t, []int64{1, 2}, r.committed)
}

func TestJSONHandler_Malformed(t *testing.T) {
	h := JSONHandler(func(context.Context, []byte, domain.CheckRequested) error { return nil })
	assert.ErrorIs(t, h(context.Background(), nil, []byte("{")), ErrMalformed)
}
