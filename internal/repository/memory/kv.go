package memory

import (
	"context"
	"sync"
	"time"

	"github.com/NordCoder/uptimekv/internal/domain/kv"
)

var (
	_ kv.Store   = (*KV)(nil)
	_ kv.Sweeper = (*KV)(nil)
)

type item struct {
	value     []byte
	revision  int64
	expiresAt time.Time
}

// KV is an in-process kv.Store. Values are copied on the way in and out.
type KV struct {
	mu    sync.Mutex
	items map[string]item
	now   func() time.Time
}

type Option func(*KV)

func WithClock(now func() time.Time) Option {
	return func(s *KV) { s.now = now }
}

func NewKV(opts ...Option) *KV {
	s := &KV{
		items: make(map[string]item),
		now:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *KV) live(key string) (item, bool) {
	it, ok := s.items[key]
	if !ok {
		return item{}, false
	}
	if !it.expiresAt.After(s.now()) {
		return it, false
	}
	return it, true
}

func (s *KV) Get(_ context.Context, key string) (kv.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.live(key)
	if !ok {
		return kv.Entry{}, kv.ErrNotFound
	}
	return kv.Entry{
		Value:     append([]byte(nil), it.value...),
		Revision:  it.revision,
		ExpiresAt: it.expiresAt,
	}, nil
}

func (s *KV) Put(_ context.Context, key string, value []byte, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.items[key]
	s.items[key] = item{
		value:     append([]byte(nil), value...),
		revision:  prev.revision + 1,
		expiresAt: expiresAt,
	}
	return nil
}

func (s *KV) PutIfRevision(_ context.Context, key string, value []byte, expiresAt time.Time, rev int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.live(key)
	switch {
	case rev == 0 && ok:
		return kv.ErrConflict
	case rev != 0 && (!ok || cur.revision != rev):
		return kv.ErrConflict
	}

	prev := s.items[key]
	s.items[key] = item{
		value:     append([]byte(nil), value...),
		revision:  prev.revision + 1,
		expiresAt: expiresAt,
	}
	return nil
}

func (s *KV) Ping(context.Context) error { return nil }

func (s *KV) Sweep(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for k := range s.items {
		if _, ok := s.live(k); !ok {
			delete(s.items, k)
			n++
		}
	}
	return n, nil
}

func (s *KV) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
