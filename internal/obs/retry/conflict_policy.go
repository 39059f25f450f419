package retry

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// ConflictPolicy retries a read-modify-write cycle while it keeps failing
// with conflict. Any other error stops immediately.
func ConflictPolicy(conflict error, attempts int, log *zap.Logger) Policy {
	if attempts <= 0 {
		attempts = 5
	}
	return Policy{
		Name:     "history_cas",
		Attempts: attempts,
		Backoff:  ExpoJitter{Base: 5 * time.Millisecond, Max: 200 * time.Millisecond, Jitter: 0.5},
		Retryable: func(err error) bool {
			return errors.Is(err, conflict)
		},
		OnAttempt: func(i int, err error) {
			if log != nil && errors.Is(err, conflict) {
				log.Debug("history write conflict", zap.Int("attempt", i+1))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && errors.Is(err, conflict) {
				log.Warn("history write conflicts exhausted", zap.Error(err))
			}
		},
	}
}
