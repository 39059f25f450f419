package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrMalformed marks a message that can never be handled; the consumer
// commits it instead of waiting for redelivery.
var ErrMalformed = errors.New("malformed message")

func JSONHandler[M any](handle func(context.Context, []byte, M) error) Handler {
	return func(ctx context.Context, key, value []byte) error {
		var msg M
		if err := json.Unmarshal(value, &msg); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return handle(ctx, key, msg)
	}
}
