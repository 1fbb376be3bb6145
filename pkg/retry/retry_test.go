package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"see-eat-backend/pkg/retry"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("connection reset")

func fastPolicy(attempts int) retry.Policy {
	return retry.Policy{Attempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestDo(t *testing.T) {
	t.Run("Succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := retry.Do(context.Background(), fastPolicy(3), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("Gives up after the configured attempts", func(t *testing.T) {
		calls := 0
		err := retry.Do(context.Background(), fastPolicy(2), func(ctx context.Context) error {
			calls++
			return errTransient
		})
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 2, calls)
	})

	t.Run("Stops on non-retryable error", func(t *testing.T) {
		notFound := errors.New("not found")
		p := fastPolicy(5)
		p.Retryable = func(err error) bool { return !errors.Is(err, notFound) }

		calls := 0
		err := retry.Do(context.Background(), p, func(ctx context.Context) error {
			calls++
			return notFound
		})
		assert.ErrorIs(t, err, notFound)
		assert.Equal(t, 1, calls)
	})

	t.Run("Stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := retry.Do(ctx, retry.Policy{Attempts: 3, BaseDelay: time.Second}, func(ctx context.Context) error {
			return errTransient
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
