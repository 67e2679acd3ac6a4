package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sleep = noSleep

	calls := 0
	err := Do(context.Background(), cfg, func() error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sleep = noSleep

	calls := 0
	boom := errors.New("generator down")
	err := Do(context.Background(), cfg, func() error {
		calls++
		return boom
	})

	assert.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, cfg.MaxAttempts, calls)
}

func TestDo_RecoversAfterFailures(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sleep = noSleep

	calls := 0
	err := Do(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoWithLog_BackoffDoubles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sleep = noSleep

	var delays []time.Duration
	_ = DoWithLog(context.Background(), cfg, func() error {
		return errors.New("always fails")
	}, func(attempt int, err error, nextDelay time.Duration) {
		delays = append(delays, nextDelay)
	})

	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, delays)
}

func TestDo_CancelledContext(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sleep = noSleep

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, cfg, func() error {
		calls++
		return nil
	})

	assert.Error(t, err)
	assert.Equal(t, 0, calls)
}
