package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadTimeoutConfig(t *testing.T) {
	t.Setenv("SEARCH_TIMEOUT", "7")
	t.Setenv("SHUTDOWN_TIMEOUT", "nope")
	t.Setenv("HOOK_TIMEOUT", "-1")

	cfg := LoadTimeoutConfig(TimeoutConfig{Search: time.Second, Shutdown: 3 * time.Second, Hook: time.Second})
	assert.Equal(t, 7*time.Second, cfg.Search)
	assert.Equal(t, 3*time.Second, cfg.Shutdown)
	assert.Equal(t, time.Second, cfg.Hook)
}

func TestShutdownRunsHooksInOrder(t *testing.T) {
	calls := []int{}
	Shutdown(nil, TimeoutConfig{Shutdown: time.Second},
		func(ctx context.Context) error { calls = append(calls, 1); return errors.New("fail") },
		nil,
		func(ctx context.Context) error { calls = append(calls, 2); return nil },
	)
	assert.Equal(t, []int{1, 2}, calls)
}
