package shutdown_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blocknote/pkg/shutdown"
)

func TestWaitRunsAllHooks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	hook := func(context.Context) error {
		calls.Add(1)
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- shutdown.Wait(ctx, time.Second, hook, hook) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return")
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestWaitCollectsHookErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errFirst := errors.New("first")
	errSecond := errors.New("second")

	err := shutdown.Wait(ctx, time.Second,
		func(context.Context) error { return errFirst },
		func(context.Context) error { return errSecond },
		func(context.Context) error { return nil },
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, errFirst)
	assert.ErrorIs(t, err, errSecond)
}

func TestWaitRespectsTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slow := func(hookCtx context.Context) error {
		select {
		case <-time.After(2 * time.Second):
			return nil
		case <-hookCtx.Done():
			return hookCtx.Err()
		}
	}

	start := time.Now()
	err := shutdown.Wait(ctx, 100*time.Millisecond, slow)

	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
