// Package shutdown предоставляет ожидание SIGINT/SIGTERM и корректное завершение приложения.
package shutdown

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"blocknote/pkg/logger"
)

// Hook - функция освобождения ресурса.
type Hook func(ctx context.Context) error

const (
	LogShutdownSignal  = "shutdown signal received"
	LogShutdownTimeout = "shutdown timeout exceeded"
	ErrShutdownHooks   = "shutdown hooks failed"
)

// Wait блокируется до SIGINT/SIGTERM или отмены ctx, затем параллельно выполняет хуки
// в пределах timeout. Ошибки хуков объединяются и возвращаются.
func Wait(ctx context.Context, timeout time.Duration, hooks ...Hook) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	log := logger.Log(ctx)
	log.Info(ctx, LogShutdownSignal, zap.Duration("timeout", timeout))

	hookCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	for _, hook := range hooks {
		wg.Add(1)
		go func(fn Hook) {
			defer wg.Done()
			if err := fn(hookCtx); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-hookCtx.Done():
		log.Warn(ctx, LogShutdownTimeout)
		mu.Lock()
		errs = multierr.Append(errs, hookCtx.Err())
		mu.Unlock()
	}

	mu.Lock()
	defer mu.Unlock()
	if errs != nil {
		log.Error(ctx, ErrShutdownHooks, zap.Error(errs))
	}
	return errs
}
