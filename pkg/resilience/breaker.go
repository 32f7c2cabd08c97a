// Package resilience содержит механизмы отказоустойчивости: повтор с
// экспоненциальной задержкой и автоматический выключатель.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"blocknote/pkg/logger"
)

// BreakerState - состояние выключателя.
type BreakerState int

// Состояния выключателя.
const (
	// StateClosed - запросы проходят.
	StateClosed BreakerState = iota
	// StateOpen - запросы отклоняются до истечения OpenTimeout.
	StateOpen
	// StateHalfOpen - пробные запросы решают, закрыться или снова открыться.
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Константы для логирования.
const (
	LogBreakerTrip   = "circuit breaker tripped"
	LogBreakerProbe  = "circuit breaker allowing probe"
	LogBreakerReset  = "circuit breaker reset"
	LogBreakerReject = "circuit breaker rejected request"
)

// ErrCircuitOpen возвращается, пока выключатель открыт.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerConfig содержит настройки выключателя.
type BreakerConfig struct {
	// FailureThreshold - число ошибок подряд, после которого выключатель открывается.
	FailureThreshold int
	// OpenTimeout - через сколько открытый выключатель пропускает пробный запрос.
	OpenTimeout time.Duration
	// SuccessThreshold - число успешных пробных запросов для закрытия.
	SuccessThreshold int
}

// DefaultBreakerConfig возвращает настройки по умолчанию.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		OpenTimeout:      10 * time.Second,
		SuccessThreshold: 2,
	}
}

// Breaker реализует паттерн Circuit Breaker.
type Breaker struct {
	name   string
	config BreakerConfig
	now    func() time.Time

	mu        sync.Mutex
	state     BreakerState
	failures  int
	successes int
	openedAt  time.Time
}

// NewBreaker создает закрытый выключатель.
func NewBreaker(name string, config BreakerConfig) *Breaker {
	return &Breaker{name: name, config: config, now: time.Now}
}

// Execute выполняет fn, если выключатель пропускает запрос. Отмена
// контекста не считается отказом.
func (b *Breaker) Execute(ctx context.Context, fn func() error) error {
	if !b.allow(ctx) {
		return ErrCircuitOpen
	}
	err := fn()
	if err != nil && ctx.Err() != nil {
		return err
	}
	b.record(ctx, err)
	return err
}

// State возвращает текущее состояние.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) allow(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.config.OpenTimeout {
			logger.Log(ctx).Debug(ctx, LogBreakerReject, zap.String("circuit_breaker", b.name))
			return false
		}
		b.state = StateHalfOpen
		b.successes = 0
		logger.Log(ctx).Info(ctx, LogBreakerProbe, zap.String("circuit_breaker", b.name))
		return true
	default:
		return true
	}
}

func (b *Breaker) record(ctx context.Context, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		switch b.state {
		case StateClosed:
			b.failures++
			if b.failures >= b.config.FailureThreshold {
				b.tripLocked(ctx, err)
			}
		case StateHalfOpen:
			b.tripLocked(ctx, err)
		}
		return
	}

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.state = StateClosed
			b.failures = 0
			b.successes = 0
			logger.Log(ctx).Info(ctx, LogBreakerReset, zap.String("circuit_breaker", b.name))
		}
	}
}

func (b *Breaker) tripLocked(ctx context.Context, err error) {
	logger.Log(ctx).Warn(ctx, LogBreakerTrip,
		zap.String("circuit_breaker", b.name),
		zap.Int("failures", b.failures),
		zap.Error(err))
	b.state = StateOpen
	b.openedAt = b.now()
	b.failures = 0
	b.successes = 0
}
