package cache

import (
	"context"

	"blocknote/internal/notes/ports/services"
	"blocknote/pkg/resilience"
)

// GuardedHintStore пропускает вызовы хранилища подсказок через выключатель:
// пока Redis недоступен, вызовы сразу возвращают resilience.ErrCircuitOpen.
type GuardedHintStore struct {
	next    services.HintStore
	breaker *resilience.Breaker
}

// NewGuardedHintStore оборачивает next выключателем breaker.
func NewGuardedHintStore(next services.HintStore, breaker *resilience.Breaker) services.HintStore {
	return &GuardedHintStore{next: next, breaker: breaker}
}

func guard[T any](ctx context.Context, b *resilience.Breaker, fn func() (T, error)) (T, error) {
	var out T
	err := b.Execute(ctx, func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}

func (g *GuardedHintStore) SlashUsed(ctx context.Context) (bool, error) {
	return guard(ctx, g.breaker, func() (bool, error) { return g.next.SlashUsed(ctx) })
}

func (g *GuardedHintStore) MarkSlashUsed(ctx context.Context) error {
	return g.breaker.Execute(ctx, func() error { return g.next.MarkSlashUsed(ctx) })
}

func (g *GuardedHintStore) SlashHintDismissed(ctx context.Context) (bool, error) {
	return guard(ctx, g.breaker, func() (bool, error) { return g.next.SlashHintDismissed(ctx) })
}

func (g *GuardedHintStore) DismissSlashHint(ctx context.Context) error {
	return g.breaker.Execute(ctx, func() error { return g.next.DismissSlashHint(ctx) })
}

func (g *GuardedHintStore) BlocksEdited(ctx context.Context) (int64, error) {
	return guard(ctx, g.breaker, func() (int64, error) { return g.next.BlocksEdited(ctx) })
}

func (g *GuardedHintStore) IncrementBlocksEdited(ctx context.Context) (int64, error) {
	return guard(ctx, g.breaker, func() (int64, error) { return g.next.IncrementBlocksEdited(ctx) })
}

func (g *GuardedHintStore) MarkdownHintShown(ctx context.Context, kind string) (bool, error) {
	return guard(ctx, g.breaker, func() (bool, error) { return g.next.MarkdownHintShown(ctx, kind) })
}

func (g *GuardedHintStore) MarkMarkdownHintShown(ctx context.Context, kind string) error {
	return g.breaker.Execute(ctx, func() error { return g.next.MarkMarkdownHintShown(ctx, kind) })
}
