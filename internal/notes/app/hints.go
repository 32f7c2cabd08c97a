package app

import (
	"context"
	"fmt"
	"sync"

	"blocknote/internal/notes/domain/services"
	ports "blocknote/internal/notes/ports/services"
)

// DismissAfterBlockEdits - после стольких отредактированных блоков без
// слэш-команды подсказка о ней больше не показывается.
const DismissAfterBlockEdits = 3

const ErrHintState = "failed to access hint state"

// HintService решает, когда показывать обучающие подсказки.
type HintService struct {
	store ports.HintStore

	mu     sync.Mutex
	edited map[int64]struct{}
	shown  map[services.HintKind]struct{}
}

// NewHintService создает новый экземпляр HintService.
func NewHintService(store ports.HintStore) *HintService {
	return &HintService{
		store:  store,
		edited: make(map[int64]struct{}),
		shown:  make(map[services.HintKind]struct{}),
	}
}

// SlashHintEligible сообщает, можно ли показать подсказку о слэш-команде.
func (h *HintService) SlashHintEligible(ctx context.Context) (bool, error) {
	used, err := h.store.SlashUsed(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrHintState, err)
	}
	dismissed, err := h.store.SlashHintDismissed(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrHintState, err)
	}
	if used || dismissed {
		return false, nil
	}

	count, err := h.store.BlocksEdited(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrHintState, err)
	}
	if count >= DismissAfterBlockEdits {
		if err := h.store.DismissSlashHint(ctx); err != nil {
			return false, fmt.Errorf("%s: %w", ErrHintState, err)
		}
		return false, nil
	}
	return true, nil
}

// MarkSlashUsed запоминает использование слэш-команды; подсказка о ней
// больше не нужна.
func (h *HintService) MarkSlashUsed(ctx context.Context) error {
	if err := h.store.MarkSlashUsed(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrHintState, err)
	}
	return nil
}

// RecordBlockEdited учитывает блок один раз за время жизни процесса.
// Возвращает true, если подсказка о слэш-команде только что отключена.
func (h *HintService) RecordBlockEdited(ctx context.Context, blockID int64) (bool, error) {
	h.mu.Lock()
	if _, ok := h.edited[blockID]; ok {
		h.mu.Unlock()
		return false, nil
	}
	h.edited[blockID] = struct{}{}
	h.mu.Unlock()

	count, err := h.store.IncrementBlocksEdited(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrHintState, err)
	}
	if count < DismissAfterBlockEdits {
		return false, nil
	}
	if err := h.store.DismissSlashHint(ctx); err != nil {
		return false, fmt.Errorf("%s: %w", ErrHintState, err)
	}
	return count == DismissAfterBlockEdits, nil
}

// ShouldShowMarkdownHint сообщает, показывалась ли уже подсказка kind.
func (h *HintService) ShouldShowMarkdownHint(ctx context.Context, kind services.HintKind) (bool, error) {
	if kind == services.HintNone {
		return false, nil
	}

	h.mu.Lock()
	_, cached := h.shown[kind]
	h.mu.Unlock()
	if cached {
		return false, nil
	}

	shown, err := h.store.MarkdownHintShown(ctx, string(kind))
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrHintState, err)
	}
	if shown {
		h.mu.Lock()
		h.shown[kind] = struct{}{}
		h.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// MarkMarkdownHintShown запоминает показ подсказки kind.
func (h *HintService) MarkMarkdownHintShown(ctx context.Context, kind services.HintKind) error {
	h.mu.Lock()
	h.shown[kind] = struct{}{}
	h.mu.Unlock()

	if err := h.store.MarkMarkdownHintShown(ctx, string(kind)); err != nil {
		return fmt.Errorf("%s: %w", ErrHintState, err)
	}
	return nil
}
