package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"blocknote/internal/notes/domain/entities"
	"blocknote/pkg/logger"
)

const ErrRestoreBlock = "failed to restore block"

// deletedBlock хранит все, кроме id: отмена создает блок заново.
type deletedBlock struct {
	noteID    int64
	blockType entities.BlockType
	content   entities.Content
	order     float64
}

// UndoBuffer держит последний удаленный неграфический блок в течение окна отмены.
// Новое удаление вытесняет предыдущее.
type UndoBuffer struct {
	store    *BlockStore
	window   time.Duration
	onExpire func()

	mu    sync.Mutex
	entry *deletedBlock
	timer *time.Timer
	gen   uint64
}

// NewUndoBuffer создает буфер отмены. onExpire вызывается, когда окно
// истекло без отмены; может быть nil.
func NewUndoBuffer(store *BlockStore, window time.Duration, onExpire func()) *UndoBuffer {
	return &UndoBuffer{
		store:    store,
		window:   window,
		onExpire: onExpire,
	}
}

// Delete удаляет блок через BlockStore и запоминает его для отмены.
// Удаление изображения не трогает буфер.
func (u *UndoBuffer) Delete(ctx context.Context, id int64) (*entities.Block, error) {
	block, err := u.store.Delete(ctx, id)
	if err != nil || block == nil {
		return block, err
	}
	if block.Type == entities.BlockImage {
		return block, nil
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	u.stopLocked()
	u.gen++
	gen := u.gen
	u.entry = &deletedBlock{
		noteID:    block.NoteID,
		blockType: block.Type,
		content:   block.Content,
		order:     block.Order,
	}
	u.timer = time.AfterFunc(u.window, func() { u.expire(gen) })

	return block, nil
}

func (u *UndoBuffer) expire(gen uint64) {
	u.mu.Lock()
	if u.gen != gen || u.entry == nil {
		u.mu.Unlock()
		return
	}
	u.entry = nil
	u.timer = nil
	u.mu.Unlock()

	if u.onExpire != nil {
		u.onExpire()
	}
}

// Undo пересоздает последний удаленный блок. Возвращает nil, если отменять нечего.
func (u *UndoBuffer) Undo(ctx context.Context) (*entities.Block, error) {
	u.mu.Lock()
	entry := u.entry
	u.stopLocked()
	u.entry = nil
	u.gen++
	u.mu.Unlock()

	if entry == nil {
		return nil, nil
	}

	block, err := u.store.Restore(ctx, entry.noteID, entry.blockType, entry.order, entry.content)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrRestoreBlock, zap.Int64("noteID", entry.noteID), zap.Error(err))
		return nil, err
	}
	return block, nil
}

// Active сообщает, ожидает ли удаление отмены.
func (u *UndoBuffer) Active() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.entry != nil
}

// Clear отбрасывает запись и останавливает таймер.
func (u *UndoBuffer) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.stopLocked()
	u.entry = nil
	u.gen++
}

func (u *UndoBuffer) stopLocked() {
	if u.timer != nil {
		u.timer.Stop()
		u.timer = nil
	}
}
