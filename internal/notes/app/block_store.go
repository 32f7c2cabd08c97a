// Package app implements application business logic for the notes service.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"blocknote/internal/notes/domain/entities"
	"blocknote/internal/notes/domain/services"
	"blocknote/internal/notes/ports/repositories"
	ports "blocknote/internal/notes/ports/services"
	"blocknote/pkg/logger"
)

const (
	ErrListBlocks      = "failed to list blocks"
	ErrCreateBlock     = "failed to create block"
	ErrPlaceBlock      = "failed to place block"
	ErrUpdateBlock     = "failed to update block"
	ErrTransformBlock  = "failed to transform block"
	ErrDeleteBlock     = "failed to delete block"
	ErrImportImage     = "failed to import image"
	LogImageCleanup    = "image files cleanup failed"
	LogOrderExhausted  = "no room between blocks, renormalizing"
	LogMissingBlockOp  = "block is gone, operation skipped"
	LogAfterBlockOther = "anchor block belongs to another note"
)

// BlockStore управляет упорядоченными блоками заметки.
type BlockStore struct {
	repo   repositories.BlockRepository
	images ports.ImagePipeline
}

// NewBlockStore создает новый экземпляр BlockStore.
func NewBlockStore(repo repositories.BlockRepository, images ports.ImagePipeline) *BlockStore {
	return &BlockStore{
		repo:   repo,
		images: images,
	}
}

// List возвращает блоки заметки в порядке возрастания order.
func (s *BlockStore) List(ctx context.Context, noteID int64) ([]*entities.Block, error) {
	blocks, err := s.repo.ListByNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListBlocks, err)
	}
	return blocks, nil
}

// Get возвращает блок или entities.ErrBlockNotFound.
func (s *BlockStore) Get(ctx context.Context, id int64) (*entities.Block, error) {
	return s.repo.GetByID(ctx, id)
}

// Create вставляет блок с явно заданным order.
func (s *BlockStore) Create(ctx context.Context, noteID int64, blockType entities.BlockType, order float64, content entities.Content) (*entities.Block, error) {
	if !blockType.Valid() {
		return nil, entities.ErrUnknownBlockType
	}
	if content != nil && !content.Fits(blockType) {
		return nil, entities.ErrContentMismatch
	}

	block := entities.NewBlock(noteID, blockType, order, content)
	id, err := s.repo.Create(ctx, block)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCreateBlock, err)
	}
	block.ID = id
	return block, nil
}

// Append добавляет блок в конец заметки.
func (s *BlockStore) Append(ctx context.Context, noteID int64, blockType entities.BlockType, content entities.Content) (*entities.Block, error) {
	last, err := s.repo.LastOrder(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrPlaceBlock, err)
	}
	return s.Create(ctx, noteID, blockType, services.AppendOrder(last), content)
}

// InsertAfter вставляет блок сразу после afterID.
func (s *BlockStore) InsertAfter(ctx context.Context, noteID, afterID int64, blockType entities.BlockType, content entities.Content) (*entities.Block, error) {
	log := logger.Log(ctx).With(zap.String("method", "BlockStore.InsertAfter"))

	order, err := s.orderAfter(ctx, noteID, afterID)
	if errors.Is(err, services.ErrOrderExhausted) {
		log.Info(ctx, LogOrderExhausted, zap.Int64("noteID", noteID))
		if err := s.repo.Renormalize(ctx, noteID); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrPlaceBlock, err)
		}
		order, err = s.orderAfter(ctx, noteID, afterID)
	}
	if err != nil {
		return nil, err
	}

	return s.Create(ctx, noteID, blockType, order, content)
}

func (s *BlockStore) orderAfter(ctx context.Context, noteID, afterID int64) (float64, error) {
	after, err := s.repo.GetByID(ctx, afterID)
	if err != nil {
		return 0, err
	}
	if after.NoteID != noteID {
		logger.Log(ctx).Debug(ctx, LogAfterBlockOther, zap.Int64("blockID", afterID))
		return 0, entities.ErrBlockNotFound
	}
	return s.midpointFrom(ctx, noteID, after.Order)
}

func (s *BlockStore) midpointFrom(ctx context.Context, noteID int64, prev float64) (float64, error) {
	next, err := s.repo.NextOrder(ctx, noteID, prev)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrPlaceBlock, err)
	}
	return services.MidpointOrder(prev, next)
}

// UpdateContent заменяет содержимое блока. Отсутствующий блок пропускается.
func (s *BlockStore) UpdateContent(ctx context.Context, id int64, content entities.Content) error {
	if err := s.repo.UpdateContent(ctx, id, content); err != nil {
		return fmt.Errorf("%s: %w", ErrUpdateBlock, err)
	}
	return nil
}

// TransformType меняет тип и содержимое блока, сохраняя id и order.
func (s *BlockStore) TransformType(ctx context.Context, id int64, newType entities.BlockType, newContent entities.Content) error {
	if !newType.Valid() {
		return entities.ErrUnknownBlockType
	}
	if newType == entities.BlockImage {
		return entities.ErrImageTransform
	}

	block, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, entities.ErrBlockNotFound) {
		logger.Log(ctx).Debug(ctx, LogMissingBlockOp, zap.Int64("blockID", id))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrTransformBlock, err)
	}
	if block.Type == entities.BlockImage {
		return entities.ErrImageTransform
	}

	if err := s.repo.UpdateType(ctx, id, newType, newContent); err != nil {
		return fmt.Errorf("%s: %w", ErrTransformBlock, err)
	}
	return nil
}

// Delete удаляет блок и возвращает его, nil если блока уже нет.
// Файлы изображения удаляются до строки блока.
func (s *BlockStore) Delete(ctx context.Context, id int64) (*entities.Block, error) {
	log := logger.Log(ctx).With(zap.String("method", "BlockStore.Delete"))

	block, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, entities.ErrBlockNotFound) {
		log.Debug(ctx, LogMissingBlockOp, zap.Int64("blockID", id))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDeleteBlock, err)
	}

	if image, ok := block.Content.(entities.ImageContent); ok && image.Image != nil {
		if err := s.images.Delete(ctx, image.Image); err != nil {
			log.Warn(ctx, LogImageCleanup, zap.Int64("blockID", id), zap.Error(err))
		}
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDeleteBlock, err)
	}
	return deleted, nil
}

// EnsureBlock создает пустой текстовый блок, если в заметке нет блоков.
// Возвращает созданный блок или nil.
func (s *BlockStore) EnsureBlock(ctx context.Context, noteID int64) (*entities.Block, error) {
	last, err := s.repo.LastOrder(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrPlaceBlock, err)
	}
	if last != nil {
		return nil, nil
	}
	return s.Create(ctx, noteID, entities.BlockText, entities.InitialOrder, entities.TextContent{})
}

// Restore пересоздает удаленный блок на его прежнем месте. Если order уже
// занят, блок встает посередине до следующего блока.
func (s *BlockStore) Restore(ctx context.Context, noteID int64, blockType entities.BlockType, order float64, content entities.Content) (*entities.Block, error) {
	taken, err := s.repo.OrderTaken(ctx, noteID, order)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrPlaceBlock, err)
	}
	if !taken {
		return s.Create(ctx, noteID, blockType, order, content)
	}

	mid, err := s.midpointFrom(ctx, noteID, order)
	if errors.Is(err, services.ErrOrderExhausted) {
		// После перенумерации прежний order ничего не значит.
		logger.Log(ctx).Info(ctx, LogOrderExhausted, zap.Int64("noteID", noteID))
		if err := s.repo.Renormalize(ctx, noteID); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrPlaceBlock, err)
		}
		return s.Append(ctx, noteID, blockType, content)
	}
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, noteID, blockType, mid, content)
}

// AddImage импортирует файлы изображения и добавляет блок в конец заметки.
func (s *BlockStore) AddImage(ctx context.Context, noteID int64, src ports.ImageSource) (*entities.Block, error) {
	log := logger.Log(ctx).With(zap.String("method", "BlockStore.AddImage"))

	image, err := s.images.Import(ctx, noteID, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrImportImage, err)
	}

	block, err := s.Append(ctx, noteID, entities.BlockImage, entities.ImageContent{Image: image})
	if err != nil {
		if cleanupErr := s.images.Delete(ctx, image); cleanupErr != nil {
			log.Warn(ctx, LogImageCleanup, zap.Error(cleanupErr))
		}
		return nil, err
	}
	return block, nil
}
