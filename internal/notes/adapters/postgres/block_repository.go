package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"blocknote/internal/notes/domain/entities"
	"blocknote/internal/notes/domain/services"
	"blocknote/internal/notes/ports/repositories"
	"blocknote/pkg/logger"
)

const (
	ErrListBlocks       = "failed to list blocks"
	ErrGetBlock         = "failed to get block"
	ErrScanBlock        = "failed to scan block"
	ErrQueryOrder       = "failed to query block order"
	ErrCreateBlock      = "failed to create block"
	ErrEncodeContent    = "failed to encode block content"
	ErrUpdateBlock      = "failed to update block"
	ErrDeleteBlock      = "failed to delete block"
	ErrRenormalizeOrder = "failed to renormalize block order"
)

const blockColumns = `id, note_id, type, content, "order", created_at, updated_at`

// BlockRepository реализует интерфейс repositories.BlockRepository.
type BlockRepository struct {
	pool PgxPoolInterface
}

// NewBlockRepository создает новый репозиторий блоков.
func NewBlockRepository(pool PgxPoolInterface) repositories.BlockRepository {
	return &BlockRepository{pool: pool}
}

func scanBlock(row pgx.Row) (*entities.Block, error) {
	var (
		block     entities.Block
		blockType string
		content   *string
	)
	err := row.Scan(&block.ID, &block.NoteID, &blockType, &content, &block.Order, &block.CreatedAt, &block.UpdatedAt)
	if err != nil {
		return nil, err
	}
	block.Type = entities.BlockType(blockType)
	block.Content = entities.DecodeContent(block.Type, content)
	return &block, nil
}

// ListByNote возвращает блоки заметки в порядке возрастания order.
func (r *BlockRepository) ListByNote(ctx context.Context, noteID int64) ([]*entities.Block, error) {
	log := logger.Log(ctx).With(zap.String("method", "BlockRepository.ListByNote"))
	log.Debug(ctx, "listing blocks", zap.Int64("noteID", noteID))

	rows, err := r.pool.Query(ctx,
		`SELECT `+blockColumns+` FROM blocks WHERE note_id = $1 ORDER BY "order" ASC`,
		noteID,
	)
	if err != nil {
		log.Error(ctx, ErrListBlocks, zap.Error(err))
		return nil, storageError(ErrListBlocks, err)
	}
	defer rows.Close()

	blocks := make([]*entities.Block, 0)
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			log.Error(ctx, ErrScanBlock, zap.Error(err))
			return nil, storageError(ErrScanBlock, err)
		}
		blocks = append(blocks, block)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, ErrListBlocks, zap.Error(err))
		return nil, storageError(ErrListBlocks, err)
	}

	return blocks, nil
}

// GetByID получает блок по ID.
func (r *BlockRepository) GetByID(ctx context.Context, id int64) (*entities.Block, error) {
	log := logger.Log(ctx).With(zap.String("method", "BlockRepository.GetByID"))

	block, err := scanBlock(r.pool.QueryRow(ctx,
		`SELECT `+blockColumns+` FROM blocks WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "block not found", zap.Int64("blockID", id))
			return nil, entities.ErrBlockNotFound
		}
		log.Error(ctx, ErrGetBlock, zap.Error(err))
		return nil, storageError(ErrGetBlock, err)
	}

	return block, nil
}

// FirstNonImage возвращает первый блок заметки, не являющийся изображением, или nil.
func (r *BlockRepository) FirstNonImage(ctx context.Context, noteID int64) (*entities.Block, error) {
	log := logger.Log(ctx).With(zap.String("method", "BlockRepository.FirstNonImage"))

	block, err := scanBlock(r.pool.QueryRow(ctx,
		`SELECT `+blockColumns+` FROM blocks
         WHERE note_id = $1 AND type <> 'image'
         ORDER BY "order" ASC
         LIMIT 1`,
		noteID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		log.Error(ctx, ErrGetBlock, zap.Error(err))
		return nil, storageError(ErrGetBlock, err)
	}

	return block, nil
}

// LastOrder возвращает наибольший order заметки или nil, если блоков нет.
func (r *BlockRepository) LastOrder(ctx context.Context, noteID int64) (*float64, error) {
	var last *float64
	err := r.pool.QueryRow(ctx,
		`SELECT MAX("order") FROM blocks WHERE note_id = $1`,
		noteID,
	).Scan(&last)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrQueryOrder, zap.String("method", "BlockRepository.LastOrder"), zap.Error(err))
		return nil, storageError(ErrQueryOrder, err)
	}
	return last, nil
}

// NextOrder возвращает order следующего после after блока или nil.
func (r *BlockRepository) NextOrder(ctx context.Context, noteID int64, after float64) (*float64, error) {
	var next *float64
	err := r.pool.QueryRow(ctx,
		`SELECT MIN("order") FROM blocks WHERE note_id = $1 AND "order" > $2`,
		noteID, after,
	).Scan(&next)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrQueryOrder, zap.String("method", "BlockRepository.NextOrder"), zap.Error(err))
		return nil, storageError(ErrQueryOrder, err)
	}
	return next, nil
}

// OrderTaken сообщает, занят ли order в заметке.
func (r *BlockRepository) OrderTaken(ctx context.Context, noteID int64, order float64) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM blocks WHERE note_id = $1 AND "order" = $2)`,
		noteID, order,
	).Scan(&taken)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrQueryOrder, zap.String("method", "BlockRepository.OrderTaken"), zap.Error(err))
		return false, storageError(ErrQueryOrder, err)
	}
	return taken, nil
}

// Create сохраняет новый блок в БД.
func (r *BlockRepository) Create(ctx context.Context, block *entities.Block) (int64, error) {
	log := logger.Log(ctx).With(zap.String("method", "BlockRepository.Create"))
	log.Debug(ctx, "creating block",
		zap.Int64("noteID", block.NoteID),
		zap.String("type", string(block.Type)),
		zap.Float64("order", block.Order))

	if !block.Type.Valid() {
		return 0, entities.ErrUnknownBlockType
	}
	if !block.Content.Fits(block.Type) {
		return 0, entities.ErrContentMismatch
	}

	content, err := block.Content.Encode()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrEncodeContent, err)
	}

	var id int64
	err = r.pool.QueryRow(ctx,
		`INSERT INTO blocks (note_id, type, content, "order", created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		block.NoteID, string(block.Type), content, block.Order, block.CreatedAt, block.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if hasCode(err, pgForeignKeyViolation) {
			log.Debug(ctx, "note not found", zap.Int64("noteID", block.NoteID))
			return 0, entities.ErrNoteNotFound
		}
		log.Error(ctx, ErrCreateBlock, zap.Error(err))
		return 0, storageError(ErrCreateBlock, err)
	}

	log.Debug(ctx, "block created", zap.Int64("blockID", id))
	return id, nil
}

// UpdateContent заменяет содержимое блока. Тип и order не меняются.
func (r *BlockRepository) UpdateContent(ctx context.Context, id int64, content entities.Content) error {
	log := logger.Log(ctx).With(zap.String("method", "BlockRepository.UpdateContent"))

	raw, err := content.Encode()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrEncodeContent, err)
	}

	result, err := r.pool.Exec(ctx,
		`UPDATE blocks SET content = $1, updated_at = NOW() WHERE id = $2`,
		raw, id,
	)
	if err != nil {
		log.Error(ctx, ErrUpdateBlock, zap.Error(err))
		return storageError(ErrUpdateBlock, err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "block is gone, update skipped", zap.Int64("blockID", id))
	}
	return nil
}

// UpdateType атомарно меняет тип и содержимое блока, сохраняя order.
func (r *BlockRepository) UpdateType(ctx context.Context, id int64, blockType entities.BlockType, content entities.Content) error {
	log := logger.Log(ctx).With(zap.String("method", "BlockRepository.UpdateType"))

	if !content.Fits(blockType) {
		return entities.ErrContentMismatch
	}

	raw, err := content.Encode()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrEncodeContent, err)
	}

	result, err := r.pool.Exec(ctx,
		`UPDATE blocks SET type = $1, content = $2, updated_at = NOW() WHERE id = $3`,
		string(blockType), raw, id,
	)
	if err != nil {
		log.Error(ctx, ErrUpdateBlock, zap.Error(err))
		return storageError(ErrUpdateBlock, err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "block is gone, transform skipped", zap.Int64("blockID", id))
	}
	return nil
}

// Delete удаляет блок и возвращает его, nil если блока не было.
func (r *BlockRepository) Delete(ctx context.Context, id int64) (*entities.Block, error) {
	log := logger.Log(ctx).With(zap.String("method", "BlockRepository.Delete"))
	log.Debug(ctx, "deleting block", zap.Int64("blockID", id))

	block, err := scanBlock(r.pool.QueryRow(ctx,
		`DELETE FROM blocks WHERE id = $1 RETURNING `+blockColumns,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "block already deleted", zap.Int64("blockID", id))
			return nil, nil
		}
		log.Error(ctx, ErrDeleteBlock, zap.Error(err))
		return nil, storageError(ErrDeleteBlock, err)
	}

	return block, nil
}

// Renormalize переписывает order блоков заметки как 1000, 2000, ... в одной транзакции.
// Ограничение уникальности отложено до коммита, поэтому промежуточные совпадения допустимы.
func (r *BlockRepository) Renormalize(ctx context.Context, noteID int64) error {
	log := logger.Log(ctx).With(zap.String("method", "BlockRepository.Renormalize"))
	log.Info(ctx, "renormalizing block order", zap.Int64("noteID", noteID))

	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT id FROM blocks WHERE note_id = $1 ORDER BY "order" ASC FOR UPDATE`,
			noteID,
		)
		if err != nil {
			return storageError(ErrRenormalizeOrder, err)
		}

		ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return storageError(ErrRenormalizeOrder, err)
		}

		for i, order := range services.Renormalize(len(ids)) {
			if _, err := tx.Exec(ctx,
				`UPDATE blocks SET "order" = $1 WHERE id = $2`,
				order, ids[i],
			); err != nil {
				return storageError(ErrRenormalizeOrder, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrRenormalizeOrder, zap.Error(err))
		return err
	}
	return nil
}

// ImagesByNote возвращает описания изображений всех image-блоков заметки.
func (r *BlockRepository) ImagesByNote(ctx context.Context, noteID int64) ([]*entities.ImageBlockContent, error) {
	log := logger.Log(ctx).With(zap.String("method", "BlockRepository.ImagesByNote"))

	rows, err := r.pool.Query(ctx,
		`SELECT content FROM blocks WHERE note_id = $1 AND type = 'image' ORDER BY "order" ASC`,
		noteID,
	)
	if err != nil {
		log.Error(ctx, ErrListBlocks, zap.Error(err))
		return nil, storageError(ErrListBlocks, err)
	}

	contents, err := pgx.CollectRows(rows, pgx.RowTo[*string])
	if err != nil {
		log.Error(ctx, ErrScanBlock, zap.Error(err))
		return nil, storageError(ErrScanBlock, err)
	}

	images := make([]*entities.ImageBlockContent, 0, len(contents))
	for _, raw := range contents {
		if img := entities.ParseImage(raw).Image; img != nil {
			images = append(images, img)
		}
	}
	return images, nil
}
