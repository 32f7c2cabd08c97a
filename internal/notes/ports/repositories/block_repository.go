// Package repositories defines repository interfaces for the notes service.
package repositories

import (
	"context"

	"blocknote/internal/notes/domain/entities"
)

// BlockRepository хранит блоки заметок. Изменение или удаление отсутствующего
// блока не считается ошибкой.
type BlockRepository interface {
	ListByNote(ctx context.Context, noteID int64) ([]*entities.Block, error)
	GetByID(ctx context.Context, id int64) (*entities.Block, error)
	FirstNonImage(ctx context.Context, noteID int64) (*entities.Block, error)
	LastOrder(ctx context.Context, noteID int64) (*float64, error)
	NextOrder(ctx context.Context, noteID int64, after float64) (*float64, error)
	OrderTaken(ctx context.Context, noteID int64, order float64) (bool, error)
	Create(ctx context.Context, block *entities.Block) (int64, error)
	UpdateContent(ctx context.Context, id int64, content entities.Content) error
	UpdateType(ctx context.Context, id int64, blockType entities.BlockType, content entities.Content) error
	Delete(ctx context.Context, id int64) (*entities.Block, error)
	Renormalize(ctx context.Context, noteID int64) error
	ImagesByNote(ctx context.Context, noteID int64) ([]*entities.ImageBlockContent, error)
}
