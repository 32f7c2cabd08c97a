package repositories

import (
	"context"

	"blocknote/internal/notes/domain/entities"
)

// CategoryRepository определяет интерфейс для работы с категориями.
type CategoryRepository interface {
	Create(ctx context.Context, category *entities.Category) (int64, error)
	GetByID(ctx context.Context, id int64) (*entities.Category, error)
	List(ctx context.Context) ([]*entities.Category, error)
	Update(ctx context.Context, category *entities.Category) error
	Delete(ctx context.Context, id int64) error
	SetPositions(ctx context.Context, ids []int64) error
}
