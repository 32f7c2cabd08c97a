package repositories

import (
	"context"

	"blocknote/internal/notes/domain/entities"
)

// NoteRepository определяет интерфейс для работы с репозиторием заметок.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (int64, error)
	GetByID(ctx context.Context, id int64) (*entities.Note, error)
	List(ctx context.Context, filter entities.NotesFilter) ([]*entities.Note, error)
	ListArchived(ctx context.Context) ([]*entities.Note, error)
	UpdateTitle(ctx context.Context, id int64, title string) error
	SetArchived(ctx context.Context, id int64, archived bool) error
	SetCategory(ctx context.Context, id int64, categoryID *int64) error
	Delete(ctx context.Context, id int64) (bool, error)
	CountByCategory(ctx context.Context) (*entities.CategoryCounts, error)
}
