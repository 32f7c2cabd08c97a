package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"blocknote/internal/notes/domain/entities"
	"blocknote/internal/notes/ports/repositories"
	ports "blocknote/internal/notes/ports/services"
	"blocknote/pkg/logger"
)

const (
	ErrListNotes         = "failed to list notes"
	ErrCountNotes        = "failed to count notes"
	ErrCreateNote        = "failed to create note"
	ErrUpdateNote        = "failed to update note"
	ErrDeleteNote        = "failed to delete note"
	ErrListCategories    = "failed to list categories"
	ErrCreateCategory    = "failed to create category"
	ErrUpdateCategory    = "failed to update category"
	ErrDeleteCategory    = "failed to delete category"
	ErrReorderCategories = "failed to reorder categories"
	LogNoteImagesCleanup = "note images cleanup failed"
)

// NoteCatalog управляет заметками и категориями.
type NoteCatalog struct {
	notes      repositories.NoteRepository
	categories repositories.CategoryRepository
	blocks     repositories.BlockRepository
	images     ports.ImagePipeline
	previews   *PreviewService
	now        func() time.Time
}

// NewNoteCatalog создает новый экземпляр NoteCatalog.
func NewNoteCatalog(
	notes repositories.NoteRepository,
	categories repositories.CategoryRepository,
	blocks repositories.BlockRepository,
	images ports.ImagePipeline,
) *NoteCatalog {
	return &NoteCatalog{
		notes:      notes,
		categories: categories,
		blocks:     blocks,
		images:     images,
		previews:   NewPreviewService(blocks),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// List возвращает неархивные заметки по фильтру, свежие первыми.
func (c *NoteCatalog) List(ctx context.Context, filter entities.NotesFilter) ([]*entities.Note, error) {
	notes, err := c.notes.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListNotes, err)
	}
	return notes, nil
}

// ListArchived возвращает только архивные заметки.
func (c *NoteCatalog) ListArchived(ctx context.Context) ([]*entities.Note, error) {
	notes, err := c.notes.ListArchived(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListNotes, err)
	}
	return notes, nil
}

// ListWithPreview возвращает заметки по фильтру вместе с предпросмотром.
func (c *NoteCatalog) ListWithPreview(ctx context.Context, filter entities.NotesFilter) ([]*entities.NoteWithPreview, error) {
	notes, err := c.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]*entities.NoteWithPreview, 0, len(notes))
	for _, note := range notes {
		preview, err := c.previews.Preview(ctx, note.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &entities.NoteWithPreview{Note: note, Preview: preview})
	}
	return result, nil
}

// Counts считает неархивные заметки по категориям и без категории.
func (c *NoteCatalog) Counts(ctx context.Context) (*entities.CategoryCounts, error) {
	counts, err := c.notes.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCountNotes, err)
	}
	return counts, nil
}

// Archive переносит заметку в архив.
func (c *NoteCatalog) Archive(ctx context.Context, id int64) error {
	return c.setArchived(ctx, id, true)
}

// Unarchive возвращает заметку из архива.
func (c *NoteCatalog) Unarchive(ctx context.Context, id int64) error {
	return c.setArchived(ctx, id, false)
}

func (c *NoteCatalog) setArchived(ctx context.Context, id int64, archived bool) error {
	if err := c.notes.SetArchived(ctx, id, archived); err != nil {
		return fmt.Errorf("%s: %w", ErrUpdateNote, err)
	}
	return nil
}

// CreateNote создает пустую заметку. Пустой заголовок заменяется датой.
func (c *NoteCatalog) CreateNote(ctx context.Context, title string) (*entities.Note, error) {
	note := entities.NewNote(title, c.now())
	id, err := c.notes.Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCreateNote, err)
	}
	note.ID = id
	return note, nil
}

// GetNote возвращает заметку или entities.ErrNoteNotFound.
func (c *NoteCatalog) GetNote(ctx context.Context, id int64) (*entities.Note, error) {
	return c.notes.GetByID(ctx, id)
}

// RenameNote меняет заголовок. Пустой заголовок заменяется датой создания заметки.
func (c *NoteCatalog) RenameNote(ctx context.Context, id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		note, err := c.notes.GetByID(ctx, id)
		if errors.Is(err, entities.ErrNoteNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", ErrUpdateNote, err)
		}
		title = entities.FallbackTitle(note.CreatedAt)
	}

	if err := c.notes.UpdateTitle(ctx, id, title); err != nil {
		return fmt.Errorf("%s: %w", ErrUpdateNote, err)
	}
	return nil
}

// SetNoteCategory назначает заметке категорию; nil снимает ее.
func (c *NoteCatalog) SetNoteCategory(ctx context.Context, id int64, categoryID *int64) error {
	if err := c.notes.SetCategory(ctx, id, categoryID); err != nil {
		if errors.Is(err, entities.ErrUnknownCategory) {
			return err
		}
		return fmt.Errorf("%s: %w", ErrUpdateNote, err)
	}
	return nil
}

// DeleteNote удаляет заметку с блоками и файлы ее изображений.
// Ошибки очистки файлов только логируются.
func (c *NoteCatalog) DeleteNote(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteCatalog.DeleteNote"))

	images, err := c.blocks.ImagesByNote(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrDeleteNote, err)
	}

	deleted, err := c.notes.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrDeleteNote, err)
	}
	if !deleted {
		log.Debug(ctx, "note is gone, delete skipped", zap.Int64("noteID", id))
		return nil
	}

	var cleanupErr error
	for _, image := range images {
		cleanupErr = multierr.Append(cleanupErr, c.images.Delete(ctx, image))
	}
	cleanupErr = multierr.Append(cleanupErr, c.images.DeleteNoteImages(ctx, id))
	if cleanupErr != nil {
		log.Warn(ctx, LogNoteImagesCleanup, zap.Int64("noteID", id), zap.Error(cleanupErr))
	}
	return nil
}

// ListCategories возвращает категории по позиции.
func (c *NoteCatalog) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	categories, err := c.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListCategories, err)
	}
	return categories, nil
}

// CreateCategory создает категорию в конце списка.
func (c *NoteCatalog) CreateCategory(ctx context.Context, title string, color *string) (*entities.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, entities.ErrEmptyTitle
	}

	category := &entities.Category{
		Title:     title,
		Color:     color,
		CreatedAt: c.now(),
	}
	id, err := c.categories.Create(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCreateCategory, err)
	}
	category.ID = id
	return category, nil
}

// UpdateCategory меняет название и цвет категории.
func (c *NoteCatalog) UpdateCategory(ctx context.Context, id int64, title string, color *string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return entities.ErrEmptyTitle
	}

	if err := c.categories.Update(ctx, &entities.Category{ID: id, Title: title, Color: color}); err != nil {
		return fmt.Errorf("%s: %w", ErrUpdateCategory, err)
	}
	return nil
}

// DeleteCategory удаляет категорию; ее заметки остаются без категории.
func (c *NoteCatalog) DeleteCategory(ctx context.Context, id int64) error {
	if err := c.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", ErrDeleteCategory, err)
	}
	return nil
}

// ReorderCategories задает новый порядок. ids должен перечислять каждую
// категорию ровно один раз.
func (c *NoteCatalog) ReorderCategories(ctx context.Context, ids []int64) error {
	existing, err := c.categories.List(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrReorderCategories, err)
	}

	known := make(map[int64]bool, len(existing))
	for _, category := range existing {
		known[category.ID] = true
	}

	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !known[id] {
			return entities.ErrUnknownCategory
		}
		if seen[id] {
			return entities.ErrIncompleteReorder
		}
		seen[id] = true
	}
	if len(seen) != len(known) {
		return entities.ErrIncompleteReorder
	}

	if err := c.categories.SetPositions(ctx, ids); err != nil {
		return fmt.Errorf("%s: %w", ErrReorderCategories, err)
	}
	return nil
}
