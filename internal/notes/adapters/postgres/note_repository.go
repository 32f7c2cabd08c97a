package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"blocknote/internal/notes/domain/entities"
	"blocknote/internal/notes/ports/repositories"
	"blocknote/pkg/logger"
)

const (
	ErrCreateNote  = "failed to create note"
	ErrGetNote     = "failed to get note"
	ErrListNotes   = "failed to list notes"
	ErrScanNote    = "failed to scan note"
	ErrUpdateNote  = "failed to update note"
	ErrDeleteNote  = "failed to delete note"
	ErrCountNotes  = "failed to count notes"
	LogNoteMissing = "note not found, update skipped"
)

const noteColumns = `id, title, created_at, updated_at, archived, category_id`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// NoteRepository реализует интерфейс repositories.NoteRepository.
type NoteRepository struct {
	pool PgxPoolInterface
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool PgxPoolInterface) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

func scanNote(row pgx.Row) (*entities.Note, error) {
	var note entities.Note
	err := row.Scan(&note.ID, &note.Title, &note.CreatedAt, &note.UpdatedAt, &note.Archived, &note.CategoryID)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) queryNotes(ctx context.Context, log *logger.Logger, query string, args ...interface{}) ([]*entities.Note, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, ErrListNotes, zap.Error(err))
		return nil, storageError(ErrListNotes, err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Error(ctx, ErrScanNote, zap.Error(err))
			return nil, storageError(ErrScanNote, err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, storageError(ErrListNotes, err)
	}

	return notes, nil
}

// Create сохраняет новую заметку в БД.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) (int64, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating new note", zap.String("title", note.Title))

	var noteID int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notes (title, created_at, updated_at, archived, category_id)
         VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		note.Title, note.CreatedAt, note.UpdatedAt, note.Archived, note.CategoryID,
	).Scan(&noteID)
	if err != nil {
		if hasCode(err, pgForeignKeyViolation) {
			return 0, entities.ErrUnknownCategory
		}
		log.Error(ctx, ErrCreateNote, zap.Error(err))
		return 0, storageError(ErrCreateNote, err)
	}

	log.Debug(ctx, "note created", zap.Int64("noteID", noteID))
	return noteID, nil
}

// GetByID получает заметку по ID.
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.GetByID"))
	log.Debug(ctx, "getting note", zap.Int64("noteID", id))

	note, err := scanNote(r.pool.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.Int64("noteID", id))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, ErrGetNote, zap.Error(err))
		return nil, storageError(ErrGetNote, err)
	}

	return note, nil
}

// List возвращает неархивные заметки по фильтру, новые изменения первыми.
func (r *NoteRepository) List(ctx context.Context, filter entities.NotesFilter) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.List"))
	log.Debug(ctx, "listing notes", zap.String("search", filter.Search))

	query := `SELECT ` + noteColumns + ` FROM notes WHERE archived = FALSE`
	args := make([]interface{}, 0, 2)

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}

	switch filter.Category.Mode {
	case entities.CategoryExact:
		args = append(args, filter.Category.ID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	case entities.CategoryNone:
		query += " AND category_id IS NULL"
	case entities.CategoryAny:
	}

	query += " ORDER BY updated_at DESC"

	return r.queryNotes(ctx, log, query, args...)
}

// ListArchived возвращает архивные заметки.
func (r *NoteRepository) ListArchived(ctx context.Context) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.ListArchived"))

	return r.queryNotes(ctx, log,
		`SELECT `+noteColumns+` FROM notes WHERE archived = TRUE ORDER BY updated_at DESC`)
}

func (r *NoteRepository) update(ctx context.Context, method, query string, args ...interface{}) error {
	log := logger.Log(ctx).With(zap.String("method", method))

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if hasCode(err, pgForeignKeyViolation) {
			log.Debug(ctx, "unknown category")
			return entities.ErrUnknownCategory
		}
		log.Error(ctx, ErrUpdateNote, zap.Error(err))
		return storageError(ErrUpdateNote, err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, LogNoteMissing)
	}
	return nil
}

// UpdateTitle переименовывает заметку.
func (r *NoteRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	return r.update(ctx, "NoteRepository.UpdateTitle",
		`UPDATE notes SET title = $1, updated_at = NOW() WHERE id = $2`,
		title, id,
	)
}

// SetArchived переключает флаг архива.
func (r *NoteRepository) SetArchived(ctx context.Context, id int64, archived bool) error {
	return r.update(ctx, "NoteRepository.SetArchived",
		`UPDATE notes SET archived = $1, updated_at = NOW() WHERE id = $2`,
		archived, id,
	)
}

// SetCategory назначает категорию; nil снимает ее.
func (r *NoteRepository) SetCategory(ctx context.Context, id int64, categoryID *int64) error {
	return r.update(ctx, "NoteRepository.SetCategory",
		`UPDATE notes SET category_id = $1, updated_at = NOW() WHERE id = $2`,
		categoryID, id,
	)
}

// Delete удаляет заметку; блоки удаляются каскадно.
func (r *NoteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete"))
	log.Debug(ctx, "deleting note", zap.Int64("noteID", id))

	result, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, ErrDeleteNote, zap.Error(err))
		return false, storageError(ErrDeleteNote, err)
	}

	return result.RowsAffected() > 0, nil
}

// CountByCategory считает неархивные заметки по категориям, включая пустые.
// Строка с NULL вместо id категории - заметки без категории. Один запрос
// дает согласованный снимок обоих счетчиков.
func (r *NoteRepository) CountByCategory(ctx context.Context) (*entities.CategoryCounts, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.CountByCategory"))

	rows, err := r.pool.Query(ctx,
		`SELECT c.id, COUNT(n.id)
         FROM categories c
         LEFT JOIN notes n ON n.category_id = c.id AND n.archived = FALSE
         GROUP BY c.id
         UNION ALL
         SELECT NULL, COUNT(*) FROM notes WHERE category_id IS NULL AND archived = FALSE`,
	)
	if err != nil {
		log.Error(ctx, ErrCountNotes, zap.Error(err))
		return nil, storageError(ErrCountNotes, err)
	}
	defer rows.Close()

	counts := &entities.CategoryCounts{ByCategory: make(map[int64]int)}
	for rows.Next() {
		var (
			categoryID *int64
			count      int
		)
		if err := rows.Scan(&categoryID, &count); err != nil {
			log.Error(ctx, ErrCountNotes, zap.Error(err))
			return nil, storageError(ErrCountNotes, err)
		}
		if categoryID == nil {
			counts.Uncategorized = count
			continue
		}
		counts.ByCategory[*categoryID] = count
	}
	if err := rows.Err(); err != nil {
		log.Error(ctx, ErrCountNotes, zap.Error(err))
		return nil, storageError(ErrCountNotes, err)
	}

	return counts, nil
}
