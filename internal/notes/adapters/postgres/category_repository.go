package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"blocknote/internal/notes/domain/entities"
	"blocknote/internal/notes/ports/repositories"
	"blocknote/pkg/logger"
)

const (
	ErrCreateCategory    = "failed to create category"
	ErrGetCategory       = "failed to get category"
	ErrListCategories    = "failed to list categories"
	ErrUpdateCategory    = "failed to update category"
	ErrDeleteCategory    = "failed to delete category"
	ErrReorderCategories = "failed to reorder categories"
)

const categoryColumns = `id, title, color, position, created_at`

// CategoryRepository реализует интерфейс repositories.CategoryRepository.
type CategoryRepository struct {
	pool PgxPoolInterface
}

// NewCategoryRepository создает новый репозиторий категорий.
func NewCategoryRepository(pool PgxPoolInterface) repositories.CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func scanCategory(row pgx.Row) (*entities.Category, error) {
	var category entities.Category
	err := row.Scan(&category.ID, &category.Title, &category.Color, &category.Position, &category.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Create добавляет категорию в конец списка и заполняет ее ID и Position.
func (r *CategoryRepository) Create(ctx context.Context, category *entities.Category) (int64, error) {
	log := logger.Log(ctx).With(zap.String("method", "CategoryRepository.Create"))
	log.Debug(ctx, "creating category", zap.String("title", category.Title))

	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (title, color, position, created_at)
         VALUES ($1, $2, (SELECT COALESCE(MAX(position) + 1, 0) FROM categories), $3)
         RETURNING id, position`,
		category.Title, category.Color, category.CreatedAt,
	).Scan(&category.ID, &category.Position)
	if err != nil {
		log.Error(ctx, ErrCreateCategory, zap.Error(err))
		return 0, storageError(ErrCreateCategory, err)
	}

	log.Debug(ctx, "category created", zap.Int64("categoryID", category.ID), zap.Int("position", category.Position))
	return category.ID, nil
}

// GetByID получает категорию по ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*entities.Category, error) {
	log := logger.Log(ctx).With(zap.String("method", "CategoryRepository.GetByID"))

	category, err := scanCategory(r.pool.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "category not found", zap.Int64("categoryID", id))
			return nil, entities.ErrCategoryNotFound
		}
		log.Error(ctx, ErrGetCategory, zap.Error(err))
		return nil, storageError(ErrGetCategory, err)
	}

	return category, nil
}

// List возвращает категории по возрастанию position.
func (r *CategoryRepository) List(ctx context.Context) ([]*entities.Category, error) {
	log := logger.Log(ctx).With(zap.String("method", "CategoryRepository.List"))

	rows, err := r.pool.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY position ASC, id ASC`,
	)
	if err != nil {
		log.Error(ctx, ErrListCategories, zap.Error(err))
		return nil, storageError(ErrListCategories, err)
	}
	defer rows.Close()

	categories := make([]*entities.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			log.Error(ctx, ErrListCategories, zap.Error(err))
			return nil, storageError(ErrListCategories, err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, ErrListCategories, zap.Error(err))
		return nil, storageError(ErrListCategories, err)
	}

	return categories, nil
}

// Update меняет название и цвет категории.
func (r *CategoryRepository) Update(ctx context.Context, category *entities.Category) error {
	log := logger.Log(ctx).With(zap.String("method", "CategoryRepository.Update"))

	result, err := r.pool.Exec(ctx,
		`UPDATE categories SET title = $1, color = $2 WHERE id = $3`,
		category.Title, category.Color, category.ID,
	)
	if err != nil {
		log.Error(ctx, ErrUpdateCategory, zap.Error(err))
		return storageError(ErrUpdateCategory, err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "category not found, update skipped", zap.Int64("categoryID", category.ID))
	}
	return nil
}

// Delete отвязывает заметки от категории и удаляет ее в одной транзакции.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("method", "CategoryRepository.Delete"))
	log.Debug(ctx, "deleting category", zap.Int64("categoryID", id))

	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE notes SET category_id = NULL WHERE category_id = $1`,
			id,
		); err != nil {
			return storageError(ErrDeleteCategory, err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
			return storageError(ErrDeleteCategory, err)
		}
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrDeleteCategory, zap.Error(err))
		return err
	}
	return nil
}

// SetPositions присваивает категориям позиции 0..n-1 в порядке ids.
func (r *CategoryRepository) SetPositions(ctx context.Context, ids []int64) error {
	log := logger.Log(ctx).With(zap.String("method", "CategoryRepository.SetPositions"))
	log.Debug(ctx, "reordering categories", zap.Int("count", len(ids)))

	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		for position, id := range ids {
			if _, err := tx.Exec(ctx,
				`UPDATE categories SET position = $1 WHERE id = $2`,
				position, id,
			); err != nil {
				return storageError(ErrReorderCategories, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrReorderCategories, zap.Error(err))
		return err
	}
	return nil
}
