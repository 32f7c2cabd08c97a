// Package postgres provides PostgreSQL implementations of repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"blocknote/internal/notes/domain/entities"
	"blocknote/internal/notes/ports/repositories"
	"blocknote/pkg/logger"
)

// Коды ошибок PostgreSQL.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

const (
	ErrBeginTx    = "failed to begin transaction"
	ErrCommitTx   = "failed to commit transaction"
	LogRollbackTx = "failed to rollback transaction"
)

// PgxPoolInterface is the part of pgxpool.Pool the repositories use.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// RepositoryFactory создает репозитории для работы с базой данных.
type RepositoryFactory struct {
	blockRepo    repositories.BlockRepository
	noteRepo     repositories.NoteRepository
	categoryRepo repositories.CategoryRepository
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{
		blockRepo:    NewBlockRepository(pool),
		noteRepo:     NewNoteRepository(pool),
		categoryRepo: NewCategoryRepository(pool),
	}
}

// BlockRepository возвращает репозиторий блоков.
func (f *RepositoryFactory) BlockRepository() repositories.BlockRepository {
	return f.blockRepo
}

// NoteRepository возвращает репозиторий для работы с заметками.
func (f *RepositoryFactory) NoteRepository() repositories.NoteRepository {
	return f.noteRepo
}

// CategoryRepository возвращает репозиторий категорий.
func (f *RepositoryFactory) CategoryRepository() repositories.CategoryRepository {
	return f.categoryRepo
}

// storageError wraps a driver error so callers can match entities.ErrStorage.
func storageError(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, entities.ErrStorage, err)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// inTx runs fn in a transaction, rolling back when fn fails.
func inTx(ctx context.Context, pool PgxPoolInterface, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return storageError(ErrBeginTx, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.Log(ctx).Warn(ctx, LogRollbackTx, zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return storageError(ErrCommitTx, err)
	}
	return nil
}
