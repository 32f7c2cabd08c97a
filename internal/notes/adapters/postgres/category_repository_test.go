package postgres_test

import (
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blocknote/internal/notes/adapters/postgres"
	"blocknote/internal/notes/domain/entities"
)

var categoryCols = []string{"id", "title", "color", "position", "created_at"}

func TestCategoryRepository_Create(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)

	color := "#ff8800"
	category := &entities.Category{Title: "Work", Color: &color, CreatedAt: testTime}

	mock.ExpectQuery(`INSERT INTO categories \(title, color, position, created_at\)`).
		WithArgs("Work", &color, testTime).
		WillReturnRows(pgxmock.NewRows([]string{"id", "position"}).AddRow(int64(7), 2))

	repo := postgres.NewCategoryRepository(mock)
	id, err := repo.Create(ctx, category)

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, 2, category.Position)
}

func TestCategoryRepository_GetByID(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM categories WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(categoryCols))

	repo := postgres.NewCategoryRepository(mock)
	_, err := repo.GetByID(ctx, 3)

	require.ErrorIs(t, err, entities.ErrCategoryNotFound)
}

func TestCategoryRepository_List(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM categories ORDER BY position ASC`).
		WillReturnRows(pgxmock.NewRows(categoryCols).
			AddRow(int64(2), "Home", nil, 0, testTime).
			AddRow(int64(1), "Work", strPtr("#000"), 1, testTime))

	repo := postgres.NewCategoryRepository(mock)
	categories, err := repo.List(ctx)

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Home", categories[0].Title)
	assert.Nil(t, categories[0].Color)
	assert.Equal(t, "#000", *categories[1].Color)
}

func TestCategoryRepository_Delete(t *testing.T) {
	ctx := testContext(t)

	t.Run("detaches notes before deleting", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE notes SET category_id = NULL WHERE category_id = \$1`).
			WithArgs(int64(4)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 3))
		mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
			WithArgs(int64(4)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		repo := postgres.NewCategoryRepository(mock)
		require.NoError(t, repo.Delete(ctx, 4))
	})

	t.Run("rolls back when detaching fails", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE notes SET category_id = NULL`).
			WithArgs(int64(4)).
			WillReturnError(errDatabaseConnection)
		mock.ExpectRollback()

		repo := postgres.NewCategoryRepository(mock)
		err := repo.Delete(ctx, 4)
		require.ErrorIs(t, err, entities.ErrStorage)
	})

	t.Run("begin fails", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin().WillReturnError(errDatabaseConnection)

		repo := postgres.NewCategoryRepository(mock)
		err := repo.Delete(ctx, 4)
		require.ErrorIs(t, err, errDatabaseConnection)
		assert.Contains(t, err.Error(), postgres.ErrBeginTx)
	})
}

func TestCategoryRepository_SetPositions(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE categories SET position = \$1 WHERE id = \$2`).
		WithArgs(0, int64(9)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE categories SET position = \$1 WHERE id = \$2`).
		WithArgs(1, int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	repo := postgres.NewCategoryRepository(mock)
	require.NoError(t, repo.SetPositions(ctx, []int64{9, 4}))
}

func TestCategoryRepository_Update(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)

	mock.ExpectExec(`UPDATE categories SET title = \$1, color = \$2 WHERE id = \$3`).
		WithArgs("Renamed", (*string)(nil), int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := postgres.NewCategoryRepository(mock)
	require.NoError(t, repo.Update(ctx, &entities.Category{ID: 4, Title: "Renamed"}))
}
