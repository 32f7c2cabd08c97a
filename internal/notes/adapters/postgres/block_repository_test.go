package postgres_test

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blocknote/internal/notes/adapters/postgres"
	"blocknote/internal/notes/domain/entities"
)

var blockCols = []string{"id", "note_id", "type", "content", "order", "created_at", "updated_at"}

func TestBlockRepository_ListByNote(t *testing.T) {
	ctx := testContext(t)

	t.Run("decodes content by type", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT (.+) FROM blocks WHERE note_id = \$1 ORDER BY "order" ASC`).
			WithArgs(int64(3)).
			WillReturnRows(pgxmock.NewRows(blockCols).
				AddRow(int64(1), int64(3), "text", strPtr("hello"), 1000.0, testTime, testTime).
				AddRow(int64(2), int64(3), "checklist", strPtr("not json"), 2000.0, testTime, testTime).
				AddRow(int64(5), int64(3), "image", nil, 3000.0, testTime, testTime))

		repo := postgres.NewBlockRepository(mock)
		blocks, err := repo.ListByNote(ctx, 3)

		require.NoError(t, err)
		require.Len(t, blocks, 3)
		assert.Equal(t, entities.TextContent{Text: "hello"}, blocks[0].Content)
		assert.Equal(t, entities.PlaceholderChecklist(), blocks[1].Content)
		assert.Equal(t, entities.ImageContent{}, blocks[2].Content)
		assert.Equal(t, 3000.0, blocks[2].Order)
	})

	t.Run("query error is a storage error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT (.+) FROM blocks`).
			WithArgs(int64(3)).
			WillReturnError(errDatabaseConnection)

		repo := postgres.NewBlockRepository(mock)
		blocks, err := repo.ListByNote(ctx, 3)

		require.Nil(t, blocks)
		require.ErrorIs(t, err, entities.ErrStorage)
		require.ErrorIs(t, err, errDatabaseConnection)
		assert.Contains(t, err.Error(), postgres.ErrListBlocks)
	})
}

func TestBlockRepository_GetByID(t *testing.T) {
	ctx := testContext(t)

	t.Run("not found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT (.+) FROM blocks WHERE id = \$1`).
			WithArgs(int64(9)).
			WillReturnRows(pgxmock.NewRows(blockCols))

		repo := postgres.NewBlockRepository(mock)
		block, err := repo.GetByID(ctx, 9)

		require.Nil(t, block)
		require.ErrorIs(t, err, entities.ErrBlockNotFound)
		require.ErrorIs(t, err, entities.ErrNotFound)
	})

	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT (.+) FROM blocks WHERE id = \$1`).
			WithArgs(int64(9)).
			WillReturnRows(pgxmock.NewRows(blockCols).
				AddRow(int64(9), int64(1), "list", strPtr(`[{"id":2,"text":"x"}]`), 1500.0, testTime, testTime))

		repo := postgres.NewBlockRepository(mock)
		block, err := repo.GetByID(ctx, 9)

		require.NoError(t, err)
		assert.Equal(t, entities.BlockList, block.Type)
		assert.Equal(t, entities.ListContent{Items: []entities.ListItem{{ID: 2, Text: "x"}}}, block.Content)
	})
}

func TestBlockRepository_FirstNonImage(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)

	mock.ExpectQuery(`WHERE note_id = \$1 AND type <> 'image'`).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows(blockCols))

	repo := postgres.NewBlockRepository(mock)
	block, err := repo.FirstNonImage(ctx, 4)

	require.NoError(t, err)
	assert.Nil(t, block)
}

func TestBlockRepository_Orders(t *testing.T) {
	ctx := testContext(t)

	t.Run("last order of empty note", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT MAX\("order"\) FROM blocks WHERE note_id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(nil))

		repo := postgres.NewBlockRepository(mock)
		last, err := repo.LastOrder(ctx, 1)

		require.NoError(t, err)
		assert.Nil(t, last)
	})

	t.Run("next order", func(t *testing.T) {
		next := 2000.0
		mock := newMock(t)
		mock.ExpectQuery(`SELECT MIN\("order"\) FROM blocks WHERE note_id = \$1 AND "order" > \$2`).
			WithArgs(int64(1), 1000.0).
			WillReturnRows(pgxmock.NewRows([]string{"min"}).AddRow(&next))

		repo := postgres.NewBlockRepository(mock)
		got, err := repo.NextOrder(ctx, 1, 1000)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 2000.0, *got)
	})

	t.Run("order taken", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(int64(1), 1000.0).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		repo := postgres.NewBlockRepository(mock)
		taken, err := repo.OrderTaken(ctx, 1, 1000)

		require.NoError(t, err)
		assert.True(t, taken)
	})
}

func TestBlockRepository_Create(t *testing.T) {
	ctx := testContext(t)

	t.Run("encodes checklist", func(t *testing.T) {
		mock := newMock(t)
		block := entities.NewBlock(2, entities.BlockChecklist, 1000, entities.ChecklistContent{
			Items: []entities.ChecklistItem{{ID: 1, Text: "milk"}},
		})

		mock.ExpectQuery(`INSERT INTO blocks \(note_id, type, content, "order", created_at, updated_at\)`).
			WithArgs(int64(2), "checklist", strPtr(`[{"id":1,"text":"milk","done":false}]`), 1000.0, pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

		repo := postgres.NewBlockRepository(mock)
		id, err := repo.Create(ctx, block)

		require.NoError(t, err)
		assert.Equal(t, int64(11), id)
	})

	t.Run("missing note", func(t *testing.T) {
		mock := newMock(t)
		block := entities.NewBlock(404, entities.BlockText, 1000, nil)

		mock.ExpectQuery(`INSERT INTO blocks`).
			WithArgs(int64(404), "text", strPtr(""), 1000.0, pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		repo := postgres.NewBlockRepository(mock)
		_, err := repo.Create(ctx, block)

		require.ErrorIs(t, err, entities.ErrNoteNotFound)
	})

	t.Run("content of another type is rejected", func(t *testing.T) {
		mock := newMock(t)
		block := entities.NewBlock(1, entities.BlockList, 1000, entities.TextContent{Text: "x"})

		repo := postgres.NewBlockRepository(mock)
		_, err := repo.Create(ctx, block)

		require.ErrorIs(t, err, entities.ErrContentMismatch)
	})
}

func TestBlockRepository_UpdateContent(t *testing.T) {
	ctx := testContext(t)

	t.Run("missing block is a no-op", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`UPDATE blocks SET content = \$1, updated_at = NOW\(\) WHERE id = \$2`).
			WithArgs(strPtr("new"), int64(8)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := postgres.NewBlockRepository(mock)
		require.NoError(t, repo.UpdateContent(ctx, 8, entities.TextContent{Text: "new"}))
	})

	t.Run("database error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(`UPDATE blocks SET content`).
			WithArgs(strPtr("new"), int64(8)).
			WillReturnError(errDatabaseConnection)

		repo := postgres.NewBlockRepository(mock)
		err := repo.UpdateContent(ctx, 8, entities.TextContent{Text: "new"})
		require.ErrorIs(t, err, entities.ErrStorage)
	})
}

func TestBlockRepository_UpdateType(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)

	mock.ExpectExec(`UPDATE blocks SET type = \$1, content = \$2, updated_at = NOW\(\) WHERE id = \$3`).
		WithArgs("list", strPtr(`[{"id":1,"text":"a"}]`), int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := postgres.NewBlockRepository(mock)
	err := repo.UpdateType(ctx, 5, entities.BlockList, entities.ListContent{Items: []entities.ListItem{{ID: 1, Text: "a"}}})
	require.NoError(t, err)

	err = repo.UpdateType(ctx, 5, entities.BlockTitle, entities.PlaceholderList())
	require.ErrorIs(t, err, entities.ErrContentMismatch)
}

func TestBlockRepository_Delete(t *testing.T) {
	ctx := testContext(t)

	t.Run("returns deleted block", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`DELETE FROM blocks WHERE id = \$1 RETURNING`).
			WithArgs(int64(6)).
			WillReturnRows(pgxmock.NewRows(blockCols).
				AddRow(int64(6), int64(2), "quote", strPtr("wise"), 2500.0, testTime, testTime))

		repo := postgres.NewBlockRepository(mock)
		block, err := repo.Delete(ctx, 6)

		require.NoError(t, err)
		require.NotNil(t, block)
		assert.Equal(t, entities.BlockQuote, block.Type)
		assert.Equal(t, 2500.0, block.Order)
	})

	t.Run("missing block", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`DELETE FROM blocks`).
			WithArgs(int64(6)).
			WillReturnRows(pgxmock.NewRows(blockCols))

		repo := postgres.NewBlockRepository(mock)
		block, err := repo.Delete(ctx, 6)

		require.NoError(t, err)
		assert.Nil(t, block)
	})
}

func TestBlockRepository_Renormalize(t *testing.T) {
	ctx := testContext(t)

	t.Run("rewrites orders in one transaction", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM blocks WHERE note_id = \$1 ORDER BY "order" ASC FOR UPDATE`).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(30)).AddRow(int64(10)))
		mock.ExpectExec(`UPDATE blocks SET "order" = \$1 WHERE id = \$2`).
			WithArgs(1000.0, int64(30)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(`UPDATE blocks SET "order" = \$1 WHERE id = \$2`).
			WithArgs(2000.0, int64(10)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		repo := postgres.NewBlockRepository(mock)
		require.NoError(t, repo.Renormalize(ctx, 7))
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM blocks`).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(30)))
		mock.ExpectExec(`UPDATE blocks SET "order"`).
			WithArgs(1000.0, int64(30)).
			WillReturnError(errDatabaseConnection)
		mock.ExpectRollback()

		repo := postgres.NewBlockRepository(mock)
		err := repo.Renormalize(ctx, 7)
		require.ErrorIs(t, err, entities.ErrStorage)
		assert.Contains(t, err.Error(), postgres.ErrRenormalizeOrder)
	})
}

func TestBlockRepository_ImagesByNote(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)

	mock.ExpectQuery(`SELECT content FROM blocks WHERE note_id = \$1 AND type = 'image'`).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"content"}).
			AddRow(strPtr(`{"id":"a","original_uri":"/img/2/a.jpg","thumbnail_uri":"/img/2/a_thumb.jpg"}`)).
			AddRow(strPtr("broken")).
			AddRow(nil))

	repo := postgres.NewBlockRepository(mock)
	images, err := repo.ImagesByNote(ctx, 2)

	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "/img/2/a.jpg", images[0].OriginalURI)
}
