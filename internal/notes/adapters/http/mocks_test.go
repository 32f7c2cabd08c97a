package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"blocknote/internal/notes/app"
	"blocknote/internal/notes/domain/entities"
	ports "blocknote/internal/notes/ports/services"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) List(ctx context.Context, filter entities.NotesFilter) ([]*entities.Note, error) {
	args := m.Called(ctx, filter)
	notes, _ := args.Get(0).([]*entities.Note)
	return notes, args.Error(1)
}

func (m *mockCatalog) ListWithPreview(ctx context.Context, filter entities.NotesFilter) ([]*entities.NoteWithPreview, error) {
	args := m.Called(ctx, filter)
	notes, _ := args.Get(0).([]*entities.NoteWithPreview)
	return notes, args.Error(1)
}

func (m *mockCatalog) ListArchived(ctx context.Context) ([]*entities.Note, error) {
	args := m.Called(ctx)
	notes, _ := args.Get(0).([]*entities.Note)
	return notes, args.Error(1)
}

func (m *mockCatalog) CreateNote(ctx context.Context, title string) (*entities.Note, error) {
	args := m.Called(ctx, title)
	note, _ := args.Get(0).(*entities.Note)
	return note, args.Error(1)
}

func (m *mockCatalog) GetNote(ctx context.Context, id int64) (*entities.Note, error) {
	args := m.Called(ctx, id)
	note, _ := args.Get(0).(*entities.Note)
	return note, args.Error(1)
}

func (m *mockCatalog) RenameNote(ctx context.Context, id int64, title string) error {
	return m.Called(ctx, id, title).Error(0)
}

func (m *mockCatalog) SetNoteCategory(ctx context.Context, id int64, categoryID *int64) error {
	return m.Called(ctx, id, categoryID).Error(0)
}

func (m *mockCatalog) Archive(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalog) Unarchive(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalog) DeleteNote(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalog) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]*entities.Category)
	return categories, args.Error(1)
}

func (m *mockCatalog) Counts(ctx context.Context) (*entities.CategoryCounts, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(*entities.CategoryCounts)
	return counts, args.Error(1)
}

func (m *mockCatalog) CreateCategory(ctx context.Context, title string, color *string) (*entities.Category, error) {
	args := m.Called(ctx, title, color)
	category, _ := args.Get(0).(*entities.Category)
	return category, args.Error(1)
}

func (m *mockCatalog) UpdateCategory(ctx context.Context, id int64, title string, color *string) error {
	return m.Called(ctx, id, title, color).Error(0)
}

func (m *mockCatalog) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalog) ReorderCategories(ctx context.Context, ids []int64) error {
	return m.Called(ctx, ids).Error(0)
}

type mockEditor struct {
	mock.Mock
}

func (m *mockEditor) Open(ctx context.Context, noteID int64) (*app.OpenedNote, error) {
	args := m.Called(ctx, noteID)
	opened, _ := args.Get(0).(*app.OpenedNote)
	return opened, args.Error(1)
}

func (m *mockEditor) CloseSession(noteID int64) bool {
	return m.Called(noteID).Bool(0)
}

func (m *mockEditor) Blocks(ctx context.Context, noteID int64) ([]*entities.Block, error) {
	args := m.Called(ctx, noteID)
	blocks, _ := args.Get(0).([]*entities.Block)
	return blocks, args.Error(1)
}

func (m *mockEditor) AddBlock(ctx context.Context, noteID int64, afterID *int64, blockType entities.BlockType) (*entities.Block, error) {
	args := m.Called(ctx, noteID, afterID, blockType)
	block, _ := args.Get(0).(*entities.Block)
	return block, args.Error(1)
}

func (m *mockEditor) AddImage(ctx context.Context, noteID int64, src ports.ImageSource) (*entities.Block, error) {
	args := m.Called(ctx, noteID, src)
	block, _ := args.Get(0).(*entities.Block)
	return block, args.Error(1)
}

func (m *mockEditor) EditText(ctx context.Context, noteID, blockID int64, text string) (*app.EditResult, error) {
	args := m.Called(ctx, noteID, blockID, text)
	result, _ := args.Get(0).(*app.EditResult)
	return result, args.Error(1)
}

func (m *mockEditor) ChangeType(ctx context.Context, noteID, blockID int64, to entities.BlockType) (*entities.Block, error) {
	args := m.Called(ctx, noteID, blockID, to)
	block, _ := args.Get(0).(*entities.Block)
	return block, args.Error(1)
}

func (m *mockEditor) AddItem(ctx context.Context, noteID, blockID int64, text string) (*entities.Block, int, error) {
	args := m.Called(ctx, noteID, blockID, text)
	block, _ := args.Get(0).(*entities.Block)
	return block, args.Int(1), args.Error(2)
}

func (m *mockEditor) UpdateItem(ctx context.Context, noteID, blockID int64, itemID int, text *string, done *bool) (*entities.Block, error) {
	args := m.Called(ctx, noteID, blockID, itemID, text, done)
	block, _ := args.Get(0).(*entities.Block)
	return block, args.Error(1)
}

func (m *mockEditor) RemoveItem(ctx context.Context, noteID, blockID int64, itemID int) (*entities.Block, error) {
	args := m.Called(ctx, noteID, blockID, itemID)
	block, _ := args.Get(0).(*entities.Block)
	return block, args.Error(1)
}

func (m *mockEditor) SubmitItem(ctx context.Context, noteID, blockID int64, itemID int) (*app.EditResult, error) {
	args := m.Called(ctx, noteID, blockID, itemID)
	result, _ := args.Get(0).(*app.EditResult)
	return result, args.Error(1)
}

func (m *mockEditor) DeleteBlock(ctx context.Context, noteID, blockID int64) (*entities.Block, *entities.Block, error) {
	args := m.Called(ctx, noteID, blockID)
	deleted, _ := args.Get(0).(*entities.Block)
	created, _ := args.Get(1).(*entities.Block)
	return deleted, created, args.Error(2)
}

func (m *mockEditor) Undo(ctx context.Context, noteID int64) (*entities.Block, error) {
	args := m.Called(ctx, noteID)
	block, _ := args.Get(0).(*entities.Block)
	return block, args.Error(1)
}

func (m *mockEditor) Toast(noteID int64) (app.Toast, error) {
	args := m.Called(noteID)
	return args.Get(0).(app.Toast), args.Error(1)
}

func (m *mockEditor) DismissToast(noteID int64) error {
	return m.Called(noteID).Error(0)
}

func (m *mockEditor) EditTitle(noteID int64, title string) error {
	return m.Called(noteID, title).Error(0)
}
