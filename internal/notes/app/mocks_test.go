package app_test

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"blocknote/internal/notes/domain/entities"
	ports "blocknote/internal/notes/ports/services"
)

var ErrDatabaseOperation = errors.New("database error")

type mockNoteRepository struct {
	mock.Mock
}

func (m *mockNoteRepository) Create(ctx context.Context, note *entities.Note) (int64, error) {
	args := m.Called(ctx, note)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNoteRepository) GetByID(ctx context.Context, id int64) (*entities.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) List(ctx context.Context, filter entities.NotesFilter) ([]*entities.Note, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) ListArchived(ctx context.Context) ([]*entities.Note, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	return m.Called(ctx, id, title).Error(0)
}

func (m *mockNoteRepository) SetArchived(ctx context.Context, id int64, archived bool) error {
	return m.Called(ctx, id, archived).Error(0)
}

func (m *mockNoteRepository) SetCategory(ctx context.Context, id int64, categoryID *int64) error {
	return m.Called(ctx, id, categoryID).Error(0)
}

func (m *mockNoteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockNoteRepository) CountByCategory(ctx context.Context) (*entities.CategoryCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CategoryCounts), args.Error(1)
}

type mockCategoryRepository struct {
	mock.Mock
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *entities.Category) (int64, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id int64) (*entities.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Category), args.Error(1)
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*entities.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Category), args.Error(1)
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *entities.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCategoryRepository) SetPositions(ctx context.Context, ids []int64) error {
	return m.Called(ctx, ids).Error(0)
}

type mockImagePipeline struct {
	mock.Mock
}

func (m *mockImagePipeline) Import(ctx context.Context, noteID int64, src ports.ImageSource) (*entities.ImageBlockContent, error) {
	args := m.Called(ctx, noteID, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ImageBlockContent), args.Error(1)
}

func (m *mockImagePipeline) Delete(ctx context.Context, image *entities.ImageBlockContent) error {
	return m.Called(ctx, image).Error(0)
}

func (m *mockImagePipeline) DeleteNoteImages(ctx context.Context, noteID int64) error {
	return m.Called(ctx, noteID).Error(0)
}
