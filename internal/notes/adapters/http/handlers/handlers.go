// Package handlers содержит HTTP-обработчики заметок, категорий и редактора.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"blocknote/internal/notes/app"
	"blocknote/internal/notes/domain/entities"
	ports "blocknote/internal/notes/ports/services"
)

// Константы ошибок для ответов.
const (
	ErrMsgInvalidNoteID      = "invalid note id"
	ErrMsgInvalidBlockID     = "invalid block id"
	ErrMsgInvalidItemID      = "invalid item id"
	ErrMsgInvalidCategoryID  = "invalid category id"
	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgInternal           = "Internal server error"
)

// Catalog - операции со списком заметок и категориями.
type Catalog interface {
	List(ctx context.Context, filter entities.NotesFilter) ([]*entities.Note, error)
	ListWithPreview(ctx context.Context, filter entities.NotesFilter) ([]*entities.NoteWithPreview, error)
	ListArchived(ctx context.Context) ([]*entities.Note, error)
	CreateNote(ctx context.Context, title string) (*entities.Note, error)
	GetNote(ctx context.Context, id int64) (*entities.Note, error)
	RenameNote(ctx context.Context, id int64, title string) error
	SetNoteCategory(ctx context.Context, id int64, categoryID *int64) error
	Archive(ctx context.Context, id int64) error
	Unarchive(ctx context.Context, id int64) error
	DeleteNote(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]*entities.Category, error)
	Counts(ctx context.Context) (*entities.CategoryCounts, error)
	CreateCategory(ctx context.Context, title string, color *string) (*entities.Category, error)
	UpdateCategory(ctx context.Context, id int64, title string, color *string) error
	DeleteCategory(ctx context.Context, id int64) error
	ReorderCategories(ctx context.Context, ids []int64) error
}

// Editor - операции сессий редактирования по id заметки.
type Editor interface {
	Open(ctx context.Context, noteID int64) (*app.OpenedNote, error)
	CloseSession(noteID int64) bool
	Blocks(ctx context.Context, noteID int64) ([]*entities.Block, error)
	AddBlock(ctx context.Context, noteID int64, afterID *int64, blockType entities.BlockType) (*entities.Block, error)
	AddImage(ctx context.Context, noteID int64, src ports.ImageSource) (*entities.Block, error)
	EditText(ctx context.Context, noteID, blockID int64, text string) (*app.EditResult, error)
	ChangeType(ctx context.Context, noteID, blockID int64, to entities.BlockType) (*entities.Block, error)
	AddItem(ctx context.Context, noteID, blockID int64, text string) (*entities.Block, int, error)
	UpdateItem(ctx context.Context, noteID, blockID int64, itemID int, text *string, done *bool) (*entities.Block, error)
	RemoveItem(ctx context.Context, noteID, blockID int64, itemID int) (*entities.Block, error)
	SubmitItem(ctx context.Context, noteID, blockID int64, itemID int) (*app.EditResult, error)
	DeleteBlock(ctx context.Context, noteID, blockID int64) (*entities.Block, *entities.Block, error)
	Undo(ctx context.Context, noteID int64) (*entities.Block, error)
	Toast(noteID int64) (app.Toast, error)
	DismissToast(noteID int64) error
	EditTitle(noteID int64, title string) error
}

// handleError переводит ошибки домена в HTTP статусы.
func handleError(ctx fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return sendError(ctx, fiberErr.Code, fiberErr.Message)
	case errors.Is(err, entities.ErrValidation):
		return sendError(ctx, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, entities.ErrNotFound):
		return sendError(ctx, fiber.StatusNotFound, err.Error())
	default:
		return sendError(ctx, fiber.StatusInternalServerError, ErrMsgInternal)
	}
}

func sendError(ctx fiber.Ctx, status int, msg string) error {
	if err := ctx.Status(status).JSON(fiber.Map{"error": msg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}
	return nil
}

func sendJSON(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

func sendNoContent(ctx fiber.Ctx) error {
	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// idParam читает положительный id из пути.
func idParam(ctx fiber.Ctx, key string) (int64, bool) {
	id := fiber.Params[int64](ctx, key)
	return id, id > 0
}

func itemParam(ctx fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(ctx.Params("item_id"))
	return id, err == nil && id >= 0
}
