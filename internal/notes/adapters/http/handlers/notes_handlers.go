package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"blocknote/internal/notes/adapters/http/dto"
	"blocknote/internal/notes/domain/entities"
	"blocknote/pkg/logger"
)

// Константы сообщений для логирования.
const (
	LogHandlerListNotes    = "handling list notes request"
	LogHandlerListPreviews = "handling list previews request"
	LogHandlerListArchived = "handling list archived notes request"
	LogHandlerCreateNote   = "handling create note request"
	LogHandlerGetNote      = "handling get note request"
	LogHandlerRenameNote   = "handling rename note request"
	LogHandlerSetCategory  = "handling set note category request"
	LogHandlerArchive      = "handling archive note request"
	LogHandlerUnarchive    = "handling unarchive note request"
	LogHandlerDeleteNote   = "handling delete note request"
)

// NotesHandler обрабатывает запросы к заметкам.
type NotesHandler struct {
	catalog Catalog
	editor  Editor
}

// NewNotesHandler создает обработчик заметок. Сессия редактирования
// удаляемой заметки закрывается через editor.
func NewNotesHandler(catalog Catalog, editor Editor) *NotesHandler {
	return &NotesHandler{catalog: catalog, editor: editor}
}

func (h *NotesHandler) filter(ctx fiber.Ctx) (entities.NotesFilter, error) {
	category, err := entities.ParseCategoryFilter(ctx.Query("category"))
	if err != nil {
		return entities.NotesFilter{}, err
	}
	return entities.NotesFilter{Search: ctx.Query("search"), Category: category}, nil
}

// ListNotes возвращает активные заметки по фильтру.
func (h *NotesHandler) ListNotes(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "NotesHandler.ListNotes"))
	log.Debug(requestCtx, LogHandlerListNotes)

	filter, err := h.filter(ctx)
	if err != nil {
		return handleError(ctx, err)
	}

	notes, err := h.catalog.List(requestCtx, filter)
	if err != nil {
		log.Error(requestCtx, "failed to list notes", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NotesFromEntities(notes))
}

// ListPreviews возвращает активные заметки с предпросмотром.
func (h *NotesHandler) ListPreviews(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "NotesHandler.ListPreviews"))
	log.Debug(requestCtx, LogHandlerListPreviews)

	filter, err := h.filter(ctx)
	if err != nil {
		return handleError(ctx, err)
	}

	notes, err := h.catalog.ListWithPreview(requestCtx, filter)
	if err != nil {
		log.Error(requestCtx, "failed to list previews", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, dto.PreviewsFromEntities(notes))
}

// ListArchived возвращает архив.
func (h *NotesHandler) ListArchived(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "NotesHandler.ListArchived"))
	log.Debug(requestCtx, LogHandlerListArchived)

	notes, err := h.catalog.ListArchived(requestCtx)
	if err != nil {
		log.Error(requestCtx, "failed to list archived notes", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NotesFromEntities(notes))
}

// CreateNote создает заметку.
func (h *NotesHandler) CreateNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "NotesHandler.CreateNote"))
	log.Debug(requestCtx, LogHandlerCreateNote)

	var req dto.CreateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Warn(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	note, err := h.catalog.CreateNote(requestCtx, req.Title)
	if err != nil {
		log.Error(requestCtx, "failed to create note", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusCreated, dto.NoteFromEntity(note))
}

// GetNote возвращает заметку по id.
func (h *NotesHandler) GetNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "NotesHandler.GetNote"))
	log.Debug(requestCtx, LogHandlerGetNote)

	noteID, ok := idParam(ctx, "note_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidNoteID)
	}

	note, err := h.catalog.GetNote(requestCtx, noteID)
	if err != nil {
		log.Debug(requestCtx, "failed to get note", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, dto.NoteFromEntity(note))
}

// RenameNote сразу сохраняет новый заголовок.
func (h *NotesHandler) RenameNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "NotesHandler.RenameNote"))
	log.Debug(requestCtx, LogHandlerRenameNote)

	noteID, ok := idParam(ctx, "note_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidNoteID)
	}

	var req dto.RenameNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Warn(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	if err := h.catalog.RenameNote(requestCtx, noteID, req.Title); err != nil {
		log.Error(requestCtx, "failed to rename note", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendNoContent(ctx)
}

// SetCategory назначает или снимает категорию заметки.
func (h *NotesHandler) SetCategory(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "NotesHandler.SetCategory"))
	log.Debug(requestCtx, LogHandlerSetCategory)

	noteID, ok := idParam(ctx, "note_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidNoteID)
	}

	var req dto.SetCategoryRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Warn(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	if err := h.catalog.SetNoteCategory(requestCtx, noteID, req.CategoryID); err != nil {
		log.Warn(requestCtx, "failed to set note category", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendNoContent(ctx)
}

// Archive переносит заметку в архив.
func (h *NotesHandler) Archive(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerArchive)
	return h.setArchived(ctx, h.catalog.Archive)
}

// Unarchive возвращает заметку из архива.
func (h *NotesHandler) Unarchive(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerUnarchive)
	return h.setArchived(ctx, h.catalog.Unarchive)
}

func (h *NotesHandler) setArchived(ctx fiber.Ctx, apply func(ctx context.Context, id int64) error) error {
	requestCtx := ctx.Context()

	noteID, ok := idParam(ctx, "note_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidNoteID)
	}

	if err := apply(requestCtx, noteID); err != nil {
		logger.Log(requestCtx).Error(requestCtx, "failed to change archive state", zap.Int64("noteID", noteID), zap.Error(err))
		return handleError(ctx, err)
	}
	return sendNoContent(ctx)
}

// DeleteNote закрывает сессию редактирования и удаляет заметку.
func (h *NotesHandler) DeleteNote(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "NotesHandler.DeleteNote"))
	log.Debug(requestCtx, LogHandlerDeleteNote)

	noteID, ok := idParam(ctx, "note_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidNoteID)
	}

	h.editor.CloseSession(noteID)

	if err := h.catalog.DeleteNote(requestCtx, noteID); err != nil {
		log.Error(requestCtx, "failed to delete note", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendNoContent(ctx)
}
