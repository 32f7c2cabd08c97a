package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"blocknote/internal/notes/adapters/http/dto"
	"blocknote/internal/notes/domain/entities"
	ports "blocknote/internal/notes/ports/services"
	"blocknote/pkg/logger"
)

// Константы сообщений для логирования и ошибок редактора.
const (
	LogHandlerOpen       = "handling open note request"
	LogHandlerAddImage   = "handling add image request"
	LogUploadCleanup     = "failed to remove uploaded file"
	ErrMsgMissingImage   = "image file is required"
	ErrMsgInvalidSize    = "invalid image size"
	ErrMsgUploadFailed   = "failed to store uploaded file"
	FormFieldImage       = "image"
	FormFieldThumbnail   = "thumbnail"
	FormFieldWidth       = "width"
	FormFieldHeight      = "height"
	uploadDirPermissions = 0o755
)

// EditorHandler обрабатывает запросы сессий редактирования.
type EditorHandler struct {
	editor    Editor
	uploadDir string
}

// NewEditorHandler создает обработчик редактора. Загруженные файлы
// складываются в uploadDir до передачи в конвейер изображений.
func NewEditorHandler(editor Editor, uploadDir string) *EditorHandler {
	return &EditorHandler{editor: editor, uploadDir: uploadDir}
}

// Open открывает заметку на редактирование.
func (h *EditorHandler) Open(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "EditorHandler.Open"))
	log.Debug(requestCtx, LogHandlerOpen)

	noteID, ok := idParam(ctx, "note_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidNoteID)
	}

	opened, err := h.editor.Open(requestCtx, noteID)
	if err != nil {
		log.Debug(requestCtx, "failed to open note", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, dto.OpenedFromEntity(opened))
}

// Close закрывает сессию. Неотправленные правки отбрасываются.
func (h *EditorHandler) Close(ctx fiber.Ctx) error {
	noteID, ok := idParam(ctx, "note_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidNoteID)
	}
	h.editor.CloseSession(noteID)
	return sendNoContent(ctx)
}

// Blocks возвращает блоки открытой заметки.
func (h *EditorHandler) Blocks(ctx fiber.Ctx) error {
	noteID, ok := idParam(ctx, "note_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidNoteID)
	}

	blocks, err := h.editor.Blocks(ctx.Context(), noteID)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, &dto.BlocksResponse{Blocks: dto.BlocksFromEntities(blocks)})
}

// AddBlock добавляет пустой блок.
func (h *EditorHandler) AddBlock(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()

	noteID, ok := idParam(ctx, "note_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidNoteID)
	}

	var req dto.AddBlockRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}
	blockType, err := entities.ParseBlockType(req.Type)
	if err != nil {
		return handleError(ctx, err)
	}

	block, err := h.editor.AddBlock(requestCtx, noteID, req.AfterID, blockType)
	if err != nil {
		logger.Log(requestCtx).Warn(requestCtx, "failed to add block", zap.Int64("noteID", noteID), zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusCreated, dto.BlockFromEntity(block))
}

// AddImage принимает multipart с полями image, thumbnail, width и height.
func (h *EditorHandler) AddImage(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "EditorHandler.AddImage"))
	log.Debug(requestCtx, LogHandlerAddImage)

	noteID, ok := idParam(ctx, "note_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidNoteID)
	}

	image, err := ctx.FormFile(FormFieldImage)
	if err != nil {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgMissingImage)
	}

	width, okWidth := formInt(ctx, FormFieldWidth)
	height, okHeight := formInt(ctx, FormFieldHeight)
	if !okWidth || !okHeight {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidSize)
	}

	src := ports.ImageSource{Width: width, Height: height}
	if src.Path, err = h.save(ctx, image); err != nil {
		log.Error(requestCtx, ErrMsgUploadFailed, zap.Error(err))
		return sendError(ctx, fiber.StatusInternalServerError, ErrMsgUploadFailed)
	}
	defer h.cleanup(requestCtx, src.Path)

	if thumbnail, thumbErr := ctx.FormFile(FormFieldThumbnail); thumbErr == nil {
		if src.ThumbnailPath, err = h.save(ctx, thumbnail); err != nil {
			log.Error(requestCtx, ErrMsgUploadFailed, zap.Error(err))
			return sendError(ctx, fiber.StatusInternalServerError, ErrMsgUploadFailed)
		}
		defer h.cleanup(requestCtx, src.ThumbnailPath)
	}

	block, err := h.editor.AddImage(requestCtx, noteID, src)
	if err != nil {
		log.Warn(requestCtx, "failed to add image", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusCreated, dto.BlockFromEntity(block))
}

func (h *EditorHandler) save(ctx fiber.Ctx, file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, uploadDirPermissions); err != nil {
		return "", err
	}
	path := filepath.Join(h.uploadDir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := ctx.SaveFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}

// cleanup удаляет загруженный файл, если конвейер его не забрал.
func (h *EditorHandler) cleanup(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Log(ctx).Warn(ctx, LogUploadCleanup, zap.String("path", path), zap.Error(err))
	}
}

func formInt(ctx fiber.Ctx, key string) (int, bool) {
	raw := ctx.FormValue(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	return v, err == nil && v >= 0
}

// EditText применяет содержимое текстового блока.
func (h *EditorHandler) EditText(ctx fiber.Ctx) error {
	noteID, blockID, ok := blockParams(ctx)
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidBlockID)
	}

	var req dto.EditTextRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	result, err := h.editor.EditText(ctx.Context(), noteID, blockID, req.Text)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, dto.EditResultFromEntity(result))
}

// ChangeType меняет тип блока из меню.
func (h *EditorHandler) ChangeType(ctx fiber.Ctx) error {
	noteID, blockID, ok := blockParams(ctx)
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidBlockID)
	}

	var req dto.ChangeTypeRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}
	to, err := entities.ParseBlockType(req.Type)
	if err != nil {
		return handleError(ctx, err)
	}

	block, err := h.editor.ChangeType(ctx.Context(), noteID, blockID, to)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, dto.BlockFromEntity(block))
}

// DeleteBlock удаляет блок; 204, если блока уже нет.
func (h *EditorHandler) DeleteBlock(ctx fiber.Ctx) error {
	noteID, blockID, ok := blockParams(ctx)
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidBlockID)
	}

	deleted, created, err := h.editor.DeleteBlock(ctx.Context(), noteID, blockID)
	if err != nil {
		return handleError(ctx, err)
	}
	if deleted == nil {
		return sendNoContent(ctx)
	}
	return sendJSON(ctx, fiber.StatusOK, &dto.DeleteBlockResponse{
		Deleted: dto.BlockFromEntity(deleted),
		Created: dto.BlockFromEntity(created),
	})
}

// AddItem добавляет пункт в список или чек-лист.
func (h *EditorHandler) AddItem(ctx fiber.Ctx) error {
	noteID, blockID, ok := blockParams(ctx)
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidBlockID)
	}

	var req dto.AddItemRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	block, itemID, err := h.editor.AddItem(ctx.Context(), noteID, blockID, req.Text)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusCreated, &dto.AddItemResponse{Block: dto.BlockFromEntity(block), ItemID: itemID})
}

// UpdateItem меняет текст или отметку пункта.
func (h *EditorHandler) UpdateItem(ctx fiber.Ctx) error {
	noteID, blockID, itemID, ok := itemParams(ctx)
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidItemID)
	}

	var req dto.UpdateItemRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	block, err := h.editor.UpdateItem(ctx.Context(), noteID, blockID, itemID, req.Text, req.Done)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, dto.BlockFromEntity(block))
}

// RemoveItem удаляет пункт.
func (h *EditorHandler) RemoveItem(ctx fiber.Ctx) error {
	noteID, blockID, itemID, ok := itemParams(ctx)
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidItemID)
	}

	block, err := h.editor.RemoveItem(ctx.Context(), noteID, blockID, itemID)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, dto.BlockFromEntity(block))
}

// SubmitItem обрабатывает Enter в пункте.
func (h *EditorHandler) SubmitItem(ctx fiber.Ctx) error {
	noteID, blockID, itemID, ok := itemParams(ctx)
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidItemID)
	}

	result, err := h.editor.SubmitItem(ctx.Context(), noteID, blockID, itemID)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, dto.EditResultFromEntity(result))
}

// Undo восстанавливает последний удаленный блок; 204, если нечего отменять.
func (h *EditorHandler) Undo(ctx fiber.Ctx) error {
	noteID, ok := idParam(ctx, "note_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidNoteID)
	}

	block, err := h.editor.Undo(ctx.Context(), noteID)
	if err != nil {
		return handleError(ctx, err)
	}
	if block == nil {
		return sendNoContent(ctx)
	}
	return sendJSON(ctx, fiber.StatusOK, dto.BlockFromEntity(block))
}

// Toast возвращает слот уведомлений.
func (h *EditorHandler) Toast(ctx fiber.Ctx) error {
	noteID, ok := idParam(ctx, "note_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidNoteID)
	}

	toast, err := h.editor.Toast(noteID)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, dto.ToastFromEntity(toast))
}

// DismissToast закрывает подсказку.
func (h *EditorHandler) DismissToast(ctx fiber.Ctx) error {
	noteID, ok := idParam(ctx, "note_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidNoteID)
	}

	if err := h.editor.DismissToast(noteID); err != nil {
		return handleError(ctx, err)
	}
	return sendNoContent(ctx)
}

// EditTitle откладывает переименование заметки.
func (h *EditorHandler) EditTitle(ctx fiber.Ctx) error {
	noteID, ok := idParam(ctx, "note_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidNoteID)
	}

	var req dto.EditTitleRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	if err := h.editor.EditTitle(noteID, req.Title); err != nil {
		return handleError(ctx, err)
	}
	if err := ctx.SendStatus(fiber.StatusAccepted); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

func blockParams(ctx fiber.Ctx) (int64, int64, bool) {
	noteID, okNote := idParam(ctx, "note_id")
	blockID, okBlock := idParam(ctx, "block_id")
	return noteID, blockID, okNote && okBlock
}

func itemParams(ctx fiber.Ctx) (int64, int64, int, bool) {
	noteID, blockID, ok := blockParams(ctx)
	itemID, okItem := itemParam(ctx)
	return noteID, blockID, itemID, ok && okItem
}
