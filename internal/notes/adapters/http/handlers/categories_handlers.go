package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"blocknote/internal/notes/adapters/http/dto"
	"blocknote/pkg/logger"
)

// Константы сообщений для логирования.
const (
	LogHandlerListCategories    = "handling list categories request"
	LogHandlerCategoryCounts    = "handling category counts request"
	LogHandlerCreateCategory    = "handling create category request"
	LogHandlerUpdateCategory    = "handling update category request"
	LogHandlerDeleteCategory    = "handling delete category request"
	LogHandlerReorderCategories = "handling reorder categories request"
)

// CategoriesHandler обрабатывает запросы к категориям.
type CategoriesHandler struct {
	catalog Catalog
}

// NewCategoriesHandler создает обработчик категорий.
func NewCategoriesHandler(catalog Catalog) *CategoriesHandler {
	return &CategoriesHandler{catalog: catalog}
}

// ListCategories возвращает категории по позиции.
func (h *CategoriesHandler) ListCategories(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "CategoriesHandler.ListCategories"))
	log.Debug(requestCtx, LogHandlerListCategories)

	categories, err := h.catalog.ListCategories(requestCtx)
	if err != nil {
		log.Error(requestCtx, "failed to list categories", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, dto.CategoriesFromEntities(categories))
}

// Counts возвращает число активных заметок по категориям.
func (h *CategoriesHandler) Counts(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "CategoriesHandler.Counts"))
	log.Debug(requestCtx, LogHandlerCategoryCounts)

	counts, err := h.catalog.Counts(requestCtx)
	if err != nil {
		log.Error(requestCtx, "failed to count notes", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, dto.CountsFromEntity(counts))
}

// CreateCategory создает категорию в конце списка.
func (h *CategoriesHandler) CreateCategory(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "CategoriesHandler.CreateCategory"))
	log.Debug(requestCtx, LogHandlerCreateCategory)

	var req dto.CategoryRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Warn(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	category, err := h.catalog.CreateCategory(requestCtx, req.Title, req.Color)
	if err != nil {
		log.Warn(requestCtx, "failed to create category", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusCreated, dto.CategoryFromEntity(category))
}

// UpdateCategory меняет название и цвет категории.
func (h *CategoriesHandler) UpdateCategory(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "CategoriesHandler.UpdateCategory"))
	log.Debug(requestCtx, LogHandlerUpdateCategory)

	categoryID, ok := idParam(ctx, "category_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidCategoryID)
	}

	var req dto.CategoryRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Warn(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	if err := h.catalog.UpdateCategory(requestCtx, categoryID, req.Title, req.Color); err != nil {
		log.Warn(requestCtx, "failed to update category", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendNoContent(ctx)
}

// DeleteCategory удаляет категорию; ее заметки становятся без категории.
func (h *CategoriesHandler) DeleteCategory(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "CategoriesHandler.DeleteCategory"))
	log.Debug(requestCtx, LogHandlerDeleteCategory)

	categoryID, ok := idParam(ctx, "category_id")
	if !ok {
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidCategoryID)
	}

	if err := h.catalog.DeleteCategory(requestCtx, categoryID); err != nil {
		log.Error(requestCtx, "failed to delete category", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendNoContent(ctx)
}

// ReorderCategories задает новый порядок всех категорий.
func (h *CategoriesHandler) ReorderCategories(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("handler", "CategoriesHandler.ReorderCategories"))
	log.Debug(requestCtx, LogHandlerReorderCategories)

	var req dto.ReorderCategoriesRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Warn(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	if err := h.catalog.ReorderCategories(requestCtx, req.IDs); err != nil {
		log.Warn(requestCtx, "failed to reorder categories", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendNoContent(ctx)
}
