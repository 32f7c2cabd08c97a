// Package http содержит компоненты HTTP сервера заметок.
package http

import (
	"github.com/gofiber/fiber/v3"

	"blocknote/internal/notes/adapters/http/handlers"
	"blocknote/internal/notes/adapters/http/middleware"
)

// SetupRouter настраивает маршрутизацию HTTP сервера.
func SetupRouter(app *fiber.App, catalog handlers.Catalog, editor handlers.Editor, uploadDir string) {
	notesHandler := handlers.NewNotesHandler(catalog, editor)
	categoriesHandler := handlers.NewCategoriesHandler(catalog)
	editorHandler := handlers.NewEditorHandler(editor, uploadDir)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	apiV1 := app.Group("/api/v1")

	// Статические пути регистрируются раньше параметризованных.
	notes := apiV1.Group("/notes")
	notes.Get("/", notesHandler.ListNotes)
	notes.Get("/preview", notesHandler.ListPreviews)
	notes.Get("/archived", notesHandler.ListArchived)
	notes.Post("/", notesHandler.CreateNote)
	notes.Get("/:note_id", notesHandler.GetNote)
	notes.Patch("/:note_id", notesHandler.RenameNote)
	notes.Put("/:note_id/category", notesHandler.SetCategory)
	notes.Post("/:note_id/archive", notesHandler.Archive)
	notes.Post("/:note_id/unarchive", notesHandler.Unarchive)
	notes.Delete("/:note_id", notesHandler.DeleteNote)

	// Редактор.
	notes.Post("/:note_id/session", editorHandler.Open)
	notes.Delete("/:note_id/session", editorHandler.Close)
	notes.Put("/:note_id/session/title", editorHandler.EditTitle)
	notes.Get("/:note_id/blocks", editorHandler.Blocks)
	notes.Post("/:note_id/blocks", editorHandler.AddBlock)
	notes.Post("/:note_id/images", editorHandler.AddImage)
	notes.Put("/:note_id/blocks/:block_id/text", editorHandler.EditText)
	notes.Post("/:note_id/blocks/:block_id/type", editorHandler.ChangeType)
	notes.Delete("/:note_id/blocks/:block_id", editorHandler.DeleteBlock)
	notes.Post("/:note_id/blocks/:block_id/items", editorHandler.AddItem)
	notes.Patch("/:note_id/blocks/:block_id/items/:item_id", editorHandler.UpdateItem)
	notes.Delete("/:note_id/blocks/:block_id/items/:item_id", editorHandler.RemoveItem)
	notes.Post("/:note_id/blocks/:block_id/items/:item_id/submit", editorHandler.SubmitItem)
	notes.Post("/:note_id/undo", editorHandler.Undo)
	notes.Get("/:note_id/toast", editorHandler.Toast)
	notes.Delete("/:note_id/toast", editorHandler.DismissToast)

	categories := apiV1.Group("/categories")
	categories.Get("/", categoriesHandler.ListCategories)
	categories.Get("/counts", categoriesHandler.Counts)
	categories.Post("/", categoriesHandler.CreateCategory)
	categories.Put("/order", categoriesHandler.ReorderCategories)
	categories.Patch("/:category_id", categoriesHandler.UpdateCategory)
	categories.Delete("/:category_id", categoriesHandler.DeleteCategory)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
