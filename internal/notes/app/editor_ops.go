package app

import (
	"context"

	"blocknote/internal/notes/domain/entities"
	ports "blocknote/internal/notes/ports/services"
)

// Операции над открытой сессией по id заметки. Для неоткрытой заметки
// возвращается ErrSessionClosed.

// Blocks возвращает блоки заметки с учетом отложенных правок.
func (e *Editor) Blocks(ctx context.Context, noteID int64) ([]*entities.Block, error) {
	s, err := e.Session(noteID)
	if err != nil {
		return nil, err
	}
	return s.Blocks(ctx)
}

// AddBlock добавляет блок в конец или после afterID.
func (e *Editor) AddBlock(ctx context.Context, noteID int64, afterID *int64, blockType entities.BlockType) (*entities.Block, error) {
	s, err := e.Session(noteID)
	if err != nil {
		return nil, err
	}
	return s.AddBlock(ctx, afterID, blockType)
}

// AddImage добавляет блок изображения в конец заметки.
func (e *Editor) AddImage(ctx context.Context, noteID int64, src ports.ImageSource) (*entities.Block, error) {
	s, err := e.Session(noteID)
	if err != nil {
		return nil, err
	}
	return s.AddImage(ctx, src)
}

// EditText применяет новое содержимое текстового блока.
func (e *Editor) EditText(ctx context.Context, noteID, blockID int64, text string) (*EditResult, error) {
	s, err := e.Session(noteID)
	if err != nil {
		return nil, err
	}
	return s.EditText(ctx, blockID, text)
}

// ChangeType меняет тип блока.
func (e *Editor) ChangeType(ctx context.Context, noteID, blockID int64, to entities.BlockType) (*entities.Block, error) {
	s, err := e.Session(noteID)
	if err != nil {
		return nil, err
	}
	return s.ChangeType(ctx, blockID, to)
}

// AddItem добавляет пункт в список или чек-лист.
func (e *Editor) AddItem(ctx context.Context, noteID, blockID int64, text string) (*entities.Block, int, error) {
	s, err := e.Session(noteID)
	if err != nil {
		return nil, 0, err
	}
	return s.AddItem(ctx, blockID, text)
}

// UpdateItem меняет текст или отметку пункта.
func (e *Editor) UpdateItem(ctx context.Context, noteID, blockID int64, itemID int, text *string, done *bool) (*entities.Block, error) {
	s, err := e.Session(noteID)
	if err != nil {
		return nil, err
	}
	return s.UpdateItem(ctx, blockID, itemID, text, done)
}

// RemoveItem удаляет пункт.
func (e *Editor) RemoveItem(ctx context.Context, noteID, blockID int64, itemID int) (*entities.Block, error) {
	s, err := e.Session(noteID)
	if err != nil {
		return nil, err
	}
	return s.RemoveItem(ctx, blockID, itemID)
}

// SubmitItem обрабатывает Enter в пункте.
func (e *Editor) SubmitItem(ctx context.Context, noteID, blockID int64, itemID int) (*EditResult, error) {
	s, err := e.Session(noteID)
	if err != nil {
		return nil, err
	}
	return s.SubmitItem(ctx, blockID, itemID)
}

// DeleteBlock удаляет блок с возможностью отмены.
func (e *Editor) DeleteBlock(ctx context.Context, noteID, blockID int64) (*entities.Block, *entities.Block, error) {
	s, err := e.Session(noteID)
	if err != nil {
		return nil, nil, err
	}
	return s.DeleteBlock(ctx, blockID)
}

// Undo восстанавливает последний удаленный блок.
func (e *Editor) Undo(ctx context.Context, noteID int64) (*entities.Block, error) {
	s, err := e.Session(noteID)
	if err != nil {
		return nil, err
	}
	return s.Undo(ctx)
}

// Toast возвращает слот уведомлений сессии.
func (e *Editor) Toast(noteID int64) (Toast, error) {
	s, err := e.Session(noteID)
	if err != nil {
		return Toast{}, err
	}
	return s.Toast(), nil
}

// DismissToast закрывает подсказку сессии.
func (e *Editor) DismissToast(noteID int64) error {
	s, err := e.Session(noteID)
	if err != nil {
		return err
	}
	s.DismissToast()
	return nil
}

// EditTitle откладывает переименование заметки.
func (e *Editor) EditTitle(noteID int64, title string) error {
	s, err := e.Session(noteID)
	if err != nil {
		return err
	}
	return s.EditTitle(title)
}
