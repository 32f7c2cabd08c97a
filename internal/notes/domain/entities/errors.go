package entities

import (
	"errors"
	"fmt"
)

// Базовые категории ошибок. Конкретные ошибки оборачивают их, поэтому
// вызывающий код проверяет категорию через errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

// Ошибки валидации.
var (
	ErrImageTransform    = fmt.Errorf("%w: image blocks cannot change type", ErrValidation)
	ErrUnknownBlockType  = fmt.Errorf("%w: unknown block type", ErrValidation)
	ErrUnknownCategory   = fmt.Errorf("%w: unknown category", ErrValidation)
	ErrIncompleteReorder = fmt.Errorf("%w: reorder must list every category exactly once", ErrValidation)
	ErrContentMismatch   = fmt.Errorf("%w: content does not match block type", ErrValidation)
	ErrNotAnImage        = fmt.Errorf("%w: file is not an image", ErrValidation)
	ErrEmptyTitle        = fmt.Errorf("%w: title must not be empty", ErrValidation)
)

// Ошибки отсутствия записи.
var (
	ErrBlockNotFound    = fmt.Errorf("block %w", ErrNotFound)
	ErrNoteNotFound     = fmt.Errorf("note %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrItemNotFound     = fmt.Errorf("item %w", ErrNotFound)
)
