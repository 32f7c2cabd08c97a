package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"blocknote/internal/notes/domain/entities"
	"blocknote/pkg/logger"
)

// ErrSessionClosed - заметка не открыта на редактирование.
var ErrSessionClosed = fmt.Errorf("editing session %w", entities.ErrNotFound)

// OpenedNote - заметка, открытая на редактирование.
type OpenedNote struct {
	Note      *entities.Note
	Blocks    []*entities.Block
	SlashHint bool
}

// Editor хранит сессии редактирования по id заметки.
type Editor struct {
	ctx     context.Context
	store   *BlockStore
	catalog *NoteCatalog
	hints   *HintService
	opts    EditorOptions

	mu       sync.Mutex
	sessions map[int64]*EditorSession
}

// NewEditor создает реестр сессий. Отложенные записи выполняются с ctx.
func NewEditor(ctx context.Context, store *BlockStore, catalog *NoteCatalog, hints *HintService, opts EditorOptions) *Editor {
	return &Editor{
		ctx:      ctx,
		store:    store,
		catalog:  catalog,
		hints:    hints,
		opts:     opts,
		sessions: make(map[int64]*EditorSession),
	}
}

// Open открывает заметку. Пустой заголовок заменяется датой создания,
// в пустой заметке создается текстовый блок. Повторное открытие
// возвращает ту же сессию.
func (e *Editor) Open(ctx context.Context, noteID int64) (*OpenedNote, error) {
	log := logger.Log(ctx).With(zap.String("method", "Editor.Open"))

	note, err := e.catalog.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(note.Title) == "" {
		note.Title = entities.FallbackTitle(note.CreatedAt)
		if err := e.catalog.RenameNote(ctx, noteID, note.Title); err != nil {
			return nil, err
		}
	}

	if _, err := e.store.EnsureBlock(ctx, noteID); err != nil {
		return nil, err
	}

	e.mu.Lock()
	session, ok := e.sessions[noteID]
	if !ok {
		session = newEditorSession(e.ctx, noteID, e.store, e.catalog, e.hints, e.opts)
		e.sessions[noteID] = session
	}
	e.mu.Unlock()

	blocks, err := session.Blocks(ctx)
	if err != nil {
		return nil, err
	}

	slashHint, err := e.hints.SlashHintEligible(ctx)
	if err != nil {
		log.Warn(ctx, LogHintFailed, zap.Error(err))
	}

	log.Debug(ctx, "note opened", zap.Int64("noteID", noteID), zap.Int("blocks", len(blocks)))
	return &OpenedNote{Note: note, Blocks: blocks, SlashHint: slashHint}, nil
}

// Session возвращает открытую сессию или ErrSessionClosed.
func (e *Editor) Session(noteID int64) (*EditorSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.sessions[noteID]
	if !ok {
		return nil, ErrSessionClosed
	}
	return session, nil
}

// CloseSession закрывает сессию заметки, если она открыта.
func (e *Editor) CloseSession(noteID int64) bool {
	e.mu.Lock()
	session, ok := e.sessions[noteID]
	delete(e.sessions, noteID)
	e.mu.Unlock()

	if ok {
		session.Close()
	}
	return ok
}

// Close закрывает все сессии.
func (e *Editor) Close(ctx context.Context) error {
	e.mu.Lock()
	sessions := e.sessions
	e.sessions = make(map[int64]*EditorSession)
	e.mu.Unlock()

	for _, session := range sessions {
		if err := ctx.Err(); err != nil {
			return err
		}
		session.Close()
	}

	logger.Log(ctx).Info(ctx, "editing sessions closed", zap.Int("count", len(sessions)))
	return nil
}
