package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"blocknote/internal/notes/domain/entities"
	"blocknote/internal/notes/domain/services"
	ports "blocknote/internal/notes/ports/services"
	"blocknote/pkg/logger"
)

const (
	LogDebouncedWrite = "debounced write failed, edit dropped"
	LogTitleWrite     = "debounced title write failed, edit dropped"
	LogHintFailed     = "hint state unavailable"
)

// ToastKind - что занимает единственный слот уведомлений сессии.
type ToastKind string

// Виды уведомлений.
const (
	ToastNone ToastKind = ""
	ToastUndo ToastKind = "undo"
	ToastHint ToastKind = "hint"
)

// Toast - текущее содержимое слота уведомлений.
type Toast struct {
	Kind ToastKind
	Hint services.HintKind
}

// EditorOptions задает тайминги сессии.
type EditorOptions struct {
	TextDebounce time.Duration
	ItemDebounce time.Duration
	UndoWindow   time.Duration
}

// EditResult описывает, чем закончилось редактирование блока.
type EditResult struct {
	Outcome  services.Outcome
	Block    *entities.Block
	Inserted *entities.Block
	Cursor   int
}

type blockState struct {
	block     entities.Block
	detector  *services.ShortcutDetector
	highWater int
	dirty     bool
	timer     *time.Timer
	gen       uint64
}

func (st *blockState) snapshot() *entities.Block {
	b := st.block
	return &b
}

func (st *blockState) stop() {
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.gen++
}

// EditorSession - сессия редактирования одной заметки. Правки блоков
// откладываются на время debounce; записывается только последняя.
type EditorSession struct {
	noteID      int64
	ctx         context.Context
	cancel      context.CancelFunc
	store       *BlockStore
	catalog     *NoteCatalog
	hints       *HintService
	transformer *services.Transformer
	opts        EditorOptions
	undo        *UndoBuffer

	mu         sync.Mutex
	blocks     map[int64]*blockState
	title      string
	titleTimer *time.Timer
	titleGen   uint64
	toast      Toast
	closed     bool
}

func newEditorSession(ctx context.Context, noteID int64, store *BlockStore, catalog *NoteCatalog, hints *HintService, opts EditorOptions) *EditorSession {
	ctx, cancel := context.WithCancel(ctx)
	s := &EditorSession{
		noteID:      noteID,
		ctx:         ctx,
		cancel:      cancel,
		store:       store,
		catalog:     catalog,
		hints:       hints,
		transformer: services.NewTransformer(),
		opts:        opts,
		blocks:      make(map[int64]*blockState),
	}
	s.undo = NewUndoBuffer(store, opts.UndoWindow, s.undoExpired)
	return s
}

// NoteID возвращает id редактируемой заметки.
func (s *EditorSession) NoteID() int64 {
	return s.noteID
}

func (s *EditorSession) trackLocked(b *entities.Block) *blockState {
	st := &blockState{block: *b, highWater: maxItemID(b.Content)}
	if b.Type == entities.BlockText {
		st.detector = services.NewShortcutDetector(services.PlainText(b.Content))
	}
	s.blocks[b.ID] = st
	return st
}

func (s *EditorSession) stateLocked(ctx context.Context, id int64) (*blockState, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if st, ok := s.blocks[id]; ok {
		return st, nil
	}

	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.NoteID != s.noteID {
		return nil, entities.ErrBlockNotFound
	}
	return s.trackLocked(b), nil
}

func (s *EditorSession) scheduleLocked(id int64, st *blockState, delay time.Duration) {
	st.dirty = true
	st.stop()
	gen := st.gen
	st.timer = time.AfterFunc(delay, func() { s.flush(id, gen) })
}

// flush пишет отложенную правку. Запись идет под мьютексом сессии, поэтому
// не может обогнать последующую синхронную запись того же блока.
func (s *EditorSession) flush(id int64, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.blocks[id]
	if s.closed || !ok || st.gen != gen || !st.dirty {
		return
	}
	st.timer = nil
	st.dirty = false

	if err := s.store.UpdateContent(s.ctx, id, st.block.Content); err != nil {
		logger.Log(s.ctx).Error(s.ctx, LogDebouncedWrite, zap.Int64("blockID", id), zap.Error(err))
	}
}

func (s *EditorSession) writePendingLocked(ctx context.Context, id int64, st *blockState) error {
	st.stop()
	if !st.dirty {
		return nil
	}
	st.dirty = false
	return s.store.UpdateContent(ctx, id, st.block.Content)
}

// Blocks возвращает блоки заметки с еще не записанными правками.
func (s *EditorSession) Blocks(ctx context.Context) ([]*entities.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	blocks, err := s.store.List(ctx, s.noteID)
	if err != nil {
		return nil, err
	}
	for _, b := range blocks {
		st, ok := s.blocks[b.ID]
		if !ok {
			s.trackLocked(b)
			continue
		}
		if st.dirty {
			b.Content = st.block.Content
		}
	}
	return blocks, nil
}

// EditText обрабатывает новое содержимое текстового блока: распознает
// markdown-префиксы, слэш-меню и вставку блока ниже.
func (s *EditorSession) EditText(ctx context.Context, id int64, next string) (*EditResult, error) {
	result, hint, err := s.editText(ctx, id, next)
	if err != nil {
		return nil, err
	}
	s.recordEdited(ctx, id)
	s.offerHint(ctx, hint)
	return result, nil
}

func (s *EditorSession) editText(ctx context.Context, id int64, next string) (*EditResult, services.HintKind, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.stateLocked(ctx, id)
	if err != nil {
		return nil, services.HintNone, err
	}
	if !st.block.Type.IsTextual() {
		return nil, services.HintNone, entities.ErrContentMismatch
	}

	if st.detector == nil {
		st.block.Content = entities.TextContent{Text: services.StripNewlines(next)}
		s.scheduleLocked(id, st, s.opts.TextDebounce)
		return &EditResult{Outcome: services.OutcomeEdit, Block: st.snapshot()}, services.HintNone, nil
	}

	d := st.detector.Detect(next)
	switch d.Outcome {
	case services.OutcomeTransform:
		if err := s.transformLocked(ctx, id, st, d.Type, services.FromText(d.Content, d.Type)); err != nil {
			return nil, services.HintNone, err
		}
		return &EditResult{Outcome: d.Outcome, Block: st.snapshot()}, d.Hint, nil

	case services.OutcomeOpenTypeMenu:
		if err := s.hints.MarkSlashUsed(ctx); err != nil {
			logger.Log(ctx).Warn(ctx, LogHintFailed, zap.Error(err))
		}
		return &EditResult{Outcome: d.Outcome, Block: st.snapshot(), Cursor: d.Cursor}, services.HintNone, nil

	case services.OutcomeInsertBelow:
		st.block.Content = entities.TextContent{Text: d.Content}
		st.dirty = true
		if err := s.writePendingLocked(ctx, id, st); err != nil {
			return nil, services.HintNone, err
		}
		inserted, err := s.store.InsertAfter(ctx, s.noteID, id, entities.BlockText, entities.TextContent{})
		if err != nil {
			return nil, services.HintNone, err
		}
		s.trackLocked(inserted)
		return &EditResult{Outcome: d.Outcome, Block: st.snapshot(), Inserted: inserted}, services.HintNone, nil
	}

	st.block.Content = entities.TextContent{Text: d.Content}
	s.scheduleLocked(id, st, s.opts.TextDebounce)
	return &EditResult{Outcome: services.OutcomeEdit, Block: st.snapshot()}, services.HintNone, nil
}

// transformLocked заменяет тип блока сразу, без debounce. Отложенная правка
// входит в content и отдельно не пишется.
func (s *EditorSession) transformLocked(ctx context.Context, id int64, st *blockState, to entities.BlockType, content entities.Content) error {
	st.stop()
	if err := s.store.TransformType(ctx, id, to, content); err != nil {
		return err
	}
	st.dirty = false
	st.block.Type = to
	st.block.Content = content

	st.detector = nil
	if to == entities.BlockText {
		st.detector = services.NewShortcutDetector(services.PlainText(content))
	}
	if highest := maxItemID(content); highest > st.highWater {
		st.highWater = highest
	}
	return nil
}

// ChangeType меняет тип блока через меню типов.
func (s *EditorSession) ChangeType(ctx context.Context, id int64, to entities.BlockType) (*entities.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.stateLocked(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := s.transformer.Transform(st.block.Type, st.block.Content, to)
	if err != nil {
		return nil, err
	}
	if err := s.transformLocked(ctx, id, st, to, content); err != nil {
		return nil, err
	}
	return st.snapshot(), nil
}

// AddBlock добавляет пустой блок в конец или после afterID.
func (s *EditorSession) AddBlock(ctx context.Context, afterID *int64, blockType entities.BlockType) (*entities.Block, error) {
	if blockType == entities.BlockImage {
		return nil, entities.ErrContentMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	var (
		block *entities.Block
		err   error
	)
	if afterID == nil {
		block, err = s.store.Append(ctx, s.noteID, blockType, nil)
	} else {
		block, err = s.store.InsertAfter(ctx, s.noteID, *afterID, blockType, nil)
	}
	if err != nil {
		return nil, err
	}
	s.trackLocked(block)
	return block, nil
}

// AddImage импортирует изображение и добавляет его блоком в конец заметки.
func (s *EditorSession) AddImage(ctx context.Context, src ports.ImageSource) (*entities.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	block, err := s.store.AddImage(ctx, s.noteID, src)
	if err != nil {
		return nil, err
	}
	s.trackLocked(block)
	return block, nil
}

// AddItem добавляет пункт в конец списка или чек-листа. id пункта больше
// любого id, выданного этому блоку в сессии.
func (s *EditorSession) AddItem(ctx context.Context, blockID int64, text string) (*entities.Block, int, error) {
	block, itemID, err := s.addItem(ctx, blockID, text)
	if err != nil {
		return nil, 0, err
	}
	s.recordEdited(ctx, blockID)
	return block, itemID, nil
}

func (s *EditorSession) addItem(ctx context.Context, blockID int64, text string) (*entities.Block, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, list, err := s.itemsLocked(ctx, blockID)
	if err != nil {
		return nil, 0, err
	}

	itemID := s.appendItemLocked(st, list, text)
	s.scheduleLocked(blockID, st, s.opts.ItemDebounce)
	return st.snapshot(), itemID, nil
}

func (s *EditorSession) appendItemLocked(st *blockState, list []entities.ChecklistItem, text string) int {
	st.highWater++
	if highest := maxItemID(st.block.Content); highest >= st.highWater {
		st.highWater = highest + 1
	}
	list = append(list, entities.ChecklistItem{ID: st.highWater, Text: services.StripNewlines(text)})
	st.block.Content = itemsContent(st.block.Type, list)
	return st.highWater
}

// UpdateItem меняет текст и/или отметку пункта. Отметка есть только у чек-листа.
func (s *EditorSession) UpdateItem(ctx context.Context, blockID int64, itemID int, text *string, done *bool) (*entities.Block, error) {
	block, err := s.updateItem(ctx, blockID, itemID, text, done)
	if err != nil {
		return nil, err
	}
	s.recordEdited(ctx, blockID)
	return block, nil
}

func (s *EditorSession) updateItem(ctx context.Context, blockID int64, itemID int, text *string, done *bool) (*entities.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, list, err := s.itemsLocked(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if done != nil && st.block.Type != entities.BlockChecklist {
		return nil, entities.ErrContentMismatch
	}

	i := itemIndex(list, itemID)
	if i < 0 {
		return nil, entities.ErrItemNotFound
	}
	if text != nil {
		list[i].Text = services.StripNewlines(*text)
	}
	if done != nil {
		list[i].Done = *done
	}

	st.block.Content = itemsContent(st.block.Type, list)
	s.scheduleLocked(blockID, st, s.opts.ItemDebounce)
	return st.snapshot(), nil
}

// RemoveItem удаляет пункт.
func (s *EditorSession) RemoveItem(ctx context.Context, blockID int64, itemID int) (*entities.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, list, err := s.itemsLocked(ctx, blockID)
	if err != nil {
		return nil, err
	}

	i := itemIndex(list, itemID)
	if i < 0 {
		return nil, entities.ErrItemNotFound
	}
	list = append(list[:i], list[i+1:]...)

	st.block.Content = itemsContent(st.block.Type, list)
	s.scheduleLocked(blockID, st, s.opts.ItemDebounce)
	return st.snapshot(), nil
}

// SubmitItem обрабатывает Enter в пункте. Пустой пункт удаляется и под
// блоком вставляется текстовый блок; в последнем непустом пункте
// добавляется новый пункт.
func (s *EditorSession) SubmitItem(ctx context.Context, blockID int64, itemID int) (*EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, list, err := s.itemsLocked(ctx, blockID)
	if err != nil {
		return nil, err
	}

	i := itemIndex(list, itemID)
	if i < 0 {
		return nil, entities.ErrItemNotFound
	}

	if list[i].Text == "" {
		list = append(list[:i], list[i+1:]...)
		st.block.Content = itemsContent(st.block.Type, list)
		st.dirty = true
		if err := s.writePendingLocked(ctx, blockID, st); err != nil {
			return nil, err
		}
		inserted, err := s.store.InsertAfter(ctx, s.noteID, blockID, entities.BlockText, entities.TextContent{})
		if err != nil {
			return nil, err
		}
		s.trackLocked(inserted)
		return &EditResult{Outcome: services.OutcomeInsertBelow, Block: st.snapshot(), Inserted: inserted}, nil
	}

	if i == len(list)-1 {
		s.appendItemLocked(st, list, "")
		s.scheduleLocked(blockID, st, s.opts.ItemDebounce)
	}
	return &EditResult{Outcome: services.OutcomeEdit, Block: st.snapshot()}, nil
}

func (s *EditorSession) itemsLocked(ctx context.Context, blockID int64) (*blockState, []entities.ChecklistItem, error) {
	st, err := s.stateLocked(ctx, blockID)
	if err != nil {
		return nil, nil, err
	}
	list, ok := items(st.block.Content)
	if !ok {
		return nil, nil, entities.ErrContentMismatch
	}
	return st, list, nil
}

// DeleteBlock удаляет блок через буфер отмены и занимает слот уведомлений.
// Если заметка опустела, создается пустой текстовый блок и возвращается вторым.
func (s *EditorSession) DeleteBlock(ctx context.Context, id int64) (*entities.Block, *entities.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil, ErrSessionClosed
	}

	if st, ok := s.blocks[id]; ok {
		// Отмена должна вернуть последнюю правку.
		if err := s.writePendingLocked(ctx, id, st); err != nil {
			return nil, nil, err
		}
		delete(s.blocks, id)
	} else {
		b, err := s.store.Get(ctx, id)
		if errors.Is(err, entities.ErrBlockNotFound) {
			return nil, nil, nil
		}
		if err != nil {
			return nil, nil, err
		}
		if b.NoteID != s.noteID {
			return nil, nil, entities.ErrBlockNotFound
		}
	}

	deleted, err := s.undo.Delete(ctx, id)
	if err != nil || deleted == nil {
		return nil, nil, err
	}
	if deleted.Type != entities.BlockImage {
		s.toast = Toast{Kind: ToastUndo}
	}

	created, err := s.store.EnsureBlock(ctx, s.noteID)
	if err != nil {
		return deleted, nil, err
	}
	if created != nil {
		s.trackLocked(created)
	}
	return deleted, created, nil
}

// Undo восстанавливает последний удаленный блок, nil если отменять нечего.
func (s *EditorSession) Undo(ctx context.Context) (*entities.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	block, err := s.undo.Undo(ctx)
	if s.toast.Kind == ToastUndo {
		s.toast = Toast{}
	}
	if err != nil || block == nil {
		return nil, err
	}
	s.trackLocked(block)
	return block, nil
}

func (s *EditorSession) undoExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.toast.Kind == ToastUndo {
		s.toast = Toast{}
	}
}

// offerHint показывает подсказку, если слот не занят отменой. Отмена
// проверяется и до, и после чтения состояния подсказок.
func (s *EditorSession) offerHint(ctx context.Context, kind services.HintKind) {
	if kind == services.HintNone || s.undo.Active() {
		return
	}

	show, err := s.hints.ShouldShowMarkdownHint(ctx, kind)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogHintFailed, zap.Error(err))
		return
	}
	if !show {
		return
	}

	s.mu.Lock()
	if s.closed || s.undo.Active() {
		s.mu.Unlock()
		return
	}
	s.toast = Toast{Kind: ToastHint, Hint: kind}
	s.mu.Unlock()

	if err := s.hints.MarkMarkdownHintShown(ctx, kind); err != nil {
		logger.Log(ctx).Warn(ctx, LogHintFailed, zap.Error(err))
	}
}

func (s *EditorSession) recordEdited(ctx context.Context, blockID int64) {
	if _, err := s.hints.RecordBlockEdited(ctx, blockID); err != nil {
		logger.Log(ctx).Warn(ctx, LogHintFailed, zap.Error(err))
	}
}

// Toast возвращает содержимое слота уведомлений.
func (s *EditorSession) Toast() Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toast
}

// DismissToast закрывает подсказку. Уведомление об отмене живет до конца окна.
func (s *EditorSession) DismissToast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.toast.Kind == ToastHint {
		s.toast = Toast{}
	}
}

// EditTitle откладывает переименование заметки.
func (s *EditorSession) EditTitle(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	s.title = title
	if s.titleTimer != nil {
		s.titleTimer.Stop()
	}
	s.titleGen++
	gen := s.titleGen
	s.titleTimer = time.AfterFunc(s.opts.TextDebounce, func() { s.flushTitle(gen) })
	return nil
}

func (s *EditorSession) flushTitle(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.titleGen != gen {
		return
	}
	s.titleTimer = nil

	if err := s.catalog.RenameNote(s.ctx, s.noteID, s.title); err != nil {
		logger.Log(s.ctx).Error(s.ctx, LogTitleWrite, zap.Int64("noteID", s.noteID), zap.Error(err))
	}
}

// Close останавливает все таймеры. Неотправленные правки отбрасываются.
func (s *EditorSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for _, st := range s.blocks {
		st.stop()
	}
	if s.titleTimer != nil {
		s.titleTimer.Stop()
		s.titleTimer = nil
	}
	s.toast = Toast{}
	s.mu.Unlock()

	s.undo.Clear()
	s.cancel()
}
