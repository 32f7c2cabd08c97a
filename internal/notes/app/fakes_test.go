package app_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"blocknote/internal/notes/domain/entities"
)

var errDuplicateOrder = errors.New("duplicate order")

// memBlockRepository хранит блоки в памяти и соблюдает уникальность order.
type memBlockRepository struct {
	mu            sync.Mutex
	blocks        map[int64]*entities.Block
	nextID        int64
	contentWrites int
	renormalized  int
}

func newMemBlockRepository() *memBlockRepository {
	return &memBlockRepository{blocks: make(map[int64]*entities.Block)}
}

func clone(b *entities.Block) *entities.Block {
	c := *b
	return &c
}

func (r *memBlockRepository) sortedLocked(noteID int64) []*entities.Block {
	var out []*entities.Block
	for _, b := range r.blocks {
		if b.NoteID == noteID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (r *memBlockRepository) ListByNote(_ context.Context, noteID int64) ([]*entities.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.Block, 0)
	for _, b := range r.sortedLocked(noteID) {
		out = append(out, clone(b))
	}
	return out, nil
}

func (r *memBlockRepository) GetByID(_ context.Context, id int64) (*entities.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blocks[id]
	if !ok {
		return nil, entities.ErrBlockNotFound
	}
	return clone(b), nil
}

func (r *memBlockRepository) FirstNonImage(_ context.Context, noteID int64) (*entities.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.sortedLocked(noteID) {
		if b.Type != entities.BlockImage {
			return clone(b), nil
		}
	}
	return nil, nil
}

func (r *memBlockRepository) LastOrder(_ context.Context, noteID int64) (*float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	blocks := r.sortedLocked(noteID)
	if len(blocks) == 0 {
		return nil, nil
	}
	last := blocks[len(blocks)-1].Order
	return &last, nil
}

func (r *memBlockRepository) NextOrder(_ context.Context, noteID int64, after float64) (*float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.sortedLocked(noteID) {
		if b.Order > after {
			next := b.Order
			return &next, nil
		}
	}
	return nil, nil
}

func (r *memBlockRepository) OrderTaken(_ context.Context, noteID int64, order float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.sortedLocked(noteID) {
		if b.Order == order {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBlockRepository) Create(_ context.Context, block *entities.Block) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.sortedLocked(block.NoteID) {
		if b.Order == block.Order {
			return 0, errDuplicateOrder
		}
	}
	r.nextID++
	stored := clone(block)
	stored.ID = r.nextID
	r.blocks[stored.ID] = stored
	return stored.ID, nil
}

func (r *memBlockRepository) UpdateContent(_ context.Context, id int64, content entities.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contentWrites++
	if b, ok := r.blocks[id]; ok {
		b.Content = content
	}
	return nil
}

func (r *memBlockRepository) UpdateType(_ context.Context, id int64, blockType entities.BlockType, content entities.Content) error {
	if !content.Fits(blockType) {
		return entities.ErrContentMismatch
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.blocks[id]; ok {
		b.Type = blockType
		b.Content = content
	}
	return nil
}

func (r *memBlockRepository) Delete(_ context.Context, id int64) (*entities.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blocks[id]
	if !ok {
		return nil, nil
	}
	delete(r.blocks, id)
	return b, nil
}

func (r *memBlockRepository) Renormalize(_ context.Context, noteID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renormalized++
	for i, b := range r.sortedLocked(noteID) {
		b.Order = float64(i+1) * entities.OrderStep
	}
	return nil
}

func (r *memBlockRepository) ImagesByNote(_ context.Context, noteID int64) ([]*entities.ImageBlockContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.ImageBlockContent
	for _, b := range r.sortedLocked(noteID) {
		if image, ok := b.Content.(entities.ImageContent); ok && image.Image != nil {
			out = append(out, image.Image)
		}
	}
	return out, nil
}

func (r *memBlockRepository) put(b *entities.Block) *entities.Block {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := clone(b)
	stored.ID = r.nextID
	r.blocks[stored.ID] = stored
	return clone(stored)
}

func (r *memBlockRepository) get(id int64) *entities.Block {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blocks[id]
	if !ok {
		return nil
	}
	return clone(b)
}

func (r *memBlockRepository) writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.contentWrites
}

// memNoteRepository - заметки в памяти.
type memNoteRepository struct {
	mu     sync.Mutex
	notes  map[int64]*entities.Note
	nextID int64
	titles []string
}

func newMemNoteRepository() *memNoteRepository {
	return &memNoteRepository{notes: make(map[int64]*entities.Note)}
}

func (r *memNoteRepository) Create(_ context.Context, note *entities.Note) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := *note
	stored.ID = r.nextID
	r.notes[stored.ID] = &stored
	return stored.ID, nil
}

func (r *memNoteRepository) GetByID(_ context.Context, id int64) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok {
		return nil, entities.ErrNoteNotFound
	}
	c := *n
	return &c, nil
}

func (r *memNoteRepository) List(_ context.Context, filter entities.NotesFilter) ([]*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Note
	for _, n := range r.notes {
		if n.Archived {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(n.Title), strings.ToLower(filter.Search)) {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memNoteRepository) ListArchived(_ context.Context) ([]*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Note
	for _, n := range r.notes {
		if n.Archived {
			c := *n
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memNoteRepository) UpdateTitle(_ context.Context, id int64, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
	if n, ok := r.notes[id]; ok {
		n.Title = title
		n.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (r *memNoteRepository) SetArchived(_ context.Context, id int64, archived bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notes[id]; ok {
		n.Archived = archived
	}
	return nil
}

func (r *memNoteRepository) SetCategory(_ context.Context, id int64, categoryID *int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notes[id]; ok {
		n.CategoryID = categoryID
	}
	return nil
}

func (r *memNoteRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.notes[id]
	delete(r.notes, id)
	return ok, nil
}

func (r *memNoteRepository) CountByCategory(_ context.Context) (*entities.CategoryCounts, error) {
	return &entities.CategoryCounts{ByCategory: map[int64]int{}}, nil
}

func (r *memNoteRepository) renames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.titles...)
}

// memHintStore - состояние подсказок в памяти.
type memHintStore struct {
	mu        sync.Mutex
	slashUsed bool
	dismissed bool
	edited    int64
	shown     map[string]bool
	gate      *hintGate
}

// hintGate задерживает чтение флага подсказки, пока тест его не отпустит.
type hintGate struct {
	entered chan struct{}
	release chan struct{}
}

func (s *memHintStore) holdReads() *hintGate {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = &hintGate{entered: make(chan struct{}, 1), release: make(chan struct{})}
	return s.gate
}

func newMemHintStore() *memHintStore {
	return &memHintStore{shown: make(map[string]bool)}
}

func (s *memHintStore) SlashUsed(context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slashUsed, nil
}

func (s *memHintStore) MarkSlashUsed(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slashUsed = true
	s.dismissed = true
	return nil
}

func (s *memHintStore) SlashHintDismissed(context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dismissed, nil
}

func (s *memHintStore) DismissSlashHint(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed = true
	return nil
}

func (s *memHintStore) BlocksEdited(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edited, nil
}

func (s *memHintStore) IncrementBlocksEdited(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edited++
	return s.edited, nil
}

func (s *memHintStore) MarkdownHintShown(_ context.Context, kind string) (bool, error) {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		gate.entered <- struct{}{}
		<-gate.release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown[kind], nil
}

func (s *memHintStore) MarkMarkdownHintShown(_ context.Context, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown[kind] = true
	return nil
}

func (s *memHintStore) wasShown(kind string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown[kind]
}
