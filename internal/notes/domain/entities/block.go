// Package entities defines the domain entities of the notes engine.
package entities

import "time"

// BlockType is the kind of a block. It selects the content representation.
type BlockType string

// Block types.
const (
	BlockText      BlockType = "text"
	BlockTitle     BlockType = "title"
	BlockSubtitle  BlockType = "subtitle"
	BlockQuote     BlockType = "quote"
	BlockList      BlockType = "list"
	BlockChecklist BlockType = "checklist"
	BlockImage     BlockType = "image"
)

// Порядок блоков: новый блок в конце получает lastOrder+OrderStep.
const (
	OrderStep    = 1000.0
	InitialOrder = OrderStep
)

// BlockTypes lists every known block type.
var BlockTypes = []BlockType{
	BlockText, BlockTitle, BlockSubtitle, BlockQuote, BlockList, BlockChecklist, BlockImage,
}

// ParseBlockType validates a raw type name.
func ParseBlockType(raw string) (BlockType, error) {
	t := BlockType(raw)
	if !t.Valid() {
		return "", ErrUnknownBlockType
	}
	return t, nil
}

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	for _, known := range BlockTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsTextual reports whether content of t is a raw string.
func (t BlockType) IsTextual() bool {
	switch t {
	case BlockText, BlockTitle, BlockSubtitle, BlockQuote:
		return true
	}
	return false
}

// IsSingleLine reports whether t keeps its content on one line.
func (t BlockType) IsSingleLine() bool {
	return t == BlockTitle || t == BlockSubtitle || t == BlockQuote
}

// IsItemized reports whether t stores items.
func (t BlockType) IsItemized() bool {
	return t == BlockList || t == BlockChecklist
}

// Block is one typed unit of note content.
type Block struct {
	ID        int64
	NoteID    int64
	Type      BlockType
	Content   Content
	Order     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBlock builds a block for insertion. A nil content is replaced by the
// empty content of the block type.
func NewBlock(noteID int64, blockType BlockType, order float64, content Content) *Block {
	if content == nil {
		content = EmptyContent(blockType)
	}
	now := time.Now().UTC()
	return &Block{
		NoteID:    noteID,
		Type:      blockType,
		Content:   content,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
