package dto

import (
	"time"

	"blocknote/internal/notes/app"
	"blocknote/internal/notes/domain/entities"
	"blocknote/internal/notes/domain/services"
)

// AddBlockRequest добавляет блок в конец или после after_id.
type AddBlockRequest struct {
	Type    string `json:"type"`
	AfterID *int64 `json:"after_id"`
}

// EditTextRequest содержит новое содержимое текстового блока.
type EditTextRequest struct {
	Text string `json:"text"`
}

// ChangeTypeRequest содержит новый тип блока.
type ChangeTypeRequest struct {
	Type string `json:"type"`
}

// AddItemRequest содержит текст нового пункта.
type AddItemRequest struct {
	Text string `json:"text"`
}

// UpdateItemRequest меняет текст и/или отметку пункта.
type UpdateItemRequest struct {
	Text *string `json:"text"`
	Done *bool   `json:"done"`
}

// EditTitleRequest содержит заголовок, набранный в редакторе.
type EditTitleRequest struct {
	Title string `json:"title"`
}

// Block представляет блок заметки. Content зависит от типа: строка для
// текстовых блоков, массив пунктов для списков, объект для изображения.
type Block struct {
	ID        int64     `json:"id"`
	NoteID    int64     `json:"note_id"`
	Type      string    `json:"type"`
	Order     float64   `json:"order"`
	Content   any       `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OpenNoteResponse - заметка, открытая на редактирование.
type OpenNoteResponse struct {
	Note      *Note    `json:"note"`
	Blocks    []*Block `json:"blocks"`
	SlashHint bool     `json:"slash_hint"`
}

// BlocksResponse содержит блоки заметки.
type BlocksResponse struct {
	Blocks []*Block `json:"blocks"`
}

// EditResultResponse описывает результат правки.
type EditResultResponse struct {
	Outcome  string `json:"outcome"`
	Block    *Block `json:"block"`
	Inserted *Block `json:"inserted,omitempty"`
	Cursor   int    `json:"cursor,omitempty"`
}

// AddItemResponse содержит блок и id добавленного пункта.
type AddItemResponse struct {
	Block  *Block `json:"block"`
	ItemID int    `json:"item_id"`
}

// DeleteBlockResponse содержит удаленный блок и пустой блок, созданный
// взамен последнего.
type DeleteBlockResponse struct {
	Deleted *Block `json:"deleted"`
	Created *Block `json:"created,omitempty"`
}

// ToastResponse описывает слот уведомлений.
type ToastResponse struct {
	Kind string `json:"kind"`
	Hint string `json:"hint,omitempty"`
}

var outcomeNames = map[services.Outcome]string{
	services.OutcomeEdit:         "edit",
	services.OutcomeTransform:    "transform",
	services.OutcomeOpenTypeMenu: "open_type_menu",
	services.OutcomeInsertBelow:  "insert_below",
}

// BlockFromEntity преобразует блок в DTO, nil остается nil.
func BlockFromEntity(b *entities.Block) *Block {
	if b == nil {
		return nil
	}
	return &Block{
		ID:        b.ID,
		NoteID:    b.NoteID,
		Type:      string(b.Type),
		Order:     b.Order,
		Content:   contentValue(b.Content),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// BlocksFromEntities преобразует список блоков.
func BlocksFromEntities(blocks []*entities.Block) []*Block {
	out := make([]*Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, BlockFromEntity(b))
	}
	return out
}

func contentValue(c entities.Content) any {
	switch v := c.(type) {
	case entities.TextContent:
		return v.Text
	case entities.ChecklistContent:
		if v.Items == nil {
			return []entities.ChecklistItem{}
		}
		return v.Items
	case entities.ListContent:
		if v.Items == nil {
			return []entities.ListItem{}
		}
		return v.Items
	case entities.ImageContent:
		return v.Image
	default:
		return nil
	}
}

// OpenedFromEntity преобразует открытую заметку.
func OpenedFromEntity(o *app.OpenedNote) *OpenNoteResponse {
	return &OpenNoteResponse{
		Note:      NoteFromEntity(o.Note),
		Blocks:    BlocksFromEntities(o.Blocks),
		SlashHint: o.SlashHint,
	}
}

// EditResultFromEntity преобразует результат правки.
func EditResultFromEntity(r *app.EditResult) *EditResultResponse {
	return &EditResultResponse{
		Outcome:  outcomeNames[r.Outcome],
		Block:    BlockFromEntity(r.Block),
		Inserted: BlockFromEntity(r.Inserted),
		Cursor:   r.Cursor,
	}
}

// ToastFromEntity преобразует слот уведомлений.
func ToastFromEntity(t app.Toast) *ToastResponse {
	kind := string(t.Kind)
	if t.Kind == app.ToastNone {
		kind = "none"
	}
	return &ToastResponse{Kind: kind, Hint: string(t.Hint)}
}
