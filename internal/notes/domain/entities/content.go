package entities

import (
	"encoding/json"
	"time"
)

// Content is the typed payload of a block. The concrete type is chosen by the
// block type: TextContent for text/title/subtitle/quote, ChecklistContent,
// ListContent and ImageContent for the rest.
type Content interface {
	// Encode returns the stored form of the content; nil means NULL.
	Encode() (*string, error)
	// Fits reports whether the content can be stored in a block of type t.
	Fits(t BlockType) bool
}

// TextContent is a raw string with no wrapper.
type TextContent struct {
	Text string
}

// ChecklistItem is one line of a checklist. ID is unique within its block only.
type ChecklistItem struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// ChecklistContent is stored as a JSON array of ChecklistItem.
type ChecklistContent struct {
	Items []ChecklistItem
}

// ListItem is one bullet of a list.
type ListItem struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// ListContent is stored as a JSON array of ListItem.
type ListContent struct {
	Items []ListItem
}

// ImageBlockContent describes processed image files owned by a block.
type ImageBlockContent struct {
	ID           string    `json:"id"`
	OriginalURI  string    `json:"original_uri"`
	ThumbnailURI string    `json:"thumbnail_uri"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	SizeKB       int       `json:"size_kb"`
	MimeType     string    `json:"mime_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// ImageContent holds the image descriptor, nil when the block has no image.
type ImageContent struct {
	Image *ImageBlockContent
}

// Encode implements Content.
func (c TextContent) Encode() (*string, error) {
	s := c.Text
	return &s, nil
}

// Fits implements Content.
func (TextContent) Fits(t BlockType) bool { return t.IsTextual() }

// Encode implements Content.
func (c ChecklistContent) Encode() (*string, error) {
	items := c.Items
	if items == nil {
		items = []ChecklistItem{}
	}
	return marshal(items)
}

// Fits implements Content.
func (ChecklistContent) Fits(t BlockType) bool { return t == BlockChecklist }

// NextItemID returns max(existing)+1, or 1 for an empty checklist.
func (c ChecklistContent) NextItemID() int {
	next := 1
	for _, item := range c.Items {
		if item.ID >= next {
			next = item.ID + 1
		}
	}
	return next
}

// Encode implements Content.
func (c ListContent) Encode() (*string, error) {
	items := c.Items
	if items == nil {
		items = []ListItem{}
	}
	return marshal(items)
}

// Fits implements Content.
func (ListContent) Fits(t BlockType) bool { return t == BlockList }

// NextItemID returns max(existing)+1, or 1 for an empty list.
func (c ListContent) NextItemID() int {
	next := 1
	for _, item := range c.Items {
		if item.ID >= next {
			next = item.ID + 1
		}
	}
	return next
}

// Encode implements Content.
func (c ImageContent) Encode() (*string, error) {
	if c.Image == nil {
		return nil, nil
	}
	return marshal(c.Image)
}

// Fits implements Content.
func (ImageContent) Fits(t BlockType) bool { return t == BlockImage }

func marshal(v any) (*string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

// PlaceholderChecklist is what a missing or corrupt checklist decodes to.
func PlaceholderChecklist() ChecklistContent {
	return ChecklistContent{Items: []ChecklistItem{{ID: 1, Text: "", Done: false}}}
}

// PlaceholderList is what a missing or corrupt list decodes to.
func PlaceholderList() ListContent {
	return ListContent{Items: []ListItem{{ID: 1, Text: ""}}}
}

// EmptyContent returns the content a fresh block of type t starts with.
func EmptyContent(t BlockType) Content {
	switch t {
	case BlockChecklist:
		return PlaceholderChecklist()
	case BlockList:
		return PlaceholderList()
	case BlockImage:
		return ImageContent{}
	default:
		return TextContent{}
	}
}

// DecodeContent turns a stored payload into typed content. It never fails:
// corrupt checklist and list payloads become a single empty item and corrupt
// image payloads become "no image".
func DecodeContent(t BlockType, raw *string) Content {
	switch t {
	case BlockChecklist:
		return ParseChecklist(raw)
	case BlockList:
		return ParseList(raw)
	case BlockImage:
		return ParseImage(raw)
	default:
		if raw == nil {
			return TextContent{}
		}
		return TextContent{Text: *raw}
	}
}

// ParseChecklist decodes a checklist payload.
func ParseChecklist(raw *string) ChecklistContent {
	if raw == nil || *raw == "" {
		return PlaceholderChecklist()
	}
	var items []ChecklistItem
	if err := json.Unmarshal([]byte(*raw), &items); err != nil || len(items) == 0 {
		return PlaceholderChecklist()
	}
	return ChecklistContent{Items: items}
}

// ParseList decodes a list payload.
func ParseList(raw *string) ListContent {
	if raw == nil || *raw == "" {
		return PlaceholderList()
	}
	var items []ListItem
	if err := json.Unmarshal([]byte(*raw), &items); err != nil || len(items) == 0 {
		return PlaceholderList()
	}
	return ListContent{Items: items}
}

// ParseImage decodes an image payload; nil Image means no image.
func ParseImage(raw *string) ImageContent {
	if raw == nil || *raw == "" {
		return ImageContent{}
	}
	var img ImageBlockContent
	if err := json.Unmarshal([]byte(*raw), &img); err != nil {
		return ImageContent{}
	}
	if img.ID == "" && img.OriginalURI == "" {
		return ImageContent{}
	}
	return ImageContent{Image: &img}
}
