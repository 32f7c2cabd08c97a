// Package services holds the pure block-document rules: type conversion,
// shortcut detection, preview extraction and fractional ordering.
package services

import (
	"strings"

	"blocknote/internal/notes/domain/entities"
)

var newlines = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")

// Transformer converts block content between the representations of block types.
type Transformer struct{}

// NewTransformer creates a Transformer.
func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform converts content of a block of type from into content of type to.
// Item ids and done flags are discarded when leaving a list or checklist.
func (t *Transformer) Transform(from entities.BlockType, content entities.Content, to entities.BlockType) (entities.Content, error) {
	if from == entities.BlockImage || to == entities.BlockImage {
		return nil, entities.ErrImageTransform
	}
	if !from.Valid() || !to.Valid() {
		return nil, entities.ErrUnknownBlockType
	}
	if content == nil {
		content = entities.EmptyContent(from)
	}
	if from == to {
		return content, nil
	}
	return FromText(PlainText(content), to), nil
}

// PlainText flattens content into text. Item blocks give their non-blank
// item texts joined by newlines.
func PlainText(content entities.Content) string {
	switch c := content.(type) {
	case entities.TextContent:
		return c.Text
	case entities.ChecklistContent:
		texts := make([]string, 0, len(c.Items))
		for _, item := range c.Items {
			if strings.TrimSpace(item.Text) != "" {
				texts = append(texts, item.Text)
			}
		}
		return strings.Join(texts, "\n")
	case entities.ListContent:
		texts := make([]string, 0, len(c.Items))
		for _, item := range c.Items {
			if strings.TrimSpace(item.Text) != "" {
				texts = append(texts, item.Text)
			}
		}
		return strings.Join(texts, "\n")
	}
	return ""
}

// FromText builds content of type to from plain text.
func FromText(text string, to entities.BlockType) entities.Content {
	switch to {
	case entities.BlockChecklist:
		lines := splitLines(text)
		if len(lines) == 0 {
			return entities.PlaceholderChecklist()
		}
		items := make([]entities.ChecklistItem, len(lines))
		for i, line := range lines {
			items[i] = entities.ChecklistItem{ID: i + 1, Text: line}
		}
		return entities.ChecklistContent{Items: items}
	case entities.BlockList:
		lines := splitLines(text)
		if len(lines) == 0 {
			return entities.PlaceholderList()
		}
		items := make([]entities.ListItem, len(lines))
		for i, line := range lines {
			items[i] = entities.ListItem{ID: i + 1, Text: line}
		}
		return entities.ListContent{Items: items}
	case entities.BlockImage:
		return entities.ImageContent{}
	}
	if to.IsSingleLine() {
		return entities.TextContent{Text: StripNewlines(text)}
	}
	return entities.TextContent{Text: text}
}

// StripNewlines flattens text onto one line.
func StripNewlines(text string) string {
	return newlines.Replace(text)
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
