package services

import (
	"strings"

	"blocknote/internal/notes/domain/entities"
)

// ExtractPreview returns the preview line of a note from its blocks in order:
// the first non-image block decides, nil when it gives nothing.
func ExtractPreview(blocks []*entities.Block) *string {
	for _, b := range blocks {
		if b.Type == entities.BlockImage {
			continue
		}
		return BlockPreview(b)
	}
	return nil
}

// BlockPreview is the preview line of one block.
func BlockPreview(b *entities.Block) *string {
	var line string
	switch c := b.Content.(type) {
	case entities.TextContent:
		trimmed := strings.TrimSpace(c.Text)
		line, _, _ = strings.Cut(trimmed, "\n")
	case entities.ChecklistContent:
		if len(c.Items) > 0 {
			line = c.Items[0].Text
		}
	case entities.ListContent:
		if len(c.Items) > 0 {
			line = c.Items[0].Text
		}
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	return &line
}
