package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blocknote/internal/notes/domain/entities"
	"blocknote/internal/notes/domain/services"
)

func block(t entities.BlockType, c entities.Content) *entities.Block {
	return &entities.Block{Type: t, Content: c}
}

func TestExtractPreview(t *testing.T) {
	img := block(entities.BlockImage, entities.ImageContent{Image: &entities.ImageBlockContent{ID: "x"}})

	tests := []struct {
		name   string
		blocks []*entities.Block
		want   *string
	}{
		{name: "no blocks"},
		{name: "only images", blocks: []*entities.Block{img, img}},
		{
			name:   "skips leading image",
			blocks: []*entities.Block{img, block(entities.BlockText, entities.TextContent{Text: "\n  hello world \nsecond"})},
			want:   ptr("hello world"),
		},
		{
			name:   "blank first block gives nil",
			blocks: []*entities.Block{block(entities.BlockText, entities.TextContent{Text: "   "}), block(entities.BlockText, entities.TextContent{Text: "later"})},
		},
		{
			name:   "checklist first item",
			blocks: []*entities.Block{block(entities.BlockChecklist, entities.ChecklistContent{Items: []entities.ChecklistItem{{ID: 1, Text: " milk "}, {ID: 2, Text: "eggs"}}})},
			want:   ptr("milk"),
		},
		{
			name:   "malformed list decodes to placeholder",
			blocks: []*entities.Block{block(entities.BlockList, entities.DecodeContent(entities.BlockList, ptr("{broken")))},
		},
		{
			name:   "title",
			blocks: []*entities.Block{block(entities.BlockTitle, entities.TextContent{Text: "Plan"})},
			want:   ptr("Plan"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.ExtractPreview(tt.blocks)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func ptr(s string) *string { return &s }
