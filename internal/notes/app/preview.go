package app

import (
	"context"
	"fmt"

	"blocknote/internal/notes/domain/services"
	"blocknote/internal/notes/ports/repositories"
)

const ErrPreview = "failed to extract preview"

// PreviewService строит строку предпросмотра заметки по ее первому
// неграфическому блоку.
type PreviewService struct {
	blocks repositories.BlockRepository
}

// NewPreviewService создает новый экземпляр PreviewService.
func NewPreviewService(blocks repositories.BlockRepository) *PreviewService {
	return &PreviewService{blocks: blocks}
}

// Preview возвращает предпросмотр заметки или nil.
func (s *PreviewService) Preview(ctx context.Context, noteID int64) (*string, error) {
	block, err := s.blocks.FirstNonImage(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrPreview, err)
	}
	if block == nil {
		return nil, nil
	}
	return services.BlockPreview(block), nil
}
