// Package services defines the external collaborators of the notes engine.
package services

import (
	"context"

	"blocknote/internal/notes/domain/entities"
)

// ImageSource points at already encoded files ready to be taken over.
type ImageSource struct {
	Path          string
	ThumbnailPath string
	Width         int
	Height        int
}

// ImagePipeline owns the files behind image blocks.
type ImagePipeline interface {
	Import(ctx context.Context, noteID int64, src ImageSource) (*entities.ImageBlockContent, error)
	Delete(ctx context.Context, image *entities.ImageBlockContent) error
	DeleteNoteImages(ctx context.Context, noteID int64) error
}
