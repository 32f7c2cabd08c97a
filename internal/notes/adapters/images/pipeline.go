// Package images хранит файлы изображений блоков на диске.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"blocknote/internal/notes/domain/entities"
	"blocknote/internal/notes/ports/services"
	"blocknote/pkg/logger"
)

const (
	ErrDetectMime    = "failed to detect image type"
	ErrCreateDir     = "failed to create note images directory"
	ErrMoveFile      = "failed to move image file"
	ErrStatFile      = "failed to stat image file"
	ErrDeleteFile    = "failed to delete image file"
	ErrDeleteNoteDir = "failed to delete note images"
	LogOutsideRoot   = "image file is outside the images root, skipped"
	LogImageImported = "image imported"
)

const (
	thumbnailSuffix    = "_thumb"
	dirPermissions     = 0o755
	bytesPerKilobyte   = 1024
	imageMimeTypeClass = "image/"
)

// FilePipeline раскладывает готовые файлы изображений по каталогам заметок:
// <root>/<noteID>/<id><ext> и <root>/<noteID>/<id>_thumb<ext>.
type FilePipeline struct {
	root string
	now  func() time.Time
	stat func(string) (os.FileInfo, error)
}

// NewFilePipeline создает конвейер с корневым каталогом root.
func NewFilePipeline(root string) services.ImagePipeline {
	return &FilePipeline{root: root, now: time.Now, stat: os.Stat}
}

func (p *FilePipeline) noteDir(noteID int64) string {
	return filepath.Join(p.root, strconv.FormatInt(noteID, 10))
}

// Import переносит исходный файл и миниатюру в каталог заметки. Без
// миниатюры ее роль играет сам файл.
func (p *FilePipeline) Import(ctx context.Context, noteID int64, src services.ImageSource) (*entities.ImageBlockContent, error) {
	log := logger.Log(ctx).With(zap.String("method", "FilePipeline.Import"), zap.Int64("noteID", noteID))

	mime, err := mimetype.DetectFile(src.Path)
	if err != nil {
		log.Error(ctx, ErrDetectMime, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrDetectMime, err)
	}
	if !strings.HasPrefix(mime.String(), imageMimeTypeClass) {
		log.Debug(ctx, "rejected non-image file", zap.String("mime", mime.String()))
		return nil, entities.ErrNotAnImage
	}

	dir := p.noteDir(noteID)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		log.Error(ctx, ErrCreateDir, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCreateDir, err)
	}

	id := uuid.NewString()
	originalPath := filepath.Join(dir, id+mime.Extension())
	if err := moveFile(src.Path, originalPath); err != nil {
		log.Error(ctx, ErrMoveFile, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrMoveFile, err)
	}

	thumbnailPath := originalPath
	if src.ThumbnailPath != "" {
		thumbnailPath = filepath.Join(dir, id+thumbnailSuffix+filepath.Ext(src.ThumbnailPath))
		if err := moveFile(src.ThumbnailPath, thumbnailPath); err != nil {
			log.Error(ctx, ErrMoveFile, zap.Error(err))
			return nil, multierr.Append(
				fmt.Errorf("%s: %w", ErrMoveFile, err),
				removeIfExists(originalPath),
			)
		}
	}

	info, err := p.stat(originalPath)
	if err != nil {
		log.Error(ctx, ErrStatFile, zap.Error(err))
		return nil, multierr.Combine(
			fmt.Errorf("%s: %w", ErrStatFile, err),
			removeIfExists(originalPath),
			removeIfExists(thumbnailPath),
		)
	}

	content := &entities.ImageBlockContent{
		ID:           id,
		OriginalURI:  originalPath,
		ThumbnailURI: thumbnailPath,
		Width:        src.Width,
		Height:       src.Height,
		SizeKB:       int(math.Round(float64(info.Size()) / bytesPerKilobyte)),
		MimeType:     mime.String(),
		CreatedAt:    p.now().UTC(),
	}

	log.Info(ctx, LogImageImported, zap.String("imageID", id), zap.String("mime", content.MimeType))
	return content, nil
}

// Delete удаляет файлы изображения. Отсутствующие файлы не считаются ошибкой,
// а файлы вне корневого каталога не трогаются.
func (p *FilePipeline) Delete(ctx context.Context, image *entities.ImageBlockContent) error {
	if image == nil {
		return nil
	}
	log := logger.Log(ctx).With(zap.String("method", "FilePipeline.Delete"), zap.String("imageID", image.ID))

	var result error
	for _, path := range []string{image.OriginalURI, image.ThumbnailURI} {
		if path == "" {
			continue
		}
		if !p.contains(path) {
			log.Warn(ctx, LogOutsideRoot, zap.String("path", path))
			continue
		}
		result = multierr.Append(result, removeIfExists(path))
	}

	if result != nil {
		log.Error(ctx, ErrDeleteFile, zap.Error(result))
		return fmt.Errorf("%s: %w", ErrDeleteFile, result)
	}
	return nil
}

// DeleteNoteImages удаляет каталог изображений заметки целиком.
func (p *FilePipeline) DeleteNoteImages(ctx context.Context, noteID int64) error {
	if err := os.RemoveAll(p.noteDir(noteID)); err != nil {
		logger.Log(ctx).Error(ctx, ErrDeleteNoteDir, zap.Int64("noteID", noteID), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrDeleteNoteDir, err)
	}
	return nil
}

func (p *FilePipeline) contains(path string) bool {
	rel, err := filepath.Rel(p.root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// moveFile переименовывает файл, а между файловыми системами копирует и удаляет исходник.
func moveFile(from, to string) error {
	if err := os.Rename(from, to); err == nil {
		return nil
	}

	src, err := os.Open(from)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(to)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		return multierr.Combine(err, dst.Close(), os.Remove(to))
	}
	if err := dst.Close(); err != nil {
		return multierr.Append(err, os.Remove(to))
	}
	return os.Remove(from)
}
