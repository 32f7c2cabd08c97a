// Package dto содержит структуры запросов и ответов HTTP API заметок.
package dto

import (
	"time"

	"blocknote/internal/notes/domain/entities"
)

// CreateNoteRequest содержит данные для создания заметки.
type CreateNoteRequest struct {
	Title string `json:"title"`
}

// RenameNoteRequest содержит новый заголовок заметки.
type RenameNoteRequest struct {
	Title string `json:"title"`
}

// SetCategoryRequest назначает категорию; null снимает ее.
type SetCategoryRequest struct {
	CategoryID *int64 `json:"category_id"`
}

// Note представляет заметку.
type Note struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Archived   bool      `json:"archived"`
	CategoryID *int64    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NotePreview - заметка со строкой предпросмотра.
type NotePreview struct {
	Note
	Preview *string `json:"preview"`
}

// ListNotesResponse содержит список заметок.
type ListNotesResponse struct {
	Notes []*Note `json:"notes"`
}

// ListPreviewsResponse содержит список заметок с предпросмотром.
type ListPreviewsResponse struct {
	Notes []*NotePreview `json:"notes"`
}

// NoteFromEntity преобразует заметку в DTO.
func NoteFromEntity(n *entities.Note) *Note {
	return &Note{
		ID:         n.ID,
		Title:      n.Title,
		Archived:   n.Archived,
		CategoryID: n.CategoryID,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

// NotesFromEntities преобразует список заметок.
func NotesFromEntities(notes []*entities.Note) *ListNotesResponse {
	out := make([]*Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, NoteFromEntity(n))
	}
	return &ListNotesResponse{Notes: out}
}

// PreviewsFromEntities преобразует список заметок с предпросмотром.
func PreviewsFromEntities(notes []*entities.NoteWithPreview) *ListPreviewsResponse {
	out := make([]*NotePreview, 0, len(notes))
	for _, n := range notes {
		out = append(out, &NotePreview{Note: *NoteFromEntity(n.Note), Preview: n.Preview})
	}
	return &ListPreviewsResponse{Notes: out}
}
