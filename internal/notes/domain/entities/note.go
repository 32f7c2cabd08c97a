package entities

import (
	"strings"
	"time"
)

// FallbackTitleLayout formats the title given to notes saved with a blank title.
const FallbackTitleLayout = "02 Jan 2006"

// Note is the metadata of a note. Its content lives in blocks.
type Note struct {
	ID         int64
	Title      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Archived   bool
	CategoryID *int64
}

// NewNote creates an active, uncategorized note.
func NewNote(title string, now time.Time) *Note {
	return &Note{
		Title:     NormalizeTitle(title, now),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeTitle trims the title and replaces a blank one with the date.
func NormalizeTitle(title string, now time.Time) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return FallbackTitle(now)
	}
	return title
}

// FallbackTitle is the date-based title of an untitled note.
func FallbackTitle(now time.Time) string {
	return now.Format(FallbackTitleLayout)
}

// NoteWithPreview is a listed note plus its one-line preview, nil when absent.
type NoteWithPreview struct {
	Note    *Note
	Preview *string
}
