package entities

import (
	"strconv"
	"strings"
	"time"
)

// Category groups notes. Position defines the display order, starting at 0.
type Category struct {
	ID        int64
	Title     string
	Color     *string
	Position  int
	CreatedAt time.Time
}

// CategoryMode is the state of a category filter.
type CategoryMode int

// Category filter states.
const (
	CategoryAny CategoryMode = iota
	CategoryExact
	CategoryNone
)

// CategoryFilter selects notes by category: any, one id, or uncategorized only.
type CategoryFilter struct {
	Mode CategoryMode
	ID   int64
}

// AnyCategory matches every note.
func AnyCategory() CategoryFilter { return CategoryFilter{Mode: CategoryAny} }

// InCategory matches notes of one category.
func InCategory(id int64) CategoryFilter { return CategoryFilter{Mode: CategoryExact, ID: id} }

// Uncategorized matches notes without a category.
func Uncategorized() CategoryFilter { return CategoryFilter{Mode: CategoryNone} }

// ParseCategoryFilter reads "", "any", "none" or a numeric id.
func ParseCategoryFilter(raw string) (CategoryFilter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "any", "all":
		return AnyCategory(), nil
	case "none", "uncategorized":
		return Uncategorized(), nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return CategoryFilter{}, ErrUnknownCategory
	}
	return InCategory(id), nil
}

// NotesFilter is the query of a note listing. Archived notes are never listed.
type NotesFilter struct {
	Search   string
	Category CategoryFilter
}

// CategoryCounts holds non-archived note counts per category.
type CategoryCounts struct {
	ByCategory    map[int64]int
	Uncategorized int
}
