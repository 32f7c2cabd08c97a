package dto

import (
	"time"

	"blocknote/internal/notes/domain/entities"
)

// CategoryRequest содержит данные для создания или изменения категории.
type CategoryRequest struct {
	Title string  `json:"title"`
	Color *string `json:"color"`
}

// ReorderCategoriesRequest содержит новый порядок всех категорий.
type ReorderCategoriesRequest struct {
	IDs []int64 `json:"ids"`
}

// Category представляет категорию.
type Category struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Color     *string   `json:"color"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// ListCategoriesResponse содержит категории в порядке отображения.
type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
}

// CountsResponse содержит число активных заметок по категориям.
type CountsResponse struct {
	ByCategory    map[int64]int `json:"by_category"`
	Uncategorized int           `json:"uncategorized"`
}

// CategoryFromEntity преобразует категорию в DTO.
func CategoryFromEntity(c *entities.Category) *Category {
	return &Category{
		ID:        c.ID,
		Title:     c.Title,
		Color:     c.Color,
		Position:  c.Position,
		CreatedAt: c.CreatedAt,
	}
}

// CategoriesFromEntities преобразует список категорий.
func CategoriesFromEntities(categories []*entities.Category) *ListCategoriesResponse {
	out := make([]*Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryFromEntity(c))
	}
	return &ListCategoriesResponse{Categories: out}
}

// CountsFromEntity преобразует счетчики категорий.
func CountsFromEntity(c *entities.CategoryCounts) *CountsResponse {
	byCategory := c.ByCategory
	if byCategory == nil {
		byCategory = map[int64]int{}
	}
	return &CountsResponse{ByCategory: byCategory, Uncategorized: c.Uncategorized}
}
