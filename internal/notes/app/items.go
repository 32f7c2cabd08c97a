package app

import "blocknote/internal/notes/domain/entities"

// items приводит содержимое списка или чек-листа к общему виду.
func items(content entities.Content) ([]entities.ChecklistItem, bool) {
	switch c := content.(type) {
	case entities.ChecklistContent:
		out := make([]entities.ChecklistItem, len(c.Items))
		copy(out, c.Items)
		return out, true
	case entities.ListContent:
		out := make([]entities.ChecklistItem, len(c.Items))
		for i, item := range c.Items {
			out[i] = entities.ChecklistItem{ID: item.ID, Text: item.Text}
		}
		return out, true
	}
	return nil, false
}

func itemsContent(blockType entities.BlockType, list []entities.ChecklistItem) entities.Content {
	if blockType == entities.BlockList {
		out := make([]entities.ListItem, len(list))
		for i, item := range list {
			out[i] = entities.ListItem{ID: item.ID, Text: item.Text}
		}
		return entities.ListContent{Items: out}
	}
	return entities.ChecklistContent{Items: list}
}

func maxItemID(content entities.Content) int {
	list, _ := items(content)
	highest := 0
	for _, item := range list {
		if item.ID > highest {
			highest = item.ID
		}
	}
	return highest
}

func itemIndex(list []entities.ChecklistItem, id int) int {
	for i, item := range list {
		if item.ID == id {
			return i
		}
	}
	return -1
}
