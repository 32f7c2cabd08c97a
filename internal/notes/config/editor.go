package config

import "time"

// EditorConfig задает тайминги сессии редактирования.
type EditorConfig struct {
	TextDebounce time.Duration `yaml:"text_debounce" env:"NOTES_EDITOR_TEXT_DEBOUNCE" env-default:"500ms"`
	ItemDebounce time.Duration `yaml:"item_debounce" env:"NOTES_EDITOR_ITEM_DEBOUNCE" env-default:"300ms"`
	UndoWindow   time.Duration `yaml:"undo_window" env:"NOTES_EDITOR_UNDO_WINDOW" env-default:"3s"`
}
