package services

import (
	"strings"

	"blocknote/internal/notes/domain/entities"
)

// Outcome is what a content edit of a text block resolves to.
type Outcome int

// Edit outcomes.
const (
	// OutcomeEdit is a plain edit; persist Content.
	OutcomeEdit Outcome = iota
	// OutcomeTransform converts the block to Type with Content as remainder.
	OutcomeTransform
	// OutcomeOpenTypeMenu opens the block type menu at Cursor and keeps the previous content.
	OutcomeOpenTypeMenu
	// OutcomeInsertBelow inserts an empty text block below; the block keeps Content.
	OutcomeInsertBelow
)

// HintKind names a one-shot markdown shortcut hint.
type HintKind string

// Markdown shortcut hints.
const (
	HintNone      HintKind = ""
	HintList      HintKind = "list"
	HintChecklist HintKind = "checklist"
)

type trigger struct {
	prefix string
	to     entities.BlockType
	hint   HintKind
}

// Триггеры проверяются в этом порядке.
var triggers = []trigger{
	{prefix: "# ", to: entities.BlockTitle},
	{prefix: "## ", to: entities.BlockSubtitle},
	{prefix: "> ", to: entities.BlockQuote},
	{prefix: "- ", to: entities.BlockList, hint: HintList},
	{prefix: "[] ", to: entities.BlockChecklist, hint: HintChecklist},
	{prefix: "[ ] ", to: entities.BlockChecklist, hint: HintChecklist},
}

// Detection is the result of one edit.
type Detection struct {
	Outcome Outcome
	Content string
	Type    entities.BlockType
	Hint    HintKind
	Cursor  int
}

// ShortcutDetector watches successive contents of one text block and reports
// markdown-style shortcuts. It fires on edges only: a prefix that was already
// present in the previous content never fires again.
type ShortcutDetector struct {
	prev string
}

// NewShortcutDetector starts detection from the current block content.
func NewShortcutDetector(initial string) *ShortcutDetector {
	return &ShortcutDetector{prev: initial}
}

// Previous returns the last accepted content.
func (d *ShortcutDetector) Previous() string {
	return d.prev
}

// Reset replaces the snapshot without detecting anything.
func (d *ShortcutDetector) Reset(content string) {
	d.prev = content
}

// Detect classifies next against the previous snapshot and advances it.
func (d *ShortcutDetector) Detect(next string) Detection {
	prev := d.prev

	for _, tr := range triggers {
		if strings.HasPrefix(next, tr.prefix) && !strings.HasPrefix(prev, tr.prefix) {
			d.prev = next
			return Detection{
				Outcome: OutcomeTransform,
				Content: strings.TrimPrefix(next, tr.prefix),
				Type:    tr.to,
				Hint:    tr.hint,
			}
		}
	}

	if cursor, ok := slashInsertion(prev, next); ok {
		return Detection{Outcome: OutcomeOpenTypeMenu, Content: prev, Cursor: cursor}
	}

	if next == prev+"\n" && (prev == "" || strings.HasSuffix(prev, "\n")) {
		kept := strings.TrimRight(prev, "\n")
		d.prev = kept
		return Detection{Outcome: OutcomeInsertBelow, Content: kept}
	}

	d.prev = next
	return Detection{Outcome: OutcomeEdit, Content: next}
}

// slashInsertion reports whether next is prev with a single '/' inserted at
// the start of a line, and where.
func slashInsertion(prev, next string) (int, bool) {
	p, n := []rune(prev), []rune(next)
	if len(n) != len(p)+1 {
		return 0, false
	}

	i := 0
	for i < len(p) && p[i] == n[i] {
		i++
	}
	if n[i] != '/' || string(n[i+1:]) != string(p[i:]) {
		return 0, false
	}

	// Вставка внутри серии '/' неоднозначна: подходит любая позиция серии.
	for j := i; j >= 0 && n[j] == '/'; j-- {
		if j == 0 || n[j-1] == '\n' {
			return j, true
		}
	}
	return 0, false
}
