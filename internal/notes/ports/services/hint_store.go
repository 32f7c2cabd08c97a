package services

import "context"

// HintStore persists coaching-hint state across restarts.
type HintStore interface {
	SlashUsed(ctx context.Context) (bool, error)
	MarkSlashUsed(ctx context.Context) error
	SlashHintDismissed(ctx context.Context) (bool, error)
	DismissSlashHint(ctx context.Context) error
	BlocksEdited(ctx context.Context) (int64, error)
	IncrementBlocksEdited(ctx context.Context) (int64, error)
	MarkdownHintShown(ctx context.Context, kind string) (bool, error)
	MarkMarkdownHintShown(ctx context.Context, kind string) error
}
