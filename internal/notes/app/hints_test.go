package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blocknote/internal/notes/app"
	"blocknote/internal/notes/domain/services"
)

func TestSlashHintEligibility(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh install", func(t *testing.T) {
		hints := app.NewHintService(newMemHintStore())

		eligible, err := hints.SlashHintEligible(ctx)
		require.NoError(t, err)
		assert.True(t, eligible)
	})

	t.Run("slash used", func(t *testing.T) {
		store := newMemHintStore()
		hints := app.NewHintService(store)
		require.NoError(t, hints.MarkSlashUsed(ctx))

		eligible, err := hints.SlashHintEligible(ctx)
		require.NoError(t, err)
		assert.False(t, eligible)
		assert.True(t, store.dismissed)
	})

	t.Run("threshold reached earlier", func(t *testing.T) {
		store := newMemHintStore()
		store.edited = app.DismissAfterBlockEdits
		hints := app.NewHintService(store)

		eligible, err := hints.SlashHintEligible(ctx)
		require.NoError(t, err)
		assert.False(t, eligible)
		assert.True(t, store.dismissed)
	})
}

func TestRecordBlockEdited(t *testing.T) {
	ctx := context.Background()
	store := newMemHintStore()
	hints := app.NewHintService(store)

	dismissed, err := hints.RecordBlockEdited(ctx, 1)
	require.NoError(t, err)
	assert.False(t, dismissed)

	dismissed, err = hints.RecordBlockEdited(ctx, 1)
	require.NoError(t, err)
	assert.False(t, dismissed)
	assert.Equal(t, int64(1), store.edited)

	_, err = hints.RecordBlockEdited(ctx, 2)
	require.NoError(t, err)
	dismissed, err = hints.RecordBlockEdited(ctx, 3)
	require.NoError(t, err)
	assert.True(t, dismissed)
	assert.Equal(t, int64(3), store.edited)

	eligible, err := hints.SlashHintEligible(ctx)
	require.NoError(t, err)
	assert.False(t, eligible)
}

func TestMarkdownHintShownOnce(t *testing.T) {
	ctx := context.Background()
	store := newMemHintStore()
	hints := app.NewHintService(store)

	show, err := hints.ShouldShowMarkdownHint(ctx, services.HintList)
	require.NoError(t, err)
	assert.True(t, show)

	require.NoError(t, hints.MarkMarkdownHintShown(ctx, services.HintList))
	assert.True(t, store.wasShown("list"))

	show, err = hints.ShouldShowMarkdownHint(ctx, services.HintList)
	require.NoError(t, err)
	assert.False(t, show)

	show, err = hints.ShouldShowMarkdownHint(ctx, services.HintChecklist)
	require.NoError(t, err)
	assert.True(t, show)

	show, err = hints.ShouldShowMarkdownHint(ctx, services.HintNone)
	require.NoError(t, err)
	assert.False(t, show)
}

func TestMarkdownHintPersistedAcrossServices(t *testing.T) {
	ctx := context.Background()
	store := newMemHintStore()
	require.NoError(t, app.NewHintService(store).MarkMarkdownHintShown(ctx, services.HintChecklist))

	show, err := app.NewHintService(store).ShouldShowMarkdownHint(ctx, services.HintChecklist)
	require.NoError(t, err)
	assert.False(t, show)
}
