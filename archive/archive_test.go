package archive

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dreamstream/story"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	scenes := []story.Scene{
		{ID: "a", Narrative: "You wake.", Mood: story.MoodCalm},
		{ID: "b", Narrative: "The floor tilts.", Mood: story.MoodChaos},
	}
	id, err := s.Save(ctx, "Falling", scenes)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, id, e.ID)
	assert.Equal(t, "Falling", e.Title)
	assert.Equal(t, story.MoodChaos, e.FinalMood)
	assert.Equal(t, 2, e.SceneCount)
	assert.Contains(t, e.Transcript, "The floor tilts.")
	assert.False(t, e.CreatedAt.IsZero())
}

func TestSaveRejectsEmptyHistory(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Save(context.Background(), "Empty", nil)
	assert.Error(t, err)
}

func TestListEmptyArchive(t *testing.T) {
	s := openTestStore(t)
	entries, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
