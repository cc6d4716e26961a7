package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scene(id, narrative string) Scene {
	return Scene{ID: id, Narrative: narrative, Mood: MoodCalm}
}

func TestSessionHistoryAppendOnly(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin())
	s.Replace(scene("a", "first"))
	assert.Equal(t, 1, s.Len())

	for i, id := range []string{"b", "c", "d"} {
		require.NoError(t, s.Begin())
		s.Append(scene(id, "next"))
		assert.Equal(t, 2+i, s.Len())
	}

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "d", cur.ID)
}

func TestSessionResetReturnsToInitialState(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin())
	s.Replace(scene("a", "first"))
	s.Fail("boom")

	s.Reset()

	assert.False(t, s.Active())
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())
	assert.Equal(t, 0, s.Len())
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSessionBusyGateRejectsOverlappingRounds(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin())
	assert.ErrorIs(t, s.Begin(), ErrBusy)

	// Finishing the round reopens the gate.
	s.Replace(scene("a", "first"))
	assert.NoError(t, s.Begin())
	s.Fail("network down")
	assert.NoError(t, s.Begin())
}

func TestSessionFailKeepsHistoryAndScene(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin())
	s.Replace(scene("a", "first"))

	require.NoError(t, s.Begin())
	s.Fail("the dream slipped away")

	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Loading())
	assert.Equal(t, "the dream slipped away", s.Err())
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur.ID)
}

func TestContextSummaryUsesLastThreeNarratives(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Begin())
	s.Replace(scene("a", "one"))
	for _, n := range []string{"two", "three", "four"} {
		require.NoError(t, s.Begin())
		s.Append(scene(n, n))
	}

	assert.Equal(t, "two\n---\nthree\n---\nfour", s.ContextSummary())
}

func TestParseMood(t *testing.T) {
	assert.Equal(t, MoodChaos, ParseMood("chaos"))
	assert.Equal(t, MoodEerie, ParseMood(" Eerie "))
	assert.Equal(t, MoodCalm, ParseMood("melancholy"))
	assert.Equal(t, MoodCalm, ParseMood(""))
}
