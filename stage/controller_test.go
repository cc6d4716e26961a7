package stage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dreamstream/story"
)

// manualTimers collects scheduled callbacks so tests fire them by hand.
type manualTimers struct {
	fns []func()
}

func (m *manualTimers) afterFunc(_ time.Duration, f func()) *time.Timer {
	m.fns = append(m.fns, f)
	return time.NewTimer(time.Hour)
}

func (m *manualTimers) fireAll() {
	fns := m.fns
	m.fns = nil
	for _, f := range fns {
		f()
	}
}

func newTestController(onEnter func(story.Scene)) (*Controller, *manualTimers) {
	c := NewController(onEnter)
	mt := &manualTimers{}
	c.afterFunc = mt.afterFunc
	return c, mt
}

func TestControllerEnterSequencesTransition(t *testing.T) {
	var entered []string
	c, mt := newTestController(func(sc story.Scene) { entered = append(entered, sc.ID) })

	assert.Equal(t, PhaseEmpty, c.Phase())

	c.Enter(story.Scene{ID: "a", Mood: story.MoodCalm})
	assert.Equal(t, PhaseEntering, c.Phase())
	assert.False(t, c.UIVisible())
	assert.Equal(t, []string{"a"}, entered)

	mt.fireAll()
	assert.True(t, c.UIVisible())
	assert.Equal(t, PhaseSettled, c.Phase())
	assert.Len(t, c.OnStage(), 1)
}

func TestControllerKeepsPreviousSceneDuringCrossFade(t *testing.T) {
	c, mt := newTestController(nil)

	c.Enter(story.Scene{ID: "a"})
	mt.fireAll()
	c.Enter(story.Scene{ID: "b"})

	// Both scenes are on stage until the prune timer fires; the newest is
	// the active one.
	onStage := c.OnStage()
	require.Len(t, onStage, 2)
	active, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, "b", active.ID)

	mt.fireAll()
	onStage = c.OnStage()
	require.Len(t, onStage, 1)
	assert.Equal(t, "b", onStage[0].ID)
}

func TestControllerSkipsDuplicateSceneID(t *testing.T) {
	var enters int
	c, _ := newTestController(func(story.Scene) { enters++ })

	c.Enter(story.Scene{ID: "a"})
	c.Enter(story.Scene{ID: "a"})

	assert.Equal(t, 1, enters)
	assert.Len(t, c.OnStage(), 1)
}

func TestControllerSupersedingSceneCancelsStaleTimers(t *testing.T) {
	c, mt := newTestController(nil)

	c.Enter(story.Scene{ID: "a"})
	stale := mt.fns
	mt.fns = nil

	c.Enter(story.Scene{ID: "b"})

	// Firing the stale timers must not reveal the UI or prune the buffer
	// for the superseded scene.
	for _, f := range stale {
		f()
	}
	assert.False(t, c.UIVisible())
	assert.Len(t, c.OnStage(), 2)
	assert.Equal(t, PhaseEntering, c.Phase())

	mt.fireAll()
	assert.True(t, c.UIVisible())
	onStage := c.OnStage()
	require.Len(t, onStage, 1)
	assert.Equal(t, "b", onStage[0].ID)
}

func TestControllerReset(t *testing.T) {
	c, mt := newTestController(nil)
	c.Enter(story.Scene{ID: "a"})

	c.Reset()

	assert.Equal(t, PhaseEmpty, c.Phase())
	assert.Empty(t, c.OnStage())
	assert.False(t, c.UIVisible())

	// Timers scheduled before the reset are stale now.
	mt.fireAll()
	assert.Equal(t, PhaseEmpty, c.Phase())
	assert.False(t, c.UIVisible())
}
