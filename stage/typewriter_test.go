package stage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypewriterCompletesInExactlyNTicks(t *testing.T) {
	tw := NewTypewriter()
	tw.Restart("dream")

	var completions int
	for i := 1; i <= 5; i++ {
		prefix, justCompleted := tw.Tick()
		assert.Equal(t, "dream"[:i], prefix)
		if justCompleted {
			completions++
			assert.Equal(t, 5, i, "completion must fire on the final tick")
		}
	}
	assert.Equal(t, 1, completions)

	// Extra ticks keep the full text and never re-fire completion.
	prefix, justCompleted := tw.Tick()
	assert.Equal(t, "dream", prefix)
	assert.False(t, justCompleted)
	assert.True(t, tw.Done())
}

func TestTypewriterRestartBeginsFromEmpty(t *testing.T) {
	tw := NewTypewriter()
	tw.Restart("first text")
	tw.Tick()
	tw.Tick()

	tw.Restart("go")
	prefix, justCompleted := tw.Tick()
	assert.Equal(t, "g", prefix)
	assert.False(t, justCompleted)

	prefix, justCompleted = tw.Tick()
	assert.Equal(t, "go", prefix)
	assert.True(t, justCompleted)
}

func TestTypewriterHandlesMultibyteRunes(t *testing.T) {
	tw := NewTypewriter()
	tw.Restart("héllo")

	var last string
	for i := 0; i < 5; i++ {
		last, _ = tw.Tick()
	}
	assert.Equal(t, "héllo", last)
}

func TestTypewriterRunEmitsAndCompletesOnce(t *testing.T) {
	tw := NewTypewriter()
	tw.Restart("abc")

	var prefixes []string
	var completions int
	done := make(chan struct{})
	go func() {
		defer close(done)
		tw.Run(context.Background(), func(p string) { prefixes = append(prefixes, p) }, func() { completions++ })
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reveal did not finish")
	}

	require.Equal(t, []string{"a", "ab", "abc"}, prefixes)
	assert.Equal(t, 1, completions)
}

func TestTypewriterRunStopsWhenSuperseded(t *testing.T) {
	tw := NewTypewriter()
	tw.Restart("a very long narrative that will not finish quickly at all")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		tw.Run(ctx, func(string) {}, nil)
	}()

	time.Sleep(3 * TickInterval)
	tw.Restart("new text")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded run did not stop")
	}
}
