// Package stage holds the presentation state machines: the scene
// transition controller and the typewriter text reveal.
package stage

import (
	"context"
	"sync"
	"time"
)

// TickInterval is the delay between typewriter characters.
const TickInterval = 30 * time.Millisecond

// Typewriter reveals a text one rune per tick. Restarting with a new text
// cancels any in-flight reveal and begins again from an empty prefix.
// There is deliberately no way to skip straight to the full text.
type Typewriter struct {
	mu        sync.Mutex
	text      []rune
	shown     int
	completed bool
	gen       int
}

// NewTypewriter returns a typewriter with nothing to reveal.
func NewTypewriter() *Typewriter {
	return &Typewriter{}
}

// Restart replaces the text and begins the reveal from empty. Any reveal
// loop started before this call stops emitting.
func (t *Typewriter) Restart(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.text = []rune(text)
	t.shown = 0
	t.completed = false
	t.gen++
}

// Tick extends the revealed prefix by one rune. justCompleted is true on
// exactly the tick that shows the final rune, and never again for the
// same text.
func (t *Typewriter) Tick() (prefix string, justCompleted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.shown < len(t.text) {
		t.shown++
		if t.shown == len(t.text) && !t.completed {
			t.completed = true
			return string(t.text[:t.shown]), true
		}
	}
	return string(t.text[:t.shown]), false
}

// Done reports whether the whole text is revealed.
func (t *Typewriter) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed || len(t.text) == 0
}

// Run ticks the reveal on a real clock, calling emit with each new prefix
// and complete once when the text is fully shown. It returns when the
// reveal finishes, the context is cancelled, or a Restart supersedes this
// run.
func (t *Typewriter) Run(ctx context.Context, emit func(string), complete func()) {
	t.mu.Lock()
	gen := t.gen
	t.mu.Unlock()

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.mu.Lock()
			stale := t.gen != gen
			t.mu.Unlock()
			if stale {
				return
			}
			prefix, justCompleted := t.Tick()
			emit(prefix)
			if justCompleted {
				if complete != nil {
					complete()
				}
				return
			}
			if t.Done() {
				return
			}
		}
	}
}
