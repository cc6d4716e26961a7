package stage

import (
	"sync"
	"time"

	"dreamstream/story"
)

// Transition timing
const (
	RevealDelay = 2000 * time.Millisecond // interactive UI reappears
	SettleDelay = 2500 * time.Millisecond // on-stage buffer pruned to newest
)

// Phase is the transition controller's state.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseEntering
	PhaseSettled
)

// Controller sequences the entrance of a new scene: the previous scene
// stays on stage underneath the cross-fade, the interactive UI hides and
// reappears after a fixed delay, and stale scenes are pruned once the
// enter animation has visually completed. A scene arriving mid-transition
// cancels the previous scene's timers; stale callbacks never fire.
type Controller struct {
	mu        sync.Mutex
	phase     Phase
	onStage   []story.Scene
	uiVisible bool

	revealTimer *time.Timer
	pruneTimer  *time.Timer
	gen         int

	// onEnter fires once per accepted scene, before the timers start.
	// The handler uses it to trigger the transition sound and the
	// ambience switch.
	onEnter func(story.Scene)

	// afterFunc is swapped out in tests for a synchronous scheduler.
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewController returns an empty stage. onEnter may be nil.
func NewController(onEnter func(story.Scene)) *Controller {
	return &Controller{onEnter: onEnter, afterFunc: time.AfterFunc}
}

// Enter brings a new scene on stage. A scene whose ID matches the current
// top is skipped entirely.
func (c *Controller) Enter(sc story.Scene) {
	c.mu.Lock()
	if n := len(c.onStage); n > 0 && c.onStage[n-1].ID == sc.ID {
		c.mu.Unlock()
		return
	}

	c.onStage = append(c.onStage, sc)
	c.phase = PhaseEntering
	c.uiVisible = false
	c.gen++
	gen := c.gen

	c.cancelTimersLocked()
	c.revealTimer = c.afterFunc(RevealDelay, func() { c.reveal(gen) })
	c.pruneTimer = c.afterFunc(SettleDelay, func() { c.prune(gen) })

	onEnter := c.onEnter
	c.mu.Unlock()

	if onEnter != nil {
		onEnter(sc)
	}
}

// reveal shows the interactive UI again, unless a newer scene superseded
// this transition.
func (c *Controller) reveal(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.uiVisible = true
}

// prune collapses the on-stage buffer to the newest scene once its enter
// animation has completed.
func (c *Controller) prune(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	if n := len(c.onStage); n > 1 {
		c.onStage = []story.Scene{c.onStage[n-1]}
	}
	c.phase = PhaseSettled
}

// Reset clears the stage and cancels any pending timers.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelTimersLocked()
	c.gen++
	c.phase = PhaseEmpty
	c.onStage = nil
	c.uiVisible = false
}

func (c *Controller) cancelTimersLocked() {
	if c.revealTimer != nil {
		c.revealTimer.Stop()
		c.revealTimer = nil
	}
	if c.pruneTimer != nil {
		c.pruneTimer.Stop()
		c.pruneTimer = nil
	}
}

// Phase returns the controller state.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// OnStage returns a copy of the scenes currently rendered. The last entry
// is the active one; anything before it only persists for the cross-fade.
func (c *Controller) OnStage() []story.Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]story.Scene, len(c.onStage))
	copy(out, c.onStage)
	return out
}

// Active returns the scene rendered as current, which is always the most
// recently entered one.
func (c *Controller) Active() (story.Scene, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.onStage) == 0 {
		return story.Scene{}, false
	}
	return c.onStage[len(c.onStage)-1], true
}

// UIVisible reports whether the interactive layer is shown.
func (c *Controller) UIVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uiVisible
}
