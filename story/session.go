package story

import (
	"errors"
	"strings"
	"sync"
)

// ErrBusy is returned when a generation round is already in flight.
var ErrBusy = errors.New("a generation round is already in progress")

// contextDepth is how many recent narratives feed the next request.
const contextDepth = 3

// contextSeparator joins narrative entries in the context summary.
const contextSeparator = "\n---\n"

// Session holds the state of one play-through. History is append-only
// between resets; the active scene is always the last entry.
type Session struct {
	mu      sync.Mutex
	active  bool
	loading bool
	busy    bool
	err     string
	history []Scene
}

// NewSession returns a session in the idle landing state.
func NewSession() *Session {
	return &Session{}
}

// Begin marks the session active and loading for a fresh Start round.
// It fails with ErrBusy if another round has not finished yet.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	s.active = true
	s.loading = true
	s.err = ""
	return nil
}

// Replace installs the scene as the sole history entry. Used by Start.
func (s *Session) Replace(sc Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = []Scene{sc}
	s.loading = false
	s.busy = false
	s.err = ""
}

// Append adds the scene to the history. Used by Advance.
func (s *Session) Append(sc Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, sc)
	s.loading = false
	s.busy = false
	s.err = ""
}

// Fail clears loading and records the user-facing message. The session
// stays active so the player can retry; history is untouched.
func (s *Session) Fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.busy = false
	s.err = msg
}

// Reset returns the session to the exact initial idle state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.loading = false
	s.busy = false
	s.err = ""
	s.history = nil
}

// Current returns the active scene, which is always the most recently
// appended one. ok is false before the first successful Start.
func (s *Session) Current() (Scene, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return Scene{}, false
	}
	return s.history[len(s.history)-1], true
}

// History returns a copy of the scene history.
func (s *Session) History() []Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Scene, len(s.history))
	copy(out, s.history)
	return out
}

// Len reports the number of scenes in the history.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Active reports whether a play-through is underway.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Loading reports whether a generation round is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the current user-facing error message, empty when none.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ContextSummary joins the narratives of the last few scenes into the
// short context string passed to the next generation request.
func (s *Session) ContextSummary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := len(s.history) - contextDepth
	if start < 0 {
		start = 0
	}
	parts := make([]string, 0, contextDepth)
	for _, sc := range s.history[start:] {
		parts = append(parts, sc.Narrative)
	}
	return strings.Join(parts, contextSeparator)
}
