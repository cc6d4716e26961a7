package audio

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"dreamstream/story"
)

// Engine lifecycle timing
const (
	StopRampMillis  = 100 // master volume ramp-down before suspend
	StopGraceMillis = 200 // delay before the ambience graph is torn down
)

// Engine owns the process-wide audio state: the shared noise buffer, the
// master volume, and the single active ambience graph. It is explicitly
// constructed and injected rather than living as a package-level instance.
//
// Every operation on an uninitialized or suspended engine is a silent
// no-op: audio failure never surfaces to the player, the experience just
// degrades to silence.
type Engine struct {
	mu     sync.Mutex
	logger *zap.Logger

	initialized bool
	running     bool
	masterGain  float64
	stopGen     int

	noiseBuf []float64
	click    []byte
	swoosh   []byte

	mix mixer

	stopTimer *time.Timer
	// afterFunc is swapped out in tests for a synchronous scheduler.
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewEngine returns an engine that still needs Init before it makes sound.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, afterFunc: time.AfterFunc}
}

// Init constructs the shared synthesis state exactly once. Safe to call
// repeatedly; only the first call does work.
func (e *Engine) Init() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	e.noiseBuf = newNoiseBuffer(rng)
	e.click = encodeWAV(renderClick())
	e.swoosh = encodeWAV(renderSwoosh(e.noiseBuf))
	e.masterGain = 1
	e.initialized = true
	e.logger.Debug("audio engine initialized")
}

// Resume transitions a suspended engine back to running and restores the
// master volume. No-op before Init.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return
	}
	if e.stopTimer != nil {
		e.stopTimer.Stop()
		e.stopTimer = nil
	}
	e.stopGen++
	e.running = true
	e.masterGain = 1
}

// Stop ramps the master volume to zero, then after a short grace delay
// tears down the active ambience graph and suspends the engine.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.initialized || !e.running {
		e.mu.Unlock()
		return
	}
	e.masterGain = 0
	if e.stopTimer != nil {
		e.stopTimer.Stop()
	}
	e.stopGen++
	gen := e.stopGen
	after := e.afterFunc
	e.mu.Unlock()

	// Scheduled outside the lock so a synchronous test scheduler cannot
	// deadlock against finishStop.
	t := after((StopRampMillis+StopGraceMillis)*time.Millisecond, func() { e.finishStop(gen) })

	e.mu.Lock()
	e.stopTimer = t
	e.mu.Unlock()
}

// finishStop tears the ambience down and suspends, unless a Resume or a
// newer Stop superseded the grace delay.
func (e *Engine) finishStop(gen int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.stopGen {
		return
	}
	e.mix.stop()
	e.running = false
	e.logger.Debug("audio engine suspended")
}

// Running reports whether the engine is initialized and not suspended.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized && e.running
}

// SetAmbience switches the looping background texture to the given mood.
// Switching to the mood already playing is a no-op: no nodes are rebuilt
// and the loop does not restart. Otherwise the previous graph is released
// as a whole before the new one is built.
func (e *Engine) SetAmbience(mood story.Mood) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized || !e.running {
		return
	}
	if e.mix.set(mood, e.noiseBuf, e.masterGain) {
		e.logger.Debug("ambience switched", zap.String("mood", string(mood)))
	}
}

// Ambience returns the rendered loop for the active mood. ok is false when
// no ambience is playing or the engine is unavailable.
func (e *Engine) Ambience() (wav []byte, mood story.Mood, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized || !e.running || e.mix.current == nil {
		return nil, "", false
	}
	return e.mix.wav, e.mix.current.mood, true
}

// Click returns the rendered UI click. ok is false before Init.
func (e *Engine) Click() ([]byte, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return nil, false
	}
	return e.click, true
}

// Swoosh returns the rendered scene-transition swoosh. ok is false before
// Init.
func (e *Engine) Swoosh() ([]byte, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return nil, false
	}
	return e.swoosh, true
}

// mixer is the ambience state machine: idle, or playing exactly one mood.
// Switching is destructive replacement, never overlay.
type mixer struct {
	current *graph
	wav     []byte
}

// set switches to mood and reports whether anything changed. The previous
// graph's nodes are stopped and released as one group before the new graph
// exists, so at most one graph is ever live.
func (m *mixer) set(mood story.Mood, noiseBuf []float64, masterGain float64) bool {
	if m.current != nil && m.current.mood == mood {
		return false
	}
	if m.current != nil {
		m.current.release()
	}
	g := buildAmbience(mood, noiseBuf)
	fadeIn := AmbienceFadeSeconds * SampleRate
	samples := g.render(AmbienceLoopSeconds*SampleRate, fadeIn)
	if masterGain != 1 {
		for i := range samples {
			samples[i] *= masterGain
		}
	}
	m.current = g
	m.wav = encodeWAV(samples)
	return true
}

// stop releases the active graph, returning the mixer to idle.
func (m *mixer) stop() {
	if m.current != nil {
		m.current.release()
		m.current = nil
		m.wav = nil
	}
}
