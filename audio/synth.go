// Package audio procedurally synthesizes every sound in the game: the UI
// click, the scene-transition swoosh, and the five looping ambience
// textures keyed to a scene's mood. Nothing is sampled; all audio is built
// from oscillators, filters, and generated noise.
package audio

import (
	"math"
	"math/rand"
)

// Audio format
const (
	SampleRate = 44100 // Hz, mono
)

// Noise source
const (
	NoiseBufferSeconds = 2 // length of the shared uniform-noise buffer
)

// node is one synthesis unit in an ambience graph. Next produces the next
// sample; Stop silences the node permanently and must tolerate repeated
// calls.
type node interface {
	Next() float64
	Stop()
}

// waveform shapes for oscillator.
type waveform int

const (
	waveSine waveform = iota
	waveSaw
)

// oscillator is a fixed-frequency generator.
type oscillator struct {
	shape   waveform
	freq    float64
	phase   float64
	stopped bool
}

func newOscillator(shape waveform, freq float64) *oscillator {
	return &oscillator{shape: shape, freq: freq}
}

func (o *oscillator) Next() float64 {
	if o.stopped {
		return 0
	}
	var s float64
	switch o.shape {
	case waveSaw:
		s = 2*o.phase - 1
	default:
		s = math.Sin(2 * math.Pi * o.phase)
	}
	o.phase += o.freq / SampleRate
	if o.phase >= 1 {
		o.phase -= math.Floor(o.phase)
	}
	return s
}

func (o *oscillator) Stop() { o.stopped = true }

// newNoiseBuffer fills a fixed-length mono buffer with independent
// uniformly-distributed samples in [-1,1].
func newNoiseBuffer(rng *rand.Rand) []float64 {
	buf := make([]float64, NoiseBufferSeconds*SampleRate)
	for i := range buf {
		buf[i] = rng.Float64()*2 - 1
	}
	return buf
}

// noiseSource loops over a shared noise buffer.
type noiseSource struct {
	buf     []float64
	pos     int
	stopped bool
}

func newNoiseSource(buf []float64) *noiseSource {
	return &noiseSource{buf: buf}
}

func (n *noiseSource) Next() float64 {
	if n.stopped || len(n.buf) == 0 {
		return 0
	}
	s := n.buf[n.pos]
	n.pos++
	if n.pos >= len(n.buf) {
		n.pos = 0
	}
	return s
}

func (n *noiseSource) Stop() { n.stopped = true }

// lowPass is a one-pole low-pass filter over a source node.
type lowPass struct {
	src     node
	cutoff  float64
	y       float64
	stopped bool
}

func newLowPass(src node, cutoff float64) *lowPass {
	return &lowPass{src: src, cutoff: cutoff}
}

func (f *lowPass) setCutoff(hz float64) {
	if hz < 1 {
		hz = 1
	}
	f.cutoff = hz
}

func (f *lowPass) Next() float64 {
	if f.stopped {
		return 0
	}
	a := filterCoeff(f.cutoff)
	f.y += a * (f.src.Next() - f.y)
	return f.y
}

func (f *lowPass) Stop() { f.stopped = true }

// highPass is a one-pole high-pass filter over a source node.
type highPass struct {
	src     node
	cutoff  float64
	y       float64
	prevX   float64
	stopped bool
}

func newHighPass(src node, cutoff float64) *highPass {
	return &highPass{src: src, cutoff: cutoff}
}

func (f *highPass) setCutoff(hz float64) {
	if hz < 1 {
		hz = 1
	}
	f.cutoff = hz
}

func (f *highPass) Next() float64 {
	if f.stopped {
		return 0
	}
	x := f.src.Next()
	a := 1 - filterCoeff(f.cutoff)
	f.y = a * (f.y + x - f.prevX)
	f.prevX = x
	return f.y
}

func (f *highPass) Stop() { f.stopped = true }

// bandPass combines a high-pass and a low-pass around a center frequency.
type bandPass struct {
	lp      *lowPass
	hp      *highPass
	width   float64
	stopped bool
}

func newBandPass(src node, center, width float64) *bandPass {
	hp := newHighPass(src, center-width/2)
	lp := newLowPass(hp, center+width/2)
	return &bandPass{lp: lp, hp: hp, width: width}
}

func (f *bandPass) setCenter(hz float64) {
	f.hp.setCutoff(hz - f.width/2)
	f.lp.setCutoff(hz + f.width/2)
}

func (f *bandPass) Next() float64 {
	if f.stopped {
		return 0
	}
	return f.lp.Next()
}

func (f *bandPass) Stop() { f.stopped = true }

// filterCoeff converts a cutoff frequency into a one-pole smoothing
// coefficient at the engine sample rate.
func filterCoeff(cutoff float64) float64 {
	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1.0 / SampleRate
	return dt / (rc + dt)
}

// lfo is a control-rate oscillator: Value advances one sample and returns
// base + depth*sin. It is a node so graph teardown tracks it like any
// other generator.
type lfo struct {
	osc   *oscillator
	base  float64
	depth float64
}

func newLFO(freq, base, depth float64) *lfo {
	return &lfo{osc: newOscillator(waveSine, freq), base: base, depth: depth}
}

func (l *lfo) Value() float64 { return l.base + l.depth*l.osc.Next() }
func (l *lfo) Next() float64  { return l.Value() }
func (l *lfo) Stop()          { l.osc.Stop() }
