package audio

import "dreamstream/story"

// Ambience tuning
const (
	AmbienceLoopSeconds = 10   // loop length; a whole number of LFO periods
	AmbienceGain        = 0.25 // steady-state ambience level
	AmbienceFadeSeconds = 2    // ramp-in after a mood switch

	MechanicalDroneFreq   = 50.0 // Hz saw drone
	MechanicalThrobFreq   = 0.5  // Hz cutoff modulation
	MechanicalCutoffBase  = 320.0
	MechanicalCutoffDepth = 240.0

	EerieFreqA = 150.0 // Hz, paired detuned sines
	EerieFreqB = 154.0 // Hz, 4Hz audible beating

	NatureGustFreq    = 0.1 // Hz center-frequency drift
	NatureCenterBase  = 800.0
	NatureCenterDepth = 450.0
	NatureBandWidth   = 600.0

	ChaosCutoff = 2000.0 // high-pass, harsh static
	CalmCutoff  = 400.0  // low-pass, soft brown-ish noise
)

// graph is one mood's set of synthesis nodes. Every generator and filter
// belonging to the graph is tracked in nodes so a mood switch releases the
// whole group atomically; nothing is left running behind a failsafe timer.
type graph struct {
	mood     story.Mood
	nodes    []node
	out      node
	released bool
}

// track registers a node for teardown and returns it unchanged.
func (g *graph) track(n node) node {
	g.nodes = append(g.nodes, n)
	return n
}

// release stops every node in the graph. Idempotent; already-stopped nodes
// are tolerated.
func (g *graph) release() {
	for _, n := range g.nodes {
		n.Stop()
	}
	g.released = true
}

// render produces n mono samples at ambience level. fadeIn is the number
// of leading samples over which the gain ramps up from zero.
func (g *graph) render(n, fadeIn int) []float64 {
	out := make([]float64, n)
	for i := range out {
		gain := AmbienceGain
		if i < fadeIn {
			gain *= float64(i) / float64(fadeIn)
		}
		out[i] = g.out.Next() * gain
	}
	return out
}

// mix sums a fixed set of source nodes.
type mix struct {
	srcs    []node
	scale   float64
	stopped bool
}

func (m *mix) Next() float64 {
	if m.stopped {
		return 0
	}
	var s float64
	for _, src := range m.srcs {
		s += src.Next()
	}
	return s * m.scale
}

func (m *mix) Stop() { m.stopped = true }

// modLowPass sweeps a low-pass cutoff from an LFO each sample.
type modLowPass struct {
	f   *lowPass
	mod *lfo
}

func (m *modLowPass) Next() float64 {
	m.f.setCutoff(m.mod.Value())
	return m.f.Next()
}

func (m *modLowPass) Stop() { m.f.Stop() }

// modBandPass drifts a band-pass center from an LFO each sample.
type modBandPass struct {
	f   *bandPass
	mod *lfo
}

func (m *modBandPass) Next() float64 {
	m.f.setCenter(m.mod.Value())
	return m.f.Next()
}

func (m *modBandPass) Stop() { m.f.Stop() }

// buildAmbience constructs the synthesis graph for one mood. The shared
// noise buffer is reused as the raw source for every noise-based texture.
func buildAmbience(mood story.Mood, noiseBuf []float64) *graph {
	g := &graph{mood: mood}

	switch mood {
	case story.MoodMechanical:
		// Low saw drone through a slowly throbbing low-pass.
		drone := newOscillator(waveSaw, MechanicalDroneFreq)
		throb := newLFO(MechanicalThrobFreq, MechanicalCutoffBase, MechanicalCutoffDepth)
		filter := newLowPass(drone, MechanicalCutoffBase)
		g.track(drone)
		g.track(throb)
		g.track(filter)
		g.out = &modLowPass{f: filter, mod: throb}

	case story.MoodEerie:
		// Two close-detuned sines beating against each other. Both
		// oscillators are tracked; teardown releases the pair together.
		a := newOscillator(waveSine, EerieFreqA)
		b := newOscillator(waveSine, EerieFreqB)
		g.track(a)
		g.track(b)
		g.out = &mix{srcs: []node{a, b}, scale: 0.5}

	case story.MoodNature:
		// Band-passed noise with a slow center drift, like wind gusts.
		src := newNoiseSource(noiseBuf)
		gust := newLFO(NatureGustFreq, NatureCenterBase, NatureCenterDepth)
		filter := newBandPass(src, NatureCenterBase, NatureBandWidth)
		g.track(src)
		g.track(gust)
		g.track(filter)
		g.out = &modBandPass{f: filter, mod: gust}

	case story.MoodChaos:
		// High-passed noise, harsh static character.
		src := newNoiseSource(noiseBuf)
		filter := newHighPass(src, ChaosCutoff)
		g.track(src)
		g.track(filter)
		g.out = filter

	default:
		// Calm: low-passed noise, soft character.
		src := newNoiseSource(noiseBuf)
		filter := newLowPass(src, CalmCutoff)
		g.track(src)
		g.track(filter)
		g.out = filter
	}

	return g
}
