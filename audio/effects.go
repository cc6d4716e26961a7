package audio

import "math"

// Click sound
const (
	ClickSeconds   = 0.1
	ClickStartFreq = 800.0 // Hz
	ClickEndFreq   = 300.0 // Hz
	ClickGain      = 0.3
	ClickDecay     = 40.0 // exponential volume decay rate
)

// Transition swoosh
const (
	SwooshSeconds       = 2.0
	SwooshAttackSeconds = 0.5
	SwooshPeakGain      = 0.2
	SwooshCutoffStart   = 200.0  // Hz
	SwooshCutoffEnd     = 3000.0 // Hz
)

// renderClick synthesizes the UI click: a short sine sweep from 800Hz down
// to 300Hz with a matching exponential volume decay.
func renderClick() []float64 {
	n := int(ClickSeconds * SampleRate)
	out := make([]float64, n)
	phase := 0.0
	for i := range out {
		t := float64(i) / float64(n)
		freq := ClickStartFreq + (ClickEndFreq-ClickStartFreq)*t
		phase += freq / SampleRate
		env := math.Exp(-t * ClickSeconds * ClickDecay)
		out[i] = math.Sin(2*math.Pi*phase) * ClickGain * env
	}
	return out
}

// renderSwoosh synthesizes the scene-transition swoosh: two seconds of
// white noise through a low-pass whose cutoff sweeps 200Hz to 3000Hz, with
// an attack to 0.2 over 0.5s and a release over the remaining 1.5s.
func renderSwoosh(noiseBuf []float64) []float64 {
	n := int(SwooshSeconds * SampleRate)
	attack := int(SwooshAttackSeconds * SampleRate)
	src := newNoiseSource(noiseBuf)
	filter := newLowPass(src, SwooshCutoffStart)

	out := make([]float64, n)
	for i := range out {
		t := float64(i) / float64(n)
		filter.setCutoff(SwooshCutoffStart + (SwooshCutoffEnd-SwooshCutoffStart)*t)

		var env float64
		if i < attack {
			env = SwooshPeakGain * float64(i) / float64(attack)
		} else {
			env = SwooshPeakGain * float64(n-i) / float64(n-attack)
		}
		out[i] = filter.Next() * env
	}
	return out
}
