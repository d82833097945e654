package dsp

import "math"

// maxCutoffRatio is the fraction of the sample rate above which the
// filter is bypassed rather than risk an unstable coefficient set.
const maxCutoffRatio = 0.499

// BiquadFilter is a resonant low-pass biquad in Robert Bristow-Johnson's
// cookbook form, applied in-place to a block of samples.
type BiquadFilter struct {
	sampleRate float64

	a0, a1, a2, a3, a4 float64
	active             bool

	x1, x2 float64
	y1, y2 float64
}

// Setup derives the filter's coefficients for the given cutoff (Hz) and
// resonance (linear Q-like scalar). When cutoff is at or above
// maxCutoffRatio*sampleRate the filter becomes a passthrough, but it still
// keeps its history in sync with the input so that it resumes smoothly if
// it becomes active again later.
func (f *BiquadFilter) Setup(sampleRate, cutoff, resonance float64) {
	f.sampleRate = sampleRate
	f.active = cutoff < maxCutoffRatio*sampleRate

	if !f.active {
		return
	}

	q := resonance - (1-1/math.Sqrt2)/(1+6*(resonance-1))
	omega := 2 * math.Pi * cutoff / sampleRate
	alpha := math.Sin(omega) / (2 * q)
	cosOmega := math.Cos(omega)

	b0 := (1 - cosOmega) / 2
	b1 := 1 - cosOmega
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cosOmega
	a2 := 1 - alpha

	f.a0 = b0 / a0
	f.a1 = b1 / a0
	f.a2 = b2 / a0
	f.a3 = a1 / a0
	f.a4 = a2 / a0
}

// ClearBuffer zeros the filter's history, as if it had just been given
// silence.
func (f *BiquadFilter) ClearBuffer() {
	f.x1, f.x2 = 0, 0
	f.y1, f.y2 = 0, 0
}

// Process filters block in-place.
func (f *BiquadFilter) Process(block []float32) {
	if !f.active {
		n := len(block)
		if n == 0 {
			return
		}
		if n == 1 {
			f.x2 = f.x1
			f.x1 = float64(block[0])
		} else {
			f.x2 = float64(block[n-2])
			f.x1 = float64(block[n-1])
		}
		f.y1, f.y2 = f.x1, f.x2
		return
	}

	for i, s := range block {
		x := float64(s)
		y := f.a0*x + f.a1*f.x1 + f.a2*f.x2 - f.a3*f.y1 - f.a4*f.y2

		f.x2 = f.x1
		f.x1 = x
		f.y2 = f.y1
		f.y1 = y

		block[i] = float32(y)
	}
}
