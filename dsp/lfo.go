package dsp

import "math"

// minLfoFrequency is the frequency below which an LFO is treated as
// inactive and always reads zero.
const minLfoFrequency = 0.001

// LFO is a triangle-wave low-frequency oscillator with an initial delay
// before it starts oscillating.
type LFO struct {
	sampleRate float64
	delay      float64
	frequency  float64
	period     float64
	active     bool

	nbProcessedSamples int64
	value              float64
}

// Start configures the LFO. If frequency is at or below minLfoFrequency
// the LFO is inactive and Value will read 0 forever.
func (l *LFO) Start(sampleRate, delay, frequency float64) {
	l.sampleRate = sampleRate
	l.delay = delay
	l.frequency = frequency
	l.active = frequency > minLfoFrequency
	if l.active {
		l.period = 1.0 / frequency
	}
	l.nbProcessedSamples = 0
	l.value = 0
}

// Process advances the LFO by nSamples (one synthesis block).
func (l *LFO) Process(nSamples int) {
	l.nbProcessedSamples += int64(nSamples)

	if !l.active {
		l.value = 0
		return
	}

	t := float64(l.nbProcessedSamples) / l.sampleRate
	if t < l.delay {
		l.value = 0
		return
	}

	phase := math.Mod(t-l.delay, l.period) / l.period

	switch {
	case phase < 0.25:
		l.value = 4 * phase
	case phase < 0.75:
		l.value = 4 * (0.5 - phase)
	default:
		l.value = 4 * (phase - 1)
	}
}

// Value returns the last computed oscillator value in [-1, +1].
func (l *LFO) Value() float64 { return l.value }
