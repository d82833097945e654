// Package dsp implements the leaf digital-signal-processing building blocks
// used by a synthesis voice: sample playback, the two envelope generators,
// the low-frequency oscillator and the resonant low-pass filter.
//
// None of the types here know about MIDI, channels or SoundFont generator
// maps — callers translate those domain concepts into the plain
// float64/float32 parameters these types expect. That separation mirrors
// the teacher's own split between `pkg/mod` (domain state) and the
// low-level per-sample math inlined in `nextSample`.
package dsp

import "math"

// LoopMode controls how Sampler wraps its read position once the end of
// the sample region is reached.
type LoopMode int

const (
	// LoopNone plays the region once, from start to end, then stops.
	LoopNone LoopMode = iota
	// LoopContinuous loops between loop_start and loop_end forever.
	LoopContinuous
	// LoopUntilRelease loops until Release is called, then plays out to
	// the sample's end like LoopNone.
	LoopUntilRelease
)

// Sampler resamples a region of a shared, read-only float32 buffer at a
// pitch-derived rate, using linear interpolation between neighbouring
// samples.
type Sampler struct {
	buffer []float32

	start    int
	end      int
	loopMode LoopMode

	loopStart int
	loopEnd   int

	sourceSampleRate float64
	destSampleRate   float64
	rootKey          int
	coarseTune       int
	fineTune         int
	scaleTuning      int

	tune             float64
	pitchChangeScale float64
	sampleRateRatio  float64
	looping          bool

	currentIndex float64
}

// Start configures the sampler to begin reading at the region's start
// index, deriving the fixed-per-voice quantities from the SoundFont
// generator values supplied by the caller.
func (s *Sampler) Start(
	buffer []float32,
	start, end int,
	loopMode LoopMode,
	loopStart, loopEnd int,
	sourceSampleRate float64,
	rootKey, coarseTune, fineTune, scaleTuning int,
	destSampleRate float64,
) {
	s.buffer = buffer
	s.start = start
	s.end = end
	s.loopMode = loopMode
	s.loopStart = loopStart
	s.loopEnd = loopEnd
	s.sourceSampleRate = sourceSampleRate
	s.destSampleRate = destSampleRate
	s.rootKey = rootKey
	s.coarseTune = coarseTune
	s.fineTune = fineTune
	s.scaleTuning = scaleTuning

	s.tune = float64(coarseTune) + 0.01*float64(fineTune)
	s.pitchChangeScale = 0.01 * float64(scaleTuning)
	s.sampleRateRatio = sourceSampleRate / destSampleRate
	s.looping = loopMode != LoopNone
	s.currentIndex = float64(start)
}

// Release switches a LoopUntilRelease sampler to stop looping: it will run
// past loopEnd and play out to the sample's natural end. It is a no-op for
// the other loop modes.
func (s *Sampler) Release() {
	if s.loopMode == LoopUntilRelease {
		s.looping = false
	}
}

// Process writes size resampled float32 values into dest, pitch-shifted so
// that the sample's root key plays back at pitchMIDIKey (a possibly
// fractional MIDI key number, carrying pitch bend and LFO/envelope
// modulation). It returns false once playback of a non-looping region has
// run past its end with nothing left to produce.
func (s *Sampler) Process(dest []float32, size int, pitchMIDIKey float64) bool {
	pitchChange := s.pitchChangeScale*(pitchMIDIKey-float64(s.rootKey)) + s.tune
	pitchRatio := s.sampleRateRatio * math.Pow(2, pitchChange/12)

	loopLength := s.loopEnd - s.loopStart

	for i := 0; i < size; i++ {
		index := int(math.Floor(s.currentIndex))
		index2 := index + 1

		if s.looping && index2 >= s.loopEnd {
			index2 -= loopLength
		}

		if !s.looping && index >= s.end {
			if i == 0 {
				return false
			}
			for j := i; j < size; j++ {
				dest[j] = 0
			}
			return true
		}

		if index2 >= len(s.buffer) {
			index2 = index
		}

		x1 := s.buffer[index]
		x2 := s.buffer[index2]
		frac := s.currentIndex - float64(index)
		dest[i] = x1 + float32(frac)*(x2-x1)

		s.currentIndex += pitchRatio
		if s.looping && s.currentIndex >= float64(s.loopEnd) {
			s.currentIndex -= float64(loopLength)
		}
	}

	return true
}
