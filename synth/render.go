package synth

// gainRampThreshold is the minimum per-block gain delta below which a
// voice's contribution is mixed at a constant gain instead of ramped,
// avoiding a division that only adds noise for near-silent steps.
const gainRampThreshold = 1e-3

// RenderStereo renders frames samples of stereo audio into left and
// right, resuming mid-block where the previous call left off.
func (s *Synthesizer) RenderStereo(left, right []float32) {
	frames := len(left)
	done := 0
	for done < frames {
		if s.blockOffset == s.settings.BlockSize {
			s.renderBlockStereo()
			s.blockOffset = 0
		}

		n := s.settings.BlockSize - s.blockOffset
		if remaining := frames - done; n > remaining {
			n = remaining
		}

		copy(left[done:done+n], s.blockLeft[s.blockOffset:s.blockOffset+n])
		copy(right[done:done+n], s.blockRight[s.blockOffset:s.blockOffset+n])

		s.blockOffset += n
		done += n
	}
}

// RenderMono renders frames samples of mono audio into buffer, summing
// the left and right tracks of every stereo voice into a single
// accumulator.
func (s *Synthesizer) RenderMono(buffer []float32) {
	frames := len(buffer)
	done := 0
	for done < frames {
		if s.blockOffset == s.settings.BlockSize {
			s.renderBlockMono()
			s.blockOffset = 0
		}

		n := s.settings.BlockSize - s.blockOffset
		if remaining := frames - done; n > remaining {
			n = remaining
		}

		copy(buffer[done:done+n], s.block[s.blockOffset:s.blockOffset+n])

		s.blockOffset += n
		done += n
	}
}

func (s *Synthesizer) renderBlockStereo() {
	s.pool.Process(s.channels[:])
	s.nbRenderedSamples += int64(s.settings.BlockSize)

	for i := range s.blockLeft {
		s.blockLeft[i] = 0
		s.blockRight[i] = 0
	}

	for _, v := range s.pool.Active() {
		mixTrack(s.blockLeft, v.LeftOutput(), v.PreviousMixGain()[0], v.CurrentMixGain()[0], s.masterVolume)

		rightOut := v.RightOutput()
		if !v.Stereo() {
			rightOut = v.LeftOutput()
		}
		mixTrack(s.blockRight, rightOut, v.PreviousMixGain()[1], v.CurrentMixGain()[1], s.masterVolume)
	}
}

func (s *Synthesizer) renderBlockMono() {
	s.pool.Process(s.channels[:])
	s.nbRenderedSamples += int64(s.settings.BlockSize)

	for i := range s.block {
		s.block[i] = 0
	}

	for _, v := range s.pool.Active() {
		mixTrack(s.block, v.LeftOutput(), v.PreviousMixGain()[0], v.CurrentMixGain()[0], s.masterVolume)

		if v.Stereo() {
			mixTrack(s.block, v.RightOutput(), v.PreviousMixGain()[1], v.CurrentMixGain()[1], s.masterVolume)
		}
	}
}

// mixTrack accumulates one voice track's output block into dst,
// ramping the mix gain linearly from previous to current across the
// block (or applying current as a constant gain when the two are
// close enough that a ramp would add nothing but noise).
func mixTrack(dst, src []float32, previous, current, masterVolume float64) {
	if abs64(current-previous) < gainRampThreshold {
		gain := float32(current * masterVolume)
		for i := range dst {
			dst[i] += src[i] * gain
		}
		return
	}

	step := (current - previous) / float64(len(dst))
	gain := previous
	for i := range dst {
		dst[i] += src[i] * float32(gain*masterVolume)
		gain += step
	}
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
