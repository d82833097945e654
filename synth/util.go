package synth

import "math"

// secondsFromTimecents converts a SoundFont timecents value (as used by
// envelope and LFO delay generators) into seconds.
func secondsFromTimecents(x float64) float64 {
	return math.Pow(2, x/1200)
}

// hzFromCents converts a SoundFont absolute-cents value (as used by LFO
// frequency generators) into hertz.
func hzFromCents(x float64) float64 {
	return 8.176 * math.Pow(2, x/1200)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
