package synth

import "fmt"

// Settings configures a Synthesizer at construction time. Zero values
// for BlockSize, MaximumPolyphony, and ReverbAndChorusEnabled are
// replaced with their documented defaults; SampleRate has no default
// and must be set explicitly.
type Settings struct {
	SampleRate             float64
	BlockSize              int
	MaximumPolyphony       int
	ReverbAndChorusEnabled bool

	// reverbAndChorusSet distinguishes an explicit false from the zero
	// value, since ReverbAndChorusEnabled defaults to true.
	reverbAndChorusSet bool
}

// EnableReverbAndChorus explicitly sets ReverbAndChorusEnabled,
// overriding its true default. Settings built as struct literals that
// want reverb/chorus disabled must call this rather than assigning the
// field directly, since the zero value is indistinguishable from "not
// set".
func (s *Settings) EnableReverbAndChorus(enabled bool) {
	s.ReverbAndChorusEnabled = enabled
	s.reverbAndChorusSet = true
}

// normalize fills in defaults and validates ranges, returning a
// configuration error if any field is out of bounds.
func (s Settings) normalize() (Settings, error) {
	if s.SampleRate < 16000 || s.SampleRate > 192000 {
		return Settings{}, fmt.Errorf("synth: sample rate %.0f out of range [16000, 192000]", s.SampleRate)
	}

	if s.BlockSize == 0 {
		s.BlockSize = 64
	}
	if s.BlockSize < 8 || s.BlockSize > 1024 {
		return Settings{}, fmt.Errorf("synth: block size %d out of range [8, 1024]", s.BlockSize)
	}

	if s.MaximumPolyphony == 0 {
		s.MaximumPolyphony = 64
	}
	if s.MaximumPolyphony < 8 || s.MaximumPolyphony > 256 {
		return Settings{}, fmt.Errorf("synth: maximum polyphony %d out of range [8, 256]", s.MaximumPolyphony)
	}

	if !s.reverbAndChorusSet {
		s.ReverbAndChorusEnabled = true
	}

	return s, nil
}
