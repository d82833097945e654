package synth

import (
	"math"

	"github.com/Kanma/knm-synthesizer/soundfont"
)

const numChannels = 16
const percussionChannel = 9

// Synthesizer is the top-level engine: it owns one Channel per MIDI
// channel, a VoicePool, and the loaded SoundFont, and turns MIDI
// control operations plus render() calls into PCM audio.
type Synthesizer struct {
	settings Settings

	sf *soundfont.SoundFont

	channels  [numChannels]*Channel
	pool      *VoicePool
	masterVolume float64

	defaultPreset   soundfont.PresetID
	hasDefaultPreset bool

	block      []float32
	blockLeft  []float32
	blockRight []float32
	blockOffset int

	nbRenderedSamples int64
}

// NewSynthesizer validates settings and constructs a Synthesizer with
// no SoundFont loaded yet. An invalid setting is a hard construction
// failure, never a panic.
func NewSynthesizer(settings Settings) (*Synthesizer, error) {
	settings, err := settings.normalize()
	if err != nil {
		return nil, err
	}

	s := &Synthesizer{
		settings:     settings,
		masterVolume: 1,
		pool:         NewVoicePool(settings.MaximumPolyphony, settings.SampleRate, settings.BlockSize),
		block:        make([]float32, settings.BlockSize),
		blockLeft:    make([]float32, settings.BlockSize),
		blockRight:   make([]float32, settings.BlockSize),
	}
	for i := range s.channels {
		s.channels[i] = NewChannel(i == percussionChannel)
	}
	s.blockOffset = settings.BlockSize

	return s, nil
}

// LoadSoundFontFile loads a SoundFont bank from a file path.
func (s *Synthesizer) LoadSoundFontFile(path string) error {
	sf, err := soundfont.LoadFile(path)
	if err != nil {
		return err
	}
	s.setSoundFont(sf)
	return nil
}

// LoadSoundFontBuffer loads a SoundFont bank from an in-memory RIFF
// buffer.
func (s *Synthesizer) LoadSoundFontBuffer(buffer []byte) error {
	sf, err := soundfont.Load(buffer)
	if err != nil {
		return err
	}
	s.setSoundFont(sf)
	return nil
}

func (s *Synthesizer) setSoundFont(sf *soundfont.SoundFont) {
	s.sf = sf
	s.defaultPreset, s.hasDefaultPreset = sf.DefaultPreset()
	s.pool.Clear()
}

// SetMasterVolume sets the synthesizer's output gain from a decibel
// value.
func (s *Synthesizer) SetMasterVolume(db float64) {
	s.masterVolume = math.Pow(10, db/20)
}

// Reset clears every active voice and restores every channel to its
// power-on defaults.
func (s *Synthesizer) Reset() {
	s.pool.Clear()
	for _, c := range s.channels {
		c.Reset()
	}
	s.blockOffset = s.settings.BlockSize
	s.nbRenderedSamples = 0
}

// NbRenderedSamples reports the total number of sample frames rendered
// since construction or the last Reset.
func (s *Synthesizer) NbRenderedSamples() int64 { return s.nbRenderedSamples }

// validChannel reports whether channel indexes a real MIDI channel.
// Every public entry point that indexes s.channels must check this
// first: an out-of-range channel is silently ignored, never a panic.
func (s *Synthesizer) validChannel(channel int) bool {
	return channel >= 0 && channel < numChannels
}

// ActiveVoiceCount reports how many voices are currently sounding.
func (s *Synthesizer) ActiveVoiceCount() int { return s.pool.ActiveCount() }

// ChannelVoiceCount reports how many active voices belong to channel.
func (s *Synthesizer) ChannelVoiceCount(channel int) int {
	n := 0
	for _, v := range s.pool.Active() {
		if v.Channel() == channel {
			n++
		}
	}
	return n
}
