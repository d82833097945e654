package synth

import "testing"

func TestNoteOnOutOfRangeChannelDoesNotPanic(t *testing.T) {
	s, _ := NewSynthesizer(Settings{SampleRate: 44100})
	s.NoteOn(16, 60, 100)
	s.NoteOn(-1, 60, 100)

	if s.pool.ActiveCount() != 0 {
		t.Errorf("expected no voices allocated for an out-of-range channel")
	}
}

func TestNoteOffOutOfRangeChannelDoesNotPanic(t *testing.T) {
	s, _ := NewSynthesizer(Settings{SampleRate: 44100})
	s.NoteOff(16, 60)
	s.NoteOff(-1, 60)
}

func TestResetControllersOutOfRangeChannelDoesNotPanic(t *testing.T) {
	s, _ := NewSynthesizer(Settings{SampleRate: 44100})
	s.ResetControllers(16)
	s.ResetControllers(-1)
}

func TestConfigureChannelOutOfRangeChannelReturnsFalse(t *testing.T) {
	s, _ := NewSynthesizer(Settings{SampleRate: 44100})
	if s.ConfigureChannel(16, 0, 0) {
		t.Errorf("expected false for an out-of-range channel")
	}
}

func TestConfigureChannelMissingPresetReturnsFalse(t *testing.T) {
	s, _ := NewSynthesizer(Settings{SampleRate: 44100})
	if s.ConfigureChannel(0, 0, 0) {
		t.Errorf("expected false with no soundfont loaded")
	}
	if s.channels[0].Bank() != 0 || s.channels[0].Preset() != 0 {
		t.Errorf("expected channel state untouched on a failed ConfigureChannel call")
	}
}
