package synth

import "testing"

func TestProcessMIDIMessageControllerVolume(t *testing.T) {
	s, _ := NewSynthesizer(Settings{SampleRate: 44100})

	s.ProcessMIDIMessage(0, 0xB0, ccVolumeCoarse, 80)

	if s.channels[0].volume14 != 80*128 {
		t.Errorf("expected CC7 to set coarse volume, got %d", s.channels[0].volume14)
	}
}

func TestProcessMIDIMessageProgramChange(t *testing.T) {
	s, _ := NewSynthesizer(Settings{SampleRate: 44100})

	s.ProcessMIDIMessage(0, 0xC0, 12, 0)

	if s.channels[0].Preset() != 12 {
		t.Errorf("expected program change to set preset 12, got %d", s.channels[0].Preset())
	}
}

func TestProcessMIDIMessagePitchBend(t *testing.T) {
	s, _ := NewSynthesizer(Settings{SampleRate: 44100})

	s.ProcessMIDIMessage(0, 0xE0, 0, 127)

	pb := s.channels[0].PitchBendNormalized()
	if pb < 0.9 {
		t.Errorf("expected near +1 pitch bend, got %f", pb)
	}
}

func TestProcessMIDIMessageNoteOnZeroVelocityActsAsNoteOff(t *testing.T) {
	s, _ := NewSynthesizer(Settings{SampleRate: 44100})

	// Without a loaded soundfont, noteOn never allocates a voice, so
	// this only exercises that the zero-velocity branch dispatches to
	// NoteOff rather than NoteOn without panicking.
	s.ProcessMIDIMessage(0, 0x90, 60, 0)

	if s.pool.ActiveCount() != 0 {
		t.Errorf("expected no active voices")
	}
}

func TestProcessMIDIMessageOutOfRangeChannelReturnsFalse(t *testing.T) {
	s, _ := NewSynthesizer(Settings{SampleRate: 44100})

	if s.ProcessMIDIMessage(16, 0xB0, ccVolumeCoarse, 80) {
		t.Errorf("expected false for an out-of-range channel")
	}
	if s.ProcessMIDIMessage(-1, 0x90, 60, 100) {
		t.Errorf("expected false for a negative channel")
	}
}

func TestProcessMIDIMessageAllNotesOff(t *testing.T) {
	s, _ := NewSynthesizer(Settings{SampleRate: 44100})
	v := s.pool.Request(0, 0)
	v.Start(fakeMonoKeyInfo(), make([]float32, 10), 0, 60, 100)

	s.ProcessMIDIMessage(0, 0xB0, ccAllNotesOff, 0)

	if v.State() != VoiceReleaseRequested {
		t.Errorf("expected CC123 to request a graceful release, got state %v", v.State())
	}
}
