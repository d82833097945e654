package synth

import "testing"

func TestNewSynthesizerRejectsOutOfRangeSampleRate(t *testing.T) {
	_, err := NewSynthesizer(Settings{SampleRate: 1000})
	if err == nil {
		t.Fatalf("expected an error for a sample rate below 16000 Hz")
	}
}

func TestNewSynthesizerAppliesDefaults(t *testing.T) {
	s, err := NewSynthesizer(Settings{SampleRate: 44100})
	if err != nil {
		t.Fatalf("NewSynthesizer: %v", err)
	}
	if s.settings.BlockSize != 64 {
		t.Errorf("expected default block size 64, got %d", s.settings.BlockSize)
	}
	if s.settings.MaximumPolyphony != 64 {
		t.Errorf("expected default polyphony 64, got %d", s.settings.MaximumPolyphony)
	}
	if !s.settings.ReverbAndChorusEnabled {
		t.Errorf("expected reverb/chorus enabled by default")
	}
}

func TestNewSynthesizerRejectsOutOfRangeBlockSize(t *testing.T) {
	_, err := NewSynthesizer(Settings{SampleRate: 44100, BlockSize: 4})
	if err == nil {
		t.Fatalf("expected an error for a block size below 8")
	}
}

func TestRenderWithNoSoundFontProducesSilence(t *testing.T) {
	s, err := NewSynthesizer(Settings{SampleRate: 44100, BlockSize: 64})
	if err != nil {
		t.Fatalf("NewSynthesizer: %v", err)
	}

	buf := make([]float32, 200)
	s.RenderMono(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected silence with no soundfont and no notes, got %f at %d", v, i)
		}
	}
}

func TestRenderIsConcatenative(t *testing.T) {
	s1, _ := NewSynthesizer(Settings{SampleRate: 44100, BlockSize: 64})
	s2, _ := NewSynthesizer(Settings{SampleRate: 44100, BlockSize: 64})

	a := make([]float32, 150)
	s1.RenderMono(a)

	b := make([]float32, 150)
	s2.RenderMono(b[:90])
	s2.RenderMono(b[90:])

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected concatenated render to match single render at %d: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestNoteOnWithoutSoundFontIsANoop(t *testing.T) {
	s, _ := NewSynthesizer(Settings{SampleRate: 44100, BlockSize: 64})
	s.NoteOn(0, 60, 100)

	if s.pool.ActiveCount() != 0 {
		t.Errorf("expected noteOn with no loaded soundfont to allocate nothing, got %d active voices", s.pool.ActiveCount())
	}
}

func TestResetClearsActiveVoicesAndChannelState(t *testing.T) {
	s, _ := NewSynthesizer(Settings{SampleRate: 44100, BlockSize: 64})
	s.channels[0].SetVolumeCoarse(10)
	s.pool.Request(0, 0)

	s.Reset()

	if s.pool.ActiveCount() != 0 {
		t.Errorf("expected Reset to clear active voices, got %d", s.pool.ActiveCount())
	}
	if s.channels[0].volume14 != 100*128 {
		t.Errorf("expected Reset to restore default channel volume")
	}
}
