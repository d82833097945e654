package synth

import "github.com/Kanma/knm-synthesizer/soundfont"

// fakeMonoKeyInfo builds the minimal KeyInfo a Voice needs to start: a
// single mono sample with no generator overrides, so every parameter
// configureTrack derives falls back to the soundfont package's
// defaults.
func fakeMonoKeyInfo() soundfont.KeyInfo {
	return soundfont.KeyInfo{
		Left: soundfont.SampleInfo{
			Sample: &soundfont.Sample{
				Start:         0,
				End:           10,
				LoopStart:     0,
				LoopEnd:       10,
				SampleRate:    44100,
				OriginalPitch: 60,
				SampleType:    soundfont.SampleTypeMono,
			},
		},
	}
}

// fakeStereoKeyInfoUnequalLength builds a stereo KeyInfo whose two
// zones reach end-of-sample at different times, so a test can observe
// that the voice survives as long as either track is still producing.
func fakeStereoKeyInfoUnequalLength() soundfont.KeyInfo {
	return soundfont.KeyInfo{
		Stereo: true,
		Left: soundfont.SampleInfo{
			Sample: &soundfont.Sample{
				Start:         0,
				End:           5,
				LoopStart:     0,
				LoopEnd:       5,
				SampleRate:    44100,
				OriginalPitch: 60,
				SampleType:    soundfont.SampleTypeLeft,
			},
		},
		Right: soundfont.SampleInfo{
			Sample: &soundfont.Sample{
				Start:         0,
				End:           40,
				LoopStart:     0,
				LoopEnd:       40,
				SampleRate:    44100,
				OriginalPitch: 60,
				SampleType:    soundfont.SampleTypeRight,
			},
		},
	}
}
