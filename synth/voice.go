package synth

import (
	"math"

	"github.com/Kanma/knm-synthesizer/dsp"
	"github.com/Kanma/knm-synthesizer/soundfont"
)

// VoiceState is a voice's position in its start/release/retire
// lifecycle.
type VoiceState int

const (
	VoicePlaying VoiceState = iota
	VoiceReleaseRequested
	VoiceReleased
)

// noteGainFloor is the linear gain below which a track is considered
// silent and the voice holding it can be retired.
const noteGainFloor = 0.001

// track is one channel (left or right) of a voice's DSP pipeline: its
// own sampler, envelopes, LFOs and filter, each independently
// configured from the zone's generator map.
type track struct {
	active bool

	sampler       dsp.Sampler
	volumeEnv     dsp.VolumeEnvelope
	modulationEnv dsp.ModulationEnvelope
	vibratoLFO    dsp.LFO
	modulationLFO dsp.LFO
	filter        dsp.BiquadFilter

	output []float32

	noteGain       float64
	cutoff         float64
	resonance      float64
	smoothedCutoff float64

	vibLfoToPitch  float64
	modLfoToPitch  float64
	modEnvToPitch  float64
	modLfoToCutoff float64
	modEnvToCutoff float64
	modLfoToVolume float64

	dynamicCutoff bool
	dynamicVolume bool

	instrumentPan    float64
	instrumentReverb float64
	instrumentChorus float64

	mixGain float64
}

// Voice is one polyphonic voice: it binds a key/velocity to one or two
// sample tracks and renders one block of stereo audio per Process call.
type Voice struct {
	sampleRate float64
	blockSize  int

	left  track
	right track

	stereo bool

	channel        int
	key            uint8
	velocity       uint8
	exclusiveClass int

	state       VoiceState
	voiceLength int64

	previousMixGain [2]float64
	currentMixGain  [2]float64

	previousReverbSend float64
	currentReverbSend  float64
	previousChorusSend float64
	currentChorusSend  float64
}

// NewVoice allocates a voice and its fixed-size per-block output
// buffers. Voices are constructed once, at pool setup time, and never
// reallocate afterwards.
func NewVoice(sampleRate float64, blockSize int) *Voice {
	v := &Voice{sampleRate: sampleRate, blockSize: blockSize}
	v.left.output = make([]float32, blockSize)
	v.right.output = make([]float32, blockSize)
	return v
}

// Channel reports which MIDI channel this voice is currently bound to.
func (v *Voice) Channel() int { return v.channel }

// Key reports which MIDI key this voice is currently bound to.
func (v *Voice) Key() uint8 { return v.key }

// ExclusiveClass reports the voice's current exclusive class (0 means
// none).
func (v *Voice) ExclusiveClass() int { return v.exclusiveClass }

// State reports the voice's lifecycle state.
func (v *Voice) State() VoiceState { return v.state }

// VoiceLength reports the number of samples produced since Start.
func (v *Voice) VoiceLength() int64 { return v.voiceLength }

func configureTrack(t *track, info *soundfont.SampleInfo, buffer []float32, key, velocity uint8, sampleRate float64) {
	t.active = info.Sample != nil
	if !t.active {
		return
	}

	g := func(gt soundfont.GeneratorType) soundfont.GenAmount { return info.Generator(gt) }

	initialAttenuation := float64(g(soundfont.GenInitialAttenuation).IValue)
	initialFilterQ := float64(g(soundfont.GenInitialFilterQ).IValue)

	sampleAttenuation := 0.1 * 0.1 * initialAttenuation
	filterAttenuation := 0.5 * 0.1 * initialFilterQ

	if velocity == 0 {
		t.noteGain = 0
	} else {
		decibels := -20*math.Log10(127.0/float64(velocity)) - sampleAttenuation - filterAttenuation
		t.noteGain = math.Pow(10, decibels/20)
	}

	t.cutoff = hzFromCents(float64(g(soundfont.GenInitialFilterCutoffFrequency).UValue))
	t.resonance = math.Pow(10, 0.05*0.1*initialFilterQ)

	t.vibLfoToPitch = float64(g(soundfont.GenVibratoLFOToPitch).IValue) / 100
	t.modLfoToPitch = float64(g(soundfont.GenModulationLFOToPitch).IValue) / 100
	t.modEnvToPitch = float64(g(soundfont.GenModulationEnvelopeToPitch).IValue) / 100
	t.modLfoToCutoff = float64(g(soundfont.GenModulationLFOToFilterCutoff).IValue)
	t.modEnvToCutoff = float64(g(soundfont.GenModulationEnvelopeToFilterCutoff).IValue)
	t.modLfoToVolume = float64(g(soundfont.GenModulationLFOToVolume).IValue) / 10

	t.dynamicCutoff = t.modLfoToCutoff != 0 || t.modEnvToCutoff != 0
	t.dynamicVolume = t.modLfoToVolume > 0.05

	t.instrumentPan = clamp(0.1*float64(g(soundfont.GenPan).IValue), -50, 50)
	t.instrumentReverb = 0.001 * float64(g(soundfont.GenReverbEffectsSend).IValue)
	t.instrumentChorus = 0.001 * float64(g(soundfont.GenChorusEffectsSend).IValue)

	keyFactor := func(genType soundfont.GeneratorType) float64 {
		cents := float64(g(genType).IValue)
		return math.Pow(2, (cents*float64(60-int(key)))/1200)
	}

	volDelay := secondsFromTimecents(float64(g(soundfont.GenDelayVolumeEnvelope).IValue))
	volAttack := secondsFromTimecents(float64(g(soundfont.GenAttackVolumeEnvelope).IValue))
	volHold := secondsFromTimecents(float64(g(soundfont.GenHoldVolumeEnvelope).IValue)) * keyFactor(soundfont.GenKeyNumberToVolumeEnvelopeHold)
	volDecay := secondsFromTimecents(float64(g(soundfont.GenDecayVolumeEnvelope).IValue)) * keyFactor(soundfont.GenKeyNumberToVolumeEnvelopeDecay)
	volSustain := math.Pow(10, -0.01*float64(g(soundfont.GenSustainVolumeEnvelope).IValue))
	volRelease := math.Max(secondsFromTimecents(float64(g(soundfont.GenReleaseVolumeEnvelope).IValue)), 0.01)

	t.volumeEnv.Start(sampleRate, volDelay, volAttack, volHold, volDecay, volSustain, volRelease)

	modDelay := secondsFromTimecents(float64(g(soundfont.GenDelayModulationEnvelope).IValue))
	modAttack := secondsFromTimecents(float64(g(soundfont.GenAttackModulationEnvelope).IValue)) * (145 - float64(velocity)) / 144
	modHold := secondsFromTimecents(float64(g(soundfont.GenHoldModulationEnvelope).IValue)) * keyFactor(soundfont.GenKeyNumberToModulationEnvelopeHold)
	modDecay := secondsFromTimecents(float64(g(soundfont.GenDecayModulationEnvelope).IValue)) * keyFactor(soundfont.GenKeyNumberToModulationEnvelopeDecay)
	modSustain := 1 - float64(g(soundfont.GenSustainModulationEnvelope).IValue)/100
	modRelease := secondsFromTimecents(float64(g(soundfont.GenReleaseModulationEnvelope).IValue))

	t.modulationEnv.Start(sampleRate, modDelay, modAttack, modHold, modDecay, modSustain, modRelease)

	t.vibratoLFO.Start(sampleRate, secondsFromTimecents(float64(g(soundfont.GenDelayVibratoLFO).IValue)), hzFromCents(float64(g(soundfont.GenFrequencyVibratoLFO).IValue)))
	t.modulationLFO.Start(sampleRate, secondsFromTimecents(float64(g(soundfont.GenDelayModulationLFO).IValue)), hzFromCents(float64(g(soundfont.GenFrequencyModulationLFO).IValue)))

	overridingRootKey := g(soundfont.GenOverridingRootKey).IValue
	rootKey := int(info.Sample.OriginalPitch)
	if overridingRootKey >= 0 {
		rootKey = int(overridingRootKey)
	}

	loopMode := dsp.LoopNone
	switch soundfont.SampleMode(g(soundfont.GenSampleModes).IValue & 0x3) {
	case soundfont.SampleModeLoopContinuous:
		loopMode = dsp.LoopContinuous
	case soundfont.SampleModeLoopUntilRelease:
		loopMode = dsp.LoopUntilRelease
	}

	coarseTune := int(g(soundfont.GenCoarseTune).IValue)
	fineTune := int(g(soundfont.GenFineTune).IValue) + int(info.Sample.PitchCorrection)
	scaleTuning := int(g(soundfont.GenScaleTuning).UValue)

	t.sampler.Start(
		buffer,
		int(info.Sample.Start), int(info.Sample.End),
		loopMode,
		int(info.Sample.LoopStart), int(info.Sample.LoopEnd),
		float64(info.Sample.SampleRate),
		rootKey, coarseTune, fineTune, scaleTuning,
		sampleRate,
	)

	t.filter.ClearBuffer()
	t.filter.Setup(sampleRate, t.cutoff, t.resonance)
	t.smoothedCutoff = t.cutoff
}

// Start configures the voice to play keyInfo at (channel, key, velocity),
// replacing whatever it was previously doing.
func (v *Voice) Start(keyInfo soundfont.KeyInfo, sampleBuffer []float32, channel int, key, velocity uint8) {
	v.channel = channel
	v.key = key
	v.velocity = velocity
	v.stereo = keyInfo.Stereo

	v.exclusiveClass = 0
	if keyInfo.Left.Sample != nil {
		v.exclusiveClass = int(keyInfo.Left.Generators[soundfont.GenExclusiveClass].IValue)
	}

	configureTrack(&v.left, &keyInfo.Left, sampleBuffer, key, velocity, v.sampleRate)
	if keyInfo.Stereo {
		configureTrack(&v.right, &keyInfo.Right, sampleBuffer, key, velocity, v.sampleRate)
	} else {
		v.right.active = false
	}

	v.state = VoicePlaying
	v.voiceLength = 0
	v.previousMixGain = [2]float64{0, 0}
	v.currentMixGain = [2]float64{0, 0}
	v.previousReverbSend = 0
	v.currentReverbSend = 0
	v.previousChorusSend = 0
	v.currentChorusSend = 0
}

// End requests a graceful release: the voice keeps playing until its
// envelopes decide it's inaudible.
func (v *Voice) End() {
	if v.state == VoicePlaying {
		v.state = VoiceReleaseRequested
	}
}

// Kill forces the voice silent; it retires on its next Process call.
func (v *Voice) Kill() {
	v.left.noteGain = 0
	v.right.noteGain = 0
}

func (v *Voice) isInaudible() bool {
	if v.stereo {
		return v.left.noteGain < noteGainFloor && v.right.noteGain < noteGainFloor
	}
	return v.left.noteGain < noteGainFloor
}

// Process renders one block into the voice's internal track buffers and
// updates its mix/send gains. It returns false once the voice has
// become permanently inaudible and should be retired by the pool.
func (v *Voice) Process(channel *Channel) bool {
	if v.isInaudible() {
		return false
	}

	if v.state == VoiceReleaseRequested && v.voiceLength >= int64(v.sampleRate/500) && !channel.Sustain() {
		v.left.volumeEnv.Release()
		v.left.modulationEnv.Release()
		v.left.sampler.Release()
		if v.stereo {
			v.right.volumeEnv.Release()
			v.right.modulationEnv.Release()
			v.right.sampler.Release()
		}
		v.state = VoiceReleased
	}

	v.previousMixGain = v.currentMixGain
	v.previousReverbSend = v.currentReverbSend
	v.previousChorusSend = v.currentChorusSend

	channelGain := math.Pow(10, channel.VolumeDB()/20) * channel.Expression()

	alive := v.processTrack(&v.left, channel, channelGain)
	if v.stereo {
		alive = v.processTrack(&v.right, channel, channelGain) || alive
	}
	if !alive {
		return false
	}

	if v.stereo {
		v.currentMixGain[0] = v.left.mixGain
		v.currentMixGain[1] = v.right.mixGain
	} else {
		v.currentMixGain[0] = v.left.mixGain
		v.currentMixGain[1] = v.left.mixGain
	}

	v.applyPan(channel)
	v.applySends(channel)

	if v.voiceLength == 0 {
		v.previousMixGain = v.currentMixGain
		v.previousReverbSend = v.currentReverbSend
		v.previousChorusSend = v.currentChorusSend
	}

	v.voiceLength += int64(v.blockSize)
	return true
}

// processTrack advances one track's envelopes/LFOs/sampler/filter by one
// block. It returns false once the track has run out of sample data or
// its volume envelope has finished, zeroing the track's contribution to
// the mix so a dead track never carries a stale gain forward. The voice
// as a whole only dies once every track it drives has returned false.
func (v *Voice) processTrack(t *track, channel *Channel, channelGain float64) bool {
	if !t.volumeEnv.Process(v.blockSize) {
		t.mixGain = 0
		for i := range t.output {
			t.output[i] = 0
		}
		return false
	}
	t.modulationEnv.Process(v.blockSize)
	t.vibratoLFO.Process(v.blockSize)
	t.modulationLFO.Process(v.blockSize)

	pitch := float64(v.key) +
		(0.01*channel.Modulation()+t.vibLfoToPitch)*t.vibratoLFO.Value() +
		t.modLfoToPitch*t.modulationLFO.Value() +
		t.modEnvToPitch*t.modulationEnv.Value() +
		channel.Tune() + channel.PitchBend()

	if !t.sampler.Process(t.output, v.blockSize, pitch) {
		t.mixGain = 0
		for i := range t.output {
			t.output[i] = 0
		}
		return false
	}

	if t.dynamicCutoff {
		cents := t.modLfoToCutoff*t.modulationLFO.Value() + t.modEnvToCutoff*t.modulationEnv.Value()
		newCutoff := math.Pow(2, cents/1200) * t.cutoff
		newCutoff = clamp(newCutoff, 0.5*t.smoothedCutoff, 2*t.smoothedCutoff)
		t.smoothedCutoff = newCutoff
		t.filter.Setup(v.sampleRate, t.smoothedCutoff, t.resonance)
	}

	t.filter.Process(t.output)

	mixGain := t.noteGain * channelGain * t.volumeEnv.Value()
	if t.dynamicVolume {
		mixGain *= math.Pow(10, 0.05*t.modLfoToVolume*t.modulationLFO.Value())
	}

	t.mixGain = mixGain
	return true
}

// panFactor computes the constant-power weighting factor the SoundFont
// pan law applies at a pan position strictly inside (-50, 50). Callers
// must range-check p themselves; the law is never evaluated at or
// beyond the hard pan limits.
func panFactor(p float64) float64 {
	angle := (math.Pi / 2) * p / 50
	return 1 + (math.Sqrt2-1)*math.Cos(angle)
}

// applyPan scales currentMixGain in place by the constant-power pan
// law, but only where the resolved pan position falls strictly between
// -50 and 50. At or beyond those limits currentMixGain is left as the
// fresh, unpanned mix gain Process already stored there, since the law
// was never meant to run there.
func (v *Voice) applyPan(channel *Channel) {
	if v.stereo {
		pLeft := channel.Pan() + v.left.instrumentPan
		if pLeft > -50 && pLeft < 50 {
			v.currentMixGain[0] *= (50 - pLeft) / 100 * panFactor(pLeft)
		}

		pRight := channel.Pan() + v.right.instrumentPan
		if pRight > -50 && pRight < 50 {
			v.currentMixGain[1] *= (50 - pRight) / 100 * panFactor(pRight)
		}
		return
	}

	p := channel.Pan() + v.left.instrumentPan
	if p > -50 && p < 50 {
		factor := panFactor(p)
		v.currentMixGain[0] *= (50 - p) / 100 * factor
		v.currentMixGain[1] *= (50 + p) / 100 * factor
	}
}

func (v *Voice) applySends(channel *Channel) {
	var avgReverb, avgChorus float64
	if v.stereo {
		avgReverb = (v.left.instrumentReverb + v.right.instrumentReverb) / 2
		avgChorus = (v.left.instrumentChorus + v.right.instrumentChorus) / 2
	} else {
		avgReverb = v.left.instrumentReverb
		avgChorus = v.left.instrumentChorus
	}
	v.currentReverbSend = clamp(channel.ReverbSend()+avgReverb, 0, 1)
	v.currentChorusSend = clamp(channel.ChorusSend()+avgChorus, 0, 1)
}

// Stereo reports whether this voice is driving both tracks.
func (v *Voice) Stereo() bool { return v.stereo }

// LeftOutput and RightOutput expose the block just rendered by Process,
// for the synthesizer's mix stage. RightOutput is only meaningful when
// Stereo() is true; for a mono voice the mix stage reads LeftOutput
// against both accumulator channels, weighted by CurrentMixGain.
func (v *Voice) LeftOutput() []float32  { return v.left.output }
func (v *Voice) RightOutput() []float32 { return v.right.output }

// PreviousMixGain and CurrentMixGain return the per-channel gain to ramp
// between across the block just rendered, indexed [left, right].
func (v *Voice) PreviousMixGain() [2]float64 { return v.previousMixGain }
func (v *Voice) CurrentMixGain() [2]float64  { return v.currentMixGain }

// PreviousReverbSend/CurrentReverbSend and PreviousChorusSend/
// CurrentChorusSend return the send levels to ramp across the block.
func (v *Voice) PreviousReverbSend() float64 { return v.previousReverbSend }
func (v *Voice) CurrentReverbSend() float64  { return v.currentReverbSend }
func (v *Voice) PreviousChorusSend() float64 { return v.previousChorusSend }
func (v *Voice) CurrentChorusSend() float64  { return v.currentChorusSend }

// Priority returns the eviction-priority score the pool uses to rank
// voices: the higher of the two tracks' volume-envelope priority for a
// stereo voice, or the single track's for mono. An inaudible voice
// always reads 0, making it the very first evicted.
func (v *Voice) Priority() float64 {
	if v.isInaudible() {
		return 0
	}
	if v.stereo {
		return math.Max(v.left.volumeEnv.Priority(), v.right.volumeEnv.Priority())
	}
	return v.left.volumeEnv.Priority()
}
