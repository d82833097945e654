package dsp

import "math"

// EnvelopeStage identifies which of the six stages an envelope is in.
type EnvelopeStage int

const (
	StageDelay EnvelopeStage = iota
	StageAttack
	StageHold
	StageDecay
	StageRelease
)

// decibelFloor is the exponential decay/release slope constant used by
// the SoundFont amplitude envelope. It is close to, but not exactly,
// ln(0.0001) (about -9.2103).
const decibelFloor = -9.226

// nonAudibleThreshold is the linear gain below which a voice is
// considered inaudible and may be retired.
const nonAudibleThreshold = 0.001

// logNonAudible is ln(nonAudibleThreshold), the exponent below which
// expCutoff floors to zero instead of evaluating math.Exp.
const logNonAudible = -6.907755

// expCutoff floors math.Exp to 0 for any exponent below logNonAudible,
// since the true result is already below nonAudibleThreshold there.
func expCutoff(x float64) float64 {
	if x < logNonAudible {
		return 0
	}
	return math.Exp(x)
}

// VolumeEnvelope is the six-stage (Delay-Attack-Hold-Decay-Sustain-
// Release) amplitude envelope. Decay and release are exponential; it also
// produces a priority scalar the voice pool uses to rank voices for
// eviction.
type VolumeEnvelope struct {
	sampleRate float64

	delay   float64
	attack  float64
	hold    float64
	decay   float64
	sustain float64
	release float64

	decaySlope   float64
	releaseSlope float64

	attackStartTime float64
	holdStartTime   float64
	decayStartTime  float64

	stage              EnvelopeStage
	nbProcessedSamples int64

	value    float64
	priority float64

	releaseStartTime float64
	releaseLevel     float64
}

// Start configures a fresh envelope. All durations are in seconds, sustain
// is a linear level in [0, 1].
func (e *VolumeEnvelope) Start(sampleRate, delay, attack, hold, decay, sustain, release float64) {
	e.sampleRate = sampleRate
	e.delay = delay
	e.attack = attack
	e.hold = hold
	e.decay = decay
	e.sustain = sustain
	e.release = release

	e.decaySlope = decibelFloor / decay
	e.releaseSlope = decibelFloor / release

	e.attackStartTime = delay
	e.holdStartTime = e.attackStartTime + attack
	e.decayStartTime = e.holdStartTime + hold

	e.stage = StageDelay
	e.nbProcessedSamples = 0
	e.value = 0
	e.priority = 3.0
}

// Process advances the envelope by nSamples (one synthesis block) and
// returns whether the voice is still audible.
func (e *VolumeEnvelope) Process(nSamples int) bool {
	e.nbProcessedSamples += int64(nSamples)
	t := float64(e.nbProcessedSamples) / e.sampleRate

	for (e.stage == StageDelay || e.stage == StageAttack || e.stage == StageHold) && e.stageEndTime(t) {
		e.stage++
	}

	switch e.stage {
	case StageDelay:
		e.value = 0
		e.priority = 3.0

	case StageAttack:
		v := (t - e.attackStartTime) / e.attack
		e.value = v
		e.priority = 3.0 - v

	case StageHold:
		e.value = 1
		e.priority = 2.0

	case StageDecay:
		v := expCutoff(e.decaySlope * (t - e.decayStartTime))
		if v < e.sustain {
			v = e.sustain
		}
		e.value = v
		e.priority = 1.0 + v

	case StageRelease:
		v := e.releaseLevel * expCutoff(e.releaseSlope*(t-e.releaseStartTime))
		e.value = v
		e.priority = v
	}

	if e.stage == StageDecay || e.stage == StageRelease {
		return e.value > nonAudibleThreshold
	}
	return true
}

// stageEndTime reports whether the current stage has ended by time t,
// given the current stage (Delay, Attack, or Hold only).
func (e *VolumeEnvelope) stageEndTime(t float64) bool {
	switch e.stage {
	case StageDelay:
		return t >= e.attackStartTime
	case StageAttack:
		return t >= e.holdStartTime
	case StageHold:
		return t >= e.decayStartTime
	}
	return false
}

// Release switches the envelope into its release stage, capturing the
// current value as the release start level.
func (e *VolumeEnvelope) Release() {
	e.stage = StageRelease
	e.releaseStartTime = float64(e.nbProcessedSamples) / e.sampleRate
	e.releaseLevel = e.value
}

// Value returns the last computed gain in [0, 1].
func (e *VolumeEnvelope) Value() float64 { return e.value }

// Priority returns the last computed eviction-priority scalar.
func (e *VolumeEnvelope) Priority() float64 { return e.priority }

// Stage returns the envelope's current stage.
func (e *VolumeEnvelope) Stage() EnvelopeStage { return e.stage }
