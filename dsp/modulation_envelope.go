package dsp

// ModulationEnvelope is the six-stage envelope used to modulate pitch,
// filter cutoff and volume. It has the same stage shape as VolumeEnvelope
// but decay and release ramp linearly instead of exponentially, and it
// carries no priority (only VolumeEnvelope feeds the voice pool's eviction
// ranking).
type ModulationEnvelope struct {
	sampleRate float64

	delay   float64
	attack  float64
	hold    float64
	decay   float64
	sustain float64
	release float64

	attackStartTime float64
	holdStartTime   float64
	decayStartTime  float64
	decayEndTime    float64

	stage              EnvelopeStage
	nbProcessedSamples int64

	value float64

	releaseEnd   float64
	releaseLevel float64
}

// Start configures a fresh envelope. Durations are in seconds, sustain is
// a linear level in [0, 1].
func (e *ModulationEnvelope) Start(sampleRate, delay, attack, hold, decay, sustain, release float64) {
	e.sampleRate = sampleRate
	e.delay = delay
	e.attack = attack
	e.hold = hold
	e.decay = decay
	e.sustain = sustain
	e.release = release

	e.attackStartTime = delay
	e.holdStartTime = e.attackStartTime + attack
	e.decayStartTime = e.holdStartTime + hold
	e.decayEndTime = e.decayStartTime + decay

	e.stage = StageDelay
	e.nbProcessedSamples = 0
	e.value = 0
}

// Process advances the envelope by nSamples and returns whether it is
// still producing an audible amount of modulation.
func (e *ModulationEnvelope) Process(nSamples int) bool {
	e.nbProcessedSamples += int64(nSamples)
	t := float64(e.nbProcessedSamples) / e.sampleRate

	for e.stage == StageDelay || e.stage == StageAttack || e.stage == StageHold {
		if !e.stageEndTime(t) {
			break
		}
		e.stage++
	}

	switch e.stage {
	case StageDelay:
		e.value = 0

	case StageAttack:
		e.value = (t - e.attackStartTime) / e.attack

	case StageHold:
		e.value = 1

	case StageDecay:
		v := (e.decayEndTime - t) / e.decay
		if v < e.sustain {
			v = e.sustain
		}
		e.value = v

	case StageRelease:
		v := e.releaseLevel * (e.releaseEnd - t) / e.release
		if v < 0 {
			v = 0
		}
		e.value = v
	}

	if e.stage == StageDecay || e.stage == StageRelease {
		return e.value > nonAudibleThreshold
	}
	return true
}

func (e *ModulationEnvelope) stageEndTime(t float64) bool {
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
// current value and scheduling the release end time.
func (e *ModulationEnvelope) Release() {
	e.stage = StageRelease
	now := float64(e.nbProcessedSamples) / e.sampleRate
	e.releaseEnd = now + e.release
	e.releaseLevel = e.value
}

// Value returns the last computed modulation scalar in [0, 1].
func (e *ModulationEnvelope) Value() float64 { return e.value }

// Stage returns the envelope's current stage.
func (e *ModulationEnvelope) Stage() EnvelopeStage { return e.stage }
