package dsp

import (
	"math"
	"testing"
)

func TestVolumeEnvelopeStagesAdvance(t *testing.T) {
	var e VolumeEnvelope
	// delay 1ms, attack 1ms, hold 1ms, decay 10ms, sustain 0.5, release 10ms
	e.Start(1000, 0.001, 0.001, 0.001, 0.010, 0.5, 0.010)

	if e.Stage() != StageDelay {
		t.Fatalf("expected initial stage Delay, got %v", e.Stage())
	}

	// one sample at 1000Hz is 1ms: advances past delay into attack.
	e.Process(1)
	if e.Stage() != StageAttack {
		t.Errorf("expected Attack after delay elapses, got %v", e.Stage())
	}

	e.Process(1)
	if e.Stage() != StageHold {
		t.Errorf("expected Hold after attack elapses, got %v", e.Stage())
	}

	e.Process(1)
	if e.Stage() != StageDecay {
		t.Errorf("expected Decay after hold elapses, got %v", e.Stage())
	}

	if v := e.Value(); v < 0.99 || v > 1.0 {
		t.Errorf("expected decay to start near 1.0, got %f", v)
	}
}

func TestVolumeEnvelopeDecayApproachesSustain(t *testing.T) {
	var e VolumeEnvelope
	e.Start(1000, 0, 0, 0, 0.010, 0.3, 0.010)

	var v float64
	for i := 0; i < 100; i++ {
		e.Process(1)
		v = e.Value()
	}

	if math.Abs(v-0.3) > 1e-6 {
		t.Errorf("expected value to settle at sustain level 0.3, got %f", v)
	}
}

func TestVolumeEnvelopeReleaseDecaysToSilence(t *testing.T) {
	var e VolumeEnvelope
	e.Start(1000, 0, 0, 0, 0.001, 1.0, 0.020)

	e.Process(1)
	e.Release()

	if e.Stage() != StageRelease {
		t.Fatalf("expected Release stage after Release(), got %v", e.Stage())
	}

	audible := true
	for i := 0; i < 100 && audible; i++ {
		audible = e.Process(1)
	}

	if audible {
		t.Errorf("expected envelope to report inaudible well within 100ms of a 20ms release")
	}
}

func TestVolumeEnvelopePriorityOrdering(t *testing.T) {
	var delay, decay VolumeEnvelope
	delay.Start(1000, 1.0, 0.01, 0.01, 0.01, 0.5, 0.01)
	decay.Start(1000, 0, 0, 0, 0.01, 0.5, 0.01)

	delay.Process(1)
	decay.Process(1)
	decay.Process(1)

	if delay.Priority() <= decay.Priority() {
		t.Errorf("expected a voice still in Delay to have a higher priority score than one in Decay (delay=%f, decay=%f)", delay.Priority(), decay.Priority())
	}
}
