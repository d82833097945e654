package dsp

import "testing"

func TestModulationEnvelopeLinearAttack(t *testing.T) {
	var e ModulationEnvelope
	e.Start(1000, 0, 0.010, 0, 0.010, 0.2, 0.010)

	e.Process(5) // 5ms into a 10ms attack
	if e.Stage() != StageAttack {
		t.Fatalf("expected Attack stage, got %v", e.Stage())
	}

	v := e.Value()
	if v < 0.45 || v > 0.55 {
		t.Errorf("expected roughly half-way through attack to read ~0.5, got %f", v)
	}
}

func TestModulationEnvelopeLinearDecayToSustain(t *testing.T) {
	var e ModulationEnvelope
	e.Start(1000, 0, 0, 0, 0.010, 0.25, 0.010)

	var v float64
	for i := 0; i < 50; i++ {
		e.Process(1)
		v = e.Value()
	}

	if v != 0.25 {
		t.Errorf("expected value to settle at sustain level 0.25, got %f", v)
	}
}

func TestModulationEnvelopeReleaseReachesZero(t *testing.T) {
	var e ModulationEnvelope
	e.Start(1000, 0, 0, 0, 0.001, 1.0, 0.010)

	e.Process(1)
	e.Release()

	audible := true
	for i := 0; i < 50 && audible; i++ {
		audible = e.Process(1)
	}

	if audible {
		t.Errorf("expected release to finish well within 50ms of a 10ms release")
	}

	if v := e.Value(); v < 0 {
		t.Errorf("released value should clamp at 0, got %f", v)
	}
}
