package dsp

import "testing"

func TestBiquadFilterPassthroughAboveNyquistLimit(t *testing.T) {
	var f BiquadFilter
	f.Setup(44100, 0.5*44100, 0.7)

	block := []float32{1, 2, 3, 4}
	orig := append([]float32(nil), block...)
	f.Process(block)

	for i := range block {
		if block[i] != orig[i] {
			t.Errorf("expected passthrough at sample %d to leave %f unchanged, got %f", i, orig[i], block[i])
		}
	}
}

func TestBiquadFilterPassthroughUpdatesHistory(t *testing.T) {
	var f BiquadFilter
	f.Setup(44100, 0.5*44100, 0.7)

	block := []float32{1, 2, 3, 4}
	f.Process(block)

	if f.x1 != 4 || f.x2 != 3 {
		t.Errorf("expected passthrough to record the last two input samples as history, got x1=%f x2=%f", f.x1, f.x2)
	}
	if f.y1 != f.x1 || f.y2 != f.x2 {
		t.Errorf("expected passthrough to mirror x history into y history, got y1=%f y2=%f", f.y1, f.y2)
	}
}

func TestBiquadFilterLowPassAttenuatesHighFrequency(t *testing.T) {
	var f BiquadFilter
	f.Setup(44100, 500, 0.7)

	n := 1024
	block := make([]float32, n)
	for i := range block {
		if i%2 == 0 {
			block[i] = 1
		} else {
			block[i] = -1
		}
	}

	f.Process(block)

	var sum float64
	for _, s := range block[n-256:] {
		sum += float64(s) * float64(s)
	}
	energy := sum / 256

	if energy > 0.5 {
		t.Errorf("expected a 500Hz low-pass to strongly attenuate a Nyquist-rate square wave, residual energy %f", energy)
	}
}

func TestBiquadFilterClearBuffer(t *testing.T) {
	var f BiquadFilter
	f.Setup(44100, 500, 0.7)

	block := []float32{1, 1, 1, 1}
	f.Process(block)
	f.ClearBuffer()

	if f.x1 != 0 || f.x2 != 0 || f.y1 != 0 || f.y2 != 0 {
		t.Errorf("expected ClearBuffer to zero all filter history")
	}
}
