package synth

import "testing"

func TestChannelResetDefaults(t *testing.T) {
	c := NewChannel(false)

	if c.Bank() != 0 {
		t.Errorf("expected bank 0 for a melodic channel, got %d", c.Bank())
	}
	// Default volume is 100*128, which reads 40*log10(12800/16383).
	if v := c.VolumeDB(); v > -4.277 || v < -4.297 {
		t.Errorf("expected default volume to read about -4.287dB, got %f", v)
	}
	// Default expression is 127*128, which reads 16256/16383.
	if e := c.Expression(); e < 0.9922 || e > 0.9923 {
		t.Errorf("expected default expression near 0.99225, got %f", e)
	}
	if c.PitchBendRangeSemitones() != 2 {
		t.Errorf("expected default pitch bend range of 2 semitones, got %f", c.PitchBendRangeSemitones())
	}
}

func TestChannelPercussionBankOffset(t *testing.T) {
	c := NewChannel(true)

	if c.Bank() != 128 {
		t.Errorf("expected percussion channel's default bank to be 128, got %d", c.Bank())
	}

	c.SetBank(3)
	if c.Bank() != 131 {
		t.Errorf("expected percussion bank sets to offset by 128, got %d", c.Bank())
	}
}

func TestChannelCoarseFine14Bit(t *testing.T) {
	c := NewChannel(false)

	c.SetVolumeCoarse(100)
	c.SetVolumeFine(64)

	if c.volume14 != 100*128+64 {
		t.Errorf("expected combined 14-bit volume %d, got %d", 100*128+64, c.volume14)
	}
}

func TestChannelPitchBendNormalized(t *testing.T) {
	c := NewChannel(false)

	c.SetPitchBend(0, 127) // MSB=127 -> raw14 = 127<<7 = 16256, near max
	pb := c.PitchBendNormalized()
	if pb < 0.9 || pb > 1.0 {
		t.Errorf("expected near +1 pitch bend, got %f", pb)
	}

	c.SetPitchBend(0, 0)
	pb = c.PitchBendNormalized()
	if pb > -0.9 {
		t.Errorf("expected near -1 pitch bend, got %f", pb)
	}
}

func TestChannelRPNPitchBendRange(t *testing.T) {
	c := NewChannel(false)

	c.SetRPNCoarse(0)
	c.SetRPNFine(0)
	c.DataEntryCoarse(12)
	c.DataEntryFine(50)

	got := c.PitchBendRangeSemitones()
	want := 12.5
	if got != want {
		t.Errorf("expected pitch bend range %f, got %f", want, got)
	}
}

func TestChannelRPNCoarseTuneSignedByte(t *testing.T) {
	c := NewChannel(false)

	c.SetRPNCoarse(0)
	c.SetRPNFine(2)
	c.DataEntryCoarse(70) // 70 - 64 = +6 semitones

	if c.Tune() != 6 {
		t.Errorf("expected tune of +6 semitones, got %f", c.Tune())
	}
}

func TestChannelResetControllersPreservesBankAndVolume(t *testing.T) {
	c := NewChannel(false)
	c.SetBank(5)
	c.SetVolumeCoarse(80)
	c.SetModulationCoarse(100)

	c.ResetControllers()

	if c.Bank() != 5 {
		t.Errorf("expected ResetControllers to preserve bank, got %d", c.Bank())
	}
	if c.Modulation() != 0 {
		t.Errorf("expected ResetControllers to clear modulation, got %f", c.Modulation())
	}
}
