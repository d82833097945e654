// Package synth implements the polyphonic voice allocator, per-MIDI-
// channel controller state, and the top-level synthesizer that ties
// them to a soundfont.SoundFont bank.
package synth

import "math"

// rpnSelector identifies which registered parameter a following
// data-entry message targets.
type rpnSelector int

const (
	rpnNone rpnSelector = iota
	rpnPitchBendRange
	rpnFineTune
	rpnCoarseTune
)

// Channel holds one MIDI channel's controller state: everything the
// synthesizer consults to shape a voice beyond the generators baked
// into the soundfont bank itself.
type Channel struct {
	isPercussion bool

	bank   uint16
	preset uint16

	modulation14  uint16
	volume14      uint16
	pan14         uint16
	expression14  uint16
	sustain       bool
	reverbSend7   uint8
	chorusSend7   uint8

	rpnSelectorCoarse uint8
	rpnSelectorFine   uint8
	rpn               rpnSelector

	pitchBendRange14 uint16
	coarseTune       int
	fineTune         uint16

	pitchBend14 uint16
}

// NewChannel constructs a channel in its reset state. isPercussion
// should be true only for MIDI channel 9 (0-indexed), whose bank is
// offset by 128.
func NewChannel(isPercussion bool) *Channel {
	c := &Channel{isPercussion: isPercussion}
	c.Reset()
	return c
}

// Reset restores every field to its power-on default.
func (c *Channel) Reset() {
	if c.isPercussion {
		c.bank = 128
	} else {
		c.bank = 0
	}
	c.preset = 0
	c.modulation14 = 0
	c.volume14 = 100 * 128
	c.pan14 = 64 * 128
	c.expression14 = 127 * 128
	c.sustain = false
	c.reverbSend7 = 40
	c.chorusSend7 = 0
	c.rpn = rpnNone
	c.pitchBendRange14 = 2 * 128
	c.coarseTune = 0
	c.fineTune = 8192
	c.pitchBend14 = 8192
}

// ResetControllers restores only modulation, expression, sustain, RPN
// selection, and pitch bend, leaving bank/preset/volume/pan untouched.
func (c *Channel) ResetControllers() {
	c.modulation14 = 0
	c.expression14 = 127 * 128
	c.sustain = false
	c.rpn = rpnNone
	c.pitchBend14 = 8192
}

// SetBank sets the channel's bank, offsetting percussion channels by
// +128 as every bank write must.
func (c *Channel) SetBank(bank uint16) {
	if c.isPercussion {
		c.bank = bank + 128
	} else {
		c.bank = bank
	}
}

func (c *Channel) Bank() uint16   { return c.bank }
func (c *Channel) Preset() uint16 { return c.preset }

// SetPreset implements the MIDI program-change message.
func (c *Channel) SetPreset(preset uint8) { c.preset = uint16(preset) }

func setCoarse14(field uint16, value uint8) uint16 {
	return uint16(value)<<7 | (field & 0x7F)
}

func setFine14(field uint16, value uint8) uint16 {
	return (field &^ 0x7F) | uint16(value)
}

func (c *Channel) SetModulationCoarse(v uint8) { c.modulation14 = setCoarse14(c.modulation14, v) }
func (c *Channel) SetModulationFine(v uint8)   { c.modulation14 = setFine14(c.modulation14, v) }
func (c *Channel) SetVolumeCoarse(v uint8)     { c.volume14 = setCoarse14(c.volume14, v) }
func (c *Channel) SetVolumeFine(v uint8)       { c.volume14 = setFine14(c.volume14, v) }
func (c *Channel) SetPanCoarse(v uint8)        { c.pan14 = setCoarse14(c.pan14, v) }
func (c *Channel) SetPanFine(v uint8)          { c.pan14 = setFine14(c.pan14, v) }
func (c *Channel) SetExpressionCoarse(v uint8) { c.expression14 = setCoarse14(c.expression14, v) }
func (c *Channel) SetExpressionFine(v uint8)   { c.expression14 = setFine14(c.expression14, v) }

func (c *Channel) SetSustain(on bool)       { c.sustain = on }
func (c *Channel) Sustain() bool            { return c.sustain }
func (c *Channel) SetReverbSend7(v uint8)   { c.reverbSend7 = v }
func (c *Channel) SetChorusSend7(v uint8)   { c.chorusSend7 = v }

// SetPitchBend sets the combined 14-bit pitch bend value from its MIDI
// coarse/fine byte pair (data2 = MSB, data1 = LSB).
func (c *Channel) SetPitchBend(lsb, msb uint8) {
	c.pitchBend14 = uint16(msb)<<7 | uint16(lsb)
}

// SetRPNCoarse and SetRPNFine select which registered parameter the
// next data-entry messages target.
func (c *Channel) SetRPNCoarse(v uint8) {
	c.rpnSelectorCoarse = v
	c.updateRPNSelector()
}

func (c *Channel) SetRPNFine(v uint8) {
	c.rpnSelectorFine = v
	c.updateRPNSelector()
}

func (c *Channel) updateRPNSelector() {
	switch {
	case c.rpnSelectorCoarse == 0 && c.rpnSelectorFine == 0:
		c.rpn = rpnPitchBendRange
	case c.rpnSelectorCoarse == 0 && c.rpnSelectorFine == 1:
		c.rpn = rpnFineTune
	case c.rpnSelectorCoarse == 0 && c.rpnSelectorFine == 2:
		c.rpn = rpnCoarseTune
	default:
		c.rpn = rpnNone
	}
}

// DataEntryCoarse and DataEntryFine write through to whichever RPN the
// last SetRPNCoarse/SetRPNFine pair selected.
func (c *Channel) DataEntryCoarse(v uint8) {
	switch c.rpn {
	case rpnPitchBendRange:
		c.pitchBendRange14 = setCoarse14(c.pitchBendRange14, v)
	case rpnFineTune:
		c.fineTune = setCoarse14(c.fineTune, v)
	case rpnCoarseTune:
		c.coarseTune = int(v) - 64
	}
}

func (c *Channel) DataEntryFine(v uint8) {
	switch c.rpn {
	case rpnPitchBendRange:
		c.pitchBendRange14 = setFine14(c.pitchBendRange14, v)
	case rpnFineTune:
		c.fineTune = setFine14(c.fineTune, v)
	}
}

// Modulation returns the channel's modulation wheel depth in semitone
// cents-equivalent units (0..50).
func (c *Channel) Modulation() float64 { return (50.0 / 16383.0) * float64(c.modulation14) }

// VolumeDB returns the channel's volume expressed in decibels.
func (c *Channel) VolumeDB() float64 {
	return 40 * math.Log10(float64(c.volume14)/16383.0)
}

// Pan returns the channel's pan in [-50, +50].
func (c *Channel) Pan() float64 { return (100.0/16383.0)*float64(c.pan14) - 50 }

// Expression returns the channel's expression controller in [0, 1].
func (c *Channel) Expression() float64 { return float64(c.expression14) / 16383.0 }

// ReverbSend and ChorusSend return the channel's send levels in [0, 1].
func (c *Channel) ReverbSend() float64 { return float64(c.reverbSend7) / 127.0 }
func (c *Channel) ChorusSend() float64 { return float64(c.chorusSend7) / 127.0 }

// PitchBendNormalized returns the normalized pitch bend in [-1, +1].
func (c *Channel) PitchBendNormalized() float64 {
	return (float64(c.pitchBend14) - 8192) / 8192
}

// PitchBendRangeSemitones returns the RPN0-configured bend range.
func (c *Channel) PitchBendRangeSemitones() float64 {
	return float64(c.pitchBendRange14>>7) + 0.01*float64(c.pitchBendRange14&0x7F)
}

// Tune returns the channel's net coarse+fine tune in semitones.
func (c *Channel) Tune() float64 {
	return float64(c.coarseTune) + (float64(c.fineTune)-8192)/8192
}

// PitchBend returns the effective pitch bend in semitones, i.e. the
// normalized bend scaled by the configured bend range.
func (c *Channel) PitchBend() float64 {
	return c.PitchBendNormalized() * c.PitchBendRangeSemitones()
}
