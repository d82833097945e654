package synth

// Controller numbers this engine recognizes on a 0xB0 Controller
// message, beyond the coarse/fine controller pairs handled directly by
// ProcessMIDIMessage's switch.
const (
	ccBankSelectCoarse    = 0x00
	ccModulationCoarse    = 0x01
	ccModulationFine      = 0x21
	ccVolumeCoarse        = 0x07
	ccVolumeFine          = 0x27
	ccPanCoarse           = 0x0A
	ccPanFine             = 0x2A
	ccExpressionCoarse    = 0x0B
	ccExpressionFine      = 0x2B
	ccBankSelectFine      = 0x20
	ccSustain             = 0x40
	ccRPNFine             = 0x64
	ccRPNCoarse           = 0x65
	ccDataEntryCoarse     = 0x06
	ccDataEntryFine       = 0x26
	ccReverbSend          = 0x5B
	ccChorusSend          = 0x5D
	ccAllSoundOff         = 0x78
	ccResetAllControllers = 0x79
	ccAllNotesOff         = 0x7B
)

// ProcessMIDIMessage dispatches a 3-byte MIDI channel message by its
// command byte's upper nibble, the MIDI 1.0 channel voice message
// layout. It reports false, doing nothing, when channel is out of
// range.
func (s *Synthesizer) ProcessMIDIMessage(channel int, command, data1, data2 uint8) bool {
	if !s.validChannel(channel) {
		return false
	}
	c := s.channels[channel]

	switch command & 0xF0 {
	case 0x80:
		s.NoteOff(channel, data1)

	case 0x90:
		if data2 == 0 {
			s.NoteOff(channel, data1)
		} else {
			s.NoteOn(channel, data1, data2)
		}

	case 0xB0:
		switch data1 {
		case ccBankSelectCoarse:
			c.SetBank(uint16(data2))
		case ccBankSelectFine:
			// Bank is a plain field, not a 14-bit pair; GM banks are
			// selected by the coarse byte alone.
		case ccModulationCoarse:
			c.SetModulationCoarse(data2)
		case ccModulationFine:
			c.SetModulationFine(data2)
		case ccVolumeCoarse:
			c.SetVolumeCoarse(data2)
		case ccVolumeFine:
			c.SetVolumeFine(data2)
		case ccPanCoarse:
			c.SetPanCoarse(data2)
		case ccPanFine:
			c.SetPanFine(data2)
		case ccExpressionCoarse:
			c.SetExpressionCoarse(data2)
		case ccExpressionFine:
			c.SetExpressionFine(data2)
		case ccSustain:
			c.SetSustain(data2 >= 64)
		case ccReverbSend:
			c.SetReverbSend7(data2)
		case ccChorusSend:
			c.SetChorusSend7(data2)
		case ccRPNCoarse:
			c.SetRPNCoarse(data2)
		case ccRPNFine:
			c.SetRPNFine(data2)
		case ccDataEntryCoarse:
			c.DataEntryCoarse(data2)
		case ccDataEntryFine:
			c.DataEntryFine(data2)
		case ccAllSoundOff:
			s.AllNotesOffChannel(channel, true)
		case ccResetAllControllers:
			s.ResetControllers(channel)
		case ccAllNotesOff:
			s.AllNotesOffChannel(channel, false)
		}

	case 0xC0:
		c.SetPreset(data1)

	case 0xE0:
		c.SetPitchBend(data1, data2)
	}

	return true
}
