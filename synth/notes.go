package synth

import "github.com/Kanma/knm-synthesizer/soundfont"

// NoteOn starts a note on a channel, querying the loaded SoundFont for
// (channel.bank, channel.preset, key, velocity) and falling back first
// to the channel's bank-class default and then to the SoundFont's
// overall default preset. velocity == 0 is treated as NoteOff, per the
// MIDI convention.
func (s *Synthesizer) NoteOn(channel int, key, velocity uint8) {
	if !s.validChannel(channel) {
		return
	}
	if velocity == 0 {
		s.NoteOff(channel, key)
		return
	}
	if s.sf == nil {
		return
	}

	c := s.channels[channel]

	keyInfo, ok := s.sf.GetKeyInfo(c.Bank(), c.Preset(), key, velocity)
	if !ok {
		var fallbackBank uint16 = 0
		if c.Bank() >= 128 {
			fallbackBank = 128
		}
		fallbackPreset := c.Preset()
		if fallbackBank == 128 {
			fallbackPreset = 0
		}
		keyInfo, ok = s.sf.GetKeyInfo(fallbackBank, fallbackPreset, key, velocity)
	}
	if !ok && s.hasDefaultPreset {
		keyInfo, ok = s.sf.GetKeyInfo(s.defaultPreset.Bank, s.defaultPreset.Number, key, velocity)
	}
	if !ok {
		return
	}

	v := s.pool.Request(channel, int(keyInfo.Left.Generator(soundfont.GenExclusiveClass).IValue))
	v.Start(keyInfo, s.sf.Buffer(), channel, key, velocity)
}

// NoteOff requests release of every active voice on channel currently
// holding key.
func (s *Synthesizer) NoteOff(channel int, key uint8) {
	if !s.validChannel(channel) {
		return
	}
	for _, v := range s.pool.Active() {
		if v.Channel() == channel && v.Key() == key {
			v.End()
		}
	}
}

// AllNotesOff stops every voice on every channel. immediate cuts all
// voices silent on the next render(); a graceful stop instead requests
// release of every active voice so envelopes still ring out.
func (s *Synthesizer) AllNotesOff(immediate bool) {
	if immediate {
		s.pool.Clear()
		return
	}
	for _, v := range s.pool.Active() {
		v.End()
	}
}

// AllNotesOffChannel stops every voice on a single channel.
func (s *Synthesizer) AllNotesOffChannel(channel int, immediate bool) {
	if !s.validChannel(channel) {
		return
	}
	for _, v := range s.pool.Active() {
		if v.Channel() != channel {
			continue
		}
		if immediate {
			v.Kill()
		} else {
			v.End()
		}
	}
}

// ResetAllControllers resets every channel's controller state.
func (s *Synthesizer) ResetAllControllers() {
	for _, c := range s.channels {
		c.ResetControllers()
	}
}

// ResetControllers resets a single channel's controller state. An
// out-of-range channel is silently ignored.
func (s *Synthesizer) ResetControllers(channel int) {
	if !s.validChannel(channel) {
		return
	}
	s.channels[channel].ResetControllers()
}

// ConfigureChannel sets a channel's bank and preset directly, without
// going through a MIDI bank-select/program-change pair. It reports
// false, leaving the channel untouched, when channel is out of range
// or the SoundFont has no preset at (bank, preset).
func (s *Synthesizer) ConfigureChannel(channel int, bank, preset uint16) bool {
	if !s.validChannel(channel) {
		return false
	}
	c := s.channels[channel]

	resolvedBank := bank
	if c.isPercussion {
		resolvedBank += 128
	}
	if s.sf == nil || !s.sf.HasPreset(resolvedBank, preset) {
		return false
	}

	c.SetBank(bank)
	c.SetPreset(uint8(preset))
	return true
}
