package synth

// VoicePool owns a fixed-capacity slice of voices and manages their
// allocation, exclusive-class stealing, and per-block lifecycle.
//
// Active voices always occupy the prefix [0:nbActive) of the slice;
// process() partitions dead voices to the end in place so the prefix
// never needs to be rebuilt.
type VoicePool struct {
	voices   []*Voice
	nbActive int
}

// NewVoicePool preallocates capacity voices, each sized for
// sampleRate/blockSize.
func NewVoicePool(capacity int, sampleRate float64, blockSize int) *VoicePool {
	p := &VoicePool{voices: make([]*Voice, capacity)}
	for i := range p.voices {
		p.voices[i] = NewVoice(sampleRate, blockSize)
	}
	return p
}

// Capacity returns the pool's maximum polyphony.
func (p *VoicePool) Capacity() int { return len(p.voices) }

// ActiveCount returns the number of currently active voices.
func (p *VoicePool) ActiveCount() int { return p.nbActive }

// Active returns the active voices, in no particular order. The
// returned slice aliases the pool's internal storage and is only
// valid until the next Request/Process/Clear call.
func (p *VoicePool) Active() []*Voice { return p.voices[:p.nbActive] }

// Request allocates a voice for a new note, applying exclusive-class
// note-off semantics and priority-based voice stealing when the pool
// is full.
//
// If exclusiveClass is nonzero, any active voice on the same channel
// sharing that exclusive class is killed and reused in place (MIDI's
// "choke group" behaviour, e.g. hi-hat open/closed). Otherwise, a free
// slot is taken from the unused suffix if one exists; failing that,
// the active voice with the lowest priority() is stolen, breaking ties
// in favour of the older (longer-running) voice.
func (p *VoicePool) Request(channel, exclusiveClass int) *Voice {
	if exclusiveClass != 0 {
		for i := 0; i < p.nbActive; i++ {
			v := p.voices[i]
			if v.Channel() == channel && v.ExclusiveClass() == exclusiveClass {
				v.Kill()
				return v
			}
		}
	}

	if p.nbActive < len(p.voices) {
		v := p.voices[p.nbActive]
		p.nbActive++
		return v
	}

	worst := 0
	worstPriority := p.voices[0].Priority()
	worstLength := p.voices[0].VoiceLength()
	for i := 1; i < len(p.voices); i++ {
		pr := p.voices[i].Priority()
		ln := p.voices[i].VoiceLength()
		if pr < worstPriority || (pr == worstPriority && ln > worstLength) {
			worst = i
			worstPriority = pr
			worstLength = ln
		}
	}
	return p.voices[worst]
}

// Process advances every active voice by one block, retiring any that
// have fallen silent. Retired voices are swapped to the end of the
// active prefix rather than removed individually.
func (p *VoicePool) Process(channels []*Channel) {
	i := 0
	for i < p.nbActive {
		v := p.voices[i]
		if v.Process(channels[v.Channel()]) {
			i++
			continue
		}
		p.nbActive--
		p.voices[i], p.voices[p.nbActive] = p.voices[p.nbActive], p.voices[i]
	}
}

// Clear deactivates every voice without resetting their buffers.
func (p *VoicePool) Clear() { p.nbActive = 0 }
