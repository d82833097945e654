package main

import (
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// defaultTicksPerQuarterNote is only used as a last resort, for a file
// whose TimeFormat isn't metric ticks at all (e.g. SMPTE time code).
const defaultTicksPerQuarterNote = 480

// scheduledMessage is one MIDI channel message, timestamped in seconds
// from the start of the file.
type scheduledMessage struct {
	seconds float64
	channel int
	command uint8
	data1   uint8
	data2   uint8
}

// timedEvent pairs a track event with its absolute tick position, so
// events from every track can be merged into one time-ordered stream.
type timedEvent struct {
	ticks int64
	event smf.TrackEvent
}

// loadMIDIFile reads every track of a Standard MIDI File, merges them
// into a single time-ordered stream, and resolves tempo (meta) events
// into absolute seconds using the file's own ticks-per-quarter-note
// resolution.
func loadMIDIFile(path string) ([]scheduledMessage, error) {
	sm, err := smf.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ticksPerQuarter := uint32(defaultTicksPerQuarterNote)
	if mt, ok := sm.TimeFormat.(smf.MetricTicks); ok {
		ticksPerQuarter = uint32(mt)
	}

	var timed []timedEvent
	for _, track := range sm.Tracks {
		var ticks int64
		for _, ev := range track {
			ticks += int64(ev.Delta)
			timed = append(timed, timedEvent{ticks, ev})
		}
	}
	sort.SliceStable(timed, func(i, j int) bool { return timed[i].ticks < timed[j].ticks })

	var events []scheduledMessage
	microsecondsPerQuarter := uint32(500000) // 120 BPM
	var lastTicks int64
	var elapsedSeconds float64

	for _, te := range timed {
		elapsedSeconds += ticksToSeconds(uint32(te.ticks-lastTicks), ticksPerQuarter, microsecondsPerQuarter)
		lastTicks = te.ticks

		message := te.event.Message

		var bpm float64
		if message.GetMetaTempo(&bpm) {
			microsecondsPerQuarter = uint32(60000000 / bpm)
			continue
		}

		var channel, key, velocity, controller, value, program uint8
		var relative int16
		var absolute uint16

		switch {
		case message.GetNoteOn(&channel, &key, &velocity):
			events = append(events, scheduledMessage{elapsedSeconds, int(channel), 0x90, key, velocity})
		case message.GetNoteOff(&channel, &key, &velocity):
			events = append(events, scheduledMessage{elapsedSeconds, int(channel), 0x80, key, velocity})
		case message.GetControlChange(&channel, &controller, &value):
			events = append(events, scheduledMessage{elapsedSeconds, int(channel), 0xB0, controller, value})
		case message.GetProgramChange(&channel, &program):
			events = append(events, scheduledMessage{elapsedSeconds, int(channel), 0xC0, program, 0})
		case message.GetPitchBend(&channel, &relative, &absolute):
			events = append(events, scheduledMessage{elapsedSeconds, int(channel), 0xE0, uint8(absolute & 0x7F), uint8(absolute >> 7)})
		}
	}

	return events, nil
}

func ticksToSeconds(ticks, ticksPerQuarter, microsecondsPerQuarter uint32) float64 {
	quarters := float64(ticks) / float64(ticksPerQuarter)
	return quarters * float64(microsecondsPerQuarter) / 1e6
}
