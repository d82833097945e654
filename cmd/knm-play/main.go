// Command knm-play loads a SoundFont bank and a Standard MIDI File and
// plays it back live through the system's audio device.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Kanma/knm-synthesizer/audioio"
	"github.com/Kanma/knm-synthesizer/synth"
)

// lockedSynth guards a Synthesizer with a mutex so the playback
// goroutine's render calls and the scheduler goroutine's MIDI control
// calls never overlap, matching the engine's single-threaded contract.
type lockedSynth struct {
	mu sync.Mutex
	s  *synth.Synthesizer
}

func (l *lockedSynth) RenderStereo(left, right []float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.s.RenderStereo(left, right)
}

func (l *lockedSynth) processMIDIMessage(channel int, command, data1, data2 uint8) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.s.ProcessMIDIMessage(channel, command, data1, data2)
}

func (l *lockedSynth) activeVoiceCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.ActiveVoiceCount()
}

func (l *lockedSynth) channelVoiceCount(channel int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.ChannelVoiceCount(channel)
}

func main() {
	sf2Path := flag.String("sf2", "", "path to a SoundFont 2.x bank (.sf2)")
	midPath := flag.String("mid", "", "path to a Standard MIDI File (.mid)")
	sampleRate := flag.Float64("rate", 44100, "output sample rate in Hz")
	blockSize := flag.Int("block", 256, "audio device block size in frames")
	masterVolume := flag.Float64("gain", 0, "master volume in decibels")
	monitor := flag.Bool("monitor", false, "show a live terminal monitor")
	flag.Parse()

	if *sf2Path == "" || *midPath == "" {
		fmt.Fprintln(os.Stderr, "usage: knm-play -sf2 bank.sf2 -mid song.mid [-monitor]")
		os.Exit(2)
	}

	s, err := synth.NewSynthesizer(synth.Settings{SampleRate: *sampleRate})
	if err != nil {
		log.Fatalf("knm-play: %v", err)
	}
	s.SetMasterVolume(*masterVolume)

	if err := s.LoadSoundFontFile(*sf2Path); err != nil {
		log.Fatalf("knm-play: loading soundfont: %v", err)
	}

	events, err := loadMIDIFile(*midPath)
	if err != nil {
		log.Fatalf("knm-play: loading midi file: %v", err)
	}

	locked := &lockedSynth{s: s}

	sink, err := audioio.NewSink(int(*sampleRate), *blockSize)
	if err != nil {
		log.Fatalf("knm-play: %v", err)
	}
	defer sink.Close()
	sink.Play(locked)

	done := make(chan struct{})
	go runSchedule(locked, events, done)

	if *monitor {
		runMonitor(locked, done)
		return
	}

	<-done
}

// runSchedule walks the merged event stream, sleeping in real time
// between events and dispatching each through locked.
func runSchedule(locked *lockedSynth, events []scheduledMessage, done chan<- struct{}) {
	start := time.Now()
	for _, e := range events {
		target := start.Add(time.Duration(e.seconds * float64(time.Second)))
		if wait := time.Until(target); wait > 0 {
			time.Sleep(wait)
		}
		locked.processMIDIMessage(e.channel, e.command, e.data1, e.data2)
	}

	// Let the final notes' release tails ring out before declaring the
	// playback finished.
	time.Sleep(2 * time.Second)
	close(done)
}
