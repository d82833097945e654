// Command knm-render loads a SoundFont bank and a Standard MIDI File
// and renders the performance offline into a .wav or raw float32 file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Kanma/knm-synthesizer/audioio"
	"github.com/Kanma/knm-synthesizer/synth"
)

func main() {
	sf2Path := flag.String("sf2", "", "path to a SoundFont 2.x bank (.sf2)")
	midPath := flag.String("mid", "", "path to a Standard MIDI File (.mid)")
	outPath := flag.String("out", "out.wav", "output file path")
	sampleRate := flag.Float64("rate", 44100, "output sample rate in Hz")
	raw := flag.Bool("raw", false, "write headerless raw float32 instead of .wav")
	mono := flag.Bool("mono", false, "render a single mono channel instead of stereo")
	masterVolume := flag.Float64("gain", 0, "master volume in decibels")
	flag.Parse()

	if *sf2Path == "" || *midPath == "" {
		fmt.Fprintln(os.Stderr, "usage: knm-render -sf2 bank.sf2 -mid song.mid [-out out.wav]")
		os.Exit(2)
	}

	s, err := synth.NewSynthesizer(synth.Settings{SampleRate: *sampleRate})
	if err != nil {
		log.Fatalf("knm-render: %v", err)
	}
	s.SetMasterVolume(*masterVolume)

	if err := s.LoadSoundFontFile(*sf2Path); err != nil {
		log.Fatalf("knm-render: loading soundfont: %v", err)
	}

	events, err := loadMIDIFile(*midPath)
	if err != nil {
		log.Fatalf("knm-render: loading midi file: %v", err)
	}

	var duration float64
	for _, e := range events {
		if e.seconds > duration {
			duration = e.seconds
		}
	}
	duration += 2 // let the tail of the last note ring out

	totalFrames := int(duration * *sampleRate)
	channels := 2
	if *mono {
		channels = 1
	}

	samples := make([]float32, totalFrames*channels)

	const blockFrames = 256
	eventIndex := 0
	left := make([]float32, blockFrames)
	right := make([]float32, blockFrames)

	for frame := 0; frame < totalFrames; frame += blockFrames {
		n := blockFrames
		if frame+n > totalFrames {
			n = totalFrames - frame
		}

		blockEnd := float64(frame+n) / *sampleRate
		for eventIndex < len(events) && events[eventIndex].seconds < blockEnd {
			e := events[eventIndex]
			s.ProcessMIDIMessage(e.channel, e.command, e.data1, e.data2)
			eventIndex++
		}

		if *mono {
			s.RenderMono(samples[frame : frame+n])
			continue
		}

		s.RenderStereo(left[:n], right[:n])
		for i := 0; i < n; i++ {
			samples[(frame+i)*2+0] = left[i]
			samples[(frame+i)*2+1] = right[i]
		}
	}

	if *raw {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("knm-render: %v", err)
		}
		defer f.Close()
		if err := audioio.WriteRaw(f, samples); err != nil {
			log.Fatalf("knm-render: %v", err)
		}
		return
	}

	if err := audioio.WriteWAVFile(*outPath, int(*sampleRate), channels, samples); err != nil {
		log.Fatalf("knm-render: %v", err)
	}
}
