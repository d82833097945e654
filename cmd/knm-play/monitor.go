package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
)

var backgroundColour = tcell.GetColor("#282a36")
var boxBgColour = tcell.GetColor("#282a36")
var boxFgColour = tcell.GetColor("#526A9E")
var labelColour = tcell.GetColor("#F879C0")
var activeColour = tcell.GetColor("#50FA7B")
var idleColour = tcell.GetColor("#626A86")

// runMonitor draws a live view of per-channel voice activity until
// done closes or the user quits.
func runMonitor(locked *lockedSynth, done <-chan struct{}) {
	defStyle := tcell.StyleDefault.Background(backgroundColour).Foreground(tcell.ColorReset)

	s, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("knm-play: %+v", err)
	}
	if err := s.Init(); err != nil {
		log.Fatalf("knm-play: %+v", err)
	}
	defer s.Fini()
	s.SetStyle(defStyle)
	s.Clear()

	quit := make(chan struct{})
	go func() {
		for {
			ev := s.PollEvent()
			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					close(quit)
					return
				}
			}
		}
	}()

	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-quit:
			s.Fini()
			os.Exit(0)
		case <-ticker.C:
			drawChannels(s, locked)
			s.Show()
		}
	}
}

// drawChannels paints the whole monitor panel: a bordered box holding a
// title line, the total active-voice count, and one meter row per MIDI
// channel showing its current voice count as a bar of filled blocks.
func drawChannels(s tcell.Screen, locked *lockedSynth) {
	x, y := 1, 1
	width, height := 40, 20
	drawPanelBorder(s, x, y, x+width, y+height)

	drawLine(s, x+1, y+1, tcell.StyleDefault.Background(backgroundColour).Foreground(labelColour).Bold(true), "knm-play")
	drawLine(s, x+1, y+2, tcell.StyleDefault.Background(backgroundColour).Foreground(idleColour), fmt.Sprintf("active voices: %3d", locked.activeVoiceCount()))

	for ch := 0; ch < 16; ch++ {
		n := locked.channelVoiceCount(ch)
		style := tcell.StyleDefault.Background(backgroundColour).Foreground(idleColour)
		if n > 0 {
			style = tcell.StyleDefault.Background(backgroundColour).Foreground(activeColour).Bold(true)
		}

		meter := make([]rune, 0, n)
		for i := 0; i < n && i < width-16; i++ {
			meter = append(meter, '█')
		}
		drawLine(s, x+1, y+4+ch, style, fmt.Sprintf("ch%02d %2d %s", ch, n, string(meter)))
	}
}

// drawPanelBorder fills the rectangle (x1,y1)-(x2,y2) with the panel
// background and traces a rounded border around it.
func drawPanelBorder(s tcell.Screen, x1, y1, x2, y2 int) {
	style := tcell.StyleDefault.Background(boxBgColour).Foreground(boxFgColour)

	for row := y1; row <= y2; row++ {
		for col := x1; col <= x2; col++ {
			s.SetContent(col, row, ' ', nil, style)
		}
	}

	for col := x1 + 1; col < x2; col++ {
		s.SetContent(col, y1, tcell.RuneHLine, nil, style)
		s.SetContent(col, y2, tcell.RuneHLine, nil, style)
	}
	for row := y1 + 1; row < y2; row++ {
		s.SetContent(x1, row, tcell.RuneVLine, nil, style)
		s.SetContent(x2, row, tcell.RuneVLine, nil, style)
	}

	s.SetContent(x1, y1, '╭', nil, style)
	s.SetContent(x2, y1, '╮', nil, style)
	s.SetContent(x1, y2, '╰', nil, style)
	s.SetContent(x2, y2, '╯', nil, style)
}

// drawLine writes a single row of text at (x, y); every caller in this
// monitor draws one short status line, so there's no need for the
// multi-row wrapping a general-purpose text widget would carry.
func drawLine(s tcell.Screen, x, y int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		s.SetContent(col, y, r, nil, style)
		col++
	}
}
