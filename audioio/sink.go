package audioio

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/oto"
)

// Source is anything that can fill stereo blocks of audio on demand,
// the shape Sink pulls from on its playback goroutine. *synth.Synthesizer
// satisfies this directly via its RenderStereo method.
type Source interface {
	RenderStereo(left, right []float32)
}

// Sink drives a Source continuously through an oto playback device,
// converting its float32 stereo blocks to the interleaved int16 PCM
// the device expects.
type Sink struct {
	mu      sync.Mutex
	context *oto.Context
	player  *oto.Player

	source Source

	left, right []float32
	buf         []byte

	done chan struct{}
}

// NewSink opens an oto playback context at sampleRate with the given
// block size (in frames) and returns a Sink ready to Play a Source.
func NewSink(sampleRate, blockSize int) (*Sink, error) {
	const bytesPerSample = 2
	const channels = 2

	numBytes := blockSize * channels * bytesPerSample
	context, err := oto.NewContext(sampleRate, channels, bytesPerSample, numBytes)
	if err != nil {
		return nil, fmt.Errorf("audioio: opening audio device: %w", err)
	}

	return &Sink{
		context: context,
		player:  context.NewPlayer(),
		left:    make([]float32, blockSize),
		right:   make([]float32, blockSize),
		buf:     make([]byte, numBytes),
	}, nil
}

// Play starts pulling blocks from source on a dedicated goroutine
// until Close is called. Calling Play again replaces the source
// without interrupting the playback goroutine.
func (s *Sink) Play(source Source) {
	s.mu.Lock()
	s.source = source
	if s.done == nil {
		s.done = make(chan struct{})
		go s.run()
	}
	s.mu.Unlock()
}

func (s *Sink) run() {
	for {
		select {
		case <-s.done:
			return
		default:
			s.renderBlock()
		}
	}
}

func (s *Sink) renderBlock() {
	s.mu.Lock()
	source := s.source
	s.mu.Unlock()

	if source == nil {
		return
	}

	source.RenderStereo(s.left, s.right)

	for i := range s.left {
		s.buf[i*4+0], s.buf[i*4+1] = floatToInt16Bytes(s.left[i])
		s.buf[i*4+2], s.buf[i*4+3] = floatToInt16Bytes(s.right[i])
	}

	s.player.Write(s.buf)
}

func floatToInt16Bytes(v float32) (byte, byte) {
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}
	sample := int16(v * (1<<15 - 1))
	return byte(sample), byte(sample >> 8)
}

// Close stops the playback goroutine and releases the audio device.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	if s.player != nil {
		s.player.Close()
		s.player = nil
	}
	if s.context != nil {
		s.context.Close()
		s.context = nil
	}
	return nil
}
