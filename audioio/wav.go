// Package audioio writes rendered audio to a live speaker or to disk
// for the command-line tools.
package audioio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const ieeeFloatFormat = 3

// WriteWAVFile creates path and writes an IEEE-float32 WAV file of
// interleaved samples at the given sample rate and channel count
// (1 for mono, 2 for interleaved stereo).
func WriteWAVFile(path string, sampleRate, channels int, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteWAV(w, sampleRate, channels, samples); err != nil {
		return err
	}
	return w.Flush()
}

// WriteWAV writes an IEEE-float32 WAV file to w.
func WriteWAV(w io.Writer, sampleRate, channels int, samples []float32) error {
	const bytesPerSample = 4
	dataSize := bytesPerSample * len(samples)
	fmtChunkSize := 18
	chunkSize := 4 + (8 + fmtChunkSize) + (8 + 4 + 4) + (8 + dataSize)

	if err := writeFields(w,
		[]byte("RIFF"), uint32(chunkSize), []byte("WAVE"),
		[]byte("fmt "), uint32(fmtChunkSize),
		uint16(ieeeFloatFormat), uint16(channels), uint32(sampleRate),
		uint32(sampleRate*channels*bytesPerSample),
		uint16(channels*bytesPerSample),
		uint16(8*bytesPerSample),
		uint16(0),
		[]byte("fact"), uint32(4), uint32(len(samples)/channels),
		[]byte("data"), uint32(dataSize),
	); err != nil {
		return fmt.Errorf("audioio: writing wav header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("audioio: writing wav samples: %w", err)
	}
	return nil
}

// WriteRaw writes samples as raw little-endian float32, with no
// header, for tools that want unframed PCM.
func WriteRaw(w io.Writer, samples []float32) error {
	return binary.Write(w, binary.LittleEndian, samples)
}

func writeFields(w io.Writer, fields ...any) error {
	for _, f := range fields {
		if b, ok := f.([]byte); ok {
			if _, err := w.Write(b); err != nil {
				return err
			}
			continue
		}
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}
