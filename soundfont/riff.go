package soundfont

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// riffChunk is the header of a top-level "form" chunk: a FOURCC chunk
// type (RIFF, LIST), a byte count, and a FOURCC identifying what the
// chunk contains (sfbk, INFO, sdta, pdta).
type riffChunk struct {
	chunkType [4]byte
	size      uint32
	id        [4]byte
}

// riffField is a plain subchunk header: a FOURCC id followed by a byte
// count for the data that follows.
type riffField struct {
	id   [4]byte
	size uint32
}

// reader walks a SoundFont's RIFF structure. Malformed structure (a
// short read, a FOURCC that doesn't match what the format requires at
// that position) panics; callers at the package boundary recover it
// into an error.
type reader struct {
	r *bytes.Reader
}

func newReader(data []byte) *reader {
	return &reader{r: bytes.NewReader(data)}
}

func (r *reader) offset() int64 { return r.r.Size() - int64(r.r.Len()) }

func (r *reader) seek(offset int64) {
	if _, err := r.r.Seek(offset, io.SeekStart); err != nil {
		panic(fmt.Errorf("soundfont: seek to %d: %w", offset, err))
	}
}

func (r *reader) skip(n int64) {
	r.seek(r.offset() + n)
}

func (r *reader) read(v any) {
	if err := binary.Read(r.r, binary.LittleEndian, v); err != nil {
		panic(fmt.Errorf("soundfont: short read: %w", err))
	}
}

func (r *reader) bytesN(n int) []byte {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		panic(fmt.Errorf("soundfont: short read of %d bytes: %w", n, err))
	}
	return buf
}

func fourCC(b [4]byte, s string) bool {
	return string(b[:]) == s
}

func (r *reader) readChunk(chunkType, id string) riffChunk {
	var c riffChunk
	r.read(&c.chunkType)
	r.read(&c.size)
	r.read(&c.id)
	if !fourCC(c.chunkType, chunkType) || !fourCC(c.id, id) {
		panic(fmt.Errorf("soundfont: expected %q chunk %q, got %q %q", chunkType, id, c.chunkType, c.id))
	}
	return c
}

func (r *reader) readField() riffField {
	var f riffField
	r.read(&f.id)
	r.read(&f.size)
	return f
}

func (r *reader) readFieldExpect(id string) riffField {
	f := r.readField()
	if !fourCC(f.id, id) {
		panic(fmt.Errorf("soundfont: expected %q field, got %q", id, f.id))
	}
	return f
}

// readZString reads a fixed-width field and trims trailing NUL padding,
// as SoundFont name fields are stored.
func (r *reader) readZString(size int) string {
	raw := r.bytesN(size)
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}

func (r *reader) readU16() uint16 { var v uint16; r.read(&v); return v }
func (r *reader) readU32() uint32 { var v uint32; r.read(&v); return v }
func (r *reader) readI16() int16  { var v int16; r.read(&v); return v }
func (r *reader) readU8() uint8   { var v uint8; r.read(&v); return v }
