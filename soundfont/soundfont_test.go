package soundfont

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildMinimalSF2 assembles, by hand, the smallest valid SoundFont 2.x
// file this package can parse: one mono sample covering the whole
// keyboard, one instrument zone referencing it, one preset zone
// referencing the instrument. Every hydra table ends with its required
// terminal record.
func buildMinimalSF2(t *testing.T, samples []int16) []byte {
	t.Helper()

	name20 := func(s string) []byte {
		var b [20]byte
		copy(b[:], s)
		return b[:]
	}

	var info bytes.Buffer
	info.Write([]byte("ifil"))
	binary.Write(&info, binary.LittleEndian, uint32(4))
	binary.Write(&info, binary.LittleEndian, uint16(2))
	binary.Write(&info, binary.LittleEndian, uint16(1))

	var sdta bytes.Buffer
	sdta.Write([]byte("smpl"))
	binary.Write(&sdta, binary.LittleEndian, uint32(len(samples)*2))
	for _, s := range samples {
		binary.Write(&sdta, binary.LittleEndian, s)
	}

	var pdta bytes.Buffer

	// phdr: one real preset + terminal.
	pdta.Write([]byte("phdr"))
	binary.Write(&pdta, binary.LittleEndian, uint32(38*2))
	pdta.Write(name20("TestPreset"))
	binary.Write(&pdta, binary.LittleEndian, uint16(0))                  // preset number
	binary.Write(&pdta, binary.LittleEndian, uint16(0))                  // bank
	binary.Write(&pdta, binary.LittleEndian, uint16(0))                  // presetBagIndex
	binary.Write(&pdta, binary.LittleEndian, [3]uint32{0, 0, 0})         // library, genre, morphology
	pdta.Write(name20("EOP"))
	binary.Write(&pdta, binary.LittleEndian, uint16(0))
	binary.Write(&pdta, binary.LittleEndian, uint16(0))
	binary.Write(&pdta, binary.LittleEndian, uint16(1)) // terminal presetBagIndex
	binary.Write(&pdta, binary.LittleEndian, [3]uint32{0, 0, 0})

	// pbag: one real bag + terminal.
	pdta.Write([]byte("pbag"))
	binary.Write(&pdta, binary.LittleEndian, uint32(4*2))
	binary.Write(&pdta, binary.LittleEndian, uint16(0)) // generatorsIndex
	binary.Write(&pdta, binary.LittleEndian, uint16(0)) // modulatorsIndex
	binary.Write(&pdta, binary.LittleEndian, uint16(1)) // terminal generatorsIndex
	binary.Write(&pdta, binary.LittleEndian, uint16(0))

	// pmod: terminal only.
	pdta.Write([]byte("pmod"))
	binary.Write(&pdta, binary.LittleEndian, uint32(10))
	pdta.Write(make([]byte, 10))

	// pgen: one GenInstrument=0 generator + terminal.
	pdta.Write([]byte("pgen"))
	binary.Write(&pdta, binary.LittleEndian, uint32(4*2))
	binary.Write(&pdta, binary.LittleEndian, uint16(GenInstrument))
	binary.Write(&pdta, binary.LittleEndian, uint16(0))
	binary.Write(&pdta, binary.LittleEndian, uint16(0)) // terminal
	binary.Write(&pdta, binary.LittleEndian, uint16(0))

	// inst: one real instrument + terminal.
	pdta.Write([]byte("inst"))
	binary.Write(&pdta, binary.LittleEndian, uint32(22*2))
	pdta.Write(name20("TestInstrument"))
	binary.Write(&pdta, binary.LittleEndian, uint16(0))
	pdta.Write(name20("EOI"))
	binary.Write(&pdta, binary.LittleEndian, uint16(1))

	// ibag: one real bag + terminal.
	pdta.Write([]byte("ibag"))
	binary.Write(&pdta, binary.LittleEndian, uint32(4*2))
	binary.Write(&pdta, binary.LittleEndian, uint16(0))
	binary.Write(&pdta, binary.LittleEndian, uint16(0))
	binary.Write(&pdta, binary.LittleEndian, uint16(1))
	binary.Write(&pdta, binary.LittleEndian, uint16(0))

	// imod: terminal only.
	pdta.Write([]byte("imod"))
	binary.Write(&pdta, binary.LittleEndian, uint32(10))
	pdta.Write(make([]byte, 10))

	// igen: one GenSampleID=0 generator + terminal.
	pdta.Write([]byte("igen"))
	binary.Write(&pdta, binary.LittleEndian, uint32(4*2))
	binary.Write(&pdta, binary.LittleEndian, uint16(GenSampleID))
	binary.Write(&pdta, binary.LittleEndian, uint16(0))
	binary.Write(&pdta, binary.LittleEndian, uint16(0))
	binary.Write(&pdta, binary.LittleEndian, uint16(0))

	// shdr: one real sample + terminal.
	pdta.Write([]byte("shdr"))
	binary.Write(&pdta, binary.LittleEndian, uint32(46*2))
	pdta.Write(name20("TestSample"))
	binary.Write(&pdta, binary.LittleEndian, uint32(0))
	binary.Write(&pdta, binary.LittleEndian, uint32(len(samples)))
	binary.Write(&pdta, binary.LittleEndian, uint32(0))
	binary.Write(&pdta, binary.LittleEndian, uint32(len(samples)))
	binary.Write(&pdta, binary.LittleEndian, uint32(44100))
	binary.Write(&pdta, binary.LittleEndian, uint8(60)) // original pitch
	binary.Write(&pdta, binary.LittleEndian, uint8(0))  // pitch correction
	binary.Write(&pdta, binary.LittleEndian, uint16(0)) // sample link
	binary.Write(&pdta, binary.LittleEndian, uint16(1)) // SampleTypeMono
	pdta.Write(make([]byte, 46))

	riffChunk := func(id string, payload []byte) []byte {
		var out bytes.Buffer
		out.Write([]byte("LIST"))
		binary.Write(&out, binary.LittleEndian, uint32(4+len(payload)))
		out.Write([]byte(id))
		out.Write(payload)
		return out.Bytes()
	}

	infoChunk := riffChunk("INFO", info.Bytes())
	sdtaChunk := riffChunk("sdta", sdta.Bytes())
	pdtaChunk := riffChunk("pdta", pdta.Bytes())

	var body bytes.Buffer
	body.Write([]byte("sfbk"))
	body.Write(infoChunk)
	body.Write(sdtaChunk)
	body.Write(pdtaChunk)

	var out bytes.Buffer
	out.Write([]byte("RIFF"))
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

func TestLoadMinimalSoundFont(t *testing.T) {
	samples := make([]int16, 100)
	for i := range samples {
		samples[i] = int16(i * 10)
	}

	data := buildMinimalSF2(t, samples)

	sf, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if sf.Information.MajorVersion != 2 {
		t.Errorf("expected major version 2, got %d", sf.Information.MajorVersion)
	}

	if len(sf.Buffer()) != len(samples) {
		t.Fatalf("expected %d decoded samples, got %d", len(samples), len(sf.Buffer()))
	}

	if !sf.HasPreset(0, 0) {
		t.Fatalf("expected preset (0,0) to exist")
	}

	info, ok := sf.GetKeyInfo(0, 0, 60, 100)
	if !ok {
		t.Fatalf("expected key 60 velocity 100 to resolve")
	}

	if info.Stereo {
		t.Errorf("expected a mono sample to resolve as mono")
	}

	if info.Left.Sample == nil {
		t.Fatalf("expected a left sample")
	}

	if info.Left.Sample.End != uint32(len(samples)) {
		t.Errorf("expected sample end %d, got %d", len(samples), info.Left.Sample.End)
	}
}

func TestGetKeyInfoMissingPreset(t *testing.T) {
	data := buildMinimalSF2(t, make([]int16, 10))

	sf, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, ok := sf.GetKeyInfo(5, 99, 60, 100); ok {
		t.Errorf("expected lookup of a nonexistent preset to fail")
	}
}

func TestDefaultPreset(t *testing.T) {
	data := buildMinimalSF2(t, make([]int16, 10))

	sf, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	id, ok := sf.DefaultPreset()
	if !ok {
		t.Fatalf("expected a default preset")
	}
	if id.Bank != 0 || id.Number != 0 {
		t.Errorf("expected default preset (0,0), got (%d,%d)", id.Bank, id.Number)
	}
}
