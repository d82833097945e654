package soundfont

import (
	"fmt"
	"os"
)

// SampleType classifies a sample header's channel role.
type SampleType uint16

const (
	SampleTypeMono     SampleType = 0x0001
	SampleTypeRight    SampleType = 0x0002
	SampleTypeLeft     SampleType = 0x0004
	SampleTypeLinked   SampleType = 0x0008
	SampleTypeRomMono  SampleType = 0x8001
	SampleTypeRomRight SampleType = 0x8002
	SampleTypeRomLeft  SampleType = 0x8004
)

// Sample is one decoded shdr record: the sample's extent within the
// shared float32 buffer plus its pitch metadata.
type Sample struct {
	Name             string
	Start            uint32
	End              uint32
	LoopStart        uint32
	LoopEnd          uint32
	SampleRate       uint32
	OriginalPitch    uint8
	PitchCorrection  int8
	SampleLink       uint16
	SampleType       SampleType
}

// PresetID identifies a preset by its SoundFont bank and program number.
type PresetID struct {
	Bank   uint16
	Number uint16
}

type presetZone struct {
	keysRange       Range
	velocitiesRange Range
	generators      generatorMap
}

type instrumentZone struct {
	keysRange       Range
	velocitiesRange Range
	generators      generatorMap
}

type preset struct {
	name  string
	zones []presetZone
}

type instrument struct {
	name  string
	zones []instrumentZone
}

// Information holds the bank's INFO chunk metadata.
type Information struct {
	MajorVersion    uint16
	MinorVersion    uint16
	Name            string
	TargetEngine    string
	RomName         string
	RomMajorVersion uint16
	RomMinorVersion uint16
	CreationDate    string
	Engineers       string
	Product         string
	Copyright       string
	Comments        string
	CreationTool    string
}

// SoundFont is a parsed SoundFont 2.x bank: its sample buffer and the
// preset/instrument/sample tables needed to answer key/velocity queries.
type SoundFont struct {
	Information Information

	buffer []float32

	presets      map[PresetID]preset
	presetOrder  []PresetID
	instruments  []instrument
	samples      []Sample
}

// LoadFile reads and parses a SoundFont bank from path.
func LoadFile(path string) (*SoundFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("soundfont: %w", err)
	}
	return Load(data)
}

// Load parses a SoundFont bank already held in memory.
func Load(data []byte) (sf *SoundFont, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("soundfont: %v", rec)
			}
			sf = nil
		}
	}()

	result := &SoundFont{presets: make(map[PresetID]preset)}
	r := newReader(data)
	result.load(r)
	return result, nil
}

func (sf *SoundFont) load(r *reader) {
	r.readChunk("RIFF", "sfbk")

	infoHeader := r.readChunk("LIST", "INFO")
	endOfInfo := r.offset() + int64(infoHeader.size) - 4
	sf.loadInformation(r, endOfInfo)
	r.seek(endOfInfo)

	sdtaHeader := r.readChunk("LIST", "sdta")
	endOfSdta := r.offset() + int64(sdtaHeader.size) - 4
	if sdtaHeader.size != 4 {
		sf.loadSampleData(r, endOfSdta)
	}
	r.seek(endOfSdta)

	r.readChunk("LIST", "pdta")
	sf.loadHydra(r)
}

func (sf *SoundFont) loadInformation(r *reader, endOfChunk int64) {
	for r.offset() < endOfChunk {
		f := r.readField()
		switch string(f.id[:]) {
		case "ifil":
			sf.Information.MajorVersion = r.readU16()
			sf.Information.MinorVersion = r.readU16()
		case "INAM":
			sf.Information.Name = r.readZString(int(f.size))
		case "isng":
			sf.Information.TargetEngine = r.readZString(int(f.size))
		case "irom":
			sf.Information.RomName = r.readZString(int(f.size))
		case "iver":
			sf.Information.RomMajorVersion = r.readU16()
			sf.Information.RomMinorVersion = r.readU16()
		case "ICRD":
			sf.Information.CreationDate = r.readZString(int(f.size))
		case "IENG":
			sf.Information.Engineers = r.readZString(int(f.size))
		case "IPRD":
			sf.Information.Product = r.readZString(int(f.size))
		case "ICOP":
			sf.Information.Copyright = r.readZString(int(f.size))
		case "ICMT":
			sf.Information.Comments = r.readZString(int(f.size))
		case "ISFT":
			sf.Information.CreationTool = r.readZString(int(f.size))
		default:
			r.skip(int64(f.size))
		}
	}
}

// loadSampleData decodes the smpl (and optional sm24) subchunks into the
// shared float32 sample buffer, normalizing 16-bit or 16+8-bit (24-bit)
// PCM into [-1, 1].
func (sf *SoundFont) loadSampleData(r *reader, endOfChunk int64) {
	smpl := r.readFieldExpect("smpl")
	smplDataStart := r.offset()

	r.skip(int64(smpl.size))
	lsbStart := r.offset()
	var lsb []byte
	if lsbStart+8 <= endOfChunk {
		f := r.readField()
		if fourCC(f.id, "sm24") {
			lsb = r.bytesN(int(f.size))
		}
	}

	r.seek(smplDataStart)

	nbSamples := smpl.size / 2
	sf.buffer = make([]float32, nbSamples)

	raw := r.bytesN(int(smpl.size))
	for i := uint32(0); i < nbSamples; i++ {
		v16 := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		if lsb != nil && int(i) < len(lsb) {
			v := int32(v16)<<8 | int32(lsb[i])
			sf.buffer[i] = float32(v) / 8388608.0
		} else {
			sf.buffer[i] = float32(v16) / 32767.0
		}
	}
}

type sfPreset struct {
	name           string
	preset         uint16
	bank           uint16
	presetBagIndex uint16
}

type sfBag struct {
	generatorsIndex uint16
	modulatorsIndex uint16
}

type sfGenerator struct {
	genType GeneratorType
	amount  GenAmount
}

type sfInstrument struct {
	name     string
	bagIndex uint16
}

type sfSample struct {
	name            string
	start           uint32
	end             uint32
	loopStart       uint32
	loopEnd         uint32
	sampleRate      uint32
	originalPitch   uint8
	pitchCorrection int8
	sampleLink      uint16
	sampleType      uint16
}

func readGenAmount(r *reader, g GeneratorType) GenAmount {
	if g == GenKeyRange || g == GenVelocityRange {
		lo := r.readU8()
		hi := r.readU8()
		return GenAmount{Range: Range{Lo: lo, Hi: hi}}
	}
	raw := r.readU16()
	return GenAmount{IValue: int16(raw), UValue: raw}
}

func (sf *SoundFont) loadHydra(r *reader) {
	phdr := r.readFieldExpect("phdr")
	nbPresets := int(phdr.size) / 38
	presets := make([]sfPreset, nbPresets)
	for i := range presets {
		presets[i].name = r.readZString(20)
		presets[i].preset = r.readU16()
		presets[i].bank = r.readU16()
		presets[i].presetBagIndex = r.readU16()
		r.skip(12) // library, genre, morphology
	}

	pbag := r.readFieldExpect("pbag")
	presetBags := make([]sfBag, int(pbag.size)/4)
	for i := range presetBags {
		presetBags[i].generatorsIndex = r.readU16()
		presetBags[i].modulatorsIndex = r.readU16()
	}

	pmod := r.readFieldExpect("pmod")
	r.skip(int64(pmod.size)) // modulators are not consumed by synthesis; see DESIGN.md

	pgen := r.readFieldExpect("pgen")
	presetGenerators := make([]sfGenerator, int(pgen.size)/4)
	for i := range presetGenerators {
		g := GeneratorType(r.readU16())
		presetGenerators[i] = sfGenerator{genType: g, amount: readGenAmount(r, g)}
	}

	inst := r.readFieldExpect("inst")
	nbInstruments := int(inst.size) / 22
	instruments := make([]sfInstrument, nbInstruments)
	for i := range instruments {
		instruments[i].name = r.readZString(20)
		instruments[i].bagIndex = r.readU16()
	}

	ibag := r.readFieldExpect("ibag")
	instrumentBags := make([]sfBag, int(ibag.size)/4)
	for i := range instrumentBags {
		instrumentBags[i].generatorsIndex = r.readU16()
		instrumentBags[i].modulatorsIndex = r.readU16()
	}

	imod := r.readFieldExpect("imod")
	r.skip(int64(imod.size))

	igen := r.readFieldExpect("igen")
	instrumentGenerators := make([]sfGenerator, int(igen.size)/4)
	for i := range instrumentGenerators {
		g := GeneratorType(r.readU16())
		instrumentGenerators[i] = sfGenerator{genType: g, amount: readGenAmount(r, g)}
	}

	shdr := r.readFieldExpect("shdr")
	nbSamples := int(shdr.size) / 46
	sfSamples := make([]sfSample, nbSamples)
	for i := range sfSamples {
		sfSamples[i].name = r.readZString(20)
		sfSamples[i].start = r.readU32()
		sfSamples[i].end = r.readU32()
		sfSamples[i].loopStart = r.readU32()
		sfSamples[i].loopEnd = r.readU32()
		sfSamples[i].sampleRate = r.readU32()
		sfSamples[i].originalPitch = r.readU8()
		sfSamples[i].pitchCorrection = int8(r.readU8())
		sfSamples[i].sampleLink = r.readU16()
		sfSamples[i].sampleType = r.readU16()
	}

	sf.buildPresets(presets, presetBags, presetGenerators)
	sf.buildInstruments(instruments, instrumentBags, instrumentGenerators)

	sf.samples = make([]Sample, nbSamples-1)
	for i := 0; i < nbSamples-1; i++ {
		ref := sfSamples[i]
		sf.samples[i] = Sample{
			Name:            ref.name,
			Start:           ref.start,
			End:             ref.end,
			LoopStart:       ref.loopStart,
			LoopEnd:         ref.loopEnd,
			SampleRate:      ref.sampleRate,
			OriginalPitch:   ref.originalPitch,
			PitchCorrection: ref.pitchCorrection,
			SampleLink:      ref.sampleLink,
			SampleType:      SampleType(ref.sampleType),
		}
	}
}

func (sf *SoundFont) buildPresets(presets []sfPreset, bags []sfBag, generators []sfGenerator) {
	for i := 0; i < len(presets)-1; i++ {
		ref := presets[i]

		p := preset{name: ref.name}

		var globals generatorMap
		hasGlobals := false

		for j := ref.presetBagIndex; j < presets[i+1].presetBagIndex; j++ {
			bag := bags[j]

			zone := generatorMap{
				GenKeyRange:      {Range: Range{Lo: 0, Hi: 127}},
				GenVelocityRange: {Range: Range{Lo: 0, Hi: 127}},
			}

			if hasGlobals {
				for k, v := range globals {
					zone[k] = v
				}
			}

			for k := bag.generatorsIndex; k < bags[j+1].generatorsIndex; k++ {
				g := generators[k]
				zone[g.genType] = g.amount
			}

			if _, ok := zone[GenInstrument]; !ok {
				hasGlobals = true
				globals = zone
				continue
			}

			z := presetZone{
				keysRange:       zone[GenKeyRange].Range,
				velocitiesRange: zone[GenVelocityRange].Range,
				generators:      zone,
			}
			delete(z.generators, GenKeyRange)
			delete(z.generators, GenVelocityRange)
			p.zones = append(p.zones, z)
		}

		id := PresetID{Bank: ref.bank, Number: ref.preset}
		sf.presets[id] = p
		sf.presetOrder = append(sf.presetOrder, id)
	}
}

func (sf *SoundFont) buildInstruments(instruments []sfInstrument, bags []sfBag, generators []sfGenerator) {
	sf.instruments = make([]instrument, 0, len(instruments))

	for i := 0; i < len(instruments)-1; i++ {
		ref := instruments[i]

		inst := instrument{name: ref.name}

		var globals generatorMap
		hasGlobals := false

		for j := ref.bagIndex; j < instruments[i+1].bagIndex; j++ {
			bag := bags[j]

			var zone generatorMap
			if hasGlobals {
				zone = globals.clone()
			} else {
				zone = defaultGenerators()
			}

			for k := bag.generatorsIndex; k < bags[j+1].generatorsIndex; k++ {
				g := generators[k]
				zone[g.genType] = g.amount
			}

			if _, ok := zone[GenSampleID]; !ok {
				hasGlobals = true
				globals = zone
				continue
			}

			z := instrumentZone{
				keysRange:       zone[GenKeyRange].Range,
				velocitiesRange: zone[GenVelocityRange].Range,
				generators:      zone,
			}
			delete(z.generators, GenKeyRange)
			delete(z.generators, GenVelocityRange)
			inst.zones = append(inst.zones, z)
		}

		sf.instruments = append(sf.instruments, inst)
	}
}
