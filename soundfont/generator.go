// Package soundfont parses SoundFont 2.x bank files and answers the
// (bank, preset, key, velocity) query a voice needs to start: which
// sample(s) to play and the merged generator map that drives the rest
// of the synthesis pipeline.
package soundfont

// GeneratorType identifies one of the 60 SoundFont 2.01 generators. The
// numeric values match the wire encoding used in the pgen/igen chunks.
type GeneratorType uint16

const (
	GenStartAddressOffset             GeneratorType = 0
	GenEndAddressOffset                GeneratorType = 1
	GenStartLoopAddressOffset          GeneratorType = 2
	GenEndLoopAddressOffset            GeneratorType = 3
	GenStartAddressCoarseOffset        GeneratorType = 4
	GenModulationLFOToPitch            GeneratorType = 5
	GenVibratoLFOToPitch               GeneratorType = 6
	GenModulationEnvelopeToPitch       GeneratorType = 7
	GenInitialFilterCutoffFrequency    GeneratorType = 8
	GenInitialFilterQ                  GeneratorType = 9
	GenModulationLFOToFilterCutoff     GeneratorType = 10
	GenModulationEnvelopeToFilterCutoff GeneratorType = 11
	GenEndAddressCoarseOffset          GeneratorType = 12
	GenModulationLFOToVolume           GeneratorType = 13
	GenUnused1                         GeneratorType = 14
	GenChorusEffectsSend               GeneratorType = 15
	GenReverbEffectsSend               GeneratorType = 16
	GenPan                             GeneratorType = 17
	GenUnused2                         GeneratorType = 18
	GenUnused3                         GeneratorType = 19
	GenUnused4                         GeneratorType = 20
	GenDelayModulationLFO              GeneratorType = 21
	GenFrequencyModulationLFO          GeneratorType = 22
	GenDelayVibratoLFO                 GeneratorType = 23
	GenFrequencyVibratoLFO             GeneratorType = 24
	GenDelayModulationEnvelope         GeneratorType = 25
	GenAttackModulationEnvelope        GeneratorType = 26
	GenHoldModulationEnvelope          GeneratorType = 27
	GenDecayModulationEnvelope         GeneratorType = 28
	GenSustainModulationEnvelope       GeneratorType = 29
	GenReleaseModulationEnvelope       GeneratorType = 30
	GenKeyNumberToModulationEnvelopeHold  GeneratorType = 31
	GenKeyNumberToModulationEnvelopeDecay GeneratorType = 32
	GenDelayVolumeEnvelope             GeneratorType = 33
	GenAttackVolumeEnvelope            GeneratorType = 34
	GenHoldVolumeEnvelope              GeneratorType = 35
	GenDecayVolumeEnvelope             GeneratorType = 36
	GenSustainVolumeEnvelope           GeneratorType = 37
	GenReleaseVolumeEnvelope           GeneratorType = 38
	GenKeyNumberToVolumeEnvelopeHold   GeneratorType = 39
	GenKeyNumberToVolumeEnvelopeDecay  GeneratorType = 40
	GenInstrument                      GeneratorType = 41
	GenReserved1                       GeneratorType = 42
	GenKeyRange                        GeneratorType = 43
	GenVelocityRange                   GeneratorType = 44
	GenStartLoopAddressCoarseOffset    GeneratorType = 45
	GenKeyNumber                       GeneratorType = 46
	GenVelocity                        GeneratorType = 47
	GenInitialAttenuation              GeneratorType = 48
	GenReserved2                       GeneratorType = 49
	GenEndLoopAddressCoarseOffset      GeneratorType = 50
	GenCoarseTune                      GeneratorType = 51
	GenFineTune                        GeneratorType = 52
	GenSampleID                        GeneratorType = 53
	GenSampleModes                     GeneratorType = 54
	GenReserved3                       GeneratorType = 55
	GenScaleTuning                     GeneratorType = 56
	GenExclusiveClass                  GeneratorType = 57
	GenOverridingRootKey               GeneratorType = 58
	GenUnused5                         GeneratorType = 59
	GenUnusedEnd                       GeneratorType = 60
)

// SampleMode mirrors the GenSampleModes generator's low two bits.
type SampleMode int

const (
	SampleModeNoLoop           SampleMode = 0
	SampleModeLoopContinuous   SampleMode = 1
	SampleModeLoopUntilRelease SampleMode = 3
)

// Range is the [lo, hi] inclusive generator amount used by the key-range
// and velocity-range generators.
type Range struct {
	Lo uint8
	Hi uint8
}

// GenAmount is a generator's value, readable as a signed 16-bit integer,
// an unsigned 16-bit integer, or a lo/hi range, mirroring the union the
// wire format packs into a single 16-bit field.
type GenAmount struct {
	IValue int16
	UValue uint16
	Range  Range
}

// generatorMap is a zone's merged set of generator amounts, keyed by
// generator type.
type generatorMap map[GeneratorType]GenAmount

func (m generatorMap) clone() generatorMap {
	out := make(generatorMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// defaultGenerators lists the instrument generators a zone starts with
// before any zone-specific or global overrides are layered on, per the
// SoundFont 2.01 specification's default values.
func defaultGenerators() generatorMap {
	return generatorMap{
		GenInitialFilterCutoffFrequency: {UValue: 13500},
		GenDelayModulationLFO:           {IValue: -12000},
		GenDelayVibratoLFO:              {IValue: -12000},
		GenDelayModulationEnvelope:      {IValue: -12000},
		GenAttackModulationEnvelope:     {IValue: -12000},
		GenHoldModulationEnvelope:       {IValue: -12000},
		GenDecayModulationEnvelope:      {IValue: -12000},
		GenReleaseModulationEnvelope:    {IValue: -12000},
		GenDelayVolumeEnvelope:          {IValue: -12000},
		GenAttackVolumeEnvelope:         {IValue: -12000},
		GenHoldVolumeEnvelope:           {IValue: -12000},
		GenDecayVolumeEnvelope:          {IValue: -12000},
		GenReleaseVolumeEnvelope:        {IValue: -12000},
		GenKeyRange:                     {Range: Range{Lo: 0, Hi: 127}},
		GenVelocityRange:                {Range: Range{Lo: 0, Hi: 127}},
		GenKeyNumber:                    {IValue: -1},
		GenVelocity:                     {IValue: -1},
		GenScaleTuning:                  {UValue: 100},
		GenOverridingRootKey:            {IValue: -1},
	}
}

// additiveUValueGenerators is the subset of preset-zone generators that
// merge onto the instrument zone by adding their unsigned value.
var additiveUValueGenerators = map[GeneratorType]bool{
	GenInitialFilterCutoffFrequency: true,
	GenInitialFilterQ:               true,
	GenChorusEffectsSend:            true,
	GenReverbEffectsSend:            true,
	GenSustainModulationEnvelope:    true,
	GenSustainVolumeEnvelope:        true,
	GenInitialAttenuation:           true,
	GenScaleTuning:                  true,
}

// additiveIValueGenerators is the subset of preset-zone generators that
// merge onto the instrument zone by adding their signed value. Every
// other preset-zone generator is ignored by fillSampleInfo.
var additiveIValueGenerators = map[GeneratorType]bool{
	GenModulationLFOToPitch:               true,
	GenVibratoLFOToPitch:                  true,
	GenModulationEnvelopeToPitch:          true,
	GenModulationLFOToFilterCutoff:        true,
	GenModulationEnvelopeToFilterCutoff:   true,
	GenModulationLFOToVolume:              true,
	GenPan:                                true,
	GenDelayModulationLFO:                 true,
	GenFrequencyModulationLFO:             true,
	GenDelayVibratoLFO:                    true,
	GenFrequencyVibratoLFO:                true,
	GenDelayModulationEnvelope:            true,
	GenAttackModulationEnvelope:           true,
	GenHoldModulationEnvelope:             true,
	GenDecayModulationEnvelope:            true,
	GenReleaseModulationEnvelope:          true,
	GenKeyNumberToModulationEnvelopeHold:  true,
	GenKeyNumberToModulationEnvelopeDecay: true,
	GenDelayVolumeEnvelope:                true,
	GenAttackVolumeEnvelope:               true,
	GenHoldVolumeEnvelope:                 true,
	GenDecayVolumeEnvelope:                true,
	GenReleaseVolumeEnvelope:              true,
	GenKeyNumberToVolumeEnvelopeHold:      true,
	GenKeyNumberToVolumeEnvelopeDecay:     true,
	GenCoarseTune:                         true,
	GenFineTune:                           true,
}
