package soundfont

import "fmt"

// SampleInfo bundles a sample's playback metadata with the fully merged
// generator map (instrument-zone generators with the preset zone's
// additive subset layered on top) a voice needs to configure its DSP
// pipeline.
type SampleInfo struct {
	Sample     *Sample
	Generators generatorMap
}

// Generator reads a merged generator amount, returning the SoundFont
// default for that type if the zone never set it.
func (s *SampleInfo) Generator(g GeneratorType) GenAmount {
	if v, ok := s.Generators[g]; ok {
		return v
	}
	return defaultGenerators()[g]
}

// KeyInfo is the result of a (bank, preset, key, velocity) query: the
// sample(s) and generator maps a voice needs to start playing.
type KeyInfo struct {
	Stereo bool
	Left   SampleInfo
	Right  SampleInfo
}

// Buffer returns the shared, read-only float32 sample buffer backing
// every Sample's Start/End/LoopStart/LoopEnd offsets.
func (sf *SoundFont) Buffer() []float32 { return sf.buffer }

// DefaultPreset returns the first preset in file order, used as the
// engine's last-resort fallback when a bank/preset lookup fails
// entirely.
func (sf *SoundFont) DefaultPreset() (PresetID, bool) {
	if len(sf.presetOrder) == 0 {
		return PresetID{}, false
	}
	return sf.presetOrder[0], true
}

// HasPreset reports whether the bank contains the given (bank, number)
// preset.
func (sf *SoundFont) HasPreset(bank, number uint16) bool {
	_, ok := sf.presets[PresetID{Bank: bank, Number: number}]
	return ok
}

// GetKeyInfo resolves a (bank, preset, key, velocity) query to the
// sample(s) and merged generators a voice should start with. It returns
// false if the bank/preset doesn't exist or no zone in it covers the
// given key/velocity.
func (sf *SoundFont) GetKeyInfo(bank, number uint16, key, velocity uint8) (KeyInfo, bool) {
	p, ok := sf.presets[PresetID{Bank: bank, Number: number}]
	if !ok {
		return KeyInfo{}, false
	}

	presetZone, ok := findPresetZone(&p, key, velocity)
	if !ok {
		return KeyInfo{}, false
	}

	instIdx := presetZone.generators[GenInstrument].IValue
	if instIdx < 0 || int(instIdx) >= len(sf.instruments) {
		return KeyInfo{}, false
	}
	inst := &sf.instruments[instIdx]

	instrumentZone, ok := findInstrumentZone(inst, key, velocity, -1)
	if !ok {
		return KeyInfo{}, false
	}

	sampleID := int(instrumentZone.generators[GenSampleID].IValue)
	if sampleID < 0 || sampleID >= len(sf.samples) {
		return KeyInfo{}, false
	}
	sample := &sf.samples[sampleID]

	var result KeyInfo

	switch sample.SampleType {
	case SampleTypeMono, SampleTypeRomMono:
		result.Stereo = false
		result.Left.Sample = sample
		result.Left.Generators = fillSampleInfo(instrumentZone, presetZone)
		return result, true

	default:
		result.Stereo = true
		instrumentZone2, ok := findInstrumentZone(inst, key, velocity, sampleID)
		if !ok {
			return KeyInfo{}, false
		}
		sampleID2 := int(instrumentZone2.generators[GenSampleID].IValue)
		if sampleID2 < 0 || sampleID2 >= len(sf.samples) {
			return KeyInfo{}, false
		}
		sample2 := &sf.samples[sampleID2]

		if sample.SampleType == SampleTypeLeft || sample.SampleType == SampleTypeRomLeft {
			result.Left.Sample = sample
			result.Right.Sample = sample2
			result.Left.Generators = fillSampleInfo(instrumentZone, presetZone)
			result.Right.Generators = fillSampleInfo(instrumentZone2, presetZone)
		} else {
			result.Right.Sample = sample
			result.Left.Sample = sample2
			result.Right.Generators = fillSampleInfo(instrumentZone, presetZone)
			result.Left.Generators = fillSampleInfo(instrumentZone2, presetZone)
		}
		return result, true
	}
}

func findPresetZone(p *preset, key, velocity uint8) (*presetZone, bool) {
	for i := range p.zones {
		z := &p.zones[i]
		if key >= z.keysRange.Lo && key <= z.keysRange.Hi &&
			velocity >= z.velocitiesRange.Lo && velocity <= z.velocitiesRange.Hi {
			return z, true
		}
	}
	return nil, false
}

// findInstrumentZone finds the zone covering (key, velocity), skipping
// any zone whose sample matches excludeSampleID (used to find a stereo
// partner zone distinct from the one already chosen).
func findInstrumentZone(inst *instrument, key, velocity uint8, excludeSampleID int) (*instrumentZone, bool) {
	for i := range inst.zones {
		z := &inst.zones[i]
		if key >= z.keysRange.Lo && key <= z.keysRange.Hi &&
			velocity >= z.velocitiesRange.Lo && velocity <= z.velocitiesRange.Hi &&
			int(z.generators[GenSampleID].IValue) != excludeSampleID {
			return z, true
		}
	}
	return nil, false
}

// fillSampleInfo merges a preset zone's additive generator subset onto
// an instrument zone's generators: instrument-zone generators are taken
// as-is, and the preset zone's allow-listed generators are added on top
// (uvalue-additive or ivalue-additive, per generator). Every other
// preset-zone generator is ignored.
func fillSampleInfo(instrumentZone *instrumentZone, presetZone *presetZone) generatorMap {
	result := instrumentZone.generators.clone()

	for genType, amount := range presetZone.generators {
		switch {
		case additiveUValueGenerators[genType]:
			existing := result[genType]
			existing.UValue += amount.UValue
			result[genType] = existing

		case additiveIValueGenerators[genType]:
			existing := result[genType]
			existing.IValue += amount.IValue
			result[genType] = existing
		}
	}

	return result
}

func (sf *SoundFont) String() string {
	return fmt.Sprintf("SoundFont(%q, %d presets, %d instruments, %d samples)",
		sf.Information.Name, len(sf.presets), len(sf.instruments), len(sf.samples))
}
