package synth

import (
	"encoding/json"
	"log"
)

// ----- Params ----- //

// params is the full mutable parameter state of the engine: the voice
// template (wave, detune, envelope), the effect chain settings and the
// master volume. Voices copy the template at creation.
type params struct {
	wave         int
	detune       [bankSize]float64 // cents
	adsr         *adsrParams
	saturation   *saturationParams
	compressor   *compressorParams
	reverb       *reverbParams
	masterVolume float64
}

func newParams() *params {
	return &params{
		wave:   waveSine,
		detune: [bankSize]float64{-7, 0, 7},
		adsr:   &adsrParams{attack: 0.01, decay: 0.1, sustain: 0.7, release: 0.2},
		saturation: &saturationParams{
			amount: 0.3,
			tone:   0.5,
			dryWet: 0.5,
		},
		compressor: &compressorParams{
			threshold: -24,
			ratio:     4,
			attack:    0.01,
			release:   0.25,
			knee:      30,
			dryWet:    1,
		},
		reverb: &reverbParams{
			decayTime: 2,
			roomSize:  0.5,
			preDelay:  0.03,
			tone:      8000,
			dryWet:    0.35,
		},
		masterVolume: 0.8,
	}
}

func (p *params) setValue(id paramID, v float64) error {
	switch id {
	case paramSynthAttack, paramSynthDecay, paramSynthSustain, paramSynthRelease:
		next := *p.adsr
		switch id {
		case paramSynthAttack:
			next.attack = v
		case paramSynthDecay:
			next.decay = v
		case paramSynthSustain:
			next.sustain = v
		case paramSynthRelease:
			next.release = v
		}
		if err := next.validate(); err != nil {
			return err
		}
		*p.adsr = next
	case paramSynthDetune0, paramSynthDetune1, paramSynthDetune2:
		if err := validateRange("detune", v, -maxDetune, maxDetune); err != nil {
			return err
		}
		p.detune[int(id-paramSynthDetune0)] = v
	case paramSatAmount, paramSatTone, paramSatDryWet:
		next := *p.saturation
		switch id {
		case paramSatAmount:
			next.amount = v
		case paramSatTone:
			next.tone = v
		case paramSatDryWet:
			next.dryWet = v
		}
		if err := next.validate(); err != nil {
			return err
		}
		*p.saturation = next
	case paramCompThreshold, paramCompRatio, paramCompAttack, paramCompRelease, paramCompKnee, paramCompDryWet:
		next := *p.compressor
		switch id {
		case paramCompThreshold:
			next.threshold = v
		case paramCompRatio:
			next.ratio = v
		case paramCompAttack:
			next.attack = v
		case paramCompRelease:
			next.release = v
		case paramCompKnee:
			next.knee = v
		case paramCompDryWet:
			next.dryWet = v
		}
		if err := next.validate(); err != nil {
			return err
		}
		*p.compressor = next
	case paramRevDecayTime, paramRevRoomSize, paramRevPreDelay, paramRevTone, paramRevDryWet:
		next := *p.reverb
		switch id {
		case paramRevDecayTime:
			next.decayTime = v
		case paramRevRoomSize:
			next.roomSize = v
		case paramRevPreDelay:
			next.preDelay = v
		case paramRevTone:
			next.tone = v
		case paramRevDryWet:
			next.dryWet = v
		}
		if err := next.validate(); err != nil {
			return err
		}
		*p.reverb = next
	case paramMasterVolume:
		if err := validateRange("master.volume", v, 0, 1); err != nil {
			return err
		}
		p.masterVolume = v
	default:
		return &StructuralError{Path: "?", Reason: "unknown parameter id"}
	}
	return nil
}

func (p *params) getValue(id paramID) float64 {
	switch id {
	case paramSynthAttack:
		return p.adsr.attack
	case paramSynthDecay:
		return p.adsr.decay
	case paramSynthSustain:
		return p.adsr.sustain
	case paramSynthRelease:
		return p.adsr.release
	case paramSynthDetune0, paramSynthDetune1, paramSynthDetune2:
		return p.detune[int(id-paramSynthDetune0)]
	case paramSatAmount:
		return p.saturation.amount
	case paramSatTone:
		return p.saturation.tone
	case paramSatDryWet:
		return p.saturation.dryWet
	case paramCompThreshold:
		return p.compressor.threshold
	case paramCompRatio:
		return p.compressor.ratio
	case paramCompAttack:
		return p.compressor.attack
	case paramCompRelease:
		return p.compressor.release
	case paramCompKnee:
		return p.compressor.knee
	case paramCompDryWet:
		return p.compressor.dryWet
	case paramRevDecayTime:
		return p.reverb.decayTime
	case paramRevRoomSize:
		return p.reverb.roomSize
	case paramRevPreDelay:
		return p.reverb.preDelay
	case paramRevTone:
		return p.reverb.tone
	case paramRevDryWet:
		return p.reverb.dryWet
	case paramMasterVolume:
		return p.masterVolume
	}
	return 0
}

// preset captures the parameter state in the persisted form.
func (p *params) preset(id string, name string) *Preset {
	return &Preset{
		ID:   id,
		Name: name,
		Synthesis: SynthesisPreset{
			Detune:  append([]float64(nil), p.detune[:]...),
			Attack:  p.adsr.attack,
			Decay:   p.adsr.decay,
			Sustain: p.adsr.sustain,
			Release: p.adsr.release,
		},
		Effects: EffectsPreset{
			Saturation: SaturationPreset{
				Amount: p.saturation.amount,
				Tone:   p.saturation.tone,
				DryWet: p.saturation.dryWet,
			},
			Compression: CompressionPreset{
				Threshold: p.compressor.threshold,
				Ratio:     p.compressor.ratio,
				Attack:    p.compressor.attack,
				Release:   p.compressor.release,
				Knee:      p.compressor.knee,
				DryWet:    p.compressor.dryWet,
			},
			Reverb: ReverbPreset{
				DecayTime: p.reverb.decayTime,
				RoomSize:  p.reverb.roomSize,
				PreDelay:  p.reverb.preDelay,
				Tone:      p.reverb.tone,
				DryWet:    p.reverb.dryWet,
			},
		},
		MasterVolume: p.masterVolume,
	}
}

type paramsJSON struct {
	Wave       string          `json:"wave"`
	Detune     []float64       `json:"detune"`
	Adsr       json.RawMessage `json:"adsr"`
	Saturation json.RawMessage `json:"saturation"`
	Compressor json.RawMessage `json:"compression"`
	Reverb     json.RawMessage `json:"reverb"`
	Master     float64         `json:"masterVolume"`
}

func (p *params) applyJSON(data json.RawMessage) {
	var j paramsJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to params")
		return
	}
	p.wave = waveKindFromString(j.Wave)
	if len(j.Detune) == bankSize {
		copy(p.detune[:], j.Detune)
	} else {
		log.Println("failed to apply JSON to detune")
	}
	p.adsr.applyJSON(j.Adsr)
	p.saturation.applyJSON(j.Saturation)
	p.compressor.applyJSON(j.Compressor)
	p.reverb.applyJSON(j.Reverb)
	p.masterVolume = j.Master
}
func (p *params) toJSON() json.RawMessage {
	return toRawMessage(&paramsJSON{
		Wave:       waveKindToString(p.wave),
		Detune:     append([]float64(nil), p.detune[:]...),
		Adsr:       p.adsr.toJSON(),
		Saturation: p.saturation.toJSON(),
		Compressor: p.compressor.toJSON(),
		Reverb:     p.reverb.toJSON(),
		Master:     p.masterVolume,
	})
}

func (p *params) validate() error {
	var errs ValidationErrors
	for _, c := range p.detune {
		if err := validateRange("detune", c, -maxDetune, maxDetune); err != nil {
			errs = append(errs, err)
		}
	}
	if err := p.adsr.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := p.saturation.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := p.compressor.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := p.reverb.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := validateRange("masterVolume", p.masterVolume, 0, 1); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
