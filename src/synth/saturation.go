package synth

import (
	"encoding/json"
	"log"
	"math"
	"strconv"
)

// ----- Saturation Params ----- //

type saturationParams struct {
	amount float64 // 0-1
	tone   float64 // 0-1
	dryWet float64 // 0-1
}
type saturationJSON struct {
	Amount float64 `json:"amount"`
	Tone   float64 `json:"tone"`
	DryWet float64 `json:"dryWet"`
}

func (p *saturationParams) validate() error {
	if err := validateRange("saturation.amount", p.amount, 0, 1); err != nil {
		return err
	}
	if err := validateRange("saturation.tone", p.tone, 0, 1); err != nil {
		return err
	}
	return validateRange("saturation.dryWet", p.dryWet, 0, 1)
}

func (p *saturationParams) applyJSON(data json.RawMessage) {
	var j saturationJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to saturationParams")
		return
	}
	p.amount = j.Amount
	p.tone = j.Tone
	p.dryWet = j.DryWet
}
func (p *saturationParams) toJSON() json.RawMessage {
	return toRawMessage(&saturationJSON{
		Amount: p.amount,
		Tone:   p.tone,
		DryWet: p.dryWet,
	})
}
func (p *saturationParams) set(key string, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	next := *p
	switch key {
	case "amount":
		next.amount = v
	case "tone":
		next.tone = v
	case "dryWet":
		next.dryWet = v
	default:
		return &StructuralError{Path: "effects.saturation." + key, Reason: "unknown parameter"}
	}
	if err := next.validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

// ----- Saturation ----- //

// Tape-like harmonic coloration: pre-gain into a tanh soft clipper, output
// compensated by the inverse of the pre-gain so more drive does not read as
// more loudness, then a shelving tone filter before the dry/wet blend.
type saturation struct {
	amount *rampValue
	tone   *rampValue
	dryWet *rampValue
	shelf  *biquad
	// shelf coefficients are rebuilt only when the tone ramp moves
	shelfTone float64
}

const satShelfFreq = 3000.0

func newSaturation(p *saturationParams) *saturation {
	s := &saturation{
		amount: newRampValue(p.amount),
		tone:   newRampValue(p.tone),
		dryWet: newRampValue(p.dryWet),
	}
	a, b := makeBiquadHighShelfH(satShelfFreq/sampleRate, math.Sqrt2/2, toneToShelfGain(p.tone))
	s.shelf = newBiquad(a, b)
	s.shelfTone = p.tone
	return s
}

// tone 0 darkens (-9 dB shelf), 1 brightens (+3 dB)
func toneToShelfGain(tone float64) float64 {
	return -9 + tone*12
}

func (s *saturation) applyParams(p *saturationParams) {
	s.amount.rampTo(p.amount, paramRampTime)
	s.tone.rampTo(p.tone, paramRampTime)
	s.dryWet.rampTo(p.dryWet, paramRampTime)
}

func (s *saturation) step(in float64) float64 {
	s.amount.step()
	s.dryWet.step()
	if s.tone.step() || s.tone.ramping() {
		if math.Abs(s.tone.value-s.shelfTone) > 0.001 {
			s.shelfTone = s.tone.value
			a, b := makeBiquadHighShelfH(satShelfFreq/sampleRate, math.Sqrt2/2, toneToShelfGain(s.shelfTone))
			s.shelf.setCoefficients(a, b)
		}
	}
	preGain := 1 + s.amount.value*9
	// small-signal gain stays at unity for any amount
	shaped := math.Tanh(in*preGain) / preGain
	shaped = s.shelf.step(shaped)
	dw := s.dryWet.value
	return in*(1-dw) + shaped*dw
}
