package synth

import (
	"encoding/json"
	"log"
	"strconv"
)

// ----- ADSR Params ----- //

type adsrParams struct {
	attack  float64 // s
	decay   float64 // s
	sustain float64 // 0-1
	release float64 // s
}
type adsrJSON struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

func (a *adsrParams) validate() error {
	if err := validateRange("attack", a.attack, 0, 10); err != nil {
		return err
	}
	if err := validateRange("decay", a.decay, 0, 10); err != nil {
		return err
	}
	if err := validateRange("sustain", a.sustain, 0, 1); err != nil {
		return err
	}
	return validateRange("release", a.release, 0, 10)
}

func (a *adsrParams) applyJSON(data json.RawMessage) {
	var j adsrJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to adsrParams")
		return
	}
	a.attack = j.Attack
	a.decay = j.Decay
	a.sustain = j.Sustain
	a.release = j.Release
}
func (a *adsrParams) toJSON() json.RawMessage {
	return toRawMessage(&adsrJSON{
		Attack:  a.attack,
		Decay:   a.decay,
		Sustain: a.sustain,
		Release: a.release,
	})
}
func (a *adsrParams) set(key string, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	next := *a
	switch key {
	case "attack":
		next.attack = v
	case "decay":
		next.decay = v
	case "sustain":
		next.sustain = v
	case "release":
		next.release = v
	default:
		return &StructuralError{Path: "synthesis." + key, Reason: "unknown parameter"}
	}
	if err := next.validate(); err != nil {
		return err
	}
	*a = next
	return nil
}

// ----- ADSR ----- //

const (
	phaseIdle = iota
	phaseAttack
	phaseDecay
	phaseSustain
	phaseRelease
)

/*
  1 +     x
    |    / \
    |   /   \
  s +  /     x------x
    | /              \
    |/                \
  0 +-----+--+------+---
    |a    |d |      |r |
*/
// The gain curve is piecewise-linear, driven by the ramp primitive so that
// note-off mid-attack anchors the in-progress value instead of jumping.
type adsr struct {
	params adsrParams
	phase  int
	tvalue *rampValue
}

func newADSR(p *adsrParams) *adsr {
	return &adsr{
		params: *p, // copied; later template edits affect future voices only
		phase:  phaseIdle,
		tvalue: newRampValue(0),
	}
}

func (a *adsr) noteOn() {
	a.phase = phaseAttack
	a.tvalue.rampTo(1, a.params.attack)
}

func (a *adsr) noteOff() {
	a.phase = phaseRelease
	a.tvalue.rampTo(0, a.params.release)
}

func (a *adsr) step() float64 {
	ended := a.tvalue.step()
	switch a.phase {
	case phaseAttack:
		if ended {
			a.phase = phaseDecay
			a.tvalue.rampTo(a.params.sustain, a.params.decay)
		}
	case phaseDecay:
		if ended {
			a.phase = phaseSustain
		}
	case phaseSustain:
		// hold until noteOff
	case phaseRelease:
		if ended {
			a.phase = phaseIdle
		}
	}
	return a.tvalue.value
}

func (a *adsr) value() float64 {
	return a.tvalue.value
}
