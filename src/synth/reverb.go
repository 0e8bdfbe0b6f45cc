package synth

import (
	"encoding/json"
	"log"
	"math"
	"strconv"
)

// ----- Reverb Params ----- //

type reverbParams struct {
	decayTime float64 // s, 0.1-10
	roomSize  float64 // 0-1
	preDelay  float64 // s, 0-1
	tone      float64 // Hz, lowpass cutoff on the wet path
	dryWet    float64 // 0-1
}
type reverbJSON struct {
	DecayTime float64 `json:"decayTime"`
	RoomSize  float64 `json:"roomSize"`
	PreDelay  float64 `json:"preDelay"`
	Tone      float64 `json:"tone"`
	DryWet    float64 `json:"dryWet"`
}

func (p *reverbParams) validate() error {
	if err := validateRange("reverb.decayTime", p.decayTime, 0.1, 10); err != nil {
		return err
	}
	if err := validateRange("reverb.roomSize", p.roomSize, 0, 1); err != nil {
		return err
	}
	if err := validateRange("reverb.preDelay", p.preDelay, 0, 1); err != nil {
		return err
	}
	if err := validateRange("reverb.tone", p.tone, 100, maxFreq); err != nil {
		return err
	}
	return validateRange("reverb.dryWet", p.dryWet, 0, 1)
}

func (p *reverbParams) applyJSON(data json.RawMessage) {
	var j reverbJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to reverbParams")
		return
	}
	p.decayTime = j.DecayTime
	p.roomSize = j.RoomSize
	p.preDelay = j.PreDelay
	p.tone = j.Tone
	p.dryWet = j.DryWet
}
func (p *reverbParams) toJSON() json.RawMessage {
	return toRawMessage(&reverbJSON{
		DecayTime: p.decayTime,
		RoomSize:  p.roomSize,
		PreDelay:  p.preDelay,
		Tone:      p.tone,
		DryWet:    p.dryWet,
	})
}
func (p *reverbParams) set(key string, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	next := *p
	switch key {
	case "decayTime":
		next.decayTime = v
	case "roomSize":
		next.roomSize = v
	case "preDelay":
		next.preDelay = v
	case "tone":
		next.tone = v
	case "dryWet":
		next.dryWet = v
	default:
		return &StructuralError{Path: "effects.reverb." + key, Reason: "unknown parameter"}
	}
	if err := next.validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

// ----- Delay Line ----- //

type delayLine struct {
	cursor int
	past   []float64
}

func newDelayLine(seconds float64) *delayLine {
	length := int(sampleRate * seconds)
	if length < 1 {
		length = 1
	}
	return &delayLine{past: make([]float64, length)}
}

func (d *delayLine) resize(seconds float64) {
	length := int(sampleRate * seconds)
	if length < 1 {
		length = 1
	}
	if cap(d.past) >= length {
		d.past = d.past[0:length]
	} else {
		d.past = make([]float64, length)
	}
	if d.cursor >= len(d.past) {
		d.cursor = 0
	}
}

func (d *delayLine) step(in float64) {
	d.past[d.cursor] = in
	d.cursor++
	if d.cursor >= len(d.past) {
		d.cursor = 0
	}
}

// delayed returns the oldest sample (delay == len(past)).
func (d *delayLine) delayed() float64 {
	return d.past[d.cursor]
}

// delayedBy returns the sample written n steps ago (n <= len(past)).
func (d *delayLine) delayedBy(n int) float64 {
	i := d.cursor - n
	if i < 0 {
		i += len(d.past)
	}
	return d.past[i]
}

// ----- Reverb ----- //

// Room reflections approximated with parallel prime-ratio delay taps feeding
// a shared tone lowpass and out to the wet mix. The topology is strictly
// feed-forward: routing the tone filter back into the pre-delay stage makes
// the loop gain unbounded.
const reverbTaps = 8

var tapPrimes = [reverbTaps]int{29, 37, 43, 53, 61, 71, 79, 89}

type reverb struct {
	preDelay   *delayLine
	line       *delayLine
	tapOffsets [reverbTaps]int
	tapGains   [reverbTaps]float64
	tone       *onePoleLP
	dryWet     *rampValue
}

func newReverb(p *reverbParams) *reverb {
	r := &reverb{
		preDelay: newDelayLine(p.preDelay),
		line:     newDelayLine(maxTapSeconds()),
		tone:     newOnePoleLP(p.tone),
		dryWet:   newRampValue(p.dryWet),
	}
	r.configureTaps(p)
	return r
}

func tapSeconds(prime int, roomSize float64) float64 {
	return float64(prime) * 0.001 * (0.2 + 1.8*roomSize)
}
func maxTapSeconds() float64 {
	return tapSeconds(tapPrimes[reverbTaps-1], 1)
}

func (r *reverb) configureTaps(p *reverbParams) {
	for i, prime := range tapPrimes {
		t := tapSeconds(prime, p.roomSize)
		r.tapOffsets[i] = int(t * sampleRate)
		// exponential falloff: half the energy every decayTime
		r.tapGains[i] = math.Pow(0.5, t/p.decayTime)
	}
}

func (r *reverb) applyParams(p *reverbParams) {
	r.preDelay.resize(p.preDelay)
	r.configureTaps(p)
	r.tone.setCutoff(p.tone)
	r.dryWet.rampTo(p.dryWet, paramRampTime)
}

func (r *reverb) step(in float64) float64 {
	r.dryWet.step()
	r.preDelay.step(in)
	r.line.step(r.preDelay.delayed())
	wet := 0.0
	for i := 0; i < reverbTaps; i++ {
		wet += r.line.delayedBy(r.tapOffsets[i]) * r.tapGains[i]
	}
	wet = r.tone.step(wet / reverbTaps)
	dw := r.dryWet.value
	return in*(1-dw) + wet*dw
}
