package synth

import (
	"math"
	"math/rand"
)

// ----- Wave Kind ----- //

const (
	waveSine = iota
	waveTriangle
	waveSquare
	wavePulse
	waveSaw
	waveSawRev
	waveNoise
)

func waveKindFromString(s string) int {
	switch s {
	case "sine":
		return waveSine
	case "triangle":
		return waveTriangle
	case "square":
		return waveSquare
	case "pulse":
		return wavePulse
	case "saw":
		return waveSaw
	case "saw-rev":
		return waveSawRev
	case "noise":
		return waveNoise
	}
	return waveSine
}
func waveKindToString(kind int) string {
	switch kind {
	case waveSine:
		return "sine"
	case waveTriangle:
		return "triangle"
	case waveSquare:
		return "square"
	case wavePulse:
		return "pulse"
	case waveSaw:
		return "saw"
	case waveSawRev:
		return "saw-rev"
	case waveNoise:
		return "noise"
	}
	return "sine"
}

// ----- OSC ----- //

type osc struct {
	kind   int
	freq   *rampValue // Hz
	detune *rampValue // cents
	phase  float64
}

func newOsc(kind int, freq float64, detuneCents float64) *osc {
	return &osc{
		kind:   kind,
		freq:   newRampValue(freq),
		detune: newRampValue(detuneCents),
		phase:  rand.Float64() * 2.0 * math.Pi,
	}
}

func (o *osc) step() float64 {
	o.freq.step()
	o.detune.step()
	freq := o.freq.value * math.Pow(2, o.detune.value/1200)
	value := 0.0
	switch o.kind {
	case waveSine:
		value = math.Sin(o.phase)
	case waveTriangle:
		p := positiveMod(o.phase/(2.0*math.Pi), 1)
		if p < 0.5 {
			value = p*4 - 1
		} else {
			value = p*(-4) + 3
		}
	case waveSquare:
		p := positiveMod(o.phase/(2.0*math.Pi), 1)
		if p < 0.5 {
			value = 1
		} else {
			value = -1
		}
	case wavePulse:
		p := positiveMod(o.phase/(2.0*math.Pi), 1)
		if p < 0.25 {
			value = 1
		} else {
			value = -1
		}
	case waveSaw:
		p := positiveMod(o.phase/(2.0*math.Pi), 1)
		value = p*2 - 1
	case waveSawRev:
		p := positiveMod(o.phase/(2.0*math.Pi), 1)
		value = p*(-2) + 1
	case waveNoise:
		value = rand.Float64()*2 - 1
	}
	o.phase += 2.0 * math.Pi * freq * secPerSample
	if o.phase > 2.0*math.Pi {
		o.phase = math.Mod(o.phase, 2.0*math.Pi)
	}
	return value
}

// ----- OSC Bank ----- //

// bankSize oscillators with independent detune build the chorus-like timbre.
const bankSize = 3

type oscBank struct {
	oscs [bankSize]*osc
}

func newOscBank(kind int, freq float64, detune [bankSize]float64) *oscBank {
	b := &oscBank{}
	for i := range b.oscs {
		b.oscs[i] = newOsc(kind, freq, detune[i])
	}
	return b
}

func (b *oscBank) setFrequency(freq float64, duration float64) {
	for _, o := range b.oscs {
		o.freq.rampTo(freq, duration)
	}
}

func (b *oscBank) setDetune(cents [bankSize]float64, duration float64) {
	for i, o := range b.oscs {
		o.detune.rampTo(cents[i], duration)
	}
}

func (b *oscBank) step() float64 {
	value := 0.0
	for _, o := range b.oscs {
		value += o.step()
	}
	return value / bankSize
}
