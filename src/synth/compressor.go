package synth

import (
	"encoding/json"
	"log"
	"math"
	"strconv"
)

// ----- Compressor Params ----- //

type compressorParams struct {
	threshold float64 // dB, -100-0
	ratio     float64 // 1-20
	attack    float64 // s, 0-1
	release   float64 // s, 0-2
	knee      float64 // dB, 0-40
	dryWet    float64 // 0-1
}
type compressorJSON struct {
	Threshold float64 `json:"threshold"`
	Ratio     float64 `json:"ratio"`
	Attack    float64 `json:"attack"`
	Release   float64 `json:"release"`
	Knee      float64 `json:"knee"`
	DryWet    float64 `json:"dryWet"`
}

func (p *compressorParams) validate() error {
	if err := validateRange("compression.threshold", p.threshold, -100, 0); err != nil {
		return err
	}
	if err := validateRange("compression.ratio", p.ratio, 1, 20); err != nil {
		return err
	}
	if err := validateRange("compression.attack", p.attack, 0, 1); err != nil {
		return err
	}
	if err := validateRange("compression.release", p.release, 0, 2); err != nil {
		return err
	}
	if err := validateRange("compression.knee", p.knee, 0, 40); err != nil {
		return err
	}
	return validateRange("compression.dryWet", p.dryWet, 0, 1)
}

func (p *compressorParams) applyJSON(data json.RawMessage) {
	var j compressorJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to compressorParams")
		return
	}
	p.threshold = j.Threshold
	p.ratio = j.Ratio
	p.attack = j.Attack
	p.release = j.Release
	p.knee = j.Knee
	p.dryWet = j.DryWet
}
func (p *compressorParams) toJSON() json.RawMessage {
	return toRawMessage(&compressorJSON{
		Threshold: p.threshold,
		Ratio:     p.ratio,
		Attack:    p.attack,
		Release:   p.release,
		Knee:      p.knee,
		DryWet:    p.dryWet,
	})
}
func (p *compressorParams) set(key string, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	next := *p
	switch key {
	case "threshold":
		next.threshold = v
	case "ratio":
		next.ratio = v
	case "attack":
		next.attack = v
	case "release":
		next.release = v
	case "knee":
		next.knee = v
	case "dryWet":
		next.dryWet = v
	default:
		return &StructuralError{Path: "effects.compression." + key, Reason: "unknown parameter"}
	}
	if err := next.validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

// ----- Compressor ----- //

type compressor struct {
	threshold   float64
	ratio       float64
	knee        float64
	attackCoef  float64
	releaseCoef float64
	makeup      float64 // linear
	dryWet      *rampValue
	envelope    float64 // detector state, linear
	reductionDb float64 // telemetry, >= 0
}

func newCompressor(p *compressorParams) *compressor {
	c := &compressor{dryWet: newRampValue(p.dryWet)}
	c.configure(p)
	return c
}

func detectorCoef(seconds float64) float64 {
	if seconds <= 0 {
		return 1
	}
	return 1 - math.Exp(-secPerSample/seconds)
}

func (c *compressor) configure(p *compressorParams) {
	c.threshold = p.threshold
	c.ratio = p.ratio
	c.knee = p.knee
	c.attackCoef = detectorCoef(p.attack)
	c.releaseCoef = detectorCoef(p.release)
	// approximate the loudness lost to gain reduction
	c.makeup = dbToGain(-p.threshold * (1 - 1/p.ratio) / 2)
}

func (c *compressor) applyParams(p *compressorParams) {
	c.configure(p)
	c.dryWet.rampTo(p.dryWet, paramRampTime)
}

// gainReductionDb computes the (negative) dB change for a detector level,
// with a soft knee around the threshold.
func (c *compressor) gainReductionDb(levelDb float64) float64 {
	over := levelDb - c.threshold
	slope := 1/c.ratio - 1
	if c.knee > 0 && 2*math.Abs(over) <= c.knee {
		d := over + c.knee/2
		return slope * d * d / (2 * c.knee)
	}
	if over <= 0 {
		return 0
	}
	return slope * over
}

func (c *compressor) step(in float64) float64 {
	c.dryWet.step()
	level := math.Abs(in)
	if level > c.envelope {
		c.envelope += c.attackCoef * (level - c.envelope)
	} else {
		c.envelope += c.releaseCoef * (level - c.envelope)
	}
	grDb := c.gainReductionDb(gainToDb(c.envelope))
	c.reductionDb = -grDb
	wet := in * dbToGain(grDb) * c.makeup
	dw := c.dryWet.value
	return in*(1-dw) + wet*dw
}

// reduction reports the current gain reduction in dB for metering.
func (c *compressor) reduction() float64 {
	return c.reductionDb
}
