package synth

import (
	"testing"
)

// attack 0 makes the detector track the input instantly, so the gain
// computer can be observed directly.
func instantCompressor(knee float64) *compressor {
	return newCompressor(&compressorParams{
		threshold: -24,
		ratio:     4,
		attack:    0,
		release:   0,
		knee:      knee,
		dryWet:    1,
	})
}

func TestCompressorBelowThreshold(t *testing.T) {
	c := instantCompressor(0)
	in := 0.01 // -40 dB
	out := c.step(in)
	expectNearlyEqual(t, c.reduction(), 0)
	expectNearlyEqual(t, out, in*c.makeup)
}

func TestCompressorAboveThreshold(t *testing.T) {
	c := instantCompressor(0)
	c.step(1) // 0 dB, 24 dB over threshold at ratio 4
	expectNearlyEqual(t, c.reduction(), 18)
}

func TestCompressorSoftKnee(t *testing.T) {
	hard := instantCompressor(0)
	soft := instantCompressor(40)
	atThreshold := dbToGain(-24)
	hard.step(atThreshold)
	soft.step(atThreshold)
	expectNearlyEqual(t, hard.reduction(), 0)
	// inside the knee the soft curve already reduces
	expectNearlyEqual(t, soft.reduction(), 3.75)
}

func TestCompressorMakeup(t *testing.T) {
	c := instantCompressor(0)
	// half the threshold headroom at the given ratio
	expectNearlyEqual(t, c.makeup, dbToGain(9))
}

func TestCompressorParamsValidate(t *testing.T) {
	p := &compressorParams{threshold: -24, ratio: 4, attack: 0.01, release: 0.25, knee: 30, dryWet: 1}
	expectNoError(t, p.validate())

	expectValidationError(t, p.set("ratio", "25"))
	expectNearlyEqual(t, p.ratio, 4)

	expectValidationError(t, p.set("threshold", "10"))
	expectNearlyEqual(t, p.threshold, -24)

	expectStructuralError(t, p.set("gain", "1"))

	expectNoError(t, p.set("knee", "12"))
	expectNearlyEqual(t, p.knee, 12)
}
