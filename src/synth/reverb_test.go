package synth

import (
	"math"
	"testing"
)

func TestDelayLine(t *testing.T) {
	d := newDelayLine(8 * secPerSample)
	for i := 1; i <= 5; i++ {
		d.step(float64(i))
	}
	expectNearlyEqual(t, d.delayedBy(1), 5)
	expectNearlyEqual(t, d.delayedBy(5), 1)
	expectNearlyEqual(t, d.delayed(), 0)
	for i := 6; i <= 8; i++ {
		d.step(float64(i))
	}
	expectNearlyEqual(t, d.delayed(), 1)
}

func TestReverbTapGainsDecay(t *testing.T) {
	p := &reverbParams{decayTime: 2, roomSize: 0.5, preDelay: 0.03, tone: 8000, dryWet: 1}
	r := newReverb(p)
	expectNearlyEqual(t, r.tapGains[0], math.Pow(0.5, tapSeconds(tapPrimes[0], 0.5)/2))
	for i := 1; i < reverbTaps; i++ {
		if r.tapGains[i] >= r.tapGains[i-1] {
			t.Fatalf("expected tap gains to fall with delay, got %v then %v", r.tapGains[i-1], r.tapGains[i])
		}
		if r.tapOffsets[i] <= r.tapOffsets[i-1] {
			t.Fatalf("expected tap offsets to grow, got %v then %v", r.tapOffsets[i-1], r.tapOffsets[i])
		}
	}
}

// An impulse must come out again: no feedback path means the tail is over
// once every tap has played and the tone filter has drained.
func TestReverbImpulseIsFinite(t *testing.T) {
	p := &reverbParams{decayTime: 2, roomSize: 0.5, preDelay: 0.03, tone: 8000, dryWet: 1}
	r := newReverb(p)
	out := make([]float64, sampleRate)
	out[0] = r.step(1)
	for i := 1; i < len(out); i++ {
		out[i] = r.step(0)
	}
	peak := 0.0
	for _, v := range out {
		if math.Abs(v) > peak {
			peak = math.Abs(v)
		}
	}
	if peak > 1 {
		t.Errorf("expected bounded impulse response, got peak %v", peak)
	}
	if peak == 0 {
		t.Errorf("expected the impulse to reach the output")
	}
	for i := len(out) - 1000; i < len(out); i++ {
		if math.Abs(out[i]) > 1e-6 {
			t.Fatalf("expected the tail to die out, got %v at %v", out[i], i)
		}
	}
}

func TestReverbParamsValidate(t *testing.T) {
	p := &reverbParams{decayTime: 2, roomSize: 0.5, preDelay: 0.03, tone: 8000, dryWet: 0.35}
	expectNoError(t, p.validate())

	expectValidationError(t, p.set("decayTime", "0.05"))
	expectNearlyEqual(t, p.decayTime, 2)

	expectValidationError(t, p.set("roomSize", "1.5"))
	expectNearlyEqual(t, p.roomSize, 0.5)

	expectStructuralError(t, p.set("damping", "0.5"))

	expectNoError(t, p.set("tone", "4000"))
	expectNearlyEqual(t, p.tone, 4000)
}
