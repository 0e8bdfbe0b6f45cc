package synth

import (
	"testing"
)

func TestRampLinear(t *testing.T) {
	rv := newRampValue(0)
	rv.rampTo(1, 0.01) // 480 samples
	for i := 0; i < 241; i++ {
		rv.step()
	}
	expectNearlyEqual(t, rv.value, 0.5)
	for i := 0; i < 240; i++ {
		rv.step()
	}
	expectNearlyEqual(t, rv.value, 1)
	expectEqual(t, rv.ramping(), false)
}

func TestRampAnchorsMidFlight(t *testing.T) {
	rv := newRampValue(0)
	rv.rampTo(1, 0.01)
	for i := 0; i < 241; i++ {
		rv.step()
	}
	expectNearlyEqual(t, rv.value, 0.5)
	// retarget mid-flight: the new ramp starts from the current value,
	// no jump to the old target
	rv.rampTo(0, 0.01)
	rv.step()
	expectNearlyEqual(t, rv.value, 0.5)
	for i := 0; i < 481; i++ {
		rv.step()
	}
	expectNearlyEqual(t, rv.value, 0)
}

func TestRampAfter(t *testing.T) {
	rv := newRampValue(0)
	rv.rampAfter(10*secPerSample, 1, 0.01)
	for i := 0; i < 10; i++ {
		rv.step()
		expectNearlyEqual(t, rv.value, 0)
	}
	rv.step()
	if rv.value <= 0 {
		t.Errorf("expected ramp to have started, got %v", rv.value)
	}
	for i := 0; i < 481; i++ {
		rv.step()
	}
	expectNearlyEqual(t, rv.value, 1)
}

func TestRampExponential(t *testing.T) {
	rv := newRampValue(1)
	rv.expTo(0, 0.001, 0.01)
	prev := rv.value
	ended := false
	for i := 0; i < sampleRate; i++ {
		ended = rv.step()
		if rv.value > prev {
			t.Fatalf("expected monotonic decay, got %v after %v", rv.value, prev)
		}
		prev = rv.value
		if ended {
			break
		}
	}
	expectEqual(t, ended, true)
	expectNearlyEqual(t, rv.value, 0)
	expectEqual(t, rv.ramping(), false)
}

func TestRampSetIsImmediate(t *testing.T) {
	rv := newRampValue(0)
	rv.rampTo(1, 1)
	rv.set(0.25)
	expectNearlyEqual(t, rv.value, 0.25)
	expectEqual(t, rv.ramping(), false)
}
