package synth

import "math"

// ----- Ramp Kind ----- //

const (
	rampNone = iota
	rampLinear
	rampExponential
)

// ----- Ramp Value ----- //

// rampValue is the automation primitive behind every audible parameter.
// A ramp is two-phase: the current value is anchored when the ramp starts,
// then moved toward the target over the duration. An in-flight ramp is
// continued from wherever it is, never overwritten with a jump.
type rampValue struct {
	kind         int
	delay        int     // samples until the ramp starts
	duration     float64 // s
	endThreshold float64
	initialValue float64
	targetValue  float64
	value        float64
	pos          int
}

func newRampValue(value float64) *rampValue {
	return &rampValue{value: value}
}

// set writes the value immediately. Only for configuring a parameter before
// it is connected to the signal path.
func (rv *rampValue) set(value float64) {
	rv.kind = rampNone
	rv.delay = 0
	rv.duration = 0
	rv.initialValue = 0
	rv.targetValue = 0
	rv.value = value
	rv.pos = 0
}

// rampTo anchors the current value and ramps linearly to the target.
func (rv *rampValue) rampTo(targetValue float64, duration float64) {
	rv.rampAfter(0, targetValue, duration)
}

// rampAfter schedules a linear ramp to start delaySec from now. The anchor
// is taken at the start sample, so whatever ramp is in flight at that moment
// is captured rather than discarded.
func (rv *rampValue) rampAfter(delaySec float64, targetValue float64, duration float64) {
	rv.kind = rampLinear
	rv.delay = int(delaySec * sampleRate)
	rv.duration = duration
	rv.endThreshold = 0
	rv.pos = 0
	rv.initialValue = rv.value
	rv.targetValue = targetValue
}

// expTo anchors the current value and approaches the target exponentially,
// ending once within endThreshold of it.
func (rv *rampValue) expTo(targetValue float64, duration float64, endThreshold float64) {
	rv.kind = rampExponential
	rv.delay = 0
	rv.duration = duration
	rv.endThreshold = endThreshold
	rv.pos = 0
	rv.initialValue = rv.value
	rv.targetValue = targetValue
}

// step advances one sample and reports whether the ramp ended on this step.
func (rv *rampValue) step() bool {
	if rv.kind == rampNone {
		return false
	}
	if rv.delay > 0 {
		rv.delay--
		if rv.delay > 0 {
			return false
		}
		// anchor at start time
		rv.initialValue = rv.value
		rv.pos = 0
	}
	ended := false
	phaseTime := float64(rv.pos) * secPerSample
	switch rv.kind {
	case rampLinear:
		if phaseTime >= rv.duration {
			rv.end()
			ended = true
		} else {
			t := phaseTime / rv.duration
			rv.value = t*rv.targetValue + (1-t)*rv.initialValue
			rv.pos++
		}
	case rampExponential:
		if rv.duration <= 0 {
			rv.end()
			ended = true
			break
		}
		t := phaseTime / rv.duration
		rv.value = setTargetAtTime(rv.initialValue, rv.targetValue, t)
		if math.Abs(rv.value-rv.targetValue) < rv.endThreshold {
			rv.end()
			ended = true
		} else {
			rv.pos++
		}
	}
	return ended
}

func (rv *rampValue) end() {
	rv.kind = rampNone
	rv.value = rv.targetValue
	rv.pos = 0
}

func (rv *rampValue) ramping() bool {
	return rv.kind != rampNone
}

// 63% closer to target when pos=1.0
func setTargetAtTime(initialValue float64, targetValue float64, pos float64) float64 {
	return targetValue + (initialValue-targetValue)*math.Exp(-pos)
}
