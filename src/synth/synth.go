package synth

import (
	"encoding/json"
	"math"
	"time"
)

const (
	sampleRate      = 48000
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
	fftSize         = 2048 // multiple of samplesPerCycle
	maxPoly         = 64
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096
const secPerSample = 1.0 / sampleRate
const baseFreq = 440.0
const oscGain = 0.1

const (
	minFreq     = 20.0
	maxFreq     = 20000.0
	maxVelocity = 127
	maxDetune   = 1200.0 // cents
)

// Parameter changes that touch the signal path always ramp; writing a value
// directly is audible as a click.
const (
	paramRampTime    = 0.05 // s
	velocityRampTime = 0.01 // s
)

// ----- Utility ----- //

func now() float64 {
	return float64(time.Now().UnixNano()) / 1000 / 1000 / 1000
}
func positiveMod(a float64, b float64) float64 {
	if b < 0 {
		panic("b should not be negative")
	}
	for a < 0 {
		a += b
	}
	return math.Mod(a, b)
}
func noteToFreq(note int) float64 {
	return baseFreq * math.Pow(2, float64(note-69)/12)
}
func dbToGain(db float64) float64 {
	return math.Pow(10, db/20)
}
func gainToDb(gain float64) float64 {
	if gain <= 0 {
		return -100
	}
	return 20 * math.Log10(gain)
}
func toRawMessage(v interface{}) json.RawMessage {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(bytes)
}

// ----- Engine Event ----- //

// Events are bucketed per sample offset so the render loop resolves them
// deterministically against its own clock.
type engineEvent struct {
	offset float64
	event  interface{}
}

type noteOnEvent struct {
	note     int
	velocity int
}
type noteOffEvent struct {
	note int
}
type stopAllEvent struct{}
