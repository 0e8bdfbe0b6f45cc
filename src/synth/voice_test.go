package synth

import (
	"testing"
)

var testEnvelope = &adsrParams{attack: 0.001, decay: 0.001, sustain: 0.7, release: 0.001}

func TestNewVoiceValidation(t *testing.T) {
	detune := []float64{-7, 0, 7}

	_, err := newVoice(waveSine, 10, 100, detune, testEnvelope)
	expectValidationError(t, err)

	_, err = newVoice(waveSine, 440, 200, detune, testEnvelope)
	expectValidationError(t, err)

	_, err = newVoice(waveSine, 440, 100, []float64{0, 0}, testEnvelope)
	expectStructuralError(t, err)

	_, err = newVoice(waveSine, 440, 100, []float64{0, 0, 2000}, testEnvelope)
	expectValidationError(t, err)

	_, err = newVoice(waveSine, 440, 100, detune, &adsrParams{attack: -1})
	expectValidationError(t, err)

	_, err = newVoice(waveSine, 440, 100, detune, testEnvelope)
	expectNoError(t, err)
}

func TestVoiceDoubleTrigger(t *testing.T) {
	v, err := newVoice(waveSine, 440, 100, []float64{-7, 0, 7}, testEnvelope)
	expectNoError(t, err)
	v.trigger()
	expectEqual(t, v.state, voiceSounding)
	// a second trigger is ignored; the voice keeps sounding as it was
	v.trigger()
	expectEqual(t, v.state, voiceSounding)
	expectEqual(t, v.isPlaying(), true)
}

func TestVoiceLifecycle(t *testing.T) {
	v, err := newVoice(waveSaw, 440, 100, []float64{-7, 0, 7}, testEnvelope)
	expectNoError(t, err)
	expectEqual(t, v.isPlaying(), false)
	expectNearlyEqual(t, v.step(), 0)

	v.trigger()
	sounded := false
	for i := 0; i < 200; i++ {
		if v.step() != 0 {
			sounded = true
		}
	}
	expectEqual(t, sounded, true)
	expectEqual(t, v.isPlaying(), true)

	v.release()
	expectEqual(t, v.state, voiceReleasing)
	v.release() // idempotent
	expectEqual(t, v.state, voiceReleasing)
	for i := 0; i < sampleRate && v.state != voiceDisposed; i++ {
		v.step()
	}
	expectEqual(t, v.state, voiceDisposed)
	expectEqual(t, v.isPlaying(), false)
	expectNearlyEqual(t, v.step(), 0)
}

func TestVoiceSetters(t *testing.T) {
	v, err := newVoice(waveSine, 440, 100, []float64{-7, 0, 7}, testEnvelope)
	expectNoError(t, err)

	expectValidationError(t, v.setFrequency(50000))
	expectNearlyEqual(t, v.freq, 440)
	expectNoError(t, v.setFrequency(880))
	expectNearlyEqual(t, v.freq, 880)

	expectValidationError(t, v.setVelocity(-1))
	expectEqual(t, v.velocity, 100)
	expectNoError(t, v.setVelocity(64))
	expectEqual(t, v.velocity, 64)

	expectStructuralError(t, v.setDetune([]float64{0}))
	expectNoError(t, v.setDetune([]float64{-12, 0, 12}))
}

func TestVoiceFrequencySpam(t *testing.T) {
	v, err := newVoice(waveSine, 440, 100, []float64{-7, 0, 7}, testEnvelope)
	expectNoError(t, err)
	v.trigger()
	for i := 0; i < 100; i++ {
		expectNoError(t, v.setFrequency(200+float64(i)))
		v.step()
	}
	expectNoError(t, v.setFrequency(880))
	// let the 50ms ramp finish; the last request wins
	for i := 0; i < 3*sampleRate/50; i++ {
		v.step()
	}
	for _, o := range v.bank.oscs {
		expectNearlyEqual(t, o.freq.value, 880)
	}
}

func TestVelocityToGain(t *testing.T) {
	expectNearlyEqual(t, velocityToGain(0), 0)
	expectNearlyEqual(t, velocityToGain(127), 1)
	if velocityToGain(64) >= velocityToGain(100) {
		t.Errorf("expected gain to grow with velocity")
	}
}
