package synth

// ----- Voice State ----- //

// A voice is single-shot: its oscillators cannot be restarted once stopped.
// Trigger is only legal from idle; re-use requires a new voice instance.
const (
	voiceIdle = iota
	voiceSounding
	voiceReleasing
	voiceDisposed
)

// ----- Voice ----- //

type voice struct {
	state    int
	freq     float64 // nominal, Hz
	velocity int
	bank     *oscBank
	adsr     *adsr
	gain     *rampValue // velocity-derived
}

func velocityToGain(velocity int) float64 {
	v := float64(velocity) / maxVelocity
	return v * v
}

func newVoice(kind int, freq float64, velocity int, detune []float64, envelope *adsrParams) (*voice, error) {
	if err := validateRange("frequency", freq, minFreq, maxFreq); err != nil {
		return nil, err
	}
	if err := validateRange("velocity", float64(velocity), 0, maxVelocity); err != nil {
		return nil, err
	}
	cents, err := validateDetune(detune)
	if err != nil {
		return nil, err
	}
	if err := envelope.validate(); err != nil {
		return nil, err
	}
	return &voice{
		state:    voiceIdle,
		freq:     freq,
		velocity: velocity,
		bank:     newOscBank(kind, freq, cents),
		adsr:     newADSR(envelope),
		gain:     newRampValue(velocityToGain(velocity)),
	}, nil
}

func validateDetune(detune []float64) ([bankSize]float64, error) {
	var cents [bankSize]float64
	if len(detune) != bankSize {
		return cents, &StructuralError{
			Path:   "detune",
			Reason: "length must equal oscillator count",
		}
	}
	for i, c := range detune {
		if err := validateRange("detune", c, -maxDetune, maxDetune); err != nil {
			return cents, err
		}
		cents[i] = c
	}
	return cents, nil
}

// trigger starts the envelope. A second trigger is ignored with a warning:
// the underlying oscillators cannot restart, so the voice keeps sounding
// exactly as it was.
func (v *voice) trigger() {
	if v.state != voiceIdle {
		warn("voice already triggered, ignoring")
		return
	}
	v.state = voiceSounding
	v.adsr.noteOn()
}

// release anchors the current envelope gain and ramps to zero over the
// release time. Idempotent while already releasing.
func (v *voice) release() {
	if v.state != voiceSounding {
		return
	}
	v.state = voiceReleasing
	v.adsr.noteOff()
}

func (v *voice) setFrequency(freq float64) error {
	if err := validateRange("frequency", freq, minFreq, maxFreq); err != nil {
		return err
	}
	v.freq = freq
	v.bank.setFrequency(freq, paramRampTime)
	return nil
}

func (v *voice) setVelocity(velocity int) error {
	if err := validateRange("velocity", float64(velocity), 0, maxVelocity); err != nil {
		return err
	}
	v.velocity = velocity
	v.gain.expTo(velocityToGain(velocity), velocityRampTime, 0.0001)
	return nil
}

func (v *voice) setDetune(detune []float64) error {
	cents, err := validateDetune(detune)
	if err != nil {
		return err
	}
	v.bank.setDetune(cents, paramRampTime)
	return nil
}

func (v *voice) isPlaying() bool {
	return v.state == voiceSounding || v.state == voiceReleasing
}

func (v *voice) step() float64 {
	if v.state == voiceIdle || v.state == voiceDisposed {
		return 0
	}
	v.gain.step()
	env := v.adsr.step()
	out := v.bank.step() * oscGain * env * v.gain.value
	if v.state == voiceReleasing && v.adsr.phase == phaseIdle {
		v.state = voiceDisposed
	}
	return out
}
