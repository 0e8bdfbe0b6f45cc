package synth

// ----- Voice Manager ----- //

// voiceManager owns voice lifecycle per note id, applies the effects chain
// once on the mixed signal and tracks the master gain. Per note the states
// are: absent -> sounding (trigger) -> releasing (release) -> absent once
// the release tail has finished.
type voiceManager struct {
	activeVoices map[int][]*voice
	saturation   *saturation
	compressor   *compressor
	reverb       *reverb
	masterGain   *rampValue
}

func newVoiceManager(p *params) *voiceManager {
	return &voiceManager{
		activeVoices: make(map[int][]*voice),
		saturation:   newSaturation(p.saturation),
		compressor:   newCompressor(p.compressor),
		reverb:       newReverb(p.reverb),
		masterGain:   newRampValue(p.masterVolume),
	}
}

func (vm *voiceManager) voiceCount() int {
	n := 0
	for _, vs := range vm.activeVoices {
		n += len(vs)
	}
	return n
}

// noteOn creates a fresh voice for the note. An earlier voice on the same
// note is left to finish its own envelope; voices are independent graph
// objects, not shared resources.
func (vm *voiceManager) noteOn(p *params, note int, velocity int) {
	if vm.voiceCount() >= maxPoly {
		warn("maxPoly exceeded")
		return
	}
	v, err := newVoice(p.wave, noteToFreq(note), velocity, p.detune[:], p.adsr)
	if err != nil {
		// control thread validates before enqueueing; this is a backstop
		warn("dropped note %d: %v", note, err)
		return
	}
	v.trigger()
	vm.activeVoices[note] = append(vm.activeVoices[note], v)
}

func (vm *voiceManager) noteOff(note int) {
	for _, v := range vm.activeVoices[note] {
		v.release()
	}
}

func (vm *voiceManager) stopAll() {
	for _, vs := range vm.activeVoices {
		for _, v := range vs {
			v.release()
		}
	}
}

// applyChange routes an already-validated parameter mutation into the live
// graph. Everything audible moves on a ramp.
func (vm *voiceManager) applyChange(p *params, id paramID) {
	switch id {
	case paramSynthAttack, paramSynthDecay, paramSynthSustain, paramSynthRelease:
		// envelope template: affects future voices only
	case paramSynthDetune0, paramSynthDetune1, paramSynthDetune2:
		for _, vs := range vm.activeVoices {
			for _, v := range vs {
				if err := v.setDetune(p.detune[:]); err != nil {
					warn("detune not applied: %v", err)
				}
			}
		}
	case paramSatAmount, paramSatTone, paramSatDryWet:
		vm.saturation.applyParams(p.saturation)
	case paramCompThreshold, paramCompRatio, paramCompAttack, paramCompRelease, paramCompKnee, paramCompDryWet:
		vm.compressor.applyParams(p.compressor)
	case paramRevDecayTime, paramRevRoomSize, paramRevPreDelay, paramRevTone, paramRevDryWet:
		vm.reverb.applyParams(p.reverb)
	case paramMasterVolume:
		vm.masterGain.rampTo(p.masterVolume, paramRampTime)
	}
}

// applyAll pushes the whole parameter state into the graph (preset apply).
func (vm *voiceManager) applyAll(p *params) {
	for _, vs := range vm.activeVoices {
		for _, v := range vs {
			if err := v.setDetune(p.detune[:]); err != nil {
				warn("detune not applied: %v", err)
			}
		}
	}
	vm.saturation.applyParams(p.saturation)
	vm.compressor.applyParams(p.compressor)
	vm.reverb.applyParams(p.reverb)
	vm.masterGain.rampTo(p.masterVolume, paramRampTime)
}

func (vm *voiceManager) calc(events [][]*engineEvent, p *params, out []float64) {
	for i := int64(0); i < int64(len(out)); i++ {
		for _, e := range events[i] {
			switch data := e.event.(type) {
			case *noteOnEvent:
				vm.noteOn(p, data.note, data.velocity)
			case *noteOffEvent:
				vm.noteOff(data.note)
			case *stopAllEvent:
				vm.stopAll()
			case *ParameterChange:
				vm.applyChange(p, data.ID)
			}
		}
		value := 0.0
		for _, vs := range vm.activeVoices {
			for _, v := range vs {
				value += v.step()
			}
		}
		value = vm.saturation.step(value)
		value = vm.compressor.step(value)
		value = vm.reverb.step(value)
		vm.masterGain.step()
		out[i] = value * vm.masterGain.value
	}
	vm.sweep()
}

// sweep removes voices whose release tail has finished. Disposal happens at
// block boundaries, never mid-render.
func (vm *voiceManager) sweep() {
	for note, vs := range vm.activeVoices {
		kept := vs[:0]
		for _, v := range vs {
			if v.state != voiceDisposed {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			delete(vm.activeVoices, note)
		} else {
			vm.activeVoices[note] = kept
		}
	}
}
