package synth

import (
	"testing"
)

func TestADSRPhases(t *testing.T) {
	p := &adsrParams{attack: 0.001, decay: 0.001, sustain: 0.5, release: 0.001}
	a := newADSR(p)
	expectEqual(t, a.phase, phaseIdle)

	a.noteOn()
	expectEqual(t, a.phase, phaseAttack)
	for i := 0; i < 49; i++ {
		a.step()
	}
	expectEqual(t, a.phase, phaseDecay)
	expectNearlyEqual(t, a.value(), 1)
	for i := 0; i < 49; i++ {
		a.step()
	}
	expectEqual(t, a.phase, phaseSustain)
	expectNearlyEqual(t, a.value(), 0.5)
	for i := 0; i < 100; i++ {
		a.step()
	}
	expectNearlyEqual(t, a.value(), 0.5)

	a.noteOff()
	expectEqual(t, a.phase, phaseRelease)
	for i := 0; i < 49; i++ {
		a.step()
	}
	expectEqual(t, a.phase, phaseIdle)
	expectNearlyEqual(t, a.value(), 0)
}

func TestADSRReleaseMidAttackAnchors(t *testing.T) {
	p := &adsrParams{attack: 0.01, decay: 0.1, sustain: 0.7, release: 0.01}
	a := newADSR(p)
	a.noteOn()
	for i := 0; i < 241; i++ {
		a.step()
	}
	expectNearlyEqual(t, a.value(), 0.5)

	// note-off mid-attack ramps down from the in-progress value, never
	// jumping to 1 first
	a.noteOff()
	prev := a.value()
	for i := 0; i < 481; i++ {
		a.step()
		if a.value() > prev+0.0001 {
			t.Fatalf("envelope rose during release: %v after %v", a.value(), prev)
		}
		prev = a.value()
	}
	expectEqual(t, a.phase, phaseIdle)
	expectNearlyEqual(t, a.value(), 0)
}

func TestADSRParamsValidate(t *testing.T) {
	p := &adsrParams{attack: 0.01, decay: 0.1, sustain: 0.7, release: 0.2}
	expectNoError(t, p.validate())

	err := p.set("sustain", "1.5")
	expectValidationError(t, err)
	expectNearlyEqual(t, p.sustain, 0.7)

	err = p.set("hold", "1")
	expectStructuralError(t, err)

	expectNoError(t, p.set("attack", "0.5"))
	expectNearlyEqual(t, p.attack, 0.5)
}
