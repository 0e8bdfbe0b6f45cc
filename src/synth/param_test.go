package synth

import (
	"testing"
)

func TestParamIDFromPath(t *testing.T) {
	for path, want := range paramPaths {
		id, err := paramIDFromPath(path)
		expectNoError(t, err)
		expectEqual(t, id, want)
		expectEqual(t, id.path(), path)
	}

	_, err := paramIDFromPath("effects.chorus.depth")
	serr := expectStructuralError(t, err)
	if serr != nil {
		expectEqual(t, serr.Path, "effects.chorus.depth")
	}
}

func TestParamsSetValue(t *testing.T) {
	p := newParams()

	expectValidationError(t, p.setValue(paramCompRatio, 25))
	expectNearlyEqual(t, p.compressor.ratio, 4)

	expectNoError(t, p.setValue(paramCompRatio, 8))
	expectNearlyEqual(t, p.getValue(paramCompRatio), 8)

	expectValidationError(t, p.setValue(paramSynthDetune1, 2000))
	expectNearlyEqual(t, p.detune[1], 0)
	expectNoError(t, p.setValue(paramSynthDetune1, 5))
	expectNearlyEqual(t, p.getValue(paramSynthDetune1), 5)

	expectValidationError(t, p.setValue(paramMasterVolume, -0.1))
	expectNoError(t, p.setValue(paramMasterVolume, 0.5))
	expectNearlyEqual(t, p.masterVolume, 0.5)

	expectStructuralError(t, p.setValue(paramUnknown, 1))
}

func TestParamsValidateCollects(t *testing.T) {
	p := newParams()
	p.adsr.attack = -1
	p.reverb.roomSize = 2
	err := p.validate()
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, but got: %v", err)
	}
	expectEqual(t, len(errs), 2)
}
