package synth

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPresetRoundTrip(t *testing.T) {
	pr := newParams().preset("preset-1", "init")
	data, err := ExportPreset(pr)
	expectNoError(t, err)
	back, err := ImportPreset(data)
	expectNoError(t, err)
	if !reflect.DeepEqual(pr, back) {
		t.Errorf("expected %+v, but got: %+v", pr, back)
	}
}

func TestImportPresetAssignsID(t *testing.T) {
	pr := newParams().preset("", "init")
	data, err := json.Marshal(pr)
	expectNoError(t, err)
	back, err := ImportPreset(data)
	expectNoError(t, err)
	if back.ID == "" {
		t.Errorf("expected a generated id")
	}
}

func TestImportPresetMissingSection(t *testing.T) {
	pr := newParams().preset("preset-1", "init")
	data, err := json.Marshal(map[string]interface{}{
		"id":           pr.ID,
		"name":         pr.Name,
		"synthesis":    pr.Synthesis,
		"masterVolume": pr.MasterVolume,
		// effects deliberately absent
	})
	expectNoError(t, err)
	_, err = ImportPreset(data)
	serr := expectStructuralError(t, err)
	if serr != nil {
		expectEqual(t, serr.Path, "preset.effects")
	}

	_, err = ImportPreset([]byte("{not json"))
	expectStructuralError(t, err)
}

func TestImportPresetCollectsAllViolations(t *testing.T) {
	pr := newParams().preset("preset-1", "init")
	pr.Effects.Compression.Ratio = 25
	pr.MasterVolume = 1.5
	data, err := json.Marshal(pr)
	expectNoError(t, err)
	_, err = ImportPreset(data)
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, but got: %v", err)
	}
	expectEqual(t, len(errs), 2)
}

func TestExportPresetRejectsInvalid(t *testing.T) {
	pr := newParams().preset("preset-1", "init")
	pr.Synthesis.Attack = -1
	_, err := ExportPreset(pr)
	expectError(t, err)
}

func TestPresetStore(t *testing.T) {
	store := newPresetStore(t.TempDir())
	pr := newParams().preset("preset-1", "warm pad")
	expectNoError(t, store.save(pr))

	names, err := store.list()
	expectNoError(t, err)
	expectEqual(t, len(names), 1)
	expectEqual(t, names[0], "warm pad")

	back, err := store.load("warm pad")
	expectNoError(t, err)
	if !reflect.DeepEqual(pr, back) {
		t.Errorf("expected %+v, but got: %+v", pr, back)
	}

	// saving the same name again must not duplicate the index entry
	expectNoError(t, store.save(pr))
	names, err = store.list()
	expectNoError(t, err)
	expectEqual(t, len(names), 1)

	_, err = store.load("missing")
	expectError(t, err)
}
