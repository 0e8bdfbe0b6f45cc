package synth

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"time"
)

// ----- Preset ----- //

// Preset is the persisted form consumed and produced at the engine boundary.
// Import validates with the same rules as the live setters; apply is
// all-or-nothing.
type Preset struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Synthesis    SynthesisPreset `json:"synthesis"`
	Effects      EffectsPreset   `json:"effects"`
	MasterVolume float64         `json:"masterVolume"`
}

type SynthesisPreset struct {
	Detune  []float64 `json:"detune"`
	Attack  float64   `json:"attack"`
	Decay   float64   `json:"decay"`
	Sustain float64   `json:"sustain"`
	Release float64   `json:"release"`
}

type EffectsPreset struct {
	Saturation  SaturationPreset  `json:"saturation"`
	Compression CompressionPreset `json:"compression"`
	Reverb      ReverbPreset      `json:"reverb"`
}

type SaturationPreset struct {
	Amount float64 `json:"amount"`
	Tone   float64 `json:"tone"`
	DryWet float64 `json:"dryWet"`
}

type CompressionPreset struct {
	Threshold float64 `json:"threshold"`
	Ratio     float64 `json:"ratio"`
	Attack    float64 `json:"attack"`
	Release   float64 `json:"release"`
	Knee      float64 `json:"knee"`
	DryWet    float64 `json:"dryWet"`
}

type ReverbPreset struct {
	DecayTime float64 `json:"decayTime"`
	RoomSize  float64 `json:"roomSize"`
	PreDelay  float64 `json:"preDelay"`
	Tone      float64 `json:"tone"`
	DryWet    float64 `json:"dryWet"`
}

func (pr *Preset) synthParams() (*adsrParams, []float64) {
	return &adsrParams{
		attack:  pr.Synthesis.Attack,
		decay:   pr.Synthesis.Decay,
		sustain: pr.Synthesis.Sustain,
		release: pr.Synthesis.Release,
	}, pr.Synthesis.Detune
}

func (pr *Preset) effectParams() (*saturationParams, *compressorParams, *reverbParams) {
	sat := &saturationParams{
		amount: pr.Effects.Saturation.Amount,
		tone:   pr.Effects.Saturation.Tone,
		dryWet: pr.Effects.Saturation.DryWet,
	}
	comp := &compressorParams{
		threshold: pr.Effects.Compression.Threshold,
		ratio:     pr.Effects.Compression.Ratio,
		attack:    pr.Effects.Compression.Attack,
		release:   pr.Effects.Compression.Release,
		knee:      pr.Effects.Compression.Knee,
		dryWet:    pr.Effects.Compression.DryWet,
	}
	rev := &reverbParams{
		decayTime: pr.Effects.Reverb.DecayTime,
		roomSize:  pr.Effects.Reverb.RoomSize,
		preDelay:  pr.Effects.Reverb.PreDelay,
		tone:      pr.Effects.Reverb.Tone,
		dryWet:    pr.Effects.Reverb.DryWet,
	}
	return sat, comp, rev
}

// Validate checks every field against the same ranges the live setters use.
// All violations are reported, not just the first.
func (pr *Preset) Validate() error {
	var errs ValidationErrors
	adsr, detune := pr.synthParams()
	if _, err := validateDetune(detune); err != nil {
		errs = append(errs, err)
	}
	if err := adsr.validate(); err != nil {
		errs = append(errs, err)
	}
	sat, comp, rev := pr.effectParams()
	if err := sat.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := comp.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := rev.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := validateRange("masterVolume", pr.MasterVolume, 0, 1); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// presetShadow detects structurally missing sections before values are read.
type presetShadow struct {
	ID        *string          `json:"id"`
	Name      *string          `json:"name"`
	Synthesis *SynthesisPreset `json:"synthesis"`
	Effects   *EffectsPreset   `json:"effects"`
	Master    *float64         `json:"masterVolume"`
}

func generatePresetID() string {
	return fmt.Sprintf("preset-%x", time.Now().UnixNano())
}

// ImportPreset parses and fully validates a persisted preset. The returned
// preset is safe to apply; a nil preset means nothing was mutated.
func ImportPreset(data []byte) (*Preset, error) {
	var shadow presetShadow
	if err := json.Unmarshal(data, &shadow); err != nil {
		return nil, &StructuralError{Path: "preset", Reason: err.Error()}
	}
	if shadow.Name == nil {
		return nil, &StructuralError{Path: "preset.name", Reason: "missing required field"}
	}
	if shadow.Synthesis == nil {
		return nil, &StructuralError{Path: "preset.synthesis", Reason: "missing required field"}
	}
	if shadow.Effects == nil {
		return nil, &StructuralError{Path: "preset.effects", Reason: "missing required field"}
	}
	if shadow.Master == nil {
		return nil, &StructuralError{Path: "preset.masterVolume", Reason: "missing required field"}
	}
	pr := &Preset{
		Name:         *shadow.Name,
		Synthesis:    *shadow.Synthesis,
		Effects:      *shadow.Effects,
		MasterVolume: *shadow.Master,
	}
	if shadow.ID != nil && *shadow.ID != "" {
		pr.ID = *shadow.ID
	} else {
		pr.ID = generatePresetID()
	}
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	return pr, nil
}

// ExportPreset serializes a preset after validating it. Round-trips exactly
// through ImportPreset.
func ExportPreset(pr *Preset) ([]byte, error) {
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	out := *pr
	if out.ID == "" {
		out.ID = generatePresetID()
	}
	return json.Marshal(&out)
}

// ----- Preset Store ----- //

type presetMetaJSON struct {
	Name string `json:"name"`
}
type presetMetaListJSON struct {
	Items []presetMetaJSON `json:"items"`
}

type presetStore struct {
	dir string
}

func newPresetStore(dir string) *presetStore {
	return &presetStore{dir: dir}
}

func (ps *presetStore) list() ([]string, error) {
	bytes, err := ioutil.ReadFile(filepath.Join(ps.dir, "_list.json"))
	if err != nil {
		return nil, err
	}
	metaList := &presetMetaListJSON{}
	if err := json.Unmarshal(bytes, metaList); err != nil {
		return nil, err
	}
	names := make([]string, len(metaList.Items))
	for i, item := range metaList.Items {
		names[i] = item.Name
	}
	return names, nil
}

func (ps *presetStore) load(name string) (*Preset, error) {
	bytes, err := ioutil.ReadFile(filepath.Join(ps.dir, name+".json"))
	if err != nil {
		return nil, err
	}
	return ImportPreset(bytes)
}

func (ps *presetStore) save(pr *Preset) error {
	data, err := ExportPreset(pr)
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(filepath.Join(ps.dir, pr.Name+".json"), data, 0644); err != nil {
		return err
	}
	names, err := ps.list()
	if err != nil {
		names = nil
	}
	for _, n := range names {
		if n == pr.Name {
			return nil
		}
	}
	names = append(names, pr.Name)
	metaList := &presetMetaListJSON{Items: make([]presetMetaJSON, len(names))}
	for i, n := range names {
		metaList.Items[i] = presetMetaJSON{Name: n}
	}
	bytes, err := json.Marshal(metaList)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filepath.Join(ps.dir, "_list.json"), bytes, 0644)
}
