package synth

// ----- Parameter ID ----- //

// Parameter routing is a closed set of identifiers; dotted paths from the
// control surface are resolved here once, not dispatched on strings deeper
// in the graph.
type paramID int

const (
	paramUnknown paramID = iota
	paramSynthAttack
	paramSynthDecay
	paramSynthSustain
	paramSynthRelease
	paramSynthDetune0
	paramSynthDetune1
	paramSynthDetune2
	paramSatAmount
	paramSatTone
	paramSatDryWet
	paramCompThreshold
	paramCompRatio
	paramCompAttack
	paramCompRelease
	paramCompKnee
	paramCompDryWet
	paramRevDecayTime
	paramRevRoomSize
	paramRevPreDelay
	paramRevTone
	paramRevDryWet
	paramMasterVolume
)

var paramPaths = map[string]paramID{
	"synthesis.attack":              paramSynthAttack,
	"synthesis.decay":               paramSynthDecay,
	"synthesis.sustain":             paramSynthSustain,
	"synthesis.release":             paramSynthRelease,
	"synthesis.detune.0":            paramSynthDetune0,
	"synthesis.detune.1":            paramSynthDetune1,
	"synthesis.detune.2":            paramSynthDetune2,
	"effects.saturation.amount":     paramSatAmount,
	"effects.saturation.tone":       paramSatTone,
	"effects.saturation.dryWet":     paramSatDryWet,
	"effects.compression.threshold": paramCompThreshold,
	"effects.compression.ratio":     paramCompRatio,
	"effects.compression.attack":    paramCompAttack,
	"effects.compression.release":   paramCompRelease,
	"effects.compression.knee":      paramCompKnee,
	"effects.compression.dryWet":    paramCompDryWet,
	"effects.reverb.decayTime":      paramRevDecayTime,
	"effects.reverb.roomSize":       paramRevRoomSize,
	"effects.reverb.preDelay":       paramRevPreDelay,
	"effects.reverb.tone":           paramRevTone,
	"effects.reverb.dryWet":         paramRevDryWet,
	"master.volume":                 paramMasterVolume,
}

var paramNames = func() map[paramID]string {
	m := make(map[paramID]string, len(paramPaths))
	for path, id := range paramPaths {
		m[id] = path
	}
	return m
}()

func paramIDFromPath(path string) (paramID, error) {
	id, ok := paramPaths[path]
	if !ok {
		return paramUnknown, &StructuralError{Path: path, Reason: "unknown parameter path"}
	}
	return id, nil
}

func (id paramID) path() string {
	return paramNames[id]
}

// ParameterChange is the message a control surface pushes at the engine.
type ParameterChange struct {
	ID    paramID
	Value float64
}
