package synth

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/hajimehoshi/oto"
)

// ----- Changes ----- //

// Changes collects dirty flags for the control surface to poll.
type Changes struct {
	sync.Mutex
	dict map[string]struct{}
}

// Add ...
func (c *Changes) Add(key string) {
	c.Lock()
	c.dict[key] = struct{}{}
	c.Unlock()
}

// Has ...
func (c *Changes) Has(key string) bool {
	c.Lock()
	_, ok := c.dict[key]
	c.Unlock()
	return ok
}

// Delete ...
func (c *Changes) Delete(key string) {
	c.Lock()
	delete(c.dict, key)
	c.Unlock()
}

// ----- State ----- //

type state struct {
	sync.Mutex
	events   [][]*engineEvent // length: samplesPerCycle * 2
	params   *params
	vm       *voiceManager
	pos      int64
	out      []float64 // length: fftSize
	lastRead float64
}

func newState() *state {
	p := newParams()
	return &state{
		events: make([][]*engineEvent, samplesPerCycle*2),
		params: p,
		vm:     newVoiceManager(p),
		pos:    0,
		out:    make([]float64, fftSize),
	}
}

// renderBlock renders len(out) samples, resolving queued events at their
// sample offsets, then shifts the event buckets.
func (s *state) renderBlock(out []float64) {
	s.vm.calc(s.events, s.params, out)
	n := len(out)
	copy(s.events, s.events[n:])
	for i := len(s.events) - n; i < len(s.events); i++ {
		s.events[i] = nil
	}
}

// ----- Engine ----- //

var fft = newFFT(fftSize)

// Engine is the polyphonic synthesis and effects engine. The host audio
// driver pulls samples through io.Reader; control callers validate and
// enqueue changes, the render side resolves them at block boundaries.
type Engine struct {
	ctx        context.Context
	otoContext *oto.Context
	CommandCh  chan []string
	Changes    *Changes
	state      *state
	presets    *presetStore
	fftResult  []float64 // length: fftSize
}

var _ io.Reader = (*Engine)(nil)

// NewEngine creates an engine. The audio device is not opened until Start,
// so an engine is fully usable offline (tests, WAV rendering).
func NewEngine(presetDir string) *Engine {
	commandCh := make(chan []string, 256)
	e := &Engine{
		ctx:       context.Background(),
		CommandCh: commandCh,
		Changes: &Changes{
			dict: make(map[string]struct{}),
		},
		state:     newState(),
		presets:   newPresetStore(presetDir),
		fftResult: make([]float64, fftSize),
	}
	go processCommands(e, commandCh)
	return e
}

func processCommands(e *Engine, commandCh <-chan []string) {
	for command := range commandCh {
		if err := e.update(command); err != nil {
			log.Printf("command %v failed: %v", command, err)
		}
	}
	log.Println("processCommands() ended.")
}

func (e *Engine) Read(buf []byte) (int, error) {
	select {
	case <-e.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
		e.state.Lock()
		defer e.state.Unlock()
		timestamp := now()
		bufSamples := int64(len(buf) / bytesPerSample)

		offset := e.state.pos % fftSize
		out := e.state.out[offset : offset+bufSamples]
		e.state.renderBlock(out)
		writeBuffer(e.state.out, offset, buf, 0)
		writeBuffer(e.state.out, offset, buf, 1)
		e.state.pos += bufSamples
		e.state.lastRead = timestamp
		return len(buf), nil
	}
}

func writeBuffer(out []float64, outOffset int64, buf []byte, ch int) {
	sampleLength := int(len(buf) / bytesPerSample)
	for i := 0; i < sampleLength; i++ {
		value := out[outOffset+int64(i)]
		switch bitDepthInBytes {
		case 1:
			const max = 127
			b := int(value * max)
			buf[bytesPerSample*i+ch] = byte(b + 128)
		case 2:
			const max = 32767
			b := int16(value * max)
			buf[bytesPerSample*i+2*ch] = byte(b)
			buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
		}
	}
}

// Start opens the audio device and blocks until the context is canceled.
func (e *Engine) Start(ctx context.Context) error {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return err
	}
	e.otoContext = otoContext
	p := otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	e.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, e, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

// Close ...
func (e *Engine) Close() error {
	log.Println("Closing Engine...")
	close(e.CommandCh)
	if e.otoContext != nil {
		return e.otoContext.Close()
	}
	return nil
}

// ----- Note commands ----- //

// NoteOn validates and schedules a fresh voice for the note. A voice already
// sounding on the same note tails off independently.
func (e *Engine) NoteOn(note int, velocity int) error {
	if err := validateRange("note", float64(note), 0, 127); err != nil {
		return err
	}
	if err := validateRange("frequency", noteToFreq(note), minFreq, maxFreq); err != nil {
		return err
	}
	if err := validateRange("velocity", float64(velocity), 0, maxVelocity); err != nil {
		return err
	}
	e.state.Lock()
	defer e.state.Unlock()
	e.addEvent(&noteOnEvent{note: note, velocity: velocity})
	return nil
}

// NoteOff schedules release for every voice on the note; removal from the
// active set follows once the release tail is done.
func (e *Engine) NoteOff(note int) error {
	if err := validateRange("note", float64(note), 0, 127); err != nil {
		return err
	}
	e.state.Lock()
	defer e.state.Unlock()
	e.addEvent(&noteOffEvent{note: note})
	return nil
}

// StopAll releases every sounding voice.
func (e *Engine) StopAll() {
	e.state.Lock()
	defer e.state.Unlock()
	e.addEvent(&stopAllEvent{})
}

// ----- Parameters ----- //

// SetParameter validates and applies a dotted-path parameter change. The
// parameter state updates synchronously; the audible ramp starts on the
// next rendered block.
func (e *Engine) SetParameter(path string, value float64) error {
	id, err := paramIDFromPath(path)
	if err != nil {
		return err
	}
	e.state.Lock()
	defer e.state.Unlock()
	if err := e.state.params.setValue(id, value); err != nil {
		return err
	}
	e.addEvent(&ParameterChange{ID: id, Value: value})
	e.Changes.Add("data")
	return nil
}

// SetWave selects the waveform for future voices.
func (e *Engine) SetWave(kind string) {
	e.state.Lock()
	defer e.state.Unlock()
	e.state.params.wave = waveKindFromString(kind)
	e.Changes.Add("data")
}

// State is a point-in-time snapshot for control surfaces.
type State struct {
	Wave         string
	Synthesis    SynthesisPreset
	Effects      EffectsPreset
	MasterVolume float64
	ActiveVoices int
	ReductionDb  float64
}

// GetState ...
func (e *Engine) GetState() State {
	e.state.Lock()
	defer e.state.Unlock()
	pr := e.state.params.preset("", "")
	return State{
		Wave:         waveKindToString(e.state.params.wave),
		Synthesis:    pr.Synthesis,
		Effects:      pr.Effects,
		MasterVolume: pr.MasterVolume,
		ActiveVoices: e.state.vm.voiceCount(),
		ReductionDb:  e.state.vm.compressor.reduction(),
	}
}

// ----- Presets ----- //

// ApplyPreset validates the whole preset first and only mutates state when
// every field passes; the live graph picks the changes up on ramps.
func (e *Engine) ApplyPreset(pr *Preset) error {
	if err := pr.Validate(); err != nil {
		return err
	}
	e.state.Lock()
	defer e.state.Unlock()
	p := e.state.params
	adsr, detune := pr.synthParams()
	*p.adsr = *adsr
	copy(p.detune[:], detune)
	sat, comp, rev := pr.effectParams()
	*p.saturation = *sat
	*p.compressor = *comp
	*p.reverb = *rev
	p.masterVolume = pr.MasterVolume
	e.state.vm.applyAll(p)
	e.Changes.Add("data")
	return nil
}

// CurrentPreset captures the parameter state as a named preset.
func (e *Engine) CurrentPreset(name string) *Preset {
	e.state.Lock()
	defer e.state.Unlock()
	return e.state.params.preset(generatePresetID(), name)
}

// LoadPreset reads a preset from the store and applies it atomically.
func (e *Engine) LoadPreset(name string) error {
	pr, err := e.presets.load(name)
	if err != nil {
		return err
	}
	return e.ApplyPreset(pr)
}

// SavePreset writes the current parameter state to the store.
func (e *Engine) SavePreset(name string) error {
	return e.presets.save(e.CurrentPreset(name))
}

// ListPresets ...
func (e *Engine) ListPresets() ([]string, error) {
	return e.presets.list()
}

// ----- JSON state sync ----- //

// ToJSON dumps the parameter state for control surfaces.
func (e *Engine) ToJSON() []byte {
	e.state.Lock()
	defer e.state.Unlock()
	return []byte(e.state.params.toJSON())
}

// ApplyJSON restores a parameter dump produced by ToJSON.
func (e *Engine) ApplyJSON(data []byte) {
	e.state.Lock()
	defer e.state.Unlock()
	e.state.params.applyJSON(data)
	e.state.vm.applyAll(e.state.params)
}

// ----- Offline rendering ----- //

// Render produces seconds of output without an audio device, honoring any
// notes and parameter changes already scheduled.
func (e *Engine) Render(seconds float64) []float64 {
	e.state.Lock()
	defer e.state.Unlock()
	total := int(seconds * sampleRate)
	out := make([]float64, 0, total)
	block := make([]float64, samplesPerCycle)
	for len(out) < total {
		e.state.renderBlock(block)
		out = append(out, block...)
	}
	return out[:total]
}

// RenderBlock renders one block into the ring buffer, advancing the engine
// clock the way the audio callback does.
func (e *Engine) RenderBlock() []float64 {
	e.state.Lock()
	defer e.state.Unlock()
	offset := e.state.pos % fftSize
	out := e.state.out[offset : offset+samplesPerCycle]
	e.state.renderBlock(out)
	e.state.pos += samplesPerCycle
	e.state.lastRead = now()
	return out
}

// ----- Spectrum ----- //

// Spectrum returns the magnitude spectrum of the most recent output for
// metering.
func (e *Engine) Spectrum() []float64 {
	e.state.Lock()
	// out:       | 4 | 1 | 2 | 3 |
	// offset:        ^
	// fftResult: | 1 | 2 | 3 | 4 |
	// return:    |<----->|
	offset := e.state.pos % fftSize
	copy(e.fftResult, e.state.out[offset:])
	copy(e.fftResult[fftSize-offset:], e.state.out[:offset])
	e.state.Unlock()
	applyHanWindow(e.fftResult)
	fft.calcAbs(e.fftResult)
	for i, value := range e.fftResult {
		e.fftResult[i] = value * 2 / fftSize
	}
	return e.fftResult[:fftSize/2]
}

// ----- MIDI ----- //

// AddMidiEvent feeds a raw MIDI message into the note command interface.
func (e *Engine) AddMidiEvent(data []byte) {
	if len(data) < 3 {
		return
	}
	e.state.Lock()
	defer e.state.Unlock()
	if data[0]>>4 == 8 || data[0]>>4 == 9 && data[2] == 0 {
		e.addEvent(&noteOffEvent{note: int(data[1])})
	} else if data[0]>>4 == 9 && data[2] > 0 {
		e.addEvent(&noteOnEvent{note: int(data[1]), velocity: int(data[2])})
	}
}

func (e *Engine) addEvent(event interface{}) {
	offset := now() - e.state.lastRead
	index := int(offset / secPerSample)
	if index < 0 {
		warn("index < 0")
		index = 0
	}
	if index >= len(e.state.events) {
		warn("index >= event length")
		index = len(e.state.events) - 1
	}
	e.state.events[index] = append(e.state.events[index], &engineEvent{offset: offset, event: event})
}
